package common

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClassifyStatusKnownCodes(t *testing.T) {
	cases := []struct {
		status int
		code   string
	}{
		{http.StatusBadRequest, "BAD_REQUEST"},
		{http.StatusUnauthorized, "UNAUTHORIZED"},
		{http.StatusForbidden, "FORBIDDEN"},
		{http.StatusNotFound, "NOT_FOUND"},
		{http.StatusUnprocessableEntity, "UNPROCESSABLE"},
		{http.StatusInternalServerError, "INTERNAL"},
		{http.StatusBadGateway, "BAD_GATEWAY"},
		{http.StatusServiceUnavailable, "UNAVAILABLE"},
	}
	for _, tc := range cases {
		appErr := ClassifyStatus(tc.status, errors.New("upstream"))
		require.Equal(t, tc.code, appErr.Code)
		require.Equal(t, tc.status, appErr.HTTPStatus)
		require.NotEmpty(t, appErr.Message)
	}
}

func TestClassifyStatusUnknownFallsBack(t *testing.T) {
	appErr := ClassifyStatus(http.StatusTeapot, nil)
	require.Equal(t, "UNEXPECTED", appErr.Code)
	require.Equal(t, http.StatusBadGateway, appErr.HTTPStatus)
}

func TestFieldErrorMessagesStableOrderAndFriendlyNames(t *testing.T) {
	msgs := FieldErrorMessages(map[string]string{
		"vehicle.plate": "es obligatorio",
		"customer.name": "es obligatorio",
		"unknown_field": "inválido",
	})
	require.Equal(t, []string{
		"nombre del cliente: es obligatorio",
		"unknown_field: inválido",
		"placas del vehículo: es obligatorio",
	}, msgs)
}

func TestAppErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	appErr := NewAppError("INTERNAL", "fail", http.StatusInternalServerError, inner)
	require.ErrorIs(t, appErr, inner)
	require.True(t, IsAppError(appErr))
}
