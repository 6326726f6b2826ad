package order

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func newTestRouter() http.Handler {
	svc := &Service{Store: newMemStore(), Logger: zerolog.Nop()}
	return Handlers{Service: svc}.Routes()
}

func TestHandlersCreateAndFetch(t *testing.T) {
	router := newTestRouter()

	body := `{"customer":{"name":"Pedro Ramírez","phone":"5588776655"},
		"vehicle":{"brand":"Mazda","model":"3","year":2021,"plate":"XYZ987"}}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))
	require.Equal(t, StatusReception, created.Status)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+created.ID, nil))
	require.Equal(t, http.StatusOK, rr.Code)
}

func TestHandlersMalformedBodyIs400(t *testing.T) {
	router := newTestRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json")))
	require.Equal(t, http.StatusBadRequest, rr.Code)

	var payload struct {
		Error struct {
			Code    string `json:"code"`
			Message string `json:"message"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.Equal(t, "BAD_REQUEST", payload.Error.Code)
	require.NotEmpty(t, payload.Error.Message)
}

func TestHandlersInvalidIntakeIs422WithMessages(t *testing.T) {
	router := newTestRouter()

	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"customer":{},"vehicle":{}}`)))
	require.Equal(t, http.StatusUnprocessableEntity, rr.Code)

	var payload struct {
		Error struct {
			Details []string `json:"details"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &payload))
	require.NotEmpty(t, payload.Error.Details)
}

func TestHandlersListSetsTotalHeader(t *testing.T) {
	router := newTestRouter()

	body := `{"customer":{"name":"Lucía Fernández","phone":"5511223344"},
		"vehicle":{"brand":"Honda","model":"Civic","year":2018,"plate":"JKL456"}}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	require.Equal(t, "1", rr.Header().Get("X-Total-Count"))
}

func TestHandlersDelete(t *testing.T) {
	router := newTestRouter()

	body := `{"customer":{"name":"Jorge Luna","phone":"5599887766"},
		"vehicle":{"brand":"VW","model":"Jetta","year":2020,"plate":"QWE123"}}`
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodPost, "/", strings.NewReader(body)))
	require.Equal(t, http.StatusCreated, rr.Code)

	var created Order
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodDelete, "/"+created.ID, nil))
	require.Equal(t, http.StatusNoContent, rr.Code)

	rr = httptest.NewRecorder()
	router.ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/"+created.ID, nil))
	require.Equal(t, http.StatusNotFound, rr.Code)
}
