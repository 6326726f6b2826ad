package common

import (
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"
)

// AppError represents an error with an attached code and HTTP status.
type AppError struct {
	Code       string
	Message    string
	HTTPStatus int
	Err        error
	Details    any
}

// Error implements the error interface.
func (e *AppError) Error() string {
	if e == nil {
		return ""
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Message
}

// Unwrap allows errors.Is/As to inspect the underlying error.
func (e *AppError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// NewAppError constructs an AppError.
func NewAppError(code, message string, status int, err error) *AppError {
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// IsAppError checks whether the error is an AppError.
func IsAppError(err error) bool {
	var target *AppError
	return errors.As(err, &target)
}

// statusMessages maps upstream HTTP statuses to the user-facing messages the
// admin UI shows. Statuses outside the table fall back to a generic message.
var statusMessages = map[int]string{
	http.StatusBadRequest:          "La solicitud contiene datos inválidos.",
	http.StatusUnauthorized:        "La sesión expiró, inicia sesión de nuevo.",
	http.StatusForbidden:           "No tienes permiso para realizar esta acción.",
	http.StatusNotFound:            "El recurso solicitado no existe.",
	http.StatusUnprocessableEntity: "Los datos enviados no pudieron procesarse.",
	http.StatusInternalServerError: "Ocurrió un error en el servidor.",
	http.StatusBadGateway:          "El servicio no está disponible por el momento.",
	http.StatusServiceUnavailable:  "El servicio está en mantenimiento, intenta más tarde.",
}

var statusCodes = map[int]string{
	http.StatusBadRequest:          "BAD_REQUEST",
	http.StatusUnauthorized:        "UNAUTHORIZED",
	http.StatusForbidden:           "FORBIDDEN",
	http.StatusNotFound:            "NOT_FOUND",
	http.StatusUnprocessableEntity: "UNPROCESSABLE",
	http.StatusInternalServerError: "INTERNAL",
	http.StatusBadGateway:          "BAD_GATEWAY",
	http.StatusServiceUnavailable:  "UNAVAILABLE",
}

// ClassifyStatus converts an HTTP status from the collaborator API into an
// AppError carrying the user-facing message for that status.
func ClassifyStatus(status int, err error) *AppError {
	message, ok := statusMessages[status]
	if !ok {
		message = "Ocurrió un error inesperado."
	}
	code, ok := statusCodes[status]
	if !ok {
		code = "UNEXPECTED"
		status = http.StatusBadGateway
	}
	return &AppError{Code: code, Message: message, HTTPStatus: status, Err: err}
}

// fieldNames translates wire field identifiers into the names shown to users.
var fieldNames = map[string]string{
	"customer.name":    "nombre del cliente",
	"customer.phone":   "teléfono del cliente",
	"customer.email":   "correo del cliente",
	"customer.address": "dirección del cliente",
	"vehicle.brand":    "marca del vehículo",
	"vehicle.model":    "modelo del vehículo",
	"vehicle.year":     "año del vehículo",
	"vehicle.plate":    "placas del vehículo",
	"vehicle.vin":      "número de serie (VIN)",
	"vehicle.mileage":  "kilometraje",
	"advancePayment":   "anticipo",
	"description":      "descripción",
	"price":            "precio",
	"quantity":         "cantidad",
	"unitCost":         "costo unitario",
	"marginPercent":    "porcentaje de margen",
}

// FriendlyFieldName returns the display name for a wire field, falling back
// to the raw identifier when no mapping exists.
func FriendlyFieldName(field string) string {
	if name, ok := fieldNames[strings.TrimSpace(field)]; ok {
		return name
	}
	return field
}

// FieldErrorMessages reformats backend field-level errors into a stable,
// human-readable message list.
func FieldErrorMessages(fields map[string]string) []string {
	if len(fields) == 0 {
		return nil
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	messages := make([]string, 0, len(keys))
	for _, k := range keys {
		messages = append(messages, fmt.Sprintf("%s: %s", FriendlyFieldName(k), fields[k]))
	}
	return messages
}
