package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/dkolesnikov/semeinik/internal/service"
)

// errorBody is the envelope every failed request returns.
type errorBody struct {
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorBody{Message: message, Timestamp: time.Now().UTC()})
}

// writeServiceError maps domain failures onto their HTTP statuses. Anything
// unrecognized is a server fault.
func writeServiceError(w http.ResponseWriter, err error) {
	var expired *service.RefreshExpiredError
	switch {
	case errors.Is(err, service.ErrUnknownEmail),
		errors.Is(err, service.ErrWrongPassword),
		errors.Is(err, service.ErrInvalidCookie):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.As(err, &expired):
		writeError(w, http.StatusUnauthorized, err.Error())
	case errors.Is(err, service.ErrNotActivated),
		errors.Is(err, service.ErrMissingCookie),
		errors.Is(err, service.ErrMalformedToken),
		errors.Is(err, service.ErrAlreadyActivated),
		errors.Is(err, service.ErrPersonNotFound),
		errors.Is(err, service.ErrEmailTaken),
		errors.Is(err, service.ErrFamilyNotFound),
		errors.Is(err, service.ErrAlreadyInFamily),
		errors.Is(err, service.ErrNoFamily):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrTokenNotFound):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, service.ErrActivationExpired):
		writeError(w, http.StatusForbidden, err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
