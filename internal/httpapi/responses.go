package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/Orka-kun/Users-API/internal/domain"
)

type errorEnvelope struct {
	Error apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func WriteError(w http.ResponseWriter, status int, code, message string) {
	WriteJSON(w, status, errorEnvelope{Error: apiError{Code: code, Message: message}})
}

func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	WriteJSON(w, status, messageResponse{Message: message})
}

func WriteDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrValidation):
		WriteError(w, http.StatusBadRequest, "validation_error", "invalid request")
	case errors.Is(err, domain.ErrEmailTaken):
		WriteError(w, http.StatusBadRequest, "email_taken", "email already registered")
	case errors.Is(err, domain.ErrInvalidCredentials):
		WriteError(w, http.StatusBadRequest, "invalid_credentials", "invalid email or password")
	case errors.Is(err, domain.ErrUserBlocked):
		WriteError(w, http.StatusForbidden, "user_blocked", "account is blocked")
	case errors.Is(err, domain.ErrUnauthorized):
		WriteError(w, http.StatusUnauthorized, "unauthorized", "unauthorized")
	case errors.Is(err, domain.ErrForbidden):
		WriteError(w, http.StatusForbidden, "forbidden", "account no longer exists")
	case errors.Is(err, domain.ErrSelfAction):
		WriteError(w, http.StatusForbidden, "self_action_forbidden", "cannot act on your own account")
	case errors.Is(err, domain.ErrNotFound):
		WriteError(w, http.StatusNotFound, "not_found", "not found")
	default:
		WriteError(w, http.StatusInternalServerError, "internal_error", "internal server error")
	}
}
