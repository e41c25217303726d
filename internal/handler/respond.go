package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aryan0dhankhar/hrportal/internal/domain"
	"github.com/aryan0dhankhar/hrportal/internal/security/middleware"
	"github.com/aryan0dhankhar/hrportal/internal/service"
	"github.com/aryan0dhankhar/hrportal/internal/tenancy"
)

// Response is the envelope every API endpoint answers with.
type Response struct {
	Success bool     `json:"success"`
	Message string   `json:"message,omitempty"`
	Data    any      `json:"data,omitempty"`
	Fields  []string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}

func ok(w http.ResponseWriter, code int, message string, data any) {
	writeJSON(w, code, Response{Success: true, Message: message, Data: data})
}

// decode reads a JSON body into dst. An empty body leaves dst untouched.
func decode(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil && !errors.Is(err, io.EOF) {
		return domain.Invalid("invalid request body")
	}
	return nil
}

// fail maps a service error to its status code. Unexpected errors are logged
// and answered with an opaque 500.
func fail(w http.ResponseWriter, r *http.Request, log *slog.Logger, err error) {
	var (
		ve        *domain.ValidationError
		throttled *service.ThrottledError
	)
	switch {
	case errors.As(err, &ve):
		writeJSON(w, http.StatusBadRequest, Response{Message: ve.Message, Fields: ve.Fields})
	case errors.As(err, &throttled):
		middleware.WriteRateLimitHeaders(w, throttled.Decision)
		writeJSON(w, http.StatusTooManyRequests, Response{Message: throttled.Error()})
	case errors.Is(err, domain.ErrInvalidCredentials):
		writeJSON(w, http.StatusUnauthorized, Response{Message: "Invalid credentials"})
	case errors.Is(err, domain.ErrEmailNotVerified):
		writeJSON(w, http.StatusUnauthorized, Response{Message: "Please verify your email before logging in"})
	case errors.Is(err, domain.ErrUnauthenticated), errors.Is(err, tenancy.ErrNoScope):
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"success": false, "message": "Unauthorized access, please log in", "gologin": true,
		})
	case errors.Is(err, domain.ErrForbidden):
		writeJSON(w, http.StatusForbidden, Response{Message: "You are not allowed to access this resource"})
	case errors.Is(err, domain.ErrNotFound):
		writeJSON(w, http.StatusNotFound, Response{Message: "Record not found"})
	case errors.Is(err, domain.ErrConflict):
		writeJSON(w, http.StatusConflict, Response{Message: "Record already exists"})
	case errors.Is(err, domain.ErrInvalidTransition):
		writeJSON(w, http.StatusConflict, Response{Message: "Record cannot change from its current status"})
	default:
		log.Error("request failed",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("error", err.Error()),
		)
		writeJSON(w, http.StatusInternalServerError, Response{Message: "Internal Server Error"})
	}
}
