package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/mreyes/jobtrack/internal/domain"
	"github.com/mreyes/jobtrack/internal/service"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Errors map[string]string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// writeServiceError maps service failures to the HTTP taxonomy. Unexpected
// errors are logged and sanitized.
func writeServiceError(w http.ResponseWriter, component string, err error) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, errorResponse{
			Error:  "Validation failed",
			Errors: verr.Fields,
		})
	case errors.Is(err, domain.ErrEmailExists):
		writeError(w, http.StatusConflict, "User with this email already exists")
	case errors.Is(err, domain.ErrJobNotFound):
		writeError(w, http.StatusNotFound, "Job not found")
	case errors.Is(err, domain.ErrUserNotFound):
		writeError(w, http.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, service.ErrResetTokenInvalid):
		writeError(w, http.StatusBadRequest, "Invalid or expired reset token")
	default:
		log.Printf("ERROR [%s] %v", component, err)
		writeError(w, http.StatusInternalServerError, "Internal server error")
	}
}
