package handler

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/fotuneb/bot-e-commerce/internal/model"

	"github.com/rs/zerolog"
)

// ErrorResponse represents an error response.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		// Log the error but don't expose it to the client
		return
	}
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, ErrorResponse{Error: message})
}

// writeDomainError maps a service error to a response. Domain errors keep
// their code and message; anything else becomes a generic failure so internal
// detail stays in the logs.
func writeDomainError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeJSON(w, domainStatus(domainErr.Code), ErrorResponse{
			Error: domainErr.Message,
			Code:  domainErr.Code,
		})
		return
	}

	logger.Error().Err(err).Msg("request failed")
	writeJSON(w, http.StatusInternalServerError, ErrorResponse{
		Error: "request failed, please try again",
		Code:  model.ErrCodeInternalError,
	})
}

// domainStatus maps a domain error code to an HTTP status.
func domainStatus(code string) int {
	switch code {
	case model.ErrCodeCategoryNotFound, model.ErrCodeProductNotFound, model.ErrCodeOrderNotFound:
		return http.StatusNotFound
	case model.ErrCodeValidation, model.ErrCodeInvalidJSON, model.ErrCodeEmptyCart:
		return http.StatusBadRequest
	case model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// parseID parses a path segment as an entity id.
func parseID(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

// userIDHeader carries the opaque shopper identity supplied by the dispatch
// layer.
const userIDHeader = "X-User-ID"

// requestUserID extracts the shopper identity from the request. A missing or
// malformed header is reported to the caller and false is returned.
func requestUserID(w http.ResponseWriter, r *http.Request, logger zerolog.Logger) (int64, bool) {
	raw := r.Header.Get(userIDHeader)
	if raw == "" {
		writeError(w, http.StatusBadRequest, "missing X-User-ID header", logger)
		return 0, false
	}

	userID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid X-User-ID header", logger)
		return 0, false
	}

	return userID, true
}
