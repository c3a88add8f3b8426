package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/bive/backend/internal/models"
	"github.com/bive/backend/internal/policy"
	"github.com/bive/backend/internal/services"
	"go.uber.org/zap"
)

const maxBodyBytes = 1_048_576

// decodeJSON reads exactly one JSON object into dst. On failure the error response has
// already been written.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			services.SendErrorResponse(w, "Request body too large", http.StatusRequestEntityTooLarge, nil)
			return false
		}
		services.SendErrorResponse(w, "Invalid request body", http.StatusBadRequest, nil)
		return false
	}

	if err := dec.Decode(&struct{}{}); err != io.EOF {
		services.SendErrorResponse(w, "Request body must only contain a single JSON object", http.StatusBadRequest, nil)
		return false
	}
	return true
}

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

// authorize runs the policy step for the request principal.
func authorize(w http.ResponseWriter, r *http.Request, action policy.Action, res policy.Resource) (*policy.Principal, bool) {
	p := policy.FromContext(r.Context())
	if err := policy.Evaluate(p, action, res); err != nil {
		de, _ := models.AsDomainError(err)
		services.SendDomainError(w, de)
		return nil, false
	}
	return p, true
}

// fail maps an operation error to a response. Domain errors are returned as they are;
// anything else is logged and hidden behind a 500.
func fail(w http.ResponseWriter, logger *zap.Logger, operation string, err error) {
	if de, ok := models.AsDomainError(err); ok {
		services.SendDomainError(w, de)
		return
	}
	logger.Error("[HTTP] operation failed", zap.String("operation", operation), zap.Error(err))
	services.SendErrorResponse(w, "Internal server error", http.StatusInternalServerError, nil)
}
