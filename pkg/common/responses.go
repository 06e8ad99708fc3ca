package common

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5/middleware"

	pkgerrors "pipeline-builder/pkg/errors"
	"pipeline-builder/pkg/utils"
)

// DefaultMaxBodyBytes bounds request bodies decoded with DecodeJSON
const DefaultMaxBodyBytes = 1 << 20

// APIResponse represents a standard API response
type APIResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Meta    *MetaInfo   `json:"meta,omitempty"`
}

// MetaInfo contains metadata about the response
type MetaInfo struct {
	RequestID string `json:"request_id,omitempty"`
	Timestamp string `json:"timestamp,omitempty"`
	Version   string `json:"version,omitempty"`
}

// RespondJSON sends data wrapped in an APIResponse
func RespondJSON(w http.ResponseWriter, r *http.Request, status int, data interface{}) {
	RespondWithMessage(w, r, status, data, "")
}

// RespondWithMessage sends data and a human readable message
func RespondWithMessage(w http.ResponseWriter, r *http.Request, status int, data interface{}, message string) {
	WriteJSON(w, status, APIResponse{
		Success: status >= 200 && status < 300,
		Data:    data,
		Message: message,
		Meta: &MetaInfo{
			RequestID: middleware.GetReqID(r.Context()),
			Timestamp: utils.NowRFC3339(),
			Version:   "v1",
		},
	})
}

// WriteJSON sends body as-is, without the APIResponse envelope
func WriteJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

// DecodeJSON parses a JSON request body of at most maxBytes into v. Syntax and
// type errors come back as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, v interface{}, maxBytes int64) error {
	r.Body = http.MaxBytesReader(w, r.Body, maxBytes)

	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return pkgerrors.NewValidationError(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return pkgerrors.NewValidationError("Invalid request body: " + err.Error()).WithCause(err)
	}
	return nil
}
