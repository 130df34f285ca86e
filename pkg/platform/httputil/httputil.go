// Package httputil centralizes JSON encoding, request decoding and the error
// envelope shared by every endpoint.
package httputil

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	dErrors "algowatch/pkg/domain-errors"
)

// maxBodyBytes bounds request bodies; the largest legitimate payload is a saved
// kit with its generated letter and explainer.
const maxBodyBytes = 1 << 20

const genericErrorMessage = "An unexpected error occurred. Please try again."

// ErrorResponse is the envelope for every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// SuccessResponse is the body of operations that return no resource.
type SuccessResponse struct {
	Success bool `json:"success"`
}

// Validatable is implemented by request bodies that normalize and validate
// themselves after decoding.
type Validatable interface {
	Validate() error
}

// WriteJSON writes v with the given status.
func WriteJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// WriteSuccess writes {"success": true}.
func WriteSuccess(w http.ResponseWriter) {
	WriteJSON(w, http.StatusOK, SuccessResponse{Success: true})
}

// WriteError translates err into a status code and the {"error": message}
// envelope. Messages of internal and upstream errors are never exposed.
func WriteError(w http.ResponseWriter, err error) {
	de, ok := dErrors.As(err)
	if !ok {
		WriteJSON(w, http.StatusInternalServerError, ErrorResponse{Error: genericErrorMessage})
		return
	}
	message := de.Message
	if !dErrors.IsClientSafe(de.Code) {
		message = genericErrorMessage
	}
	WriteJSON(w, dErrors.ToHTTPStatus(de.Code), ErrorResponse{Error: message})
}

// Decode reads a JSON body into T. An empty body decodes to the zero value so
// endpoints whose fields are all optional accept it.
func Decode[T any](r *http.Request) (*T, error) {
	var req T
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return &req, nil
		}
		return nil, dErrors.New(dErrors.CodeBadRequest, "invalid request body")
	}
	return &req, nil
}

// DecodeAndPrepare decodes and validates a request body, writing the error
// response itself when either step fails. Callers return when ok is false.
func DecodeAndPrepare[T any, PT interface {
	*T
	Validatable
}](w http.ResponseWriter, r *http.Request, logger *slog.Logger, ctx context.Context, requestID string) (*T, bool) {
	req, err := Decode[T](r)
	if err != nil {
		logger.WarnContext(ctx, "failed to decode request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	if err := PT(req).Validate(); err != nil {
		logger.WarnContext(ctx, "invalid request",
			"request_id", requestID,
			"error", err,
		)
		WriteError(w, err)
		return nil, false
	}
	return req, true
}
