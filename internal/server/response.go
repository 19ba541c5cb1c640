package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/vinhtrinh326/schedsim/internal/simulation"
	"github.com/vinhtrinh326/schedsim/pkg/process"
)

// ErrorCode is a machine-readable API error class.
type ErrorCode string

const (
	ErrValidation ErrorCode = "VALIDATION_ERROR"
	ErrNotFound   ErrorCode = "NOT_FOUND"
	ErrConflict   ErrorCode = "CONFLICT"
	ErrInternal   ErrorCode = "INTERNAL_ERROR"
)

// APIError is the error body of a failed request.
type APIError struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Response is the envelope around every JSON reply.
type Response struct {
	Status    string    `json:"status"`
	RequestID string    `json:"request_id"`
	Timestamp time.Time `json:"timestamp"`
	Data      any       `json:"data"`
	Error     *APIError `json:"error"`
}

func requestID() string {
	return "req_" + uuid.New().String()[:8]
}

func respondOK(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusOK, reqID, data, nil)
}

func respondCreated(w http.ResponseWriter, reqID string, data any) {
	respondJSON(w, http.StatusCreated, reqID, data, nil)
}

func respondError(w http.ResponseWriter, reqID string, status int, apiErr *APIError) {
	respondJSON(w, status, reqID, nil, apiErr)
}

// respondErr classifies err from the simulation and writes it.
func respondErr(w http.ResponseWriter, reqID string, err error) {
	status, code := http.StatusInternalServerError, ErrInternal
	switch {
	case errors.Is(err, simulation.ErrNotFound):
		status, code = http.StatusNotFound, ErrNotFound
	case errors.Is(err, simulation.ErrDuplicateName), errors.Is(err, simulation.ErrStarted):
		status, code = http.StatusConflict, ErrConflict
	case errors.Is(err, process.ErrUnknownAlgorithm):
		status, code = http.StatusBadRequest, ErrValidation
	}
	respondError(w, reqID, status, &APIError{Code: code, Message: err.Error()})
}

func respondJSON(w http.ResponseWriter, status int, reqID string, data any, apiErr *APIError) {
	resp := Response{
		RequestID: reqID,
		Timestamp: time.Now().UTC(),
		Data:      data,
		Error:     apiErr,
	}
	if apiErr != nil {
		resp.Status = "error"
	} else {
		resp.Status = "ok"
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}
