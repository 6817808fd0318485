package web

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"pdv/internal/core"

	"github.com/go-chi/chi/v5/middleware"
)

type errorResponse struct {
	Error     string `json:"error"`
	Code      string `json:"code"`
	Field     string `json:"field,omitempty"`
	Details   any    `json:"details,omitempty"`
	RequestID string `json:"request_id,omitempty"`
}

type paymentMismatchDetails struct {
	Paid core.Cents `json:"total_pagamentos"`
	Due  core.Cents `json:"total_venda"`
}

// writeError writes a structured JSON error response.
func writeError(w http.ResponseWriter, r *http.Request, message, code string, status int) {
	writeErrorResponse(w, r, status, errorResponse{Error: message, Code: code})
}

func writeErrorResponse(w http.ResponseWriter, r *http.Request, status int, resp errorResponse) {
	resp.RequestID = middleware.GetReqID(r.Context())
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(resp)
}

// writeServiceError maps an error returned by the application layer to an HTTP response.
// Unknown errors are logged and hidden behind a generic 500.
func writeServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		ve       *core.ValidationError
		mismatch *core.PaymentMismatchError
	)
	switch {
	case errors.As(err, &mismatch):
		writeErrorResponse(w, r, http.StatusBadRequest, errorResponse{
			Error:   err.Error(),
			Code:    "VALIDATION_ERROR",
			Field:   "pagamentos",
			Details: paymentMismatchDetails{Paid: mismatch.Paid, Due: mismatch.Due},
		})
	case errors.As(err, &ve):
		writeErrorResponse(w, r, http.StatusBadRequest, errorResponse{Error: err.Error(), Code: "VALIDATION_ERROR", Field: ve.Field})
	case errors.Is(err, core.ErrValidation):
		writeError(w, r, err.Error(), "VALIDATION_ERROR", http.StatusBadRequest)
	case errors.Is(err, core.ErrNotFound):
		writeError(w, r, err.Error(), "NOT_FOUND", http.StatusNotFound)
	case errors.Is(err, core.ErrConflict):
		writeError(w, r, err.Error(), "CONFLICT", http.StatusConflict)
	default:
		log.Printf("internal error [%s] %s %s: %v", middleware.GetReqID(r.Context()), r.Method, r.URL.Path, err)
		writeError(w, r, "internal server error", "INTERNAL_ERROR", http.StatusInternalServerError)
	}
}

// writeJSON writes a JSON response with status 200.
func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// writeCreated writes a JSON response with status 201.
func writeCreated(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	_ = json.NewEncoder(w).Encode(v)
}
