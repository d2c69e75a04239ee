package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinassure/bias-audit-api/internal/usecase"
)

// ErrorResponse represents a structured error response
type ErrorResponse struct {
	StatusCode int
	Message    string
}

// MapUsecaseError maps usecase errors to HTTP error responses.
// It provides consistent error handling across all handlers.
func MapUsecaseError(err error) ErrorResponse {
	var analysisErr *usecase.AnalysisError
	switch {
	case errors.Is(err, usecase.ErrEmptyText), errors.Is(err, usecase.ErrInvalidBatch):
		return ErrorResponse{
			StatusCode: http.StatusBadRequest,
			Message:    err.Error(),
		}
	case errors.As(err, &analysisErr):
		// The few-shot route surfaces the adapter's error tag as the body
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Message:    analysisErr.Tag,
		}
	case errors.Is(err, usecase.ErrNoAuditStore):
		return ErrorResponse{
			StatusCode: http.StatusServiceUnavailable,
			Message:    err.Error(),
		}
	default:
		return ErrorResponse{
			StatusCode: http.StatusInternalServerError,
			Message:    err.Error(),
		}
	}
}

// HandleUsecaseError handles a usecase error by sending an appropriate HTTP response.
// It maps the error to an HTTP status and sends a JSON error response.
func HandleUsecaseError(c *gin.Context, err error) {
	errResp := MapUsecaseError(err)
	respondError(c, errResp.StatusCode, errResp.Message)
}

// HandleInvalidRequest handles a generic invalid request error.
func HandleInvalidRequest(c *gin.Context, message string) {
	respondError(c, http.StatusBadRequest, message)
}
