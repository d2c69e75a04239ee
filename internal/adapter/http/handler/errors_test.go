package handler

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/clinassure/bias-audit-api/internal/usecase"
)

func TestMapUsecaseError(t *testing.T) {
	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
		expectedMessage    string
	}{
		{
			name:               "empty text",
			err:                usecase.ErrEmptyText,
			expectedStatusCode: http.StatusBadRequest,
			expectedMessage:    usecase.ErrEmptyText.Error(),
		},
		{
			name:               "invalid batch",
			err:                usecase.ErrInvalidBatch,
			expectedStatusCode: http.StatusBadRequest,
			expectedMessage:    usecase.ErrInvalidBatch.Error(),
		},
		{
			name:               "analysis error surfaces the tag",
			err:                &usecase.AnalysisError{Tag: "missing_api_key"},
			expectedStatusCode: http.StatusInternalServerError,
			expectedMessage:    "missing_api_key",
		},
		{
			name:               "no audit store",
			err:                usecase.ErrNoAuditStore,
			expectedStatusCode: http.StatusServiceUnavailable,
			expectedMessage:    usecase.ErrNoAuditStore.Error(),
		},
		{
			name:               "unknown error",
			err:                errors.New("some unknown error"),
			expectedStatusCode: http.StatusInternalServerError,
			expectedMessage:    "some unknown error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := MapUsecaseError(tt.err)

			assert.Equal(t, tt.expectedStatusCode, result.StatusCode)
			assert.Equal(t, tt.expectedMessage, result.Message)
		})
	}
}

func TestHandleUsecaseError(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name               string
		err                error
		expectedStatusCode int
	}{
		{
			name:               "empty text",
			err:                usecase.ErrEmptyText,
			expectedStatusCode: http.StatusBadRequest,
		},
		{
			name:               "internal error",
			err:                errors.New("internal"),
			expectedStatusCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(w)

			HandleUsecaseError(c, tt.err)

			assert.Equal(t, tt.expectedStatusCode, w.Code)
		})
	}
}

func TestHandleInvalidRequest(t *testing.T) {
	gin.SetMode(gin.TestMode)

	w := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(w)

	HandleInvalidRequest(c, "missing required field")

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "missing required field")
}
