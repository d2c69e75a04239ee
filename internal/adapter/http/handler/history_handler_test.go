package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
	"github.com/clinassure/bias-audit-api/internal/usecase"
)

func setupHistoryRouter(h *HistoryHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/audit-history", h.History)
	return r
}

func TestHistory_Success(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupHistoryRouter(NewHistoryHandler(mockUC))

	records := []*entity.AuditRecord{
		entity.NewAuditRecord("note", entity.LabelNoBias, 0.95, 10, entity.RatingExcellent, entity.ModelTypeLocal, 0),
	}
	mockUC.On("History", mock.Anything, 10, 5).Return(&usecase.HistoryOutput{
		Records: records,
		Total:   30,
		Limit:   10,
		Offset:  5,
		HasMore: true,
	}, nil)

	req, _ := http.NewRequest("GET", "/audit-history?limit=10&offset=5", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, float64(30), body["total"])
	assert.Equal(t, true, body["has_more"])
	mockUC.AssertExpectations(t)
}

func TestHistory_NoStore(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupHistoryRouter(NewHistoryHandler(mockUC))

	mockUC.On("History", mock.Anything, DefaultLimit, DefaultOffset).Return(nil, usecase.ErrNoAuditStore)

	req, _ := http.NewRequest("GET", "/audit-history", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Contains(t, w.Body.String(), "not configured")
}
