package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinassure/bias-audit-api/internal/usecase"
)

// HistoryHandler handles audit history HTTP requests
type HistoryHandler struct {
	auditUC usecase.AuditUsecase
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(auditUC usecase.AuditUsecase) *HistoryHandler {
	return &HistoryHandler{auditUC: auditUC}
}

// History handles GET /audit-history
func (h *HistoryHandler) History(c *gin.Context) {
	pagination := ParsePagination(c)

	output, err := h.auditUC.History(c.Request.Context(), pagination.Limit, pagination.Offset)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}
