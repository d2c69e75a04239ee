package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/clinassure/bias-audit-api/internal/usecase"
)

// PredictHandler handles prediction-related HTTP requests
type PredictHandler struct {
	auditUC usecase.AuditUsecase
}

// NewPredictHandler creates a new predict handler
func NewPredictHandler(auditUC usecase.AuditUsecase) *PredictHandler {
	return &PredictHandler{auditUC: auditUC}
}

// PredictRequest is the body of single-text prediction routes
type PredictRequest struct {
	Text string `json:"text"`
}

// BatchRequest is the body of the batch prediction route. Texts is bound
// loosely so non-string entries reach the usecase and produce per-item
// errors instead of failing the whole request.
type BatchRequest struct {
	Texts []any `json:"texts"`
}

// Predict handles POST /predict
func (h *PredictHandler) Predict(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.auditUC.Predict(c.Request.Context(), req.Text)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

// PredictFewShot handles POST /predict-fewshot
func (h *PredictHandler) PredictFewShot(c *gin.Context) {
	var req PredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, err.Error())
		return
	}

	output, err := h.auditUC.PredictFewShot(c.Request.Context(), req.Text)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

// PredictBatch handles POST /predict-batch
func (h *PredictHandler) PredictBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		HandleInvalidRequest(c, "texts field is required and must be a list")
		return
	}

	output, err := h.auditUC.PredictBatch(c.Request.Context(), req.Texts)
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}

// ModelInfo handles GET /model-info
func (h *PredictHandler) ModelInfo(c *gin.Context) {
	output, err := h.auditUC.ModelInfo(c.Request.Context())
	if err != nil {
		HandleUsecaseError(c, err)
		return
	}

	c.JSON(http.StatusOK, output)
}
