package handler

import (
	"bytes"
	"context"
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

// MockAuditUsecase is a mock implementation of AuditUsecase
type MockAuditUsecase struct {
	mock.Mock
}

func (m *MockAuditUsecase) Predict(ctx context.Context, text string) (*usecase.PredictOutput, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.PredictOutput), args.Error(1)
}

func (m *MockAuditUsecase) PredictFewShot(ctx context.Context, text string) (*usecase.FewShotOutput, error) {
	args := m.Called(ctx, text)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.FewShotOutput), args.Error(1)
}

func (m *MockAuditUsecase) PredictBatch(ctx context.Context, texts []any) (*usecase.BatchOutput, error) {
	args := m.Called(ctx, texts)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.BatchOutput), args.Error(1)
}

func (m *MockAuditUsecase) ModelInfo(ctx context.Context) (*usecase.ModelInfoOutput, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.ModelInfoOutput), args.Error(1)
}

func (m *MockAuditUsecase) History(ctx context.Context, limit, offset int) (*usecase.HistoryOutput, error) {
	args := m.Called(ctx, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*usecase.HistoryOutput), args.Error(1)
}

func setupTestRouter(h *PredictHandler) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.POST("/predict", h.Predict)
	r.POST("/predict-fewshot", h.PredictFewShot)
	r.POST("/predict-batch", h.PredictBatch)
	r.GET("/model-info", h.ModelInfo)
	return r
}

func postJSON(router *gin.Engine, path, body string) *httptest.ResponseRecorder {
	req, _ := http.NewRequest("POST", path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestPredict_Success(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	mockUC.On("Predict", mock.Anything, "Patient refused medication.").Return(&usecase.PredictOutput{
		Text:                "Patient refused medication.",
		PredictedLabel:      "clinical_stigma_bias",
		Confidence:          0.92,
		AuditScore:          1,
		ComplianceRating:    "High Risk",
		Rationale:           "Refused framing implies noncompliance.",
		Flags:               []string{"refused"},
		RecommendedRevision: "Patient declined medication.",
	}, nil)

	w := postJSON(router, "/predict", `{"text": "Patient refused medication."}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "clinical_stigma_bias", body["predicted_label"])
	assert.Equal(t, float64(1), body["audit_score"])
	assert.Equal(t, "High Risk", body["compliance_rating"])
	assert.Equal(t, "Patient declined medication.", body["recommended_revision"])
	mockUC.AssertExpectations(t)
}

func TestPredict_EmptyText(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	mockUC.On("Predict", mock.Anything, "").Return(nil, usecase.ErrEmptyText)

	w := postJSON(router, "/predict", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.NotEmpty(t, body.Error)
}

func TestPredict_ClassifierFailure(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	mockUC.On("Predict", mock.Anything, "text").Return(nil, assert.AnError)

	w := postJSON(router, "/predict", `{"text": "text"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Contains(t, w.Body.String(), "error")
}

func TestPredictFewShot_Success(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	mockUC.On("PredictFewShot", mock.Anything, "note").Return(&usecase.FewShotOutput{
		FewShotAnalysis: entity.FewShotAnalysis{
			BiasDetected:     true,
			PrimaryCategory:  "demographic_bias",
			OverallBiasLevel: entity.BiasLevelModerate,
			BiasesFound: []entity.FewShotFinding{
				{Category: "demographic_bias", SubType: "racial_bias", Confidence: 0.8},
			},
			BiasFreeSections: []string{},
			Summary:          "one issue",
		},
		PredictedLabel:   "demographic_bias",
		Confidence:       0.8,
		AuditScore:       5,
		ComplianceRating: "Fair",
		Rationale:        "one issue",
		Flags:            []string{},
		ModelType:        "few_shot",
		NumBiases:        1,
	}, nil)

	w := postJSON(router, "/predict-fewshot", `{"text": "note"}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, true, body["bias_detected"])
	assert.Equal(t, "MODERATE", body["overall_bias_level"])
	assert.Equal(t, "few_shot", body["model_type"])
	assert.Equal(t, float64(1), body["num_biases"])
	assert.Equal(t, float64(5), body["audit_score"])
}

func TestPredictFewShot_ErrorTag(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	mockUC.On("PredictFewShot", mock.Anything, "note").
		Return(nil, &usecase.AnalysisError{Tag: entity.ErrTagMissingAPIKey})

	w := postJSON(router, "/predict-fewshot", `{"text": "note"}`)

	assert.Equal(t, http.StatusInternalServerError, w.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "missing_api_key", body.Error)
}

func TestPredictBatch_Success(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	confidence := 0.97
	mockUC.On("PredictBatch", mock.Anything, mock.MatchedBy(func(texts []any) bool {
		return len(texts) == 3
	})).Return(&usecase.BatchOutput{
		Predictions: []usecase.BatchPrediction{
			{Text: "valid text", PredictedLabel: "no_bias", Confidence: &confidence},
			{Text: "", Error: "text must be a non-empty string"},
			{Text: "42", Error: "text must be a non-empty string"},
		},
	}, nil)

	w := postJSON(router, "/predict-batch", `{"texts": ["valid text", "", 42]}`)

	assert.Equal(t, http.StatusOK, w.Code)

	var body struct {
		Predictions []map[string]any `json:"predictions"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	require.Len(t, body.Predictions, 3)
	assert.Equal(t, "no_bias", body.Predictions[0]["predicted_label"])
	assert.NotContains(t, body.Predictions[0], "error")
	assert.NotContains(t, body.Predictions[1], "predicted_label")
	assert.Equal(t, "text must be a non-empty string", body.Predictions[2]["error"])
}

func TestPredictBatch_NotAList(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	w := postJSON(router, "/predict-batch", `{"texts": "not a list"}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "must be a list")
	mockUC.AssertNotCalled(t, "PredictBatch", mock.Anything, mock.Anything)
}

func TestModelInfo_Success(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	mockUC.On("ModelInfo", mock.Anything).Return(&usecase.ModelInfoOutput{
		Model:         "gpt-4o-mini",
		ExamplesFile:  "data/few_shot_examples.json",
		Categories:    []string{"assessment_bias", "demographic_bias"},
		TotalSubTypes: 5,
		TotalExamples: 8,
	}, nil)

	req, _ := http.NewRequest("GET", "/model-info", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "gpt-4o-mini", body["model"])
	assert.Equal(t, float64(8), body["total_examples"])
}

func TestModelInfo_ConfigError(t *testing.T) {
	mockUC := new(MockAuditUsecase)
	router := setupTestRouter(NewPredictHandler(mockUC))

	mockUC.On("ModelInfo", mock.Anything).Return(nil, assert.AnError)

	req, _ := http.NewRequest("GET", "/model-info", http.NoBody)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusInternalServerError, w.Code)
}
