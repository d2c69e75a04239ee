package usecase

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
	"github.com/clinassure/bias-audit-api/internal/domain/repository"
	"github.com/clinassure/bias-audit-api/internal/domain/service"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/cache"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/config"
)

// Error definitions for audit usecase
var (
	ErrEmptyText    = errors.New("text field is required and must be a non-empty string")
	ErrInvalidBatch = errors.New("texts field is required and must be a list")
	ErrNoAuditStore = errors.New("audit history store not configured")
)

// AnalysisError signals the few-shot pipeline produced an error-tagged
// analysis. The route contract turns it into a 500 carrying the tag.
type AnalysisError struct {
	Tag string
}

func (e *AnalysisError) Error() string {
	return "few-shot analysis failed: " + e.Tag
}

// PredictOutput is the response shape of a single local-model prediction
type PredictOutput struct {
	Text                string   `json:"text"`
	PredictedLabel      string   `json:"predicted_label"`
	Confidence          float64  `json:"confidence"`
	AuditScore          int      `json:"audit_score"`
	ComplianceRating    string   `json:"compliance_rating"`
	Rationale           string   `json:"rationale"`
	Flags               []string `json:"flags"`
	RecommendedRevision string   `json:"recommended_revision"`
}

// FewShotOutput is the full analysis plus the backward-compatible summary
// fields the older clients read.
type FewShotOutput struct {
	entity.FewShotAnalysis
	PredictedLabel   string   `json:"predicted_label"`
	Confidence       float64  `json:"confidence"`
	AuditScore       int      `json:"audit_score"`
	ComplianceRating string   `json:"compliance_rating"`
	Rationale        string   `json:"rationale"`
	Flags            []string `json:"flags"`
	ModelType        string   `json:"model_type"`
	NumBiases        int      `json:"num_biases"`
}

// BatchPrediction is one entry of a batch response: either a prediction or a
// per-item error, never both.
type BatchPrediction struct {
	Text           string   `json:"text"`
	PredictedLabel string   `json:"predicted_label,omitempty"`
	Confidence     *float64 `json:"confidence,omitempty"`
	Error          string   `json:"error,omitempty"`
}

// BatchOutput wraps batch predictions in input order
type BatchOutput struct {
	Predictions []BatchPrediction `json:"predictions"`
}

// ModelInfoOutput describes the few-shot configuration currently loaded
type ModelInfoOutput struct {
	Model         string   `json:"model"`
	ExamplesFile  string   `json:"examples_file"`
	Categories    []string `json:"categories"`
	TotalSubTypes int      `json:"total_sub_types"`
	TotalExamples int      `json:"total_examples"`
}

// HistoryOutput is a paginated page of audit records
type HistoryOutput struct {
	Records []*entity.AuditRecord `json:"records"`
	Total   int64                 `json:"total"`
	Limit   int                   `json:"limit"`
	Offset  int                   `json:"offset"`
	HasMore bool                  `json:"has_more"`
}

// AuditUsecase defines the interface for bias-audit business logic
type AuditUsecase interface {
	Predict(ctx context.Context, text string) (*PredictOutput, error)
	PredictFewShot(ctx context.Context, text string) (*FewShotOutput, error)
	PredictBatch(ctx context.Context, texts []any) (*BatchOutput, error)
	ModelInfo(ctx context.Context) (*ModelInfoOutput, error)
	History(ctx context.Context, limit, offset int) (*HistoryOutput, error)
}

type auditUsecase struct {
	classifier service.Classifier
	analyzer   service.FewShotAnalyzer
	explainer  service.Explainer
	auditRepo  repository.AuditRepository
	cache      *cache.AnalysisCache
	fewShotCfg *config.FewShotConfig
	llmModel   string
	logger     *zap.Logger
}

// NewAuditUsecase creates a new audit usecase. auditRepo and analysisCache
// may be nil; persistence and caching are then skipped.
func NewAuditUsecase(
	classifier service.Classifier,
	analyzer service.FewShotAnalyzer,
	explainer service.Explainer,
	auditRepo repository.AuditRepository,
	analysisCache *cache.AnalysisCache,
	fewShotCfg *config.FewShotConfig,
	llmModel string,
	log *zap.Logger,
) AuditUsecase {
	return &auditUsecase{
		classifier: classifier,
		analyzer:   analyzer,
		explainer:  explainer,
		auditRepo:  auditRepo,
		cache:      analysisCache,
		fewShotCfg: fewShotCfg,
		llmModel:   llmModel,
		logger:     log,
	}
}

func (u *auditUsecase) Predict(ctx context.Context, text string) (*PredictOutput, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	result, err := u.classifier.Classify(ctx, text)
	if err != nil {
		return nil, err
	}

	score, rating := entity.DeriveScore(result.Label, result.Confidence)

	// Explanation failures degrade to a fallback payload, never an error
	explanation := u.explainer.Explain(ctx, text, result.Label, result.Confidence)

	u.recordAudit(ctx, text, result.Label, result.Confidence, score, rating, entity.ModelTypeLocal, 0)

	return &PredictOutput{
		Text:                text,
		PredictedLabel:      string(result.Label),
		Confidence:          result.Confidence,
		AuditScore:          score,
		ComplianceRating:    string(rating),
		Rationale:           explanation.Rationale,
		Flags:               explanation.Flags,
		RecommendedRevision: explanation.RecommendedRevision,
	}, nil
}

func (u *auditUsecase) PredictFewShot(ctx context.Context, text string) (*FewShotOutput, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyText
	}

	analysis := u.cache.Get(ctx, text)
	if analysis == nil {
		analysis = u.analyzer.Analyze(ctx, text)
		u.cache.Set(ctx, text, analysis)
	}

	if analysis.Error != "" {
		return nil, &AnalysisError{Tag: analysis.Error}
	}

	score, rating := entity.ScoreForBiasLevel(analysis.OverallBiasLevel)
	confidence := analysis.AggregateConfidence()

	label := entity.BiasLabel(analysis.PrimaryCategory)
	u.recordAudit(ctx, text, label, confidence, score, rating, entity.ModelTypeFewShot, len(analysis.BiasesFound))

	return &FewShotOutput{
		FewShotAnalysis:  *analysis,
		PredictedLabel:   analysis.PrimaryCategory,
		Confidence:       confidence,
		AuditScore:       score,
		ComplianceRating: string(rating),
		Rationale:        analysis.Summary,
		Flags:            analysis.Flags(),
		ModelType:        string(entity.ModelTypeFewShot),
		NumBiases:        len(analysis.BiasesFound),
	}, nil
}

func (u *auditUsecase) PredictBatch(ctx context.Context, texts []any) (*BatchOutput, error) {
	if texts == nil {
		return nil, ErrInvalidBatch
	}

	predictions := make([]BatchPrediction, 0, len(texts))
	for _, item := range texts {
		text, ok := item.(string)
		if !ok {
			predictions = append(predictions, BatchPrediction{
				Text:  fmt.Sprintf("%v", item),
				Error: "text must be a non-empty string",
			})
			continue
		}
		if strings.TrimSpace(text) == "" {
			predictions = append(predictions, BatchPrediction{
				Text:  text,
				Error: "text must be a non-empty string",
			})
			continue
		}

		result, err := u.classifier.Classify(ctx, text)
		if err != nil {
			predictions = append(predictions, BatchPrediction{
				Text:  text,
				Error: err.Error(),
			})
			continue
		}

		confidence := result.Confidence
		predictions = append(predictions, BatchPrediction{
			Text:           text,
			PredictedLabel: string(result.Label),
			Confidence:     &confidence,
		})
	}

	return &BatchOutput{Predictions: predictions}, nil
}

func (u *auditUsecase) ModelInfo(_ context.Context) (*ModelInfoOutput, error) {
	if u.fewShotCfg == nil {
		return nil, errors.New("few-shot configuration not loaded")
	}

	return &ModelInfoOutput{
		Model:         u.llmModel,
		ExamplesFile:  u.fewShotCfg.SourceFile,
		Categories:    u.fewShotCfg.CategoryNames(),
		TotalSubTypes: u.fewShotCfg.TotalSubTypes(),
		TotalExamples: u.fewShotCfg.TotalExamplePairs(),
	}, nil
}

func (u *auditUsecase) History(ctx context.Context, limit, offset int) (*HistoryOutput, error) {
	if u.auditRepo == nil {
		return nil, ErrNoAuditStore
	}

	if limit <= 0 {
		limit = 20
	}
	if limit > 100 {
		limit = 100
	}

	records, total, err := u.auditRepo.List(ctx, limit, offset)
	if err != nil {
		return nil, err
	}

	return &HistoryOutput{
		Records: records,
		Total:   total,
		Limit:   limit,
		Offset:  offset,
		HasMore: int64(offset+limit) < total,
	}, nil
}

// recordAudit persists a record best effort; a storage failure is logged and
// never surfaces to the caller.
func (u *auditUsecase) recordAudit(ctx context.Context, text string, label entity.BiasLabel, confidence float64, score int, rating entity.ComplianceRating, modelType entity.ModelType, numBiases int) {
	if u.auditRepo == nil {
		return
	}

	record := entity.NewAuditRecord(text, label, confidence, score, rating, modelType, numBiases)
	if err := u.auditRepo.Create(ctx, record); err != nil && u.logger != nil {
		u.logger.Warn("failed to persist audit record",
			zap.String("model_type", string(modelType)),
			zap.Error(err))
	}
}
