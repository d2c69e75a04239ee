package service

import (
	"context"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
)

// FewShotAnalyzer runs the few-shot prompting pipeline against an external
// LLM. Analyze never returns an error: every failure mode is absorbed into a
// degraded analysis carrying an error tag.
type FewShotAnalyzer interface {
	Analyze(ctx context.Context, text string) *entity.FewShotAnalysis
}

// Explainer asks an external LLM to justify an already-computed label.
// Explain never returns an error; failures produce a fallback explanation
// that keeps the original text as the recommended revision.
type Explainer interface {
	Explain(ctx context.Context, text string, label entity.BiasLabel, confidence float64) *entity.Explanation
}
