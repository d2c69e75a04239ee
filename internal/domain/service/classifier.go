package service

import (
	"context"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
)

// ClassificationResult represents the result of one classification. The
// confidence is the softmax probability mass on the winning class.
type ClassificationResult struct {
	Label      entity.BiasLabel `json:"label"`
	Confidence float64          `json:"confidence"`
}

// Classifier defines the interface for the local bias classifier
type Classifier interface {
	// Classify classifies a single text. Text must be non-empty after
	// trimming; callers validate before invoking.
	Classify(ctx context.Context, text string) (*ClassificationResult, error)
}
