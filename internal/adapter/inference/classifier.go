package inference

import (
	"context"
	"errors"
	"strings"

	"github.com/clinassure/bias-audit-api/internal/domain/service"
)

// Classifier adapts Model to the domain Classifier interface
type Classifier struct {
	model *Model
}

// NewClassifier creates a new Classifier over a loaded model
func NewClassifier(model *Model) service.Classifier {
	return &Classifier{model: model}
}

// Classify classifies a single text. Inference is synchronous and
// deterministic for a fixed model and input; no retries are attempted.
func (c *Classifier) Classify(ctx context.Context, text string) (*service.ClassificationResult, error) {
	if strings.TrimSpace(text) == "" {
		return nil, errors.New("text is empty")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	label, confidence, err := c.model.Predict(text)
	if err != nil {
		return nil, err
	}

	return &service.ClassificationResult{
		Label:      label,
		Confidence: confidence,
	}, nil
}
