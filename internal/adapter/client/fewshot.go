package client

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
	"github.com/clinassure/bias-audit-api/internal/domain/service"
	"github.com/clinassure/bias-audit-api/internal/infrastructure/config"
)

const analyzeInstruction = "Analyze this medical content for bias:\n\n"

// FewShotClassifier runs bias detection through few-shot prompting against
// an external LLM. A nil chat client represents "no credential": Analyze
// degrades immediately without a network round trip.
type FewShotClassifier struct {
	chat  ChatClient
	model string
	cfg   *config.FewShotConfig
}

// NewFewShotClassifier creates a new few-shot classifier
func NewFewShotClassifier(chat ChatClient, model string, cfg *config.FewShotConfig) service.FewShotAnalyzer {
	return &FewShotClassifier{chat: chat, model: model, cfg: cfg}
}

// Analyze classifies text for bias. It never returns an error: every failure
// mode is absorbed into a degraded analysis carrying an error tag.
func (f *FewShotClassifier) Analyze(ctx context.Context, text string) *entity.FewShotAnalysis {
	if f.chat == nil {
		return entity.DegradedAnalysis(entity.ErrTagMissingAPIKey,
			"API key not configured. Set OPENAI_API_KEY (or GEMINI_API_KEY) to enable few-shot analysis.")
	}

	reply, err := f.chat.Complete(ctx, &ChatRequest{
		Model:       f.model,
		Messages:    f.buildPrompt(text),
		Temperature: 0.1,
		MaxTokens:   2000,
		JSONMode:    true,
	})
	if err != nil {
		tag := entity.ErrTagCallFailed
		if IsTimeout(err) {
			tag = entity.ErrTagTimeout
		}
		return entity.DegradedAnalysis(tag, fmt.Sprintf("Classification failed: %v", err))
	}

	return parseAnalysis(reply)
}

// buildPrompt assembles system prompt, in-context demonstrations in their
// configured order, and the final instruction wrapping the caller's text.
func (f *FewShotClassifier) buildPrompt(text string) []ChatMessage {
	messages := make([]ChatMessage, 0, len(f.cfg.Examples)+2)
	messages = append(messages, ChatMessage{Role: "system", Content: f.cfg.SystemPrompt})

	for _, ex := range f.cfg.Examples {
		messages = append(messages, ChatMessage{Role: ex.Role, Content: ex.Content})
	}

	messages = append(messages, ChatMessage{Role: "user", Content: analyzeInstruction + text})
	return messages
}

type rawAnalysis struct {
	BiasDetected     *bool                   `json:"bias_detected"`
	PrimaryCategory  string                  `json:"primary_category"`
	OverallBiasLevel string                  `json:"overall_bias_level"`
	BiasesFound      []entity.FewShotFinding `json:"biases_found"`
	BiasFreeSections []string                `json:"bias_free_sections"`
	Summary          string                  `json:"summary"`
}

// parseAnalysis validates and defaults the model reply exactly once, at this
// boundary.
func parseAnalysis(reply string) *entity.FewShotAnalysis {
	var raw rawAnalysis
	if err := json.Unmarshal([]byte(reply), &raw); err != nil {
		return entity.DegradedAnalysis(entity.ErrTagJSONParse,
			fmt.Sprintf("Failed to parse model response as JSON: %v", err))
	}

	analysis := &entity.FewShotAnalysis{
		PrimaryCategory:  raw.PrimaryCategory,
		OverallBiasLevel: entity.BiasLevel(raw.OverallBiasLevel),
		BiasesFound:      raw.BiasesFound,
		BiasFreeSections: raw.BiasFreeSections,
		Summary:          raw.Summary,
	}
	if raw.BiasDetected != nil {
		analysis.BiasDetected = *raw.BiasDetected
	}
	if analysis.PrimaryCategory == "" {
		analysis.PrimaryCategory = "unknown"
	}
	if !analysis.OverallBiasLevel.IsValid() {
		analysis.OverallBiasLevel = entity.BiasLevelNone
	}
	if analysis.BiasesFound == nil {
		analysis.BiasesFound = []entity.FewShotFinding{}
	}
	if analysis.BiasFreeSections == nil {
		analysis.BiasFreeSections = []string{}
	}
	if analysis.Summary == "" {
		analysis.Summary = "No summary provided."
	}
	return analysis
}
