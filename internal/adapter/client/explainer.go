package client

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/clinassure/bias-audit-api/internal/domain/entity"
	"github.com/clinassure/bias-audit-api/internal/domain/service"
)

const explainerSystemPrompt = `You are an expert medical auditor specializing in bias detection in clinical documentation.
Your task is to analyze a clinical text based on a pre-detected bias label and provide a structured assessment.`

// LLMExplainer asks an external LLM to justify an already-computed label.
// A nil chat client short-circuits to the fallback payload.
type LLMExplainer struct {
	chat  ChatClient
	model string
}

// NewLLMExplainer creates a new explanation adapter
func NewLLMExplainer(chat ChatClient, model string) service.Explainer {
	return &LLMExplainer{chat: chat, model: model}
}

// Explain produces rationale, flags, and a recommended revision for the
// classified text. It never returns an error: any failure yields a fallback
// payload keeping the original text as the revision.
func (e *LLMExplainer) Explain(ctx context.Context, text string, label entity.BiasLabel, confidence float64) *entity.Explanation {
	if e.chat == nil {
		return entity.FallbackExplanation(text,
			"API key not configured. Using fallback templates.",
			entity.ErrTagMissingAPIKey)
	}

	reply, err := e.chat.Complete(ctx, &ChatRequest{
		Model: e.model,
		Messages: []ChatMessage{
			{Role: "system", Content: explainerSystemPrompt},
			{Role: "user", Content: buildExplainPrompt(text, label, confidence)},
		},
		Temperature: 0.3,
		MaxTokens:   500,
	})
	if err != nil {
		tag := entity.ErrTagCallFailed
		if IsTimeout(err) {
			tag = entity.ErrTagTimeout
		}
		return entity.FallbackExplanation(text,
			fmt.Sprintf("Analysis unavailable due to service error: %v", err), tag)
	}

	var explanation entity.Explanation
	if err := json.Unmarshal([]byte(stripCodeFences(reply)), &explanation); err != nil {
		return entity.FallbackExplanation(text,
			fmt.Sprintf("Failed to parse model response as JSON: %v", err),
			entity.ErrTagJSONParse)
	}
	if explanation.Flags == nil {
		explanation.Flags = []string{}
	}
	if explanation.RecommendedRevision == "" {
		explanation.RecommendedRevision = text
	}
	return &explanation
}

func buildExplainPrompt(text string, label entity.BiasLabel, confidence float64) string {
	return fmt.Sprintf(`Input Text: %q
Detected Label: %s
Model Confidence: %.2f

Please provide a json response (note: use the word "json" lowercase) with the following fields:
1. "rationale": A professional clinical explanation (2-3 sentences) detailing why this text falls under the '%s' category (or why it is unbiased if no_bias). Focus on the impact on patient care.
2. "flags": A list of specific substrings from the input text that are problematic. If 'no_bias', return an empty list.
3. "recommended_revision": A rewritten version of the text that conveys the same clinical information but removes the bias/stigma. If 'no_bias', return the original text.

Ensure the tone is objective, educational, and constructive.
Respond ONLY with the json object (no surrounding text or markdown fences).`, text, label, confidence, label)
}

// stripCodeFences removes a surrounding markdown code fence that some models
// add despite instructions.
func stripCodeFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
