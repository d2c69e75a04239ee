package client

import "context"

// ChatMessage is one message in a chat-completion exchange
type ChatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

// ChatRequest is a provider-neutral chat-completion request. JSONMode asks
// the provider for a strict JSON-object reply.
type ChatRequest struct {
	Model       string
	Messages    []ChatMessage
	Temperature float64
	MaxTokens   int
	JSONMode    bool
}

// ChatClient is the interface both the few-shot and explanation adapters
// call. Implementations exist for the OpenAI chat-completions API and for
// Google Gemini; tests supply fakes.
type ChatClient interface {
	Complete(ctx context.Context, req *ChatRequest) (string, error)
}
