package ai

import "context"

type Message struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type CompletionRequest struct {
	Model           string
	Messages        []Message
	Temperature     float64
	MaxOutputTokens int64
}

// Backend performs one chat completion against one model.
type Backend interface {
	Complete(ctx context.Context, req CompletionRequest) (string, error)
}

// ModelLister lists the model ids a provider currently serves.
type ModelLister interface {
	ListModels(ctx context.Context) ([]string, error)
}
