package adapters

import (
	"context"

	"github.com/postguard/postguard/internal/adapters/llm"
)

// LLM defines the interface for language model operations
type LLM interface {
	// ChatCompletion performs a chat completion request
	ChatCompletion(ctx context.Context, messages []llm.ChatCompletionMessage) (llm.ChatCompletionResponse, error)
	// Detect asks the model for a spam verdict on a single message
	Detect(ctx context.Context, message string) (*bool, error)
}
