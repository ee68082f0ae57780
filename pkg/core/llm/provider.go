// Package llm abstracts the text-generation providers the summarizer calls.
package llm

import "context"

// Provider is the interface for all LLM providers.
type Provider interface {
	// GenerateResponse sends one prompt and returns the model's text.
	// Recognized options vary by provider (model, response_format, api_key).
	GenerateResponse(ctx context.Context, prompt string, systemPrompt string, options map[string]interface{}) (string, error)
}
