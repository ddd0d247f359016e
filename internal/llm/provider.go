// Package llm abstracts the text-generation collaborator used for claim
// extraction and automated assessment.
package llm

import "context"

// Provider defines the interface for text-generation backends.
type Provider interface {
	// Name returns the provider name.
	Name() string

	// Generate submits a single prompt and returns the raw completion
	// text. Callers own interpretation of the text; providers never
	// post-process it.
	Generate(ctx context.Context, req GenerateRequest) (*GenerateResponse, error)

	// IsAvailable checks if the provider is properly configured and
	// accessible.
	IsAvailable(ctx context.Context) bool
}

// GenerateRequest contains the input for one completion call.
type GenerateRequest struct {
	// Prompt is the full instruction text.
	Prompt string

	// System is an optional system message (providers that have no
	// system channel prepend it to the prompt).
	System string

	// Model overrides the configured model for this call.
	Model string

	// MaxTokens limits the response length; 0 means the configured
	// default.
	MaxTokens int

	// Temperature controls sampling; the pipeline keeps it low for
	// deterministic, parseable output.
	Temperature float32
}

// GenerateResponse contains the completion output.
type GenerateResponse struct {
	// Text is the raw completion.
	Text string

	// Model is the model that generated the response.
	Model string

	// TokensUsed tracks token consumption.
	TokensUsed int
}

// Config holds provider configuration.
type Config struct {
	// Provider name: "openai", "anthropic", "ollama", ""
	Provider string

	// Model name (provider-specific)
	Model string

	// APIKey for OpenAI/Anthropic
	APIKey string

	// BaseURL for custom endpoints (e.g., Ollama)
	BaseURL string

	// Timeout for API requests
	Timeout int // seconds

	// MaxTokens for response generation
	MaxTokens int

	// Proxy settings
	HTTPProxy  string
	HTTPSProxy string
	NoProxy    string
}

// DefaultConfig returns sensible defaults.
func DefaultConfig() Config {
	return Config{
		Provider:  "",
		Model:     "",
		Timeout:   30,
		MaxTokens: 2048,
	}
}
