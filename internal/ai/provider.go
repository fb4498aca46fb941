// Package ai implements the grouping and categorization service boundary:
// a Gemini-backed provider plus typed, schema-validated request/response
// wrappers for each engine operation.
package ai

import (
	"context"
	"fmt"
	"os"
	"strings"
)

// Provider is the interface for LLM completions.
type Provider interface {
	// Complete sends a prompt and returns the response text.
	Complete(ctx context.Context, prompt string, opts CompletionOpts) (string, error)
	// Name returns a human-readable provider name (e.g., "google/gemini-2.0-flash").
	Name() string
}

// CompletionOpts configures a single completion request.
type CompletionOpts struct {
	MaxTokens   int     // Max tokens to generate (0 = provider default)
	Temperature float64 // 0.0-2.0 (0 = deterministic)
	System      string  // System prompt (optional)
	JSON        bool    // Request application/json output
	// ResponseSchema constrains JSON output to a structure. Implies JSON.
	ResponseSchema map[string]interface{}
}

// ProviderConfig holds provider construction parameters.
type ProviderConfig struct {
	Provider string // currently only "google"
	Model    string
	APIKey   string // empty = read from env
	BaseURL  string // override for tests
}

// NewProvider creates an LLM provider from the given config.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	switch strings.ToLower(cfg.Provider) {
	case "", "google":
		key := cfg.APIKey
		if key == "" {
			key = os.Getenv("GEMINI_API_KEY")
		}
		if key == "" {
			key = os.Getenv("GOOGLE_API_KEY")
		}
		if key == "" {
			return nil, fmt.Errorf("google provider requires GEMINI_API_KEY or GOOGLE_API_KEY")
		}
		model := cfg.Model
		if model == "" {
			model = "gemini-2.0-flash"
		}
		baseURL := cfg.BaseURL
		if baseURL == "" {
			baseURL = "https://generativelanguage.googleapis.com/v1beta"
		}
		return &googleProvider{apiKey: key, model: model, baseURL: baseURL}, nil
	default:
		return nil, fmt.Errorf("unknown AI provider: %q (supported: google)", cfg.Provider)
	}
}
