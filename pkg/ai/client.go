// ABOUTME: Retrying LLM client wrapper shared by the Worker, Reflector, Grounder, and Code sub-agent
// ABOUTME: Retries transient generate failures up to 3 times with a fixed 1s sleep, swallowing errors

package ai

import (
	"context"
	"time"

	agentlog "github.com/mauromedda/desktop-agent-go/internal/log"
)

const generateMaxAttempts = 3

// generateRetryDelay is a var, not a const, so tests can shrink it.
var generateRetryDelay = time.Second

// Client wraps an ApiProvider with the generate-call retry policy every
// component in this module shares: up to 3 attempts, a flat 1 second sleep
// between them, errors are logged and swallowed rather than propagated, and
// the caller receives an empty string once attempts are exhausted. Callers
// that need to distinguish "model said nothing" from "transport failed
// after retries" have no such signal here by design — the step loop treats
// both the same way, as a format-validation failure to retry against.
type Client struct {
	provider ApiProvider
	model    *Model
}

// NewClient binds a provider to a specific model.
func NewClient(provider ApiProvider, model *Model) *Client {
	return &Client{provider: provider, model: model}
}

// Model returns the bound model.
func (c *Client) Model() *Model {
	return c.model
}

// Generate calls the provider's non-thinking generate path with the shared
// retry policy.
func (c *Client) Generate(ctx context.Context, llmCtx *Context, opts *GenerateOptions) string {
	return c.retry(ctx, func(ctx context.Context) (string, error) {
		return c.provider.Generate(ctx, c.model, llmCtx, opts)
	})
}

// GenerateWithThinking calls the provider's thinking-enabled generate path
// with the shared retry policy.
func (c *Client) GenerateWithThinking(ctx context.Context, llmCtx *Context, opts *GenerateOptions) string {
	return c.retry(ctx, func(ctx context.Context) (string, error) {
		return c.provider.GenerateWithThinking(ctx, c.model, llmCtx, opts)
	})
}

func (c *Client) retry(ctx context.Context, call func(context.Context) (string, error)) string {
	for attempt := 0; attempt < generateMaxAttempts; attempt++ {
		text, err := call(ctx)
		if err == nil {
			return text
		}

		agentlog.Warn("llm generate attempt %d/%d failed: %v", attempt+1, generateMaxAttempts, err)

		if attempt < generateMaxAttempts-1 {
			select {
			case <-time.After(generateRetryDelay):
			case <-ctx.Done():
				return ""
			}
		}
	}

	return ""
}
