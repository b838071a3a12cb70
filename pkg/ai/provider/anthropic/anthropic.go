// ABOUTME: Anthropic Messages API provider implementation
// ABOUTME: Non-streaming single request/response, with extended-thinking support

package anthropic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	"github.com/mauromedda/desktop-agent-go/pkg/ai"
	"github.com/mauromedda/desktop-agent-go/pkg/ai/internal/httputil"
)

const (
	defaultBaseURL    = "https://api.anthropic.com"
	anthropicVersion  = "2023-06-01"
	messagesPath      = "/v1/messages"
)

// Provider implements ai.ApiProvider for the Anthropic Messages API.
type Provider struct {
	client *httputil.Client
	apiKey string
}

// New creates an Anthropic provider. If apiKey is empty, it reads ANTHROPIC_API_KEY.
func New(apiKey, baseURL string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	baseURL = httputil.NormalizeBaseURL(baseURL)

	headers := map[string]string{
		"x-api-key":         apiKey,
		"anthropic-version": anthropicVersion,
		"content-type":      "application/json",
	}

	return &Provider{
		client: httputil.NewClient(baseURL, headers),
		apiKey: apiKey,
	}
}

// Api returns the Anthropic API identifier.
func (p *Provider) Api() ai.Api {
	return ai.ApiAnthropic
}

// Generate sends a single non-streaming request and returns the reply text.
func (p *Provider) Generate(ctx context.Context, model *ai.Model, aiCtx *ai.Context, opts *ai.GenerateOptions) (string, error) {
	resp, err := p.call(ctx, model, aiCtx, opts, false)
	if err != nil {
		return "", err
	}
	return resp.extractAnswer(), nil
}

// GenerateWithThinking requests extended reasoning and formats the reply as
// "<thoughts>...</thoughts>\n<answer>...</answer>".
func (p *Provider) GenerateWithThinking(ctx context.Context, model *ai.Model, aiCtx *ai.Context, opts *ai.GenerateOptions) (string, error) {
	resp, err := p.call(ctx, model, aiCtx, opts, model.SupportsThinking)
	if err != nil {
		return "", err
	}

	thoughts := resp.extractThinking()
	answer := resp.extractAnswer()
	return fmt.Sprintf("<thoughts>%s</thoughts>\n<answer>%s</answer>", thoughts, answer), nil
}

// call performs a single request to the Messages API and parses the response.
func (p *Provider) call(ctx context.Context, model *ai.Model, aiCtx *ai.Context, opts *ai.GenerateOptions, thinking bool) (messagesResponse, error) {
	body := buildRequestBody(model, aiCtx, opts, thinking)

	bodyJSON, err := json.Marshal(body)
	if err != nil {
		return messagesResponse{}, fmt.Errorf("failed to marshal request body: %w", err)
	}

	resp, err := p.client.Do(ctx, http.MethodPost, messagesPath, bytes.NewReader(bodyJSON))
	if err != nil {
		return messagesResponse{}, fmt.Errorf("anthropic request failed: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return messagesResponse{}, fmt.Errorf("failed to read anthropic response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return messagesResponse{}, fmt.Errorf("anthropic API error (status %d): %s", resp.StatusCode, respBody)
	}

	var parsed messagesResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return messagesResponse{}, fmt.Errorf("failed to parse anthropic response: %w", err)
	}

	return parsed, nil
}
