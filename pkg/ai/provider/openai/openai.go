// ABOUTME: OpenAI Chat Completions provider (also serves Ollama, vLLM, other OpenAI-compatible servers)
// ABOUTME: Non-streaming: one POST per Generate/GenerateWithThinking call

package openai

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"

	agentlog "github.com/mauromedda/desktop-agent-go/internal/log"
	"github.com/mauromedda/desktop-agent-go/pkg/ai"
	"github.com/mauromedda/desktop-agent-go/pkg/ai/internal/httputil"
)

const (
	defaultBaseURL     = "https://api.openai.com"
	chatCompletionPath = "/v1/chat/completions"
)

// Provider implements the OpenAI Chat Completions API and any
// OpenAI-compatible server reachable via a custom base URL (local grounding
// models served through Ollama or vLLM, per spec --ground_url).
type Provider struct {
	client *httputil.Client
	compat CompatMode
}

// New creates an OpenAI-compatible provider. baseURL selects the compat mode
// (see compat.go); an empty apiKey is fine for local servers that don't check it.
func New(apiKey, baseURL string) *Provider {
	if apiKey == "" {
		apiKey = os.Getenv("OPENAI_API_KEY")
	}
	if baseURL == "" {
		baseURL = defaultBaseURL
	}
	compat := DetectCompat(baseURL)
	baseURL = httputil.NormalizeBaseURL(baseURL)

	headers := map[string]string{"Content-Type": "application/json"}
	if apiKey != "" {
		headers["Authorization"] = "Bearer " + apiKey
	}

	return &Provider{
		client: httputil.NewClient(baseURL, headers),
		compat: compat,
	}
}

// Api returns the provider identifier.
func (p *Provider) Api() ai.Api {
	return ai.ApiOpenAI
}

// Generate sends a single non-streaming chat completion request.
func (p *Provider) Generate(ctx context.Context, model *ai.Model, llmCtx *ai.Context, opts *ai.GenerateOptions) (string, error) {
	resp, err := p.call(ctx, model, llmCtx, opts)
	if err != nil {
		return "", err
	}
	return resp.answer(), nil
}

// GenerateWithThinking requests a completion and, if the server returned a
// reasoning trace, wraps it in the shared thinking/answer format. Most
// OpenAI-compatible servers have no native thinking mode, so absent a
// reasoning_content field the thoughts section is left empty.
func (p *Provider) GenerateWithThinking(ctx context.Context, model *ai.Model, llmCtx *ai.Context, opts *ai.GenerateOptions) (string, error) {
	resp, err := p.call(ctx, model, llmCtx, opts)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("<thoughts>%s</thoughts>\n<answer>%s</answer>", resp.reasoning(), resp.answer()), nil
}

func (p *Provider) call(ctx context.Context, model *ai.Model, llmCtx *ai.Context, opts *ai.GenerateOptions) (chatCompletionResponse, error) {
	body := buildRequestBody(model, llmCtx, opts, p.compat)
	bodyBytes, err := json.Marshal(body)
	if err != nil {
		return chatCompletionResponse{}, fmt.Errorf("marshaling request: %w", err)
	}

	agentlog.Debug("http: POST %s%s model=%s", p.client.BaseURL(), chatCompletionPath, model.Name)
	resp, err := p.client.Do(ctx, http.MethodPost, chatCompletionPath, bytes.NewReader(bodyBytes))
	if err != nil {
		return chatCompletionResponse{}, fmt.Errorf("sending request: %w", err)
	}
	defer resp.Body.Close()
	agentlog.Debug("http: POST %s%s -> %d", p.client.BaseURL(), chatCompletionPath, resp.StatusCode)

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return chatCompletionResponse{}, fmt.Errorf("reading response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return chatCompletionResponse{}, fmt.Errorf("openai API error (status %d): %s", resp.StatusCode, respBody)
	}

	var parsed chatCompletionResponse
	if err := json.Unmarshal(respBody, &parsed); err != nil {
		return chatCompletionResponse{}, fmt.Errorf("parsing response: %w", err)
	}

	return parsed, nil
}
