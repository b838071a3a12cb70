// ABOUTME: Message format conversion between internal ai types and Anthropic API format
// ABOUTME: Builds non-streaming request bodies and parses the full Messages API response

package anthropic

import (
	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

// convertMessages transforms internal messages into Anthropic API format.
func convertMessages(msgs []ai.Message) []map[string]any {
	out := make([]map[string]any, 0, len(msgs))
	for _, msg := range msgs {
		out = append(out, map[string]any{
			"role":    string(msg.Role),
			"content": convertContent(msg.Content),
		})
	}
	return out
}

// convertContent transforms internal content blocks into Anthropic API format.
func convertContent(blocks []ai.Content) []map[string]any {
	out := make([]map[string]any, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, convertContentBlock(b))
	}
	return out
}

// convertContentBlock converts a single content block to Anthropic API format.
func convertContentBlock(b ai.Content) map[string]any {
	switch b.Type {
	case ai.ContentImage:
		return map[string]any{
			"type": "image",
			"source": map[string]any{
				"type":       "base64",
				"media_type": b.MediaType,
				"data":       b.Data,
			},
		}
	default:
		return map[string]any{"type": "text", "text": b.Text}
	}
}

// buildRequestBody constructs the full non-streaming Anthropic Messages API
// request body. thinking enables extended reasoning with a fixed budget;
// the response then carries a leading "thinking" content block.
func buildRequestBody(model *ai.Model, ctx *ai.Context, opts *ai.GenerateOptions, thinking bool) map[string]any {
	body := map[string]any{
		"model":      model.ID,
		"stream":     false,
		"max_tokens": resolveMaxTokens(model, opts),
	}

	if ctx.System != "" {
		body["system"] = ctx.System
	}

	if len(ctx.Messages) > 0 {
		body["messages"] = convertMessages(ctx.Messages)
	}

	if thinking && model.SupportsThinking {
		body["thinking"] = map[string]any{
			"type":          "enabled",
			"budget_tokens": thinkingBudgetTokens(model, opts),
		}
		// Anthropic requires temperature 1 when thinking is enabled.
		delete(body, "temperature")
	} else {
		applyGenerateOptions(body, opts)
	}

	return body
}

// resolveMaxTokens returns the max tokens value, preferring opts over model defaults.
func resolveMaxTokens(model *ai.Model, opts *ai.GenerateOptions) int {
	if opts != nil && opts.MaxTokens > 0 {
		return opts.MaxTokens
	}
	return model.MaxOutputTokens
}

// thinkingBudgetTokens reserves roughly half the output budget for reasoning.
func thinkingBudgetTokens(model *ai.Model, opts *ai.GenerateOptions) int {
	max := resolveMaxTokens(model, opts)
	budget := max / 2
	if budget < 1024 {
		budget = 1024
	}
	return budget
}

// applyGenerateOptions applies optional generation parameters to the request body.
func applyGenerateOptions(body map[string]any, opts *ai.GenerateOptions) {
	if opts == nil {
		return
	}
	if opts.Temperature > 0 {
		body["temperature"] = opts.Temperature
	}
	if opts.TopP > 0 {
		body["top_p"] = opts.TopP
	}
}

// messagesResponse mirrors the Anthropic Messages API's non-streaming reply.
type messagesResponse struct {
	Content []responseBlock `json:"content"`
	Usage   ai.Usage        `json:"usage"`
	Model   string          `json:"model"`
}

type responseBlock struct {
	Type     string `json:"type"`
	Text     string `json:"text"`
	Thinking string `json:"thinking"`
}

// extractAnswer concatenates all "text" blocks from the response.
func (r messagesResponse) extractAnswer() string {
	var text string
	for _, b := range r.Content {
		if b.Type == "text" {
			text += b.Text
		}
	}
	return text
}

// extractThinking concatenates all "thinking" blocks from the response.
func (r messagesResponse) extractThinking() string {
	var text string
	for _, b := range r.Content {
		if b.Type == "thinking" {
			text += b.Thinking
		}
	}
	return text
}
