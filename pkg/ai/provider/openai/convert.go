// ABOUTME: Message format conversion between internal types and OpenAI API format
// ABOUTME: Builds non-streaming chat completion request bodies and parses the reply

package openai

import (
	"fmt"

	"github.com/mauromedda/desktop-agent-go/pkg/ai"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content any    `json:"content"`
}

type contentPart struct {
	Type     string        `json:"type"`
	Text     string        `json:"text,omitempty"`
	ImageURL *imageURLPart `json:"image_url,omitempty"`
}

type imageURLPart struct {
	URL    string `json:"url"`
	Detail string `json:"detail,omitempty"`
}

func buildRequestBody(model *ai.Model, ctx *ai.Context, opts *ai.GenerateOptions, compat CompatMode) map[string]any {
	body := map[string]any{
		"model":  model.ID,
		"stream": false,
	}

	body["messages"] = convertMessages(ctx, compat)

	if opts != nil {
		if opts.MaxTokens > 0 {
			body["max_tokens"] = opts.MaxTokens
		} else if model.MaxOutputTokens > 0 {
			body["max_tokens"] = model.MaxOutputTokens
		}
		if opts.Temperature > 0 {
			body["temperature"] = opts.Temperature
		}
		if opts.TopP > 0 {
			body["top_p"] = opts.TopP
		}
	} else if model.MaxOutputTokens > 0 {
		body["max_tokens"] = model.MaxOutputTokens
	}

	return body
}

func convertMessages(ctx *ai.Context, compat CompatMode) []chatMessage {
	msgs := make([]chatMessage, 0, len(ctx.Messages)+1)

	if ctx.System != "" {
		msgs = append(msgs, chatMessage{Role: "system", Content: ctx.System})
	}

	for _, m := range ctx.Messages {
		msgs = append(msgs, chatMessage{Role: string(m.Role), Content: convertContent(m.Content, compat)})
	}

	return msgs
}

// convertContent renders a single text block as a bare string (OpenAI accepts
// both forms), but switches to the multipart array form as soon as an image
// is present, since image_url parts require it. Ollama's OpenAI-compat
// endpoint rejects the "detail" field on image_url parts, so it is omitted
// under CompatOllama; every grounding screenshot goes through this path
// when --ground_url points at a local Ollama server.
func convertContent(blocks []ai.Content, compat CompatMode) any {
	if len(blocks) == 1 && blocks[0].Type == ai.ContentText {
		return blocks[0].Text
	}

	parts := make([]contentPart, 0, len(blocks))
	for _, b := range blocks {
		switch b.Type {
		case ai.ContentImage:
			img := &imageURLPart{URL: fmt.Sprintf("data:%s;base64,%s", b.MediaType, b.Data)}
			if compat != CompatOllama {
				detail := b.Detail
				if detail == "" {
					detail = "auto"
				}
				img.Detail = detail
			}
			parts = append(parts, contentPart{Type: "image_url", ImageURL: img})
		default:
			parts = append(parts, contentPart{Type: "text", Text: b.Text})
		}
	}
	return parts
}

// chatCompletionResponse mirrors the non-streaming Chat Completions reply.
type chatCompletionResponse struct {
	Choices []struct {
		Message struct {
			Content          string `json:"content"`
			ReasoningContent string `json:"reasoning_content"`
		} `json:"message"`
		FinishReason string `json:"finish_reason"`
	} `json:"choices"`
	Usage struct {
		PromptTokens     int `json:"prompt_tokens"`
		CompletionTokens int `json:"completion_tokens"`
	} `json:"usage"`
}

func (r chatCompletionResponse) answer() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.Content
}

// reasoning returns the reasoning/thinking trace some OpenAI-compatible
// servers (vLLM reasoning models, DeepSeek-style APIs) emit alongside content.
func (r chatCompletionResponse) reasoning() string {
	if len(r.Choices) == 0 {
		return ""
	}
	return r.Choices[0].Message.ReasoningContent
}
