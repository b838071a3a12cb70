// ABOUTME: Core AI SDK types: Message, Content, Model, Context, GenerateOptions
// ABOUTME: Shared across all providers; wire-format agnostic, non-streaming

package ai

// Role represents a message role in the conversation.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
	RoleSystem    Role = "system"
)

// ContentType identifies the kind of content block.
type ContentType string

const (
	ContentText  ContentType = "text"
	ContentImage ContentType = "image"
)

// Content represents a content block within a message: either text or an
// inline image (base64-encoded, with an optional provider-specific detail
// hint such as "low"/"high"/"auto").
type Content struct {
	Type      ContentType `json:"type"`
	Text      string      `json:"text,omitempty"`
	MediaType string      `json:"media_type,omitempty"` // e.g. "image/png"
	Data      string      `json:"data,omitempty"`       // base64 image bytes
	Detail    string      `json:"detail,omitempty"`
}

// Message represents a single conversation turn.
type Message struct {
	Role    Role      `json:"role"`
	Content []Content `json:"content"`
}

// NewTextMessage creates a message with a single text content block.
func NewTextMessage(role Role, text string) Message {
	return Message{Role: role, Content: []Content{{Type: ContentText, Text: text}}}
}

// NewImageMessage creates a message carrying an optional text block followed
// by one image block, the shape the Worker/Reflector/Grounder send each turn.
func NewImageMessage(role Role, text string, mediaType, base64Data string) Message {
	var content []Content
	if text != "" {
		content = append(content, Content{Type: ContentText, Text: text})
	}
	content = append(content, Content{Type: ContentImage, MediaType: mediaType, Data: base64Data})
	return Message{Role: role, Content: content}
}

// Usage tracks token consumption for a single generate call.
type Usage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Api identifies an LLM API provider.
type Api string

const (
	ApiAnthropic Api = "anthropic"
	ApiOpenAI    Api = "openai"
)

// Model describes a model's identity and capabilities.
type Model struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Api              Api    `json:"api"`
	MaxOutputTokens  int    `json:"max_output_tokens"`
	SupportsImages   bool   `json:"supports_images"`
	SupportsThinking bool   `json:"supports_thinking"`
	BaseURL          string `json:"base_url,omitempty"`
}

// Context holds the system prompt and message history for one generate call.
type Context struct {
	System   string    `json:"system,omitempty"`
	Messages []Message `json:"messages"`
}

// GenerateOptions configures a single generate call.
type GenerateOptions struct {
	MaxTokens   int     `json:"max_tokens,omitempty"`
	Temperature float64 `json:"temperature,omitempty"`
	TopP        float64 `json:"top_p,omitempty"`
}
