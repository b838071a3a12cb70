// ABOUTME: Compatibility flags for local inference servers (Ollama, vLLM)
// ABOUTME: Adjusts request format for API differences in local deployments

package openai

import (
	"net/url"
	"strings"
)

// CompatMode defines compatibility adjustments for different API servers.
// Both the Worker/Reflector client and the Grounder's --ground_url client
// may point at a local Ollama or vLLM server instead of api.openai.com, and
// each format differs slightly from standard OpenAI Chat Completions.
type CompatMode int

const (
	CompatStandard CompatMode = iota // Standard OpenAI API
	CompatOllama                     // Ollama-specific adjustments
	CompatVLLM                       // vLLM server; requests are sent in standard form
)

const ollamaDefaultPort = "11434"

// DetectCompat determines the compatibility mode from the base URL. Ollama's
// OpenAI-compat endpoint is conventionally reached on port 11434 (or a host
// containing "ollama"); vLLM deployments are identified by a host containing
// "vllm". Anything else, including the default api.openai.com, is standard.
func DetectCompat(baseURL string) CompatMode {
	if baseURL == "" || baseURL == defaultBaseURL {
		return CompatStandard
	}

	u, err := url.Parse(baseURL)
	if err != nil {
		return CompatStandard
	}
	host := strings.ToLower(u.Hostname())

	switch {
	case u.Port() == ollamaDefaultPort, strings.Contains(host, "ollama"):
		return CompatOllama
	case strings.Contains(host, "vllm"):
		return CompatVLLM
	default:
		return CompatStandard
	}
}
