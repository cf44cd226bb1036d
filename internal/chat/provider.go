package chat

import (
	"context"
	"strings"

	openai "github.com/sashabaranov/go-openai"

	"github.com/sells-group/credit-insights/internal/config"
)

// Completer is the slice of the OpenAI-compatible client the handler
// needs; go-openai's *Client satisfies it.
type Completer interface {
	CreateChatCompletion(ctx context.Context, req openai.ChatCompletionRequest) (openai.ChatCompletionResponse, error)
}

// NewCompleters builds one OpenAI-compatible client per provider that
// has an API key configured. Groq and Google are reached through their
// OpenAI-compatible endpoints, so a single client type covers all
// providers.
func NewCompleters(cfg config.LLMConfig) map[string]Completer {
	completers := make(map[string]Completer, len(cfg.Keys))
	for provider, key := range cfg.Keys {
		if key == "" {
			continue
		}
		clientCfg := openai.DefaultConfig(key)
		if base := cfg.BaseURLs[provider]; base != "" {
			clientCfg.BaseURL = base
		}
		completers[provider] = openai.NewClientWithConfig(clientCfg)
	}
	return completers
}

// modelPrefixes routes a requested model name to a provider. Checked in
// order; unrouted models go to the configured default provider.
var modelPrefixes = []struct {
	prefix   string
	provider string
}{
	{"gpt-", "openai"},
	{"o1", "openai"},
	{"o3", "openai"},
	{"gemini", "google"},
	{"llama", "groq"},
	{"mixtral", "groq"},
	{"gemma", "groq"},
}

func routeModel(model, defaultProvider string) string {
	lower := strings.ToLower(model)
	for _, m := range modelPrefixes {
		if strings.HasPrefix(lower, m.prefix) {
			return m.provider
		}
	}
	return defaultProvider
}
