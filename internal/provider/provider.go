package provider

import (
	"context"
	"fmt"

	"github.com/mohammad-safakhou/taskforce/config"
	"github.com/mohammad-safakhou/taskforce/internal/fault"
	"github.com/mohammad-safakhou/taskforce/internal/telemetry"
)

// Choice identifies an LLM backend.
type Choice string

const (
	OpenAI    Choice = "openai"
	Anthropic Choice = "anthropic"
	Ollama    Choice = "ollama"
)

// ParseChoice maps a request string onto a Choice. An empty string selects
// the given default.
func ParseChoice(s string, def Choice) (Choice, error) {
	switch Choice(s) {
	case "":
		if def == "" {
			return OpenAI, nil
		}
		return def, nil
	case OpenAI, Anthropic, Ollama:
		return Choice(s), nil
	default:
		return "", fmt.Errorf("unsupported LLM provider: %q", s)
	}
}

// Client is the uniform contract over LLM backends: one logical call per
// invocation, bounded response size, no internal retries. Any transport,
// auth or timeout failure comes back as *Error.
type Client interface {
	Name() Choice
	Generate(ctx context.Context, prompt string, maxTokens int) (string, error)
}

// Error wraps a backend failure with the provider identity and a fault kind
// so failures in one provider never masquerade as another's.
type Error struct {
	Provider Choice
	Kind     fault.Kind
	Err      error
}

func (e *Error) Error() string {
	return fmt.Sprintf("provider %s: %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Registry holds one client per enumerated provider. All three clients are
// constructed at process start regardless of credential presence; a missing
// credential surfaces as an auth Error when Generate is called.
type Registry struct {
	clients map[Choice]Client
}

// NewRegistry builds the provider registry from configuration. When metrics
// is non-nil, every Generate call is counted per provider.
func NewRegistry(cfg config.LLMConfig, metrics *telemetry.Metrics) *Registry {
	clients := map[Choice]Client{
		OpenAI:    NewOpenAIClient(cfg.OpenAI),
		Anthropic: NewAnthropicClient(cfg.Anthropic),
		Ollama:    NewOllamaClient(cfg.Ollama),
	}
	if metrics != nil {
		for name, c := range clients {
			clients[name] = &instrumented{Client: c, metrics: metrics}
		}
	}
	return &Registry{clients: clients}
}

// NewRegistryWithClients builds a registry from explicit clients. Intended
// for tests.
func NewRegistryWithClients(clients map[Choice]Client) *Registry {
	return &Registry{clients: clients}
}

// Client returns the client for a provider choice.
func (r *Registry) Client(c Choice) (Client, bool) {
	client, ok := r.clients[c]
	return client, ok
}

// instrumented counts Generate calls on the wrapped client.
type instrumented struct {
	Client
	metrics *telemetry.Metrics
}

func (i *instrumented) Generate(ctx context.Context, prompt string, maxTokens int) (string, error) {
	text, err := i.Client.Generate(ctx, prompt, maxTokens)
	i.metrics.RecordProvider(string(i.Name()), err == nil)
	return text, err
}
