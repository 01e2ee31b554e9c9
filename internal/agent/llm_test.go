package agent

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mohammad-safakhou/taskforce/internal/fault"
	"github.com/mohammad-safakhou/taskforce/internal/notify"
	"github.com/mohammad-safakhou/taskforce/internal/provider"
)

type stubClient struct {
	name      provider.Choice
	text      string
	err       error
	gotPrompt string
	gotTokens int
}

func (c *stubClient) Name() provider.Choice { return c.name }

func (c *stubClient) Generate(_ context.Context, prompt string, maxTokens int) (string, error) {
	c.gotPrompt = prompt
	c.gotTokens = maxTokens
	return c.text, c.err
}

type stubSource map[provider.Choice]provider.Client

func (s stubSource) Client(c provider.Choice) (provider.Client, bool) {
	client, ok := s[c]
	return client, ok
}

func TestLLMWorkerGenerates(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()
	sub := bus.Subscribe()

	client := &stubClient{name: provider.OpenAI, text: "model output"}
	w := NewLLMWorker(bus, stubSource{provider.OpenAI: client}, provider.OpenAI)

	o := w.Perform(context.Background(), Task{Input: "summarize this", Provider: provider.OpenAI})
	if o.Status != StatusOk {
		t.Fatalf("status = %q, detail %q", o.Status, o.ErrorDetail)
	}
	if o.Result != "model output" {
		t.Fatalf("result = %q", o.Result)
	}
	if client.gotPrompt != "summarize this" {
		t.Fatalf("prompt = %q", client.gotPrompt)
	}
	if client.gotTokens != llmMaxTokens {
		t.Fatalf("maxTokens = %d, want %d", client.gotTokens, llmMaxTokens)
	}

	evs := collectEvents(t, sub, 2)
	if evs[0].Message != "Processing task with LLM (openai): summarize this" {
		t.Fatalf("start event = %q", evs[0].Message)
	}
	if evs[1].Message != "model output" {
		t.Fatalf("result event = %q", evs[1].Message)
	}
}

func TestLLMWorkerDefaultsProvider(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()

	client := &stubClient{name: provider.Ollama, text: "ok"}
	w := NewLLMWorker(bus, stubSource{provider.Ollama: client}, provider.Ollama)
	o := w.Perform(context.Background(), Task{Input: "q"})
	if o.Status != StatusOk {
		t.Fatalf("status = %q, detail %q", o.Status, o.ErrorDetail)
	}
}

func TestLLMWorkerUnknownProvider(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()

	w := NewLLMWorker(bus, stubSource{}, provider.OpenAI)
	o := w.Perform(context.Background(), Task{Input: "q", Provider: "mistral"})
	if o.Status != StatusFailed {
		t.Fatalf("status = %q", o.Status)
	}
	if o.ErrorKind != fault.UnsupportedInput {
		t.Fatalf("kind = %q, want unsupported_input", o.ErrorKind)
	}
}

func TestLLMWorkerProviderFailureKeepsKind(t *testing.T) {
	bus := notify.NewBus(8, nil)
	defer bus.Close()
	sub := bus.Subscribe()

	perr := &provider.Error{Provider: provider.Anthropic, Kind: fault.Auth, Err: errors.New("ANTHROPIC_API_KEY not configured")}
	client := &stubClient{name: provider.Anthropic, err: perr}
	w := NewLLMWorker(bus, stubSource{provider.Anthropic: client}, provider.OpenAI)

	o := w.Perform(context.Background(), Task{Input: "q", Provider: provider.Anthropic})
	if o.Status != StatusFailed {
		t.Fatalf("status = %q", o.Status)
	}
	if o.ErrorKind != fault.Auth {
		t.Fatalf("kind = %q, want auth", o.ErrorKind)
	}
	if !strings.Contains(o.ErrorDetail, "error processing task with anthropic") {
		t.Fatalf("detail = %q", o.ErrorDetail)
	}
	evs := collectEvents(t, sub, 2)
	if !strings.Contains(evs[1].Message, "error processing task with anthropic") {
		t.Fatalf("failure event = %q", evs[1].Message)
	}
}
