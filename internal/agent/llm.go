package agent

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mohammad-safakhou/taskforce/internal/fault"
	"github.com/mohammad-safakhou/taskforce/internal/notify"
	"github.com/mohammad-safakhou/taskforce/internal/provider"
)

// llmMaxTokens bounds the response of every LLM integration call.
const llmMaxTokens = 150

// ClientSource resolves a provider choice to an LLM client.
type ClientSource interface {
	Client(provider.Choice) (provider.Client, bool)
}

// LLMWorker delegates the task to the selected LLM provider. One failed
// provider call yields one Failed outcome; there is no silent retry and no
// fallback to another provider.
type LLMWorker struct {
	bus       *notify.Bus
	providers ClientSource
	def       provider.Choice
}

func NewLLMWorker(bus *notify.Bus, providers ClientSource, def provider.Choice) *LLMWorker {
	if def == "" {
		def = provider.OpenAI
	}
	return &LLMWorker{bus: bus, providers: providers, def: def}
}

func (w *LLMWorker) Name() Name { return LLMIntegration }

func (w *LLMWorker) Perform(ctx context.Context, task Task) Outcome {
	start := time.Now()
	choice := task.Provider
	if choice == "" {
		choice = w.def
	}
	w.bus.Publish(notify.NewEvent(string(LLMIntegration),
		fmt.Sprintf("Processing task with LLM (%s): %s", choice, task.Input)))

	client, ok := w.providers.Client(choice)
	if !ok {
		err := fmt.Errorf("unsupported LLM provider: %s", choice)
		w.bus.Publish(notify.NewEvent(string(LLMIntegration), err.Error()))
		return failedOutcome(LLMIntegration, fault.UnsupportedInput, err, start)
	}

	text, err := client.Generate(ctx, task.Input, llmMaxTokens)
	if err != nil {
		kind := fault.Classify(err)
		var perr *provider.Error
		if errors.As(err, &perr) {
			kind = perr.Kind
		}
		detail := fmt.Errorf("error processing task with %s: %w", choice, err)
		w.bus.Publish(notify.NewEvent(string(LLMIntegration), detail.Error()))
		return failedOutcome(LLMIntegration, kind, detail, start)
	}

	w.bus.Publish(notify.NewEvent(string(LLMIntegration), text))
	return okOutcome(LLMIntegration, text, start)
}
