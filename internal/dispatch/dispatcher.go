package dispatch

import (
	"context"
	"errors"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/mohammad-safakhou/taskforce/internal/agent"
	"github.com/mohammad-safakhou/taskforce/internal/provider"
	"github.com/mohammad-safakhou/taskforce/internal/telemetry"
)

var tracer = otel.Tracer("taskforce/internal/dispatch")

// ErrEmptyTask rejects a dispatch before any agent runs.
var ErrEmptyTask = errors.New("task must not be empty")

// Resolver looks agents up by name. Satisfied by *agent.Registry.
type Resolver interface {
	Resolve(agent.Name) (agent.Agent, bool)
}

// Request is one dispatch call: an opaque task, the selected agent names in
// caller order, and the LLM provider choice for the LLM-backed agent.
type Request struct {
	Task     string
	Agents   []agent.Name
	Provider provider.Choice
}

// Summary aggregates one dispatch. Outcomes preserve the request's
// selection order regardless of completion order; Skipped lists selected
// names the registry could not resolve.
type Summary struct {
	ID        string          `json:"id"`
	Task      string          `json:"task"`
	Provider  provider.Choice `json:"provider"`
	Outcomes  []agent.Outcome `json:"outcomes"`
	Skipped   []string        `json:"skipped,omitempty"`
	StartedAt time.Time       `json:"started_at"`
	Elapsed   time.Duration   `json:"elapsed"`
}

// Dispatcher fans one task out to the selected agents. Invocations are
// independent and run concurrently under a semaphore; one agent's failure
// never aborts the others.
type Dispatcher struct {
	registry Resolver
	logger   *log.Logger
	metrics  *telemetry.Metrics
	sem      chan struct{}
}

func New(registry Resolver, logger *log.Logger, metrics *telemetry.Metrics, maxConcurrent int) *Dispatcher {
	if logger == nil {
		logger = log.New(log.Writer(), "[DISPATCH] ", log.LstdFlags)
	}
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger,
		metrics:  metrics,
		sem:      make(chan struct{}, maxConcurrent),
	}
}

// Dispatch resolves and invokes every selected agent and returns their
// outcomes in request order. When ctx is cancelled mid-flight, outcomes
// already produced are kept and the rest are marked cancelled.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (Summary, error) {
	if strings.TrimSpace(req.Task) == "" {
		return Summary{}, ErrEmptyTask
	}
	choice := req.Provider
	if choice == "" {
		choice = provider.OpenAI
	}

	start := time.Now()
	summary := Summary{
		ID:        uuid.NewString(),
		Task:      req.Task,
		Provider:  choice,
		StartedAt: start.UTC(),
	}

	ctx, span := tracer.Start(ctx, "dispatch",
		trace.WithAttributes(
			attribute.String("dispatch.id", summary.ID),
			attribute.Int("dispatch.selected", len(req.Agents)),
		))
	defer span.End()

	type resolved struct {
		slot int
		a    agent.Agent
	}
	var run []resolved
	for _, name := range req.Agents {
		a, ok := d.registry.Resolve(name)
		if !ok {
			d.logger.Printf("skipping unknown agent %q", name)
			summary.Skipped = append(summary.Skipped, string(name))
			continue
		}
		run = append(run, resolved{slot: len(run), a: a})
	}

	task := agent.Task{Input: req.Task, Provider: choice}
	outcomes := make([]agent.Outcome, len(run))
	type slotOutcome struct {
		slot int
		o    agent.Outcome
	}
	results := make(chan slotOutcome, len(run))

	for _, r := range run {
		go func(r resolved) {
			select {
			case d.sem <- struct{}{}:
				defer func() { <-d.sem }()
			case <-ctx.Done():
				results <- slotOutcome{r.slot, agent.CancelledOutcome(r.a.Name(), ctx.Err())}
				return
			}

			agentCtx, agentSpan := tracer.Start(ctx, "agent.perform",
				trace.WithAttributes(attribute.String("agent.name", string(r.a.Name()))))
			o := r.a.Perform(agentCtx, task)
			if o.Status == agent.StatusFailed {
				agentSpan.SetStatus(codes.Error, o.ErrorDetail)
			}
			agentSpan.End()

			d.metrics.RecordAgent(string(o.Agent), string(o.Status), o.Elapsed)
			results <- slotOutcome{r.slot, o}
		}(r)
	}

	filled := make([]bool, len(run))
	pending := len(run)
collect:
	for pending > 0 {
		select {
		case so := <-results:
			outcomes[so.slot] = so.o
			filled[so.slot] = true
			pending--
		case <-ctx.Done():
			break collect
		}
	}
	for i, ok := range filled {
		if !ok {
			outcomes[i] = agent.CancelledOutcome(run[i].a.Name(), ctx.Err())
		}
	}

	summary.Outcomes = outcomes
	summary.Elapsed = time.Since(start)
	d.metrics.RecordDispatch(summary.Elapsed)
	d.logger.Printf("dispatch %s: %d agents, %d skipped, %s",
		summary.ID, len(outcomes), len(summary.Skipped), summary.Elapsed)
	return summary, nil
}
