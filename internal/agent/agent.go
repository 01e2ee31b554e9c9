package agent

import (
	"context"
	"errors"
	"time"

	"github.com/mohammad-safakhou/taskforce/internal/fault"
	"github.com/mohammad-safakhou/taskforce/internal/provider"
)

// Name identifies one of the fixed task-handling agents. The set is closed;
// the registry is populated with exactly one instance per name.
type Name string

const (
	ResearchSpecialist Name = "Research Specialist"
	PolicyAnalyst      Name = "Policy Analyst"
	Technologist       Name = "Technologist"
	Communicator       Name = "Communicator"
	WebBrowser         Name = "Web Browser"
	DataProcessing     Name = "Data Processing"
	SentimentAnalysis  Name = "Sentiment Analysis"
	Recommendation     Name = "Recommendation"
	LLMIntegration     Name = "LLM Integration"
)

var names = []Name{
	ResearchSpecialist,
	PolicyAnalyst,
	Technologist,
	Communicator,
	WebBrowser,
	DataProcessing,
	SentimentAnalysis,
	Recommendation,
	LLMIntegration,
}

// Names returns the closed agent-name set in a stable order.
func Names() []Name {
	out := make([]Name, len(names))
	copy(out, names)
	return out
}

// ParseName reports whether s is a known agent name.
func ParseName(s string) (Name, bool) {
	for _, n := range names {
		if string(n) == s {
			return n, true
		}
	}
	return "", false
}

// Status is the terminal state of one agent invocation.
type Status string

const (
	StatusOk        Status = "ok"
	StatusFailed    Status = "failed"
	StatusCancelled Status = "cancelled"
)

// Task is the immutable payload one dispatch hands to every selected agent.
// Provider is only meaningful to the LLM Integration agent; the others
// ignore it.
type Task struct {
	Input    string
	Provider provider.Choice
}

// Outcome is the terminal result of one agent invocation. Agents never
// raise; every internal failure is converted into a Failed outcome with a
// human-readable detail and a fault kind.
type Outcome struct {
	Agent       Name          `json:"agent"`
	Result      string        `json:"result,omitempty"`
	Status      Status        `json:"status"`
	ErrorDetail string        `json:"error_detail,omitempty"`
	ErrorKind   fault.Kind    `json:"error_kind,omitempty"`
	Elapsed     time.Duration `json:"elapsed"`
}

// Agent is one task-handling unit. Perform must not panic or return an
// error; failures come back inside the Outcome. Before returning, every
// agent publishes at least one notification event carrying its final
// message.
type Agent interface {
	Name() Name
	Perform(ctx context.Context, task Task) Outcome
}

func okOutcome(name Name, result string, start time.Time) Outcome {
	return Outcome{
		Agent:   name,
		Result:  result,
		Status:  StatusOk,
		Elapsed: time.Since(start),
	}
}

func failedOutcome(name Name, kind fault.Kind, err error, start time.Time) Outcome {
	detail := "unknown error"
	if err != nil {
		detail = err.Error()
	}
	if kind == "" {
		kind = fault.Classify(err)
	}
	return Outcome{
		Agent:       name,
		Status:      StatusFailed,
		ErrorDetail: detail,
		ErrorKind:   kind,
		Elapsed:     time.Since(start),
	}
}

// CancelledOutcome marks an invocation that never ran because the dispatch
// context was cancelled first.
func CancelledOutcome(name Name, err error) Outcome {
	if err == nil {
		err = errors.New("dispatch cancelled")
	}
	return Outcome{
		Agent:       name,
		Status:      StatusCancelled,
		ErrorDetail: err.Error(),
		ErrorKind:   fault.Timeout,
	}
}
