package agent

import (
	"time"

	"github.com/mohammad-safakhou/taskforce/internal/fetch"
	"github.com/mohammad-safakhou/taskforce/internal/notify"
	"github.com/mohammad-safakhou/taskforce/internal/provider"
)

// Deps carries the collaborators the agents need. Everything is injected;
// agents hold no ambient globals.
type Deps struct {
	Bus          *notify.Bus
	Providers    ClientSource
	Fetcher      fetch.Fetcher
	Summarizer   Summarizer
	Extractor    TextExtractor
	FetchTimeout time.Duration
	DefaultLLM   provider.Choice
}

// Registry is the static mapping from agent name to instance. It is
// populated once at process start with exactly one instance per enumerated
// name and is read-only afterwards.
type Registry struct {
	agents map[Name]Agent
}

func NewRegistry(deps Deps) *Registry {
	agents := map[Name]Agent{
		ResearchSpecialist: NewResearchSpecialist(deps.Bus),
		PolicyAnalyst:      NewPolicyAnalyst(deps.Bus),
		Technologist:       NewTechnologist(deps.Bus),
		Communicator:       NewCommunicator(deps.Bus),
		WebBrowser:         NewBrowser(deps.Bus, deps.Fetcher, deps.FetchTimeout),
		DataProcessing:     NewDataProcessor(deps.Bus, deps.Summarizer, deps.Extractor),
		SentimentAnalysis:  NewSentimentAnalyzer(deps.Bus),
		Recommendation:     NewRecommender(deps.Bus),
		LLMIntegration:     NewLLMWorker(deps.Bus, deps.Providers, deps.DefaultLLM),
	}
	return &Registry{agents: agents}
}

// Resolve returns the agent registered under name.
func (r *Registry) Resolve(name Name) (Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}
