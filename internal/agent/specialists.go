package agent

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/mohammad-safakhou/taskforce/internal/notify"
)

// Specialist is a synchronous agent producing a deterministic templated
// message from the task. It performs no I/O and cannot fail.
type Specialist struct {
	name     Name
	template string
	bus      *notify.Bus
}

func NewResearchSpecialist(bus *notify.Bus) *Specialist {
	return &Specialist{name: ResearchSpecialist, template: "Researching topic: %s", bus: bus}
}

func NewPolicyAnalyst(bus *notify.Bus) *Specialist {
	return &Specialist{name: PolicyAnalyst, template: "Evaluating policy impacts for: %s", bus: bus}
}

func NewTechnologist(bus *notify.Bus) *Specialist {
	return &Specialist{name: Technologist, template: "Assessing technical feasibility for: %s", bus: bus}
}

func NewCommunicator(bus *notify.Bus) *Specialist {
	return &Specialist{name: Communicator, template: "Preparing communication materials for: %s", bus: bus}
}

func (s *Specialist) Name() Name { return s.name }

func (s *Specialist) Perform(_ context.Context, task Task) Outcome {
	start := time.Now()
	result := fmt.Sprintf(s.template, task.Input)
	s.bus.Publish(notify.NewEvent(string(s.name), result))
	return okOutcome(s.name, result, start)
}

// Recommender suggests follow-up actions for the task context. The
// suggestions are canned; a ranking model can slot in behind the same
// contract later.
type Recommender struct {
	bus *notify.Bus
}

func NewRecommender(bus *notify.Bus) *Recommender {
	return &Recommender{bus: bus}
}

func (r *Recommender) Name() Name { return Recommendation }

func (r *Recommender) Perform(_ context.Context, task Task) Outcome {
	start := time.Now()
	r.bus.Publish(notify.NewEvent(string(Recommendation),
		fmt.Sprintf("Generating recommendations based on context: %s", task.Input)))

	recommendations := []string{
		"Read more on similar topics",
		"Consult a technical expert",
	}
	result := fmt.Sprintf("Recommendations: %s", strings.Join(recommendations, ", "))
	r.bus.Publish(notify.NewEvent(string(Recommendation), result))
	return okOutcome(Recommendation, result, start)
}

// SentimentAnalyzer is a keyword placeholder, not model inference: the
// literal marker "good" (case-insensitive) classifies the text Positive,
// anything else Neutral.
type SentimentAnalyzer struct {
	bus *notify.Bus
}

func NewSentimentAnalyzer(bus *notify.Bus) *SentimentAnalyzer {
	return &SentimentAnalyzer{bus: bus}
}

func (s *SentimentAnalyzer) Name() Name { return SentimentAnalysis }

func (s *SentimentAnalyzer) Perform(_ context.Context, task Task) Outcome {
	start := time.Now()
	s.bus.Publish(notify.NewEvent(string(SentimentAnalysis),
		"Analyzing sentiment for the provided text."))

	sentiment := "Neutral"
	if strings.Contains(strings.ToLower(task.Input), "good") {
		sentiment = "Positive"
	}
	result := fmt.Sprintf("Sentiment analysis result: %s", sentiment)
	s.bus.Publish(notify.NewEvent(string(SentimentAnalysis), result))
	return okOutcome(SentimentAnalysis, result, start)
}
