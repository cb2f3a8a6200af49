package panel

import (
	"context"

	"lexdesk/internal/inference"
)

// Classifier is the subset of the inference client the classification panel needs.
type Classifier interface {
	Classify(ctx context.Context, req inference.ClassifyRequest) (inference.ClassifyResult, error)
}

// Prioritizer is the subset of the inference client the prioritization panel needs.
type Prioritizer interface {
	Prioritize(ctx context.Context, req inference.PrioritizeRequest) (inference.PrioritizeResult, error)
}

type (
	ClassifyController   = Controller[inference.ClassifyRequest, inference.ClassifyResult]
	ClassifyTicket       = Ticket[inference.ClassifyRequest]
	ClassifyOutcome      = Outcome[inference.ClassifyResult]
	PrioritizeController = Controller[inference.PrioritizeRequest, inference.PrioritizeResult]
	PrioritizeTicket     = Ticket[inference.PrioritizeRequest]
	PrioritizeOutcome    = Outcome[inference.PrioritizeResult]
)

// NewClassify creates the case classification panel.
func NewClassify(c Classifier) *ClassifyController {
	return New(Options[inference.ClassifyRequest, inference.ClassifyResult]{
		Name:     "classify",
		Build:    func(input string) inference.ClassifyRequest { return inference.ClassifyRequest{Text: input} },
		Dispatch: c.Classify,
		Fallback: inference.ClassifyFallback,
	})
}

// NewPrioritize creates the case prioritization panel.
func NewPrioritize(p Prioritizer) *PrioritizeController {
	return New(Options[inference.PrioritizeRequest, inference.PrioritizeResult]{
		Name:     "prioritize",
		Build:    func(input string) inference.PrioritizeRequest { return inference.PrioritizeRequest{Text: input} },
		Dispatch: p.Prioritize,
		Fallback: inference.PrioritizeFallback,
	})
}
