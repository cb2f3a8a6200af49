// Package panel implements the request lifecycle shared by every lexdesk panel.
//
// A Controller owns one panel's input, result, error and loading state and
// drives a single remote call per submission:
//
//	Idle -> Pending -> Succeeded | Failed -> Idle (next edit) -> Pending ...
//
// Submission is split into three steps so a UI event loop never blocks:
// Submit validates and moves to Pending on the loop, Run performs the call
// off the loop, and Settle applies the outcome back on the loop.
package panel

import (
	"context"
	"strings"

	"lexdesk/internal/inference"
	"lexdesk/internal/logging"
)

// State is the lifecycle position of a panel.
type State int

const (
	Idle State = iota
	Pending
	Succeeded
	Failed
)

func (s State) String() string {
	names := []string{"idle", "pending", "succeeded", "failed"}
	if int(s) < len(names) {
		return names[s]
	}
	return "unknown"
}

// Dispatch performs the remote call for one request.
type Dispatch[Req, Res any] func(ctx context.Context, req Req) (Res, error)

// Options parameterizes a Controller.
type Options[Req, Res any] struct {
	// Name labels the panel in logs.
	Name string

	// Build turns the trimmed-checked input into a request value.
	Build func(input string) Req

	// Dispatch performs the call.
	Dispatch Dispatch[Req, Res]

	// Fallback is shown when a failure carries no backend detail.
	Fallback string

	// OnSuccess and OnFailure run inside Settle after state is updated.
	OnSuccess func(Res)
	OnFailure func(message string)

	// ClearInputOnSubmit empties the input once a submission is accepted.
	ClearInputOnSubmit bool
}

// Ticket identifies one accepted submission and carries its request.
type Ticket[Req any] struct {
	Seq     uint64
	Request Req
}

// Outcome is the settled result of running a Ticket.
type Outcome[Res any] struct {
	Seq     uint64
	Result  Res
	Err     error
	Message string // display text when Err != nil
}

// Controller is the per-panel state machine.
type Controller[Req, Res any] struct {
	opts Options[Req, Res]

	input  string
	state  State
	result *Res
	errMsg string
	seq    uint64
}

// New creates a controller in the Idle state.
func New[Req, Res any](opts Options[Req, Res]) *Controller[Req, Res] {
	if opts.Name == "" {
		opts.Name = "panel"
	}
	return &Controller[Req, Res]{opts: opts}
}

// Name returns the panel label.
func (c *Controller[Req, Res]) Name() string { return c.opts.Name }

// Input returns the current input text.
func (c *Controller[Req, Res]) Input() string { return c.input }

// SetInput edits the input. A settled panel returns to Idle; a pending one
// keeps running its in-flight request untouched.
func (c *Controller[Req, Res]) SetInput(s string) {
	c.input = s
	if c.state == Succeeded || c.state == Failed {
		c.transition(Idle)
	}
}

// State returns the lifecycle state.
func (c *Controller[Req, Res]) State() State { return c.state }

// Loading reports whether a request is in flight.
func (c *Controller[Req, Res]) Loading() bool { return c.state == Pending }

// Result returns the most recent successful result, if any is displayed.
func (c *Controller[Req, Res]) Result() (Res, bool) {
	if c.result == nil {
		var zero Res
		return zero, false
	}
	return *c.result, true
}

// Err returns the displayed error message, or "" when none.
func (c *Controller[Req, Res]) Err() string { return c.errMsg }

// CanSubmit reports whether Submit would accept the current input.
func (c *Controller[Req, Res]) CanSubmit() bool {
	return c.state != Pending && strings.TrimSpace(c.input) != ""
}

// Submit validates the input and, if accepted, clears the prior result and
// error and enters Pending. Blank input and re-entrant submissions are
// rejected without touching state.
func (c *Controller[Req, Res]) Submit() (Ticket[Req], bool) {
	if c.state == Pending {
		logging.PanelDebug("%s: submission ignored, request in flight", c.opts.Name)
		return Ticket[Req]{}, false
	}
	if strings.TrimSpace(c.input) == "" {
		return Ticket[Req]{}, false
	}

	req := c.opts.Build(c.input)

	c.result = nil
	c.errMsg = ""
	c.seq++
	c.transition(Pending)

	if c.opts.ClearInputOnSubmit {
		c.input = ""
	}

	return Ticket[Req]{Seq: c.seq, Request: req}, true
}

// Run performs exactly one dispatch for the ticket. It reads only immutable
// options, so it is safe to call off the UI loop.
func (c *Controller[Req, Res]) Run(ctx context.Context, t Ticket[Req]) Outcome[Res] {
	res, err := c.opts.Dispatch(ctx, t.Request)
	if err != nil {
		return Outcome[Res]{Seq: t.Seq, Err: err, Message: inference.DisplayMessage(err, c.opts.Fallback)}
	}
	return Outcome[Res]{Seq: t.Seq, Result: res}
}

// Settle applies an outcome. It moves Pending to exactly one of Succeeded or
// Failed and reports whether the outcome was applied; outcomes for any ticket
// other than the one in flight are dropped.
func (c *Controller[Req, Res]) Settle(o Outcome[Res]) bool {
	if c.state != Pending || o.Seq != c.seq {
		logging.PanelDebug("%s: dropped outcome seq=%d (current=%d state=%s)", c.opts.Name, o.Seq, c.seq, c.state)
		return false
	}

	if o.Err != nil {
		msg := o.Message
		if msg == "" {
			msg = inference.DisplayMessage(o.Err, c.opts.Fallback)
		}
		c.result = nil
		c.errMsg = msg
		c.transition(Failed)
		logging.Panel("%s: seq=%d failed: %s", c.opts.Name, o.Seq, msg)
		if c.opts.OnFailure != nil {
			c.opts.OnFailure(msg)
		}
		return true
	}

	res := o.Result
	c.result = &res
	c.errMsg = ""
	c.transition(Succeeded)
	logging.Panel("%s: seq=%d succeeded", c.opts.Name, o.Seq)
	if c.opts.OnSuccess != nil {
		c.opts.OnSuccess(res)
	}
	return true
}

// Do runs a whole submission synchronously. It returns false when the
// submission was rejected.
func (c *Controller[Req, Res]) Do(ctx context.Context) bool {
	t, ok := c.Submit()
	if !ok {
		return false
	}
	c.Settle(c.Run(ctx, t))
	return true
}

func (c *Controller[Req, Res]) transition(to State) {
	if c.state == to {
		return
	}
	logging.PanelDebug("%s: %s -> %s (seq=%d)", c.opts.Name, c.state, to, c.seq)
	c.state = to
}
