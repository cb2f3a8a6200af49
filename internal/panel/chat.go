package panel

import (
	"context"

	"lexdesk/internal/inference"
)

// ChatClient is the subset of the inference client the chat panel needs.
type ChatClient interface {
	Chat(ctx context.Context, req inference.ChatRequest) (inference.ChatResult, error)
}

// ChatPhase distinguishes a quiet transcript from one whose newest user turn
// still awaits its assistant reply.
type ChatPhase int

const (
	ChatReady ChatPhase = iota
	AwaitingReply
)

func (p ChatPhase) String() string {
	if p == AwaitingReply {
		return "awaiting-reply"
	}
	return "ready"
}

type (
	ChatTicket  = Ticket[inference.ChatRequest]
	ChatOutcome = Outcome[inference.ChatResult]
)

// ChatController is the research-chat panel: the shared lifecycle plus an
// append-only transcript. Each accepted submission appends exactly one user
// turn immediately and exactly one assistant turn when it settles. Failures
// become an apology turn rather than a panel error.
type ChatController struct {
	ctrl       *Controller[inference.ChatRequest, inference.ChatResult]
	transcript Transcript
}

// NewChat creates an empty chat panel.
func NewChat(client ChatClient) *ChatController {
	cc := &ChatController{}
	cc.ctrl = New(Options[inference.ChatRequest, inference.ChatResult]{
		Name: "chat",
		// Build runs before the optimistic append, so history holds prior turns only.
		Build: func(input string) inference.ChatRequest {
			return inference.ChatRequest{Message: input, History: cc.transcript.History()}
		},
		Dispatch: client.Chat,
		Fallback: inference.ChatApology,
		OnSuccess: func(res inference.ChatResult) {
			cc.transcript.Append(Message{Role: inference.RoleAssistant, Content: res.Answer, Sources: res.Sources})
		},
		OnFailure: func(string) {
			cc.transcript.Append(Message{Role: inference.RoleAssistant, Content: inference.ChatApology})
		},
		ClearInputOnSubmit: true,
	})
	return cc
}

// Input returns the pending message text.
func (c *ChatController) Input() string { return c.ctrl.Input() }

// SetInput edits the pending message text.
func (c *ChatController) SetInput(s string) { c.ctrl.SetInput(s) }

// State returns the underlying lifecycle state.
func (c *ChatController) State() State { return c.ctrl.State() }

// Loading reports whether a reply is in flight.
func (c *ChatController) Loading() bool { return c.ctrl.Loading() }

// CanSubmit reports whether Submit would accept the current input.
func (c *ChatController) CanSubmit() bool { return c.ctrl.CanSubmit() }

// Phase reports whether the newest user turn is still unanswered.
func (c *ChatController) Phase() ChatPhase {
	if c.ctrl.Loading() {
		return AwaitingReply
	}
	return ChatReady
}

// Pending reports whether the transcript ends with an unanswered user turn.
func (c *ChatController) Pending() bool { return c.Phase() == AwaitingReply }

// PendingTurn returns the user turn awaiting a reply, if any.
func (c *ChatController) PendingTurn() (Message, bool) {
	if c.Phase() != AwaitingReply {
		return Message{}, false
	}
	return c.transcript.Last()
}

// Submit accepts the current input, appends it as a user turn and clears
// the input. The ticket's history excludes the new turn.
func (c *ChatController) Submit() (ChatTicket, bool) {
	t, ok := c.ctrl.Submit()
	if !ok {
		return t, false
	}
	c.transcript.Append(Message{Role: inference.RoleUser, Content: t.Request.Message})
	return t, true
}

// Run performs the chat call for a ticket off the UI loop.
func (c *ChatController) Run(ctx context.Context, t ChatTicket) ChatOutcome {
	return c.ctrl.Run(ctx, t)
}

// Settle appends the assistant turn for the in-flight ticket.
func (c *ChatController) Settle(o ChatOutcome) bool {
	return c.ctrl.Settle(o)
}

// Do runs a whole submission synchronously.
func (c *ChatController) Do(ctx context.Context) bool {
	t, ok := c.Submit()
	if !ok {
		return false
	}
	c.Settle(c.Run(ctx, t))
	return true
}

// Messages returns a copy of the transcript.
func (c *ChatController) Messages() []Message { return c.transcript.Messages() }

// Len returns the transcript length.
func (c *ChatController) Len() int { return c.transcript.Len() }
