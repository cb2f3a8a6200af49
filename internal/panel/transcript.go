package panel

import "lexdesk/internal/inference"

// Message is one turn of the research conversation.
type Message struct {
	Role    inference.Role
	Content string
	Sources []inference.Source // assistant turns only; nil for user and apology turns
}

// Transcript is an append-only conversation log. Turns are never edited or
// removed and nothing is persisted.
type Transcript struct {
	msgs []Message
}

// Append adds a turn at the end.
func (t *Transcript) Append(m Message) {
	t.msgs = append(t.msgs, m)
}

// Len returns the number of turns.
func (t *Transcript) Len() int { return len(t.msgs) }

// Messages returns a copy of all turns, oldest first.
func (t *Transcript) Messages() []Message {
	out := make([]Message, len(t.msgs))
	copy(out, t.msgs)
	return out
}

// Last returns the newest turn.
func (t *Transcript) Last() (Message, bool) {
	if len(t.msgs) == 0 {
		return Message{}, false
	}
	return t.msgs[len(t.msgs)-1], true
}

// History converts every turn into request context, dropping sources.
func (t *Transcript) History() []inference.Turn {
	out := make([]inference.Turn, 0, len(t.msgs))
	for _, m := range t.msgs {
		out = append(out, inference.Turn{Role: m.Role, Content: m.Content})
	}
	return out
}
