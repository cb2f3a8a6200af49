package desk

import (
	"context"
	"sync"
	"testing"

	"lexdesk/internal/inference"
	"lexdesk/internal/prefs"

	tea "github.com/charmbracelet/bubbletea"
)

// stubBackend answers every endpoint from canned values.
type stubBackend struct {
	mu    sync.Mutex
	calls map[string]int

	category string
	priority string
	answer   string
	sources  []inference.Source
	err      error

	chatReqs []inference.ChatRequest
}

func newStubBackend() *stubBackend {
	return &stubBackend{
		calls:    make(map[string]int),
		category: "Civil",
		priority: "High",
		answer:   "Adverse possession transfers title after long open occupation.",
		sources:  []inference.Source{{Content: "Karnataka Board of Wakf v. Govt of India (2004)"}},
	}
}

func (s *stubBackend) record(name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[name]++
}

func (s *stubBackend) count(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *stubBackend) Classify(_ context.Context, _ inference.ClassifyRequest) (inference.ClassifyResult, error) {
	s.record("classify")
	if s.err != nil {
		return inference.ClassifyResult{}, s.err
	}
	return inference.ClassifyResult{Category: s.category}, nil
}

func (s *stubBackend) Prioritize(_ context.Context, _ inference.PrioritizeRequest) (inference.PrioritizeResult, error) {
	s.record("prioritize")
	if s.err != nil {
		return inference.PrioritizeResult{}, s.err
	}
	return inference.PrioritizeResult{Priority: s.priority}, nil
}

func (s *stubBackend) Chat(_ context.Context, req inference.ChatRequest) (inference.ChatResult, error) {
	s.record("chat")
	s.mu.Lock()
	s.chatReqs = append(s.chatReqs, req)
	s.mu.Unlock()
	if s.err != nil {
		return inference.ChatResult{}, s.err
	}
	return inference.ChatResult{Answer: s.answer, Sources: s.sources}, nil
}

// TestModelOption customizes NewTestModel.
type TestModelOption func(*Options)

// WithBackend sets the backend.
func WithBackend(b Backend) TestModelOption {
	return func(o *Options) { o.Backend = b }
}

// WithPrefs persists the theme through m.
func WithPrefs(m *prefs.Manager) TestModelOption {
	return func(o *Options) { o.Prefs = m }
}

// WithTheme fixes the starting theme.
func WithTheme(t prefs.Theme) TestModelOption {
	return func(o *Options) { o.Theme = t }
}

// NewTestModel creates a sized model with a stub backend and light theme.
func NewTestModel(t *testing.T, opts ...TestModelOption) Model {
	t.Helper()
	o := Options{Backend: newStubBackend(), Theme: prefs.ThemeLight}
	for _, opt := range opts {
		opt(&o)
	}
	m := New(context.Background(), o)
	t.Cleanup(m.Shutdown)
	return update(t, m, tea.WindowSizeMsg{Width: 120, Height: 40})
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func updateCmd(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	return next.(Model), cmd
}

func keyMsg(k tea.KeyType) tea.KeyMsg { return tea.KeyMsg{Type: k} }

func runesMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

// drain executes cmd, flattening batches, and feeds every resulting message
// back into the model. Only immediate commands may be passed.
func drain(t *testing.T, m Model, cmd tea.Cmd) Model {
	t.Helper()
	for _, msg := range collect(cmd) {
		m = update(t, m, msg)
	}
	return m
}

func collect(cmd tea.Cmd) []tea.Msg {
	if cmd == nil {
		return nil
	}
	msg := cmd()
	if batch, ok := msg.(tea.BatchMsg); ok {
		var out []tea.Msg
		for _, c := range batch {
			out = append(out, collect(c)...)
		}
		return out
	}
	return []tea.Msg{msg}
}

// openTab switches to tab via the keyboard from Home.
func openTab(t *testing.T, m Model, tab Tab) Model {
	t.Helper()
	for m.Tab() != tab {
		m = update(t, m, keyMsg(tea.KeyTab))
	}
	return m
}
