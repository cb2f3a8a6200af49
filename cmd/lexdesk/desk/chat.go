package desk

import (
	"context"
	"fmt"
	"strings"

	"lexdesk/cmd/lexdesk/ui"
	"lexdesk/internal/inference"
	"lexdesk/internal/panel"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
)

const (
	emptyChatHint = "Ask a legal research question. Answers cite judicial sources from the case corpus."
	typingText    = "Researching precedents..."
)

// sourceRef addresses one source card in the transcript.
type sourceRef struct {
	msg int
	src int
}

// chatPage is the research-chat panel.
type chatPage struct {
	ctrl     *panel.ChatController
	input    textinput.Model
	viewport viewport.Model
	renderer *glamour.TermRenderer

	// expanded indexes sourceRefs(); -1 means every card is collapsed.
	expanded int
}

func newChatPage(client panel.ChatClient, theme ui.Theme) *chatPage {
	ti := textinput.New()
	ti.Placeholder = "Ask about statutes, precedents, procedure..."
	ti.Prompt = "› "
	ti.CharLimit = 0
	ti.Width = 60

	return &chatPage{
		ctrl:     panel.NewChat(client),
		input:    ti,
		viewport: viewport.New(60, 10),
		renderer: ui.NewMarkdownRenderer(theme, 60),
		expanded: -1,
	}
}

func (c *chatPage) focus() tea.Cmd { return c.input.Focus() }

func (c *chatPage) blur() { c.input.Blur() }

func (c *chatPage) setSize(l ui.LayoutConfig, theme ui.Theme) {
	c.input.Width = l.ContentWidth() - 4
	c.viewport.Width = l.ContentWidth()
	c.viewport.Height = l.TranscriptHeight()
	c.renderer = ui.NewMarkdownRenderer(theme, l.MarkdownWidth())
}

func (c *chatPage) setTheme(theme ui.Theme) {
	c.renderer = ui.NewMarkdownRenderer(theme, c.viewport.Width-4)
}

// update forwards keys to the input and scroll keys to the viewport.
func (c *chatPage) update(msg tea.Msg) tea.Cmd {
	var cmds []tea.Cmd
	before := c.input.Value()

	var cmd tea.Cmd
	c.input, cmd = c.input.Update(msg)
	cmds = append(cmds, cmd)
	if after := c.input.Value(); after != before {
		c.ctrl.SetInput(after)
	}

	scroll := true
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.Type {
		case tea.KeyPgUp, tea.KeyPgDown, tea.KeyUp, tea.KeyDown:
		default:
			scroll = false
		}
	}
	if scroll {
		c.viewport, cmd = c.viewport.Update(msg)
		cmds = append(cmds, cmd)
	}
	return tea.Batch(cmds...)
}

// send submits the input. The user turn appears immediately.
func (c *chatPage) send(ctx context.Context) tea.Cmd {
	c.ctrl.SetInput(c.input.Value())
	t, ok := c.ctrl.Submit()
	if !ok {
		return nil
	}
	c.input.SetValue(c.ctrl.Input())
	ctrl := c.ctrl
	return func() tea.Msg {
		return settledMsg[inference.ChatResult]{tab: TabChat, outcome: ctrl.Run(ctx, t)}
	}
}

func (c *chatPage) settle(o panel.ChatOutcome) bool {
	return c.ctrl.Settle(o)
}

func (c *chatPage) sourceRefs() []sourceRef {
	var refs []sourceRef
	for i, m := range c.ctrl.Messages() {
		for j := range m.Sources {
			refs = append(refs, sourceRef{msg: i, src: j})
		}
	}
	return refs
}

// cycleSource expands the next source card, collapsing the previous one.
// Past the last card every card collapses.
func (c *chatPage) cycleSource() {
	n := len(c.sourceRefs())
	if n == 0 {
		c.expanded = -1
		return
	}
	c.expanded++
	if c.expanded >= n {
		c.expanded = -1
	}
}

func (c *chatPage) expandedRef() (sourceRef, bool) {
	refs := c.sourceRefs()
	if c.expanded < 0 || c.expanded >= len(refs) {
		return sourceRef{}, false
	}
	return refs[c.expanded], true
}

// refresh rebuilds the transcript and keeps the newest turn in view.
func (c *chatPage) refresh(s ui.Styles, spin string) {
	c.viewport.SetContent(c.renderTranscript(s, spin))
	c.viewport.GotoBottom()
}

func (c *chatPage) renderTranscript(s ui.Styles, spin string) string {
	msgs := c.ctrl.Messages()
	if len(msgs) == 0 {
		return s.Hint.Render(emptyChatHint)
	}

	open, hasOpen := c.expandedRef()
	var sb strings.Builder
	for i, m := range msgs {
		if m.Role == inference.RoleUser {
			sb.WriteString(s.UserLabel.Render("You") + "\n")
			sb.WriteString(s.UserInput.Render(m.Content))
			sb.WriteString("\n\n")
			continue
		}

		sb.WriteString(s.AssistantLabel.Render("⚖ Legal Assistant") + "\n")
		sb.WriteString(ui.RenderMarkdown(c.renderer, m.Content))
		sb.WriteString("\n")
		for j, src := range m.Sources {
			expanded := hasOpen && open.msg == i && open.src == j
			sb.WriteString(renderSource(s, j+1, src, expanded))
			sb.WriteString("\n")
		}
	}

	if c.ctrl.Pending() {
		sb.WriteString(s.AssistantLabel.Render("⚖ Legal Assistant") + "\n")
		sb.WriteString(s.Spinner.Render(spin) + " " + s.Muted.Render(typingText))
		sb.WriteString("\n")
	}
	return sb.String()
}

func renderSource(s ui.Styles, n int, src inference.Source, expanded bool) string {
	marker := "▸"
	if expanded {
		marker = "▾"
	}
	title := s.SourceTitle.Render(fmt.Sprintf("%s Judicial Source #%d", marker, n))
	if !expanded {
		return s.SourceCard.Render(title)
	}
	return s.SourceCard.Render(title + "\n" + s.Body.Render(src.Content))
}

func (c *chatPage) view(s ui.Styles) string {
	var sb strings.Builder
	sb.WriteString(s.Title.Render("Legal Research Assistant"))
	sb.WriteString("\n")
	sb.WriteString(c.viewport.View())
	sb.WriteString("\n")
	sb.WriteString(s.RenderDivider(c.viewport.Width))
	sb.WriteString("\n")
	sb.WriteString(c.input.View())
	return sb.String()
}
