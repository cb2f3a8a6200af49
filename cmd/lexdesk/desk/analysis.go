package desk

import (
	"context"
	"strings"

	"lexdesk/cmd/lexdesk/ui"
	"lexdesk/internal/panel"

	"github.com/charmbracelet/bubbles/textarea"
	tea "github.com/charmbracelet/bubbletea"
)

// settledMsg carries one finished request back onto the event loop.
type settledMsg[Res any] struct {
	tab     Tab
	outcome panel.Outcome[Res]
}

// analysisPage is a single-shot text panel: a textarea, a submit key and a
// result or error block. Classification and prioritization share it.
type analysisPage[Req, Res any] struct {
	tab         Tab
	title       string
	subtitle    string
	pendingText string
	resultLabel string

	ctrl  *panel.Controller[Req, Res]
	input textarea.Model

	// render formats a successful result.
	render func(s ui.Styles, res Res) string
}

func newTextarea(placeholder string) textarea.Model {
	ta := textarea.New()
	ta.Placeholder = placeholder
	ta.ShowLineNumbers = false
	ta.CharLimit = 0
	ta.SetWidth(60)
	ta.SetHeight(ui.TextareaHeight)
	return ta
}

func (p *analysisPage[Req, Res]) focus() tea.Cmd { return p.input.Focus() }

func (p *analysisPage[Req, Res]) blur() { p.input.Blur() }

func (p *analysisPage[Req, Res]) setWidth(w int) {
	p.input.SetWidth(w)
}

// update forwards a message to the textarea and mirrors edits into the controller.
func (p *analysisPage[Req, Res]) update(msg tea.Msg) tea.Cmd {
	before := p.input.Value()
	var cmd tea.Cmd
	p.input, cmd = p.input.Update(msg)
	if after := p.input.Value(); after != before {
		p.ctrl.SetInput(after)
	}
	return cmd
}

// submit returns the command that runs the request, or nil when rejected.
func (p *analysisPage[Req, Res]) submit(ctx context.Context) tea.Cmd {
	p.ctrl.SetInput(p.input.Value())
	t, ok := p.ctrl.Submit()
	if !ok {
		return nil
	}
	ctrl, tab := p.ctrl, p.tab
	return func() tea.Msg {
		return settledMsg[Res]{tab: tab, outcome: ctrl.Run(ctx, t)}
	}
}

func (p *analysisPage[Req, Res]) settle(o panel.Outcome[Res]) bool {
	return p.ctrl.Settle(o)
}

func (p *analysisPage[Req, Res]) view(s ui.Styles, spin string) string {
	var sb strings.Builder
	sb.WriteString(s.Title.Render(p.title))
	sb.WriteString("\n")
	sb.WriteString(s.Subtitle.Render(p.subtitle))
	sb.WriteString("\n\n")
	sb.WriteString(p.input.View())
	sb.WriteString("\n")

	switch {
	case p.ctrl.Loading():
		sb.WriteString(s.Spinner.Render(spin) + " " + s.Muted.Render(p.pendingText))
	case !p.ctrl.CanSubmit():
		sb.WriteString(s.Hint.Render("Describe the case above, then press ctrl+s."))
	default:
		sb.WriteString(s.Hint.Render("ctrl+s to " + strings.ToLower(p.resultLabel)))
	}
	sb.WriteString("\n\n")

	if res, ok := p.ctrl.Result(); ok {
		sb.WriteString(p.render(s, res))
		sb.WriteString("\n")
	}
	if msg := p.ctrl.Err(); msg != "" {
		sb.WriteString(s.ErrorBox.Render("⚠ " + msg))
		sb.WriteString("\n")
	}
	return sb.String()
}
