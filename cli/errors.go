package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/ledgertmpl/transaction"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders errors with terminal styling and, for line item
// errors, the surrounding lines of rendered template output.
type ErrorRenderer struct {
	source string
}

// NewErrorRenderer creates a renderer with the rendered template text the
// error refers to. source may be empty.
func NewErrorRenderer(source string) *ErrorRenderer {
	return &ErrorRenderer{source: source}
}

// Render formats a single error.
func (r *ErrorRenderer) Render(err error) string {
	var perr *transaction.ParseError
	if errors.As(err, &perr) && perr.Line > 0 && r.source != "" {
		return r.renderWithSourceContext(perr.Line, err.Error())
	}
	return errorStyle.Render(err.Error())
}

// renderWithSourceContext shows up to two lines before and one line after
// line, underlining the offending line item.
func (r *ErrorRenderer) renderWithSourceContext(line int, message string) string {
	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	sourceLines := strings.Split(strings.TrimSuffix(r.source, "\n"), "\n")

	startLine := line - 3
	endLine := line
	if startLine < 0 {
		startLine = 0
	}
	if endLine >= len(sourceLines) {
		endLine = len(sourceLines) - 1
	}

	for i := startLine; i <= endLine; i++ {
		text := strings.TrimSuffix(sourceLines[i], "\r")
		buf.WriteString("   ")
		buf.WriteString(errContextStyle.Render(text))
		buf.WriteByte('\n')

		if i == line-1 {
			trimmed := strings.TrimLeft(text, " \t")
			indent := text[:len(text)-len(trimmed)]
			width := runewidth.StringWidth(strings.TrimRight(trimmed, " \t"))
			if width == 0 {
				width = 1
			}
			buf.WriteString("   ")
			buf.WriteString(indent)
			buf.WriteString(errCaretStyle.Render(strings.Repeat("^", width)))
			buf.WriteByte('\n')
		}
	}

	return buf.String()
}
