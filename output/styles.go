// Package output styles terminal text. Styling is dropped automatically when
// the writer is not a terminal, so the same code produces clean text for
// pipes and files.
package output

import (
	"io"

	"github.com/muesli/termenv"

	"github.com/robinvdvleuten/ledgertmpl/money"
)

// Styles renders styled strings for a particular writer.
type Styles struct {
	output *termenv.Output
}

// NewStyles creates Styles matched to the color support of w.
func NewStyles(w io.Writer) *Styles {
	return &Styles{output: termenv.NewOutput(w)}
}

// Account renders a real account name (yellow).
func (s *Styles) Account(text string) string {
	return s.output.String(text).Foreground(s.output.Color("3")).String()
}

// VirtualAccount renders a bracketed virtual account name (faint yellow).
func (s *Styles) VirtualAccount(text string) string {
	return s.output.String(text).Foreground(s.output.Color("3")).Faint().String()
}

// Amount renders text as an amount, red when c is negative and green
// otherwise.
func (s *Styles) Amount(text string, c money.Cents) string {
	color := "2"
	if c < 0 {
		color = "1"
	}
	return s.output.String(text).Foreground(s.output.Color(color)).String()
}

// Keyword renders bold text.
func (s *Styles) Keyword(text string) string {
	return s.output.String(text).Bold().String()
}

// Dim renders secondary information.
func (s *Styles) Dim(text string) string {
	return s.output.String(text).Faint().String()
}

// Warning renders bold yellow text.
func (s *Styles) Warning(text string) string {
	return s.output.String(text).Foreground(s.output.Color("3")).Bold().String()
}

// Timing renders a duration, as a warning when slow and dimmed otherwise.
func (s *Styles) Timing(text string, slow bool) string {
	if slow {
		return s.Warning(text)
	}
	return s.Dim(text)
}
