// ABOUTME: Structured console records for orchestrator-reported events and failures
// ABOUTME: Styled with lipgloss on a color-capable terminal, plain text otherwise

package console

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
)

// Kind names the category of one console record.
type Kind string

const (
	KindInfo      Kind = "info"
	KindStep      Kind = "step"
	KindTransport Kind = "transport_error"
	KindFormat    Kind = "format_error"
	KindGrounding Kind = "grounding_error"
	KindPrimitive Kind = "primitive_error"
	KindCodeAgent Kind = "code_agent_error"
	KindSucceeded Kind = "succeeded"
	KindFailed    Kind = "failed"
	KindBudget    Kind = "budget_exhausted"
)

// Record is one user-visible event: the step index it occurred at, its
// kind, and a short message. Success is signaled only by a KindSucceeded
// record; everything else is informational or a recoverable failure.
type Record struct {
	RunID   string
	Step    int
	Kind    Kind
	Message string
}

// Writer renders Records to an io.Writer, styled if the destination is a
// color-capable terminal.
type Writer struct {
	out      io.Writer
	renderer *lipgloss.Renderer
	styles   styleSet
}

type styleSet struct {
	kindError   lipgloss.Style
	kindOK      lipgloss.Style
	kindNeutral lipgloss.Style
	step        lipgloss.Style
}

// NewWriter builds a Writer over out. Color styling is only applied when the
// renderer detects a color-capable terminal; plain text is written otherwise.
func NewWriter(out io.Writer) *Writer {
	r := lipgloss.NewRenderer(out)
	return &Writer{
		out:      out,
		renderer: r,
		styles: styleSet{
			kindError:   r.NewStyle().Foreground(lipgloss.Color("9")).Bold(true),
			kindOK:      r.NewStyle().Foreground(lipgloss.Color("10")).Bold(true),
			kindNeutral: r.NewStyle().Foreground(lipgloss.Color("12")),
			step:        r.NewStyle().Faint(true),
		},
	}
}

// NewStdoutWriter builds a Writer over os.Stdout.
func NewStdoutWriter() *Writer {
	return NewWriter(os.Stdout)
}

// Emit writes one record as a single line.
func (w *Writer) Emit(r Record) {
	if w.renderer.ColorProfile() == lipgloss.Ascii {
		fmt.Fprintf(w.out, "[%s] step=%d %s: %s\n", r.RunID, r.Step, r.Kind, r.Message)
		return
	}

	kindStyle := w.styles.kindNeutral
	switch r.Kind {
	case KindTransport, KindFormat, KindGrounding, KindPrimitive, KindCodeAgent, KindFailed, KindBudget:
		kindStyle = w.styles.kindError
	case KindSucceeded:
		kindStyle = w.styles.kindOK
	}

	fmt.Fprintf(w.out, "%s %s %s: %s\n",
		w.styles.step.Render(fmt.Sprintf("[%s]", r.RunID)),
		w.styles.step.Render(fmt.Sprintf("step=%d", r.Step)),
		kindStyle.Render(string(r.Kind)),
		r.Message,
	)
}
