// Package render formats step instructions for presentation.
//
// Rendering is purely presentational: it has no effect on transition
// resolution, step state, or control flow. A step's title, phase label, and
// action descriptions can be formatted in either of two interchangeable
// encodings — markdown for callers that post-process text, or a
// lipgloss-styled terminal encoding for direct display.
package render

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/jorge-barrios/FinanSheet-sub011/internal/skill"
)

// Encoding selects the textual encoding a [Formatter] produces.
type Encoding string

const (
	// EncodingMarkdown renders steps as a markdown fragment.
	EncodingMarkdown Encoding = "markdown"

	// EncodingTerm renders steps with terminal styling.
	EncodingTerm Encoding = "term"
)

// ParseEncoding validates an encoding name from config or a flag.
func ParseEncoding(s string) (Encoding, error) {
	switch Encoding(s) {
	case EncodingMarkdown, EncodingTerm:
		return Encoding(s), nil
	case "":
		return EncodingTerm, nil
	}
	return "", fmt.Errorf("unknown output encoding: %q", s)
}

// Formatter renders step instructions in a fixed encoding.
type Formatter struct {
	encoding Encoding

	titleStyle  lipgloss.Style
	phaseStyle  lipgloss.Style
	actionStyle lipgloss.Style
}

// NewFormatter creates a formatter for the given encoding.
func NewFormatter(enc Encoding) *Formatter {
	return &Formatter{
		encoding:    enc,
		titleStyle:  lipgloss.NewStyle().Bold(true),
		phaseStyle:  lipgloss.NewStyle().Faint(true),
		actionStyle: lipgloss.NewStyle().PaddingLeft(2),
	}
}

// Encoding returns the formatter's encoding.
func (f *Formatter) Encoding() Encoding {
	return f.encoding
}

// FormatStep renders one step's title, phase, and actions.
func (f *Formatter) FormatStep(step *skill.Step) string {
	if f.encoding == EncodingMarkdown {
		return f.formatMarkdown(step)
	}
	return f.formatTerm(step)
}

func (f *Formatter) formatMarkdown(step *skill.Step) string {
	var b strings.Builder
	fmt.Fprintf(&b, "## %s\n", step.Title)
	if step.Phase != "" {
		fmt.Fprintf(&b, "_Phase: %s_\n", step.Phase)
	}
	if len(step.Actions) > 0 {
		b.WriteString("\n")
		for i, action := range step.Actions {
			fmt.Fprintf(&b, "%d. %s\n", i+1, action)
		}
	}
	return b.String()
}

func (f *Formatter) formatTerm(step *skill.Step) string {
	var b strings.Builder
	b.WriteString(f.titleStyle.Render(step.Title))
	b.WriteString("\n")
	if step.Phase != "" {
		b.WriteString(f.phaseStyle.Render("phase: " + step.Phase))
		b.WriteString("\n")
	}
	for i, action := range step.Actions {
		b.WriteString(f.actionStyle.Render(fmt.Sprintf("%d. %s", i+1, action)))
		b.WriteString("\n")
	}
	return b.String()
}
