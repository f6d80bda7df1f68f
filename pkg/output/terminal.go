package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pterm/pterm"
)

// Adaptive colors for light and dark terminals
var (
	headingColor = lipgloss.AdaptiveColor{Light: "#1a1a1a", Dark: "#f0f0f0"}
	crateColor   = lipgloss.AdaptiveColor{Light: "#005f87", Dark: "#5fafd7"}
	mutedColor   = lipgloss.AdaptiveColor{Light: "#767676", Dark: "#8a8a8a"}
)

var (
	traitStyle = lipgloss.NewStyle().
			Foreground(headingColor).
			Bold(true)

	crateStyle = lipgloss.NewStyle().
			Foreground(crateColor).
			PaddingLeft(2)

	implStyle = lipgloss.NewStyle().
			PaddingLeft(4)

	mutedStyle = lipgloss.NewStyle().
			Foreground(mutedColor).
			Italic(true)
)

// TerminalRenderer writes styled output for an interactive terminal
type TerminalRenderer struct{}

// NewTerminal creates a terminal renderer
func NewTerminal() *TerminalRenderer {
	return &TerminalRenderer{}
}

// Render writes the report with pterm prefixes and lipgloss styles
func (r *TerminalRenderer) Render(w io.Writer, report Report) error {
	var b strings.Builder

	fmt.Fprintf(&b, "%s %s\n", pterm.Info.Prefix.Text, pterm.Info.MessageStyle.Sprint(headline(report)))
	fmt.Fprintf(&b, "%s %s\n", pterm.Success.Prefix.Text, pterm.Success.MessageStyle.Sprint(deliveryLine(report)))
	if line := strandedLine(report); line != "" {
		fmt.Fprintf(&b, "%s %s\n", pterm.Warning.Prefix.Text, pterm.Warning.MessageStyle.Sprint(line))
	}

	for _, trait := range report.Summary.Traits {
		b.WriteString("\n")
		b.WriteString(traitStyle.Render(trait.Trait))
		b.WriteString("\n")
		for _, crate := range trait.Crates {
			b.WriteString(crateStyle.Render(crate.Crate))
			b.WriteString("\n")
			if len(crate.Implementors) == 0 {
				b.WriteString(implStyle.Render(mutedStyle.Render("no implementors")))
				b.WriteString("\n")
				continue
			}
			for _, impl := range crate.Implementors {
				b.WriteString(implStyle.Render(describe(impl)))
				b.WriteString("\n")
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}
