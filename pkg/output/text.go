package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/implshard/pkg/shards"
	"github.com/arthur-debert/implshard/pkg/types"
)

// TextRenderer writes plain text without colors or styling
type TextRenderer struct{}

// NewText creates a plain text renderer
func NewText() *TextRenderer {
	return &TextRenderer{}
}

// Render writes the report as an indented outline
func (r *TextRenderer) Render(w io.Writer, report Report) error {
	var b strings.Builder

	b.WriteString(headline(report))
	b.WriteString("\n")
	b.WriteString(deliveryLine(report))
	b.WriteString("\n")
	if line := strandedLine(report); line != "" {
		b.WriteString(line)
		b.WriteString("\n")
	}

	for _, trait := range report.Summary.Traits {
		b.WriteString("\n")
		b.WriteString(trait.Trait)
		b.WriteString("\n")
		for _, crate := range trait.Crates {
			fmt.Fprintf(&b, "  %s\n", crate.Crate)
			if len(crate.Implementors) == 0 {
				b.WriteString("    (no implementors)\n")
				continue
			}
			for _, impl := range crate.Implementors {
				fmt.Fprintf(&b, "    %s\n", describe(impl))
			}
		}
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func headline(report Report) string {
	h := report.Host
	return fmt.Sprintf("Loaded %d shards, sink installed after %d (%d buffered, %d direct)",
		len(h.Order), h.InstalledAt, h.Buffered, h.Direct)
}

func deliveryLine(report Report) string {
	return fmt.Sprintf("Delivered %d payloads with %d implementors across %d traits",
		report.Summary.Deliveries, report.Summary.Implementors, len(report.Summary.Traits))
}

func strandedLine(report Report) string {
	stats := report.Host.Stats
	if stats.Stranded == 0 && stats.Failed == 0 {
		return ""
	}
	return fmt.Sprintf("Lost %d stranded and %d failed payloads", stats.Stranded, stats.Failed)
}

func describe(impl types.Implementor) string {
	text := shards.PlainText(impl.Text)
	if impl.Synthetic {
		text += " [synthetic]"
	}
	return text
}
