package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/arthur-debert/implshard/pkg/logging"
	"github.com/charmbracelet/glamour"
)

// MarkdownRenderer builds a markdown document and renders it with glamour
type MarkdownRenderer struct {
	Style string // "auto", a glamour style name or a path to a style file
	Width int    // Word wrap width (0 = glamour default)
}

// NewMarkdown creates a markdown renderer with auto-detected style
func NewMarkdown() *MarkdownRenderer {
	return &MarkdownRenderer{Style: "auto"}
}

// Render writes the report. If glamour fails the raw markdown is written.
func (r *MarkdownRenderer) Render(w io.Writer, report Report) error {
	doc := Markdown(report)

	rendered, err := r.render(doc)
	if err != nil {
		logger := logging.GetLogger("output")
		logger.Debug().Err(err).Msg("Falling back to raw markdown")
		rendered = doc
	}

	_, err = io.WriteString(w, rendered)
	return err
}

func (r *MarkdownRenderer) render(doc string) (string, error) {
	var options []glamour.TermRendererOption
	if r.Style != "" && r.Style != "auto" {
		options = append(options, glamour.WithStylePath(r.Style))
	} else {
		options = append(options, glamour.WithAutoStyle())
	}
	if r.Width > 0 {
		options = append(options, glamour.WithWordWrap(r.Width))
	}

	renderer, err := glamour.NewTermRenderer(options...)
	if err != nil {
		return "", err
	}
	return renderer.Render(doc)
}

// Markdown returns the report as a markdown document
func Markdown(report Report) string {
	var b strings.Builder

	b.WriteString("# Implementors\n\n")
	fmt.Fprintf(&b, "%s.\n\n", headline(report))
	fmt.Fprintf(&b, "%s.\n", deliveryLine(report))
	if line := strandedLine(report); line != "" {
		fmt.Fprintf(&b, "\n**%s.**\n", line)
	}

	for _, trait := range report.Summary.Traits {
		fmt.Fprintf(&b, "\n## `%s`\n", trait.Trait)
		for _, crate := range trait.Crates {
			fmt.Fprintf(&b, "\n### %s\n\n", crate.Crate)
			if len(crate.Implementors) == 0 {
				b.WriteString("_No implementors._\n")
				continue
			}
			for _, impl := range crate.Implementors {
				fmt.Fprintf(&b, "- `%s`\n", strings.ReplaceAll(describe(impl), "`", "'"))
			}
		}
	}
	return b.String()
}
