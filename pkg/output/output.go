// Package output renders the result of a load: what the sink collected and
// how the host ran. It supports terminal (styled), text (plain), JSON and
// markdown output.
package output

import (
	"io"
	"os"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/host"
	"github.com/arthur-debert/implshard/pkg/index"
)

// Report is everything a renderer shows
type Report struct {
	Summary index.Summary `json:"summary"`
	Host    host.Report   `json:"host"`
}

// Renderer writes a report in one format
type Renderer interface {
	Render(w io.Writer, report Report) error
}

// New creates a renderer for format. FormatAuto decides per writer at
// render time.
func New(format Format) (Renderer, error) {
	switch format {
	case FormatAuto:
		return autoRenderer{}, nil
	case FormatTerminal:
		return NewTerminal(), nil
	case FormatText:
		return NewText(), nil
	case FormatJSON:
		return NewJSON(), nil
	case FormatMarkdown:
		return NewMarkdown(), nil
	default:
		return nil, errors.Newf(errors.ErrInvalidInput, "unknown output format: %v", format)
	}
}

type autoRenderer struct{}

func (autoRenderer) Render(w io.Writer, report Report) error {
	format := FormatText
	if file, ok := w.(*os.File); ok {
		format = DetectFormat(file)
	}
	r, err := New(format)
	if err != nil {
		return err
	}
	return r.Render(w, report)
}
