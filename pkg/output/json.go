package output

import (
	"encoding/json"
	"io"
)

// JSONRenderer writes the report as indented JSON for machine consumption
type JSONRenderer struct{}

// NewJSON creates a JSON renderer
func NewJSON() *JSONRenderer {
	return &JSONRenderer{}
}

// Render encodes the report
func (r *JSONRenderer) Render(w io.Writer, report Report) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
