package shards

import (
	"path"
	"strings"

	"github.com/arthur-debert/implshard/pkg/errors"
)

// Format identifies a shard encoding
type Format string

const (
	FormatScript Format = "script"
	FormatTOML   Format = "toml"
	FormatYAML   Format = "yaml"
	FormatJSON   Format = "json"
	FormatXML    Format = "xml"
)

// AllFormats lists every supported format
var AllFormats = []Format{FormatScript, FormatTOML, FormatYAML, FormatJSON, FormatXML}

var extensions = map[string]Format{
	".js":   FormatScript,
	".toml": FormatTOML,
	".yaml": FormatYAML,
	".yml":  FormatYAML,
	".json": FormatJSON,
	".xml":  FormatXML,
}

// ParseFormat parses a format name
func ParseFormat(s string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimSpace(s)))
	for _, known := range AllFormats {
		if f == known {
			return f, nil
		}
	}
	return "", errors.Newf(errors.ErrUnknownFormat, "unknown shard format: %s", s)
}

// ParseFormats parses a list of format names
func ParseFormats(names []string) ([]Format, error) {
	formats := make([]Format, 0, len(names))
	for _, name := range names {
		f, err := ParseFormat(name)
		if err != nil {
			return nil, err
		}
		formats = append(formats, f)
	}
	return formats, nil
}

// FormatFromPath returns the format implied by the file extension
func FormatFromPath(p string) (Format, error) {
	ext := strings.ToLower(path.Ext(p))
	if f, ok := extensions[ext]; ok {
		return f, nil
	}
	return "", errors.Newf(errors.ErrUnknownFormat, "no shard format for extension %q", ext).
		WithDetail("path", p)
}
