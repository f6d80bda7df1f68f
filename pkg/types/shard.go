package types

import (
	"strings"

	"github.com/arthur-debert/implshard/pkg/errors"
)

// IDSeparator joins the trait path and the providing crate in a source identifier
const IDSeparator = "@"

// Shard is one decoded announcement: the implementors a crate provides
// for a single trait.
type Shard struct {
	// Trait is the full trait path, e.g. "tokio_service::Service"
	Trait string

	// Crate is the crate whose implementors the payload lists
	Crate string

	// Payload is the ordered implementor list
	Payload Payload

	// Origin is the file the shard was decoded from, if any
	Origin string
}

// ID returns the source identifier used on the registry, "<trait>@<crate>"
func (s Shard) ID() string {
	return FormatID(s.Trait, s.Crate)
}

// FormatID builds a source identifier from a trait path and crate name
func FormatID(trait, crate string) string {
	return trait + IDSeparator + crate
}

// ParseID splits a source identifier into its trait path and crate name
func ParseID(id string) (trait, crate string, err error) {
	i := strings.LastIndex(id, IDSeparator)
	if i <= 0 || i == len(id)-len(IDSeparator) {
		return "", "", errors.Newf(errors.ErrInvalidInput, "malformed source identifier %q: want <trait>%s<crate>", id, IDSeparator).
			WithDetail("id", id)
	}
	return id[:i], id[i+len(IDSeparator):], nil
}
