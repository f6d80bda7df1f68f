package shards

import (
	"encoding/json"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/types"
	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// document is the structured shard layout shared by TOML, YAML and JSON
type document struct {
	Trait  string          `json:"trait" yaml:"trait" toml:"trait"`
	Crates []crateDocument `json:"crates" yaml:"crates" toml:"crates"`
}

type crateDocument struct {
	Name         string        `json:"name" yaml:"name" toml:"name"`
	Implementors types.Payload `json:"implementors" yaml:"implementors" toml:"implementors"`
}

func decodeDocument(p string, format Format, data []byte) ([]types.Shard, error) {
	var doc document
	var err error

	switch format {
	case FormatTOML:
		err = toml.Unmarshal(data, &doc)
	case FormatYAML:
		err = yaml.Unmarshal(data, &doc)
	case FormatJSON:
		err = json.Unmarshal(data, &doc)
	default:
		return nil, errors.Newf(errors.ErrUnknownFormat, "%s is not a document format", format)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrShardParse, "failed to decode %s shard", format).
			WithDetail("path", p)
	}

	return doc.shards(p)
}

func (d document) shards(p string) ([]types.Shard, error) {
	if d.Trait == "" {
		return nil, errors.New(errors.ErrShardParse, "shard has no trait").WithDetail("path", p)
	}
	if len(d.Crates) == 0 {
		return nil, errors.Newf(errors.ErrShardParse, "shard for %s lists no crates", d.Trait).
			WithDetail("path", p)
	}

	shards := make([]types.Shard, 0, len(d.Crates))
	seen := make(map[string]int, len(d.Crates))
	for i, c := range d.Crates {
		if c.Name == "" {
			return nil, errors.Newf(errors.ErrShardParse, "crate %d of %s has no name", i, d.Trait).
				WithDetail("path", p)
		}
		payload := c.Implementors
		if payload == nil {
			payload = types.Payload{}
		}
		shards = appendCrate(shards, seen, types.Shard{
			Trait:   d.Trait,
			Crate:   c.Name,
			Payload: payload,
			Origin:  p,
		})
	}
	return shards, nil
}

// appendCrate adds shard to shards unless its crate is already listed, in
// which case the later payload replaces the earlier one in place. seen maps
// crate names to their index in shards.
func appendCrate(shards []types.Shard, seen map[string]int, shard types.Shard) []types.Shard {
	if i, ok := seen[shard.Crate]; ok {
		shards[i].Payload = shard.Payload
		return shards
	}
	seen[shard.Crate] = len(shards)
	return append(shards, shard)
}
