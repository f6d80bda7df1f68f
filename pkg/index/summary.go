package index

import (
	"sort"

	"github.com/arthur-debert/implshard/pkg/types"
)

// Summary is a serializable view of an Index
type Summary struct {
	Traits       []TraitSummary `json:"traits"`
	Deliveries   int            `json:"deliveries"`
	Implementors int            `json:"implementors"`
}

// TraitSummary lists the implementors of one trait
type TraitSummary struct {
	Trait  string         `json:"trait"`
	Crates []CrateSummary `json:"crates"`
}

// CrateSummary lists what one crate implements for a trait
type CrateSummary struct {
	Crate        string        `json:"crate"`
	Implementors types.Payload `json:"implementors"`
}

// Summary returns a snapshot of the index with traits sorted and crates in
// delivery order
func (x *Index) Summary() Summary {
	x.mu.RLock()
	defer x.mu.RUnlock()

	s := Summary{
		Traits:       make([]TraitSummary, 0, len(x.traits)),
		Deliveries:   len(x.deliveries),
		Implementors: x.total,
	}
	for _, trait := range sortedKeys(x.traits) {
		entry := x.traits[trait]
		ts := TraitSummary{Trait: trait, Crates: make([]CrateSummary, 0, len(entry.crates))}
		for _, crate := range entry.crates {
			ts.Crates = append(ts.Crates, CrateSummary{
				Crate:        crate,
				Implementors: entry.impls[crate].Clone(),
			})
		}
		s.Traits = append(s.Traits, ts)
	}
	return s
}

func sortedKeys(m map[string]*traitEntry) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
