// Package index collects delivered implementor payloads by trait and crate.
// An *Index is the registration sink installed on the registry hub.
package index

import (
	"sort"
	"sync"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/logging"
	"github.com/arthur-debert/implshard/pkg/types"
)

// Index maps trait -> crate -> implementors. It is safe for concurrent use.
type Index struct {
	mu         sync.RWMutex
	traits     map[string]*traitEntry
	deliveries []string
	total      int
}

type traitEntry struct {
	crates []string
	impls  map[string]types.Payload
}

// New creates an empty index
func New() *Index {
	return &Index{traits: make(map[string]*traitEntry)}
}

// Consume records one delivery. It fails only on a malformed source
// identifier. A repeated identifier replaces the earlier payload and keeps
// its position, the same way the holding area does before install.
func (x *Index) Consume(id string, payload types.Payload) error {
	trait, crate, err := types.ParseID(id)
	if err != nil {
		return errors.Wrap(err, errors.ErrInvalidInput, "cannot index delivery").WithDetail("id", id)
	}

	x.mu.Lock()
	defer x.mu.Unlock()

	entry, ok := x.traits[trait]
	if !ok {
		entry = &traitEntry{impls: make(map[string]types.Payload)}
		x.traits[trait] = entry
	}
	if prev, seen := entry.impls[crate]; seen {
		entry.impls[crate] = payload
		x.total += len(payload) - len(prev)

		logger := logging.GetLogger("index")
		logger.Warn().Str("id", id).Msg("Repeated delivery replaced earlier payload")
		return nil
	}

	entry.crates = append(entry.crates, crate)
	entry.impls[crate] = payload
	x.deliveries = append(x.deliveries, id)
	x.total += len(payload)
	return nil
}

// Traits returns the indexed trait paths, sorted
func (x *Index) Traits() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	traits := make([]string, 0, len(x.traits))
	for trait := range x.traits {
		traits = append(traits, trait)
	}
	sort.Strings(traits)
	return traits
}

// Crates returns the crates that delivered implementors of trait, in delivery order
func (x *Index) Crates(trait string) []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	entry, ok := x.traits[trait]
	if !ok {
		return nil
	}
	out := make([]string, len(entry.crates))
	copy(out, entry.crates)
	return out
}

// Implementors returns what crate delivered for trait
func (x *Index) Implementors(trait, crate string) (types.Payload, bool) {
	x.mu.RLock()
	defer x.mu.RUnlock()

	entry, ok := x.traits[trait]
	if !ok {
		return nil, false
	}
	payload, ok := entry.impls[crate]
	return payload, ok
}

// Count returns the number of deliveries
func (x *Index) Count() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return len(x.deliveries)
}

// Total returns the number of implementor descriptors across all deliveries
func (x *Index) Total() int {
	x.mu.RLock()
	defer x.mu.RUnlock()

	return x.total
}

// Deliveries returns the delivered source identifiers in delivery order
func (x *Index) Deliveries() []string {
	x.mu.RLock()
	defer x.mu.RUnlock()

	out := make([]string, len(x.deliveries))
	copy(out, x.deliveries)
	return out
}
