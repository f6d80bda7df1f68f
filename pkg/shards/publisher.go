package shards

import (
	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/types"
)

// Target receives published payloads; *registry.Hub[types.Payload] implements it
type Target interface {
	Publish(id string, payload types.Payload) error
}

// Publisher hands decoded shards to a registry
type Publisher struct {
	target Target
}

// NewPublisher creates a publisher bound to target
func NewPublisher(target Target) *Publisher {
	return &Publisher{target: target}
}

// Publish publishes one shard under its source identifier. The payload is
// copied so later changes to the shard cannot reach the registry.
func (p *Publisher) Publish(shard types.Shard) error {
	if shard.Trait == "" || shard.Crate == "" {
		return errors.New(errors.ErrInvalidInput, "shard needs both a trait and a crate").
			WithDetail("origin", shard.Origin)
	}
	return p.target.Publish(shard.ID(), shard.Payload.Clone())
}

// PublishAll publishes shards in order and stops at the first error. It
// returns how many were published.
func (p *Publisher) PublishAll(shards []types.Shard) (int, error) {
	for i, shard := range shards {
		if err := p.Publish(shard); err != nil {
			return i, err
		}
	}
	return len(shards), nil
}
