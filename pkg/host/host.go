// Package host plays the part of the page that loads shards: it decides the
// order shards execute in and the point at which the sink is installed.
package host

import (
	"context"
	"math/rand/v2"
	"strings"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/logging"
	"github.com/arthur-debert/implshard/pkg/registry"
	"github.com/arthur-debert/implshard/pkg/shards"
	"github.com/arthur-debert/implshard/pkg/types"
)

// Order is the sequence in which shards execute
type Order string

const (
	OrderListed   Order = "listed"
	OrderReversed Order = "reversed"
	OrderShuffled Order = "shuffled"
)

// ParseOrder parses an order name
func ParseOrder(s string) (Order, error) {
	switch Order(strings.ToLower(strings.TrimSpace(s))) {
	case OrderListed, "":
		return OrderListed, nil
	case OrderReversed:
		return OrderReversed, nil
	case OrderShuffled:
		return OrderShuffled, nil
	default:
		return "", errors.Newf(errors.ErrInvalidInput, "unknown load order: %s", s)
	}
}

// InstallLast installs the sink after every shard has run
const InstallLast = -1

// Plan says how a load runs
type Plan struct {
	Order Order
	// Seed drives the shuffled order
	Seed uint64
	// InstallAfter is how many shards run before the sink is installed.
	// Negative or past the end means after the last shard.
	InstallAfter int
}

// Report describes a finished load
type Report struct {
	Order       []string       `json:"order"`
	InstalledAt int            `json:"installed_at"`
	Buffered    int            `json:"buffered"`
	Direct      int            `json:"direct"`
	Stats       registry.Stats `json:"stats"`
}

// Arrange returns shards in the order the plan executes them
func Arrange(in []types.Shard, plan Plan) []types.Shard {
	out := make([]types.Shard, len(in))
	copy(out, in)

	switch plan.Order {
	case OrderReversed:
		for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
			out[i], out[j] = out[j], out[i]
		}
	case OrderShuffled:
		rng := rand.New(rand.NewPCG(plan.Seed, plan.Seed^0x9e3779b97f4a7c15))
		rng.Shuffle(len(out), func(i, j int) {
			out[i], out[j] = out[j], out[i]
		})
	}
	return out
}

// Run executes the shards against hub following plan and installs sink at
// the planned point. The context is checked between steps.
func Run(ctx context.Context, hub *registry.Hub[types.Payload], in []types.Shard, sink registry.Consumer[types.Payload], plan Plan) (report Report, err error) {
	logger := logging.GetLogger("host")
	defer logging.LogOperationStart(logger, "host run")()

	ordered := Arrange(in, plan)
	installAt := plan.InstallAfter
	if installAt < 0 || installAt > len(ordered) {
		installAt = len(ordered)
	}

	report = Report{
		Order:       make([]string, 0, len(ordered)),
		InstalledAt: installAt,
	}
	defer func() { report.Stats = hub.Stats() }()
	publisher := shards.NewPublisher(hub)

	install := func() error {
		logger.Info().
			Str("sink", registry.RegisterFuncName).
			Int("after", installAt).
			Int("pending", hub.PendingCount()).
			Msg("Installing sink")
		return hub.Install(sink)
	}

	for i, shard := range ordered {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.ErrCancelled, "load cancelled")
		}
		if i == installAt {
			if err := install(); err != nil {
				return report, err
			}
		}

		if err := publisher.Publish(shard); err != nil {
			return report, err
		}
		report.Order = append(report.Order, shard.ID())
		if i < installAt {
			report.Buffered++
		} else {
			report.Direct++
		}
	}

	if installAt == len(ordered) {
		if err := ctx.Err(); err != nil {
			return report, errors.Wrap(err, errors.ErrCancelled, "load cancelled")
		}
		if err := install(); err != nil {
			return report, err
		}
	}

	logger.Info().
		Int("buffered", report.Buffered).
		Int("direct", report.Direct).
		Msg("Load finished")
	return report, nil
}
