package host_test

import (
	"context"
	"fmt"
	"testing"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/host"
	"github.com/arthur-debert/implshard/pkg/index"
	"github.com/arthur-debert/implshard/pkg/registry"
	"github.com/arthur-debert/implshard/pkg/shards"
	"github.com/arthur-debert/implshard/pkg/testutil"
	"github.com/arthur-debert/implshard/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleShards(n int) []types.Shard {
	out := make([]types.Shard, n)
	for i := range out {
		out[i] = types.Shard{
			Trait:   "t::T",
			Crate:   fmt.Sprintf("crate%d", i),
			Payload: types.PayloadOf(fmt.Sprintf("Impl%d", i)),
		}
	}
	return out
}

func newHub() *registry.Hub[types.Payload] {
	return registry.New[types.Payload](registry.WithLogger(zerolog.Nop()))
}

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    host.Order
		wantErr bool
	}{
		{"", host.OrderListed, false},
		{"listed", host.OrderListed, false},
		{"Reversed", host.OrderReversed, false},
		{" shuffled ", host.OrderShuffled, false},
		{"random", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := host.ParseOrder(tt.in)
			if tt.wantErr {
				assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestArrange(t *testing.T) {
	in := sampleShards(6)

	t.Run("listed keeps order", func(t *testing.T) {
		assert.Equal(t, in, host.Arrange(in, host.Plan{Order: host.OrderListed}))
	})

	t.Run("reversed", func(t *testing.T) {
		out := host.Arrange(in, host.Plan{Order: host.OrderReversed})
		assert.Equal(t, in[5], out[0])
		assert.Equal(t, in[0], out[5])
		assert.Equal(t, "crate0", in[0].Crate, "input is not modified")
	})

	t.Run("shuffled is reproducible", func(t *testing.T) {
		a := host.Arrange(in, host.Plan{Order: host.OrderShuffled, Seed: 42})
		b := host.Arrange(in, host.Plan{Order: host.OrderShuffled, Seed: 42})
		assert.Equal(t, a, b)
		assert.ElementsMatch(t, in, a)
	})
}

func TestRun(t *testing.T) {
	shards := sampleShards(5)

	tests := []struct {
		name         string
		plan         host.Plan
		wantBuffered int
		wantDirect   int
		wantAt       int
	}{
		{"install first", host.Plan{InstallAfter: 0}, 0, 5, 0},
		{"install midway", host.Plan{InstallAfter: 2}, 2, 3, 2},
		{"install last", host.Plan{InstallAfter: host.InstallLast}, 5, 0, 5},
		{"install past the end", host.Plan{InstallAfter: 99}, 5, 0, 5},
		{"reversed midway", host.Plan{Order: host.OrderReversed, InstallAfter: 3}, 3, 2, 3},
		{"shuffled midway", host.Plan{Order: host.OrderShuffled, Seed: 7, InstallAfter: 1}, 1, 4, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			hub := newHub()
			x := index.New()

			report, err := host.Run(context.Background(), hub, shards, x, tt.plan)
			require.NoError(t, err)

			assert.Equal(t, tt.wantBuffered, report.Buffered)
			assert.Equal(t, tt.wantDirect, report.Direct)
			assert.Equal(t, tt.wantAt, report.InstalledAt)
			assert.Len(t, report.Order, 5)

			// Every shard reaches the sink exactly once
			assert.Equal(t, 5, x.Count())
			assert.Len(t, x.Crates("t::T"), 5)
			assert.Equal(t, 0, hub.PendingCount())
			assert.Equal(t, tt.wantBuffered, report.Stats.Drained)
			assert.Equal(t, tt.wantDirect, report.Stats.Delivered)
		})
	}
}

func TestRunEmpty(t *testing.T) {
	hub := newHub()
	report, err := host.Run(context.Background(), hub, nil, index.New(), host.Plan{InstallAfter: host.InstallLast})
	require.NoError(t, err)
	assert.Equal(t, 0, report.InstalledAt)
	assert.True(t, hub.Installed())
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	hub := newHub()
	_, err := host.Run(ctx, hub, sampleShards(3), index.New(), host.Plan{InstallAfter: host.InstallLast})
	assert.True(t, errors.IsErrorCode(err, errors.ErrCancelled))
	assert.False(t, hub.Installed())
}

func TestRunDrainFailure(t *testing.T) {
	hub := newHub()
	rec := testutil.NewRecorder().FailOn("t::T@crate1", nil)

	report, err := host.Run(context.Background(), hub, sampleShards(3), rec, host.Plan{InstallAfter: host.InstallLast})
	assert.True(t, errors.IsErrorCode(err, errors.ErrDrainAborted))
	assert.Equal(t, []string{"t::T@crate0"}, rec.IDs())
	assert.Equal(t, 2, report.Stats.Stranded)
}

func TestRunRepeatedIDIsOrderIndependent(t *testing.T) {
	decoded, err := shards.Decode("implementors/tokio_service/trait.Service.js", []byte(
		`implementors["tokio_proto"] = ["A"];
implementors["tokio_proto"] = ["B"];`))
	require.NoError(t, err)

	// the same id announced again by another file
	repeated := []types.Shard{
		{Trait: "t::T", Crate: "x", Payload: types.PayloadOf("X1")},
		{Trait: "t::T", Crate: "y", Payload: types.PayloadOf("Y")},
		{Trait: "t::T", Crate: "x", Payload: types.PayloadOf("X2")},
	}

	tests := []struct {
		name  string
		input []types.Shard
	}{
		{"script assignments", decoded},
		{"separate shards", repeated},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var want *index.Summary
			for _, after := range []int{host.InstallLast, 0, 1, 2} {
				x := index.New()
				_, err := host.Run(context.Background(), newHub(), tt.input, x, host.Plan{InstallAfter: after})
				require.NoError(t, err, "install after %d", after)

				got := x.Summary()
				if want == nil {
					want = &got
					continue
				}
				assert.Equal(t, *want, got, "install after %d", after)
			}
		})
	}

	x := index.New()
	_, err = host.Run(context.Background(), newHub(), decoded, x, host.Plan{InstallAfter: 0})
	require.NoError(t, err)
	impls, ok := x.Implementors("tokio_service::Service", "tokio_proto")
	require.True(t, ok)
	assert.Equal(t, []string{"B"}, impls.Texts())
}
