package registry

import (
	"bytes"
	stderrors "errors"
	"fmt"
	"sync"
	"testing"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/testutil"
	"github.com/arthur-debert/implshard/pkg/types"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestHub() *Hub[types.Payload] {
	return New[types.Payload](WithName("test"), WithLogger(zerolog.Nop()))
}

func TestNew(t *testing.T) {
	hub := newTestHub()

	testutil.AssertEqual(t, PhasePreInstall, hub.Phase())
	testutil.AssertFalse(t, hub.Installed())
	testutil.AssertEqual(t, 0, hub.PendingCount())
	testutil.AssertNil(t, hub.Pending(), "holding area is created lazily")
	testutil.AssertEqual(t, "test", hub.Name())
}

func TestPhaseString(t *testing.T) {
	testutil.AssertEqual(t, "pre-install", PhasePreInstall.String())
	testutil.AssertEqual(t, "post-install", PhasePostInstall.String())
	testutil.AssertEqual(t, "unknown", Phase(7).String())
}

func TestPublishBeforeInstall(t *testing.T) {
	t.Run("buffers every payload", func(t *testing.T) {
		hub := newTestHub()

		require.NoError(t, hub.Publish("crate_a", types.PayloadOf("ImplX", "ImplY")))
		require.NoError(t, hub.Publish("crate_b", types.Payload{}))

		pending := hub.Pending()
		require.Len(t, pending, 2)
		assert.Equal(t, "crate_a", pending[0].ID)
		assert.Equal(t, []string{"ImplX", "ImplY"}, pending[0].Payload.Texts())
		assert.Equal(t, "crate_b", pending[1].ID)
		assert.Empty(t, pending[1].Payload)

		got, ok := hub.Lookup("crate_a")
		assert.True(t, ok)
		assert.Equal(t, types.PayloadOf("ImplX", "ImplY"), got)
		assert.True(t, hub.IsPending("crate_b"))
	})

	t.Run("last writer wins and keeps position", func(t *testing.T) {
		hub := newTestHub()

		require.NoError(t, hub.Publish("a", types.PayloadOf("first")))
		require.NoError(t, hub.Publish("b", types.PayloadOf("b")))
		require.NoError(t, hub.Publish("a", types.PayloadOf("second")))

		pending := hub.Pending()
		require.Len(t, pending, 2)
		assert.Equal(t, "a", pending[0].ID)
		assert.Equal(t, []string{"second"}, pending[0].Payload.Texts())

		stats := hub.Stats()
		assert.Equal(t, 3, stats.Published)
		assert.Equal(t, 3, stats.Buffered)
		assert.Equal(t, 1, stats.Overwritten)
	})

	t.Run("empty id is rejected", func(t *testing.T) {
		hub := newTestHub()

		err := hub.Publish("", types.PayloadOf("x"))
		testutil.AssertErrorCode(t, err, errors.ErrInvalidInput)
		testutil.AssertEqual(t, 0, hub.PendingCount())
	})

	t.Run("pending snapshot is a copy", func(t *testing.T) {
		hub := newTestHub()
		require.NoError(t, hub.Publish("a", types.PayloadOf("x")))

		pending := hub.Pending()
		pending[0].ID = "mutated"

		assert.True(t, hub.IsPending("a"))
		assert.False(t, hub.IsPending("mutated"))
	})
}

func TestInstallDrainsInInsertionOrder(t *testing.T) {
	hub := newTestHub()
	require.NoError(t, hub.Publish("crate_a", types.PayloadOf("ImplX", "ImplY")))
	require.NoError(t, hub.Publish("crate_b", types.Payload{}))

	rec := testutil.NewRecorder()
	require.NoError(t, hub.Install(rec))

	deliveries := rec.Deliveries()
	require.Len(t, deliveries, 2)
	assert.Equal(t, "crate_a", deliveries[0].ID)
	assert.Equal(t, []string{"ImplX", "ImplY"}, deliveries[0].Payload.Texts())
	assert.Equal(t, "crate_b", deliveries[1].ID)
	assert.Empty(t, deliveries[1].Payload)

	assert.Equal(t, 0, hub.PendingCount())
	assert.Equal(t, PhasePostInstall, hub.Phase())

	stats := hub.Stats()
	assert.Equal(t, 2, stats.Drained)
	assert.Equal(t, 1, stats.Installs)
}

func TestPublishAfterInstall(t *testing.T) {
	hub := newTestHub()
	rec := testutil.NewRecorder()
	require.NoError(t, hub.Install(rec))

	require.NoError(t, hub.Publish("crate_a", types.PayloadOf("ImplX")))

	// Delivered synchronously, before Publish returned
	assert.Equal(t, []string{"crate_a"}, rec.IDs())
	assert.Equal(t, 0, hub.PendingCount())
	assert.Nil(t, hub.Pending(), "direct delivery never creates the holding area")

	stats := hub.Stats()
	assert.Equal(t, 1, stats.Delivered)
	assert.Equal(t, 0, stats.Buffered)
}

func TestInstallIsOneShot(t *testing.T) {
	hub := newTestHub()
	require.NoError(t, hub.Publish("a", types.PayloadOf("x")))

	first := testutil.NewRecorder()
	require.NoError(t, hub.Install(first))

	second := testutil.NewRecorder()
	require.NoError(t, hub.Install(second))
	assert.Equal(t, 0, second.Count(), "re-install re-delivers nothing")

	require.NoError(t, hub.Publish("b", types.PayloadOf("y")))
	assert.Equal(t, []string{"a"}, first.IDs())
	assert.Equal(t, []string{"b"}, second.IDs(), "the replacement sink receives new publishes")
	assert.Equal(t, 2, hub.Stats().Installs)
}

func TestInstallRejectsNilConsumer(t *testing.T) {
	hub := newTestHub()
	require.NoError(t, hub.Publish("a", types.PayloadOf("x")))

	testutil.AssertErrorCode(t, hub.Install(nil), errors.ErrInvalidInput)

	var fn ConsumerFunc[types.Payload]
	testutil.AssertErrorCode(t, hub.Install(fn), errors.ErrInvalidInput)

	assert.Equal(t, PhasePreInstall, hub.Phase())
	assert.Equal(t, 1, hub.PendingCount(), "a rejected install leaves the buffer alone")
}

func TestSinkFailure(t *testing.T) {
	boom := stderrors.New("boom")

	t.Run("direct delivery error is returned and not buffered", func(t *testing.T) {
		hub := newTestHub()
		rec := testutil.NewRecorder().FailOn("bad", boom)
		require.NoError(t, hub.Install(rec))

		err := hub.Publish("bad", types.PayloadOf("x"))
		testutil.AssertErrorCode(t, err, errors.ErrSinkDelivery)
		assert.ErrorIs(t, err, boom)
		assert.Equal(t, 0, hub.PendingCount())
		assert.Equal(t, 1, hub.Stats().Failed)

		require.NoError(t, hub.Publish("good", types.PayloadOf("y")))
		assert.Equal(t, []string{"good"}, rec.IDs())
	})

	t.Run("drain stops and strands the rest", func(t *testing.T) {
		hub := newTestHub()
		for _, id := range []string{"a", "b", "c"} {
			require.NoError(t, hub.Publish(id, types.PayloadOf(id)))
		}

		rec := testutil.NewRecorder().FailOn("b", boom)
		err := hub.Install(rec)
		testutil.AssertErrorCode(t, err, errors.ErrDrainAborted)
		assert.ErrorIs(t, err, boom)

		details := errors.GetErrorDetails(err)
		assert.Equal(t, []string{"b", "c"}, details["stranded"])
		assert.Equal(t, 1, details["delivered"])
		assert.Equal(t, []string{"a"}, rec.IDs())

		assert.Equal(t, 0, hub.PendingCount(), "stranded entries leave the holding area")
		assert.True(t, hub.Installed(), "the sink stays installed")

		later := testutil.NewRecorder()
		require.NoError(t, hub.Install(later))
		assert.Equal(t, 0, later.Count(), "stranded entries are not recovered")

		stats := hub.Stats()
		assert.Equal(t, 1, stats.Drained)
		assert.Equal(t, 2, stats.Stranded)
	})

	t.Run("sink panic propagates", func(t *testing.T) {
		hub := newTestHub()
		require.NoError(t, hub.Install(ConsumerFunc[types.Payload](func(id string, _ types.Payload) error {
			panic("sink exploded on " + id)
		})))

		testutil.AssertPanic(t, func() { _ = hub.Publish("a", types.PayloadOf("x")) })

		// The hub is still usable afterwards
		assert.True(t, hub.Installed())
		assert.Equal(t, 0, hub.PendingCount())
	})
}

func TestSinkMayPublish(t *testing.T) {
	hub := newTestHub()
	require.NoError(t, hub.Publish("outer", types.PayloadOf("x")))

	rec := testutil.NewRecorder()
	sink := ConsumerFunc[types.Payload](func(id string, payload types.Payload) error {
		if id == "outer" {
			if err := hub.Publish("inner", types.PayloadOf("y")); err != nil {
				return err
			}
		}
		return rec.Consume(id, payload)
	})

	require.NoError(t, hub.Install(sink))
	assert.Equal(t, []string{"inner", "outer"}, rec.IDs())
}

// Every arrangement of publishes around one install delivers every payload
// exactly once with its own id.
func TestOrderIndependence(t *testing.T) {
	ids := []string{"a", "b", "c", "d"}

	for _, order := range permutations(ids) {
		for installAt := 0; installAt <= len(order); installAt++ {
			name := fmt.Sprintf("%v/install@%d", order, installAt)
			t.Run(name, func(t *testing.T) {
				hub := newTestHub()
				rec := testutil.NewRecorder()

				for i, id := range order {
					if i == installAt {
						require.NoError(t, hub.Install(rec))
					}
					require.NoError(t, hub.Publish(id, types.PayloadOf("impl-of-"+id)))
				}
				if installAt == len(order) {
					require.NoError(t, hub.Install(rec))
				}

				require.Equal(t, len(ids), rec.Count())
				for _, d := range rec.Deliveries() {
					assert.Equal(t, []string{"impl-of-" + d.ID}, d.Payload.Texts())
					assert.Equal(t, 1, rec.Times(d.ID))
				}
				assert.Equal(t, 0, hub.PendingCount())

				// Buffered entries come first, in publish order
				assert.Equal(t, order[:installAt], rec.IDs()[:installAt])
			})
		}
	}
}

func TestConcurrentPublishAndInstall(t *testing.T) {
	const publishers = 64

	hub := newTestHub()
	rec := testutil.NewRecorder()

	var wg sync.WaitGroup
	start := make(chan struct{})
	errs := make(chan error, publishers+1)

	for i := 0; i < publishers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			errs <- hub.Publish(fmt.Sprintf("shard-%02d", i), types.PayloadOf(fmt.Sprint(i)))
		}(i)
	}
	wg.Add(1)
	go func() {
		defer wg.Done()
		<-start
		errs <- hub.Install(rec)
	}()

	close(start)
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	assert.Equal(t, publishers, rec.Count())
	for i := 0; i < publishers; i++ {
		assert.Equal(t, 1, rec.Times(fmt.Sprintf("shard-%02d", i)))
	}
	assert.Equal(t, 0, hub.PendingCount())

	stats := hub.Stats()
	assert.Equal(t, publishers, stats.Published)
	assert.Equal(t, publishers, stats.Drained+stats.Delivered)
}

func permutations(items []string) [][]string {
	if len(items) <= 1 {
		return [][]string{append([]string(nil), items...)}
	}
	var out [][]string
	for i := range items {
		rest := make([]string, 0, len(items)-1)
		rest = append(rest, items[:i]...)
		rest = append(rest, items[i+1:]...)
		for _, p := range permutations(rest) {
			out = append(out, append([]string{items[i]}, p...))
		}
	}
	return out
}

func TestHubLogsEachPhase(t *testing.T) {
	prev := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prev) })

	var buf bytes.Buffer
	logger := zerolog.New(&buf).Level(zerolog.TraceLevel)
	hub := New[types.Payload](WithName("logged"), WithLogger(logger))

	require.NoError(t, hub.Publish("a", types.PayloadOf("x")))
	require.NoError(t, hub.Install(ConsumerFunc[types.Payload](func(id string, _ types.Payload) error {
		if id == "bad" {
			return stderrors.New("no")
		}
		return nil
	})))
	require.NoError(t, hub.Publish("b", types.PayloadOf("y")))
	require.Error(t, hub.Publish("bad", nil))

	out := buf.String()
	assert.Contains(t, out, "Sink not installed, buffered payload")
	assert.Contains(t, out, "Sink installed")
	assert.Contains(t, out, "Delivered payload")
	assert.Contains(t, out, "Sink rejected payload")
	assert.Contains(t, out, `"hub":"logged"`)
}
