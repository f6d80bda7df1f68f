package registry

import (
	"sync"

	"github.com/arthur-debert/implshard/pkg/errors"
	"github.com/arthur-debert/implshard/pkg/logging"
	"github.com/rs/zerolog"
)

// Consumer is the registration sink. It receives every published payload
// exactly once.
type Consumer[P any] interface {
	Consume(id string, payload P) error
}

// ConsumerFunc adapts a function to the Consumer interface
type ConsumerFunc[P any] func(id string, payload P) error

// Consume calls f(id, payload)
func (f ConsumerFunc[P]) Consume(id string, payload P) error {
	return f(id, payload)
}

// Phase is the lifecycle phase of a Hub
type Phase int

const (
	// PhasePreInstall buffers every publish in the holding area
	PhasePreInstall Phase = iota
	// PhasePostInstall delivers every publish straight to the sink
	PhasePostInstall
)

// String returns the string representation of the phase
func (p Phase) String() string {
	switch p {
	case PhasePreInstall:
		return "pre-install"
	case PhasePostInstall:
		return "post-install"
	default:
		return "unknown"
	}
}

// Stats counts what a Hub has seen
type Stats struct {
	Published   int `json:"published"`
	Buffered    int `json:"buffered"`
	Overwritten int `json:"overwritten"`
	Delivered   int `json:"delivered"`
	Drained     int `json:"drained"`
	Stranded    int `json:"stranded"`
	Failed      int `json:"failed"`
	Installs    int `json:"installs"`
}

// Option configures a Hub
type Option func(*options)

type options struct {
	name   string
	logger *zerolog.Logger
}

// WithName sets the hub name used in log output
func WithName(name string) Option {
	return func(o *options) {
		o.name = name
	}
}

// WithLogger sets the logger used by the hub
func WithLogger(logger zerolog.Logger) Option {
	return func(o *options) {
		o.logger = &logger
	}
}

// Hub owns the holding area and the sink reference.
//
// Before Install, every Publish is buffered. Install sets the sink and
// drains the buffer in insertion order; from then on every Publish goes
// straight to the sink. The transition is one-way.
//
// State changes are guarded by a mutex and the sink is invoked outside of
// it, so a sink may publish back into the hub. A sink that receives
// publishes from several goroutines must be safe for concurrent use.
type Hub[P any] struct {
	mu      sync.Mutex
	name    string
	logger  *zerolog.Logger
	pending *holding[P] // created on first buffered publish
	sink    Consumer[P] // nil until Install
	stats   Stats
}

// New creates a new Hub in the pre-install phase
func New[P any](opts ...Option) *Hub[P] {
	o := options{name: HoldingAreaName}
	for _, opt := range opts {
		opt(&o)
	}
	return &Hub[P]{
		name:   o.name,
		logger: o.logger,
	}
}

// Name returns the hub name
func (h *Hub[P]) Name() string {
	return h.name
}

func (h *Hub[P]) log() zerolog.Logger {
	if h.logger != nil {
		return h.logger.With().Str("hub", h.name).Logger()
	}
	return logging.GetLogger("registry").With().Str("hub", h.name).Logger()
}

// Publish hands payload to the sink if one is installed, otherwise buffers
// it under id, replacing any earlier payload for the same id.
// Delivery is attempted once; a sink error is returned, never retried.
func (h *Hub[P]) Publish(id string, payload P) error {
	if id == "" {
		return errors.New(errors.ErrInvalidInput, "source identifier cannot be empty")
	}

	h.mu.Lock()
	h.stats.Published++
	sink := h.sink
	if sink == nil {
		if h.pending == nil {
			h.pending = newHolding[P]()
		}
		overwritten := h.pending.put(id, payload)
		h.stats.Buffered++
		if overwritten {
			h.stats.Overwritten++
		}
		count := h.pending.count()
		h.mu.Unlock()

		logger := h.log()
		logger.Debug().
			Str("id", id).
			Bool("overwritten", overwritten).
			Int("pending", count).
			Msg("Sink not installed, buffered payload")
		return nil
	}
	h.mu.Unlock()

	logger := h.log()
	if err := sink.Consume(id, payload); err != nil {
		h.update(func(s *Stats) { s.Failed++ })
		logger.Error().Err(err).Str("id", id).Msg("Sink rejected payload")
		return errors.Wrapf(err, errors.ErrSinkDelivery, "sink rejected %q", id).
			WithDetail("id", id)
	}

	h.update(func(s *Stats) { s.Delivered++ })
	logger.Trace().Str("id", id).Msg("Delivered payload")
	return nil
}

// Install sets c as the sink and delivers every buffered payload to it in
// insertion order. Calling Install again replaces the sink; payloads that
// were already drained are not delivered again.
//
// If c fails during the drain, the drain stops and the remaining payloads
// are stranded: they are dropped from the holding area and listed in the
// "stranded" detail of the returned error.
func (h *Hub[P]) Install(c Consumer[P]) error {
	if isNilConsumer(c) {
		return errors.New(errors.ErrInvalidInput, "consumer cannot be nil")
	}

	h.mu.Lock()
	replaced := h.sink != nil
	h.sink = c
	h.stats.Installs++
	var entries []Entry[P]
	if h.pending != nil {
		entries = h.pending.drain()
	}
	h.mu.Unlock()

	logger := h.log()
	logger.Info().
		Bool("replaced", replaced).
		Int("pending", len(entries)).
		Msg("Sink installed")

	for i, entry := range entries {
		if err := c.Consume(entry.ID, entry.Payload); err != nil {
			stranded := make([]string, 0, len(entries)-i)
			for _, e := range entries[i:] {
				stranded = append(stranded, e.ID)
			}
			h.update(func(s *Stats) {
				s.Drained += i
				s.Stranded += len(stranded)
				s.Failed++
			})
			logger.Error().
				Err(err).
				Str("id", entry.ID).
				Strs("stranded", stranded).
				Msg("Drain aborted")
			return errors.Wrapf(err, errors.ErrDrainAborted, "sink rejected %q during drain", entry.ID).
				WithDetail("id", entry.ID).
				WithDetail("delivered", i).
				WithDetail("stranded", stranded)
		}
	}

	h.update(func(s *Stats) { s.Drained += len(entries) })
	if len(entries) > 0 {
		logger.Info().Int("drained", len(entries)).Msg("Holding area drained")
	}
	return nil
}

// Phase returns the current lifecycle phase
func (h *Hub[P]) Phase() Phase {
	if h.Installed() {
		return PhasePostInstall
	}
	return PhasePreInstall
}

// Installed reports whether a sink has been installed
func (h *Hub[P]) Installed() bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.sink != nil
}

// Pending returns the buffered entries in insertion order
func (h *Hub[P]) Pending() []Entry[P] {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		return nil
	}
	return h.pending.list()
}

// PendingCount returns the number of buffered entries
func (h *Hub[P]) PendingCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		return 0
	}
	return h.pending.count()
}

// Lookup returns the payload buffered under id
func (h *Hub[P]) Lookup(id string) (P, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.pending == nil {
		var zero P
		return zero, false
	}
	return h.pending.get(id)
}

// IsPending checks if id is buffered
func (h *Hub[P]) IsPending(id string) bool {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.pending != nil && h.pending.has(id)
}

// Stats returns a snapshot of the hub counters
func (h *Hub[P]) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()

	return h.stats
}

func (h *Hub[P]) update(fn func(*Stats)) {
	h.mu.Lock()
	fn(&h.stats)
	h.mu.Unlock()
}

func isNilConsumer[P any](c Consumer[P]) bool {
	if c == nil {
		return true
	}
	if f, ok := c.(ConsumerFunc[P]); ok && f == nil {
		return true
	}
	return false
}
