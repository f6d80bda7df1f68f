package testutil

import (
	"fmt"
	"sync"

	"github.com/arthur-debert/implshard/pkg/types"
)

// Delivery is one call observed by a Recorder
type Delivery struct {
	ID      string
	Payload types.Payload
}

// Recorder is a registry consumer that records every delivery.
// It is safe for concurrent use.
type Recorder struct {
	mu         sync.Mutex
	deliveries []Delivery
	failOn     map[string]error
}

// NewRecorder creates an empty recorder
func NewRecorder() *Recorder {
	return &Recorder{failOn: make(map[string]error)}
}

// FailOn makes the recorder reject id with err. Rejected deliveries are not recorded.
func (r *Recorder) FailOn(id string, err error) *Recorder {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err == nil {
		err = fmt.Errorf("recorder rejects %s", id)
	}
	r.failOn[id] = err
	return r
}

// Consume records the delivery
func (r *Recorder) Consume(id string, payload types.Payload) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if err, ok := r.failOn[id]; ok {
		return err
	}
	r.deliveries = append(r.deliveries, Delivery{ID: id, Payload: payload})
	return nil
}

// Deliveries returns the recorded deliveries in order
func (r *Recorder) Deliveries() []Delivery {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]Delivery, len(r.deliveries))
	copy(out, r.deliveries)
	return out
}

// IDs returns the recorded ids in order
func (r *Recorder) IDs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()

	ids := make([]string, len(r.deliveries))
	for i, d := range r.deliveries {
		ids[i] = d.ID
	}
	return ids
}

// Count returns the number of recorded deliveries
func (r *Recorder) Count() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	return len(r.deliveries)
}

// Times returns how often id was delivered
func (r *Recorder) Times(id string) int {
	r.mu.Lock()
	defer r.mu.Unlock()

	n := 0
	for _, d := range r.deliveries {
		if d.ID == id {
			n++
		}
	}
	return n
}
