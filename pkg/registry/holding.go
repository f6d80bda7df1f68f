package registry

// Entry is one buffered (id, payload) pair
type Entry[P any] struct {
	ID      string
	Payload P
}

// holding is the Holding Area: an insertion-ordered map from source
// identifier to payload. It is not safe for concurrent use; Hub guards it.
type holding[P any] struct {
	index   map[string]int
	entries []Entry[P]
}

// newHolding creates an empty holding area
func newHolding[P any]() *holding[P] {
	return &holding[P]{
		index: make(map[string]int),
	}
}

// put stores payload under id. A repeated id replaces the payload in place,
// keeping its original position, and reports true.
func (h *holding[P]) put(id string, payload P) bool {
	if i, exists := h.index[id]; exists {
		h.entries[i].Payload = payload
		return true
	}

	h.index[id] = len(h.entries)
	h.entries = append(h.entries, Entry[P]{ID: id, Payload: payload})
	return false
}

// get retrieves the payload buffered under id
func (h *holding[P]) get(id string) (P, bool) {
	i, exists := h.index[id]
	if !exists {
		var zero P
		return zero, false
	}
	return h.entries[i].Payload, true
}

// has checks if id is buffered
func (h *holding[P]) has(id string) bool {
	_, exists := h.index[id]
	return exists
}

// list returns a copy of the entries in insertion order
func (h *holding[P]) list() []Entry[P] {
	out := make([]Entry[P], len(h.entries))
	copy(out, h.entries)
	return out
}

// drain returns the entries in insertion order and empties the area.
// The area itself stays allocated.
func (h *holding[P]) drain() []Entry[P] {
	out := h.entries
	h.entries = nil
	h.index = make(map[string]int)
	return out
}

// count returns the number of buffered entries
func (h *holding[P]) count() int {
	return len(h.entries)
}
