package registry

import (
	"testing"

	"github.com/arthur-debert/implshard/pkg/testutil"
)

func TestHolding(t *testing.T) {
	h := newHolding[int]()

	t.Run("put appends new ids", func(t *testing.T) {
		testutil.AssertFalse(t, h.put("b", 1))
		testutil.AssertFalse(t, h.put("a", 2))
		testutil.AssertEqual(t, 2, h.count())
	})

	t.Run("put replaces in place", func(t *testing.T) {
		testutil.AssertTrue(t, h.put("b", 3))
		testutil.AssertEqual(t, []Entry[int]{{ID: "b", Payload: 3}, {ID: "a", Payload: 2}}, h.list())
	})

	t.Run("get and has", func(t *testing.T) {
		v, ok := h.get("a")
		testutil.AssertTrue(t, ok)
		testutil.AssertEqual(t, 2, v)

		_, ok = h.get("missing")
		testutil.AssertFalse(t, ok)
		testutil.AssertFalse(t, h.has("missing"))
	})

	t.Run("drain empties the area", func(t *testing.T) {
		entries := h.drain()
		testutil.AssertEqual(t, 2, len(entries))
		testutil.AssertEqual(t, "b", entries[0].ID)
		testutil.AssertEqual(t, 0, h.count())
		testutil.AssertFalse(t, h.has("b"))

		// Still usable after a drain
		testutil.AssertFalse(t, h.put("c", 4))
		testutil.AssertEqual(t, 1, h.count())
	})
}
