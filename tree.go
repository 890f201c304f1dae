package bptree

import (
	"cmp"
	"io"

	"github.com/flier/bptree/internal/blayout"
	"github.com/flier/bptree/internal/btree"
	"github.com/flier/bptree/pkg/opt"
)

// Tree is an ordered map from K to V, backed by a B+ tree. The zero value
// is not usable; construct one with New or NewFunc.
type Tree[K, V any] struct {
	engine *btree.Tree[K, V]
}

// New builds an empty tree of the given node capacity, ordering keys with
// the standard library's cmp.Less. cap must be >= 4; lower values are
// rejected with a *CapacityError (wrapping ErrInvalidCapacity) because the
// engine cannot guarantee the minimum-occupancy invariant after a split
// below that threshold.
func New[K cmp.Ordered, V any](cap int) (*Tree[K, V], error) {
	return NewFunc[K, V](cmp.Less[K], cap)
}

// NewFunc is New's escape hatch for key types that are ordered but do not
// satisfy cmp.Ordered (e.g. time.Time, or a struct with a custom order).
func NewFunc[K, V any](less func(a, b K) bool, cap int) (*Tree[K, V], error) {
	if cap < blayout.MinCap {
		return nil, &CapacityError{Requested: cap, Min: blayout.MinCap}
	}

	return &Tree[K, V]{engine: btree.New[K, V](cap, less)}, nil
}

// Insert associates key with value, returning the value it previously held
// (and true) if key was already present. The displaced value is handed
// back as is; Drop is not called on it.
func (t *Tree[K, V]) Insert(key K, value V) (old V, replaced bool) {
	return t.engine.Insert(key, value)
}

// Get looks up key, returning its value and true if present.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	return t.engine.Get(key)
}

// GetMut looks up key, returning a pointer into the stored value (so the
// caller can mutate it in place) and true if present.
func (t *Tree[K, V]) GetMut(key K) (*V, bool) {
	return t.engine.GetMut(key)
}

// TryGet is Get expressed as an Option, for callers that prefer that
// idiom over a (value, bool) pair.
func (t *Tree[K, V]) TryGet(key K) opt.Option[V] {
	if v, ok := t.engine.Get(key); ok {
		return opt.Some(v)
	}

	return opt.None[V]()
}

// Remove removes key, returning its associated value (and true) if it was
// present. Drop is called on the removed key and value if they implement
// it.
func (t *Tree[K, V]) Remove(key K) (V, bool) {
	return t.engine.Remove(key)
}

// ContainsKey reports whether key is present.
func (t *Tree[K, V]) ContainsKey(key K) bool {
	return t.engine.ContainsKey(key)
}

// Len returns the number of entries currently stored.
func (t *Tree[K, V]) Len() int { return t.engine.Len() }

// IsEmpty reports whether the tree has no entries.
func (t *Tree[K, V]) IsEmpty() bool { return t.engine.IsEmpty() }

// Iter returns a cursor over every entry in ascending key order.
func (t *Tree[K, V]) Iter() *Cursor[K, V] {
	return &Cursor[K, V]{c: t.engine.Iter()}
}

// IterRev returns a cursor over every entry in descending key order.
func (t *Tree[K, V]) IterRev() *Cursor[K, V] {
	return &Cursor[K, V]{c: t.engine.IterRev()}
}

// Range returns a bidirectional cursor over entries whose key lies between
// lo and hi, each side inclusive, exclusive or unbounded as its Bound says.
func (t *Tree[K, V]) Range(lo, hi Bound[K]) *Cursor[K, V] {
	return &Cursor[K, V]{c: t.engine.Range(lo.internal(), hi.internal())}
}

// Clear destroys every entry (calling Drop on any key/value that
// implements it) and frees every node, leaving the tree empty.
func (t *Tree[K, V]) Clear() {
	t.engine.Clear()
}

// Check walks the whole tree once and verifies every data-model invariant
// (I1-I6), including the leaf chain in both directions. It returns a
// descriptive error on the first violation found. Check is a diagnostic
// for tests, including adversarial ones; it is never called from Insert,
// Remove, or any other hot path.
func (t *Tree[K, V]) Check() error {
	return t.engine.Check()
}

// Close destroys every entry and releases the tree's node pool back to
// the garbage collector. It realizes spec's "drop (container end of
// life)" operation: Go has no destructors, so this explicit terminal call
// is the idiomatic stand-in, and Tree additionally satisfies io.Closer so
// it composes with defer.
func (t *Tree[K, V]) Close() error {
	t.engine.Clear()
	return nil
}

var _ io.Closer = (*Tree[int, int])(nil)
