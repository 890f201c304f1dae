package bnode

import (
	"unsafe"

	"github.com/flier/bptree/pkg/xunsafe"

	"github.com/flier/bptree/internal/blayout"
)

// Leaf is a typed view over a raw leaf block: a packed array of keys, a
// packed array of values, and the two sibling links that thread every leaf
// into the tree's ordered chain.
//
// A Leaf is a thin wrapper around a pointer and a precomputed layout; it
// does not own the memory it points into and can be copied freely.
type Leaf[K, V any] struct {
	block  unsafe.Pointer
	layout blayout.Leaf
}

// NewLeaf wraps a freshly allocated block as a leaf of the given layout,
// writing its tag.
func NewLeaf[K, V any](block unsafe.Pointer, layout blayout.Leaf) Leaf[K, V] {
	setTag(block, TagLeaf)

	return Leaf[K, V]{block: block, layout: layout}
}

// AsLeaf wraps an already-initialized block, without touching its tag.
func AsLeaf[K, V any](block unsafe.Pointer, layout blayout.Leaf) Leaf[K, V] {
	return Leaf[K, V]{block: block, layout: layout}
}

// Block returns the raw pointer backing this view, e.g. to store as a
// child pointer in a parent branch.
func (n Leaf[K, V]) Block() unsafe.Pointer { return n.block }

// Layout returns the layout this view was constructed with.
func (n Leaf[K, V]) Layout() blayout.Leaf { return n.layout }

// Len returns the number of keys currently stored in this leaf.
func (n Leaf[K, V]) Len() int { return LenOf(n.block) }

// SetLen sets the number of keys currently stored in this leaf.
func (n Leaf[K, V]) SetLen(length int) { setLen(n.block, length) }

// Full reports whether this leaf has no room for another key.
func (n Leaf[K, V]) Full() bool { return n.Len() >= n.layout.Cap }

func (n Leaf[K, V]) keys() *K { return xunsafe.ByteAdd[K](n.block, n.layout.KeysOff) }
func (n Leaf[K, V]) vals() *V { return xunsafe.ByteAdd[V](n.block, n.layout.ValsOff) }

// Key returns the key at index i.
func (n Leaf[K, V]) Key(i int) K { return xunsafe.Load(n.keys(), i) }

// SetKey sets the key at index i.
func (n Leaf[K, V]) SetKey(i int, k K) { xunsafe.Store(n.keys(), i, k) }

// Val returns the value at index i.
func (n Leaf[K, V]) Val(i int) V { return xunsafe.Load(n.vals(), i) }

// SetVal sets the value at index i.
func (n Leaf[K, V]) SetVal(i int, v V) { xunsafe.Store(n.vals(), i, v) }

// ValPtr returns a pointer to the value at index i, letting a caller
// mutate it in place without a copy round-trip.
func (n Leaf[K, V]) ValPtr(i int) *V { return xunsafe.Add(n.vals(), i) }

// Next returns the sibling link to the next leaf in key order, or nil at
// the end of the chain.
func (n Leaf[K, V]) Next() unsafe.Pointer {
	return *xunsafe.ByteAdd[unsafe.Pointer](n.block, n.layout.NextOff)
}

// SetNext sets the sibling link to the next leaf in key order.
func (n Leaf[K, V]) SetNext(next unsafe.Pointer) {
	*xunsafe.ByteAdd[unsafe.Pointer](n.block, n.layout.NextOff) = next
}

// Prev returns the sibling link to the previous leaf in key order, or nil
// at the start of the chain.
func (n Leaf[K, V]) Prev() unsafe.Pointer {
	return *xunsafe.ByteAdd[unsafe.Pointer](n.block, n.layout.PrevOff)
}

// SetPrev sets the sibling link to the previous leaf in key order.
func (n Leaf[K, V]) SetPrev(prev unsafe.Pointer) {
	*xunsafe.ByteAdd[unsafe.Pointer](n.block, n.layout.PrevOff) = prev
}

// InsertAt shifts every key/value from i onward one slot to the right and
// writes k, v into the opened slot at i. The caller must ensure the leaf
// is not Full.
func (n Leaf[K, V]) InsertAt(i int, k K, v V) {
	length := n.Len()

	if tail := length - i; tail > 0 {
		xunsafe.Copy(xunsafe.Add(n.keys(), i+1), xunsafe.Add(n.keys(), i), tail)
		xunsafe.Copy(xunsafe.Add(n.vals(), i+1), xunsafe.Add(n.vals(), i), tail)
	}

	n.SetKey(i, k)
	n.SetVal(i, v)
	n.SetLen(length + 1)
}

// RemoveAt removes the key/value at index i, shifting every following
// key/value one slot to the left.
func (n Leaf[K, V]) RemoveAt(i int) {
	length := n.Len()

	if tail := length - i - 1; tail > 0 {
		xunsafe.Copy(xunsafe.Add(n.keys(), i), xunsafe.Add(n.keys(), i+1), tail)
		xunsafe.Copy(xunsafe.Add(n.vals(), i), xunsafe.Add(n.vals(), i+1), tail)
	}

	var zeroK K
	var zeroV V
	n.SetKey(length-1, zeroK)
	n.SetVal(length-1, zeroV)
	n.SetLen(length - 1)
}

// CopyRangeFrom copies count key/value pairs from src[srcIdx:] into
// n[dstIdx:]. It is used both to populate a split-off sibling and to
// rebalance via borrow/merge.
func (n Leaf[K, V]) CopyRangeFrom(dstIdx int, src Leaf[K, V], srcIdx, count int) {
	if count <= 0 {
		return
	}

	xunsafe.Copy(xunsafe.Add(n.keys(), dstIdx), xunsafe.Add(src.keys(), srcIdx), count)
	xunsafe.Copy(xunsafe.Add(n.vals(), dstIdx), xunsafe.Add(src.vals(), srcIdx), count)
}

// ClearRange zeroes count key/value slots starting at i, releasing any
// references they hold so the garbage collector can reclaim them.
func (n Leaf[K, V]) ClearRange(i, count int) {
	if count <= 0 {
		return
	}

	xunsafe.Clear(xunsafe.Add(n.keys(), i), count)
	xunsafe.Clear(xunsafe.Add(n.vals(), i), count)
}
