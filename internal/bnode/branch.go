package bnode

import (
	"unsafe"

	"github.com/flier/bptree/pkg/xunsafe"

	"github.com/flier/bptree/internal/blayout"
)

// Branch is a typed view over a raw branch block: cap+1 child pointers
// separated by cap separator keys, following the usual B+ tree convention
// that child[i] holds every key less than keys[i], and child[len] holds
// every key from keys[len-1] onward.
type Branch[K any] struct {
	block  unsafe.Pointer
	layout blayout.Branch
}

// NewBranch wraps a freshly allocated block as a branch of the given
// layout, writing its tag.
func NewBranch[K any](block unsafe.Pointer, layout blayout.Branch) Branch[K] {
	setTag(block, TagBranch)

	return Branch[K]{block: block, layout: layout}
}

// AsBranch wraps an already-initialized block, without touching its tag.
func AsBranch[K any](block unsafe.Pointer, layout blayout.Branch) Branch[K] {
	return Branch[K]{block: block, layout: layout}
}

// Block returns the raw pointer backing this view.
func (n Branch[K]) Block() unsafe.Pointer { return n.block }

// Layout returns the layout this view was constructed with.
func (n Branch[K]) Layout() blayout.Branch { return n.layout }

// Len returns the number of separator keys currently stored (one fewer
// than the number of live children).
func (n Branch[K]) Len() int { return LenOf(n.block) }

// SetLen sets the number of separator keys currently stored.
func (n Branch[K]) SetLen(length int) { setLen(n.block, length) }

// Full reports whether this branch has no room for another separator key.
func (n Branch[K]) Full() bool { return n.Len() >= n.layout.Cap }

func (n Branch[K]) keys() *K { return xunsafe.ByteAdd[K](n.block, n.layout.KeysOff) }
func (n Branch[K]) children() *unsafe.Pointer {
	return xunsafe.ByteAdd[unsafe.Pointer](n.block, n.layout.ChildrenOff)
}

// Key returns the separator key at index i.
func (n Branch[K]) Key(i int) K { return xunsafe.Load(n.keys(), i) }

// SetKey sets the separator key at index i.
func (n Branch[K]) SetKey(i int, k K) { xunsafe.Store(n.keys(), i, k) }

// Child returns the child pointer at index i, in [0, Len()].
func (n Branch[K]) Child(i int) unsafe.Pointer { return xunsafe.Load(n.children(), i) }

// SetChild sets the child pointer at index i.
func (n Branch[K]) SetChild(i int, child unsafe.Pointer) { xunsafe.Store(n.children(), i, child) }

// PrependChild shifts every existing key and every existing child pointer
// one slot to the right (including child 0), then writes k as the new
// first separator and child as the new first child.
//
// This differs from InsertAt(0, k, child): InsertAt keeps child 0 in
// place and inserts the new child to its right, which is what a normal
// split propagation needs. PrependChild is for the borrow-from-left-
// sibling rebalance, where an existing child must be pushed from slot 0
// to slot 1 to make room for a donated child arriving at the front.
func (n Branch[K]) PrependChild(k K, child unsafe.Pointer) {
	length := n.Len()

	if length > 0 {
		xunsafe.Copy(xunsafe.Add(n.keys(), 1), n.keys(), length)
	}
	xunsafe.Copy(xunsafe.Add(n.children(), 1), n.children(), length+1)

	n.SetKey(0, k)
	n.SetChild(0, child)
	n.SetLen(length + 1)
}

// InsertAt shifts every separator key and child pointer after i one slot
// to the right and writes k as the new separator at i and child as the
// new child at i+1. The caller must ensure the branch is not Full.
func (n Branch[K]) InsertAt(i int, k K, child unsafe.Pointer) {
	length := n.Len()

	if tail := length - i; tail > 0 {
		xunsafe.Copy(xunsafe.Add(n.keys(), i+1), xunsafe.Add(n.keys(), i), tail)
	}
	if tail := length - i; tail > 0 {
		xunsafe.Copy(xunsafe.Add(n.children(), i+2), xunsafe.Add(n.children(), i+1), tail)
	}

	n.SetKey(i, k)
	n.SetChild(i+1, child)
	n.SetLen(length + 1)
}

// RemoveAt removes the separator key at index i and the child pointer at
// i+1 (the child that i's removal merges away), shifting every following
// key and child one slot to the left.
func (n Branch[K]) RemoveAt(i int) {
	length := n.Len()

	if tail := length - i - 1; tail > 0 {
		xunsafe.Copy(xunsafe.Add(n.keys(), i), xunsafe.Add(n.keys(), i+1), tail)
	}
	if tail := length - i - 1; tail > 0 {
		xunsafe.Copy(xunsafe.Add(n.children(), i+1), xunsafe.Add(n.children(), i+2), tail)
	}

	var zeroK K
	n.SetKey(length-1, zeroK)
	n.SetChild(length, nil)
	n.SetLen(length - 1)
}

// CopyRangeFrom copies count separator keys from src[srcIdx:] into
// n[dstIdx:].
func (n Branch[K]) CopyRangeFrom(dstIdx int, src Branch[K], srcIdx, count int) {
	if count <= 0 {
		return
	}

	xunsafe.Copy(xunsafe.Add(n.keys(), dstIdx), xunsafe.Add(src.keys(), srcIdx), count)
}

// CopyChildrenFrom copies count child pointers from src[srcIdx:] into
// n[dstIdx:].
func (n Branch[K]) CopyChildrenFrom(dstIdx int, src Branch[K], srcIdx, count int) {
	if count <= 0 {
		return
	}

	xunsafe.Copy(xunsafe.Add(n.children(), dstIdx), xunsafe.Add(src.children(), srcIdx), count)
}

// ClearRange zeroes count separator key slots starting at i.
func (n Branch[K]) ClearRange(i, count int) {
	if count <= 0 {
		return
	}

	xunsafe.Clear(xunsafe.Add(n.keys(), i), count)
}

// ClearChildren zeroes count child pointer slots starting at i.
func (n Branch[K]) ClearChildren(i, count int) {
	if count <= 0 {
		return
	}

	xunsafe.Clear(xunsafe.Add(n.children(), i), count)
}
