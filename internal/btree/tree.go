//go:build go1.21

// Package btree implements the B+ tree engine: insertion with leaf/branch
// splits, deletion with borrow/merge rebalancing, tree descent, and the
// ordered leaf chain that backs iteration.
//
// It is deliberately decoupled from any particular key type: callers
// supply a less func, so this package works equally for an ordered
// builtin key (via cmp.Less) and for a caller-supplied comparator.
package btree

import (
	"unsafe"

	"github.com/flier/bptree/internal/debug"

	"github.com/flier/bptree/internal/arena"
	"github.com/flier/bptree/internal/blayout"
	"github.com/flier/bptree/internal/bnode"
)

// Tree is the B+ tree engine. The zero value is not usable; construct one
// with New.
type Tree[K, V any] struct {
	root unsafe.Pointer
	size int

	cap          int
	leafLayout   blayout.Leaf
	branchLayout blayout.Branch

	pool arena.NodePool
	less func(a, b K) bool
}

// New builds an empty tree for the given capacity and ordering. The
// caller (the public bptree package) is responsible for rejecting
// cap < blayout.MinCap before calling this; internal/btree only asserts
// it in debug builds.
func New[K, V any](cap int, less func(a, b K) bool) *Tree[K, V] {
	debug.Assert(cap >= blayout.MinCap, "node capacity must be >= %d, got %d", blayout.MinCap, cap)

	t := &Tree[K, V]{
		cap:          cap,
		leafLayout:   blayout.CalcLeaf[K, V](cap),
		branchLayout: blayout.CalcBranch[K](cap),
		less:         less,
	}
	t.pool.Init(t.leafLayout.Size, t.branchLayout.Size)

	return t
}

// Len returns the number of entries currently stored.
func (t *Tree[K, V]) Len() int { return t.size }

// IsEmpty reports whether the tree has no entries.
func (t *Tree[K, V]) IsEmpty() bool { return t.size == 0 }

func (t *Tree[K, V]) minKeys() int { return t.cap / 2 }

func (t *Tree[K, V]) asLeaf(block unsafe.Pointer) bnode.Leaf[K, V] {
	return bnode.AsLeaf[K, V](block, t.leafLayout)
}

func (t *Tree[K, V]) asBranch(block unsafe.Pointer) bnode.Branch[K] {
	return bnode.AsBranch[K](block, t.branchLayout)
}

// leftmostLeaf descends via child 0 from the root to the leftmost leaf.
// Returns the nil pointer if the tree is empty.
func (t *Tree[K, V]) leftmostLeaf() unsafe.Pointer {
	block := t.root
	for block != nil && bnode.TagOf(block) == bnode.TagBranch {
		block = t.asBranch(block).Child(0)
	}

	return block
}

// rightmostLeaf descends via the last child at every level to the
// rightmost leaf.
func (t *Tree[K, V]) rightmostLeaf() unsafe.Pointer {
	block := t.root
	for block != nil && bnode.TagOf(block) == bnode.TagBranch {
		b := t.asBranch(block)
		block = b.Child(b.Len())
	}

	return block
}

// Clear destroys every entry (invoking Drop on keys/values that
// implement it) and frees every node, leaving the tree empty.
func (t *Tree[K, V]) Clear() {
	if t.root != nil {
		t.dropSubtree(t.root)
	}

	t.root = nil
	t.size = 0
	t.pool.Reset()
}

func (t *Tree[K, V]) dropSubtree(block unsafe.Pointer) {
	if bnode.TagOf(block) == bnode.TagBranch {
		b := t.asBranch(block)
		for i := 0; i <= b.Len(); i++ {
			t.dropSubtree(b.Child(i))
		}

		return
	}

	leaf := t.asLeaf(block)
	for i := 0; i < leaf.Len(); i++ {
		dropValue(leaf.Key(i))
		dropValue(leaf.Val(i))
	}
}

// dropper is implemented by key/value types that need to observe their
// own destruction deterministically (see Tree.Clear, Tree.Remove).
type dropper interface{ Drop() }

func dropValue[T any](v T) {
	if d, ok := any(v).(dropper); ok {
		d.Drop()
	}
}
