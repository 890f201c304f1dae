package btree

import (
	"unsafe"

	"github.com/flier/bptree/internal/bnode"
)

type branchFrame[K any] struct {
	branch bnode.Branch[K]
	idx    int
}

// Insert associates key with value, returning the value it replaces (and
// true) if key was already present.
func (t *Tree[K, V]) Insert(key K, value V) (V, bool) {
	var zero V

	// key and value are about to be copied into raw node memory, which the
	// garbage collector can't trace; keep real references to them alive in
	// the pool for as long as the tree itself is, regardless of where the
	// copy ends up after any number of future splits/merges/borrows.
	t.pool.KeepAlive(key)
	t.pool.KeepAlive(value)

	if t.root == nil {
		block := t.pool.AllocLeaf()
		leaf := bnode.NewLeaf[K, V](block, t.leafLayout)
		leaf.InsertAt(0, key, value)

		t.root = block
		t.size++

		return zero, false
	}

	var stack []branchFrame[K]

	block := t.root
	for bnode.TagOf(block) == bnode.TagBranch {
		b := t.asBranch(block)
		i := searchBranch(b, key, t.less)
		stack = append(stack, branchFrame[K]{b, i})
		block = b.Child(i)
	}

	leaf := t.asLeaf(block)
	i, found := searchLeaf(leaf, key, t.less)
	if found {
		old := leaf.Val(i)
		leaf.SetVal(i, value)

		return old, true
	}

	t.size++

	if !leaf.Full() {
		leaf.InsertAt(i, key, value)
		return zero, false
	}

	newLeaf, sep := t.splitLeaf(leaf, i, key, value)
	childPtr := newLeaf.Block()

	for idx := len(stack) - 1; idx >= 0; idx-- {
		fr := stack[idx]

		if !fr.branch.Full() {
			fr.branch.InsertAt(fr.idx, sep, childPtr)
			return zero, false
		}

		var newChild bnode.Branch[K]
		newChild, sep = t.splitBranch(fr.branch, fr.idx, sep, childPtr)
		childPtr = newChild.Block()
	}

	// Every branch on the path split (or there was no branch at all, i.e.
	// the root itself was the leaf that split): grow a new root.
	rootBlock := t.pool.AllocBranch()
	newRoot := bnode.NewBranch[K](rootBlock, t.branchLayout)
	newRoot.SetChild(0, t.root)
	newRoot.InsertAt(0, sep, childPtr)
	t.root = rootBlock

	return zero, false
}

// splitLeaf splits old (currently full) to make room for (key, value) at
// position i, returning the newly allocated right sibling and the
// separator to propagate upward. old is mutated in place to become the
// left half.
func (t *Tree[K, V]) splitLeaf(old bnode.Leaf[K, V], i int, key K, value V) (bnode.Leaf[K, V], K) {
	cap := old.Layout().Cap
	m := (cap + 1) / 2

	newBlock := t.pool.AllocLeaf()
	right := bnode.NewLeaf[K, V](newBlock, t.leafLayout)

	if i < m {
		moveCount := cap - (m - 1)
		right.CopyRangeFrom(0, old, m-1, moveCount)
		old.ClearRange(m-1, moveCount)

		shiftCount := (m - 1) - i
		old.CopyRangeFrom(i+1, old, i, shiftCount)

		old.SetKey(i, key)
		old.SetVal(i, value)
	} else {
		leftCount := i - m
		right.CopyRangeFrom(0, old, m, leftCount)

		rightCount := cap - i
		right.CopyRangeFrom(leftCount+1, old, i, rightCount)

		old.ClearRange(m, cap-m)

		right.SetKey(leftCount, key)
		right.SetVal(leftCount, value)
	}

	old.SetLen(m)
	right.SetLen(cap + 1 - m)

	oldNext := old.Next()
	right.SetPrev(old.Block())
	right.SetNext(oldNext)
	old.SetNext(right.Block())
	if oldNext != nil {
		t.asLeaf(oldNext).SetPrev(right.Block())
	}

	return right, right.Key(0)
}

// splitBranch splits old (currently full) to make room for a new child
// arriving at child-slot i+1 (with separator sep at key-slot i), returning
// the newly allocated right sibling and the key promoted to the parent.
// old is mutated in place to become the left half.
func (t *Tree[K, V]) splitBranch(old bnode.Branch[K], i int, sep K, child unsafe.Pointer) (bnode.Branch[K], K) {
	cap := old.Layout().Cap
	m := (cap + 1) / 2

	newBlock := t.pool.AllocBranch()
	right := bnode.NewBranch[K](newBlock, t.branchLayout)

	var promoted K

	switch {
	case i < m:
		promoted = old.Key(m - 1)

		right.CopyRangeFrom(0, old, m, cap-m)
		right.CopyChildrenFrom(0, old, m, cap-m+1)
		old.ClearRange(m-1, cap-(m-1))
		old.ClearChildren(m, cap-m+1)

		shiftKeys := (m - 1) - i
		old.CopyRangeFrom(i+1, old, i, shiftKeys)
		old.SetKey(i, sep)

		shiftChildren := (m - 1) - i
		old.CopyChildrenFrom(i+2, old, i+1, shiftChildren)
		old.SetChild(i+1, child)

		old.SetLen(m)
		right.SetLen(cap - m)

	case i == m:
		promoted = sep

		right.CopyRangeFrom(0, old, m, cap-m)
		right.SetChild(0, child)
		right.CopyChildrenFrom(1, old, m+1, cap-m)

		old.ClearRange(m, cap-m)
		old.ClearChildren(m+1, cap-m)

		old.SetLen(m)
		right.SetLen(cap - m)

	default: // i > m
		promoted = old.Key(m)

		leftKeysCount := i - 1 - m
		right.CopyRangeFrom(0, old, m+1, leftKeysCount)
		right.SetKey(leftKeysCount, sep)
		right.CopyRangeFrom(leftKeysCount+1, old, i, cap-i)

		leftChildCount := i - m
		right.CopyChildrenFrom(0, old, m+1, leftChildCount)
		right.SetChild(leftChildCount, child)
		right.CopyChildrenFrom(leftChildCount+1, old, i+1, cap-i)

		old.ClearRange(m, cap-m)
		old.ClearChildren(m+1, cap-m)

		old.SetLen(m)
		right.SetLen(cap - m)
	}

	return right, promoted
}
