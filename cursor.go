package bptree

import "github.com/flier/bptree/internal/btree"

// Cursor is a bidirectional iterator over a contiguous run of a Tree's
// entries, in ascending or descending key order depending on how it was
// obtained (see Tree.Iter, Tree.IterRev, Tree.Range).
//
// A Cursor holds a logical borrow of its Tree: no Insert or Remove may
// happen on that Tree while the Cursor is in use.
type Cursor[K, V any] struct {
	c *btree.Cursor[K, V]
}

// Next yields the next entry in the cursor's intrinsic direction, or false
// once exhausted.
func (c *Cursor[K, V]) Next() (K, V, bool) {
	return c.c.Next()
}

// NextBack yields the next entry from the opposite end of the cursor's
// range. It is meaningful for every Cursor, but most useful for one
// returned by Tree.Range: consuming from both ends visits every in-range
// entry exactly once regardless of the order front/back calls interleave.
func (c *Cursor[K, V]) NextBack() (K, V, bool) {
	return c.c.NextBack()
}
