package btree

import "github.com/flier/bptree/internal/bnode"

// rebalanceChild restores parent's child at idx to at-least-minimum
// occupancy via borrow or merge, trying, in order: borrow right, borrow
// left, merge right, merge left. Returns true if a merge occurred, which
// means parent itself lost one separator key and must be checked for
// underflow by the caller.
func (t *Tree[K, V]) rebalanceChild(parent bnode.Branch[K], idx int) bool {
	min := t.minKeys()
	child := parent.Child(idx)

	if bnode.TagOf(child) == bnode.TagLeaf {
		leaf := t.asLeaf(child)
		if leaf.Len() >= min {
			return false
		}

		return t.rebalanceLeaf(parent, idx, leaf, min)
	}

	branch := t.asBranch(child)
	if branch.Len() >= min {
		return false
	}

	return t.rebalanceBranch(parent, idx, branch, min)
}

func (t *Tree[K, V]) rebalanceLeaf(parent bnode.Branch[K], idx int, c bnode.Leaf[K, V], min int) bool {
	n := parent.Len()

	if idx < n {
		right := t.asLeaf(parent.Child(idx + 1))
		if right.Len() > min {
			cn := c.Len()
			c.SetKey(cn, right.Key(0))
			c.SetVal(cn, right.Val(0))
			c.SetLen(cn + 1)

			right.RemoveAt(0)
			parent.SetKey(idx, right.Key(0))

			return false
		}
	}

	if idx > 0 {
		left := t.asLeaf(parent.Child(idx - 1))
		if left.Len() > min {
			ln := left.Len()
			c.InsertAt(0, left.Key(ln-1), left.Val(ln-1))
			left.RemoveAt(ln - 1)

			parent.SetKey(idx-1, c.Key(0))

			return false
		}
	}

	if idx < n {
		right := t.asLeaf(parent.Child(idx + 1))
		cn := c.Len()
		c.CopyRangeFrom(cn, right, 0, right.Len())
		c.SetLen(cn + right.Len())

		next := right.Next()
		c.SetNext(next)
		if next != nil {
			t.asLeaf(next).SetPrev(c.Block())
		}

		t.pool.FreeLeaf(right.Block())
		parent.RemoveAt(idx)

		return true
	}

	left := t.asLeaf(parent.Child(idx - 1))
	ln := left.Len()
	left.CopyRangeFrom(ln, c, 0, c.Len())
	left.SetLen(ln + c.Len())

	next := c.Next()
	left.SetNext(next)
	if next != nil {
		t.asLeaf(next).SetPrev(left.Block())
	}

	t.pool.FreeLeaf(c.Block())
	parent.RemoveAt(idx - 1)

	return true
}

func (t *Tree[K, V]) rebalanceBranch(parent bnode.Branch[K], idx int, c bnode.Branch[K], min int) bool {
	n := parent.Len()

	if idx < n {
		right := t.asBranch(parent.Child(idx + 1))
		if right.Len() > min {
			cn := c.Len()
			c.SetKey(cn, parent.Key(idx))
			c.SetChild(cn+1, right.Child(0))
			c.SetLen(cn + 1)

			parent.SetKey(idx, right.Key(0))

			rn := right.Len()
			right.CopyRangeFrom(0, right, 1, rn-1)
			right.CopyChildrenFrom(0, right, 1, rn)
			right.SetLen(rn - 1)

			return false
		}
	}

	if idx > 0 {
		left := t.asBranch(parent.Child(idx - 1))
		if left.Len() > min {
			ln := left.Len()
			c.PrependChild(parent.Key(idx-1), left.Child(ln))
			parent.SetKey(idx-1, left.Key(ln-1))

			left.SetChild(ln, nil)
			left.ClearRange(ln-1, 1)
			left.SetLen(ln - 1)

			return false
		}
	}

	if idx < n {
		right := t.asBranch(parent.Child(idx + 1))
		cn := c.Len()
		c.SetKey(cn, parent.Key(idx))
		c.CopyRangeFrom(cn+1, right, 0, right.Len())
		c.CopyChildrenFrom(cn+1, right, 0, right.Len()+1)
		c.SetLen(cn + 1 + right.Len())

		t.pool.FreeBranch(right.Block())
		parent.RemoveAt(idx)

		return true
	}

	left := t.asBranch(parent.Child(idx - 1))
	ln := left.Len()
	cn := c.Len()
	left.SetKey(ln, parent.Key(idx-1))
	left.CopyRangeFrom(ln+1, c, 0, cn)
	left.CopyChildrenFrom(ln+1, c, 0, cn+1)
	left.SetLen(ln + 1 + cn)

	t.pool.FreeBranch(c.Block())
	parent.RemoveAt(idx - 1)

	return true
}
