package btree

import "github.com/flier/bptree/internal/bnode"

// Bound describes one side of a Range query. The zero value, combined
// with Unbounded, represents "no limit on this side".
type Bound[K any] struct {
	Value     K
	Inclusive bool
	Unbounded bool
}

// UnboundedBound returns a Bound that imposes no limit.
func UnboundedBound[K any]() Bound[K] { return Bound[K]{Unbounded: true} }

func allowsLo[K any](lo Bound[K], key K, less func(a, b K) bool) bool {
	if lo.Unbounded {
		return true
	}
	if lo.Inclusive {
		return !less(key, lo.Value)
	}

	return less(lo.Value, key)
}

func allowsHi[K any](hi Bound[K], key K, less func(a, b K) bool) bool {
	if hi.Unbounded {
		return true
	}
	if hi.Inclusive {
		return !less(hi.Value, key)
	}

	return less(key, hi.Value)
}

func leafLowerBound[K, V any](l bnode.Leaf[K, V], key K, less func(a, b K) bool) int {
	lo, hi := 0, l.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if less(l.Key(mid), key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	return lo
}

func leafUpperBound[K, V any](l bnode.Leaf[K, V], key K, less func(a, b K) bool) int {
	lo, hi := 0, l.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if less(key, l.Key(mid)) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return lo
}

// Cursor is a bidirectional iterator over a contiguous run of leaves.
//
// It holds a logical borrow of the tree: no insert or remove may happen
// while a Cursor is in use.
type Cursor[K, V any] struct {
	t *Tree[K, V]

	lo, hi func(K) bool // in-range predicates, already specialized for this tree's less

	fwdValid bool
	fwdLeaf  bnode.Leaf[K, V]
	fwdIdx   int

	bwdValid bool
	bwdLeaf  bnode.Leaf[K, V]
	bwdIdx   int

	// swapped makes Next walk backward (and NextBack walk forward),
	// letting IterRev reuse Range's plumbing without duplicating it.
	swapped bool
}

// Iter returns a cursor over every entry in ascending key order.
func (t *Tree[K, V]) Iter() *Cursor[K, V] {
	return t.Range(UnboundedBound[K](), UnboundedBound[K]())
}

// IterRev returns a cursor over every entry in descending key order.
func (t *Tree[K, V]) IterRev() *Cursor[K, V] {
	c := t.Range(UnboundedBound[K](), UnboundedBound[K]())
	c.swapped = true

	return c
}

// Range returns a bidirectional cursor over entries whose key satisfies
// lo on the low end and hi on the high end.
func (t *Tree[K, V]) Range(lo, hi Bound[K]) *Cursor[K, V] {
	c := &Cursor[K, V]{
		t:  t,
		lo: func(k K) bool { return allowsLo(lo, k, t.less) },
		hi: func(k K) bool { return allowsHi(hi, k, t.less) },
	}

	if t.root == nil {
		return c
	}

	if fl, fi, ok := t.locateLowerBound(lo); ok {
		c.fwdValid, c.fwdLeaf, c.fwdIdx = true, fl, fi
	}
	if bl, bi, ok := t.locateUpperBound(hi); ok {
		c.bwdValid, c.bwdLeaf, c.bwdIdx = true, bl, bi
	}

	if !c.fwdValid || !c.bwdValid {
		c.fwdValid, c.bwdValid = false, false
		return c
	}

	if !c.hi(c.fwdLeaf.Key(c.fwdIdx)) || !c.lo(c.bwdLeaf.Key(c.bwdIdx)) {
		c.fwdValid, c.bwdValid = false, false
	}

	return c
}

// locateLowerBound finds the first (leaf, index) whose key satisfies lo,
// descending the tree the same way Get does so that it lands on the
// unique leaf that would hold lo.Value.
func (t *Tree[K, V]) locateLowerBound(lo Bound[K]) (bnode.Leaf[K, V], int, bool) {
	block := t.root
	if lo.Unbounded {
		block = t.leftmostLeaf()
		if block == nil {
			return bnode.Leaf[K, V]{}, 0, false
		}

		return t.asLeaf(block), 0, true
	}

	for bnode.TagOf(block) == bnode.TagBranch {
		b := t.asBranch(block)
		block = b.Child(searchBranch(b, lo.Value, t.less))
	}

	leaf := t.asLeaf(block)

	var idx int
	if lo.Inclusive {
		idx = leafLowerBound(leaf, lo.Value, t.less)
	} else {
		idx = leafUpperBound(leaf, lo.Value, t.less)
	}

	for idx == leaf.Len() {
		next := leaf.Next()
		if next == nil {
			return bnode.Leaf[K, V]{}, 0, false
		}

		leaf = t.asLeaf(next)
		idx = 0
	}

	return leaf, idx, true
}

// locateUpperBound finds the last (leaf, index) whose key satisfies hi.
func (t *Tree[K, V]) locateUpperBound(hi Bound[K]) (bnode.Leaf[K, V], int, bool) {
	block := t.root
	if hi.Unbounded {
		block = t.rightmostLeaf()
		if block == nil {
			return bnode.Leaf[K, V]{}, 0, false
		}

		leaf := t.asLeaf(block)
		return leaf, leaf.Len() - 1, true
	}

	for bnode.TagOf(block) == bnode.TagBranch {
		b := t.asBranch(block)
		block = b.Child(searchBranch(b, hi.Value, t.less))
	}

	leaf := t.asLeaf(block)

	var idx int
	if hi.Inclusive {
		idx = leafUpperBound(leaf, hi.Value, t.less) - 1
	} else {
		idx = leafLowerBound(leaf, hi.Value, t.less) - 1
	}

	for idx < 0 {
		prev := leaf.Prev()
		if prev == nil {
			return bnode.Leaf[K, V]{}, 0, false
		}

		leaf = t.asLeaf(prev)
		idx = leaf.Len() - 1
	}

	return leaf, idx, true
}

// Next yields the next entry in this cursor's intrinsic direction
// (ascending for Iter/Range, descending for IterRev), or false once
// exhausted.
func (c *Cursor[K, V]) Next() (K, V, bool) {
	if c.swapped {
		return c.advanceBack()
	}

	return c.advanceFront()
}

// NextBack yields the next entry from the opposite end of this cursor's
// range, for double-ended consumption. It works on every cursor; front and
// back calls together visit each entry of the range exactly once.
func (c *Cursor[K, V]) NextBack() (K, V, bool) {
	if c.swapped {
		return c.advanceFront()
	}

	return c.advanceBack()
}

func (c *Cursor[K, V]) advanceFront() (K, V, bool) {
	var zeroK K
	var zeroV V

	if !c.fwdValid || !c.bwdValid {
		return zeroK, zeroV, false
	}

	key, val := c.fwdLeaf.Key(c.fwdIdx), c.fwdLeaf.Val(c.fwdIdx)
	if !c.hi(key) {
		c.fwdValid, c.bwdValid = false, false
		return zeroK, zeroV, false
	}

	if c.fwdLeaf.Block() == c.bwdLeaf.Block() && c.fwdIdx == c.bwdIdx {
		c.fwdValid, c.bwdValid = false, false
		return key, val, true
	}

	if c.fwdIdx+1 < c.fwdLeaf.Len() {
		c.fwdIdx++
	} else if next := c.fwdLeaf.Next(); next != nil {
		c.fwdLeaf, c.fwdIdx = c.t.asLeaf(next), 0
	} else {
		c.fwdValid = false
	}

	return key, val, true
}

func (c *Cursor[K, V]) advanceBack() (K, V, bool) {
	var zeroK K
	var zeroV V

	if !c.fwdValid || !c.bwdValid {
		return zeroK, zeroV, false
	}

	key, val := c.bwdLeaf.Key(c.bwdIdx), c.bwdLeaf.Val(c.bwdIdx)
	if !c.lo(key) {
		c.fwdValid, c.bwdValid = false, false
		return zeroK, zeroV, false
	}

	if c.fwdLeaf.Block() == c.bwdLeaf.Block() && c.fwdIdx == c.bwdIdx {
		c.fwdValid, c.bwdValid = false, false
		return key, val, true
	}

	if c.bwdIdx > 0 {
		c.bwdIdx--
	} else if prev := c.bwdLeaf.Prev(); prev != nil {
		c.bwdLeaf = c.t.asLeaf(prev)
		c.bwdIdx = c.bwdLeaf.Len() - 1
	} else {
		c.bwdValid = false
	}

	return key, val, true
}
