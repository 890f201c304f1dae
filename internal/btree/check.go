package btree

import (
	"fmt"
	"unsafe"

	"github.com/flier/bptree/internal/bnode"
)

// Check walks the whole tree once and verifies invariants I1-I6, plus the
// leaf chain in both directions. It returns a descriptive error on the
// first violation found, and is meant for tests, including adversarial
// ones; it is not called on any hot path.
func (t *Tree[K, V]) Check() error {
	if t.root == nil {
		return nil
	}

	count, _, _, err := t.checkSubtree(t.root, true)
	if err != nil {
		return err
	}

	if count != t.size {
		return fmt.Errorf("btree: size mismatch: Len()=%d but tree holds %d keys", t.size, count)
	}

	return t.checkLeafChain()
}

// checkSubtree returns the number of keys in the subtree, and the
// minimum/maximum key seen, so callers can verify separator placement
// (I5) against the parent.
func (t *Tree[K, V]) checkSubtree(block unsafe.Pointer, isRoot bool) (count int, min, max K, err error) {
	if bnode.TagOf(block) == bnode.TagLeaf {
		leaf := t.asLeaf(block)
		n := leaf.Len()

		if n < 0 || n > t.cap {
			return 0, min, max, fmt.Errorf("btree: leaf length %d out of [0, %d]", n, t.cap)
		}
		if !isRoot && n < t.minKeys() {
			return 0, min, max, fmt.Errorf("btree: non-root leaf underfull: length %d < min %d", n, t.minKeys())
		}

		for i := 1; i < n; i++ {
			if !t.less(leaf.Key(i-1), leaf.Key(i)) {
				return 0, min, max, fmt.Errorf("btree: leaf keys not strictly ascending at index %d", i)
			}
		}

		if n > 0 {
			min, max = leaf.Key(0), leaf.Key(n-1)
		}

		return n, min, max, nil
	}

	b := t.asBranch(block)
	n := b.Len()

	if n < 0 || n > t.cap {
		return 0, min, max, fmt.Errorf("btree: branch length %d out of [0, %d]", n, t.cap)
	}
	if !isRoot && n < t.minKeys() {
		return 0, min, max, fmt.Errorf("btree: non-root branch underfull: length %d < min %d", n, t.minKeys())
	}
	if isRoot && n == 0 {
		return 0, min, max, fmt.Errorf("btree: branch root has zero keys (should have collapsed)")
	}

	for i := 1; i < n; i++ {
		if !t.less(b.Key(i-1), b.Key(i)) {
			return 0, min, max, fmt.Errorf("btree: branch keys not strictly ascending at index %d", i)
		}
	}

	total := 0
	var firstMin, lastMax K
	for i := 0; i <= n; i++ {
		child := b.Child(i)
		if child == nil {
			return 0, min, max, fmt.Errorf("btree: branch child %d is nil", i)
		}

		childCount, childMin, childMax, err := t.checkSubtree(child, false)
		if err != nil {
			return 0, min, max, err
		}

		if i == 0 {
			firstMin = childMin
		}
		lastMax = childMax

		if i > 0 && childCount > 0 {
			if t.less(childMin, b.Key(i-1)) || t.less(b.Key(i-1), childMin) {
				return 0, min, max, fmt.Errorf(
					"btree: separator K[%d] does not equal min key of children[%d] (I5)", i-1, i)
			}
		}
		if i < n && childCount > 0 && !t.less(childMax, b.Key(i)) {
			return 0, min, max, fmt.Errorf(
				"btree: child %d contains a key not less than separator K[%d] (I5)", i, i)
		}

		total += childCount
	}

	return total, firstMin, lastMax, nil
}

// checkLeafChain walks the leftmost-to-rightmost leaf chain forward, then
// backward, and verifies I6: both walks visit the same leaves, in
// reverse order of one another, and every key is strictly ascending
// start to end.
func (t *Tree[K, V]) checkLeafChain() error {
	first := t.leftmostLeaf()
	last := t.rightmostLeaf()

	if first == nil || last == nil {
		return nil
	}

	if t.asLeaf(first).Prev() != nil {
		return fmt.Errorf("btree: leftmost leaf has a non-nil prev link")
	}
	if t.asLeaf(last).Next() != nil {
		return fmt.Errorf("btree: rightmost leaf has a non-nil next link")
	}

	var forward []unsafe.Pointer
	var prevKey K
	havePrevKey := false

	for block := first; block != nil; block = t.asLeaf(block).Next() {
		forward = append(forward, block)

		leaf := t.asLeaf(block)
		for i := 0; i < leaf.Len(); i++ {
			k := leaf.Key(i)
			if havePrevKey && !t.less(prevKey, k) {
				return fmt.Errorf("btree: leaf chain not strictly ascending across leaf boundary")
			}
			prevKey, havePrevKey = k, true
		}
	}

	var backward []unsafe.Pointer
	for block := last; block != nil; block = t.asLeaf(block).Prev() {
		backward = append(backward, block)
	}

	if len(forward) != len(backward) {
		return fmt.Errorf("btree: forward chain has %d leaves, backward chain has %d", len(forward), len(backward))
	}

	for i := range forward {
		if forward[i] != backward[len(backward)-1-i] {
			return fmt.Errorf("btree: forward and backward leaf chains disagree at position %d", i)
		}
	}

	return nil
}
