package btree

import "github.com/flier/bptree/internal/bnode"

// searchBranch returns the smallest index i in [0, branch.Len()] such
// that key < branch.Key(i). Descending into Child(i) therefore routes a
// key equal to a separator into the right subtree, per I5.
func searchBranch[K any](b bnode.Branch[K], key K, less func(a, b K) bool) int {
	lo, hi := 0, b.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if less(key, b.Key(mid)) {
			hi = mid
		} else {
			lo = mid + 1
		}
	}

	return lo
}

// searchLeaf returns the index of key within the leaf and true if present,
// or the index at which it would be inserted (the first slot whose key is
// not less than key) and false otherwise.
func searchLeaf[K, V any](l bnode.Leaf[K, V], key K, less func(a, b K) bool) (int, bool) {
	lo, hi := 0, l.Len()
	for lo < hi {
		mid := int(uint(lo+hi) >> 1)
		if less(l.Key(mid), key) {
			lo = mid + 1
		} else {
			hi = mid
		}
	}

	if lo < l.Len() && !less(key, l.Key(lo)) {
		return lo, true
	}

	return lo, false
}

// Get looks up key, descending from the root.
func (t *Tree[K, V]) Get(key K) (V, bool) {
	var zero V

	if t.root == nil {
		return zero, false
	}

	block := t.root
	for bnode.TagOf(block) == bnode.TagBranch {
		b := t.asBranch(block)
		block = b.Child(searchBranch(b, key, t.less))
	}

	leaf := t.asLeaf(block)
	i, found := searchLeaf(leaf, key, t.less)
	if !found {
		return zero, false
	}

	return leaf.Val(i), true
}

// GetMut looks up key and returns a pointer into the stored value,
// letting the caller mutate it in place.
func (t *Tree[K, V]) GetMut(key K) (*V, bool) {
	if t.root == nil {
		return nil, false
	}

	block := t.root
	for bnode.TagOf(block) == bnode.TagBranch {
		b := t.asBranch(block)
		block = b.Child(searchBranch(b, key, t.less))
	}

	leaf := t.asLeaf(block)
	i, found := searchLeaf(leaf, key, t.less)
	if !found {
		return nil, false
	}

	return leaf.ValPtr(i), true
}

// ContainsKey reports whether key is present.
func (t *Tree[K, V]) ContainsKey(key K) bool {
	_, ok := t.Get(key)
	return ok
}
