package btree

import "github.com/flier/bptree/internal/bnode"

// Remove removes key, returning its associated value (and true) if it was
// present. Drop is invoked on the removed key and value if they implement
// it.
func (t *Tree[K, V]) Remove(key K) (V, bool) {
	var zero V

	if t.root == nil {
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
	if !found {
		return zero, false
	}

	val := leaf.Val(i)
	dropValue(leaf.Key(i))
	dropValue(val)
	leaf.RemoveAt(i)
	t.size--

	// Removing a leaf's first key changes the minimum of its subtree; the
	// separator naming that minimum sits in the deepest ancestor entered
	// through a child other than child 0 (I5).
	if i == 0 && leaf.Len() > 0 {
		for idx := len(stack) - 1; idx >= 0; idx-- {
			if fr := stack[idx]; fr.idx > 0 {
				fr.branch.SetKey(fr.idx-1, leaf.Key(0))
				break
			}
		}
	}

	min := t.minKeys()
	needsRebalance := leaf.Len() < min

	for idx := len(stack) - 1; idx >= 0 && needsRebalance; idx-- {
		fr := stack[idx]

		if !t.rebalanceChild(fr.branch, fr.idx) {
			needsRebalance = false
			break
		}

		needsRebalance = fr.branch.Len() < min
	}

	t.collapseRoot()

	return val, true
}

// collapseRoot shrinks the tree by one level if the root has become a
// branch with no separator keys (one child left) or an empty leaf.
func (t *Tree[K, V]) collapseRoot() {
	if t.root == nil {
		return
	}

	if bnode.TagOf(t.root) == bnode.TagBranch {
		root := t.asBranch(t.root)
		if root.Len() == 0 {
			only := root.Child(0)
			t.pool.FreeBranch(t.root)
			t.root = only
		}

		return
	}

	root := t.asLeaf(t.root)
	if root.Len() == 0 {
		t.pool.FreeLeaf(t.root)
		t.root = nil
	}
}
