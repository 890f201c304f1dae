//go:build go1.22

package btree

import (
	"unsafe"

	"github.com/flier/bptree/internal/bnode"
)

// walkBranches calls fn with the key count of every branch node in the
// tree, depth-first. Used by tests that want to assert a bound on branch
// occupancy beyond what Check already verifies.
func (t *Tree[K, V]) walkBranches(fn func(n int)) {
	if t.root == nil {
		return
	}

	t.walkBranchesFrom(t.root, fn)
}

func (t *Tree[K, V]) walkBranchesFrom(block unsafe.Pointer, fn func(n int)) {
	if bnode.TagOf(block) != bnode.TagBranch {
		return
	}

	b := t.asBranch(block)
	fn(b.Len())

	for i := 0; i <= b.Len(); i++ {
		t.walkBranchesFrom(b.Child(i), fn)
	}
}
