//go:build go1.21

// Package blayout computes the byte layout of B+ tree nodes.
//
// A node is a single contiguous allocation carved into a fixed header
// followed by one or two packed sub-arrays (see [github.com/flier/bptree/internal/bnode]).
// This package is the pure, allocation-free arithmetic that decides where
// each sub-array begins; it never touches memory itself.
package blayout

import (
	"github.com/flier/bptree/internal/debug"
	"github.com/flier/bptree/pkg/xunsafe/layout"
)

// MinCap is the smallest node capacity the layout calculator accepts.
//
// Below this, a split cannot guarantee that both halves satisfy the
// minimum-occupancy invariant (I2).
const MinCap = 4

// HeaderSize is the size in bytes of the fixed node header: a 16-bit tag
// (leaf or branch) followed by a 16-bit length. Leaves additionally
// carry the two sibling links, accounted for separately in [Leaf].
const HeaderSize = 4

// PtrSize is the size of a child pointer slot in a branch node, and of
// each of a leaf's two sibling-link slots.
var PtrSize = layout.Size[uintptr]()

// Leaf describes the byte layout of a leaf node for a given cap, K and V.
type Leaf struct {
	// Size is the total allocation size for one leaf node.
	Size int

	// KeysOff is the byte offset of the keys array, length cap.
	KeysOff int

	// ValsOff is the byte offset of the values array, length cap.
	ValsOff int

	// NextOff and PrevOff are the byte offsets of the sibling-link fields.
	NextOff, PrevOff int

	// Cap is the node capacity this layout was computed for.
	Cap int
}

// Branch describes the byte layout of a branch node for a given cap and K.
type Branch struct {
	// Size is the total allocation size for one branch node.
	Size int

	// KeysOff is the byte offset of the separator-keys array, length cap.
	KeysOff int

	// ChildrenOff is the byte offset of the children-pointer array, length cap+1.
	ChildrenOff int

	// Cap is the node capacity this layout was computed for.
	Cap int
}

// CalcLeaf computes the leaf layout for the given capacity and key/value
// types. Panics (via debug.Assert) if cap < MinCap.
func CalcLeaf[K, V any](cap int) Leaf {
	debug.Assert(cap >= MinCap, "node capacity must be >= %d, got %d", MinCap, cap)

	kl, vl := layout.Of[K](), layout.Of[V]()
	ptr := layout.Of[uintptr]()

	off := HeaderSize
	off = layout.RoundUp(off, ptr.Align)
	nextOff := off
	off += ptr.Size
	prevOff := off
	off += ptr.Size

	off = layout.RoundUp(off, kl.Align)
	keysOff := off
	off += kl.Size * cap

	off = layout.RoundUp(off, vl.Align)
	valsOff := off
	off += vl.Size * cap

	align := maxAlign(HeaderSize, kl.Align, vl.Align, ptr.Align)
	size := layout.RoundUp(off, align)

	return Leaf{
		Size:    size,
		KeysOff: keysOff,
		ValsOff: valsOff,
		NextOff: nextOff,
		PrevOff: prevOff,
		Cap:     cap,
	}
}

// CalcBranch computes the branch layout for the given capacity and key
// type. Panics (via debug.Assert) if cap < MinCap.
func CalcBranch[K any](cap int) Branch {
	debug.Assert(cap >= MinCap, "node capacity must be >= %d, got %d", MinCap, cap)

	kl := layout.Of[K]()
	ptr := layout.Of[uintptr]()

	off := HeaderSize
	off = layout.RoundUp(off, ptr.Align)
	childrenOff := off
	off += ptr.Size * (cap + 1)

	off = layout.RoundUp(off, kl.Align)
	keysOff := off
	off += kl.Size * cap

	align := maxAlign(HeaderSize, kl.Align, ptr.Align)
	size := layout.RoundUp(off, align)

	return Branch{
		Size:        size,
		KeysOff:     keysOff,
		ChildrenOff: childrenOff,
		Cap:         cap,
	}
}

func maxAlign(aligns ...int) int {
	m := 1
	for _, a := range aligns {
		if a > m {
			m = a
		}
	}

	return m
}
