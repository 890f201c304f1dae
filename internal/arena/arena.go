//go:build go1.22

// Package arena provides a two-size-class arena allocator for B+ tree
// nodes.
//
// Memory is carved out of large preallocated blocks and bump-allocated;
// a NodePool only ever serves two fixed sizes (one for leaves, one for
// branches) and keeps a free list per size so that repeated
// inserts/deletes reuse freed blocks instead of growing the arena without
// bound.
//
// Node blocks are plain []byte storage, which the garbage collector
// treats as pointer-free: it will never trace a K or V written into a
// block by internal/bnode. KeepAlive closes that hole by retaining a
// normal, GC-visible reference to every key/value stored this way, so
// the object a key or value points into (a string's backing array, a
// slice's, ...) stays reachable for as long as the pool does, independent
// of whether the GC can see the copy living in raw node memory.
package arena

import (
	"unsafe"

	"github.com/flier/bptree/internal/debug"
	"github.com/flier/bptree/pkg/xunsafe"
)

// Align is the alignment of every block handed out by a NodePool.
const Align = int(unsafe.Sizeof(uintptr(0)))

// NodePool hands out and recycles fixed-size blocks of raw memory for one
// B+ tree's leaves and branches.
//
// A zero NodePool is empty and ready to use. A NodePool must not be copied
// after first use.
type NodePool struct {
	_ xunsafe.NoCopy

	next, end xunsafe.Addr[byte]
	cap       int

	// blocks holds every chunk ever grabbed from the Go allocator, so that
	// they remain reachable (and therefore un-collected) for as long as the
	// pool itself is reachable.
	blocks [][]byte

	// freeLeaf and freeBranch thread freed blocks of the pool's two
	// configured sizes into singly-linked free lists, using the first
	// machine word of each freed block as the "next" pointer.
	freeLeaf, freeBranch xunsafe.Addr[byte]

	leafSize, branchSize int

	// keep anchors a GC-visible reference for every key/value ever stored
	// in a node block, so objects they point to aren't collected out from
	// under the otherwise pointer-free node memory. See KeepAlive.
	keep []unsafe.Pointer
}

// Init configures the two block sizes this pool will ever allocate. It
// must be called once, before any Alloc call, and the sizes must match
// the layouts the caller computed via internal/blayout.
func (p *NodePool) Init(leafSize, branchSize int) {
	debug.Assert(leafSize >= Align, "leaf size must be >= %d", Align)
	debug.Assert(branchSize >= Align, "branch size must be >= %d", Align)

	p.leafSize = alignUp(leafSize)
	p.branchSize = alignUp(branchSize)
}

// AllocLeaf returns a zeroed block sized for one leaf node.
func (p *NodePool) AllocLeaf() unsafe.Pointer {
	return unsafe.Pointer(p.alloc(p.leafSize, &p.freeLeaf))
}

// AllocBranch returns a zeroed block sized for one branch node.
func (p *NodePool) AllocBranch() unsafe.Pointer {
	return unsafe.Pointer(p.alloc(p.branchSize, &p.freeBranch))
}

// FreeLeaf returns a leaf block to the pool for reuse.
func (p *NodePool) FreeLeaf(b unsafe.Pointer) {
	p.release(b, p.leafSize, &p.freeLeaf)
}

// FreeBranch returns a branch block to the pool for reuse.
func (p *NodePool) FreeBranch(b unsafe.Pointer) {
	p.release(b, p.branchSize, &p.freeBranch)
}

// KeepAlive registers v as reachable for as long as the pool is, so that
// storing a copy of it inside a node block (which the garbage collector
// cannot trace) doesn't leave that copy's pointee free to be collected.
//
// Callers must invoke this once for every key and value handed to
// AllocLeaf/AllocBranch's eventual Store, before any other reference to v
// goes away.
func (p *NodePool) KeepAlive(v any) {
	p.keep = append(p.keep, xunsafe.AnyData(v))
}

func (p *NodePool) alloc(size int, free *xunsafe.Addr[byte]) *byte {
	if addr := *free; addr != 0 {
		next := *xunsafe.Cast[uintptr](addr.AssertValid())
		*free = xunsafe.Addr[byte](next)

		ptr := addr.AssertValid()
		xunsafe.Clear(ptr, size)

		return ptr
	}

	if p.next.Add(size) > p.end {
		p.grow(size)
	}

	ptr := p.next.AssertValid()
	p.next = p.next.Add(size)

	return ptr
}

func (p *NodePool) release(b unsafe.Pointer, size int, free *xunsafe.Addr[byte]) {
	debug.Assert(b != nil, "releasing a nil node block")

	ptr := (*byte)(b)
	*xunsafe.Cast[uintptr](ptr) = uintptr(*free)
	*free = xunsafe.AddrOf(ptr)
}

func (p *NodePool) grow(atLeast int) {
	size := max(atLeast, p.cap*2, 4096)
	block := make([]byte, size)
	p.blocks = append(p.blocks, block)

	p.next = xunsafe.AddrOf(&block[0])
	p.end = p.next.Add(len(block))
	p.cap = size

	debug.Log(nil, "grow", "pool %p: +%d bytes (%d blocks total)", p, size, len(p.blocks))
}

// Reset releases every block back to the Go garbage collector.
//
// No pointer previously returned by AllocLeaf/AllocBranch may be used
// after Reset.
func (p *NodePool) Reset() {
	p.blocks = nil
	p.next, p.end, p.cap = 0, 0, 0
	p.freeLeaf, p.freeBranch = 0, 0
	p.keep = nil
}

func alignUp(n int) int {
	return (n + Align - 1) &^ (Align - 1)
}
