//go:build go1.20

package xunsafe

import (
	"fmt"
	"math/bits"
	"unsafe"

	"github.com/flier/bptree/pkg/xunsafe/layout"
)

// Addr is an untyped address into memory, scaled by the size of T for
// arithmetic purposes.
//
// Unlike a *T, an Addr[T] may be the zero value without being a "nil
// pointer"; it is also safe to store arbitrary bit patterns in it, which is
// useful for tagged pointers and sentinel values.
type Addr[T any] uintptr

// AddrOf returns the address of p.
func AddrOf[T any](p *T) Addr[T] {
	return Addr[T](uintptr(unsafe.Pointer(p)))
}

// EndOf returns the address one past the last element of s.
func EndOf[T any](s []T) Addr[T] {
	return AddrOf(unsafe.SliceData(s)).Add(len(s))
}

// AssertValid converts this address back into a pointer.
//
// Returns nil if the address is zero.
func (a Addr[T]) AssertValid() *T {
	if a == 0 {
		return nil
	}

	return (*T)(unsafe.Pointer(uintptr(a)))
}

// Add adds n elements of T to this address.
func (a Addr[T]) Add(n int) Addr[T] {
	return a.ByteAdd(n * layout.Size[T]())
}

// ByteAdd adds n bytes to this address, without scaling by the size of T.
func (a Addr[T]) ByteAdd(n int) Addr[T] {
	return Addr[T](uintptr(a) + uintptr(n))
}

// Sub returns the number of elements of T between a and b.
func (a Addr[T]) Sub(b Addr[T]) int {
	return int(uintptr(a)-uintptr(b)) / layout.Size[T]()
}

// Padding returns the number of bytes needed to round this address up to
// align.
func (a Addr[T]) Padding(align int) int {
	return layout.Padding(int(a), align)
}

// RoundUpTo rounds this address up to the nearest multiple of align.
func (a Addr[T]) RoundUpTo(align int) Addr[T] {
	return Addr[T](layout.RoundUp(uintptr(a), uintptr(align)))
}

// SignBit returns whether the topmost bit of this address is set.
func (a Addr[T]) SignBit() bool {
	return a&(1<<(bits.UintSize-1)) != 0
}

// SignBitMask returns an address that is all-ones if SignBit is set, and
// all-zeros otherwise.
func (a Addr[T]) SignBitMask() Addr[T] {
	if a.SignBit() {
		return ^Addr[T](0)
	}

	return 0
}

// ClearSignBit returns this address with its topmost bit cleared.
func (a Addr[T]) ClearSignBit() Addr[T] {
	return a &^ (1 << (bits.UintSize - 1))
}

// String implements fmt.Stringer, rendering the address as hexadecimal.
func (a Addr[T]) String() string {
	return fmt.Sprintf("%#x", uintptr(a))
}
