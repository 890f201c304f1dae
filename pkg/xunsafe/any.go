//go:build go1.23

package xunsafe

import (
	"reflect"
	"testing"
	"unsafe"
)

// eface mirrors the runtime representation of a non-empty any value: a
// pointer to its dynamic type descriptor, and a data word that is either
// the value itself (for "direct" types, i.e. types no larger than a
// pointer and themselves pointer-shaped) or a pointer to a heap copy of it.
type eface struct {
	typ  unsafe.Pointer
	data unsafe.Pointer
}

// AnyData returns the data word of an any value.
//
// For indirect types (the common case) this is a pointer to the boxed
// value; for direct types (pointers, maps, chans, funcs, unsafe.Pointer)
// it is the value itself, reinterpreted as a pointer.
func AnyData(v any) unsafe.Pointer {
	return (*eface)(unsafe.Pointer(&v)).data
}

// AnyType returns the address of v's runtime type descriptor, as a uintptr.
//
// The returned value is not a usable pointer; it is only useful for
// comparing whether two any values share a dynamic type.
func AnyType(v any) uintptr {
	return uintptr((*eface)(unsafe.Pointer(&v)).typ)
}

// AnyBytes returns the bytes making up v's dynamic value.
//
// Returns nil if v is nil.
func AnyBytes(v any) []byte {
	if v == nil {
		return nil
	}

	t := reflect.TypeOf(v)
	size := int(t.Size())

	if IsDirectAny(v) {
		return Bytes(&v)[unsafe.Sizeof(uintptr(0)):][:size]
	}

	return unsafe.Slice((*byte)(AnyData(v)), size)
}

// MakeAny reassembles an any value from a type descriptor address and a
// data word, both previously obtained from AnyType and AnyData.
func MakeAny(typ uintptr, data unsafe.Pointer) any {
	var v any

	h := (*eface)(unsafe.Pointer(&v))
	h.typ = unsafe.Pointer(typ)
	h.data = data

	return v
}

// IsDirectAny returns whether v's dynamic type is stored directly in the
// any's data word, rather than boxed behind a pointer.
func IsDirectAny(v any) bool {
	if v == nil {
		return false
	}

	return isDirectKind(reflect.TypeOf(v))
}

// IsDirect returns whether T is stored directly in an any's data word.
func IsDirect[T any]() bool {
	return isDirectKind(reflect.TypeFor[T]())
}

func isDirectKind(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Chan, reflect.Func,
		reflect.UnsafePointer, reflect.Interface:
		return true
	case reflect.Array:
		return t.Len() == 1 && isDirectKind(t.Elem())
	case reflect.Struct:
		if t.NumField() == 1 {
			return isDirectKind(t.Field(0).Type)
		}

		return false
	default:
		return false
	}
}

// AssertInlinedAny fails t if T is not stored directly in an any's data
// word, i.e. if boxing a T would require a heap allocation.
func AssertInlinedAny[T any](t testing.TB) {
	t.Helper()

	if !IsDirect[T]() {
		t.Fatalf("%T is not inlined into an any value", *new(T))
	}
}
