package bptree

import "github.com/flier/bptree/internal/btree"

// Bound describes one side (lower or upper) of a Range query: inclusive,
// exclusive, or unbounded.
type Bound[K any] struct {
	value     K
	inclusive bool
	unbounded bool
}

// Unbounded returns a Bound that imposes no limit on that side of a Range.
func Unbounded[K any]() Bound[K] {
	return Bound[K]{unbounded: true}
}

// Incl returns a Bound that includes k itself.
func Incl[K any](k K) Bound[K] {
	return Bound[K]{value: k, inclusive: true}
}

// Excl returns a Bound that excludes k itself.
func Excl[K any](k K) Bound[K] {
	return Bound[K]{value: k}
}

func (b Bound[K]) internal() btree.Bound[K] {
	return btree.Bound[K]{Value: b.value, Inclusive: b.inclusive, Unbounded: b.unbounded}
}
