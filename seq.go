//go:build go1.23

package bptree

import (
	"iter"
)

// All returns a push-style iterator over every entry in ascending key
// order, suitable for a range-over-func loop: for k, v := range t.All() {...}.
//
// It is a thin adapter over the pull-style Cursor the rest of the public
// API uses (Iter/IterRev/Range), so a caller can pick whichever iteration
// style fits the call site.
func (t *Tree[K, V]) All() iter.Seq2[K, V] {
	return func(yield func(K, V) bool) {
		cur := t.Iter()
		for {
			k, v, ok := cur.Next()
			if !ok {
				return
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Keys returns a push-style iterator over every key in ascending order.
func (t *Tree[K, V]) Keys() iter.Seq[K] {
	all := t.All()
	return func(yield func(K) bool) {
		for k := range all {
			if !yield(k) {
				return
			}
		}
	}
}

// Values returns a push-style iterator over every value, in the key
// order of All.
func (t *Tree[K, V]) Values() iter.Seq[V] {
	all := t.All()
	return func(yield func(V) bool) {
		for _, v := range all {
			if !yield(v) {
				return
			}
		}
	}
}

// Filter returns a push-style iterator over the subset of entries for
// which keep returns true, in ascending key order.
func (t *Tree[K, V]) Filter(keep func(K, V) bool) iter.Seq2[K, V] {
	all := t.All()
	return func(yield func(K, V) bool) {
		for k, v := range all {
			if !keep(k, v) {
				continue
			}
			if !yield(k, v) {
				return
			}
		}
	}
}

// Page returns a push-style iterator over at most n entries starting
// after the first skip entries, in ascending key order.
func (t *Tree[K, V]) Page(skip, n int) iter.Seq2[K, V] {
	all := t.All()
	return func(yield func(K, V) bool) {
		if n <= 0 {
			return
		}

		i, taken := 0, 0
		for k, v := range all {
			if i++; i <= skip {
				continue
			}
			if !yield(k, v) {
				return
			}
			if taken++; taken >= n {
				return
			}
		}
	}
}
