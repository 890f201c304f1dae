package bptree

import (
	"fmt"

	"github.com/flier/bptree/internal/blayout"
	"github.com/flier/bptree/pkg/xerrors"
)

// CapacityError reports that a caller requested a node capacity too small
// for the tree to guarantee the minimum-occupancy invariant after a split.
type CapacityError struct {
	Requested int
	Min       int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("bptree: capacity %d is below the minimum of %d", e.Requested, e.Min)
}

// ErrInvalidCapacity is returned (wrapped in a *CapacityError) by New and
// NewFunc when cap is below blayout.MinCap. It exists so callers can match
// on it with errors.Is without depending on *CapacityError directly.
var ErrInvalidCapacity = fmt.Errorf("bptree: capacity must be >= %d", blayout.MinCap)

func (e *CapacityError) Unwrap() error { return ErrInvalidCapacity }

// AsCapacityError reports whether err is (or wraps) a *CapacityError,
// returning it if so. A thin, generically-typed errors.As, so callers
// don't need to declare a *CapacityError variable to call errors.As
// themselves.
func AsCapacityError(err error) (*CapacityError, bool) {
	return xerrors.AsA[*CapacityError](err)
}
