// Copyright 2024 Gustavo C. Viegas. All rights reserved.

package rhi

import (
	"math"

	"github.com/gviegas/rhi/internal/bitm"
)

// idAllocator hands out compact 16-bit ids from a monotonic per-kind
// allocator, recycling freed ids (spec.md §3 "Compact 16-bit id").
// It is grounded on the teacher's internal/bitm bitmap, which the
// teacher itself uses to manage staging-buffer block allocation; the
// same growable-bitmap-plus-remaining-count shape fits an id pool
// just as well.
type idAllocator struct {
	bits bitm.Bitm[uint64]
}

// New allocates and returns the next free id.
func (a *idAllocator) New() (uint16, error) {
	if a.bits.Rem() == 0 {
		a.bits.Grow(1)
	}
	idx, ok := a.bits.Search()
	if !ok {
		return 0, ErrNoDevice
	}
	if idx > math.MaxUint16 {
		return 0, ErrNoDevice
	}
	a.bits.Set(idx)
	return uint16(idx), nil
}

// Free releases id back to the pool for reuse.
func (a *idAllocator) Free(id uint16) {
	a.bits.Unset(int(id))
}
