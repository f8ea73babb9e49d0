// Package collection implements the two point-history storage
// representations from spec §4.D: a columnar, fixed-width-record Column
// (the "fast" representation, one allocation per growth step) and a
// slice-backed List (the "slow" representation, used as ground truth in
// tests and for variants the caller doesn't need to query at scale).
//
// Both satisfy Collection so callers — and the search package — can treat
// them uniformly.
package collection

import (
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
)

// growthFactor is applied to capacity when a collection must grow to fit
// an append; chosen to keep amortised append cost constant without the
// doubling growth's worst-case waste.
const growthFactor = 1.5

// Collection is the shared read/write surface of Column and List.
type Collection interface {
	// Len returns the number of stored items.
	Len() int

	// Capacity returns the number of items storable without growing.
	Capacity() int

	// SetCapacity grows or shrinks backing storage. Returns
	// *CapacityBelowLengthError if n < Len().
	SetCapacity(n int) error

	// Get returns the item at index i. Returns *IndexOutOfRangeError if i
	// is outside [0, Len()).
	Get(i int) (points.Point, error)

	// Append adds p according to policy, honoring the collection's
	// sort-order enforcement policy. Returns *SortOrderViolationError
	// under ThrowIfWrongItems when p would break ordering.
	Append(p points.Point) error

	// Extend appends every item in items, in order, applying the same
	// policy as Append to each. Returns the number actually appended
	// (may be less than len(items) under SkipWrongItems) and the first
	// error encountered under ThrowIfWrongItems, if any.
	Extend(items []points.Point) (int, error)

	// Sublist returns a new Collection of the same concrete kind holding
	// a copy of items [a, b).
	Sublist(a, b int) (Collection, error)

	// SortedByTime reports whether every consecutive pair of stored items
	// satisfies the ordering required by the collection's Kind (strict
	// "before" for instants, "before or same" for spans).
	SortedByTime() bool

	// ForEachLatLongE7 calls fn with the quantised lat/long integers for
	// every stored item, in order, without materialising a full Point —
	// the hot path the grid package uses to rebuild its spatial index.
	ForEachLatLongE7(fn func(latE7, longE7 uint32))
}

// checkOrder reports whether appending next after last is consistent with
// Kind's ordering rule (spec §4.D). When hasLast is false (first item in
// the collection) any next is consistent.
func checkOrder(kind points.Kind, hasLast bool, last, next points.Point) bool {
	if !hasLast {
		return true
	}
	cmp := points.CompareTime(last, next)
	if kind == points.KindStay {
		return cmp == gpstime.Before || cmp == gpstime.Same
	}
	return cmp == gpstime.Before
}

func growTo(capacity, need int) int {
	if capacity >= need {
		return capacity
	}
	grown := capacity
	if grown == 0 {
		grown = 1
	}
	for grown < need {
		next := int(float64(grown) * growthFactor)
		if next <= grown {
			next = need
		}
		grown = next
	}
	return grown
}
