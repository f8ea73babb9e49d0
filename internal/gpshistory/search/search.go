// Package search implements the generic search framework from spec §4.G:
// given a Collection, a comparator, and whether the collection is known
// sorted, pick binary search over a sorted fast/slow collection or linear
// search otherwise.
package search

import (
	"github.com/banshee-data/gpshistory/internal/gpshistory/collection"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
)

// Comparator compares an item against a target, returning Before, Same,
// After, or Overlapping. For span items (Stay), Same means the target
// instant falls within [time, endTime) or time == endTime.
type Comparator func(item points.Point) gpstime.Comparison

// Absent is returned (as the bool) when no element matches.
const Absent = false

// Find locates any item for which cmp reports Same. It dispatches on
// (sortedByTime, collection kind) per the table in spec §4.G:
// binary-in-fast, linear-in-fast, binary-in-slow, linear-in-slow are all
// the same algorithm here (Collection.Get is uniform); only whether
// binary search is safe to use differs.
//
// Binary search returns any matching index; linear search returns the
// first. If the collection is unsorted, binary search may fail to find an
// existing element — callers that need a guaranteed find on unsorted data
// should not rely on SortedByTime.
func Find(c collection.Collection, cmp Comparator) (int, bool) {
	if c.SortedByTime() {
		return binarySearch(c, cmp)
	}
	return linearSearch(c, cmp)
}

func linearSearch(c collection.Collection, cmp Comparator) (int, bool) {
	for i := 0; i < c.Len(); i++ {
		item, err := c.Get(i)
		if err != nil {
			return 0, Absent
		}
		if cmp(item) == gpstime.Same {
			return i, true
		}
	}
	return 0, Absent
}

// binarySearch assumes the collection is ordered so that cmp's results
// monotonically progress Before -> Same -> After as i increases; ties
// among Same are broken arbitrarily.
func binarySearch(c collection.Collection, cmp Comparator) (int, bool) {
	lo, hi := 0, c.Len()-1
	for lo <= hi {
		mid := lo + (hi-lo)/2
		item, err := c.Get(mid)
		if err != nil {
			return 0, Absent
		}
		switch cmp(item) {
		case gpstime.Same, gpstime.Overlapping:
			return mid, true
		case gpstime.Before:
			lo = mid + 1
		case gpstime.After:
			hi = mid - 1
		default:
			return 0, Absent
		}
	}
	return 0, Absent
}

// TimeTarget builds a Comparator that compares each stored item's time (or
// span) against a fixed GpsTime instant, via points.CompareTime. An
// instant that overlaps a span item is reported as Same.
func TimeTarget(target gpstime.GpsTime) Comparator {
	targetPoint := points.NewPoint(target, 0, 0)
	return func(item points.Point) gpstime.Comparison {
		c := points.CompareTime(item, targetPoint)
		if c == gpstime.Overlapping {
			return gpstime.Same
		}
		return c
	}
}
