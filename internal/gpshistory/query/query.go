// Package query implements the availability and lookup operations from
// spec §4.J over a collection.Collection.
package query

import (
	"github.com/banshee-data/gpshistory/internal/gpshistory/collection"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
	"github.com/banshee-data/gpshistory/internal/monitoring"
)

// CollectionInfo is the result of QueryCollectionInfo.
type CollectionInfo struct {
	FirstItemStartTime gpstime.GpsTime
	LastItemEndTime     gpstime.GpsTime
	Length              int
}

func effectiveEnd(p points.Point) gpstime.GpsTime {
	if p.IsSpan() {
		return p.EndTime
	}
	return p.Time
}

// QueryCollectionInfo returns the first item's start time, the last
// item's end time (accounting for span items), and the length. O(1) when
// c.SortedByTime(); O(n) otherwise, since an unsorted collection's
// earliest/latest items aren't necessarily at index 0/len-1.
func QueryCollectionInfo(c collection.Collection) CollectionInfo {
	n := c.Len()
	if n == 0 {
		return CollectionInfo{}
	}

	first, _ := c.Get(0)
	if c.SortedByTime() {
		last, _ := c.Get(n - 1)
		return CollectionInfo{FirstItemStartTime: first.Time, LastItemEndTime: effectiveEnd(last), Length: n}
	}

	minStart := first.Time
	maxEnd := effectiveEnd(first)
	for i := 1; i < n; i++ {
		item, _ := c.Get(i)
		if item.Time < minStart {
			minStart = item.Time
		}
		if end := effectiveEnd(item); end > maxEnd {
			maxEnd = end
		}
	}
	return CollectionInfo{FirstItemStartTime: minStart, LastItemEndTime: maxEnd, Length: n}
}

// ItemsResult is the result of QueryCollectionItems.
type ItemsResult struct {
	Items      collection.Collection
	StartIndex int
}

// QueryCollectionItems returns the sublist [startIndex, startIndex+nrItems)
// as a new collection plus the (clamped) start index. Out-of-range
// arguments are clamped to an empty result rather than erroring.
func QueryCollectionItems(c collection.Collection, startIndex, nrItems int) (ItemsResult, error) {
	n := c.Len()
	a := clampInt(startIndex, 0, n)
	b := clampInt(a+nrItems, a, n)
	if a != startIndex || b != startIndex+nrItems {
		monitoring.Logf("query: clamped items request [%d,%d) to [%d,%d) against a %d-item collection", startIndex, startIndex+nrItems, a, b, n)
	}

	sub, err := c.Sublist(a, b)
	if err != nil {
		return ItemsResult{}, err
	}
	return ItemsResult{Items: sub, StartIndex: a}, nil
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
