package query

import (
	"github.com/banshee-data/gpshistory/internal/gpshistory/collection"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
	"github.com/banshee-data/gpshistory/internal/gpshistory/search"
)

// LocationResult is the result of QueryLocationByTime.
type LocationResult struct {
	Time             gpstime.GpsTime
	Location         points.Point
	Found            bool
	ToleranceSeconds int64
}

// QueryLocationByTime finds an item whose time (or span) is within
// toleranceSeconds of target, using the search framework.
func QueryLocationByTime(c collection.Collection, target gpstime.GpsTime, toleranceSeconds int64) LocationResult {
	idx, found := search.Find(c, toleranceComparator(target, toleranceSeconds))
	result := LocationResult{Time: target, ToleranceSeconds: toleranceSeconds}
	if !found {
		return result
	}
	item, err := c.Get(idx)
	if err != nil {
		return result
	}
	result.Location = item
	result.Found = true
	return result
}

// toleranceComparator builds a Comparator whose window is the item's
// closed interval [time, endTime] (or the single instant for non-spans)
// widened by toleranceSeconds on both sides.
func toleranceComparator(target gpstime.GpsTime, toleranceSeconds int64) search.Comparator {
	slack := gpstime.GpsTime(toleranceSeconds)
	return func(item points.Point) gpstime.Comparison {
		low := item.Time - slack
		high := effectiveEnd(item) + slack
		switch {
		case target < low:
			return gpstime.After
		case target > high:
			return gpstime.Before
		default:
			return gpstime.Same
		}
	}
}
