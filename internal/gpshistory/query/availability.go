package query

import (
	"math"

	"github.com/banshee-data/gpshistory/internal/gpshistory/codec"
	"github.com/banshee-data/gpshistory/internal/gpshistory/collection"
	"github.com/banshee-data/gpshistory/internal/gpshistory/geo"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
)

// IntervalAvailability classifies one interval of a QueryDataAvailability
// result.
type IntervalAvailability int

const (
	NotAvailable IntervalAvailability = iota
	AvailableWithinBoundingBox
	AvailableOutsideBoundingBox
)

func (a IntervalAvailability) String() string {
	switch a {
	case NotAvailable:
		return "NotAvailable"
	case AvailableWithinBoundingBox:
		return "AvailableWithinBoundingBox"
	case AvailableOutsideBoundingBox:
		return "AvailableOutsideBoundingBox"
	default:
		return "Unknown"
	}
}

// AvailabilityResult is the result of QueryDataAvailability. Intervals is
// empty (not nil-checked by callers) when the input parameters were
// invalid; StartTime/EndTime/NrIntervals/BoundingBox are always echoed.
type AvailabilityResult struct {
	StartTime    gpstime.GpsTime
	EndTime      gpstime.GpsTime
	NrIntervals  int
	BoundingBox  *geo.FlatBox
	Intervals    []IntervalAvailability
}

// QueryDataAvailability divides [startTime, endTime] into nrIntervals
// equal intervals and classifies each one. When boundingBox is nil,
// AvailableOutsideBoundingBox is never produced. Invalid parameters
// (reversed times, non-positive nrIntervals) yield an empty Intervals
// slice while still echoing the parameters.
func QueryDataAvailability(c collection.Collection, startTime, endTime gpstime.GpsTime, nrIntervals int, boundingBox *geo.FlatBox) AvailabilityResult {
	result := AvailabilityResult{StartTime: startTime, EndTime: endTime, NrIntervals: nrIntervals, BoundingBox: boundingBox}
	if endTime < startTime || nrIntervals <= 0 {
		return result
	}

	low := make([]gpstime.GpsTime, nrIntervals)
	high := make([]gpstime.GpsTime, nrIntervals)
	total := float64(endTime - startTime)
	for i := 0; i < nrIntervals; i++ {
		low[i] = startTime + gpstime.GpsTime(int64(math.Round(total*float64(i)/float64(nrIntervals))))
		high[i] = startTime + gpstime.GpsTime(int64(math.Round(total*float64(i+1)/float64(nrIntervals))))
	}

	states := make([]IntervalAvailability, nrIntervals)

	n := c.Len()
	for idx := 0; idx < n; idx++ {
		item, err := c.Get(idx)
		if err != nil {
			continue
		}
		itemStart := item.Time
		itemEnd := effectiveEnd(item)

		inBox := boundingBox == nil
		if boundingBox != nil {
			inBox = boundingBox.Contains(codec.EncodeLatitudeE7(item.Latitude), codec.EncodeLongitudeE7(item.Longitude))
		}

		for i := 0; i < nrIntervals; i++ {
			if !overlapsInterval(itemStart, itemEnd, low[i], high[i], i == nrIntervals-1) {
				continue
			}
			if boundingBox == nil || inBox {
				states[i] = AvailableWithinBoundingBox
			} else if states[i] != AvailableWithinBoundingBox {
				states[i] = AvailableOutsideBoundingBox
			}
		}
	}

	result.Intervals = states
	return result
}

// overlapsInterval reports whether the item span [itemStart, itemEnd]
// intersects the interval [low, high). Intervals are contiguous
// (high[i] == low[i+1]), so the upper bound is exclusive except on the
// last interval, where it closes to match the overall [startTime,
// endTime] range being inclusive of endTime — otherwise a boundary-
// aligned item would count as available in two adjacent intervals.
func overlapsInterval(itemStart, itemEnd, low, high gpstime.GpsTime, lastInterval bool) bool {
	if lastInterval {
		return itemStart <= high && itemEnd >= low
	}
	return itemStart < high && itemEnd >= low
}
