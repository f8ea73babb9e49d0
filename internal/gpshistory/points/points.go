// Package points defines the four GPS point variants (spec §3) as a single
// tagged-variant type with shared accessors, per the design note preferring
// a tagged variant over one struct per record layout at the API level —
// the per-variant record layouts remain in the collection/codec packages,
// which are the only place the distinction actually matters for storage.
package points

import (
	"fmt"

	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/units"
)

// Kind identifies which of the four point variants a Point value carries.
type Kind int

const (
	KindPoint Kind = iota
	KindPointWithAccuracy
	KindStay
	KindMeasurement
)

func (k Kind) String() string {
	switch k {
	case KindPoint:
		return "Point"
	case KindPointWithAccuracy:
		return "PointWithAccuracy"
	case KindStay:
		return "Stay"
	case KindMeasurement:
		return "Measurement"
	default:
		return "Unknown"
	}
}

// Point is the tagged-variant value shared by all four record shapes.
// Fields not meaningful for a given Kind are left at their zero value;
// optional fields use the Has* flags rather than pointers to stay
// allocation-free on the hot path.
type Point struct {
	Kind Kind

	Time      gpstime.GpsTime
	Latitude  float64
	Longitude float64

	HasAltitude bool
	Altitude    float64

	HasAccuracy bool
	Accuracy    float64

	// EndTime is meaningful only for KindStay, with invariant EndTime >= Time.
	EndTime gpstime.GpsTime

	// Measurement-only fields.
	HasHeading bool
	Heading    float64
	HasSpeed   bool
	Speed      float64

	HasSpeedAccuracy bool
	SpeedAccuracy    float64
}

// NewPoint constructs a plain Point (time, lat, long, optional altitude).
func NewPoint(t gpstime.GpsTime, lat, long float64) Point {
	return Point{Kind: KindPoint, Time: t, Latitude: lat, Longitude: long}
}

// WithAltitude returns a copy of p with altitude set.
func (p Point) WithAltitude(alt float64) Point {
	p.HasAltitude = true
	p.Altitude = alt
	return p
}

// NewPointWithAccuracy constructs a PointWithAccuracy.
func NewPointWithAccuracy(t gpstime.GpsTime, lat, long, accuracy float64) Point {
	return Point{Kind: KindPointWithAccuracy, Time: t, Latitude: lat, Longitude: long, HasAccuracy: true, Accuracy: accuracy}
}

// NewStay constructs a Stay spanning [time, endTime). Panics if
// endTime < time — construction-time invariants are a programmer error,
// not a runtime data condition (spec §7, RangeError class).
func NewStay(t, endTime gpstime.GpsTime, lat, long float64) Point {
	if endTime < t {
		panic(fmt.Sprintf("points: Stay endTime %d precedes time %d", endTime, t))
	}
	return Point{Kind: KindStay, Time: t, EndTime: endTime, Latitude: lat, Longitude: long}
}

// FromPoint builds a Stay from any point-like value, carrying over
// accuracy and altitude if present. A non-Stay input gives a degenerate
// (instant) Stay; a Stay input keeps its own EndTime. Used by the
// points-to-stays converter to seed a new pending stay.
func FromPoint(p Point) Point {
	s := p
	s.Kind = KindStay
	if p.Kind == KindStay {
		s.EndTime = p.EndTime
	} else {
		s.EndTime = p.Time
	}
	return s
}

// NewMeasurement constructs a Measurement.
func NewMeasurement(t gpstime.GpsTime, lat, long float64) Point {
	return Point{Kind: KindMeasurement, Time: t, Latitude: lat, Longitude: long}
}

// IsSpan reports whether this variant carries a [Time, EndTime) span
// rather than a single instant (only Stay does).
func (p Point) IsSpan() bool { return p.Kind == KindStay }

// SpeedIn reports a Measurement's speed (stored internally in m/s)
// converted to the requested unit ("mps", "mph", "kmph", "kph"). Returns
// (0, false) when the point carries no speed at all.
func (p Point) SpeedIn(targetUnits string) (float64, bool) {
	if !p.HasSpeed {
		return 0, false
	}
	return units.ConvertSpeed(p.Speed, targetUnits), true
}

// Duration returns EndTime - Time for a span; zero for non-span variants.
func (p Point) Duration() gpstime.GpsTime {
	if !p.IsSpan() {
		return 0
	}
	return p.EndTime - p.Time
}

// CompareTime orders two points by the plain (non-span) time comparator,
// or the span comparator from gpstime.CompareSpan when either side is a
// Stay.
func CompareTime(a, b Point) gpstime.Comparison {
	if a.IsSpan() || b.IsSpan() {
		aEnd := a.EndTime
		if !a.IsSpan() {
			aEnd = a.Time
		}
		bEnd := b.EndTime
		if !b.IsSpan() {
			bEnd = b.Time
		}
		return gpstime.CompareSpan(a.Time, aEnd, b.Time, bEnd)
	}
	return a.Time.Compare(b.Time)
}

// BetterAccuracy reports whether a has strictly better (smaller) accuracy
// than b, treating "no accuracy" as the worst possible value. Used by the
// points-to-stays converter's position-update rule.
func BetterAccuracy(a, b Point) bool {
	if !a.HasAccuracy {
		return false
	}
	if !b.HasAccuracy {
		return true
	}
	return a.Accuracy < b.Accuracy
}
