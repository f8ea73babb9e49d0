package geo

import (
	"fmt"

	"github.com/banshee-data/gpshistory/internal/gpshistory/codec"
)

// RangeError reports a bounding box constructed with top < bottom.
type RangeError struct {
	Field string
	Value float64
}

func (e *RangeError) Error() string {
	return fmt.Sprintf("geo: invalid %s: %v", e.Field, e.Value)
}

const (
	globalMaxLatDeg = 90.0
	globalMinLatDeg = -90.0
)

// GeodeticBox is a lat/long bounding box expressed in degrees (spec §4.H).
// If RightLongitude < LeftLongitude, the box wraps the antimeridian.
type GeodeticBox struct {
	BottomLatitude float64
	LeftLongitude  float64
	TopLatitude    float64
	RightLongitude float64
}

// NewGeodeticBox validates top >= bottom and returns the box.
func NewGeodeticBox(bottom, left, top, right float64) (GeodeticBox, error) {
	if top < bottom {
		return GeodeticBox{}, &RangeError{Field: "top/bottom latitude", Value: top}
	}
	return GeodeticBox{BottomLatitude: bottom, LeftLongitude: left, TopLatitude: top, RightLongitude: right}, nil
}

// Contains reports whether (lat, long) falls within the box, honoring
// antimeridian wrap and pole inclusivity.
func (b GeodeticBox) Contains(lat, long float64) bool {
	if b.TopLatitude == globalMaxLatDeg && lat == b.TopLatitude {
		return true
	}
	if b.BottomLatitude == globalMinLatDeg && lat == b.BottomLatitude {
		return true
	}
	if lat < b.BottomLatitude || lat > b.TopLatitude {
		return false
	}
	if b.RightLongitude < b.LeftLongitude {
		return long >= b.LeftLongitude || long <= b.RightLongitude
	}
	return long >= b.LeftLongitude && long <= b.RightLongitude
}

// FlatBox is the quantised-integer counterpart of GeodeticBox, expressed
// in the §3 E7 wire units — faster for bulk scans over columnar storage
// via ForEachLatLongE7, since it avoids a float decode per point.
type FlatBox struct {
	BottomLatitudeE7  uint32
	LeftLongitudeE7   uint32
	TopLatitudeE7     uint32
	RightLongitudeE7  uint32
}

// NewFlatBox validates top >= bottom and returns the box.
func NewFlatBox(bottomE7, leftE7, topE7, rightE7 uint32) (FlatBox, error) {
	if topE7 < bottomE7 {
		return FlatBox{}, &RangeError{Field: "top/bottom latitude (E7)", Value: float64(topE7)}
	}
	return FlatBox{BottomLatitudeE7: bottomE7, LeftLongitudeE7: leftE7, TopLatitudeE7: topE7, RightLongitudeE7: rightE7}, nil
}

// FlatBoxFromDegrees converts a GeodeticBox into its FlatBox equivalent
// using the same quantisation as the columnar point codecs.
func FlatBoxFromDegrees(b GeodeticBox) FlatBox {
	return FlatBox{
		BottomLatitudeE7: codec.EncodeLatitudeE7(b.BottomLatitude),
		LeftLongitudeE7:  codec.EncodeLongitudeE7(b.LeftLongitude),
		TopLatitudeE7:    codec.EncodeLatitudeE7(b.TopLatitude),
		RightLongitudeE7: codec.EncodeLongitudeE7(b.RightLongitude),
	}
}

// Contains reports whether (latE7, longE7) falls within the box, honoring
// antimeridian wrap and pole inclusivity using the same rules as
// GeodeticBox.Contains.
func (b FlatBox) Contains(latE7, longE7 uint32) bool {
	globalMaxE7 := codec.EncodeLatitudeE7(globalMaxLatDeg)
	globalMinE7 := codec.EncodeLatitudeE7(globalMinLatDeg)
	if b.TopLatitudeE7 == globalMaxE7 && latE7 == b.TopLatitudeE7 {
		return true
	}
	if b.BottomLatitudeE7 == globalMinE7 && latE7 == b.BottomLatitudeE7 {
		return true
	}
	if latE7 < b.BottomLatitudeE7 || latE7 > b.TopLatitudeE7 {
		return false
	}
	if b.RightLongitudeE7 < b.LeftLongitudeE7 {
		return longE7 >= b.LeftLongitudeE7 || longE7 <= b.RightLongitudeE7
	}
	return longE7 >= b.LeftLongitudeE7 && longE7 <= b.RightLongitudeE7
}
