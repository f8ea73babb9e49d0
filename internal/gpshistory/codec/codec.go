// Package codec implements the lossy, bounded-error quantisation between
// floating-point GPS measurements and the fixed-width integers stored in
// the columnar point records (spec §3, "Quantisations").
package codec

import (
	"math"

	"github.com/banshee-data/gpshistory/internal/units"
)

// Null sentinels for the optional fixed-width fields.
const (
	NullAltitude uint16 = 1<<15 - 1 // encoded as i16 bit pattern 32767
	NullAccuracy uint16 = 1<<16 - 1
	NullHeading  uint16 = 1<<16 - 1
)

const (
	latMin, latMax   = -90.0, 90.0
	longMin, longMax = -180.0, 180.0
	latE7Max         = 1_800_000_000
	longE7Max        = 3_600_000_000
)

// EncodeLatitudeE7 quantises a latitude in degrees to the wire u32:
// round((deg + 90) * 1e7), clamped to [0, 1.8e9].
func EncodeLatitudeE7(deg float64) uint32 {
	if deg < latMin {
		deg = latMin
	}
	if deg > latMax {
		deg = latMax
	}
	v := math.Round((deg + 90) * 1e7)
	return clampU32(v, 0, latE7Max)
}

// DecodeLatitudeE7 reverses EncodeLatitudeE7.
func DecodeLatitudeE7(raw uint32) float64 {
	return float64(raw)/1e7 - 90
}

// EncodeLongitudeE7 quantises a longitude in degrees to the wire u32:
// round((deg + 180) * 1e7), clamped to [0, 3.6e9].
func EncodeLongitudeE7(deg float64) uint32 {
	if deg < longMin {
		deg = longMin
	}
	if deg > longMax {
		deg = longMax
	}
	v := math.Round((deg + 180) * 1e7)
	return clampU32(v, 0, longE7Max)
}

// DecodeLongitudeE7 reverses EncodeLongitudeE7.
func DecodeLongitudeE7(raw uint32) float64 {
	return float64(raw)/1e7 - 180
}

// EncodeAltitude quantises metres to an i16 bit pattern: round(2*m),
// clamped to [-32766, 32766]; 32767 is the null sentinel. ok is false when
// the caller passed "no altitude".
func EncodeAltitude(m float64, ok bool) uint16 {
	if !ok {
		return NullAltitude
	}
	v := math.Round(2 * m)
	if v < -32766 {
		v = -32766
	}
	if v > 32766 {
		v = 32766
	}
	return uint16(int16(v))
}

// DecodeAltitude reverses EncodeAltitude. ok is false for the null
// sentinel.
func DecodeAltitude(raw uint16) (float64, bool) {
	if raw == NullAltitude {
		return 0, false
	}
	return float64(int16(raw)) / 2, true
}

// EncodeTenthUnit quantises a non-negative value (accuracy, speed,
// speedAccuracy, all expressed in the same "tenths of a unit" wire shape)
// to a u16: round(10*v), clamped to [0, 65534]; 65535 is null.
func EncodeTenthUnit(v float64, ok bool) uint16 {
	if !ok {
		return NullAccuracy
	}
	if v < 0 {
		v = 0
	}
	raw := math.Round(10 * v)
	if raw > 65534 {
		raw = 65534
	}
	return uint16(raw)
}

// DecodeTenthUnit reverses EncodeTenthUnit.
func DecodeTenthUnit(raw uint16) (float64, bool) {
	if raw == NullAccuracy {
		return 0, false
	}
	return float64(raw) / 10, true
}

// EncodeHeading normalises a heading to [0, 360) by reduction modulo 360,
// then quantises to a u16: round(10*v); 65535 is null.
func EncodeHeading(deg float64, ok bool) uint16 {
	if !ok {
		return NullHeading
	}
	h := units.NormalizeHeadingDegrees(deg)
	raw := math.Round(10 * h)
	if raw >= 3600 {
		raw = 0 // wrapped exactly to 360 == 0
	}
	return uint16(raw)
}

// DecodeHeading reverses EncodeHeading.
func DecodeHeading(raw uint16) (float64, bool) {
	if raw == NullHeading {
		return 0, false
	}
	return float64(raw) / 10, true
}

func clampU32(v float64, lo, hi uint32) uint32 {
	if v < float64(lo) {
		return lo
	}
	if v > float64(hi) {
		return hi
	}
	return uint32(v)
}
