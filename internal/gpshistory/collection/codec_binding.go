package collection

import (
	"encoding/binary"

	"github.com/banshee-data/gpshistory/internal/gpshistory/codec"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
)

// RecordCodec binds one point variant to its fixed-width little-endian
// record layout (spec §3). One implementation exists per variant; the
// single columnar Column type holds a RecordCodec value rather than being
// hand-duplicated per layout.
type RecordCodec interface {
	// Stride is the fixed record size in bytes.
	Stride() int

	// Kind is the point variant this codec encodes/decodes.
	Kind() points.Kind

	// Encode quantises p and writes exactly Stride() bytes into dst.
	Encode(p points.Point, dst []byte)

	// Decode reconstructs a Point from exactly Stride() bytes.
	Decode(src []byte) points.Point

	// DecodeLatLongE7 reads only the quantised lat/long integers, without
	// touching any other field — the fast path for forEachLatLongE7.
	DecodeLatLongE7(src []byte) (latE7, longE7 uint32)
}

// pointWithAccuracyPrefixLen is the size, in bytes, of the shared
// PointWithAccuracy-16B prefix that Stay-24B and Measurement-24B build on.
const pointWithAccuracyPrefixLen = 16

func encodePrefix(p points.Point, dst []byte) {
	binary.LittleEndian.PutUint32(dst[0:4], p.Time.Encode())
	binary.LittleEndian.PutUint32(dst[4:8], codec.EncodeLatitudeE7(p.Latitude))
	binary.LittleEndian.PutUint32(dst[8:12], codec.EncodeLongitudeE7(p.Longitude))
	binary.LittleEndian.PutUint16(dst[12:14], codec.EncodeAltitude(p.Altitude, p.HasAltitude))
}

func decodePrefix(src []byte) points.Point {
	var p points.Point
	t, ok := gpstime.Decode(binary.LittleEndian.Uint32(src[0:4]))
	if ok {
		p.Time = t
	}
	p.Latitude = codec.DecodeLatitudeE7(binary.LittleEndian.Uint32(src[4:8]))
	p.Longitude = codec.DecodeLongitudeE7(binary.LittleEndian.Uint32(src[8:12]))
	alt, ok := codec.DecodeAltitude(binary.LittleEndian.Uint16(src[12:14]))
	p.HasAltitude = ok
	p.Altitude = alt
	return p
}

func decodeLatLongE7(src []byte) (uint32, uint32) {
	return binary.LittleEndian.Uint32(src[4:8]), binary.LittleEndian.Uint32(src[8:12])
}

// PointCodec implements RecordCodec for the 16-byte Point layout:
// time_u32 | lat_u32 | long_u32 | alt_i16 | pad_u16.
type PointCodec struct{}

func (PointCodec) Stride() int     { return 16 }
func (PointCodec) Kind() points.Kind { return points.KindPoint }

func (PointCodec) Encode(p points.Point, dst []byte) {
	encodePrefix(p, dst)
	binary.LittleEndian.PutUint16(dst[14:16], 0) // pad
}

func (PointCodec) Decode(src []byte) points.Point {
	p := decodePrefix(src)
	p.Kind = points.KindPoint
	return p
}

func (PointCodec) DecodeLatLongE7(src []byte) (uint32, uint32) { return decodeLatLongE7(src) }

// PointWithAccuracyCodec implements RecordCodec for the 16-byte
// PointWithAccuracy layout: time_u32 | lat_u32 | long_u32 | alt_i16 | accuracy_u16.
type PointWithAccuracyCodec struct{}

func (PointWithAccuracyCodec) Stride() int       { return 16 }
func (PointWithAccuracyCodec) Kind() points.Kind { return points.KindPointWithAccuracy }

func (PointWithAccuracyCodec) Encode(p points.Point, dst []byte) {
	encodePrefix(p, dst)
	binary.LittleEndian.PutUint16(dst[14:16], codec.EncodeTenthUnit(p.Accuracy, p.HasAccuracy))
}

func (PointWithAccuracyCodec) Decode(src []byte) points.Point {
	p := decodePrefix(src)
	p.Kind = points.KindPointWithAccuracy
	acc, ok := codec.DecodeTenthUnit(binary.LittleEndian.Uint16(src[14:16]))
	p.HasAccuracy = ok
	p.Accuracy = acc
	return p
}

func (PointWithAccuracyCodec) DecodeLatLongE7(src []byte) (uint32, uint32) {
	return decodeLatLongE7(src)
}

// StayCodec implements RecordCodec for the 24-byte Stay layout:
// PointWithAccuracy-16B + endTime_u32 | pad_u32.
type StayCodec struct{}

func (StayCodec) Stride() int       { return 24 }
func (StayCodec) Kind() points.Kind { return points.KindStay }

func (StayCodec) Encode(p points.Point, dst []byte) {
	encodePrefix(p, dst)
	binary.LittleEndian.PutUint16(dst[14:16], codec.EncodeTenthUnit(p.Accuracy, p.HasAccuracy))
	binary.LittleEndian.PutUint32(dst[16:20], p.EndTime.Encode())
	binary.LittleEndian.PutUint32(dst[20:24], 0) // pad
}

func (StayCodec) Decode(src []byte) points.Point {
	p := decodePrefix(src[:pointWithAccuracyPrefixLen])
	p.Kind = points.KindStay
	acc, ok := codec.DecodeTenthUnit(binary.LittleEndian.Uint16(src[14:16]))
	p.HasAccuracy = ok
	p.Accuracy = acc
	endTime, ok := gpstime.Decode(binary.LittleEndian.Uint32(src[16:20]))
	if ok {
		p.EndTime = endTime
	}
	return p
}

func (StayCodec) DecodeLatLongE7(src []byte) (uint32, uint32) { return decodeLatLongE7(src) }

// MeasurementCodec implements RecordCodec for the 24-byte Measurement
// layout: PointWithAccuracy-16B + heading_u16 | speed_u16 | speedAccuracy_u16 | pad_u16.
type MeasurementCodec struct{}

func (MeasurementCodec) Stride() int       { return 24 }
func (MeasurementCodec) Kind() points.Kind { return points.KindMeasurement }

func (MeasurementCodec) Encode(p points.Point, dst []byte) {
	encodePrefix(p, dst)
	binary.LittleEndian.PutUint16(dst[14:16], codec.EncodeTenthUnit(p.Accuracy, p.HasAccuracy))
	binary.LittleEndian.PutUint16(dst[16:18], codec.EncodeHeading(p.Heading, p.HasHeading))
	binary.LittleEndian.PutUint16(dst[18:20], codec.EncodeTenthUnit(p.Speed, p.HasSpeed))
	binary.LittleEndian.PutUint16(dst[20:22], codec.EncodeTenthUnit(p.SpeedAccuracy, p.HasSpeedAccuracy))
	binary.LittleEndian.PutUint16(dst[22:24], 0) // pad
}

func (MeasurementCodec) Decode(src []byte) points.Point {
	p := decodePrefix(src[:pointWithAccuracyPrefixLen])
	p.Kind = points.KindMeasurement
	acc, ok := codec.DecodeTenthUnit(binary.LittleEndian.Uint16(src[14:16]))
	p.HasAccuracy = ok
	p.Accuracy = acc
	heading, ok := codec.DecodeHeading(binary.LittleEndian.Uint16(src[16:18]))
	p.HasHeading = ok
	p.Heading = heading
	speed, ok := codec.DecodeTenthUnit(binary.LittleEndian.Uint16(src[18:20]))
	p.HasSpeed = ok
	p.Speed = speed
	speedAcc, ok := codec.DecodeTenthUnit(binary.LittleEndian.Uint16(src[20:22]))
	p.HasSpeedAccuracy = ok
	p.SpeedAccuracy = speedAcc
	return p
}

func (MeasurementCodec) DecodeLatLongE7(src []byte) (uint32, uint32) { return decodeLatLongE7(src) }
