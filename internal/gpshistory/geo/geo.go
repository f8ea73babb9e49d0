// Package geo implements the distance formulas and bounding-box types from
// spec §4.H. The Haversine and bearing formulas follow the structure of
// golang-geo's Point.GreatCircleDistance/BearingTo (movable-type.co.uk's
// spherical trigonometry), adapted to metres and to the package's
// free-function style rather than a *Point receiver.
package geo

import "math"

// earthRadiusMeters is the mean earth radius used by Equirectangular and
// Haversine.
const earthRadiusMeters = 6371000.0

// equatorialRadiusMeters and flattening feed the Lambert formula's
// reduced-latitude correction.
const (
	equatorialRadiusMeters = 6378137.0
	flattening             = 1.0 / 298.257223563
)

// autoThresholdDegrees is the angular-difference cutoff below which Auto
// picks SuperFast over Haversine.
const autoThresholdDegrees = 5.0

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }

// metersPerLongitudeDegree returns the distance, in metres, covered by one
// degree of longitude at the given latitude.
func metersPerLongitudeDegree(latDeg float64) float64 {
	return (math.Pi / 180.0) * earthRadiusMeters * math.Cos(toRadians(latDeg))
}

// metersPerLatitudeDegree is latitude-independent on a sphere.
func metersPerLatitudeDegree() float64 {
	return (math.Pi / 180.0) * earthRadiusMeters
}

// SuperFast treats the (latA,longA)-(latB,longB) pair as a flat rectangle,
// scaling longitude by the meters-per-longitude-degree computed at the
// mean of the two latitudes on every call (no per-latitude values are
// cached), and returns the Euclidean distance. Accurate only for small
// angular differences (spec recommends ≤5°).
func SuperFast(latA, longA, latB, longB float64) float64 {
	meanLat := (latA + latB) / 2
	dy := (latB - latA) * metersPerLatitudeDegree()
	dx := (longB - longA) * metersPerLongitudeDegree(meanLat)
	return math.Hypot(dx, dy)
}

// Equirectangular projects both points onto the tangent plane at their
// mean latitude and scales by the mean earth radius.
func Equirectangular(latA, longA, latB, longB float64) float64 {
	meanLatRad := toRadians((latA + latB) / 2)
	x := toRadians(longB-longA) * math.Cos(meanLatRad)
	y := toRadians(latB - latA)
	return math.Hypot(x, y) * earthRadiusMeters
}

// Haversine is the standard great-circle formula using the mean earth
// radius; ~0.3% max error vs. an ellipsoidal model.
func Haversine(latA, longA, latB, longB float64) float64 {
	dLat := toRadians(latB - latA)
	dLong := toRadians(longB - longA)
	lat1 := toRadians(latA)
	lat2 := toRadians(latB)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Sin(dLong/2)*math.Sin(dLong/2)*math.Cos(lat1)*math.Cos(lat2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusMeters * c
}

// Lambert applies a reduced-latitude correction with the equatorial
// radius, per Lambert's formula for geodesic distance; the most accurate
// of the four formulas.
func Lambert(latA, longA, latB, longB float64) float64 {
	beta1 := math.Atan((1 - flattening) * math.Tan(toRadians(latA)))
	beta2 := math.Atan((1 - flattening) * math.Tan(toRadians(latB)))

	f := (beta1 + beta2) / 2
	g := (beta1 - beta2) / 2
	lambda := toRadians(longA-longB) / 2

	sinG2, cosG2 := math.Sin(g)*math.Sin(g), math.Cos(g)*math.Cos(g)
	sinF2, cosF2 := math.Sin(f)*math.Sin(f), math.Cos(f)*math.Cos(f)
	sinL2, cosL2 := math.Sin(lambda)*math.Sin(lambda), math.Cos(lambda)*math.Cos(lambda)

	s := sinG2*cosL2 + cosF2*sinL2
	c := cosG2*cosL2 + sinF2*sinL2
	if s == 0 || c == 0 {
		return 0
	}

	omega := math.Atan2(math.Sqrt(s), math.Sqrt(c))
	r := math.Sqrt(s*c) / omega
	d := 2 * omega * equatorialRadiusMeters
	h1 := (3*r - 1) / (2 * c)
	h2 := (3*r + 1) / (2 * s)

	return d * (1 + flattening*h1*sinF2*cosG2 - flattening*h2*cosF2*sinG2)
}

// Auto selects SuperFast when both angular differences are within
// autoThresholdDegrees, else Haversine.
func Auto(latA, longA, latB, longB float64) float64 {
	if math.Abs(latB-latA) <= autoThresholdDegrees && math.Abs(longB-longA) <= autoThresholdDegrees {
		return SuperFast(latA, longA, latB, longB)
	}
	return Haversine(latA, longA, latB, longB)
}

// BearingTo returns the initial bearing in degrees [0, 360) from
// (latA,longA) toward (latB,longB), per golang-geo's BearingTo.
func BearingTo(latA, longA, latB, longB float64) float64 {
	dLong := toRadians(longB - longA)
	lat1 := toRadians(latA)
	lat2 := toRadians(latB)

	y := math.Sin(dLong) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLong)
	brng := math.Atan2(y, x) * 180.0 / math.Pi
	if brng < 0 {
		brng += 360
	}
	return brng
}
