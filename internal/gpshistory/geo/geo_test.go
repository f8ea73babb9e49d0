package geo

import (
	"math"
	"testing"

	"github.com/banshee-data/gpshistory/internal/gpshistory/codec"
)

// Approximate distance in meters between 1 degree of latitude near the
// equator, used as a sanity magnitude for every formula below.
const oneDegreeLatMeters = 111_000.0

func TestDistanceFormulasAgreeOverShortRange(t *testing.T) {
	// Amsterdam Centraal to Amsterdam Zuid, roughly 4.9 km apart.
	latA, longA := 52.3791, 4.9003
	latB, longB := 52.3387, 4.8726

	formulas := map[string]func(a, b, c, d float64) float64{
		"SuperFast":        SuperFast,
		"Equirectangular":  Equirectangular,
		"Haversine":        Haversine,
		"Lambert":          Lambert,
	}
	for name, fn := range formulas {
		d := fn(latA, longA, latB, longB)
		if d < 4000 || d > 6500 {
			t.Errorf("%s distance = %.1f m, want roughly 4900 m", name, d)
		}
	}
}

func TestDistanceZeroForIdenticalPoints(t *testing.T) {
	for name, fn := range map[string]func(a, b, c, d float64) float64{
		"SuperFast": SuperFast, "Equirectangular": Equirectangular,
		"Haversine": Haversine, "Lambert": Lambert,
	} {
		if d := fn(10, 20, 10, 20); math.Abs(d) > 1e-6 {
			t.Errorf("%s(identical points) = %f, want 0", name, d)
		}
	}
}

func TestAutoSelectsSuperFastWithinThreshold(t *testing.T) {
	got := Auto(10, 10, 12, 12)
	want := SuperFast(10, 10, 12, 12)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Auto within threshold should match SuperFast exactly, got %f want %f", got, want)
	}
}

func TestAutoSelectsHaversineBeyondThreshold(t *testing.T) {
	got := Auto(0, 0, 20, 20)
	want := Haversine(0, 0, 20, 20)
	if math.Abs(got-want) > 1e-6 {
		t.Errorf("Auto beyond threshold should match Haversine exactly, got %f want %f", got, want)
	}
}

func TestBearingToCardinalDirections(t *testing.T) {
	if b := BearingTo(0, 0, 1, 0); math.Abs(b-0) > 1 {
		t.Errorf("due north bearing = %f, want ~0", b)
	}
	if b := BearingTo(0, 0, 0, 1); math.Abs(b-90) > 1 {
		t.Errorf("due east bearing = %f, want ~90", b)
	}
}

func TestGeodeticBoxRejectsInvertedRange(t *testing.T) {
	_, err := NewGeodeticBox(10, 0, 5, 10)
	if err == nil {
		t.Fatal("expected RangeError for top < bottom")
	}
	if _, ok := err.(*RangeError); !ok {
		t.Errorf("expected *RangeError, got %T", err)
	}
}

func TestGeodeticBoxContainsPlainBox(t *testing.T) {
	b, err := NewGeodeticBox(10, 10, 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Contains(15, 15) {
		t.Error("(15,15) should be inside box")
	}
	if b.Contains(25, 15) {
		t.Error("(25,15) should be outside box")
	}
}

func TestGeodeticBoxAntimeridianWrap(t *testing.T) {
	b, err := NewGeodeticBox(-10, 170, 10, -170)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Contains(0, 175) {
		t.Error("175E should be inside an antimeridian-wrapping box")
	}
	if !b.Contains(0, -175) {
		t.Error("175W should be inside an antimeridian-wrapping box")
	}
	if b.Contains(0, 0) {
		t.Error("0,0 should be outside an antimeridian-wrapping box that excludes the prime meridian")
	}
}

func TestGeodeticBoxPoleInclusiveRegardlessOfLongitude(t *testing.T) {
	b, err := NewGeodeticBox(80, 0, 90, 10)
	if err != nil {
		t.Fatal(err)
	}
	if !b.Contains(90, 179) {
		t.Error("any longitude at exactly the north pole must be contained")
	}
}

func TestFlatBoxFromDegreesMatchesGeodeticBox(t *testing.T) {
	gb, err := NewGeodeticBox(10, 10, 20, 20)
	if err != nil {
		t.Fatal(err)
	}
	fb := FlatBoxFromDegrees(gb)

	for _, p := range [][2]float64{{15, 15}, {25, 15}, {5, 15}} {
		geoContains := gb.Contains(p[0], p[1])
		flatContains := fb.Contains(codec.EncodeLatitudeE7(p[0]), codec.EncodeLongitudeE7(p[1]))
		if geoContains != flatContains {
			t.Errorf("mismatch at (%v,%v): geodetic=%v flat=%v", p[0], p[1], geoContains, flatContains)
		}
	}
}
