package search

import (
	"testing"

	"github.com/banshee-data/gpshistory/internal/gpshistory/collection"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
)

func gt(v int64) gpstime.GpsTime { return gpstime.GpsTime(v) }

func buildSorted(t *testing.T, times []int64) collection.Collection {
	t.Helper()
	c := collection.NewColumn(collection.PointCodec{}, collection.ThrowIfWrongItems)
	for _, v := range times {
		if err := c.Append(points.NewPoint(gt(v), 0, 0)); err != nil {
			t.Fatalf("append %d: %v", v, err)
		}
	}
	return c
}

func TestFindOnSortedCollectionUsesBinarySearch(t *testing.T) {
	c := buildSorted(t, []int64{1, 3, 5, 7, 9, 11})
	idx, found := Find(c, TimeTarget(gt(7)))
	if !found {
		t.Fatal("expected to find time=7")
	}
	got, _ := c.Get(idx)
	if got.Time != gt(7) {
		t.Errorf("found index %d has time %d, want 7", idx, got.Time)
	}
}

func TestFindMissingTargetReportsAbsent(t *testing.T) {
	c := buildSorted(t, []int64{1, 3, 5})
	_, found := Find(c, TimeTarget(gt(4)))
	if found {
		t.Error("expected Absent for a time with no matching item")
	}
}

func TestFindOnUnsortedCollectionUsesLinearSearch(t *testing.T) {
	c := collection.NewColumn(collection.PointCodec{}, collection.NotRequired)
	for _, v := range []int64{9, 1, 5, 3} {
		if err := c.Append(points.NewPoint(gt(v), 0, 0)); err != nil {
			t.Fatal(err)
		}
	}
	if c.SortedByTime() {
		t.Fatal("test setup expected an unsorted collection")
	}
	idx, found := Find(c, TimeTarget(gt(5)))
	if !found {
		t.Fatal("linear search must still find an existing element in unsorted data")
	}
	got, _ := c.Get(idx)
	if got.Time != gt(5) {
		t.Errorf("found wrong item: time=%d", got.Time)
	}
}

func TestFindOnEmptyCollection(t *testing.T) {
	c := buildSorted(t, nil)
	_, found := Find(c, TimeTarget(gt(1)))
	if found {
		t.Error("expected Absent on an empty collection")
	}
}

func TestFindStaySpanMatchesInstantWithin(t *testing.T) {
	c := collection.NewColumn(collection.StayCodec{}, collection.ThrowIfWrongItems)
	stays := []points.Point{
		points.NewStay(gt(0), gt(5), 0, 0),
		points.NewStay(gt(10), gt(20), 0, 0),
	}
	for _, s := range stays {
		if err := c.Append(s); err != nil {
			t.Fatal(err)
		}
	}
	idx, found := Find(c, TimeTarget(gt(15)))
	if !found {
		t.Fatal("expected to find the stay containing t=15")
	}
	if idx != 1 {
		t.Errorf("found index %d, want 1", idx)
	}
}
