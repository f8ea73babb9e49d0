package stays

import (
	"testing"

	"github.com/banshee-data/gpshistory/internal/config"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/metrics"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
	dto "github.com/prometheus/client_model/go"
)

func gt(v int64) gpstime.GpsTime { return gpstime.GpsTime(v) }

func TestMergesNearbyPointsIntoOneStay(t *testing.T) {
	c := New(nil)
	if out := c.Feed(points.NewPoint(gt(0), 10, 10)); out != nil {
		t.Fatal("first point must never emit immediately")
	}
	if out := c.Feed(points.NewPoint(gt(30), 10.0001, 10.0001)); out != nil {
		t.Fatal("a nearby, soon-after point should merge, not emit")
	}
	final := c.Flush()
	if final == nil {
		t.Fatal("expected a pending stay on flush")
	}
	if final.Time != gt(0) || final.EndTime != gt(30) {
		t.Errorf("merged stay span = [%d, %d), want [0, 30)", final.Time, final.EndTime)
	}
}

func TestEmitsSeparateStaysOnTimeGap(t *testing.T) {
	tuning := config.EmptyStaysTuning()
	small := int64(60)
	tuning.MaxTimeGapSeconds = &small
	c := New(tuning)

	c.Feed(points.NewPoint(gt(0), 10, 10))
	emitted := c.Feed(points.NewPoint(gt(1000), 10, 10))
	if emitted == nil {
		t.Fatal("expected the first stay to be emitted once the gap exceeds maxTimeGapSeconds")
	}
	if emitted.Time != gt(0) || emitted.EndTime != gt(0) {
		t.Errorf("first stay = [%d,%d), want a degenerate [0,0) span", emitted.Time, emitted.EndTime)
	}

	final := c.Flush()
	if final == nil || final.Time != gt(1000) {
		t.Fatalf("expected the second point pending as its own stay, got %+v", final)
	}
}

func TestEmitsSeparateStaysOnDistanceGap(t *testing.T) {
	c := New(nil)
	c.Feed(points.NewPoint(gt(0), 0, 0))
	emitted := c.Feed(points.NewPoint(gt(10), 50, 50)) // thousands of km away
	if emitted == nil {
		t.Fatal("expected a far-away point to close out the pending stay")
	}
}

func TestMergeKeepsBetterAccuracyPosition(t *testing.T) {
	c := New(nil)
	c.Feed(points.NewPointWithAccuracy(gt(0), 10, 10, 50))
	c.Feed(points.NewPointWithAccuracy(gt(5), 10.00001, 10.00001, 2))
	final := c.Flush()
	if final.Accuracy != 2 {
		t.Errorf("expected the better-accuracy position to win, got accuracy=%v", final.Accuracy)
	}
}

func TestMergeHonoursStayInputsOwnEndTime(t *testing.T) {
	c := New(nil)
	c.Feed(points.NewPoint(gt(0), 10, 10))
	// A Stay input whose own EndTime extends past its Time must not be
	// truncated down to just its Time when merged into the pending span.
	c.Feed(points.NewStay(gt(5), gt(40), 10.00001, 10.00001))
	final := c.Flush()
	if final.EndTime != gt(40) {
		t.Errorf("merged stay EndTime = %d, want 40 (the Stay input's own EndTime)", final.EndTime)
	}
}

func TestFlushOnEmptyConverterReturnsNil(t *testing.T) {
	c := New(nil)
	if c.Flush() != nil {
		t.Error("Flush on a converter that never received a point must return nil")
	}
}

func TestIdempotentMergeOfIdenticalPoint(t *testing.T) {
	c := New(nil)
	p := points.NewPoint(gt(5), 10, 10)
	c.Feed(p)
	c.Feed(p)
	final := c.Flush()
	if final.Time != gt(5) || final.EndTime != gt(5) {
		t.Errorf("merging a stay with itself should not change its span, got [%d,%d)", final.Time, final.EndTime)
	}
}

func TestStaysEmittedMetricCountsEachEmission(t *testing.T) {
	m := metrics.NewCollectors()
	c := New(nil)
	c.SetMetrics(m)

	c.Feed(points.NewPoint(gt(0), 0, 0))
	c.Feed(points.NewPoint(gt(10), 50, 50)) // far away: closes the first stay
	c.Flush()                               // and the second, pending one

	got := &dto.Metric{}
	if err := m.StaysEmitted.Write(got); err != nil {
		t.Fatal(err)
	}
	if got.GetCounter().GetValue() != 2 {
		t.Errorf("StaysEmitted = %v, want 2", got.GetCounter().GetValue())
	}
}
