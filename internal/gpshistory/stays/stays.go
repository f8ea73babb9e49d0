// Package stays implements the points-to-stays streaming converter from
// spec §4.F: points near each other in time and space are merged into a
// single Stay spanning their time range. Structurally this follows
// l2frames' FrameBuilder — a pending unit accumulated across Feed calls,
// emitted via callback/return value once the next input no longer
// belongs to it — simplified to the single-pending-Stay resource bound
// spec §5 requires (no backfill buffering, no worker goroutine).
package stays

import (
	"github.com/banshee-data/gpshistory/internal/config"
	"github.com/banshee-data/gpshistory/internal/gpshistory/geo"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/metrics"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
)

// Converter accumulates a single pending Stay, merging in points that fall
// within its configured time and distance gaps. It is not safe for
// concurrent use — one converter owns one input stream (spec §5).
type Converter struct {
	tuning  *config.StaysTuning
	pending *points.Point
	metrics *metrics.Collectors
}

// New builds a Converter with the given tuning (nil tuning uses the
// §4.F defaults via config.StaysTuning's Get* accessors).
func New(tuning *config.StaysTuning) *Converter {
	if tuning == nil {
		tuning = config.EmptyStaysTuning()
	}
	return &Converter{tuning: tuning}
}

// SetMetrics attaches a Collectors bundle the Converter increments every
// time it emits a completed Stay. Passing nil disables it.
func (c *Converter) SetMetrics(m *metrics.Collectors) { c.metrics = m }

func (c *Converter) recordEmitted() {
	if c.metrics != nil {
		c.metrics.StaysEmitted.Inc()
	}
}

// Feed consumes one point and returns a completed Stay if p didn't belong
// to the currently pending one (nil otherwise, while p is absorbed into
// the still-pending Stay).
func (c *Converter) Feed(p points.Point) *points.Point {
	if c.pending == nil {
		seed := points.FromPoint(p)
		c.pending = &seed
		return nil
	}

	if c.belongsToPending(p) {
		c.merge(p)
		return nil
	}

	completed := *c.pending
	seed := points.FromPoint(p)
	c.pending = &seed
	c.recordEmitted()
	return &completed
}

// Flush returns the currently pending Stay (if any) and resets the
// converter, for use once the input stream ends.
func (c *Converter) Flush() *points.Point {
	if c.pending == nil {
		return nil
	}
	completed := *c.pending
	c.pending = nil
	c.recordEmitted()
	return &completed
}

func (c *Converter) belongsToPending(p points.Point) bool {
	maxGap := gpstime.GpsTime(c.tuning.GetMaxTimeGapSeconds())
	if p.Time < c.pending.EndTime {
		// Out-of-order input relative to the pending span; conservatively
		// treat it as not belonging rather than shrinking the span.
		return false
	}
	if p.Time-c.pending.EndTime > maxGap {
		return false
	}

	dist := geo.Auto(c.pending.Latitude, c.pending.Longitude, p.Latitude, p.Longitude)
	return dist <= c.tuning.GetMaxDistanceGapMeters()
}

// merge extends the pending Stay's end time to cover p and keeps the
// better-accuracy position, per the points-to-stays position-update rule.
// A Stay input's own EndTime is honoured when it extends past its Time.
func (c *Converter) merge(p points.Point) {
	end := p.Time
	if p.IsSpan() && p.EndTime > end {
		end = p.EndTime
	}
	if c.pending.EndTime < end {
		c.pending.EndTime = end
	}
	if points.BetterAccuracy(p, *c.pending) {
		c.pending.Latitude = p.Latitude
		c.pending.Longitude = p.Longitude
		c.pending.HasAccuracy = p.HasAccuracy
		c.pending.Accuracy = p.Accuracy
	}
}
