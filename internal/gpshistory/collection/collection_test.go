package collection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/metrics"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
	dto "github.com/prometheus/client_model/go"
)

// newImpl builds one Collection implementation under the given policy, for
// every case below to run against both the fast and slow representations.
type newImpl func(policy SortPolicy) Collection

func impls() map[string]newImpl {
	return map[string]newImpl{
		"Column": func(policy SortPolicy) Collection { return NewColumn(PointCodec{}, policy) },
		"List":   func(policy SortPolicy) Collection { return NewList(points.KindPoint, policy) },
	}
}

func pt(v int64, lat, long float64) points.Point {
	return points.NewPoint(gpstime.GpsTime(v), lat, long)
}

func TestAppendAndGetRoundTrip(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(NotRequired)
			require.NoError(t, c.Append(pt(1, 10.5, 20.25)))
			require.NoError(t, c.Append(pt(2, -10.5, -20.25)))
			assert.Equal(t, 2, c.Len())

			got, err := c.Get(0)
			require.NoError(t, err)
			assert.InDelta(t, 10.5, got.Latitude, 1e-6)
			assert.InDelta(t, 20.25, got.Longitude, 1e-6)

			_, err = c.Get(2)
			assert.IsType(t, &IndexOutOfRangeError{}, err)
		})
	}
}

func TestSetCapacityRejectsShrinkBelowLength(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(NotRequired)
			require.NoError(t, c.Append(pt(1, 0, 0)))
			err := c.SetCapacity(0)
			assert.IsType(t, &CapacityBelowLengthError{}, err)
		})
	}
}

func TestThrowIfWrongItemsRejectsOutOfOrder(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(ThrowIfWrongItems)
			require.NoError(t, c.Append(pt(10, 0, 0)))
			err := c.Append(pt(5, 0, 0))
			assert.IsType(t, &SortOrderViolationError{}, err)
			assert.Equal(t, 1, c.Len(), "rejected item must not be stored")
			assert.True(t, c.SortedByTime())
		})
	}
}

func TestSkipWrongItemsDropsSilently(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(SkipWrongItems)
			require.NoError(t, c.Append(pt(10, 0, 0)))
			require.NoError(t, c.Append(pt(5, 0, 0)))
			assert.Equal(t, 1, c.Len())
			require.NoError(t, c.Append(pt(20, 0, 0)))
			assert.Equal(t, 2, c.Len())
		})
	}
}

func TestColumnRecordsAppendRejectionMetric(t *testing.T) {
	m := metrics.NewCollectors()
	c := NewColumn(PointCodec{}, ThrowIfWrongItems)
	c.SetMetrics(m)
	require.NoError(t, c.Append(pt(10, 0, 0)))
	require.Error(t, c.Append(pt(5, 0, 0)))

	got := &dto.Metric{}
	require.NoError(t, m.AppendRejectedByPolicy.WithLabelValues(ThrowIfWrongItems.String()).Write(got))
	assert.Equal(t, float64(1), got.GetCounter().GetValue())
}

func TestListRecordsAppendRejectionMetric(t *testing.T) {
	m := metrics.NewCollectors()
	l := NewList(points.KindPoint, SkipWrongItems)
	l.SetMetrics(m)
	require.NoError(t, l.Append(pt(10, 0, 0)))
	require.NoError(t, l.Append(pt(5, 0, 0)))

	got := &dto.Metric{}
	require.NoError(t, m.AppendRejectedByPolicy.WithLabelValues(SkipWrongItems.String()).Write(got))
	assert.Equal(t, float64(1), got.GetCounter().GetValue())
}

func TestNotRequiredClearsSortedFlagOnce(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(NotRequired)
			require.NoError(t, c.Append(pt(10, 0, 0)))
			assert.True(t, c.SortedByTime())
			require.NoError(t, c.Append(pt(5, 0, 0)))
			assert.False(t, c.SortedByTime())
			require.NoError(t, c.Append(pt(20, 0, 0)))
			assert.False(t, c.SortedByTime(), "sortedByTime must not recover once violated")
		})
	}
}

func TestExtendAppendsEveryItemInOrder(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(NotRequired)
			n, err := c.Extend([]points.Point{pt(1, 0, 0), pt(2, 0, 0), pt(3, 0, 0)})
			require.NoError(t, err)
			assert.Equal(t, 3, n)
			assert.Equal(t, 3, c.Len())
		})
	}
}

func TestSublistCopiesRange(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(NotRequired)
			_, _ = c.Extend([]points.Point{pt(1, 1, 1), pt(2, 2, 2), pt(3, 3, 3)})
			sub, err := c.Sublist(1, 3)
			require.NoError(t, err)
			assert.Equal(t, 2, sub.Len())
			got, _ := sub.Get(0)
			assert.InDelta(t, 2, got.Latitude, 1e-6)

			// Mutating the parent's buffer must not affect the copy.
			_ = c.Append(pt(4, 99, 99))
			assert.Equal(t, 2, sub.Len())
		})
	}
}

func TestSublistInheritsParentsSortedFlag(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(NotRequired)
			require.NoError(t, c.Append(pt(10, 0, 0)))
			require.NoError(t, c.Append(pt(5, 0, 0))) // out of order: clears sortedOK
			require.False(t, c.SortedByTime())

			sub, err := c.Sublist(0, 2)
			require.NoError(t, err)
			assert.False(t, sub.SortedByTime(), "a sublist of an unsorted collection must not overclaim sortedness")
		})
	}
}

func TestForEachLatLongE7VisitsEveryItem(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(NotRequired)
			_, _ = c.Extend([]points.Point{pt(1, 1, 2), pt(2, 3, 4)})
			var count int
			c.ForEachLatLongE7(func(latE7, longE7 uint32) { count++ })
			assert.Equal(t, 2, count)
		})
	}
}

func TestGrowthAcrossManyAppends(t *testing.T) {
	for name, newC := range impls() {
		t.Run(name, func(t *testing.T) {
			c := newC(NotRequired)
			for i := int64(0); i < 500; i++ {
				require.NoError(t, c.Append(pt(i, float64(i), float64(i))))
			}
			assert.Equal(t, 500, c.Len())
			assert.GreaterOrEqual(t, c.Capacity(), 500)
			got, err := c.Get(499)
			require.NoError(t, err)
			assert.InDelta(t, 499, got.Latitude, 1e-6)
		})
	}
}

func TestStayPolicyAllowsEqualSpans(t *testing.T) {
	c := NewColumn(StayCodec{}, ThrowIfWrongItems)
	require.NoError(t, c.Append(points.NewStay(gpstime.GpsTime(0), gpstime.GpsTime(5), 0, 0)))
	// Identical span is allowed ("before or same") for Stay collections.
	require.NoError(t, c.Append(points.NewStay(gpstime.GpsTime(0), gpstime.GpsTime(5), 0, 0)))
	assert.Equal(t, 2, c.Len())

	err := c.Append(points.NewStay(gpstime.GpsTime(0), gpstime.GpsTime(4), 0, 0))
	assert.IsType(t, &SortOrderViolationError{}, err)
}
