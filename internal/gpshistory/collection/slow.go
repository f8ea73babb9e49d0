package collection

import (
	"github.com/banshee-data/gpshistory/internal/gpshistory/codec"
	"github.com/banshee-data/gpshistory/internal/gpshistory/metrics"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
)

// List is the slice-backed Collection: no quantisation, no fixed-width
// record layout, used as the reference ("slow") implementation that
// Column's behavior is tested against, and wherever the caller needs a
// variant without a defined RecordCodec.
type List struct {
	kind     points.Kind
	items    []points.Point
	policy   SortPolicy
	sortedOK bool
	metrics  *metrics.Collectors
}

// NewList builds an empty List for the given variant and sort-order
// enforcement policy.
func NewList(kind points.Kind, policy SortPolicy) *List {
	return &List{kind: kind, policy: policy, sortedOK: true}
}

// SetMetrics attaches a Collectors bundle the List increments whenever
// Append rejects an item for violating policy. Passing nil disables it.
func (l *List) SetMetrics(m *metrics.Collectors) { l.metrics = m }

func (l *List) Len() int      { return len(l.items) }
func (l *List) Capacity() int { return cap(l.items) }

func (l *List) SetCapacity(n int) error {
	if n < len(l.items) {
		return &CapacityBelowLengthError{Requested: n, Length: len(l.items)}
	}
	grown := make([]points.Point, len(l.items), n)
	copy(grown, l.items)
	l.items = grown
	return nil
}

func (l *List) Get(i int) (points.Point, error) {
	if i < 0 || i >= len(l.items) {
		return points.Point{}, &IndexOutOfRangeError{Index: i, Length: len(l.items)}
	}
	return l.items[i], nil
}

func (l *List) Append(p points.Point) error {
	var last points.Point
	hasLast := len(l.items) > 0
	if hasLast {
		last = l.items[len(l.items)-1]
	}
	ok := checkOrder(l.kind, hasLast, last, p)

	switch l.policy {
	case ThrowIfWrongItems:
		if !ok {
			l.recordRejection()
			return &SortOrderViolationError{Index: len(l.items)}
		}
	case SkipWrongItems:
		if !ok {
			l.recordRejection()
			return nil
		}
	case NotRequired:
		if !ok {
			l.sortedOK = false
		}
	}

	if len(l.items) == cap(l.items) {
		_ = l.SetCapacity(growTo(cap(l.items), len(l.items)+1))
	}
	l.items = append(l.items, p)
	return nil
}

func (l *List) recordRejection() {
	if l.metrics != nil {
		l.metrics.AppendRejectedByPolicy.WithLabelValues(l.policy.String()).Inc()
	}
}

func (l *List) Extend(items []points.Point) (int, error) {
	n := 0
	for _, p := range items {
		if err := l.Append(p); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (l *List) Sublist(a, b int) (Collection, error) {
	if a < 0 || b > len(l.items) || a > b {
		return nil, &IndexOutOfRangeError{Index: b, Length: len(l.items)}
	}
	out := NewList(l.kind, l.policy)
	out.items = append([]points.Point(nil), l.items[a:b]...)
	out.sortedOK = l.sortedOK
	return out, nil
}

func (l *List) SortedByTime() bool {
	if l.policy != NotRequired {
		return true
	}
	return l.sortedOK
}

func (l *List) ForEachLatLongE7(fn func(latE7, longE7 uint32)) {
	for _, p := range l.items {
		fn(codec.EncodeLatitudeE7(p.Latitude), codec.EncodeLongitudeE7(p.Longitude))
	}
}
