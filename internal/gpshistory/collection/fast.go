package collection

import (
	"github.com/banshee-data/gpshistory/internal/gpshistory/metrics"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
)

// Column is the columnar, fixed-width-record Collection — one RecordCodec
// pick fixes both the record layout and the point variant it stores.
type Column struct {
	codec    RecordCodec
	buf      []byte
	length   int
	policy   SortPolicy
	sortedOK bool
	metrics  *metrics.Collectors
}

// NewColumn builds an empty Column for the given RecordCodec and
// sort-order enforcement policy.
func NewColumn(codec RecordCodec, policy SortPolicy) *Column {
	return &Column{codec: codec, policy: policy, sortedOK: true}
}

// SetMetrics attaches a Collectors bundle the Column increments whenever
// Append rejects an item for violating policy. Passing nil disables it.
func (c *Column) SetMetrics(m *metrics.Collectors) { c.metrics = m }

func (c *Column) stride() int { return c.codec.Stride() }

func (c *Column) Len() int      { return c.length }
func (c *Column) Capacity() int { return len(c.buf) / c.stride() }

func (c *Column) SetCapacity(n int) error {
	if n < c.length {
		return &CapacityBelowLengthError{Requested: n, Length: c.length}
	}
	grown := make([]byte, n*c.stride())
	copy(grown, c.buf[:c.length*c.stride()])
	c.buf = grown
	return nil
}

func (c *Column) Get(i int) (points.Point, error) {
	if i < 0 || i >= c.length {
		return points.Point{}, &IndexOutOfRangeError{Index: i, Length: c.length}
	}
	s := c.stride()
	return c.codec.Decode(c.buf[i*s : (i+1)*s]), nil
}

func (c *Column) lastDecoded() (points.Point, bool) {
	if c.length == 0 {
		return points.Point{}, false
	}
	p, _ := c.Get(c.length - 1)
	return p, true
}

func (c *Column) ensureRoom(extra int) {
	need := c.length + extra
	if need <= c.Capacity() {
		return
	}
	_ = c.SetCapacity(growTo(c.Capacity(), need))
}

func (c *Column) Append(p points.Point) error {
	last, hasLast := c.lastDecoded()
	ok := checkOrder(c.codec.Kind(), hasLast, last, p)

	switch c.policy {
	case ThrowIfWrongItems:
		if !ok {
			c.recordRejection()
			return &SortOrderViolationError{Index: c.length}
		}
	case SkipWrongItems:
		if !ok {
			c.recordRejection()
			return nil
		}
	case NotRequired:
		if !ok {
			c.sortedOK = false
		}
	}

	c.ensureRoom(1)
	s := c.stride()
	c.codec.Encode(p, c.buf[c.length*s:(c.length+1)*s])
	c.length++
	return nil
}

func (c *Column) recordRejection() {
	if c.metrics != nil {
		c.metrics.AppendRejectedByPolicy.WithLabelValues(c.policy.String()).Inc()
	}
}

func (c *Column) Extend(items []points.Point) (int, error) {
	c.ensureRoom(len(items))
	n := 0
	for _, p := range items {
		if err := c.Append(p); err != nil {
			return n, err
		}
		n++
	}
	return n, nil
}

func (c *Column) Sublist(a, b int) (Collection, error) {
	if a < 0 || b > c.length || a > b {
		return nil, &IndexOutOfRangeError{Index: b, Length: c.length}
	}
	out := NewColumn(c.codec, c.policy)
	s := c.stride()
	out.buf = append([]byte(nil), c.buf[a*s:b*s]...)
	out.length = b - a
	out.sortedOK = c.sortedOK
	return out, nil
}

func (c *Column) SortedByTime() bool {
	if c.policy != NotRequired {
		return true
	}
	return c.sortedOK
}

func (c *Column) ForEachLatLongE7(fn func(latE7, longE7 uint32)) {
	s := c.stride()
	for i := 0; i < c.length; i++ {
		lat, long := c.codec.DecodeLatLongE7(c.buf[i*s : (i+1)*s])
		fn(lat, long)
	}
}
