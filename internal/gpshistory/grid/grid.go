// Package grid implements the sparse spatial grid from spec §4.I: space
// is partitioned into ~1e-4 degree cells (~10 m at the equator), keyed by
// (lat_u32/1000, long_u32/1000), and stored in a single hash map with a
// packed single-vs-many encoding to avoid a slice allocation for the
// overwhelmingly common one-item cell.
package grid

import (
	"time"

	"github.com/banshee-data/gpshistory/internal/gpshistory/codec"
	"github.com/banshee-data/gpshistory/internal/gpshistory/metrics"
	"github.com/banshee-data/gpshistory/internal/monitoring"
)

// cellSize is the bucket width, expressed as a divisor of the E7-quantised
// lat/long integers: 1000 units of 1e-7 degree == 1e-4 degree per cell.
const cellSize = 1000

// cellKey identifies one grid cell. A plain comparable struct is used as
// the map key — Go's builtin map hashing is sufficient here and avoids
// pulling in an external hash function for a key this small.
type cellKey struct {
	latBucket, longBucket uint32
}

func bucketOf(latE7, longE7 uint32) cellKey {
	return cellKey{latBucket: latE7 / cellSize, longBucket: longE7 / cellSize}
}

// Grid is immutable after Build; concurrent reads are safe (spec §5).
type Grid struct {
	cells map[cellKey]int32 // packed: 0 empty, +k single item at index k-1, -k many-cell index -k-1
	many  [][]int
}

// LatLongSource is satisfied by collection.Collection; kept narrow so the
// grid package doesn't need to import the full Collection surface.
type LatLongSource interface {
	ForEachLatLongE7(fn func(latE7, longE7 uint32))
}

// Build constructs a Grid in a single pass over src using ForEachLatLongE7.
func Build(src LatLongSource) *Grid {
	return BuildWithMetrics(src, nil)
}

// BuildWithMetrics is Build, additionally recording the build's wall-clock
// duration into m.GridBuildDuration (if m is non-nil) and logging a
// one-line diagnostic summary through monitoring.Logf.
func BuildWithMetrics(src LatLongSource, m *metrics.Collectors) *Grid {
	start := time.Now()
	g := &Grid{cells: make(map[cellKey]int32)}
	index := 0
	src.ForEachLatLongE7(func(latE7, longE7 uint32) {
		key := bucketOf(latE7, longE7)
		switch existing := g.cells[key]; {
		case existing == 0:
			g.cells[key] = int32(index + 1)
		case existing > 0:
			prevIndex := int(existing - 1)
			g.many = append(g.many, []int{prevIndex, index})
			g.cells[key] = -int32(len(g.many))
		default:
			manyIndex := int(-existing - 1)
			g.many[manyIndex] = append(g.many[manyIndex], index)
		}
		index++
	})

	elapsed := time.Since(start)
	monitoring.Logf("grid: built %d cells from %d items in %s", len(g.cells), index, elapsed)
	if m != nil {
		m.GridBuildDuration.Observe(elapsed.Seconds())
	}
	return g
}

// indicesIn returns the stored indices for a cell's packed value, or nil
// if the cell is empty.
func (g *Grid) indicesIn(packed int32) []int {
	switch {
	case packed == 0:
		return nil
	case packed > 0:
		return []int{int(packed - 1)}
	default:
		return g.many[-packed-1]
	}
}

// CellAt returns the item indices falling in the cell containing
// (latE7, longE7), and whether that cell is non-empty.
func (g *Grid) CellAt(latE7, longE7 uint32) ([]int, bool) {
	packed, ok := g.cells[bucketOf(latE7, longE7)]
	if !ok {
		return nil, false
	}
	return g.indicesIn(packed), true
}

// CellAtDegrees is the float-degree convenience wrapper around CellAt,
// quantising through the same codec the columnar storage uses.
func (g *Grid) CellAtDegrees(lat, long float64) ([]int, bool) {
	return g.CellAt(codec.EncodeLatitudeE7(lat), codec.EncodeLongitudeE7(long))
}

// NumCells returns the number of distinct non-empty cells.
func (g *Grid) NumCells() int { return len(g.cells) }

// ForEachCell yields every non-empty cell as a slice of item indices.
// Iteration order is unspecified (Go map order).
func (g *Grid) ForEachCell(fn func(indices []int)) {
	for _, packed := range g.cells {
		fn(g.indicesIn(packed))
	}
}
