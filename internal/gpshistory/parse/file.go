package parse

import (
	"math"
	"runtime"
	"runtime/debug"
	"sync"

	"github.com/banshee-data/gpshistory/internal/config"
	"github.com/banshee-data/gpshistory/internal/fsutil"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
	"github.com/banshee-data/gpshistory/internal/security"
)

// assumedChunkBytes is the nominal per-worker buffer size used to turn the
// process's memory budget into a chunk-count ceiling (spec §4.E's
// nrChunks formula).
const assumedChunkBytes = 1 << 20 // 1 MiB

// ParseFile parses an entire file through the multithreaded chunked
// driver from spec §4.E: the file is split into up to tuning's
// MaxNrChunks byte ranges (bounded further by CPU count and an estimate
// of available memory), each range is parsed by its own Parser, and the
// results are concatenated back in range order. path is validated with
// security.ValidatePathWithinDirectory before anything is read.
func ParseFile(fsys fsutil.FileSystem, path, safeDir string, tuning *config.ParserTuning) ([]points.Point, error) {
	if err := security.ValidatePathWithinDirectory(path, safeDir); err != nil {
		return nil, err
	}
	if tuning == nil {
		tuning = config.EmptyParserTuning()
	}

	size, err := fsutil.FileSize(fsys, path)
	if err != nil {
		return nil, err
	}
	data, err := fsutil.ReadRange(fsys, path, 0, size)
	if err != nil {
		return nil, err
	}

	nrChunks := chooseNrChunks(tuning.GetMaxNrChunks(), len(data))
	bounds := splitBoundaries(data, nrChunks)

	results := make([][]points.Point, len(bounds)-1)
	var wg sync.WaitGroup
	for i := 0; i < len(bounds)-1; i++ {
		i := i
		start, end := bounds[i], bounds[i+1]
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = parseRange(data[start:end], tuning)
		}()
	}
	wg.Wait()

	var out []points.Point
	for _, r := range results {
		out = append(out, r...)
	}
	return out, nil
}

func parseRange(data []byte, tuning *config.ParserTuning) []points.Point {
	p := New(tuning)
	out := append([]points.Point{}, p.Feed(data)...)
	return append(out, p.Flush()...)
}

// chooseNrChunks implements nrChunks = min(maxNrChunks, nrCpus,
// max(1, freeRamBytes/(8*avgChunkSize))). freeRamBytes is approximated
// from the process's soft memory limit (runtime/debug.SetMemoryLimit),
// since no cross-platform free-memory query is available without a
// third-party dependency this module doesn't otherwise need.
func chooseNrChunks(maxNrChunks, dataLen int) int {
	if dataLen == 0 {
		return 1
	}

	ramLimit := debug.SetMemoryLimit(-1)
	if ramLimit <= 0 || ramLimit == math.MaxInt64 {
		ramLimit = 1 << 30 // 1 GiB, a conservative stand-in when unset
	}
	ramBound := int(ramLimit / (8 * assumedChunkBytes))
	if ramBound < 1 {
		ramBound = 1
	}

	n := minInt(maxNrChunks, runtime.NumCPU(), ramBound)
	if n < 1 {
		n = 1
	}
	if n > dataLen {
		n = dataLen
	}
	return n
}

func minInt(values ...int) int {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// candidateBoundaries finds every byte offset right after an unescaped
// "}," pair: a location object's end followed by the array separator.
// These are the only positions the file can safely be split on without
// cutting a record in half.
func candidateBoundaries(data []byte) []int {
	var positions []int
	inString := false
	escaped := false
	for i := 0; i < len(data); i++ {
		b := data[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case b == '\\':
				escaped = true
			case b == '"':
				inString = false
			}
			continue
		}
		switch b {
		case '"':
			inString = true
		case '}':
			if i+1 < len(data) && data[i+1] == ',' {
				positions = append(positions, i+2)
			}
		}
	}
	return positions
}

// splitBoundaries returns n+1 offsets bounding n (or fewer, if not
// enough safe split points exist) byte ranges that tile data.
func splitBoundaries(data []byte, n int) []int {
	if n <= 1 || len(data) == 0 {
		return []int{0, len(data)}
	}

	candidates := candidateBoundaries(data)
	bounds := []int{0}
	ci := 0
	for k := 1; k < n; k++ {
		target := k * len(data) / n
		for ci < len(candidates) && candidates[ci] <= bounds[len(bounds)-1] {
			ci++
		}
		j := ci
		for j < len(candidates) && candidates[j] < target {
			j++
		}
		if j >= len(candidates) {
			break
		}
		bounds = append(bounds, candidates[j])
		ci = j
	}
	return append(bounds, len(data))
}
