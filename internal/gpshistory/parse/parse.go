// Package parse implements the streaming byte-level location-history
// parser from spec §4.E: a single-pass state machine that recognises a
// fixed set of numeric JSON fields (timestampMs, latitudeE7, longitudeE7,
// altitude, accuracy) wherever they occur in the byte stream, without
// building a generic JSON document tree. Feed can be called with
// arbitrarily sized chunks; all state needed to resume mid-token is kept
// on the Parser value, following the incremental Feed(data []byte) shape
// rdeg-loc uses for its NMEA sentence reassembly, adapted from that
// package's global feedState/feedBuf into per-value state so a process
// can run more than one Parser at once.
package parse

import (
	"github.com/banshee-data/gpshistory/internal/config"
	"github.com/banshee-data/gpshistory/internal/gpshistory/gpstime"
	"github.com/banshee-data/gpshistory/internal/gpshistory/metrics"
	"github.com/banshee-data/gpshistory/internal/gpshistory/points"
)

type state int

const (
	stateScanKey state = iota
	stateInKey
	stateAfterKey
	stateScanValue
	stateInNumber
	stateInQuotedNumber
	stateSkipString
	stateSkipLiteral
	stateSkipNumber
)

type field int

const (
	fieldNone field = iota
	fieldTimestampMs
	fieldLatitudeE7
	fieldLongitudeE7
	fieldAltitude
	fieldAccuracy
)

// maxKeyLen is long enough to hold the longest recognised key
// ("timestampMs"/"longitudeE7", both 11 bytes) plus its closing quote;
// anything longer is necessarily an unrecognised key.
const maxKeyLen = 16

// Parser is a single-pass, resumable state machine over a byte stream of
// location history records. It is not safe for concurrent use — one
// Parser owns one input stream (spec §5).
type Parser struct {
	tuning  *config.ParserTuning
	metrics *metrics.Collectors

	st state

	keyBuf      [maxKeyLen]byte
	keyLen      int
	keyOverflow bool
	escaped     bool
	curField    field

	numSign      int64
	numValue     int64
	numHasDigits bool

	hasTimestamp bool
	timestampMs  int64
	hasLat       bool
	latE7        int64
	hasLong      bool
	longE7       int64
	hasAltitude  bool
	altitude     int64
	hasAccuracy  bool
	accuracy     int64

	lastEmittedSet  bool
	lastEmittedTime gpstime.GpsTime

	out []points.Point
}

// New builds a Parser with the given tuning (nil uses
// config.EmptyParserTuning's documented defaults).
func New(tuning *config.ParserTuning) *Parser {
	if tuning == nil {
		tuning = config.EmptyParserTuning()
	}
	return &Parser{tuning: tuning}
}

// SetMetrics attaches a Collectors bundle the parser increments as it
// emits and drops points. Passing nil (the default) disables metrics.
func (p *Parser) SetMetrics(m *metrics.Collectors) { p.metrics = m }

// Feed consumes the next chunk of input, returning every point completed
// during this call. Points spanning a Feed boundary are carried in the
// Parser's internal state and returned on a later call, or discarded by
// Flush if the stream ends mid-point.
func (p *Parser) Feed(data []byte) []points.Point {
	p.out = p.out[:0]
	i := 0
	for i < len(data) {
		b := data[i]
		switch p.st {
		case stateScanKey:
			i += p.stepScanKey(b)
		case stateInKey:
			i += p.stepInKey(b)
		case stateAfterKey:
			i += p.stepAfterKey(b)
		case stateScanValue:
			i += p.stepScanValue(b)
		case stateInNumber:
			i += p.stepInNumber(b)
		case stateInQuotedNumber:
			i += p.stepInQuotedNumber(b)
		case stateSkipString:
			i += p.stepSkipString(b)
		case stateSkipLiteral:
			i += p.stepSkipLiteral(b)
		case stateSkipNumber:
			i += p.stepSkipNumber(b)
		default:
			i++
		}
	}
	return p.out
}

// Flush signals end of input. It emits the pending point if complete, or
// silently discards it (per spec §4.E) otherwise, and returns whatever
// was emitted.
func (p *Parser) Flush() []points.Point {
	p.out = p.out[:0]
	if p.isComplete() {
		p.emitPending()
	} else if p.hasAnyField() {
		diagf("discarding incomplete point at end of stream")
		if p.metrics != nil {
			p.metrics.PointsDiscardedPartial.Inc()
		}
		p.resetPending()
	}
	return p.out
}

func isWhitespace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }

// stepScanKey looks for the start of a key ('"') or a location-object
// boundary ('}'), ignoring everything else (commas, brackets, whitespace,
// values of structures the parser doesn't track, such as the
// "locations" array wrapper).
func (p *Parser) stepScanKey(b byte) int {
	switch {
	case b == '"':
		p.keyLen = 0
		p.keyOverflow = false
		p.st = stateInKey
	case b == '}':
		if p.isComplete() {
			p.emitPending()
		}
	}
	return 1
}

func (p *Parser) stepInKey(b byte) int {
	if p.escaped {
		p.escaped = false
		return 1
	}
	switch b {
	case '\\':
		p.escaped = true
	case '"':
		p.curField = p.matchKey()
		if p.curField == fieldTimestampMs {
			p.resetOnNewTimestamp()
		}
		p.st = stateAfterKey
	default:
		if p.keyLen < maxKeyLen {
			p.keyBuf[p.keyLen] = b
			p.keyLen++
		} else {
			p.keyOverflow = true
		}
	}
	return 1
}

func (p *Parser) matchKey() field {
	if p.keyOverflow {
		return fieldNone
	}
	key := p.keyBuf[:p.keyLen]
	switch string(key) {
	case "timestampMs":
		return fieldTimestampMs
	case "latitudeE7":
		return fieldLatitudeE7
	case "longitudeE7":
		return fieldLongitudeE7
	case "altitude":
		return fieldAltitude
	case "accuracy":
		return fieldAccuracy
	default:
		return fieldNone
	}
}

func (p *Parser) stepAfterKey(b byte) int {
	if b == ':' {
		p.st = stateScanValue
	}
	return 1
}

// stepScanValue skips leading whitespace, then dispatches on the first
// value byte. Recognised fields are parsed as numbers (quoted or bare);
// everything else is skipped as an opaque scalar. A nested object or
// array value is not skipped opaquely — the parser simply resumes flat
// key scanning inside it, which is what lets it find recognised keys
// nested anywhere in the document without tracking document structure.
func (p *Parser) stepScanValue(b byte) int {
	if isWhitespace(b) {
		return 1
	}

	recognised := p.curField != fieldNone
	switch {
	case b == '"' && recognised:
		p.resetNumAccum()
		p.st = stateInQuotedNumber
	case b == '"':
		p.st = stateSkipString
	case (isDigit(b) || b == '-') && recognised:
		p.resetNumAccum()
		p.st = stateInNumber
		return 0 // reprocess this byte in stateInNumber
	case isDigit(b) || b == '-':
		p.st = stateSkipNumber
		return 0
	case b == '{' || b == '[':
		p.st = stateScanKey
	default:
		// true / false / null, or anything else unrecognised: skip the
		// literal without interpreting it.
		p.st = stateSkipLiteral
		return 0
	}
	return 1
}

func (p *Parser) resetNumAccum() {
	p.numSign = 1
	p.numValue = 0
	p.numHasDigits = false
}

func (p *Parser) stepInNumber(b byte) int {
	switch {
	case b == '-' && !p.numHasDigits && p.numValue == 0:
		p.numSign = -1
		return 1
	case isDigit(b):
		p.numValue = p.numValue*10 + int64(b-'0')
		p.numHasDigits = true
		return 1
	default:
		p.finishNumber()
		p.st = stateScanKey
		return 0
	}
}

func (p *Parser) stepInQuotedNumber(b byte) int {
	switch {
	case b == '-' && !p.numHasDigits && p.numValue == 0:
		p.numSign = -1
	case isDigit(b):
		p.numValue = p.numValue*10 + int64(b-'0')
		p.numHasDigits = true
	case b == '"':
		p.finishNumber()
		p.st = stateScanKey
	default:
		// Tolerate stray characters (e.g. a decimal point) inside a
		// quoted numeric value by simply ignoring them.
	}
	return 1
}

func (p *Parser) finishNumber() {
	if !p.numHasDigits {
		p.curField = fieldNone
		return
	}
	v := p.numSign * p.numValue
	switch p.curField {
	case fieldTimestampMs:
		p.timestampMs = v
		p.hasTimestamp = true
	case fieldLatitudeE7:
		p.latE7 = v
		p.hasLat = true
	case fieldLongitudeE7:
		p.longE7 = v
		p.hasLong = true
	case fieldAltitude:
		p.altitude = v
		p.hasAltitude = true
	case fieldAccuracy:
		p.accuracy = v
		p.hasAccuracy = true
	}
	p.curField = fieldNone
}

func (p *Parser) stepSkipString(b byte) int {
	if p.escaped {
		p.escaped = false
		return 1
	}
	switch b {
	case '\\':
		p.escaped = true
	case '"':
		p.st = stateScanKey
	}
	return 1
}

func (p *Parser) stepSkipLiteral(b byte) int {
	if b == ',' || b == '}' || b == ']' || isWhitespace(b) {
		p.st = stateScanKey
		return 0
	}
	return 1
}

func (p *Parser) stepSkipNumber(b byte) int {
	if isDigit(b) || b == '-' || b == '+' || b == '.' || b == 'e' || b == 'E' {
		return 1
	}
	p.st = stateScanKey
	return 0
}

func (p *Parser) hasAnyField() bool {
	return p.hasTimestamp || p.hasLat || p.hasLong || p.hasAltitude || p.hasAccuracy
}

func (p *Parser) isComplete() bool {
	return p.hasTimestamp && p.hasLat && p.hasLong
}

// resetOnNewTimestamp implements the scratch-state reset rule: a fresh
// timestampMs key always starts a new point. If the point in progress was
// already fully defined this also emits it first; otherwise it is
// silently discarded.
func (p *Parser) resetOnNewTimestamp() {
	if !p.hasAnyField() {
		return
	}
	if p.isComplete() {
		p.emitPending()
		return
	}
	diagf("discarding partial point: new timestampMs key arrived first")
	p.resetPending()
}

func (p *Parser) resetPending() {
	p.hasTimestamp, p.hasLat, p.hasLong, p.hasAltitude, p.hasAccuracy = false, false, false, false, false
	p.timestampMs, p.latE7, p.longE7, p.altitude, p.accuracy = 0, 0, 0, 0, 0
}

// emitPending builds a Point from the pending fields, applies the
// configured filters, and resets the scratch state. Called only when
// isComplete() holds.
func (p *Parser) emitPending() {
	autoClamp := p.tuning.GetAutoClamp()

	t, ok := p.resolveTimestamp(autoClamp)
	if !ok {
		opsf("discarding point: timestamp %dms out of range", p.timestampMs)
		p.resetPending()
		return
	}
	lat, long, ok := p.resolveLatLong(autoClamp)
	if !ok {
		opsf("discarding point: coordinates (%d, %d) out of range", p.latE7, p.longE7)
		p.resetPending()
		return
	}

	pt := points.NewPoint(t, lat, long)
	if p.hasAltitude {
		pt = pt.WithAltitude(float64(p.altitude))
	}
	if p.hasAccuracy {
		acc := p.resolveAccuracy(autoClamp)
		pt.Kind = points.KindMeasurement
		pt.HasAccuracy = true
		pt.Accuracy = acc
	}

	if dropFilter := p.filterReason(pt); dropFilter != "" {
		tracef("dropping point at t=%d: %s", pt.Time, dropFilter)
		if p.metrics != nil {
			p.metrics.PointsDroppedByFilter.WithLabelValues(dropFilter).Inc()
		}
		p.resetPending()
		return
	}

	p.out = append(p.out, pt)
	p.lastEmittedSet = true
	p.lastEmittedTime = pt.Time
	if p.metrics != nil {
		p.metrics.PointsParsed.Inc()
	}
	p.resetPending()
}

func (p *Parser) resolveTimestamp(autoClamp bool) (gpstime.GpsTime, bool) {
	seconds := p.timestampMs / 1000
	if autoClamp {
		return gpstime.Clamp(seconds), true
	}
	t, err := gpstime.New(seconds)
	if err != nil {
		return 0, false
	}
	return t, true
}

const (
	minLatE7  = -900000000
	maxLatE7  = 900000000
	minLongE7 = -1800000000
	maxLongE7 = 1800000000
)

func clampRange(v, lo, hi int64) int64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

func (p *Parser) resolveLatLong(autoClamp bool) (float64, float64, bool) {
	latE7, longE7 := p.latE7, p.longE7
	if latE7 < minLatE7 || latE7 > maxLatE7 || longE7 < minLongE7 || longE7 > maxLongE7 {
		if !autoClamp {
			return 0, 0, false
		}
		latE7 = clampRange(latE7, minLatE7, maxLatE7)
		longE7 = clampRange(longE7, minLongE7, maxLongE7)
	}
	return float64(latE7) / 1e7, float64(longE7) / 1e7, true
}

func (p *Parser) resolveAccuracy(autoClamp bool) float64 {
	if p.accuracy < 0 && autoClamp {
		return 0
	}
	return float64(p.accuracy)
}

// filterReason returns the name of the filter that rejects pt, or "" if
// pt should be emitted.
func (p *Parser) filterReason(pt points.Point) string {
	if min := p.tuning.GetMinSecondsBetweenDatapoints(); min > 0 && p.lastEmittedSet {
		if int64(pt.Time-p.lastEmittedTime) < min {
			return "min_seconds_between_datapoints"
		}
	}
	if threshold := p.tuning.GetAccuracyThresholdMeters(); threshold >= 0 && pt.HasAccuracy {
		if pt.Accuracy > threshold {
			return "accuracy_threshold"
		}
	}
	return ""
}
