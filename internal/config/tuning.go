// Package config loads the runtime-tunable parameters for the parser and
// the points-to-stays converter from JSON, the same optional-pointer shape
// used for partial overrides throughout this repository.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// DefaultConfigPath is the canonical location of the tuning defaults file.
const DefaultConfigPath = "config/tuning.defaults.json"

// ParserTuning mirrors the parser's configuration options (spec §6):
// minSecondsBetweenDatapoints, accuracyThreshold, autoClamp.
type ParserTuning struct {
	MinSecondsBetweenDatapoints *int64   `json:"min_seconds_between_datapoints,omitempty"`
	AccuracyThresholdMeters     *float64 `json:"accuracy_threshold_meters,omitempty"`
	AutoClamp                   *bool    `json:"auto_clamp,omitempty"`
	MaxNrChunks                 *int     `json:"max_nr_chunks,omitempty"`
}

// StaysTuning mirrors the points-to-stays converter's configuration
// options: maxTimeGapSeconds, maxDistanceGapMeters.
type StaysTuning struct {
	MaxTimeGapSeconds    *int64   `json:"max_time_gap_seconds,omitempty"`
	MaxDistanceGapMeters *float64 `json:"max_distance_gap_meters,omitempty"`
}

// EmptyParserTuning returns a ParserTuning with every field unset.
func EmptyParserTuning() *ParserTuning { return &ParserTuning{} }

// EmptyStaysTuning returns a StaysTuning with every field unset.
func EmptyStaysTuning() *StaysTuning { return &StaysTuning{} }

// LoadParserTuning loads a ParserTuning from a JSON file. Fields omitted
// from the file keep their documented defaults, so partial configs are
// safe to ship.
func LoadParserTuning(path string) (*ParserTuning, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	cfg := EmptyParserTuning()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse parser config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid parser configuration: %w", err)
	}
	return cfg, nil
}

// LoadStaysTuning loads a StaysTuning from a JSON file.
func LoadStaysTuning(path string) (*StaysTuning, error) {
	data, err := readConfigFile(path)
	if err != nil {
		return nil, err
	}
	cfg := EmptyStaysTuning()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse stays config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid stays configuration: %w", err)
	}
	return cfg, nil
}

// readConfigFile validates the path (must be .json, under 1MB) and returns
// its contents.
func readConfigFile(path string) ([]byte, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fileInfo, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}
	const maxFileSize = 1 * 1024 * 1024 // 1MB
	if fileInfo.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fileInfo.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	return data, nil
}

// Validate checks that any set fields are within their valid domain.
func (c *ParserTuning) Validate() error {
	if c.MinSecondsBetweenDatapoints != nil && *c.MinSecondsBetweenDatapoints < 0 {
		return fmt.Errorf("min_seconds_between_datapoints must be non-negative, got %d", *c.MinSecondsBetweenDatapoints)
	}
	if c.AccuracyThresholdMeters != nil && *c.AccuracyThresholdMeters < 0 {
		return fmt.Errorf("accuracy_threshold_meters must be non-negative, got %f", *c.AccuracyThresholdMeters)
	}
	if c.MaxNrChunks != nil && *c.MaxNrChunks < 1 {
		return fmt.Errorf("max_nr_chunks must be positive, got %d", *c.MaxNrChunks)
	}
	return nil
}

// Validate checks that any set fields are within their valid domain.
func (c *StaysTuning) Validate() error {
	if c.MaxTimeGapSeconds != nil && *c.MaxTimeGapSeconds <= 0 {
		return fmt.Errorf("max_time_gap_seconds must be positive, got %d", *c.MaxTimeGapSeconds)
	}
	if c.MaxDistanceGapMeters != nil && *c.MaxDistanceGapMeters <= 0 {
		return fmt.Errorf("max_distance_gap_meters must be positive, got %f", *c.MaxDistanceGapMeters)
	}
	return nil
}

// GetMinSecondsBetweenDatapoints returns the configured threshold, or 0
// (no thinning) if unset.
func (c *ParserTuning) GetMinSecondsBetweenDatapoints() int64 {
	if c.MinSecondsBetweenDatapoints == nil {
		return 0
	}
	return *c.MinSecondsBetweenDatapoints
}

// GetAccuracyThresholdMeters returns the configured threshold, or -1 (no
// filtering) if unset.
func (c *ParserTuning) GetAccuracyThresholdMeters() float64 {
	if c.AccuracyThresholdMeters == nil {
		return -1
	}
	return *c.AccuracyThresholdMeters
}

// GetAutoClamp returns the auto-clamp flag, defaulting to true.
func (c *ParserTuning) GetAutoClamp() bool {
	if c.AutoClamp == nil {
		return true
	}
	return *c.AutoClamp
}

// GetMaxNrChunks returns the max chunk count for the multithreaded file
// driver, defaulting to 8.
func (c *ParserTuning) GetMaxNrChunks() int {
	if c.MaxNrChunks == nil {
		return 8
	}
	return *c.MaxNrChunks
}

// GetMaxTimeGapSeconds returns the configured gap, defaulting to 120s.
func (c *StaysTuning) GetMaxTimeGapSeconds() int64 {
	if c.MaxTimeGapSeconds == nil {
		return 120
	}
	return *c.MaxTimeGapSeconds
}

// GetMaxDistanceGapMeters returns the configured gap, defaulting to 50m.
func (c *StaysTuning) GetMaxDistanceGapMeters() float64 {
	if c.MaxDistanceGapMeters == nil {
		return 50
	}
	return *c.MaxDistanceGapMeters
}
