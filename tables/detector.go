package tables

import "github.com/tsawler/slideua/model"

// Detector finds pseudo-tables among a slide's elements. The parser and
// the validator each take one, so both can be given the same settings.
type Detector interface {
	Detect(elements []*model.SlideElement) []*Grid
	Name() string
	Configure(config Config) error
}

// Config holds detector configuration
type Config struct {
	// Minimum number of text elements in a grid
	MinElements int

	// Minimum row bands
	MinRows int

	// Minimum columns per band
	MinCols int

	// Maximum distance between tops of elements in the same row (points)
	RowTolerance float64

	// Maximum distance between left edges of elements in the same column (points)
	ColumnTolerance float64
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		MinElements:     4,
		MinRows:         2,
		MinCols:         2,
		RowTolerance:    20.0,
		ColumnTolerance: 20.0,
	}
}
