package layout

import (
	"math"
	"sort"

	"github.com/tsawler/slideua/model"
)

// ReadingDirection indicates the primary reading direction of a document
type ReadingDirection int

const (
	// LeftToRight is the default for most Western languages
	LeftToRight ReadingDirection = iota
	// RightToLeft is used for Arabic, Hebrew, etc.
	RightToLeft
)

// String returns a string representation of the reading direction
func (d ReadingDirection) String() string {
	if d == RightToLeft {
		return "rtl"
	}
	return "ltr"
}

// DirectionForLanguage returns RightToLeft for scripts written right to
// left and LeftToRight otherwise.
func DirectionForLanguage(tag string) ReadingDirection {
	if len(tag) < 2 {
		return LeftToRight
	}
	switch tag[:2] {
	case "ar", "he", "fa", "ur", "yi":
		return RightToLeft
	}
	return LeftToRight
}

// Confidence penalties and floor.
const (
	PenaltyOverlap       = 0.2
	PenaltyGrouped       = 0.1
	PenaltyLowDiversity  = 0.2
	MinimumConfidence    = 0.3
	DefaultRowTolerance  = 20.0
	DefaultSpanningRatio = 0.7
)

// ReadingOrderConfig holds configuration for reading order detection
type ReadingOrderConfig struct {
	// Direction is the primary reading direction
	Direction ReadingDirection

	// RowTolerance is the height of a row band in points. Elements whose
	// tops lie within one band of the band's first element share a row.
	RowTolerance float64

	// SpanningThreshold is the minimum width ratio for an element to be
	// considered spanning in column-aware ordering.
	// Default: 0.7 (content spanning 70%+ of slide width is considered spanning)
	SpanningThreshold float64
}

// DefaultReadingOrderConfig returns sensible default configuration
func DefaultReadingOrderConfig() ReadingOrderConfig {
	return ReadingOrderConfig{
		Direction:         LeftToRight,
		RowTolerance:      DefaultRowTolerance,
		SpanningThreshold: DefaultSpanningRatio,
	}
}

// ReadingOrderResult holds the result of reading order analysis
type ReadingOrderResult struct {
	// IDs are the element ids in reading order.
	IDs []string

	// Confidence is in [MinimumConfidence, 1] for non-empty slides.
	Confidence float64

	// Bands is the number of distinct row bands found.
	Bands int

	// Overlaps lists each overlapping element pair once.
	Overlaps [][2]string
}

// ReadingOrderDetector determines the reading order of slide elements
type ReadingOrderDetector struct {
	config ReadingOrderConfig
}

// NewReadingOrderDetector creates a new reading order detector with default configuration
func NewReadingOrderDetector() *ReadingOrderDetector {
	return &ReadingOrderDetector{
		config: DefaultReadingOrderConfig(),
	}
}

// NewReadingOrderDetectorWithConfig creates a reading order detector with custom configuration
func NewReadingOrderDetectorWithConfig(config ReadingOrderConfig) *ReadingOrderDetector {
	if config.RowTolerance <= 0 {
		config.RowTolerance = DefaultRowTolerance
	}
	if config.SpanningThreshold <= 0 {
		config.SpanningThreshold = DefaultSpanningRatio
	}
	return &ReadingOrderDetector{
		config: config,
	}
}

// headingRank puts titles before subtitles before everything else.
func headingRank(t model.ElementType) int {
	switch t {
	case model.ElementTitle:
		return 0
	case model.ElementSubtitle:
		return 1
	default:
		return 2
	}
}

// Detect orders elements title first, then subtitle, then by row band from
// top to bottom and within a band along the reading direction.
func (d *ReadingOrderDetector) Detect(elements []*model.SlideElement) *ReadingOrderResult {
	result := &ReadingOrderResult{Confidence: 1}
	if len(elements) == 0 {
		return result
	}

	bands := d.assignBands(elements)

	idx := make([]int, len(elements))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool {
		ea, eb := elements[idx[a]], elements[idx[b]]
		if ra, rb := headingRank(ea.Type), headingRank(eb.Type); ra != rb {
			return ra < rb
		}
		if ba, bb := bands[idx[a]], bands[idx[b]]; ba != bb {
			return ba < bb
		}
		if ea.Position.X != eb.Position.X {
			if d.config.Direction == RightToLeft {
				return ea.Position.Right() > eb.Position.Right()
			}
			return ea.Position.X < eb.Position.X
		}
		return ea.Position.Z < eb.Position.Z
	})

	result.IDs = make([]string, len(idx))
	for i, k := range idx {
		result.IDs[i] = elements[k].ID
	}

	distinct := make(map[int]bool)
	for _, b := range bands {
		distinct[b] = true
	}
	result.Bands = len(distinct)
	result.Overlaps = FindOverlaps(elements)
	result.Confidence = d.confidence(elements, result)
	return result
}

// assignBands clusters elements into row bands by their top edge.
func (d *ReadingOrderDetector) assignBands(elements []*model.SlideElement) []int {
	byY := make([]int, len(elements))
	for i := range byY {
		byY[i] = i
	}
	sort.SliceStable(byY, func(a, b int) bool {
		return elements[byY[a]].Position.Y < elements[byY[b]].Position.Y
	})

	bands := make([]int, len(elements))
	band := 0
	start := elements[byY[0]].Position.Y
	for _, k := range byY {
		y := elements[k].Position.Y
		if y-start > d.config.RowTolerance {
			band++
			start = y
		}
		bands[k] = band
	}
	return bands
}

func (d *ReadingOrderDetector) confidence(elements []*model.SlideElement, r *ReadingOrderResult) float64 {
	c := 1.0
	if len(r.Overlaps) > 0 {
		c -= PenaltyOverlap
	}
	for _, e := range elements {
		if e.IsGrouped {
			c -= PenaltyGrouped
			break
		}
	}
	if lowDiversity(len(elements), r.Bands) {
		c -= PenaltyLowDiversity
	}
	c = math.Round(c*100) / 100
	if c < MinimumConfidence {
		c = MinimumConfidence
	}
	return c
}

// lowDiversity reports fewer distinct row bands than half the element
// count once a slide holds at least three elements.
func lowDiversity(elements, bands int) bool {
	return elements >= 3 && float64(bands) < float64(elements)/2
}

// FindOverlaps returns every pair of elements whose boxes share area, in
// element order.
func FindOverlaps(elements []*model.SlideElement) [][2]string {
	var out [][2]string
	for i := 0; i < len(elements); i++ {
		for j := i + 1; j < len(elements); j++ {
			if elements[i].Position.Overlaps(elements[j].Position) {
				out = append(out, [2]string{elements[i].ID, elements[j].ID})
			}
		}
	}
	return out
}

// Detect is a convenience function using the default configuration.
func Detect(elements []*model.SlideElement) *ReadingOrderResult {
	return NewReadingOrderDetector().Detect(elements)
}
