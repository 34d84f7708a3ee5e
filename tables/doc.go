// Package tables detects pseudo-tables on slides.
//
// A pseudo-table is a set of free positioned text boxes that visually form
// a table but carry no table markup. Screen readers read such boxes one by
// one, losing the row and column relationships.
//
// # Detectors
//
// Detection is performed by types implementing the [Detector] interface.
// The package provides:
//
//   - [GridDetector] - quantizes text box positions into rows and columns
//
// A detector is configured once and reused for every slide:
//
//	detector := tables.NewGridDetector()
//	cfg := tables.DefaultConfig()
//	cfg.RowTolerance = 15
//	if err := detector.Configure(cfg); err != nil {
//	    return err
//	}
//	grids := detector.Detect(slide.Elements)
//
// # Grid Detection
//
// The [GridDetector] works in three steps:
//
//  1. Keep candidates: non-placeholder text boxes, paragraphs and shapes with text
//  2. Cluster candidates into row bands by their top edge
//  3. Join consecutive bands with equal counts and aligned left edges
//
// A run of at least MinRows bands with at least MinCols columns and
// MinElements elements is a grid. Grids are reported only; they are never
// converted into tables.
package tables
