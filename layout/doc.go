// Package layout reconstructs reading order on a slide from element
// positions.
//
// # Band Ordering
//
// The [ReadingOrderDetector] sorts titles first, then subtitles, then the
// remaining elements by row band from top to bottom and within a band from
// left to right (right to left for RTL languages):
//
//	result := layout.Detect(slide.Elements)
//	slide.ReadingOrder = result.IDs
//	slide.ReadingOrderConfidence = result.Confidence
//
// # Confidence
//
// Confidence starts at 1.0 and is reduced when boxes overlap, when grouped
// shapes are present and when there are few distinct row bands for the
// number of elements. It never drops below [MinimumConfidence]. The score is
// advisory and never blocks generation.
//
// # Column-Aware Ordering
//
// [ReadingOrderDetector.DetectColumns] is used to repair low-confidence
// slides. It separates spanning elements from columns of horizontally
// overlapping elements and reads each column from top to bottom.
package layout
