// Package model provides the object model that a parsed presentation is
// reconstructed into.
//
// The parser produces these types, the validator reads them and the tagged
// document generator renders them. Nothing in this package performs I/O.
//
// # Presentation Structure
//
// A [Presentation] owns its [Metadata], a [Theme] summary, a [Stats] rollup
// and an ordered list of [Slide] values. Slide numbers are 1-based and
// contiguous in the package's declared slide order.
//
// Each [Slide] keeps two element lists:
//
//   - Elements - foreground content that carries semantics
//   - BackgroundElements - decorative content rendered as artifacts
//
// together with a computed ReadingOrder and its confidence score. Use
// [Slide.OrderedElements] to walk the elements in reading order; elements
// missing from the order are appended in encounter order and never dropped.
//
// # Elements
//
// A [SlideElement] has a closed [ElementType], the [SemanticRole] it will be
// tagged with, an absolute [Position] in points, its [Content] (flattened
// text, runs, alternative text and links) and optional [TableData],
// [ListData] and [Media] payloads.
//
// # Issues
//
// Accessibility findings are plain data. Every [AccessibilityIssue] has an id
// built by [IssueID] from the check type, slide number and element id only,
// so re-running a check over the same input always yields the same ids.
//
// # Geometry
//
//   - [Position] - element box with z-order, overlap and union helpers
//   - [Point] - 2D point with distance calculation
//   - [Matrix] - 2D affine transformation matrix used for group transforms
package model
