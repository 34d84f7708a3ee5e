package layout

import (
	"sort"

	"github.com/tsawler/slideua/model"
)

// SectionType indicates the type of reading section
type SectionType int

const (
	SectionSpanning SectionType = iota // Full-width content (titles, banners)
	SectionColumn                      // Column content
)

// String returns a string representation of the section type
func (t SectionType) String() string {
	if t == SectionSpanning {
		return "spanning"
	}
	return "column"
}

// ReadingSection is a run of elements read together: one spanning element
// or one column of elements.
type ReadingSection struct {
	Type     SectionType
	Elements []*model.SlideElement
	BBox     model.Position
}

// DetectColumns orders elements section by section: headings first, then
// spanning elements and columns ordered top to bottom, with sections at the
// same vertical level ordered along the reading direction. Elements inside
// a column are read top to bottom.
func (d *ReadingOrderDetector) DetectColumns(elements []*model.SlideElement, slideWidth float64) ([]string, []ReadingSection) {
	var headings, body []*model.SlideElement
	for _, e := range elements {
		if headingRank(e.Type) < 2 {
			headings = append(headings, e)
		} else {
			body = append(body, e)
		}
	}
	sort.SliceStable(headings, func(i, j int) bool {
		return headingRank(headings[i].Type) < headingRank(headings[j].Type)
	})

	sections := d.buildSections(body, slideWidth)
	d.orderSections(sections)

	ids := make([]string, 0, len(elements))
	for _, e := range headings {
		ids = append(ids, e.ID)
	}
	for _, s := range sections {
		for _, e := range s.Elements {
			ids = append(ids, e.ID)
		}
	}
	return ids, sections
}

// buildSections splits spanning elements from the rest and clusters the
// rest into columns of horizontally overlapping elements.
func (d *ReadingOrderDetector) buildSections(elements []*model.SlideElement, slideWidth float64) []ReadingSection {
	var sections []ReadingSection
	var rest []*model.SlideElement

	for _, e := range elements {
		if slideWidth > 0 && e.Position.Width >= slideWidth*d.config.SpanningThreshold {
			sections = append(sections, ReadingSection{
				Type:     SectionSpanning,
				Elements: []*model.SlideElement{e},
				BBox:     e.Position,
			})
			continue
		}
		rest = append(rest, e)
	}

	sort.SliceStable(rest, func(i, j int) bool {
		return rest[i].Position.Left() < rest[j].Position.Left()
	})

	var current *ReadingSection
	for _, e := range rest {
		if current != nil && e.Position.Left() < current.BBox.Right() {
			current.Elements = append(current.Elements, e)
			current.BBox = current.BBox.Union(e.Position)
			continue
		}
		if current != nil {
			sections = append(sections, *current)
		}
		current = &ReadingSection{
			Type:     SectionColumn,
			Elements: []*model.SlideElement{e},
			BBox:     e.Position,
		}
	}
	if current != nil {
		sections = append(sections, *current)
	}

	for i := range sections {
		els := sections[i].Elements
		sort.SliceStable(els, func(a, b int) bool {
			if els[a].Position.Y != els[b].Position.Y {
				return els[a].Position.Y < els[b].Position.Y
			}
			return els[a].Position.X < els[b].Position.X
		})
	}
	return sections
}

// orderSections sorts sections top first. Spanning sections at a similar
// level come before columns, and sections overlapping vertically by more
// than half the smaller height are ordered along the reading direction.
func (d *ReadingOrderDetector) orderSections(sections []ReadingSection) {
	if len(sections) <= 1 {
		return
	}

	sort.SliceStable(sections, func(i, j int) bool {
		si, sj := sections[i], sections[j]
		tol := d.config.RowTolerance / 2

		if si.Type == SectionSpanning && sj.Type == SectionColumn && si.BBox.Top() <= sj.BBox.Top()+tol {
			return true
		}
		if sj.Type == SectionSpanning && si.Type == SectionColumn && sj.BBox.Top() <= si.BBox.Top()+tol {
			return false
		}

		overlap := minFloat64(si.BBox.Bottom(), sj.BBox.Bottom()) - maxFloat64(si.BBox.Top(), sj.BBox.Top())
		minHeight := minFloat64(si.BBox.Height, sj.BBox.Height)
		if minHeight > 0 && overlap > minHeight*0.5 {
			if d.config.Direction == RightToLeft {
				return si.BBox.Right() > sj.BBox.Right()
			}
			return si.BBox.X < sj.BBox.X
		}

		return si.BBox.Top() < sj.BBox.Top()
	})
}

// minFloat64 returns the smaller of two float64 values
func minFloat64(a, b float64) float64 {
	if a < b {
		return a
	}
	return b
}

// maxFloat64 returns the larger of two float64 values
func maxFloat64(a, b float64) float64 {
	if a > b {
		return a
	}
	return b
}
