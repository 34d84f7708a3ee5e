package tables

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/tsawler/slideua/model"
)

// GridDetector finds pseudo-tables: free text elements whose positions
// quantize into a grid of aligned rows and columns.
type GridDetector struct {
	config Config
}

// NewGridDetector creates a new grid detector with default settings
func NewGridDetector() *GridDetector {
	return &GridDetector{config: DefaultConfig()}
}

// Name returns the detector name
func (gd *GridDetector) Name() string {
	return "grid"
}

// Configure sets detector parameters. Non-positive values keep their
// defaults.
func (gd *GridDetector) Configure(config Config) error {
	def := DefaultConfig()
	if config.MinElements <= 0 {
		config.MinElements = def.MinElements
	}
	if config.MinRows <= 0 {
		config.MinRows = def.MinRows
	}
	if config.MinCols <= 0 {
		config.MinCols = def.MinCols
	}
	if config.RowTolerance <= 0 {
		config.RowTolerance = def.RowTolerance
	}
	if config.ColumnTolerance <= 0 {
		config.ColumnTolerance = def.ColumnTolerance
	}
	gd.config = config
	return nil
}

// Grid is one detected pseudo-table. Cells[r][c] is the element in row r
// and column c.
type Grid struct {
	Rows  int
	Cols  int
	Cells [][]*model.SlideElement
	BBox  model.Position
}

// IDs returns the element ids row by row.
func (g *Grid) IDs() []string {
	ids := make([]string, 0, g.Rows*g.Cols)
	for _, row := range g.Cells {
		for _, e := range row {
			ids = append(ids, e.ID)
		}
	}
	return ids
}

// Anchor is the id of the top-left element. Issues about the grid are
// attached to it.
func (g *Grid) Anchor() string {
	if len(g.Cells) == 0 || len(g.Cells[0]) == 0 {
		return ""
	}
	return g.Cells[0][0].ID
}

// TableData renders the grid's texts as table data without header
// markup. Pseudo-tables are reported, never converted.
func (g *Grid) TableData() *model.TableData {
	cells := make([][]model.TableCell, len(g.Cells))
	for r, row := range g.Cells {
		cells[r] = make([]model.TableCell, len(row))
		for c, e := range row {
			cells[r][c] = model.TableCell{
				Text:    strings.TrimSpace(e.Content.Text),
				RowSpan: 1,
				ColSpan: 1,
			}
		}
	}
	return model.NewTableData(cells, true, false, false)
}

// IsCandidate reports whether an element can take part in a pseudo-table:
// visible free text that is not a placeholder, a heading or real table.
func IsCandidate(e *model.SlideElement) bool {
	if e.IsDecorative || e.Placeholder != "" || !e.Content.HasText() {
		return false
	}
	switch e.Type {
	case model.ElementTextBox, model.ElementParagraph, model.ElementShape:
		return true
	}
	return false
}

// rowBand is a run of candidates whose tops lie within the row tolerance.
type rowBand struct {
	Top      float64
	Elements []*model.SlideElement
}

// Detect returns the pseudo-tables among the elements, top to bottom.
func (gd *GridDetector) Detect(elements []*model.SlideElement) []*Grid {
	var candidates []*model.SlideElement
	for _, e := range elements {
		if IsCandidate(e) {
			candidates = append(candidates, e)
		}
	}
	if len(candidates) < gd.config.MinElements {
		return nil
	}

	bands := gd.groupRows(candidates)

	var grids []*Grid
	start := 0
	for start < len(bands) {
		end := start + 1
		for end < len(bands) && gd.aligned(bands[start], bands[end]) {
			end++
		}
		if g := gd.buildGrid(bands[start:end]); g != nil {
			grids = append(grids, g)
		}
		start = end
	}
	return grids
}

// groupRows clusters candidates by their top edge. Each band is measured
// from its first element and sorted left to right.
func (gd *GridDetector) groupRows(elements []*model.SlideElement) []rowBand {
	sorted := make([]*model.SlideElement, len(elements))
	copy(sorted, elements)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Position.Y < sorted[j].Position.Y
	})

	var bands []rowBand
	current := rowBand{Top: sorted[0].Position.Y, Elements: []*model.SlideElement{sorted[0]}}
	for _, e := range sorted[1:] {
		if e.Position.Y-current.Top <= gd.config.RowTolerance {
			current.Elements = append(current.Elements, e)
			continue
		}
		bands = append(bands, current)
		current = rowBand{Top: e.Position.Y, Elements: []*model.SlideElement{e}}
	}
	bands = append(bands, current)

	for i := range bands {
		els := bands[i].Elements
		sort.SliceStable(els, func(a, b int) bool {
			return els[a].Position.X < els[b].Position.X
		})
	}
	return bands
}

// aligned reports whether two bands have the same element count and their
// columns start at the same horizontal positions.
func (gd *GridDetector) aligned(a, b rowBand) bool {
	if len(a.Elements) != len(b.Elements) || len(a.Elements) < gd.config.MinCols {
		return false
	}
	for i := range a.Elements {
		if math.Abs(a.Elements[i].Position.X-b.Elements[i].Position.X) > gd.config.ColumnTolerance {
			return false
		}
	}
	return true
}

// buildGrid turns a run of aligned bands into a grid when it is large
// enough.
func (gd *GridDetector) buildGrid(bands []rowBand) *Grid {
	if len(bands) < gd.config.MinRows {
		return nil
	}
	cols := len(bands[0].Elements)
	if cols < gd.config.MinCols || len(bands)*cols < gd.config.MinElements {
		return nil
	}

	g := &Grid{
		Rows:  len(bands),
		Cols:  cols,
		Cells: make([][]*model.SlideElement, len(bands)),
		BBox:  bands[0].Elements[0].Position,
	}
	for r, band := range bands {
		g.Cells[r] = band.Elements
		for _, e := range band.Elements {
			g.BBox = g.BBox.Union(e.Position)
		}
	}
	return g
}

// Issue builds the pseudo_table finding for a grid on a slide. The issue
// is keyed to the grid's anchor element, so detecting the same grid twice
// yields the same id.
func (g *Grid) Issue(slide int) model.AccessibilityIssue {
	anchor := g.Cells[0][0]
	msg := model.Message{
		De: fmt.Sprintf("%d Textfelder sind wie eine Tabelle mit %d Zeilen und %d Spalten angeordnet, haben aber keine Tabellenstruktur. Verwenden Sie eine echte Tabelle.", g.Rows*g.Cols, g.Rows, g.Cols),
		En: fmt.Sprintf("%d text boxes are laid out like a table with %d rows and %d columns but carry no table structure. Use a real table.", g.Rows*g.Cols, g.Rows, g.Cols),
	}
	return model.NewIssue(model.IssuePseudoTable, model.SeverityWarning, slide, anchor, msg).
		WithRefs("1.3.1", "7.5").
		WithContext("%dx%d: %s", g.Rows, g.Cols, strings.Join(g.IDs(), ", "))
}

// DetectGrids is a convenience function using the default configuration.
func DetectGrids(elements []*model.SlideElement) []*Grid {
	return NewGridDetector().Detect(elements)
}
