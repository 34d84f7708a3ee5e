package model

import (
	"fmt"
	"strings"
)

// CellScope tells assistive technology which cells a header cell labels.
type CellScope string

const (
	ScopeNone   CellScope = ""
	ScopeRow    CellScope = "Row"
	ScopeColumn CellScope = "Column"
	ScopeBoth   CellScope = "Both"
)

// TableCell represents a single table cell
type TableCell struct {
	Text     string    `json:"text"`
	IsHeader bool      `json:"isHeader,omitempty"`
	Scope    CellScope `json:"scope,omitempty"`
	RowSpan  int       `json:"rowSpan,omitempty"`
	ColSpan  int       `json:"colSpan,omitempty"`
	// Merged marks a cell covered by a neighbour's row or column span.
	Merged bool `json:"merged,omitempty"`
}

// IsEmpty returns true if the cell has no visible text
func (c TableCell) IsEmpty() bool {
	return strings.TrimSpace(c.Text) == ""
}

// TableData holds a table's cells in row-major order.
//
// Rows always equals len(Cells) and Columns equals the length of the first
// row. Later rows may be shorter or longer; see [TableData.IsRagged].
type TableData struct {
	Rows            int           `json:"rows"`
	Columns         int           `json:"columns"`
	Cells           [][]TableCell `json:"cells"`
	HasHeaderRow    bool          `json:"hasHeaderRow"`
	HasHeaderColumn bool          `json:"hasHeaderColumn"`
	// ExplicitHeaders is true when the header flags came from table markup
	// rather than the first-row heuristic.
	ExplicitHeaders bool `json:"explicitHeaders,omitempty"`
}

// NewTableData builds a table from rows of cells and marks header cells.
// The first row is the header row and no column is a header column unless
// explicit is true, in which case headerRow and headerCol are taken as given.
func NewTableData(cells [][]TableCell, explicit, headerRow, headerCol bool) *TableData {
	t := &TableData{Cells: cells, ExplicitHeaders: explicit}
	t.Rows = len(cells)
	if t.Rows > 0 {
		t.Columns = len(cells[0])
	}
	if explicit {
		t.HasHeaderRow = headerRow && t.Rows > 0
		t.HasHeaderColumn = headerCol && t.Columns > 0
	} else {
		t.HasHeaderRow = t.Rows > 0
	}
	t.markHeaders()
	return t
}

// SetHeaderRow switches the first-row header flag and re-marks cell scopes.
func (t *TableData) SetHeaderRow(on bool) {
	t.HasHeaderRow = on && t.Rows > 0
	t.markHeaders()
}

func (t *TableData) markHeaders() {
	for i := range t.Cells {
		for j := range t.Cells[i] {
			c := &t.Cells[i][j]
			rowHeader := t.HasHeaderRow && i == 0
			colHeader := t.HasHeaderColumn && j == 0
			c.IsHeader = rowHeader || colHeader
			switch {
			case rowHeader && colHeader:
				c.Scope = ScopeBoth
			case rowHeader:
				c.Scope = ScopeColumn
			case colHeader:
				c.Scope = ScopeRow
			default:
				c.Scope = ScopeNone
			}
		}
	}
}

// IsRagged reports whether any row differs in length from the first.
func (t *TableData) IsRagged() bool {
	for _, row := range t.Cells {
		if len(row) != t.Columns {
			return true
		}
	}
	return false
}

// EmptyCells returns the row/column coordinates of every empty, unmerged
// cell.
func (t *TableData) EmptyCells() [][2]int {
	var out [][2]int
	for i, row := range t.Cells {
		for j, c := range row {
			if !c.Merged && c.IsEmpty() {
				out = append(out, [2]int{i, j})
			}
		}
	}
	return out
}

// Text returns the table as tab-separated lines.
func (t *TableData) Text() string {
	var sb strings.Builder
	for i, row := range t.Cells {
		for j, cell := range row {
			sb.WriteString(cell.Text)
			if j < len(row)-1 {
				sb.WriteString("\t")
			}
		}
		if i < len(t.Cells)-1 {
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// ToMarkdown converts the table to markdown format
func (t *TableData) ToMarkdown() string {
	if t.Rows == 0 || t.Columns == 0 {
		return ""
	}

	var sb strings.Builder
	for i, row := range t.Cells {
		sb.WriteString("|")
		for j := 0; j < t.Columns; j++ {
			text := ""
			if j < len(row) {
				text = strings.ReplaceAll(row[j].Text, "|", "\\|")
				text = strings.ReplaceAll(text, "\n", " ")
			}
			sb.WriteString(fmt.Sprintf(" %s |", text))
		}
		sb.WriteString("\n")
		if i == 0 {
			sb.WriteString("|")
			for j := 0; j < t.Columns; j++ {
				sb.WriteString(" --- |")
			}
			sb.WriteString("\n")
		}
	}
	return sb.String()
}

// Clone returns a deep copy of the table.
func (t *TableData) Clone() *TableData {
	c := *t
	c.Cells = make([][]TableCell, len(t.Cells))
	for i, row := range t.Cells {
		c.Cells[i] = append([]TableCell(nil), row...)
	}
	return &c
}

// ListItem is one entry of a list.
type ListItem struct {
	Text  string `json:"text"`
	Level int    `json:"level"`
	// Label is the bullet or number drawn before the item.
	Label string `json:"label,omitempty"`
}

// ListData holds the items of a list element.
type ListData struct {
	Ordered bool       `json:"ordered"`
	Items   []ListItem `json:"items"`
}
