package report

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// Sheet names of the XLSX export.
const (
	SheetIssues  = "Issues"
	SheetSummary = "Summary"
)

// XLSX writes the issue list and the summary as a workbook. Column headers
// and messages use the given language.
func (r *AccessibilityReport) XLSX(w io.Writer, lang string) error {
	l := labelsFor(lang)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetIssues); err != nil {
		return fmt.Errorf("naming issue sheet: %w", err)
	}
	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("creating header style: %w", err)
	}

	header := []interface{}{"ID", l.slide, l.severity, l.typ, l.element, l.wcag, "PDF/UA", l.message, "Context", "Auto-fix"}
	if err := f.SetSheetRow(SheetIssues, "A1", &header); err != nil {
		return fmt.Errorf("writing issue header: %w", err)
	}
	if err := f.SetCellStyle(SheetIssues, "A1", "J1", bold); err != nil {
		return fmt.Errorf("styling issue header: %w", err)
	}
	for i, is := range r.Issues {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		row := []interface{}{
			is.ID,
			is.SlideNumber,
			l.severities[is.Severity],
			string(is.Type),
			is.ElementID,
			is.WCAG,
			is.PDFUA,
			is.Message.In(lang),
			is.Context,
			is.AutoFixable,
		}
		if err := f.SetSheetRow(SheetIssues, cell, &row); err != nil {
			return fmt.Errorf("writing issue %s: %w", is.ID, err)
		}
	}
	if err := f.SetColWidth(SheetIssues, "H", "H", 80); err != nil {
		return fmt.Errorf("sizing message column: %w", err)
	}

	if _, err := f.NewSheet(SheetSummary); err != nil {
		return fmt.Errorf("adding summary sheet: %w", err)
	}
	pdfua := r.Conformance.PDFUA
	if pdfua == "" {
		pdfua = "-"
	}
	summary := [][]interface{}{
		{l.report, r.DocumentTitle},
		{l.timestamp, r.Timestamp.Format("2006-01-02 15:04:05 MST")},
		{l.profile, r.Profile},
		{l.score, r.Score},
		{l.errors, r.Summary.Errors},
		{l.warnings, r.Summary.Warnings},
		{l.info, r.Summary.Info},
		{"WCAG 2.1", string(r.Conformance.WCAG)},
		{"PDF/UA", pdfua},
		{"BITV 2.0", l.bitv(r.Conformance.BITV)},
	}
	for i, row := range summary {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("writing summary: %w", err)
		}
	}
	if err := f.SetColWidth(SheetSummary, "A", "A", 30); err != nil {
		return fmt.Errorf("sizing summary column: %w", err)
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("writing workbook: %w", err)
	}
	return nil
}
