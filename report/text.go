package report

import (
	"fmt"
	"strings"

	"github.com/mattn/go-runewidth"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// maxMessageWidth wraps long messages in the issue table.
const maxMessageWidth = 72

// Text renders the line-oriented report in German for any "de" tag and in
// English otherwise.
func (r *AccessibilityReport) Text(lang string) string {
	l := labelsFor(lang)
	var b strings.Builder

	title := r.DocumentTitle
	if title == "" {
		title = l.untitled
	}
	fmt.Fprintf(&b, "%s: %s\n", l.report, title)
	fmt.Fprintf(&b, "%s: %s\n", l.timestamp, r.Timestamp.Format("2006-01-02 15:04:05 MST"))
	fmt.Fprintf(&b, "%s: %s\n", l.profile, r.Profile)
	fmt.Fprintf(&b, "%s: %d/%d\n", l.score, r.Score, MaxScore)
	pdfua := r.Conformance.PDFUA
	if pdfua == "" {
		pdfua = "-"
	}
	fmt.Fprintf(&b, "%s: WCAG 2.1 %s | PDF/UA %s | BITV 2.0 %s\n",
		l.conformance, r.Conformance.WCAG, pdfua, l.bitv(r.Conformance.BITV))
	caser := cases.Title(language.Und)
	fmt.Fprintf(&b, "%s %d | %s %d | %s %d\n",
		caser.String(l.errors), r.Summary.Errors,
		caser.String(l.warnings), r.Summary.Warnings,
		caser.String(l.info), r.Summary.Info)
	b.WriteString("\n")

	if len(r.Issues) == 0 {
		b.WriteString(l.none)
		b.WriteString("\n")
	} else {
		rows := [][]string{{l.slide, l.severity, l.typ, l.element, l.wcag, l.message}}
		for _, is := range r.Issues {
			rows = append(rows, []string{
				l.where(is),
				l.severities[is.Severity],
				string(is.Type),
				is.ElementID,
				is.WCAG,
				is.Message.In(lang),
			})
		}
		writeTable(&b, rows)
	}

	if len(r.ReadingOrder) > 0 {
		fmt.Fprintf(&b, "\n%s:\n", l.readingOrder)
		for _, sc := range r.ReadingOrder {
			fmt.Fprintf(&b, "  %s %d: %.2f", l.slide, sc.Slide, sc.Confidence)
			if sc.Fixed {
				b.WriteString(" *")
			}
			b.WriteString("\n")
		}
	}

	if len(r.Recommendations) > 0 {
		fmt.Fprintf(&b, "\n%s:\n", l.recommendations)
		for _, rec := range r.Recommendations {
			fmt.Fprintf(&b, "  - %s\n", rec.In(lang))
		}
	}

	b.WriteString("\n")
	if strings.HasPrefix(strings.ToLower(lang), "de") {
		b.WriteString(r.Overview.De)
	} else {
		b.WriteString(r.Overview.En)
	}
	b.WriteString("\n")
	return b.String()
}

// writeTable pads every column to its widest cell by display width. The
// last column is wrapped instead of padded.
func writeTable(b *strings.Builder, rows [][]string) {
	cols := len(rows[0])
	widths := make([]int, cols)
	for _, row := range rows {
		for i := 0; i < cols-1; i++ {
			if w := runewidth.StringWidth(row[i]); w > widths[i] {
				widths[i] = w
			}
		}
	}
	indent := 0
	for i := 0; i < cols-1; i++ {
		indent += widths[i] + 2
	}

	for n, row := range rows {
		for i := 0; i < cols-1; i++ {
			b.WriteString(runewidth.FillRight(row[i], widths[i]))
			b.WriteString("  ")
		}
		for k, line := range wrap(row[cols-1], maxMessageWidth) {
			if k > 0 {
				b.WriteString("\n")
				b.WriteString(strings.Repeat(" ", indent))
			}
			b.WriteString(line)
		}
		b.WriteString("\n")
		if n == 0 {
			b.WriteString(strings.Repeat("-", indent+maxMessageWidth))
			b.WriteString("\n")
		}
	}
}

// wrap breaks s into lines of at most width display columns at spaces.
func wrap(s string, width int) []string {
	words := strings.Fields(s)
	if len(words) == 0 {
		return []string{""}
	}
	var lines []string
	line := words[0]
	for _, w := range words[1:] {
		if runewidth.StringWidth(line)+1+runewidth.StringWidth(w) > width {
			lines = append(lines, line)
			line = w
			continue
		}
		line += " " + w
	}
	return append(lines, line)
}
