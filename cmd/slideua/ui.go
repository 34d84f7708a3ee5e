package main

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/report"
)

// UI writes human-readable status lines. In JSON mode it stays silent so
// that only the JSON document reaches stdout.
type UI struct {
	w        io.Writer
	jsonMode bool
}

func newUI(w io.Writer, jsonMode bool) *UI {
	return &UI{w: w, jsonMode: jsonMode}
}

func (ui *UI) print(attr color.Attribute, mark, format string, args ...interface{}) {
	if ui.jsonMode {
		return
	}
	color.New(attr).Fprintf(ui.w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}

// Success prints a success message.
func (ui *UI) Success(format string, args ...interface{}) {
	ui.print(color.FgGreen, "✓", format, args...)
}

// Error prints an error message.
func (ui *UI) Error(format string, args ...interface{}) {
	ui.print(color.FgRed, "✗", format, args...)
}

// Warning prints a warning message.
func (ui *UI) Warning(format string, args ...interface{}) {
	ui.print(color.FgYellow, "⚠", format, args...)
}

// Info prints an info message.
func (ui *UI) Info(format string, args ...interface{}) {
	ui.print(color.FgCyan, "ℹ", format, args...)
}

// Verdict prints the score and conformance line followed by one line per
// error.
func (ui *UI) Verdict(r *report.AccessibilityReport, lang string) {
	if ui.jsonMode {
		return
	}
	de := lang == "de"
	c := r.Conformance
	line := fmt.Sprintf("Score %d/%d, WCAG %s, BITV %s", r.Score, report.MaxScore, c.WCAG, yesNo(c.BITV, de))
	if c.PDFUA != "" {
		line += ", " + c.PDFUA
	}
	if r.Passed() {
		ui.Success("%s", line)
	} else {
		ui.Error("%s", line)
	}

	for _, is := range r.Issues {
		msg := is.Message.En
		if de && is.Message.De != "" {
			msg = is.Message.De
		}
		where := ""
		if is.SlideNumber > 0 {
			where = fmt.Sprintf(" [%s %d]", slideLabel(de), is.SlideNumber)
		}
		switch is.Severity {
		case model.SeverityError:
			ui.Error("%s%s", msg, where)
		case model.SeverityWarning:
			ui.Warning("%s%s", msg, where)
		}
	}
}

func yesNo(ok, de bool) string {
	switch {
	case ok && de:
		return "ja"
	case ok:
		return "yes"
	case de:
		return "nein"
	}
	return "no"
}

func slideLabel(de bool) string {
	if de {
		return "Folie"
	}
	return "slide"
}
