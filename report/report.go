// Package report holds the accessibility report produced by validation and
// renders it as JSON, bilingual text, HTML and XLSX.
//
// Every rendering is derived from one [AccessibilityReport] value, so counts,
// issues and the conformance verdict never differ between forms.
package report

import (
	"encoding/json"
	"time"

	"github.com/tsawler/slideua/model"
)

// WCAGLevel is the WCAG 2.1 conformance level reached.
type WCAGLevel string

const (
	LevelAAA  WCAGLevel = "AAA"
	LevelAA   WCAGLevel = "AA"
	LevelA    WCAGLevel = "A"
	LevelNone WCAGLevel = "none"
)

// PDFUALevel is the PDF/UA part a document can claim.
const PDFUALevel = "PDF/UA-1"

// Scoring weights.
const (
	MaxScore       = 100
	ErrorPenalty   = 15
	WarningPenalty = 5
	InfoPenalty    = 1
	// MaxErrorsForA is the largest error count still rated level A.
	MaxErrorsForA = 3
)

// Summary counts the deduplicated issues.
type Summary struct {
	Total       int `json:"total"`
	Errors      int `json:"errors"`
	Warnings    int `json:"warnings"`
	Info        int `json:"info"`
	AutoFixable int `json:"autoFixable"`
}

// Conformance is the verdict derived from the summary.
type Conformance struct {
	WCAG WCAGLevel `json:"wcag"`
	// PDFUA is PDFUALevel when the document has no errors and "" otherwise.
	PDFUA string `json:"pdfua"`
	BITV  bool   `json:"bitv"`
}

// SlideConfidence is the reading order confidence of one slide.
type SlideConfidence struct {
	Slide      int     `json:"slide"`
	Confidence float64 `json:"confidence"`
	Fixed      bool    `json:"fixed,omitempty"`
}

// Text is a rendered summary in German and English.
type Text struct {
	De string `json:"de"`
	En string `json:"en"`
}

// AccessibilityReport is the outcome of one validation run. It is not
// modified after [New] returns it.
type AccessibilityReport struct {
	Timestamp       time.Time                  `json:"timestamp"`
	DocumentTitle   string                     `json:"documentTitle"`
	Language        string                     `json:"language,omitempty"`
	Profile         string                     `json:"profile"`
	Summary         Summary                    `json:"summary"`
	Issues          []model.AccessibilityIssue `json:"issues"`
	Conformance     Conformance                `json:"conformance"`
	Score           int                        `json:"score"`
	ReadingOrder    []SlideConfidence          `json:"readingOrder,omitempty"`
	Recommendations []model.Message            `json:"recommendations,omitempty"`
	Overview        Text                       `json:"text"`
}

// Input is what a report is built from.
type Input struct {
	Timestamp     time.Time
	DocumentTitle string
	Language      string
	Profile       string
	Issues        []model.AccessibilityIssue
	ReadingOrder  []SlideConfidence
}

// New deduplicates the issues, counts and scores them, derives the
// conformance verdict and renders the summaries.
func New(in Input) *AccessibilityReport {
	issues := Dedupe(in.Issues)
	sum := Count(issues)
	r := &AccessibilityReport{
		Timestamp:       in.Timestamp.UTC(),
		DocumentTitle:   in.DocumentTitle,
		Language:        in.Language,
		Profile:         in.Profile,
		Summary:         sum,
		Issues:          issues,
		Conformance:     Derive(sum),
		Score:           Score(sum),
		ReadingOrder:    append([]SlideConfidence(nil), in.ReadingOrder...),
		Recommendations: Recommend(issues),
	}
	r.Overview = Summarize(r)
	return r
}

// Dedupe keeps the first issue for every id, preserving order.
func Dedupe(issues []model.AccessibilityIssue) []model.AccessibilityIssue {
	seen := make(map[string]bool, len(issues))
	out := make([]model.AccessibilityIssue, 0, len(issues))
	for _, is := range issues {
		if seen[is.ID] {
			continue
		}
		seen[is.ID] = true
		out = append(out, is)
	}
	return out
}

// Count tallies issues by severity.
func Count(issues []model.AccessibilityIssue) Summary {
	s := Summary{Total: len(issues)}
	for _, is := range issues {
		switch is.Severity {
		case model.SeverityError:
			s.Errors++
		case model.SeverityWarning:
			s.Warnings++
		case model.SeverityInfo:
			s.Info++
		}
		if is.AutoFixable {
			s.AutoFixable++
		}
	}
	return s
}

// Score is 100 minus 15 per error, 5 per warning and 1 per info, never
// below 0.
func Score(s Summary) int {
	v := MaxScore - ErrorPenalty*s.Errors - WarningPenalty*s.Warnings - InfoPenalty*s.Info
	if v < 0 {
		return 0
	}
	return v
}

// Derive maps the counts to a verdict: no errors and no warnings is AAA,
// no errors is AA, up to three errors is A, anything else is none.
func Derive(s Summary) Conformance {
	c := Conformance{WCAG: LevelNone}
	switch {
	case s.Errors == 0 && s.Warnings == 0:
		c.WCAG = LevelAAA
	case s.Errors == 0:
		c.WCAG = LevelAA
	case s.Errors <= MaxErrorsForA:
		c.WCAG = LevelA
	}
	if s.Errors == 0 {
		c.PDFUA = PDFUALevel
		c.BITV = true
	}
	return c
}

// Passed reports whether the document meets BITV 2.0.
func (r *AccessibilityReport) Passed() bool {
	return r.Conformance.BITV
}

// IssuesOn returns the issues located on the given slide. Slide 0 returns
// the document-level issues.
func (r *AccessibilityReport) IssuesOn(slide int) []model.AccessibilityIssue {
	var out []model.AccessibilityIssue
	for _, is := range r.Issues {
		if is.SlideNumber == slide {
			out = append(out, is)
		}
	}
	return out
}

// JSON renders the structured form.
func (r *AccessibilityReport) JSON() ([]byte, error) {
	return json.MarshalIndent(r, "", "  ")
}
