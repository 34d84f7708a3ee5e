package model

import (
	"fmt"
	"strings"
)

// IssueType is the closed taxonomy of accessibility findings.
type IssueType string

const (
	IssueMissingDocumentTitle      IssueType = "missing_document_title"
	IssueMissingLanguage           IssueType = "missing_language"
	IssueMissingAuthor             IssueType = "missing_author"
	IssueMissingSlideTitle         IssueType = "missing_slide_title"
	IssueLowReadingOrderConfidence IssueType = "low_reading_order_confidence"
	IssueOverlappingElements       IssueType = "overlapping_elements"
	IssueMissingAltText            IssueType = "missing_alt_text"
	IssueLowQualityAltText         IssueType = "low_quality_alt_text"
	IssueMissingTableHeaders       IssueType = "missing_table_headers"
	IssueEmptyTableCell            IssueType = "empty_table_cell"
	IssueRaggedTable               IssueType = "ragged_table"
	IssueNonDescriptiveLinkText    IssueType = "non_descriptive_link_text"
	IssuePseudoTable               IssueType = "pseudo_table"
	IssueDecorativeNotMarked       IssueType = "decorative_not_marked"
	IssueFlattenedContent          IssueType = "flattened_content"
	IssueMediaWithoutAlternative   IssueType = "media_without_alternative"
	IssueContrastUnverified        IssueType = "contrast_unverified"
)

// Severity of a finding.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Message is a finding text in German and English.
type Message struct {
	De string `json:"de"`
	En string `json:"en"`
}

// In returns the message for a language tag, preferring German for any
// "de" tag and English otherwise.
func (m Message) In(lang string) string {
	if strings.HasPrefix(strings.ToLower(lang), "de") {
		return m.De
	}
	return m.En
}

// AccessibilityIssue is a single finding. Issues are never modified after
// creation.
type AccessibilityIssue struct {
	ID          string      `json:"id"`
	Type        IssueType   `json:"type"`
	Severity    Severity    `json:"severity"`
	SlideNumber int         `json:"slideNumber,omitempty"`
	ElementID   string      `json:"elementId,omitempty"`
	ElementType ElementType `json:"elementType,omitempty"`
	Message     Message     `json:"message"`
	WCAG        string      `json:"wcag,omitempty"`
	PDFUA       string      `json:"pdfua,omitempty"`
	AutoFixable bool        `json:"autoFixable"`
	Context     string      `json:"context,omitempty"`
}

// IssueID derives an issue id from the check type, slide number and element
// id. Slide 0 denotes a document-level issue.
func IssueID(t IssueType, slide int, elementID string) string {
	switch {
	case slide <= 0:
		return fmt.Sprintf("%s:doc", t)
	case elementID == "":
		return fmt.Sprintf("%s:s%d", t, slide)
	default:
		return fmt.Sprintf("%s:s%d:%s", t, slide, elementID)
	}
}

// NewIssue creates an issue with its id already derived. el may be nil.
func NewIssue(t IssueType, sev Severity, slide int, el *SlideElement, msg Message) AccessibilityIssue {
	is := AccessibilityIssue{
		Type:        t,
		Severity:    sev,
		SlideNumber: slide,
		Message:     msg,
	}
	if el != nil {
		is.ElementID = el.ID
		is.ElementType = el.Type
	}
	is.ID = IssueID(t, slide, is.ElementID)
	return is
}

// WithRefs returns a copy carrying WCAG and PDF/UA references.
func (is AccessibilityIssue) WithRefs(wcag, pdfua string) AccessibilityIssue {
	is.WCAG = wcag
	is.PDFUA = pdfua
	return is
}

// WithContext returns a copy carrying free-text context.
func (is AccessibilityIssue) WithContext(format string, args ...interface{}) AccessibilityIssue {
	is.Context = fmt.Sprintf(format, args...)
	return is
}

// Fixable returns a copy marked as auto-fixable.
func (is AccessibilityIssue) Fixable() AccessibilityIssue {
	is.AutoFixable = true
	return is
}
