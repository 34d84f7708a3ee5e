package report

import (
	"fmt"
	"strings"

	"github.com/tsawler/slideua/model"
)

// recommendations are listed in the order they are shown.
var recommendations = []struct {
	typ model.IssueType
	msg model.Message
}{
	{model.IssueMissingDocumentTitle, model.Message{
		De: "Tragen Sie in den Dokumenteigenschaften einen aussagekräftigen Titel ein.",
		En: "Enter a meaningful title in the document properties.",
	}},
	{model.IssueMissingLanguage, model.Message{
		De: "Legen Sie die Dokumentsprache fest (Überprüfen > Sprache).",
		En: "Set the document language (Review > Language).",
	}},
	{model.IssueMissingAltText, model.Message{
		De: "Ergänzen Sie Alternativtexte für alle Bilder, Diagramme und SmartArt-Grafiken oder markieren Sie sie als dekorativ.",
		En: "Add alternative text to every picture, chart and SmartArt graphic, or mark it as decorative.",
	}},
	{model.IssueLowQualityAltText, model.Message{
		De: "Ersetzen Sie Dateinamen und allgemeine Wörter im Alternativtext durch eine Beschreibung des Bildinhalts.",
		En: "Replace file names and generic words in alternative text with a description of what the image shows.",
	}},
	{model.IssueMissingSlideTitle, model.Message{
		De: "Geben Sie jeder Folie einen eindeutigen Titel, auch wenn er ausgeblendet ist.",
		En: "Give every slide a unique title, even if it is hidden.",
	}},
	{model.IssueLowReadingOrderConfidence, model.Message{
		De: "Prüfen Sie die Lesereihenfolge im Auswahlbereich (Start > Anordnen > Auswahlbereich).",
		En: "Check the reading order in the selection pane (Home > Arrange > Selection Pane).",
	}},
	{model.IssueMissingTableHeaders, model.Message{
		De: "Aktivieren Sie für Tabellen die Option Kopfzeile.",
		En: "Turn on the Header Row option for tables.",
	}},
	{model.IssueRaggedTable, model.Message{
		De: "Gleichen Sie die Zellenzahl aller Tabellenzeilen an.",
		En: "Give every table row the same number of cells.",
	}},
	{model.IssuePseudoTable, model.Message{
		De: "Ersetzen Sie tabellenartig angeordnete Textfelder durch eine echte Tabelle.",
		En: "Replace text boxes arranged like a table with a real table.",
	}},
	{model.IssueNonDescriptiveLinkText, model.Message{
		De: "Formulieren Sie Linktexte so, dass sie das Ziel beschreiben.",
		En: "Write link texts that describe their destination.",
	}},
	{model.IssueMediaWithoutAlternative, model.Message{
		De: "Stellen Sie für Videos und Audio Untertitel oder ein Transkript bereit.",
		En: "Provide captions or a transcript for video and audio.",
	}},
	{model.IssueFlattenedContent, model.Message{
		De: "Beschreiben Sie die Struktur von SmartArt-Grafiken im Alternativtext oder im Folientext.",
		En: "Describe the structure of SmartArt graphics in the alternative text or on the slide.",
	}},
	{model.IssueDecorativeNotMarked, model.Message{
		De: "Markieren Sie reine Schmuckgrafiken als dekorativ.",
		En: "Mark purely decorative graphics as decorative.",
	}},
	{model.IssueContrastUnverified, model.Message{
		De: "Prüfen Sie den Kontrast heller Schrift mit einem Kontrastanalysewerkzeug.",
		En: "Check the contrast of light text with a contrast analyser.",
	}},
}

// Recommend returns one recommendation for every issue type present.
func Recommend(issues []model.AccessibilityIssue) []model.Message {
	present := make(map[model.IssueType]bool)
	for _, is := range issues {
		present[is.Type] = true
	}
	var out []model.Message
	for _, rec := range recommendations {
		if present[rec.typ] {
			out = append(out, rec.msg)
		}
	}
	return out
}

// Summarize renders the short German and English summaries of a report.
func Summarize(r *AccessibilityReport) Text {
	return Text{De: summarize(r, "de"), En: summarize(r, "en")}
}

func summarize(r *AccessibilityReport, lang string) string {
	l := labelsFor(lang)
	var b strings.Builder

	title := r.DocumentTitle
	if title == "" {
		title = l.untitled
	}
	fmt.Fprintf(&b, "%s „%s“: %d %s, %d %s, %d %s.",
		l.checked, title,
		r.Summary.Errors, l.errors,
		r.Summary.Warnings, l.warnings,
		r.Summary.Info, l.info)
	fmt.Fprintf(&b, " %s %d/%d.", l.score, r.Score, MaxScore)

	if r.Conformance.WCAG == LevelNone {
		fmt.Fprintf(&b, " %s", l.wcagNone)
	} else {
		fmt.Fprintf(&b, " %s %s.", l.wcagLevel, r.Conformance.WCAG)
	}
	if r.Conformance.BITV {
		fmt.Fprintf(&b, " %s", l.bitvYes)
	} else {
		fmt.Fprintf(&b, " %s", l.bitvNo)
	}
	if r.Summary.AutoFixable > 0 {
		fmt.Fprintf(&b, " "+l.fixable, r.Summary.AutoFixable)
	}
	return b.String()
}

// labels holds the fixed phrases of the text renderings.
type labels struct {
	checked, untitled                   string
	errors, warnings, info              string
	score, wcagLevel, wcagNone          string
	bitvYes, bitvNo, fixable            string
	report, timestamp, profile          string
	conformance, conformant, notConform string
	slide, severity, typ, element       string
	message, wcag, document, none       string
	recommendations, readingOrder       string
	severities                          map[model.Severity]string
}

var german = labels{
	checked:         "Geprüft",
	untitled:        "Ohne Titel",
	errors:          "Fehler",
	warnings:        "Warnungen",
	info:            "Hinweise",
	score:           "Punktzahl",
	wcagLevel:       "WCAG 2.1 Konformitätsstufe",
	wcagNone:        "Die WCAG-2.1-Kriterien werden nicht erfüllt.",
	bitvYes:         "BITV 2.0: konform.",
	bitvNo:          "BITV 2.0: nicht konform.",
	fixable:         "%d Probleme können automatisch behoben werden.",
	report:          "Barrierefreiheitsbericht",
	timestamp:       "Zeitpunkt",
	profile:         "Profil",
	conformance:     "Konformität",
	conformant:      "konform",
	notConform:      "nicht konform",
	slide:           "Folie",
	severity:        "Schwere",
	typ:             "Typ",
	element:         "Element",
	message:         "Meldung",
	wcag:            "WCAG",
	document:        "Dokument",
	none:            "Keine Probleme gefunden.",
	recommendations: "Empfehlungen",
	readingOrder:    "Lesereihenfolge",
	severities: map[model.Severity]string{
		model.SeverityError:   "Fehler",
		model.SeverityWarning: "Warnung",
		model.SeverityInfo:    "Hinweis",
	},
}

var english = labels{
	checked:         "Checked",
	untitled:        "Untitled",
	errors:          "errors",
	warnings:        "warnings",
	info:            "notices",
	score:           "Score",
	wcagLevel:       "WCAG 2.1 conformance level",
	wcagNone:        "The WCAG 2.1 criteria are not met.",
	bitvYes:         "BITV 2.0: conformant.",
	bitvNo:          "BITV 2.0: not conformant.",
	fixable:         "%d issues can be fixed automatically.",
	report:          "Accessibility report",
	timestamp:       "Timestamp",
	profile:         "Profile",
	conformance:     "Conformance",
	conformant:      "conformant",
	notConform:      "not conformant",
	slide:           "Slide",
	severity:        "Severity",
	typ:             "Type",
	element:         "Element",
	message:         "Message",
	wcag:            "WCAG",
	document:        "Document",
	none:            "No issues found.",
	recommendations: "Recommendations",
	readingOrder:    "Reading order",
	severities: map[model.Severity]string{
		model.SeverityError:   "error",
		model.SeverityWarning: "warning",
		model.SeverityInfo:    "info",
	},
}

func labelsFor(lang string) labels {
	if strings.HasPrefix(strings.ToLower(lang), "de") {
		return german
	}
	return english
}

// bitv renders the BITV verdict word.
func (l labels) bitv(ok bool) string {
	if ok {
		return l.conformant
	}
	return l.notConform
}

// where renders an issue location.
func (l labels) where(is model.AccessibilityIssue) string {
	if is.SlideNumber <= 0 {
		return l.document
	}
	return fmt.Sprintf("%d", is.SlideNumber)
}
