package validate

import (
	"fmt"
	"strings"

	"github.com/tsawler/slideua/layout"
	"github.com/tsawler/slideua/model"
)

// document checks the document properties.
func (r *run) document(p *model.Presentation) {
	md := p.Metadata

	if strings.TrimSpace(md.Title) == "" {
		is := model.NewIssue(model.IssueMissingDocumentTitle, model.SeverityError, 0, nil, model.Message{
			De: "Das Dokument hat keinen Titel. Tragen Sie in den Dokumenteigenschaften einen Titel ein.",
			En: "The document has no title. Enter a title in the document properties.",
		}).WithRefs("2.4.2", "7.1")
		if r.prof.AutoFix.DocumentTitle && firstSlideTitle(p) != "" {
			is = is.Fixable().WithContext("first slide title: %s", firstSlideTitle(p))
		}
		r.add(is)
	}

	lang := strings.TrimSpace(md.Language)
	switch {
	case len(lang) < 2:
		r.add(model.NewIssue(model.IssueMissingLanguage, model.SeverityError, 0, nil, model.Message{
			De: "Die Dokumentsprache ist nicht festgelegt.",
			En: "The document language is not set.",
		}).WithRefs("3.1.1", "7.2"))
	case md.LanguageSource == model.LanguageFromDefault:
		r.add(model.NewIssue(model.IssueMissingLanguage, model.SeverityError, 0, nil, model.Message{
			De: fmt.Sprintf("Das Dokument gibt keine Sprache an. Es wird %s angenommen.", lang),
			En: fmt.Sprintf("The document declares no language. %s is assumed.", lang),
		}).WithRefs("3.1.1", "7.2").Fixable().WithContext("default %s", lang))
	}

	if strings.TrimSpace(md.Author) == "" {
		r.add(model.NewIssue(model.IssueMissingAuthor, model.SeverityInfo, 0, nil, model.Message{
			De: "Das Dokument nennt keinen Autor.",
			En: "The document names no author.",
		}))
	}
}

func firstSlideTitle(p *model.Presentation) string {
	for _, s := range p.Slides {
		if t := s.Title(); t != "" {
			return t
		}
	}
	return ""
}

// slide checks the slide title and reading order.
func (r *run) slide(s *model.Slide) {
	if s.Title() == "" {
		r.add(model.NewIssue(model.IssueMissingSlideTitle, model.SeverityWarning, s.Number, nil, model.Message{
			De: fmt.Sprintf("Folie %d hat keinen Titel.", s.Number),
			En: fmt.Sprintf("Slide %d has no title.", s.Number),
		}).WithRefs("2.4.6", "7.4"))
	}

	if len(s.Elements) > 1 && !s.ReadingOrderFixed && s.ReadingOrderConfidence < r.threshold {
		is := model.NewIssue(model.IssueLowReadingOrderConfidence, model.SeverityWarning, s.Number, nil, model.Message{
			De: fmt.Sprintf("Die Lesereihenfolge von Folie %d ist unsicher. Prüfen Sie sie im Auswahlbereich.", s.Number),
			En: fmt.Sprintf("The reading order of slide %d is uncertain. Check it in the selection pane.", s.Number),
		}).WithRefs("1.3.2", "7.1").WithContext("confidence %.2f", s.ReadingOrderConfidence)
		if r.prof.AutoFix.ReadingOrder {
			is = is.Fixable()
		}
		r.add(is)
	}

	if pairs := layout.FindOverlaps(s.Elements); len(pairs) > 0 {
		list := make([]string, len(pairs))
		for i, pr := range pairs {
			list[i] = pr[0] + "/" + pr[1]
		}
		r.add(model.NewIssue(model.IssueOverlappingElements, model.SeverityInfo, s.Number, nil, model.Message{
			De: fmt.Sprintf("Auf Folie %d überlappen sich %d Elementpaare. Die Lesereihenfolge kann davon abweichen, was sichtbar ist.", s.Number, len(pairs)),
			En: fmt.Sprintf("%d element pairs overlap on slide %d. The reading order may differ from what is visible.", len(pairs), s.Number),
		}).WithRefs("1.3.2", "").WithContext("%s", strings.Join(list, ", ")))
	}
}

// background flags background pictures that are not marked decorative.
func (r *run) background(s *model.Slide, e *model.SlideElement) {
	if e.IsDecorative || e.Media == nil || e.Type != model.ElementImage {
		return
	}
	is := model.NewIssue(model.IssueDecorativeNotMarked, model.SeverityInfo, s.Number, e, model.Message{
		De: "Hintergrundbild ist nicht als dekorativ markiert. Es wird als Artefakt ausgegeben.",
		En: "Background picture is not marked decorative. It is exported as an artifact.",
	}).WithRefs("1.1.1", "7.3")
	if e.Media.Part != "" {
		is = is.WithContext("%s", e.Media.Part)
	}
	r.add(is)
}

// table checks header markup, empty cells and row lengths.
func (r *run) table(s *model.Slide, e *model.SlideElement) {
	t := e.Table
	if t.Rows > 1 && !t.HasHeaderRow && !t.HasHeaderColumn {
		is := model.NewIssue(model.IssueMissingTableHeaders, model.SeverityWarning, s.Number, e, model.Message{
			De: "Die Tabelle hat weder eine Kopfzeile noch eine Kopfspalte.",
			En: "The table has neither a header row nor a header column.",
		}).WithRefs("1.3.1", "7.5").WithContext("%dx%d", t.Rows, t.Columns)
		if r.prof.AutoFix.TableHeaders {
			is = is.Fixable()
		}
		r.add(is)
	}

	if empty := t.EmptyCells(); len(empty) > 0 {
		list := make([]string, len(empty))
		for i, rc := range empty {
			list[i] = fmt.Sprintf("r%dc%d", rc[0]+1, rc[1]+1)
		}
		r.add(model.NewIssue(model.IssueEmptyTableCell, model.SeverityInfo, s.Number, e, model.Message{
			De: fmt.Sprintf("Die Tabelle hat %d leere Zellen. Prüfen Sie, ob sie absichtlich leer sind.", len(empty)),
			En: fmt.Sprintf("The table has %d empty cells. Check that they are intentionally blank.", len(empty)),
		}).WithRefs("1.3.1", "").WithContext("%s", strings.Join(list, ", ")))
	}

	if t.IsRagged() {
		r.add(model.NewIssue(model.IssueRaggedTable, model.SeverityWarning, s.Number, e, model.Message{
			De: "Die Zeilen der Tabelle haben unterschiedlich viele Zellen.",
			En: "The table rows have different numbers of cells.",
		}).WithRefs("1.3.1", "7.5"))
	}
}
