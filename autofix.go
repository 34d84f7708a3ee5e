package slideua

import (
	"strings"

	"github.com/tsawler/slideua/layout"
	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/profile"
	"github.com/tsawler/slideua/validate"
)

// FixKind names an automatic repair.
type FixKind string

const (
	FixDocumentTitle    FixKind = "document_title"
	FixLanguage         FixKind = "language"
	FixReadingOrder     FixKind = "reading_order"
	FixTableHeaders     FixKind = "table_headers"
	FixDecorativeShapes FixKind = "decorative_shapes"
)

// Fix records one repair made to the generated document.
type Fix struct {
	Kind        FixKind `json:"kind"`
	SlideNumber int     `json:"slideNumber,omitempty"`
	ElementID   string  `json:"elementId,omitempty"`
	Detail      string  `json:"detail,omitempty"`
}

// AutoFix returns a copy of p with the repairs switched on in prof applied,
// and the list of repairs made. p is not modified.
func AutoFix(p *model.Presentation, prof profile.Profile) (*model.Presentation, []Fix) {
	out := p.Clone()
	var fixes []Fix

	if prof.AutoFix.DocumentTitle && strings.TrimSpace(out.Metadata.Title) == "" {
		for _, s := range out.Slides {
			if t := s.Title(); t != "" {
				out.Metadata.Title = t
				fixes = append(fixes, Fix{Kind: FixDocumentTitle, SlideNumber: s.Number, Detail: t})
				break
			}
		}
	}

	// A default language is written as /Lang like a declared one.
	if lang := strings.TrimSpace(out.Metadata.Language); len(lang) < 2 {
		out.Metadata.Language = prof.Language()
		out.Metadata.LanguageSource = model.LanguageFromDefault
		fixes = append(fixes, Fix{Kind: FixLanguage, Detail: out.Metadata.Language})
	} else if out.Metadata.LanguageSource == model.LanguageFromDefault {
		fixes = append(fixes, Fix{Kind: FixLanguage, Detail: lang})
	}

	threshold := prof.ReadingOrderThreshold
	if threshold <= 0 {
		threshold = validate.DefaultReadingOrderThreshold
	}
	detector := layout.NewReadingOrderDetectorWithConfig(layout.ReadingOrderConfig{
		Direction: layout.DirectionForLanguage(out.Metadata.Language),
	})

	for _, s := range out.Slides {
		if prof.AutoFix.DecorativeShapes {
			fixes = append(fixes, demoteShapes(s)...)
		}

		if prof.AutoFix.TableHeaders {
			for _, e := range s.Elements {
				if t := e.Table; t != nil && t.Rows > 1 && !t.HasHeaderRow && !t.HasHeaderColumn {
					t.SetHeaderRow(true)
					fixes = append(fixes, Fix{Kind: FixTableHeaders, SlideNumber: s.Number, ElementID: e.ID})
				}
			}
		}

		if prof.AutoFix.ReadingOrder && len(s.Elements) > 1 && !s.ReadingOrderFixed && s.ReadingOrderConfidence < threshold {
			ids, _ := detector.DetectColumns(s.Elements, out.SlideSize.Width)
			s.ReadingOrder = ids
			s.ReadingOrderFixed = true
			fixes = append(fixes, Fix{Kind: FixReadingOrder, SlideNumber: s.Number, Detail: strings.Join(ids, ",")})
		}
	}

	out.Refresh()
	return out, fixes
}

// demoteShapes moves plain shapes without text, alt text or data to the
// slide background, where they are drawn as artifacts.
func demoteShapes(s *model.Slide) []Fix {
	var fixes []Fix
	kept := s.Elements[:0:0]
	for _, e := range s.Elements {
		if !decorativeShape(e) {
			kept = append(kept, e)
			continue
		}
		e.IsDecorative = true
		e.SemanticRole = model.RoleArtifact
		e.Content.AltTextStatus = model.AltTextDecorative
		s.BackgroundElements = append(s.BackgroundElements, e)
		fixes = append(fixes, Fix{Kind: FixDecorativeShapes, SlideNumber: s.Number, ElementID: e.ID})
	}
	if len(fixes) == 0 {
		return nil
	}
	s.Elements = kept

	order := s.ReadingOrder[:0:0]
	for _, id := range s.ReadingOrder {
		if s.Element(id) != nil {
			order = append(order, id)
		}
	}
	s.ReadingOrder = order
	return fixes
}

func decorativeShape(e *model.SlideElement) bool {
	return e.Type == model.ElementShape &&
		!e.Content.HasText() &&
		strings.TrimSpace(e.Content.AltText) == "" &&
		len(e.Content.Links) == 0 &&
		e.Table == nil && e.List == nil && e.Media == nil
}
