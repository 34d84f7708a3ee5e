package enhance

import (
	"fmt"
	"strings"

	"github.com/tsawler/slideua/model"
)

// PatchKind names what a patch changes.
type PatchKind string

const (
	PatchAltText    PatchKind = "alt_text"
	PatchSlideTitle PatchKind = "slide_title"
)

// Patch is one change proposed by a collaborator.
type Patch struct {
	Kind        PatchKind           `json:"kind"`
	SlideNumber int                 `json:"slideNumber"`
	ElementID   string              `json:"elementId,omitempty"`
	Value       string              `json:"value"`
	Status      model.AltTextStatus `json:"status,omitempty"`
}

// titleHeightRatio is the share of the slide height given to an inserted
// title box.
const titleHeightRatio = 0.15

// Apply returns a copy of p with the patches applied in order. p is not
// modified. Patches naming unknown slides or elements are ignored, as are
// alt text patches for elements that already have a description.
func Apply(p *model.Presentation, patches []Patch) *model.Presentation {
	out := p.Clone()
	for _, pt := range patches {
		s := out.Slide(pt.SlideNumber)
		value := strings.TrimSpace(pt.Value)
		if s == nil || value == "" {
			continue
		}
		switch pt.Kind {
		case PatchAltText:
			applyAltText(s, pt, value)
		case PatchSlideTitle:
			applyTitle(out, s, value)
		}
	}
	out.Refresh()
	return out
}

func applyAltText(s *model.Slide, pt Patch, value string) {
	e := s.Element(pt.ElementID)
	if e == nil || e.IsDecorative || strings.TrimSpace(e.Content.AltText) != "" {
		return
	}
	e.Content.AltText = value
	e.Content.AltTextStatus = pt.Status
	if e.Content.AltTextStatus == "" {
		e.Content.AltTextStatus = model.AltTextPresent
	}
}

func applyTitle(p *model.Presentation, s *model.Slide, value string) {
	if s.Title() != "" {
		return
	}
	for _, e := range s.Elements {
		if e.Type == model.ElementTitle {
			e.Content.Text = value
			return
		}
	}

	z := 0
	for _, e := range s.Elements {
		if e.Position.Z >= z {
			z = e.Position.Z + 1
		}
	}
	title := &model.SlideElement{
		ID:           fmt.Sprintf("s%d-title", s.Number),
		Type:         model.ElementTitle,
		SemanticRole: model.RoleH1,
		Name:         "Title",
		Position: model.Position{
			Width:  p.SlideSize.Width,
			Height: p.SlideSize.Height * titleHeightRatio,
			Z:      z,
		},
		Content: model.Content{Text: value},
	}
	s.Elements = append([]*model.SlideElement{title}, s.Elements...)
	s.ReadingOrder = append([]string{title.ID}, s.ReadingOrder...)
}
