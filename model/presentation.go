package model

import (
	"strings"
	"time"
)

// LanguageSource records where a document language came from.
type LanguageSource string

const (
	LanguageFromDocument LanguageSource = "document"
	LanguageFromContent  LanguageSource = "content"
	LanguageFromDefault  LanguageSource = "default"
)

// Metadata represents document metadata
type Metadata struct {
	Title          string         `json:"title"`
	Author         string         `json:"author,omitempty"`
	Subject        string         `json:"subject,omitempty"`
	Keywords       []string       `json:"keywords,omitempty"`
	Language       string         `json:"language"`
	LanguageSource LanguageSource `json:"languageSource,omitempty"`
	Created        time.Time      `json:"created,omitempty"`
	Modified       time.Time      `json:"modified,omitempty"`
	Application    string         `json:"application,omitempty"`
}

// Theme summarizes the presentation theme.
type Theme struct {
	Name      string            `json:"name,omitempty"`
	MajorFont string            `json:"majorFont,omitempty"`
	MinorFont string            `json:"minorFont,omitempty"`
	Colors    map[string]string `json:"colors,omitempty"`
}

// Stats is a rollup derived from the slides. Use [ComputeStats] to build it.
type Stats struct {
	Slides     int `json:"slides"`
	Elements   int `json:"elements"`
	Decorative int `json:"decorative"`
	Images     int `json:"images"`
	Charts     int `json:"charts"`
	SmartArt   int `json:"smartArt"`
	Tables     int `json:"tables"`
	Lists      int `json:"lists"`
	Links      int `json:"links"`
	Media      int `json:"media"`
	Words      int `json:"words"`
}

// ComputeStats counts the content of the given slides.
func ComputeStats(slides []*Slide) Stats {
	st := Stats{Slides: len(slides)}
	for _, s := range slides {
		st.Elements += len(s.Elements)
		st.Decorative += len(s.BackgroundElements)
		for _, e := range s.Elements {
			switch e.Type {
			case ElementImage:
				st.Images++
			case ElementChart:
				st.Charts++
			case ElementSmartArt:
				st.SmartArt++
			case ElementTable:
				st.Tables++
			case ElementList:
				st.Lists++
			}
			if e.Media != nil && e.Media.Kind != MediaImage {
				st.Media++
			}
			st.Links += len(e.Content.Links)
			st.Words += len(strings.Fields(e.Content.Text))
		}
	}
	return st
}

// Slide is one page of the presentation.
type Slide struct {
	Number int    `json:"number"`
	Layout string `json:"layout,omitempty"`
	Hidden bool   `json:"hidden,omitempty"`
	Notes  string `json:"notes,omitempty"`

	Elements           []*SlideElement `json:"elements"`
	BackgroundElements []*SlideElement `json:"backgroundElements,omitempty"`

	ReadingOrder           []string `json:"readingOrder"`
	ReadingOrderConfidence float64  `json:"readingOrderConfidence"`
	// ReadingOrderFixed is set when the order was replaced by an auto-fix.
	ReadingOrderFixed bool `json:"readingOrderFixed,omitempty"`

	Issues []AccessibilityIssue `json:"issues,omitempty"`
}

// Element returns the foreground element with the given id, or nil.
func (s *Slide) Element(id string) *SlideElement {
	for _, e := range s.Elements {
		if e.ID == id {
			return e
		}
	}
	return nil
}

// TitleElement returns the first title element with text, or nil.
func (s *Slide) TitleElement() *SlideElement {
	for _, e := range s.Elements {
		if e.Type == ElementTitle && e.Content.HasText() {
			return e
		}
	}
	return nil
}

// Title returns the slide title text, or "" when the slide has none.
func (s *Slide) Title() string {
	if e := s.TitleElement(); e != nil {
		return strings.Join(strings.Fields(e.Content.Text), " ")
	}
	return ""
}

// OrderedElements returns the foreground elements in reading order. Ids in
// ReadingOrder that name no element are skipped, repeated ids are used once,
// and elements missing from the order follow in encounter order.
func (s *Slide) OrderedElements() []*SlideElement {
	out := make([]*SlideElement, 0, len(s.Elements))
	seen := make(map[string]bool, len(s.Elements))
	for _, id := range s.ReadingOrder {
		if seen[id] {
			continue
		}
		if e := s.Element(id); e != nil {
			out = append(out, e)
			seen[id] = true
		}
	}
	for _, e := range s.Elements {
		if !seen[e.ID] {
			out = append(out, e)
			seen[e.ID] = true
		}
	}
	return out
}

// Clone returns a deep copy of the slide.
func (s *Slide) Clone() *Slide {
	c := *s
	c.Elements = cloneElements(s.Elements)
	c.BackgroundElements = cloneElements(s.BackgroundElements)
	c.ReadingOrder = append([]string(nil), s.ReadingOrder...)
	c.Issues = append([]AccessibilityIssue(nil), s.Issues...)
	return &c
}

func cloneElements(in []*SlideElement) []*SlideElement {
	if in == nil {
		return nil
	}
	out := make([]*SlideElement, len(in))
	for i, e := range in {
		out[i] = e.Clone()
	}
	return out
}

// Presentation is the root of the object model.
type Presentation struct {
	Metadata  Metadata             `json:"metadata"`
	SlideSize Size                 `json:"slideSize"`
	Theme     Theme                `json:"theme"`
	Slides    []*Slide             `json:"slides"`
	Stats     Stats                `json:"stats"`
	Issues    []AccessibilityIssue `json:"issues,omitempty"`
}

// Slide returns the slide with the given 1-based number, or nil.
func (p *Presentation) Slide(number int) *Slide {
	if number < 1 || number > len(p.Slides) {
		return nil
	}
	return p.Slides[number-1]
}

// AllIssues returns document, slide and element issues in model order.
func (p *Presentation) AllIssues() []AccessibilityIssue {
	out := append([]AccessibilityIssue(nil), p.Issues...)
	for _, s := range p.Slides {
		out = append(out, s.Issues...)
		for _, e := range s.Elements {
			out = append(out, e.Issues...)
		}
		for _, e := range s.BackgroundElements {
			out = append(out, e.Issues...)
		}
	}
	return out
}

// Clone returns a deep copy of the presentation.
func (p *Presentation) Clone() *Presentation {
	c := *p
	c.Metadata.Keywords = append([]string(nil), p.Metadata.Keywords...)
	if p.Theme.Colors != nil {
		c.Theme.Colors = make(map[string]string, len(p.Theme.Colors))
		for k, v := range p.Theme.Colors {
			c.Theme.Colors[k] = v
		}
	}
	c.Slides = make([]*Slide, len(p.Slides))
	for i, s := range p.Slides {
		c.Slides[i] = s.Clone()
	}
	c.Issues = append([]AccessibilityIssue(nil), p.Issues...)
	return &c
}

// Refresh recomputes the stats rollup from the slides.
func (p *Presentation) Refresh() {
	p.Stats = ComputeStats(p.Slides)
}
