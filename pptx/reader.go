// Package pptx reconstructs a semantic presentation model from a PPTX
// (Office Open XML PresentationML) package.
package pptx

import (
	"encoding/xml"
	"fmt"
	"path"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/tsawler/slideua/format"
	"github.com/tsawler/slideua/layout"
	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/opc"
	"github.com/tsawler/slideua/tables"
)

// EMUs per point. Positions are converted to points on a top-left origin.
const emuPerPoint = 12700.0

// Slide size used when presentation.xml declares none (16:9 at 96 dpi).
const (
	defaultSlideWidth  = 960.0
	defaultSlideHeight = 540.0
)

// rootMatrix maps slide EMUs to points.
var rootMatrix = model.Scale(1/emuPerPoint, 1/emuPerPoint)

// parser holds the state of one Parse call.
type parser struct {
	pkg      *opc.Package
	opts     options
	order    *layout.ReadingOrderDetector
	grids    tables.Detector
	theme    model.Theme
	layouts  map[string]*layoutInfo
	slideNos map[string]int // lower-cased slide part -> number
	langs    map[string]int // run language -> characters
}

// Parse reads a presentation package and returns its object model. Input
// that is not a readable presentation yields a *MalformedPackageError.
func Parse(data []byte, opts ...Option) (*model.Presentation, error) {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}

	if f := format.DetectBytes(data); !f.IsPresentation() && f != format.Zip {
		return nil, &MalformedPackageError{Reason: reasonForFormat(f), Detected: f}
	}

	pkg, err := opc.Open(data)
	if err != nil {
		return nil, &MalformedPackageError{Reason: ReasonNotZip, Err: err}
	}

	grids := tables.NewGridDetector()
	cfg := tables.DefaultConfig()
	cfg.RowTolerance = o.rowTolerance
	if err := grids.Configure(cfg); err != nil {
		return nil, err
	}

	p := &parser{
		pkg:      pkg,
		opts:     o,
		grids:    grids,
		layouts:  make(map[string]*layoutInfo),
		slideNos: make(map[string]int),
		langs:    make(map[string]int),
	}
	return p.parse()
}

func (p *parser) parse() (*model.Presentation, error) {
	presPart := p.mainPart()
	data, err := p.pkg.Part(presPart)
	if err != nil {
		return nil, &MalformedPackageError{Reason: ReasonMissingPart, Part: presPart, Err: err}
	}

	var pres presentationXML
	if err := xml.Unmarshal(data, &pres); err != nil {
		return nil, &MalformedPackageError{Reason: ReasonInvalidPart, Part: presPart, Err: err}
	}

	parts, err := p.slideParts(presPart, &pres)
	if err != nil {
		return nil, err
	}
	if len(parts) == 0 {
		return nil, &MalformedPackageError{Reason: ReasonNoSlides, Part: presPart}
	}
	for i, part := range parts {
		p.slideNos[strings.ToLower(part)] = i + 1
	}

	out := &model.Presentation{SlideSize: slideSize(pres.SlideSz)}
	p.theme = p.parseTheme(presPart)
	out.Theme = p.theme
	out.Metadata = p.parseMetadata()

	lang := out.Metadata.Language
	if lang == "" {
		lang = p.opts.language()
	}
	p.order = layout.NewReadingOrderDetectorWithConfig(layout.ReadingOrderConfig{
		Direction:    layout.DirectionForLanguage(lang),
		RowTolerance: p.opts.rowTolerance,
	})

	for i, part := range parts {
		s, err := p.parseSlide(part, i+1, out.SlideSize)
		if err != nil {
			return nil, err
		}
		out.Slides = append(out.Slides, s)
	}

	p.resolveLanguage(&out.Metadata)
	out.Refresh()
	return out, nil
}

// mainPart returns the presentation part named by the package
// relationships, falling back to the conventional name.
func (p *parser) mainPart() string {
	if target := p.relTarget("", "/officeDocument"); target != "" {
		return target
	}
	return "ppt/presentation.xml"
}

// relTarget resolves the first relationship of a type from a source part.
func (p *parser) relTarget(source, relType string) string {
	rels, err := p.pkg.Relationships(source)
	if err != nil {
		return ""
	}
	for _, r := range rels.ByType(relType) {
		if !r.External() {
			return opc.ResolveTarget(source, r.Target)
		}
	}
	return ""
}

// slideParts returns the slide parts in declared order. Without a slide id
// list, slides relate to the presentation in part-number order.
func (p *parser) slideParts(presPart string, pres *presentationXML) ([]string, error) {
	rels, err := p.pkg.Relationships(presPart)
	if err != nil {
		return nil, &MalformedPackageError{Reason: ReasonInvalidPart, Part: opc.RelsPath(presPart), Err: err}
	}

	var parts []string
	if pres.SlideIdList != nil && len(pres.SlideIdList.SlideId) > 0 {
		for _, id := range pres.SlideIdList.SlideId {
			rel, ok := rels.ByID(id.RID)
			if !ok {
				return nil, &MalformedPackageError{
					Reason: ReasonInvalidPart,
					Part:   presPart,
					Err:    fmt.Errorf("slide relationship %q not found", id.RID),
				}
			}
			part := opc.ResolveTarget(presPart, rel.Target)
			if !p.pkg.Has(part) {
				return nil, &MalformedPackageError{Reason: ReasonMissingPart, Part: part}
			}
			parts = append(parts, part)
		}
		return parts, nil
	}

	for _, rel := range rels.ByType("/slide") {
		if part := opc.ResolveTarget(presPart, rel.Target); p.pkg.Has(part) {
			parts = append(parts, part)
		}
	}
	if len(parts) == 0 {
		for _, name := range p.pkg.Parts() {
			if slidePartPattern.MatchString(name) {
				parts = append(parts, name)
			}
		}
	}
	sort.SliceStable(parts, func(i, j int) bool {
		return partNumber(parts[i]) < partNumber(parts[j])
	})
	return parts, nil
}

var slidePartPattern = regexp.MustCompile(`(?i)^ppt/slides/slide\d+\.xml$`)

// partNumber extracts the trailing number from a part like
// "ppt/slides/slide12.xml".
func partNumber(name string) int {
	base := strings.TrimSuffix(path.Base(name), path.Ext(name))
	i := len(base)
	for i > 0 && base[i-1] >= '0' && base[i-1] <= '9' {
		i--
	}
	n, _ := strconv.Atoi(base[i:])
	return n
}

// slideSize converts the declared slide size to points.
func slideSize(sz *sizeXML) model.Size {
	if sz == nil || sz.Cx <= 0 || sz.Cy <= 0 {
		return model.Size{Width: defaultSlideWidth, Height: defaultSlideHeight}
	}
	return model.Size{
		Width:  float64(sz.Cx) / emuPerPoint,
		Height: float64(sz.Cy) / emuPerPoint,
	}
}

// parseTheme summarizes the presentation theme. A missing or unreadable
// theme leaves the summary empty.
func (p *parser) parseTheme(presPart string) model.Theme {
	var theme model.Theme
	part := p.relTarget(presPart, "/theme")
	if part == "" {
		return theme
	}
	data, err := p.pkg.Part(part)
	if err != nil {
		return theme
	}
	var tx themeXML
	if err := xml.Unmarshal(data, &tx); err != nil {
		return theme
	}

	theme.Name = tx.Name
	theme.MajorFont = tx.ThemeElements.FontScheme.MajorFont.Latin.Typeface
	theme.MinorFont = tx.ThemeElements.FontScheme.MinorFont.Latin.Typeface
	for _, c := range tx.ThemeElements.ClrScheme.Colors {
		var hex string
		switch {
		case c.SrgbClr != nil:
			hex = c.SrgbClr.Val
		case c.SysClr != nil:
			hex = c.SysClr.LastClr
		}
		if hex == "" {
			continue
		}
		if theme.Colors == nil {
			theme.Colors = make(map[string]string)
		}
		theme.Colors[c.XMLName.Local] = strings.ToUpper(hex)
	}
	return theme
}
