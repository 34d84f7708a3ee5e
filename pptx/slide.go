package pptx

import (
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/opc"
)

// layoutInfo is what a slide inherits from its layout and master: the
// layout name and the placeholder boxes, keyed "idx:N" and "type:T".
type layoutInfo struct {
	Name      string
	positions map[string]model.Position
}

// position returns the inherited box for a placeholder, matching by index
// first and by type second.
func (li *layoutInfo) position(ph *phXML) (model.Position, bool) {
	if li == nil || ph == nil {
		return model.Position{}, false
	}
	if ph.Idx != "" {
		if pos, ok := li.positions["idx:"+ph.Idx]; ok {
			return pos, true
		}
	}
	pos, ok := li.positions["type:"+placeholderKey(ph.Type)]
	return pos, ok
}

func (li *layoutInfo) collect(tree *shapeTreeXML) {
	for _, n := range tree.Nodes {
		if n.Sp == nil || n.Sp.NvSpPr.NvPr.Ph == nil || n.Sp.SpPr.Xfrm == nil {
			continue
		}
		ph := n.Sp.NvSpPr.NvPr.Ph
		pos := xfrmPosition(n.Sp.SpPr.Xfrm, rootMatrix)
		if ph.Idx != "" {
			li.positions["idx:"+ph.Idx] = pos
		}
		li.positions["type:"+placeholderKey(ph.Type)] = pos
	}
}

// placeholderKey folds placeholder types that share geometry.
func placeholderKey(t string) string {
	switch t {
	case "ctrTitle":
		return "title"
	case "", "obj":
		return "body"
	}
	return t
}

// placeholderType returns the placeholder type of a shape. A placeholder
// without a type attribute is an object placeholder.
func placeholderType(ph *phXML) string {
	if ph == nil {
		return ""
	}
	if ph.Type == "" {
		return "obj"
	}
	return ph.Type
}

// layoutFor loads, once per layout part, what a slide inherits.
func (p *parser) layoutFor(slidePart string) *layoutInfo {
	part := p.relTarget(slidePart, "/slideLayout")
	if part == "" {
		return nil
	}
	key := strings.ToLower(part)
	if li, ok := p.layouts[key]; ok {
		return li
	}

	li := &layoutInfo{positions: make(map[string]model.Position)}
	p.layouts[key] = li

	var lx layoutXML
	if !p.readXML(part, &lx) {
		return li
	}
	if master := p.relTarget(part, "/slideMaster"); master != "" {
		var mx layoutXML
		if p.readXML(master, &mx) {
			li.collect(&mx.CSld.SpTree)
		}
	}
	li.collect(&lx.CSld.SpTree)

	li.Name = lx.Type
	if li.Name == "" {
		li.Name = strings.TrimSpace(lx.CSld.Name)
	}
	return li
}

// readXML decodes an optional part. It reports false when the part is
// missing or unreadable.
func (p *parser) readXML(part string, v interface{}) bool {
	data, err := p.pkg.Part(part)
	if err != nil {
		return false
	}
	return xml.Unmarshal(data, v) == nil
}

// xfrmPosition maps a transform's box through m.
func xfrmPosition(x *xfrmXML, m model.Matrix) model.Position {
	box := model.Position{
		X:      float64(x.Off.X),
		Y:      float64(x.Off.Y),
		Width:  float64(x.Ext.Cx),
		Height: float64(x.Ext.Cy),
	}
	return box.Transform(m)
}

// groupMatrix maps a group's child coordinate space onto its parent's:
// children are placed relative to chOff and scaled from chExt to ext.
func groupMatrix(x *xfrmXML) model.Matrix {
	if x == nil {
		return model.Identity()
	}
	sx, sy := 1.0, 1.0
	if x.ChExt.Cx != 0 {
		sx = float64(x.Ext.Cx) / float64(x.ChExt.Cx)
	}
	if x.ChExt.Cy != 0 {
		sy = float64(x.Ext.Cy) / float64(x.ChExt.Cy)
	}
	return model.Translate(-float64(x.ChOff.X), -float64(x.ChOff.Y)).
		Multiply(model.Scale(sx, sy)).
		Multiply(model.Translate(float64(x.Off.X), float64(x.Off.Y)))
}

// slideBuilder turns one slide part into a model slide.
type slideBuilder struct {
	p       *parser
	part    string
	rels    opc.Relationships
	size    model.Size
	inherit *layoutInfo
	slide   *model.Slide
	ids     map[string]int
	z       int
	groups  int
}

func (p *parser) parseSlide(part string, number int, size model.Size) (*model.Slide, error) {
	data, err := p.pkg.Part(part)
	if err != nil {
		return nil, &MalformedPackageError{Reason: ReasonMissingPart, Part: part, Err: err}
	}
	var sx slideXML
	if err := xml.Unmarshal(data, &sx); err != nil {
		return nil, &MalformedPackageError{Reason: ReasonInvalidPart, Part: part, Err: err}
	}
	rels, err := p.pkg.Relationships(part)
	if err != nil {
		return nil, &MalformedPackageError{Reason: ReasonInvalidPart, Part: opc.RelsPath(part), Err: err}
	}

	b := &slideBuilder{
		p:       p,
		part:    part,
		rels:    rels,
		size:    size,
		inherit: p.layoutFor(part),
		slide: &model.Slide{
			Number:   number,
			Hidden:   !boolAttr(sx.Show, true),
			Elements: []*model.SlideElement{},
		},
		ids: make(map[string]int),
	}
	if b.inherit != nil {
		b.slide.Layout = b.inherit.Name
	}

	b.background(sx.CSld.Bg)
	b.walk(&sx.CSld.SpTree, rootMatrix, "", false)
	b.slide.Notes = b.notes()
	b.finish()
	return b.slide, nil
}

// walk visits a shape tree in z-order. Group children are flattened into
// the slide with their coordinates mapped to slide space.
func (b *slideBuilder) walk(tree *shapeTreeXML, m model.Matrix, gid string, decorative bool) {
	for _, n := range tree.Nodes {
		switch {
		case n.Sp != nil:
			b.shape(n.Sp, m, gid, decorative)
		case n.Pic != nil:
			b.picture(n.Pic, m, gid, decorative)
		case n.Frame != nil:
			b.frame(n.Frame, m, gid, decorative)
		case n.Cxn != nil:
			b.connector(n.Cxn, m, gid, decorative)
		case n.Group != nil:
			c := n.Group.NvGrpSpPr.CNvPr
			if boolAttr(c.Hidden, false) {
				continue
			}
			b.walk(n.Group, groupMatrix(n.Group.GrpSpPr.Xfrm).Multiply(m), b.groupID(c), decorative || c.decorative())
		}
	}
}

func (b *slideBuilder) groupID(c cNvPrXML) string {
	b.groups++
	if c.ID == "" {
		return fmt.Sprintf("s%d-gz%d", b.slide.Number, b.groups)
	}
	return fmt.Sprintf("s%d-g%s", b.slide.Number, c.ID)
}

// newElement assigns the next z index and a slide-unique id. Ids derive
// from the shape id so they survive re-parsing.
func (b *slideBuilder) newElement(c cNvPrXML, gid string, pos model.Position) *model.SlideElement {
	b.z++
	id := fmt.Sprintf("s%d-z%d", b.slide.Number, b.z)
	if c.ID != "" {
		id = fmt.Sprintf("s%d-e%s", b.slide.Number, c.ID)
	}
	if n := b.ids[id]; n > 0 {
		b.ids[id] = n + 1
		id = fmt.Sprintf("%s-%d", id, n+1)
	} else {
		b.ids[id] = 1
	}

	pos.Z = b.z
	return &model.SlideElement{
		ID:        id,
		Name:      strings.TrimSpace(c.Name),
		Position:  pos,
		IsGrouped: gid != "",
		GroupID:   gid,
	}
}

// add files the element as content or, when decorative, as background.
func (b *slideBuilder) add(el *model.SlideElement) {
	if el.IsDecorative {
		el.SemanticRole = model.RoleArtifact
		el.Content.AltTextStatus = model.AltTextDecorative
		b.slide.BackgroundElements = append(b.slide.BackgroundElements, el)
		return
	}
	el.SemanticRole = b.p.opts.profile.Role(el.Type)
	b.slide.Elements = append(b.slide.Elements, el)
}

// position returns the node's own box, or the box its placeholder
// inherits.
func (b *slideBuilder) position(x *xfrmXML, m model.Matrix, ph *phXML) model.Position {
	if x != nil {
		return xfrmPosition(x, m)
	}
	pos, _ := b.inherit.position(ph)
	return pos
}

func (b *slideBuilder) shape(sp *spXML, m model.Matrix, gid string, decorative bool) {
	c := sp.NvSpPr.CNvPr
	if boolAttr(c.Hidden, false) {
		return
	}
	ph := sp.NvSpPr.NvPr.Ph
	tb := b.text(sp.TxBody)
	// Empty placeholders only show prompt text while editing.
	if ph != nil && tb.Text == "" {
		return
	}

	kind := KindShape
	if boolAttr(sp.NvSpPr.CNvSpPr.TxBox, false) {
		kind = KindTextBox
	}
	phType := placeholderType(ph)

	el := b.newElement(c, gid, b.position(sp.SpPr.Xfrm, m, ph))
	el.Type = Classify(Candidate{Kind: kind, Name: c.Name, Placeholder: phType, HasText: tb.Text != ""})
	el.Placeholder = phType
	el.Content.Text = tb.Text
	el.Content.Runs = tb.Runs
	el.Content.Links = tb.Links

	filled := hasFill(sp.SpPr, sp.Style)
	el.Style = model.Style{
		Color:         tb.Color,
		Bold:          tb.Bold,
		FontSize:      tb.Size,
		LightTextRisk: tb.Light && !filled,
	}
	if filled {
		el.Style.Fill = b.p.color(sp.SpPr.SolidFill)
	}

	switch el.Type {
	case model.ElementBody, model.ElementTextBox, model.ElementParagraph:
		if ld := listData(tb.Paras, phType); ld != nil {
			el.Type = model.ElementList
			el.List = ld
		}
	}

	if c.HlinkClick != nil {
		if url := b.linkTarget(c.HlinkClick); url != "" {
			el.Content.Links = append(el.Content.Links, model.Link{Text: tb.Text, URL: url})
		}
	}

	applyAltText(el, c, decorative)
	b.add(el)
}

func (b *slideBuilder) connector(cx *cxnSpXML, m model.Matrix, gid string, decorative bool) {
	c := cx.NvCxnSpPr.CNvPr
	if boolAttr(c.Hidden, false) {
		return
	}
	el := b.newElement(c, gid, b.position(cx.SpPr.Xfrm, m, nil))
	el.Type = Classify(Candidate{Kind: KindConnector, Name: c.Name})
	applyAltText(el, c, decorative)
	b.add(el)
}

// applyAltText records the description of an element. The decorative
// marker, or an explicitly empty description on an element without text,
// makes the element decorative.
func applyAltText(el *model.SlideElement, c cNvPrXML, decorative bool) {
	if decorative || c.decorative() {
		el.IsDecorative = true
		return
	}
	if c.Descr != nil {
		if d := strings.TrimSpace(*c.Descr); d != "" {
			el.Content.AltText = d
			el.Content.AltTextStatus = model.AltTextPresent
			return
		}
		if !el.Content.HasText() {
			el.IsDecorative = true
			el.Content.AltTextExplicitEmpty = true
			return
		}
	}
	if t := strings.TrimSpace(c.Title); t != "" {
		el.Content.AltText = t
		el.Content.AltTextStatus = model.AltTextPresent
		return
	}
	if el.Type.IsFigure() {
		el.Content.AltTextStatus = model.AltTextMissing
	}
}

// background adds a slide background picture. It is page furniture, but
// it is not marked decorative in the source.
func (b *slideBuilder) background(bg *bgXML) {
	if bg == nil || bg.BgPr.BlipFill == nil {
		return
	}
	media := b.media(bg.BgPr.BlipFill)
	if media == nil {
		return
	}
	b.slide.BackgroundElements = append(b.slide.BackgroundElements, &model.SlideElement{
		ID:           fmt.Sprintf("s%d-bg", b.slide.Number),
		Type:         model.ElementImage,
		SemanticRole: model.RoleArtifact,
		Name:         "Background",
		Position:     model.Position{Width: b.size.Width, Height: b.size.Height},
		Media:        media,
	})
}

// notesSkip lists the notes page placeholders that hold no notes text.
var notesSkip = map[string]bool{
	"sldImg": true,
	"sldNum": true,
	"hdr":    true,
	"ftr":    true,
	"dt":     true,
}

// notes returns the speaker notes text of the slide.
func (b *slideBuilder) notes() string {
	part := b.p.relTarget(b.part, "/notesSlide")
	if part == "" {
		return ""
	}
	var nx notesSlideXML
	if !b.p.readXML(part, &nx) {
		return ""
	}
	var parts []string
	var visit func(tree *shapeTreeXML)
	visit = func(tree *shapeTreeXML) {
		for _, n := range tree.Nodes {
			switch {
			case n.Group != nil:
				visit(n.Group)
			case n.Sp != nil:
				if ph := n.Sp.NvSpPr.NvPr.Ph; ph != nil && notesSkip[ph.Type] {
					continue
				}
				if t := plainText(n.Sp.TxBody, "\n"); t != "" {
					parts = append(parts, t)
				}
			}
		}
	}
	visit(&nx.CSld.SpTree)
	return strings.Join(parts, "\n")
}

// finish derives the reading order and attaches pseudo-table findings.
func (b *slideBuilder) finish() {
	res := b.p.order.Detect(b.slide.Elements)
	b.slide.ReadingOrder = append([]string{}, res.IDs...)
	b.slide.ReadingOrderConfidence = res.Confidence

	for _, g := range b.p.grids.Detect(b.slide.Elements) {
		if anchor := b.slide.Element(g.Anchor()); anchor != nil {
			anchor.Issues = append(anchor.Issues, g.Issue(b.slide.Number))
		}
	}
}
