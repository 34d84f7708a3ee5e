package tagged

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/tsawler/slideua/font"
	"github.com/tsawler/slideua/model"
)

// box is an element frame in page coordinates.
type box struct {
	x, top, w, h float64
}

func (bx box) bottom() float64 { return bx.top - bx.h }

func (bx box) bbox() []float64 {
	return []float64{bx.x, bx.bottom(), bx.x + bx.w, bx.top}
}

func (b *builder) frame(e *model.SlideElement) box {
	return box{
		x:   e.Position.X,
		top: b.height - e.Position.Y,
		w:   e.Position.Width,
		h:   e.Position.Height,
	}
}

// role resolves the structure role of an element from the profile and the
// data it carries.
func (b *builder) role(e *model.SlideElement) model.SemanticRole {
	if e.IsDecorative {
		return model.RoleArtifact
	}
	r := b.prof.Role(e.Type)
	switch r {
	case model.RoleArtifact, model.RoleH1, model.RoleH2, model.RoleP, model.RoleLI:
		return r
	case model.RoleFigure:
		// SmartArt without a description is better served by its text.
		if e.Type == model.ElementSmartArt && e.List != nil && len(e.List.Items) > 0 &&
			strings.TrimSpace(e.Content.AltText) == "" {
			return model.RoleL
		}
		return r
	case model.RoleL:
		if e.List != nil && len(e.List.Items) > 0 {
			return r
		}
	case model.RoleTable:
		if e.Table != nil && e.Table.Rows > 0 {
			return r
		}
	}
	return model.RoleP
}

func (b *builder) element(pg *page, parent *Node, e *model.SlideElement) {
	role := b.role(e)
	if role == model.RoleArtifact {
		b.artifact(pg, e)
		return
	}

	c := &content{}
	bx := b.frame(e)
	b.drawFill(c, e, bx)
	switch role {
	case model.RoleFigure:
		b.figure(pg, parent, c, e, bx)
	case model.RoleTable:
		b.table(pg, parent, c, e, bx)
	case model.RoleL:
		b.list(pg, parent, c, e, bx)
	default:
		b.text(pg, parent, c, e, bx, role)
	}
	pg.chunks = append(pg.chunks, chunk{z: e.Position.Z, data: c.bytes()})
}

func (b *builder) newNode(role model.SemanticRole, pg *page, e *model.SlideElement) *Node {
	return &Node{Role: role, ElementID: e.ID, Slide: pg.number}
}

// drawFill paints a shape's background as an artifact.
func (b *builder) drawFill(c *content, e *model.SlideElement, bx box) bool {
	col, ok := parseColor(e.Style.Fill)
	if !ok || bx.w <= 0 || bx.h <= 0 {
		return false
	}
	c.beginArtifact()
	c.fill(col)
	c.rect(bx.x, bx.bottom(), bx.w, bx.h, "f")
	c.end()
	return true
}

// artifact draws an element that assistive technology skips.
func (b *builder) artifact(pg *page, e *model.SlideElement) {
	c := &content{}
	bx := b.frame(e)
	drawn := b.drawFill(c, e, bx)

	if name, ok := b.image(pg, e.Media); ok {
		c.beginArtifact()
		c.image(name, bx.x, bx.bottom(), bx.w, bx.h)
		c.end()
		drawn = true
	} else if text := Sanitize(e.Content.Text); strings.TrimSpace(text) != "" {
		f, fname := b.fontFor(e, model.RoleArtifact)
		tb := layoutText(f, text, b.fontSize(e, model.RoleArtifact), bx.x, bx.top, bx.w, bx.h)
		c.beginArtifact()
		c.fill(b.textColor(e))
		tb.draw(c, fname)
		c.end()
		drawn = true
	}
	if drawn {
		pg.chunks = append(pg.chunks, chunk{z: e.Position.Z, data: c.bytes()})
	}
}

func (b *builder) fontFor(e *model.SlideElement, role model.SemanticRole) (*font.Font, string) {
	if role == model.RoleH1 || e.Style.Bold || allBold(e.Content.Runs) {
		return b.bold, fontBold
	}
	return b.regular, fontRegular
}

func allBold(runs []model.Run) bool {
	seen := false
	for _, r := range runs {
		if strings.TrimSpace(r.Text) == "" {
			continue
		}
		if !r.Bold {
			return false
		}
		seen = true
	}
	return seen
}

func (b *builder) fontSize(e *model.SlideElement, role model.SemanticRole) float64 {
	if e.Style.FontSize > 0 {
		return e.Style.FontSize
	}
	for _, r := range e.Content.Runs {
		if r.Size > 0 {
			return r.Size
		}
	}
	switch role {
	case model.RoleH1:
		return 32
	case model.RoleH2:
		return 24
	case model.RoleTable:
		return 12
	case model.RoleArtifact:
		return 10
	}
	return 18
}

func (b *builder) textColor(e *model.SlideElement) rgb {
	if col, ok := parseColor(e.Style.Color); ok {
		return col
	}
	for _, r := range e.Content.Runs {
		if col, ok := parseColor(r.Color); ok {
			return col
		}
	}
	return black
}

// elementLang returns the language of an element whose text is in a
// different language than the document, or "".
func (b *builder) elementLang(e *model.SlideElement) string {
	for _, r := range e.Content.Runs {
		if r.Lang == "" {
			continue
		}
		if sameLanguage(r.Lang, b.lang) {
			return ""
		}
		return canonicalLanguage(r.Lang)
	}
	return ""
}

func (b *builder) text(pg *page, parent *Node, c *content, e *model.SlideElement, bx box, role model.SemanticRole) {
	f, fname := b.fontFor(e, role)
	tb := layoutText(f, Sanitize(e.Content.Text), b.fontSize(e, role), bx.x, bx.top, bx.w, bx.h)
	if tb.empty() {
		return
	}

	var n *Node
	if role == model.RoleLI {
		// A lone list item still needs a list around it.
		l := parent.add(b.newNode(model.RoleL, pg, e))
		li := l.add(b.newNode(model.RoleLI, pg, e))
		n = li.add(b.newNode(model.RoleLBody, pg, e))
		role = model.RoleLBody
	} else {
		n = parent.add(b.newNode(role, pg, e))
	}
	n.Lang = b.elementLang(e)

	c.beginTag(role, pg.mcid(n))
	c.fill(b.textColor(e))
	tb.draw(c, fname)
	c.end()

	if b.prof.Export.Links {
		for _, l := range e.Content.Links {
			b.link(pg, n, tb, l, bx)
		}
	}
}

func linkable(raw string) bool {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return false
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto", "ftp":
		return true
	}
	return false
}

// link adds a Link element with its annotation under n. The annotation
// covers the link text when it can be found in the drawn lines and the
// element frame otherwise.
func (b *builder) link(pg *page, n *Node, tb *textBlock, l model.Link, bx box) {
	if !linkable(l.URL) {
		return
	}
	rect, ok := tb.find(Sanitize(l.Text))
	if !ok {
		rect = bx.bbox()
	}
	ln := n.add(&Node{Role: model.RoleLink, ElementID: n.ElementID, Slide: pg.number, URL: l.URL})
	a := &annotation{node: ln, page: pg, rect: rect, url: strings.TrimSpace(l.URL), text: l.Text}
	ln.annot = a
	pg.annots = append(pg.annots, a)
}

func (b *builder) figure(pg *page, parent *Node, c *content, e *model.SlideElement, bx box) {
	n := parent.add(b.newNode(model.RoleFigure, pg, e))
	n.Alt = e.Content.AltText
	n.BBox = bx.bbox()

	c.beginTag(model.RoleFigure, pg.mcid(n))
	if name, ok := b.image(pg, e.Media); ok {
		c.image(name, bx.x, bx.bottom(), bx.w, bx.h)
	} else {
		c.stroke(frameGrey)
		c.rect(bx.x, bx.bottom(), bx.w, bx.h, "S")
	}
	c.end()
}

// image embeds media once per document and registers it with the page.
func (b *builder) image(pg *page, m *model.Media) (string, bool) {
	if m == nil || len(m.Data) == 0 {
		return "", false
	}
	key := m.Part
	if key == "" {
		key = fmt.Sprintf("%p", m)
	}
	ir, seen := b.images[key]
	if !seen {
		ir = &imageRef{}
		b.images[key] = ir
		if obj, err := prepareImage(m, b.prof.Export.MaxImageDimension); err == nil {
			if obj.smask != nil {
				obj.image.Dict["SMask"] = b.w.Add(obj.smask)
			}
			ir.ref = b.w.Add(obj.image)
			ir.ok = true
		}
	}
	if !ir.ok {
		return "", false
	}
	for name, ref := range pg.xobjects {
		if ref == ir.ref {
			return name, true
		}
	}
	name := "Im" + strconv.Itoa(len(pg.xobjects)+1)
	pg.xobjects[name] = ir.ref
	return name, true
}

func (b *builder) table(pg *page, parent *Node, c *content, e *model.SlideElement, bx box) {
	t := e.Table
	tn := parent.add(b.newNode(model.RoleTable, pg, e))
	tn.BBox = bx.bbox()

	cols := 0
	for _, row := range t.Cells {
		cols = max(cols, len(row))
	}
	if cols == 0 {
		return
	}
	colW := bx.w / float64(cols)
	rowH := bx.h / float64(len(t.Cells))

	c.beginArtifact()
	c.stroke(gridGrey)
	c.rect(bx.x, bx.bottom(), bx.w, bx.h, "S")
	for r := 1; r < len(t.Cells); r++ {
		y := bx.top - float64(r)*rowH
		c.line(bx.x, y, bx.x+bx.w, y)
	}
	for col := 1; col < cols; col++ {
		x := bx.x + float64(col)*colW
		c.line(x, bx.top, x, bx.bottom())
	}
	c.end()

	size := b.fontSize(e, model.RoleTable)
	if limit := (rowH - padding) / lineSpacing; limit < size {
		size = max(limit, minFontSize)
	}
	for r, row := range t.Cells {
		tr := tn.add(b.newNode(model.RoleTR, pg, e))
		for ci, cell := range row {
			if cell.Merged {
				continue
			}
			role := model.RoleTD
			if cell.IsHeader {
				role = model.RoleTH
			}
			cn := tr.add(b.newNode(role, pg, e))
			if cell.IsHeader {
				cn.Scope = cellScope(t, cell, r)
			}
			cn.RowSpan = cell.RowSpan
			cn.ColSpan = cell.ColSpan

			f, fname := b.regular, fontRegular
			if cell.IsHeader {
				f, fname = b.bold, fontBold
			}
			cw := colW * float64(max(1, cell.ColSpan))
			ch := rowH * float64(max(1, cell.RowSpan))
			tb := layoutText(f, Sanitize(cell.Text), size, bx.x+float64(ci)*colW, bx.top-float64(r)*rowH, cw, ch)
			if tb.empty() {
				continue
			}
			c.beginTag(role, pg.mcid(cn))
			c.fill(black)
			tb.draw(c, fname)
			c.end()
		}
	}
}

func cellScope(t *model.TableData, cell model.TableCell, row int) model.CellScope {
	if cell.Scope != model.ScopeNone {
		return cell.Scope
	}
	if row == 0 && t.HasHeaderRow {
		return model.ScopeColumn
	}
	return model.ScopeRow
}

// listIndent is the extra indent per nesting level.
const listIndent = 18.0

type listLine struct {
	level int
	label []byte
	body  [][]byte
}

func (b *builder) list(pg *page, parent *Node, c *content, e *model.SlideElement, bx box) {
	items := e.List.Items
	base := items[0].Level
	for _, it := range items {
		base = min(base, it.Level)
	}

	f := b.regular
	size := b.fontSize(e, model.RoleL)
	var lines []listLine
	for {
		lines = b.layoutList(e.List, base, f, size, bx)
		height := padding
		for _, l := range lines {
			height += float64(max(1, len(l.body)))*size*lineSpacing + size*0.3
		}
		if height <= bx.h || size <= minFontSize {
			break
		}
		size = max(size*0.9, minFontSize)
	}

	ln := parent.add(b.newNode(model.RoleL, pg, e))
	ln.Lang = b.elementLang(e)
	stack := []*Node{ln}
	last := []*Node{nil}

	y := bx.top - padding - float64(f.Ascent)*size/1000
	for _, l := range lines {
		lvl := min(l.level, len(stack))
		if lvl == len(stack) {
			if last[lvl-1] == nil {
				lvl--
			} else {
				body := lastBody(last[lvl-1])
				stack = append(stack, body.add(b.newNode(model.RoleL, pg, e)))
				last = append(last, nil)
			}
		}
		stack = stack[:lvl+1]
		last = last[:lvl+1]

		li := stack[lvl].add(b.newNode(model.RoleLI, pg, e))
		last[lvl] = li
		x := bx.x + padding + float64(lvl)*listIndent

		lbl := li.add(b.newNode(model.RoleLbl, pg, e))
		c.beginTag(model.RoleLbl, pg.mcid(lbl))
		c.fill(b.textColor(e))
		c.text(fontRegular, size, x, y, l.label)
		c.end()

		body := li.add(b.newNode(model.RoleLBody, pg, e))
		bodyX := x + f.Measure(l.label, size) + size*0.5
		if len(l.body) > 0 {
			c.beginTag(model.RoleLBody, pg.mcid(body))
			c.fill(b.textColor(e))
			for i, codes := range l.body {
				if len(codes) > 0 {
					c.text(fontRegular, size, bodyX, y-float64(i)*size*lineSpacing, codes)
				}
			}
			c.end()
		}
		y -= float64(max(1, len(l.body)))*size*lineSpacing + size*0.3
	}
}

func lastBody(li *Node) *Node {
	for i := len(li.Children) - 1; i >= 0; i-- {
		if li.Children[i].Role == model.RoleLBody {
			return li.Children[i]
		}
	}
	return li
}

// layoutList wraps every item at the given size. Items may nest at most
// one level deeper than their predecessor.
func (b *builder) layoutList(list *model.ListData, base int, f *font.Font, size float64, bx box) []listLine {
	var out []listLine
	counters := map[int]int{}
	prev := -1
	for _, it := range list.Items {
		lvl := max(0, it.Level-base)
		if lvl > prev+1 {
			lvl = prev + 1
		}
		for k := range counters {
			if k > lvl {
				delete(counters, k)
			}
		}
		counters[lvl]++
		prev = lvl

		label := strings.TrimSpace(Sanitize(it.Label))
		if label == "" {
			if list.Ordered {
				label = strconv.Itoa(counters[lvl]) + "."
			} else {
				label = "•"
			}
		}
		codes := font.Encode(label)
		x := bx.x + padding + float64(lvl)*listIndent
		bodyX := x + f.Measure(codes, size) + size*0.5
		width := bx.x + bx.w - padding - bodyX
		if width < size {
			width = size
		}
		out = append(out, listLine{level: lvl, label: codes, body: wrap(f, Sanitize(it.Text), size, width)})
	}
	return out
}
