package pptx

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/opc"
)

type bulletKind int

const (
	bulletInherit bulletKind = iota // no bullet markup; the master decides
	bulletNone
	bulletChar
	bulletNumber
)

// paragraph is one a:p after run extraction.
type paragraph struct {
	Text    string
	Level   int
	Bullet  bulletKind
	Char    string
	AutoNum *buAutoNumXML
}

// textBlock is the text of one shape.
type textBlock struct {
	Text  string
	Paras []paragraph
	Runs  []model.Run
	Links []model.Link
	Light bool
	Bold  bool
	Size  float64
	Color string
}

// text extracts a shape's text body. Run languages are tallied for
// document language detection.
func (b *slideBuilder) text(body *txBodyXML) textBlock {
	var tb textBlock
	if body == nil {
		return tb
	}

	allBold := true
	var lines []string
	for _, p := range body.P {
		para := paragraph{Bullet: bulletInherit}
		if p.PPr != nil {
			para.Level = p.PPr.Lvl
			switch {
			case p.PPr.BuNone != nil:
				para.Bullet = bulletNone
			case p.PPr.BuAutoNum != nil:
				para.Bullet = bulletNumber
				para.AutoNum = p.PPr.BuAutoNum
			case p.PPr.BuChar != nil:
				para.Bullet = bulletChar
				para.Char = p.PPr.BuChar.Char
			}
		}

		var sb strings.Builder
		for _, item := range p.Items {
			if item.Kind == textBreak {
				sb.WriteString("\n")
				continue
			}
			if item.T == "" {
				continue
			}
			sb.WriteString(item.T)

			run := model.Run{Text: item.T}
			if rp := item.RPr; rp != nil {
				run.Bold = boolAttr(rp.B, false)
				run.Italic = boolAttr(rp.I, false)
				run.Underline = rp.U != "" && rp.U != "none"
				run.Size = float64(rp.Sz) / 100
				run.Lang = rp.Lang
				run.Color = b.p.color(rp.SolidFill)
				if rp.HlinkClick != nil {
					run.Link = b.linkTarget(rp.HlinkClick)
				}
				if rp.Lang != "" {
					b.p.langs[rp.Lang] += utf8.RuneCountInString(item.T)
				}
			}
			if strings.TrimSpace(run.Text) != "" {
				allBold = allBold && run.Bold
				if tb.Size == 0 && run.Size > 0 {
					tb.Size = run.Size
				}
				if tb.Color == "" && run.Color != "" {
					tb.Color = run.Color
				}
				if isLight(run.Color) {
					tb.Light = true
				}
			}
			tb.Runs = append(tb.Runs, run)
		}

		para.Text = strings.TrimSpace(sb.String())
		if para.Text == "" {
			continue
		}
		tb.Paras = append(tb.Paras, para)
		lines = append(lines, para.Text)
	}

	tb.Text = strings.Join(lines, "\n")
	tb.Bold = allBold && len(tb.Paras) > 0
	tb.Links = collectLinks(tb.Runs)
	return tb
}

// collectLinks merges consecutive runs with the same target into links.
func collectLinks(runs []model.Run) []model.Link {
	var links []model.Link
	for i, r := range runs {
		if r.Link == "" {
			continue
		}
		if i > 0 && runs[i-1].Link == r.Link && len(links) > 0 {
			links[len(links)-1].Text += r.Text
			continue
		}
		links = append(links, model.Link{Text: r.Text, URL: r.Link})
	}
	for i := range links {
		links[i].Text = strings.TrimSpace(links[i].Text)
	}
	return links
}

// linkTarget resolves a hyperlink. External targets are returned as is;
// jumps to another slide become "#slideN".
func (b *slideBuilder) linkTarget(h *hlinkXML) string {
	if h.RID == "" {
		return ""
	}
	rel, ok := b.rels.ByID(h.RID)
	if !ok {
		return ""
	}
	if rel.External() {
		return strings.TrimSpace(rel.Target)
	}
	part := opc.ResolveTarget(b.part, rel.Target)
	if n, ok := b.p.slideNos[strings.ToLower(part)]; ok {
		return fmt.Sprintf("#slide%d", n)
	}
	return ""
}

// plainText flattens a text body without tallying languages.
func plainText(body *txBodyXML, sep string) string {
	if body == nil {
		return ""
	}
	var parts []string
	for _, p := range body.P {
		var sb strings.Builder
		for _, item := range p.Items {
			if item.Kind == textBreak {
				sb.WriteString(" ")
				continue
			}
			sb.WriteString(item.T)
		}
		if t := strings.TrimSpace(sb.String()); t != "" {
			parts = append(parts, t)
		}
	}
	return strings.Join(parts, sep)
}

// schemeAliases maps text/background scheme slots to theme colours.
var schemeAliases = map[string]string{
	"bg1": "lt1",
	"tx1": "dk1",
	"bg2": "lt2",
	"tx2": "dk2",
}

// color resolves a colour choice to upper-case RRGGBB, or "" when unknown.
func (p *parser) color(c *colorXML) string {
	if c == nil {
		return ""
	}
	switch {
	case c.SrgbClr != nil:
		return strings.ToUpper(c.SrgbClr.Val)
	case c.SysClr != nil:
		if c.SysClr.LastClr != "" {
			return strings.ToUpper(c.SysClr.LastClr)
		}
		switch c.SysClr.Val {
		case "window":
			return "FFFFFF"
		case "windowText":
			return "000000"
		}
	case c.SchemeClr != nil:
		name := c.SchemeClr.Val
		if alias, ok := schemeAliases[name]; ok {
			name = alias
		}
		if hex, ok := p.theme.Colors[name]; ok {
			return hex
		}
		switch name {
		case "lt1":
			return "FFFFFF"
		case "dk1":
			return "000000"
		}
	}
	return ""
}

// isLight reports white or near-white colours.
func isLight(hex string) bool {
	if len(hex) != 6 {
		return false
	}
	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return false
	}
	r := float64(v>>16&0xFF) / 255
	g := float64(v>>8&0xFF) / 255
	bl := float64(v&0xFF) / 255
	return 0.2126*r+0.7152*g+0.0722*bl >= 0.9
}

// hasFill reports whether a shape paints its own background.
func hasFill(sp spPrXML, style *styleXML) bool {
	switch {
	case sp.NoFill != nil:
		return false
	case sp.SolidFill != nil, sp.GradFill != nil, sp.PattFill != nil, sp.BlipFill != nil:
		return true
	}
	return style != nil && style.FillRef != nil && style.FillRef.Idx > 0
}

// listData builds list items from a shape's paragraphs. Explicit bullet
// markup makes a list; so do two or more paragraphs in a body placeholder
// that inherit the master's bullets. Nil means the text is not a list.
func listData(paras []paragraph, placeholder string) *model.ListData {
	explicit, suppressed := false, false
	for _, p := range paras {
		switch p.Bullet {
		case bulletChar, bulletNumber:
			explicit = true
		case bulletNone:
			suppressed = true
		}
	}
	inherited := (placeholder == "body" || placeholder == "obj") && len(paras) >= 2 && !suppressed
	if !explicit && !inherited {
		return nil
	}

	ld := &model.ListData{}
	counters := make(map[int]int)
	for _, p := range paras {
		for lvl := range counters {
			if lvl > p.Level {
				delete(counters, lvl)
			}
		}

		item := model.ListItem{Text: p.Text, Level: p.Level}
		switch p.Bullet {
		case bulletNumber:
			ld.Ordered = true
			counters[p.Level]++
			start := p.AutoNum.StartAt
			if start <= 0 {
				start = 1
			}
			item.Label = numberLabel(p.AutoNum.Type, start+counters[p.Level]-1)
		case bulletChar:
			item.Label = p.Char
		case bulletInherit:
			item.Label = "•"
		}
		ld.Items = append(ld.Items, item)
	}
	return ld
}

// numberLabel formats an auto-number like "3.", "c)" or "(iv)".
func numberLabel(scheme string, n int) string {
	var s string
	switch {
	case strings.HasPrefix(scheme, "alphaLc"):
		s = alpha(n, 'a')
	case strings.HasPrefix(scheme, "alphaUc"):
		s = alpha(n, 'A')
	case strings.HasPrefix(scheme, "romanLc"):
		s = strings.ToLower(roman(n))
	case strings.HasPrefix(scheme, "romanUc"):
		s = roman(n)
	default:
		s = strconv.Itoa(n)
	}
	switch {
	case strings.HasSuffix(scheme, "ParenBoth"):
		return "(" + s + ")"
	case strings.HasSuffix(scheme, "ParenR"):
		return s + ")"
	case strings.HasSuffix(scheme, "Plain"):
		return s
	}
	return s + "."
}

// alpha returns a, b, ... z, aa, bb, ... as PowerPoint numbers letters.
func alpha(n int, base rune) string {
	if n <= 0 {
		return ""
	}
	letter := string(base + rune((n-1)%26))
	return strings.Repeat(letter, (n-1)/26+1)
}

func roman(n int) string {
	if n <= 0 {
		return ""
	}
	values := []int{1000, 900, 500, 400, 100, 90, 50, 40, 10, 9, 5, 4, 1}
	symbols := []string{"M", "CM", "D", "CD", "C", "XC", "L", "XL", "X", "IX", "V", "IV", "I"}
	var sb strings.Builder
	for i, v := range values {
		for n >= v {
			sb.WriteString(symbols[i])
			n -= v
		}
	}
	return sb.String()
}
