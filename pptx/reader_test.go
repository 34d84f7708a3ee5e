package pptx

import (
	"archive/zip"
	"bytes"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strings"
	"testing"

	"github.com/tsawler/slideua/format"
	"github.com/tsawler/slideua/model"
)

func mustParse(t *testing.T, data []byte, opts ...Option) *model.Presentation {
	t.Helper()
	p, err := Parse(data, opts...)
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	return p
}

func near(a, b float64) bool {
	return math.Abs(a-b) < 1e-6
}

func samePosition(got model.Position, x, y, w, h float64) bool {
	return near(got.X, x) && near(got.Y, y) && near(got.Width, w) && near(got.Height, h)
}

func TestParseScenario(t *testing.T) {
	p := mustParse(t, scenarioDeck(t))

	if len(p.Slides) != 3 {
		t.Fatalf("Expected 3 slides, got %d", len(p.Slides))
	}
	for i, s := range p.Slides {
		if s.Number != i+1 {
			t.Errorf("Slides[%d].Number = %d", i, s.Number)
		}
	}
	if p.SlideSize.Width != 720 || p.SlideSize.Height != 540 {
		t.Errorf("SlideSize = %+v, want 720x540", p.SlideSize)
	}

	md := p.Metadata
	if md.Title != "Quarterly report" || md.Author != "Jane Doe" {
		t.Errorf("Metadata = %+v", md)
	}
	if md.Language != "de-DE" || md.LanguageSource != model.LanguageFromDocument {
		t.Errorf("Language = %q (%s)", md.Language, md.LanguageSource)
	}

	titles := []string{"Quartalsbericht", "Umsatz", "Zahlen"}
	for i, want := range titles {
		if got := p.Slides[i].Title(); got != want {
			t.Errorf("Slide %d title = %q, want %q", i+1, got, want)
		}
	}

	s1 := p.Slides[0]
	if got := strings.Join(s1.ReadingOrder, ","); got != "s1-e2,s1-e3" {
		t.Errorf("Slide 1 reading order = %s", got)
	}
	if e := s1.Element("s1-e3"); e == nil || e.Type != model.ElementSubtitle || e.SemanticRole != model.RoleH2 {
		t.Errorf("subtitle element = %+v", e)
	}

	img := p.Slides[1].Element("s2-e3")
	if img == nil {
		t.Fatal("image element s2-e3 not found")
	}
	if img.Type != model.ElementImage || img.SemanticRole != model.RoleFigure {
		t.Errorf("image type/role = %s/%s", img.Type, img.SemanticRole)
	}
	if img.Content.AltTextStatus != model.AltTextMissing {
		t.Errorf("AltTextStatus = %q, want missing", img.Content.AltTextStatus)
	}
	if img.Media == nil || img.Media.ContentType != "image/png" || string(img.Media.Data) != "\x89PNG fake" {
		t.Errorf("Media = %+v", img.Media)
	}
	if img.Media != nil && img.Media.Part != "ppt/media/image1.png" {
		t.Errorf("Media.Part = %q", img.Media.Part)
	}

	s3 := p.Slides[2]
	if len(s3.Elements) != 7 {
		t.Fatalf("Slide 3 has %d elements, want 7", len(s3.Elements))
	}
	anchor := s3.Element("s3-e3")
	if anchor == nil || len(anchor.Issues) != 1 {
		t.Fatalf("Expected one issue on the grid anchor, got %+v", anchor)
	}
	is := anchor.Issues[0]
	if is.Type != model.IssuePseudoTable || is.ID != "pseudo_table:s3:s3-e3" {
		t.Errorf("anchor issue = %s (%s)", is.ID, is.Type)
	}

	if p.Stats.Slides != 3 || p.Stats.Images != 1 {
		t.Errorf("Stats = %+v", p.Stats)
	}
}

func TestParseDeterministic(t *testing.T) {
	data := scenarioDeck(t)
	a := mustParse(t, data)
	b := mustParse(t, data)
	if !reflect.DeepEqual(a, b) {
		t.Error("Parsing the same input twice gave different models")
	}
}

func TestParseElementIDs(t *testing.T) {
	data := testDeck{slides: []string{
		title(2, "Ids") + textBox(5, "first", 40, 100, 200, 40, "") + textBox(5, "second", 40, 200, 200, 40, ""),
	}}.build(t)
	s := mustParse(t, data).Slides[0]

	var got []string
	for _, e := range s.Elements {
		got = append(got, e.ID)
	}
	if want := "s1-e2,s1-e5,s1-e5-2"; strings.Join(got, ",") != want {
		t.Errorf("ids = %v, want %s", got, want)
	}
	for i, e := range s.Elements {
		if e.Position.Z != i+1 {
			t.Errorf("%s: Z = %d, want %d", e.ID, e.Position.Z, i+1)
		}
	}
}

func TestParseSlideOrder(t *testing.T) {
	slides := []string{title(2, "First part"), title(2, "Second part")}

	tests := []struct {
		name  string
		deck  testDeck
		first string
	}{
		{"declared order", testDeck{slides: slides, order: []int{2, 1}}, "Second part"},
		{"part number order", testDeck{slides: slides, noIDList: true}, "First part"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := mustParse(t, tt.deck.build(t))
			if len(p.Slides) != 2 {
				t.Fatalf("Expected 2 slides, got %d", len(p.Slides))
			}
			if got := p.Slides[0].Title(); got != tt.first {
				t.Errorf("first slide = %q, want %q", got, tt.first)
			}
		})
	}
}

func TestParseGroupTransform(t *testing.T) {
	group := `<p:grpSp><p:nvGrpSpPr><p:cNvPr id="10" name="Group 9"/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr>` +
		`<p:grpSpPr><a:xfrm><a:off x="1270000" y="1270000"/><a:ext cx="2540000" cy="2540000"/>` +
		`<a:chOff x="0" y="0"/><a:chExt cx="5080000" cy="5080000"/></a:xfrm></p:grpSpPr>` +
		textBox(11, "Inside", 200, 200, 100, 100, "") +
		`</p:grpSp>`
	s := mustParse(t, testDeck{slides: []string{title(2, "Gruppe") + group}}.build(t)).Slides[0]

	e := s.Element("s1-e11")
	if e == nil {
		t.Fatal("grouped element not found")
	}
	if !samePosition(e.Position, 200, 200, 50, 50) {
		t.Errorf("Position = %+v, want 200,200 50x50", e.Position)
	}
	if !e.IsGrouped || e.GroupID != "s1-g10" {
		t.Errorf("IsGrouped = %v, GroupID = %q", e.IsGrouped, e.GroupID)
	}
}

func TestParseDecorative(t *testing.T) {
	marked := `<p:pic><p:nvPicPr><p:cNvPr id="3" name="Ornament">` + decorativeExt + `</p:cNvPr><p:cNvPicPr/><p:nvPr/></p:nvPicPr>` +
		`<p:blipFill><a:blip r:embed="rId2"/></p:blipFill><p:spPr>` + xfrm(10, 10, 50, 50) + `</p:spPr></p:pic>`
	data := testDeck{
		slides: []string{
			title(2, "Deko") +
				marked +
				picture(4, "rId2", 600, 10, 50, 50, ` descr="  "`) +
				textBox(5, "Hello", 40, 200, 200, 40, ` descr=""`) +
				picture(6, "rId2", 300, 200, 100, 100, ` descr="Team photo at the summer party"`),
		},
		slideRels: map[int][]string{1: {rel("rId2", relImage, "../media/image1.png")}},
		files:     map[string]string{"ppt/media/image1.png": "png"},
	}.build(t)
	s := mustParse(t, data).Slides[0]

	if len(s.BackgroundElements) != 2 {
		t.Fatalf("Expected 2 background elements, got %d", len(s.BackgroundElements))
	}
	for _, e := range s.BackgroundElements {
		if !e.IsDecorative || e.SemanticRole != model.RoleArtifact || e.Content.AltTextStatus != model.AltTextDecorative {
			t.Errorf("%s: decorative=%v role=%s status=%s", e.ID, e.IsDecorative, e.SemanticRole, e.Content.AltTextStatus)
		}
		if s.Element(e.ID) != nil {
			t.Errorf("%s is both content and background", e.ID)
		}
	}
	if bg := s.BackgroundElements[1]; bg.ID != "s1-e4" || !bg.Content.AltTextExplicitEmpty {
		t.Errorf("explicit empty descr: %s explicitEmpty=%v", bg.ID, bg.Content.AltTextExplicitEmpty)
	}
	for _, id := range s.ReadingOrder {
		if id == "s1-e3" || id == "s1-e4" {
			t.Errorf("decorative element %s in reading order", id)
		}
	}

	if e := s.Element("s1-e5"); e == nil || e.IsDecorative {
		t.Error("text box with empty descr should stay content")
	}
	photo := s.Element("s1-e6")
	if photo == nil || photo.Content.AltTextStatus != model.AltTextPresent || photo.Content.AltText != "Team photo at the summer party" {
		t.Errorf("photo = %+v", photo)
	}
}

func TestParseLists(t *testing.T) {
	bullets := `<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr>` + xfrm(40, 100, 640, 150) + `</p:spPr>` +
		txBody(para("Erstens"), `<a:p><a:pPr lvl="1"/><a:r><a:t>Detail</a:t></a:r></a:p>`, para("Zweitens")) + `</p:sp>`
	auto := func(lvl, typ, text string) string {
		return `<a:p><a:pPr lvl="` + lvl + `"><a:buAutoNum type="` + typ + `"/></a:pPr><a:r><a:t>` + text + `</a:t></a:r></a:p>`
	}
	numbered := `<p:sp><p:nvSpPr><p:cNvPr id="4" name="TextBox 3"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr>` +
		`<p:spPr>` + xfrm(40, 300, 640, 150) + `</p:spPr>` +
		txBody(auto("0", "arabicPeriod", "One"), auto("0", "arabicPeriod", "Two"), auto("1", "alphaLcParenR", "Sub"), auto("0", "arabicPeriod", "Three")) +
		`</p:sp>`
	suppressed := `<p:sp><p:nvSpPr><p:cNvPr id="5" name="Content Placeholder 4"/><p:cNvSpPr/><p:nvPr><p:ph idx="2"/></p:nvPr></p:nvSpPr>` +
		`<p:spPr>` + xfrm(400, 450, 200, 50) + `</p:spPr>` +
		txBody(`<a:p><a:pPr><a:buNone/></a:pPr><a:r><a:t>Plain</a:t></a:r></a:p>`, para("Text")) + `</p:sp>`

	s := mustParse(t, testDeck{slides: []string{title(2, "Listen") + bullets + numbered + suppressed}}.build(t)).Slides[0]

	tests := []struct {
		id      string
		ordered bool
		items   []model.ListItem
	}{
		{"s1-e3", false, []model.ListItem{{Text: "Erstens", Level: 0, Label: "•"}, {Text: "Detail", Level: 1, Label: "•"}, {Text: "Zweitens", Level: 0, Label: "•"}}},
		{"s1-e4", true, []model.ListItem{{Text: "One", Label: "1."}, {Text: "Two", Label: "2."}, {Text: "Sub", Level: 1, Label: "a)"}, {Text: "Three", Label: "3."}}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			e := s.Element(tt.id)
			if e == nil {
				t.Fatalf("%s not found", tt.id)
			}
			if e.Type != model.ElementList || e.SemanticRole != model.RoleL || e.List == nil {
				t.Fatalf("type = %s, role = %s, list = %v", e.Type, e.SemanticRole, e.List)
			}
			if e.List.Ordered != tt.ordered {
				t.Errorf("Ordered = %v, want %v", e.List.Ordered, tt.ordered)
			}
			if !reflect.DeepEqual(e.List.Items, tt.items) {
				t.Errorf("Items = %+v, want %+v", e.List.Items, tt.items)
			}
		})
	}

	if e := s.Element("s1-e5"); e == nil || e.Type != model.ElementBody || e.List != nil {
		t.Errorf("buNone placeholder should stay body, got %+v", e)
	}
}

func TestNumberLabel(t *testing.T) {
	tests := []struct {
		scheme string
		n      int
		want   string
	}{
		{"arabicPeriod", 3, "3."},
		{"arabicParenR", 2, "2)"},
		{"arabicPlain", 7, "7"},
		{"alphaLcPeriod", 1, "a."},
		{"alphaUcParenR", 28, "BB)"},
		{"romanLcParenBoth", 4, "(iv)"},
		{"romanUcPeriod", 1994, "MCMXCIV."},
		{"", 1, "1."},
	}
	for _, tt := range tests {
		if got := numberLabel(tt.scheme, tt.n); got != tt.want {
			t.Errorf("numberLabel(%q, %d) = %q, want %q", tt.scheme, tt.n, got, tt.want)
		}
	}
}

func tableFrame(tblPr string) string {
	cell := func(text string) string {
		if text == "" {
			return `<a:tc><a:txBody><a:bodyPr/><a:p/></a:txBody></a:tc>`
		}
		return `<a:tc><a:txBody><a:bodyPr/><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></a:txBody></a:tc>`
	}
	tbl := `<a:tbl>` + tblPr + `<a:tblGrid><a:gridCol w="100"/><a:gridCol w="100"/></a:tblGrid>` +
		`<a:tr h="370840">` + cell("Name") + cell("Wert") + `</a:tr>` +
		`<a:tr h="370840">` + cell("A") + cell("") + `</a:tr></a:tbl>`
	return frame(4, "Table 3", uriTable, tbl)
}

func TestParseTables(t *testing.T) {
	tests := []struct {
		name      string
		tblPr     string
		explicit  bool
		headerRow bool
		headerCol bool
	}{
		{"no properties", "", false, true, false},
		{"banding only", `<a:tblPr bandRow="1"/>`, false, true, false},
		{"first row", `<a:tblPr firstRow="1" bandRow="1"/>`, true, true, false},
		{"first row off", `<a:tblPr firstRow="0"/>`, true, false, false},
		{"first column", `<a:tblPr firstCol="1"/>`, true, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := mustParse(t, testDeck{slides: []string{title(2, "Tabelle") + tableFrame(tt.tblPr)}}.build(t)).Slides[0]
			e := s.Element("s1-e4")
			if e == nil || e.Type != model.ElementTable || e.Table == nil {
				t.Fatalf("table element = %+v", e)
			}
			td := e.Table
			if td.Rows != 2 || td.Columns != 2 {
				t.Errorf("table is %dx%d", td.Rows, td.Columns)
			}
			if td.ExplicitHeaders != tt.explicit || td.HasHeaderRow != tt.headerRow || td.HasHeaderColumn != tt.headerCol {
				t.Errorf("explicit=%v row=%v col=%v", td.ExplicitHeaders, td.HasHeaderRow, td.HasHeaderColumn)
			}
			if td.Cells[0][0].IsHeader != (tt.headerRow || tt.headerCol) {
				t.Errorf("Cells[0][0].IsHeader = %v", td.Cells[0][0].IsHeader)
			}
			if e.Content.Text != "Name\tWert\nA\t" {
				t.Errorf("Content.Text = %q", e.Content.Text)
			}
			if empty := td.EmptyCells(); len(empty) != 1 || empty[0] != [2]int{1, 1} {
				t.Errorf("EmptyCells() = %v", empty)
			}
		})
	}
}

func TestParseSkipsHiddenAndEmpty(t *testing.T) {
	data := testDeck{
		slides: []string{
			title(2, "Sichtbar") +
				placeholder(3, "body", 40, 100, 640, 300, "") +
				textBox(4, "Versteckt", 40, 420, 200, 40, ` hidden="1"`),
		},
		slideAttr: map[int]string{1: ` show="0"`},
	}.build(t)
	s := mustParse(t, data).Slides[0]

	if !s.Hidden {
		t.Error("slide with show=0 should be hidden")
	}
	if len(s.Elements) != 1 || s.Elements[0].ID != "s1-e2" {
		t.Errorf("Expected only the title, got %d elements", len(s.Elements))
	}
}

func TestParseLinks(t *testing.T) {
	box := `<p:sp><p:nvSpPr><p:cNvPr id="3" name="TextBox 2"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr>` + xfrm(40, 100, 400, 80) + `</p:spPr>` +
		txBody(
			`<a:p><a:r><a:t>Mehr unter </a:t></a:r><a:r><a:rPr lang="de-DE"><a:hlinkClick r:id="rId7"/></a:rPr><a:t>example.com</a:t></a:r></a:p>`,
			`<a:p><a:r><a:rPr><a:hlinkClick r:id="rId8" action="ppaction://hlinksldjump"/></a:rPr><a:t>Weiter</a:t></a:r></a:p>`,
		) + `</p:sp>`
	data := testDeck{
		slides: []string{title(2, "Links") + box, title(2, "Ziel")},
		slideRels: map[int][]string{1: {
			extRel("rId7", relLink, "https://example.com/"),
			rel("rId8", relSlide, "slide2.xml"),
		}},
	}.build(t)
	e := mustParse(t, data).Slides[0].Element("s1-e3")
	if e == nil {
		t.Fatal("text box not found")
	}

	want := []model.Link{
		{Text: "example.com", URL: "https://example.com/"},
		{Text: "Weiter", URL: "#slide2"},
	}
	if !reflect.DeepEqual(e.Content.Links, want) {
		t.Errorf("Links = %+v, want %+v", e.Content.Links, want)
	}
	if e.Content.Text != "Mehr unter example.com\nWeiter" {
		t.Errorf("Text = %q", e.Content.Text)
	}
}

func TestParseBackground(t *testing.T) {
	data := testDeck{
		slides:    []string{title(2, "Hintergrund")},
		backgrnd:  map[int]string{1: `<p:bg><p:bgPr><a:blipFill><a:blip r:embed="rId2"/></a:blipFill><a:effectLst/></p:bgPr></p:bg>`},
		slideRels: map[int][]string{1: {rel("rId2", relImage, "../media/image1.png")}},
		files:     map[string]string{"ppt/media/image1.png": "png"},
	}.build(t)
	s := mustParse(t, data).Slides[0]

	if len(s.BackgroundElements) != 1 {
		t.Fatalf("Expected 1 background element, got %d", len(s.BackgroundElements))
	}
	bg := s.BackgroundElements[0]
	if bg.ID != "s1-bg" || bg.Type != model.ElementImage || bg.SemanticRole != model.RoleArtifact {
		t.Errorf("background = %s %s %s", bg.ID, bg.Type, bg.SemanticRole)
	}
	if bg.IsDecorative {
		t.Error("background picture is not marked decorative in the source")
	}
	if bg.Position.Width != 720 || bg.Position.Height != 540 {
		t.Errorf("background box = %+v", bg.Position)
	}
	if bg.Media == nil || string(bg.Media.Data) != "png" {
		t.Errorf("background media = %+v", bg.Media)
	}
}

func TestParseLanguage(t *testing.T) {
	english := `<a:p><a:r><a:rPr lang="en-US"/><a:t>Quarterly results overview</a:t></a:r></a:p>`
	bare := `<a:p><a:r><a:t>No language here</a:t></a:r></a:p>`
	shape := func(id int, p string) string {
		return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr>%s</p:spPr>%s</p:sp>`,
			id, xfrm(40, 40*id, 400, 30), txBody(p))
	}

	tests := []struct {
		name   string
		slide  string
		opts   []Option
		want   string
		source model.LanguageSource
	}{
		{"dominant run language", shape(2, english) + shape(3, para("Hallo")), nil, "en-US", model.LanguageFromContent},
		{"configured default", shape(2, bare), []Option{WithDefaultLanguage("fr-FR")}, "fr-FR", model.LanguageFromDefault},
		{"profile default", shape(2, bare), nil, "de-DE", model.LanguageFromDefault},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			md := mustParse(t, testDeck{slides: []string{tt.slide}}.build(t), tt.opts...).Metadata
			if md.Language != tt.want || md.LanguageSource != tt.source {
				t.Errorf("Language = %q (%s), want %q (%s)", md.Language, md.LanguageSource, tt.want, tt.source)
			}
		})
	}
}

func TestParseLayoutInheritance(t *testing.T) {
	inherited := `<p:sp><p:nvSpPr><p:cNvPr id="2" name="Title 1"/><p:cNvSpPr/><p:nvPr><p:ph type="title"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		txBody(para("Geerbt")) + `</p:sp>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Content Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph idx="1"/></p:nvPr></p:nvSpPr><p:spPr/>` +
		txBody(para("Inhalt")) + `</p:sp>`
	layoutPart := `<p:sldLayout ` + slideNS + ` type="titleOnly"><p:cSld name="Title Only"><p:spTree>` +
		placeholder(2, "title", 50, 30, 600, 80, "") + `</p:spTree></p:cSld></p:sldLayout>`
	masterPart := `<p:sldMaster ` + slideNS + `><p:cSld><p:spTree>` +
		placeholder(2, "title", 10, 10, 100, 20, "") +
		`<p:sp><p:nvSpPr><p:cNvPr id="3" name="Text Placeholder 2"/><p:cNvSpPr/><p:nvPr><p:ph type="body" idx="1"/></p:nvPr></p:nvSpPr><p:spPr>` +
		xfrm(40, 120, 640, 360) + `</p:spPr></p:sp></p:spTree></p:cSld></p:sldMaster>`

	data := testDeck{
		slides:    []string{inherited},
		slideRels: map[int][]string{1: {rel("rId1", relLayout, "../slideLayouts/slideLayout1.xml")}},
		files: map[string]string{
			"ppt/slideLayouts/slideLayout1.xml":            layoutPart,
			"ppt/slideLayouts/_rels/slideLayout1.xml.rels": relsPart(rel("rId1", relMaster, "../slideMasters/slideMaster1.xml")),
			"ppt/slideMasters/slideMaster1.xml":            masterPart,
		},
	}.build(t)
	s := mustParse(t, data).Slides[0]

	if s.Layout != "titleOnly" {
		t.Errorf("Layout = %q, want titleOnly", s.Layout)
	}
	if e := s.Element("s1-e2"); e == nil || !samePosition(e.Position, 50, 30, 600, 80) {
		t.Errorf("title should inherit the layout box, got %+v", e)
	}
	if e := s.Element("s1-e3"); e == nil || !samePosition(e.Position, 40, 120, 640, 360) {
		t.Errorf("body should inherit the master box, got %+v", e)
	}
}

func TestParseNotes(t *testing.T) {
	notes := `<p:notes ` + slideNS + `><p:cSld><p:spTree>` +
		`<p:sp><p:nvSpPr><p:cNvPr id="2" name="Slide Image"/><p:cNvSpPr/><p:nvPr><p:ph type="sldImg"/></p:nvPr></p:nvSpPr><p:spPr/></p:sp>` +
		placeholder(3, "body", 0, 0, 100, 100, "Sprechernotiz") +
		placeholder(4, "sldNum", 0, 0, 10, 10, "1") +
		`</p:spTree></p:cSld></p:notes>`
	data := testDeck{
		slides:    []string{title(2, "Notizen")},
		slideRels: map[int][]string{1: {rel("rId3", relNotes, "../notesSlides/notesSlide1.xml")}},
		files:     map[string]string{"ppt/notesSlides/notesSlide1.xml": notes},
	}.build(t)

	if got := mustParse(t, data).Slides[0].Notes; got != "Sprechernotiz" {
		t.Errorf("Notes = %q", got)
	}
}

func TestParseSmartArt(t *testing.T) {
	pt := func(id, text string) string {
		return `<dgm:pt modelId="` + id + `"><dgm:t><a:bodyPr/><a:p><a:r><a:t>` + text + `</a:t></a:r></a:p></dgm:t></dgm:pt>`
	}
	dataPart := `<dgm:dataModel xmlns:dgm="http://schemas.openxmlformats.org/drawingml/2006/diagram" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><dgm:ptLst>` +
		`<dgm:pt modelId="0" type="doc"/>` + pt("1", "Plan") + pt("2", "Build") + pt("3", "Test") +
		`<dgm:pt modelId="9" type="parTrans"/></dgm:ptLst><dgm:cxnLst>` +
		`<dgm:cxn modelId="10" srcId="0" destId="2" srcOrd="1"/>` +
		`<dgm:cxn modelId="11" srcId="0" destId="1" srcOrd="0"/>` +
		`<dgm:cxn modelId="12" srcId="1" destId="3" srcOrd="0"/>` +
		`<dgm:cxn modelId="13" type="presOf" srcId="1" destId="9"/>` +
		`</dgm:cxnLst></dgm:dataModel>`
	graphic := `<dgm:relIds xmlns:dgm="http://schemas.openxmlformats.org/drawingml/2006/diagram" r:dm="rId4" r:lo="rId5" r:qs="rId6" r:cs="rId7"/>`

	data := testDeck{
		slides:    []string{title(2, "Ablauf") + frame(3, "Diagram 2", uriSmartArt, graphic)},
		slideRels: map[int][]string{1: {rel("rId4", relData, "../diagrams/data1.xml")}},
		files:     map[string]string{"ppt/diagrams/data1.xml": dataPart},
	}.build(t)
	e := mustParse(t, data).Slides[0].Element("s1-e3")
	if e == nil || e.Type != model.ElementSmartArt {
		t.Fatalf("smartart element = %+v", e)
	}
	if e.SemanticRole != model.RoleFigure || e.Content.AltTextStatus != model.AltTextMissing {
		t.Errorf("role = %s, status = %s", e.SemanticRole, e.Content.AltTextStatus)
	}

	want := []model.ListItem{
		{Text: "Plan", Level: 0, Label: "•"},
		{Text: "Test", Level: 1, Label: "•"},
		{Text: "Build", Level: 0, Label: "•"},
	}
	if e.List == nil || !reflect.DeepEqual(e.List.Items, want) {
		t.Errorf("List = %+v, want %+v", e.List, want)
	}
	if e.Content.Text != "Plan\nTest\nBuild" {
		t.Errorf("Text = %q", e.Content.Text)
	}
	if len(e.Issues) != 1 || e.Issues[0].Type != model.IssueFlattenedContent {
		t.Errorf("Issues = %+v", e.Issues)
	}
}

func TestParseChart(t *testing.T) {
	chartPart := `<c:chartSpace xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main"><c:chart>` +
		`<c:title><c:tx><c:rich><a:bodyPr/><a:p><a:r><a:t>Sales</a:t></a:r></a:p></c:rich></c:tx></c:title>` +
		`<c:plotArea><c:layout/><c:barChart><c:barDir val="col"/>` +
		`<c:ser><c:idx val="0"/><c:tx><c:strRef><c:f>Sheet1!$B$1</c:f><c:strCache><c:ptCount val="1"/><c:pt idx="0"><c:v>Revenue</c:v></c:pt></c:strCache></c:strRef></c:tx></c:ser>` +
		`<c:ser><c:idx val="1"/><c:tx><c:v>Cost</c:v></c:tx></c:ser>` +
		`</c:barChart><c:catAx/><c:valAx/></c:plotArea></c:chart></c:chartSpace>`
	graphic := `<c:chart xmlns:c="http://schemas.openxmlformats.org/drawingml/2006/chart" r:id="rId4"/>`

	data := testDeck{
		slides:    []string{title(2, "Diagramm") + frame(3, "Chart 2", uriChart, graphic)},
		slideRels: map[int][]string{1: {rel("rId4", relChart, "../charts/chart1.xml")}},
		files:     map[string]string{"ppt/charts/chart1.xml": chartPart},
	}.build(t)
	e := mustParse(t, data).Slides[0].Element("s1-e3")
	if e == nil || e.Type != model.ElementChart {
		t.Fatalf("chart element = %+v", e)
	}
	if want := "Chart: bar; Title: Sales; Series: Revenue, Cost"; e.Content.LongDescription != want {
		t.Errorf("LongDescription = %q, want %q", e.Content.LongDescription, want)
	}
	if e.Content.AltTextStatus != model.AltTextMissing {
		t.Errorf("AltTextStatus = %q", e.Content.AltTextStatus)
	}
}

func TestParseVideo(t *testing.T) {
	video := `<p:pic><p:nvPicPr><p:cNvPr id="3" name="Clip"/><p:cNvPicPr/><p:nvPr><a:videoFile r:link="rId4"/></p:nvPr></p:nvPicPr>` +
		`<p:blipFill><a:blip r:embed="rId2"/></p:blipFill><p:spPr>` + xfrm(100, 100, 320, 180) + `</p:spPr></p:pic>`
	data := testDeck{
		slides: []string{title(2, "Video") + video},
		slideRels: map[int][]string{1: {
			rel("rId2", relImage, "../media/image1.png"),
			extRel("rId4", relVideo, "https://example.com/v.mp4"),
		}},
		files: map[string]string{"ppt/media/image1.png": "poster"},
	}.build(t)
	e := mustParse(t, data).Slides[0].Element("s1-e3")
	if e == nil || e.Media == nil {
		t.Fatalf("video element = %+v", e)
	}
	if e.Media.Kind != model.MediaVideo || e.Media.Source != "https://example.com/v.mp4" {
		t.Errorf("Media = %+v", e.Media)
	}
	if e.Media.ContentType != "image/png" || string(e.Media.Data) != "poster" {
		t.Errorf("poster frame = %q (%s)", e.Media.Data, e.Media.ContentType)
	}
	if len(e.Issues) != 1 || e.Issues[0].Type != model.IssueMediaWithoutAlternative || e.Issues[0].WCAG != "1.2.1" {
		t.Errorf("Issues = %+v", e.Issues)
	}
}

func TestParseLightText(t *testing.T) {
	box := func(id int, spFill, runFill string) string {
		return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr>%s%s</p:spPr>`+
			`<p:txBody><a:bodyPr/><a:p><a:r><a:rPr sz="2400"><a:solidFill>%s</a:solidFill></a:rPr><a:t>Text %d</a:t></a:r></a:p></p:txBody></p:sp>`,
			id, id, xfrm(40, 60*id, 300, 40), spFill, runFill, id)
	}
	white := `<a:srgbClr val="FFFFFF"/>`
	data := testDeck{slides: []string{
		box(2, "", white) +
			box(3, `<a:solidFill><a:srgbClr val="003366"/></a:solidFill>`, white) +
			box(4, "", `<a:schemeClr val="bg1"/>`) +
			box(5, "", `<a:srgbClr val="1F1F1F"/>`),
	}}.build(t)
	s := mustParse(t, data).Slides[0]

	tests := []struct {
		id   string
		risk bool
		fill string
	}{
		{"s1-e2", true, ""},
		{"s1-e3", false, "003366"},
		{"s1-e4", true, ""},
		{"s1-e5", false, ""},
	}
	for _, tt := range tests {
		e := s.Element(tt.id)
		if e == nil {
			t.Fatalf("%s not found", tt.id)
		}
		if e.Style.LightTextRisk != tt.risk || e.Style.Fill != tt.fill {
			t.Errorf("%s: risk=%v fill=%q, want %v %q", tt.id, e.Style.LightTextRisk, e.Style.Fill, tt.risk, tt.fill)
		}
		if e.Style.FontSize != 24 {
			t.Errorf("%s: FontSize = %v", tt.id, e.Style.FontSize)
		}
	}
}

func TestParseErrors(t *testing.T) {
	docx := func(t *testing.T) []byte {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		writeZipFile(t, zw, "word/document.xml", "<w:document/>")
		if err := zw.Close(); err != nil {
			t.Fatalf("Failed to close zip: %v", err)
		}
		return buf.Bytes()
	}
	noPresentation := func(t *testing.T) []byte {
		var buf bytes.Buffer
		zw := zip.NewWriter(&buf)
		writeZipFile(t, zw, "[Content_Types].xml", `<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">`+
			`<Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/></Types>`)
		if err := zw.Close(); err != nil {
			t.Fatalf("Failed to close zip: %v", err)
		}
		return buf.Bytes()
	}

	tests := []struct {
		name   string
		data   func(t *testing.T) []byte
		reason Reason
		part   string
	}{
		{"not a zip", func(*testing.T) []byte { return []byte("hello world") }, ReasonNotZip, ""},
		{"word document", docx, ReasonWrongDocument, ""},
		{"missing presentation part", noPresentation, ReasonMissingPart, "ppt/presentation.xml"},
		{"no slides", func(t *testing.T) []byte { return testDeck{}.build(t) }, ReasonNoSlides, "ppt/presentation.xml"},
		{"broken slide", func(t *testing.T) []byte { return testDeck{slides: []string{"<p:sp>"}}.build(t) }, ReasonInvalidPart, "ppt/slides/slide1.xml"},
		{"dangling slide id", func(t *testing.T) []byte { return testDeck{slides: []string{""}, order: []int{2}}.build(t) }, ReasonInvalidPart, "ppt/presentation.xml"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := Parse(tt.data(t))
			if err == nil {
				t.Fatalf("Expected an error, got %d slides", len(p.Slides))
			}
			if !errors.Is(err, ErrMalformedPackage) {
				t.Errorf("errors.Is(err, ErrMalformedPackage) = false for %v", err)
			}
			var mpe *MalformedPackageError
			if !errors.As(err, &mpe) {
				t.Fatalf("error is %T, want *MalformedPackageError", err)
			}
			if mpe.Reason != tt.reason || mpe.Part != tt.part {
				t.Errorf("Reason = %s, Part = %q; want %s, %q", mpe.Reason, mpe.Part, tt.reason, tt.part)
			}
		})
	}
}

func TestParseWrongDocumentDetected(t *testing.T) {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	writeZipFile(t, zw, "xl/workbook.xml", "<workbook/>")
	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}

	_, err := Parse(buf.Bytes())
	var mpe *MalformedPackageError
	if !errors.As(err, &mpe) {
		t.Fatalf("error is %T, want *MalformedPackageError", err)
	}
	if mpe.Detected != format.XLSX {
		t.Errorf("Detected = %s, want XLSX", mpe.Detected)
	}
	if msg := mpe.Message("de"); !strings.Contains(msg, "XLSX") {
		t.Errorf("Message(de) = %q", msg)
	}
}
