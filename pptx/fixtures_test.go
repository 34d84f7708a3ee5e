package pptx

import (
	"archive/zip"
	"bytes"
	"fmt"
	"sort"
	"strings"
	"testing"
)

const (
	relNS     = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"
	slideNS   = `xmlns:p="http://schemas.openxmlformats.org/presentationml/2006/main" xmlns:a="http://schemas.openxmlformats.org/drawingml/2006/main" xmlns:r="http://schemas.openxmlformats.org/officeDocument/2006/relationships"`
	relSlide  = relNS + "/slide"
	relImage  = relNS + "/image"
	relLink   = relNS + "/hyperlink"
	relLayout = relNS + "/slideLayout"
	relMaster = relNS + "/slideMaster"
	relNotes  = relNS + "/notesSlide"
	relChart  = relNS + "/chart"
	relData   = relNS + "/diagramData"
	relVideo  = relNS + "/video"
)

// writeZipFile writes a file into a zip archive.
func writeZipFile(t *testing.T, zw *zip.Writer, name, content string) {
	t.Helper()
	w, err := zw.Create(name)
	if err != nil {
		t.Fatalf("Failed to create %s in zip: %v", name, err)
	}
	if _, err := w.Write([]byte(content)); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// testDeck describes an in-memory presentation.
type testDeck struct {
	slides    []string          // p:spTree children per slide
	slideRels map[int][]string  // extra Relationship elements per slide number
	slideAttr map[int]string    // extra p:sld attributes per slide number
	backgrnd  map[int]string    // p:bg element per slide number
	files     map[string]string // extra parts
	core      string            // docProps/core.xml body, "" for none
	order     []int             // sldIdLst order as slide numbers, nil for 1..n
	noIDList  bool
}

func rel(id, typ, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s"/>`, id, typ, target)
}

func extRel(id, typ, target string) string {
	return fmt.Sprintf(`<Relationship Id="%s" Type="%s" Target="%s" TargetMode="External"/>`, id, typ, target)
}

func relsPart(rels ...string) string {
	return `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Relationships xmlns="http://schemas.openxmlformats.org/package/2006/relationships">` +
		strings.Join(rels, "") + `</Relationships>`
}

// build writes the deck into a zip archive.
func (d testDeck) build(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)

	writeZipFile(t, zw, "[Content_Types].xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<Types xmlns="http://schemas.openxmlformats.org/package/2006/content-types">
  <Default Extension="rels" ContentType="application/vnd.openxmlformats-package.relationships+xml"/>
  <Default Extension="xml" ContentType="application/xml"/>
  <Default Extension="png" ContentType="image/png"/>
  <Default Extension="mp4" ContentType="video/mp4"/>
  <Override PartName="/ppt/presentation.xml" ContentType="application/vnd.openxmlformats-officedocument.presentationml.presentation.main+xml"/>
</Types>`)

	pkgRels := []string{rel("rId1", relNS+"/officeDocument", "ppt/presentation.xml")}
	if d.core != "" {
		pkgRels = append(pkgRels, rel("rId2", "http://schemas.openxmlformats.org/package/2006/relationships/metadata/core-properties", "docProps/core.xml"))
		writeZipFile(t, zw, "docProps/core.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<cp:coreProperties xmlns:cp="http://schemas.openxmlformats.org/package/2006/metadata/core-properties" xmlns:dc="http://purl.org/dc/elements/1.1/" xmlns:dcterms="http://purl.org/dc/terms/">`+d.core+`</cp:coreProperties>`)
	}
	writeZipFile(t, zw, "_rels/.rels", relsPart(pkgRels...))

	var presRels []string
	for i := range d.slides {
		presRels = append(presRels, rel(fmt.Sprintf("rId%d", i+1), relSlide, fmt.Sprintf("slides/slide%d.xml", i+1)))
	}
	writeZipFile(t, zw, "ppt/_rels/presentation.xml.rels", relsPart(presRels...))

	order := d.order
	if order == nil {
		for i := range d.slides {
			order = append(order, i+1)
		}
	}
	var ids strings.Builder
	if !d.noIDList && len(d.slides) > 0 {
		ids.WriteString("<p:sldIdLst>")
		for i, n := range order {
			fmt.Fprintf(&ids, `<p:sldId id="%d" r:id="rId%d"/>`, 256+i, n)
		}
		ids.WriteString("</p:sldIdLst>")
	}
	writeZipFile(t, zw, "ppt/presentation.xml", `<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:presentation `+slideNS+`>`+ids.String()+`<p:sldSz cx="9144000" cy="6858000"/></p:presentation>`)

	for i, tree := range d.slides {
		n := i + 1
		writeZipFile(t, zw, fmt.Sprintf("ppt/slides/slide%d.xml", n), fmt.Sprintf(
			`<?xml version="1.0" encoding="UTF-8" standalone="yes"?>
<p:sld %s%s><p:cSld>%s<p:spTree><p:nvGrpSpPr><p:cNvPr id="1" name=""/><p:cNvGrpSpPr/><p:nvPr/></p:nvGrpSpPr><p:grpSpPr/>%s</p:spTree></p:cSld></p:sld>`,
			slideNS, d.slideAttr[n], d.backgrnd[n], tree))
		if rels := d.slideRels[n]; len(rels) > 0 {
			writeZipFile(t, zw, fmt.Sprintf("ppt/slides/_rels/slide%d.xml.rels", n), relsPart(rels...))
		}
	}

	names := make([]string, 0, len(d.files))
	for name := range d.files {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		writeZipFile(t, zw, name, d.files[name])
	}

	if err := zw.Close(); err != nil {
		t.Fatalf("Failed to close zip: %v", err)
	}
	return buf.Bytes()
}

// xfrm places a box given in points.
func xfrm(x, y, w, h int) string {
	return fmt.Sprintf(`<a:xfrm><a:off x="%d" y="%d"/><a:ext cx="%d" cy="%d"/></a:xfrm>`,
		x*12700, y*12700, w*12700, h*12700)
}

func para(text string) string {
	return `<a:p><a:r><a:rPr lang="de-DE"/><a:t>` + text + `</a:t></a:r></a:p>`
}

func txBody(paras ...string) string {
	return `<p:txBody><a:bodyPr/>` + strings.Join(paras, "") + `</p:txBody>`
}

// placeholder is a placeholder shape holding one paragraph.
func placeholder(id int, phType string, x, y, w, h int, text string) string {
	ph := `<p:ph/>`
	if phType != "" {
		ph = fmt.Sprintf(`<p:ph type="%s"/>`, phType)
	}
	body := txBody()
	if text != "" {
		body = txBody(para(text))
	}
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="Placeholder %d"/><p:cNvSpPr/><p:nvPr>%s</p:nvPr></p:nvSpPr><p:spPr>%s</p:spPr>%s</p:sp>`,
		id, id, ph, xfrm(x, y, w, h), body)
}

func title(id int, text string) string {
	return placeholder(id, "title", 40, 20, 640, 60, text)
}

// textBox is a free text box; attrs are added to its cNvPr.
func textBox(id int, text string, x, y, w, h int, attrs string) string {
	return fmt.Sprintf(`<p:sp><p:nvSpPr><p:cNvPr id="%d" name="TextBox %d"%s/><p:cNvSpPr txBox="1"/><p:nvPr/></p:nvSpPr><p:spPr>%s</p:spPr>%s</p:sp>`,
		id, id, attrs, xfrm(x, y, w, h), txBody(para(text)))
}

// picture draws the image related by rid; attrs are added to its cNvPr.
func picture(id int, rid string, x, y, w, h int, attrs string) string {
	return fmt.Sprintf(`<p:pic><p:nvPicPr><p:cNvPr id="%d" name="Picture %d"%s/><p:cNvPicPr/><p:nvPr/></p:nvPicPr><p:blipFill><a:blip r:embed="%s"/></p:blipFill><p:spPr>%s</p:spPr></p:pic>`,
		id, id, attrs, rid, xfrm(x, y, w, h))
}

// frame wraps graphic data in a graphic frame.
func frame(id int, name, uri, data string) string {
	return fmt.Sprintf(`<p:graphicFrame><p:nvGraphicFramePr><p:cNvPr id="%d" name="%s"/><p:cNvGraphicFramePr/><p:nvPr/></p:nvGraphicFramePr><p:xfrm><a:off x="508000" y="1270000"/><a:ext cx="6350000" cy="2540000"/></p:xfrm><a:graphic><a:graphicData uri="%s">%s</a:graphicData></a:graphic></p:graphicFrame>`,
		id, name, uri, data)
}

// decorativeExt is the extension list PowerPoint writes for "Mark as
// decorative".
const decorativeExt = `<a:extLst><a:ext uri="{C183D7F6-B498-43B3-948B-1728B52AA6E4}"><adec:decorative xmlns:adec="http://schemas.microsoft.com/office/drawing/2017/decorative" val="1"/></a:ext></a:extLst>`

// scenarioDeck is three slides: a title slide, a slide with an image
// lacking alternative text and a slide with text boxes laid out as a 2x3
// table.
func scenarioDeck(t *testing.T) []byte {
	t.Helper()
	grid := ""
	id := 3
	for r := 0; r < 2; r++ {
		for c := 0; c < 3; c++ {
			grid += textBox(id, fmt.Sprintf("Cell %d-%d", r, c), 50+c*200, 150+r*60, 150, 30, "")
			id++
		}
	}
	return testDeck{
		slides: []string{
			title(2, "Quartalsbericht") + placeholder(3, "subTitle", 40, 100, 640, 40, "Ergebnisse Q3"),
			title(2, "Umsatz") + picture(3, "rId2", 100, 120, 400, 300, ""),
			title(2, "Zahlen") + grid,
		},
		slideRels: map[int][]string{
			2: {rel("rId2", relImage, "../media/image1.png")},
		},
		files: map[string]string{
			"ppt/media/image1.png": "\x89PNG fake",
		},
		core: `<dc:title>Quarterly report</dc:title><dc:creator>Jane Doe</dc:creator><dc:language>de-DE</dc:language>`,
	}.build(t)
}
