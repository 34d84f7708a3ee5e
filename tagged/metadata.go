package tagged

import (
	"encoding/xml"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/tsawler/slideua/core"
	"github.com/tsawler/slideua/model"
)

// Producer is written into the document information and XMP metadata.
const Producer = "slideua"

// canonicalLanguage returns the BCP 47 form of tag, or tag unchanged when
// it does not parse.
func canonicalLanguage(tag string) string {
	tag = strings.TrimSpace(tag)
	if t, err := language.Parse(tag); err == nil {
		return t.String()
	}
	return tag
}

// sameLanguage reports whether two tags share a base language.
func sameLanguage(a, b string) bool {
	ta, errA := language.Parse(a)
	tb, errB := language.Parse(b)
	if errA != nil || errB != nil {
		return strings.EqualFold(a, b)
	}
	baseA, _ := ta.Base()
	baseB, _ := tb.Base()
	return baseA == baseB
}

func pdfDate(t time.Time) core.Object {
	return core.String(t.UTC().Format("D:20060102150405Z"))
}

// infoDict builds the document information dictionary.
func infoDict(md model.Metadata, producer string) core.Dict {
	info := core.Dict{
		"Producer": core.TextString(producer),
		"Creator":  core.TextString(producer),
	}
	if md.Title != "" {
		info["Title"] = core.TextString(md.Title)
	}
	if md.Author != "" {
		info["Author"] = core.TextString(md.Author)
	}
	if md.Subject != "" {
		info["Subject"] = core.TextString(md.Subject)
	}
	if len(md.Keywords) > 0 {
		info["Keywords"] = core.TextString(strings.Join(md.Keywords, ", "))
	}
	if !md.Created.IsZero() {
		info["CreationDate"] = pdfDate(md.Created)
	}
	if !md.Modified.IsZero() {
		info["ModDate"] = pdfDate(md.Modified)
	}
	return info
}

func escapeXML(s string) string {
	var b strings.Builder
	xml.EscapeText(&b, []byte(s))
	return b.String()
}

// xmpPacket renders the XMP metadata stream content. PDF/UA requires
// dc:title and the pdfuaid:part identification.
func xmpPacket(md model.Metadata, lang, producer string, part int) []byte {
	var b strings.Builder
	b.WriteString("<?xpacket begin=\"\xEF\xBB\xBF\" id=\"W5M0MpCehiHzreSzNTczkc9d\"?>\n")
	b.WriteString("<x:xmpmeta xmlns:x=\"adobe:ns:meta/\">\n")
	b.WriteString("<rdf:RDF xmlns:rdf=\"http://www.w3.org/1999/02/22-rdf-syntax-ns#\">\n")
	b.WriteString("<rdf:Description rdf:about=\"\"")
	b.WriteString(" xmlns:dc=\"http://purl.org/dc/elements/1.1/\"")
	b.WriteString(" xmlns:pdf=\"http://ns.adobe.com/pdf/1.3/\"")
	b.WriteString(" xmlns:xmp=\"http://ns.adobe.com/xap/1.0/\"")
	b.WriteString(" xmlns:pdfuaid=\"http://www.aiim.org/pdfua/ns/id/\">\n")

	b.WriteString("<dc:format>application/pdf</dc:format>\n")
	if md.Title != "" {
		b.WriteString("<dc:title><rdf:Alt><rdf:li xml:lang=\"x-default\">" + escapeXML(md.Title) + "</rdf:li></rdf:Alt></dc:title>\n")
	}
	if md.Author != "" {
		b.WriteString("<dc:creator><rdf:Seq><rdf:li>" + escapeXML(md.Author) + "</rdf:li></rdf:Seq></dc:creator>\n")
	}
	if md.Subject != "" {
		b.WriteString("<dc:description><rdf:Alt><rdf:li xml:lang=\"x-default\">" + escapeXML(md.Subject) + "</rdf:li></rdf:Alt></dc:description>\n")
	}
	b.WriteString("<dc:language><rdf:Bag><rdf:li>" + escapeXML(lang) + "</rdf:li></rdf:Bag></dc:language>\n")
	b.WriteString("<pdf:Producer>" + escapeXML(producer) + "</pdf:Producer>\n")
	if len(md.Keywords) > 0 {
		b.WriteString("<pdf:Keywords>" + escapeXML(strings.Join(md.Keywords, ", ")) + "</pdf:Keywords>\n")
	}
	b.WriteString("<xmp:CreatorTool>" + escapeXML(producer) + "</xmp:CreatorTool>\n")
	if !md.Created.IsZero() {
		b.WriteString("<xmp:CreateDate>" + md.Created.UTC().Format(time.RFC3339) + "</xmp:CreateDate>\n")
	}
	if !md.Modified.IsZero() {
		b.WriteString("<xmp:ModifyDate>" + md.Modified.UTC().Format(time.RFC3339) + "</xmp:ModifyDate>\n")
	}
	b.WriteString("<pdfuaid:part>" + strconv.Itoa(part) + "</pdfuaid:part>\n")

	b.WriteString("</rdf:Description>\n</rdf:RDF>\n</x:xmpmeta>\n")
	b.WriteString("<?xpacket end=\"w\"?>")
	return []byte(b.String())
}
