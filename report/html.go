package report

import (
	"fmt"
	"io"
	"strings"

	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

const stylesheet = `body{font-family:sans-serif;max-width:60em;margin:2em auto;line-height:1.4}
table{border-collapse:collapse;width:100%}th,td{border:1px solid #999;padding:.3em .5em;text-align:left;vertical-align:top}
.error{color:#a00}.warning{color:#850}.info{color:#036}`

// HTML writes the report as a standalone HTML page in the given language.
// The page itself is accessible: it declares its language and uses header
// cells with scope.
func (r *AccessibilityReport) HTML(w io.Writer, lang string) error {
	l := labelsFor(lang)
	pageLang := "en"
	if strings.HasPrefix(strings.ToLower(lang), "de") {
		pageLang = "de"
	}

	title := r.DocumentTitle
	if title == "" {
		title = l.untitled
	}

	doc := &html.Node{Type: html.DocumentNode}
	doc.AppendChild(&html.Node{Type: html.DoctypeNode, Data: "html"})
	root := elem(atom.Html, attr("lang", pageLang))
	doc.AppendChild(root)

	head := elem(atom.Head)
	head.AppendChild(elem(atom.Meta, attr("charset", "utf-8")))
	head.AppendChild(textElem(atom.Title, l.report+": "+title))
	head.AppendChild(textElem(atom.Style, stylesheet))
	root.AppendChild(head)

	body := elem(atom.Body)
	root.AppendChild(body)
	body.AppendChild(textElem(atom.H1, l.report+": "+title))

	facts := elem(atom.Dl)
	pdfua := r.Conformance.PDFUA
	if pdfua == "" {
		pdfua = "-"
	}
	for _, kv := range [][2]string{
		{l.timestamp, r.Timestamp.Format("2006-01-02 15:04:05 MST")},
		{l.profile, r.Profile},
		{l.score, fmt.Sprintf("%d/%d", r.Score, MaxScore)},
		{"WCAG 2.1", string(r.Conformance.WCAG)},
		{"PDF/UA", pdfua},
		{"BITV 2.0", l.bitv(r.Conformance.BITV)},
	} {
		facts.AppendChild(textElem(atom.Dt, kv[0]))
		facts.AppendChild(textElem(atom.Dd, kv[1]))
	}
	body.AppendChild(facts)

	summary := r.Overview.En
	if pageLang == "de" {
		summary = r.Overview.De
	}
	body.AppendChild(textElem(atom.P, summary))

	if len(r.Issues) == 0 {
		body.AppendChild(textElem(atom.P, l.none))
	} else {
		table := elem(atom.Table)
		table.AppendChild(textElem(atom.Caption, fmt.Sprintf("%d %s, %d %s, %d %s",
			r.Summary.Errors, l.errors, r.Summary.Warnings, l.warnings, r.Summary.Info, l.info)))
		thead := elem(atom.Thead)
		tr := elem(atom.Tr)
		for _, h := range []string{l.slide, l.severity, l.typ, l.element, l.wcag, l.message} {
			tr.AppendChild(textElem(atom.Th, h, attr("scope", "col")))
		}
		thead.AppendChild(tr)
		table.AppendChild(thead)

		tbody := elem(atom.Tbody)
		for _, is := range r.Issues {
			row := elem(atom.Tr, attr("id", is.ID))
			row.AppendChild(textElem(atom.Td, l.where(is)))
			row.AppendChild(textElem(atom.Td, l.severities[is.Severity], attr("class", string(is.Severity))))
			row.AppendChild(textElem(atom.Td, string(is.Type)))
			row.AppendChild(textElem(atom.Td, is.ElementID))
			row.AppendChild(textElem(atom.Td, is.WCAG))
			row.AppendChild(textElem(atom.Td, is.Message.In(lang)))
			tbody.AppendChild(row)
		}
		table.AppendChild(tbody)
		body.AppendChild(table)
	}

	if len(r.Recommendations) > 0 {
		body.AppendChild(textElem(atom.H2, l.recommendations))
		ul := elem(atom.Ul)
		for _, rec := range r.Recommendations {
			ul.AppendChild(textElem(atom.Li, rec.In(lang)))
		}
		body.AppendChild(ul)
	}

	return html.Render(w, doc)
}

func attr(key, val string) html.Attribute {
	return html.Attribute{Key: key, Val: val}
}

func elem(a atom.Atom, attrs ...html.Attribute) *html.Node {
	return &html.Node{Type: html.ElementNode, DataAtom: a, Data: a.String(), Attr: attrs}
}

func textElem(a atom.Atom, text string, attrs ...html.Attribute) *html.Node {
	n := elem(a, attrs...)
	n.AppendChild(&html.Node{Type: html.TextNode, Data: text})
	return n
}
