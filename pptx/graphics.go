package pptx

import (
	"mime"
	"path"
	"sort"
	"strings"

	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/opc"
)

func (b *slideBuilder) picture(pic *picXML, m model.Matrix, gid string, decorative bool) {
	c := pic.NvPicPr.CNvPr
	if boolAttr(c.Hidden, false) {
		return
	}
	nv := pic.NvPicPr.NvPr
	phType := placeholderType(nv.Ph)

	el := b.newElement(c, gid, b.position(pic.SpPr.Xfrm, m, nv.Ph))
	el.Type = Classify(Candidate{Kind: KindPicture, Name: c.Name, Placeholder: phType})
	el.Placeholder = phType
	el.Media = b.media(&pic.BlipFill)

	if el.Media != nil {
		switch {
		case nv.VideoFile != nil:
			el.Media.Kind = model.MediaVideo
			el.Media.Source = b.mediaSource(nv.VideoFile.rid())
		case nv.AudioFile != nil:
			el.Media.Kind = model.MediaAudio
			el.Media.Source = b.mediaSource(nv.AudioFile.rid())
		case nv.embeddedMedia() != nil:
			src := b.mediaSource(nv.embeddedMedia().rid())
			el.Media.Kind = model.MediaVideo
			if strings.HasPrefix(b.p.pkg.ContentType(src), "audio/") {
				el.Media.Kind = model.MediaAudio
			}
			el.Media.Source = src
		}
	}

	applyAltText(el, c, decorative)

	if c.HlinkClick != nil {
		if url := b.linkTarget(c.HlinkClick); url != "" {
			el.Content.Links = append(el.Content.Links, model.Link{Text: el.Content.AltText, URL: url})
		}
	}
	if el.Media != nil && el.Media.Kind != model.MediaImage {
		el.Issues = append(el.Issues, mediaIssue(b.slide.Number, el))
	}
	b.add(el)
}

func mediaIssue(slide int, el *model.SlideElement) model.AccessibilityIssue {
	msg := model.Message{
		De: "Video oder Audio ohne Untertitel, Transkript oder Textalternative. Stellen Sie eine gleichwertige Alternative bereit.",
		En: "Video or audio without captions, transcript or text alternative. Provide an equivalent alternative.",
	}
	if el.Media.Kind == model.MediaAudio {
		msg = model.Message{
			De: "Audio ohne Transkript. Stellen Sie eine Textfassung bereit.",
			En: "Audio without a transcript. Provide a text version.",
		}
	}
	is := model.NewIssue(model.IssueMediaWithoutAlternative, model.SeverityWarning, slide, el, msg).
		WithRefs("1.2.1", "")
	if el.Media.Source != "" {
		is = is.WithContext("%s: %s", el.Media.Kind, el.Media.Source)
	}
	return is
}

// media loads the picture a blip fill draws. Linked pictures keep their
// target and carry no data.
func (b *slideBuilder) media(bf *blipFillXML) *model.Media {
	if bf == nil || bf.Blip == nil {
		return nil
	}
	rid := bf.Blip.Embed
	if rid == "" {
		rid = bf.Blip.Link
	}
	rel, ok := b.rels.ByID(rid)
	if !ok {
		return nil
	}
	if rel.External() {
		return &model.Media{Kind: model.MediaImage, Part: rel.Target}
	}

	part := opc.ResolveTarget(b.part, rel.Target)
	md := &model.Media{Kind: model.MediaImage, Part: part, ContentType: b.p.pkg.ContentType(part)}
	if md.ContentType == "" {
		md.ContentType = mime.TypeByExtension(strings.ToLower(path.Ext(part)))
	}
	if data, err := b.p.pkg.Part(part); err == nil {
		md.Data = data
	}
	return md
}

// mediaSource resolves a video or audio relationship to a part name or
// external target.
func (b *slideBuilder) mediaSource(rid string) string {
	rel, ok := b.rels.ByID(rid)
	if !ok {
		return ""
	}
	if rel.External() {
		return rel.Target
	}
	return opc.ResolveTarget(b.part, rel.Target)
}

func (b *slideBuilder) frame(gf *graphicFrameXML, m model.Matrix, gid string, decorative bool) {
	c := gf.NvGraphicFramePr.CNvPr
	if boolAttr(c.Hidden, false) {
		return
	}
	ph := gf.NvGraphicFramePr.NvPr.Ph
	data := gf.Graphic.GraphicData

	el := b.newElement(c, gid, b.position(gf.Xfrm, m, ph))
	el.Type = Classify(Candidate{
		Kind:        KindGraphicFrame,
		Name:        c.Name,
		Placeholder: placeholderType(ph),
		FrameURI:    data.URI,
	})
	el.Placeholder = placeholderType(ph)

	switch el.Type {
	case model.ElementTable:
		if data.Tbl != nil {
			el.Table = b.table(data.Tbl)
			el.Content.Text = el.Table.Text()
		}
	case model.ElementChart:
		if data.Chart != nil {
			el.Content.LongDescription = b.chartSummary(data.Chart.RID)
		}
	case model.ElementSmartArt:
		var items []model.ListItem
		if data.RelIds != nil {
			items = b.smartArt(data.RelIds.DM)
		}
		if len(items) > 0 {
			el.List = &model.ListData{Items: items}
			texts := make([]string, len(items))
			for i, it := range items {
				texts[i] = it.Text
			}
			el.Content.Text = strings.Join(texts, "\n")
		}
		el.Issues = append(el.Issues, flattenedIssue(b.slide.Number, el, len(items)))
	}

	applyAltText(el, c, decorative)
	b.add(el)
}

func flattenedIssue(slide int, el *model.SlideElement, items int) model.AccessibilityIssue {
	msg := model.Message{
		De: "SmartArt-Grafik wird als Liste oder Abbildung ausgegeben. Beziehungen zwischen den Elementen gehen dabei verloren; beschreiben Sie sie im Alternativtext.",
		En: "SmartArt graphic is exported as a list or figure. Relationships between its items are lost; describe them in the alternative text.",
	}
	return model.NewIssue(model.IssueFlattenedContent, model.SeverityWarning, slide, el, msg).
		WithRefs("1.3.1", "").
		WithContext("%d items", items)
}

// table converts a:tbl. Header flags come from tblPr when it carries
// firstRow or firstCol; otherwise the first row is taken as header.
func (b *slideBuilder) table(tbl *tblXML) *model.TableData {
	cells := make([][]model.TableCell, 0, len(tbl.Tr))
	for _, tr := range tbl.Tr {
		row := make([]model.TableCell, 0, len(tr.Tc))
		for _, tc := range tr.Tc {
			tb := b.text(tc.TxBody)
			cell := model.TableCell{
				Text:    strings.ReplaceAll(tb.Text, "\n", " "),
				RowSpan: tc.RowSpan,
				ColSpan: tc.GridSpan,
				Merged:  boolAttr(tc.HMerge, false) || boolAttr(tc.VMerge, false),
			}
			if cell.RowSpan < 1 {
				cell.RowSpan = 1
			}
			if cell.ColSpan < 1 {
				cell.ColSpan = 1
			}
			row = append(row, cell)
		}
		cells = append(cells, row)
	}

	pr := tbl.TblPr
	explicit := pr != nil && (pr.FirstRow != nil || pr.FirstCol != nil)
	var headerRow, headerCol bool
	if explicit {
		headerRow = pr.FirstRow != nil && boolAttr(*pr.FirstRow, false)
		headerCol = pr.FirstCol != nil && boolAttr(*pr.FirstCol, false)
	}
	return model.NewTableData(cells, explicit, headerRow, headerCol)
}

// chartSummary describes a chart part as "Chart: bar, line; Title: ...;
// Series: ...". Unreadable charts give "".
func (b *slideBuilder) chartSummary(rid string) string {
	rel, ok := b.rels.ByID(rid)
	if !ok || rel.External() {
		return ""
	}
	var cs chartSpaceXML
	if !b.p.readXML(opc.ResolveTarget(b.part, rel.Target), &cs) {
		return ""
	}

	var kinds, series []string
	for _, plot := range cs.Chart.PlotArea.Charts {
		name := plot.XMLName.Local
		if !strings.HasSuffix(name, "Chart") {
			continue
		}
		kinds = append(kinds, strings.TrimSuffix(name, "Chart"))
		for _, ser := range plot.Ser {
			label := strings.TrimSpace(ser.Tx.V)
			if label == "" && len(ser.Tx.StrRef.Pt) > 0 {
				label = strings.TrimSpace(ser.Tx.StrRef.Pt[0].V)
			}
			if label != "" {
				series = append(series, label)
			}
		}
	}

	var parts []string
	if len(kinds) > 0 {
		parts = append(parts, "Chart: "+strings.Join(kinds, ", "))
	}
	if t := cs.Chart.Title; t != nil && t.Tx != nil {
		if title := plainText(t.Tx.Rich, " "); title != "" {
			parts = append(parts, "Title: "+title)
		}
	}
	if len(series) > 0 {
		parts = append(parts, "Series: "+strings.Join(series, ", "))
	}
	return strings.Join(parts, "; ")
}

// smartArtSkip lists data model points that carry no content.
var smartArtSkip = map[string]bool{
	"parTrans": true,
	"sibTrans": true,
	"pres":     true,
}

// smartArt reads a diagram data model and returns its text points in
// hierarchy order. The document point's children are level 0.
func (b *slideBuilder) smartArt(rid string) []model.ListItem {
	rel, ok := b.rels.ByID(rid)
	if !ok || rel.External() {
		return nil
	}
	var dm dataModelXML
	if !b.p.readXML(opc.ResolveTarget(b.part, rel.Target), &dm) {
		return nil
	}

	kinds := make(map[string]string, len(dm.Pt))
	texts := make(map[string]string, len(dm.Pt))
	root := ""
	for _, pt := range dm.Pt {
		kinds[pt.ModelID] = pt.Type
		texts[pt.ModelID] = plainText(pt.T, " ")
		if pt.Type == "doc" && root == "" {
			root = pt.ModelID
		}
	}
	if root == "" {
		return nil
	}

	type edge struct {
		dest string
		ord  int
	}
	children := make(map[string][]edge)
	for _, cx := range dm.Cxn {
		if cx.Type != "" && cx.Type != "parOf" {
			continue
		}
		children[cx.SrcID] = append(children[cx.SrcID], edge{cx.DestID, cx.SrcOrd})
	}
	for src := range children {
		edges := children[src]
		sort.SliceStable(edges, func(i, j int) bool { return edges[i].ord < edges[j].ord })
	}

	var items []model.ListItem
	seen := map[string]bool{root: true}
	var visit func(id string, level int)
	visit = func(id string, level int) {
		for _, e := range children[id] {
			if seen[e.dest] || smartArtSkip[kinds[e.dest]] {
				continue
			}
			seen[e.dest] = true
			if t := texts[e.dest]; t != "" {
				items = append(items, model.ListItem{Text: t, Level: level, Label: "•"})
			}
			visit(e.dest, level+1)
		}
	}
	visit(root, 0)
	return items
}
