package tagged

import (
	"errors"
	"fmt"
	"sort"

	"github.com/tsawler/slideua/core"
	"github.com/tsawler/slideua/font"
	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/profile"
)

// Default page size in points when the presentation does not declare one
// (16:9 at 960 x 540).
const (
	defaultWidth  = 960
	defaultHeight = 540
)

// Resource names of the two embedded fonts.
const (
	fontRegular = "F1"
	fontBold    = "F2"
)

// Option configures a Generator.
type Option func(*Generator)

// WithFonts replaces the bundled Go fonts with other TrueType programs.
func WithFonts(regular, bold []byte) Option {
	return func(g *Generator) {
		g.regular = regular
		g.bold = bold
	}
}

// WithProducer sets the producer name written into the metadata.
func WithProducer(name string) Option {
	return func(g *Generator) {
		if name != "" {
			g.producer = name
		}
	}
}

// Generator renders presentations into tagged PDF. A Generator holds no
// per-document state and may be shared between goroutines.
type Generator struct {
	regular  []byte
	bold     []byte
	producer string
}

// New creates a Generator.
func New(opts ...Option) *Generator {
	g := &Generator{producer: Producer}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Generate renders p with a default Generator.
func Generate(p *model.Presentation, prof profile.Profile, opts ...Option) ([]byte, *StructTree, error) {
	return New(opts...).Generate(p, prof)
}

func (g *Generator) fonts() (*font.Font, *font.Font, error) {
	if g.regular == nil && g.bold == nil {
		regular, err := font.Regular()
		if err != nil {
			return nil, nil, err
		}
		bold, err := font.Bold()
		return regular, bold, err
	}
	regular, err := font.Parse(g.regular, false)
	if err != nil {
		return nil, nil, err
	}
	if g.bold == nil {
		return regular, regular, nil
	}
	bold, err := font.Parse(g.bold, true)
	return regular, bold, err
}

// Generate renders the presentation as a tagged PDF and returns the file
// together with its structure tree. Accessibility problems in the input do
// not stop generation; only missing resources such as fonts do.
func (g *Generator) Generate(p *model.Presentation, prof profile.Profile) ([]byte, *StructTree, error) {
	if p == nil {
		return nil, nil, &RenderError{Resource: "document", Err: errors.New("no presentation")}
	}
	regular, bold, err := g.fonts()
	if err != nil {
		return nil, nil, &RenderError{Resource: "font", Err: err}
	}

	b := newBuilder(p, prof, regular, bold, g.producer)
	for _, s := range p.Slides {
		b.slide(s)
	}
	data, err := b.finish()
	if err != nil {
		return nil, nil, err
	}
	return data, b.tree, nil
}

type builder struct {
	prof     profile.Profile
	pres     *model.Presentation
	w        *core.Writer
	regular  *font.Font
	bold     *font.Font
	producer string
	lang     string
	width    float64
	height   float64

	tree     *StructTree
	pages    []*page
	pagesRef core.IndirectRef
	images   map[string]*imageRef
}

type imageRef struct {
	ref core.IndirectRef
	ok  bool
}

type page struct {
	number   int
	ref      core.IndirectRef
	sect     *Node
	mcids    []*Node
	xobjects core.Dict
	annots   []*annotation
	chunks   []chunk
}

// chunk is the content drawn for one element.
type chunk struct {
	z    int
	data []byte
}

type annotation struct {
	node *Node
	page *page
	rect []float64
	url  string
	text string
	ref  core.IndirectRef
	key  int
}

func newBuilder(p *model.Presentation, prof profile.Profile, regular, bold *font.Font, producer string) *builder {
	b := &builder{
		prof:     prof,
		pres:     p,
		w:        core.NewWriter(),
		regular:  regular,
		bold:     bold,
		producer: producer,
		width:    p.SlideSize.Width,
		height:   p.SlideSize.Height,
		images:   make(map[string]*imageRef),
	}
	if b.width <= 0 || b.height <= 0 {
		b.width, b.height = defaultWidth, defaultHeight
	}
	b.lang = p.Metadata.Language
	if b.lang == "" {
		b.lang = prof.Language()
	}
	b.lang = canonicalLanguage(b.lang)
	b.w.SetVersion(prof.Export.PDFVersion)
	b.pagesRef = b.w.Reserve()
	b.tree = &StructTree{Root: &Node{Role: model.RoleDocument}}
	return b
}

// mcid allocates the next marked-content id on the page for n.
func (pg *page) mcid(n *Node) int {
	id := len(pg.mcids)
	pg.mcids = append(pg.mcids, n)
	n.MCIDs = append(n.MCIDs, id)
	return id
}

func (b *builder) slide(s *model.Slide) {
	pg := &page{number: s.Number, ref: b.w.Reserve(), xobjects: core.Dict{}}
	b.pages = append(b.pages, pg)
	pg.sect = b.tree.Root.add(&Node{Role: model.RoleSect, Slide: s.Number, Title: s.Title()})

	for _, e := range s.BackgroundElements {
		b.artifact(pg, e)
	}
	for _, e := range s.OrderedElements() {
		b.element(pg, pg.sect, e)
	}
}

func (b *builder) finish() ([]byte, error) {
	w := b.w
	regular, err := b.writeFont(b.regular)
	if err != nil {
		return nil, &RenderError{Resource: "font " + b.regular.Name, Err: err}
	}
	bold, err := b.writeFont(b.bold)
	if err != nil {
		return nil, &RenderError{Resource: "font " + b.bold.Name, Err: err}
	}
	fonts := core.Dict{fontRegular: regular, fontBold: bold}

	b.tree.Walk(func(n *Node, _ int) { n.ref = w.Reserve() })
	key := len(b.pages)
	for _, pg := range b.pages {
		for _, a := range pg.annots {
			a.ref = w.Reserve()
			a.key = key
			key++
		}
	}

	kids := make(core.Array, 0, len(b.pages))
	for i, pg := range b.pages {
		if err := b.writePage(pg, i, fonts); err != nil {
			return nil, err
		}
		kids = append(kids, pg.ref)
	}
	w.Set(b.pagesRef, core.Dict{
		"Type":  core.Name("Pages"),
		"Kids":  kids,
		"Count": core.Int(len(kids)),
	})

	rootRef := w.Reserve()
	b.writeNode(b.tree.Root, rootRef)
	w.Set(rootRef, core.Dict{
		"Type":              core.Name("StructTreeRoot"),
		"K":                 b.tree.Root.ref,
		"ParentTree":        w.Add(b.parentTree()),
		"ParentTreeNextKey": core.Int(key),
	})

	catalog := core.Dict{
		"Type":              core.Name("Catalog"),
		"Pages":             b.pagesRef,
		"StructTreeRoot":    rootRef,
		"MarkInfo":          core.Dict{"Marked": core.Bool(true)},
		"Lang":              core.TextString(b.lang),
		"ViewerPreferences": core.Dict{"DisplayDocTitle": core.Bool(true)},
	}
	if b.prof.Export.Bookmarks && len(b.pages) > 0 {
		catalog["Outlines"] = b.writeOutlines()
		catalog["PageMode"] = core.Name("UseOutlines")
	}
	catalog["Metadata"] = w.Add(core.NewStream(core.Dict{
		"Type":    core.Name("Metadata"),
		"Subtype": core.Name("XML"),
	}, xmpPacket(b.pres.Metadata, b.lang, b.producer, b.pdfuaPart())))

	w.SetRoot(w.Add(catalog))
	w.SetInfo(w.Add(infoDict(b.pres.Metadata, b.producer)))

	data, err := w.Bytes()
	if err != nil {
		return nil, &RenderError{Resource: "document", Err: err}
	}
	return data, nil
}

func (b *builder) pdfuaPart() int {
	if b.prof.Export.PDFUAPart > 0 {
		return b.prof.Export.PDFUAPart
	}
	return 1
}

func (b *builder) writeFont(f *font.Font) (core.IndirectRef, error) {
	desc := core.Dict{
		"Type":        core.Name("FontDescriptor"),
		"FontName":    core.Name(f.Name),
		"Flags":       core.Int(f.Flags()),
		"FontBBox":    core.Array{core.Int(f.BBox[0]), core.Int(f.BBox[1]), core.Int(f.BBox[2]), core.Int(f.BBox[3])},
		"ItalicAngle": core.Int(0),
		"Ascent":      core.Int(f.Ascent),
		"Descent":     core.Int(f.Descent),
		"CapHeight":   core.Int(f.CapHeight),
		"StemV":       core.Int(f.StemV()),
	}
	if b.prof.Export.EmbedFonts {
		program := core.NewStream(core.Dict{"Length1": core.Int(len(f.Data))}, f.Data)
		if err := program.Compress(); err != nil {
			return core.IndirectRef{}, err
		}
		desc["FontFile2"] = b.w.Add(program)
	}

	toUnicode := core.NewStream(nil, f.ToUnicode().Bytes())
	if err := toUnicode.Compress(); err != nil {
		return core.IndirectRef{}, err
	}

	widths := f.Widths()
	arr := make(core.Array, len(widths))
	for i, wd := range widths {
		arr[i] = core.Int(wd)
	}
	return b.w.Add(core.Dict{
		"Type":           core.Name("Font"),
		"Subtype":        core.Name("TrueType"),
		"BaseFont":       core.Name(f.Name),
		"FirstChar":      core.Int(font.FirstChar),
		"LastChar":       core.Int(font.LastChar),
		"Widths":         arr,
		"Encoding":       core.Name("WinAnsiEncoding"),
		"FontDescriptor": b.w.Add(desc),
		"ToUnicode":      b.w.Add(toUnicode),
	}), nil
}

func (b *builder) writePage(pg *page, index int, fonts core.Dict) error {
	chunks := pg.chunks
	if !b.prof.Export.Linearize {
		sort.SliceStable(chunks, func(i, j int) bool { return chunks[i].z < chunks[j].z })
	}
	var data []byte
	for _, c := range chunks {
		data = append(data, c.data...)
	}
	stream := core.NewStream(nil, data)
	if err := stream.Compress(); err != nil {
		return &RenderError{Resource: fmt.Sprintf("page %d", pg.number), Err: err}
	}

	resources := core.Dict{"Font": fonts}
	if len(pg.xobjects) > 0 {
		resources["XObject"] = pg.xobjects
	}
	dict := core.Dict{
		"Type":          core.Name("Page"),
		"Parent":        b.pagesRef,
		"MediaBox":      core.Array{core.Int(0), core.Int(0), core.Real(b.width), core.Real(b.height)},
		"Resources":     resources,
		"Contents":      b.w.Add(stream),
		"StructParents": core.Int(index),
		"Tabs":          core.Name("S"),
	}
	if len(pg.annots) > 0 {
		annots := make(core.Array, len(pg.annots))
		for i, a := range pg.annots {
			annots[i] = a.ref
			b.w.Set(a.ref, b.annotationDict(a))
		}
		dict["Annots"] = annots
	}
	b.w.Set(pg.ref, dict)
	return nil
}

func (b *builder) annotationDict(a *annotation) core.Dict {
	rect := make(core.Array, len(a.rect))
	for i, v := range a.rect {
		rect[i] = core.Real(v)
	}
	contents := a.text
	if contents == "" {
		contents = a.url
	}
	return core.Dict{
		"Type":         core.Name("Annot"),
		"Subtype":      core.Name("Link"),
		"Rect":         rect,
		"Border":       core.Array{core.Int(0), core.Int(0), core.Int(0)},
		"F":            core.Int(4),
		"P":            a.page.ref,
		"StructParent": core.Int(a.key),
		"Contents":     core.TextString(contents),
		"A": core.Dict{
			"Type": core.Name("Action"),
			"S":    core.Name("URI"),
			"URI":  core.String(a.url),
		},
	}
}

// writeNode writes n and its descendants as structure elements.
func (b *builder) writeNode(n *Node, parent core.IndirectRef) {
	d := core.Dict{
		"Type": core.Name("StructElem"),
		"S":    core.Name(n.Role),
		"P":    parent,
	}
	if pg := b.pageFor(n.Slide); pg != nil {
		d["Pg"] = pg.ref
	}
	if n.Title != "" {
		d["T"] = core.TextString(n.Title)
	}
	if n.Alt != "" {
		d["Alt"] = core.TextString(n.Alt)
	}
	if n.Lang != "" {
		d["Lang"] = core.TextString(n.Lang)
	}
	if attrs := nodeAttributes(n); attrs != nil {
		d["A"] = attrs
	}

	var kids core.Array
	for _, id := range n.MCIDs {
		kids = append(kids, core.Int(id))
	}
	for _, c := range n.Children {
		b.writeNode(c, n.ref)
		kids = append(kids, c.ref)
	}
	if n.annot != nil {
		kids = append(kids, core.Dict{
			"Type": core.Name("OBJR"),
			"Obj":  n.annot.ref,
			"Pg":   n.annot.page.ref,
		})
	}
	switch len(kids) {
	case 0:
	case 1:
		d["K"] = kids[0]
	default:
		d["K"] = kids
	}
	b.w.Set(n.ref, d)
}

func (b *builder) pageFor(slide int) *page {
	for _, pg := range b.pages {
		if pg.number == slide {
			return pg
		}
	}
	return nil
}

func nodeAttributes(n *Node) core.Object {
	switch n.Role {
	case model.RoleTH, model.RoleTD:
		a := core.Dict{"O": core.Name("Table")}
		if n.Role == model.RoleTH && n.Scope != model.ScopeNone {
			a["Scope"] = core.Name(n.Scope)
		}
		if n.RowSpan > 1 {
			a["RowSpan"] = core.Int(n.RowSpan)
		}
		if n.ColSpan > 1 {
			a["ColSpan"] = core.Int(n.ColSpan)
		}
		if len(a) == 1 {
			return nil
		}
		return a
	}
	if len(n.BBox) == 4 {
		return core.Dict{
			"O":         core.Name("Layout"),
			"Placement": core.Name("Block"),
			"BBox":      core.Array{core.Real(n.BBox[0]), core.Real(n.BBox[1]), core.Real(n.BBox[2]), core.Real(n.BBox[3])},
		}
	}
	return nil
}

// parentTree maps each page's marked content and each annotation back to
// its structure element.
func (b *builder) parentTree() core.Dict {
	var nums core.Array
	for i, pg := range b.pages {
		refs := make(core.Array, len(pg.mcids))
		for j, n := range pg.mcids {
			refs[j] = n.ref
		}
		nums = append(nums, core.Int(i), refs)
	}
	for _, pg := range b.pages {
		for _, a := range pg.annots {
			nums = append(nums, core.Int(a.key), a.node.ref)
		}
	}
	return core.Dict{"Nums": nums}
}

func (b *builder) writeOutlines() core.IndirectRef {
	root := b.w.Reserve()
	items := make([]core.IndirectRef, len(b.pages))
	for i := range items {
		items[i] = b.w.Reserve()
	}
	for i, pg := range b.pages {
		title := pg.sect.Title
		if title == "" {
			title = b.slideLabel(pg.number)
		}
		item := core.Dict{
			"Title":  core.TextString(title),
			"Parent": root,
			"Dest":   core.Array{pg.ref, core.Name("Fit")},
		}
		if i > 0 {
			item["Prev"] = items[i-1]
		}
		if i < len(items)-1 {
			item["Next"] = items[i+1]
		}
		b.w.Set(items[i], item)
	}
	b.w.Set(root, core.Dict{
		"Type":  core.Name("Outlines"),
		"First": items[0],
		"Last":  items[len(items)-1],
		"Count": core.Int(len(items)),
	})
	return root
}

func (b *builder) slideLabel(n int) string {
	if sameLanguage(b.lang, "de") {
		return fmt.Sprintf("Folie %d", n)
	}
	return fmt.Sprintf("Slide %d", n)
}
