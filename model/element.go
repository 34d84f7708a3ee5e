package model

import "strings"

// ElementType classifies a slide element. The set is closed.
type ElementType string

const (
	ElementTitle       ElementType = "title"
	ElementSubtitle    ElementType = "subtitle"
	ElementBody        ElementType = "body"
	ElementParagraph   ElementType = "paragraph"
	ElementList        ElementType = "list"
	ElementListItem    ElementType = "listItem"
	ElementTable       ElementType = "table"
	ElementImage       ElementType = "image"
	ElementShape       ElementType = "shape"
	ElementChart       ElementType = "chart"
	ElementSmartArt    ElementType = "smartart"
	ElementGroup       ElementType = "group"
	ElementTextBox     ElementType = "textbox"
	ElementFooter      ElementType = "footer"
	ElementSlideNumber ElementType = "slideNumber"
	ElementDate        ElementType = "date"
	ElementUnknown     ElementType = "unknown"
)

// ElementTypes lists every element type in declaration order.
var ElementTypes = []ElementType{
	ElementTitle, ElementSubtitle, ElementBody, ElementParagraph, ElementList,
	ElementListItem, ElementTable, ElementImage, ElementShape, ElementChart,
	ElementSmartArt, ElementGroup, ElementTextBox, ElementFooter,
	ElementSlideNumber, ElementDate, ElementUnknown,
}

func (t ElementType) String() string { return string(t) }

// Valid reports whether t is one of the declared element types.
func (t ElementType) Valid() bool {
	for _, known := range ElementTypes {
		if t == known {
			return true
		}
	}
	return false
}

// IsFigure reports whether elements of this type are rendered as figures and
// therefore need alternative text.
func (t ElementType) IsFigure() bool {
	return t == ElementImage || t == ElementChart || t == ElementSmartArt
}

// IsHeading reports whether the type is a title or subtitle.
func (t ElementType) IsHeading() bool {
	return t == ElementTitle || t == ElementSubtitle
}

// IsArtifact reports whether the type is page furniture (footers, slide
// numbers, dates) that is repeated on every slide.
func (t ElementType) IsArtifact() bool {
	return t == ElementFooter || t == ElementSlideNumber || t == ElementDate
}

// SemanticRole is the structure type an element receives in the tagged
// output. The set is closed.
type SemanticRole string

const (
	RoleDocument SemanticRole = "Document"
	RoleSect     SemanticRole = "Sect"
	RoleH1       SemanticRole = "H1"
	RoleH2       SemanticRole = "H2"
	RoleP        SemanticRole = "P"
	RoleL        SemanticRole = "L"
	RoleLI       SemanticRole = "LI"
	RoleLbl      SemanticRole = "Lbl"
	RoleLBody    SemanticRole = "LBody"
	RoleTable    SemanticRole = "Table"
	RoleTR       SemanticRole = "TR"
	RoleTH       SemanticRole = "TH"
	RoleTD       SemanticRole = "TD"
	RoleFigure   SemanticRole = "Figure"
	RoleLink     SemanticRole = "Link"
	RoleArtifact SemanticRole = "Artifact"
)

var semanticRoles = map[SemanticRole]bool{
	RoleDocument: true, RoleSect: true, RoleH1: true, RoleH2: true, RoleP: true,
	RoleL: true, RoleLI: true, RoleLbl: true, RoleLBody: true, RoleTable: true,
	RoleTR: true, RoleTH: true, RoleTD: true, RoleFigure: true, RoleLink: true,
	RoleArtifact: true,
}

func (r SemanticRole) String() string { return string(r) }

// Valid reports whether r belongs to the closed role set.
func (r SemanticRole) Valid() bool {
	return semanticRoles[r]
}

// AltTextStatus describes the state of an element's alternative text.
type AltTextStatus string

const (
	AltTextPresent     AltTextStatus = "present"
	AltTextMissing     AltTextStatus = "missing"
	AltTextDecorative  AltTextStatus = "decorative"
	AltTextNeedsReview AltTextStatus = "needs-review"
)

// Run is a span of text sharing one set of character properties.
type Run struct {
	Text      string  `json:"text"`
	Bold      bool    `json:"bold,omitempty"`
	Italic    bool    `json:"italic,omitempty"`
	Underline bool    `json:"underline,omitempty"`
	Size      float64 `json:"size,omitempty"`
	Color     string  `json:"color,omitempty"`
	Lang      string  `json:"lang,omitempty"`
	Link      string  `json:"link,omitempty"`
}

// Link is a hyperlink found in an element's text.
type Link struct {
	Text string `json:"text"`
	URL  string `json:"url"`
}

// Content holds everything an element says.
type Content struct {
	// Text is the flattened text; paragraph breaks become newlines.
	Text string `json:"text,omitempty"`
	Runs []Run  `json:"runs,omitempty"`

	AltText       string        `json:"altText,omitempty"`
	AltTextStatus AltTextStatus `json:"altTextStatus,omitempty"`
	// AltTextExplicitEmpty is set when the description attribute exists but
	// holds only whitespace. Such elements are treated as decorative.
	AltTextExplicitEmpty bool   `json:"altTextExplicitEmpty,omitempty"`
	LongDescription      string `json:"longDescription,omitempty"`

	Links []Link `json:"links,omitempty"`
}

// HasText reports whether the element carries any non-blank text.
func (c Content) HasText() bool {
	return strings.TrimSpace(c.Text) != ""
}

// Style carries rendering hints gathered from the source.
type Style struct {
	Color    string  `json:"color,omitempty"`
	Fill     string  `json:"fill,omitempty"`
	Bold     bool    `json:"bold,omitempty"`
	FontSize float64 `json:"fontSize,omitempty"`
	// LightTextRisk flags white or near-white text drawn on a background
	// whose colour is unknown.
	LightTextRisk bool `json:"lightTextRisk,omitempty"`
}

// MediaKind distinguishes embedded media.
type MediaKind string

const (
	MediaImage MediaKind = "image"
	MediaVideo MediaKind = "video"
	MediaAudio MediaKind = "audio"
)

// Media is a binary part referenced by an element. Part, ContentType and
// Data always describe the picture that is drawn; for video and audio that
// is the poster frame and Source names the linked or embedded media.
type Media struct {
	Kind        MediaKind `json:"kind"`
	Part        string    `json:"part"`
	ContentType string    `json:"contentType,omitempty"`
	Source      string    `json:"source,omitempty"`
	Data        []byte    `json:"-"`
}

// SlideElement is a positioned content node on a slide.
type SlideElement struct {
	ID           string       `json:"id"`
	Type         ElementType  `json:"type"`
	SemanticRole SemanticRole `json:"semanticRole"`
	Name         string       `json:"name,omitempty"`
	Placeholder  string       `json:"placeholder,omitempty"`

	Position Position `json:"position"`
	Content  Content  `json:"content"`
	Style    Style    `json:"style"`

	IsDecorative bool   `json:"isDecorative,omitempty"`
	IsGrouped    bool   `json:"isGrouped,omitempty"`
	GroupID      string `json:"groupId,omitempty"`

	Table *TableData `json:"tableData,omitempty"`
	List  *ListData  `json:"listData,omitempty"`
	Media *Media     `json:"media,omitempty"`

	Issues []AccessibilityIssue `json:"issues,omitempty"`
}

// Label returns a short human label for locating the element in reports.
func (e *SlideElement) Label() string {
	if e.Name != "" {
		return e.Name
	}
	return e.ID
}

// Clone returns a deep copy of the element.
func (e *SlideElement) Clone() *SlideElement {
	if e == nil {
		return nil
	}
	c := *e
	c.Content.Runs = append([]Run(nil), e.Content.Runs...)
	c.Content.Links = append([]Link(nil), e.Content.Links...)
	c.Issues = append([]AccessibilityIssue(nil), e.Issues...)
	if e.Table != nil {
		c.Table = e.Table.Clone()
	}
	if e.List != nil {
		l := *e.List
		l.Items = append([]ListItem(nil), e.List.Items...)
		c.List = &l
	}
	if e.Media != nil {
		m := *e.Media
		c.Media = &m
	}
	return &c
}
