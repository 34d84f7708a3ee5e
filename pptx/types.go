package pptx

import (
	"encoding/xml"
	"strings"
)

// XML namespaces used in PPTX files.
const (
	nsRelationships = "http://schemas.openxmlformats.org/officeDocument/2006/relationships"

	// decorativeExtURI marks the cNvPr extension PowerPoint writes when a
	// shape is flagged "Mark as decorative".
	decorativeExtURI = "{C183D7F6-B498-43B3-948B-1728B52AA6E4}"
)

// Graphic frame payload URIs.
const (
	uriTable    = "http://schemas.openxmlformats.org/drawingml/2006/table"
	uriChart    = "http://schemas.openxmlformats.org/drawingml/2006/chart"
	uriSmartArt = "http://schemas.openxmlformats.org/drawingml/2006/diagram"
)

// presentationXML represents the ppt/presentation.xml file structure.
type presentationXML struct {
	XMLName     xml.Name        `xml:"presentation"`
	SlideIdList *slideIdListXML `xml:"sldIdLst"`
	SlideSz     *sizeXML        `xml:"sldSz"`
}

type slideIdListXML struct {
	SlideId []slideIdXML `xml:"sldId"`
}

// slideIdXML carries only the relationship id. A plain "id" attribute field
// would also match r:id and be overwritten.
type slideIdXML struct {
	RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
}

// slideXML represents a ppt/slides/slide*.xml file structure.
type slideXML struct {
	XMLName xml.Name `xml:"sld"`
	Show    string   `xml:"show,attr"`
	CSld    cSldXML  `xml:"cSld"`
}

type cSldXML struct {
	Name   string       `xml:"name,attr"`
	Bg     *bgXML       `xml:"bg"`
	SpTree shapeTreeXML `xml:"spTree"`
}

type bgXML struct {
	BgPr *struct {
		BlipFill *blipFillXML `xml:"blipFill"`
	} `xml:"bgPr"`
}

// layoutXML represents slide layouts and slide masters. Only the
// placeholder geometry and the layout type are read.
type layoutXML struct {
	Type string  `xml:"type,attr"`
	CSld cSldXML `xml:"cSld"`
}

// shapeTreeXML is a p:spTree or p:grpSp. Children are kept in document
// order, which is the z-order.
type shapeTreeXML struct {
	NvGrpSpPr nvGrpSpPrXML
	GrpSpPr   grpSpPrXML
	Nodes     []shapeNode
}

// shapeNode holds exactly one shape tree child.
type shapeNode struct {
	Sp    *spXML
	Pic   *picXML
	Frame *graphicFrameXML
	Cxn   *cxnSpXML
	Group *shapeTreeXML
}

// UnmarshalXML decodes shape tree children in order, unwrapping
// mc:AlternateContent.
func (t *shapeTreeXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			if err := t.decodeChild(d, el); err != nil {
				return err
			}
		case xml.EndElement:
			return nil
		}
	}
}

func (t *shapeTreeXML) decodeChild(d *xml.Decoder, el xml.StartElement) error {
	switch el.Name.Local {
	case "nvGrpSpPr":
		return d.DecodeElement(&t.NvGrpSpPr, &el)
	case "grpSpPr":
		return d.DecodeElement(&t.GrpSpPr, &el)
	case "sp":
		var sp spXML
		if err := d.DecodeElement(&sp, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Sp: &sp})
	case "pic":
		var pic picXML
		if err := d.DecodeElement(&pic, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Pic: &pic})
	case "graphicFrame":
		var gf graphicFrameXML
		if err := d.DecodeElement(&gf, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Frame: &gf})
	case "cxnSp":
		var cxn cxnSpXML
		if err := d.DecodeElement(&cxn, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Cxn: &cxn})
	case "grpSp":
		var g shapeTreeXML
		if err := d.DecodeElement(&g, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, shapeNode{Group: &g})
	case "AlternateContent":
		var ac alternateContentXML
		if err := d.DecodeElement(&ac, &el); err != nil {
			return err
		}
		t.Nodes = append(t.Nodes, ac.nodes()...)
	default:
		return d.Skip()
	}
	return nil
}

// alternateContentXML is mc:AlternateContent. The fallback branch is what
// a consumer without vendor extensions sees, so it wins when present.
type alternateContentXML struct {
	Choice   []shapeTreeXML `xml:"Choice"`
	Fallback *shapeTreeXML  `xml:"Fallback"`
}

func (ac alternateContentXML) nodes() []shapeNode {
	if ac.Fallback != nil && len(ac.Fallback.Nodes) > 0 {
		return ac.Fallback.Nodes
	}
	if len(ac.Choice) > 0 {
		return ac.Choice[0].Nodes
	}
	return nil
}

type nvGrpSpPrXML struct {
	CNvPr cNvPrXML `xml:"cNvPr"`
}

type grpSpPrXML struct {
	Xfrm *xfrmXML `xml:"xfrm"`
}

// cNvPrXML holds the non-visual properties shared by all shape kinds.
// Descr is a pointer so an explicitly empty description can be told apart
// from a missing one.
type cNvPrXML struct {
	ID         string     `xml:"id,attr"`
	Name       string     `xml:"name,attr"`
	Descr      *string    `xml:"descr,attr"`
	Title      string     `xml:"title,attr"`
	Hidden     string     `xml:"hidden,attr"`
	HlinkClick *hlinkXML  `xml:"hlinkClick"`
	ExtLst     *extLstXML `xml:"extLst"`
}

// decorative reports the vendor "decorative" extension marker.
func (c cNvPrXML) decorative() bool {
	if c.ExtLst == nil {
		return false
	}
	for _, ext := range c.ExtLst.Ext {
		if strings.EqualFold(ext.URI, decorativeExtURI) && ext.Decorative != nil && boolAttr(ext.Decorative.Val, true) {
			return true
		}
	}
	return false
}

type extLstXML struct {
	Ext []extensionXML `xml:"ext"`
}

type extensionXML struct {
	URI        string        `xml:"uri,attr"`
	Decorative *valXML       `xml:"decorative"`
	Media      *mediaFileXML `xml:"media"`
}

type valXML struct {
	Val string `xml:"val,attr"`
}

type hlinkXML struct {
	RID    string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	Action string `xml:"action,attr"`
}

// spXML represents a shape element.
type spXML struct {
	NvSpPr nvSpPrXML  `xml:"nvSpPr"`
	SpPr   spPrXML    `xml:"spPr"`
	Style  *styleXML  `xml:"style"`
	TxBody *txBodyXML `xml:"txBody"`
}

type nvSpPrXML struct {
	CNvPr   cNvPrXML `xml:"cNvPr"`
	CNvSpPr struct {
		TxBox string `xml:"txBox,attr"`
	} `xml:"cNvSpPr"`
	NvPr nvPrXML `xml:"nvPr"`
}

type nvPrXML struct {
	Ph        *phXML        `xml:"ph"`
	VideoFile *mediaFileXML `xml:"videoFile"`
	AudioFile *mediaFileXML `xml:"audioFile"`
	ExtLst    *extLstXML    `xml:"extLst"`
}

// embeddedMedia returns the p14:media extension, if any.
func (n nvPrXML) embeddedMedia() *mediaFileXML {
	if n.ExtLst == nil {
		return nil
	}
	for _, ext := range n.ExtLst.Ext {
		if ext.Media != nil {
			return ext.Media
		}
	}
	return nil
}

type mediaFileXML struct {
	Link  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships link,attr"`
	Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
}

func (m *mediaFileXML) rid() string {
	if m.Link != "" {
		return m.Link
	}
	return m.Embed
}

type phXML struct {
	Type string `xml:"type,attr"` // title, body, subTitle, ctrTitle, etc.
	Idx  string `xml:"idx,attr"`
}

type spPrXML struct {
	Xfrm      *xfrmXML     `xml:"xfrm"`
	NoFill    *struct{}    `xml:"noFill"`
	SolidFill *colorXML    `xml:"solidFill"`
	GradFill  *struct{}    `xml:"gradFill"`
	PattFill  *struct{}    `xml:"pattFill"`
	BlipFill  *blipFillXML `xml:"blipFill"`
}

// styleXML is the shape style reference to the theme.
type styleXML struct {
	FillRef *struct {
		Idx int `xml:"idx,attr"`
	} `xml:"fillRef"`
}

type xfrmXML struct {
	Off   pointXML `xml:"off"`
	Ext   sizeXML  `xml:"ext"`
	ChOff pointXML `xml:"chOff"`
	ChExt sizeXML  `xml:"chExt"`
}

type pointXML struct {
	X int64 `xml:"x,attr"` // EMUs
	Y int64 `xml:"y,attr"`
}

type sizeXML struct {
	Cx int64 `xml:"cx,attr"` // EMUs
	Cy int64 `xml:"cy,attr"`
}

// colorXML is any DrawingML colour choice.
type colorXML struct {
	SrgbClr   *valXML    `xml:"srgbClr"`
	SchemeClr *valXML    `xml:"schemeClr"`
	SysClr    *sysClrXML `xml:"sysClr"`
}

type sysClrXML struct {
	Val     string `xml:"val,attr"`
	LastClr string `xml:"lastClr,attr"`
}

// txBodyXML represents text body content.
type txBodyXML struct {
	P []pXML `xml:"p"`
}

// pXML represents a paragraph. Runs, breaks and fields are kept in
// document order.
type pXML struct {
	PPr   *pPrXML
	Items []textItem
}

type textKind int

const (
	textRun textKind = iota
	textBreak
	textField
)

type textItem struct {
	Kind textKind
	RPr  *rPrXML
	T    string
}

type runXML struct {
	RPr *rPrXML `xml:"rPr"`
	T   string  `xml:"t"`
}

// UnmarshalXML decodes a:p keeping a:r, a:br and a:fld in order.
func (p *pXML) UnmarshalXML(d *xml.Decoder, start xml.StartElement) error {
	for {
		tok, err := d.Token()
		if err != nil {
			return err
		}
		switch el := tok.(type) {
		case xml.StartElement:
			switch el.Name.Local {
			case "pPr":
				p.PPr = &pPrXML{}
				if err := d.DecodeElement(p.PPr, &el); err != nil {
					return err
				}
			case "r", "fld":
				var r runXML
				if err := d.DecodeElement(&r, &el); err != nil {
					return err
				}
				kind := textRun
				if el.Name.Local == "fld" {
					kind = textField
				}
				p.Items = append(p.Items, textItem{Kind: kind, RPr: r.RPr, T: r.T})
			case "br":
				p.Items = append(p.Items, textItem{Kind: textBreak})
				if err := d.Skip(); err != nil {
					return err
				}
			default:
				if err := d.Skip(); err != nil {
					return err
				}
			}
		case xml.EndElement:
			return nil
		}
	}
}

type pPrXML struct {
	Lvl       int           `xml:"lvl,attr"` // Bullet level (0-8)
	BuNone    *struct{}     `xml:"buNone"`
	BuChar    *buCharXML    `xml:"buChar"`
	BuAutoNum *buAutoNumXML `xml:"buAutoNum"`
}

type buCharXML struct {
	Char string `xml:"char,attr"`
}

type buAutoNumXML struct {
	Type    string `xml:"type,attr"` // arabicPeriod, alphaLcParenR, etc.
	StartAt int    `xml:"startAt,attr"`
}

type rPrXML struct {
	Lang       string    `xml:"lang,attr"`
	Sz         int       `xml:"sz,attr"` // Hundredths of a point
	B          string    `xml:"b,attr"`
	I          string    `xml:"i,attr"`
	U          string    `xml:"u,attr"`
	SolidFill  *colorXML `xml:"solidFill"`
	HlinkClick *hlinkXML `xml:"hlinkClick"`
}

// picXML represents a picture element.
type picXML struct {
	NvPicPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
		NvPr  nvPrXML  `xml:"nvPr"`
	} `xml:"nvPicPr"`
	BlipFill blipFillXML `xml:"blipFill"`
	SpPr     spPrXML     `xml:"spPr"`
}

type blipFillXML struct {
	Blip *struct {
		Embed string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships embed,attr"`
		Link  string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships link,attr"`
	} `xml:"blip"`
}

// cxnSpXML represents a connector line.
type cxnSpXML struct {
	NvCxnSpPr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
	} `xml:"nvCxnSpPr"`
	SpPr spPrXML `xml:"spPr"`
}

// graphicFrameXML represents a graphic frame (tables, charts, SmartArt).
type graphicFrameXML struct {
	NvGraphicFramePr struct {
		CNvPr cNvPrXML `xml:"cNvPr"`
		NvPr  nvPrXML  `xml:"nvPr"`
	} `xml:"nvGraphicFramePr"`
	Xfrm    *xfrmXML `xml:"xfrm"`
	Graphic struct {
		GraphicData graphicDataXML `xml:"graphicData"`
	} `xml:"graphic"`
}

type graphicDataXML struct {
	URI   string  `xml:"uri,attr"`
	Tbl   *tblXML `xml:"tbl"`
	Chart *struct {
		RID string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships id,attr"`
	} `xml:"chart"`
	RelIds *struct {
		DM string `xml:"http://schemas.openxmlformats.org/officeDocument/2006/relationships dm,attr"`
	} `xml:"relIds"`
}

// tblXML represents a table.
type tblXML struct {
	TblPr *struct {
		FirstRow *string `xml:"firstRow,attr"`
		FirstCol *string `xml:"firstCol,attr"`
	} `xml:"tblPr"`
	Tr []trXML `xml:"tr"`
}

type trXML struct {
	Tc []tcXML `xml:"tc"`
}

type tcXML struct {
	TxBody   *txBodyXML `xml:"txBody"`
	RowSpan  int        `xml:"rowSpan,attr"`
	GridSpan int        `xml:"gridSpan,attr"`
	HMerge   string     `xml:"hMerge,attr"`
	VMerge   string     `xml:"vMerge,attr"`
}

// chartSpaceXML represents a chart part.
type chartSpaceXML struct {
	Chart struct {
		Title *struct {
			Tx *struct {
				Rich *txBodyXML `xml:"rich"`
			} `xml:"tx"`
		} `xml:"title"`
		PlotArea struct {
			Charts []plotXML `xml:",any"`
		} `xml:"plotArea"`
	} `xml:"chart"`
}

// plotXML is any plot area child; chart kinds end in "Chart".
type plotXML struct {
	XMLName xml.Name
	Ser     []struct {
		Tx struct {
			V      string `xml:"v"`
			StrRef struct {
				Pt []struct {
					V string `xml:"v"`
				} `xml:"strCache>pt"`
			} `xml:"strRef"`
		} `xml:"tx"`
	} `xml:"ser"`
}

// dataModelXML represents a SmartArt data part.
type dataModelXML struct {
	Pt []struct {
		ModelID string     `xml:"modelId,attr"`
		Type    string     `xml:"type,attr"`
		T       *txBodyXML `xml:"t"`
	} `xml:"ptLst>pt"`
	Cxn []struct {
		Type   string `xml:"type,attr"`
		SrcID  string `xml:"srcId,attr"`
		DestID string `xml:"destId,attr"`
		SrcOrd int    `xml:"srcOrd,attr"`
	} `xml:"cxnLst>cxn"`
}

// corePropertiesXML represents docProps/core.xml.
type corePropertiesXML struct {
	XMLName  xml.Name `xml:"coreProperties"`
	Title    string   `xml:"title"`
	Subject  string   `xml:"subject"`
	Creator  string   `xml:"creator"`
	Keywords string   `xml:"keywords"`
	Language string   `xml:"language"`
	Created  string   `xml:"created"`
	Modified string   `xml:"modified"`
}

// appPropertiesXML represents docProps/app.xml.
type appPropertiesXML struct {
	XMLName     xml.Name `xml:"Properties"`
	Application string   `xml:"Application"`
}

// themeXML represents ppt/theme/theme*.xml.
type themeXML struct {
	Name          string `xml:"name,attr"`
	ThemeElements struct {
		ClrScheme struct {
			Colors []themeColorXML `xml:",any"`
		} `xml:"clrScheme"`
		FontScheme struct {
			MajorFont struct {
				Latin valTypeface `xml:"latin"`
			} `xml:"majorFont"`
			MinorFont struct {
				Latin valTypeface `xml:"latin"`
			} `xml:"minorFont"`
		} `xml:"fontScheme"`
	} `xml:"themeElements"`
}

type themeColorXML struct {
	XMLName xml.Name
	SrgbClr *valXML    `xml:"srgbClr"`
	SysClr  *sysClrXML `xml:"sysClr"`
}

type valTypeface struct {
	Typeface string `xml:"typeface,attr"`
}

// notesSlideXML represents a ppt/notesSlides/notesSlide*.xml file.
type notesSlideXML struct {
	XMLName xml.Name `xml:"notes"`
	CSld    cSldXML  `xml:"cSld"`
}

// boolAttr reads an OOXML boolean attribute, returning def when empty.
func boolAttr(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "on":
		return true
	case "0", "false", "off":
		return false
	}
	return def
}
