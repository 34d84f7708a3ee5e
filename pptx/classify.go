package pptx

import (
	"fmt"
	"strings"
	"unicode"

	"github.com/tsawler/slideua/model"
)

// NodeKind is the shape tree node an element came from.
type NodeKind int

const (
	KindShape NodeKind = iota
	KindTextBox
	KindPicture
	KindGraphicFrame
	KindConnector
)

// String returns the node kind name.
func (k NodeKind) String() string {
	switch k {
	case KindShape:
		return "shape"
	case KindTextBox:
		return "textbox"
	case KindPicture:
		return "picture"
	case KindGraphicFrame:
		return "graphicFrame"
	case KindConnector:
		return "connector"
	}
	return fmt.Sprintf("NodeKind(%d)", int(k))
}

// Candidate is what the classifiers see of a shape tree node.
type Candidate struct {
	Kind        NodeKind
	Name        string
	Placeholder string // placeholder type, "" when not a placeholder
	FrameURI    string
	HasText     bool
}

// Classifier returns an element type, or false when it has no opinion.
type Classifier interface {
	Classify(c Candidate) (model.ElementType, bool)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(c Candidate) (model.ElementType, bool)

// Classify calls f(c).
func (f ClassifierFunc) Classify(c Candidate) (model.ElementType, bool) {
	return f(c)
}

// The classifier strategies, tried in this order by DefaultChain.
var (
	// ContentClassifier decides pictures, connectors and graphic frames by
	// what they hold, ahead of any placeholder they fill.
	ContentClassifier Classifier = ClassifierFunc(classifyContent)
	// PlaceholderClassifier maps the placeholder type.
	PlaceholderClassifier Classifier = ClassifierFunc(classifyPlaceholder)
	// NameClassifier matches English and German shape names.
	NameClassifier Classifier = ClassifierFunc(classifyName)
	// FallbackClassifier always answers.
	FallbackClassifier Classifier = ClassifierFunc(classifyFallback)
)

// DefaultChain returns the classifier strategies in order.
func DefaultChain() []Classifier {
	return []Classifier{ContentClassifier, PlaceholderClassifier, NameClassifier, FallbackClassifier}
}

// Classify runs the chain and returns the first confident answer. An empty
// chain uses DefaultChain. ElementUnknown is returned when no strategy
// answers.
func Classify(c Candidate, chain ...Classifier) model.ElementType {
	if len(chain) == 0 {
		chain = DefaultChain()
	}
	for _, cl := range chain {
		if t, ok := cl.Classify(c); ok {
			return t
		}
	}
	return model.ElementUnknown
}

func classifyContent(c Candidate) (model.ElementType, bool) {
	switch c.Kind {
	case KindPicture:
		return model.ElementImage, true
	case KindConnector:
		return model.ElementShape, true
	case KindGraphicFrame:
		switch c.FrameURI {
		case uriTable:
			return model.ElementTable, true
		case uriChart:
			return model.ElementChart, true
		case uriSmartArt:
			return model.ElementSmartArt, true
		}
		if strings.Contains(c.FrameURI, "/ole") {
			return model.ElementImage, true
		}
	}
	return "", false
}

func classifyPlaceholder(c Candidate) (model.ElementType, bool) {
	if c.Kind == KindGraphicFrame || c.Placeholder == "" {
		return "", false
	}
	switch c.Placeholder {
	case "title", "ctrTitle":
		return model.ElementTitle, true
	case "subTitle":
		return model.ElementSubtitle, true
	case "body", "obj":
		return model.ElementBody, true
	case "ftr", "hdr":
		return model.ElementFooter, true
	case "sldNum":
		return model.ElementSlideNumber, true
	case "dt":
		return model.ElementDate, true
	case "chart":
		return model.ElementChart, true
	case "tbl":
		return model.ElementTable, true
	case "dgm":
		return model.ElementSmartArt, true
	}
	return "", false
}

// namePatterns is checked in order; subtitle precedes title because
// "untertitel" contains "titel". Each word of a pattern must start a word
// of the shape name, so "Inhaltsplatzhalter 2" matches "inhalt" and
// "Update" does not match "date".
var namePatterns = []struct {
	words []string
	typ   model.ElementType
}{
	{[]string{"subtitle"}, model.ElementSubtitle},
	{[]string{"untertitel"}, model.ElementSubtitle},
	{[]string{"title"}, model.ElementTitle},
	{[]string{"titel"}, model.ElementTitle},
	{[]string{"footer"}, model.ElementFooter},
	{[]string{"fußzeile"}, model.ElementFooter},
	{[]string{"fusszeile"}, model.ElementFooter},
	{[]string{"slide", "number"}, model.ElementSlideNumber},
	{[]string{"foliennummer"}, model.ElementSlideNumber},
	{[]string{"date"}, model.ElementDate},
	{[]string{"datum"}, model.ElementDate},
	{[]string{"content"}, model.ElementBody},
	{[]string{"body"}, model.ElementBody},
	{[]string{"inhalt"}, model.ElementBody},
	{[]string{"textplatzhalter"}, model.ElementBody},
	{[]string{"text", "placeholder"}, model.ElementBody},
}

func classifyName(c Candidate) (model.ElementType, bool) {
	if c.Kind != KindShape && c.Kind != KindTextBox {
		return "", false
	}
	words := strings.FieldsFunc(strings.ToLower(c.Name), func(r rune) bool {
		return !unicode.IsLetter(r)
	})
	for _, pat := range namePatterns {
		if matchWords(words, pat.words) {
			return pat.typ, true
		}
	}
	return "", false
}

// matchWords reports whether pattern occurs as consecutive word prefixes.
func matchWords(words, pattern []string) bool {
	for i := 0; i+len(pattern) <= len(words); i++ {
		ok := true
		for j, p := range pattern {
			if !strings.HasPrefix(words[i+j], p) {
				ok = false
				break
			}
		}
		if ok {
			return true
		}
	}
	return false
}

func classifyFallback(c Candidate) (model.ElementType, bool) {
	switch c.Kind {
	case KindTextBox:
		return model.ElementTextBox, true
	case KindGraphicFrame:
		return model.ElementUnknown, true
	case KindPicture:
		return model.ElementImage, true
	}
	if c.HasText {
		return model.ElementParagraph, true
	}
	return model.ElementShape, true
}
