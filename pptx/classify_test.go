package pptx

import (
	"testing"

	"github.com/tsawler/slideua/model"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		c    Candidate
		want model.ElementType
	}{
		{"title placeholder", Candidate{Kind: KindShape, Placeholder: "title", HasText: true}, model.ElementTitle},
		{"centered title", Candidate{Kind: KindShape, Placeholder: "ctrTitle", HasText: true}, model.ElementTitle},
		{"subtitle placeholder", Candidate{Kind: KindShape, Placeholder: "subTitle", HasText: true}, model.ElementSubtitle},
		{"object placeholder", Candidate{Kind: KindShape, Placeholder: "obj", HasText: true}, model.ElementBody},
		{"footer placeholder", Candidate{Kind: KindShape, Placeholder: "ftr", HasText: true}, model.ElementFooter},
		{"slide number", Candidate{Kind: KindShape, Placeholder: "sldNum", HasText: true}, model.ElementSlideNumber},
		{"date", Candidate{Kind: KindShape, Placeholder: "dt", HasText: true}, model.ElementDate},
		{"placeholder beats name", Candidate{Kind: KindShape, Name: "Subtitle 2", Placeholder: "title"}, model.ElementTitle},
		{"picture in body placeholder", Candidate{Kind: KindPicture, Placeholder: "body"}, model.ElementImage},
		{"table frame", Candidate{Kind: KindGraphicFrame, FrameURI: uriTable, Placeholder: "obj"}, model.ElementTable},
		{"chart frame", Candidate{Kind: KindGraphicFrame, FrameURI: uriChart}, model.ElementChart},
		{"smartart frame", Candidate{Kind: KindGraphicFrame, FrameURI: uriSmartArt}, model.ElementSmartArt},
		{"ole frame", Candidate{Kind: KindGraphicFrame, FrameURI: "http://schemas.openxmlformats.org/presentationml/2006/ole"}, model.ElementImage},
		{"unknown frame", Candidate{Kind: KindGraphicFrame, FrameURI: "urn:example"}, model.ElementUnknown},
		{"connector", Candidate{Kind: KindConnector, Name: "Title Line"}, model.ElementShape},
		{"english title name", Candidate{Kind: KindShape, Name: "Title 1", HasText: true}, model.ElementTitle},
		{"german subtitle name", Candidate{Kind: KindShape, Name: "Untertitel 2", HasText: true}, model.ElementSubtitle},
		{"german title name", Candidate{Kind: KindShape, Name: "Titel 1", HasText: true}, model.ElementTitle},
		{"german content name", Candidate{Kind: KindShape, Name: "Inhaltsplatzhalter 3", HasText: true}, model.ElementBody},
		{"slide number name", Candidate{Kind: KindShape, Name: "Slide Number Placeholder 4", HasText: true}, model.ElementSlideNumber},
		{"word prefix only", Candidate{Kind: KindShape, Name: "Update notes", HasText: true}, model.ElementParagraph},
		{"text box", Candidate{Kind: KindTextBox, Name: "TextBox 5", HasText: true}, model.ElementTextBox},
		{"text shape", Candidate{Kind: KindShape, Name: "Rectangle 4", HasText: true}, model.ElementParagraph},
		{"empty shape", Candidate{Kind: KindShape, Name: "Oval 7"}, model.ElementShape},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Classify(tt.c); got != tt.want {
				t.Errorf("Classify(%s %q) = %s, want %s", tt.c.Kind, tt.c.Name, got, tt.want)
			}
		})
	}
}

func TestClassifyCustomChain(t *testing.T) {
	always := ClassifierFunc(func(Candidate) (model.ElementType, bool) {
		return model.ElementChart, true
	})
	never := ClassifierFunc(func(Candidate) (model.ElementType, bool) {
		return "", false
	})

	c := Candidate{Kind: KindShape, Placeholder: "title"}
	if got := Classify(c, never, always); got != model.ElementChart {
		t.Errorf("Classify with custom chain = %s, want chart", got)
	}
	if got := Classify(c, never); got != model.ElementUnknown {
		t.Errorf("Classify with silent chain = %s, want unknown", got)
	}
}

func TestClassifierStrategiesAbstain(t *testing.T) {
	tests := []struct {
		name string
		cl   Classifier
		c    Candidate
	}{
		{"content ignores shapes", ContentClassifier, Candidate{Kind: KindShape, Name: "Title"}},
		{"placeholder needs a type", PlaceholderClassifier, Candidate{Kind: KindShape}},
		{"placeholder ignores unknown types", PlaceholderClassifier, Candidate{Kind: KindShape, Placeholder: "pic"}},
		{"name ignores pictures", NameClassifier, Candidate{Kind: KindPicture, Name: "Title image"}},
		{"name without match", NameClassifier, Candidate{Kind: KindShape, Name: "Rectangle 1"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got, ok := tt.cl.Classify(tt.c); ok {
				t.Errorf("expected no opinion, got %s", got)
			}
		})
	}

	if _, ok := FallbackClassifier.Classify(Candidate{}); !ok {
		t.Error("FallbackClassifier must always answer")
	}
}

func TestNodeKindString(t *testing.T) {
	if KindGraphicFrame.String() != "graphicFrame" {
		t.Errorf("KindGraphicFrame.String() = %q", KindGraphicFrame.String())
	}
	if NodeKind(42).String() != "NodeKind(42)" {
		t.Errorf("NodeKind(42).String() = %q", NodeKind(42).String())
	}
}
