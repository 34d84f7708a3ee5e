package validate

import (
	"path"
	"strings"
	"unicode"

	"github.com/tsawler/slideua/model"
)

// imageExtensions are file name endings that give away an alt text copied
// from the file name.
var imageExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".png": true, ".gif": true, ".bmp": true,
	".tif": true, ".tiff": true, ".svg": true, ".webp": true, ".emf": true,
	".wmf": true, ".heic": true,
}

// genericWords are alt texts that name the kind of object instead of
// describing it, in English and German.
var genericWords = map[string]bool{
	"image": true, "picture": true, "photo": true, "graphic": true,
	"chart": true, "diagram": true, "logo": true, "icon": true,
	"screenshot": true, "untitled": true, "placeholder": true, "img": true,
	"figure": true, "smartart": true,
	"bild": true, "foto": true, "grafik": true, "abbildung": true,
	"diagramm": true, "symbol": true, "platzhalter": true, "unbenannt": true,
	"bildschirmfoto": true,
}

// decorativeWords are alt texts written by authors who meant to mark the
// object decorative. Screen readers would announce them.
var decorativeWords = map[string]bool{
	"decorative": true, "decoration": true, "dekorativ": true,
	"dekoration": true, "schmuck": true, "schmuckelement": true,
}

// LowQualityAltText reports whether an alt text is a file name, a generic
// label such as "image" or "Bild" optionally followed by a number, or
// shorter than two words.
func LowQualityAltText(alt string) bool {
	alt = strings.TrimSpace(alt)
	if alt == "" {
		return false
	}
	if imageExtensions[strings.ToLower(path.Ext(alt))] {
		return true
	}
	words := altWords(alt)
	if len(words) < 2 {
		return true
	}
	if len(words) == 2 && genericWords[words[0]] && isNumber(words[1]) {
		return true
	}
	return false
}

// altWords splits an alt text into lower-case words without punctuation.
func altWords(s string) []string {
	return strings.FieldsFunc(strings.ToLower(s), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}

func isNumber(s string) bool {
	for _, r := range s {
		if !unicode.IsDigit(r) {
			return false
		}
	}
	return s != ""
}

// qualityReason names the rule that rejected an alt text.
func qualityReason(alt string) string {
	alt = strings.TrimSpace(alt)
	if imageExtensions[strings.ToLower(path.Ext(alt))] {
		return "file name"
	}
	words := altWords(alt)
	if len(words) > 0 && genericWords[words[0]] {
		return "generic label"
	}
	return "fewer than two words"
}

// altText checks a figure's alternative text.
func (r *run) altText(s *model.Slide, e *model.SlideElement) {
	alt := strings.TrimSpace(e.Content.AltText)
	kind := figureName(e.Type)

	switch {
	case alt == "" || e.Content.AltTextStatus == model.AltTextMissing:
		r.add(model.NewIssue(model.IssueMissingAltText, model.SeverityError, s.Number, e, model.Message{
			De: kind.De + " ohne Alternativtext. Beschreiben Sie den Inhalt oder markieren Sie das Objekt als dekorativ.",
			En: kind.En + " without alternative text. Describe its content or mark it as decorative.",
		}).WithRefs("1.1.1", "7.3").WithContext("%s", e.Label()))

	case decorativeWords[strings.ToLower(strings.Trim(alt, ".!- "))]:
		r.add(model.NewIssue(model.IssueMissingAltText, model.SeverityError, s.Number, e, model.Message{
			De: kind.De + " ist im Alternativtext als dekorativ bezeichnet, aber nicht als dekorativ markiert. Screenreader lesen den Text vor.",
			En: kind.En + " is called decorative in its alternative text but not marked decorative. Screen readers announce the text.",
		}).WithRefs("1.1.1", "7.3").WithContext("alt %q", alt))

	case e.Content.AltTextStatus == model.AltTextNeedsReview:
		r.add(model.NewIssue(model.IssueLowQualityAltText, model.SeverityWarning, s.Number, e, model.Message{
			De: kind.De + ": Der Alternativtext wurde automatisch erzeugt und muss geprüft werden.",
			En: kind.En + ": the alternative text was generated automatically and needs review.",
		}).WithRefs("1.1.1", "").WithContext("alt %q", alt))

	case LowQualityAltText(alt):
		r.add(model.NewIssue(model.IssueLowQualityAltText, model.SeverityWarning, s.Number, e, model.Message{
			De: kind.De + ": Der Alternativtext beschreibt den Inhalt nicht.",
			En: kind.En + ": the alternative text does not describe the content.",
		}).WithRefs("1.1.1", "").WithContext("%s: %q", qualityReason(alt), alt))
	}
}

func figureName(t model.ElementType) model.Message {
	switch t {
	case model.ElementChart:
		return model.Message{De: "Diagramm", En: "Chart"}
	case model.ElementSmartArt:
		return model.Message{De: "SmartArt-Grafik", En: "SmartArt graphic"}
	}
	return model.Message{De: "Bild", En: "Picture"}
}
