package ocr

import (
	"errors"

	"golang.org/x/text/language"
)

// ErrOCRNotEnabled is returned when OCR support was not compiled in.
var ErrOCRNotEnabled = errors.New("OCR support not enabled; rebuild with -tags ocr")

// ErrClosed is returned by a client used after Close.
var ErrClosed = errors.New("OCR client closed")

// PageSegMode selects how Tesseract analyzes the page layout. The values
// match Tesseract's PSM numbers.
type PageSegMode int

const (
	PSMAuto        PageSegMode = 3  // fully automatic page segmentation
	PSMSingleBlock PageSegMode = 6  // one uniform block of text
	PSMSingleLine  PageSegMode = 7  // one text line
	PSMSparseText  PageSegMode = 11 // as much text as possible, in no order
)

// tesseractCodes maps ISO 639-1 base languages to Tesseract traineddata
// names.
var tesseractCodes = map[string]string{
	"de": "deu",
	"en": "eng",
	"fr": "fra",
	"es": "spa",
	"it": "ita",
	"nl": "nld",
	"pl": "pol",
	"pt": "por",
	"tr": "tur",
	"cs": "ces",
	"da": "dan",
	"sv": "swe",
}

// Languages maps BCP 47 tags such as "de-DE" to Tesseract language names,
// keeping order and dropping duplicates, unparsable tags and languages
// without a known model. Three-letter names are passed through.
func Languages(tags ...string) []string {
	var out []string
	seen := make(map[string]bool)
	for _, tag := range tags {
		code := tag
		if len(tag) != 3 {
			t, err := language.Parse(tag)
			if err != nil {
				continue
			}
			base, _ := t.Base()
			var ok bool
			if code, ok = tesseractCodes[base.String()]; !ok {
				continue
			}
		}
		if !seen[code] {
			seen[code] = true
			out = append(out, code)
		}
	}
	return out
}
