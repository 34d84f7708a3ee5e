package enhance

import (
	"context"
	"fmt"
	"strings"
	"unicode"
)

// Recognizer extracts text from an encoded image. *ocr.Client satisfies it.
type Recognizer interface {
	RecognizeImage(data []byte) (string, error)
}

// minOCRLetters is the number of letters below which recognized text is
// treated as noise.
const minOCRLetters = 3

// OCR proposes alt text from the text found in pictures. It cannot
// suggest titles. Its descriptions quote the picture rather than describe
// it, so they should be recorded as needing review.
type OCR struct {
	rec Recognizer
}

// NewOCR returns an OCR collaborator. A nil r is reported unavailable.
func NewOCR(r Recognizer) *OCR {
	return &OCR{rec: r}
}

// Available reports ErrUnavailable when no recognizer is set.
func (o *OCR) Available(ctx context.Context) error {
	if o == nil || o.rec == nil {
		return fmt.Errorf("%w: no OCR engine", ErrUnavailable)
	}
	return ctx.Err()
}

// DescribeImage returns "Grafik mit dem Text: ..." (or the English form)
// for pictures containing readable text, and "" otherwise.
func (o *OCR) DescribeImage(ctx context.Context, req ImageRequest) (string, error) {
	if len(req.Data) == 0 || !strings.HasPrefix(req.ContentType, "image/") {
		return "", nil
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	text, err := o.rec.RecognizeImage(req.Data)
	if err != nil {
		return "", fmt.Errorf("recognizing %s on slide %d: %w", req.ElementID, req.SlideNumber, err)
	}
	text = strings.Join(strings.Fields(text), " ")
	if letters(text) < minOCRLetters {
		return "", nil
	}
	prefix := "Image containing the text: "
	if isGerman(req.Language) {
		prefix = "Grafik mit dem Text: "
	}
	return clean(prefix+text, maxAltTextLen), nil
}

// SuggestTitle always returns "".
func (o *OCR) SuggestTitle(ctx context.Context, req SlideRequest) (string, error) {
	return "", nil
}

func letters(s string) int {
	n := 0
	for _, r := range s {
		if unicode.IsLetter(r) {
			n++
		}
	}
	return n
}
