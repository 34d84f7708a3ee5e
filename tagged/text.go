package tagged

import (
	"bytes"
	"strings"

	"github.com/tsawler/slideua/font"
)

const (
	lineSpacing = 1.2
	padding     = 3.6
	minFontSize = 6.0
)

// wrap breaks encoded text into lines no wider than width at the given
// size. Paragraph breaks in the input start new lines; words longer than
// a line are split between characters.
func wrap(f *font.Font, text string, size, width float64) [][]byte {
	var lines [][]byte
	for _, para := range strings.Split(text, "\n") {
		codes := font.Encode(para)
		if len(bytes.TrimSpace(codes)) == 0 {
			lines = append(lines, nil)
			continue
		}
		var cur []byte
		for _, word := range bytes.Fields(codes) {
			candidate := word
			if len(cur) > 0 {
				candidate = append(append(append([]byte(nil), cur...), ' '), word...)
			}
			if f.Measure(candidate, size) <= width {
				cur = candidate
				continue
			}
			if len(cur) > 0 {
				lines = append(lines, cur)
				cur = nil
			}
			for f.Measure(word, size) > width && len(word) > 1 {
				n := fit(f, word, size, width)
				lines = append(lines, word[:n])
				word = word[n:]
			}
			cur = append([]byte(nil), word...)
		}
		lines = append(lines, cur)
	}
	// Trailing blank paragraphs draw nothing.
	for len(lines) > 0 && len(lines[len(lines)-1]) == 0 {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// fit returns how many leading codes of word fit into width, at least one.
func fit(f *font.Font, word []byte, size, width float64) int {
	n := 1
	for n < len(word) && f.Measure(word[:n+1], size) <= width {
		n++
	}
	return n
}

// textBlock is text laid out inside a box.
type textBlock struct {
	font  *font.Font
	size  float64
	lines [][]byte
	// baselines in page coordinates, one per line.
	x         float64
	baselines []float64
}

// layoutText fits text into the box whose top-left corner is (x, top) in
// page coordinates. The size shrinks until the lines fit the height, down
// to a minimum; text that still overflows runs past the box.
func layoutText(f *font.Font, text string, size, x, top, width, height float64) *textBlock {
	inner := width - 2*padding
	if inner < size {
		inner = width
	}
	var lines [][]byte
	for {
		lines = wrap(f, text, size, inner)
		if float64(len(lines))*size*lineSpacing <= height-padding || size <= minFontSize {
			break
		}
		size *= 0.9
		if size < minFontSize {
			size = minFontSize
		}
	}

	tb := &textBlock{font: f, size: size, lines: lines, x: x + padding}
	y := top - padding - float64(f.Ascent)*size/1000
	for range lines {
		tb.baselines = append(tb.baselines, y)
		y -= size * lineSpacing
	}
	return tb
}

func (tb *textBlock) empty() bool {
	for _, l := range tb.lines {
		if len(l) > 0 {
			return false
		}
	}
	return true
}

func (tb *textBlock) draw(c *content, fontName string) {
	for i, l := range tb.lines {
		if len(l) == 0 {
			continue
		}
		c.text(fontName, tb.size, tb.x, tb.baselines[i], l)
	}
}

// find locates the first line containing needle and returns its box as
// llx, lly, urx, ury.
func (tb *textBlock) find(needle string) ([]float64, bool) {
	codes := bytes.TrimSpace(font.Encode(needle))
	if len(codes) == 0 {
		return nil, false
	}
	for i, l := range tb.lines {
		idx := bytes.Index(l, codes)
		if idx < 0 {
			continue
		}
		x1 := tb.x + tb.font.Measure(l[:idx], tb.size)
		x2 := x1 + tb.font.Measure(codes, tb.size)
		y := tb.baselines[i]
		return []float64{
			x1,
			y + float64(tb.font.Descent)*tb.size/1000,
			x2,
			y + float64(tb.font.Ascent)*tb.size/1000,
		}, true
	}
	return nil, false
}
