package font

import (
	"fmt"
	"sync"

	xfont "golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/font/sfnt"
	"golang.org/x/image/math/fixed"
	"golang.org/x/text/encoding/charmap"
)

// Character code range covered by an embedded simple font.
const (
	FirstChar = 32
	LastChar  = 255
)

// Font flags from the font descriptor.
const (
	FlagNonsymbolic = 1 << 5
	FlagForceBold   = 1 << 18
)

// unitsPerEm is the glyph space PDF uses for widths and metrics.
const unitsPerEm = 1000

// Font is a TrueType font prepared for embedding as a simple font with
// WinAnsiEncoding. All metrics are in 1/1000 em.
type Font struct {
	Name      string
	Data      []byte
	Bold      bool
	Ascent    int
	Descent   int
	CapHeight int
	BBox      [4]int

	widths [256]int
}

// Parse reads a TrueType font and computes the widths of every WinAnsi
// character code.
func Parse(data []byte, bold bool) (*Font, error) {
	sf, err := sfnt.Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing font: %w", err)
	}

	var buf sfnt.Buffer
	ppem := fixed.I(unitsPerEm)
	f := &Font{Data: data, Bold: bold}

	f.Name, err = sf.Name(&buf, sfnt.NameIDPostScript)
	if err != nil || f.Name == "" {
		f.Name = "EmbeddedFont"
		if bold {
			f.Name += "-Bold"
		}
	}

	m, err := sf.Metrics(&buf, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("reading font metrics: %w", err)
	}
	f.Ascent = m.Ascent.Round()
	f.Descent = -m.Descent.Round()
	f.CapHeight = m.CapHeight.Round()
	if f.CapHeight == 0 {
		f.CapHeight = f.Ascent
	}

	// sfnt bounds grow downwards; PDF boxes grow upwards.
	b, err := sf.Bounds(&buf, ppem, xfont.HintingNone)
	if err != nil {
		return nil, fmt.Errorf("reading font bounds: %w", err)
	}
	f.BBox = [4]int{b.Min.X.Floor(), -b.Max.Y.Ceil(), b.Max.X.Ceil(), -b.Min.Y.Floor()}

	for code := FirstChar; code <= LastChar; code++ {
		r, ok := decodeWinAnsi(byte(code))
		if !ok {
			continue
		}
		idx, err := sf.GlyphIndex(&buf, r)
		if err != nil {
			return nil, fmt.Errorf("looking up glyph for %U: %w", r, err)
		}
		adv, err := sf.GlyphAdvance(&buf, idx, ppem, xfont.HintingNone)
		if err != nil {
			return nil, fmt.Errorf("reading advance for %U: %w", r, err)
		}
		f.widths[code] = adv.Round()
	}
	if f.widths[' '] == 0 {
		return nil, fmt.Errorf("font %s has no space glyph", f.Name)
	}
	return f, nil
}

var (
	goOnce    sync.Once
	goRegular *Font
	goBold    *Font
	goErr     error
)

func loadGoFonts() {
	goRegular, goErr = Parse(goregular.TTF, false)
	if goErr != nil {
		return
	}
	goBold, goErr = Parse(gobold.TTF, true)
}

// Regular returns the bundled Go Regular font.
func Regular() (*Font, error) {
	goOnce.Do(loadGoFonts)
	return goRegular, goErr
}

// Bold returns the bundled Go Bold font.
func Bold() (*Font, error) {
	goOnce.Do(loadGoFonts)
	return goBold, goErr
}

// Width returns the advance of a character code.
func (f *Font) Width(code byte) int {
	return f.widths[code]
}

// Widths returns the advances for FirstChar through LastChar, as written
// into the font dictionary.
func (f *Font) Widths() []int {
	return append([]int(nil), f.widths[FirstChar:LastChar+1]...)
}

// Measure returns the width in points of encoded text at the given size.
func (f *Font) Measure(text []byte, size float64) float64 {
	total := 0
	for _, c := range text {
		total += f.widths[c]
	}
	return float64(total) * size / unitsPerEm
}

// Flags returns the font descriptor flags.
func (f *Font) Flags() int {
	if f.Bold {
		return FlagNonsymbolic | FlagForceBold
	}
	return FlagNonsymbolic
}

// StemV estimates the dominant vertical stem width.
func (f *Font) StemV() int {
	if f.Bold {
		return 140
	}
	return 80
}

// ToUnicode returns the CMap mapping every usable code to its character.
func (f *Font) ToUnicode() *CMap {
	cm := NewCMap()
	for code := FirstChar; code <= LastChar; code++ {
		if r, ok := decodeWinAnsi(byte(code)); ok && f.widths[code] > 0 {
			cm.Add(uint32(code), string(r))
		}
	}
	return cm
}

// unassigned lists the Windows-1252 bytes without a character.
var unassigned = [256]bool{0x7F: true, 0x81: true, 0x8D: true, 0x8F: true, 0x90: true, 0x9D: true}

func decodeWinAnsi(c byte) (rune, bool) {
	if c < FirstChar || unassigned[c] {
		return 0, false
	}
	return charmap.Windows1252.DecodeByte(c), true
}

// Encodable reports whether r can be drawn with WinAnsiEncoding.
func Encodable(r rune) bool {
	c, ok := charmap.Windows1252.EncodeRune(r)
	return ok && c >= FirstChar && !unassigned[c]
}

// Encode converts text to WinAnsi character codes, dropping characters
// outside the repertoire.
func Encode(s string) []byte {
	out := make([]byte, 0, len(s))
	for _, r := range s {
		if c, ok := charmap.Windows1252.EncodeRune(r); ok && c >= FirstChar && !unassigned[c] {
			out = append(out, c)
		}
	}
	return out
}
