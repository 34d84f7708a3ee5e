package font

import (
	"encoding/hex"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode/utf16"
)

// CMap maps single-byte character codes to Unicode text. It is written as
// the /ToUnicode stream of a simple font so that text drawn with the font
// can be extracted and read aloud.
type CMap struct {
	mappings map[uint32]string
}

// NewCMap creates an empty CMap.
func NewCMap() *CMap {
	return &CMap{mappings: make(map[uint32]string)}
}

// Add maps code to text.
func (cm *CMap) Add(code uint32, text string) {
	cm.mappings[code] = text
}

// Len returns the number of mapped codes.
func (cm *CMap) Len() int {
	return len(cm.mappings)
}

// Lookup returns the text for code, or "" when the code is unmapped.
func (cm *CMap) Lookup(code uint32) string {
	return cm.mappings[code]
}

// LookupString decodes a string of single-byte codes.
func (cm *CMap) LookupString(data []byte) string {
	var b strings.Builder
	for _, c := range data {
		b.WriteString(cm.Lookup(uint32(c)))
	}
	return b.String()
}

// maxBfChar is the largest bfchar block a CMap program may contain.
const maxBfChar = 100

// Bytes renders the CMap program.
func (cm *CMap) Bytes() []byte {
	codes := make([]uint32, 0, len(cm.mappings))
	for c := range cm.mappings {
		codes = append(codes, c)
	}
	sort.Slice(codes, func(i, j int) bool { return codes[i] < codes[j] })

	var b strings.Builder
	b.WriteString("/CIDInit /ProcSet findresource begin\n")
	b.WriteString("12 dict begin\nbegincmap\n")
	b.WriteString("/CIDSystemInfo << /Registry (Adobe) /Ordering (UCS) /Supplement 0 >> def\n")
	b.WriteString("/CMapName /Adobe-Identity-UCS def\n/CMapType 2 def\n")
	b.WriteString("1 begincodespacerange\n<00> <FF>\nendcodespacerange\n")
	for start := 0; start < len(codes); start += maxBfChar {
		end := start + maxBfChar
		if end > len(codes) {
			end = len(codes)
		}
		fmt.Fprintf(&b, "%d beginbfchar\n", end-start)
		for _, c := range codes[start:end] {
			fmt.Fprintf(&b, "<%02X> <%s>\n", c, utf16Hex(cm.mappings[c]))
		}
		b.WriteString("endbfchar\n")
	}
	b.WriteString("endcmap\nCMapName currentdict /CMap defineresource pop\nend\nend\n")
	return []byte(b.String())
}

func utf16Hex(s string) string {
	units := utf16.Encode([]rune(s))
	var b strings.Builder
	for _, u := range units {
		fmt.Fprintf(&b, "%04X", u)
	}
	return b.String()
}

// ParseCMap reads the bfchar and bfrange sections of a CMap program.
func ParseCMap(data []byte) (*CMap, error) {
	cm := NewCMap()
	content := string(data)
	if !strings.Contains(content, "begincmap") {
		return nil, fmt.Errorf("not a CMap program")
	}
	for _, section := range sections(content, "beginbfchar", "endbfchar") {
		for _, line := range strings.Split(section, "\n") {
			parts := strings.Fields(line)
			if len(parts) < 2 {
				continue
			}
			code, err := parseHexCode(parts[0])
			if err != nil {
				continue
			}
			text, err := parseHexText(parts[1])
			if err != nil {
				continue
			}
			cm.mappings[code] = text
		}
	}
	for _, section := range sections(content, "beginbfrange", "endbfrange") {
		for _, line := range strings.Split(section, "\n") {
			parts := strings.Fields(line)
			if len(parts) < 3 {
				continue
			}
			lo, err1 := parseHexCode(parts[0])
			hi, err2 := parseHexCode(parts[1])
			dst, err3 := parseHexCode(parts[2])
			if err1 != nil || err2 != nil || err3 != nil {
				continue
			}
			for c := lo; c <= hi; c++ {
				cm.mappings[c] = string(rune(dst + c - lo))
			}
		}
	}
	return cm, nil
}

func sections(content, begin, end string) []string {
	var out []string
	for {
		i := strings.Index(content, begin)
		if i < 0 {
			return out
		}
		content = content[i+len(begin):]
		j := strings.Index(content, end)
		if j < 0 {
			return out
		}
		out = append(out, content[:j])
		content = content[j+len(end):]
	}
}

func parseHexCode(s string) (uint32, error) {
	if len(s) < 3 || s[0] != '<' || s[len(s)-1] != '>' {
		return 0, fmt.Errorf("bad hex code %q", s)
	}
	v, err := strconv.ParseUint(s[1:len(s)-1], 16, 32)
	return uint32(v), err
}

func parseHexText(s string) (string, error) {
	if len(s) < 3 || s[0] != '<' || s[len(s)-1] != '>' {
		return "", fmt.Errorf("bad hex text %q", s)
	}
	data, err := hex.DecodeString(s[1 : len(s)-1])
	if err != nil {
		return "", err
	}
	if len(data)%2 != 0 {
		return "", fmt.Errorf("odd UTF-16 length in %q", s)
	}
	units := make([]uint16, len(data)/2)
	for i := range units {
		units[i] = uint16(data[2*i])<<8 | uint16(data[2*i+1])
	}
	return string(utf16.Decode(units)), nil
}
