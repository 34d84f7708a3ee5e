package tagged

import (
	"bytes"
	"strconv"
	"strings"

	"github.com/tsawler/slideua/core"
	"github.com/tsawler/slideua/model"
)

// content accumulates page content stream operators.
type content struct {
	buf bytes.Buffer
}

func num(v float64) string {
	return core.Real(v).String()
}

func (c *content) op(operands ...string) {
	c.buf.WriteString(strings.Join(operands, " "))
	c.buf.WriteByte('\n')
}

func (c *content) beginTag(role model.SemanticRole, mcid int) {
	c.op(core.Name(role).String(), "<</MCID "+strconv.Itoa(mcid)+">>", "BDC")
}

func (c *content) beginArtifact() {
	c.op("/Artifact", "BMC")
}

func (c *content) end() {
	c.op("EMC")
}

func (c *content) fill(col rgb) {
	c.op(num(col[0]), num(col[1]), num(col[2]), "rg")
}

func (c *content) stroke(col rgb) {
	c.op(num(col[0]), num(col[1]), num(col[2]), "RG")
}

func (c *content) rect(x, y, w, h float64, paint string) {
	c.op(num(x), num(y), num(w), num(h), "re", paint)
}

func (c *content) line(x1, y1, x2, y2 float64) {
	c.op(num(x1), num(y1), "m", num(x2), num(y2), "l", "S")
}

func (c *content) text(fontName string, size, x, y float64, codes []byte) {
	c.op("BT", core.Name(fontName).String(), num(size), "Tf", num(x), num(y), "Td", core.String(codes).String(), "Tj", "ET")
}

func (c *content) image(name string, x, y, w, h float64) {
	c.op("q", num(w), "0", "0", num(h), num(x), num(y), "cm", core.Name(name).String(), "Do", "Q")
}

func (c *content) bytes() []byte {
	return c.buf.Bytes()
}

// rgb is a colour with components in [0, 1].
type rgb [3]float64

var (
	black     = rgb{0, 0, 0}
	gridGrey  = rgb{0.6, 0.6, 0.6}
	frameGrey = rgb{0.75, 0.75, 0.75}
)

// parseColor reads "RRGGBB" or "#RRGGBB".
func parseColor(s string) (rgb, bool) {
	s = strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(s) != 6 {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(s, 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{
		float64(v>>16&0xff) / 255,
		float64(v>>8&0xff) / 255,
		float64(v&0xff) / 255,
	}, true
}
