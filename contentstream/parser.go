package contentstream

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/tsawler/slideua/core"
)

// Operation is one operator with the operands that precede it.
type Operation struct {
	Operator string
	Operands []core.Object
}

// Parser splits a content stream into operations. A Parser is used once.
type Parser struct {
	data  []byte
	pos   int
	stack []core.Object
	ops   []Operation
}

// NewParser creates a parser for data.
func NewParser(data []byte) *Parser {
	return &Parser{data: data}
}

// Parse is shorthand for NewParser(data).Parse().
func Parse(data []byte) ([]Operation, error) {
	return NewParser(data).Parse()
}

// Parse returns the operations in stream order. Operands left over at the
// end of the stream are an error.
func (p *Parser) Parse() ([]Operation, error) {
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			break
		}
		start := p.pos
		if err := p.next(); err != nil {
			return nil, fmt.Errorf("at offset %d: %w", start, err)
		}
	}
	if len(p.stack) > 0 {
		return nil, fmt.Errorf("%d operands without operator at end of stream", len(p.stack))
	}
	return p.ops, nil
}

func (p *Parser) next() error {
	c := p.data[p.pos]
	if !isRegular(c) || c == '+' || c == '-' || c == '.' || isDigit(c) {
		obj, err := p.operand()
		if err != nil {
			return err
		}
		p.stack = append(p.stack, obj)
		return nil
	}

	word := p.word()
	switch word {
	case "true":
		p.stack = append(p.stack, core.Bool(true))
		return nil
	case "false":
		p.stack = append(p.stack, core.Bool(false))
		return nil
	case "null":
		p.stack = append(p.stack, core.Null{})
		return nil
	}

	op := Operation{Operator: word, Operands: p.stack}
	p.stack = nil
	if word == "BI" {
		if err := p.skipInlineImage(); err != nil {
			return err
		}
	}
	p.ops = append(p.ops, op)
	return nil
}

// word reads a run of regular characters.
func (p *Parser) word() string {
	start := p.pos
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		p.pos++
	}
	return string(p.data[start:p.pos])
}

// skipInlineImage moves past the dictionary and data of an inline image,
// which ends with EI preceded by white space.
func (p *Parser) skipInlineImage() error {
	i := bytes.Index(p.data[p.pos:], []byte("ID"))
	if i < 0 {
		return fmt.Errorf("inline image without ID")
	}
	p.pos += i + 2
	for j := p.pos; j+2 <= len(p.data); j++ {
		if p.data[j] == 'E' && p.data[j+1] == 'I' && j > 0 && isSpace(p.data[j-1]) &&
			(j+2 == len(p.data) || !isRegular(p.data[j+2])) {
			p.pos = j + 2
			return nil
		}
	}
	return fmt.Errorf("inline image without EI")
}

func (p *Parser) operand() (core.Object, error) {
	p.skipSpace()
	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of stream")
	}
	switch c := p.data[p.pos]; {
	case c == '(':
		return p.literal()
	case c == '<' && p.peek(1) == '<':
		return p.dict()
	case c == '<':
		return p.hex()
	case c == '/':
		return p.name(), nil
	case c == '[':
		return p.array()
	case c == '+' || c == '-' || c == '.' || isDigit(c):
		return p.number()
	case isRegular(c):
		switch w := p.word(); w {
		case "true":
			return core.Bool(true), nil
		case "false":
			return core.Bool(false), nil
		case "null":
			return core.Null{}, nil
		default:
			return nil, fmt.Errorf("operator %q inside operand", w)
		}
	default:
		return nil, fmt.Errorf("unexpected %q", c)
	}
}

func (p *Parser) peek(n int) byte {
	if p.pos+n < len(p.data) {
		return p.data[p.pos+n]
	}
	return 0
}

func (p *Parser) number() (core.Object, error) {
	start := p.pos
	if c := p.data[p.pos]; c == '+' || c == '-' {
		p.pos++
	}
	frac := false
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '.' && !frac {
			frac = true
		} else if !isDigit(c) {
			break
		}
		p.pos++
	}
	s := string(p.data[start:p.pos])
	if frac {
		v, err := strconv.ParseFloat(s, 64)
		if err != nil {
			return nil, fmt.Errorf("bad number %q", s)
		}
		return core.Real(v), nil
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return nil, fmt.Errorf("bad number %q", s)
	}
	return core.Int(v), nil
}

var escapes = map[byte]byte{
	'n': '\n', 'r': '\r', 't': '\t', 'b': '\b', 'f': '\f',
	'(': '(', ')': ')', '\\': '\\',
}

func (p *Parser) literal() (core.Object, error) {
	p.pos++
	var out bytes.Buffer
	depth := 1
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch {
		case c == '\\' && p.pos < len(p.data):
			e := p.data[p.pos]
			p.pos++
			if r, ok := escapes[e]; ok {
				out.WriteByte(r)
				continue
			}
			if e >= '0' && e <= '7' {
				v := int(e - '0')
				for k := 0; k < 2 && p.pos < len(p.data) && p.data[p.pos] >= '0' && p.data[p.pos] <= '7'; k++ {
					v = v*8 + int(p.data[p.pos]-'0')
					p.pos++
				}
				out.WriteByte(byte(v))
				continue
			}
			if e == '\r' && p.pos < len(p.data) && p.data[p.pos] == '\n' {
				p.pos++
			}
			if e != '\r' && e != '\n' {
				out.WriteByte(e)
			}
		case c == '(':
			depth++
			out.WriteByte(c)
		case c == ')':
			depth--
			if depth == 0 {
				return core.String(out.String()), nil
			}
			out.WriteByte(c)
		default:
			out.WriteByte(c)
		}
	}
	return nil, fmt.Errorf("unterminated string")
}

func (p *Parser) hex() (core.Object, error) {
	p.pos++
	var digits []byte
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++
		switch {
		case c == '>':
			if len(digits)%2 == 1 {
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := range out {
				out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
			}
			return core.HexString(out), nil
		case isSpace(c):
		case isHex(c):
			digits = append(digits, c)
		default:
			return nil, fmt.Errorf("bad hex digit %q", c)
		}
	}
	return nil, fmt.Errorf("unterminated hex string")
}

func (p *Parser) name() core.Object {
	p.pos++
	var out bytes.Buffer
	for p.pos < len(p.data) && isRegular(p.data[p.pos]) {
		c := p.data[p.pos]
		if c == '#' && p.pos+2 < len(p.data) && isHex(p.data[p.pos+1]) && isHex(p.data[p.pos+2]) {
			out.WriteByte(hexValue(p.data[p.pos+1])<<4 | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}
		out.WriteByte(c)
		p.pos++
	}
	return core.Name(out.String())
}

func (p *Parser) array() (core.Object, error) {
	p.pos++
	arr := core.Array{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unterminated array")
		}
		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}
		obj, err := p.operand()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

func (p *Parser) dict() (core.Object, error) {
	p.pos += 2
	d := core.Dict{}
	for {
		p.skipSpace()
		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unterminated dictionary")
		}
		if p.data[p.pos] == '>' && p.peek(1) == '>' {
			p.pos += 2
			return d, nil
		}
		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key is not a name")
		}
		key := p.name().(core.Name)
		val, err := p.operand()
		if err != nil {
			return nil, err
		}
		d[string(key)] = val
	}
}

// skipSpace skips white space and comments.
func (p *Parser) skipSpace() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		if !isSpace(c) {
			return
		}
		p.pos++
	}
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

func isDelimiter(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// isRegular reports whether c can be part of an operator or keyword.
func isRegular(c byte) bool {
	return !isSpace(c) && !isDelimiter(c)
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isHex(c byte) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

func hexValue(c byte) byte {
	switch {
	case isDigit(c):
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
