package contentstream

import (
	"fmt"
	"sort"

	"github.com/tsawler/slideua/core"
)

// paintOps are the operators that put marks on the page.
var paintOps = map[string]bool{
	"Tj": true, "TJ": true, "'": true, "\"": true,
	"S": true, "s": true, "f": true, "F": true, "f*": true,
	"B": true, "B*": true, "b": true, "b*": true,
	"Do": true, "sh": true, "BI": true,
}

// Sequence is one marked-content sequence.
type Sequence struct {
	Tag string
	// MCID is -1 when the sequence carries no marked-content id.
	MCID  int
	Depth int
	// Paints counts painting operators directly inside the sequence.
	Paints int
}

// Artifact reports whether the sequence marks artifact content.
func (s Sequence) Artifact() bool { return s.Tag == "Artifact" }

// Marks describes the marked content of one content stream.
type Marks struct {
	Sequences []Sequence
	// Unmarked lists painting operators found outside every sequence.
	Unmarked []string
}

// MCIDs returns the marked-content ids in ascending order.
func (m *Marks) MCIDs() []int {
	var ids []int
	for _, s := range m.Sequences {
		if s.MCID >= 0 {
			ids = append(ids, s.MCID)
		}
	}
	sort.Ints(ids)
	return ids
}

// Tagged returns the MCID-carrying sequences by tag.
func (m *Marks) Tagged() map[string]int {
	out := make(map[string]int)
	for _, s := range m.Sequences {
		if s.MCID >= 0 {
			out[s.Tag]++
		}
	}
	return out
}

// Artifacts counts the artifact sequences.
func (m *Marks) Artifacts() int {
	n := 0
	for _, s := range m.Sequences {
		if s.Artifact() {
			n++
		}
	}
	return n
}

// Marked collects the marked-content sequences of ops. Unbalanced BMC/BDC
// and EMC operators and duplicate MCIDs are errors.
func Marked(ops []Operation) (*Marks, error) {
	m := &Marks{}
	var open []int // indexes into m.Sequences
	seen := make(map[int]bool)

	for i, op := range ops {
		switch op.Operator {
		case "BMC", "BDC":
			s, err := sequence(op)
			if err != nil {
				return nil, fmt.Errorf("operation %d: %w", i, err)
			}
			if s.MCID >= 0 {
				if seen[s.MCID] {
					return nil, fmt.Errorf("operation %d: duplicate MCID %d", i, s.MCID)
				}
				seen[s.MCID] = true
			}
			s.Depth = len(open)
			m.Sequences = append(m.Sequences, s)
			open = append(open, len(m.Sequences)-1)
		case "EMC":
			if len(open) == 0 {
				return nil, fmt.Errorf("operation %d: EMC without open sequence", i)
			}
			open = open[:len(open)-1]
		default:
			if !paintOps[op.Operator] {
				continue
			}
			if len(open) == 0 {
				m.Unmarked = append(m.Unmarked, op.Operator)
				continue
			}
			m.Sequences[open[len(open)-1]].Paints++
		}
	}
	if len(open) > 0 {
		return nil, fmt.Errorf("%d marked-content sequences not closed", len(open))
	}
	return m, nil
}

// Check parses a content stream and collects its marked content.
func Check(data []byte) (*Marks, error) {
	ops, err := Parse(data)
	if err != nil {
		return nil, err
	}
	return Marked(ops)
}

func sequence(op Operation) (Sequence, error) {
	want := 1
	if op.Operator == "BDC" {
		want = 2
	}
	if len(op.Operands) != want {
		return Sequence{}, fmt.Errorf("%s takes %d operands, got %d", op.Operator, want, len(op.Operands))
	}
	tag, ok := op.Operands[0].(core.Name)
	if !ok {
		return Sequence{}, fmt.Errorf("%s tag is not a name", op.Operator)
	}
	s := Sequence{Tag: string(tag), MCID: -1}
	if want == 1 {
		return s, nil
	}

	// Properties are either inline or a name in the resource dictionary.
	props, ok := op.Operands[1].(core.Dict)
	if !ok {
		return s, nil
	}
	if v, ok := props.Get("MCID").(core.Int); ok {
		if v < 0 {
			return Sequence{}, fmt.Errorf("negative MCID %d", v)
		}
		s.MCID = int(v)
	}
	return s, nil
}
