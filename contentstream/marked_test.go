package contentstream

import (
	"reflect"
	"strings"
	"testing"
)

func TestCheckTaggedPage(t *testing.T) {
	page := `/Artifact BMC
0.9 0.9 0.9 rg 0 0 960 540 re f
EMC
/H1 <</MCID 0>> BDC
0 0 0 rg BT /F2 28 Tf 40 480 Td <0102> Tj ET
EMC
/Figure <</MCID 1>> BDC
q 400 0 0 300 100 120 cm /Im1 Do Q
EMC
/Table <</MCID 2>> BDC
/TD <</MCID 3>> BDC
BT /F1 12 Tf 50 100 Td (Wert) Tj ET
EMC
EMC
`
	m, err := Check([]byte(page))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(m.Unmarked) != 0 {
		t.Errorf("unmarked operators: %v", m.Unmarked)
	}
	if got := m.MCIDs(); !reflect.DeepEqual(got, []int{0, 1, 2, 3}) {
		t.Errorf("MCIDs = %v", got)
	}
	if m.Artifacts() != 1 {
		t.Errorf("Artifacts = %d, want 1", m.Artifacts())
	}
	tags := m.Tagged()
	if tags["H1"] != 1 || tags["Figure"] != 1 || tags["TD"] != 1 {
		t.Errorf("Tagged = %v", tags)
	}

	last := m.Sequences[len(m.Sequences)-1]
	if last.Tag != "TD" || last.Depth != 1 || last.Paints != 1 {
		t.Errorf("nested sequence = %+v", last)
	}
	if m.Sequences[0].Paints != 1 || !m.Sequences[0].Artifact() {
		t.Errorf("artifact sequence = %+v", m.Sequences[0])
	}
}

func TestCheckFindsUnmarkedContent(t *testing.T) {
	m, err := Check([]byte("BT (loose) Tj ET 0 0 10 10 re S /P <</MCID 0>> BDC (ok) Tj EMC"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if strings.Join(m.Unmarked, ",") != "Tj,S" {
		t.Errorf("Unmarked = %v", m.Unmarked)
	}
}

func TestCheckErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"stray EMC", "EMC", "without open sequence"},
		{"unclosed", "/P <</MCID 0>> BDC (x) Tj", "not closed"},
		{"duplicate mcid", "/P <</MCID 0>> BDC EMC /P <</MCID 0>> BDC EMC", "duplicate MCID 0"},
		{"negative mcid", "/P <</MCID -1>> BDC EMC", "negative MCID"},
		{"tag not a name", "(P) BMC EMC", "not a name"},
		{"operand count", "/P BDC EMC", "takes 2 operands"},
		{"parse error", "/P <</MCID 0>> BDC (x Tj EMC", "unterminated"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Check([]byte(tt.input))
			if err == nil || !strings.Contains(err.Error(), tt.want) {
				t.Errorf("Check(%q) error = %v, want %q", tt.input, err, tt.want)
			}
		})
	}
}

func TestPropertyListByName(t *testing.T) {
	m, err := Check([]byte("/Span /MC0 BDC (x) Tj EMC"))
	if err != nil {
		t.Fatalf("Check failed: %v", err)
	}
	if len(m.Sequences) != 1 || m.Sequences[0].MCID != -1 {
		t.Errorf("Sequences = %+v", m.Sequences)
	}
}
