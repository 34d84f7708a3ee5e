package core

import (
	"testing"
)

func TestObjectType(t *testing.T) {
	tests := []struct {
		typ  ObjectType
		want string
	}{
		{ObjNull, "Null"},
		{ObjBool, "Bool"},
		{ObjInt, "Int"},
		{ObjReal, "Real"},
		{ObjString, "String"},
		{ObjName, "Name"},
		{ObjArray, "Array"},
		{ObjDict, "Dict"},
		{ObjStream, "Stream"},
		{ObjIndirect, "IndirectRef"},
		{ObjectType(99), "Unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := tt.typ.String(); got != tt.want {
				t.Errorf("ObjectType.String() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSerialize(t *testing.T) {
	tests := []struct {
		name string
		obj  Object
		want string
	}{
		{"null", Null{}, "null"},
		{"true", Bool(true), "true"},
		{"false", Bool(false), "false"},
		{"int", Int(-42), "-42"},
		{"real", Real(1.5), "1.5"},
		{"real whole", Real(720), "720"},
		{"real rounded", Real(0.123456), "0.1235"},
		{"real negative zero", Real(-0.00001), "0"},
		{"string", String("Folie 1"), "(Folie 1)"},
		{"string delimiters", String(`a(b)c\d`), `(a\(b\)c\\d)`},
		{"string controls", String("a\nb\x01"), `(a\nb\001)`},
		{"hex", HexString{0x00, 0xAB, 0xff}, "<00ABFF>"},
		{"name", Name("StructTreeRoot"), "/StructTreeRoot"},
		{"name escaped", Name("Lbl Body#1"), "/Lbl#20Body#231"},
		{"array", Array{Int(0), Real(0.5), Name("XYZ")}, "[0 0.5 /XYZ]"},
		{"empty array", Array{}, "[]"},
		{"ref", IndirectRef{Number: 12}, "12 0 R"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.obj.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDictSortedKeys(t *testing.T) {
	d := Dict{
		"Type":   Name("Page"),
		"Parent": IndirectRef{Number: 2},
		"Annots": Array{},
	}
	want := "<</Annots []/Parent 2 0 R/Type /Page>>"
	for i := 0; i < 5; i++ {
		if got := d.String(); got != want {
			t.Fatalf("Dict.String() = %q, want %q", got, want)
		}
	}

	nested := Dict{"MarkInfo": Dict{"Marked": Bool(true)}}
	if got := nested.String(); got != "<</MarkInfo <</Marked true>>>>" {
		t.Errorf("nested Dict.String() = %q", got)
	}
}

func TestDictAccessors(t *testing.T) {
	d := Dict{}
	d.Set("Type", Name("Catalog"))
	d.Set("Kids", Array{IndirectRef{Number: 3}})
	d.Set("MarkInfo", Dict{"Marked": Bool(true)})

	if !d.Has("Type") || d.Has("Missing") {
		t.Error("Has returned wrong result")
	}
	if name, ok := d.GetName("Type"); !ok || name != "Catalog" {
		t.Errorf("GetName = %v, %v", name, ok)
	}
	if _, ok := d.GetName("Kids"); ok {
		t.Error("GetName should fail for an array")
	}
	if arr, ok := d.GetArray("Kids"); !ok || arr.Len() != 1 {
		t.Errorf("GetArray = %v, %v", arr, ok)
	}
	if sub, ok := d.GetDict("MarkInfo"); !ok || sub.Get("Marked") != Bool(true) {
		t.Errorf("GetDict = %v, %v", sub, ok)
	}
	if d.Get("Missing") != nil {
		t.Error("Get should return nil for a missing key")
	}
}

func TestTextString(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"ascii", "Quarterly report", "(Quarterly report)"},
		{"empty", "", "()"},
		{"umlaut", "Ü", "<FEFF00DC>"},
		{"euro", "€5", "<FEFF20AC0035>"},
		{"newline", "a\nb", "<FEFF0061000A0062>"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := TextString(tt.in).String(); got != tt.want {
				t.Errorf("TextString(%q) = %s, want %s", tt.in, got, tt.want)
			}
		})
	}
}

func TestIndirectRefIsZero(t *testing.T) {
	if !(IndirectRef{}).IsZero() {
		t.Error("zero ref should report IsZero")
	}
	if (IndirectRef{Number: 1}).IsZero() {
		t.Error("object 1 should not report IsZero")
	}
}

func TestStreamCompress(t *testing.T) {
	data := []byte("BT /F1 12 Tf (Hallo) Tj ET")
	s := NewStream(nil, append([]byte(nil), data...))
	if err := s.Compress(); err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	if name, _ := s.Dict.GetName("Filter"); name != "FlateDecode" {
		t.Errorf("Filter = %v, want FlateDecode", s.Dict.Get("Filter"))
	}
	if err := s.Compress(); err == nil {
		t.Error("expected error compressing twice")
	}

	got, err := s.Decode()
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	if string(got) != string(data) {
		t.Errorf("Decode = %q, want %q", got, data)
	}
}

func TestStreamDecodePassthrough(t *testing.T) {
	raw := NewStream(nil, []byte("plain"))
	if got, err := raw.Decode(); err != nil || string(got) != "plain" {
		t.Errorf("Decode unfiltered = %q, %v", got, err)
	}

	jpeg := NewStream(Dict{"Filter": Name("DCTDecode")}, []byte{0xFF, 0xD8})
	if got, err := jpeg.Decode(); err != nil || len(got) != 2 {
		t.Errorf("Decode DCT = %v, %v", got, err)
	}

	lzw := NewStream(Dict{"Filter": Name("LZWDecode")}, []byte{1})
	if _, err := lzw.Decode(); err == nil {
		t.Error("expected error for unsupported filter")
	}
}
