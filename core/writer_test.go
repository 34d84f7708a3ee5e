package core

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/ledongthuc/pdf"
)

func buildMinimal(t *testing.T, title string) []byte {
	t.Helper()

	w := NewWriter()
	pages := w.Reserve()
	content := NewStream(nil, []byte("BT ET"))
	if err := content.Compress(); err != nil {
		t.Fatalf("Compress failed: %v", err)
	}
	page := w.Add(Dict{
		"Type":      Name("Page"),
		"Parent":    pages,
		"MediaBox":  Array{Int(0), Int(0), Int(720), Int(540)},
		"Resources": Dict{},
		"Contents":  w.Add(content),
	})
	w.Set(pages, Dict{
		"Type":  Name("Pages"),
		"Kids":  Array{page},
		"Count": Int(1),
	})
	w.SetRoot(w.Add(Dict{
		"Type":  Name("Catalog"),
		"Pages": pages,
		"Lang":  TextString("de-DE"),
	}))
	w.SetInfo(w.Add(Dict{"Title": TextString(title)}))

	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	return data
}

func TestWriterLayout(t *testing.T) {
	data := buildMinimal(t, "Bericht")

	if !bytes.HasPrefix(data, []byte("%PDF-1.7\n%")) {
		t.Errorf("unexpected header %q", data[:12])
	}
	if !bytes.HasSuffix(data, []byte("%%EOF\n")) {
		t.Error("missing end-of-file marker")
	}

	// startxref must point at the xref keyword.
	s := string(data)
	idx := strings.LastIndex(s, "startxref\n")
	if idx < 0 {
		t.Fatal("missing startxref")
	}
	rest := strings.TrimSuffix(s[idx+len("startxref\n"):], "\n%%EOF\n")
	off, err := strconv.Atoi(rest)
	if err != nil {
		t.Fatalf("bad startxref value %q: %v", rest, err)
	}
	if !strings.HasPrefix(s[off:], "xref\n0 6\n") {
		t.Errorf("startxref %d does not point at xref table: %q", off, s[off:off+10])
	}

	// Each entry must point at its object header.
	entries := strings.Split(s[off:], "\n")[3:8]
	for i, e := range entries {
		if len(e)+1 != 20 {
			t.Errorf("xref entry %d has %d bytes, want 20", i+1, len(e)+1)
		}
		pos, err := strconv.Atoi(e[:10])
		if err != nil {
			t.Fatalf("bad xref entry %q: %v", e, err)
		}
		want := fmt.Sprintf("%d 0 obj\n", i+1)
		if !strings.HasPrefix(s[pos:], want) {
			t.Errorf("entry %d points at %q, want %q", i+1, s[pos:pos+len(want)], want)
		}
	}
}

func TestWriterStreamLength(t *testing.T) {
	w := NewWriter()
	w.SetRoot(w.Add(NewStream(Dict{"Type": Name("Metadata")}, []byte("12345"))))
	data, err := w.Bytes()
	if err != nil {
		t.Fatalf("Bytes failed: %v", err)
	}
	if !bytes.Contains(data, []byte("<</Length 5/Type /Metadata>>\nstream\n12345\nendstream")) {
		t.Errorf("stream not serialized with length:\n%s", data)
	}
}

func TestWriterDeterministic(t *testing.T) {
	a := buildMinimal(t, "Bericht")
	b := buildMinimal(t, "Bericht")
	if !bytes.Equal(a, b) {
		t.Error("identical input produced different output")
	}
	c := buildMinimal(t, "Andere")
	if bytes.Equal(a, c) {
		t.Error("different input produced identical output")
	}
}

func TestWriterErrors(t *testing.T) {
	w := NewWriter()
	w.Add(Dict{})
	if _, err := w.Bytes(); err == nil {
		t.Error("expected error without catalog")
	}

	w = NewWriter()
	dangling := w.Reserve()
	w.SetRoot(w.Add(Dict{"Type": Name("Catalog"), "Pages": dangling}))
	if _, err := w.Bytes(); err == nil {
		t.Error("expected error for reserved object never set")
	}
}

func TestWriterSetUnreserved(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic setting an unreserved object")
		}
	}()
	NewWriter().Set(IndirectRef{Number: 3}, Null{})
}

func TestWriterReadBack(t *testing.T) {
	data := buildMinimal(t, "Über uns")

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("Failed to read generated PDF: %v", err)
	}
	if n := r.NumPage(); n != 1 {
		t.Errorf("NumPage = %d, want 1", n)
	}

	trailer := r.Trailer()
	if got := trailer.Key("Root").Key("Type").Name(); got != "Catalog" {
		t.Errorf("Root type = %q, want Catalog", got)
	}
	if got := trailer.Key("Root").Key("Lang").Text(); got != "de-DE" {
		t.Errorf("Lang = %q, want de-DE", got)
	}
	if got := trailer.Key("Info").Key("Title").Text(); got != "Über uns" {
		t.Errorf("Title = %q, want %q", got, "Über uns")
	}
	if got := trailer.Key("ID").Len(); got != 2 {
		t.Errorf("ID has %d entries, want 2", got)
	}
}
