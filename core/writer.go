package core

import (
	"bytes"
	"crypto/md5"
	"fmt"
	"io"
	"strconv"
)

// Version is the PDF version written in the file header.
const Version = "1.7"

// Writer collects indirect objects and serializes them into a complete
// PDF file with a classic cross-reference table.
//
// Object numbers are handed out in order, so the same sequence of calls
// always produces the same bytes.
type Writer struct {
	objects []Object
	root    IndirectRef
	info    IndirectRef
	id      []byte
	version string
}

// NewWriter creates an empty writer.
func NewWriter() *Writer {
	return &Writer{version: Version}
}

// SetVersion overrides the header version, for example "1.7".
func (w *Writer) SetVersion(v string) {
	if v != "" {
		w.version = v
	}
}

// Reserve allocates an object number to be filled later with Set. Objects
// that refer to each other are built this way.
func (w *Writer) Reserve() IndirectRef {
	w.objects = append(w.objects, nil)
	return IndirectRef{Number: len(w.objects)}
}

// Add stores obj as a new indirect object.
func (w *Writer) Add(obj Object) IndirectRef {
	ref := w.Reserve()
	w.objects[ref.Number-1] = obj
	return ref
}

// Set fills a reserved object.
func (w *Writer) Set(ref IndirectRef, obj Object) {
	if ref.Number < 1 || ref.Number > len(w.objects) {
		panic(fmt.Sprintf("core: object %d was not reserved", ref.Number))
	}
	w.objects[ref.Number-1] = obj
}

// Get returns the object stored under ref, or nil.
func (w *Writer) Get(ref IndirectRef) Object {
	if ref.Number < 1 || ref.Number > len(w.objects) {
		return nil
	}
	return w.objects[ref.Number-1]
}

// Len returns the number of allocated objects.
func (w *Writer) Len() int {
	return len(w.objects)
}

// SetRoot names the document catalog.
func (w *Writer) SetRoot(ref IndirectRef) { w.root = ref }

// SetInfo names the document information dictionary.
func (w *Writer) SetInfo(ref IndirectRef) { w.info = ref }

// SetID sets the file identifier. Without one the writer derives it from
// the serialized objects.
func (w *Writer) SetID(id []byte) { w.id = append([]byte(nil), id...) }

// Bytes serializes the file.
func (w *Writer) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := w.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WriteTo serializes the file into out.
func (w *Writer) WriteTo(out io.Writer) (int64, error) {
	if w.root.IsZero() {
		return 0, fmt.Errorf("document has no catalog")
	}

	var buf bytes.Buffer
	buf.WriteString("%PDF-" + w.version + "\n")
	// A comment with high-bit bytes marks the file as binary.
	buf.WriteString("%\xE2\xE3\xCF\xD3\n")

	offsets := make([]int, len(w.objects))
	hash := md5.New()
	for i, obj := range w.objects {
		if obj == nil {
			return 0, fmt.Errorf("object %d was reserved but never set", i+1)
		}
		offsets[i] = buf.Len()
		start := buf.Len()
		writeObject(&buf, i+1, obj)
		hash.Write(buf.Bytes()[start:])
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(w.objects)+1)
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}

	id := w.id
	if len(id) == 0 {
		id = hash.Sum(nil)
	}
	trailer := Dict{
		"Size": Int(len(w.objects) + 1),
		"Root": w.root,
		"ID":   Array{HexString(id), HexString(id)},
	}
	if !w.info.IsZero() {
		trailer["Info"] = w.info
	}
	buf.WriteString("trailer\n")
	buf.WriteString(trailer.String())
	buf.WriteString("\nstartxref\n")
	buf.WriteString(strconv.Itoa(xref))
	buf.WriteString("\n%%EOF\n")

	n, err := out.Write(buf.Bytes())
	return int64(n), err
}

func writeObject(buf *bytes.Buffer, num int, obj Object) {
	fmt.Fprintf(buf, "%d 0 obj\n", num)
	if s, ok := obj.(*Stream); ok {
		dict := make(Dict, len(s.Dict)+1)
		for k, v := range s.Dict {
			dict[k] = v
		}
		dict["Length"] = Int(len(s.Data))
		buf.WriteString(dict.String())
		buf.WriteString("\nstream\n")
		buf.Write(s.Data)
		buf.WriteString("\nendstream")
	} else {
		buf.WriteString(obj.String())
	}
	buf.WriteString("\nendobj\n")
}
