// Package format sniffs the container format of an upload so that a wrong
// file type can be reported with an actionable message instead of a bare
// zip or XML error.
package format

import (
	"archive/zip"
	"bytes"
	"io"
	"path/filepath"
	"strings"

	"github.com/richardlehane/mscfb"
)

// Format represents a recognised file format.
type Format int

const (
	// Unknown indicates an unrecognized format.
	Unknown Format = iota
	// PDF indicates a PDF document.
	PDF
	// PPTX indicates a PowerPoint presentation (.pptx).
	PPTX
	// PPTM indicates a macro-enabled presentation (.pptm).
	PPTM
	// PPSX indicates a PowerPoint show (.ppsx).
	PPSX
	// DOCX indicates a Microsoft Word (.docx) document.
	DOCX
	// XLSX indicates a Microsoft Excel (.xlsx) document.
	XLSX
	// ODP indicates an OpenDocument presentation (.odp).
	ODP
	// Zip indicates a zip archive that is not an office document.
	Zip
	// LegacyPPT indicates a binary PowerPoint 97-2003 file (.ppt).
	LegacyPPT
	// LegacyDOC indicates a binary Word 97-2003 file (.doc).
	LegacyDOC
	// LegacyXLS indicates a binary Excel 97-2003 file (.xls).
	LegacyXLS
	// EncryptedOOXML indicates a password-protected office document. These
	// are stored as compound files holding an EncryptedPackage stream.
	EncryptedOOXML
	// CFB indicates any other OLE compound file.
	CFB
)

var names = map[Format]string{
	PDF:            "PDF",
	PPTX:           "PPTX",
	PPTM:           "PPTM",
	PPSX:           "PPSX",
	DOCX:           "DOCX",
	XLSX:           "XLSX",
	ODP:            "ODP",
	Zip:            "ZIP",
	LegacyPPT:      "PPT",
	LegacyDOC:      "DOC",
	LegacyXLS:      "XLS",
	EncryptedOOXML: "Encrypted OOXML",
	CFB:            "OLE compound file",
}

// String returns the string representation of the format.
func (f Format) String() string {
	if n, ok := names[f]; ok {
		return n
	}
	return "Unknown"
}

// Extension returns the typical file extension for the format.
func (f Format) Extension() string {
	switch f {
	case PDF:
		return ".pdf"
	case PPTX:
		return ".pptx"
	case PPTM:
		return ".pptm"
	case PPSX:
		return ".ppsx"
	case DOCX:
		return ".docx"
	case XLSX:
		return ".xlsx"
	case ODP:
		return ".odp"
	case Zip:
		return ".zip"
	case LegacyPPT:
		return ".ppt"
	case LegacyDOC:
		return ".doc"
	case LegacyXLS:
		return ".xls"
	default:
		return ""
	}
}

// IsPresentation reports whether the format is a zip-packaged XML
// presentation the parser can read.
func (f Format) IsPresentation() bool {
	return f == PPTX || f == PPTM || f == PPSX
}

// Detect determines file format from filename extension.
func Detect(filename string) Format {
	ext := strings.ToLower(filepath.Ext(filename))
	for f := range names {
		if f.Extension() == ext && ext != "" {
			return f
		}
	}
	return Unknown
}

var (
	pdfMagic = []byte("%PDF")
	zipMagic = []byte{0x50, 0x4B, 0x03, 0x04}
	cfbMagic = []byte{0xD0, 0xCF, 0x11, 0xE0, 0xA1, 0xB1, 0x1A, 0xE1}
)

// DetectBytes inspects in-memory content.
func DetectBytes(data []byte) Format {
	f, _ := DetectFromReader(bytes.NewReader(data), int64(len(data)))
	return f
}

// DetectFromReader inspects the content to determine format. Zip archives
// are told apart by their content types, compound files by their streams.
func DetectFromReader(r io.ReaderAt, size int64) (Format, error) {
	magic := make([]byte, 8)
	n, err := r.ReadAt(magic, 0)
	if err != nil && err != io.EOF {
		return Unknown, err
	}
	magic = magic[:n]

	switch {
	case bytes.HasPrefix(magic, pdfMagic):
		return PDF, nil
	case bytes.HasPrefix(magic, zipMagic):
		return detectZIPFormat(r, size), nil
	case bytes.HasPrefix(magic, cfbMagic):
		return detectCFBFormat(r), nil
	}
	return Unknown, nil
}

// detectZIPFormat prefers the declared main content type and falls back to
// the top-level folder names.
func detectZIPFormat(r io.ReaderAt, size int64) Format {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return Unknown
	}

	for _, f := range zr.File {
		switch f.Name {
		case "mimetype":
			if strings.Contains(readSmall(f), "opendocument.presentation") {
				return ODP
			}
		case "[Content_Types].xml":
			ct := readSmall(f)
			switch {
			case strings.Contains(ct, "presentationml.slideshow.main"):
				return PPSX
			case strings.Contains(ct, "presentation.macroEnabled.main"):
				return PPTM
			case strings.Contains(ct, "presentationml.presentation.main"):
				return PPTX
			}
		}
	}

	for _, f := range zr.File {
		switch {
		case strings.HasPrefix(f.Name, "ppt/"):
			return PPTX
		case strings.HasPrefix(f.Name, "word/"):
			return DOCX
		case strings.HasPrefix(f.Name, "xl/"):
			return XLSX
		}
	}
	return Zip
}

func readSmall(f *zip.File) string {
	rc, err := f.Open()
	if err != nil {
		return ""
	}
	defer rc.Close()
	data, _ := io.ReadAll(io.LimitReader(rc, 64*1024))
	return string(data)
}

// detectCFBFormat walks the compound file directory looking for the
// well-known stream names of each legacy format.
func detectCFBFormat(r io.ReaderAt) Format {
	doc, err := mscfb.New(r)
	if err != nil {
		return CFB
	}
	for entry, err := doc.Next(); err == nil; entry, err = doc.Next() {
		switch entry.Name {
		case "PowerPoint Document":
			return LegacyPPT
		case "EncryptionInfo", "EncryptedPackage":
			return EncryptedOOXML
		case "WordDocument":
			return LegacyDOC
		case "Workbook", "Book":
			return LegacyXLS
		}
	}
	return CFB
}
