// Package opc reads Open Packaging Conventions containers: the zip archives
// behind PPTX, DOCX and XLSX files.
//
// A [Package] gives access to parts by name, resolves relationship targets
// relative to their source part and answers content-type queries:
//
//	pkg, err := opc.Open(data)
//	rels, err := pkg.Relationships("ppt/slides/slide1.xml")
//	img := opc.ResolveTarget("ppt/slides/slide1.xml", rels[0].Target)
//	data, err := pkg.Part(img)
//
// Part names are compared case-insensitively and without a leading slash.
package opc

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"path"
	"sort"
	"strings"
)

// ErrPartNotFound is returned when a named part does not exist.
var ErrPartNotFound = errors.New("part not found")

// Package is an opened OPC container.
type Package struct {
	files        map[string]*zip.File
	names        []string
	defaults     map[string]string
	overrides    map[string]string
	relsCache    map[string]Relationships
	contentTypes bool
}

// Open opens a package held in memory.
func Open(data []byte) (*Package, error) {
	return OpenReaderAt(bytes.NewReader(data), int64(len(data)))
}

// OpenReaderAt opens a package from a random-access reader.
func OpenReaderAt(r io.ReaderAt, size int64) (*Package, error) {
	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("opening zip archive: %w", err)
	}

	p := &Package{
		files:     make(map[string]*zip.File, len(zr.File)),
		defaults:  make(map[string]string),
		overrides: make(map[string]string),
		relsCache: make(map[string]Relationships),
	}
	for _, f := range zr.File {
		if strings.HasSuffix(f.Name, "/") {
			continue
		}
		name := normalize(f.Name)
		p.files[strings.ToLower(name)] = f
		p.names = append(p.names, name)
	}
	sort.Strings(p.names)

	if err := p.parseContentTypes(); err != nil {
		return nil, err
	}
	return p, nil
}

func normalize(name string) string {
	return strings.TrimPrefix(strings.ReplaceAll(name, "\\", "/"), "/")
}

// Has reports whether the named part exists.
func (p *Package) Has(name string) bool {
	_, ok := p.files[strings.ToLower(normalize(name))]
	return ok
}

// Parts returns all part names in sorted order.
func (p *Package) Parts() []string {
	return append([]string(nil), p.names...)
}

// Part reads the content of a part.
func (p *Package) Part(name string) ([]byte, error) {
	f, ok := p.files[strings.ToLower(normalize(name))]
	if !ok {
		return nil, fmt.Errorf("%s: %w", name, ErrPartNotFound)
	}
	rc, err := f.Open()
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", name, err)
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", name, err)
	}
	return data, nil
}

// HasContentTypes reports whether the package carries a parsable
// [Content_Types].xml part.
func (p *Package) HasContentTypes() bool {
	return p.contentTypes
}

type typesXML struct {
	XMLName  xml.Name `xml:"Types"`
	Default  []struct {
		Extension   string `xml:"Extension,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Default"`
	Override []struct {
		PartName    string `xml:"PartName,attr"`
		ContentType string `xml:"ContentType,attr"`
	} `xml:"Override"`
}

func (p *Package) parseContentTypes() error {
	if !p.Has("[Content_Types].xml") {
		return nil
	}
	data, err := p.Part("[Content_Types].xml")
	if err != nil {
		return err
	}
	var types typesXML
	if err := xml.Unmarshal(data, &types); err != nil {
		return fmt.Errorf("parsing [Content_Types].xml: %w", err)
	}
	for _, d := range types.Default {
		p.defaults[strings.ToLower(d.Extension)] = d.ContentType
	}
	for _, o := range types.Override {
		p.overrides[strings.ToLower(normalize(o.PartName))] = o.ContentType
	}
	p.contentTypes = true
	return nil
}

// ContentType returns the declared content type of a part, or "" when none
// is declared.
func (p *Package) ContentType(name string) string {
	key := strings.ToLower(normalize(name))
	if ct, ok := p.overrides[key]; ok {
		return ct
	}
	ext := strings.TrimPrefix(path.Ext(key), ".")
	return p.defaults[ext]
}

// PartsWithContentType returns the parts whose declared content type
// contains the given fragment, in sorted order.
func (p *Package) PartsWithContentType(fragment string) []string {
	var out []string
	for _, name := range p.names {
		if strings.Contains(p.ContentType(name), fragment) {
			out = append(out, name)
		}
	}
	return out
}
