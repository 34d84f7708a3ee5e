package opc

import (
	"encoding/xml"
	"errors"
	"fmt"
	"path"
	"strings"
)

// Relationship links a source part to a target part or external resource.
type Relationship struct {
	ID         string `xml:"Id,attr"`
	Type       string `xml:"Type,attr"`
	Target     string `xml:"Target,attr"`
	TargetMode string `xml:"TargetMode,attr"`
}

// External reports whether the target lies outside the package.
func (r Relationship) External() bool {
	return strings.EqualFold(r.TargetMode, "External")
}

// Relationships is the relationship list of one source part.
type Relationships []Relationship

// ByID returns the relationship with the given id.
func (rs Relationships) ByID(id string) (Relationship, bool) {
	for _, r := range rs {
		if r.ID == id {
			return r, true
		}
	}
	return Relationship{}, false
}

// ByType returns the relationships whose type ends with the given suffix,
// e.g. "/slide" or "/notesSlide".
func (rs Relationships) ByType(suffix string) Relationships {
	var out Relationships
	for _, r := range rs {
		if strings.HasSuffix(r.Type, suffix) {
			out = append(out, r)
		}
	}
	return out
}

type relationshipsXML struct {
	XMLName      xml.Name       `xml:"Relationships"`
	Relationship []Relationship `xml:"Relationship"`
}

// RelsPath returns the relationships part for a source part. The empty
// source denotes the package itself.
func RelsPath(source string) string {
	source = normalize(source)
	if source == "" {
		return "_rels/.rels"
	}
	dir, base := path.Split(source)
	return dir + "_rels/" + base + ".rels"
}

// Relationships returns the relationships of a source part. A source
// without a relationships part has none; that is not an error.
func (p *Package) Relationships(source string) (Relationships, error) {
	relsPath := RelsPath(source)
	if rs, ok := p.relsCache[strings.ToLower(relsPath)]; ok {
		return rs, nil
	}

	data, err := p.Part(relsPath)
	if errors.Is(err, ErrPartNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var doc relationshipsXML
	if err := xml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", relsPath, err)
	}
	rs := Relationships(doc.Relationship)
	p.relsCache[strings.ToLower(relsPath)] = rs
	return rs, nil
}

// ResolveTarget resolves a relationship target against its source part.
// Absolute targets start at the package root; relative targets, including
// "../" segments, are resolved from the source part's folder.
func ResolveTarget(source, target string) string {
	target = strings.ReplaceAll(target, "\\", "/")
	if strings.HasPrefix(target, "/") {
		return path.Clean(strings.TrimPrefix(target, "/"))
	}
	dir := path.Dir(normalize(source))
	if dir == "." {
		dir = ""
	}
	resolved := path.Clean(path.Join(dir, target))
	return strings.TrimPrefix(resolved, "/")
}
