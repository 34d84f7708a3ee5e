// Package profile defines conversion profiles: named, immutable bundles of
// tag mapping, auto-fix switches and export options.
//
// The three presets ship as YAML data embedded in the binary:
//
//	p, err := profile.Lookup("strict")
//	role := p.Role(model.ElementTitle) // H1
//
// Profiles are values. Every accessor returns a copy, so a caller can never
// change a preset for other jobs.
package profile

import (
	"embed"
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/tsawler/slideua/model"
)

//go:embed presets/*.yaml
var presetFS embed.FS

// Preset names.
const (
	NameDefault = "default"
	NameStrict  = "strict"
	NameFast    = "fast"
)

// AutoFix holds the automatic repair switches applied before generation.
type AutoFix struct {
	// ReadingOrder replaces the order of slides whose confidence is below
	// the profile threshold with a column-aware order.
	ReadingOrder bool `yaml:"reading_order" json:"readingOrder"`
	// TableHeaders marks the first row of header-less tables as header.
	TableHeaders bool `yaml:"table_headers" json:"tableHeaders"`
	// DocumentTitle fills a missing document title from the first slide title.
	DocumentTitle bool `yaml:"document_title" json:"documentTitle"`
	// DecorativeShapes moves textless, non-figure shapes to the background.
	DecorativeShapes bool `yaml:"decorative_shapes" json:"decorativeShapes"`
}

// Export holds output options for the tagged document.
type Export struct {
	PDFVersion string `yaml:"pdf_version" json:"pdfVersion"`
	PDFUAPart  int    `yaml:"pdfua_part" json:"pdfuaPart"`
	EmbedFonts bool   `yaml:"embed_fonts" json:"embedFonts"`
	Bookmarks  bool   `yaml:"bookmarks" json:"bookmarks"`
	Links      bool   `yaml:"links" json:"links"`
	// Linearize draws page content in logical reading order instead of
	// z-order, so content order and structure order coincide.
	Linearize         bool   `yaml:"linearize" json:"linearize"`
	MaxImageDimension int    `yaml:"max_image_dimension" json:"maxImageDimension"`
	DefaultLanguage   string `yaml:"default_language" json:"defaultLanguage"`
}

// Profile is a conversion profile.
type Profile struct {
	Name                  string                                   `yaml:"name" json:"name"`
	Description           string                                   `yaml:"description" json:"description"`
	ReadingOrderThreshold float64                                  `yaml:"reading_order_threshold" json:"readingOrderThreshold"`
	TagMapping            map[model.ElementType]model.SemanticRole `yaml:"tag_mapping" json:"tagMapping"`
	AutoFix               AutoFix                                  `yaml:"auto_fix" json:"autoFix"`
	Export                Export                                   `yaml:"export" json:"export"`
}

var presets map[string]Profile

func init() {
	presets = make(map[string]Profile)
	entries, err := presetFS.ReadDir("presets")
	if err != nil {
		panic(fmt.Sprintf("profile: reading presets: %v", err))
	}
	for _, entry := range entries {
		data, err := presetFS.ReadFile("presets/" + entry.Name())
		if err != nil {
			panic(fmt.Sprintf("profile: reading %s: %v", entry.Name(), err))
		}
		p, err := Parse(data)
		if err != nil {
			panic(fmt.Sprintf("profile: %s: %v", entry.Name(), err))
		}
		presets[p.Name] = p
	}
}

// Parse decodes a profile from YAML and validates it.
func Parse(data []byte) (Profile, error) {
	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("decoding profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// pdfVersions are the header versions a PDF/UA-1 file may declare.
var pdfVersions = map[string]bool{"1.4": true, "1.5": true, "1.6": true, "1.7": true}

// Validate checks that the profile only maps known types onto known roles
// and only asks for output the generator can produce.
func (p Profile) Validate() error {
	if p.Name == "" {
		return fmt.Errorf("profile has no name")
	}
	for t, r := range p.TagMapping {
		if !t.Valid() {
			return fmt.Errorf("profile %s: unknown element type %q", p.Name, t)
		}
		if !r.Valid() {
			return fmt.Errorf("profile %s: unknown role %q for %s", p.Name, r, t)
		}
	}
	if p.ReadingOrderThreshold < 0 || p.ReadingOrderThreshold > 1 {
		return fmt.Errorf("profile %s: reading order threshold %v out of range", p.Name, p.ReadingOrderThreshold)
	}
	if v := p.Export.PDFVersion; v != "" && !pdfVersions[v] {
		return fmt.Errorf("profile %s: unsupported PDF version %q", p.Name, v)
	}
	if part := p.Export.PDFUAPart; part != 0 && part != 1 {
		return fmt.Errorf("profile %s: unsupported PDF/UA part %d", p.Name, part)
	}
	return nil
}

// Lookup returns a copy of the named preset. Names are case-insensitive.
func Lookup(name string) (Profile, error) {
	p, ok := presets[strings.ToLower(strings.TrimSpace(name))]
	if !ok {
		return Profile{}, fmt.Errorf("unknown profile %q (available: %s)", name, strings.Join(Names(), ", "))
	}
	return p.clone(), nil
}

// Names returns the preset names in sorted order.
func Names() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Default returns the balanced preset.
func Default() Profile { return mustLookup(NameDefault) }

// Strict returns the strict preset.
func Strict() Profile { return mustLookup(NameStrict) }

// Fast returns the fast preset.
func Fast() Profile { return mustLookup(NameFast) }

func mustLookup(name string) Profile {
	p, err := Lookup(name)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Profile) clone() Profile {
	c := p
	c.TagMapping = make(map[model.ElementType]model.SemanticRole, len(p.TagMapping))
	for k, v := range p.TagMapping {
		c.TagMapping[k] = v
	}
	return c
}

// Role resolves the semantic role for an element type. Types the mapping
// does not name fall back to Artifact for page furniture and P otherwise.
func (p Profile) Role(t model.ElementType) model.SemanticRole {
	if r, ok := p.TagMapping[t]; ok && r.Valid() {
		return r
	}
	if t.IsArtifact() {
		return model.RoleArtifact
	}
	return model.RoleP
}

// Language returns the export default language, falling back to de-DE.
func (p Profile) Language() string {
	if p.Export.DefaultLanguage != "" {
		return p.Export.DefaultLanguage
	}
	return "de-DE"
}

// Marshal renders the profile as YAML for inspection.
func (p Profile) Marshal() ([]byte, error) {
	return yaml.Marshal(p)
}
