package pptx

import (
	"encoding/xml"
	"sort"
	"strings"
	"time"

	"golang.org/x/text/language"

	"github.com/tsawler/slideua/model"
)

// parseMetadata reads the core and extended document properties. Both
// parts are optional.
func (p *parser) parseMetadata() model.Metadata {
	var md model.Metadata

	corePart := p.relTarget("", "/core-properties")
	if corePart == "" {
		corePart = "docProps/core.xml"
	}
	if data, err := p.pkg.Part(corePart); err == nil {
		var core corePropertiesXML
		if xml.Unmarshal(data, &core) == nil {
			md.Title = strings.TrimSpace(core.Title)
			md.Author = strings.TrimSpace(core.Creator)
			md.Subject = strings.TrimSpace(core.Subject)
			md.Keywords = splitKeywords(core.Keywords)
			md.Created = parseTime(core.Created)
			md.Modified = parseTime(core.Modified)
			if tag, ok := canonicalLanguage(core.Language); ok {
				md.Language = tag
				md.LanguageSource = model.LanguageFromDocument
			}
		}
	}

	appPart := p.relTarget("", "/extended-properties")
	if appPart == "" {
		appPart = "docProps/app.xml"
	}
	if data, err := p.pkg.Part(appPart); err == nil {
		var app appPropertiesXML
		if xml.Unmarshal(data, &app) == nil {
			md.Application = strings.TrimSpace(app.Application)
		}
	}
	return md
}

// resolveLanguage fills a missing document language from the dominant run
// language, then from the configured default.
func (p *parser) resolveLanguage(md *model.Metadata) {
	if md.Language != "" {
		return
	}
	if tag := p.dominantLanguage(); tag != "" {
		md.Language = tag
		md.LanguageSource = model.LanguageFromContent
		return
	}
	if tag, ok := canonicalLanguage(p.opts.language()); ok {
		md.Language = tag
	} else {
		md.Language = p.opts.language()
	}
	md.LanguageSource = model.LanguageFromDefault
}

// dominantLanguage returns the run language covering the most characters.
// Ties go to the alphabetically first tag.
func (p *parser) dominantLanguage() string {
	counts := make(map[string]int)
	for raw, n := range p.langs {
		if tag, ok := canonicalLanguage(raw); ok {
			counts[tag] += n
		}
	}
	tags := make([]string, 0, len(counts))
	for tag := range counts {
		tags = append(tags, tag)
	}
	sort.Strings(tags)

	best, bestN := "", 0
	for _, tag := range tags {
		if counts[tag] > bestN {
			best, bestN = tag, counts[tag]
		}
	}
	return best
}

// canonicalLanguage normalizes a BCP 47 tag, rejecting empty and
// undetermined tags.
func canonicalLanguage(raw string) (string, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", false
	}
	tag, err := language.Parse(raw)
	if err != nil || tag == language.Und {
		return "", false
	}
	return tag.String(), true
}

func splitKeywords(s string) []string {
	var out []string
	for _, kw := range strings.FieldsFunc(s, func(r rune) bool { return r == ',' || r == ';' }) {
		if kw = strings.TrimSpace(kw); kw != "" {
			out = append(out, kw)
		}
	}
	return out
}

func parseTime(s string) time.Time {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}
	}
	for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UTC()
		}
	}
	return time.Time{}
}
