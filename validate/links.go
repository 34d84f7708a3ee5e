package validate

import (
	"fmt"
	"strings"

	"github.com/tsawler/slideua/model"
)

// vagueLinkTexts are link texts that say nothing about the target.
var vagueLinkTexts = map[string]bool{
	"here": true, "click here": true, "click": true, "more": true,
	"read more": true, "learn more": true, "more info": true,
	"details": true, "link": true, "this link": true, "this": true,
	"go": true, "continue": true,

	"hier": true, "hier klicken": true, "klicken sie hier": true,
	"mehr": true, "mehr erfahren": true, "mehr infos": true,
	"weiter": true, "weiterlesen": true, "weitere informationen": true,
	"dieser link": true, "zum link": true,
}

// NonDescriptiveLinkText reports whether a link text is one of the known
// vague phrases, ignoring case, surrounding punctuation and arrows.
func NonDescriptiveLinkText(text string) bool {
	t := strings.ToLower(strings.Join(strings.Fields(text), " "))
	t = strings.Trim(t, " .,:;!?»«>→…-")
	return vagueLinkTexts[t]
}

// links checks the element's link texts. One issue lists every vague
// link of the element.
func (r *run) links(s *model.Slide, e *model.SlideElement) {
	var vague []string
	for _, l := range e.Content.Links {
		if NonDescriptiveLinkText(l.Text) {
			vague = append(vague, fmt.Sprintf("%q -> %s", strings.TrimSpace(l.Text), l.URL))
		}
	}
	if len(vague) == 0 {
		return
	}
	r.add(model.NewIssue(model.IssueNonDescriptiveLinkText, model.SeverityWarning, s.Number, e, model.Message{
		De: "Der Linktext beschreibt das Ziel nicht. Verwenden Sie einen aussagekräftigen Text statt „hier“ oder „mehr“.",
		En: "The link text does not describe its target. Use meaningful text instead of \"here\" or \"more\".",
	}).WithRefs("2.4.4", "7.18.5").WithContext("%s", strings.Join(vague, "; ")))
}
