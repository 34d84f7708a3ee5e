// Package validate checks a presentation model against WCAG 2.1 and BITV
// 2.0 and produces an accessibility report.
//
// Validation is a pure function of the model and the profile: it performs
// no I/O and returns the same report for the same input. The only varying
// field is the report timestamp, which comes from an injectable clock.
package validate

import (
	"time"

	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/profile"
	"github.com/tsawler/slideua/report"
	"github.com/tsawler/slideua/tables"
)

// DefaultReadingOrderThreshold is used when the profile sets none.
const DefaultReadingOrderThreshold = 0.7

// Validator runs the check battery.
type Validator struct {
	now          func() time.Time
	grids        tables.Detector
	rowTolerance float64
}

// Option configures a Validator.
type Option func(*Validator)

// WithClock sets the clock used for the report timestamp.
func WithClock(now func() time.Time) Option {
	return func(v *Validator) {
		if now != nil {
			v.now = now
		}
	}
}

// WithGridDetector replaces the pseudo-table detector.
func WithGridDetector(d tables.Detector) Option {
	return func(v *Validator) {
		if d != nil {
			v.grids = d
		}
	}
}

// WithRowTolerance sets the row band height, in points, of the default
// pseudo-table detector. It must match the parser's tolerance, or the
// parser and the validator report different grids for the same slide.
func WithRowTolerance(pt float64) Option {
	return func(v *Validator) {
		v.rowTolerance = pt
	}
}

// New creates a validator.
func New(opts ...Option) *Validator {
	v := &Validator{now: time.Now}
	for _, opt := range opts {
		opt(v)
	}
	if v.grids == nil {
		cfg := tables.DefaultConfig()
		cfg.RowTolerance = v.rowTolerance
		grids := tables.NewGridDetector()
		_ = grids.Configure(cfg) // non-positive values keep their defaults
		v.grids = grids
	}
	return v
}

// Validate is a convenience function using a validator with the wall clock.
func Validate(p *model.Presentation, prof profile.Profile) *report.AccessibilityReport {
	return New().Validate(p, prof)
}

// Validate runs every check on p and builds the report. The model is not
// modified.
func (v *Validator) Validate(p *model.Presentation, prof profile.Profile) *report.AccessibilityReport {
	r := &run{prof: prof, threshold: prof.ReadingOrderThreshold}
	if r.threshold <= 0 {
		r.threshold = DefaultReadingOrderThreshold
	}

	r.document(p)
	r.add(p.Issues...)

	order := make([]report.SlideConfidence, 0, len(p.Slides))
	for _, s := range p.Slides {
		r.slide(s)
		for _, e := range s.OrderedElements() {
			r.element(s, e)
			r.add(e.Issues...)
		}
		for _, e := range s.BackgroundElements {
			r.background(s, e)
			r.add(e.Issues...)
		}
		for _, g := range v.grids.Detect(s.Elements) {
			r.add(g.Issue(s.Number))
		}
		r.add(s.Issues...)
		order = append(order, report.SlideConfidence{
			Slide:      s.Number,
			Confidence: s.ReadingOrderConfidence,
			Fixed:      s.ReadingOrderFixed,
		})
	}

	return report.New(report.Input{
		Timestamp:     v.now(),
		DocumentTitle: p.Metadata.Title,
		Language:      p.Metadata.Language,
		Profile:       prof.Name,
		Issues:        r.issues,
		ReadingOrder:  order,
	})
}

// run collects the issues of one validation.
type run struct {
	prof      profile.Profile
	threshold float64
	issues    []model.AccessibilityIssue
}

func (r *run) add(issues ...model.AccessibilityIssue) {
	r.issues = append(r.issues, issues...)
}

// element runs the element checks.
func (r *run) element(s *model.Slide, e *model.SlideElement) {
	if e.IsDecorative {
		return
	}
	if e.Type.IsFigure() {
		r.altText(s, e)
	}
	if e.Table != nil {
		r.table(s, e)
	}
	if len(e.Content.Links) > 0 {
		r.links(s, e)
	}
	if e.Style.LightTextRisk && e.Content.HasText() {
		r.add(model.NewIssue(model.IssueContrastUnverified, model.SeverityInfo, s.Number, e, model.Message{
			De: "Helle Schrift ohne bekannte Hintergrundfarbe. Der Kontrast kann nicht geprüft werden.",
			En: "Light text on an unknown background. The contrast cannot be verified.",
		}).WithRefs("1.4.3", "").WithContext("color %s", colorOr(e.Style.Color)))
	}
}

func colorOr(c string) string {
	if c == "" {
		return "unknown"
	}
	return "#" + c
}
