package pptx

import (
	"github.com/tsawler/slideua/layout"
	"github.com/tsawler/slideua/profile"
)

// Option configures Parse.
type Option func(*options)

type options struct {
	profile         profile.Profile
	defaultLanguage string
	rowTolerance    float64
}

func defaultOptions() options {
	return options{
		profile:      profile.Default(),
		rowTolerance: layout.DefaultRowTolerance,
	}
}

// WithProfile sets the conversion profile used to map element types to
// semantic roles. The default profile is used otherwise.
func WithProfile(p profile.Profile) Option {
	return func(o *options) {
		o.profile = p
	}
}

// WithDefaultLanguage sets the language used when neither the document
// properties nor the text runs declare one. The profile's default language
// is used otherwise.
func WithDefaultLanguage(tag string) Option {
	return func(o *options) {
		o.defaultLanguage = tag
	}
}

// WithRowTolerance sets the row band height, in points, used for reading
// order and pseudo-table detection.
func WithRowTolerance(pt float64) Option {
	return func(o *options) {
		if pt > 0 {
			o.rowTolerance = pt
		}
	}
}

func (o options) language() string {
	if o.defaultLanguage != "" {
		return o.defaultLanguage
	}
	return o.profile.Language()
}
