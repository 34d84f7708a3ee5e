package slideua

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/tsawler/slideua/enhance"
	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/pptx"
	"github.com/tsawler/slideua/profile"
	"github.com/tsawler/slideua/report"
	"github.com/tsawler/slideua/tagged"
	"github.com/tsawler/slideua/validate"
)

// Job is one conversion request, configured fluently. Each configuration
// method returns a new Job, so a partly configured Job can be reused as a
// template and shared between goroutines.
type Job struct {
	// Source
	filename string
	data     []byte
	reader   io.Reader

	// Configuration
	profile  profile.Profile
	language string
	enhancer *enhance.Enhancer
	autoFix  bool
	rowTol   float64
	genOpts  []tagged.Option
	log      zerolog.Logger
	now      func() time.Time

	// Accumulated error (fail-fast)
	err error
}

// Result is everything a job produced.
type Result struct {
	JobID        string                      `json:"jobId"`
	Presentation *model.Presentation         `json:"presentation"`
	Report       *report.AccessibilityReport `json:"report"`
	Enhancement  enhance.Plan                `json:"enhancement"`
	Fixes        []Fix                       `json:"fixes,omitempty"`
	// PDF and StructTree are nil for validation-only jobs.
	PDF        []byte             `json:"-"`
	StructTree *tagged.StructTree `json:"-"`
	Elapsed    time.Duration      `json:"elapsed"`
}

func (j *Job) clone() *Job {
	c := *j
	c.genOpts = append([]tagged.Option(nil), j.genOpts...)
	return &c
}

// Profile sets the conversion profile. The default profile is used
// otherwise.
func (j *Job) Profile(p profile.Profile) *Job {
	c := j.clone()
	c.profile = p
	return c
}

// ProfileName selects a preset profile by name. An unknown name fails the
// job when it runs.
func (j *Job) ProfileName(name string) *Job {
	c := j.clone()
	p, err := profile.Lookup(name)
	if err != nil {
		c.err = err
		return c
	}
	c.profile = p
	return c
}

// Language sets the language assumed when the presentation declares none.
// The profile's default language is used otherwise.
func (j *Job) Language(tag string) *Job {
	c := j.clone()
	c.language = tag
	return c
}

// RowTolerance sets the row band height, in points, used for reading order
// and pseudo-table detection while parsing and validating.
func (j *Job) RowTolerance(pt float64) *Job {
	c := j.clone()
	c.rowTol = pt
	return c
}

// Enhancer sets the collaborator driver used to fill missing alt text and
// slide titles. Nil disables enhancement.
func (j *Job) Enhancer(e *enhance.Enhancer) *Job {
	c := j.clone()
	c.enhancer = e
	return c
}

// NoAutoFix turns off the profile's automatic repairs.
func (j *Job) NoAutoFix() *Job {
	c := j.clone()
	c.autoFix = false
	return c
}

// Generator adds options for the tagged document generator.
func (j *Job) Generator(opts ...tagged.Option) *Job {
	c := j.clone()
	c.genOpts = append(c.genOpts, opts...)
	return c
}

// Logger sets the logger for stage progress. Logging is off by default.
func (j *Job) Logger(l zerolog.Logger) *Job {
	c := j.clone()
	c.log = l
	return c
}

// Clock sets the time source used for report timestamps.
func (j *Job) Clock(now func() time.Time) *Job {
	c := j.clone()
	if now != nil {
		c.now = now
	}
	return c
}

// Convert parses, optionally enhances and validates the presentation and
// renders the tagged PDF.
func (j *Job) Convert(ctx context.Context) (*Result, error) {
	return j.run(ctx, true)
}

// Validate parses, optionally enhances and validates the presentation
// without rendering.
func (j *Job) Validate(ctx context.Context) (*Result, error) {
	return j.run(ctx, false)
}

func (j *Job) run(ctx context.Context, generate bool) (*Result, error) {
	if j.err != nil {
		return nil, j.err
	}
	start := j.now()
	res := &Result{JobID: uuid.NewString()}
	log := j.log.With().Str("job", res.JobID).Logger()

	data, err := j.input()
	if err != nil {
		return nil, err
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	stage := j.now()
	opts := []pptx.Option{pptx.WithProfile(j.profile), pptx.WithRowTolerance(j.rowTol)}
	if j.language != "" {
		opts = append(opts, pptx.WithDefaultLanguage(j.language))
	}
	pres, err := pptx.Parse(data, opts...)
	if err != nil {
		log.Debug().Err(err).Msg("parse failed")
		return nil, err
	}
	log.Debug().Int("slides", len(pres.Slides)).Dur("took", j.now().Sub(stage)).Msg("parsed")

	if j.enhancer != nil {
		if err := cancelled(ctx); err != nil {
			return nil, err
		}
		plan, err := j.enhancer.Plan(ctx, pres)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrCancelled, err)
		}
		if len(plan.Patches) > 0 {
			pres = enhance.Apply(pres, plan.Patches)
		}
		res.Enhancement = plan
		log.Debug().Int("patches", len(plan.Patches)).Dur("took", plan.Elapsed).Msg("enhanced")
	}
	if err := cancelled(ctx); err != nil {
		return nil, err
	}

	stage = j.now()
	res.Presentation = pres
	res.Report = validate.New(validate.WithClock(j.now), validate.WithRowTolerance(j.rowTol)).Validate(pres, j.profile)
	log.Debug().Int("issues", len(res.Report.Issues)).Dur("took", j.now().Sub(stage)).Msg("validated")

	if generate {
		out := pres
		if j.autoFix {
			out, res.Fixes = AutoFix(pres, j.profile)
		}
		if err := cancelled(ctx); err != nil {
			return nil, err
		}

		stage = j.now()
		pdf, tree, err := tagged.New(j.genOpts...).Generate(out, j.profile)
		if err != nil {
			return nil, err
		}
		// Output of a job cancelled while rendering is discarded.
		if err := cancelled(ctx); err != nil {
			return nil, err
		}
		res.Presentation = out
		res.PDF = pdf
		res.StructTree = tree
		log.Debug().Int("bytes", len(pdf)).Int("fixes", len(res.Fixes)).Dur("took", j.now().Sub(stage)).Msg("generated")
	}

	res.Elapsed = j.now().Sub(start)
	log.Info().
		Str("profile", j.profile.Name).
		Int("score", res.Report.Score).
		Str("wcag", string(res.Report.Conformance.WCAG)).
		Dur("elapsed", res.Elapsed).
		Msg("job finished")
	return res, nil
}

func (j *Job) input() ([]byte, error) {
	switch {
	case j.data != nil:
		return j.data, nil
	case j.reader != nil:
		data, err := io.ReadAll(j.reader)
		if err != nil {
			return nil, fmt.Errorf("reading presentation: %w", err)
		}
		return data, nil
	case j.filename != "":
		data, err := os.ReadFile(j.filename)
		if err != nil {
			return nil, fmt.Errorf("reading presentation: %w", err)
		}
		return data, nil
	}
	return nil, ErrNoInput
}

func cancelled(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("%w: %w", ErrCancelled, err)
	}
	return nil
}
