package enhance

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/tsawler/slideua/model"
)

// Defaults for the enhancement boundary.
const (
	DefaultMaxCallsPerSlide = 3
	DefaultTimeout          = 30 * time.Second
	DefaultConcurrency      = 4
)

// maxContextLen bounds the slide text sent along with a request.
const maxContextLen = 500

// Plan is the outcome of asking a collaborator about one presentation.
type Plan struct {
	Patches       []Patch `json:"patches"`
	AltTextFilled int     `json:"altTextFilled"`
	TitlesFilled  int     `json:"titlesFilled"`
	// Skipped counts requests dropped by the per-slide cap.
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Elapsed time.Duration `json:"elapsed"`
}

// Option configures an Enhancer.
type Option func(*Enhancer)

// WithMaxCallsPerSlide caps the collaborator calls made for one slide.
func WithMaxCallsPerSlide(n int) Option {
	return func(e *Enhancer) {
		if n > 0 {
			e.maxCalls = n
		}
	}
}

// WithTimeout bounds each collaborator call.
func WithTimeout(d time.Duration) Option {
	return func(e *Enhancer) {
		if d > 0 {
			e.timeout = d
		}
	}
}

// WithConcurrency sets how many calls may be in flight at once.
func WithConcurrency(n int) Option {
	return func(e *Enhancer) {
		if n > 0 {
			e.concurrency = n
		}
	}
}

// WithLogger sets the logger used for collaborator failures.
func WithLogger(l zerolog.Logger) Option {
	return func(e *Enhancer) {
		e.log = l
	}
}

// WithStatus sets the alt text status recorded for descriptions from this
// collaborator. The default is present.
func WithStatus(s model.AltTextStatus) Option {
	return func(e *Enhancer) {
		e.status = s
	}
}

// Enhancer drives a Collaborator over a presentation.
type Enhancer struct {
	collab      Collaborator
	maxCalls    int
	timeout     time.Duration
	concurrency int
	status      model.AltTextStatus
	log         zerolog.Logger
	now         func() time.Time
}

// New returns an Enhancer for c. A nil c yields an enhancer that plans
// nothing.
func New(c Collaborator, opts ...Option) *Enhancer {
	e := &Enhancer{
		collab:      c,
		maxCalls:    DefaultMaxCallsPerSlide,
		timeout:     DefaultTimeout,
		concurrency: DefaultConcurrency,
		status:      model.AltTextPresent,
		log:         zerolog.Nop(),
		now:         time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

type task struct {
	patch Patch
	image *ImageRequest
	slide *SlideRequest
}

// Plan asks the collaborator for missing alt text and slide titles and
// returns the resulting patches. p is not modified. An unreachable
// collaborator or failing calls are logged and yield fewer patches; the
// only error is cancellation of ctx.
func (e *Enhancer) Plan(ctx context.Context, p *model.Presentation) (Plan, error) {
	if e == nil || e.collab == nil || p == nil {
		return Plan{}, nil
	}
	start := e.now()

	if err := e.collab.Available(ctx); err != nil {
		if ctx.Err() != nil {
			return Plan{}, ctx.Err()
		}
		e.log.Warn().Err(err).Msg("enhancement collaborator unavailable, continuing without it")
		return Plan{Elapsed: e.now().Sub(start)}, nil
	}

	tasks, skipped := e.collect(p)
	results := make([]string, len(tasks))
	var mu sync.Mutex
	failed := 0

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for i := range tasks {
		t := tasks[i]
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(gctx, e.timeout)
			defer cancel()

			value, err := e.call(cctx, t)
			if err != nil {
				if ctx.Err() != nil {
					return ctx.Err()
				}
				e.log.Warn().Err(err).
					Str("kind", string(t.patch.Kind)).
					Int("slide", t.patch.SlideNumber).
					Str("element", t.patch.ElementID).
					Msg("enhancement call failed")
				mu.Lock()
				failed++
				mu.Unlock()
				return nil
			}
			results[i] = value
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return Plan{}, err
	}

	plan := Plan{Skipped: skipped, Failed: failed}
	for i, t := range tasks {
		value := strings.TrimSpace(results[i])
		if value == "" {
			continue
		}
		pt := t.patch
		pt.Value = value
		plan.Patches = append(plan.Patches, pt)
		switch pt.Kind {
		case PatchAltText:
			plan.AltTextFilled++
		case PatchSlideTitle:
			plan.TitlesFilled++
		}
	}
	plan.Elapsed = e.now().Sub(start)

	e.log.Debug().
		Int("alt_text", plan.AltTextFilled).
		Int("titles", plan.TitlesFilled).
		Int("skipped", plan.Skipped).
		Int("failed", plan.Failed).
		Dur("elapsed", plan.Elapsed).
		Msg("enhancement planned")
	return plan, nil
}

func (e *Enhancer) call(ctx context.Context, t task) (string, error) {
	if t.image != nil {
		return e.collab.DescribeImage(ctx, *t.image)
	}
	return e.collab.SuggestTitle(ctx, *t.slide)
}

// collect lists the requests for p in slide order, title first, and
// returns how many were dropped by the per-slide cap.
func (e *Enhancer) collect(p *model.Presentation) ([]task, int) {
	lang := p.Metadata.Language
	var tasks []task
	skipped := 0
	for _, s := range p.Slides {
		var slideTasks []task
		text := slideText(s)
		title := s.Title()

		if title == "" && len(text) > 0 {
			slideTasks = append(slideTasks, task{
				patch: Patch{Kind: PatchSlideTitle, SlideNumber: s.Number},
				slide: &SlideRequest{SlideNumber: s.Number, Text: text, Language: lang},
			})
		}
		for _, el := range s.OrderedElements() {
			if !needsAltText(el) {
				continue
			}
			req := &ImageRequest{
				SlideNumber: s.Number,
				ElementID:   el.ID,
				Type:        el.Type,
				Name:        el.Name,
				SlideTitle:  title,
				Context:     limit(strings.Join(append(text, el.Content.Text), "\n"), maxContextLen),
				Language:    lang,
			}
			if el.Media != nil {
				req.ContentType = el.Media.ContentType
				req.Data = el.Media.Data
			}
			if len(req.Data) == 0 && !el.Content.HasText() {
				continue
			}
			slideTasks = append(slideTasks, task{
				patch: Patch{Kind: PatchAltText, SlideNumber: s.Number, ElementID: el.ID, Status: e.status},
				image: req,
			})
		}

		if len(slideTasks) > e.maxCalls {
			skipped += len(slideTasks) - e.maxCalls
			slideTasks = slideTasks[:e.maxCalls]
		}
		tasks = append(tasks, slideTasks...)
	}
	return tasks, skipped
}

func needsAltText(el *model.SlideElement) bool {
	if !el.Type.IsFigure() || el.IsDecorative || el.Content.AltTextExplicitEmpty {
		return false
	}
	return strings.TrimSpace(el.Content.AltText) == ""
}

func slideText(s *model.Slide) []string {
	var out []string
	for _, el := range s.OrderedElements() {
		if el.Type.IsFigure() || el.IsDecorative {
			continue
		}
		if t := strings.Join(strings.Fields(el.Content.Text), " "); t != "" {
			out = append(out, t)
		}
	}
	return out
}

func limit(s string, n int) string {
	s = strings.TrimSpace(s)
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
