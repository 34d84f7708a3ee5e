package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tsawler/slideua"
	"github.com/tsawler/slideua/config"
	"github.com/tsawler/slideua/enhance"
	"github.com/tsawler/slideua/model"
	"github.com/tsawler/slideua/ocr"
	"github.com/tsawler/slideua/profile"
	"github.com/tsawler/slideua/tagged"
)

// jobFlags are the flags shared by convert and validate.
type jobFlags struct {
	profile      string
	language     string
	enhance      bool
	noAutoFix    bool
	failOnErrors bool
}

func (f *jobFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.profile, "profile", "p", "", "profile name or YAML file (default from config)")
	cmd.Flags().StringVar(&f.language, "lang", "", "language assumed when the presentation declares none")
	cmd.Flags().BoolVar(&f.enhance, "enhance", false, "draft missing alt text and titles with the configured provider")
	cmd.Flags().BoolVar(&f.noAutoFix, "no-autofix", false, "disable automatic repairs")
	cmd.Flags().BoolVar(&f.failOnErrors, "fail-on-errors", false, "exit with code 2 when the report has errors")
}

// loadProfile resolves a preset name or a profile file.
func loadProfile(ref string) (profile.Profile, error) {
	ext := strings.ToLower(filepath.Ext(ref))
	if ext != ".yaml" && ext != ".yml" {
		return profile.Lookup(ref)
	}
	data, err := os.ReadFile(ref)
	if err != nil {
		return profile.Profile{}, fmt.Errorf("read profile: %w", err)
	}
	return profile.Parse(data)
}

// job builds the conversion job for input. The returned func releases the
// enhancement collaborator.
func (a *app) job(input string, f jobFlags) (*slideua.Job, func(), error) {
	ref := f.profile
	if ref == "" {
		ref = a.cfg.Profile
	}
	prof, err := loadProfile(ref)
	if err != nil {
		return nil, nil, err
	}

	lang := f.language
	if lang == "" {
		lang = a.cfg.Language
	}

	j := slideua.Open(input).
		Profile(prof).
		Language(lang).
		Logger(a.log).
		Generator(tagged.WithProducer("slideua " + version))
	if f.noAutoFix {
		j = j.NoAutoFix()
	}

	release := func() {}
	if f.enhance || a.cfg.Enhancement.Enabled {
		e, closeFn, err := a.enhancer()
		if err != nil {
			return nil, nil, err
		}
		j = j.Enhancer(e)
		release = closeFn
	}
	return j, release, nil
}

// enhancer builds the enhancement driver for the configured provider. A
// binary built without OCR support logs a warning and runs without one.
func (a *app) enhancer() (*enhance.Enhancer, func(), error) {
	e := a.cfg.Enhancement
	opts := []enhance.Option{
		enhance.WithTimeout(e.Timeout),
		enhance.WithMaxCallsPerSlide(e.MaxCallsPerSlide),
		enhance.WithConcurrency(e.Concurrency),
		enhance.WithLogger(a.log),
	}

	switch e.Provider {
	case config.ProviderOCR:
		client, err := ocr.New(ocr.Languages(a.cfg.OCRLanguages()...)...)
		if errors.Is(err, ocr.ErrOCRNotEnabled) {
			a.log.Warn().Err(err).Msg("enhancement disabled")
			return nil, func() {}, nil
		}
		if err != nil {
			return nil, nil, fmt.Errorf("start OCR: %w", err)
		}
		// Recognized text describes what an image says, not what it shows.
		opts = append(opts, enhance.WithStatus(model.AltTextNeedsReview))
		return enhance.New(enhance.NewOCR(client), opts...), func() { _ = client.Close() }, nil
	default:
		log := a.log
		collab := enhance.NewOpenAICompat(enhance.OpenAIConfig{
			BaseURL: e.BaseURL,
			Model:   e.Model,
			APIKey:  e.APIKey,
			Logger:  &log,
		})
		return enhance.New(collab, opts...), func() {}, nil
	}
}

// writeAtomic writes a file through a temporary file in the same
// directory, so readers never see a partial document.
func writeAtomic(path string, write func(io.Writer) error) (err error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".slideua-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tmp.Close()
			_ = os.Remove(tmp.Name())
		}
	}()

	if err = write(tmp); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err = tmp.Chmod(0o644); err != nil {
		return err
	}
	if err = tmp.Close(); err != nil {
		return err
	}
	if err = os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("rename to %s: %w", path, err)
	}
	return nil
}

func writeBytes(data []byte) func(io.Writer) error {
	return func(w io.Writer) error {
		_, err := w.Write(data)
		return err
	}
}

// withoutExt returns path with its extension removed.
func withoutExt(path string) string {
	return strings.TrimSuffix(path, filepath.Ext(path))
}
