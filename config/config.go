// Package config loads slideua settings from a YAML file, optional .env
// files and SLIDEUA_* environment variables, in that order of precedence
// from lowest to highest.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/text/language"
	"gopkg.in/yaml.v3"

	"github.com/tsawler/slideua/internal/logging"
	"github.com/tsawler/slideua/profile"
)

// Enhancement providers.
const (
	ProviderOpenAI = "openai"
	ProviderOCR    = "ocr"
)

// Report formats.
const (
	FormatJSON = "json"
	FormatText = "text"
	FormatHTML = "html"
	FormatXLSX = "xlsx"
)

// Config holds all configuration for slideua.
type Config struct {
	// Language is the document language assumed when a presentation
	// declares none.
	Language    string            `yaml:"language"`
	Profile     string            `yaml:"profile"`
	Log         LogConfig         `yaml:"log"`
	Enhancement EnhancementConfig `yaml:"enhancement"`
	OCR         OCRConfig         `yaml:"ocr"`
	Report      ReportConfig      `yaml:"report"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"` // json or console
}

// EnhancementConfig holds settings for the alt text and title collaborator.
type EnhancementConfig struct {
	Enabled          bool          `yaml:"enabled"`
	Provider         string        `yaml:"provider"` // openai or ocr
	BaseURL          string        `yaml:"base_url"`
	Model            string        `yaml:"model"`
	APIKey           string        `yaml:"api_key"`
	Timeout          time.Duration `yaml:"timeout"`
	MaxCallsPerSlide int           `yaml:"max_calls_per_slide"`
	Concurrency      int           `yaml:"concurrency"`
}

// OCRConfig holds Tesseract settings.
type OCRConfig struct {
	// Languages are BCP 47 tags or Tesseract names. Empty means the
	// document language.
	Languages []string `yaml:"languages"`
}

// ReportConfig holds report settings.
type ReportConfig struct {
	Language string   `yaml:"language"` // de or en
	Formats  []string `yaml:"formats"`
}

// Default returns the built-in configuration.
func Default() *Config {
	return &Config{
		Language: "de-DE",
		Profile:  profile.NameDefault,
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
		Enhancement: EnhancementConfig{
			Provider:         ProviderOpenAI,
			Timeout:          30 * time.Second,
			MaxCallsPerSlide: 3,
			Concurrency:      4,
		},
		Report: ReportConfig{
			Language: "de",
			Formats:  []string{FormatJSON},
		},
	}
}

// Load builds the configuration. path names an optional YAML file; envFiles
// name optional .env files, which are skipped when they do not exist and
// never override variables already set in the environment.
func Load(path string, envFiles ...string) (*Config, error) {
	cfg := Default()

	for _, f := range envFiles {
		if _, err := os.Stat(f); errors.Is(err, os.ErrNotExist) {
			continue
		}
		if err := godotenv.Load(f); err != nil {
			return nil, fmt.Errorf("load env file %s: %w", f, err)
		}
	}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config file: %w", err)
		}
	}

	if err := applyEnvOverrides(cfg); err != nil {
		return nil, err
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}
	return cfg, nil
}

// Validate checks the configuration for errors.
func (c *Config) Validate() error {
	if _, err := language.Parse(c.Language); err != nil {
		return fmt.Errorf("invalid language %q", c.Language)
	}
	if _, err := profile.Lookup(c.Profile); err != nil {
		return err
	}
	if _, err := logging.ParseLevel(c.Log.Level); err != nil {
		return err
	}
	if f := c.Log.Format; f != "" && f != "json" && f != "console" {
		return fmt.Errorf("invalid log format: %s", f)
	}

	e := c.Enhancement
	if e.Provider != ProviderOpenAI && e.Provider != ProviderOCR {
		return fmt.Errorf("invalid enhancement provider: %s", e.Provider)
	}
	if e.Enabled && e.Provider == ProviderOpenAI && e.BaseURL == "" {
		return fmt.Errorf("enhancement provider %s needs base_url", e.Provider)
	}
	if e.Timeout <= 0 {
		return fmt.Errorf("enhancement timeout must be positive")
	}
	if e.MaxCallsPerSlide < 1 {
		return fmt.Errorf("max_calls_per_slide must be at least 1")
	}
	if e.Concurrency < 1 {
		return fmt.Errorf("concurrency must be at least 1")
	}

	if c.Report.Language != "de" && c.Report.Language != "en" {
		return fmt.Errorf("invalid report language: %s", c.Report.Language)
	}
	for _, f := range c.Report.Formats {
		switch f {
		case FormatJSON, FormatText, FormatHTML, FormatXLSX:
		default:
			return fmt.Errorf("invalid report format: %s", f)
		}
	}
	return nil
}

// OCRLanguages returns the languages to recognize, falling back to the
// configured document language.
func (c *Config) OCRLanguages() []string {
	if len(c.OCR.Languages) > 0 {
		return c.OCR.Languages
	}
	return []string{c.Language}
}

// applyEnvOverrides applies SLIDEUA_* environment variables to cfg.
func applyEnvOverrides(cfg *Config) error {
	str := map[string]*string{
		"SLIDEUA_LANGUAGE":         &cfg.Language,
		"SLIDEUA_PROFILE":          &cfg.Profile,
		"SLIDEUA_LOG_LEVEL":        &cfg.Log.Level,
		"SLIDEUA_LOG_FORMAT":       &cfg.Log.Format,
		"SLIDEUA_ENHANCE_PROVIDER": &cfg.Enhancement.Provider,
		"SLIDEUA_LLM_BASE_URL":     &cfg.Enhancement.BaseURL,
		"SLIDEUA_LLM_MODEL":        &cfg.Enhancement.Model,
		"SLIDEUA_LLM_API_KEY":      &cfg.Enhancement.APIKey,
		"SLIDEUA_REPORT_LANGUAGE":  &cfg.Report.Language,
	}
	for key, dst := range str {
		if v := os.Getenv(key); v != "" {
			*dst = v
		}
	}

	if v := os.Getenv("SLIDEUA_ENHANCE"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("SLIDEUA_ENHANCE: %w", err)
		}
		cfg.Enhancement.Enabled = b
	}
	if v := os.Getenv("SLIDEUA_ENHANCE_TIMEOUT"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return fmt.Errorf("SLIDEUA_ENHANCE_TIMEOUT: %w", err)
		}
		cfg.Enhancement.Timeout = d
	}
	if v := os.Getenv("SLIDEUA_MAX_CALLS_PER_SLIDE"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("SLIDEUA_MAX_CALLS_PER_SLIDE: %w", err)
		}
		cfg.Enhancement.MaxCallsPerSlide = n
	}
	if v := os.Getenv("SLIDEUA_OCR_LANGUAGES"); v != "" {
		cfg.OCR.Languages = splitList(v)
	}
	if v := os.Getenv("SLIDEUA_REPORT_FORMATS"); v != "" {
		cfg.Report.Formats = splitList(v)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
