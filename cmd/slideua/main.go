// Package main provides the slideua command line tool.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/tsawler/slideua"
	"github.com/tsawler/slideua/config"
	"github.com/tsawler/slideua/internal/logging"
	"github.com/tsawler/slideua/pptx"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

// errNotConformant is returned when --fail-on-errors is set and the report has
// errors. It maps to exit code 2.
var errNotConformant = errors.New("presentation is not conformant")

// app holds the global flags and what PersistentPreRunE builds from them.
type app struct {
	cfgFile  string
	logLevel string
	jsonOut  bool
	noColor  bool

	cfg *config.Config
	log zerolog.Logger
}

func newRootCmd(a *app) *cobra.Command {
	root := &cobra.Command{
		Use:   "slideua",
		Short: "Convert PowerPoint presentations into accessible tagged PDF",
		Long: `slideua converts .pptx presentations into tagged PDF aimed at PDF/UA-1
and checks them against WCAG 2.1 and BITV 2.0.

Use this tool to:
- Convert a presentation and write the accessibility report next to it
- Validate a presentation without producing a PDF
- Inspect the conversion profiles

Settings come from --config, a .env file in the working directory and
SLIDEUA_* environment variables.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup(cmd)
		},
	}

	root.PersistentFlags().StringVarP(&a.cfgFile, "config", "c", "", "config file path (default: env vars only)")
	root.PersistentFlags().StringVar(&a.logLevel, "log-level", "", "log level (overrides config)")
	root.PersistentFlags().BoolVar(&a.jsonOut, "json", false, "output in JSON format")
	root.PersistentFlags().BoolVar(&a.noColor, "no-color", false, "disable colored output")

	root.AddCommand(newConvertCmd(a))
	root.AddCommand(newValidateCmd(a))
	root.AddCommand(newProfilesCmd(a))
	root.AddCommand(newVersionCmd(a))
	return root
}

func (a *app) setup(cmd *cobra.Command) error {
	cfg, err := config.Load(a.cfgFile, ".env")
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if a.logLevel != "" {
		if _, err := logging.ParseLevel(a.logLevel); err != nil {
			return err
		}
		cfg.Log.Level = a.logLevel
	}

	format := cfg.Log.Format
	if a.jsonOut {
		format = "json"
	}
	log, err := logging.New(logging.Config{
		Level:  cfg.Log.Level,
		Format: format,
		Output: cmd.ErrOrStderr(),
	})
	if err != nil {
		return err
	}

	if a.noColor {
		color.NoColor = true
	}
	a.cfg = cfg
	a.log = log
	return nil
}

// reportLanguage is the language for user-facing messages.
func (a *app) reportLanguage() string {
	if a.cfg != nil {
		return a.cfg.Report.Language
	}
	return config.Default().Report.Language
}

// describe turns err into the line shown to the user.
func (a *app) describe(err error) string {
	var mp *pptx.MalformedPackageError
	if errors.As(err, &mp) {
		return mp.Message(a.reportLanguage())
	}
	if errors.Is(err, slideua.ErrCancelled) {
		return "cancelled"
	}
	return err.Error()
}

// run executes the command line and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{log: zerolog.Nop()}
	root := newRootCmd(a)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)

	err := root.Execute()
	switch {
	case err == nil:
		return 0
	case errors.Is(err, errNotConformant):
		return 2
	}
	newUI(stderr, false).Error("%s", a.describe(err))
	return 1
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
