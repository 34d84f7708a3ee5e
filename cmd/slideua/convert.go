package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/tsawler/slideua"
	"github.com/tsawler/slideua/config"
	"github.com/tsawler/slideua/report"
)

type convertFlags struct {
	jobFlags
	output   string
	jsonPath string
	html     string
	xlsx     string
	text     bool
}

// newConvertCmd creates the convert subcommand.
func newConvertCmd(a *app) *cobra.Command {
	var f convertFlags

	cmd := &cobra.Command{
		Use:   "convert INPUT.pptx",
		Short: "Convert a presentation into tagged PDF",
		Long: `Convert a presentation into tagged PDF and write its accessibility report.

Without --report, --html or --xlsx the report is written next to the
output in every format listed under report.formats in the config.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			input := args[0]
			if f.output == "" {
				f.output = withoutExt(input) + ".pdf"
			}

			job, release, err := a.job(input, f.jobFlags)
			if err != nil {
				return err
			}
			defer release()

			res, err := job.Convert(ctx)
			if err != nil {
				return err
			}
			if err := writeAtomic(f.output, writeBytes(res.PDF)); err != nil {
				return err
			}

			written, err := a.writeReports(res.Report, f)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if a.jsonOut {
				if err := printConvertJSON(out, res, f.output, written); err != nil {
					return err
				}
			} else {
				a.printConvert(out, res, f, written)
			}

			if f.failOnErrors && res.Report.Summary.Errors > 0 {
				return errNotConformant
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().StringVarP(&f.output, "output", "o", "", "output PDF path (default: input with .pdf)")
	cmd.Flags().StringVar(&f.jsonPath, "report", "", "write the JSON report to this path")
	cmd.Flags().StringVar(&f.html, "html", "", "write the HTML report to this path")
	cmd.Flags().StringVar(&f.xlsx, "xlsx", "", "write the spreadsheet report to this path")
	cmd.Flags().BoolVar(&f.text, "text", false, "print the text report")
	return cmd
}

// writeReports writes the requested report files and returns their paths.
func (a *app) writeReports(r *report.AccessibilityReport, f convertFlags) ([]string, error) {
	lang := a.reportLanguage()
	targets := map[string]string{
		config.FormatJSON: f.jsonPath,
		config.FormatHTML: f.html,
		config.FormatXLSX: f.xlsx,
	}
	if f.jsonPath == "" && f.html == "" && f.xlsx == "" {
		base := withoutExt(f.output) + ".report"
		for _, format := range a.cfg.Report.Formats {
			ext := format
			if format == config.FormatText {
				ext = "txt"
			}
			targets[format] = base + "." + ext
		}
	}

	var written []string
	for _, format := range []string{config.FormatJSON, config.FormatText, config.FormatHTML, config.FormatXLSX} {
		path := targets[format]
		if path == "" {
			continue
		}
		var write func(io.Writer) error
		switch format {
		case config.FormatJSON:
			data, err := r.JSON()
			if err != nil {
				return written, err
			}
			write = writeBytes(data)
		case config.FormatText:
			write = writeBytes([]byte(r.Text(lang)))
		case config.FormatHTML:
			write = func(w io.Writer) error { return r.HTML(w, lang) }
		case config.FormatXLSX:
			write = func(w io.Writer) error { return r.XLSX(w, lang) }
		}
		if err := writeAtomic(path, write); err != nil {
			return written, err
		}
		written = append(written, path)
	}
	return written, nil
}

func (a *app) printConvert(w io.Writer, res *slideua.Result, f convertFlags, reports []string) {
	ui := newUI(w, false)
	lang := a.reportLanguage()

	ui.Success("%s (%d pages, %d bytes)", f.output, len(res.Presentation.Slides), len(res.PDF))
	for _, path := range reports {
		ui.Info("report: %s", path)
	}
	for _, fix := range res.Fixes {
		where := string(fix.Kind)
		if fix.SlideNumber > 0 {
			where = fmt.Sprintf("%s [%s %d]", where, slideLabel(lang == "de"), fix.SlideNumber)
		}
		ui.Info("fixed %s", where)
	}
	if p := res.Enhancement; p.AltTextFilled+p.TitlesFilled+p.Failed > 0 {
		ui.Info("enhanced: %d alt texts, %d titles, %d failed", p.AltTextFilled, p.TitlesFilled, p.Failed)
	}
	ui.Verdict(res.Report, lang)
	if f.text {
		fmt.Fprintln(w)
		fmt.Fprint(w, res.Report.Text(lang))
	}
}

type convertOutput struct {
	JobID       string                      `json:"jobId"`
	Output      string                      `json:"output"`
	Bytes       int                         `json:"bytes"`
	Reports     []string                    `json:"reports,omitempty"`
	Fixes       []slideua.Fix               `json:"fixes,omitempty"`
	Score       int                         `json:"score"`
	Summary     report.Summary              `json:"summary"`
	Conformance report.Conformance          `json:"conformance"`
	Report      *report.AccessibilityReport `json:"report"`
}

func printConvertJSON(w io.Writer, res *slideua.Result, output string, reports []string) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(convertOutput{
		JobID:       res.JobID,
		Output:      output,
		Bytes:       len(res.PDF),
		Reports:     reports,
		Fixes:       res.Fixes,
		Score:       res.Report.Score,
		Summary:     res.Report.Summary,
		Conformance: res.Report.Conformance,
		Report:      res.Report,
	})
}
