package main

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// newValidateCmd creates the validate subcommand.
func newValidateCmd(a *app) *cobra.Command {
	var (
		f    jobFlags
		text bool
	)

	cmd := &cobra.Command{
		Use:   "validate INPUT.pptx",
		Short: "Check a presentation without converting it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			job, release, err := a.job(args[0], f)
			if err != nil {
				return err
			}
			defer release()

			res, err := job.Validate(ctx)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			switch {
			case a.jsonOut:
				data, err := res.Report.JSON()
				if err != nil {
					return err
				}
				if _, err := fmt.Fprintln(out, string(data)); err != nil {
					return err
				}
			case text:
				fmt.Fprint(out, res.Report.Text(a.reportLanguage()))
			default:
				newUI(out, false).Verdict(res.Report, a.reportLanguage())
			}

			if f.failOnErrors && res.Report.Summary.Errors > 0 {
				return errNotConformant
			}
			return nil
		},
	}

	f.register(cmd)
	cmd.Flags().BoolVar(&text, "text", false, "print the full text report")
	return cmd
}
