package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tsawler/slideua/profile"
)

// newProfilesCmd creates the profiles subcommand.
func newProfilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profiles [NAME]",
		Short: "List the conversion profiles or print one as YAML",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if len(args) == 1 {
				p, err := profile.Lookup(args[0])
				if err != nil {
					return err
				}
				if a.jsonOut {
					enc := json.NewEncoder(out)
					enc.SetIndent("", "  ")
					return enc.Encode(p)
				}
				data, err := p.Marshal()
				if err != nil {
					return err
				}
				_, err = out.Write(data)
				return err
			}

			var all []profile.Profile
			for _, name := range profile.Names() {
				p, err := profile.Lookup(name)
				if err != nil {
					return err
				}
				all = append(all, p)
			}
			if a.jsonOut {
				return json.NewEncoder(out).Encode(all)
			}
			for _, p := range all {
				marker := " "
				if p.Name == a.cfg.Profile {
					marker = "*"
				}
				fmt.Fprintf(out, "%s %-10s %s\n", marker, p.Name, p.Description)
			}
			return nil
		},
	}
}

// newVersionCmd creates the version subcommand.
func newVersionCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		RunE: func(cmd *cobra.Command, args []string) error {
			if a.jsonOut {
				return json.NewEncoder(cmd.OutOrStdout()).Encode(map[string]string{
					"version": version,
				})
			}
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "slideua %s\n", version)
			return err
		},
	}
}
