package main

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

func newRulesCommand(a *app) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "rules",
		Short: "Print the active rule table",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			out := cmd.OutOrStdout()
			switch format {
			case "yaml":
				enc := yaml.NewEncoder(out)
				enc.SetIndent(2)
				if err := enc.Encode(a.rules); err != nil {
					return err
				}
				return enc.Close()
			case "text":
				fmt.Fprintln(out, "# tokens")
				if err := a.rules.WriteText(out, io.Discard); err != nil {
					return err
				}
				fmt.Fprintln(out, "# mode_bind")
				return a.rules.WriteText(io.Discard, out)
			}
			return fmt.Errorf("unknown format %q", format)
		},
	}
	cmd.Flags().StringVar(&format, "format", "text", "text or yaml")

	return cmd
}
