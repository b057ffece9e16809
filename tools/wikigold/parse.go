package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

func newParseCommand(a *app) *cobra.Command {
	var noTrim bool

	cmd := &cobra.Command{
		Use:   "parse [file|-]",
		Short: "Render one wikitext page as JSON lines and links",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			doc := a.parser.ParseUntrimmed(text)
			if !noTrim {
				doc.Trim()
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			return enc.Encode(doc)
		},
	}
	cmd.Flags().BoolVar(&noTrim, "no-trim", false, "keep leading and trailing empty lines")

	return cmd
}

func newTokensCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "tokens [file|-]",
		Short: "Print the tokens of one wikitext page, one JSON object per line",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readInput(cmd, args)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			for tok := range a.parser.Tokens(text) {
				if err := enc.Encode(tok); err != nil {
					return err
				}
			}
			return nil
		},
	}
}
