package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wikigold/go-wikiparse"
)

func newIndexCommand(a *app) *cobra.Command {
	var summary bool

	cmd := &cobra.Command{
		Use:   "index <index[.bz2]>",
		Short: "Print the entries of a multistream index",
		Long: `Print the entries of a multistream index as offset:id:title, with
offsets that wrapped at 32 bits corrected. With --summary print one
"offset count" line per stream instead.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			r, err := wikiparse.OpenDump(args[0])
			if err != nil {
				return err
			}
			defer r.Close()

			out := cmd.OutOrStdout()
			ir := wikiparse.NewIndexReader(r)
			if summary {
				for s, err := range ir.Streams() {
					if err != nil {
						return fmt.Errorf("reading stream: %w", err)
					}
					fmt.Fprintf(out, "%d %d\n", s.Offset, s.Pages)
				}
				return nil
			}

			for e, err := range ir.Entries() {
				if err != nil {
					return fmt.Errorf("reading stream: %w", err)
				}
				fmt.Fprintln(out, e.String())
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&summary, "summary", false, "print stream offsets and page counts")

	return cmd
}
