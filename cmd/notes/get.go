package main

import (
	"github.com/spf13/cobra"
)

func newGetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Show a single note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			n, err := opts.client().GetNote(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), opts).note(*n)
		},
	}
}
