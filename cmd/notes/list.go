package main

import (
	"github.com/spf13/cobra"

	"github.com/mrshanahan/notes-web/internal/notelist"
)

func newListCmd(opts *rootOptions) *cobra.Command {
	var query string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List notes, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ns, err := opts.client().ListNotes(cmd.Context())
			if err != nil {
				return err
			}
			return newPrinter(cmd.OutOrStdout(), opts).notes(notelist.Filter(ns, query))
		},
	}

	cmd.Flags().StringVarP(&query, "query", "q", "", "Only show notes whose title, content or tags contain this text")
	return cmd
}
