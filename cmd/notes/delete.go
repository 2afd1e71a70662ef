package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newDeleteCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a note",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			env, err := opts.client().DeleteNote(cmd.Context(), id)
			if err != nil {
				return err
			}
			if _, err := unwrap(env); err != nil {
				return fmt.Errorf("failed to delete note %s: %w", id, err)
			}
			return newPrinter(cmd.OutOrStdout(), opts).deleted(id)
		},
	}
}
