package main

import (
	"github.com/spf13/cobra"

	"github.com/mrshanahan/notes-web/internal/editor"
	"github.com/mrshanahan/notes-web/internal/shell"
)

func newShellCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Browse and edit notes interactively",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			ed := editor.New(opts.client(), shell.Notifier{Out: out})
			return shell.New(ed, out).Run(cmd.Context(), cmd.InOrStdin())
		},
	}
}
