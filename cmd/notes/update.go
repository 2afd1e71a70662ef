package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrshanahan/notes-web/pkg/notes"
)

func newUpdateCmd(opts *rootOptions) *cobra.Command {
	var (
		title     string
		content   string
		tags      []string
		clearTags bool
	)

	cmd := &cobra.Command{
		Use:   "update <id>",
		Short: "Change some fields of a note",
		Long:  "Only the fields given as flags are sent; everything else is left as stored.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			flags := cmd.Flags()
			if clearTags && flags.Changed("tag") {
				return errors.New("--tag and --clear-tags cannot be combined")
			}

			var patch notes.NotePatch
			if flags.Changed("title") {
				patch.Title = &title
			}
			if flags.Changed("content") {
				patch.Content = &content
			}
			if flags.Changed("tag") {
				normalized := notes.NormalizeTags(tags)
				patch.Tags = &normalized
			}
			if clearTags {
				empty := []string{}
				patch.Tags = &empty
			}
			if patch.IsEmpty() {
				return errors.New("nothing to update: pass --title, --content, --tag or --clear-tags")
			}
			if err := patch.Validate(); err != nil {
				return err
			}

			env, err := opts.client().UpdateNote(cmd.Context(), args[0], patch)
			if err != nil {
				return err
			}
			n, err := unwrap(env)
			if err != nil {
				return fmt.Errorf("failed to update note: %w", err)
			}
			return newPrinter(cmd.OutOrStdout(), opts).note(n)
		},
	}

	cmd.Flags().StringVar(&title, "title", "", "New title")
	cmd.Flags().StringVar(&content, "content", "", "New content")
	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Replace the tags (repeatable)")
	cmd.Flags().BoolVar(&clearTags, "clear-tags", false, "Remove all tags")
	return cmd
}
