package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/mrshanahan/notes-web/pkg/notes"
)

func newCreateCmd(opts *rootOptions) *cobra.Command {
	var input notes.NoteInput

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create a note",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			input.Tags = notes.NormalizeTags(input.Tags)
			if err := input.Validate(); err != nil {
				return err
			}
			env, err := opts.client().CreateNote(cmd.Context(), input)
			if err != nil {
				return err
			}
			n, err := unwrap(env)
			if err != nil {
				return fmt.Errorf("failed to create note: %w", err)
			}
			return newPrinter(cmd.OutOrStdout(), opts).note(n)
		},
	}

	cmd.Flags().StringVar(&input.Title, "title", "", "Note title")
	cmd.Flags().StringVar(&input.Content, "content", "", "Note content")
	cmd.Flags().StringArrayVar(&input.Tags, "tag", nil, "Tag to attach (repeatable)")
	cmd.MarkFlagRequired("title")
	cmd.MarkFlagRequired("content")
	return cmd
}

func unwrap[T any](env *notes.Envelope[T]) (T, error) {
	var zero T
	if !env.Success || env.Data == nil {
		if env.Error == "" {
			return zero, errors.New("request failed")
		}
		return zero, errors.New(env.Error)
	}
	return *env.Data, nil
}
