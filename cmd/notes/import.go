package main

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/mrshanahan/notes-web/internal/importer"
	"github.com/mrshanahan/notes-web/pkg/logger/slogx"
	"github.com/mrshanahan/notes-web/pkg/notes"
)

func newImportCmd(opts *rootOptions) *cobra.Command {
	var tags []string

	cmd := &cobra.Command{
		Use:   "import <file>...",
		Short: "Create one note per text file",
		Long: `Each file becomes a note titled after the file name without its
extension. Files that cannot be imported are reported and skipped.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			c := opts.client()
			var imported []notes.Note
			var errs []error
			for _, path := range args {
				input, err := importer.ImportNote(path)
				if err != nil {
					slog.Warn("skipping file", "path", path, slogx.Err(err))
					errs = append(errs, err)
					continue
				}
				input.Tags = notes.NormalizeTags(tags)

				env, err := c.CreateNote(cmd.Context(), *input)
				if err != nil {
					return err
				}
				n, err := unwrap(env)
				if err != nil {
					errs = append(errs, fmt.Errorf("%s: %w", path, err))
					continue
				}
				slog.Debug("imported file", "path", path, "noteID", n.ID)
				imported = append(imported, n)
			}

			if err := newPrinter(cmd.OutOrStdout(), opts).notes(imported); err != nil {
				return err
			}
			return errors.Join(errs...)
		},
	}

	cmd.Flags().StringArrayVar(&tags, "tag", nil, "Tag to attach to every imported note (repeatable)")
	return cmd
}
