package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mrshanahan/notes-web/pkg/client"
	"github.com/mrshanahan/notes-web/pkg/logger/slogx"
)

const defaultURL = "http://localhost:3333"

type rootOptions struct {
	url     string
	output  string
	verbose bool
}

func (o *rootOptions) client() *client.Client {
	return client.NewClient(o.url)
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "notes",
		Short: "Manage notes stored by a notes-api server",
		Long: `notes talks to a running notes-api server. Every subcommand is a
single request except shell, which opens an interactive editor.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level := "warn"
			if opts.verbose {
				level = "debug"
			}
			if err := slogx.InitGlobal(cmd.ErrOrStderr(), level, true); err != nil {
				return err
			}
			switch opts.output {
			case outputText, outputJSON, outputYAML:
				return nil
			default:
				return fmt.Errorf("unsupported output format %q (want text, json or yaml)", opts.output)
			}
		},
	}

	url := os.Getenv("NOTES_URL")
	if url == "" {
		url = defaultURL
	}
	cmd.PersistentFlags().StringVar(&opts.url, "url", url, "Base URL of the notes API (env NOTES_URL)")
	cmd.PersistentFlags().StringVarP(&opts.output, "output", "o", outputText, "Output format: text, json or yaml")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")

	cmd.AddCommand(
		newListCmd(opts),
		newGetCmd(opts),
		newCreateCmd(opts),
		newUpdateCmd(opts),
		newDeleteCmd(opts),
		newImportCmd(opts),
		newShellCmd(opts),
	)
	return cmd
}
