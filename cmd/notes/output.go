package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/mrshanahan/notes-web/pkg/notes"
)

const (
	outputText = "text"
	outputJSON = "json"
	outputYAML = "yaml"
)

type printer struct {
	w      io.Writer
	format string
}

func newPrinter(w io.Writer, opts *rootOptions) printer {
	return printer{w: w, format: opts.output}
}

// print encodes v in the structured formats and falls back to text for the
// text format.
func (p printer) print(v any, text func(io.Writer)) error {
	switch p.format {
	case outputJSON:
		enc := json.NewEncoder(p.w)
		enc.SetIndent("", "  ")
		return enc.Encode(v)
	case outputYAML:
		enc := yaml.NewEncoder(p.w)
		enc.SetIndent(2)
		if err := enc.Encode(v); err != nil {
			return err
		}
		return enc.Close()
	default:
		text(p.w)
		return nil
	}
}

func (p printer) notes(ns []notes.Note) error {
	if ns == nil {
		ns = []notes.Note{}
	}
	return p.print(ns, func(w io.Writer) {
		if len(ns) == 0 {
			fmt.Fprintln(w, "no notes")
			return
		}
		for _, n := range ns {
			fmt.Fprintf(w, "%s  %-40s  %4d words  %s\n", n.ID, n.Title, notes.WordCount(n.Content), formatTags(n.Tags))
		}
	})
}

func (p printer) note(n notes.Note) error {
	return p.print(n, func(w io.Writer) {
		fmt.Fprintf(w, "id:       %s\n", n.ID)
		fmt.Fprintf(w, "title:    %s\n", n.Title)
		fmt.Fprintf(w, "tags:     %s\n", formatTags(n.Tags))
		fmt.Fprintf(w, "created:  %s\n", n.CreatedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "modified: %s\n", n.ModifiedAt.Format(time.RFC3339))
		fmt.Fprintf(w, "words:    %d\n\n%s\n", notes.WordCount(n.Content), n.Content)
	})
}

type deleteResult struct {
	ID      string `json:"id" yaml:"id"`
	Deleted bool   `json:"deleted" yaml:"deleted"`
}

func (p printer) deleted(id string) error {
	return p.print(deleteResult{ID: id, Deleted: true}, func(w io.Writer) {
		fmt.Fprintf(w, "deleted %s\n", id)
	})
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}
