// Package importer turns plain text files into notes.
package importer

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"unicode"

	"github.com/mrshanahan/notes-web/internal/utils"
	"github.com/mrshanahan/notes-web/pkg/notes"
)

var ErrEmptyFile = errors.New("file is empty")

// ImportNote reads srcPath into a note draft. The title is the file name
// without its extension, cut to the title limit; the content is the file
// verbatim.
func ImportNote(srcPath string) (*notes.NoteInput, error) {
	srcf, err := os.Open(srcPath)
	if err != nil {
		return nil, err
	}
	defer srcf.Close()

	content, err := io.ReadAll(srcf)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", srcPath, err)
	}
	if isWhitespace(string(content)) {
		return nil, fmt.Errorf("%s: %w", srcPath, ErrEmptyFile)
	}

	input := &notes.NoteInput{
		Title:   TitleFromPath(srcPath),
		Content: string(content),
		Tags:    []string{},
	}
	if err := input.Validate(); err != nil {
		return nil, fmt.Errorf("%s: %w", srcPath, err)
	}
	return input, nil
}

func TitleFromPath(path string) string {
	_, name := filepath.Split(path)
	if ext := filepath.Ext(name); ext != "" && ext != name {
		name = strings.TrimSuffix(name, ext)
	}
	return utils.Truncate(strings.TrimSpace(name), notes.MaxTitleLength)
}

// NB: Includes "".
func isWhitespace(s string) bool {
	for _, r := range s {
		if !unicode.IsSpace(r) {
			return false
		}
	}
	return true
}
