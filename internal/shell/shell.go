// Package shell is a line oriented front end for the note editor.
package shell

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/mrshanahan/notes-web/internal/editor"
	"github.com/mrshanahan/notes-web/pkg/notes"
)

const Prompt = "notes> "

const helpText = `commands:
  ls [query]        list notes, optionally searching first
  search [query]    set the search query; empty clears it
  open <id|#n>      show a note by id or by its number in the last listing
  new               start a new note
  edit              edit the note being shown
  title <text>      set the title of the draft
  content <text>    set the content of the draft ("\n" starts a new line)
  tags <a, b>       set the tags of the draft
  save              save the draft
  cancel            discard the draft
  close             stop showing the note
  rm                delete the note being shown
  show              print the current note or draft
  reload            fetch all notes again
  help              print this message
  quit              leave the shell
`

var ErrUnknownCommand = errors.New("unknown command")

// Notifier prints editor notifications to a writer.
type Notifier struct {
	Out io.Writer
}

func (n Notifier) Success(msg string) { fmt.Fprintf(n.Out, "ok: %s\n", msg) }
func (n Notifier) Error(msg string)   { fmt.Fprintf(n.Out, "error: %s\n", msg) }

type Shell struct {
	editor *editor.Editor
	out    io.Writer

	// ids of the last printed listing, for "open #n"
	listing []string
}

func New(ed *editor.Editor, out io.Writer) *Shell {
	return &Shell{editor: ed, out: out}
}

// Run loads the notes and executes lines from in until quit, EOF or ctx
// is done.
func (s *Shell) Run(ctx context.Context, in io.Reader) error {
	// A failed load has already been reported; the shell is still usable.
	_ = s.editor.Load(ctx)

	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	fmt.Fprint(s.out, Prompt)
	for scanner.Scan() {
		quit, err := s.Exec(ctx, scanner.Text())
		if err != nil {
			fmt.Fprintf(s.out, "error: %s\n", err)
		}
		if quit {
			return nil
		}
		if err := ctx.Err(); err != nil {
			return err
		}
		fmt.Fprint(s.out, Prompt)
	}
	return scanner.Err()
}

// Exec runs a single command line. Failed requests are reported through the
// editor's notifier and are not returned.
func (s *Shell) Exec(ctx context.Context, line string) (bool, error) {
	cmd, arg, _ := strings.Cut(strings.TrimSpace(line), " ")
	arg = strings.TrimSpace(arg)

	switch cmd {
	case "":
		return false, nil
	case "quit", "exit":
		return true, nil
	case "help":
		fmt.Fprint(s.out, helpText)
	case "ls":
		if arg != "" {
			s.editor.Search(arg)
		}
		s.printList()
	case "search":
		s.editor.Search(arg)
		s.printList()
	case "open":
		if arg == "" {
			return false, errors.New("usage: open <id|#n>")
		}
		id, err := s.resolve(arg)
		if err != nil {
			return false, err
		}
		if err := s.editor.Select(id); err != nil {
			return false, err
		}
		s.printView()
	case "new":
		s.editor.New()
		fmt.Fprintln(s.out, "new note: set title and content, then save")
	case "edit":
		if err := s.editor.Edit(); err != nil {
			return false, err
		}
		s.printView()
	case "title":
		return false, s.editor.SetTitle(arg)
	case "content":
		return false, s.editor.SetContent(strings.ReplaceAll(arg, `\n`, "\n"))
	case "tags":
		return false, s.editor.SetTagsText(arg)
	case "save":
		if err := s.editor.Save(ctx); err != nil {
			return false, unreported(err)
		}
		if s.editor.State() == editor.Viewing {
			s.printView()
		}
	case "cancel":
		return false, s.editor.Cancel()
	case "close":
		return false, s.editor.Close()
	case "rm":
		return false, unreported(s.editor.Delete(ctx))
	case "show":
		s.printView()
	case "reload":
		if err := s.editor.Load(ctx); err != nil {
			return false, unreported(err)
		}
		s.printList()
	default:
		return false, fmt.Errorf("%w: %s (try help)", ErrUnknownCommand, cmd)
	}
	return false, nil
}

func (s *Shell) resolve(arg string) (string, error) {
	numStr := strings.TrimPrefix(arg, "#")
	n, err := strconv.Atoi(numStr)
	if err != nil {
		return arg, nil
	}
	if n < 1 || n > len(s.listing) {
		if numStr == arg {
			// Bare numbers may still be ids.
			return arg, nil
		}
		return "", fmt.Errorf("no note #%d in the last listing", n)
	}
	return s.listing[n-1], nil
}

func (s *Shell) printList() {
	visible := s.editor.Visible()
	s.listing = s.listing[:0]
	if len(visible) == 0 {
		fmt.Fprintln(s.out, "no notes")
		return
	}
	for i, n := range visible {
		s.listing = append(s.listing, n.ID)
		fmt.Fprintf(s.out, "%3d. %-40s %s\n", i+1, n.Title, formatTags(n.Tags))
	}
}

func (s *Shell) printView() {
	v := s.editor.Snapshot()
	switch v.State {
	case editor.Idle:
		fmt.Fprintln(s.out, "no note selected")
		return
	case editor.Creating:
		fmt.Fprintln(s.out, "[new note]")
	default:
		if v.Selected == nil {
			fmt.Fprintf(s.out, "[%s]\n", v.State)
		} else {
			fmt.Fprintf(s.out, "[%s] %s\n", v.State, v.Selected.ID)
		}
	}

	fmt.Fprintf(s.out, "title:    %s\n", v.Form.Title)
	fmt.Fprintf(s.out, "tags:     %s\n", formatTags(v.Form.Tags))
	if v.Selected != nil {
		fmt.Fprintf(s.out, "created:  %s\n", formatTime(v.Selected.CreatedAt))
		fmt.Fprintf(s.out, "modified: %s\n", formatTime(v.Selected.ModifiedAt))
	}
	fmt.Fprintf(s.out, "words:    %d\n\n%s\n", notes.WordCount(v.Form.Content), v.Form.Content)
}

// unreported passes through the editor errors that the notifier never saw.
func unreported(err error) error {
	for _, target := range []error{editor.ErrInvalidTransition, editor.ErrReadOnly, editor.ErrBusy, editor.ErrNoteNotFound} {
		if errors.Is(err, target) {
			return err
		}
	}
	return nil
}

func formatTags(tags []string) string {
	if len(tags) == 0 {
		return "-"
	}
	return strings.Join(tags, ", ")
}

func formatTime(t time.Time) string {
	return t.Local().Format("2006-01-02 15:04")
}
