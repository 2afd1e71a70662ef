// Package editor drives which note is on screen and whether its fields can
// be changed, and keeps the client's note cache in step with the API.
//
// An Editor never holds its lock across a network call: while a save or
// delete is pending, other notes can still be selected and viewed. Every
// request remembers the editor version it was issued from; when the
// response arrives after the user has moved on, the cache is still
// reconciled from the response but the state transition is dropped.
package editor

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"

	"github.com/mrshanahan/notes-web/internal/notelist"
	"github.com/mrshanahan/notes-web/pkg/notes"
)

type State int

const (
	Idle State = iota
	Creating
	Viewing
	Editing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Creating:
		return "creating"
	case Viewing:
		return "viewing"
	case Editing:
		return "editing"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

var (
	ErrInvalidTransition = errors.New("invalid editor transition")
	ErrReadOnly          = errors.New("note is read-only")
	ErrBusy              = errors.New("request already in flight")
	ErrNoteNotFound      = errors.New("note not found")
	ErrRequestFailed     = errors.New("request failed")
)

const (
	MsgCreated = "Note created successfully"
	MsgUpdated = "Note updated successfully"
	MsgDeleted = "Note deleted successfully"
)

// API is the subset of the notes client the editor talks to.
type API interface {
	ListNotes(ctx context.Context) ([]notes.Note, error)
	CreateNote(ctx context.Context, input notes.NoteInput) (*notes.Envelope[notes.Note], error)
	UpdateNote(ctx context.Context, id string, patch notes.NotePatch) (*notes.Envelope[notes.Note], error)
	DeleteNote(ctx context.Context, id string) (*notes.Envelope[notes.Empty], error)
}

// Notifier surfaces the outcome of user actions.
type Notifier interface {
	Success(msg string)
	Error(msg string)
}

type LogNotifier struct{}

func (LogNotifier) Success(msg string) { slog.Info("notification", "message", msg) }
func (LogNotifier) Error(msg string)   { slog.Warn("notification", "message", msg) }

type Form struct {
	Title   string
	Content string
	Tags    []string
}

func formFrom(n notes.Note) Form {
	return Form{Title: n.Title, Content: n.Content, Tags: slices.Clone(n.Tags)}
}

func (f Form) clone() Form {
	f.Tags = slices.Clone(f.Tags)
	return f
}

// View is a point-in-time copy of the editor for rendering.
type View struct {
	State    State
	Selected *notes.Note
	Form     Form
	Loading  bool
	Saving   bool
	Deleting bool
	Query    string
	Visible  []notes.Note
}

type Editor struct {
	api    API
	notify Notifier
	cache  *notelist.Cache

	mu         sync.Mutex
	state      State
	selectedID string
	form       Form
	version    uint64
	query      string
	loading    bool
	deleting   bool

	// versions whose save is still pending
	saving map[uint64]bool
}

func New(api API, notify Notifier) *Editor {
	if notify == nil {
		notify = LogNotifier{}
	}
	return &Editor{
		api:    api,
		notify: notify,
		cache:  notelist.NewCache(nil),
		form:   Form{Tags: []string{}},
		saving: map[uint64]bool{},
	}
}

func (e *Editor) Cache() *notelist.Cache {
	return e.cache
}

// Load replaces the cache with a full listing from the API.
func (e *Editor) Load(ctx context.Context) error {
	e.mu.Lock()
	if e.loading {
		e.mu.Unlock()
		return ErrBusy
	}
	e.loading = true
	e.mu.Unlock()

	list, err := e.api.ListNotes(ctx)

	e.mu.Lock()
	e.loading = false
	if err != nil {
		e.mu.Unlock()
		e.notify.Error(fmt.Sprintf("Failed to load notes: %s", err))
		return err
	}
	e.cache.Replace(list)
	if e.state == Viewing {
		if _, ok := e.cache.Get(e.selectedID); !ok {
			e.toIdle()
		}
	}
	e.mu.Unlock()
	return nil
}

// New starts a draft from any state.
func (e *Editor) New() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = Creating
	e.selectedID = ""
	e.form = Form{Tags: []string{}}
	e.version++
}

// Select shows the note with id, looked up in the unfiltered cache. Any
// draft in progress is abandoned.
func (e *Editor) Select(id string) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	n, ok := e.cache.Get(id)
	if !ok {
		return ErrNoteNotFound
	}
	e.state = Viewing
	e.selectedID = id
	e.form = formFrom(n)
	e.version++
	return nil
}

func (e *Editor) Edit() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Viewing {
		return fmt.Errorf("%w: edit from %s", ErrInvalidTransition, e.state)
	}
	n, ok := e.cache.Get(e.selectedID)
	if !ok {
		e.toIdle()
		return ErrNoteNotFound
	}
	e.state = Editing
	e.form = formFrom(n)
	e.version++
	return nil
}

func (e *Editor) Cancel() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	switch e.state {
	case Creating:
		e.toIdle()
		return nil
	case Editing:
		n, ok := e.cache.Get(e.selectedID)
		if !ok {
			e.toIdle()
			return nil
		}
		e.state = Viewing
		e.form = formFrom(n)
		e.version++
		return nil
	default:
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, e.state)
	}
}

func (e *Editor) Close() error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Viewing {
		return fmt.Errorf("%w: close from %s", ErrInvalidTransition, e.state)
	}
	e.toIdle()
	return nil
}

func (e *Editor) SetTitle(title string) error {
	return e.mutateForm(func(f *Form) { f.Title = title })
}

func (e *Editor) SetContent(content string) error {
	return e.mutateForm(func(f *Form) { f.Content = content })
}

func (e *Editor) SetTags(tags []string) error {
	return e.mutateForm(func(f *Form) { f.Tags = notes.NormalizeTags(tags) })
}

// SetTagsText accepts the comma separated form typed into the tags field.
func (e *Editor) SetTagsText(text string) error {
	return e.SetTags(notes.ParseTags(text))
}

func (e *Editor) mutateForm(fn func(*Form)) error {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.state != Creating && e.state != Editing {
		return ErrReadOnly
	}
	if e.saving[e.version] {
		return ErrBusy
	}
	fn(&e.form)
	return nil
}

// Save persists the draft. From Creating it creates a note, from Editing it
// sends only the fields that differ from the cached note. On failure the
// state and the draft are left exactly as they were.
func (e *Editor) Save(ctx context.Context) error {
	e.mu.Lock()
	if e.state != Creating && e.state != Editing {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: save from %s", ErrInvalidTransition, state)
	}
	if e.saving[e.version] {
		e.mu.Unlock()
		return ErrBusy
	}

	origin, tag, id, form := e.state, e.version, e.selectedID, e.form.clone()

	var input notes.NoteInput
	var patch notes.NotePatch
	var validationErr error
	if origin == Creating {
		input = notes.NoteInput{Title: form.Title, Content: form.Content, Tags: notes.NormalizeTags(form.Tags)}
		validationErr = input.Validate()
	} else {
		stored, ok := e.cache.Get(id)
		if !ok {
			e.mu.Unlock()
			return ErrNoteNotFound
		}
		patch = diff(stored, form)
		if patch.IsEmpty() {
			e.state = Viewing
			e.form = formFrom(stored)
			e.version++
			e.mu.Unlock()
			return nil
		}
		validationErr = patch.Validate()
	}
	if validationErr != nil {
		e.mu.Unlock()
		e.notify.Error(validationErr.Error())
		return validationErr
	}

	e.saving[tag] = true
	e.mu.Unlock()

	var env *notes.Envelope[notes.Note]
	var err error
	if origin == Creating {
		env, err = e.api.CreateNote(ctx, input)
	} else {
		env, err = e.api.UpdateNote(ctx, id, patch)
	}

	e.mu.Lock()
	delete(e.saving, tag)
	if err == nil && (!env.Success || env.Data == nil) {
		err = envelopeError(env.Error, "Failed to save note")
	}
	if err != nil {
		e.mu.Unlock()
		e.notify.Error(err.Error())
		return err
	}

	saved := *env.Data
	if origin == Creating {
		e.cache.Prepend(saved)
	} else {
		e.cache.Upsert(saved)
	}

	if e.version == tag {
		e.state = Viewing
		e.selectedID = saved.ID
		e.form = formFrom(saved)
		e.version++
	} else {
		slog.Debug("discarding stale save transition",
			"noteID", saved.ID,
			"state", e.state)
	}
	e.mu.Unlock()

	if origin == Creating {
		e.notify.Success(MsgCreated)
	} else {
		e.notify.Success(MsgUpdated)
	}
	return nil
}

// Delete removes the note being viewed.
func (e *Editor) Delete(ctx context.Context) error {
	e.mu.Lock()
	if e.state != Viewing {
		state := e.state
		e.mu.Unlock()
		return fmt.Errorf("%w: delete from %s", ErrInvalidTransition, state)
	}
	if e.deleting {
		e.mu.Unlock()
		return ErrBusy
	}
	id := e.selectedID
	e.deleting = true
	e.mu.Unlock()

	env, err := e.api.DeleteNote(ctx, id)

	e.mu.Lock()
	e.deleting = false
	if err == nil && !env.Success {
		err = envelopeError(env.Error, "Failed to delete note")
	}
	if err != nil {
		e.mu.Unlock()
		e.notify.Error(err.Error())
		return err
	}

	e.cache.Remove(id)
	// The note is gone, so whatever was showing it has nothing left to show.
	if e.selectedID == id {
		e.toIdle()
	}
	e.mu.Unlock()

	e.notify.Success(MsgDeleted)
	return nil
}

func (e *Editor) Search(query string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.query = query
}

func (e *Editor) Visible() []notes.Note {
	e.mu.Lock()
	query := e.query
	e.mu.Unlock()
	return notelist.Filter(e.cache.All(), query)
}

func (e *Editor) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

func (e *Editor) Snapshot() View {
	e.mu.Lock()
	defer e.mu.Unlock()

	v := View{
		State:    e.state,
		Form:     e.form.clone(),
		Loading:  e.loading,
		Saving:   e.saving[e.version],
		Deleting: e.deleting,
		Query:    e.query,
		Visible:  notelist.Filter(e.cache.All(), e.query),
	}
	if e.selectedID != "" {
		if n, ok := e.cache.Get(e.selectedID); ok {
			v.Selected = &n
			if e.state == Viewing {
				v.Form = formFrom(n)
			}
		}
	}
	return v
}

// toIdle must be called with e.mu held.
func (e *Editor) toIdle() {
	e.state = Idle
	e.selectedID = ""
	e.form = Form{Tags: []string{}}
	e.version++
}

func diff(stored notes.Note, form Form) notes.NotePatch {
	var patch notes.NotePatch
	if form.Title != stored.Title {
		title := form.Title
		patch.Title = &title
	}
	if form.Content != stored.Content {
		content := form.Content
		patch.Content = &content
	}
	if tags := notes.NormalizeTags(form.Tags); !slices.Equal(tags, stored.Tags) {
		patch.Tags = &tags
	}
	return patch
}

func envelopeError(msg string, fallback string) error {
	if msg == "" {
		msg = fallback
	}
	return fmt.Errorf("%w: %s", ErrRequestFailed, msg)
}
