package notesdb

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mrshanahan/notes-web/pkg/notes"
)

var ErrNoteNotFound = errors.New("note not found")

const (
	DriverSQLite   = "sqlite3"
	DriverPostgres = "postgres"
)

// Store persists notes keyed by their id. Implementations generate the id
// and both timestamps; callers validate input before handing it over.
type Store interface {
	ListNotes(ctx context.Context) ([]notes.Note, error)
	GetNote(ctx context.Context, id string) (*notes.Note, error)
	CreateNote(ctx context.Context, in notes.NoteInput) (*notes.Note, error)
	UpdateNote(ctx context.Context, id string, patch notes.NotePatch) (*notes.Note, error)
	DeleteNote(ctx context.Context, id string) error
	Ping(ctx context.Context) error
	Close() error
}

type Options struct {
	Driver   string
	Path     string
	Postgres PostgresOptions
}

func Open(ctx context.Context, opts Options, storeOpts ...Option) (Store, error) {
	switch opts.Driver {
	case "", DriverSQLite:
		return OpenSQLite(ctx, opts.Path, storeOpts...)
	case DriverPostgres:
		return OpenPostgres(ctx, opts.Postgres, storeOpts...)
	default:
		return nil, fmt.Errorf("unsupported database driver: %q", opts.Driver)
	}
}

type storeOptions struct {
	now   func() time.Time
	newID func() string
}

type Option func(*storeOptions)

// WithClock overrides the source of created_at/modified_at.
func WithClock(now func() time.Time) Option {
	return func(o *storeOptions) { o.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(o *storeOptions) { o.newID = newID }
}

func buildOptions(opts []Option) storeOptions {
	o := storeOptions{
		now:   func() time.Time { return time.Now() },
		newID: uuid.NewString,
	}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// Postgres keeps microseconds; truncating everywhere keeps both stores
// returning the same instant that was written.
func (o storeOptions) timestamp() time.Time {
	return o.now().UTC().Truncate(time.Microsecond)
}

func nullable[T any](p *T) any {
	if p == nil {
		return nil
	}
	return *p
}
