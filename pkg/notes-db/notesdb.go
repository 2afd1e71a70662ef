package notesdb

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/mrshanahan/notes-web/pkg/notes"
)

// Fixed width so that created_at sorts correctly as text.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

const noteColumns = "id, title, content, tags, created_at, modified_at"

type SQLiteStore struct {
	db   *sql.DB
	opts storeOptions
}

var _ Store = (*SQLiteStore)(nil)

// OpenSQLite opens (creating if needed) the database at path and brings its
// schema up to date.
func OpenSQLite(ctx context.Context, path string, opts ...Option) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path+"?_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("error opening sqlite database: %w", err)
	}

	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("error connecting to sqlite database: %w", err)
	}

	if err := migrate(db, "sqlite3", "files/sqlite"); err != nil {
		db.Close()
		return nil, err
	}

	return &SQLiteStore{db: db, opts: buildOptions(opts)}, nil
}

func (s *SQLiteStore) ListNotes(ctx context.Context) ([]notes.Note, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT "+noteColumns+" FROM notes ORDER BY created_at DESC, rowid DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []notes.Note{}
	for rows.Next() {
		note, err := scanNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *note)
	}

	if err = rows.Err(); err != nil {
		return nil, err
	}

	return result, nil
}

func (s *SQLiteStore) GetNote(ctx context.Context, id string) (*notes.Note, error) {
	return getNote(ctx, s.db, id)
}

func (s *SQLiteStore) CreateNote(ctx context.Context, in notes.NoteInput) (*notes.Note, error) {
	tags, err := encodeTags(notes.NormalizeTags(in.Tags))
	if err != nil {
		return nil, err
	}

	id := s.opts.newID()
	now := formatTime(s.opts.timestamp())
	_, err = s.db.ExecContext(ctx,
		"INSERT INTO notes ("+noteColumns+") VALUES (?, ?, ?, ?, ?, ?)",
		id, in.Title, in.Content, tags, now, now)
	if err != nil {
		return nil, err
	}

	return getNote(ctx, s.db, id)
}

func (s *SQLiteStore) UpdateNote(ctx context.Context, id string, patch notes.NotePatch) (*notes.Note, error) {
	var tags any
	if patch.Tags != nil {
		encoded, err := encodeTags(notes.NormalizeTags(*patch.Tags))
		if err != nil {
			return nil, err
		}
		tags = encoded
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, err
	}
	defer tx.Rollback()

	result, err := tx.ExecContext(ctx, `
        UPDATE notes SET
            title = COALESCE(?, title),
            content = COALESCE(?, content),
            tags = COALESCE(?, tags),
            modified_at = ?
        WHERE id = ?`,
		nullable(patch.Title), nullable(patch.Content), tags, formatTime(s.opts.timestamp()), id)
	if err != nil {
		return nil, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		return nil, ErrNoteNotFound
	}

	note, err := getNote(ctx, tx, id)
	if err != nil {
		return nil, err
	}

	if err := tx.Commit(); err != nil {
		return nil, err
	}
	return note, nil
}

func (s *SQLiteStore) DeleteNote(ctx context.Context, id string) error {
	result, err := s.db.ExecContext(ctx, "DELETE FROM notes WHERE id = ?", id)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Private

type queryRower interface {
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

type rowScanner interface {
	Scan(dest ...any) error
}

func getNote(ctx context.Context, q queryRower, id string) (*notes.Note, error) {
	row := q.QueryRowContext(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = ?", id)

	note, err := scanNote(row)
	if err != nil && errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNoteNotFound
	} else if err != nil {
		return nil, err
	}

	return note, nil
}

func scanNote(row rowScanner) (*notes.Note, error) {
	note := &notes.Note{}
	var tags, createdAt, modifiedAt string
	err := row.Scan(&note.ID, &note.Title, &note.Content, &tags, &createdAt, &modifiedAt)
	if err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(tags), &note.Tags); err != nil {
		return nil, fmt.Errorf("error decoding tags of note %s: %w", note.ID, err)
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	note.CreatedAt, err = parseTime(createdAt)
	if err != nil {
		return nil, err
	}
	note.ModifiedAt, err = parseTime(modifiedAt)
	if err != nil {
		return nil, err
	}
	return note, nil
}

func encodeTags(tags []string) (string, error) {
	b, err := json.Marshal(tags)
	if err != nil {
		return "", fmt.Errorf("error encoding tags: %w", err)
	}
	return string(b), nil
}

func formatTime(t time.Time) string {
	return t.UTC().Format(timeLayout)
}

func parseTime(s string) (time.Time, error) {
	return time.Parse(timeLayout, s)
}
