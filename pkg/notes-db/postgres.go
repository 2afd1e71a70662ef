package notesdb

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"net/url"
	"time"

	"github.com/avast/retry-go/v4"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"

	"github.com/mrshanahan/notes-web/pkg/notes"
)

type PostgresOptions struct {
	Address  string
	User     string
	Password string
	Database string

	// RetryAttempts is how many times the initial ping is tried before
	// giving up. Zero means a single attempt.
	RetryAttempts uint
	RetryDelay    time.Duration
}

func (o PostgresOptions) dsn() string {
	ds := &url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(o.User, o.Password),
		Host:   o.Address,
		Path:   o.Database,
	}
	return ds.String()
}

type PostgresStore struct {
	pool *pgxpool.Pool
	opts storeOptions
}

var _ Store = (*PostgresStore)(nil)

func OpenPostgres(ctx context.Context, pgOpts PostgresOptions, opts ...Option) (*PostgresStore, error) {
	if pgOpts.Address == "" || pgOpts.Database == "" {
		return nil, errors.New("postgres address and database are required")
	}

	pool, err := pgxpool.New(ctx, pgOpts.dsn())
	if err != nil {
		return nil, fmt.Errorf("error opening pgx pool: %w", err)
	}

	attempts := pgOpts.RetryAttempts
	if attempts == 0 {
		attempts = 1
	}
	delay := pgOpts.RetryDelay
	if delay == 0 {
		delay = 300 * time.Millisecond
	}

	if err := retry.Do(
		func() error { return pool.Ping(ctx) },
		retry.Context(ctx),
		retry.Delay(delay),
		retry.Attempts(attempts),
		retry.OnRetry(func(attempt uint, err error) {
			slog.Warn("failed to ping postgres",
				"attempt", attempt+1,
				"address", pgOpts.Address,
				"err", err)
		}),
	); err != nil {
		pool.Close()
		return nil, fmt.Errorf("error connecting to postgres: %w", err)
	}

	db, err := sql.Open("pgx", pgOpts.dsn())
	if err != nil {
		pool.Close()
		return nil, fmt.Errorf("error opening postgres for migrations: %w", err)
	}
	defer db.Close()

	if err := migrate(db, "postgres", "files/postgres"); err != nil {
		pool.Close()
		return nil, err
	}

	return &PostgresStore{pool: pool, opts: buildOptions(opts)}, nil
}

func (s *PostgresStore) ListNotes(ctx context.Context) ([]notes.Note, error) {
	rows, err := s.pool.Query(ctx,
		"SELECT "+noteColumns+" FROM notes ORDER BY created_at DESC, id DESC")
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []notes.Note{}
	for rows.Next() {
		note, err := scanPgNote(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *note)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *PostgresStore) GetNote(ctx context.Context, id string) (*notes.Note, error) {
	row := s.pool.QueryRow(ctx, "SELECT "+noteColumns+" FROM notes WHERE id = $1", id)
	return pgNoteOrNotFound(scanPgNote(row))
}

func (s *PostgresStore) CreateNote(ctx context.Context, in notes.NoteInput) (*notes.Note, error) {
	now := s.opts.timestamp()
	row := s.pool.QueryRow(ctx,
		"INSERT INTO notes ("+noteColumns+") VALUES ($1, $2, $3, $4, $5, $5) RETURNING "+noteColumns,
		s.opts.newID(), in.Title, in.Content, notes.NormalizeTags(in.Tags), now)
	return scanPgNote(row)
}

func (s *PostgresStore) UpdateNote(ctx context.Context, id string, patch notes.NotePatch) (*notes.Note, error) {
	var tags any
	if patch.Tags != nil {
		tags = notes.NormalizeTags(*patch.Tags)
	}

	row := s.pool.QueryRow(ctx, `
        UPDATE notes SET
            title = COALESCE($2, title),
            content = COALESCE($3, content),
            tags = COALESCE($4, tags),
            modified_at = $5
        WHERE id = $1
        RETURNING `+noteColumns,
		id, nullable(patch.Title), nullable(patch.Content), tags, s.opts.timestamp())
	return pgNoteOrNotFound(scanPgNote(row))
}

func (s *PostgresStore) DeleteNote(ctx context.Context, id string) error {
	tag, err := s.pool.Exec(ctx, "DELETE FROM notes WHERE id = $1", id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNoteNotFound
	}
	return nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

func (s *PostgresStore) Close() error {
	s.pool.Close()
	return nil
}

func scanPgNote(row pgx.Row) (*notes.Note, error) {
	note := &notes.Note{}
	err := row.Scan(&note.ID, &note.Title, &note.Content, &note.Tags, &note.CreatedAt, &note.ModifiedAt)
	if err != nil {
		return nil, err
	}
	if note.Tags == nil {
		note.Tags = []string{}
	}
	note.CreatedAt = note.CreatedAt.UTC()
	note.ModifiedAt = note.ModifiedAt.UTC()
	return note, nil
}

func pgNoteOrNotFound(note *notes.Note, err error) (*notes.Note, error) {
	if err != nil && errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNoteNotFound
	} else if err != nil {
		return nil, err
	}
	return note, nil
}
