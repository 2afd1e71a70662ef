package config

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	notesdb "github.com/mrshanahan/notes-web/pkg/notes-db"
)

func TestParseDefaults(t *testing.T) {
	cfg, err := Parse()
	require.NoError(t, err)

	assert.Equal(t, 3333, cfg.Port)
	assert.Equal(t, ":3333", cfg.Addr())
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, notesdb.DriverSQLite, cfg.Database.Driver)
	assert.Equal(t, uint(5), cfg.Database.RetryAttempts)
	assert.Equal(t, 2*time.Second, cfg.Database.RetryDelay)
}

func TestParseOverrides(t *testing.T) {
	t.Setenv("NOTES_API_PORT", "4000")
	t.Setenv("NOTES_API_LOG_PRETTY", "true")
	t.Setenv("NOTES_API_DB_DRIVER", "postgres")
	t.Setenv("NOTES_API_DB_HOST", "db")
	t.Setenv("NOTES_API_DB_PASSWORD", "secret")

	cfg, err := Parse()
	require.NoError(t, err)
	assert.Equal(t, 4000, cfg.Port)
	assert.True(t, cfg.Log.Pretty)

	opts, err := cfg.Database.StoreOptions()
	require.NoError(t, err)
	assert.Equal(t, notesdb.DriverPostgres, opts.Driver)
	assert.Equal(t, "db:5432", opts.Postgres.Address)
	assert.Equal(t, "secret", opts.Postgres.Password)
	assert.Equal(t, "notes", opts.Postgres.Database)
}

func TestParseError(t *testing.T) {
	t.Setenv("NOTES_API_PORT", "not-an-int")

	_, err := Parse()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse cfg:")
}

func TestSQLitePath(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "nested")
	opts, err := DatabaseConfig{Driver: notesdb.DriverSQLite, Dir: dir}.StoreOptions()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, DefaultNotesDatabaseName), opts.Path)
	assert.DirExists(t, dir)
}

func TestStoreOptionsUnknownDriver(t *testing.T) {
	_, err := DatabaseConfig{Driver: "mongo"}.StoreOptions()
	assert.Error(t, err)
}

func TestUsageListsVariables(t *testing.T) {
	usage := Usage()
	assert.Contains(t, usage, "NOTES_API_PORT")
	assert.Contains(t, usage, "NOTES_API_DB_DRIVER")
}
