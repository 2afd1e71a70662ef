package config

import (
	"fmt"
	"net"
	"os"
	"path"
	"strconv"
	"time"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/joho/godotenv"

	notesdb "github.com/mrshanahan/notes-web/pkg/notes-db"
)

var (
	NotesConfigDirectory     string = path.Join(os.Getenv("HOME"), ".notes")
	DefaultNotesDatabaseName string = "notes.sqlite"
)

type Config struct {
	Port         int            `env:"NOTES_API_PORT" env-default:"3333" env-description:"Port on which the API is hosted"`
	AllowOrigins string         `env:"NOTES_API_ALLOW_ORIGINS" env-default:"http://localhost:4444" env-description:"Comma separated CORS origins"`
	Log          LogConfig      `env-prefix:"NOTES_API_LOG_"`
	Database     DatabaseConfig `env-prefix:"NOTES_API_DB_"`
}

type LogConfig struct {
	Level  string `env:"LEVEL" env-default:"info" env-description:"debug, info, warn or error"`
	Pretty bool   `env:"PRETTY" env-default:"false" env-description:"Human readable log output"`
}

type DatabaseConfig struct {
	Driver        string        `env:"DRIVER" env-default:"sqlite3" env-description:"sqlite3 or postgres"`
	Dir           string        `env:"DIR" env-description:"Directory holding the sqlite database (default: ~/.notes)"`
	File          string        `env:"FILE" env-default:"notes.sqlite" env-description:"sqlite database file name"`
	Host          string        `env:"HOST" env-default:"localhost" env-description:"postgres host"`
	Port          string        `env:"PORT" env-default:"5432" env-description:"postgres port"`
	Name          string        `env:"NAME" env-default:"notes" env-description:"postgres database"`
	User          string        `env:"USER" env-default:"notes" env-description:"postgres user"`
	Password      string        `env:"PASSWORD" env-description:"postgres password"`
	RetryAttempts uint          `env:"RETRY_ATTEMPTS" env-default:"5" env-description:"postgres connection attempts at startup"`
	RetryDelay    time.Duration `env:"RETRY_DELAY" env-default:"2s" env-description:"delay between postgres connection attempts"`
}

// Parse reads the configuration from the environment, after loading a .env
// file from the working directory when one exists.
func Parse() (Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if err := cleanenv.ReadEnv(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse cfg: %w", err)
	}

	return cfg, nil
}

// Usage describes every supported environment variable.
func Usage() string {
	var cfg Config
	desc, err := cleanenv.GetDescription(&cfg, nil)
	if err != nil {
		return ""
	}
	return desc
}

func (c Config) Addr() string {
	return ":" + strconv.Itoa(c.Port)
}

// SQLitePath resolves the database file, creating its directory.
func (c DatabaseConfig) SQLitePath() (string, error) {
	dir := c.Dir
	if dir == "" {
		dir = NotesConfigDirectory
	}
	if err := os.MkdirAll(dir, 0777); err != nil {
		return "", fmt.Errorf("failed to create notes directory %s: %w", dir, err)
	}
	file := c.File
	if file == "" {
		file = DefaultNotesDatabaseName
	}
	return path.Join(dir, file), nil
}

func (c DatabaseConfig) StoreOptions() (notesdb.Options, error) {
	opts := notesdb.Options{Driver: c.Driver}
	switch c.Driver {
	case notesdb.DriverSQLite, "":
		p, err := c.SQLitePath()
		if err != nil {
			return notesdb.Options{}, err
		}
		opts.Path = p
	case notesdb.DriverPostgres:
		opts.Postgres = notesdb.PostgresOptions{
			Address:       net.JoinHostPort(c.Host, c.Port),
			User:          c.User,
			Password:      c.Password,
			Database:      c.Name,
			RetryAttempts: c.RetryAttempts,
			RetryDelay:    c.RetryDelay,
		}
	default:
		return notesdb.Options{}, fmt.Errorf("unsupported database driver: %q", c.Driver)
	}
	return opts, nil
}
