package slogx

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// InitGlobal installs the process-wide slog logger. Pretty output uses tint,
// otherwise records are written as JSON.
func InitGlobal(
	w io.Writer,
	logLevel string,
	pretty bool,
	extraHandlers ...func(slog.Handler) slog.Handler,
) error {
	level, err := ParseLevel(logLevel)
	if err != nil {
		return fmt.Errorf("init global logger: %w", err)
	}

	handler := NewHandler(w, level, pretty)
	for _, eh := range extraHandlers {
		handler = eh(handler)
	}

	slog.SetDefault(slog.New(handler))
	return nil
}

func NewHandler(w io.Writer, level slog.Level, pretty bool) slog.Handler {
	if pretty {
		return tint.NewHandler(w, &tint.Options{
			Level:      level,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{
		Level: level,
	})
}

func ParseLevel(s string) (slog.Level, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(strings.TrimSpace(s))); err != nil {
		return 0, fmt.Errorf("unknown log level %q", s)
	}
	return level, nil
}

func Err(err error) slog.Attr {
	return tint.Err(err)
}
