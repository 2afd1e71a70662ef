package middleware

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/mrshanahan/notes-web/pkg/notes"
	notesdb "github.com/mrshanahan/notes-web/pkg/notes-db"
)

const NoteNotFoundMessage = "Note not found"

// LoadNoteFromRoute looks up the note named by the route parameter and
// stores it in the request locals under localName.
func LoadNoteFromRoute(localName string, param string, store notesdb.Store) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params(param)
		found, err := store.GetNote(c.UserContext(), id)
		if err != nil && errors.Is(err, notesdb.ErrNoteNotFound) {
			return c.Status(fiber.StatusNotFound).JSON(notes.Fail[notes.Note](NoteNotFoundMessage))
		} else if err != nil {
			slog.Error("failed to execute query to retrieve note",
				"id", id,
				"err", err)
			return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Note](err.Error()))
		}
		c.Locals(localName, found)
		return c.Next()
	}
}

// RequestLogger writes one structured line per request once the handler
// chain has finished.
func RequestLogger() fiber.Handler {
	return func(c *fiber.Ctx) error {
		start := time.Now()
		chainErr := c.Next()

		status := c.Response().StatusCode()
		if chainErr != nil {
			var fe *fiber.Error
			if errors.As(chainErr, &fe) {
				status = fe.Code
			} else {
				status = fiber.StatusInternalServerError
			}
		}

		attrs := []any{
			"method", c.Method(),
			"path", c.Path(),
			"status", status,
			"duration", time.Since(start),
		}
		if rid, ok := c.Locals("requestid").(string); ok {
			attrs = append(attrs, "request_id", rid)
		}

		switch {
		case status >= fiber.StatusInternalServerError:
			slog.Error("handled request", append(attrs, "err", chainErr)...)
		case status >= fiber.StatusBadRequest:
			slog.Warn("handled request", attrs...)
		default:
			slog.Info("handled request", attrs...)
		}
		return chainErr
	}
}
