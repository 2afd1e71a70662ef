package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/gofiber/fiber/v2"

	"github.com/mrshanahan/notes-web/internal/middleware"
	"github.com/mrshanahan/notes-web/pkg/notes"
	notesdb "github.com/mrshanahan/notes-web/pkg/notes-db"
)

type Handlers struct {
	store notesdb.Store
}

func getNoteFromContext(c *fiber.Ctx) *notes.Note {
	return c.Locals(NoteLocalName).(*notes.Note)
}

func (h *Handlers) ListNotes(c *fiber.Ctx) error {
	list, err := h.store.ListNotes(c.UserContext())
	if err != nil {
		slog.Error("failed to execute query to retrieve notes",
			"err", err)
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[[]notes.Note](err.Error()))
	}
	return c.JSON(notes.OK(list))
}

func (h *Handlers) CreateNote(c *fiber.Ctx) error {
	input := notes.NoteInput{}
	if err := decodeBody(c, &input); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Note](err.Error()))
	}
	if err := input.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Note](err.Error()))
	}

	note, err := h.store.CreateNote(c.UserContext(), input)
	if err != nil {
		slog.Error("failed to create note",
			"title", input.Title,
			"err", err)
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Note](err.Error()))
	}
	return c.Status(fiber.StatusCreated).JSON(notes.OK(*note))
}

func (h *Handlers) GetNote(c *fiber.Ctx) error {
	note := getNoteFromContext(c)
	return c.JSON(notes.OK(*note))
}

// UpdateNote applies only the fields present in the body. An empty body
// leaves the note, including modified_at, untouched.
func (h *Handlers) UpdateNote(c *fiber.Ctx) error {
	existing := getNoteFromContext(c)

	patch := notes.NotePatch{}
	if err := decodeBody(c, &patch); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Note](err.Error()))
	}
	if err := patch.Validate(); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Note](err.Error()))
	}
	if patch.IsEmpty() {
		return c.JSON(notes.OK(*existing))
	}

	updated, err := h.store.UpdateNote(c.UserContext(), existing.ID, patch)
	if err != nil && errors.Is(err, notesdb.ErrNoteNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(notes.Fail[notes.Note](middleware.NoteNotFoundMessage))
	} else if err != nil {
		slog.Error("failed to update note",
			"noteID", existing.ID,
			"err", err)
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Note](err.Error()))
	}
	return c.JSON(notes.OK(*updated))
}

func (h *Handlers) DeleteNote(c *fiber.Ctx) error {
	id := getNoteFromContext(c).ID
	err := h.store.DeleteNote(c.UserContext(), id)
	if err != nil && errors.Is(err, notesdb.ErrNoteNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(notes.Fail[notes.Empty](middleware.NoteNotFoundMessage))
	} else if err != nil {
		slog.Error("failed to remove note",
			"err", err,
			"noteID", id)
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Empty](err.Error()))
	}
	return c.JSON(notes.OK(notes.Empty{}))
}

func (h *Handlers) Health(c *fiber.Ctx) error {
	if err := h.store.Ping(c.UserContext()); err != nil {
		slog.Error("store is unreachable", "err", err)
		return c.Status(fiber.StatusBadRequest).JSON(notes.Fail[notes.Empty](err.Error()))
	}
	return c.JSON(notes.OK(notes.Empty{}))
}

func decodeBody(c *fiber.Ctx, v any) error {
	if err := json.Unmarshal(c.Body(), v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}
