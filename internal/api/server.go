package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/gofiber/fiber/v2/middleware/requestid"
	"golang.org/x/sync/errgroup"

	"github.com/mrshanahan/notes-web/internal/middleware"
	"github.com/mrshanahan/notes-web/pkg/notes"
	notesdb "github.com/mrshanahan/notes-web/pkg/notes-db"
)

const NoteLocalName = "note"

type Config struct {
	AllowOrigins string
}

// NewApp wires the notes routes over store.
func NewApp(store notesdb.Store, cfg Config) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "notes-api",
		ErrorHandler:          errorHandler,
		DisableStartupMessage: true,
	})

	allowOrigins := cfg.AllowOrigins
	if allowOrigins == "" {
		allowOrigins = "*"
	}

	app.Use(requestid.New(), middleware.RequestLogger(), recover.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins: allowOrigins,
		AllowMethods: "GET,POST,PUT,DELETE",
	}))

	h := &Handlers{store: store}
	app.Get("/healthz", h.Health)
	app.Route("/notes", func(notes fiber.Router) {
		notes.Get("/", h.ListNotes)
		notes.Post("/", h.CreateNote)
		notes.Route("/:noteID", func(note fiber.Router) {
			note.Use(middleware.LoadNoteFromRoute(NoteLocalName, "noteID", store))
			note.Get("/", h.GetNote)
			note.Put("/", h.UpdateNote)
			note.Delete("/", h.DeleteNote)
		})
	})

	return app
}

// Serve runs app on ln until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, app *fiber.App, ln net.Listener) error {
	eg, ctx := errgroup.WithContext(ctx)

	eg.Go(func() error {
		<-ctx.Done()
		return app.Shutdown()
	})

	eg.Go(func() error {
		slog.Info("listening for requests", "addr", ln.Addr().String())
		if err := app.Listener(ln); err != nil {
			return fmt.Errorf("failed to serve HTTP: %w", err)
		}
		return nil
	})

	return eg.Wait()
}

func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	var fe *fiber.Error
	if errors.As(err, &fe) {
		code = fe.Code
	}
	return c.Status(code).JSON(notes.Fail[notes.Empty](err.Error()))
}
