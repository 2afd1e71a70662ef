package main

import (
	"context"
	"fmt"
	"log/slog"
	"net"
	"os"
	"os/signal"
	"syscall"

	"github.com/mrshanahan/notes-web/internal/api"
	"github.com/mrshanahan/notes-web/internal/config"
	"github.com/mrshanahan/notes-web/internal/utils"
	"github.com/mrshanahan/notes-web/pkg/logger/slogx"
	notesdb "github.com/mrshanahan/notes-web/pkg/notes-db"
)

func main() {
	exitCode := Run()
	os.Exit(exitCode)
}

func Run() int {
	if len(os.Args) > 1 && utils.Any(os.Args[1:], func(x string) bool { return x == "-h" || x == "--help" || x == "-?" }) {
		printHelp()
		return 0
	}

	cfg, err := config.Parse()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to read configuration: %s\n", err)
		return 1
	}

	if err := slogx.InitGlobal(os.Stderr, cfg.Log.Level, cfg.Log.Pretty); err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize logging: %s\n", err)
		return 1
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	storeOpts, err := cfg.Database.StoreOptions()
	if err != nil {
		slog.Error("invalid database configuration", slogx.Err(err))
		return 1
	}
	if storeOpts.Path != "" {
		if _, err := os.Stat(storeOpts.Path); os.IsNotExist(err) {
			slog.Info("DB does not exist; it will be created during initialization",
				"path", storeOpts.Path)
		}
	}

	store, err := notesdb.Open(ctx, storeOpts)
	if err != nil {
		slog.Error("failed to initialize store",
			"driver", cfg.Database.Driver,
			slogx.Err(err))
		return 1
	}
	defer store.Close()

	ln, err := net.Listen("tcp", cfg.Addr())
	if err != nil {
		slog.Error("failed to initialize HTTP server",
			"addr", cfg.Addr(),
			slogx.Err(err))
		return 1
	}

	app := api.NewApp(store, api.Config{AllowOrigins: cfg.AllowOrigins})
	if err := api.Serve(ctx, app, ln); err != nil {
		slog.Error("server stopped", slogx.Err(err))
		return 1
	}
	slog.Info("server stopped")
	return 0
}

func printHelp() {
	fmt.Fprintf(os.Stderr, `
notes-api [-h|--help|-?]

OPTIONS:
	-h|--help|-?	Display this help message and exit

ENVIRONMENT VARIABLES (also read from ./.env):
%s
`,
		config.Usage())
}
