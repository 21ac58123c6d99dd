package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/pascalpat/sitelog/internal/backend"
	"github.com/pascalpat/sitelog/internal/catalog"
	"github.com/pascalpat/sitelog/internal/cli"
	"github.com/pascalpat/sitelog/internal/db"
	"github.com/pascalpat/sitelog/internal/repository"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Determine DB path: env var or default ~/.sitelog/sitelog.db
	dbPath := os.Getenv("SITELOG_DB")
	if dbPath == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return fmt.Errorf("finding home directory: %w", err)
		}
		dbPath = filepath.Join(home, ".sitelog", "sitelog.db")
	}

	database, err := db.OpenDB(dbPath)
	if err != nil {
		return fmt.Errorf("opening database: %w", err)
	}
	defer database.Close()

	// Wire the backend client with call logging when asked for.
	cfg := backend.LoadConfig()
	var observer backend.Observer = backend.NoopObserver{}
	if cfg.LogCalls {
		observer = backend.NewLogObserver(os.Stderr)
	}
	client := backend.NewClient(cfg, observer)

	app := &cli.App{
		Contexts: repository.NewSQLiteContextRepo(database),
		Staged:   repository.NewSQLiteStagedEntryRepo(database),
		UoW:      db.NewSQLiteUnitOfWork(database),
		Cache:    catalog.NewCache(client),
		Backend:  client,

		Interactive: isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd()),
	}

	return cli.NewRootCmd(app).Execute()
}
