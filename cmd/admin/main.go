// Command admin manages catalog content and reads contact messages from the
// command line. It talks to the same store as the server.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/showcase/backend/internal/config"
	"github.com/showcase/backend/internal/logging"
	"github.com/showcase/backend/internal/repository"
	"github.com/showcase/backend/internal/storage"
)

const usageText = `Usage: admin <resource> <command> [flags]

Resources and commands:
  category add -name NAME [-description TEXT]
  category list
  category delete -id ID
  product add -category ID -description TEXT -price AMOUNT [-image FILE] [-featured]
  product list [-category ID] [-featured]
  product import -file FILE.json
  product feature -id ID [-off]
  product price -id ID -price AMOUNT
  contact list [-unread] [-limit N] [-offset N]
  contact read -id ID`

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		return 1
	}
	logging.Setup(cfg.LogLevel)

	ctx := context.Background()
	store, err := repository.Open(ctx, repository.StoreConfig{
		Driver:      cfg.DBDriver,
		DatabaseURL: cfg.DatabaseURL,
		SQLitePath:  cfg.SQLitePath,
	})
	if err != nil {
		slog.Error("failed to open store", "driver", cfg.DBDriver, "error", err)
		return 1
	}
	defer store.Close()

	a := &app{
		catalog: store.Catalog,
		admin:   store.Admin,
		images:  storage.NewLocalStorage(cfg.MediaDir, cfg.MediaURL),
		out:     os.Stdout,
	}
	if err := a.run(ctx, os.Args[1:]); err != nil {
		if errors.Is(err, errUsage) {
			fmt.Fprintln(os.Stderr, usageText)
			return 2
		}
		fmt.Fprintln(os.Stderr, "admin:", err)
		return 1
	}
	return 0
}
