// cmd/pricectl/main.go

// pricectl is the operations companion to the API server: schema setup,
// spreadsheet imports and consistency diagnostics.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"
	"gorm.io/gorm"

	"github.com/pricetrack/backend/internal/config"
	"github.com/pricetrack/backend/internal/database"
)

func main() {
	subcommands.Register(subcommands.HelpCommand(), "")
	subcommands.Register(subcommands.FlagsCommand(), "")
	subcommands.Register(subcommands.CommandsCommand(), "")

	subcommands.Register(&initdbCmd{}, "database")
	subcommands.Register(&diagnoseCmd{}, "database")
	subcommands.Register(&importCmd{}, "import")

	flag.Parse()
	ctx := context.Background()
	os.Exit(int(subcommands.Execute(ctx)))
}

// openDatabase is the central place subcommands get their handle from.
func openDatabase() (*gorm.DB, *config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := database.Initialize(cfg.Database)
	if err != nil {
		return nil, nil, err
	}

	return db, cfg, nil
}
