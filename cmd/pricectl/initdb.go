// cmd/pricectl/initdb.go
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/pricetrack/backend/internal/database"
)

type initdbCmd struct{}

func (*initdbCmd) Name() string { return "initdb" }
func (*initdbCmd) Synopsis() string {
	return "create or update the database schema, indexes and triggers"
}
func (*initdbCmd) Usage() string              { return "pricectl initdb\n" }
func (c *initdbCmd) SetFlags(f *flag.FlagSet) {}

func (c *initdbCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 0 {
		fmt.Println("no arguments expected")
		return subcommands.ExitUsageError
	}

	db, _, err := openDatabase()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	defer database.Close(db)

	if err := database.RunMigrations(db); err != nil {
		fmt.Println("failed to run migrations:", err)
		return subcommands.ExitFailure
	}

	fmt.Println("database schema is up to date")
	return subcommands.ExitSuccess
}
