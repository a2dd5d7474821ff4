// cmd/pricectl/import.go
package main

import (
	"context"
	"flag"
	"fmt"
	"path/filepath"
	"sort"

	"github.com/google/subcommands"

	"github.com/pricetrack/backend/internal/database"
	"github.com/pricetrack/backend/internal/excel"
	"github.com/pricetrack/backend/internal/repository"
	"github.com/pricetrack/backend/internal/services"
)

type importCmd struct {
	dir string
}

func (*importCmd) Name() string { return "import" }
func (*importCmd) Synopsis() string {
	return "import price-list spreadsheets into the database"
}
func (*importCmd) Usage() string {
	return `pricectl import [-dir <directory>] [file.xlsx ...]

Imports the given files, or every matching spreadsheet in -dir
(<prefix>-*.xlsx, prefix from EXCEL_FILE_PREFIX). Files are processed in
name order so effective dates apply oldest first.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.dir, "dir", "", "directory to scan for spreadsheets (defaults to DATA_PATH when no files are given)")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	db, cfg, err := openDatabase()
	if err != nil {
		fmt.Println(err)
		return subcommands.ExitFailure
	}
	defer database.Close(db)

	files := f.Args()
	if len(files) == 0 {
		dir := c.dir
		if dir == "" {
			dir = cfg.Import.DataPath
		}
		pattern := filepath.Join(dir, cfg.Import.FilePrefix+"-*.xlsx")
		files, err = filepath.Glob(pattern)
		if err != nil {
			fmt.Println(err)
			return subcommands.ExitFailure
		}
		if len(files) == 0 {
			fmt.Printf("no files matching %s\n", pattern)
			return subcommands.ExitFailure
		}
	}

	// Per-product history depends on submission order, so older price lists
	// must go first. The date sits in the file name, making name order
	// date order.
	sort.Strings(files)

	ingest := services.NewIngestService(repository.NewTxManager(db))

	failed := 0
	for _, path := range files {
		fmt.Printf("importing %s\n", filepath.Base(path))

		source := excel.NewFileSource(path, cfg.Import)
		stats, err := ingest.IngestBatch(ctx, source)
		if err != nil {
			// A failed batch rolled back cleanly; the remaining files can
			// still import.
			fmt.Printf("  failed: %v\n", err)
			failed++
			continue
		}

		fmt.Printf("  products added %d, updated %d, prices added %d, rows skipped %d, errors %d\n",
			stats.ProductsAdded, stats.ProductsUpdated, stats.PricesAdded, stats.RowsSkipped, len(stats.Errors))
	}

	totals := ingest.Totals()
	fmt.Println("\nimport summary")
	fmt.Print(totals.Summary(cfg.Import.MaxErrors))
	if failed > 0 {
		fmt.Printf("failed files: %d\n", failed)
		return subcommands.ExitFailure
	}

	return subcommands.ExitSuccess
}
