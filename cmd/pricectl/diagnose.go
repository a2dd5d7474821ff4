// cmd/pricectl/diagnose.go
package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"github.com/pricetrack/backend/internal/database"
	"github.com/pricetrack/backend/internal/models"
)

type diagnoseCmd struct{}

func (*diagnoseCmd) Name() string { return "diagnose" }
func (*diagnoseCmd) Synopsis() string {
	return "check schema presence, row counts and ledger consistency"
}
func (*diagnoseCmd) Usage() string              { return "pricectl diagnose\n" }
func (c *diagnoseCmd) SetFlags(f *flag.FlagSet) {}

func (c *diagnoseCmd) Execute(_ context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
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

	ok := true

	for _, model := range []interface{}{
		&models.Product{},
		&models.PriceObservation{},
		&models.ImportRun{},
	} {
		if !db.Migrator().HasTable(model) {
			fmt.Printf("MISSING table for %T, run `pricectl initdb`\n", model)
			ok = false
		}
	}
	if !ok {
		return subcommands.ExitFailure
	}

	var productCount, priceCount, runCount int64
	db.Model(&models.Product{}).Count(&productCount)
	db.Model(&models.PriceObservation{}).Count(&priceCount)
	db.Model(&models.ImportRun{}).Count(&runCount)
	fmt.Printf("products: %d\n", productCount)
	fmt.Printf("price observations: %d\n", priceCount)
	fmt.Printf("import runs: %d\n", runCount)

	// Every product must have at most one current observation.
	type violation struct {
		ProductID uint
		Count     int64
	}
	var violations []violation
	err = db.Model(&models.PriceObservation{}).
		Select("product_id, COUNT(*) as count").
		Where("is_current = ?", true).
		Group("product_id").
		Having("COUNT(*) > 1").
		Scan(&violations).Error
	if err != nil {
		fmt.Println("consistency check failed:", err)
		return subcommands.ExitFailure
	}

	if len(violations) > 0 {
		fmt.Printf("INCONSISTENT: %d products with more than one current price:\n", len(violations))
		for _, v := range violations {
			fmt.Printf("  product %d has %d current observations\n", v.ProductID, v.Count)
		}
		return subcommands.ExitFailure
	}

	fmt.Println("ledger consistent: at most one current price per product")
	return subcommands.ExitSuccess
}
