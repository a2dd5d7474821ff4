// Project Structure Overview
/*
pricetrack-backend/
├── cmd/
│   ├── server/
│   │   └── main.go          # HTTP API server
│   └── pricectl/
│       ├── main.go          # ops CLI entry point
│       ├── initdb.go        # schema setup
│       ├── import.go        # spreadsheet imports
│       └── diagnose.go      # consistency checks
├── internal/
│   ├── config/
│   │   └── config.go
│   ├── database/
│   │   └── connection.go    # gorm setup, migrations, indexes, triggers
│   ├── models/
│   │   ├── product.go
│   │   ├── price_observation.go
│   │   └── import_run.go
│   ├── repository/
│   │   ├── product_repo.go
│   │   ├── price_repo.go
│   │   ├── import_run_repo.go
│   │   └── tx.go            # batch transaction scope
│   ├── services/
│   │   ├── catalog_service.go
│   │   ├── ledger_service.go
│   │   ├── ingest_service.go
│   │   ├── query_service.go
│   │   └── record_source.go
│   ├── excel/
│   │   └── source.go        # spreadsheet record source
│   ├── handlers/
│   │   ├── product.go
│   │   ├── dashboard.go
│   │   ├── import.go
│   │   └── helpers.go
│   ├── middleware/
│   │   ├── logging.go
│   │   └── rate_limit.go
│   ├── router/
│   │   └── router.go
│   ├── utils/
│   │   ├── response.go
│   │   ├── pagination.go
│   │   └── validator.go
│   └── apperrors/
│       └── errors.go
├── go.mod
└── go.sum
*/

// Package backend holds the price tracking service. The runnable entry
// points live under cmd/server and cmd/pricectl.
package backend
