// internal/models/import_run.go
package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

// ImportRun is the persisted summary of one ingested batch. It is written in
// the same transaction as the batch itself, so a rolled-back batch leaves no
// run behind.
type ImportRun struct {
	ID              uuid.UUID      `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	SourceFile      string         `json:"source_file" gorm:"size:255;not null;index"`
	EffectiveDate   time.Time      `json:"effective_date" gorm:"type:date;not null"`
	ProductsAdded   int            `json:"products_added" gorm:"not null;default:0"`
	ProductsUpdated int            `json:"products_updated" gorm:"not null;default:0"`
	PricesAdded     int            `json:"prices_added" gorm:"not null;default:0"`
	RowsSkipped     int            `json:"rows_skipped" gorm:"not null;default:0"`
	Errors          pq.StringArray `json:"errors" gorm:"type:text[]"`
	CreatedAt       time.Time      `json:"created_at"`
}
