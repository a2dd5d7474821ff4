// internal/models/price_observation.go
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// PriceObservation is one observed price for a product. Rows are never
// deleted and the price value is never mutated; superseding a row only flips
// IsCurrent and sets ValidUntil. At most one row per product has
// IsCurrent=true, enforced both in the ledger and by a partial unique index.
type PriceObservation struct {
	ID         uint            `json:"id" gorm:"primaryKey"`
	ProductID  uint            `json:"product_id" gorm:"not null;index"`
	Price      decimal.Decimal `json:"price" gorm:"type:decimal(12,2);not null"`
	ValidFrom  time.Time       `json:"valid_from" gorm:"type:date;not null;index"`
	ValidUntil *time.Time      `json:"valid_until,omitempty" gorm:"type:date"`
	SourceFile string          `json:"source_file" gorm:"size:255"`
	IsCurrent  bool            `json:"is_current" gorm:"not null;default:false;index"`
	CreatedAt  time.Time       `json:"created_at"`

	Product Product `json:"-" gorm:"foreignKey:ProductID"`
}
