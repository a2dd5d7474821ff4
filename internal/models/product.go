// internal/models/product.go
package models

import (
	"time"
)

// Product is a catalog entry. Identity is the stable business key
// ProductNumber; ID is an internal surrogate used for joins.
type Product struct {
	ID            uint      `json:"id" gorm:"primaryKey"`
	ProductNumber string    `json:"product_number" gorm:"size:100;uniqueIndex;not null"`
	Description   string    `json:"description" gorm:"type:text"`
	Category      string    `json:"category" gorm:"size:100;index"`
	Unit          string    `json:"unit" gorm:"size:50"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`

	// Relationships
	Prices []PriceObservation `json:"prices,omitempty" gorm:"foreignKey:ProductID;constraint:OnDelete:CASCADE"`
}
