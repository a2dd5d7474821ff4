// internal/repository/tx.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pricetrack/backend/internal/apperrors"
)

// Repos bundles the repositories backed by one database handle, either the
// shared pool or a single transaction.
type Repos struct {
	Products   ProductRepository
	Prices     PriceRepository
	ImportRuns ImportRunRepository
}

func New(db *gorm.DB) Repos {
	return Repos{
		Products:   NewProductRepository(db),
		Prices:     NewPriceRepository(db),
		ImportRuns: NewImportRunRepository(db),
	}
}

// TxManager scopes a unit of work to one transaction: fn sees repositories
// bound to the transaction, and every exit path either commits or rolls back.
type TxManager interface {
	InBatch(ctx context.Context, fn func(Repos) error) error
}

type gormTxManager struct{ db *gorm.DB }

func NewTxManager(db *gorm.DB) TxManager {
	return &gormTxManager{db: db}
}

func (m *gormTxManager) InBatch(ctx context.Context, fn func(Repos) error) error {
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(New(tx))
	})
	if err == nil {
		return nil
	}
	// Commit/begin failures surface here without taxonomy; everything
	// reaching the caller from the storage layer must carry it.
	if apperrors.IsStorage(err) || apperrors.IsValidation(err) || apperrors.IsNotFound(err) {
		return err
	}
	return apperrors.Storage("batch transaction", err)
}
