// internal/repository/price_repo.go
package repository

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/models"
)

type PriceRepository interface {
	// FindCurrent returns the current observation for a product, or nil when
	// the product has none yet.
	FindCurrent(ctx context.Context, productID uint) (*models.PriceObservation, error)
	Create(ctx context.Context, obs *models.PriceObservation) error
	// Supersede closes out an observation: is_current off, valid_until set.
	// Nothing else on the row is ever written.
	Supersede(ctx context.Context, obs *models.PriceObservation, validUntil time.Time) error
	HistoryByProduct(ctx context.Context, productID uint) ([]models.PriceObservation, error)
	Count(ctx context.Context) (int64, error)
	LatestValidFrom(ctx context.Context) (*time.Time, error)
}

type priceRepository struct{ db *gorm.DB }

func NewPriceRepository(db *gorm.DB) PriceRepository {
	return &priceRepository{db: db}
}

func (r *priceRepository) FindCurrent(ctx context.Context, productID uint) (*models.PriceObservation, error) {
	var obs models.PriceObservation
	err := r.db.WithContext(ctx).
		Where("product_id = ? AND is_current = ?", productID, true).
		First(&obs).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, apperrors.Storage("find current price", err)
	}
	return &obs, nil
}

func (r *priceRepository) Create(ctx context.Context, obs *models.PriceObservation) error {
	if err := r.db.WithContext(ctx).Create(obs).Error; err != nil {
		return apperrors.Storage("create price observation", err)
	}
	return nil
}

func (r *priceRepository) Supersede(ctx context.Context, obs *models.PriceObservation, validUntil time.Time) error {
	err := r.db.WithContext(ctx).Model(obs).Updates(map[string]interface{}{
		"is_current":  false,
		"valid_until": validUntil,
	}).Error
	if err != nil {
		return apperrors.Storage("supersede price observation", err)
	}
	obs.IsCurrent = false
	obs.ValidUntil = &validUntil
	return nil
}

func (r *priceRepository) HistoryByProduct(ctx context.Context, productID uint) ([]models.PriceObservation, error) {
	var history []models.PriceObservation
	err := r.db.WithContext(ctx).
		Where("product_id = ?", productID).
		Order("valid_from ASC, id ASC").
		Find(&history).Error
	if err != nil {
		return nil, apperrors.Storage("load price history", err)
	}
	return history, nil
}

func (r *priceRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.PriceObservation{}).Count(&count).Error; err != nil {
		return 0, apperrors.Storage("count price observations", err)
	}
	return count, nil
}

func (r *priceRepository) LatestValidFrom(ctx context.Context) (*time.Time, error) {
	var latest *time.Time
	err := r.db.WithContext(ctx).
		Model(&models.PriceObservation{}).
		Select("MAX(valid_from)").
		Scan(&latest).Error
	if err != nil {
		return nil, apperrors.Storage("find latest valid_from", err)
	}
	return latest, nil
}
