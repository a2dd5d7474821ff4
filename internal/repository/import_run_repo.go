// internal/repository/import_run_repo.go
package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/models"
)

type ImportRunRepository interface {
	Create(ctx context.Context, run *models.ImportRun) error
	List(ctx context.Context, page, limit int) ([]models.ImportRun, int64, error)
}

type importRunRepository struct{ db *gorm.DB }

func NewImportRunRepository(db *gorm.DB) ImportRunRepository {
	return &importRunRepository{db: db}
}

func (r *importRunRepository) Create(ctx context.Context, run *models.ImportRun) error {
	if err := r.db.WithContext(ctx).Create(run).Error; err != nil {
		return apperrors.Storage("create import run", err)
	}
	return nil
}

func (r *importRunRepository) List(ctx context.Context, page, limit int) ([]models.ImportRun, int64, error) {
	var total int64
	if err := r.db.WithContext(ctx).Model(&models.ImportRun{}).Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage("count import runs", err)
	}

	var runs []models.ImportRun
	offset := (page - 1) * limit
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Offset(offset).Limit(limit).
		Find(&runs).Error
	if err != nil {
		return nil, 0, apperrors.Storage("list import runs", err)
	}

	return runs, total, nil
}
