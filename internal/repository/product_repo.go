// internal/repository/product_repo.go
package repository

import (
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/models"
)

type ProductRepository interface {
	FindByID(ctx context.Context, id uint) (*models.Product, error)
	FindByNumber(ctx context.Context, number string) (*models.Product, error)
	Create(ctx context.Context, p *models.Product) error
	// UpdateAttributes overwrites description, category and unit
	// unconditionally, blanks included (last-write-wins).
	UpdateAttributes(ctx context.Context, p *models.Product) error
	// Search matches product_number and description case-insensitively and
	// preloads each hit's current price observation.
	Search(ctx context.Context, query string, page, limit int) ([]models.Product, int64, error)
	Count(ctx context.Context) (int64, error)
}

type productRepository struct{ db *gorm.DB }

func NewProductRepository(db *gorm.DB) ProductRepository {
	return &productRepository{db: db}
}

func (r *productRepository) FindByID(ctx context.Context, id uint) (*models.Product, error) {
	var p models.Product
	if err := r.db.WithContext(ctx).First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", "id")
		}
		return nil, apperrors.Storage("find product by id", err)
	}
	return &p, nil
}

func (r *productRepository) FindByNumber(ctx context.Context, number string) (*models.Product, error) {
	var p models.Product
	err := r.db.WithContext(ctx).Where("product_number = ?", number).First(&p).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NotFound("product", number)
		}
		return nil, apperrors.Storage("find product by number", err)
	}
	return &p, nil
}

func (r *productRepository) Create(ctx context.Context, p *models.Product) error {
	if err := r.db.WithContext(ctx).Create(p).Error; err != nil {
		return apperrors.Storage("create product", err)
	}
	return nil
}

func (r *productRepository) UpdateAttributes(ctx context.Context, p *models.Product) error {
	// A map forces gorm to write blank values too; a struct update would
	// silently skip them and break the last-write-wins contract.
	err := r.db.WithContext(ctx).Model(p).Updates(map[string]interface{}{
		"description": p.Description,
		"category":    p.Category,
		"unit":        p.Unit,
	}).Error
	if err != nil {
		return apperrors.Storage("update product attributes", err)
	}
	return nil
}

func (r *productRepository) Search(ctx context.Context, query string, page, limit int) ([]models.Product, int64, error) {
	q := r.db.WithContext(ctx).Model(&models.Product{})

	if query != "" {
		term := "%" + strings.ToLower(query) + "%"
		q = q.Where("LOWER(product_number) LIKE ? OR LOWER(description) LIKE ?", term, term)
	}

	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, apperrors.Storage("count products", err)
	}

	var products []models.Product
	offset := (page - 1) * limit
	err := q.Order("product_number ASC").
		Offset(offset).Limit(limit).
		Preload("Prices", "is_current = ?", true).
		Find(&products).Error
	if err != nil {
		return nil, 0, apperrors.Storage("search products", err)
	}

	return products, total, nil
}

func (r *productRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.Product{}).Count(&count).Error; err != nil {
		return 0, apperrors.Storage("count products", err)
	}
	return count, nil
}
