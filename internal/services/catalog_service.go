// internal/services/catalog_service.go
package services

import (
	"context"
	"strings"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/repository"
)

// CatalogService maintains the product_number -> product mapping.
type CatalogService struct {
	products repository.ProductRepository
}

func NewCatalogService(products repository.ProductRepository) *CatalogService {
	return &CatalogService{products: products}
}

// ResolveOrCreate looks a product up by its business key and returns its
// surrogate id, creating the product on first encounter. On every subsequent
// encounter the supplied description, category and unit overwrite the stored
// ones, blanks included: the newest price list is the authority on product
// attributes, and there is no audit trail for attribute changes.
func (s *CatalogService) ResolveOrCreate(ctx context.Context, productNumber, description, category, unit string) (uint, bool, error) {
	productNumber = strings.TrimSpace(productNumber)
	if productNumber == "" {
		return 0, false, apperrors.Validationf("product_number", "missing required business key")
	}

	existing, err := s.products.FindByNumber(ctx, productNumber)
	if err != nil && !apperrors.IsNotFound(err) {
		return 0, false, err
	}

	if existing != nil {
		existing.Description = description
		existing.Category = category
		existing.Unit = unit
		if err := s.products.UpdateAttributes(ctx, existing); err != nil {
			return 0, false, err
		}
		return existing.ID, false, nil
	}

	product := &models.Product{
		ProductNumber: productNumber,
		Description:   description,
		Category:      category,
		Unit:          unit,
	}
	if err := s.products.Create(ctx, product); err != nil {
		return 0, false, err
	}

	return product.ID, true, nil
}
