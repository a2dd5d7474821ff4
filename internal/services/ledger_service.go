// internal/services/ledger_service.go
package services

import (
	"context"
	"regexp"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/repository"
)

// missingValue is the literal some producers emit for an absent cell.
const missingValue = "nan"

// LedgerService maintains the per-product price history: at most one current
// observation per product, superseded rows closed out with the date the next
// price takes effect, nothing ever deleted.
//
// RecordPrice must run inside a batch transaction (repository.TxManager) so
// that superseding the old row and inserting the new one land atomically.
type LedgerService struct {
	prices repository.PriceRepository
}

func NewLedgerService(prices repository.PriceRepository) *LedgerService {
	return &LedgerService{prices: prices}
}

// RecordPrice records one observed price for a product.
//
// An absent price (empty cell or missing-value marker) is a no-op returning
// (nil, nil): sparse price columns are normal input, not an error. A present
// but unparseable or non-positive price returns a ValidationError and leaves
// the existing current observation untouched.
func (s *LedgerService) RecordPrice(ctx context.Context, productID uint, rawPrice string, validFrom time.Time, sourceFile string) (*models.PriceObservation, error) {
	price, ok, err := parsePrice(rawPrice)
	if err != nil {
		return nil, apperrors.Validationf("price", "invalid price for product %d: %q", productID, strings.TrimSpace(rawPrice))
	}
	if !ok {
		return nil, nil
	}
	if !price.IsPositive() {
		return nil, apperrors.Validationf("price", "price must be positive, got %s", price)
	}

	current, err := s.prices.FindCurrent(ctx, productID)
	if err != nil {
		return nil, err
	}

	// The current row is superseded even when its valid_from equals the new
	// date, so re-importing the same file duplicates history rows for
	// unchanged prices. Kept as-is: deduplicating would need a product-owner
	// decision on whether the duplicate rows are wanted audit trail.
	if current != nil {
		if err := s.prices.Supersede(ctx, current, validFrom); err != nil {
			return nil, err
		}
	}

	obs := &models.PriceObservation{
		ProductID:  productID,
		Price:      price,
		ValidFrom:  validFrom,
		SourceFile: sourceFile,
		IsCurrent:  true,
	}
	if err := s.prices.Create(ctx, obs); err != nil {
		return nil, err
	}

	return obs, nil
}

// groupedThousands matches prices whose commas are unambiguously thousands
// separators, e.g. 1,234.50.
var groupedThousands = regexp.MustCompile(`^\d{1,3}(,\d{3})+(\.\d+)?$`)

// parsePrice normalizes a raw price cell. ok=false means the cell is absent;
// err means it is present but not a number.
func parsePrice(raw string) (decimal.Decimal, bool, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" || strings.EqualFold(raw, missingValue) {
		return decimal.Zero, false, nil
	}

	// Commas are stripped only as thousands grouping. A comma anywhere else
	// is likely a decimal comma; guessing a scale here would record the
	// value 100x off, so it is rejected instead.
	if groupedThousands.MatchString(raw) {
		raw = strings.ReplaceAll(raw, ",", "")
	}

	price, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, false, err
	}
	return price, true, nil
}
