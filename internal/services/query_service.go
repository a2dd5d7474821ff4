// internal/services/query_service.go
package services

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/repository"
)

// QueryService is the read-only side consumed by the web layer. It never
// writes.
type QueryService struct {
	repos repository.Repos
}

func NewQueryService(repos repository.Repos) *QueryService {
	return &QueryService{repos: repos}
}

// ProductSummary is a search hit: the product plus its current price, if any.
type ProductSummary struct {
	ID               uint             `json:"id"`
	ProductNumber    string           `json:"product_number"`
	Description      string           `json:"description"`
	Category         string           `json:"category"`
	Unit             string           `json:"unit"`
	CurrentPrice     *decimal.Decimal `json:"current_price,omitempty"`
	CurrentValidFrom *time.Time       `json:"current_valid_from,omitempty"`
}

func (s *QueryService) SearchProducts(ctx context.Context, query string, page, limit int) ([]ProductSummary, int64, error) {
	products, total, err := s.repos.Products.Search(ctx, query, page, limit)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]ProductSummary, 0, len(products))
	for _, p := range products {
		summary := ProductSummary{
			ID:            p.ID,
			ProductNumber: p.ProductNumber,
			Description:   p.Description,
			Category:      p.Category,
			Unit:          p.Unit,
		}
		if len(p.Prices) > 0 {
			current := p.Prices[0]
			summary.CurrentPrice = &current.Price
			summary.CurrentValidFrom = &current.ValidFrom
		}
		summaries = append(summaries, summary)
	}

	return summaries, total, nil
}

func (s *QueryService) GetProduct(ctx context.Context, id uint) (*models.Product, error) {
	return s.repos.Products.FindByID(ctx, id)
}

func (s *QueryService) GetPriceHistory(ctx context.Context, productID uint) ([]models.PriceObservation, error) {
	if _, err := s.repos.Products.FindByID(ctx, productID); err != nil {
		return nil, err
	}
	return s.repos.Prices.HistoryByProduct(ctx, productID)
}

// PriceStatistics describes a product's price history for display.
type PriceStatistics struct {
	Min           decimal.Decimal `json:"min"`
	Max           decimal.Decimal `json:"max"`
	Avg           decimal.Decimal `json:"avg"`
	Current       decimal.Decimal `json:"current"`
	Change        decimal.Decimal `json:"change"`
	ChangePercent decimal.Decimal `json:"change_percent"`
	Count         int             `json:"count"`
}

func (s *QueryService) GetStatistics(ctx context.Context, productID uint) (*PriceStatistics, error) {
	history, err := s.GetPriceHistory(ctx, productID)
	if err != nil {
		return nil, err
	}
	return CalculateStatistics(history), nil
}

// CalculateStatistics derives display statistics from a price history ordered
// by valid_from ascending. Change is measured against the first observation.
// Returns nil for an empty history.
func CalculateStatistics(history []models.PriceObservation) *PriceStatistics {
	if len(history) == 0 {
		return nil
	}

	first := history[0].Price
	stats := &PriceStatistics{
		Min:   first,
		Max:   first,
		Count: len(history),
	}

	sum := decimal.Zero
	for _, obs := range history {
		if obs.Price.LessThan(stats.Min) {
			stats.Min = obs.Price
		}
		if obs.Price.GreaterThan(stats.Max) {
			stats.Max = obs.Price
		}
		sum = sum.Add(obs.Price)
	}

	stats.Current = history[len(history)-1].Price
	stats.Avg = sum.Div(decimal.NewFromInt(int64(len(history)))).Round(4)

	if len(history) > 1 {
		stats.Change = stats.Current.Sub(first)
		if first.IsPositive() {
			stats.ChangePercent = stats.Change.
				Div(first).
				Mul(decimal.NewFromInt(100)).
				Round(2)
		}
	}

	return stats
}

// DashboardStats feeds the landing page.
type DashboardStats struct {
	ProductCount int64      `json:"product_count"`
	PriceCount   int64      `json:"price_count"`
	LatestDate   *time.Time `json:"latest_date,omitempty"`
}

func (s *QueryService) Dashboard(ctx context.Context) (*DashboardStats, error) {
	productCount, err := s.repos.Products.Count(ctx)
	if err != nil {
		return nil, err
	}
	priceCount, err := s.repos.Prices.Count(ctx)
	if err != nil {
		return nil, err
	}
	latest, err := s.repos.Prices.LatestValidFrom(ctx)
	if err != nil {
		return nil, err
	}

	return &DashboardStats{
		ProductCount: productCount,
		PriceCount:   priceCount,
		LatestDate:   latest,
	}, nil
}

func (s *QueryService) ListImportRuns(ctx context.Context, page, limit int) ([]models.ImportRun, int64, error) {
	return s.repos.ImportRuns.List(ctx, page, limit)
}
