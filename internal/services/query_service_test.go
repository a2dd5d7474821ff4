package services_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/services"
)

func obsWithPrice(raw string) models.PriceObservation {
	return models.PriceObservation{Price: decimal.RequireFromString(raw)}
}

func TestCalculateStatistics_EmptyHistory(t *testing.T) {
	assert.Nil(t, services.CalculateStatistics(nil))
	assert.Nil(t, services.CalculateStatistics([]models.PriceObservation{}))
}

func TestCalculateStatistics_SingleObservation(t *testing.T) {
	stats := services.CalculateStatistics([]models.PriceObservation{obsWithPrice("19.99")})

	require.NotNil(t, stats)
	assert.Equal(t, 1, stats.Count)
	assert.True(t, stats.Min.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, stats.Max.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, stats.Avg.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, stats.Current.Equal(decimal.RequireFromString("19.99")))
	assert.True(t, stats.Change.IsZero())
	assert.True(t, stats.ChangePercent.IsZero())
}

func TestCalculateStatistics_ChangeAgainstFirstObservation(t *testing.T) {
	history := []models.PriceObservation{
		obsWithPrice("10.00"),
		obsWithPrice("8.00"),
		obsWithPrice("12.50"),
	}

	stats := services.CalculateStatistics(history)

	require.NotNil(t, stats)
	assert.Equal(t, 3, stats.Count)
	assert.True(t, stats.Min.Equal(decimal.RequireFromString("8.00")))
	assert.True(t, stats.Max.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, stats.Current.Equal(decimal.RequireFromString("12.50")))
	assert.True(t, stats.Change.Equal(decimal.RequireFromString("2.50")))
	assert.True(t, stats.ChangePercent.Equal(decimal.RequireFromString("25")))
	assert.True(t, stats.Avg.Equal(decimal.RequireFromString("10.1667")))
}

func TestCalculateStatistics_AvgRounding(t *testing.T) {
	history := []models.PriceObservation{
		obsWithPrice("10.00"),
		obsWithPrice("10.01"),
		obsWithPrice("10.01"),
	}

	stats := services.CalculateStatistics(history)
	require.NotNil(t, stats)
	assert.True(t, stats.Avg.Equal(decimal.RequireFromString("10.0067")), "got %s", stats.Avg)
}

func TestSearchProducts_IncludesCurrentPrice(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	catalog := services.NewCatalogService(&memProducts{store})
	ledger := services.NewLedgerService(&memPrices{store})

	id, _, err := catalog.ResolveOrCreate(ctx, "A-100", "Widget", "Hardware", "pcs")
	require.NoError(t, err)
	_, err = ledger.RecordPrice(ctx, id, "10.00", date(t, "2024-01-01"), "jan.xlsx")
	require.NoError(t, err)
	_, err = ledger.RecordPrice(ctx, id, "12.00", date(t, "2024-02-01"), "feb.xlsx")
	require.NoError(t, err)

	_, _, err = catalog.ResolveOrCreate(ctx, "B-200", "Priceless gadget", "", "")
	require.NoError(t, err)

	query := services.NewQueryService(store.repos())
	hits, total, err := query.SearchProducts(ctx, "", 1, 50)

	require.NoError(t, err)
	assert.Equal(t, int64(2), total)
	require.Len(t, hits, 2)

	byNumber := map[string]services.ProductSummary{}
	for _, h := range hits {
		byNumber[h.ProductNumber] = h
	}

	widget := byNumber["A-100"]
	require.NotNil(t, widget.CurrentPrice)
	assert.True(t, widget.CurrentPrice.Equal(decimal.RequireFromString("12.00")))
	require.NotNil(t, widget.CurrentValidFrom)
	assert.Equal(t, date(t, "2024-02-01"), *widget.CurrentValidFrom)

	gadget := byNumber["B-200"]
	assert.Nil(t, gadget.CurrentPrice)
	assert.Nil(t, gadget.CurrentValidFrom)
}

func TestGetPriceHistory_UnknownProduct(t *testing.T) {
	query := services.NewQueryService(newMemStore().repos())

	_, err := query.GetPriceHistory(context.Background(), 42)
	require.Error(t, err)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestGetStatistics_EmptyHistoryIsNil(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	id, _, err := services.NewCatalogService(&memProducts{store}).
		ResolveOrCreate(ctx, "A-100", "Widget", "", "")
	require.NoError(t, err)

	stats, err := services.NewQueryService(store.repos()).GetStatistics(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, stats)
}

func TestDashboard(t *testing.T) {
	store := newMemStore()
	ctx := context.Background()

	catalog := services.NewCatalogService(&memProducts{store})
	ledger := services.NewLedgerService(&memPrices{store})

	id, _, err := catalog.ResolveOrCreate(ctx, "A-100", "Widget", "", "")
	require.NoError(t, err)
	_, err = ledger.RecordPrice(ctx, id, "10.00", date(t, "2024-01-01"), "jan.xlsx")
	require.NoError(t, err)
	_, err = ledger.RecordPrice(ctx, id, "12.00", date(t, "2024-02-01"), "feb.xlsx")
	require.NoError(t, err)

	dash, err := services.NewQueryService(store.repos()).Dashboard(ctx)

	require.NoError(t, err)
	assert.Equal(t, int64(1), dash.ProductCount)
	assert.Equal(t, int64(2), dash.PriceCount)
	require.NotNil(t, dash.LatestDate)
	assert.Equal(t, date(t, "2024-02-01"), *dash.LatestDate)
}
