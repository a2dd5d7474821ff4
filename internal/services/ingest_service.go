// internal/services/ingest_service.go
package services

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/lib/pq"
	"github.com/sirupsen/logrus"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/repository"
)

// ImportStats summarizes what a batch actually committed.
type ImportStats struct {
	FilesProcessed  int      `json:"files_processed"`
	ProductsAdded   int      `json:"products_added"`
	ProductsUpdated int      `json:"products_updated"`
	PricesAdded     int      `json:"prices_added"`
	RowsSkipped     int      `json:"rows_skipped"`
	Errors          []string `json:"errors"`
}

func (st *ImportStats) merge(other *ImportStats) {
	st.FilesProcessed += other.FilesProcessed
	st.ProductsAdded += other.ProductsAdded
	st.ProductsUpdated += other.ProductsUpdated
	st.PricesAdded += other.PricesAdded
	st.RowsSkipped += other.RowsSkipped
	st.Errors = append(st.Errors, other.Errors...)
}

// Summary renders the human-readable report, listing at most maxErrors error
// lines.
func (st *ImportStats) Summary(maxErrors int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "files processed: %d\n", st.FilesProcessed)
	fmt.Fprintf(&b, "products added: %d\n", st.ProductsAdded)
	fmt.Fprintf(&b, "products updated: %d\n", st.ProductsUpdated)
	fmt.Fprintf(&b, "prices added: %d\n", st.PricesAdded)
	fmt.Fprintf(&b, "rows skipped: %d\n", st.RowsSkipped)

	if len(st.Errors) == 0 {
		b.WriteString("no errors\n")
		return b.String()
	}

	fmt.Fprintf(&b, "errors: %d\n", len(st.Errors))
	shown := st.Errors
	if maxErrors > 0 && len(shown) > maxErrors {
		shown = shown[:maxErrors]
	}
	for _, e := range shown {
		fmt.Fprintf(&b, "  - %s\n", e)
	}
	if rest := len(st.Errors) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "  ... and %d more\n", rest)
	}
	return b.String()
}

// IngestService is the ingestion coordinator: it consumes normalized records
// from a RecordSource, resolves catalog entries and applies price updates
// through the ledger, one batch per storage transaction.
//
// Row-level failures (validation, missing references) are recorded in the
// batch stats and never abort the batch; storage failures roll the whole
// batch back and propagate. Records are processed strictly sequentially:
// the ledger's current-pointer update is not safe under concurrent writers
// for the same product.
type IngestService struct {
	tx     repository.TxManager
	mtx    sync.Mutex
	totals ImportStats
}

func NewIngestService(tx repository.TxManager) *IngestService {
	return &IngestService{tx: tx}
}

// IngestBatch applies one batch of records. The returned stats cover this
// batch only; cumulative stats for the coordinator's lifetime are available
// via Totals.
func (s *IngestService) IngestBatch(ctx context.Context, source RecordSource) (*ImportStats, error) {
	// One batch at a time: the ledger's current-pointer update races under
	// concurrent writers to the same product.
	s.mtx.Lock()
	defer s.mtx.Unlock()

	records, err := source.Records(ctx)
	if err != nil {
		return nil, fmt.Errorf("reading records from %s: %w", source.Label(), err)
	}

	label := source.Label()
	batchDate := source.EffectiveDate()
	if batchDate.IsZero() {
		// Fallback when no date could be derived from the source: the local
		// calendar day, held as a bare UTC date like the filename-derived
		// ones.
		now := time.Now()
		batchDate = time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
		logrus.WithField("source", label).Warn("No effective date derived, falling back to current date")
	}

	log := logrus.WithFields(logrus.Fields{
		"source":         label,
		"effective_date": batchDate.Format("2006-01-02"),
		"records":        len(records),
	})
	log.Info("Starting import batch")

	stats := &ImportStats{}
	err = s.tx.InBatch(ctx, func(r repository.Repos) error {
		catalog := NewCatalogService(r.Products)
		ledger := NewLedgerService(r.Prices)

		for i, rec := range records {
			if err := s.ingestRecord(ctx, catalog, ledger, rec, i, label, batchDate, stats); err != nil {
				return err
			}
		}

		stats.FilesProcessed++

		run := &models.ImportRun{
			SourceFile:      label,
			EffectiveDate:   batchDate,
			ProductsAdded:   stats.ProductsAdded,
			ProductsUpdated: stats.ProductsUpdated,
			PricesAdded:     stats.PricesAdded,
			RowsSkipped:     stats.RowsSkipped,
			Errors:          pq.StringArray(stats.Errors),
		}
		return r.ImportRuns.Create(ctx, run)
	})
	if err != nil {
		log.WithError(err).Error("Import batch failed, all writes rolled back")
		return nil, err
	}

	s.totals.merge(stats)
	log.WithFields(logrus.Fields{
		"products_added":   stats.ProductsAdded,
		"products_updated": stats.ProductsUpdated,
		"prices_added":     stats.PricesAdded,
		"rows_skipped":     stats.RowsSkipped,
		"errors":           len(stats.Errors),
	}).Info("Import batch committed")

	return stats, nil
}

// ingestRecord walks one record through resolve -> record-price. A returned
// error aborts the batch; row-level problems land in stats.Errors instead.
func (s *IngestService) ingestRecord(ctx context.Context, catalog *CatalogService, ledger *LedgerService, rec RawRecord, index int, label string, batchDate time.Time, stats *ImportStats) error {
	rowRef := rec.RowRef
	if rowRef == "" {
		rowRef = fmt.Sprintf("record %d", index+1)
	}

	number := strings.TrimSpace(rec.ProductNumber)
	if number == "" || strings.EqualFold(number, missingValue) {
		stats.RowsSkipped++
		return nil
	}

	productID, created, err := catalog.ResolveOrCreate(ctx, number, rec.Description, rec.Category, rec.Unit)
	if err != nil {
		if apperrors.IsStorage(err) {
			return err
		}
		stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", rowRef, err))
		return nil
	}
	if created {
		stats.ProductsAdded++
	} else {
		stats.ProductsUpdated++
	}

	validFrom := rec.EffectiveDate
	if validFrom.IsZero() {
		validFrom = batchDate
	}

	obs, err := ledger.RecordPrice(ctx, productID, rec.Price, validFrom, label)
	if err != nil {
		if apperrors.IsStorage(err) {
			return err
		}
		stats.Errors = append(stats.Errors, fmt.Sprintf("%s: %v", rowRef, err))
		return nil
	}
	if obs != nil {
		stats.PricesAdded++
	} else {
		logrus.WithFields(logrus.Fields{"source": label, "row": rowRef}).
			Debug("No price in record, skipped")
	}

	return nil
}

// Totals returns the cumulative stats across all batches this coordinator
// has committed. Resetting them means creating a new coordinator.
func (s *IngestService) Totals() ImportStats {
	s.mtx.Lock()
	defer s.mtx.Unlock()
	totals := s.totals
	totals.Errors = append([]string(nil), s.totals.Errors...)
	return totals
}
