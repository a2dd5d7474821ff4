// internal/services/record_source.go
package services

import (
	"context"
	"time"
)

// RawRecord is one normalized row handed to the ingestion coordinator.
// Price stays a raw string because sparse and malformed price cells are
// expected input; the ledger decides between skip and reject.
type RawRecord struct {
	ProductNumber string
	Description   string
	Category      string
	Unit          string
	Price         string
	// EffectiveDate overrides the batch date for this record. Zero means
	// the record inherits the source's batch-wide date.
	EffectiveDate time.Time
	// RowRef identifies the record in error messages, e.g. "row 17".
	RowRef string
}

// RecordSource produces normalized records for one batch. Implementations
// own field resolution (column detection, header heuristics) and date
// derivation; the coordinator never sees the raw input format.
type RecordSource interface {
	// Label is the provenance string stored with every price observation,
	// typically the originating file name.
	Label() string
	// EffectiveDate is the batch-wide valid_from date. Zero means no date
	// could be derived and the coordinator falls back to the wall clock.
	EffectiveDate() time.Time
	Records(ctx context.Context) ([]RawRecord, error)
}

type sliceSource struct {
	label   string
	date    time.Time
	records []RawRecord
}

// NewSliceSource wraps already-normalized records as a RecordSource, for
// producers that do not go through a spreadsheet.
func NewSliceSource(label string, date time.Time, records []RawRecord) RecordSource {
	return &sliceSource{label: label, date: date, records: records}
}

func (s *sliceSource) Label() string            { return s.label }
func (s *sliceSource) EffectiveDate() time.Time { return s.date }
func (s *sliceSource) Records(ctx context.Context) ([]RawRecord, error) {
	return s.records, nil
}
