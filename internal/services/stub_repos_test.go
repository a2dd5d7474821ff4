package services_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/pricetrack/backend/internal/apperrors"
	"github.com/pricetrack/backend/internal/models"
	"github.com/pricetrack/backend/internal/repository"
)

// ── In-memory store backing the repository interfaces ────────────────────────

type memStore struct {
	products      map[uint]*models.Product
	byNumber      map[string]uint
	observations  map[uint]*models.PriceObservation
	runs          []models.ImportRun
	nextProductID uint
	nextObsID     uint

	// failOnObsCreate makes the Nth price insert fail with a StorageError,
	// simulating loss of connectivity mid-batch.
	failOnObsCreate int
	obsCreateCalls  int
}

func newMemStore() *memStore {
	return &memStore{
		products:     make(map[uint]*models.Product),
		byNumber:     make(map[string]uint),
		observations: make(map[uint]*models.PriceObservation),
	}
}

func (s *memStore) clone() *memStore {
	c := newMemStore()
	c.nextProductID = s.nextProductID
	c.nextObsID = s.nextObsID
	c.failOnObsCreate = s.failOnObsCreate
	c.obsCreateCalls = s.obsCreateCalls
	for id, p := range s.products {
		cp := *p
		c.products[id] = &cp
	}
	for n, id := range s.byNumber {
		c.byNumber[n] = id
	}
	for id, o := range s.observations {
		co := *o
		c.observations[id] = &co
	}
	c.runs = append(c.runs, s.runs...)
	return c
}

func (s *memStore) repos() repository.Repos {
	return repository.Repos{
		Products:   &memProducts{s},
		Prices:     &memPrices{s},
		ImportRuns: &memRuns{s},
	}
}

func (s *memStore) currentObservations(productID uint) []*models.PriceObservation {
	var current []*models.PriceObservation
	for _, o := range s.observations {
		if o.ProductID == productID && o.IsCurrent {
			current = append(current, o)
		}
	}
	return current
}

// ── ProductRepository ────────────────────────────────────────────────────────

type memProducts struct{ s *memStore }

func (r *memProducts) FindByID(_ context.Context, id uint) (*models.Product, error) {
	p, ok := r.s.products[id]
	if !ok {
		return nil, apperrors.NotFound("product", "id")
	}
	return p, nil
}

func (r *memProducts) FindByNumber(_ context.Context, number string) (*models.Product, error) {
	id, ok := r.s.byNumber[number]
	if !ok {
		return nil, apperrors.NotFound("product", number)
	}
	return r.s.products[id], nil
}

func (r *memProducts) Create(_ context.Context, p *models.Product) error {
	r.s.nextProductID++
	p.ID = r.s.nextProductID
	p.CreatedAt = time.Now()
	p.UpdatedAt = p.CreatedAt
	r.s.products[p.ID] = p
	r.s.byNumber[p.ProductNumber] = p.ID
	return nil
}

func (r *memProducts) UpdateAttributes(_ context.Context, p *models.Product) error {
	stored, ok := r.s.products[p.ID]
	if !ok {
		return apperrors.NotFound("product", "id")
	}
	stored.Description = p.Description
	stored.Category = p.Category
	stored.Unit = p.Unit
	stored.UpdatedAt = time.Now()
	return nil
}

func (r *memProducts) Search(_ context.Context, query string, page, limit int) ([]models.Product, int64, error) {
	var hits []models.Product
	for _, p := range r.s.products {
		if query != "" &&
			!strings.Contains(strings.ToLower(p.ProductNumber), strings.ToLower(query)) &&
			!strings.Contains(strings.ToLower(p.Description), strings.ToLower(query)) {
			continue
		}
		hit := *p
		for _, o := range r.s.currentObservations(p.ID) {
			hit.Prices = append(hit.Prices, *o)
		}
		hits = append(hits, hit)
	}
	return hits, int64(len(hits)), nil
}

func (r *memProducts) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.products)), nil
}

// ── PriceRepository ──────────────────────────────────────────────────────────

type memPrices struct{ s *memStore }

func (r *memPrices) FindCurrent(_ context.Context, productID uint) (*models.PriceObservation, error) {
	current := r.s.currentObservations(productID)
	if len(current) == 0 {
		return nil, nil
	}
	return current[0], nil
}

func (r *memPrices) Create(_ context.Context, obs *models.PriceObservation) error {
	r.s.obsCreateCalls++
	if r.s.failOnObsCreate > 0 && r.s.obsCreateCalls == r.s.failOnObsCreate {
		return apperrors.Storage("create price observation", errors.New("connection lost"))
	}
	r.s.nextObsID++
	obs.ID = r.s.nextObsID
	obs.CreatedAt = time.Now()
	r.s.observations[obs.ID] = obs
	return nil
}

func (r *memPrices) Supersede(_ context.Context, obs *models.PriceObservation, validUntil time.Time) error {
	stored, ok := r.s.observations[obs.ID]
	if !ok {
		return apperrors.NotFound("price observation", "id")
	}
	stored.IsCurrent = false
	until := validUntil
	stored.ValidUntil = &until
	obs.IsCurrent = false
	obs.ValidUntil = &until
	return nil
}

func (r *memPrices) HistoryByProduct(_ context.Context, productID uint) ([]models.PriceObservation, error) {
	var history []models.PriceObservation
	for id := uint(1); id <= r.s.nextObsID; id++ {
		if o, ok := r.s.observations[id]; ok && o.ProductID == productID {
			history = append(history, *o)
		}
	}
	return history, nil
}

func (r *memPrices) Count(_ context.Context) (int64, error) {
	return int64(len(r.s.observations)), nil
}

func (r *memPrices) LatestValidFrom(_ context.Context) (*time.Time, error) {
	var latest *time.Time
	for _, o := range r.s.observations {
		if latest == nil || o.ValidFrom.After(*latest) {
			t := o.ValidFrom
			latest = &t
		}
	}
	return latest, nil
}

// ── ImportRunRepository ──────────────────────────────────────────────────────

type memRuns struct{ s *memStore }

func (r *memRuns) Create(_ context.Context, run *models.ImportRun) error {
	run.CreatedAt = time.Now()
	r.s.runs = append(r.s.runs, *run)
	return nil
}

func (r *memRuns) List(_ context.Context, page, limit int) ([]models.ImportRun, int64, error) {
	return append([]models.ImportRun(nil), r.s.runs...), int64(len(r.s.runs)), nil
}

// ── TxManager over the in-memory store ───────────────────────────────────────

type memTxManager struct{ store *memStore }

func (m *memTxManager) InBatch(_ context.Context, fn func(repository.Repos) error) error {
	snapshot := m.store.clone()
	if err := fn(m.store.repos()); err != nil {
		*m.store = *snapshot
		return err
	}
	return nil
}

// ── helpers ──────────────────────────────────────────────────────────────────

func date(t *testing.T, value string) time.Time {
	t.Helper()
	d, err := time.Parse("2006-01-02", value)
	if err != nil {
		t.Fatalf("bad test date %q: %v", value, err)
	}
	return d
}
