package contribution

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"

	"aportes/internal/domain"
)

// batchConcurrency bounds how many categories a batch touches at once.
const batchConcurrency = 4

// Outcome describes how a contribution was applied.
type Outcome struct {
	// Created is true when a new category row was inserted, false when an
	// existing row was incremented.
	Created bool
	ID      uuid.UUID
	// Valor is the resulting cumulative amount for the category.
	Valor decimal.Decimal
}

// Contribution is one category/amount pair of a batch submission.
type Contribution struct {
	Categoria string
	Valor     decimal.Decimal
}

// BatchResult is the per-category result of a batch submission.
type BatchResult struct {
	Categoria string
	Outcome   Outcome
	Err       error
}

// Service applies contributions to category running totals, keeping the
// one-row-per-category invariant. Lookups and writes for the same category
// are serialized behind a per-category lock so two concurrent contributions
// cannot lose an increment; different categories proceed concurrently.
type Service struct {
	repo   domain.InvestmentRepository
	logger zerolog.Logger
	now    func() time.Time

	locks keyedLocks
}

// NewService creates a new contribution service.
func NewService(repo domain.InvestmentRepository, logger zerolog.Logger) *Service {
	return &Service{repo: repo, logger: logger, now: time.Now}
}

// Record applies one contribution amount to one category. Returns whether a
// row was created or incremented, along with the resulting total. Not
// idempotent: recording the same amount twice doubles its effect.
func (s *Service) Record(ctx context.Context, categoria string, valor decimal.Decimal) (Outcome, error) {
	if !domain.ValidCategoria(categoria) {
		return Outcome{}, fmt.Errorf("%w: categoria desconhecida %q", domain.ErrValidation, categoria)
	}
	if valor.LessThanOrEqual(decimal.Zero) {
		return Outcome{}, fmt.Errorf("%w: valor deve ser positivo, recebido %s", domain.ErrValidation, valor)
	}

	unlock := s.locks.acquire(categoria)
	defer unlock()

	return s.apply(ctx, categoria, valor, true)
}

func (s *Service) apply(ctx context.Context, categoria string, valor decimal.Decimal, retryOnDuplicate bool) (Outcome, error) {
	existing, err := s.repo.FindByCategoria(ctx, categoria)
	if err != nil && !errors.Is(err, domain.ErrNotFound) {
		return Outcome{}, fmt.Errorf("%w: buscar categoria %q: %v", domain.ErrLookupFailed, categoria, err)
	}

	if existing == nil {
		rec := &domain.InvestmentRecord{
			Categoria:  categoria,
			Valor:      valor,
			DataAporte: s.now(),
		}
		id, err := s.repo.Create(ctx, rec)
		if errors.Is(err, domain.ErrDuplicateCategoria) && retryOnDuplicate {
			// Another writer (outside this process) won the insert between
			// our lookup and write; fold the contribution into an update.
			return s.apply(ctx, categoria, valor, false)
		}
		if err != nil {
			return Outcome{}, fmt.Errorf("%w: criar aporte %q: %v", domain.ErrWriteFailed, categoria, err)
		}
		s.logger.Info().Str("categoria", categoria).Str("valor", valor.String()).Msg("aporte criado")
		return Outcome{Created: true, ID: id, Valor: valor}, nil
	}

	total := existing.Valor.Add(valor)
	if err := s.repo.UpdateValor(ctx, categoria, total, s.now()); err != nil {
		return Outcome{}, fmt.Errorf("%w: atualizar aporte %q: %v", domain.ErrWriteFailed, categoria, err)
	}
	s.logger.Info().Str("categoria", categoria).Str("valor", valor.String()).Str("total", total.String()).Msg("aporte somado")
	return Outcome{ID: existing.ID, Valor: total}, nil
}

// RecordBatch applies each contribution independently, best-effort: a
// failing category never blocks or rolls back the others. Results come back
// in input order.
func (s *Service) RecordBatch(ctx context.Context, items []Contribution) []BatchResult {
	results := make([]BatchResult, len(items))

	var g errgroup.Group
	g.SetLimit(batchConcurrency)
	for i, item := range items {
		g.Go(func() error {
			out, err := s.Record(ctx, item.Categoria, item.Valor)
			results[i] = BatchResult{Categoria: item.Categoria, Outcome: out, Err: err}
			return nil
		})
	}
	_ = g.Wait()

	return results
}

// Delete removes a contribution record permanently.
func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.DeleteByID(ctx, id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return err
		}
		return fmt.Errorf("%w: deletar investimento %s: %v", domain.ErrWriteFailed, id, err)
	}
	s.logger.Info().Str("id", id.String()).Msg("investimento deletado")
	return nil
}

// keyedLocks hands out one mutex per category. The category set is closed
// and tiny, so the map never needs eviction.
type keyedLocks struct {
	mu sync.Mutex
	m  map[string]*sync.Mutex
}

func (k *keyedLocks) acquire(key string) (unlock func()) {
	k.mu.Lock()
	if k.m == nil {
		k.m = make(map[string]*sync.Mutex)
	}
	l, ok := k.m[key]
	if !ok {
		l = &sync.Mutex{}
		k.m[key] = l
	}
	k.mu.Unlock()

	l.Lock()
	return l.Unlock
}
