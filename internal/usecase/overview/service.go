package overview

import (
	"context"
	"fmt"

	"aportes/internal/domain"
)

// Service produces the display-ready summaries behind the two charts and
// the history list. Pure pass-through formatting; store failures surface as
// a single "data unavailable" error.
type Service struct {
	investments domain.InvestmentRepository
	netWorth    domain.NetWorthRepository
}

// NewService creates a new overview service.
func NewService(investments domain.InvestmentRepository, netWorth domain.NetWorthRepository) *Service {
	return &Service{investments: investments, netWorth: netWorth}
}

// ContributionsByCategory sums amounts across records sharing a category.
func (s *Service) ContributionsByCategory(ctx context.Context) ([]domain.CategoryTotal, error) {
	totals, err := s.investments.SumByCategoria(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: somar investimentos: %v", domain.ErrStoreUnavailable, err)
	}
	return totals, nil
}

// NetWorthByYear returns yearly totals ordered ascending by year.
func (s *Service) NetWorthByYear(ctx context.Context) ([]domain.YearlyNetWorth, error) {
	items, err := s.netWorth.ListByAno(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: buscar anos de investimentos: %v", domain.ErrStoreUnavailable, err)
	}
	return items, nil
}

// History returns every contribution record for the per-category list.
func (s *Service) History(ctx context.Context) ([]domain.InvestmentRecord, error) {
	records, err := s.investments.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: listar investimentos: %v", domain.ErrStoreUnavailable, err)
	}
	return records, nil
}
