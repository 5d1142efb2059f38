package domain

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// InvestmentRepository defines persistence for contribution records.
type InvestmentRepository interface {
	// FindByCategoria returns the record for a category, or ErrNotFound.
	// Duplicate rows (a store inconsistency) are merged defensively.
	FindByCategoria(ctx context.Context, categoria string) (*InvestmentRecord, error)
	// Create inserts a new record and returns the store-assigned id.
	// Returns ErrDuplicateCategoria when the unique index rejects the row.
	Create(ctx context.Context, rec *InvestmentRecord) (uuid.UUID, error)
	// UpdateValor sets the running total and refreshes the contribution date.
	UpdateValor(ctx context.Context, categoria string, valor decimal.Decimal, dataAporte time.Time) error
	SumByCategoria(ctx context.Context) ([]CategoryTotal, error)
	List(ctx context.Context) ([]InvestmentRecord, error)
	DeleteByID(ctx context.Context, id uuid.UUID) error
}

// NetWorthRepository reads the yearly totals table.
type NetWorthRepository interface {
	// ListByAno returns all rows ordered ascending by year.
	ListByAno(ctx context.Context) ([]YearlyNetWorth, error)
}
