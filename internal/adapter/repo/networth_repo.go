package repo

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"aportes/internal/domain"
	"aportes/internal/infra"
)

// NetWorthRepositoryPG implements NetWorthRepository using PostgreSQL.
// The table is maintained outside this service; read-only here.
type NetWorthRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewNetWorthRepository creates a new yearly net worth repo.
func NewNetWorthRepository(sql infra.SQLExecutor) *NetWorthRepositoryPG {
	return &NetWorthRepositoryPG{sql: sql}
}

// ListByAno returns all yearly totals ordered ascending by year.
func (r *NetWorthRepositoryPG) ListByAno(ctx context.Context) ([]domain.YearlyNetWorth, error) {
	rows, err := r.sql.Query(ctx, "list_anos_investimentos", `
SELECT ano, valor::text
FROM anos_investimentos
ORDER BY ano;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []domain.YearlyNetWorth
	for rows.Next() {
		var y domain.YearlyNetWorth
		var valorStr string
		if err := rows.Scan(&y.Ano, &valorStr); err != nil {
			return nil, err
		}
		if y.Valor, err = decimal.NewFromString(valorStr); err != nil {
			return nil, fmt.Errorf("parse valor: %w", err)
		}
		items = append(items, y)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return items, nil
}
