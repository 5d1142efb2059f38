package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"aportes/internal/domain"
	"aportes/internal/infra"
)

const pgUniqueViolation = "23505"

// InvestmentRepositoryPG implements InvestmentRepository using PostgreSQL.
type InvestmentRepositoryPG struct {
	sql    infra.SQLExecutor
	logger zerolog.Logger
}

// NewInvestmentRepository creates a new investment repo.
func NewInvestmentRepository(sql infra.SQLExecutor, logger zerolog.Logger) *InvestmentRepositoryPG {
	return &InvestmentRepositoryPG{sql: sql, logger: logger}
}

// FindByCategoria returns the single record for a category. The unique index
// should make more than one row impossible; if the store disagrees, the rows
// are merged into one view (summed valor, newest date) and a warning logged.
func (r *InvestmentRepositoryPG) FindByCategoria(ctx context.Context, categoria string) (*domain.InvestmentRecord, error) {
	rows, err := r.sql.Query(ctx, "find_investimento", `
SELECT id, categoria, valor::text, dataaporte
FROM investimentos
WHERE categoria = $1
ORDER BY dataaporte DESC;
`, categoria)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.InvestmentRecord
	for rows.Next() {
		rec, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	switch len(records) {
	case 0:
		return nil, domain.ErrNotFound
	case 1:
		return &records[0], nil
	}

	r.logger.Warn().Str("categoria", categoria).Int("rows", len(records)).
		Msg("store inconsistency: duplicate rows for categoria, merging")
	merged := records[0]
	for _, rec := range records[1:] {
		merged.Valor = merged.Valor.Add(rec.Valor)
	}
	return &merged, nil
}

// Create inserts a new record and returns the store-assigned id.
func (r *InvestmentRepositoryPG) Create(ctx context.Context, rec *domain.InvestmentRecord) (uuid.UUID, error) {
	row := r.sql.QueryRow(ctx, "create_investimento", `
INSERT INTO investimentos (categoria, valor, dataaporte)
VALUES ($1, $2, $3)
RETURNING id;
`, rec.Categoria, rec.Valor.String(), rec.DataAporte)

	var id uuid.UUID
	if err := row.Scan(&id); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == pgUniqueViolation {
			return uuid.Nil, domain.ErrDuplicateCategoria
		}
		return uuid.Nil, err
	}
	return id, nil
}

// UpdateValor sets the running total and refreshes the contribution date.
func (r *InvestmentRepositoryPG) UpdateValor(ctx context.Context, categoria string, valor decimal.Decimal, dataAporte time.Time) error {
	tag, err := r.sql.Exec(ctx, "update_investimento", `
UPDATE investimentos
SET valor = $2, dataaporte = $3
WHERE categoria = $1;
`, categoria, valor.String(), dataAporte)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// SumByCategoria returns the grouped totals behind the category chart.
func (r *InvestmentRepositoryPG) SumByCategoria(ctx context.Context) ([]domain.CategoryTotal, error) {
	rows, err := r.sql.Query(ctx, "sum_investimentos", `
SELECT categoria, SUM(valor)::text
FROM investimentos
GROUP BY categoria
ORDER BY categoria;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var totals []domain.CategoryTotal
	for rows.Next() {
		var t domain.CategoryTotal
		var valorStr string
		if err := rows.Scan(&t.Categoria, &valorStr); err != nil {
			return nil, err
		}
		if t.Valor, err = decimal.NewFromString(valorStr); err != nil {
			return nil, fmt.Errorf("parse valor: %w", err)
		}
		totals = append(totals, t)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return totals, nil
}

// List returns every record ordered for the history view.
func (r *InvestmentRepositoryPG) List(ctx context.Context) ([]domain.InvestmentRecord, error) {
	rows, err := r.sql.Query(ctx, "list_investimentos", `
SELECT id, categoria, valor::text, dataaporte
FROM investimentos
ORDER BY categoria, dataaporte;
`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []domain.InvestmentRecord
	for rows.Next() {
		rec, err := scanInvestment(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

// DeleteByID removes a record permanently.
func (r *InvestmentRepositoryPG) DeleteByID(ctx context.Context, id uuid.UUID) error {
	tag, err := r.sql.Exec(ctx, "delete_investimento", `
DELETE FROM investimentos
WHERE id = $1;
`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

func scanInvestment(rows pgx.Rows) (domain.InvestmentRecord, error) {
	var rec domain.InvestmentRecord
	var valorStr string
	if err := rows.Scan(&rec.ID, &rec.Categoria, &valorStr, &rec.DataAporte); err != nil {
		return rec, err
	}
	valor, err := decimal.NewFromString(valorStr)
	if err != nil {
		return rec, fmt.Errorf("parse valor: %w", err)
	}
	rec.Valor = valor
	return rec, nil
}
