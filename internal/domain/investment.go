package domain

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Categorias is the closed set of investment categories the tracker knows.
// The presentation layer renders exactly these six; anything else is rejected
// before it reaches the store.
var Categorias = []string{
	"Renda Fixa",
	"FIIs",
	"Ações",
	"ETFs",
	"Criptomoedas",
	"Tesouro",
}

// ValidCategoria reports whether categoria belongs to the closed set.
func ValidCategoria(categoria string) bool {
	for _, c := range Categorias {
		if c == categoria {
			return true
		}
	}
	return false
}

// InvestmentRecord is the running total of contributions for one category.
// At most one record exists per category; the store enforces it with a
// unique index on categoria.
type InvestmentRecord struct {
	ID         uuid.UUID
	Categoria  string
	Valor      decimal.Decimal
	DataAporte time.Time
}

// CategoryTotal is the read model behind the contributions-by-category chart.
type CategoryTotal struct {
	Categoria string
	Valor     decimal.Decimal
}

// YearlyNetWorth is a yearly total maintained outside this system's write
// path. Read-only here.
type YearlyNetWorth struct {
	Ano   int
	Valor decimal.Decimal
}
