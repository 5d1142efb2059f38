package handlers

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var ptBR = message.NewPrinter(language.BrazilianPortuguese)

// formatBRL renders a monetary amount with Brazilian separators (R$ 1.234,56).
func formatBRL(v decimal.Decimal) string {
	return ptBR.Sprintf("R$ %v", number.Decimal(v.InexactFloat64(), number.Scale(2)))
}
