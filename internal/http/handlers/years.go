package handlers

import (
	"net/http"
)

type yearItem struct {
	Ano   int     `json:"ano"`
	Valor float64 `json:"valor"`
}

// YearsList returns the yearly net worth totals, ascending by year.
func (a *App) YearsList(w http.ResponseWriter, r *http.Request) {
	years, err := a.Overview.NetWorthByYear(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("failed to load yearly net worth")
		a.jsonError(w, http.StatusInternalServerError, "Erro ao buscar anos de investimentos")
		return
	}

	items := make([]yearItem, 0, len(years))
	for _, y := range years {
		items = append(items, yearItem{Ano: y.Ano, Valor: y.Valor.InexactFloat64()})
	}
	a.json(w, http.StatusOK, items)
}
