package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"aportes/internal/domain"
	"aportes/internal/usecase/contribution"
)

type contributionRequest struct {
	Categoria string      `json:"categoria"`
	Valor     json.Number `json:"valor"`
}

type categoryTotalItem struct {
	Categoria string  `json:"categoria"`
	Valor     float64 `json:"valor"`
}

type historyItem struct {
	ID         string  `json:"id"`
	Categoria  string  `json:"categoria"`
	Valor      float64 `json:"valor"`
	DataAporte string  `json:"dataaporte"`
}

// InvestmentsList returns one summed total per category.
func (a *App) InvestmentsList(w http.ResponseWriter, r *http.Request) {
	totals, err := a.Overview.ContributionsByCategory(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("failed to load investment totals")
		a.jsonError(w, http.StatusInternalServerError, "Erro ao buscar investimentos")
		return
	}

	items := make([]categoryTotalItem, 0, len(totals))
	for _, t := range totals {
		items = append(items, categoryTotalItem{Categoria: t.Categoria, Valor: t.Valor.InexactFloat64()})
	}
	a.json(w, http.StatusOK, items)
}

// InvestmentsHistory returns every record for the per-category history list.
func (a *App) InvestmentsHistory(w http.ResponseWriter, r *http.Request) {
	records, err := a.Overview.History(r.Context())
	if err != nil {
		a.Log.Error().Err(err).Msg("failed to load investment history")
		a.jsonError(w, http.StatusInternalServerError, "Erro ao buscar investimentos")
		return
	}

	items := make([]historyItem, 0, len(records))
	for _, rec := range records {
		items = append(items, historyItem{
			ID:         rec.ID.String(),
			Categoria:  rec.Categoria,
			Valor:      rec.Valor.InexactFloat64(),
			DataAporte: rec.DataAporte.Format("2006-01-02"),
		})
	}
	a.json(w, http.StatusOK, items)
}

// InvestmentsCreate applies one contribution to one category.
func (a *App) InvestmentsCreate(w http.ResponseWriter, r *http.Request) {
	var req contributionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		a.text(w, http.StatusBadRequest, "Categoria ou valor inválido")
		return
	}

	valor, err := decimal.NewFromString(req.Valor.String())
	if err != nil {
		a.text(w, http.StatusBadRequest, "Categoria ou valor inválido")
		return
	}

	out, err := a.Contributions.Record(r.Context(), req.Categoria, valor)
	if err != nil {
		a.Log.Error().Err(err).Str("categoria", req.Categoria).Msg("failed to record contribution")
		switch {
		case errors.Is(err, domain.ErrValidation):
			a.text(w, http.StatusBadRequest, "Categoria ou valor inválido")
		case errors.Is(err, domain.ErrLookupFailed):
			a.text(w, http.StatusInternalServerError, "Erro ao buscar investimento")
		default:
			a.text(w, http.StatusInternalServerError, "Erro ao adicionar o aporte")
		}
		return
	}

	if out.Created {
		a.text(w, http.StatusCreated, "Novo aporte criado com sucesso!")
		return
	}
	a.text(w, http.StatusOK, "Aporte adicionado com sucesso!")
}

// InvestmentsBatch applies up to one contribution per category, best-effort.
// Failures are reported as a single generic error, never per category.
func (a *App) InvestmentsBatch(w http.ResponseWriter, r *http.Request) {
	var reqs []contributionRequest
	if err := json.NewDecoder(r.Body).Decode(&reqs); err != nil {
		a.jsonError(w, http.StatusBadRequest, "Aportes inválidos")
		return
	}
	if len(reqs) == 0 || len(reqs) > len(domain.Categorias) {
		a.jsonError(w, http.StatusBadRequest, "Aportes inválidos")
		return
	}

	items := make([]contribution.Contribution, 0, len(reqs))
	total := decimal.Zero
	for _, req := range reqs {
		valor, err := decimal.NewFromString(req.Valor.String())
		if err != nil {
			a.jsonError(w, http.StatusBadRequest, "Aportes inválidos")
			return
		}
		items = append(items, contribution.Contribution{Categoria: req.Categoria, Valor: valor})
		total = total.Add(valor)
	}

	failed := false
	for _, res := range a.Contributions.RecordBatch(r.Context(), items) {
		if res.Err != nil {
			failed = true
			a.Log.Error().Err(res.Err).Str("categoria", res.Categoria).Msg("failed to record batch contribution")
		}
	}
	if failed {
		a.jsonError(w, http.StatusInternalServerError, "Erro ao adicionar os aportes")
		return
	}

	a.text(w, http.StatusOK, "Aportes de "+formatBRL(total)+" aplicados com sucesso!")
}

// InvestmentsDelete removes a record permanently.
func (a *App) InvestmentsDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		a.jsonError(w, http.StatusBadRequest, "Id inválido")
		return
	}

	if err := a.Contributions.Delete(r.Context(), id); err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			a.jsonError(w, http.StatusNotFound, "Investimento não encontrado")
			return
		}
		a.Log.Error().Err(err).Str("id", id.String()).Msg("failed to delete investment")
		a.jsonError(w, http.StatusInternalServerError, "Erro ao deletar investimento")
		return
	}

	a.text(w, http.StatusOK, "Investimento deletado com sucesso!")
}
