package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"aportes/internal/domain"
	"aportes/internal/usecase/contribution"
	"aportes/internal/usecase/overview"
)

// fakeInvestmentRepo is an in-memory InvestmentRepository with injectable failures.
type fakeInvestmentRepo struct {
	mu      sync.Mutex
	records map[string]*domain.InvestmentRecord

	findErr   error
	createErr error
	updateErr error
	sumErr    error
	listErr   error
	deleteErr error
}

func newFakeInvestmentRepo() *fakeInvestmentRepo {
	return &fakeInvestmentRepo{records: make(map[string]*domain.InvestmentRecord)}
}

func (f *fakeInvestmentRepo) seed(categoria string, valor string) uuid.UUID {
	f.mu.Lock()
	defer f.mu.Unlock()
	id := uuid.New()
	f.records[categoria] = &domain.InvestmentRecord{
		ID:         id,
		Categoria:  categoria,
		Valor:      decimal.RequireFromString(valor),
		DataAporte: time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC),
	}
	return id
}

func (f *fakeInvestmentRepo) FindByCategoria(ctx context.Context, categoria string) (*domain.InvestmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}
	rec, ok := f.records[categoria]
	if !ok {
		return nil, domain.ErrNotFound
	}
	clone := *rec
	return &clone, nil
}

func (f *fakeInvestmentRepo) Create(ctx context.Context, rec *domain.InvestmentRecord) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.createErr != nil {
		return uuid.Nil, f.createErr
	}
	stored := *rec
	stored.ID = uuid.New()
	f.records[rec.Categoria] = &stored
	return stored.ID, nil
}

func (f *fakeInvestmentRepo) UpdateValor(ctx context.Context, categoria string, valor decimal.Decimal, dataAporte time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.updateErr != nil {
		return f.updateErr
	}
	rec, ok := f.records[categoria]
	if !ok {
		return domain.ErrNotFound
	}
	rec.Valor = valor
	rec.DataAporte = dataAporte
	return nil
}

func (f *fakeInvestmentRepo) SumByCategoria(ctx context.Context) ([]domain.CategoryTotal, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sumErr != nil {
		return nil, f.sumErr
	}
	var totals []domain.CategoryTotal
	for _, rec := range f.records {
		totals = append(totals, domain.CategoryTotal{Categoria: rec.Categoria, Valor: rec.Valor})
	}
	return totals, nil
}

func (f *fakeInvestmentRepo) List(ctx context.Context) ([]domain.InvestmentRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var records []domain.InvestmentRecord
	for _, rec := range f.records {
		records = append(records, *rec)
	}
	return records, nil
}

func (f *fakeInvestmentRepo) DeleteByID(ctx context.Context, id uuid.UUID) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	for categoria, rec := range f.records {
		if rec.ID == id {
			delete(f.records, categoria)
			return nil
		}
	}
	return domain.ErrNotFound
}

type fakeNetWorthRepo struct {
	items []domain.YearlyNetWorth
	err   error
}

func (f *fakeNetWorthRepo) ListByAno(ctx context.Context) ([]domain.YearlyNetWorth, error) {
	return f.items, f.err
}

func newTestApp(investments *fakeInvestmentRepo, netWorth *fakeNetWorthRepo) *App {
	logger := zerolog.Nop()
	return NewApp(
		logger,
		contribution.NewService(investments, logger),
		overview.NewService(investments, netWorth),
	)
}

func TestInvestmentsList(t *testing.T) {
	repo := newFakeInvestmentRepo()
	repo.seed("FIIs", "100.00")
	app := newTestApp(repo, &fakeNetWorthRepo{})

	req := httptest.NewRequest(http.MethodGet, "/investimentos", nil)
	rec := httptest.NewRecorder()
	app.InvestmentsList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var items []struct {
		Categoria string  `json:"categoria"`
		Valor     float64 `json:"valor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(items) != 1 || items[0].Categoria != "FIIs" || items[0].Valor != 100.00 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestInvestmentsListStoreFailure(t *testing.T) {
	repo := newFakeInvestmentRepo()
	repo.sumErr = errors.New("connection refused")
	app := newTestApp(repo, &fakeNetWorthRepo{})

	req := httptest.NewRequest(http.MethodGet, "/investimentos", nil)
	rec := httptest.NewRecorder()
	app.InvestmentsList(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var body map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if body["error"] != "Erro ao buscar investimentos" {
		t.Fatalf("unexpected error body: %q", body["error"])
	}
}

func TestInvestmentsCreateNewCategory(t *testing.T) {
	repo := newFakeInvestmentRepo()
	app := newTestApp(repo, &fakeNetWorthRepo{})

	req := httptest.NewRequest(http.MethodPost, "/investimentos", strings.NewReader(`{"categoria":"FIIs","valor":100.00}`))
	rec := httptest.NewRecorder()
	app.InvestmentsCreate(rec, req)

	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusCreated, rec.Body.String())
	}
	if got := rec.Body.String(); got != "Novo aporte criado com sucesso!" {
		t.Fatalf("body = %q", got)
	}
	stored := repo.records["FIIs"]
	if stored == nil || !stored.Valor.Equal(decimal.RequireFromString("100.00")) {
		t.Fatalf("unexpected stored record: %+v", stored)
	}
}

func TestInvestmentsCreateIncrementsExisting(t *testing.T) {
	repo := newFakeInvestmentRepo()
	repo.seed("FIIs", "100.00")
	app := newTestApp(repo, &fakeNetWorthRepo{})

	req := httptest.NewRequest(http.MethodPost, "/investimentos", strings.NewReader(`{"categoria":"FIIs","valor":50.00}`))
	rec := httptest.NewRecorder()
	app.InvestmentsCreate(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Body.String(); got != "Aporte adicionado com sucesso!" {
		t.Fatalf("body = %q", got)
	}
	if !repo.records["FIIs"].Valor.Equal(decimal.RequireFromString("150.00")) {
		t.Fatalf("valor = %s, want 150.00", repo.records["FIIs"].Valor)
	}
}

func TestInvestmentsCreateRejectsBadInput(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"malformed json", `{"categoria":`},
		{"unknown categoria", `{"categoria":"Imóveis","valor":10.00}`},
		{"non-numeric valor", `{"categoria":"FIIs","valor":"abc"}`},
		{"zero valor", `{"categoria":"FIIs","valor":0}`},
		{"negative valor", `{"categoria":"FIIs","valor":-5}`},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeInvestmentRepo()
			app := newTestApp(repo, &fakeNetWorthRepo{})

			req := httptest.NewRequest(http.MethodPost, "/investimentos", strings.NewReader(tc.body))
			rec := httptest.NewRecorder()
			app.InvestmentsCreate(rec, req)

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
			}
			if len(repo.records) != 0 {
				t.Fatalf("store should stay untouched, got %d records", len(repo.records))
			}
		})
	}
}

func TestInvestmentsCreateLookupFailure(t *testing.T) {
	repo := newFakeInvestmentRepo()
	repo.findErr = errors.New("connection refused")
	app := newTestApp(repo, &fakeNetWorthRepo{})

	req := httptest.NewRequest(http.MethodPost, "/investimentos", strings.NewReader(`{"categoria":"FIIs","valor":100.00}`))
	rec := httptest.NewRecorder()
	app.InvestmentsCreate(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	if got := rec.Body.String(); got != "Erro ao buscar investimento" {
		t.Fatalf("body = %q", got)
	}
	if len(repo.records) != 0 {
		t.Fatal("no write should happen after a failed lookup")
	}
}

func TestInvestmentsBatch(t *testing.T) {
	repo := newFakeInvestmentRepo()
	app := newTestApp(repo, &fakeNetWorthRepo{})

	body := `[{"categoria":"FIIs","valor":100.00},{"categoria":"Tesouro","valor":50.00}]`
	req := httptest.NewRequest(http.MethodPost, "/investimentos/lote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.InvestmentsBatch(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Body.String(); !strings.Contains(got, "R$ 150,00") {
		t.Fatalf("body should carry the pt-BR formatted total, got %q", got)
	}
	if len(repo.records) != 2 {
		t.Fatalf("records = %d, want 2", len(repo.records))
	}
}

func TestInvestmentsBatchFailureIsGeneric(t *testing.T) {
	repo := newFakeInvestmentRepo()
	repo.createErr = errors.New("write timeout")
	app := newTestApp(repo, &fakeNetWorthRepo{})

	body := `[{"categoria":"FIIs","valor":100.00}]`
	req := httptest.NewRequest(http.MethodPost, "/investimentos/lote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.InvestmentsBatch(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
	var resp map[string]string
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if resp["error"] != "Erro ao adicionar os aportes" {
		t.Fatalf("unexpected error body: %q", resp["error"])
	}
}

func TestInvestmentsBatchRejectsOversized(t *testing.T) {
	repo := newFakeInvestmentRepo()
	app := newTestApp(repo, &fakeNetWorthRepo{})

	entries := make([]string, 0, 7)
	for range 7 {
		entries = append(entries, `{"categoria":"FIIs","valor":1.00}`)
	}
	body := "[" + strings.Join(entries, ",") + "]"
	req := httptest.NewRequest(http.MethodPost, "/investimentos/lote", strings.NewReader(body))
	rec := httptest.NewRecorder()
	app.InvestmentsBatch(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func deleteVia(app *App, target string) *httptest.ResponseRecorder {
	r := chi.NewRouter()
	r.Delete("/investimentos/{id}", app.InvestmentsDelete)
	req := httptest.NewRequest(http.MethodDelete, target, nil)
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func TestInvestmentsDelete(t *testing.T) {
	repo := newFakeInvestmentRepo()
	id := repo.seed("FIIs", "100.00")
	app := newTestApp(repo, &fakeNetWorthRepo{})

	rec := deleteVia(app, "/investimentos/"+id.String())

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d (body %q)", rec.Code, http.StatusOK, rec.Body.String())
	}
	if got := rec.Body.String(); got != "Investimento deletado com sucesso!" {
		t.Fatalf("body = %q", got)
	}
	if len(repo.records) != 0 {
		t.Fatal("record should be gone")
	}
}

func TestInvestmentsDeleteUnknownID(t *testing.T) {
	app := newTestApp(newFakeInvestmentRepo(), &fakeNetWorthRepo{})

	rec := deleteVia(app, "/investimentos/"+uuid.NewString())

	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusNotFound)
	}
}

func TestInvestmentsDeleteMalformedID(t *testing.T) {
	app := newTestApp(newFakeInvestmentRepo(), &fakeNetWorthRepo{})

	rec := deleteVia(app, "/investimentos/not-a-uuid")

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusBadRequest)
	}
}

func TestYearsList(t *testing.T) {
	netWorth := &fakeNetWorthRepo{items: []domain.YearlyNetWorth{
		{Ano: 2021, Valor: decimal.RequireFromString("500.00")},
		{Ano: 2022, Valor: decimal.RequireFromString("1000.00")},
	}}
	app := newTestApp(newFakeInvestmentRepo(), netWorth)

	req := httptest.NewRequest(http.MethodGet, "/anos_investimentos", nil)
	rec := httptest.NewRecorder()
	app.YearsList(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
	var items []struct {
		Ano   int     `json:"ano"`
		Valor float64 `json:"valor"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &items); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(items) != 2 || items[0].Ano != 2021 || items[1].Ano != 2022 {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestYearsListStoreFailure(t *testing.T) {
	netWorth := &fakeNetWorthRepo{err: errors.New("connection refused")}
	app := newTestApp(newFakeInvestmentRepo(), netWorth)

	req := httptest.NewRequest(http.MethodGet, "/anos_investimentos", nil)
	rec := httptest.NewRecorder()
	app.YearsList(rec, req)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusInternalServerError)
	}
}

func TestHealth(t *testing.T) {
	app := newTestApp(newFakeInvestmentRepo(), &fakeNetWorthRepo{})

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	rec := httptest.NewRecorder()
	app.Health(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", rec.Code, http.StatusOK)
	}
}
