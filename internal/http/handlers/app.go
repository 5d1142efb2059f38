package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog"

	"aportes/internal/usecase/contribution"
	"aportes/internal/usecase/overview"
)

// App bundles the handler dependencies.
type App struct {
	Log           zerolog.Logger
	Contributions *contribution.Service
	Overview      *overview.Service
}

func NewApp(log zerolog.Logger, contributions *contribution.Service, overview *overview.Service) *App {
	return &App{Log: log, Contributions: contributions, Overview: overview}
}

func (a *App) json(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// jsonError writes the {"error": ...} body the front end expects on failures.
func (a *App) jsonError(w http.ResponseWriter, code int, msg string) {
	a.json(w, code, map[string]string{"error": msg})
}

// text writes the plain-text confirmation bodies the front end expects.
func (a *App) text(w http.ResponseWriter, code int, msg string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(code)
	_, _ = w.Write([]byte(msg))
}
