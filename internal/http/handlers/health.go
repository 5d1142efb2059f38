package handlers

import (
	"net/http"
)

// Health answers liveness probes. It does not touch the store; a degraded
// database surfaces on the data routes, not here.
func (a *App) Health(w http.ResponseWriter, r *http.Request) {
	a.json(w, http.StatusOK, map[string]string{"status": "ok"})
}
