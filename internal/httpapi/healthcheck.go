package httpapi

import (
	"database/sql"
	"log/slog"
	"net/http"

	"renewables-dashboard/internal/utils"
)

type healthchecker interface {
	handleHealthz(w http.ResponseWriter, r *http.Request)
}

type healthcheckerImpl struct {
	db *sql.DB
}

func NewHealthchecker(db *sql.DB) healthchecker {
	return &healthcheckerImpl{db: db}
}

func (h *healthcheckerImpl) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if err := h.db.PingContext(r.Context()); err != nil {
		slog.Error("healthz: database unreachable", "error", err)
		utils.WriteError(w, http.StatusServiceUnavailable, "database unreachable")
		return
	}
	utils.WriteJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func registerHealthcheck(mux *http.ServeMux, db *sql.DB) {
	mux.HandleFunc("GET /healthz", NewHealthchecker(db).handleHealthz)
}
