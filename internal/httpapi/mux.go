package httpapi

import (
	"database/sql"
	"net/http"

	"renewables-dashboard/internal/observability"
)

// NewMux returns a mux with the operational endpoints mounted. Feature
// modules register their own routes on it.
func NewMux(db *sql.DB) *http.ServeMux {
	mux := http.NewServeMux()
	registerHealthcheck(mux, db)
	mux.Handle("GET /metrics", observability.MetricsHandler())
	return mux
}
