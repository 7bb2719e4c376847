package dashboard

import (
	"log/slog"
	"net/http"

	"renewables-dashboard/internal/config"
	"renewables-dashboard/internal/modules/dashboard/client"
	"renewables-dashboard/internal/modules/dashboard/controller"
	"renewables-dashboard/internal/modules/dashboard/service"
)

// RegisterFeature mounts the dashboard page, its statistics partial and the
// map figure endpoint. Templates must already be loaded.
func RegisterFeature(mux *http.ServeMux, cfg config.Config, logger *slog.Logger) {
	upstream := client.NewClient(cfg, logger)
	dashboardService := service.NewService(upstream, logger)
	controller.NewDashboardController(dashboardService).RegisterRoutes(mux)
}
