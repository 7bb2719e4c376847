package sites

import (
	"database/sql"
	"log/slog"
	"net/http"

	"renewables-dashboard/internal/modules/sites/controller"
	"renewables-dashboard/internal/modules/sites/repository"
	"renewables-dashboard/internal/modules/sites/service"
	"renewables-dashboard/internal/mqtt"
)

// RegisterFeature mounts the site data endpoints. A nil subscriber skips
// MQTT ingest.
func RegisterFeature(mux *http.ServeMux, db *sql.DB, subscriber mqtt.MQTTSubscriber, topN int, logger *slog.Logger) *service.Service {
	siteRepository := repository.NewRepository(db)
	siteService := service.NewService(siteRepository, topN, logger)
	if subscriber != nil {
		siteService.Register(subscriber)
	}
	controller.NewSiteController(siteService).RegisterRoutes(mux)
	return siteService
}
