package controller

import (
	"context"
	"net/http"

	"renewables-dashboard/internal/modules/sites/types"
	shared "renewables-dashboard/internal/shared/types"
)

// SiteService is the part of the sites service the HTTP layer needs.
type SiteService interface {
	Statistics(ctx context.Context) (shared.StatisticsPayload, error)
	Network(ctx context.Context) ([]shared.SitePayload, error)
	Sites(ctx context.Context) ([]types.Site, error)
}

type SiteController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type siteControllerImpl struct {
	service SiteService
}

func NewSiteController(service SiteService) SiteController {
	return &siteControllerImpl{service: service}
}

func (c *siteControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /stat", c.handleStatistics)
	mux.HandleFunc("GET /data", c.handleData)
	mux.HandleFunc("GET /api/v1/sites", c.handleSites)
}
