package controller

import (
	"context"
	"net/http"

	"renewables-dashboard/internal/modules/dashboard/render"
)

const pageTitle = "Renewable Sites"

// DashboardService runs the statistics and map flows.
type DashboardService interface {
	Load(ctx context.Context) *render.Page
	LoadStatistics(ctx context.Context, slots render.StatisticsSlots) error
	Figure(ctx context.Context) (render.Figure, error)
}

type DashboardController interface {
	RegisterRoutes(mux *http.ServeMux)
}

type dashboardControllerImpl struct {
	service DashboardService
}

func NewDashboardController(service DashboardService) DashboardController {
	return &dashboardControllerImpl{service: service}
}

func (c *dashboardControllerImpl) RegisterRoutes(mux *http.ServeMux) {
	mux.HandleFunc("GET /{$}", c.handleDashboard)
	mux.HandleFunc("GET /partials/statistics", c.handleStatisticsPartial)
	mux.HandleFunc("GET /api/v1/map", c.handleMap)
}
