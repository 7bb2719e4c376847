package controller

import (
	"io"
	"log/slog"
	"net/http"

	"renewables-dashboard/internal/modules/dashboard/render"
	"renewables-dashboard/internal/modules/dashboard/views"
	"renewables-dashboard/internal/utils"
)

func (c *dashboardControllerImpl) handleDashboard(w http.ResponseWriter, r *http.Request) {
	page := c.service.Load(r.Context())
	data := &views.DashboardData{Title: pageTitle, Page: page}
	if err := utils.WriteHTML(w, http.StatusOK, func(out io.Writer) error {
		return views.RenderDashboard(out, data)
	}); err != nil {
		slog.Error("dashboard template render failed", "error", err)
	}
}

// handleStatisticsPartial re-runs only the statistics flow into fresh
// slots, so a refresh never duplicates entries.
func (c *dashboardControllerImpl) handleStatisticsPartial(w http.ResponseWriter, r *http.Request) {
	page := render.NewPage()
	_ = c.service.LoadStatistics(r.Context(), page.StatisticsSlots())
	if err := utils.WriteHTML(w, http.StatusOK, func(out io.Writer) error {
		return views.RenderStatisticsPartial(out, page)
	}); err != nil {
		slog.Error("statistics partial render failed", "error", err)
	}
}

func (c *dashboardControllerImpl) handleMap(w http.ResponseWriter, r *http.Request) {
	fig, err := c.service.Figure(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusBadGateway, render.Unavailable)
		return
	}
	utils.WriteJSON(w, http.StatusOK, fig)
}
