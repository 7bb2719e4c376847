package controller

import (
	"log/slog"
	"net/http"

	"renewables-dashboard/internal/observability"
	"renewables-dashboard/internal/utils"
)

func (c *siteControllerImpl) handleStatistics(w http.ResponseWriter, r *http.Request) {
	stats, err := c.service.Statistics(r.Context())
	if err != nil {
		observability.SiteRequests.WithLabelValues("stat", observability.OutcomeError).Inc()
		slog.Error("statistics: load failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to compute statistics")
		return
	}
	observability.SiteRequests.WithLabelValues("stat", observability.OutcomeOK).Inc()
	utils.WriteJSON(w, http.StatusOK, stats)
}

func (c *siteControllerImpl) handleData(w http.ResponseWriter, r *http.Request) {
	sites, err := c.service.Network(r.Context())
	if err != nil {
		observability.SiteRequests.WithLabelValues("data", observability.OutcomeError).Inc()
		slog.Error("site data: load failed", "error", err)
		utils.WriteError(w, http.StatusInternalServerError, "failed to compute site network")
		return
	}
	observability.SiteRequests.WithLabelValues("data", observability.OutcomeOK).Inc()
	utils.WriteJSON(w, http.StatusOK, sites)
}

func (c *siteControllerImpl) handleSites(w http.ResponseWriter, r *http.Request) {
	sites, err := c.service.Sites(r.Context())
	if err != nil {
		utils.WriteError(w, http.StatusInternalServerError, err.Error())
		return
	}
	utils.WriteJSON(w, http.StatusOK, sites)
}
