package service

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	"renewables-dashboard/internal/modules/dashboard/render"
	"renewables-dashboard/internal/observability"
	shared "renewables-dashboard/internal/shared/types"
)

const (
	flowStatistics = "statistics"
	flowMap        = "map"
)

// Fetcher is the upstream the dashboard reads from.
type Fetcher interface {
	FetchStatistics(ctx context.Context) (shared.StatisticsPayload, error)
	FetchSites(ctx context.Context) ([]shared.SitePayload, error)
}

type Service struct {
	fetcher Fetcher
	logger  *slog.Logger
}

func NewService(fetcher Fetcher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{fetcher: fetcher, logger: logger}
}

// Load runs both flows concurrently and returns the filled page. Flow
// failures are contained: they are logged and leave a placeholder.
func (s *Service) Load(ctx context.Context) *render.Page {
	page := render.NewPage()

	var g errgroup.Group
	g.Go(func() error {
		_ = s.LoadStatistics(ctx, page.StatisticsSlots())
		return nil
	})
	g.Go(func() error {
		_ = s.LoadMap(ctx, page.Map)
		return nil
	})
	_ = g.Wait()

	return page
}

// LoadStatistics fetches /stat and replaces the contents of slots.
func (s *Service) LoadStatistics(ctx context.Context, slots render.StatisticsSlots) error {
	return runFlow(ctx, s.logger, flowStatistics,
		s.fetcher.FetchStatistics,
		func(p shared.StatisticsPayload) { render.RenderStatistics(p, slots) },
		func() { render.StatisticsUnavailable(slots) },
	)
}

// LoadMap fetches /data and plots it into plot.
func (s *Service) LoadMap(ctx context.Context, plot *render.Plot) error {
	return runFlow(ctx, s.logger, flowMap,
		s.fetcher.FetchSites,
		func(sites []shared.SitePayload) { render.RenderMap(sites, plot) },
		func() { render.MapUnavailable(plot) },
	)
}

// Figure fetches /data and builds the map figure without a slot.
func (s *Service) Figure(ctx context.Context) (render.Figure, error) {
	var fig render.Figure
	err := runFlow(ctx, s.logger, flowMap,
		s.fetcher.FetchSites,
		func(sites []shared.SitePayload) { fig = render.BuildFigure(sites) },
		nil,
	)
	return fig, err
}

// runFlow is the single fetch-then-render path shared by every flow. It
// never panics: fetch errors and panics in draw are logged, counted and
// returned, and fallback marks the slots as unavailable.
func runFlow[T any](ctx context.Context, logger *slog.Logger, flow string, fetch func(context.Context) (T, error), draw func(T), fallback func()) (err error) {
	ctx, span := otel.Tracer("dashboard").Start(ctx, "dashboard."+flow)
	span.SetAttributes(attribute.String("dashboard.flow", flow))
	defer span.End()

	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%s flow: render panic: %v", flow, r)
		}
		if err == nil {
			span.SetStatus(codes.Ok, "flow rendered")
			observability.FlowRuns.WithLabelValues(flow, observability.OutcomeOK).Inc()
			return
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "flow failed")
		observability.FlowRuns.WithLabelValues(flow, observability.OutcomeError).Inc()
		logger.Error("dashboard flow failed", "flow", flow, "error", err)
		if fallback != nil {
			fallback()
		}
	}()

	payload, err := fetch(ctx)
	if err != nil {
		return fmt.Errorf("%s flow: %w", flow, err)
	}
	draw(payload)
	return nil
}
