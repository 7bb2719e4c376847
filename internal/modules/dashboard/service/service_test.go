package service

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"renewables-dashboard/internal/modules/dashboard/client"
	"renewables-dashboard/internal/modules/dashboard/render"
	shared "renewables-dashboard/internal/shared/types"
)

// captureHandler records log records for assertions.
type captureHandler struct {
	mu      sync.Mutex
	records []slog.Record
}

func (h *captureHandler) Enabled(context.Context, slog.Level) bool { return true }

func (h *captureHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	h.records = append(h.records, r.Clone())
	h.mu.Unlock()
	return nil
}

func (h *captureHandler) WithAttrs([]slog.Attr) slog.Handler { return h }
func (h *captureHandler) WithGroup(string) slog.Handler      { return h }

func (h *captureHandler) errors() []slog.Record {
	h.mu.Lock()
	defer h.mu.Unlock()
	var out []slog.Record
	for _, r := range h.records {
		if r.Level == slog.LevelError {
			out = append(out, r)
		}
	}
	return out
}

func attr(r slog.Record, key string) string {
	var v string
	r.Attrs(func(a slog.Attr) bool {
		if a.Key == key {
			v = a.Value.String()
			return false
		}
		return true
	})
	return v
}

type fakeFetcher struct {
	stats    shared.StatisticsPayload
	statsErr error
	sites    []shared.SitePayload
	sitesErr error
	// block makes FetchStatistics wait until the map flow has finished.
	block chan struct{}
}

func (f *fakeFetcher) FetchStatistics(ctx context.Context) (shared.StatisticsPayload, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return shared.StatisticsPayload{}, ctx.Err()
		}
	}
	return f.stats, f.statsErr
}

func (f *fakeFetcher) FetchSites(ctx context.Context) ([]shared.SitePayload, error) {
	if f.block != nil {
		defer close(f.block)
	}
	return f.sites, f.sitesErr
}

func goodFetcher() *fakeFetcher {
	return &fakeFetcher{
		stats: shared.StatisticsPayload{
			TopWind:      []shared.WindEntry{{Name: "Constanta", WindSpeed: 9.3}},
			TopSolar:     []shared.SolarEntry{{Name: "Craiova", Clouds: 412.5}},
			AverageWind:  5.4321,
			AverageSolar: 230,
		},
		sites: []shared.SitePayload{
			{Name: "Site A", Lon: 26.1, Lat: 44.4, PageRank: 0.12345, Community: shared.CommunityID(2)},
		},
	}
}

func TestLoad_bothFlows(t *testing.T) {
	svc := NewService(goodFetcher(), slog.New(&captureHandler{}))

	page := svc.Load(context.Background())

	if len(page.Wind.Items) != 1 || page.Wind.Items[0] != "Constanta: 9.3 m/s" {
		t.Errorf("wind = %q", page.Wind.Items)
	}
	if page.AverageWind.Value != "5.43 m/s" {
		t.Errorf("average wind = %q", page.AverageWind.Value)
	}
	if page.Map.Figure == nil {
		t.Fatal("map not plotted")
	}
	if got := page.Map.Figure.Data[0].Text[0]; got != "Site A: PR 0.123 | Comm 2" {
		t.Errorf("label = %q", got)
	}
}

func TestLoad_flowsRunConcurrently(t *testing.T) {
	f := goodFetcher()
	f.block = make(chan struct{})
	svc := NewService(f, slog.New(&captureHandler{}))

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	page := svc.Load(ctx)

	if page.AverageWind.Value != "5.43 m/s" {
		t.Errorf("statistics flow did not complete after map flow: %q", page.AverageWind.Value)
	}
}

func TestLoad_statisticsStatusErrorIsContained(t *testing.T) {
	h := &captureHandler{}
	f := goodFetcher()
	f.statsErr = &client.StatusError{Endpoint: "/stat", Code: 503, Status: "503 Service Unavailable"}
	svc := NewService(f, slog.New(h))

	page := svc.Load(context.Background())

	if len(page.Wind.Items) != 0 || len(page.Solar.Items) != 0 {
		t.Errorf("lists = %q, %q; want empty", page.Wind.Items, page.Solar.Items)
	}
	if page.AverageWind.Value != render.Unavailable || page.AverageSolar.Value != render.Unavailable {
		t.Errorf("averages = %q, %q; want placeholder", page.AverageWind.Value, page.AverageSolar.Value)
	}
	if page.Map.Figure == nil {
		t.Error("map flow affected by statistics failure")
	}

	errs := h.errors()
	if len(errs) != 1 {
		t.Fatalf("error logs = %d; want 1", len(errs))
	}
	if attr(errs[0], "flow") != "statistics" {
		t.Errorf("flow attr = %q", attr(errs[0], "flow"))
	}
}

func TestLoad_mapFailureIsContained(t *testing.T) {
	h := &captureHandler{}
	f := goodFetcher()
	f.sitesErr = client.ErrMalformedPayload
	svc := NewService(f, slog.New(h))

	page := svc.Load(context.Background())

	if page.Map.Figure != nil || page.Map.Placeholder != render.Unavailable {
		t.Errorf("map = %+v; want placeholder", page.Map)
	}
	if page.AverageWind.Value != "5.43 m/s" {
		t.Errorf("statistics flow affected by map failure: %q", page.AverageWind.Value)
	}
	if errs := h.errors(); len(errs) != 1 || attr(errs[0], "flow") != "map" {
		t.Errorf("error logs = %v", errs)
	}
}

func TestFigure(t *testing.T) {
	svc := NewService(goodFetcher(), slog.New(&captureHandler{}))
	fig, err := svc.Figure(context.Background())
	if err != nil {
		t.Fatalf("Figure: %v", err)
	}
	if len(fig.Data) != 1 || len(fig.Data[0].Lon) != 1 {
		t.Errorf("figure = %+v", fig)
	}

	f := goodFetcher()
	f.sitesErr = client.ErrNetwork
	_, err = NewService(f, slog.New(&captureHandler{})).Figure(context.Background())
	if !errors.Is(err, client.ErrNetwork) {
		t.Errorf("Figure err = %v; want ErrNetwork", err)
	}
}

func TestRunFlow_recoversPanic(t *testing.T) {
	h := &captureHandler{}
	fallbackCalled := false

	err := runFlow(context.Background(), slog.New(h), "test",
		func(context.Context) (int, error) { return 1, nil },
		func(int) { panic("slot missing") },
		func() { fallbackCalled = true },
	)

	if err == nil {
		t.Fatal("runFlow = nil; want error from panic")
	}
	if !fallbackCalled {
		t.Error("fallback not called")
	}
	if len(h.errors()) != 1 {
		t.Errorf("error logs = %d; want 1", len(h.errors()))
	}
}

func TestLoadStatistics_refreshReplaces(t *testing.T) {
	svc := NewService(goodFetcher(), slog.New(&captureHandler{}))
	page := render.NewPage()

	for i := 0; i < 3; i++ {
		if err := svc.LoadStatistics(context.Background(), page.StatisticsSlots()); err != nil {
			t.Fatalf("LoadStatistics: %v", err)
		}
	}
	if len(page.Wind.Items) != 1 {
		t.Errorf("wind items after 3 loads = %d; want 1", len(page.Wind.Items))
	}
}
