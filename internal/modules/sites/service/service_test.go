package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"renewables-dashboard/internal/modules/sites/types"
	"renewables-dashboard/internal/mqtt"
	shared "renewables-dashboard/internal/shared/types"
)

type mockRepo struct {
	sites     []types.Site
	readings  []types.Reading
	readErr   error
	inserted  []shared.Observation
	insertErr error
}

func (m *mockRepo) GetSites(ctx context.Context) ([]types.Site, error) {
	return m.sites, m.readErr
}

func (m *mockRepo) LatestReadings(ctx context.Context) ([]types.Reading, error) {
	return m.readings, m.readErr
}

func (m *mockRepo) InsertObservation(ctx context.Context, obs shared.Observation) error {
	if m.insertErr != nil {
		return m.insertErr
	}
	m.inserted = append(m.inserted, obs)
	return nil
}

type fakeSubscriber struct {
	handler mqtt.MessageHandler
}

func (f *fakeSubscriber) SetMessageHandler(h mqtt.MessageHandler) { f.handler = h }

func discard() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func ptr(v float64) *float64 { return &v }

func TestStatistics(t *testing.T) {
	repo := &mockRepo{readings: []types.Reading{
		{Site: "A", WindSpeed: 2, Clouds: 10},
		{Site: "B", WindSpeed: 8, Clouds: 5},
		{Site: "C", WindSpeed: 5, Clouds: 30},
	}}
	svc := NewService(repo, 2, discard())

	got, err := svc.Statistics(context.Background())
	if err != nil {
		t.Fatalf("Statistics: %v", err)
	}
	if len(got.TopWind) != 2 || got.TopWind[0].Name != "B" || got.TopWind[1].Name != "C" {
		t.Errorf("TopWind = %+v; want B, C", got.TopWind)
	}
	if got.TopSolar[0].Name != "C" {
		t.Errorf("TopSolar[0] = %+v; want C", got.TopSolar[0])
	}
	if got.AverageWind != 5 {
		t.Errorf("AverageWind = %v; want 5", got.AverageWind)
	}
}

func TestStatistics_RepositoryError(t *testing.T) {
	svc := NewService(&mockRepo{readErr: errors.New("boom")}, 5, discard())
	if _, err := svc.Statistics(context.Background()); err == nil {
		t.Fatal("Statistics = nil error; want error")
	}
	if _, err := svc.Network(context.Background()); err == nil {
		t.Fatal("Network = nil error; want error")
	}
}

func TestNetwork(t *testing.T) {
	repo := &mockRepo{readings: []types.Reading{
		{Site: "A", Lat: 45, Lon: 25, WindSpeed: 4},
		{Site: "B", Lat: 46, Lon: 26, WindSpeed: 5},
	}}
	got, err := NewService(repo, 5, discard()).Network(context.Background())
	if err != nil {
		t.Fatalf("Network: %v", err)
	}
	if len(got) != 2 || got[0].Name != "A" || got[1].Name != "B" {
		t.Errorf("Network = %+v", got)
	}
}

func TestIngest_Validates(t *testing.T) {
	repo := &mockRepo{}
	svc := NewService(repo, 5, discard())

	err := svc.Ingest(context.Background(), shared.Observation{Site: "A", WindSpeed: ptr(1), Clouds: ptr(1)})
	if !errors.Is(err, shared.ErrInvalidObservation) {
		t.Fatalf("Ingest without timestamp = %v; want ErrInvalidObservation", err)
	}
	if len(repo.inserted) != 0 {
		t.Errorf("invalid observation reached the repository")
	}
}

func TestRegister(t *testing.T) {
	repo := &mockRepo{}
	sub := &fakeSubscriber{}
	NewService(repo, 5, discard()).Register(sub)

	if sub.handler == nil {
		t.Fatal("Register did not set a handler")
	}

	obs := shared.Observation{Site: "Pitesti", Timestamp: time.Now(), WindSpeed: ptr(3), Clouds: ptr(4)}
	if err := sub.handler(obs); err != nil {
		t.Fatalf("handler: %v", err)
	}
	if len(repo.inserted) != 1 || repo.inserted[0].Site != "Pitesti" {
		t.Errorf("inserted = %+v", repo.inserted)
	}

	repo.insertErr = errors.New("disk full")
	if err := sub.handler(obs); err == nil {
		t.Fatal("handler = nil; want repository error")
	}
}
