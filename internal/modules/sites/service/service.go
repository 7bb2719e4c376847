package service

import (
	"context"
	"log/slog"
	"time"

	"renewables-dashboard/internal/modules/sites/analysis"
	"renewables-dashboard/internal/modules/sites/repository"
	"renewables-dashboard/internal/modules/sites/types"
	"renewables-dashboard/internal/mqtt"
	"renewables-dashboard/internal/observability"
	shared "renewables-dashboard/internal/shared/types"
)

const ingestTimeout = 5 * time.Second

type Service struct {
	repository repository.SiteRepository
	topN       int
	logger     *slog.Logger
}

func NewService(repository repository.SiteRepository, topN int, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{repository: repository, topN: topN, logger: logger}
}

// Statistics ranks the latest reading of every site.
func (s *Service) Statistics(ctx context.Context) (shared.StatisticsPayload, error) {
	readings, err := s.repository.LatestReadings(ctx)
	if err != nil {
		return shared.StatisticsPayload{}, err
	}
	return analysis.Statistics(readings, s.topN), nil
}

// Network scores the latest reading of every site.
func (s *Service) Network(ctx context.Context) ([]shared.SitePayload, error) {
	readings, err := s.repository.LatestReadings(ctx)
	if err != nil {
		return nil, err
	}
	return analysis.Network(readings), nil
}

func (s *Service) Sites(ctx context.Context) ([]types.Site, error) {
	return s.repository.GetSites(ctx)
}

// Ingest validates and stores one observation.
func (s *Service) Ingest(ctx context.Context, obs shared.Observation) error {
	if err := obs.Validate(); err != nil {
		return err
	}
	return s.repository.InsertObservation(ctx, obs)
}

// Register attaches the observation handler to the MQTT subscriber.
func (s *Service) Register(subscriber mqtt.MQTTSubscriber) {
	subscriber.SetMessageHandler(func(obs shared.Observation) error {
		ctx, cancel := context.WithTimeout(context.Background(), ingestTimeout)
		defer cancel()

		if err := s.Ingest(ctx, obs); err != nil {
			observability.ObservationsIngested.WithLabelValues(observability.OutcomeError).Inc()
			s.logger.Error("failed to store observation", "site", obs.Site, "error", err)
			return err
		}
		observability.ObservationsIngested.WithLabelValues(observability.OutcomeOK).Inc()
		s.logger.Debug("stored observation", "site", obs.Site, "timestamp", obs.Timestamp)
		return nil
	})
}
