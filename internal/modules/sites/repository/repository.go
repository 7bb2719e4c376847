package repository

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"renewables-dashboard/internal/modules/sites/types"
	shared "renewables-dashboard/internal/shared/types"
)

//go:embed sql/get-sites.sql
var getSitesSQL string

//go:embed sql/get-latest-readings.sql
var getLatestReadingsSQL string

//go:embed sql/upsert-site.sql
var upsertSiteSQL string

//go:embed sql/get-site-id-by-name.sql
var getSiteIDByNameSQL string

//go:embed sql/insert-observation.sql
var insertObservationSQL string

// observedAtLayout is fixed-width so observed_at sorts lexicographically.
const observedAtLayout = "2006-01-02T15:04:05.000000000Z07:00"

// ErrUnknownSite is returned when an observation names a site that does not
// exist and carries no coordinates to create it.
var ErrUnknownSite = errors.New("unknown site")

type SiteRepository interface {
	GetSites(ctx context.Context) ([]types.Site, error)
	LatestReadings(ctx context.Context) ([]types.Reading, error)
	InsertObservation(ctx context.Context, obs shared.Observation) error
}

type repositoryImpl struct {
	db *sql.DB
}

func NewRepository(db *sql.DB) SiteRepository {
	return &repositoryImpl{db: db}
}

func (r *repositoryImpl) GetSites(ctx context.Context) ([]types.Site, error) {
	rows, err := r.db.QueryContext(ctx, getSitesSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close sites rows", "error", err)
		}
	}()
	out := []types.Site{}
	for rows.Next() {
		var s types.Site
		if err := rows.Scan(&s.Name, &s.Lat, &s.Lon); err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, rows.Err()
}

func (r *repositoryImpl) LatestReadings(ctx context.Context) ([]types.Reading, error) {
	rows, err := r.db.QueryContext(ctx, getLatestReadingsSQL)
	if err != nil {
		return nil, err
	}
	defer func() {
		if err := rows.Close(); err != nil {
			slog.Error("close latest readings rows", "error", err)
		}
	}()
	out := []types.Reading{}
	for rows.Next() {
		var rec types.Reading
		var ts string
		if err := rows.Scan(&rec.Site, &rec.Lat, &rec.Lon, &ts, &rec.WindSpeed, &rec.Clouds); err != nil {
			return nil, err
		}
		t, err := time.Parse(time.RFC3339Nano, ts)
		if err != nil {
			return nil, fmt.Errorf("parse observed_at %q: %w", ts, err)
		}
		rec.ObservedAt = t
		out = append(out, rec)
	}
	return out, rows.Err()
}

// InsertObservation stores one observation. When the observation carries
// coordinates the site is created or moved; otherwise the site must exist.
func (r *repositoryImpl) InsertObservation(ctx context.Context, obs shared.Observation) error {
	if obs.WindSpeed == nil || obs.Clouds == nil {
		return errors.New("insert observation: wind_speed and clouds are required")
	}
	if (obs.Lat == nil) != (obs.Lon == nil) {
		return errors.New("insert observation: lat and lon must be given together")
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if obs.Lat != nil {
		if _, err := tx.ExecContext(ctx, upsertSiteSQL, obs.Site, *obs.Lat, *obs.Lon); err != nil {
			return fmt.Errorf("upsert site %q: %w", obs.Site, err)
		}
	}

	var siteID int64
	if err := tx.QueryRowContext(ctx, getSiteIDByNameSQL, obs.Site).Scan(&siteID); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("%w: %q", ErrUnknownSite, obs.Site)
		}
		return fmt.Errorf("lookup site %q: %w", obs.Site, err)
	}

	ts := obs.Timestamp.UTC().Format(observedAtLayout)
	if _, err := tx.ExecContext(ctx, insertObservationSQL, siteID, ts, *obs.WindSpeed, *obs.Clouds); err != nil {
		return fmt.Errorf("insert observation: %w", err)
	}

	return tx.Commit()
}
