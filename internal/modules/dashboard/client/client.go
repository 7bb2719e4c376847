package client

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"renewables-dashboard/internal/config"
	"renewables-dashboard/internal/observability"
	shared "renewables-dashboard/internal/shared/types"
)

const maxBodyBytes = 8 << 20

// Client fetches dashboard payloads from the upstream endpoints. Every
// request runs under its own deadline derived from the caller's context.
type Client struct {
	httpClient *http.Client
	baseURL    string
	statPath   string
	dataPath   string
	timeout    time.Duration
	logger     *slog.Logger
}

func NewClient(cfg config.Config, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Transport: otelhttp.NewTransport(http.DefaultTransport)},
		baseURL:    cfg.UpstreamBaseURL,
		statPath:   cfg.StatPath,
		dataPath:   cfg.DataPath,
		timeout:    cfg.FetchTimeout,
		logger:     logger,
	}
}

func (c *Client) FetchStatistics(ctx context.Context) (shared.StatisticsPayload, error) {
	return fetch(ctx, c, c.statPath, ParseStatistics)
}

func (c *Client) FetchSites(ctx context.Context) ([]shared.SitePayload, error) {
	return fetch(ctx, c, c.dataPath, ParseSites)
}

func fetch[T any](ctx context.Context, c *Client, path string, parse func([]byte) (T, error)) (T, error) {
	var zero T
	start := time.Now()
	body, err := c.get(ctx, path)
	observability.UpstreamFetchDuration.WithLabelValues(path).Observe(time.Since(start).Seconds())
	if err != nil {
		observability.UpstreamFetches.WithLabelValues(path, fetchOutcome(err)).Inc()
		return zero, err
	}

	payload, err := parse(body)
	if err != nil {
		observability.UpstreamFetches.WithLabelValues(path, fetchOutcome(err)).Inc()
		return zero, err
	}
	observability.UpstreamFetches.WithLabelValues(path, observability.OutcomeOK).Inc()
	return payload, nil
}

func (c *Client) get(ctx context.Context, path string) ([]byte, error) {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("build request %s: %w", url, err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: GET %s: %w", ErrNetwork, path, err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			c.logger.Debug("close upstream body", "path", path, "error", err)
		}
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, &StatusError{Endpoint: path, Code: resp.StatusCode, Status: resp.Status}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("%w: read %s: %w", ErrNetwork, path, err)
	}
	if len(body) > maxBodyBytes {
		return nil, fmt.Errorf("%w: %s body exceeds %d bytes", ErrMalformedPayload, path, maxBodyBytes)
	}
	return body, nil
}

func fetchOutcome(err error) string {
	var statusErr *StatusError
	switch {
	case errors.As(err, &statusErr):
		return "status"
	case errors.Is(err, ErrNetwork):
		return "network"
	case errors.Is(err, ErrMalformedPayload):
		return "malformed"
	default:
		return observability.OutcomeError
	}
}
