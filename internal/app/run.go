package app

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"renewables-dashboard/internal/config"
	"renewables-dashboard/internal/db"
	"renewables-dashboard/internal/httpapi"
	"renewables-dashboard/internal/migrate"
	"renewables-dashboard/internal/modules/dashboard"
	dashboardviews "renewables-dashboard/internal/modules/dashboard/views"
	"renewables-dashboard/internal/modules/sites"
	"renewables-dashboard/internal/mqtt"
)

// Run wires storage, MQTT ingest and the HTTP server, and blocks until ctx
// is cancelled or the server fails.
func Run(ctx context.Context, cfg config.Config, logger *slog.Logger) error {
	slog.Info("config loaded",
		"appEnv", cfg.AppEnv,
		"logLevel", cfg.LogLevel.String(),
		"httpAddr", cfg.HTTPAddr,
		"upstreamBaseURL", cfg.UpstreamBaseURL,
		"statPath", cfg.StatPath,
		"dataPath", cfg.DataPath,
		"fetchTimeout", cfg.FetchTimeout,
		"topN", cfg.TopN,
		"sqliteDriver", cfg.SQLiteDriver,
		"sqlitePath", cfg.SQLitePath,
		"sqliteMaxOpenConns", cfg.SQLiteMaxOpenConns,
		"mqttEnabled", cfg.MQTTEnabled,
		"mqttBroker", cfg.MQTTBroker,
		"mqttPort", cfg.MQTTPort,
		"mqttTopic", cfg.MQTTTopic,
		"tracingEnabled", cfg.TracingEnabled,
	)

	dbConn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(dbConn); closeErr != nil {
			slog.Error("db close", "error", closeErr)
		}
	}()

	if err := migrate.Run(ctx, dbConn); err != nil {
		return err
	}
	slog.Info("database ready")

	if err := dashboardviews.LoadTemplates(); err != nil {
		return err
	}

	mux := httpapi.NewMux(dbConn)

	var subscriber *mqtt.Subscriber
	if cfg.MQTTEnabled {
		subscriber = mqtt.NewSubscriber(cfg, logger)
		// Handler is attached before Connect so no message arrives unhandled.
		sites.RegisterFeature(mux, dbConn, subscriber, cfg.TopN, logger)
	} else {
		sites.RegisterFeature(mux, dbConn, nil, cfg.TopN, logger)
	}
	dashboard.RegisterFeature(mux, cfg, logger)

	if subscriber != nil {
		// Short timeout so a missing broker does not block startup.
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		err = subscriber.Connect(connectCtx)
		connectCancel()
		if err != nil {
			slog.Warn("mqtt connection failed (continuing without mqtt)", "error", err)
		}
	}

	srv := httpapi.NewServer(cfg, mux)

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http listening", "addr", cfg.HTTPAddr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if subscriber != nil {
		slog.Info("mqtt disconnecting")
		subscriber.Disconnect()
	}

	slog.Info("http shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return ctx.Err()
}
