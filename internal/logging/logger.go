// Package logging configures the process-wide slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"

	"renewables-dashboard/internal/config"
)

const devVersion = "dev"

// New returns a stdout logger tagged with the app name. Local builds get
// coloured tint output; released builds emit JSON carrying version and env.
func New(cfg config.Config, version string, appName string) *slog.Logger {
	return newLogger(os.Stdout, cfg, version, appName)
}

func newLogger(w io.Writer, cfg config.Config, version string, appName string) *slog.Logger {
	logger := slog.New(handlerFor(w, cfg, version)).With("app", appName)
	if version == devVersion {
		return logger
	}
	return logger.With("version", version, "env", cfg.AppEnv)
}

func handlerFor(w io.Writer, cfg config.Config, version string) slog.Handler {
	if version == devVersion {
		return tint.NewHandler(w, &tint.Options{
			Level:      cfg.LogLevel,
			AddSource:  true,
			TimeFormat: time.Kitchen,
		})
	}
	return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: cfg.LogLevel})
}
