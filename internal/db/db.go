// Package db opens the SQLite store holding site coordinates and readings.
package db

import (
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"renewables-dashboard/internal/config"

	_ "github.com/mattn/go-sqlite3"
)

// sitePragmas are applied to every connection. The MQTT ingest writes while
// the dashboard routes read, so the store runs in WAL mode with a busy timeout.
var sitePragmas = []string{
	"_foreign_keys=on",
	"_busy_timeout=5000",
	"_journal_mode=WAL",
}

// Open connects to the configured store, applies the pool limits and checks
// the connection before handing it out.
func Open(cfg config.Config) (*sql.DB, error) {
	dsn, err := buildDSN(cfg)
	if err != nil {
		return nil, err
	}

	conn, err := connect(cfg, dsn)
	if err != nil {
		return nil, err
	}
	limitPool(conn, cfg)

	if err := conn.Ping(); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("db ping: %w", err)
	}
	return conn, nil
}

func Close(conn *sql.DB) error {
	if conn == nil {
		return nil
	}
	return conn.Close()
}

func connect(cfg config.Config, dsn string) (*sql.DB, error) {
	if !cfg.SQLiteLogSQL {
		conn, err := sql.Open(cfg.SQLiteDriver, dsn)
		if err != nil {
			return nil, fmt.Errorf("db open: %w", err)
		}
		return conn, nil
	}

	connector, err := NewLoggingConnector(dsn, slog.Default().With("component", "sqlite"))
	if err != nil {
		return nil, fmt.Errorf("db connector: %w", err)
	}
	return sql.OpenDB(connector), nil
}

func limitPool(conn *sql.DB, cfg config.Config) {
	if cfg.SQLiteMaxOpenConns > 0 {
		conn.SetMaxOpenConns(cfg.SQLiteMaxOpenConns)
	}
	if cfg.SQLiteMaxIdleConns >= 0 {
		conn.SetMaxIdleConns(cfg.SQLiteMaxIdleConns)
	}
	if cfg.SQLiteConnMaxLifetime > 0 {
		conn.SetConnMaxLifetime(cfg.SQLiteConnMaxLifetime)
	}
}

// buildDSN returns DB_DSN untouched, otherwise turns SQLITE_PATH into a file
// URI carrying sitePragmas.
func buildDSN(cfg config.Config) (string, error) {
	if cfg.SQLiteDSN != "" {
		return cfg.SQLiteDSN, nil
	}

	path := cfg.SQLitePath
	query := strings.Join(sitePragmas, "&")

	if uri, ok := strings.CutPrefix(path, "file:"); ok {
		if strings.Contains(uri, "?") {
			return path + "&" + query, nil
		}
		return path + "?" + query, nil
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("create database dir %s: %w", dir, err)
		}
	}
	return "file:" + path + "?" + query, nil
}
