package db

import (
	"path/filepath"
	"strings"
	"testing"

	"renewables-dashboard/internal/config"
)

func TestBuildDSN(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name string
		cfg  config.Config
		want string
	}{
		{
			name: "explicit dsn wins",
			cfg:  config.Config{SQLiteDSN: "file::memory:?cache=shared", SQLitePath: filepath.Join(dir, "x.db")},
			want: "file::memory:?cache=shared",
		},
		{
			name: "plain path gets file prefix and params",
			cfg:  config.Config{SQLitePath: filepath.Join(dir, "app.db")},
			want: "file:" + filepath.Join(dir, "app.db") + "?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			name: "file uri without query",
			cfg:  config.Config{SQLitePath: "file:app.db"},
			want: "file:app.db?_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
		{
			name: "file uri with query appends",
			cfg:  config.Config{SQLitePath: "file:app.db?mode=rwc"},
			want: "file:app.db?mode=rwc&_foreign_keys=on&_busy_timeout=5000&_journal_mode=WAL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := buildDSN(tt.cfg)
			if err != nil {
				t.Fatalf("buildDSN() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("buildDSN() = %q; want %q", got, tt.want)
			}
		})
	}
}

func TestOpen(t *testing.T) {
	for _, logSQL := range []bool{false, true} {
		name := "plain"
		if logSQL {
			name = "logging connector"
		}
		t.Run(name, func(t *testing.T) {
			cfg := config.Config{
				SQLiteDriver:       "sqlite3",
				SQLitePath:         filepath.Join(t.TempDir(), "nested", "app.db"),
				SQLiteMaxOpenConns: 1,
				SQLiteMaxIdleConns: 1,
				SQLiteLogSQL:       logSQL,
			}
			conn, err := Open(cfg)
			if err != nil {
				t.Fatalf("Open() error = %v", err)
			}
			t.Cleanup(func() { _ = Close(conn) })

			var journal string
			if err := conn.QueryRow(`PRAGMA journal_mode`).Scan(&journal); err != nil {
				t.Fatalf("pragma: %v", err)
			}
			if !strings.EqualFold(journal, "wal") {
				t.Errorf("journal_mode = %q; want wal", journal)
			}
		})
	}
}

func TestClose_nil(t *testing.T) {
	if err := Close(nil); err != nil {
		t.Errorf("Close(nil) = %v; want nil", err)
	}
}
