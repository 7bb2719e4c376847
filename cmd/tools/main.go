package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"renewables-dashboard/internal/config"
	"renewables-dashboard/internal/db"
	"renewables-dashboard/internal/logging"
	"renewables-dashboard/internal/migrate"
	"renewables-dashboard/internal/modules/sites/repository"
	"renewables-dashboard/internal/modules/sites/service"
	"renewables-dashboard/internal/mqtt"
)

const appName = "renewables-tools"

var version = "dev"

const usage = `usage: %s <command> [args]
  migrate               apply pending schema/seed migrations
  import <file.json>    store observations from a JSON array directly in the database
  publish <file.json>   publish observations from a JSON array to the MQTT broker
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	cfg, err := config.LoadFromEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config error: %v\n", err)
		os.Exit(1)
	}
	logger := logging.New(cfg, version, appName)
	slog.SetDefault(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	switch os.Args[1] {
	case "migrate":
		err = runMigrate(ctx, cfg)
	case "import":
		if len(os.Args) < 3 {
			err = fmt.Errorf("import: missing file argument")
			break
		}
		err = runImport(ctx, cfg, logger, os.Args[2])
	case "publish":
		if len(os.Args) < 3 {
			err = fmt.Errorf("publish: missing file argument")
			break
		}
		err = runPublish(ctx, cfg, logger, os.Args[2])
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", os.Args[1])
		fmt.Fprintf(os.Stderr, usage, os.Args[0])
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "%s: %v\n", os.Args[1], err)
		stop()
		os.Exit(1)
	}
}

func runMigrate(ctx context.Context, cfg config.Config) error {
	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	if err := migrate.Run(ctx, conn); err != nil {
		return err
	}
	fmt.Println("migrations applied")
	return nil
}

func runImport(ctx context.Context, cfg config.Config, logger *slog.Logger, path string) error {
	observations, err := readObservationsFile(path)
	if err != nil {
		return err
	}

	conn, err := db.Open(cfg)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := db.Close(conn); closeErr != nil {
			slog.Error("db close", "err", closeErr)
		}
	}()

	if err := migrate.Run(ctx, conn); err != nil {
		return err
	}

	svc := service.NewService(repository.NewRepository(conn), cfg.TopN, logger)
	imported, err := forEachObservation(observations, func(i int, obs observation) error {
		return svc.Ingest(ctx, obs)
	})
	fmt.Printf("imported %d/%d observations\n", imported, len(observations))
	return err
}

func runPublish(ctx context.Context, cfg config.Config, logger *slog.Logger, path string) error {
	observations, err := readObservationsFile(path)
	if err != nil {
		return err
	}

	publisher := mqtt.NewPublisher(cfg, logger)
	connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	err = publisher.Connect(connectCtx)
	cancel()
	if err != nil {
		return err
	}
	defer publisher.Disconnect()

	published, err := forEachObservation(observations, func(i int, obs observation) error {
		return publisher.Publish(obs)
	})
	fmt.Printf("published %d/%d observations\n", published, len(observations))
	return err
}
