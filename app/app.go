package app

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"procurement-marketplace-api/internal/config"
	"procurement-marketplace-api/internal/controller"
	"procurement-marketplace-api/internal/repo"
	"procurement-marketplace-api/internal/service"
	"procurement-marketplace-api/pkg/http_server"
	"procurement-marketplace-api/pkg/postgres"
	"syscall"

	"github.com/golang-migrate/migrate/v4"
	_ "github.com/golang-migrate/migrate/v4/database/postgres"
	_ "github.com/golang-migrate/migrate/v4/source/file"
	"github.com/jonboulle/clockwork"
	"github.com/labstack/echo"
)

func runMigrations(logger *slog.Logger, migrationURL string, databaseURL string) error {
	migrations, err := migrate.New(migrationURL, databaseURL)
	if err != nil {
		return err
	}

	if err := migrations.Up(); err != nil {
		if err == migrate.ErrNoChange {
			logger.Info("no change made by migration scripts")
			return nil
		}

		return err
	}

	logger.Info("migrations applied")

	return nil
}

func Run() {
	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))

	cfg, err := config.LoadConfig(".")
	if err != nil {
		logger.Error("cannot load config", "error", err)
		os.Exit(1)
	}

	logger.Info("connecting database")
	postgresDB, err := postgres.NewDB(cfg.PostgresConn)
	if err != nil {
		logger.Error("connecting to db", "error", err)
		os.Exit(1)
	}
	defer postgresDB.Close()
	postgresDB.Database.SetMaxOpenConns(cfg.PostgresMaxConns)

	logger.Info("running migrations")
	if err = runMigrations(logger, cfg.MigrationURL, cfg.PostgresConn); err != nil {
		logger.Error("running migrations", "error", err)
		os.Exit(1)
	}

	repositories := repo.NewRepositories(postgresDB)
	services := service.NewServices(repositories)

	closerCtx, stopCloser := context.WithCancel(context.Background())
	defer stopCloser()

	closer := service.NewLifecycleCloser(repositories, clockwork.NewRealClock(), cfg.CloserInterval, logger)
	go closer.Run(closerCtx)
	logger.Info("lifecycle closer started", "interval", cfg.CloserInterval)

	handler := echo.New()
	controller.SetupRoutesHandlers(handler, services)

	logger.Info("starting server", "address", cfg.ServerAddress)
	httpServer := http_server.New(handler, cfg.ServerAddress)

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt, syscall.SIGTERM)

	select {
	case s := <-interrupt:
		logger.Info("got signal", "signal", s.String())
	case err = <-httpServer.Notify():
		logger.Error("server stopped", "error", err)
	}

	logger.Info("shutting down")
	stopCloser()
	if err = httpServer.Shutdown(); err != nil {
		logger.Error("shutdown", "error", err)
		return
	}

	logger.Info("successful shutdown")
}
