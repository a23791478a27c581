// Package server initializes and runs the portal backend. It opens the
// database, wires the repositories, services and notification producer, and
// starts the HTTP server with graceful shutdown on OS signals.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/gestion-contratistas/portal/internal/logging"
	"github.com/gestion-contratistas/portal/internal/server/config"
	"github.com/gestion-contratistas/portal/internal/server/httpapi"
	"github.com/gestion-contratistas/portal/internal/server/notifications"
	"github.com/gestion-contratistas/portal/internal/server/repositories/repomanager"
	"github.com/gestion-contratistas/portal/internal/server/services"
)

type App struct {
	config    *config.Config
	logger    logging.Logger
	db        *sql.DB
	publisher notifications.Publisher
	server    *httpapi.HTTPServer
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {

	sl := slog.New(slog.NewJSONHandler(os.Stdout, nil))
	logger := logging.NewSlogLogger(sl)

	db, err := repomanager.OpenDB(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	rm := repomanager.NewPostgresRepositoryManager()

	var publisher notifications.Publisher = notifications.NopPublisher{}
	if c.KafkaBroker != "" {
		publisher = notifications.NewKafkaProducer(c.KafkaBroker, c.KafkaTopic)
	}

	us := services.NewUserService(db, rm, c)
	ds := services.NewDocumentService(db, rm, c, logger, publisher)

	srv := httpapi.NewHTTPServer(c, logger, us, ds)

	return &App{config: c, logger: logger, db: db, publisher: publisher, server: srv}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) Run(ctx context.Context) {

	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		if err := app.server.Run(ctx); err != nil {
			app.logger.Error(ctx, err.Error())
			cancelFunc()
		}
	}()

	wg.Wait()

	if err := app.publisher.Close(); err != nil {
		app.logger.Error(ctx, "publisher close error", "error", err.Error())
	}
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err.Error())
	}
}
