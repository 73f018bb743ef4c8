// Package server wires configuration, storage, services and the REST
// interface together and runs them until a shutdown signal arrives.
package server

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/krsnavtr-code/Pass-Manager/internal/logging"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/config"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/metrics"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/repositories/repomanager"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/rest"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/services"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	repomanager    repomanager.RepositoryManager
	metrics        *metrics.Metrics
	sessionService *services.SessionService
	userService    *services.UserService
	entryService   *services.EntryService
	exportService  *services.ExportService
}

func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewLogger(os.Stdout, c.LogLevel, c.LogFormat)

	rm, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	if err := rm.RunMigrations(ctx); err != nil {
		_ = rm.Close()
		return nil, fmt.Errorf("migrations error: %w", err)
	}

	return newApp(c, logger, rm), nil
}

func newApp(c *config.Config, logger logging.Logger, rm repomanager.RepositoryManager) *App {
	m := metrics.New()

	ss := services.NewSessionService(rm, c.SessionDuration, logger).WithObserver(m)
	us := services.NewUserService(rm, ss, c, logger)
	es := services.NewEntryService(rm, logger)
	xs := services.NewExportService(rm, c, logger)

	return &App{
		config:         c,
		logger:         logger,
		repomanager:    rm,
		metrics:        m,
		sessionService: ss,
		userService:    us,
		entryService:   es,
		exportService:  xs,
	}
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	// Channel to catch OS signals.
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startRESTServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := rest.NewRESTServer(app.config.EndpointAddrHTTP, app.logger, rest.Services{
		Users:    app.userService,
		Sessions: app.sessionService,
		Entries:  app.entryService,
		Export:   app.exportService,
		Ping:     app.repomanager.Ping,
	}, app.metrics)

	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// runSessionSweeper purges expired sessions every interval until ctx ends.
func (app *App) runSessionSweeper(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := app.sessionService.PurgeExpired(ctx); err != nil {
				app.logger.Warn(ctx, "session sweep failed", "error", err)
			}
		}
	}
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
		app.startRESTServer(ctx, cancelFunc)
	}()

	if interval := app.config.SessionSweepInterval; interval > 0 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.runSessionSweeper(ctx, interval)
		}()
	}

	wg.Wait()

	if err := app.repomanager.Close(); err != nil {
		app.logger.Error(ctx, "close storage", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
