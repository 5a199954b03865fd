// Package app wires the VetClinic CLI together: local session store, API
// client, auth service, optional metrics endpoint and the interactive shell.
// It also owns graceful shutdown on SIGINT/SIGTERM.
package app

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/miguelherrera-611/vetclinic/internal/client/cli"
	"github.com/miguelherrera-611/vetclinic/internal/client/client"
	"github.com/miguelherrera-611/vetclinic/internal/client/config"
	"github.com/miguelherrera-611/vetclinic/internal/client/metrics"
	"github.com/miguelherrera-611/vetclinic/internal/client/services"
	"github.com/miguelherrera-611/vetclinic/internal/client/storage"
	"github.com/miguelherrera-611/vetclinic/internal/client/store"
	"github.com/miguelherrera-611/vetclinic/internal/filex"
	"github.com/miguelherrera-611/vetclinic/internal/logging"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"golang.org/x/sync/errgroup"
)

const shutdownTimeout = 5 * time.Second

type App struct {
	config  *config.Config
	logger  logging.Logger
	db      *sql.DB
	metrics *metrics.Metrics
	shell   *cli.App
}

// NewApp opens the session store and builds every component from c.
// Logs go to logOut; the shell reads in and writes out.
func NewApp(ctx context.Context, c *config.Config, in io.Reader, out, logOut io.Writer) (*App, error) {
	logger := logging.New(logOut, c.LogLevel)

	if path, ok := filex.SQLitePath(c.StoreDSN); ok {
		if _, err := filex.EnsureParentDir(path); err != nil {
			return nil, fmt.Errorf("store dir: %w", err)
		}
	}

	db, err := storage.InitDatabase(ctx, c.StoreDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	st, err := store.Open(ctx, db, store.WithLogger(logger.With("component", "store")))
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("session store: %w", err)
	}

	m := metrics.New(c.MetricsAddr != "")
	if reg := m.Registry(); reg != nil {
		reg.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		)
	}

	api := client.NewHTTPClient(c.ServerBaseURL, st,
		client.WithTimeout(c.RequestTimeout),
		client.WithLogger(logger.With("component", "client")),
		client.WithMetrics(m),
	)

	svc := services.NewAuthService(api, st,
		services.WithNotifier(services.NewWriterNotifier(out)),
		services.WithLogger(logger.With("component", "auth")),
		services.WithMetrics(m),
		services.WithExpiryThreshold(c.ExpiryThreshold),
	)
	api.OnUnauthorized(svc.Expire)

	return &App{
		config:  c,
		logger:  logger,
		db:      db,
		metrics: m,
		shell:   cli.NewApp(svc, in, out, c.RefreshInterval),
	}, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

// startMetricsServer serves /metrics until ctx is done.
func (app *App) startMetricsServer(ctx context.Context) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", app.metrics.Handler())
	srv := &http.Server{
		Addr:              app.config.MetricsAddr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		_ = srv.Shutdown(sctx)
	}()

	app.logger.Info(ctx, "metrics listening", "addr", app.config.MetricsAddr)
	if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("metrics server: %w", err)
	}
	return nil
}

// Run blocks until the shell exits or a termination signal arrives, then
// closes the store. A shell blocked on input is abandoned on signal.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Debug(ctx, "starting app")
	app.initSignalHandler(cancelFunc)

	g, gctx := errgroup.WithContext(ctx)
	if app.config.MetricsAddr != "" {
		g.Go(func() error { return app.startMetricsServer(gctx) })
	}

	shellDone := make(chan struct{})
	go func() {
		defer close(shellDone)
		app.shell.Run(gctx)
	}()

	select {
	case <-shellDone:
	case <-gctx.Done():
	}
	cancelFunc()

	err := g.Wait()
	if cerr := app.db.Close(); cerr != nil {
		app.logger.Warn(context.Background(), "close store", "err", cerr)
	}
	return err
}
