// Package server wires configuration, storage, token handling and delivery
// into the account service and runs the gRPC and metrics endpoints until
// the process is signalled to stop.
package server

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/gophauth/internal/filex"
	"github.com/dmitrijs2005/gophauth/internal/logging"
	"github.com/dmitrijs2005/gophauth/internal/server/auth"
	"github.com/dmitrijs2005/gophauth/internal/server/config"
	"github.com/dmitrijs2005/gophauth/internal/server/metrics"
	"github.com/dmitrijs2005/gophauth/internal/server/notify"
	"github.com/dmitrijs2005/gophauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/gophauth/internal/server/services"

	gs "github.com/dmitrijs2005/gophauth/internal/server/grpc"
)

type App struct {
	config         *config.Config
	logger         logging.Logger
	db             *sql.DB
	accountService *services.AccountService
	metrics        *metrics.Metrics
	closeNotifier  func()
}

// NewApp opens the database, applies migrations and builds the service.
// It fails fast on any misconfiguration.
func NewApp(ctx context.Context, c *config.Config) (*App, error) {
	logger := logging.NewJSONLogger(os.Stdout, c.LogLevel)

	rm, err := repomanager.ForDriver(c.DatabaseDriver)
	if err != nil {
		return nil, err
	}

	db, err := openDB(c.DatabaseDriver, c.DatabaseDSN)
	if err != nil {
		return nil, err
	}

	if err := rm.RunMigrations(ctx, db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}

	tokens, err := auth.NewTokenManager(auth.TokenConfig{
		AccessSecret:     c.AccessSecret,
		RefreshSecret:    c.RefreshSecret,
		AccessTTL:        c.AccessTokenValidityDuration,
		RefreshTTL:       c.RefreshTokenValidityDuration,
		PasswordResetTTL: c.PasswordResetTokenValidityDuration,
		VerificationTTL:  c.VerificationTokenValidityDuration,
	})
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	hasher, err := auth.NewPasswordHasher(c.BcryptCost)
	if err != nil {
		_ = db.Close()
		return nil, err
	}

	notifier, closeNotifier, err := notify.New(ctx, c, logger)
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("notifier init error: %w", err)
	}

	svc := services.NewAccountService(db, rm, tokens, hasher, notifier, logger)

	return &App{
		config:         c,
		logger:         logger,
		db:             db,
		accountService: svc,
		metrics:        metrics.New(),
		closeNotifier:  closeNotifier,
	}, nil
}

func openDB(driver, dsn string) (*sql.DB, error) {
	if driver == config.DriverSQLite {
		if err := filex.EnsureParentDir(dsn); err != nil {
			return nil, fmt.Errorf("db dir error: %w", err)
		}
	}
	db, err := sql.Open(driver, dsn)
	if err != nil {
		return nil, fmt.Errorf("db open error: %w", err)
	}
	// SQLite allows one writer; a single connection serialises
	// registrations instead of failing them with SQLITE_BUSY.
	if driver == config.DriverSQLite {
		db.SetMaxOpenConns(1)
	}
	return db, nil
}

func (app *App) initSignalHandler(cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		<-sigs
		cancelFunc()
	}()
}

func (app *App) startGRPCServer(ctx context.Context, cancelFunc context.CancelFunc) {
	s := gs.NewGRPCServer(app.config.EndpointAddrGRPC, app.logger, app.accountService, app.metrics)
	if err := s.Run(ctx); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

func (app *App) startMetricsServer(ctx context.Context, cancelFunc context.CancelFunc) {
	if err := app.metrics.Serve(ctx, app.config.MetricsAddr, app.logger); err != nil {
		app.logger.Error(ctx, err.Error())
		cancelFunc()
	}
}

// Run serves until a termination signal arrives or a server fails, then
// releases the database and notifier.
func (app *App) Run(ctx context.Context) {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(cancelFunc)

	var wg sync.WaitGroup

	wg.Add(1)
	go func() {
		defer wg.Done()
		app.startGRPCServer(ctx, cancelFunc)
	}()

	if app.config.MetricsAddr != "" {
		wg.Add(1)
		go func() {
			defer wg.Done()
			app.startMetricsServer(ctx, cancelFunc)
		}()
	}

	wg.Wait()

	app.closeNotifier()
	if err := app.db.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
	app.logger.Info(ctx, "App stopped")
}
