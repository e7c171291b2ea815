package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/rasulshaikhdev/techgear-hub/internal/catalog"
	"github.com/rasulshaikhdev/techgear-hub/internal/config"
	"github.com/rasulshaikhdev/techgear-hub/internal/event"
	handler "github.com/rasulshaikhdev/techgear-hub/internal/handler/http"
	"github.com/rasulshaikhdev/techgear-hub/internal/repository"
	"github.com/rasulshaikhdev/techgear-hub/internal/repository/memory"
	pgrepo "github.com/rasulshaikhdev/techgear-hub/internal/repository/postgres"
	redisrepo "github.com/rasulshaikhdev/techgear-hub/internal/repository/redis"
	sqliterepo "github.com/rasulshaikhdev/techgear-hub/internal/repository/sqlite"
	"github.com/rasulshaikhdev/techgear-hub/internal/service"
	"github.com/rasulshaikhdev/techgear-hub/internal/tui"
	"github.com/rasulshaikhdev/techgear-hub/pkg/database"
	"github.com/rasulshaikhdev/techgear-hub/pkg/health"
	pkgkafka "github.com/rasulshaikhdev/techgear-hub/pkg/kafka"
	"github.com/rasulshaikhdev/techgear-hub/pkg/tracing"
)

// ServiceName identifies the storefront in traces and logs.
const ServiceName = "techgear-hub"

// slowQueryThreshold is the latency above which store queries are logged.
const slowQueryThreshold = 200 * time.Millisecond

// App wires together all dependencies of the storefront.
type App struct {
	cfg       *config.Config
	logger    *slog.Logger
	catalog   *catalog.Catalog
	store     repository.KV
	storeErr  error
	publisher pkgkafka.Publisher
	sessions  *service.Sessions
	health    *health.Handler

	shutdownTracer tracing.ShutdownFunc
	closers        []func()
}

// NewApp creates a new application instance, initializing all dependencies.
func NewApp(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*App, error) {
	initCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	a := &App{cfg: cfg, logger: logger, catalog: catalog.Default()}

	tcfg := tracing.DefaultConfig(ServiceName)
	tcfg.Environment = cfg.Environment
	tcfg.OTLPEndpoint = cfg.OTelEndpoint
	tcfg.SampleRate = cfg.OTelSampleRate
	tcfg.Enabled = cfg.OTelEnabled
	shutdown, err := tracing.InitTracer(initCtx, tcfg)
	if err != nil {
		return nil, fmt.Errorf("init tracer: %w", err)
	}
	a.shutdownTracer = shutdown

	if err := a.openStore(initCtx); err != nil {
		a.storeErr = err
		a.store = memory.New()
		logger.Warn("store unavailable, falling back to in-memory store; state is lost on exit",
			slog.String("driver", cfg.StoreDriver),
			slog.String("error", err.Error()),
		)
	}

	// Initialize Kafka producer.
	a.publisher = pkgkafka.NewPublisher(cfg.KafkaBrokers, logger)
	if len(cfg.KafkaBrokers) > 0 {
		logger.Info("kafka producer initialized", slog.Any("brokers", cfg.KafkaBrokers))
	}

	// Build the dependency graph.
	a.sessions = service.NewSessions(service.SessionConfig{
		Catalog:       a.catalog,
		Store:         a.store,
		Events:        event.NewProducer(a.publisher, logger),
		Logger:        logger,
		ToastDuration: cfg.ToastDuration(),
	})

	// Health checks.
	a.health = health.NewHandler()
	a.health.Register("store", a.pingStore)
	if len(cfg.KafkaBrokers) > 0 {
		a.health.Register("kafka", a.publisher.Ping)
	}

	return a, nil
}

// openStore connects the configured backend. Remote backends are guarded by
// a circuit breaker.
func (a *App) openStore(ctx context.Context) error {
	cfg := a.cfg
	database.SetSlowQueryLogging(slowQueryThreshold, a.logger)

	switch cfg.StoreDriver {
	case config.DriverSQLite:
		s, err := sqliterepo.Open(ctx, cfg.SQLitePath)
		if err != nil {
			return fmt.Errorf("open sqlite store: %w", err)
		}
		a.store = s
		a.logger.Info("opened SQLite store", slog.String("path", cfg.SQLitePath))

	case config.DriverRedis:
		rdb, err := database.NewRedisClient(ctx, database.DefaultRedisConfig(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB))
		if err != nil {
			return fmt.Errorf("connect to redis: %w", err)
		}
		a.store = repository.WithBreaker(redisrepo.New(rdb, cfg.TTL()), config.DriverRedis, a.logger)
		a.logger.Info("connected to Redis",
			slog.String("addr", cfg.RedisAddr),
			slog.Int("db", cfg.RedisDB),
		)

	case config.DriverPostgres:
		pool, err := database.NewPostgresPool(ctx, database.DefaultPostgresConfig(cfg.PostgresDSN), a.logger)
		if err != nil {
			return fmt.Errorf("connect to postgres: %w", err)
		}
		a.closers = append(a.closers, pool.Close)

		if err := pgrepo.Migrate(ctx, pool, a.logger); err != nil {
			return fmt.Errorf("migrate postgres: %w", err)
		}
		if err := database.RegisterPoolMetrics(prometheus.DefaultRegisterer, pool); err != nil {
			a.logger.Warn("failed to register pool metrics", slog.String("error", err.Error()))
		}
		a.store = repository.WithBreaker(pgrepo.New(pool), config.DriverPostgres, a.logger)
		a.logger.Info("connected to PostgreSQL")

	case config.DriverMemory:
		a.store = memory.New()
		a.logger.Warn("using in-memory store; state is lost on exit")

	default:
		return fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
	return nil
}

// pingStore reports the configured backend as down for the lifetime of a
// process that started on the in-memory fallback.
func (a *App) pingStore(ctx context.Context) error {
	if a.storeErr != nil {
		return fmt.Errorf("%s store unavailable: %w", a.cfg.StoreDriver, a.storeErr)
	}
	return a.store.Ping(ctx)
}

// Sessions returns the session registry.
func (a *App) Sessions() *service.Sessions { return a.sessions }

// Health returns the health handler.
func (a *App) Health() *health.Handler { return a.health }

// Handler builds the HTTP router. ctx bounds background middleware work.
func (a *App) Handler(ctx context.Context) http.Handler {
	return handler.NewRouter(ctx, a.catalog, a.sessions, a.health, a.logger, handler.RouterConfig{
		CORSOrigins:    a.cfg.CORSOrigins,
		PprofEnabled:   a.cfg.PprofEnable,
		RateLimitRPS:   a.cfg.RateLimitRPS,
		RateLimitBurst: a.cfg.RateLimitBurst,
	})
}

// Serve starts the HTTP server and blocks until the context is canceled.
func (a *App) Serve(ctx context.Context) error {
	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", a.cfg.HTTPPort),
		Handler:      a.Handler(ctx),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		a.logger.Info("starting HTTP server", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- fmt.Errorf("http server: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("shutdown signal received")
	case err := <-errCh:
		return err
	}

	// Graceful HTTP server shutdown with a 10-second deadline.
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		a.logger.Error("http server shutdown error", slog.String("error", err.Error()))
	}
	return nil
}

// RunTUI runs the terminal storefront on the default session until the user
// quits or ctx is canceled.
func (a *App) RunTUI(ctx context.Context) error {
	sess, release := a.sessions.Acquire(ctx, service.DefaultSession)
	defer release()

	m := tui.New(ctx, tui.Options{
		Session:    sess,
		Catalog:    a.catalog,
		Logger:     a.logger,
		Debounce:   a.cfg.Debounce(),
		FocusDelay: a.cfg.FocusDelay(),
	})
	return tui.Run(ctx, m)
}

// Close releases every component.
func (a *App) Close() {
	a.logger.Info("shutting down application...")

	if a.sessions != nil {
		a.sessions.Close()
	}

	if a.publisher != nil {
		if err := a.publisher.Close(); err != nil {
			a.logger.Error("kafka producer close error", slog.String("error", err.Error()))
		}
	}

	if a.store != nil {
		if err := a.store.Close(); err != nil {
			a.logger.Error("store close error", slog.String("error", err.Error()))
		}
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}

	if a.shutdownTracer != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := a.shutdownTracer(ctx); err != nil {
			a.logger.Error("tracer shutdown error", slog.String("error", err.Error()))
		}
	}

	a.logger.Info("application shutdown complete")
}
