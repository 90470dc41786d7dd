package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/MrSnakeDoc/mindnest/internal/config"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver"
	"github.com/MrSnakeDoc/mindnest/internal/httpserver/deps"
	"github.com/MrSnakeDoc/mindnest/internal/index"
	"github.com/MrSnakeDoc/mindnest/internal/logger"
	"github.com/MrSnakeDoc/mindnest/internal/metrics"
	"github.com/MrSnakeDoc/mindnest/internal/preferences"
	"github.com/MrSnakeDoc/mindnest/internal/redis"
	"github.com/MrSnakeDoc/mindnest/internal/scheduler"
	"github.com/MrSnakeDoc/mindnest/internal/screentime"
	"github.com/MrSnakeDoc/mindnest/internal/sources/catalog"
	badgerstore "github.com/MrSnakeDoc/mindnest/internal/store/badger"
	"github.com/MrSnakeDoc/mindnest/internal/store/kv"
	memstore "github.com/MrSnakeDoc/mindnest/internal/store/memory"
	redisstore "github.com/MrSnakeDoc/mindnest/internal/store/redis"
	sqlitestore "github.com/MrSnakeDoc/mindnest/internal/store/sqlite"
	"github.com/MrSnakeDoc/mindnest/internal/utils"
	"github.com/MrSnakeDoc/mindnest/internal/version"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	store       kv.Store
	catalog     *index.CatalogIndex
	prefs       *preferences.Store
	reloader    *scheduler.CatalogReloader
	gc          *scheduler.OrphanCollector
	monitor     *screentime.MemoryMonitor
	authorizer  *screentime.OnceAuthorizer
	unsubscribe []func()
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	a, err := newApp(cfg, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to open %s store: %v", cfg.StoreBackend, err)
		os.Exit(1)
	}
	return a
}

func newApp(cfg *config.Config, loggerClient logger.Logger) (*App, error) {
	// Open the preference backend early - fail fast if unavailable
	loggerClient.Info("opening preference store", logger.String("backend", cfg.StoreBackend))
	store, err := openStore(context.Background(), cfg, loggerClient.With(logger.Component("store")))
	if err != nil {
		return nil, err
	}
	loggerClient.Info("preference store initialized", logger.String("backend", cfg.StoreBackend))

	m := metrics.New()
	catalogIndex := index.NewCatalogIndex()

	// Preferences load once; unreadable values fall back to defaults
	prefs := preferences.New(context.Background(), store, loggerClient.With(logger.Component("preferences")))

	unsubscribe := []func(){
		m.ObservePreferences(prefs),
		prefs.Subscribe(logPreferenceEvent(loggerClient.With(logger.Component("preferences")))),
	}

	// Create manual reload trigger channel
	reloadTrigger := make(chan struct{}, 1)

	reloader := scheduler.NewCatalogReloader(
		catalog.NewSource(cfg.CatalogFile, loggerClient.With(logger.Component("catalog"))),
		catalogIndex,
		loggerClient.With(logger.Component("reloader")),
		cfg.ReloadInterval,
		reloadTrigger,
	)
	reloader.OnReload(m.CatalogInstalled)

	var gc *scheduler.OrphanCollector
	if cfg.OrphanGCInterval > 0 {
		gc = scheduler.NewOrphanCollector(
			prefs,
			catalogIndex,
			loggerClient.With(logger.Component("orphan-gc")),
			cfg.OrphanGCInterval,
			cfg.OrphanGCThreshold,
		)
	} else {
		loggerClient.Info("orphan collector disabled")
	}

	// Screen-time hooks are stubs: nothing is collected
	authorizer := screentime.NewOnceAuthorizer(
		screentime.AuthorizerFunc(func(context.Context) (bool, error) { return true, nil }),
		loggerClient.With(logger.Component("screentime")),
	)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:        loggerClient,
		StartTime:     time.Now(),
		Version:       version.Version,
		Commit:        version.Commit,
		BuildDate:     version.BuildDate,
		GoVersion:     version.GoVersion,
		TimeNow:       time.Now,
		AllowedHosts:  cfg.AllowedHosts,
		AllowedCIDRS:  cfg.AllowedCIDRS,
		TrustProxy:    cfg.TrustProxy,
		CatalogFile:   cfg.CatalogFile,
		Catalog:       catalogIndex,
		Preferences:   prefs,
		Store:         store,
		StoreBackend:  cfg.StoreBackend,
		Metrics:       m,
		ReloadTrigger: reloadTrigger,
		RateBurst:     cfg.RateBurst,
		RatePerMin:    cfg.RatePerMin,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		store:       store,
		catalog:     catalogIndex,
		prefs:       prefs,
		reloader:    reloader,
		gc:          gc,
		monitor:     screentime.NewMemoryMonitor(loggerClient.With(logger.Component("screentime"))),
		authorizer:  authorizer,
		unsubscribe: unsubscribe,
	}, nil
}

// openStore connects the backend selected by cfg.StoreBackend.
func openStore(ctx context.Context, cfg *config.Config, log logger.Logger) (kv.Store, error) {
	switch cfg.StoreBackend {
	case kv.BackendSQLite:
		s, err := sqlitestore.Open(ctx, sqlitestore.Config{DSN: cfg.SQLiteDSN})
		if err != nil {
			return nil, err
		}
		return s, nil
	case kv.BackendBadger:
		s, err := badgerstore.Open(badgerstore.Options{Dir: cfg.BadgerDir})
		if err != nil {
			return nil, err
		}
		return s, nil
	case kv.BackendMemory:
		log.Warn("memory store selected, preferences will not survive a restart")
		return memstore.NewStore(), nil
	case kv.BackendRedis:
		client, err := redis.Connect(ctx, redis.ConnectOptions{
			Addr:           cfg.RedisAddr,
			User:           cfg.RedisUser,
			Password:       cfg.RedisPassword,
			RedisDB:        cfg.RedisDB,
			DialTimeout:    cfg.RedisDT,
			ReadTimeout:    cfg.RedisRT,
			WriteTimeout:   cfg.RedisWT,
			PoolSize:       cfg.RedisPoolSize,
			ConnectTimeout: cfg.RedisConnectTimeout,
			RetryInterval:  cfg.RedisRetryInterval,
			MaxWait:        cfg.RedisMaxWait,
			PingTimeout:    cfg.RedisPingTimeout,
			WarnThreshold:  cfg.RedisWarnThreshold,
		}, log)
		if err != nil {
			return nil, err
		}
		return redisstore.NewStore(client), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}

func logPreferenceEvent(log logger.Logger) func(preferences.Event) {
	return func(ev preferences.Event) {
		fields := []logger.Field{
			logger.String("kind", string(ev.Kind)),
			logger.Bool("persisted", ev.Err == nil),
		}
		if ev.ID != "" {
			fields = append(fields, logger.String("id", ev.ID), logger.Bool("added", ev.Added))
		}
		if ev.Err != nil {
			log.Warn("preferences changed but not saved", append(fields, logger.Error(ev.Err))...)
			return
		}
		log.Debug("preferences changed", fields...)
	}
}

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting MindNest v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("MindNest %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Runs after the server has stopped, whichever way Run returns
	defer utils.MustClose(a.logger, a.cfg.StoreBackend+" store", a.store)

	// Loads the catalog (empty on failure) and starts periodic refresh
	a.reloader.Start(ctx)
	a.logger.Info("catalog reloader started",
		logger.Duration("interval", a.cfg.ReloadInterval),
		logger.Int("items", a.catalog.Count()))

	if a.gc != nil {
		a.gc.Start(ctx)
		a.logger.Info("orphan collector started",
			logger.Duration("interval", a.cfg.OrphanGCInterval),
			logger.Duration("threshold", a.cfg.OrphanGCThreshold))
	}

	if a.authorizer.Authorized(ctx) {
		if err := a.monitor.StartMonitoring(screentime.DailyMonitorName, screentime.DailySchedule()); err != nil {
			a.logger.Warn("failed to start screen time monitor", logger.Error(err))
		}
	}

	errCh := make(chan error, 1)
	go func() {
		if err := a.server.Start(); err != nil {
			errCh <- fmt.Errorf("http server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		a.logger.Info("⏳ Shutting down gracefully...")
	case err := <-errCh:
		a.shutdownBackground()
		return err
	}

	a.shutdownBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	a.logger.Info("✅ MindNest stopped cleanly")
	return nil
}

// shutdownBackground stops the loops and observers started by Run.
func (a *App) shutdownBackground() {
	a.reloader.Stop()
	if a.gc != nil {
		a.gc.Stop()
	}
	a.monitor.StopMonitoring(screentime.DailyMonitorName)
	for _, fn := range a.unsubscribe {
		fn()
	}
	a.unsubscribe = nil
}
