package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/otramalaga/civicmap/internal/bookmarks"
	"github.com/otramalaga/civicmap/internal/cache"
	"github.com/otramalaga/civicmap/internal/collection"
	"github.com/otramalaga/civicmap/internal/config"
	"github.com/otramalaga/civicmap/internal/geocode"
	"github.com/otramalaga/civicmap/internal/httpserver"
	"github.com/otramalaga/civicmap/internal/httpserver/deps"
	"github.com/otramalaga/civicmap/internal/logger"
	"github.com/otramalaga/civicmap/internal/mapview"
	"github.com/otramalaga/civicmap/internal/media"
	"github.com/otramalaga/civicmap/internal/redis"
	"github.com/otramalaga/civicmap/internal/scheduler"
	"github.com/otramalaga/civicmap/internal/session"
	"github.com/otramalaga/civicmap/internal/sources/styles"
	"github.com/otramalaga/civicmap/internal/upstream"
	"github.com/otramalaga/civicmap/internal/version"
	"github.com/otramalaga/civicmap/internal/wizard"
)

type App struct {
	cfg         *config.Config
	logger      logger.Logger
	server      *httpserver.Server
	redisClient *goredis.Client
	refresher   *scheduler.CollectionRefresher
}

func New() *App {
	cfg := config.Load()

	loggerClient := logger.New(cfg.LogLevel, cfg.PrettyLog)

	// Initialize Redis early - fail fast if unavailable
	loggerClient.Infof("Connecting to Redis at %s", cfg.RedisAddr)
	redisClient, err := redis.New(redis.ConnectOptions{
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
	}, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to connect to Redis: %v", err)
		os.Exit(1)
	}
	loggerClient.Info("Redis initialized successfully")

	backend := cache.NewRedisBackend(redisClient)
	responseCache := cache.New(backend, cfg.CacheTTL, loggerClient)

	client := upstream.New(cfg.UpstreamBaseURL, cfg.UpstreamTimeout, loggerClient)
	store := collection.NewStore()
	service := bookmarks.NewService(client, responseCache, store, loggerClient)

	sessions := session.NewManager(client, backend, loggerClient)
	sessions.Restore(context.Background())

	geocoder := geocode.New(cfg.GeocoderBaseURL, cfg.UpstreamTimeout, loggerClient)
	suggester := geocode.NewSuggester(geocoder, cfg.GeocodeDebounce, cfg.GeocodeMinQuery, loggerClient)

	sheet, err := styles.LoadSheet(cfg.StyleFile, loggerClient)
	if err != nil {
		loggerClient.Errorf("Failed to load styles: %v", err)
		os.Exit(1)
	}

	var uploader *media.Uploader
	if cfg.MediaEndpoint != "" {
		uploader, err = media.NewUploader(cfg, loggerClient)
		if err != nil {
			loggerClient.Errorf("Failed to initialize media storage: %v", err)
			os.Exit(1)
		}
		bucketCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		if err := uploader.EnsureBucket(bucketCtx); err != nil {
			loggerClient.Warn("media bucket check failed, uploads may not work",
				logger.Error(err))
		}
		cancel()
	} else {
		loggerClient.Info("media endpoint not configured, uploads disabled")
	}

	mapSessions := mapview.NewSessions(store, mapview.ViewOptions{
		Center:    mapview.Coordinate{Lat: cfg.DefaultCenterLat, Lon: cfg.DefaultCenterLon},
		Zoom:      cfg.DefaultZoom,
		FocusZoom: cfg.FocusZoom,
		LonSpan:   defaultLonSpan,
	}, loggerClient)

	// Create manual refresh trigger channel
	refreshTrigger := make(chan struct{}, 1)
	refresher := scheduler.NewCollectionRefresher(service, loggerClient, cfg.RefreshInterval, refreshTrigger)

	// Dependencies passed to routes (extend as needed).
	d := deps.Deps{
		Logger:         loggerClient,
		StartTime:      time.Now(),
		Version:        version.Version,
		Commit:         version.Commit,
		BuildDate:      version.BuildDate,
		GoVersion:      version.GoVersion,
		TimeNow:        time.Now,
		RedisClient:    redisClient,
		Bookmarks:      service,
		Sessions:       sessions,
		MapSessions:    mapSessions,
		Wizards:        wizard.NewManager(),
		Geocoder:       geocoder,
		Suggester:      suggester,
		Uploader:       uploader,
		Styles:         sheet,
		RefreshTrigger: refreshTrigger,
		AllowedOrigins: cfg.AllowedOrigins,
	}

	server := httpserver.New(cfg, loggerClient, d)

	return &App{
		cfg:         cfg,
		logger:      loggerClient,
		server:      server,
		redisClient: redisClient,
		refresher:   refresher,
	}
}

// defaultLonSpan approximates the viewport width in degrees of longitude at
// the default city-level zoom.
const defaultLonSpan = 0.2

func (a *App) Run() error {
	a.logger.Infof("🚀 Starting civicmap v%s on %s", version.Version, a.cfg.ListenPort)
	a.logger.Infof("civicmap %s (commit=%s, built=%s, go=%s)",
		version.Version, version.Commit, version.BuildDate, version.GoVersion)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Start the collection refresher (initial fetch plus periodic refresh)
	if err := a.refresher.Start(ctx); err != nil {
		return fmt.Errorf("failed to start collection refresher: %w", err)
	}
	a.logger.Info("collection refresher started",
		logger.Duration("interval", a.cfg.RefreshInterval))

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
		return err
	}

	a.refresher.Stop()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.ShutdownTimeout)
	defer cancel()
	if err := a.server.Stop(shutdownCtx); err != nil {
		return fmt.Errorf("failed to stop server: %w", err)
	}

	if a.redisClient != nil {
		if err := a.redisClient.Close(); err != nil {
			a.logger.Warnf("failed to close redis: %v", err)
		} else {
			a.logger.Info("✅ Redis closed cleanly")
		}
	}

	a.logger.Info("✅ civicmap stopped cleanly")
	return nil
}
