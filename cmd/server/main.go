package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"mindcheck/internal/cache"
	"mindcheck/internal/catalog"
	"mindcheck/internal/config"
	"mindcheck/internal/logger"
	"mindcheck/internal/metrics"
	"mindcheck/internal/report"
	"mindcheck/internal/repository"
	"mindcheck/internal/scoring"
	"mindcheck/internal/service"
	"mindcheck/internal/storage"
	"mindcheck/internal/tracing"
	"mindcheck/internal/transport/rest"
	"mindcheck/internal/transport/ws"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.uber.org/zap"
)

// idleSessionTTL is how long an untouched session stays in memory
const idleSessionTTL = 2 * time.Hour

func main() {
	if err := run(); err != nil {
		fmt.Fprintln(os.Stderr, "mindcheck:", err)
		os.Exit(1)
	}
}

func run() error {
	ctx := context.Background()

	configDir := os.Getenv("CONFIG_DIR")
	if configDir == "" {
		configDir = "."
	}
	loader := config.NewLoader(configDir, nil)
	cfg, err := loader.Load()
	if err != nil {
		return err
	}

	logg, err := logger.New(cfg.Logging)
	if err != nil {
		return err
	}
	defer logg.Sync()
	log := logg.Logger
	loader.SetLogger(log)
	log.Info("started", zap.String("config_dir", configDir))

	// MongoDB connection
	mongoClient, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.Mongo.URI))
	if err != nil {
		return fmt.Errorf("connect to MongoDB: %w", err)
	}
	defer mongoClient.Disconnect(context.Background())

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := mongoClient.Ping(pingCtx, nil); err != nil {
		return fmt.Errorf("ping MongoDB: %w", err)
	}
	log.Info("Connected to MongoDB", zap.String("database", cfg.Mongo.Database))
	db := mongoClient.Database(cfg.Mongo.Database)

	// Redis connection
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr(),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer rdb.Close()

	if _, err := rdb.Ping(ctx).Result(); err != nil {
		return fmt.Errorf("ping Redis: %w", err)
	}
	log.Info("Connected to Redis", zap.String("addr", cfg.RedisAddr()))

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer(cfg.Tracing.ServiceName, cfg.Tracing.CollectorEndpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer tp.Shutdown(context.Background())
		log.Info("Tracing enabled", zap.String("collector", cfg.Tracing.CollectorEndpoint))
	}

	// Catalog
	cat, err := catalog.Bundled()
	if err != nil {
		return fmt.Errorf("load bundled catalog: %w", err)
	}
	if cfg.Catalog.Dir != "" {
		n, err := cat.LoadDir(cfg.Catalog.Dir)
		if err != nil {
			return fmt.Errorf("load catalog dir: %w", err)
		}
		log.Info("Loaded extra assessments", zap.Int("count", n), zap.String("dir", cfg.Catalog.Dir))
	}

	// Export storage
	store, err := storage.New(cfg.Storage)
	if err != nil {
		return fmt.Errorf("init storage: %w", err)
	}
	if mp, ok := store.(*storage.MinioProvider); ok {
		if err := mp.EnsureBucket(ctx); err != nil {
			// exports fail with 503 until the bucket is reachable
			log.Warn("Export bucket unavailable", zap.Error(err))
		}
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	m := metrics.New(reg)

	// Initialize WebSocket hub
	wsHub := ws.NewHub(m, log)
	defer wsHub.Close()

	renderer, err := report.NewRenderer()
	if err != nil {
		return err
	}

	// Initialize services
	sessionCache := cache.NewSessionCache(rdb, cfg.Session.SnapshotTTL, log)
	identity := service.NewIdentityService(cfg.JWT.Secret, cfg.JWT.TTL)
	assessments := service.NewAssessmentService(cat, sessionCache, m, log)
	reports := service.NewReportService(service.ReportDeps{
		Catalog:     cat,
		Cache:       sessionCache,
		Repo:        repository.NewReportRepo(db),
		Builder:     report.NewBuilder(scoring.NewEngine()),
		Renderer:    renderer,
		Storage:     store,
		Broadcaster: wsHub,
		Metrics:     m,
		Log:         log,
		PublicURL:   cfg.Server.PublicURL,
		StepDelay:   cfg.Analysis.StepDelay,
	})

	autosaver := service.NewAutoSaver(assessments, cfg.Session.AutosaveInterval, idleSessionTTL, log)
	saverCtx, stopSaver := context.WithCancel(ctx)
	saverDone := make(chan struct{})
	go func() {
		autosaver.Run(saverCtx)
		close(saverDone)
	}()

	loader.Watch(func(c *config.Config) {
		logg.SetLevel(c.Logging.Level)
		autosaver.SetInterval(c.Session.AutosaveInterval)
		reports.SetStepDelay(c.Analysis.StepDelay)
	})

	container := &rest.Container{
		Identity:    identity,
		Assessments: assessments,
		Reports:     reports,
		WSHub:       wsHub,
		Metrics:     m,
		Log:         log,
		CORS:        cfg.CORS,
		RateLimit:   cfg.RateLimit,
		Tracing:     cfg.Tracing.Enabled,
	}
	if local, ok := store.(*storage.LocalProvider); ok {
		container.ExportDir = local.Root()
		container.ExportPrefix = cfg.Storage.LocalURLPrefix
	}

	srv := &http.Server{
		Addr:    ":" + cfg.Server.Port,
		Handler: rest.NewRouter(container),
	}

	serveErr := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
	}()

	// Wait for interrupt
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-quit:
	case err := <-serveErr:
		stopSaver()
		<-saverDone
		return fmt.Errorf("listen: %w", err)
	}
	log.Info("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
	}

	// final flush of in-progress sessions
	stopSaver()
	<-saverDone

	log.Info("Server exited")
	return nil
}
