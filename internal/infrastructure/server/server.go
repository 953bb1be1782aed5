package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	apihttp "github.com/GriffinCanCode/CodeCraft/backend/internal/api/http"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/api/middleware"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/api/ws"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/preview"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/domain/workspace"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/config"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/logging"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/monitoring"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/resilience"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/infrastructure/tracing"
	"github.com/GriffinCanCode/CodeCraft/backend/internal/storage"
)

const shutdownTimeout = 10 * time.Second

// Server wraps the HTTP server and dependencies
type Server struct {
	router  *gin.Engine
	manager *workspace.Manager
	hub     *ws.Hub
	backend storage.Backend
	watcher *storage.Watcher
	tracer  *tracing.Tracer
	logger  *logging.Logger
	config  *config.Config
	metrics *monitoring.Metrics
}

// NewServer opens the storage backend, loads the workspace and wires the
// HTTP API on top of it.
func NewServer(ctx context.Context, cfg *config.Config, logger *logging.Logger) (*Server, error) {
	if logger == nil {
		logger = logging.NewNop()
	}
	if err := middleware.RegisterValidators(); err != nil {
		return nil, err
	}

	logger.Info("Initializing CodeCraft server",
		zap.String("port", cfg.Server.Port),
		zap.String("storage", cfg.Storage.Backend),
		zap.String("key", cfg.Storage.Key),
	)

	// Initialize metrics first (needed by other components)
	metrics := monitoring.NewMetrics()

	tracer := tracing.New("codecraft", logger.Component("tracing"))

	storageLog := logger.Component("storage")
	opts := StorageOptions(cfg.Storage)
	opts.Breaker.OnStateChange = func(name string, from, to resilience.State) {
		storageLog.Warn("Storage circuit breaker changed state",
			zap.String("backend", name),
			zap.String("from", from.String()),
			zap.String("to", to.String()))
	}
	backend, err := storage.Open(ctx, opts)
	if err != nil {
		metrics.Close()
		tracer.Close()
		return nil, fmt.Errorf("failed to open %s storage: %w", cfg.Storage.Backend, err)
	}
	adapter := storage.NewAdapter(backend, cfg.Storage.Key,
		storage.WithCompression(cfg.Storage.Compress),
		storage.WithLogger(storageLog),
	)

	manager := workspace.NewManager(adapter, logger.Component("workspace")).
		WithRecorder(metrics).
		WithUploadLimit(cfg.Upload.MaxBytes)
	manager.Load(ctx)

	composer, err := preview.NewComposer(cfg.Preview.CacheSize)
	if err != nil {
		backend.Close()
		metrics.Close()
		tracer.Close()
		return nil, fmt.Errorf("failed to create preview cache: %w", err)
	}
	composer.WithObserver(metrics)
	live := preview.NewLive(manager, composer, cfg.Preview.InlineAssets, logger.Component("preview"))
	hub := ws.NewHub(manager, live, logger.Component("stream")).WithObserver(metrics)

	var watcher *storage.Watcher
	if fb, ok := backend.(*storage.File); ok && cfg.Storage.Watch {
		wlog := logger.Component("watcher")
		watcher, err = storage.NewWatcher(fb, cfg.Storage.Key, func() {
			if err := manager.Reload(context.Background()); err != nil {
				wlog.Warn("Ignoring external workspace change", zap.Error(err))
			}
		}, wlog)
		if err != nil {
			logger.Warn("File watching disabled", zap.Error(err))
			watcher = nil
		}
	}

	// Create router
	if !cfg.Logging.Development {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(tracing.HTTPMiddleware(tracer))
	router.Use(monitoring.Middleware(metrics))
	router.Use(middleware.CORS(middleware.CORSFromOrigins(cfg.Server.AllowedOrigins)))
	if cfg.RateLimit.Enabled {
		logger.Info("Rate limiting enabled",
			zap.Int("rps", cfg.RateLimit.RequestsPerSecond),
			zap.Int("burst", cfg.RateLimit.Burst),
		)
		router.Use(middleware.RateLimit(middleware.RateLimitConfig{
			RequestsPerSecond: cfg.RateLimit.RequestsPerSecond,
			Burst:             cfg.RateLimit.Burst,
		}))
	}

	handlers := apihttp.NewHandlers(apihttp.Deps{
		Manager: manager,
		Live:    live,
		Hub:     hub,
		Metrics: apihttp.NewHandlerMetrics(metrics),
		Tracer:  tracer,
		Logger:  logger.Component("api"),
	})
	handlers.Register(router, metrics.Handler())

	logger.Info("Server initialized successfully")

	return &Server{
		router:  router,
		manager: manager,
		hub:     hub,
		backend: backend,
		watcher: watcher,
		tracer:  tracer,
		logger:  logger,
		config:  cfg,
		metrics: metrics,
	}, nil
}

// StorageOptions maps the storage config section onto backend options.
func StorageOptions(cfg config.StorageConfig) storage.Options {
	return storage.Options{
		Backend: cfg.Backend,
		Path:    cfg.Path,
		DSN:     cfg.DSN,
		S3: storage.S3Options{
			Endpoint:  cfg.S3.Endpoint,
			Region:    cfg.S3.Region,
			AccessKey: cfg.S3.AccessKey,
			SecretKey: cfg.S3.SecretKey,
			Bucket:    cfg.S3.Bucket,
			Prefix:    cfg.S3.Prefix,
			UseSSL:    cfg.S3.UseSSL,
		},
		Breaker: storage.BreakerOptions{
			Threshold: cfg.BreakerThreshold,
			Cooldown:  time.Duration(cfg.BreakerCooldown) * time.Second,
		},
	}
}

// Handler exposes the router, mainly for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Manager returns the workspace the server operates on.
func (s *Server) Manager() *workspace.Manager {
	return s.manager
}

// Run serves HTTP until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go s.hub.Run(ctx)
	if s.watcher != nil {
		go s.watcher.Run(ctx)
	}

	addr := s.config.Server.Host + ":" + s.config.Server.Port
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("Starting HTTP server", zap.String("addr", addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	s.hub.Close()
	shutdownCtx, done := context.WithTimeout(context.Background(), shutdownTimeout)
	defer done()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http shutdown: %w", err)
	}
	return nil
}

// Close releases the storage backend and background workers.
func (s *Server) Close() error {
	s.logger.Info("Shutting down server...")

	s.hub.Close()
	s.tracer.Close()
	s.metrics.Close()

	var err error
	if cerr := s.backend.Close(); cerr != nil {
		s.logger.Error("Failed to close storage backend", zap.Error(cerr))
		err = fmt.Errorf("failed to close storage: %w", cerr)
	}

	// Sync logger before exit
	_ = s.logger.Sync()
	return err
}
