package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	_ "github.com/mattn/go-sqlite3"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/fabrii324/Hojadevida-Fabricio/internal/config"
	"github.com/fabrii324/Hojadevida-Fabricio/internal/cv"
	"github.com/fabrii324/Hojadevida-Fabricio/internal/export"
	"github.com/fabrii324/Hojadevida-Fabricio/pkg/media"
	"github.com/fabrii324/Hojadevida-Fabricio/pkg/storage"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to a JSON or YAML config file")
	flag.Parse()

	// Load configuration
	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		boot, _ := zap.NewProduction()
		boot.Fatal("Failed to load configuration", zap.Error(err))
	}

	// Initialize logger
	logger, err := newLogger(cfg.Logging)
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	// Connect to database
	logger.Info("Connecting to database", zap.String("driver", cfg.Database.Driver))
	db, err := sqlx.Connect(cfg.Database.Driver, cfg.Database.GetDatabaseURL())
	if err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer db.Close()
	if cfg.Database.MaxConnections > 0 {
		db.SetMaxOpenConns(cfg.Database.MaxConnections)
	}
	if cfg.Database.MaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.Database.MaxIdleConns)
	}

	// Storage
	resolver, err := newResolver(context.Background(), cfg.Storage)
	if err != nil {
		logger.Fatal("Failed to initialize storage", zap.Error(err))
	}

	// Images
	fetcher := media.NewHTTPFetcher(cfg.PDF.FetchTimeout(), cfg.PDF.MaxImageBytes, cfg.PDF.MaxImagePixels())
	var imageCache *media.ImageCache
	if cfg.PDF.ImageCacheMinutes > 0 {
		imageCache = media.NewImageCache(cfg.PDF.ImageCacheTTL())
		defer imageCache.Stop()
	}

	// Initialize portfolio module
	repo := cv.NewSQLRepository(db)
	composer := cv.NewComposer(repo, fetcher, resolver, imageCache, cfg.PDF.PageSize, logger)
	exporters := cv.Exporters{
		cv.FormatXLSX: export.NewPortfolioExporter(),
		cv.FormatCSV:  export.NewCatalogueExporter(),
	}
	service := cv.NewService(repo, composer, resolver, exporters, cfg.Garage.WhatsApp, logger)
	handler := cv.NewHandler(service, cfg.PDF.FileName, logger)

	// Setup Router
	gin.SetMode(cfg.Server.Mode)
	router := gin.New()
	router.Use(gin.Recovery(), requestID(), requestLogger(logger))

	// CORS Middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Accept, Origin, X-Request-ID")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}

		c.Next()
	})

	// Register Routes
	handler.RegisterPages(router)
	api := router.Group("/api/v1")
	{
		handler.RegisterRoutes(api)
	}

	// Health Check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":    "healthy",
			"timestamp": time.Now(),
		})
	})

	// Start Server
	srv := &http.Server{
		Addr:         cfg.Server.GetServerAddr(),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeoutSeconds) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeoutSeconds) * time.Second,
		IdleTimeout:  time.Duration(cfg.Server.IdleTimeoutSeconds) * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	logger.Info("Server started", zap.String("addr", srv.Addr))

	// Graceful Shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Fatal("Server forced to shutdown", zap.Error(err))
	}

	logger.Info("Server exiting")
}

func newLogger(cfg config.LoggingConfig) (*zap.Logger, error) {
	if cfg.Development || cfg.Level == "debug" {
		return zap.NewDevelopment()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		level = zapcore.InfoLevel
	}
	zc := zap.NewProductionConfig()
	zc.Level = zap.NewAtomicLevelAt(level)
	return zc.Build()
}

func newResolver(ctx context.Context, cfg config.StorageConfig) (storage.URLResolver, error) {
	if cfg.Provider == "s3" {
		return storage.NewS3Resolver(ctx, storage.S3Options{
			Bucket:          cfg.Bucket,
			Region:          cfg.Region,
			Endpoint:        cfg.Endpoint,
			AccessKeyID:     cfg.AccessKeyID,
			SecretAccessKey: cfg.SecretAccessKey,
			PresignTTL:      cfg.PresignTTL(),
		})
	}
	return storage.NewPublicResolver(cfg.BaseURL), nil
}

// requestID tags every request with an X-Request-ID, keeping one supplied by the client.
func requestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := c.GetHeader("X-Request-ID")
		if id == "" {
			id = uuid.NewString()
		}
		c.Set(cv.RequestIDKey, id)
		c.Writer.Header().Set("X-Request-ID", id)
		c.Next()
	}
}

func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		logger.Info("Request",
			zap.String("request_id", c.GetString(cv.RequestIDKey)),
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("latency", time.Since(start)))
	}
}
