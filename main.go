package main

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-server/config"
	"storefront-server/database"
	"storefront-server/handlers"
	"storefront-server/services"
	"storefront-server/storage"
	"storefront-server/storefront"
	"storefront-server/ui"

	"github.com/gin-gonic/gin"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	// Load configuration
	cfg, err := config.Load(os.Args[1:])
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to load configuration:", err)
		os.Exit(2)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		fmt.Fprintln(os.Stderr, "Failed to create logger:", err)
		os.Exit(1)
	}
	defer logger.Sync()

	if err := run(cfg, logger); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsProduction() {
		return zap.NewProduction()
	}
	return zap.NewDevelopment()
}

func run(cfg *config.Config, logger *zap.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	shared, closeStorage, err := openStorage(cfg, logger)
	if err != nil {
		return err
	}
	defer closeStorage()

	catalog, err := config.LoadCatalog(cfg.CatalogPath)
	if err != nil {
		return err
	}
	logger.Info("catalog loaded", zap.Int("products", len(catalog)))

	var images ui.ImageResolver
	if cfg.CloudinaryURL != "" {
		resolver, err := services.NewImageResolver(cfg.CloudinaryURL)
		if err != nil {
			logger.Error("Cloudinary disabled, serving original images", zap.Error(err))
		} else {
			logger.Info("Cloudinary initialized", zap.String("cloud_name", resolver.CloudName()))
			images = resolver
		}
	}

	secret := cfg.SessionSecret
	if secret == "" {
		secret, err = randomSecret()
		if err != nil {
			return err
		}
		logger.Warn("SESSION_SECRET not set, sessions will not survive a restart")
	}

	pageLogger := logger.Named("page")
	registry := storefront.NewRegistry(func(ctx context.Context, sessionID string) *storefront.Page {
		return storefront.Boot(ctx, storefront.Options{
			Storage:              storage.Scoped(shared, sessionID),
			Catalog:              catalog,
			Images:               images,
			NotificationDuration: cfg.NotificationDuration,
			Logger:               pageLogger.With(zap.String("session_id", sessionID)),
		})
	}, cfg.SessionTTL, logger)

	sweepCtx, stopSweep := context.WithCancel(context.Background())
	sweepDone := make(chan struct{})
	go func() {
		registry.Run(sweepCtx, sweepInterval(cfg.SessionTTL))
		close(sweepDone)
	}()
	defer func() {
		stopSweep()
		<-sweepDone
	}()

	// Set Gin mode
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()
	router.Use(gin.Recovery(), handlers.RequestLogger(logger))
	handlers.New(registry, handlers.NewSessions(secret, cfg.IsProduction(), logger), logger).RegisterRoutes(router)

	c := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Content-Type"},
		AllowCredentials: true,
	})

	srv := &http.Server{
		Addr:              "0.0.0.0:" + cfg.ServerPort,
		Handler:           c.Handler(router),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Server starting", zap.String("addr", srv.Addr), zap.String("storage", cfg.StorageDriver))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}

// openStorage connects the configured backing store for cart slots.
func openStorage(cfg *config.Config, logger *zap.Logger) (storage.Storage, func(), error) {
	switch cfg.StorageDriver {
	case config.StoragePostgres:
		db, err := database.Connect(cfg.DatabaseURL, logger)
		if err != nil {
			return nil, nil, err
		}
		if err := db.InitializeTables(); err != nil {
			db.Close()
			return nil, nil, err
		}
		return storage.NewPostgresStorage(db.DB), func() { db.Close() }, nil
	case config.StorageSQLite:
		db, err := database.OpenSQLite(cfg.SQLitePath, 0, logger)
		if err != nil {
			return nil, nil, err
		}
		return storage.NewSQLiteStorage(db), func() { db.Close() }, nil
	default:
		logger.Warn("using in-memory storage, carts are lost on restart")
		return storage.NewMemoryStorage(), func() {}, nil
	}
}

func sweepInterval(ttl time.Duration) time.Duration {
	if interval := ttl / 2; interval > time.Second {
		return interval
	}
	return time.Second
}

func randomSecret() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("failed to generate session secret: %w", err)
	}
	return hex.EncodeToString(b), nil
}
