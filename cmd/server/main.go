package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/laguna/integration/internal/application/importer"
	"github.com/laguna/integration/internal/application/status"
	"github.com/laguna/integration/internal/application/sync"
	"github.com/laguna/integration/internal/infrastructure/config"
	"github.com/laguna/integration/internal/infrastructure/erp"
	"github.com/laguna/integration/internal/infrastructure/logger"
	"github.com/laguna/integration/internal/infrastructure/notify"
	"github.com/laguna/integration/internal/infrastructure/storefront"
	"github.com/laguna/integration/internal/interfaces/http/handler"
	"github.com/laguna/integration/internal/interfaces/http/middleware"
	"github.com/laguna/integration/internal/interfaces/http/router"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
		MaxSizeMB:  cfg.Log.MaxSizeMB,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAgeDays: cfg.Log.MaxAgeDays,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting integration service",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Vendor clients
	storefrontClient, err := storefront.NewClient(&storefront.Config{
		StoreURL:   cfg.Storefront.StoreURL,
		PrivateKey: cfg.Storefront.PrivateKey,
		Token:      cfg.Storefront.Token,
		Timeout:    cfg.Storefront.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize storefront client", zap.Error(err))
	}

	erpClient, err := erp.NewClient(&erp.Config{
		AccountID:      cfg.ERP.AccountID,
		BaseURL:        cfg.ERP.BaseURL,
		RESTAPIVersion: cfg.ERP.RESTAPIVersion,
		ConsumerKey:    cfg.ERP.ConsumerKey,
		ConsumerSecret: cfg.ERP.ConsumerSecret,
		TokenID:        cfg.ERP.TokenID,
		TokenSecret:    cfg.ERP.TokenSecret,
		Timeout:        cfg.ERP.Timeout,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize ERP client", zap.Error(err))
	}

	mailer, err := notify.NewMailer(&notify.Config{
		Enabled:       cfg.Notifications.Enabled,
		APIKey:        cfg.Notifications.APIKey,
		FromEmail:     cfg.Notifications.FromEmail,
		FromName:      cfg.Notifications.FromName,
		ToEmails:      cfg.Notifications.ToEmails,
		SubjectPrefix: cfg.Notifications.SubjectPrefix,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize mailer", zap.Error(err))
	}

	// Application services
	syncService := sync.NewOrderSyncService(storefrontClient, erpClient, mailer, sync.Config{
		AutoCreateCustomers: cfg.OrderProcessing.AutoCreateCustomers,
		FallbackItemID:      cfg.OrderProcessing.FallbackItemID,
		Retry: sync.Policy{
			Attempts: cfg.OrderProcessing.RetryAttempts,
			Delay:    cfg.OrderProcessing.RetryDelay,
		},
	}, log)

	importService := importer.NewService(syncService, mailer, importer.Config{
		MaxFileSize:       cfg.Upload.MaxFileSize,
		AllowedExtensions: cfg.Upload.AllowedExtensions,
		Path:              cfg.Upload.Path,
	}, log)

	checker := status.NewChecker(storefrontClient, erpClient, mailer, status.Config{
		AppName:     cfg.App.Name,
		Environment: cfg.App.Env,
		UploadPath:  cfg.Upload.Path,
	}, log)

	verifier := storefront.NewWebhookVerifier(cfg.Webhook.SecretKey)
	if !verifier.Enforced() {
		log.Warn("Webhook signature verification disabled: no secret configured")
	}

	// HTTP engine
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()
	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	router.NewRouter(engine, router.WithAPIVersion("v1")).
		Register(handler.NewWebhookHandler(verifier, syncService)).
		Register(handler.NewOrderHandler(importService, syncService, storefrontClient)).
		Register(handler.NewStatusHandler(checker)).
		Register(handler.NewSystemHandler(cfg.App.Name, cfg.App.Version, cfg.App.Env)).
		Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
