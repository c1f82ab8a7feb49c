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

	documentapp "github.com/ircomercio/ordens/internal/application/document"
	orderapp "github.com/ircomercio/ordens/internal/application/order"
	partnerapp "github.com/ircomercio/ordens/internal/application/partner"
	"github.com/ircomercio/ordens/internal/infrastructure/config"
	"github.com/ircomercio/ordens/internal/infrastructure/logger"
	"github.com/ircomercio/ordens/internal/infrastructure/persistence"
	"github.com/ircomercio/ordens/internal/infrastructure/portal"
	"github.com/ircomercio/ordens/internal/infrastructure/printing"
	"github.com/ircomercio/ordens/internal/interfaces/http/handler"
	"github.com/ircomercio/ordens/internal/interfaces/http/middleware"
	"github.com/ircomercio/ordens/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log)
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting order backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("variant", cfg.App.Variant),
		zap.String("port", cfg.App.Port),
	)

	db, err := persistence.NewDatabase(&cfg.Database)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	// Repositories and services
	orderRepo := persistence.NewGormOrderRepository(db.DB)
	supplierRepo := persistence.NewGormSupplierRepository(db.DB)

	supplierService := partnerapp.NewService(supplierRepo, log)
	orderService := orderapp.NewService(orderRepo, supplierService, cfg.Variant(), log)

	renderer := printing.NewChromedpRenderer(cfg.Printing, log)
	defer func() {
		if err := renderer.Close(); err != nil {
			log.Error("Error closing renderer", zap.Error(err))
		}
	}()
	documentService := documentapp.NewService(orderRepo, renderer, cfg.Printing.CompanyName, log)

	portalClient := portal.NewClient(cfg.Portal, log)

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
	engine.Use(logger.GinMiddleware(log))
	engine.Use(logger.Recovery(log))
	engine.Use(middleware.CORS(cfg.HTTP))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Public liveness endpoint, outside the session guard
	handler.NewHealthHandler(db).Register(engine)

	router.NewRouter(engine).
		Register(handler.NewOrderHandler(orderService)).
		Register(handler.NewSupplierHandler(supplierService)).
		Register(handler.NewDocumentHandler(documentService)).
		Setup(middleware.SessionAuth(portalClient, log))

	server := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("HTTP server listening", zap.String("addr", server.Addr))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("HTTP server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("Shutting down")
	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Error("Forced shutdown", zap.Error(err))
	}
	log.Info("Server stopped")
}
