package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"bottlecraft/internal/catalog"
	"bottlecraft/internal/config"
	"bottlecraft/internal/httpserver"
	"bottlecraft/internal/logging"
	"bottlecraft/internal/preview"
	cartrepo "bottlecraft/internal/repository/cart"
	cartsvc "bottlecraft/internal/service/cart"
	catalogsvc "bottlecraft/internal/service/catalog"
)

func main() {
	cfg := config.FromEnv()
	logger, err := logging.New("api", cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	registry, err := catalog.Default()
	if err != nil {
		logger.Fatal("load embedded catalog", zap.Error(err))
	}
	if cfg.CatalogDir != "" {
		registry, err = catalog.LoadDir(cfg.CatalogDir, registry)
		if err != nil {
			logger.Fatal("load catalog overrides", zap.String("dir", cfg.CatalogDir), zap.Error(err))
		}
	}
	logger.Info("catalog loaded",
		zap.Int("families", len(registry.Families())),
		zap.Int("products", len(registry.Products())),
	)

	previews := preview.NewResolver(cfg.PreviewBaseURL)
	cartRepo := cartrepo.NewMemory(logger.Named("carts"), cfg.CartIdleTTL)
	cartService := cartsvc.New(cartRepo, registry, previews, cartsvc.Options{
		FreeShippingThreshold: cfg.FreeShippingThreshold,
		Currency:              cfg.Currency,
	}, logger.Named("cart"))
	catalogService := catalogsvc.New(registry, previews)

	srv, err := httpserver.New(cfg.HTTPAddr, logger.Named("http"), httpserver.Deps{
		CatalogSvc: catalogService,
		CartSvc:    cartService,
	}, httpserver.Options{CORSAllowedOrigins: cfg.CORSAllowedOrigins})
	if err != nil {
		logger.Fatal("init server", zap.Error(err))
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Info("starting http server", zap.String("addr", cfg.HTTPAddr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Info("received signal, shutting down", zap.String("signal", sig.String()))
	case err := <-serverErr:
		logger.Error("server error", zap.Error(err))
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("graceful shutdown failed", zap.Error(err))
	} else {
		logger.Info("server stopped")
	}
}
