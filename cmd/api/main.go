package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"farmpos/internal/config"
	"farmpos/internal/db"
	"farmpos/internal/httpserver"
	catalogrepo "farmpos/internal/repository/catalog"
	"farmpos/internal/repository/cartstore"
	orderrepo "farmpos/internal/repository/order"
	profilerepo "farmpos/internal/repository/profile"
	cartsvc "farmpos/internal/service/cart"
	catalogsvc "farmpos/internal/service/catalog"
	checkoutsvc "farmpos/internal/service/checkout"
	viewedsvc "farmpos/internal/service/viewed"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	rdb, err := db.ConnectRedis(ctx, cfg.RedisAddr)
	if err != nil {
		logger.Fatalf("connect to redis: %v", err)
	}
	defer rdb.Close()

	catalogRepo := catalogrepo.NewPostgres(dbpool, logger)
	catalogService := catalogsvc.New(catalogRepo)
	store := cartstore.NewRedis(rdb, cfg.CartNamespace, logger)
	cartService := cartsvc.New(store)
	viewedService := viewedsvc.New(store)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	checkoutService := checkoutsvc.New(cartService, orderRepo, logger)
	profileRepo := profilerepo.NewPostgres(dbpool, logger)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, rdb, httpserver.Deps{
		CatalogSvc:  catalogService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		ViewedSvc:   viewedService,
		ProfileRepo: profileRepo,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
