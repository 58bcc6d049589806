package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"shop-backend/internal/config"
	"shop-backend/internal/db"
	"shop-backend/internal/events"
	"shop-backend/internal/httpserver"
	"shop-backend/internal/metrics"
	"shop-backend/internal/redisx"
	cartrepo "shop-backend/internal/repository/cart"
	categoryrepo "shop-backend/internal/repository/category"
	orderrepo "shop-backend/internal/repository/order"
	productrepo "shop-backend/internal/repository/product"
	tokenrepo "shop-backend/internal/repository/token"
	userrepo "shop-backend/internal/repository/user"
	cartsvc "shop-backend/internal/service/cart"
	checkoutsvc "shop-backend/internal/service/checkout"
	ordersvc "shop-backend/internal/service/order"
	usersvc "shop-backend/internal/service/user"

	"github.com/joho/godotenv"
)

func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	var producer *events.Producer
	if len(cfg.KafkaBrokers) > 0 {
		producer = events.NewProducer(cfg.KafkaBrokers, events.TopicOrders, 1024, logger)
		producer.Start(ctx)
	}

	deps := httpserver.Deps{}

	if cfg.RedisAddr != "" {
		rdb := redisx.New(cfg.RedisAddr)
		defer rdb.Close()
		deps.Limiter = redisx.NewLimiter(rdb, cfg.RateLimit, cfg.RateWindow)
	}

	checkoutMetrics := metrics.NewCheckout()

	productRepo := productrepo.NewPostgres(dbpool, logger)
	categoryRepo := categoryrepo.NewPostgres(dbpool)
	cartRepo := cartrepo.NewPostgres(dbpool)
	orderRepo := orderrepo.NewPostgres(dbpool, logger)
	userRepo := userrepo.NewPostgres(dbpool)
	tokRepo := tokenrepo.NewPostgres(dbpool)

	var pub interface{ Publish(key, value []byte) }
	if producer != nil {
		pub = producer
	}

	deps.AuthSvc = usersvc.New(userRepo, tokRepo)
	deps.CartSvc = cartsvc.New(cartRepo)
	deps.CheckoutSvc = checkoutsvc.New(cartRepo, orderRepo, pub, checkoutMetrics, logger)
	deps.OrderSvc = ordersvc.New(orderRepo, pub, logger)
	deps.Products = productRepo
	deps.Categories = categoryRepo

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, deps)
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

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}

	if producer != nil {
		cancel()
		producer.WaitClosed()
	}
}
