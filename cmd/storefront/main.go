package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/mkravchenko/marketplace/internal/auth"
	"github.com/mkravchenko/marketplace/internal/cart"
	"github.com/mkravchenko/marketplace/internal/catalog"
	"github.com/mkravchenko/marketplace/internal/config"
	"github.com/mkravchenko/marketplace/internal/events"
	"github.com/mkravchenko/marketplace/internal/httpserver"
	"github.com/mkravchenko/marketplace/internal/orders"
	"github.com/mkravchenko/marketplace/internal/reviews"
	"github.com/mkravchenko/marketplace/internal/storage"
	"github.com/mkravchenko/marketplace/pkg/logging"
	loggingmw "github.com/mkravchenko/marketplace/pkg/middleware/logging"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	initCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	store, err := storage.Open(initCtx, cfg.DatabaseURL, cfg.StoragePath)
	cancel()
	if err != nil {
		log.Fatalf("storage init error: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers)

	users, err := auth.NewMemoryStore(auth.SeedUsers())
	if err != nil {
		log.Fatalf("user directory init error: %v", err)
	}
	users.Delay = 200 * time.Millisecond

	authSvc := auth.NewService(users, store, cfg.JWTSecret, producer)
	products := catalog.NewMemoryStore(catalog.SeedProducts())

	engine := cart.NewEngine(store, products, producer)
	engine.Load(logging.IntoContext(context.Background(), logger))

	e := echo.New()
	e.HideBanner = true
	e.Server.ReadTimeout = 10 * time.Second
	e.Server.WriteTimeout = 15 * time.Second
	e.Server.ReadHeaderTimeout = 3 * time.Second

	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(loggingmw.RequestLogger(logger))
	e.Use(middleware.CORS())

	httpserver.Register(e, &httpserver.Deps{
		Auth:      authSvc,
		Cart:      engine,
		Products:  products,
		Orders:    orders.NewStore(),
		Reviews:   reviews.NewStore(),
		Secret:    cfg.JWTSecret,
		UploadDir: cfg.UploadDir,
	})

	go func() {
		addr := fmt.Sprintf(":%d", cfg.ServerPort)
		logger.Info("starting storefront", "addr", addr)
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("echo start: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("echo shutdown", "error", err)
	}
	if err := store.Close(); err != nil {
		logger.Error("storage close", "error", err)
	}
	if err := producer.Close(); err != nil {
		logger.Error("producer close", "error", err)
	}

	logger.Info("shutdown complete")
}
