package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"github.com/agripulse/marketplace/internal/config"
	"github.com/agripulse/marketplace/internal/db"
	"github.com/agripulse/marketplace/internal/events"
	"github.com/agripulse/marketplace/internal/handlers"
	"github.com/agripulse/marketplace/internal/logging"
	loggingmw "github.com/agripulse/marketplace/internal/middleware/logging"
	"github.com/agripulse/marketplace/internal/mlclient"
	"github.com/agripulse/marketplace/internal/search"
	httpserver "github.com/agripulse/marketplace/internal/transport/http"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	database, err := db.Open(cfg.DBPath)
	if err != nil {
		log.Fatalf("db init error: %v", err)
	}
	logger.Info("connected to sqlite database", "path", cfg.DBPath)

	var producer *events.Producer
	if cfg.EventsEnabled() {
		producer = events.NewProducer([]string{cfg.KafkaAddress})
		logger.Info("kafka producer enabled", "address", cfg.KafkaAddress)
	}

	ml := mlclient.New(cfg.MLServiceURL, cfg.MLTimeout)

	var searchHandler *handlers.SearchHandler
	var indexer *search.Indexer
	if cfg.SearchEnabled() {
		esClient, err := search.NewClient(cfg)
		if err != nil {
			log.Fatalf("elasticsearch init error: %v", err)
		}
		indexer = &search.Indexer{ES: esClient, Index: cfg.ESIndex}
		searchHandler = &handlers.SearchHandler{ES: esClient, Index: cfg.ESIndex}
	}

	e := echo.New()
	e.HideBanner = true
	e.Pre(middleware.RemoveTrailingSlash())
	e.Use(middleware.Recover(), middleware.RequestID())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.AllowOrigins,
		AllowCredentials: true,
	}))
	e.Use(loggingmw.RequestLogger(logger))

	deps := httpserver.Deps{
		DB:             database,
		AuthHandler:    &handlers.AuthHandler{DB: database, Producer: producer},
		ProductHandler: &handlers.ProductHandler{DB: database, Producer: producer, Indexer: indexer},
		PredictHandler: &handlers.PredictHandler{ML: ml},
		SearchHandler:  searchHandler,
	}
	httpserver.Register(e, &deps)

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server starting", "port", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", "error", err)
	}

	if sqlDB, err := database.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", "error", err)
		}
	}

	if err := producer.Close(); err != nil {
		logger.Error("kafka close error", "error", err)
	}

	logger.Info("shutdown complete")
}
