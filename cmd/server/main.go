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
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/mvolkova/taskboard/internal/config"
	"github.com/mvolkova/taskboard/internal/db"
	"github.com/mvolkova/taskboard/internal/events"
	"github.com/mvolkova/taskboard/internal/httpserver"
	"github.com/mvolkova/taskboard/internal/logging"
	"github.com/mvolkova/taskboard/internal/middleware"
	"github.com/mvolkova/taskboard/internal/repo"
	"github.com/mvolkova/taskboard/internal/search"
	"github.com/mvolkova/taskboard/internal/service"
)

const taskIndex = "task"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	logger := logging.New(cfg.LogLevel)

	ctx := context.Background()
	database, err := db.Open(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("db init: %v", err)
	}

	producer := events.NewProducer(cfg.KafkaBrokers, cfg.KafkaTopic)

	var searchClient *search.Client
	if cfg.ESURL != "" {
		searchClient, err = search.NewClient(cfg.ESURL, cfg.ESUser, cfg.ESPassword, taskIndex)
		if err != nil {
			log.Fatalf("es init: %v", err)
		}
	}

	store := repo.NewGormRepo(database)

	authSvc := &service.AuthService{
		Repo:          store,
		JWTSecret:     cfg.JWTSecret,
		RefreshSecret: cfg.RefreshSecret,
		BcryptCost:    cfg.BcryptCost,
		Events:        producer,
	}
	taskSvc := &service.TaskService{
		Repo:   store,
		Events: producer,
		Search: searchClient,
	}

	e := echo.New()
	e.Pre(echomw.RemoveTrailingSlash())
	e.Use(echomw.Recover(), echomw.RequestID())
	e.Use(middleware.RequestLogger(logger))

	httpserver.Register(e, &httpserver.Deps{
		AuthHandler: &httpserver.AuthHTTP{Svc: authSvc, SecureCookies: !cfg.IsDev()},
		TaskHandler: &httpserver.TaskHTTP{Svc: taskSvc},
		Guard:       middleware.NewGuard(cfg.JWTSecret),
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.ServerPort),
		Handler:      e,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("http server error", "error", err)
		}
	}()
	logger.Info("server started", "port", cfg.ServerPort, "env", cfg.Env)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
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
