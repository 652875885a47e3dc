package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Dan9191/quillpost/internal/config"
	"github.com/Dan9191/quillpost/internal/flash"
	"github.com/Dan9191/quillpost/internal/handler"
	"github.com/Dan9191/quillpost/internal/repository"
	"github.com/Dan9191/quillpost/internal/repository/memory"
	"github.com/Dan9191/quillpost/internal/service"
	"github.com/Dan9191/quillpost/internal/session"
	"github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
)

// store is what both the service layer and the session manager need
type store interface {
	service.Store
	session.Store
}

func main() {
	configPath := pflag.StringP("config", "c", "", "path to a YAML config file")
	port := pflag.StringP("port", "p", "", "port to listen on (overrides PORT)")
	pflag.Parse()

	// Initialize logger
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	// Load configuration
	cfg, err := config.NewConfig(*configPath)
	if err != nil {
		logger.Fatalf("Failed to load config: %v", err)
	}
	if *port != "" {
		cfg.Port = *port
	}
	logLevel, err := logrus.ParseLevel(cfg.LogLevel)
	if err != nil {
		logLevel = logrus.InfoLevel
	}
	logger.SetLevel(logLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize storage
	var st store
	if cfg.DBDriver == "memory" {
		logger.Warn("Using in-memory storage, data is lost on restart")
		st = memory.New()
	} else {
		db, err := repository.Open(ctx, cfg.DBDriver, cfg.DBConn)
		if err != nil {
			logger.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()
		if err := repository.Migrate(ctx, db); err != nil {
			logger.Fatalf("Failed to apply migrations: %v", err)
		}
		st = repository.NewRepository(db)
	}

	// Initialize layers
	svc := service.NewService(st, logger, cfg)
	sessions := session.NewManager(st, logger, cfg)
	h, err := handler.NewHandler(svc, sessions, flash.New(cfg.SessionSecret, cfg.CookieSecure), logger, cfg.SiteTitle)
	if err != nil {
		logger.Fatalf("Failed to load templates: %v", err)
	}

	sweeper, err := session.NewSweeper(st, logger, cfg.SweepInterval)
	if err != nil {
		logger.Fatalf("Failed to start session sweeper: %v", err)
	}
	sweeper.Start()
	defer sweeper.Stop()

	// Start server
	addr := fmt.Sprintf(":%s", cfg.Port)
	server := &http.Server{
		Addr:         addr,
		Handler:      h.Router(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		logger.Info("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			logger.Errorf("Graceful shutdown failed: %v", err)
		}
	}()

	logger.Infof("Starting server on %s", addr)
	if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatalf("Server failed: %v", err)
	}
}
