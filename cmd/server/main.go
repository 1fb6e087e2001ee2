package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"country-converter/internal/auth"
	"country-converter/internal/config"
	"country-converter/internal/database"
	"country-converter/internal/handlers"
	"country-converter/internal/logger"
	"country-converter/internal/realtime"
	"country-converter/internal/routes"
	"country-converter/internal/service"

	"github.com/gin-gonic/gin"
)

func main() {
	configPath := flag.String("c", "", "Path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		fmt.Printf("Failed to load config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.ValidateServer(); err != nil {
		fmt.Printf("Invalid config: %v\n", err)
		os.Exit(1)
	}

	log := logger.New(cfg.Logger.Level)
	gin.SetMode(cfg.Server.GinMode)

	db, err := database.Open(cfg.Database.Path, log)
	if err != nil {
		log.Fatalf("Failed to open database: %v", err)
	}
	if err := database.Seed(db, log); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	tokens := auth.NewManager(cfg.JWT)
	hub := realtime.NewHub()
	h := handlers.New(
		db,
		tokens,
		service.NewCountryService(db),
		service.NewRateService(db, cfg.Server.ReferenceCurrency),
		hub,
		log,
	)
	router := routes.SetupRoutes(h, tokens, log)

	srv := &http.Server{
		Addr:              ":" + cfg.Server.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 15 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Infof("HTTP server is listening on port %s", cfg.Server.HTTPPort)
		log.Info("API endpoints:")
		log.Info("  POST   /api/login")
		log.Info("  GET    /api/users/me")
		log.Info("  GET    /api/countries")
		log.Info("  GET    /api/exchange-rates")
		log.Info("  PUT    /api/exchange-rates/:code")
		log.Info("  GET    /api/ws/rates")
		log.Info("  GET    /health")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	<-done
	log.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Errorf("Server forced to shutdown: %v", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		_ = sqlDB.Close()
	}
	log.Info("Server stopped gracefully")
}
