package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/promptlover/promptlover-be/internal/api"
	"github.com/promptlover/promptlover-be/internal/assets"
	"github.com/promptlover/promptlover-be/internal/auth"
	"github.com/promptlover/promptlover-be/internal/config"
	"github.com/promptlover/promptlover-be/internal/database"
	"github.com/promptlover/promptlover-be/internal/logger"
	"github.com/promptlover/promptlover-be/internal/monitoring"
	"github.com/promptlover/promptlover-be/internal/services"
	"github.com/promptlover/promptlover-be/internal/websocket"
)

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger.Init(cfg.AppEnv)

	// Set up database
	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatalf("Failed to apply database migrations: %v", err)
	}

	// Set up the image asset store: S3-compatible when configured,
	// local disk otherwise.
	var uploader assets.Uploader
	var uploadsDir string
	if cfg.S3Endpoint != "" {
		uploader, err = assets.NewS3Store(context.Background(), assets.S3Config{
			Endpoint:  cfg.S3Endpoint,
			Region:    cfg.S3Region,
			Bucket:    cfg.S3Bucket,
			AccessKey: cfg.S3AccessKey,
			SecretKey: cfg.S3SecretKey,
		})
		if err != nil {
			log.Fatalf("Failed to initialize S3 asset store: %v", err)
		}
	} else {
		localStore, err := assets.NewLocalStore(cfg.UploadDir, cfg.PublicBaseURL)
		if err != nil {
			log.Fatalf("Failed to initialize local asset store: %v", err)
		}
		uploader = localStore
		uploadsDir = localStore.Dir()
	}

	// Set up WebSocket Hub for live feed updates
	hub := websocket.NewHub()
	go hub.Run()

	// Set up services
	userService := services.NewUserService(db)
	eventService := services.NewEventService(db)
	promptService := services.NewPromptService(db, userService, eventService)

	// Session cookies
	sessions := auth.NewSessions(cfg.JWTSecret, cfg.AppEnv == "production")

	// Set up and run the background stats updater
	statsUpdater := monitoring.NewStatsUpdater(db, hub)
	go statsUpdater.Run()

	// Set up and run the counter reconciler
	reconciler := monitoring.NewReconciler(promptService, cfg.ReconcileSchedule)
	if err := reconciler.Run(); err != nil {
		log.Fatalf("Failed to start counter reconciler: %v", err)
	}

	// Set up router
	router := api.NewRouter(api.Deps{
		Sessions:   sessions,
		Users:      userService,
		Prompts:    promptService,
		Events:     eventService,
		Uploader:   uploader,
		Hub:        hub,
		Stats:      statsUpdater,
		UploadsDir: uploadsDir,
	})

	// Set up server
	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.ServerPort),
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		log.Printf("Server starting on port %d\n", cfg.ServerPort)
		if err := srv.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("ListenAndServe(): %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	statsUpdater.Stop() // Stop the monitoring service
	reconciler.Stop()   // Stop the scheduled sweeps

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting")
}
