package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/pageza/cookbook/backend/config"
	"github.com/pageza/cookbook/backend/internal/api"
	"github.com/pageza/cookbook/backend/internal/database"
	"github.com/pageza/cookbook/backend/internal/middleware"
	"github.com/pageza/cookbook/backend/internal/server"
	"github.com/pageza/cookbook/backend/internal/service"
)

func main() {
	// Load .env when present; real deployments use the environment directly
	if err := godotenv.Load(); err == nil {
		log.Println("Loaded configuration from .env")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	db, err := database.New(cfg)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := database.RunMigrations(db); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}

	ctx := context.Background()
	s3Config, err := config.NewS3Config(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize S3 client: %v", err)
	}
	storage := service.NewStorageService(s3Config)

	// OCR availability is a boot-time capability check; a missing engine
	// degrades the image pipeline to manual text entry
	var ocr service.OCREngine
	if cfg.OCREnabled {
		engine, err := service.NewTesseractEngine()
		if err != nil {
			log.Printf("Warning: OCR disabled: %v", err)
		} else {
			ocr = engine
		}
	}

	// Redis is optional and only backs the submission rate limiter
	var limiter *middleware.RateLimiter
	if redisClient, err := database.NewRedisClient(cfg); err != nil {
		log.Printf("Warning: rate limiting disabled: %v", err)
	} else {
		limiter = middleware.NewSubmissionRateLimiter(redisClient)
	}

	recipeService := service.NewRecipeService(db, storage, ocr, cfg.DefaultImageExt)
	recipeHandler := api.NewRecipeHandler(recipeService)

	srv := server.New(cfg, db, recipeHandler, limiter)

	// Channel to listen for errors coming from the server
	errChan := make(chan error, 1)

	// Start server in a goroutine
	go func() {
		log.Println("Starting server...")
		errChan <- srv.Start()
	}()

	// Channel to listen for an interrupt or terminate signal from the OS
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	// Block until we receive a signal or error
	select {
	case err := <-errChan:
		if err != nil {
			log.Fatalf("Server error: %v", err)
		}
	case sig := <-quit:
		log.Printf("Received signal: %v", sig)
	}

	// Gracefully shutdown the server
	log.Println("Shutting down server...")
	if err := srv.Shutdown(context.Background()); err != nil {
		log.Fatalf("Server shutdown error: %v", err)
	}
	log.Println("Server stopped")
}
