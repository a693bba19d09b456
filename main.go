package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/video-learn/backend/internal/api"
	"github.com/video-learn/backend/internal/auth"
	"github.com/video-learn/backend/internal/categories"
	"github.com/video-learn/backend/internal/config"
	"github.com/video-learn/backend/internal/media"
	"github.com/video-learn/backend/internal/store"
)

func main() {
	cfg := config.Load()

	// Initialize the document store and seed the admin account
	st := store.New(cfg.DataPath)
	if err := st.Init(cfg.AdminUsername, cfg.AdminPassword); err != nil {
		log.Fatalf("Failed to initialize store: %v", err)
	}
	log.Printf("Admin user ensured: %s", cfg.AdminUsername)

	// Upload directory
	library, err := media.New(cfg.UploadPath)
	if err != nil {
		log.Fatalf("Failed to initialize upload dir: %v", err)
	}

	// Category configuration
	cats := categories.New(cfg.DataPath)
	if _, err := cats.List(); err != nil {
		log.Fatalf("Failed to initialize categories: %v", err)
	}

	// Initialize JWT service
	jwtService := auth.NewJWTService(cfg.JWTSecret)

	// Create router
	router := api.NewRouter(st, jwtService, cfg, library, cats)

	// Start server
	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on %s", addr)
	log.Printf("Data path: %s", cfg.DataPath)
	log.Printf("Upload path: %s", cfg.UploadPath)

	// Graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		log.Println("Shutting down...")
		os.Exit(0)
	}()

	if err := http.ListenAndServe(addr, router); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
