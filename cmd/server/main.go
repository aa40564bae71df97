package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/daybook-app/daybook/internal/api"
	"github.com/daybook-app/daybook/internal/config"
	"github.com/daybook-app/daybook/internal/core"
	"github.com/daybook-app/daybook/internal/store"
)

func main() {
	// Load configuration
	config.LoadConfig()

	// Setup logging
	log.SetFlags(log.LstdFlags | log.Lshortfile)
	if config.AppConfig.LogLevel == "DEBUG" {
		log.Println("Service starting in DEBUG mode")
	}

	// Command line flags for bulk entry import
	importFile := flag.String("import", "", "Import journal entries from a Markdown table file and exit")
	importUser := flag.String("import-user", "", "External user ID that receives imported entries")
	flag.Parse()

	// Initialize database store
	dbStore, err := store.NewSQLiteStore(config.AppConfig.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer dbStore.Close()

	// Initialize services
	entryService := core.NewEntryService(dbStore)
	reportService := core.NewReportService(dbStore)

	// Handle bulk import if requested
	if *importFile != "" {
		if *importUser == "" {
			log.Fatal("-import requires -import-user")
		}
		log.Printf("Starting entry import from %s...", *importFile)
		numImported, err := entryService.ImportFromFile(*importFile, *importUser)
		if err != nil {
			log.Fatalf("Entry import failed: %v", err)
		}
		log.Printf("Entry import complete. Imported %d entries. Exiting.", numImported)
		os.Exit(0)
	}

	// Initialize API Handler and Router
	apiHandler := api.NewAPIHandler(entryService, reportService)
	router := api.NewRouter(apiHandler)

	// Start HTTP server
	serverAddr := fmt.Sprintf(":%s", config.AppConfig.HTTPPort)

	srv := &http.Server{
		Addr:         serverAddr,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // PDF export of large ranges can take a while
		IdleTimeout:  120 * time.Second,
	}

	// Graceful shutdown handling
	go func() {
		log.Printf("Starting server on %s. Press Ctrl+C to quit.", serverAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Could not listen on %s: %v\n", serverAddr, err)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit // Block until a signal is received
	log.Println("Shutting down server...")

	// Give active connections time to finish.
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server exiting gracefully")
}
