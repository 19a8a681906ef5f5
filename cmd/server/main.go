/*
main.go - Application entry point

PURPOSE:
  Initializes and starts the leave compliance server. Handles
  configuration, dependency injection, and graceful shutdown.

STARTUP SEQUENCE:
  1. Parse command-line flags
  2. Initialize SQLite store
  3. Load rule configuration (defaults when no file given)
  4. Seed default policies on an empty database
  5. Create API handler and router
  6. Start working-day scheduler
  7. Start server with graceful shutdown

COMMAND-LINE FLAGS:
  -port    HTTP server port (default: 8080)
  -db      SQLite database path (default: compliance.db)
           Use ":memory:" for in-memory database
  -config  Rule configuration JSON path (optional)

GRACEFUL SHUTDOWN:
  On SIGINT/SIGTERM:
  1. Stop accepting new connections
  2. Wait for active requests to complete (30s timeout)
  3. Stop the scheduler and close the database
  4. Exit

EXAMPLES:
  # Run with file database
  ./server -db="./data/compliance.db"

  # Run with custom thresholds
  ./server -config="./rules.json"

SEE ALSO:
  - api/server.go: Router configuration
  - api/handlers.go: HTTP handlers
  - factory/config.go: Configuration parsing
*/
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/warp/compliance-engine/api"
	"github.com/warp/compliance-engine/compliance"
	"github.com/warp/compliance-engine/factory"
	"github.com/warp/compliance-engine/store/sqlite"
)

func main() {
	// Flags
	port := flag.Int("port", 8080, "HTTP server port")
	dbPath := flag.String("db", "compliance.db", "SQLite database path")
	configPath := flag.String("config", "", "Rule configuration JSON path")
	flag.Parse()

	// Initialize store
	store, err := sqlite.New(*dbPath)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer store.Close()

	// Load rule configuration
	config, restrictions, err := factory.LoadEngineConfig(*configPath)
	if err != nil {
		log.Fatalf("Failed to load rule configuration: %v", err)
	}

	// Seed default policies on first run
	seedPolicies(store)

	// Initialize handler
	handler, err := api.NewHandler(store)
	if err != nil {
		log.Fatalf("Failed to initialize handler: %v", err)
	}
	handler.Engine.Config = config
	handler.Engine.Restrictions = restrictions

	// Create router
	router := api.NewRouter(handler)

	// Start working-day scheduler
	scheduler := api.NewWorkingDaysScheduler(store)
	scheduler.Start()
	defer scheduler.Stop()

	// Create server
	server := &http.Server{
		Addr:         fmt.Sprintf(":%d", *port),
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server starting on http://localhost:%d", *port)
		log.Printf("API available at http://localhost:%d/api", *port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server failed: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Fatalf("Server forced to shutdown: %v", err)
	}

	log.Println("Server stopped")
}

// seedPolicies installs the default per-type policies, skipping any
// leave type that already has an active policy.
func seedPolicies(store *sqlite.Store) {
	ctx := context.Background()
	for _, policy := range factory.DefaultPolicies() {
		err := store.SavePolicy(ctx, policy)
		if err != nil && !errors.Is(err, compliance.ErrDuplicateActivePolicy) {
			log.Printf("Warning: failed to seed policy for %s: %v", policy.LeaveType, err)
		}
	}
}
