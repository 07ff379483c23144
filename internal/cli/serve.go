package cli

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/adaptived/cadence/internal/config"
	"github.com/adaptived/cadence/internal/learning"
	"github.com/adaptived/cadence/internal/server"
	"github.com/adaptived/cadence/internal/store"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	// A .env in the working directory can carry CADENCE_* overrides.
	_ = godotenv.Load()

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	db, err := openDB(cfg)
	if err != nil {
		return fmt.Errorf("open database: %w", err)
	}
	defer db.Close()

	eng, err := learning.New(cfg.Learning, db)
	if err != nil {
		return fmt.Errorf("init engine: %w", err)
	}

	srv := server.New(eng, db, VersionString())
	addr := cfg.ListenAddr()

	httpServer := &http.Server{
		Addr:    addr,
		Handler: srv,
	}

	// Graceful shutdown
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		fmt.Fprintf(os.Stderr, "cadence serving on %s\n", addr)
		fmt.Fprintf(os.Stderr, "  db: %s\n", db.Path)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			fmt.Fprintf(os.Stderr, "server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-done
	fmt.Fprintln(os.Stderr, "\nshutting down...")

	if err := eng.Sync(); err != nil {
		fmt.Fprintf(os.Stderr, "flush state: %v\n", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	return httpServer.Shutdown(ctx)
}

// loadConfig reads the config file (CADENCE_CONFIG or ~/.cadence/config.yaml)
// with environment overrides applied.
func loadConfig() (config.Config, error) {
	path := os.Getenv("CADENCE_CONFIG")
	if path == "" {
		var err error
		path, err = config.DefaultPath()
		if err != nil {
			return config.Config{}, err
		}
	}
	return config.Load(path)
}

// openDB opens the sqlite database for CLI commands.
func openDB(cfg config.Config) (*store.DB, error) {
	dbPath := cfg.Database.Path
	if dbPath == "" {
		var err error
		dbPath, err = store.DefaultDBPath()
		if err != nil {
			return nil, err
		}
	}
	return store.Open(dbPath)
}
