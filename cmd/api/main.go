package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"taxapi/internal/config"
	"taxapi/internal/database"
	"taxapi/internal/server"
	"taxapi/internal/websocket"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

const shutdownTimeout = 10 * time.Second

var (
	envFile string
	cfg     *config.Config
	rootCmd = &cobra.Command{
		Use:               "taxapi",
		Short:             "Tax Management API",
		PersistentPreRunE: initConfig,
		RunE:              runServe,
		SilenceUsage:      true,
	}
)

// @title           Tax Management API
// @version         1.0
// @description     CRUD, filtering, summary and operator views over tax records.
// @host            localhost:8080
// @BasePath        /
func main() {
	rootCmd.PersistentFlags().StringVar(&envFile, "env-file", config.DefaultEnvFile, "dotenv file loaded before the environment")

	rootCmd.AddCommand(&cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP server (default)",
		RunE:  runServe,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE:  runMigrate,
	})
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(_ *cobra.Command, _ []string) {
			fmt.Println(cfg.Server.Version)
		},
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()

	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func initConfig(_ *cobra.Command, _ []string) error {
	loaded, err := config.Load(envFile)
	if err != nil {
		return err
	}
	cfg = loaded

	level, err := parseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if cfg.Log.Format == "json" {
		handler = slog.NewJSONHandler(os.Stderr, opts)
	} else {
		handler = slog.NewTextHandler(os.Stderr, opts)
	}
	slog.SetDefault(slog.New(handler))

	if cfg.Server.GinMode != "" {
		gin.SetMode(cfg.Server.GinMode)
	}
	return nil
}

func parseLevel(level string) (slog.Level, error) {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid log level: %s", level)
	}
}

func dbOptions() database.Options {
	return database.Options{
		Driver:   cfg.Database.Driver,
		DSN:      cfg.Database.DSN(),
		LogLevel: database.ParseLogLevel(cfg.Database.LogLevel),
	}
}

func runMigrate(_ *cobra.Command, _ []string) error {
	db, err := database.Open(dbOptions())
	if err != nil {
		return err
	}
	if err := database.Migrate(db); err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	slog.Info("schema migrated", "driver", cfg.Database.Driver)
	return nil
}

func runServe(cmd *cobra.Command, _ []string) error {
	db, err := database.NewConnection(dbOptions())
	if err != nil {
		return fmt.Errorf("database connection failed: %w", err)
	}
	slog.Info("connected to database", "driver", cfg.Database.Driver)

	hub := websocket.NewHub(slog.Default())
	go hub.Run()
	defer hub.Stop()

	srv := &http.Server{
		Addr:              cfg.Server.Addr(),
		Handler:           server.NewRouter(cfg.Server, db, hub, slog.Default()),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server listening", "addr", srv.Addr, "version", cfg.Server.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("server failed: %w", err)
	case <-cmd.Context().Done():
		slog.Info("shutting down")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(ctx)
}
