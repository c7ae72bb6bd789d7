package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/alfredjeanlab/notes/internal/config"
	"github.com/alfredjeanlab/notes/internal/events"
	"github.com/alfredjeanlab/notes/internal/server"
	"github.com/alfredjeanlab/notes/internal/store/postgres"
	notesync "github.com/alfredjeanlab/notes/internal/sync"
)

var serveCmd = &cobra.Command{
	Use:     "serve",
	Short:   "Start the notes API server",
	GroupID: "system",
	Args:    cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelInfo
		if verbose {
			level = slog.LevelDebug
		}
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		// Load configuration.
		cfg, err := config.Load()
		if err != nil {
			return err
		}

		// Connect to Postgres.
		store, err := postgres.New(cfg.DatabaseURL)
		if err != nil {
			return err
		}

		// Create event publisher.
		var publisher events.Publisher
		if cfg.NATSURL != "" {
			pub, err := events.NewNATSPublisher(cfg.NATSURL)
			if err != nil {
				store.Close()
				return err
			}
			publisher = pub
			logger.Info("events enabled", "nats_url", cfg.NATSURL)
		} else {
			publisher = events.NoopPublisher{}
			logger.Info("events disabled (NOTES_NATS_URL not set)")
		}

		notesServer := server.NewNotesServer(store, publisher,
			server.WithLogger(logger),
			server.WithCookieSecure(cfg.CookieSecure),
			server.WithSessionTTL(cfg.SessionTTL),
		)
		httpServer := &http.Server{
			Addr:              cfg.HTTPAddr,
			Handler:           notesServer.NewHTTPHandler(),
			ReadHeaderTimeout: 10 * time.Second,
		}

		go func() {
			logger.Info("HTTP server listening", "addr", cfg.HTTPAddr)
			if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				logger.Error("HTTP server error", "err", err)
			}
		}()

		// Start backups if any destination is configured.
		var scheduler *notesync.Scheduler
		if cfg.SyncEnabled() {
			var dests []notesync.Destination

			if cfg.SyncS3Bucket != "" {
				s3Dest, err := notesync.NewS3Destination(context.Background(), notesync.S3Config{
					Bucket:   cfg.SyncS3Bucket,
					Key:      cfg.SyncS3Key,
					Region:   cfg.SyncS3Region,
					Endpoint: cfg.SyncS3Endpoint,
				})
				if err != nil {
					logger.Error("failed to create S3 sync destination", "err", err)
				} else {
					dests = append(dests, s3Dest)
					logger.Info("sync S3 destination enabled", "bucket", cfg.SyncS3Bucket, "key", cfg.SyncS3Key)
				}
			}

			if cfg.SyncFile != "" {
				dests = append(dests, notesync.NewFileDestination(cfg.SyncFile))
				logger.Info("sync file destination enabled", "path", cfg.SyncFile)
			}

			if len(dests) > 0 {
				scheduler = notesync.NewScheduler(store, dests, cfg.SyncInterval, logger).PurgeSessions(store)
				scheduler.Start()
				logger.Info("sync scheduler started", "interval", cfg.SyncInterval)
			}
		}

		logger.Info("notes server started", "http_addr", cfg.HTTPAddr)

		// Wait for SIGINT or SIGTERM.
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		sig := <-sigCh
		logger.Info("received signal, shutting down", "signal", sig)

		if scheduler != nil {
			scheduler.Stop()
			logger.Info("sync scheduler stopped")
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("HTTP server shutdown error", "err", err)
		}
		logger.Info("HTTP server stopped")

		if err := publisher.Close(); err != nil {
			logger.Error("error closing publisher", "err", err)
		}
		if err := store.Close(); err != nil {
			logger.Error("error closing store", "err", err)
		}

		logger.Info("shutdown complete")
		return nil
	},
}
