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

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"exovision/internal/config"
	"exovision/internal/httpapi"
	"exovision/internal/model"
	"exovision/internal/predict"
	"exovision/internal/state"
	"exovision/internal/storage"
)

const shutdownTimeout = 5 * time.Second

func buildServeCmd(g *globalOptions) *cobra.Command {
	s := &serverOptions{}
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the API service (/api/*)",
		Long: "Run the API service. The model artifact is loaded lazily on the first request and\n" +
			"reloaded when the file changes; a missing artifact fails requests with 404, not startup.",
		Example: "  exovision serve --addr :8000 --model models/exoplanet_model.json --data-dir data",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, g, s, config.DefaultAddr)
			if err != nil {
				return err
			}
			logger, err := setupLogging(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, logger)
		},
	}
	addServerFlags(cmd, s, true)
	return cmd
}

func runServe(ctx context.Context, cfg config.Config, logger zerolog.Logger) error {
	files, err := storage.New(cfg.DataDir)
	if err != nil {
		return fmt.Errorf("data dir: %w", err)
	}
	models, err := model.NewLazy(cfg.ModelPath, cfg.ModelCache)
	if err != nil {
		return err
	}
	st := state.New(state.Options{
		Hyperparams:     cfg.Hyperparams,
		Stats:           cfg.Stats,
		RetrainStep:     cfg.Retrain.Step,
		AccuracyCeiling: cfg.Retrain.Ceiling,
		VersionStep:     cfg.Retrain.VersionStep,
	})
	svc := predict.NewService(predict.NewClassifier(models), files, st)

	go func() {
		if err := models.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
			logger.Warn().Err(err).Str("model_path", cfg.ModelPath).Msg("model watcher stopped; changes are picked up by file fingerprint only")
		}
	}()
	if !models.Ready() {
		logger.Warn().Str("model_path", cfg.ModelPath).Msg("model artifact not found; prediction requests will fail until it exists")
	}

	configureHTTP(cfg, logger)
	httpapi.SetMaxUploadBytes(cfg.MaxUploadBytes())
	logger.Info().
		Str("addr", cfg.Addr).
		Str("model_path", cfg.ModelPath).
		Str("data_dir", files.Dir()).
		Int("max_upload_mb", cfg.MaxUploadMB).
		Msg("exovision API listening")
	return listenAndServe(ctx, cfg.Addr, httpapi.NewMux(svc), logger)
}

// configureHTTP applies settings shared by both services to the HTTP layer.
func configureHTTP(cfg config.Config, logger zerolog.Logger) {
	httpapi.SetLogger(logger)
	httpapi.SetRequestLogLevel(requestLogLevel(cfg.LogLevel))
	httpapi.SetCORSOptions(cfg.CORS.Enabled, cfg.CORS.Origins, cfg.CORS.Methods, cfg.CORS.Headers)
}

// requestLogLevel maps the process log level onto per-request logging.
func requestLogLevel(level string) string {
	switch level {
	case "debug", "trace":
		return "debug"
	case "warn", "warning", "error", "fatal", "panic":
		return "error"
	case "disabled", "off":
		return "off"
	default:
		return "info"
	}
}

// listenAndServe runs h until ctx is canceled, then shuts down gracefully.
func listenAndServe(ctx context.Context, addr string, h http.Handler, logger zerolog.Logger) error {
	httpapi.SetBaseContext(ctx)
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errCh := make(chan error, 1)
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	sctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(sctx); err != nil {
		logger.Error().Err(err).Msg("graceful shutdown error")
		return err
	}
	return nil
}
