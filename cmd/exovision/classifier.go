package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"exovision/internal/config"
	"exovision/internal/httpapi"
	"exovision/internal/model"
	"exovision/internal/predict"
)

func buildClassifierCmd(g *globalOptions) *cobra.Command {
	s := &serverOptions{}
	cmd := &cobra.Command{
		Use:   "classifier",
		Short: "Run the standalone classifier service (/predict)",
		Long: "Run the classifier service. The model artifact is loaded once at startup;\n" +
			"a missing or unreadable artifact stops the process.",
		Example: "  exovision classifier --addr :8001 --model models/exoplanet_model.json",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := resolveConfig(cmd, g, s, config.DefaultClassifierAddr)
			if err != nil {
				return err
			}
			logger, err := setupLogging(cfg.LogLevel, cfg.LogFile)
			if err != nil {
				return err
			}
			models, err := model.LoadStatic(cfg.ModelPath)
			if err != nil {
				logger.Error().Err(err).Str("model_path", cfg.ModelPath).Msg("cannot start classifier")
				return err
			}
			logger.Info().Str("addr", cfg.Addr).Str("model_path", cfg.ModelPath).Msg("exovision classifier listening")

			configureHTTP(cfg, logger)
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return listenAndServe(ctx, cfg.Addr, httpapi.NewClassifierMux(predict.NewClassifier(models)), logger)
		},
	}
	addServerFlags(cmd, s, false)
	return cmd
}
