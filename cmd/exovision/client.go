package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"exovision/internal/client"
	"exovision/pkg/types"
)

func buildClientCmd() *cobra.Command {
	var (
		server  string
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "client",
		Short: "Call a running API or classifier service",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return fmt.Errorf("client requires a subcommand: predict|upload|stats|retrain|config|data|rows")
		},
	}
	cmd.PersistentFlags().StringVar(&server, "server", "http://localhost:8000", "Base URL of the service")
	cmd.PersistentFlags().DurationVar(&timeout, "timeout", 30*time.Second, "Request timeout")
	newClient := func() *client.Client { return client.New(server, timeout) }

	var rec types.FeatureRecord
	predictCmd := &cobra.Command{
		Use:     "predict",
		Short:   "Classify one candidate",
		Example: "  exovision client predict --orbital-period 365 --transit-duration 0.5 --planet-radius 1 --stellar-temp 5800 --stellar-radius 1",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			resp, err := newClient().Predict(cmd.Context(), rec)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	predictCmd.Flags().Float64Var(&rec.OrbitalPeriod, flagName(types.FeatureOrbitalPeriod), 0, "Orbital period (days)")
	predictCmd.Flags().Float64Var(&rec.TransitDuration, flagName(types.FeatureTransitDuration), 0, "Transit duration (days)")
	predictCmd.Flags().Float64Var(&rec.PlanetRadius, flagName(types.FeaturePlanetRadius), 0, "Planet radius (Earth radii)")
	predictCmd.Flags().Float64Var(&rec.StellarTemp, flagName(types.FeatureStellarTemp), 0, "Stellar temperature (K)")
	predictCmd.Flags().Float64Var(&rec.StellarRadius, flagName(types.FeatureStellarRadius), 0, "Stellar radius (solar radii)")
	for _, f := range types.FeatureColumns {
		_ = predictCmd.MarkFlagRequired(flagName(f))
	}

	uploadCmd := &cobra.Command{
		Use:     "upload <file.csv>",
		Short:   "Upload a CSV dataset for batch scoring",
		Example: "  exovision client upload koi.csv",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			resp, err := newClient().Upload(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	statsCmd := &cobra.Command{Use: "stats", Short: "Show model statistics", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Stats(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	}}
	retrainCmd := &cobra.Command{Use: "retrain", Short: "Trigger mock retraining", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Retrain(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	}}
	dataCmd := &cobra.Command{Use: "data", Short: "Preview the sample dataset", Args: cobra.NoArgs, RunE: func(cmd *cobra.Command, args []string) error {
		resp, err := newClient().Data(cmd.Context())
		if err != nil {
			return err
		}
		return printJSON(cmd.OutOrStdout(), resp)
	}}

	var (
		learningRate float64
		nEstimators  int
		maxDepth     int
	)
	configCmd := &cobra.Command{
		Use:     "config",
		Short:   "Update hyperparameters (only flags given are sent)",
		Example: "  exovision client config --max-depth 8",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var u types.ConfigUpdate
			if cmd.Flags().Changed("learning-rate") {
				u.LearningRate = &learningRate
			}
			if cmd.Flags().Changed("n-estimators") {
				u.NEstimators = &nEstimators
			}
			if cmd.Flags().Changed("max-depth") {
				u.MaxDepth = &maxDepth
			}
			resp, err := newClient().UpdateConfig(cmd.Context(), u)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}
	configCmd.Flags().Float64Var(&learningRate, "learning-rate", 0, "Learning rate")
	configCmd.Flags().IntVar(&nEstimators, "n-estimators", 0, "Number of estimators")
	configCmd.Flags().IntVar(&maxDepth, "max-depth", 0, "Maximum tree depth")

	rowsCmd := &cobra.Command{
		Use:     "rows <file.json|->",
		Short:   "Send {\"rows\": [...]} to the classifier service",
		Example: "  echo '{\"rows\":[{\"a\":1,\"b\":2}]}' | exovision client rows --server http://localhost:8001 -",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var r io.Reader = cmd.InOrStdin()
			if args[0] != "-" {
				f, err := os.Open(args[0])
				if err != nil {
					return err
				}
				defer f.Close()
				r = f
			}
			var req types.RowsRequest
			if err := json.NewDecoder(r).Decode(&req); err != nil {
				return fmt.Errorf("decode rows: %w", err)
			}
			resp, err := newClient().PredictRows(cmd.Context(), req.Rows)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), resp)
		},
	}

	cmd.AddCommand(predictCmd, uploadCmd, statsCmd, retrainCmd, configCmd, dataCmd, rowsCmd)
	return cmd
}

// flagName spells a feature column as a CLI flag.
func flagName(feature string) string { return strings.ReplaceAll(feature, "_", "-") }

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
