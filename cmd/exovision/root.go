package main

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"exovision/internal/config"
)

// globalOptions are shared by every subcommand.
type globalOptions struct {
	configPath string
	envFile    string
	logLevel   string
	logFile    string
}

// serverOptions are the flags of serve and classifier.
type serverOptions struct {
	addr        string
	modelPath   string
	dataDir     string
	cors        bool
	maxUploadMB int
}

func buildRootCmd() *cobra.Command {
	g := &globalOptions{}
	root := &cobra.Command{
		Use:           "exovision",
		Short:         "Exoplanet disposition classifier service",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	addGlobalFlags(root, g)

	root.AddCommand(buildServeCmd(g), buildClassifierCmd(g), buildClientCmd())
	return root
}

func addGlobalFlags(cmd *cobra.Command, g *globalOptions) {
	cmd.PersistentFlags().StringVar(&g.configPath, "config", "", "Config file (.yaml|.yml|.json|.toml)")
	cmd.PersistentFlags().StringVar(&g.envFile, "env-file", ".env", "Dotenv file loaded before reading EXOVISION_* variables")
	cmd.PersistentFlags().StringVar(&g.logLevel, "log-level", "", "Log level: debug|info|warn|error (defaults EXOVISION_LOG_LEVEL or info)")
	cmd.PersistentFlags().StringVar(&g.logFile, "log-file", "", "Write logs to a rotated file instead of stderr (defaults EXOVISION_LOG_FILE)")
}

// loadDotenv reads path into the environment without overriding variables
// that are already set. A missing file is not an error.
func loadDotenv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("load %s: %w", path, err)
	}
	return nil
}

// resolveConfig layers defaults < config file < environment < flags. Only
// flags set on the command line override earlier layers. defaultAddr applies
// when no layer names an address.
func resolveConfig(cmd *cobra.Command, g *globalOptions, s *serverOptions, defaultAddr string) (config.Config, error) {
	if err := loadDotenv(g.envFile); err != nil {
		return config.Config{}, err
	}
	var cfg config.Config
	if g.configPath != "" {
		c, err := config.Load(g.configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	cfg.ApplyEnv()

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.LogLevel = g.logLevel
	}
	if flags.Changed("log-file") {
		cfg.LogFile = g.logFile
	}
	if s != nil {
		if flags.Changed("addr") {
			cfg.Addr = s.addr
		}
		if flags.Changed("model") {
			cfg.ModelPath = s.modelPath
		}
		if flags.Changed("data-dir") {
			cfg.DataDir = s.dataDir
		}
		if flags.Changed("cors") {
			cfg.CORS.Enabled = s.cors
		}
		if flags.Changed("max-upload-mb") {
			cfg.MaxUploadMB = s.maxUploadMB
		}
	}
	if cfg.Addr == "" {
		cfg.Addr = defaultAddr
	}
	cfg.Normalize()
	return cfg, nil
}

func addServerFlags(cmd *cobra.Command, s *serverOptions, withData bool) {
	cmd.Flags().StringVar(&s.addr, "addr", "", "HTTP listen address, e.g. :8000 (defaults EXOVISION_ADDR)")
	cmd.Flags().StringVar(&s.modelPath, "model", "", "Model artifact path (defaults EXOVISION_MODEL_PATH or "+config.DefaultModelPath+")")
	cmd.Flags().BoolVar(&s.cors, "cors", false, "Enable CORS for browser clients")
	if withData {
		cmd.Flags().StringVar(&s.dataDir, "data-dir", "", "Directory for uploads and the sample dataset (defaults EXOVISION_DATA_DIR or "+config.DefaultDataDir+")")
		cmd.Flags().IntVar(&s.maxUploadMB, "max-upload-mb", config.DefaultMaxUploadMB, "Maximum upload size in MiB")
	}
}
