package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	toml "github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"

	"exovision/pkg/types"
)

// Environment variables read by ApplyEnv.
const (
	EnvAddr      = "EXOVISION_ADDR"
	EnvModelPath = "EXOVISION_MODEL_PATH"
	EnvDataDir   = "EXOVISION_DATA_DIR"
	EnvLogLevel  = "EXOVISION_LOG_LEVEL"
	EnvLogFile   = "EXOVISION_LOG_FILE"
)

// CORS configures the cross-origin middleware.
type CORS struct {
	Enabled bool     `json:"enabled" yaml:"enabled" toml:"enabled"`
	Origins []string `json:"origins" yaml:"origins" toml:"origins"`
	Methods []string `json:"methods" yaml:"methods" toml:"methods"`
	Headers []string `json:"headers" yaml:"headers" toml:"headers"`
}

// Retrain tunes the mock retraining step.
type Retrain struct {
	Step        float64 `json:"step" yaml:"step" toml:"step"`
	Ceiling     float64 `json:"ceiling" yaml:"ceiling" toml:"ceiling"`
	VersionStep float64 `json:"version_step" yaml:"version_step" toml:"version_step"`
}

// Config holds runtime parameters for the service.
// Zero values mean "unspecified" and are filled by Normalize.
type Config struct {
	Addr        string            `json:"addr" yaml:"addr" toml:"addr"`
	ModelPath   string            `json:"model_path" yaml:"model_path" toml:"model_path"`
	DataDir     string            `json:"data_dir" yaml:"data_dir" toml:"data_dir"`
	MaxUploadMB int               `json:"max_upload_mb" yaml:"max_upload_mb" toml:"max_upload_mb"`
	ModelCache  int               `json:"model_cache" yaml:"model_cache" toml:"model_cache"`
	LogLevel    string            `json:"log_level" yaml:"log_level" toml:"log_level"`
	LogFile     string            `json:"log_file" yaml:"log_file" toml:"log_file"`
	CORS        CORS              `json:"cors" yaml:"cors" toml:"cors"`
	Hyperparams types.Hyperparams `json:"hyperparams" yaml:"hyperparams" toml:"hyperparams"`
	Stats       types.ModelStats  `json:"stats" yaml:"stats" toml:"stats"`
	Retrain     Retrain           `json:"retrain" yaml:"retrain" toml:"retrain"`
}

// Defaults used by Normalize.
const (
	DefaultAddr           = ":8000"
	DefaultClassifierAddr = ":8001"
	DefaultModelPath      = "models/exoplanet_model.json"
	DefaultDataDir        = "data"
	DefaultMaxUploadMB    = 32
	DefaultModelCache     = 4
	DefaultLogLevel       = "info"
)

// Default returns a fully populated configuration for the API service.
func Default() Config {
	var c Config
	c.Normalize()
	return c
}

// Load reads a configuration file based on its extension.
// Supports: .yaml/.yml, .json, .toml
func Load(path string) (Config, error) {
	var cfg Config
	if path == "" {
		return cfg, fmt.Errorf("empty config path")
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(b, &cfg)
	case ".json":
		err = json.Unmarshal(b, &cfg)
	case ".toml":
		err = toml.Unmarshal(b, &cfg)
	default:
		return cfg, fmt.Errorf("unsupported config extension: %s", ext)
	}
	if err != nil {
		return cfg, fmt.Errorf("parse %s: %w", path, err)
	}
	return cfg, nil
}

// ApplyEnv overrides fields from EXOVISION_* variables that are set and non-empty.
func (c *Config) ApplyEnv() {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&c.Addr, EnvAddr)
	set(&c.ModelPath, EnvModelPath)
	set(&c.DataDir, EnvDataDir)
	set(&c.LogLevel, EnvLogLevel)
	set(&c.LogFile, EnvLogFile)
}

// Normalize fills unspecified values with defaults.
func (c *Config) Normalize() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ModelPath == "" {
		c.ModelPath = DefaultModelPath
	}
	if c.DataDir == "" {
		c.DataDir = DefaultDataDir
	}
	if c.MaxUploadMB <= 0 {
		c.MaxUploadMB = DefaultMaxUploadMB
	}
	if c.ModelCache <= 0 {
		c.ModelCache = DefaultModelCache
	}
	if c.LogLevel == "" {
		c.LogLevel = DefaultLogLevel
	}
	if len(c.CORS.Origins) == 0 {
		c.CORS.Origins = []string{"*"}
	}
	if len(c.CORS.Methods) == 0 {
		c.CORS.Methods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.CORS.Headers) == 0 {
		c.CORS.Headers = []string{"*"}
	}
	if c.Hyperparams == (types.Hyperparams{}) {
		c.Hyperparams = types.Hyperparams{LearningRate: 0.01, NEstimators: 100, MaxDepth: 5}
	}
	if c.Stats == (types.ModelStats{}) {
		c.Stats = types.ModelStats{Accuracy: 0.91, Precision: 0.89, Recall: 0.90, Version: "v1.0"}
	}
	if c.Retrain.Step <= 0 {
		c.Retrain.Step = 0.01
	}
	if c.Retrain.Ceiling <= 0 {
		c.Retrain.Ceiling = 0.97
	}
	if c.Retrain.VersionStep <= 0 {
		c.Retrain.VersionStep = 0.1
	}
}

// MaxUploadBytes is the upload body limit in bytes.
func (c Config) MaxUploadBytes() int64 {
	return int64(c.MaxUploadMB) << 20
}

