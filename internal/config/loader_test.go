package config

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"

	"exovision/pkg/types"
)

func writeTempFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	p := filepath.Join(dir, name)
	if err := os.WriteFile(p, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", name, err)
	}
	return p
}

func TestLoadYAML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.yaml", `addr: ":9999"
model_path: /m/model.yaml
data_dir: /tmp/data
max_upload_mb: 8
cors:
  enabled: true
  origins: ["https://exo.example"]
hyperparams:
  learning_rate: 0.2
  n_estimators: 10
  max_depth: 3
retrain:
  ceiling: 0.95
`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":9999" || cfg.ModelPath != "/m/model.yaml" || cfg.DataDir != "/tmp/data" || cfg.MaxUploadMB != 8 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if !cfg.CORS.Enabled || !reflect.DeepEqual(cfg.CORS.Origins, []string{"https://exo.example"}) {
		t.Fatalf("unexpected cors: %+v", cfg.CORS)
	}
	if cfg.Hyperparams != (types.Hyperparams{LearningRate: 0.2, NEstimators: 10, MaxDepth: 3}) {
		t.Fatalf("unexpected hyperparams: %+v", cfg.Hyperparams)
	}
	if cfg.Retrain.Ceiling != 0.95 || cfg.Retrain.Step != 0 {
		t.Fatalf("unexpected retrain: %+v", cfg.Retrain)
	}
}

func TestLoadJSON(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.json", `{"addr":":7070","model_path":"m.json","data_dir":"/d","log_level":"debug","stats":{"accuracy":0.5,"precision":0.4,"recall":0.3,"version":"v2.0"}}`)
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":7070" || cfg.ModelPath != "m.json" || cfg.DataDir != "/d" || cfg.LogLevel != "debug" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
	if cfg.Stats.Version != "v2.0" || cfg.Stats.Accuracy != 0.5 {
		t.Fatalf("unexpected stats: %+v", cfg.Stats)
	}
}

func TestLoadTOML(t *testing.T) {
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.toml", "addr=\":8081\"\nmodel_path=\"/x/model.json\"\nlog_file=\"/var/log/exo.log\"\n\n[retrain]\nstep=0.05\n")
	cfg, err := Load(p)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8081" || cfg.ModelPath != "/x/model.json" || cfg.LogFile != "/var/log/exo.log" || cfg.Retrain.Step != 0.05 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load(""); err == nil {
		t.Fatalf("expected error on empty path")
	}
	d := t.TempDir()
	p := writeTempFile(t, d, "cfg.txt", "not supported")
	if _, err := Load(p); err == nil {
		t.Fatalf("expected unsupported extension error")
	}
}

func TestDefault(t *testing.T) {
	cfg := Default()
	if cfg.Addr != DefaultAddr || cfg.ModelPath != DefaultModelPath || cfg.DataDir != DefaultDataDir {
		t.Fatalf("unexpected defaults: %+v", cfg)
	}
	if cfg.MaxUploadBytes() != 32<<20 {
		t.Fatalf("max upload bytes = %d", cfg.MaxUploadBytes())
	}
	if cfg.Hyperparams != (types.Hyperparams{LearningRate: 0.01, NEstimators: 100, MaxDepth: 5}) {
		t.Fatalf("hyperparams: %+v", cfg.Hyperparams)
	}
	if cfg.Stats != (types.ModelStats{Accuracy: 0.91, Precision: 0.89, Recall: 0.90, Version: "v1.0"}) {
		t.Fatalf("stats: %+v", cfg.Stats)
	}
	if cfg.Retrain != (Retrain{Step: 0.01, Ceiling: 0.97, VersionStep: 0.1}) {
		t.Fatalf("retrain: %+v", cfg.Retrain)
	}
	if cfg.CORS.Enabled || !reflect.DeepEqual(cfg.CORS.Origins, []string{"*"}) {
		t.Fatalf("cors: %+v", cfg.CORS)
	}
}

func TestNormalizeKeepsValues(t *testing.T) {
	cfg := Config{Addr: ":1", MaxUploadMB: 2, Retrain: Retrain{Ceiling: 0.5}}
	cfg.Normalize()
	if cfg.Addr != ":1" || cfg.MaxUploadMB != 2 || cfg.Retrain.Ceiling != 0.5 || cfg.Retrain.Step != 0.01 {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}

func TestApplyEnv(t *testing.T) {
	t.Setenv(EnvAddr, ":9000")
	t.Setenv(EnvModelPath, "/env/model.json")
	t.Setenv(EnvDataDir, "")
	t.Setenv(EnvLogLevel, " warn ")
	t.Setenv(EnvLogFile, "/tmp/exo.log")
	cfg := Config{DataDir: "/keep"}
	cfg.ApplyEnv()
	if cfg.Addr != ":9000" || cfg.ModelPath != "/env/model.json" || cfg.DataDir != "/keep" || cfg.LogLevel != "warn" || cfg.LogFile != "/tmp/exo.log" {
		t.Fatalf("unexpected cfg: %+v", cfg)
	}
}
