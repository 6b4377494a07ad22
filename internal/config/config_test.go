package config_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/pelletier/go-toml/v2"

	"scdproc/internal/config"
	"scdproc/internal/services"
)

func isolateEnv(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("SCDPROC_ONTOLOGY", "")
	t.Setenv("SCDPROC_LOG_LEVEL", "")
	return home
}

func TestLoadDefaultConfigExpandsPaths(t *testing.T) {
	home := isolateEnv(t)

	cfg, resolved, exists, err := config.Load("")
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if resolved == "" {
		t.Fatal("expected resolved path")
	}
	if exists {
		t.Fatal("expected config file to be absent in temp HOME")
	}

	wantState := filepath.Join(home, ".local", "share", "scdproc")
	if cfg.Paths.StateDir != wantState {
		t.Fatalf("unexpected state dir: got %q want %q", cfg.Paths.StateDir, wantState)
	}
	if !filepath.IsAbs(cfg.Paths.Ontology) || filepath.Base(cfg.Paths.Ontology) != "tuan.owl" {
		t.Fatalf("unexpected ontology path: %q", cfg.Paths.Ontology)
	}
	if cfg.Fields.Title != "Title" || cfg.Fields.TimeEnd != "TimeEnd" || cfg.Fields.Category != "Category" {
		t.Fatalf("unexpected field defaults: %+v", cfg.Fields)
	}
	if cfg.Filter.OnInvalidTime != config.InvalidTimeFail {
		t.Fatalf("expected strict invalid time policy by default, got %q", cfg.Filter.OnInvalidTime)
	}
	if cfg.Filter.TimeZone != "UTC" {
		t.Fatalf("expected UTC default, got %q", cfg.Filter.TimeZone)
	}
	if cfg.SCD.BoundaryKey != "DOCID" {
		t.Fatalf("unexpected boundary key: %q", cfg.SCD.BoundaryKey)
	}
	if !cfg.History.Enabled {
		t.Fatal("expected history enabled by default")
	}
	if got := cfg.HistoryPath(); got != filepath.Join(wantState, "history.db") {
		t.Fatalf("unexpected history path: %q", got)
	}
	if err := cfg.EnsureDirectories(); err != nil {
		t.Fatalf("EnsureDirectories failed: %v", err)
	}
	info, err := os.Stat(cfg.Paths.StateDir)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected state dir to exist: %v", err)
	}
}

func TestLoadCustomPath(t *testing.T) {
	isolateEnv(t)
	tempDir := t.TempDir()
	configPath := filepath.Join(tempDir, "scdproc.toml")

	type payload struct {
		Paths struct {
			Ontology string `toml:"ontology"`
		} `toml:"paths"`
		Filter struct {
			TimeZone      string `toml:"time_zone"`
			OnInvalidTime string `toml:"on_invalid_time"`
		} `toml:"filter"`
		Ontology struct {
			Label string `toml:"label"`
		} `toml:"ontology"`
		History struct {
			Path string `toml:"path"`
		} `toml:"history"`
		Logging struct {
			File string `toml:"file"`
		} `toml:"logging"`
	}
	custom := payload{}
	custom.Paths.Ontology = filepath.Join(tempDir, "taxonomy.yaml")
	custom.Filter.TimeZone = "Asia/Shanghai"
	custom.Filter.OnInvalidTime = " SKIP "
	custom.Ontology.Label = "Path"
	custom.History.Path = filepath.Join(tempDir, "runs.db")
	custom.Logging.File = "~/logs/scdproc.log"
	data, err := toml.Marshal(custom)
	if err != nil {
		t.Fatalf("marshal custom config: %v", err)
	}
	if err := os.WriteFile(configPath, data, 0o644); err != nil {
		t.Fatalf("write custom config: %v", err)
	}

	cfg, resolved, exists, err := config.Load(configPath)
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if !exists {
		t.Fatal("expected exists to be true")
	}
	if resolved != configPath {
		t.Fatalf("unexpected resolved path: got %q want %q", resolved, configPath)
	}
	if cfg.Paths.Ontology != custom.Paths.Ontology {
		t.Fatalf("expected ontology override, got %q", cfg.Paths.Ontology)
	}
	if cfg.Filter.OnInvalidTime != config.InvalidTimeSkip {
		t.Fatalf("expected normalized skip policy, got %q", cfg.Filter.OnInvalidTime)
	}
	if cfg.Ontology.Label != config.LabelPath {
		t.Fatalf("expected normalized path label, got %q", cfg.Ontology.Label)
	}
	if cfg.HistoryPath() != custom.History.Path {
		t.Fatalf("expected history path override, got %q", cfg.HistoryPath())
	}
	if want := filepath.Join(os.Getenv("HOME"), "logs", "scdproc.log"); cfg.Logging.File != want {
		t.Fatalf("expected expanded log file %q, got %q", want, cfg.Logging.File)
	}
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	isolateEnv(t)
	configPath := filepath.Join(t.TempDir(), "scdproc.toml")
	if err := os.WriteFile(configPath, []byte("[filter]\nexpire_grace = 5\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, _, _, err := config.Load(configPath); err == nil {
		t.Fatal("expected unknown key to be rejected")
	}
}

func TestEnvOverridesOntologyAndLevel(t *testing.T) {
	isolateEnv(t)
	ontology := filepath.Join(t.TempDir(), "env.owl")
	t.Setenv("SCDPROC_ONTOLOGY", ontology)
	t.Setenv("SCDPROC_LOG_LEVEL", "DEBUG")

	cfg, _, _, err := config.Load(filepath.Join(t.TempDir(), "missing.toml"))
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.Paths.Ontology != ontology {
		t.Errorf("expected ontology from env, got %q", cfg.Paths.Ontology)
	}
	if cfg.Logging.Level != "debug" {
		t.Errorf("expected debug level from env, got %q", cfg.Logging.Level)
	}
}

func TestCreateSample(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sample.toml")
	if err := config.CreateSample(path); err != nil {
		t.Fatalf("CreateSample failed: %v", err)
	}

	contents, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read sample: %v", err)
	}
	if !strings.Contains(string(contents), "on_invalid_time") {
		t.Fatalf("sample config missing filter policy: %s", contents)
	}

	cfg := config.Default()
	if err := toml.Unmarshal(contents, &cfg); err != nil {
		t.Fatalf("unmarshal sample: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("sample config should validate: %v", err)
	}
	if cfg.SCD.BoundaryKey != "DOCID" {
		t.Fatalf("unexpected sample boundary key %q", cfg.SCD.BoundaryKey)
	}
}

func TestEncodeRoundTrips(t *testing.T) {
	cfg := config.Default()
	cfg.Filter.OnInvalidTime = config.InvalidTimeSkip
	encoded, err := cfg.Encode()
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	var decoded config.Config
	if err := toml.Unmarshal([]byte(encoded), &decoded); err != nil {
		t.Fatalf("decode encoded config: %v", err)
	}
	if decoded.Filter.OnInvalidTime != config.InvalidTimeSkip {
		t.Fatalf("expected skip policy after round trip, got %q", decoded.Filter.OnInvalidTime)
	}
}

func TestValidateDetectsInvalidValues(t *testing.T) {
	cfg := config.Default()
	cfg.Fields.Title = ""
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for empty title field")
	}

	cfg = config.Default()
	cfg.Fields.Category = cfg.Fields.TimeEnd
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error when category overwrites time_end")
	}

	cfg = config.Default()
	cfg.Filter.TimeZone = "Mars/Olympus"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown time zone")
	}

	cfg = config.Default()
	cfg.Filter.OnInvalidTime = "ignore"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown invalid time policy")
	}

	cfg = config.Default()
	cfg.Ontology.Label = "id"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown label style")
	}

	cfg = config.Default()
	cfg.SCD.FlushBytes = -1
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative flush size")
	}

	cfg = config.Default()
	cfg.Logging.Level = "trace"
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for unknown log level")
	}

	cfg = config.Default()
	cfg.Logging.Format = "xml"
	err := cfg.Validate()
	if !errors.Is(err, services.ErrConfiguration) {
		t.Fatalf("expected configuration error for unknown log format, got %v", err)
	}
	if !strings.Contains(err.Error(), "logging.format") {
		t.Fatalf("expected logging.format in %q", err.Error())
	}
}
