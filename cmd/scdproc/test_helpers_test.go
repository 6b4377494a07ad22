package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"scdproc/internal/config"
	"scdproc/internal/pipeline"
	"scdproc/internal/testsupport"
)

type cliTestEnv struct {
	cfg        *config.Config
	configPath string
	baseDir    string
}

func setupCLITestEnv(t *testing.T, opts ...testsupport.ConfigOption) *cliTestEnv {
	t.Helper()

	cfg := testsupport.NewConfig(t, opts...)
	base := testsupport.BaseDir(cfg)
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv("XDG_STATE_HOME", "")
	t.Setenv("SCDPROC_ONTOLOGY", "")
	t.Setenv("SCDPROC_LOG_LEVEL", "")

	configPath := filepath.Join(base, "scdproc.toml")
	writeTestConfig(t, configPath, cfg)
	return &cliTestEnv{cfg: cfg, configPath: configPath, baseDir: base}
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestConfig(t *testing.T, path string, cfg *config.Config) {
	t.Helper()
	content, err := cfg.Encode()
	if err != nil {
		t.Fatalf("encode config: %v", err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
}

// writeScenarioInput writes one record without TimeEnd, one expired a year
// ago, and one valid for another year.
func writeScenarioInput(t *testing.T, dir string) string {
	t.Helper()
	now := time.Now().UTC()
	return testsupport.WriteSCD(t, filepath.Join(dir, "in.SCD"),
		[]string{"DOCID", "1", "Title", "美食 coupon", "TimeEnd", ""},
		[]string{"DOCID", "2", "Title", "KTV night", "TimeEnd", now.AddDate(-1, 0, 0).Format(pipeline.TimeEndLayout)},
		[]string{"DOCID", "3", "Title", "重庆火锅双人餐", "TimeEnd", now.AddDate(1, 0, 0).Format(pipeline.TimeEndLayout)},
	)
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
