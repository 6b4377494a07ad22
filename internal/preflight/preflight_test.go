package preflight

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"scdproc/internal/config"
	"scdproc/internal/services"
)

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckReadableFile(t *testing.T) {
	dir := t.TempDir()
	f := filepath.Join(dir, "in.SCD")
	if err := os.WriteFile(f, []byte("<DOCID>1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if r := CheckReadableFile("Input", f); !r.Passed {
		t.Fatalf("expected pass, got %s", r.Detail)
	}
	if r := CheckReadableFile("Input", dir); r.Passed || !strings.Contains(r.Detail, "is a directory") {
		t.Fatalf("expected directory failure, got %+v", r)
	}
	if r := CheckReadableFile("Input", filepath.Join(dir, "missing")); r.Passed {
		t.Fatal("expected failure for missing file")
	}
	if r := CheckReadableFile("Input", " "); r.Passed || r.Detail != "path not configured" {
		t.Fatalf("expected unconfigured failure, got %+v", r)
	}
}

func TestPrepareOutputCreatesMissingDirectory(t *testing.T) {
	target := filepath.Join(t.TempDir(), "a", "b")
	if err := PrepareOutput(target); err != nil {
		t.Fatalf("PrepareOutput: %v", err)
	}
	info, err := os.Stat(target)
	if err != nil || !info.IsDir() {
		t.Fatalf("expected directory at %s: %v", target, err)
	}
	if err := PrepareOutput(target); err != nil {
		t.Fatalf("PrepareOutput on existing dir: %v", err)
	}
}

func TestPrepareOutputRejectsFile(t *testing.T) {
	f := filepath.Join(t.TempDir(), "out")
	if err := os.WriteFile(f, nil, 0o644); err != nil {
		t.Fatal(err)
	}
	err := PrepareOutput(f)
	if !errors.Is(err, services.ErrResource) {
		t.Fatalf("expected resource error, got %v", err)
	}
	if !strings.Contains(err.Error(), f+" is a file") {
		t.Fatalf("unexpected message %q", err.Error())
	}
}

func TestRunAll(t *testing.T) {
	base := t.TempDir()
	input := filepath.Join(base, "in.SCD")
	ontology := filepath.Join(base, "tuan.owl")
	for _, p := range []string{input, ontology} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	cfg := config.Default()
	cfg.Paths.Ontology = ontology
	cfg.Paths.StateDir = base

	results := RunAll(&cfg, input, base)
	if len(results) != 4 {
		t.Fatalf("expected 4 checks, got %d", len(results))
	}
	if err := Err(results); err != nil {
		t.Fatalf("expected all checks to pass: %v", err)
	}

	cfg.History.Enabled = false
	cfg.Paths.Ontology = filepath.Join(base, "absent.owl")
	results = RunAll(&cfg, input, base)
	if len(results) != 3 {
		t.Fatalf("expected state check skipped, got %d checks", len(results))
	}
	err := Err(results)
	if !errors.Is(err, services.ErrResource) || services.StageOf(err) != services.StageLoad {
		t.Fatalf("expected load resource error, got %v", err)
	}
	if !strings.Contains(err.Error(), "Ontology:") {
		t.Fatalf("expected ontology failure in %q", err.Error())
	}
}

func TestCheckInputsLeavesOutputUntouched(t *testing.T) {
	base := t.TempDir()
	cfg := config.Default()
	cfg.Paths.Ontology = filepath.Join(base, "tuan.owl")
	output := filepath.Join(base, "out")

	results := CheckInputs(&cfg, filepath.Join(base, "missing.SCD"))
	if len(results) != 2 {
		t.Fatalf("expected input and ontology checks, got %d", len(results))
	}
	err := Err(results)
	if err == nil || !strings.Contains(err.Error(), "Input:") || !strings.Contains(err.Error(), "Ontology:") {
		t.Fatalf("expected input and ontology failures, got %v", err)
	}
	if _, err := os.Stat(output); !os.IsNotExist(err) {
		t.Fatalf("expected %s to stay absent, got %v", output, err)
	}
	if got := CheckOutputs(&cfg, output); Err(got) == nil {
		t.Fatal("expected output check to fail before the directory exists")
	}
}

func TestRunAllNilConfig(t *testing.T) {
	if RunAll(nil, "", "") != nil || CheckInputs(nil, "") != nil || CheckOutputs(nil, "") != nil {
		t.Fatal("expected nil results for nil config")
	}
}
