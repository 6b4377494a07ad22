package preflight

import (
	"strings"

	"scdproc/internal/config"
	"scdproc/internal/services"
)

// Result reports the outcome of a single preflight check.
type Result struct {
	Name   string
	Passed bool
	Detail string
}

// RunAll executes every check that applies to a run of input into output.
func RunAll(cfg *config.Config, input, output string) []Result {
	if cfg == nil {
		return nil
	}
	return append(CheckInputs(cfg, input), CheckOutputs(cfg, output)...)
}

// CheckInputs covers what a run reads. It touches nothing on disk, so it runs
// before the output directory is created.
func CheckInputs(cfg *config.Config, input string) []Result {
	if cfg == nil {
		return nil
	}
	return []Result{
		CheckReadableFile("Input", input),
		CheckReadableFile("Ontology", cfg.Paths.Ontology),
	}
}

// CheckOutputs covers what a run writes: the output directory and, when the
// run ledger is enabled, the state directory.
func CheckOutputs(cfg *config.Config, output string) []Result {
	if cfg == nil {
		return nil
	}
	results := []Result{CheckDirectoryAccess("Output directory", output)}
	if cfg.History.Enabled {
		results = append(results, CheckDirectoryAccess("State directory", cfg.Paths.StateDir))
	}
	return results
}

// Err returns a resource error naming every failed check, or nil.
func Err(results []Result) error {
	var failed []string
	for _, r := range results {
		if !r.Passed {
			failed = append(failed, r.Name+": "+r.Detail)
		}
	}
	if len(failed) == 0 {
		return nil
	}
	return services.Wrap(services.ErrResource, services.StageLoad, "preflight", strings.Join(failed, "; "), nil)
}
