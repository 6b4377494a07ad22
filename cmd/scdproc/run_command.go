package main

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"scdproc/internal/config"
	"scdproc/internal/history"
	"scdproc/internal/logging"
	"scdproc/internal/ontology"
	"scdproc/internal/pipeline"
	"scdproc/internal/preflight"
	"scdproc/internal/services"
)

type runFlags struct {
	ontology    string
	invalidTime string
	label       string
	format      string
}

func newRunCommand(ctx *commandContext) *cobra.Command {
	var flags runFlags

	cmd := &cobra.Command{
		Use:   "run <input> <output>",
		Short: "Filter and classify an SCD file into an output directory",
		Long: "Read SCD records from <input>, drop records whose TimeEnd is empty or already passed,\n" +
			"assign a Category from the ontology, and append the rest to a new SCD file in <output>.\n" +
			"The output directory is created when missing.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPipeline(cmd, ctx, flags, args[0], args[1])
		},
	}

	cmd.Flags().StringVar(&flags.ontology, "ontology", "", "Ontology file (.owl, .yaml, .toml); overrides paths.ontology")
	cmd.Flags().StringVar(&flags.invalidTime, "on-invalid-time", "", "Policy for unparseable TimeEnd values: fail or skip")
	cmd.Flags().StringVar(&flags.label, "label", "", "Category label style: name or path")
	cmd.Flags().StringVar(&flags.format, "format", "", "Summary format: text, table, or json (default: table on a terminal, text otherwise)")
	return cmd
}

func runPipeline(cmd *cobra.Command, ctx *commandContext, flags runFlags, input, output string) error {
	base, err := ctx.ensureConfig()
	if err != nil {
		return err
	}
	cfg, err := applyRunFlags(base, flags)
	if err != nil {
		return err
	}
	format, err := resolveSummaryFormat(flags.format, cmd.OutOrStdout())
	if err != nil {
		return err
	}
	logger, err := ctx.logger(cmd)
	if err != nil {
		return err
	}
	logger = logging.NewComponentLogger(logger, "cli")

	input, err = config.ExpandPath(strings.TrimSpace(input))
	if err != nil {
		return err
	}
	output, err = config.ExpandPath(strings.TrimSpace(output))
	if err != nil {
		return err
	}

	if err := preflight.Err(preflight.CheckInputs(cfg, input)); err != nil {
		return err
	}
	if err := preflight.PrepareOutput(output); err != nil {
		return err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		logging.WarnWithContext(logger, "state directory unavailable; run history disabled", "history_unavailable",
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check paths.state_dir permissions"),
			logging.String(logging.FieldImpact, "this run will not be recorded"),
		)
		cfg.History.Enabled = false
	}
	if err := preflight.Err(preflight.CheckOutputs(cfg, output)); err != nil {
		return err
	}

	taxonomy, err := ontology.Load(cfg.Paths.Ontology, ontology.Options{Label: cfg.Ontology.Label})
	if err != nil {
		return err
	}
	loadLogger := logging.WithContext(services.WithStage(cmd.Context(), services.StageLoad), logger)
	loadLogger.Info("ontology loaded",
		logging.String(logging.FieldEventType, "ontology_loaded"),
		logging.String(logging.FieldPath, cfg.Paths.Ontology),
		logging.Int("classes", taxonomy.Len()),
		logging.Int("keywords", taxonomy.Keywords()),
	)

	opts, err := pipeline.OptionsFromConfig(cfg, taxonomy, logger)
	if err != nil {
		return err
	}
	driver, err := pipeline.New(opts)
	if err != nil {
		return err
	}

	startedAt := time.Now()
	summary, runErr := driver.Run(cmd.Context(), input, output)
	recordRun(cmd.Context(), cfg, logger, history.FromSummary(summary, startedAt, runErr))
	if runErr != nil {
		return runErr
	}
	return renderSummary(cmd.OutOrStdout(), summary, format)
}

// applyRunFlags returns a copy of base with per-run overrides applied and
// revalidated.
func applyRunFlags(base *config.Config, flags runFlags) (*config.Config, error) {
	cfg := *base
	if v := strings.TrimSpace(flags.ontology); v != "" {
		expanded, err := config.ExpandPath(v)
		if err != nil {
			return nil, err
		}
		cfg.Paths.Ontology = expanded
	}
	if v := strings.TrimSpace(flags.invalidTime); v != "" {
		cfg.Filter.OnInvalidTime = strings.ToLower(v)
	}
	if v := strings.TrimSpace(flags.label); v != "" {
		cfg.Ontology.Label = strings.ToLower(v)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// recordRun stores the outcome in the ledger. Failures only warn.
func recordRun(ctx context.Context, cfg *config.Config, logger *slog.Logger, run history.Run) {
	if !cfg.History.Enabled || run.ID == "" {
		return
	}
	store, err := history.Open(cfg.HistoryPath())
	if err == nil {
		defer store.Close()
		// The run context may already be cancelled; the ledger write should still land.
		err = store.Record(context.WithoutCancel(ctx), run)
	}
	if err != nil {
		logging.WarnWithContext(logger, "run history not recorded", "history_write_failed",
			logging.String(logging.FieldRunID, run.ID),
			logging.String(logging.FieldPath, cfg.HistoryPath()),
			logging.Error(err),
			logging.String(logging.FieldErrorHint, "check history.path permissions or delete a stale ledger"),
			logging.String(logging.FieldImpact, "run output is unaffected"),
		)
	}
}
