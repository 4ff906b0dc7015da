package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/ppiankov/tabhound/internal/ai"
	"github.com/ppiankov/tabhound/internal/cache"
	"github.com/ppiankov/tabhound/internal/configstore"
	"github.com/ppiankov/tabhound/internal/dataset"
	"github.com/ppiankov/tabhound/internal/engine"
	"github.com/ppiankov/tabhound/internal/model"
)

var (
	targetsArg   string
	outPath      string
	storeDir     string
	auditTimeout time.Duration
	aiFlag       bool
	aiModel      string
	aiWorkers    int
	noCache      bool
)

// auditCmd represents the audit command
var auditCmd = &cobra.Command{
	Use:   "audit <input.csv>",
	Short: "Audit a dataset and keep rows that trip at least one rule",
	Long: `Audit runs every configured target against a CSV dataset:
- Value and text filters gate which rows are checked
- Word-count and keyword rules flag suspicious values
- The optional AI rule scores rendered prompts per row
- Rows with at least one diagnostic are kept, with one
  "<column> Mistakes" column appended per target

The --targets argument is either a path to a JSON target-configuration
document or the name of a saved configuration (see 'tabhound targets').

Example:
  tabhound audit enquiries.csv --targets targets.json
  tabhound audit enquiries.csv --targets weekly-audit --out mistakes.csv
  tabhound audit enquiries.csv --targets targets.json --ai --ai-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runAudit,
}

func init() {
	rootCmd.AddCommand(auditCmd)

	auditCmd.Flags().StringVar(&targetsArg, "targets", "", "targets config: JSON file path or saved config name (required)")
	auditCmd.Flags().StringVar(&outPath, "out", "mistakes_only.csv", "output CSV path for kept rows")
	auditCmd.Flags().StringVar(&storeDir, "store-dir", "", "saved-config directory (default: ~/.tabhound/configs)")
	auditCmd.Flags().DurationVar(&auditTimeout, "timeout", 10*time.Minute, "overall audit timeout")

	// AI rule flags
	auditCmd.Flags().BoolVar(&aiFlag, "ai", false, "enable the AI rule (also via AI_ENABLED env var)")
	auditCmd.Flags().StringVar(&aiModel, "ai-model", "", "scoring model (default from AI_MODEL env var or gpt-4o-mini)")
	auditCmd.Flags().IntVar(&aiWorkers, "ai-workers", 4, "concurrent scoring calls")
	auditCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the scoring response cache")

	_ = auditCmd.MarkFlagRequired("targets")
}

func runAudit(cmd *cobra.Command, args []string) error {
	input := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), auditTimeout)
	defer cancel()

	log := newLogger()
	defer func() { _ = log.Sync() }()

	ds, err := dataset.Load(input)
	if err != nil {
		return err
	}

	targets, err := loadTargets(targetsArg)
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Auditing: %s (%d rows, %d columns)\n", input, len(ds.Rows), len(ds.Columns))
		fmt.Fprintf(os.Stderr, "Targets:  %d\n", len(targets))
		fmt.Fprintln(os.Stderr)
	}

	eng := engine.New(buildScorer(log), log)

	result, err := eng.Evaluate(ctx, ds, targets)
	if err != nil {
		return err
	}

	if err := dataset.Save(outPath, result.Kept); err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "  Audit Complete\n")
	fmt.Fprintf(os.Stderr, "═══════════════════════════════════════════════════════════\n")
	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Rows in:    %d\n", len(ds.Rows))
	fmt.Fprintf(os.Stderr, "  Rows kept:  %d\n", len(result.Kept.Rows))
	for _, t := range targets {
		col := t.DiagnosticColumn()
		flagged := 0
		for _, d := range result.Diagnostics[col] {
			if model.Triggered(d) {
				flagged++
			}
		}
		fmt.Fprintf(os.Stderr, "  %-24s %d flagged\n", t.Column+":", flagged)
	}
	fmt.Fprintf(os.Stderr, "  Output:     %s\n", outPath)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}

// buildScorer assembles the scoring subsystem from flags, env switches,
// and the shared layered cache. A disabled configuration still returns a
// working scorer that answers every prompt neutrally.
func buildScorer(log *zap.Logger) engine.Scorer {
	cfg := ai.DefaultConfig()
	cfg.Enabled = aiFlag || viper.GetBool("ai_enabled")
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.UseCache = !noCache
	cfg.Workers = aiWorkers
	if m := viper.GetString("ai_model"); m != "" {
		cfg.Model = m
	}
	if aiModel != "" {
		cfg.Model = aiModel
	}

	store := cache.NewLayeredCache(0, filepath.Join(defaultDataDir(), "ai-cache"), 0)
	runner := ai.NewRunner(cfg, store, log)
	return ai.NewScorer(runner, nil)
}

// loadTargets resolves the --targets argument: a JSON file path (either
// a bare target array or a saved-config document), or the name of a
// saved configuration.
func loadTargets(arg string) ([]model.TargetConfig, error) {
	if data, err := os.ReadFile(arg); err == nil {
		var targets []model.TargetConfig
		if jsonErr := json.Unmarshal(data, &targets); jsonErr == nil {
			return targets, nil
		}
		if err := configstore.ValidateDocument(data); err != nil {
			return nil, err
		}
		var doc configstore.SavedConfig
		if err := json.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("decode targets config: %w", err)
		}
		return doc.Targets, nil
	}

	saved, err := configStore().Get(arg)
	if err != nil {
		return nil, err
	}
	return saved.Targets, nil
}

// configStore returns the saved-config store honoring --store-dir.
func configStore() *configstore.Store {
	dir := storeDir
	if dir == "" {
		dir = filepath.Join(defaultDataDir(), "configs")
	}
	return configstore.New(dir)
}
