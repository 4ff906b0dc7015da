package engine

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/ppiankov/tabhound/internal/model"
)

// Verdict is the engine-facing outcome of scoring one rendered prompt.
type Verdict struct {
	Trigger bool
	Message string
}

// Scorer scores a batch of rendered prompts. Implementations must be
// total: one verdict per prompt, never an error (scoring outages degrade
// to non-triggering verdicts).
type Scorer interface {
	Score(ctx context.Context, prompts []string) []Verdict
}

// Engine runs target rules over a dataset snapshot.
type Engine struct {
	scorer Scorer // nil disables the AI rule entirely
	log    *zap.Logger
}

// New creates an engine. Both arguments may be nil.
func New(scorer Scorer, log *zap.Logger) *Engine {
	if log == nil {
		log = zap.NewNop()
	}
	return &Engine{scorer: scorer, log: log}
}

// Result is the outcome of one evaluation pass.
type Result struct {
	// Kept holds the rows that tripped at least one rule across all
	// targets, in original order, with one diagnostic column appended
	// per target.
	Kept *model.Dataset

	// KeptIndex maps each kept row to its index in the input dataset.
	KeptIndex []int

	// Diagnostics holds the serialized diagnostic for every input row,
	// keyed by diagnostic column name.
	Diagnostics map[string][]string
}

// Evaluate runs every configured target against the dataset and returns
// the kept subset plus per-row diagnostics. Configuration problems fail
// the whole call before any row is processed.
func (e *Engine) Evaluate(ctx context.Context, ds *model.Dataset, targets []model.TargetConfig) (*Result, error) {
	if err := validateTargets(ds, targets); err != nil {
		return nil, err
	}

	out := ds.Clone()
	res := &Result{Diagnostics: make(map[string][]string, len(targets))}

	for _, raw := range targets {
		cfg := raw.WithDefaults()
		diags := make([]model.Diagnostic, len(ds.Rows))
		eligible := make([]bool, len(ds.Rows))

		for i, row := range ds.Rows {
			// Filter gates: a failing row keeps the empty diagnostic
			// and skips every rule check.
			if cfg.ValueFilterEnabled && !rowMeetsValueFilters(row, cfg.ValueFilters, cfg.FilterCombineMode) {
				continue
			}
			if cfg.TextFilterEnabled && !rowMeetsTextFilters(row, cfg.TextFilters, cfg.FilterCombineMode) {
				continue
			}
			eligible[i] = true

			val := row.Value(cfg.Column)
			if cfg.WordCountEnabled {
				if row.IsBlank(cfg.Column) {
					diags[i] = append(diags[i], nullValueMessage)
				} else if wordCount(val) < cfg.WordCountMin {
					diags[i] = append(diags[i], tooShortMessage(cfg.WordCountMin))
				}
			}
			if msg, ok := keywordFlagMessage(val, cfg.Keyword); ok {
				diags[i] = append(diags[i], msg)
			}
		}

		e.applyAIRule(ctx, ds, cfg, eligible, diags)

		col := cfg.DiagnosticColumn()
		vals := make([]string, len(diags))
		flagged := 0
		for i, d := range diags {
			vals[i] = d.String()
			if model.Triggered(vals[i]) {
				flagged++
			}
		}
		out.AddColumn(col, vals)
		res.Diagnostics[col] = vals

		e.log.Debug("target evaluated",
			zap.String("column", cfg.Column),
			zap.Int("rows", len(ds.Rows)),
			zap.Int("flagged", flagged))
	}

	// Retention: union of triggered rows across all diagnostic columns.
	kept := &model.Dataset{Columns: out.Columns}
	for i, row := range out.Rows {
		for _, t := range targets {
			if model.Triggered(res.Diagnostics[t.DiagnosticColumn()][i]) {
				kept.Rows = append(kept.Rows, row)
				res.KeptIndex = append(res.KeptIndex, i)
				break
			}
		}
	}
	res.Kept = kept

	e.log.Info("evaluation complete",
		zap.Int("rows_in", len(ds.Rows)),
		zap.Int("rows_kept", len(kept.Rows)),
		zap.Int("targets", len(targets)))

	return res, nil
}

// applyAIRule batches every filter-eligible row of one target through the
// scorer and appends the returned message where the verdict triggered.
// AI messages come after the word-count and keyword messages.
func (e *Engine) applyAIRule(ctx context.Context, ds *model.Dataset, cfg model.TargetConfig, eligible []bool, diags []model.Diagnostic) {
	if e.scorer == nil || !cfg.AIEnabled || strings.TrimSpace(cfg.PromptTemplate) == "" {
		return
	}

	var idx []int
	var prompts []string
	for i, ok := range eligible {
		if !ok {
			continue
		}
		row := ds.Rows[i]
		idx = append(idx, i)
		prompts = append(prompts, RenderPrompt(cfg.PromptTemplate, row, cfg.Column, row.Value(cfg.Column)))
	}
	if len(prompts) == 0 {
		return
	}

	e.log.Debug("scoring target rows", zap.String("column", cfg.Column), zap.Int("prompts", len(prompts)))
	verdicts := e.scorer.Score(ctx, prompts)
	for j, v := range verdicts {
		if j >= len(idx) {
			break
		}
		if v.Trigger && v.Message != "" {
			diags[idx[j]] = append(diags[idx[j]], v.Message)
		}
	}
}

// validateTargets checks the whole configuration before any row runs.
func validateTargets(ds *model.Dataset, targets []model.TargetConfig) error {
	if len(targets) == 0 {
		return fmt.Errorf("configure at least one target column")
	}
	seen := make(map[string]bool, len(targets))
	for _, raw := range targets {
		cfg := raw.WithDefaults()
		if cfg.Column == "" {
			return fmt.Errorf("target configuration is missing a column name")
		}
		if seen[cfg.Column] {
			return fmt.Errorf("duplicate target column: %s", cfg.Column)
		}
		seen[cfg.Column] = true
		if !ds.HasColumn(cfg.Column) {
			return fmt.Errorf("target column not found in dataset: %s", cfg.Column)
		}
		if cfg.WordCountEnabled && (cfg.WordCountMin < model.WordCountMinFloor || cfg.WordCountMin > model.WordCountMinCeiling) {
			return fmt.Errorf("%q word-count minimum must be between %d and %d",
				cfg.Column, model.WordCountMinFloor, model.WordCountMinCeiling)
		}
	}
	return nil
}
