package ai

import (
	"context"

	"github.com/ppiankov/tabhound/internal/engine"
)

// Scorer adapts the batch runner to the engine's scoring contract:
// one batch call, one parsed verdict per prompt, never an error.
type Scorer struct {
	runner   *Runner
	progress Progress
}

// NewScorer wraps a runner. progress may be nil.
func NewScorer(runner *Runner, progress Progress) *Scorer {
	return &Scorer{runner: runner, progress: progress}
}

// Score runs the prompts through the external model and normalizes each
// response. Failed or neutral responses come back as non-triggered
// verdicts.
func (s *Scorer) Score(ctx context.Context, prompts []string) []engine.Verdict {
	results := s.runner.RunBatch(ctx, prompts, s.progress)
	verdicts := make([]engine.Verdict, len(results))
	for i, res := range results {
		parsed := Parse(res.Content)
		verdicts[i] = engine.Verdict{Trigger: parsed.Trigger, Message: parsed.Message}
	}
	return verdicts
}
