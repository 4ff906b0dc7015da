package ai

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/tabhound/internal/cache"
	"github.com/ppiankov/tabhound/internal/worker"
)

// BatchResult is the outcome of scoring one prompt.
type BatchResult struct {
	// Content is the raw response text. Failed or disabled calls carry
	// the neutral "{}" body, which parses to a non-triggered response.
	Content string

	// Cached reports whether the content came from the cache.
	Cached bool

	// Latency of the external call; zero for cached and failed calls.
	Latency time.Duration

	// Err is a diagnostic note for failed or skipped calls. It is never
	// propagated as an error: scoring degrades, it does not abort.
	Err string
}

// Progress is invoked at coarse batch stages: once when the total is
// known (done=0) and after each completed prompt. Callback panics are
// swallowed and never abort the batch.
type Progress func(done, total int)

// Runner dispatches scoring batches against the external model with
// content-addressed caching, bounded concurrency, and per-model rate
// limiting.
type Runner struct {
	config  Config
	client  Client
	store   cache.Cache
	limiter *worker.Limiter
	log     *zap.Logger

	mu   sync.Mutex
	done int
}

// NewRunner creates a batch runner. store may be nil (caching off);
// log may be nil. When the configuration disables scoring or the
// credential is missing, the runner stays usable and answers every
// prompt with a neutral response.
func NewRunner(config Config, store cache.Cache, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	r := &Runner{
		config:  config,
		store:   store,
		limiter: worker.NewLimiter(config.RequestsPerSecond, config.Workers),
		log:     log,
	}
	if config.Enabled && config.APIKey != "" {
		client, err := NewOpenAIClient(config)
		if err != nil {
			log.Error("scoring client init failed", zap.Error(err))
		} else {
			r.client = client
		}
	}
	return r
}

// disabledNote explains why no external call will be attempted, or
// returns "" when scoring is live.
func (r *Runner) disabledNote() string {
	if !r.config.Enabled {
		return "AI_ENABLED is false"
	}
	if r.config.APIKey == "" {
		return "OPENAI_API_KEY missing"
	}
	if r.client == nil {
		return "scoring client unavailable"
	}
	return ""
}

// Lookup consults the cache for a previous response to (model, prompt).
// It never fails; I/O problems read as absent.
func (r *Runner) Lookup(model, prompt string) (string, bool) {
	if r.store == nil {
		return "", false
	}
	b, ok := r.store.Get(cache.Key(model, prompt))
	if !ok {
		return "", false
	}
	return string(b), true
}

// Store writes a response to the cache, best-effort. Caching is an
// optimization, not a correctness requirement, so failures are logged
// and swallowed.
func (r *Runner) Store(model, prompt, content string) {
	if r.store == nil {
		return
	}
	if err := r.store.Set(cache.Key(model, prompt), []byte(content), 0); err != nil {
		r.log.Debug("cache write failed", zap.Error(err))
	}
}

// RunBatch scores every prompt and returns one result per prompt, in
// prompt order. Failures never propagate: a failing prompt yields a
// neutral result with an error note.
func (r *Runner) RunBatch(ctx context.Context, prompts []string, progress Progress) []BatchResult {
	total := len(prompts)
	results := make([]BatchResult, total)
	notify := r.safeProgress(progress)
	notify(0, total)

	if note := r.disabledNote(); note != "" {
		r.log.Warn("scoring disabled", zap.String("reason", note))
		for i := range results {
			results[i] = BatchResult{Content: "{}", Err: note}
		}
		notify(total, total)
		return results
	}

	r.log.Info("scoring batch",
		zap.Int("count", total),
		zap.String("model", r.config.Model),
		zap.Int("max_tokens", r.config.MaxTokens),
		zap.Bool("cache", r.config.UseCache))

	r.mu.Lock()
	r.done = 0
	r.mu.Unlock()

	pool := worker.NewPool(r.config.Workers)
	pool.Start(ctx)
	for i, p := range prompts {
		pool.Submit(ctx, &scoreJob{runner: r, index: i, prompt: p, notify: notify, total: total})
	}
	scored := make([]bool, total)
	for _, res := range pool.Wait() {
		sr := res.(*scoreResult)
		results[sr.index] = sr.result
		scored[sr.index] = true
	}

	// Prompts the pool never reached (cancellation) come back neutral.
	for i := range results {
		if !scored[i] {
			results[i] = BatchResult{Content: "{}", Err: "not scored"}
		}
	}

	return results
}

type scoreJob struct {
	runner *Runner
	index  int
	prompt string
	notify Progress
	total  int
}

type scoreResult struct {
	index  int
	result BatchResult
}

func (s *scoreResult) GetError() error { return nil }

func (j *scoreJob) Execute(ctx context.Context) worker.Result {
	res := j.runner.scoreOne(ctx, j.prompt)
	j.runner.mu.Lock()
	j.runner.done++
	done := j.runner.done
	j.runner.mu.Unlock()
	j.notify(done, j.total)
	return &scoreResult{index: j.index, result: res}
}

// scoreOne resolves a single prompt: cache first, then one bounded
// external call. Two concurrent misses on the same key may both call
// out; the second write wins and both see identical content.
func (r *Runner) scoreOne(ctx context.Context, prompt string) BatchResult {
	if r.config.UseCache {
		if content, ok := r.Lookup(r.config.Model, prompt); ok {
			r.log.Debug("cache hit", zap.String("model", r.config.Model), zap.Int("prompt_len", len(prompt)))
			return BatchResult{Content: content, Cached: true}
		}
	}

	if err := r.limiter.Wait(ctx, r.config.Model); err != nil {
		return BatchResult{Content: "{}", Err: err.Error()}
	}

	callCtx := ctx
	if r.config.Timeout > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, r.config.Timeout)
		defer cancel()
	}

	start := time.Now()
	content, err := r.client.Complete(callCtx, prompt)
	if err != nil {
		r.log.Error("scoring call failed", zap.Error(err))
		return BatchResult{Content: "{}", Err: err.Error()}
	}
	latency := time.Since(start)

	if r.config.UseCache {
		r.Store(r.config.Model, prompt, content)
	}
	r.log.Debug("scoring call ok",
		zap.Duration("latency", latency),
		zap.Int("resp_len", len(content)))

	return BatchResult{Content: content, Latency: latency}
}

// safeProgress wraps the caller's callback so that a nil callback is a
// no-op and panics inside it never abort the batch.
func (r *Runner) safeProgress(p Progress) Progress {
	if p == nil {
		return func(int, int) {}
	}
	return func(done, total int) {
		defer func() { _ = recover() }()
		p(done, total)
	}
}

// ReadPrompts reads prompts from a file, one per line, skipping blank
// lines and # comments, deduplicating while preserving order.
func ReadPrompts(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var prompts []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if !seen[line] {
			seen[line] = true
			prompts = append(prompts, line)
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return prompts, nil
}
