package cli

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/tabhound/internal/ai"
	"github.com/ppiankov/tabhound/internal/cache"
)

var (
	scoreModel     string
	scoreMaxTokens int
	scoreTemp      float32
	scoreWorkers   int
	scoreNoCache   bool
	scoreTimeout   time.Duration
)

// scoreCmd represents the score command
var scoreCmd = &cobra.Command{
	Use:   "score <prompts-file>",
	Short: "Score a batch of prompts through the external model",
	Long: `Score reads prompts from a file (one per line, # comments and
blank lines skipped, duplicates removed) and runs them through the
scoring model with content-addressed caching.

Each response is normalized to a trigger/message verdict; failures
degrade to neutral non-triggering responses and never abort the batch.

Example:
  tabhound score prompts.txt
  tabhound score prompts.txt --model gpt-4o-mini --workers 8
  tabhound score prompts.txt --no-cache --max-tokens 120`,
	Args: cobra.ExactArgs(1),
	RunE: runScore,
}

func init() {
	rootCmd.AddCommand(scoreCmd)

	scoreCmd.Flags().StringVar(&scoreModel, "model", "", "scoring model (default from AI_MODEL env var or gpt-4o-mini)")
	scoreCmd.Flags().IntVar(&scoreMaxTokens, "max-tokens", 80, "max response tokens per call")
	scoreCmd.Flags().Float32Var(&scoreTemp, "temperature", 0, "sampling temperature")
	scoreCmd.Flags().IntVar(&scoreWorkers, "workers", 4, "concurrent scoring calls")
	scoreCmd.Flags().BoolVar(&scoreNoCache, "no-cache", false, "disable the response cache")
	scoreCmd.Flags().DurationVar(&scoreTimeout, "timeout", 5*time.Minute, "total batch timeout")
}

func runScore(cmd *cobra.Command, args []string) error {
	ctx, cancel := context.WithTimeout(context.Background(), scoreTimeout)
	defer cancel()

	log := newLogger()
	defer func() { _ = log.Sync() }()

	prompts, err := ai.ReadPrompts(args[0])
	if err != nil {
		return err
	}
	if len(prompts) == 0 {
		return fmt.Errorf("no prompts in file: %s", args[0])
	}

	cfg := ai.DefaultConfig()
	cfg.Enabled = viper.GetBool("ai_enabled")
	cfg.APIKey = os.Getenv("OPENAI_API_KEY")
	cfg.MaxTokens = scoreMaxTokens
	cfg.Temperature = scoreTemp
	cfg.Workers = scoreWorkers
	cfg.UseCache = !scoreNoCache
	if m := viper.GetString("ai_model"); m != "" {
		cfg.Model = m
	}
	if scoreModel != "" {
		cfg.Model = scoreModel
	}

	store := cache.NewLayeredCache(0, filepath.Join(defaultDataDir(), "ai-cache"), 0)
	runner := ai.NewRunner(cfg, store, log)

	progress := func(done, total int) {
		fmt.Fprintf(os.Stderr, "\r⚙️  Scoring %d/%d", done, total)
	}

	results := runner.RunBatch(ctx, prompts, progress)
	fmt.Fprintf(os.Stderr, "\n\n")

	cached, failed, triggered := 0, 0, 0
	for i, res := range results {
		if res.Cached {
			cached++
		}
		if res.Err != "" {
			failed++
		}
		parsed := ai.Parse(res.Content)
		if parsed.Trigger {
			triggered++
		}

		status := "·"
		if parsed.Trigger {
			status = "✗"
		}
		fmt.Printf("%s [%d] trigger=%v message=%q", status, i, parsed.Trigger, parsed.Message)
		if res.Cached {
			fmt.Printf(" (cached)")
		}
		if res.Err != "" {
			fmt.Printf(" (error: %s)", res.Err)
		}
		fmt.Println()
	}

	fmt.Fprintf(os.Stderr, "\n")
	fmt.Fprintf(os.Stderr, "  Prompts:    %d\n", len(prompts))
	fmt.Fprintf(os.Stderr, "  Triggered:  %d\n", triggered)
	fmt.Fprintf(os.Stderr, "  Cached:     %d\n", cached)
	fmt.Fprintf(os.Stderr, "  Failures:   %d\n", failed)
	fmt.Fprintf(os.Stderr, "\n")

	return nil
}
