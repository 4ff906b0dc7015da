package ai

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/ppiankov/tabhound/internal/cache"
)

func scoringServer(t *testing.T, calls *int32, content string) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(calls, 1)
		if r.URL.Path != "/chat/completions" {
			t.Errorf("Expected path /chat/completions, got %s", r.URL.Path)
		}
		resp := openai.ChatCompletionResponse{
			ID:     "chatcmpl-123",
			Object: "chat.completion",
			Model:  "gpt-4o-mini",
			Choices: []openai.ChatCompletionChoice{
				{
					Index: 0,
					Message: openai.ChatCompletionMessage{
						Role:    "assistant",
						Content: content,
					},
					FinishReason: "stop",
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	}))
}

func testConfig(baseURL string) Config {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.APIKey = "test-key"
	cfg.BaseURL = baseURL
	cfg.Timeout = 5 * time.Second
	cfg.Workers = 2
	cfg.RequestsPerSecond = 0 // unthrottled in tests
	return cfg
}

func TestRunBatchDisabled(t *testing.T) {
	var calls int32
	server := scoringServer(t, &calls, `{"trigger":true}`)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Enabled = false

	runner := NewRunner(cfg, nil, nil)
	results := runner.RunBatch(context.Background(), []string{"p1", "p2", "p3"}, nil)

	if len(results) != 3 {
		t.Fatalf("got %d results, want 3", len(results))
	}
	for i, res := range results {
		if res.Content != "{}" {
			t.Errorf("result %d content = %q, want neutral", i, res.Content)
		}
		if res.Cached {
			t.Errorf("result %d marked cached", i)
		}
		if res.Err == "" {
			t.Errorf("result %d missing error note", i)
		}
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("disabled runner made %d external calls", calls)
	}
}

func TestRunBatchMissingKey(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.APIKey = ""

	runner := NewRunner(cfg, nil, nil)
	results := runner.RunBatch(context.Background(), []string{"p"}, nil)

	if results[0].Err != "OPENAI_API_KEY missing" {
		t.Errorf("error note = %q", results[0].Err)
	}
}

func TestRunBatchSuccessAndCache(t *testing.T) {
	var calls int32
	server := scoringServer(t, &calls, `{"trigger":true,"message":"bad"}`)
	defer server.Close()

	store := cache.NewDiskCache(t.TempDir(), 0)
	runner := NewRunner(testConfig(server.URL), store, nil)

	results := runner.RunBatch(context.Background(), []string{"check this"}, nil)
	if results[0].Err != "" {
		t.Fatalf("unexpected error note: %s", results[0].Err)
	}
	if results[0].Cached {
		t.Error("first call marked cached")
	}
	if results[0].Content != `{"trigger":true,"message":"bad"}` {
		t.Errorf("content = %q", results[0].Content)
	}
	if results[0].Latency <= 0 {
		t.Error("missing latency on live call")
	}

	// Second batch with the same prompt must come from the cache.
	results = runner.RunBatch(context.Background(), []string{"check this"}, nil)
	if !results[0].Cached {
		t.Error("second call not served from cache")
	}
	if atomic.LoadInt32(&calls) != 1 {
		t.Errorf("made %d external calls, want 1", calls)
	}
}

func TestRunBatchLargeBatch(t *testing.T) {
	var calls int32
	server := scoringServer(t, &calls, `{}`)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.Workers = 2

	runner := NewRunner(cfg, nil, nil)

	prompts := make([]string, 50)
	for i := range prompts {
		prompts[i] = fmt.Sprintf("prompt %d", i)
	}

	done := make(chan []BatchResult)
	go func() { done <- runner.RunBatch(context.Background(), prompts, nil) }()

	select {
	case results := <-done:
		if len(results) != len(prompts) {
			t.Fatalf("got %d results, want %d", len(results), len(prompts))
		}
		for i, res := range results {
			if res.Err != "" {
				t.Errorf("result %d carries error note %q", i, res.Err)
			}
		}
		if got := atomic.LoadInt32(&calls); got != int32(len(prompts)) {
			t.Errorf("made %d external calls, want %d", got, len(prompts))
		}
	case <-time.After(30 * time.Second):
		t.Fatalf("batch stalled: only %d of %d calls issued", atomic.LoadInt32(&calls), len(prompts))
	}
}

func TestRunBatchCacheDisabled(t *testing.T) {
	var calls int32
	server := scoringServer(t, &calls, `{}`)
	defer server.Close()

	cfg := testConfig(server.URL)
	cfg.UseCache = false

	store := cache.NewDiskCache(t.TempDir(), 0)
	runner := NewRunner(cfg, store, nil)

	runner.RunBatch(context.Background(), []string{"p"}, nil)
	runner.RunBatch(context.Background(), []string{"p"}, nil)
	if atomic.LoadInt32(&calls) != 2 {
		t.Errorf("made %d external calls, want 2", calls)
	}
}

func TestRunBatchCallFailure(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	runner := NewRunner(testConfig(server.URL), nil, nil)
	results := runner.RunBatch(context.Background(), []string{"p1", "p2"}, nil)

	for i, res := range results {
		if res.Content != "{}" {
			t.Errorf("result %d content = %q, want neutral", i, res.Content)
		}
		if res.Err == "" {
			t.Errorf("result %d missing error note", i)
		}
		// Neutral content must parse to a non-trigger.
		if Parse(res.Content).Trigger {
			t.Errorf("result %d neutral content triggered", i)
		}
	}
}

func TestRunBatchProgress(t *testing.T) {
	var calls int32
	server := scoringServer(t, &calls, `{}`)
	defer server.Close()

	var stages [][2]int
	progress := func(done, total int) {
		stages = append(stages, [2]int{done, total})
		panic("callback failure must not abort the batch")
	}

	cfg := testConfig(server.URL)
	cfg.Workers = 1 // serialize so the progress slice is race-free

	runner := NewRunner(cfg, nil, nil)
	results := runner.RunBatch(context.Background(), []string{"a", "b"}, progress)

	if len(results) != 2 {
		t.Fatalf("got %d results, want 2", len(results))
	}
	if len(stages) != 3 {
		t.Fatalf("got %d progress stages, want 3: %v", len(stages), stages)
	}
	if stages[0] != [2]int{0, 2} {
		t.Errorf("first stage = %v, want total announcement", stages[0])
	}
	if stages[len(stages)-1] != [2]int{2, 2} {
		t.Errorf("last stage = %v, want completion", stages[len(stages)-1])
	}
}

func TestLookupStoreRoundTrip(t *testing.T) {
	store := cache.NewDiskCache(t.TempDir(), 0)
	runner := NewRunner(DefaultConfig(), store, nil)

	runner.Store("gpt-4o-mini", "prompt one", "X")

	if got, ok := runner.Lookup("gpt-4o-mini", "prompt one"); !ok || got != "X" {
		t.Errorf("Lookup = %q, %v; want X, true", got, ok)
	}
	if _, ok := runner.Lookup("gpt-4o-mini", "different prompt"); ok {
		t.Error("different prompt unexpectedly hit")
	}
	if _, ok := runner.Lookup("other-model", "prompt one"); ok {
		t.Error("different model unexpectedly hit")
	}
}

func TestReadPrompts(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prompts.txt")
	content := "first prompt\n\n# a comment\nsecond prompt\nfirst prompt\n  third  \n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}

	prompts, err := ReadPrompts(path)
	if err != nil {
		t.Fatalf("ReadPrompts failed: %v", err)
	}
	want := []string{"first prompt", "second prompt", "third"}
	if len(prompts) != len(want) {
		t.Fatalf("got %v, want %v", prompts, want)
	}
	for i := range want {
		if prompts[i] != want[i] {
			t.Errorf("prompts[%d] = %q, want %q", i, prompts[i], want[i])
		}
	}
}
