package ai

import "time"

// Config holds the external-scoring switches. The transport of these
// values (env vars, config file, flags) is the caller's concern.
type Config struct {
	// Enabled gates all external calls. When false every prompt gets a
	// neutral response.
	Enabled bool

	// APIKey is the access credential. Scoring degrades to neutral
	// responses when missing.
	APIKey string

	// Model is the scoring model identifier; part of the cache key.
	Model string

	// BaseURL overrides the API endpoint (tests, proxies).
	BaseURL string

	// MaxTokens bounds the response length per call.
	MaxTokens int

	// Temperature is the sampling temperature.
	Temperature float32

	// Timeout bounds each external call.
	Timeout time.Duration

	// UseCache consults the content-addressed cache before calling out.
	UseCache bool

	// Workers bounds concurrent external calls within a batch.
	Workers int

	// RequestsPerSecond throttles calls per model (0 = unthrottled).
	RequestsPerSecond float64
}

// DefaultConfig returns sensible defaults; scoring is off until the
// caller enables it and supplies a credential.
func DefaultConfig() Config {
	return Config{
		Model:             "gpt-4o-mini",
		MaxTokens:         80,
		Temperature:       0,
		Timeout:           30 * time.Second,
		UseCache:          true,
		Workers:           4,
		RequestsPerSecond: 2,
	}
}
