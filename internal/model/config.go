package model

import "time"

// Config is the complete runtime configuration. It is built once at
// startup (defaults, config file, environment, flags) and passed by
// reference into each component; no component reads the environment on
// its own.
type Config struct {
	ClaimBuster ClaimBusterConfig `yaml:"claimbuster"`
	FactCheck   FactCheckConfig   `yaml:"factcheck"`
	LLM         LLMConfig         `yaml:"llm"`
	Pipeline    PipelineConfig    `yaml:"pipeline"`
	HTTP        HTTPConfig        `yaml:"http"`
	Cache       CacheConfig       `yaml:"cache"`
	Output      OutputConfig      `yaml:"output"`
}

// ClaimBusterConfig configures the sentence check-worthiness scoring
// collaborator.
type ClaimBusterConfig struct {
	APIKey   string        `yaml:"api_key"`
	Endpoint string        `yaml:"endpoint"`
	Timeout  time.Duration `yaml:"timeout"`
}

// FactCheckConfig configures the external fact-check search collaborator.
type FactCheckConfig struct {
	APIKey            string        `yaml:"api_key"`
	Endpoint          string        `yaml:"endpoint"`
	Language          string        `yaml:"language"`
	MaxResults        int           `yaml:"max_results"`
	Timeout           time.Duration `yaml:"timeout"`
	RequestsPerSecond float64       `yaml:"requests_per_second"`
	Burst             int           `yaml:"burst"`
}

// LLMConfig configures the text-generation collaborator used for claim
// extraction and automated assessment.
type LLMConfig struct {
	Provider   string `yaml:"provider"` // openai, anthropic, ollama, "" (disabled)
	Model      string `yaml:"model"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Timeout    int    `yaml:"timeout"` // seconds
	MaxTokens  int    `yaml:"max_tokens"`
	HTTPProxy  string `yaml:"http_proxy"`
	HTTPSProxy string `yaml:"https_proxy"`
	NoProxy    string `yaml:"no_proxy"`
}

// PipelineConfig holds the thresholds and fan-out bounds of the core
// pipeline.
type PipelineConfig struct {
	TopK           int     `yaml:"top_k"`
	ScoreThreshold float64 `yaml:"score_threshold"`
	SearchWorkers  int     `yaml:"search_workers"`
	MinSources     int     `yaml:"min_sources"`
}

// HTTPConfig configures article fetching.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout"`
	UserAgent    string        `yaml:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes"`
	HTTPProxy    string        `yaml:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy"`
}

// CacheConfig configures the in-memory page cache used by the fetcher.
// Pipeline results themselves are never cached.
type CacheConfig struct {
	Enabled         bool          `yaml:"enabled"`
	TTL             time.Duration `yaml:"ttl"`
	CleanupInterval time.Duration `yaml:"cleanup_interval"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() *Config {
	return &Config{
		ClaimBuster: ClaimBusterConfig{
			Endpoint: "https://idir.uta.edu/claimbuster/api/v2/score/text/sentences/",
			Timeout:  30 * time.Second,
		},
		FactCheck: FactCheckConfig{
			Endpoint:          "https://factchecktools.googleapis.com/v1alpha1/claims:search",
			Language:          "en",
			MaxResults:        5,
			Timeout:           15 * time.Second,
			RequestsPerSecond: 4,
			Burst:             4,
		},
		LLM: LLMConfig{
			Provider:  "openai",
			Timeout:   30,
			MaxTokens: 2048,
		},
		Pipeline: PipelineConfig{
			TopK:           3,
			ScoreThreshold: 0.5,
			SearchWorkers:  4,
			MinSources:     2,
		},
		HTTP: HTTPConfig{
			Timeout:      15 * time.Second,
			UserAgent:    "claimlens/0.1",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled:         true,
			TTL:             15 * time.Minute,
			CleanupInterval: 5 * time.Minute,
		},
	}
}
