package model

import "time"

// Config is the complete tool configuration, assembled from defaults,
// the config file, TOME_* environment variables and CLI flags.
type Config struct {
	API         APIConfig         `yaml:"api" mapstructure:"api"`
	HTTP        HTTPConfig        `yaml:"http" mapstructure:"http"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Concurrency ConcurrencyConfig `yaml:"concurrency" mapstructure:"concurrency"`
	Extract     ExtractConfig     `yaml:"extract" mapstructure:"extract"`
	LLM         LLMConfig         `yaml:"llm" mapstructure:"llm"`
	Output      OutputConfig      `yaml:"output" mapstructure:"output"`
}

// APIConfig points at the card catalog API.
type APIConfig struct {
	BaseURL           string  `yaml:"base_url" mapstructure:"base_url"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
	RespectRobots     bool    `yaml:"respect_robots" mapstructure:"respect_robots"`
}

// HTTPConfig controls the HTTP client used for fetching.
type HTTPConfig struct {
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
}

// CacheConfig controls caching of fetched FAQ payloads.
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	Dir     string        `yaml:"dir" mapstructure:"dir"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// ConcurrencyConfig sizes the worker pools.
type ConcurrencyConfig struct {
	FetchWorkers   int `yaml:"fetch_workers" mapstructure:"fetch_workers"`
	ExtractWorkers int `yaml:"extract_workers" mapstructure:"extract_workers"`
}

// ExtractConfig carries the extraction policy toggles.
type ExtractConfig struct {
	// CoerceAnswers preserves the legacy behavior where a labeled
	// segment that follows a pending question is consumed as that
	// question's answer, discarding its own label.
	CoerceAnswers bool `yaml:"coerce_answers" mapstructure:"coerce_answers"`
	// EmitUnanswered emits a question-only ruling (empty answer) when a
	// fragment ends with a pending question instead of dropping it.
	EmitUnanswered bool `yaml:"emit_unanswered" mapstructure:"emit_unanswered"`
}

// LLMConfig configures the optional enrichment provider.
type LLMConfig struct {
	Provider  string `yaml:"provider" mapstructure:"provider"` // "openai" or "" (disabled)
	Model     string `yaml:"model" mapstructure:"model"`
	APIKey    string `yaml:"-" mapstructure:"-"` // environment only, never persisted
	BaseURL   string `yaml:"base_url" mapstructure:"base_url"`
	MaxTokens int    `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// OutputConfig controls CLI output behavior.
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
}

// DefaultConfig returns sensible defaults
func DefaultConfig() *Config {
	return &Config{
		API: APIConfig{
			BaseURL:           "https://arkhamdb.com",
			RequestsPerSecond: 2,
			Burst:             5,
			RespectRobots:     true,
		},
		HTTP: HTTPConfig{
			Timeout:      30 * time.Second,
			UserAgent:    "abyssal-tome/0.1 (+https://github.com/avolkov/abyssal-tome)",
			MaxBodyBytes: 2_000_000,
		},
		Cache: CacheConfig{
			Enabled: true,
			Dir:     "", // resolved to ~/.tome/cache by the CLI
			TTL:     24 * time.Hour,
		},
		Concurrency: ConcurrencyConfig{
			FetchWorkers:   5,
			ExtractWorkers: 8,
		},
		Extract: ExtractConfig{
			CoerceAnswers:  true,
			EmitUnanswered: false,
		},
		LLM: LLMConfig{
			Provider:  "",
			Model:     "",
			MaxTokens: 500,
		},
	}
}
