package model

import "time"

// Config is the complete extractlens configuration
type Config struct {
	Service      ServiceConfig      `yaml:"service" mapstructure:"service"`
	Extraction   ExtractionConfig   `yaml:"extraction" mapstructure:"extraction"`
	Session      SessionConfig      `yaml:"session" mapstructure:"session"`
	Cache        CacheConfig        `yaml:"cache" mapstructure:"cache"`
	RateLimiting RateLimitConfig    `yaml:"rate_limiting" mapstructure:"rate_limiting"`
	Concurrency  ConcurrencyConfig  `yaml:"concurrency" mapstructure:"concurrency"`
	Locate       LocateConfig       `yaml:"locate" mapstructure:"locate"`
	View         ViewConfig         `yaml:"view" mapstructure:"view"`
	Output       OutputConfig       `yaml:"output" mapstructure:"output"`
}

// ServiceConfig describes how to reach the extraction service
type ServiceConfig struct {
	BaseURL      string        `yaml:"base_url" mapstructure:"base_url"`
	PredictPath  string        `yaml:"predict_path" mapstructure:"predict_path"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
	UserAgent    string        `yaml:"user_agent" mapstructure:"user_agent"`
	MaxBodyBytes int64         `yaml:"max_body_bytes" mapstructure:"max_body_bytes"`
	MaxRetries   int           `yaml:"max_retries" mapstructure:"max_retries"` // Total attempts for transient failures
	HTTPProxy    string        `yaml:"http_proxy,omitempty" mapstructure:"http_proxy"`
	HTTPSProxy   string        `yaml:"https_proxy,omitempty" mapstructure:"https_proxy"`
	NoProxy      string        `yaml:"no_proxy,omitempty" mapstructure:"no_proxy"`
}

// ExtractionConfig holds the per-submission options sent to the service
type ExtractionConfig struct {
	ModelID         string `yaml:"model_id" mapstructure:"model_id"`
	MedicalExamples bool   `yaml:"medical_examples" mapstructure:"medical_examples"` // First toggle
	LegalExamples   bool   `yaml:"legal_examples" mapstructure:"legal_examples"`     // Second toggle, wins over the first
}

// ExamplesType derives the examples pack from the two toggles
func (e ExtractionConfig) ExamplesType() string {
	return DeriveExamplesType(e.MedicalExamples, e.LegalExamples)
}

// SessionConfig controls submission behaviour
type SessionConfig struct {
	Timeout   time.Duration `yaml:"timeout" mapstructure:"timeout"`
	Supersede bool          `yaml:"supersede" mapstructure:"supersede"` // Cancel in-flight submission instead of rejecting
}

// CacheConfig controls the in-memory response cache
type CacheConfig struct {
	Enabled bool          `yaml:"enabled" mapstructure:"enabled"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// RateLimitConfig limits calls to the extraction service
type RateLimitConfig struct {
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	BurstSize         int     `yaml:"burst_size" mapstructure:"burst_size"`
}

// ConcurrencyConfig sizes the span resolution pool
type ConcurrencyConfig struct {
	ResolveWorkers int `yaml:"resolve_workers" mapstructure:"resolve_workers"`
}

// LocateConfig tunes the fallback matching tiers
type LocateConfig struct {
	MinPhraseLength  int     `yaml:"min_phrase_length" mapstructure:"min_phrase_length"`
	MinTokenLength   int     `yaml:"min_token_length" mapstructure:"min_token_length"` // Tokens must be longer than this
	MaxWindow        int     `yaml:"max_window" mapstructure:"max_window"`
	MinWindow        int     `yaml:"min_window" mapstructure:"min_window"`
	OverlapThreshold float64 `yaml:"overlap_threshold" mapstructure:"overlap_threshold"` // Strictly exceeded
}

// ViewConfig approximates the text panel geometry used for scrolling
type ViewConfig struct {
	Width      int `yaml:"width" mapstructure:"width"`             // Panel width in pixels
	Height     int `yaml:"height" mapstructure:"height"`           // Panel height in pixels
	LineHeight int `yaml:"line_height" mapstructure:"line_height"` // Approximate line height in pixels
	CharWidth  int `yaml:"char_width" mapstructure:"char_width"`   // Approximate glyph width in pixels
}

// OutputConfig controls CLI output
type OutputConfig struct {
	Verbose bool `yaml:"verbose" mapstructure:"verbose"`
	Color   bool `yaml:"color" mapstructure:"color"`
}

// DefaultConfig returns the built-in defaults
func DefaultConfig() *Config {
	return &Config{
		Service: ServiceConfig{
			BaseURL:      "http://localhost:5000",
			PredictPath:  "/predict",
			Timeout:      2 * time.Minute,
			UserAgent:    "extractlens/0.1 (+https://github.com/ppiankov/extractlens)",
			MaxBodyBytes: 10_000_000,
			MaxRetries:   3,
		},
		Extraction: ExtractionConfig{
			ModelID:         "gemini-2.5-pro",
			MedicalExamples: true,
		},
		Session: SessionConfig{
			Timeout: 2 * time.Minute,
		},
		Cache: CacheConfig{
			Enabled: true,
			TTL:     30 * time.Minute,
		},
		RateLimiting: RateLimitConfig{
			RequestsPerSecond: 1,
			BurstSize:         2,
		},
		Concurrency: ConcurrencyConfig{
			ResolveWorkers: 4,
		},
		Locate: LocateConfig{
			MinPhraseLength:  11,
			MinTokenLength:   2,
			MaxWindow:        10,
			MinWindow:        3,
			OverlapThreshold: 0.6,
		},
		View: ViewConfig{
			Width:      800,
			Height:     400,
			LineHeight: 22,
			CharWidth:  8,
		},
		Output: OutputConfig{
			Color: true,
		},
	}
}
