// Package config holds ecmafuzz's single configuration tree: corpus, builder,
// engine, execution, logging, and codec tuning, loaded from YAML with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"

	"ecmafuzz/internal/logging"
)

// Config holds all ecmafuzz configuration.
type Config struct {
	Name    string `yaml:"name"`
	Version string `yaml:"version"`

	Corpus    CorpusConfig    `yaml:"corpus"`
	Builder   BuilderConfig   `yaml:"builder"`
	Engine    EngineConfig    `yaml:"engine"`
	Execution ExecutionConfig `yaml:"execution"`
	Logging   LoggingConfig   `yaml:"logging"`
	Codec     CodecConfig     `yaml:"codec"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Name:    "ecmafuzz",
		Version: "0.1.0",

		Corpus:    DefaultCorpusConfig(),
		Builder:   DefaultBuilderConfig(),
		Engine:    DefaultEngineConfig(),
		Execution: DefaultExecutionConfig(),
		Codec:     DefaultCodecConfig(),

		Logging: LoggingConfig{
			Level:     "info",
			Format:    "text",
			DebugMode: false,
		},
	}
}

// Load loads configuration from a YAML file, falling back to defaults if the
// file does not exist.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	logging.Get(logging.CategoryCLI).Debug("loading config from: %s", path)

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			logging.Get(logging.CategoryCLI).Info("config file not found, using defaults: %s", path)
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	logging.Get(logging.CategoryCLI).Info("config loaded: engine=%s corpus_max=%d", cfg.Engine.Kind, cfg.Corpus.MaxSize)

	return cfg, nil
}

// Save writes configuration to a YAML file.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write config: %w", err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides on top of the
// loaded (or default) config.
func (c *Config) applyEnvOverrides() {
	if dir := os.Getenv("ECMAFUZZ_CORPUS_DIR"); dir != "" {
		c.Corpus.StateDir = dir
	}
	if timeout := os.Getenv("ECMAFUZZ_TIMEOUT_MS"); timeout != "" {
		c.Execution.Timeout = timeout + "ms"
	}
	if debug := os.Getenv("ECMAFUZZ_DEBUG"); debug != "" {
		c.Logging.DebugMode = debug == "1" || debug == "true"
	}
	if engine := os.Getenv("ECMAFUZZ_ENGINE"); engine != "" {
		c.Engine.Kind = engine
	}
}

// GetExecutionTimeout returns the execution timeout as a duration.
func (c *Config) GetExecutionTimeout() time.Duration {
	d, err := time.ParseDuration(c.Execution.Timeout)
	if err != nil {
		return time.Second
	}
	return d
}

// GetCleanupInterval returns the corpus cleanup interval as a duration.
func (c *Config) GetCleanupInterval() time.Duration {
	d, err := time.ParseDuration(c.Corpus.CleanupInterval)
	if err != nil {
		return 30 * time.Minute
	}
	return d
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Corpus.MinSize < 1 {
		return fmt.Errorf("corpus.min_size must be >= 1, got %d", c.Corpus.MinSize)
	}
	if c.Corpus.MaxSize < c.Corpus.MinSize {
		return fmt.Errorf("corpus.max_size (%d) must be >= corpus.min_size (%d)", c.Corpus.MaxSize, c.Corpus.MinSize)
	}
	if c.Corpus.MinMutationsPerSample < 1 {
		return fmt.Errorf("corpus.min_mutations_per_sample must be >= 1, got %d", c.Corpus.MinMutationsPerSample)
	}
	switch c.Builder.Mode {
	case "conservative", "aggressive":
	default:
		return fmt.Errorf("builder.mode must be conservative or aggressive, got %q", c.Builder.Mode)
	}
	switch c.Engine.Kind {
	case "mutation", "hybrid", "generative", "splice", "multi":
	default:
		return fmt.Errorf("engine.kind must be one of mutation|hybrid|generative|splice|multi, got %q", c.Engine.Kind)
	}
	return nil
}
