package config

// CorpusConfig configures the evicting sample store (C5).
type CorpusConfig struct {
	MaxSize               int    `yaml:"max_size" json:"max_size,omitempty"`
	MinSize               int    `yaml:"min_size" json:"min_size,omitempty"`
	MinMutationsPerSample int    `yaml:"min_mutations_per_sample" json:"min_mutations_per_sample,omitempty"`
	CleanupInterval       string `yaml:"cleanup_interval" json:"cleanup_interval,omitempty"`
	StaticCorpus          bool   `yaml:"static_corpus" json:"static_corpus,omitempty"`
	StateDir              string `yaml:"state_dir" json:"state_dir,omitempty"`
}

// DefaultCorpusConfig returns the corpus tuning defaults.
func DefaultCorpusConfig() CorpusConfig {
	return CorpusConfig{
		MaxSize:               10000,
		MinSize:               4,
		MinMutationsPerSample: 5,
		CleanupInterval:       "30m",
		StaticCorpus:          false,
		StateDir:              ".ecmafuzz/corpus",
	}
}
