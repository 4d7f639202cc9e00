package config

// EngineConfig configures the fuzzing engine.
type EngineConfig struct {
	// Kind selects the engine: mutation, hybrid, generative, splice, multi.
	Kind string `yaml:"kind" json:"kind,omitempty"`

	NumConsecutiveMutations int `yaml:"num_consecutive_mutations" json:"num_consecutive_mutations,omitempty"`
	ProgramSize             int `yaml:"program_size" json:"program_size,omitempty"`
	ConsecutiveSplices      int `yaml:"consecutive_splices" json:"consecutive_splices,omitempty"`

	// SpliceKeepProbability is the chance a splice round's result is kept
	// even without producing new coverage (SpliceEngine,).
	SpliceKeepProbability float64 `yaml:"splice_keep_probability" json:"splice_keep_probability,omitempty"`

	// MultiWeights weights each named engine kind for MultiEngine dispatch.
	MultiWeights map[string]float64 `yaml:"multi_weights" json:"multi_weights,omitempty"`
}

// DefaultEngineConfig returns the engine tuning defaults.
func DefaultEngineConfig() EngineConfig {
	return EngineConfig{
		Kind:                    "mutation",
		NumConsecutiveMutations: 5,
		ProgramSize:             100,
		ConsecutiveSplices:      5,
		SpliceKeepProbability:   0.8,
		MultiWeights: map[string]float64{
			"mutation":   0.6,
			"hybrid":     0.2,
			"splice":     0.15,
			"generative": 0.05,
		},
	}
}
