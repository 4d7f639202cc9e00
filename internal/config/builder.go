package config

// BuilderConfig configures the program builder (C4).
type BuilderConfig struct {
	// Mode is "conservative" or "aggressive"; see internal/builder.Mode.
	Mode string `yaml:"mode" json:"mode,omitempty"`

	MaxVariables int `yaml:"max_variables" json:"max_variables,omitempty"`

	// InnerScopePreference biases randVar() toward the innermost scope.
	InnerScopePreference float64 `yaml:"inner_scope_preference" json:"inner_scope_preference,omitempty"`

	// RecursionStopProbability bounds generate()'s recursion depth.
	RecursionStopProbability float64 `yaml:"recursion_stop_probability" json:"recursion_stop_probability,omitempty"`
}

// DefaultBuilderConfig returns the builder tuning defaults.
func DefaultBuilderConfig() BuilderConfig {
	return BuilderConfig{
		Mode:                     "aggressive",
		MaxVariables:             1 << 16,
		InnerScopePreference:     0.75,
		RecursionStopProbability: 0.25,
	}
}
