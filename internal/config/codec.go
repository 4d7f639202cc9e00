package config

// CodecConfig configures the wire codec used for corpus export/import.
type CodecConfig struct {
	CompressRepeatedOps bool `yaml:"compress_repeated_ops" json:"compress_repeated_ops,omitempty"`
}

// DefaultCodecConfig returns the codec tuning defaults.
func DefaultCodecConfig() CodecConfig {
	return CodecConfig{
		CompressRepeatedOps: true,
	}
}
