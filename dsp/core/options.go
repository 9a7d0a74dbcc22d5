package core

// LoopConfig defines the shape and rate of a sampled control loop.
//
// The mode vector circulating in the loop is laid out segment by segment:
// Modes coefficients for segment 1, then Modes for segment 2, and so on.
type LoopConfig struct {
	SampleRate float64
	Modes      int
	Segments   int
}

// LoopOption mutates a LoopConfig.
type LoopOption func(*LoopConfig)

// DefaultSegments is the number of mirror segments addressed by a mode vector.
const DefaultSegments = 7

// DefaultLoopConfig returns the 1 kHz, 500 modes per segment configuration.
func DefaultLoopConfig() LoopConfig {
	return LoopConfig{
		SampleRate: 1000,
		Modes:      500,
		Segments:   DefaultSegments,
	}
}

// Len returns the length of the flat mode vector.
func (c LoopConfig) Len() int {
	return c.Modes * c.Segments
}

// Index returns the flat vector index of mode on segment (1-based).
func (c LoopConfig) Index(segment, mode int) int {
	return (segment-1)*c.Modes + mode
}

// WithSampleRate sets the loop sampling frequency in Hz.
func WithSampleRate(sampleRate float64) LoopOption {
	return func(cfg *LoopConfig) {
		if sampleRate > 0 {
			cfg.SampleRate = sampleRate
		}
	}
}

// WithModes sets the number of modes per segment.
func WithModes(modes int) LoopOption {
	return func(cfg *LoopConfig) {
		if modes > 0 {
			cfg.Modes = modes
		}
	}
}

// WithSegments sets the number of segments.
func WithSegments(segments int) LoopOption {
	return func(cfg *LoopConfig) {
		if segments > 0 {
			cfg.Segments = segments
		}
	}
}

// ApplyLoopOptions applies zero or more options to the default config.
func ApplyLoopOptions(opts ...LoopOption) LoopConfig {
	cfg := DefaultLoopConfig()
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}
