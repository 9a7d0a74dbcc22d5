package ogain

import (
	"fmt"
	"strings"

	"github.com/cwbudde/algo-optgain/dsp/core"
	"github.com/cwbudde/algo-vecmath"
)

// OpticalGain injects the probes into a mode vector and collects the loop
// response for each of them.
type OpticalGain struct {
	cfg    core.LoopConfig
	probes []*Probe
	data   []float64
}

// Option configures an OpticalGain.
type Option func(*settings)

type settings struct {
	amplitude float64
	probes    []ProbeSpec
}

// WithAmplitude sets the amplitude of every probe.
func WithAmplitude(amplitude float64) Option {
	return func(s *settings) {
		if amplitude > 0 {
			s.amplitude = amplitude
		}
	}
}

// WithProbes replaces the default probe set.
func WithProbes(specs ...ProbeSpec) Option {
	return func(s *settings) {
		s.probes = append([]ProbeSpec(nil), specs...)
	}
}

// New returns an OpticalGain for a loop sampled at sampleRate with modes
// modes on each of the seven segments. The mode vector starts at zero.
func New(sampleRate float64, modes int, opts ...Option) (*OpticalGain, error) {
	if sampleRate <= 0 {
		return nil, fmt.Errorf("optical gain sample rate must be > 0: %f", sampleRate)
	}
	if modes <= 0 {
		return nil, fmt.Errorf("optical gain modes must be > 0: %d", modes)
	}

	s := settings{amplitude: ProbeAmplitude}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	if s.probes == nil {
		s.probes = DefaultProbes()
	}

	cfg := core.ApplyLoopOptions(
		core.WithSampleRate(sampleRate),
		core.WithModes(modes),
		core.WithSegments(core.DefaultSegments),
	)
	g := &OpticalGain{
		cfg:    cfg,
		probes: make([]*Probe, 0, len(s.probes)),
		data:   make([]float64, cfg.Len()),
	}
	for _, spec := range s.probes {
		if spec.Segment < 1 || spec.Segment > cfg.Segments {
			return nil, fmt.Errorf("probe segment must be in [1, %d]: %d", cfg.Segments, spec.Segment)
		}
		if spec.Mode < 0 || spec.Mode >= cfg.Modes {
			return nil, fmt.Errorf("probe mode must be in [0, %d): S%d#%d", cfg.Modes, spec.Segment, spec.Mode)
		}
		p := NewProbe(spec, cfg.Modes, cfg.SampleRate, s.amplitude)
		if id := p.ID(); id >= len(g.data) {
			return nil, fmt.Errorf("probe S%d#%d index %d exceeds mode vector length %d", spec.Segment, spec.Mode, id, len(g.data))
		}
		g.probes = append(g.probes, p)
	}
	return g, nil
}

// Config returns the loop configuration.
func (g *OpticalGain) Config() core.LoopConfig {
	return g.cfg
}

// Probes returns the probes in injection order.
func (g *OpticalGain) Probes() []*Probe {
	return g.probes
}

// Update adds the next sample of every probe to the mode vector.
func (g *OpticalGain) Update() {
	for _, p := range g.probes {
		p.Modulate(&g.data[p.ID()])
	}
}

// ReadModes replaces the mode vector with a copy of modes. The buffer takes
// the length of modes; a vector shorter than the highest probe id makes the
// next Update panic with an index out of range.
func (g *OpticalGain) ReadModes(modes []float64) {
	g.data = core.EnsureLen(g.data, len(modes))
	copy(g.data, modes)
}

// WriteModes returns a copy of the mode vector.
func (g *OpticalGain) WriteModes() []float64 {
	return core.Clone(g.data)
}

// ReadResidual records the residual of every probed mode. An empty residual
// means no measurement this tick and is ignored.
func (g *OpticalGain) ReadResidual(residual []float64) {
	if len(residual) == 0 {
		return
	}
	for _, p := range g.probes {
		p.Ingest(residual[p.ID()])
	}
}

// Gains computes the optical gain of every probe.
func (g *OpticalGain) Gains() []float64 {
	n := len(g.probes)
	reS := make([]float64, n)
	imS := make([]float64, n)
	reF := make([]float64, n)
	imF := make([]float64, n)
	for i, p := range g.probes {
		reS[i], imS[i], reF[i], imF[i] = p.correlations()
	}

	powerS := make([]float64, n)
	powerF := make([]float64, n)
	vecmath.Power(powerS, reS, imS)
	vecmath.Power(powerF, reF, imF)

	gains := make([]float64, n)
	for i, p := range g.probes {
		p.setGain(powerS[i], powerF[i])
		gains[i] = p.gain
	}
	return gains
}

// GainFromVariance returns the variance-based estimate of every probe.
func (g *OpticalGain) GainFromVariance() []float64 {
	out := make([]float64, len(g.probes))
	for i, p := range g.probes {
		out[i] = p.GainFromVariance()
	}
	return out
}

// Report computes the gains and summarizes them per probe.
func (g *OpticalGain) Report() Report {
	gains := g.Gains()
	r := Report{Entries: make([]Entry, len(g.probes))}
	for i, p := range g.probes {
		r.Entries[i] = Entry{
			Segment:      p.segment,
			Mode:         p.mode,
			Frequency:    p.tone.Frequency,
			Gain:         gains[i],
			VarianceGain: p.GainFromVariance(),
			Samples:      p.Samples(),
		}
	}
	return r
}

// String prints the gains of the latest Gains call.
func (g *OpticalGain) String() string {
	var b strings.Builder
	b.WriteString("Optical Gain:\n")
	for _, p := range g.probes {
		b.WriteString(p.String())
		b.WriteByte('\n')
	}
	return b.String()
}
