package ogain

import (
	"fmt"
	"math"

	"github.com/cwbudde/algo-optgain/dsp/core"
	"github.com/cwbudde/algo-optgain/dsp/signal"
	"gonum.org/v1/gonum/stat"
)

// Probe modulates one mode with a sinusoid and demodulates the loop response.
type Probe struct {
	segment int
	mode    int
	cfg     core.LoopConfig
	tone    signal.Tone

	signal   []float64
	filtered []float64
	i        int
	gain     float64
}

// NewProbe returns a probe for spec in a loop of modes modes per segment.
func NewProbe(spec ProbeSpec, modes int, sampleRate, amplitude float64) *Probe {
	return &Probe{
		segment: spec.Segment,
		mode:    spec.Mode,
		cfg: core.LoopConfig{
			SampleRate: sampleRate,
			Modes:      modes,
			Segments:   core.DefaultSegments,
		},
		tone: signal.Tone{
			Frequency:  spec.Frequency,
			SampleRate: sampleRate,
			Amplitude:  amplitude,
		},
	}
}

// ID returns the index of the probed coefficient in the mode vector.
func (p *Probe) ID() int {
	return p.cfg.Index(p.segment, p.mode)
}

// Segment returns the probed segment (1-based).
func (p *Probe) Segment() int { return p.segment }

// Mode returns the probed mode within the segment.
func (p *Probe) Mode() int { return p.mode }

// Frequency returns the probe frequency in Hz.
func (p *Probe) Frequency() float64 { return p.tone.Frequency }

// Amplitude returns the probe amplitude.
func (p *Probe) Amplitude() float64 { return p.tone.Amplitude }

// Modulate adds the next probe sample to *v and records the result.
// It must be called exactly once per tick.
func (p *Probe) Modulate(v *float64) {
	*v += p.tone.At(p.i)
	p.signal = append(p.signal, *v)
	p.i++
}

// Ingest records one sample of the loop response.
func (p *Probe) Ingest(value float64) {
	p.filtered = append(p.filtered, value)
}

// Signal returns the injected history. The slice must not be modified.
func (p *Probe) Signal() []float64 { return p.signal }

// Filtered returns the response history. The slice must not be modified.
func (p *Probe) Filtered() []float64 { return p.filtered }

// Samples returns the number of sample pairs used by Gain.
func (p *Probe) Samples() int {
	return min(len(p.signal), len(p.filtered))
}

// correlations demodulates both histories over their common length.
func (p *Probe) correlations() (reS, imS, reF, imF float64) {
	n := p.Samples()
	sin, cos := p.tone.Quadrature(n)
	reS, imS = demodulate(p.signal[:n], sin, cos)
	reF, imF = demodulate(p.filtered[:n], sin, cos)
	return reS, imS, reF, imF
}

// Gain computes, stores and returns the optical gain.
// Histories without power at the probe frequency give NaN or Inf.
func (p *Probe) Gain() float64 {
	reS, imS, reF, imF := p.correlations()
	p.setGain(reS*reS+imS*imS, reF*reF+imF*imF)
	return p.gain
}

func (p *Probe) setGain(powerS, powerF float64) {
	p.gain = math.Sqrt(powerF / powerS)
}

// LastGain returns the gain computed by the latest Gain call.
func (p *Probe) LastGain() float64 { return p.gain }

// SignalVariance returns the population variance of the injected history.
func (p *Probe) SignalVariance() float64 {
	return stat.PopVariance(p.signal, nil)
}

// FilteredVariance returns the population variance of the response history.
func (p *Probe) FilteredVariance() float64 {
	return stat.PopVariance(p.filtered, nil)
}

// VarianceRatio returns FilteredVariance / SignalVariance.
func (p *Probe) VarianceRatio() float64 {
	return p.FilteredVariance() / p.SignalVariance()
}

// GainFromVariance estimates the gain as sqrt(2·VarianceRatio()). On a
// response that is a pure scaled copy of the injected history it reads √2
// times the lock-in gain; noise in the response biases it upwards.
func (p *Probe) GainFromVariance() float64 {
	return math.Sqrt(2 * p.VarianceRatio())
}

func (p *Probe) String() string {
	return fmt.Sprintf(" * S%d#%3d(%3.0fHz): %.3f", p.segment, p.mode, p.tone.Frequency, p.gain)
}
