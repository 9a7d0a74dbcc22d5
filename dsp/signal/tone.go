package signal

import "math"

// Tone is a sampled sinusoid indexed by sample number.
//
// The phase of sample i is 2π·Frequency·i/SampleRate, so a Tone carries no
// internal state and any sample can be evaluated directly.
type Tone struct {
	Frequency  float64
	SampleRate float64
	Amplitude  float64
}

// Phase returns the phase in radians of sample i.
func (t Tone) Phase(i int) float64 {
	return 2 * math.Pi * t.Frequency * float64(i) / t.SampleRate
}

// At returns Amplitude·sin(Phase(i)).
func (t Tone) At(i int) float64 {
	return t.Amplitude * math.Sin(t.Phase(i))
}

// Quadrature returns unit sine and cosine references at the tone frequency
// for samples 0..n-1. The amplitude is ignored.
func (t Tone) Quadrature(n int) (sin, cos []float64) {
	if n <= 0 {
		return nil, nil
	}
	sin = make([]float64, n)
	cos = make([]float64, n)
	for i := 0; i < n; i++ {
		sin[i], cos[i] = math.Sincos(t.Phase(i))
	}
	return sin, cos
}
