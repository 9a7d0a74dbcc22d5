// Package ogain estimates the optical gain of a closed control loop by
// probing individual modes with small sinusoids.
//
// Each Probe adds a tone of known frequency to one coefficient of the mode
// vector sent into the loop and records the value it injected. The loop's
// residual for the same coefficient is recorded as the filtered response.
// Once the run is over, both histories are correlated against the probe
// frequency (synchronous, or lock-in, demodulation) and the optical gain is
// the ratio of their amplitudes at that frequency:
//
//	re = Σ x[i]·cos(2π·f·i/fs)    im = Σ x[i]·sin(2π·f·i/fs)
//	gain = sqrt((re_f² + im_f²) / (re_s² + im_s²))
//
// The estimate ignores the phase lag of the loop and rejects the tones of
// the other probes as long as the frequencies do not nearly coincide.
//
// # Usage
//
// OpticalGain drives the default probe set, six probes on the outer
// segments and four on the center segment, and plugs into a pipeline.Model
// between the controller and the loop:
//
//	og, err := ogain.New(1000, 500)
//	// per tick: og.ReadModes(command); og.Update(); next := og.WriteModes()
//	//           og.ReadResidual(residual)
//	fmt.Print(og.Report())
//
// The residual has to be delayed by the loop latency (see delay.Gate) so
// that the filtered sample recorded on a tick answers the probe sample
// injected latency ticks earlier. A residual delivered empty is skipped,
// which leaves the filtered history one sample short from then on.
package ogain
