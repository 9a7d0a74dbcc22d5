// Package sim provides a synthetic optical loop for exercising the
// optical-gain estimator without a wavefront-sensor simulation.
package sim

import (
	"fmt"

	"github.com/cwbudde/algo-vecmath"
	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-optgain/dsp/core"
	"github.com/cwbudde/algo-optgain/dsp/delay"
	"github.com/cwbudde/algo-optgain/dsp/signal"
	"github.com/cwbudde/algo-optgain/pipeline"
)

// Plant turns mode commands into residuals:
//
//	r[k] = og ⊙ (d − c[k−latency]) + noise[k]
//
// where og holds the optical gain of every mode and d is a static
// disturbance. While the latency line fills the residual is empty.
type Plant struct {
	gains       []float64
	disturbance []float64
	latency     int
	noise       float64
	seed        int64

	gen      *signal.Generator
	line     *delay.Line[[]float64]
	command  []float64
	residual []float64
	err      error
}

// Option configures a Plant.
type Option func(*Plant)

// WithOpticalGain sets the same optical gain on every mode.
func WithOpticalGain(gain float64) Option {
	return func(p *Plant) {
		for i := range p.gains {
			p.gains[i] = gain
		}
	}
}

// WithModeGains sets the optical gain of each mode.
func WithModeGains(gains []float64) Option {
	return func(p *Plant) {
		if len(gains) != len(p.gains) {
			p.err = fmt.Errorf("plant mode gains length must be %d: %d", len(p.gains), len(gains))
			return
		}
		copy(p.gains, gains)
	}
}

// WithLatency delays the command by ticks before it reaches the residual.
func WithLatency(ticks int) Option {
	return func(p *Plant) {
		if ticks < 0 {
			p.err = fmt.Errorf("plant latency must be >= 0: %d", ticks)
			return
		}
		p.latency = ticks
	}
}

// WithNoise adds uniform measurement noise in [-amplitude, amplitude].
func WithNoise(amplitude float64, seed int64) Option {
	return func(p *Plant) {
		if amplitude < 0 {
			p.err = fmt.Errorf("plant noise amplitude must be >= 0: %f", amplitude)
			return
		}
		p.noise = amplitude
		p.seed = seed
	}
}

// WithDisturbance sets the static disturbance the loop corrects.
func WithDisturbance(d []float64) Option {
	return func(p *Plant) {
		if len(d) != len(p.gains) {
			p.err = fmt.Errorf("plant disturbance length must be %d: %d", len(p.gains), len(d))
			return
		}
		p.disturbance = core.Clone(d)
	}
}

// NewPlant returns a plant with unit optical gain and no latency by default.
func NewPlant(cfg core.LoopConfig, opts ...Option) (*Plant, error) {
	n := cfg.Len()
	if n <= 0 {
		return nil, fmt.Errorf("plant mode vector length must be > 0: %d", n)
	}
	p := &Plant{
		gains: make([]float64, n),
		seed:  1,
	}
	WithOpticalGain(1)(p)
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.err != nil {
		return nil, p.err
	}

	line, err := delay.NewLine[[]float64](p.latency + 1)
	if err != nil {
		return nil, err
	}
	p.line = line
	p.gen = signal.NewGenerator(signal.WithSeed(p.seed))
	return p, nil
}

// Latency returns the latency in ticks.
func (p *Plant) Latency() int { return p.latency }

// ReadCommand sets the command applied on the next Update. Commands of the
// wrong length are ignored.
func (p *Plant) ReadCommand(command []float64) {
	if len(command) != len(p.gains) {
		return
	}
	p.command = command
}

// Update pushes the latest command through the loop.
func (p *Plant) Update() {
	p.line.Write(p.command)
	delayed := p.line.Read(p.latency + 1)
	if delayed == nil {
		p.residual = []float64{}
		return
	}

	out := make([]float64, len(delayed))
	if p.disturbance != nil {
		floats.SubTo(out, p.disturbance, delayed)
	} else {
		floats.ScaleTo(out, -1, delayed)
	}
	vecmath.MulBlockInPlace(out, p.gains)
	if p.noise > 0 {
		noise, err := p.gen.WhiteNoise(p.noise, len(out))
		if err == nil {
			floats.Add(out, noise)
		}
	}
	p.residual = out
}

// Residual returns the residual of the latest Update.
func (p *Plant) Residual() []float64 {
	return p.residual
}

// Inputs returns the command topic.
func (p *Plant) Inputs() []pipeline.Topic {
	return []pipeline.Topic{pipeline.ModeCoefficients}
}

// Outputs returns the residual topic.
func (p *Plant) Outputs() []pipeline.Topic {
	return []pipeline.Topic{pipeline.ResidualModeCoefficients}
}

// Read accepts commands.
func (p *Plant) Read(msg pipeline.Message) {
	if msg.Topic() == pipeline.ModeCoefficients {
		p.ReadCommand(msg.Values())
	}
}

// Write publishes the residual, empty while the latency line fills.
func (p *Plant) Write(topic pipeline.Topic) (pipeline.Message, bool) {
	if topic != pipeline.ResidualModeCoefficients {
		return pipeline.Message{}, false
	}
	return pipeline.NewMessage(topic, p.residual), true
}
