// Package control provides the loop controller driving the mode vector.
package control

import (
	"fmt"

	"gonum.org/v1/gonum/floats"

	"github.com/cwbudde/algo-optgain/dsp/core"
	"github.com/cwbudde/algo-optgain/pipeline"
)

// DefaultGain is the integrator gain used when none is configured.
const DefaultGain = 0.5

// Integrator accumulates residuals into a mode command: u += gain·r.
type Integrator struct {
	gain     float64
	command  []float64
	residual []float64
}

// NewIntegrator returns an integrator over n modes.
func NewIntegrator(n int, gain float64) (*Integrator, error) {
	if n <= 0 {
		return nil, fmt.Errorf("integrator size must be > 0: %d", n)
	}
	return &Integrator{gain: gain, command: make([]float64, n)}, nil
}

// Gain returns the integrator gain.
func (c *Integrator) Gain() float64 { return c.gain }

// SetGain changes the integrator gain.
func (c *Integrator) SetGain(gain float64) { c.gain = gain }

// ReadResidual stores the residual for the next Update. Empty residuals
// and residuals of the wrong length are ignored.
func (c *Integrator) ReadResidual(residual []float64) {
	if len(residual) != len(c.command) {
		return
	}
	c.residual = residual
}

// Update integrates the pending residual, if any.
func (c *Integrator) Update() {
	if c.residual == nil {
		return
	}
	floats.AddScaled(c.command, c.gain, c.residual)
	c.residual = nil
}

// Command returns a copy of the current command.
func (c *Integrator) Command() []float64 {
	return core.Clone(c.command)
}

// Reset zeroes the command.
func (c *Integrator) Reset() {
	core.Zero(c.command)
	c.residual = nil
}

// Inputs returns the residual topic.
func (c *Integrator) Inputs() []pipeline.Topic {
	return []pipeline.Topic{pipeline.ResidualModeCoefficients}
}

// Outputs returns the mode topic.
func (c *Integrator) Outputs() []pipeline.Topic {
	return []pipeline.Topic{pipeline.ModeCoefficients}
}

// Read accepts residual messages.
func (c *Integrator) Read(msg pipeline.Message) {
	if msg.Topic() == pipeline.ResidualModeCoefficients {
		c.ReadResidual(msg.Values())
	}
}

// Write publishes the command.
func (c *Integrator) Write(topic pipeline.Topic) (pipeline.Message, bool) {
	if topic != pipeline.ModeCoefficients {
		return pipeline.Message{}, false
	}
	return pipeline.NewMessage(topic, c.Command()), true
}
