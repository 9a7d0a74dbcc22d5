package sim

import (
	"context"
	"fmt"

	"github.com/cwbudde/algo-optgain/dsp/control"
	"github.com/cwbudde/algo-optgain/dsp/core"
	"github.com/cwbudde/algo-optgain/internal/monitoring"
	"github.com/cwbudde/algo-optgain/measure/ogain"
	"github.com/cwbudde/algo-optgain/pipeline"
)

// LoopSpec describes a closed loop around a Plant.
type LoopSpec struct {
	Config core.LoopConfig

	// Plant.
	OpticalGain float64
	Latency     int
	Noise       float64
	Seed        int64

	// Controller.
	IntegratorGain float64

	// Estimator. Warmup is the number of residuals discarded before the
	// estimator starts collecting; it matches Latency for an aligned loop.
	Warmup         int
	ProbeAmplitude float64
	Probes         []ogain.ProbeSpec
}

// Loop is a wired integrator, optical-gain estimator, plant and warm-up gate.
//
// Per tick the integrator publishes a command, the estimator adds its
// probes, the plant produces a residual, and the residual feeds back both
// to the integrator and, through the gate, to the estimator.
type Loop struct {
	Model      *pipeline.Model
	Integrator *control.Integrator
	Gain       *ogain.OpticalGain
	Plant      *Plant
	Gate       *pipeline.DelayNode
}

// NewLoop builds and links the loop described by spec.
func NewLoop(spec LoopSpec) (*Loop, error) {
	cfg := spec.Config
	if cfg.Segments != core.DefaultSegments {
		return nil, fmt.Errorf("loop segments must be %d: %d", core.DefaultSegments, cfg.Segments)
	}

	integrator, err := control.NewIntegrator(cfg.Len(), spec.IntegratorGain)
	if err != nil {
		return nil, err
	}

	opts := []ogain.Option{ogain.WithAmplitude(spec.ProbeAmplitude)}
	if spec.Probes != nil {
		opts = append(opts, ogain.WithProbes(spec.Probes...))
	}
	gain, err := ogain.New(cfg.SampleRate, cfg.Modes, opts...)
	if err != nil {
		return nil, err
	}

	plant, err := NewPlant(gain.Config(),
		WithOpticalGain(spec.OpticalGain),
		WithLatency(spec.Latency),
		WithNoise(spec.Noise, spec.Seed),
	)
	if err != nil {
		return nil, err
	}

	gate, err := pipeline.NewDelay(pipeline.ResidualModeCoefficients, spec.Warmup)
	if err != nil {
		return nil, err
	}

	l := &Loop{
		Model:      pipeline.NewModel(),
		Integrator: integrator,
		Gain:       gain,
		Plant:      plant,
		Gate:       gate,
	}
	if err := l.wire(); err != nil {
		return nil, err
	}
	return l, nil
}

func (l *Loop) wire() error {
	nodes := []struct {
		name string
		node pipeline.Node
	}{
		{"integrator", l.Integrator},
		{"optical-gain", l.Gain},
		{"plant", l.Plant},
		{"warmup", l.Gate},
	}
	for _, n := range nodes {
		if err := l.Model.Add(n.name, n.node); err != nil {
			return err
		}
	}

	links := []struct {
		from, to pipeline.Node
		topic    pipeline.Topic
	}{
		{l.Integrator, l.Gain, pipeline.ModeCoefficients},
		{l.Gain, l.Plant, pipeline.ModeCoefficients},
		{l.Plant, l.Gate, pipeline.ResidualModeCoefficients},
		{l.Gate, l.Gain, pipeline.ResidualModeCoefficients},
		{l.Plant, l.Integrator, pipeline.ResidualModeCoefficients},
	}
	for _, k := range links {
		if err := l.Model.Link(k.from, k.to, k.topic); err != nil {
			return err
		}
	}
	return nil
}

// Run advances the loop by ticks and returns the estimator report.
func (l *Loop) Run(ctx context.Context, ticks int) (ogain.Report, error) {
	if err := l.Model.Run(ctx, ticks); err != nil {
		return ogain.Report{}, err
	}
	report := l.Gain.Report()
	if !report.Finite() {
		monitoring.Logf("sim: report has non-finite gains after %d ticks", l.Model.Ticks())
	}
	return report, nil
}
