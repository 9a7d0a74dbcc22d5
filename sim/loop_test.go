package sim

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-optgain/dsp/core"
	"github.com/cwbudde/algo-optgain/internal/monitoring"
	"github.com/cwbudde/algo-optgain/internal/testutil"
	"github.com/cwbudde/algo-optgain/measure/ogain"
)

func loopConfig() core.LoopConfig {
	return core.ApplyLoopOptions(core.WithModes(461))
}

func TestNewLoopValidation(t *testing.T) {
	cfg := core.ApplyLoopOptions(core.WithModes(461), core.WithSegments(3))
	_, err := NewLoop(LoopSpec{Config: cfg, OpticalGain: 1})
	require.Error(t, err)

	_, err = NewLoop(LoopSpec{Config: loopConfig(), Warmup: -1})
	require.Error(t, err)

	_, err = NewLoop(LoopSpec{Config: core.ApplyLoopOptions(core.WithModes(100))})
	require.Error(t, err, "default probes address modes beyond 100")
}

func TestLoopRecoversOpticalGain(t *testing.T) {
	defer monitoring.Mute()()

	cases := []struct {
		name       string
		gain       float64
		integrator float64
		latency    int
	}{
		{name: "open loop", gain: 0.5, integrator: 0, latency: 2},
		{name: "closed loop", gain: 0.5, integrator: 0.2, latency: 2},
		{name: "no latency", gain: 0.8, integrator: 0.1, latency: 0},
		{name: "unit gain", gain: 1, integrator: 0.1, latency: 1},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			l, err := NewLoop(LoopSpec{
				Config:         loopConfig(),
				OpticalGain:    tc.gain,
				Latency:        tc.latency,
				Warmup:         tc.latency,
				IntegratorGain: tc.integrator,
			})
			require.NoError(t, err)

			report, err := l.Run(context.Background(), 1000)
			require.NoError(t, err)
			require.True(t, report.Finite())
			require.Len(t, report.Entries, len(ogain.DefaultProbes()))
			for _, e := range report.Entries {
				testutil.RequireRelClose(t, e.Gain, tc.gain, 1e-6)
				require.Equal(t, 1000-tc.latency-1, e.Samples)
			}
		})
	}
}

func TestLoopWithNoise(t *testing.T) {
	defer monitoring.Mute()()

	l, err := NewLoop(LoopSpec{
		Config:         loopConfig(),
		OpticalGain:    0.6,
		Latency:        2,
		Warmup:         2,
		Noise:          1e-10,
		Seed:           7,
		IntegratorGain: 0.1,
	})
	require.NoError(t, err)

	report, err := l.Run(context.Background(), 2000)
	require.NoError(t, err)
	for _, e := range report.Entries {
		testutil.RequireRelClose(t, e.Gain, 0.6, 0.02)
	}
}

func TestLoopRunCancelled(t *testing.T) {
	defer monitoring.Mute()()

	l, err := NewLoop(LoopSpec{Config: loopConfig(), OpticalGain: 1})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = l.Run(ctx, 10)
	require.ErrorIs(t, err, context.Canceled)
	require.Zero(t, l.Model.Ticks())
}
