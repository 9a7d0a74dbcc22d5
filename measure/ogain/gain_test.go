package ogain

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"

	"github.com/cwbudde/algo-optgain/internal/testutil"
	"github.com/cwbudde/algo-optgain/pipeline"
)

var singleProbe = ProbeSpec{Segment: 1, Mode: 3, Frequency: 210}

func TestNewValidation(t *testing.T) {
	tests := []struct {
		name       string
		sampleRate float64
		modes      int
		opts       []Option
	}{
		{"zero sample rate", 0, 500, nil},
		{"zero modes", testSampleRate, 0, nil},
		{"default probes need 461 modes", testSampleRate, 460, nil},
		{"segment zero", testSampleRate, 10, []Option{WithProbes(ProbeSpec{Segment: 0, Mode: 1, Frequency: 210})}},
		{"segment eight", testSampleRate, 10, []Option{WithProbes(ProbeSpec{Segment: 8, Mode: 1, Frequency: 210})}},
		{"negative mode", testSampleRate, 10, []Option{WithProbes(ProbeSpec{Segment: 1, Mode: -1, Frequency: 210})}},
		{"mode out of segment", testSampleRate, 10, []Option{WithProbes(ProbeSpec{Segment: 7, Mode: 10, Frequency: 210})}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.sampleRate, tt.modes, tt.opts...); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestNewDefaults(t *testing.T) {
	og, err := New(testSampleRate, 500)
	if err != nil {
		t.Fatal(err)
	}
	if got := len(og.WriteModes()); got != 3500 {
		t.Fatalf("mode vector length = %d, want 3500", got)
	}
	for _, v := range og.WriteModes() {
		if v != 0 {
			t.Fatal("mode vector must start at zero")
		}
	}
	for _, p := range og.Probes() {
		if p.Amplitude() != ProbeAmplitude {
			t.Fatalf("amplitude = %v, want %v", p.Amplitude(), ProbeAmplitude)
		}
	}

	og, err = New(testSampleRate, 10, WithProbes(singleProbe), WithAmplitude(1e-6), WithAmplitude(-1))
	if err != nil {
		t.Fatal(err)
	}
	if len(og.Probes()) != 1 || og.Probes()[0].Amplitude() != 1e-6 {
		t.Fatalf("probes = %v", og.Probes())
	}
}

func TestReadWriteWithoutUpdateIsIdentity(t *testing.T) {
	og, err := New(testSampleRate, 10, WithProbes(singleProbe))
	if err != nil {
		t.Fatal(err)
	}

	v := testutil.DeterministicNoise(11, 1, 70)
	og.ReadModes(v)
	got := og.WriteModes()
	if diff := cmp.Diff(v, got); diff != "" {
		t.Fatalf("WriteModes() mismatch (-want +got):\n%s", diff)
	}

	got[0] = 42
	if og.WriteModes()[0] == 42 {
		t.Fatal("WriteModes must return a copy")
	}
	v[1] = 42
	if og.WriteModes()[1] == 42 {
		t.Fatal("ReadModes must copy its input")
	}
}

func TestShortModeVectorPanicsOnUpdate(t *testing.T) {
	og, err := New(testSampleRate, 10, WithProbes(ProbeSpec{Segment: 2, Mode: 5, Frequency: 210}))
	if err != nil {
		t.Fatal(err)
	}

	og.ReadModes(make([]float64, 4))
	if n := len(og.WriteModes()); n != 4 {
		t.Fatalf("buffer length = %d, want 4", n)
	}
	defer func() {
		if recover() == nil {
			t.Fatal("Update must panic when the mode vector is shorter than a probe id")
		}
	}()
	og.Update()
}

func TestUpdatePerturbsOnlyProbedModes(t *testing.T) {
	og, err := New(testSampleRate, 500)
	if err != nil {
		t.Fatal(err)
	}

	baseline := testutil.DeterministicNoise(5, 1e-6, 3500)
	og.ReadModes(baseline)
	og.Update()
	// sin(0) = 0: the first tick leaves the vector unchanged
	if diff := cmp.Diff(baseline, og.WriteModes()); diff != "" {
		t.Fatalf("first tick changed modes (-want +got):\n%s", diff)
	}

	og.ReadModes(baseline)
	og.Update()
	got := og.WriteModes()

	want := append([]float64(nil), baseline...)
	for _, p := range og.Probes() {
		want[p.ID()] += p.tone.At(1)
	}
	if diff := cmp.Diff(want, got, cmpopts.EquateApprox(0, 1e-22)); diff != "" {
		t.Fatalf("second tick (-want +got):\n%s", diff)
	}
	for i := range got {
		if got[i] != baseline[i] {
			continue
		}
		for _, p := range og.Probes() {
			if p.ID() == i {
				t.Fatalf("probed mode %d not perturbed", i)
			}
		}
	}
}

func TestReadResidual(t *testing.T) {
	og, err := New(testSampleRate, 500)
	if err != nil {
		t.Fatal(err)
	}

	og.Update()
	og.ReadResidual(nil)
	og.ReadResidual([]float64{})
	for _, p := range og.Probes() {
		if len(p.Filtered()) != 0 {
			t.Fatal("empty residual must be skipped")
		}
	}

	residual := testutil.DeterministicNoise(9, 1, 3500)
	og.ReadResidual(residual)
	for _, p := range og.Probes() {
		if len(p.Filtered()) != 1 || p.Filtered()[0] != residual[p.ID()] {
			t.Fatalf("S%d#%d filtered = %v, want [%v]", p.Segment(), p.Mode(), p.Filtered(), residual[p.ID()])
		}
	}
}

func TestEmptyResidualAfterWarmupMisalignsHistories(t *testing.T) {
	og, err := New(testSampleRate, 10, WithProbes(singleProbe))
	if err != nil {
		t.Fatal(err)
	}

	residuals := [][]float64{make([]float64, 70), nil, make([]float64, 70)}
	for _, r := range residuals {
		og.ReadModes(make([]float64, 70))
		og.Update()
		og.ReadResidual(r)
	}

	p := og.Probes()[0]
	if len(p.Signal()) != 3 || len(p.Filtered()) != 2 {
		t.Fatalf("signal/filtered lengths = %d/%d, want 3/2", len(p.Signal()), len(p.Filtered()))
	}
}

func TestGainsMatchProbeGains(t *testing.T) {
	og, err := New(testSampleRate, 500)
	if err != nil {
		t.Fatal(err)
	}

	scale := make(map[int]float64)
	for k, p := range og.Probes() {
		scale[p.ID()] = 0.1 * float64(k+1)
	}

	zeros := make([]float64, 3500)
	for tick := 0; tick < testTicks; tick++ {
		og.ReadModes(zeros)
		og.Update()
		residual := og.WriteModes()
		for id, g := range scale {
			residual[id] *= g
		}
		og.ReadResidual(residual)
	}

	gains := og.Gains()
	testutil.RequireFinite(t, gains)
	for k, p := range og.Probes() {
		want := 0.1 * float64(k+1)
		testutil.RequireRelClose(t, gains[k], want, 1e-9)
		testutil.RequireRelClose(t, p.Gain(), gains[k], 1e-12)
		testutil.RequireRelClose(t, og.GainFromVariance()[k], math.Sqrt2*want, 1e-6)
	}
}

func TestNodeDispatch(t *testing.T) {
	og, err := New(testSampleRate, 10, WithProbes(singleProbe))
	if err != nil {
		t.Fatal(err)
	}

	v := testutil.DC(0.5, 70)
	og.Read(pipeline.NewMessage(pipeline.ModeCoefficients, v))
	msg, ok := og.Write(pipeline.ModeCoefficients)
	if !ok || msg.Topic() != pipeline.ModeCoefficients {
		t.Fatalf("Write(ModeCoefficients) = %v, %v", msg, ok)
	}
	if diff := cmp.Diff(v, msg.Values()); diff != "" {
		t.Fatalf("published modes (-want +got):\n%s", diff)
	}
	if _, ok := og.Write(pipeline.ResidualModeCoefficients); ok {
		t.Fatal("OpticalGain does not publish residuals")
	}

	og.Read(pipeline.NewMessage(pipeline.ResidualModeCoefficients, testutil.DC(0.25, 70)))
	og.Read(pipeline.NewMessage(pipeline.ResidualModeCoefficients, nil))
	if f := og.Probes()[0].Filtered(); len(f) != 1 || f[0] != 0.25 {
		t.Fatalf("filtered = %v, want [0.25]", f)
	}
}

func TestReport(t *testing.T) {
	og, err := New(testSampleRate, 10, WithProbes(singleProbe, ProbeSpec{Segment: 7, Mode: 9, Frequency: 80}))
	if err != nil {
		t.Fatal(err)
	}

	for tick := 0; tick < testTicks; tick++ {
		og.ReadModes(make([]float64, 70))
		og.Update()
		og.ReadResidual(testutil.Scaled(og.WriteModes(), 0.5))
	}

	r := og.Report()
	if !r.Finite() {
		t.Fatalf("report not finite: %+v", r)
	}
	want := "Optical Gain:\n * S1#  3(210Hz): 0.500\n * S7#  9( 80Hz): 0.500\n"
	if got := r.String(); got != want {
		t.Fatalf("String() = %q, want %q", got, want)
	}
	if og.String() != want {
		t.Fatalf("OpticalGain.String() = %q, want %q", og.String(), want)
	}
	if db := r.Entries[0].GainDB(); math.Abs(db+6.0206) > 1e-3 {
		t.Fatalf("GainDB = %v, want about -6.02", db)
	}
	if r.Entries[1].Samples != testTicks {
		t.Fatalf("Samples = %d, want %d", r.Entries[1].Samples, testTicks)
	}

	var buf bytes.Buffer
	if err := r.WriteTable(&buf); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 || !strings.Contains(lines[0], "Gain (dB)") || !strings.Contains(lines[2], "0.5000") {
		t.Fatalf("unexpected table:\n%s", buf.String())
	}
}

func TestReportNotFiniteWithoutResiduals(t *testing.T) {
	og, err := New(testSampleRate, 10, WithProbes(singleProbe))
	if err != nil {
		t.Fatal(err)
	}
	og.Update()
	if og.Report().Finite() {
		t.Fatal("a probe without residual samples has no gain")
	}
}
