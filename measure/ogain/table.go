package ogain

// ProbeAmplitude is the default probe amplitude.
const ProbeAmplitude = 1e-8

// CenterSegment is the segment carrying the center probes.
const CenterSegment = 7

// ProbeSpec places a probe on a mode.
type ProbeSpec struct {
	Segment   int
	Mode      int
	Frequency float64
}

var outerProbes = [6]ProbeSpec{
	{Segment: 1, Mode: 7, Frequency: 210},
	{Segment: 3, Mode: 40, Frequency: 210},
	{Segment: 5, Mode: 105, Frequency: 210},
	{Segment: 2, Mode: 192, Frequency: 210},
	{Segment: 4, Mode: 318, Frequency: 210},
	{Segment: 6, Mode: 460, Frequency: 210},
}

var centerProbes = [4]ProbeSpec{
	{Segment: CenterSegment, Mode: 7, Frequency: 80},
	{Segment: CenterSegment, Mode: 105, Frequency: 210},
	{Segment: CenterSegment, Mode: 251, Frequency: 310},
	{Segment: CenterSegment, Mode: 401, Frequency: 133},
}

// OuterProbes returns the probes of the six outer segments, one mode each.
func OuterProbes() [6]ProbeSpec {
	return outerProbes
}

// CenterProbes returns the four probes of the center segment.
func CenterProbes() [4]ProbeSpec {
	return centerProbes
}

// DefaultProbes returns the outer probes followed by the center probes.
func DefaultProbes() []ProbeSpec {
	out := make([]ProbeSpec, 0, len(outerProbes)+len(centerProbes))
	out = append(out, outerProbes[:]...)
	return append(out, centerProbes[:]...)
}
