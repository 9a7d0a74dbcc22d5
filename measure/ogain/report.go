package ogain

import (
	"fmt"
	"io"
	"math"
	"strings"
	"text/tabwriter"

	"github.com/cwbudde/algo-optgain/dsp/core"
)

// Entry is the result of one probe.
type Entry struct {
	Segment      int
	Mode         int
	Frequency    float64
	Gain         float64
	VarianceGain float64
	Samples      int
}

// GainDB returns the gain in dB.
func (e Entry) GainDB() float64 {
	return core.LinearToDB(e.Gain)
}

func (e Entry) String() string {
	return fmt.Sprintf(" * S%d#%3d(%3.0fHz): %.3f", e.Segment, e.Mode, e.Frequency, e.Gain)
}

// Report lists the gain of every probe.
type Report struct {
	Entries []Entry
}

// Finite reports whether every gain could be computed.
func (r Report) Finite() bool {
	for _, e := range r.Entries {
		if math.IsNaN(e.Gain) || math.IsInf(e.Gain, 0) {
			return false
		}
	}
	return true
}

func (r Report) String() string {
	var b strings.Builder
	b.WriteString("Optical Gain:\n")
	for _, e := range r.Entries {
		b.WriteString(e.String())
		b.WriteByte('\n')
	}
	return b.String()
}

// WriteTable writes the report as an aligned table.
func (r Report) WriteTable(w io.Writer) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "Segment\tMode\tFreq (Hz)\tGain\tGain (dB)\tVar. gain\tSamples\t")
	for _, e := range r.Entries {
		fmt.Fprintf(tw, "%d\t%d\t%.0f\t%.4f\t%.2f\t%.4f\t%d\t\n",
			e.Segment, e.Mode, e.Frequency, e.Gain, e.GainDB(), e.VarianceGain, e.Samples)
	}
	return tw.Flush()
}
