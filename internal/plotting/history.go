// Package plotting renders probe histories as PNG images.
package plotting

import (
	"fmt"
	"image/color"
	"os"
	"path/filepath"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/cwbudde/algo-optgain/measure/ogain"
)

var (
	injectedColor = color.RGBA{R: 31, G: 119, B: 180, A: 255}
	filteredColor = color.RGBA{R: 214, G: 39, B: 40, A: 255}
)

// HistoryFile returns the file name used for a probe's history plot.
func HistoryFile(p *ogain.Probe) string {
	return fmt.Sprintf("probe_S%d_%03d.png", p.Segment(), p.Mode())
}

// WriteHistory plots the injected and filtered histories of p to path.
func WriteHistory(path string, p *ogain.Probe) error {
	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("S%d#%d - %.0f Hz probe", p.Segment(), p.Mode(), p.Frequency())
	pl.X.Label.Text = "Tick"
	pl.Y.Label.Text = "Coefficient"

	series := []struct {
		label string
		data  []float64
		color color.Color
	}{
		{"injected", p.Signal(), injectedColor},
		{"filtered", p.Filtered(), filteredColor},
	}
	for _, s := range series {
		if len(s.data) == 0 {
			continue
		}
		pts := make(plotter.XYs, len(s.data))
		for i, v := range s.data {
			pts[i] = plotter.XY{X: float64(i), Y: v}
		}
		line, err := plotter.NewLine(pts)
		if err != nil {
			return fmt.Errorf("plot %s history: %w", s.label, err)
		}
		line.Color = s.color
		line.Width = vg.Points(1)
		pl.Add(line)
		pl.Legend.Add(s.label, line)
	}

	pl.Legend.Top = true
	pl.Legend.Left = false
	pl.Legend.XOffs = -10
	pl.Legend.YOffs = -10

	return pl.Save(14*vg.Inch, 6*vg.Inch, path)
}

// WriteHistories writes one history plot per probe into dir and returns the
// written paths.
func WriteHistories(dir string, probes []*ogain.Probe) ([]string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create plot dir: %w", err)
	}
	paths := make([]string, 0, len(probes))
	for _, p := range probes {
		path := filepath.Join(dir, HistoryFile(p))
		if err := WriteHistory(path, p); err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}
