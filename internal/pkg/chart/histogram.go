package chart

import (
	"fmt"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"

	"github.com/yigit/studentrecords/internal/pkg/marks"
)

// Size of the rendered image.
const (
	width  = 6 * vg.Inch
	height = 4 * vg.Inch
)

// WriteHistogram renders the bucketed marks as a PNG bar chart.
func WriteHistogram(w io.Writer, title string, bins []marks.Bin) error {
	if len(bins) == 0 {
		return fmt.Errorf("histogram has no bins")
	}

	counts := make(plotter.Values, len(bins))
	labels := make([]string, len(bins))
	for i, b := range bins {
		counts[i] = float64(b.Count)
		labels[i] = formatBound(b.Low)
	}

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Marks"
	p.Y.Label.Text = "Frequency"

	bars, err := plotter.NewBarChart(counts, vg.Points(24))
	if err != nil {
		return fmt.Errorf("failed to build bar chart: %w", err)
	}
	bars.LineStyle.Width = vg.Length(0)
	p.Add(bars)
	p.NominalX(labels...)

	wt, err := p.WriterTo(width, height, "png")
	if err != nil {
		return fmt.Errorf("failed to create png writer: %w", err)
	}
	if _, err := wt.WriteTo(w); err != nil {
		return fmt.Errorf("failed to write histogram: %w", err)
	}
	return nil
}

func formatBound(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
