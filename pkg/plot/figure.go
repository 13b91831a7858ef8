package plot

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/peter-kozarec/kinetics/pkg/utility/math"
	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"
)

var (
	ErrNoSeries = errors.New("nothing to plot")
)

// HistogramSeries is one density with a vertical marker at Mean.
type HistogramSeries struct {
	Name      string
	Histogram math.Histogram
	Mean      float64
	Color     drawing.Color
}

// ErrorBarSeries is a set of points with symmetric vertical error bars.
type ErrorBarSeries struct {
	Name  string
	X     []float64
	Y     []float64
	Err   []float64
	Color drawing.Color
}

// Histograms overlays filled step densities, one per series.
func Histograms(w io.Writer, title, xLabel string, series ...HistogramSeries) error {
	if len(series) == 0 {
		return ErrNoSeries
	}

	top := 0.0
	for _, s := range series {
		top = max(top, s.Histogram.Max())
	}

	graph := newChart(title, xLabel, "density")
	graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: top * 1.05}
	for _, s := range series {
		xs, ys := steps(s.Histogram)
		graph.Series = append(graph.Series,
			chart.ContinuousSeries{
				Name:    s.Name,
				XValues: xs,
				YValues: ys,
				Style: chart.Style{
					StrokeColor: s.Color,
					StrokeWidth: 1,
					FillColor:   s.Color.WithAlpha(fillAlpha),
				},
			},
			chart.ContinuousSeries{
				Name:    fmt.Sprintf("%s mean", s.Name),
				XValues: []float64{s.Mean, s.Mean},
				YValues: []float64{0, top},
				Style: chart.Style{
					StrokeColor: s.Color,
					StrokeWidth: 1.5,
				},
			})
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.SVG, w)
}

// Distribution renders a single filled density.
func Distribution(w io.Writer, title, xLabel string, h math.Histogram, color drawing.Color) error {
	if len(h.Density) == 0 {
		return ErrNoSeries
	}

	xs, ys := steps(h)
	graph := newChart(title, xLabel, "density")
	graph.YAxis.Range = &chart.ContinuousRange{Min: 0, Max: h.Max() * 1.05}
	graph.Series = []chart.Series{
		chart.ContinuousSeries{
			XValues: xs,
			YValues: ys,
			Style: chart.Style{
				StrokeColor: color,
				StrokeWidth: 1,
				FillColor:   color.WithAlpha(fillAlpha),
			},
		},
	}
	return graph.Render(chart.SVG, w)
}

// ErrorBars renders points joined by a line with a vertical bar of
// half-length Err[i] at every point.
func ErrorBars(w io.Writer, title, xLabel, yLabel string, s ErrorBarSeries) error {
	if len(s.X) < 2 || len(s.X) != len(s.Y) || len(s.X) != len(s.Err) {
		return fmt.Errorf("%w: %d x, %d y, %d errors", ErrNoSeries, len(s.X), len(s.Y), len(s.Err))
	}

	graph := newChart(title, xLabel, yLabel)
	graph.Series = append(graph.Series, chart.ContinuousSeries{
		Name:    s.Name,
		XValues: s.X,
		YValues: s.Y,
		Style: chart.Style{
			StrokeColor: s.Color,
			StrokeWidth: 1,
			DotColor:    s.Color,
			DotWidth:    3,
		},
	})
	for i := range s.X {
		graph.Series = append(graph.Series, chart.ContinuousSeries{
			XValues: []float64{s.X[i], s.X[i]},
			YValues: []float64{s.Y[i] - s.Err[i], s.Y[i] + s.Err[i]},
			Style: chart.Style{
				StrokeColor: s.Color,
				StrokeWidth: 1,
			},
		})
	}
	return graph.Render(chart.SVG, w)
}

// Save renders into path, creating its directory.
func Save(path string, render func(io.Writer) error) (err error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("plot: %w", err)
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()

	if err := render(f); err != nil {
		return fmt.Errorf("plot: rendering %s: %w", path, err)
	}
	return nil
}

func newChart(title, xLabel, yLabel string) chart.Chart {
	text := chart.Style{FontColor: NearlyBlack}
	axis := chart.Style{StrokeColor: NearlyBlack, FontColor: NearlyBlack}
	return chart.Chart{
		Title:      title,
		TitleStyle: text,
		Width:      DefaultWidth,
		Height:     DefaultHeight,
		Background: chart.Style{
			Padding: chart.Box{Top: 40, Left: 20, Right: 20, Bottom: 20},
		},
		XAxis: chart.XAxis{Name: xLabel, NameStyle: text, Style: axis},
		YAxis: chart.YAxis{Name: yLabel, NameStyle: text, Style: axis},
	}
}

// steps converts bin edges and densities into the outline of a step plot.
func steps(h math.Histogram) ([]float64, []float64) {
	n := len(h.Density)
	xs := make([]float64, 0, 2*n+2)
	ys := make([]float64, 0, 2*n+2)

	xs = append(xs, h.Edges[0])
	ys = append(ys, 0)
	for i, d := range h.Density {
		xs = append(xs, h.Edges[i], h.Edges[i+1])
		ys = append(ys, d, d)
	}
	xs = append(xs, h.Edges[n])
	ys = append(ys, 0)
	return xs, ys
}
