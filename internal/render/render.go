// Package render draws reduced chart data as PNG images.
package render

import (
	"errors"
	"fmt"
	"io"
	"math"

	chart "github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"github.com/KaramelBytes/datalens-cli/internal/analysis"
	"github.com/KaramelBytes/datalens-cli/internal/table"
)

// ErrEmptyChart is returned when no point or slice has a value to draw.
var ErrEmptyChart = errors.New("nothing to plot: no rows with values for both axes")

// Options controls the raster size and title.
type Options struct {
	Width  int
	Height int
	Title  string
}

// DefaultOptions returns a 1024x640 canvas.
func DefaultOptions() Options {
	return Options{Width: 1024, Height: 640}
}

// PNG renders data to w.
func PNG(w io.Writer, data *analysis.ChartData, opt Options) error {
	if opt.Width <= 0 || opt.Height <= 0 {
		d := DefaultOptions()
		opt.Width, opt.Height = d.Width, d.Height
	}
	var r interface {
		Render(chart.RendererProvider, io.Writer) error
	}
	switch data.Spec.Kind {
	case analysis.Pie:
		pc, err := pieChart(data, opt)
		if err != nil {
			return err
		}
		r = pc
	case analysis.Bar:
		bc, err := barChart(data, opt)
		if err != nil {
			return err
		}
		r = bc
	case analysis.Line, analysis.Scatter:
		xy, err := xyChart(data, opt)
		if err != nil {
			return err
		}
		r = xy
	default:
		return &table.InvalidChartKindError{Kind: string(data.Spec.Kind)}
	}
	if err := r.Render(chart.PNG, w); err != nil {
		return fmt.Errorf("render %s chart: %w", data.Spec.Kind, err)
	}
	return nil
}

// pointStyle renders points only (no connecting line).
func pointStyle(col drawing.Color) chart.Style {
	return chart.Style{
		StrokeWidth: chart.Disabled,
		DotWidth:    4,
		DotColor:    col,
	}
}

func xyChart(data *analysis.ChartData, opt Options) (*chart.Chart, error) {
	xs, ys := presentPairs(data.X, data.Y)
	if len(xs) == 0 {
		return nil, ErrEmptyChart
	}
	if len(xs) == 1 {
		// series need at least two values
		xs, ys = append(xs, xs[0]), append(ys, ys[0])
	}
	style := chart.Style{StrokeColor: chart.ColorBlue, StrokeWidth: 2}
	if data.Spec.Kind == analysis.Scatter {
		style = pointStyle(chart.ColorBlue)
	}
	xAxis := chart.XAxis{Name: data.Spec.X}
	if r := paddedRange(xs); r != nil {
		xAxis.Range = r
	}
	yAxis := chart.YAxis{Name: data.Spec.Y}
	if r := paddedRange(ys); r != nil {
		yAxis.Range = r
	}
	ch := &chart.Chart{
		Title:      opt.Title,
		Width:      opt.Width,
		Height:     opt.Height,
		Background: chart.Style{Padding: chart.Box{Top: 24, Left: 16, Right: 16, Bottom: 16}},
		XAxis:      xAxis,
		YAxis:      yAxis,
		Series: []chart.Series{chart.ContinuousSeries{
			Name:    data.Spec.Y,
			XValues: xs,
			YValues: ys,
			Style:   style,
		}},
	}
	return ch, nil
}

func barChart(data *analysis.ChartData, opt Options) (*chart.BarChart, error) {
	xs, ys := presentPairs(data.X, data.Y)
	if len(xs) == 0 {
		return nil, ErrEmptyChart
	}
	bars := make([]chart.Value, len(xs))
	for i := range xs {
		bars[i] = chart.Value{Label: table.FormatFloat(xs[i]), Value: ys[i]}
	}
	// keep every bar on the canvas
	slot := opt.Width / (len(bars) + 1)
	barWidth := max(1, slot*2/3)
	return &chart.BarChart{
		Title:      opt.Title,
		Width:      opt.Width,
		Height:     opt.Height,
		BarWidth:   barWidth,
		BarSpacing: max(1, slot-barWidth),
		Background: chart.Style{Padding: chart.Box{Top: 40}},
		YAxis:      chart.YAxis{Name: data.Spec.Y},
		Bars:       bars,
	}, nil
}

func pieChart(data *analysis.ChartData, opt Options) (*chart.PieChart, error) {
	var total float64
	for _, s := range data.Slices {
		if s.Value > 0 {
			total += s.Value
		}
	}
	if total == 0 {
		return nil, ErrEmptyChart
	}
	var values []chart.Value
	for _, s := range data.Slices {
		if s.Value <= 0 {
			continue
		}
		values = append(values, chart.Value{
			Value: s.Value,
			Label: fmt.Sprintf("%s (%.1f%%)", s.Key, s.Value*100/total),
		})
	}
	return &chart.PieChart{
		Title:  opt.Title,
		Width:  opt.Width,
		Height: opt.Height,
		Values: values,
	}, nil
}

// presentPairs drops pairs where either coordinate is missing.
func presentPairs(x, y []float64) ([]float64, []float64) {
	n := min(len(x), len(y))
	xs := make([]float64, 0, n)
	ys := make([]float64, 0, n)
	for i := 0; i < n; i++ {
		if math.IsNaN(x[i]) || math.IsNaN(y[i]) {
			continue
		}
		xs = append(xs, x[i])
		ys = append(ys, y[i])
	}
	return xs, ys
}

// paddedRange returns nil (auto range) unless all values are equal;
// zero-width ranges fail to render, so a unit margin is added.
func paddedRange(vals []float64) *chart.ContinuousRange {
	lo, hi := vals[0], vals[0]
	for _, v := range vals[1:] {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}
	if lo != hi {
		return nil
	}
	return &chart.ContinuousRange{Min: lo - 1, Max: hi + 1}
}
