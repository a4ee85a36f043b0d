package main

import (
	"fmt"
	"image/color"
	"io"
	"strconv"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// imageSize is the size of a rendered PNG, in inches.
type imageSize struct {
	Width  float64
	Height float64
}

func (s imageSize) lengths() (vg.Length, vg.Length) {
	return vg.Length(s.Width) * vg.Inch, vg.Length(s.Height) * vg.Inch
}

// Chart colours.
var (
	histogramColor = color.RGBA{R: 0x64, G: 0x8f, B: 0xff, A: 0xff}
	inputAColor    = color.RGBA{R: 0x1f, G: 0x77, B: 0xb4, A: 0xff} // blue
	inputBColor    = color.RGBA{R: 0xff, G: 0x7f, B: 0x0e, A: 0xff} // orange
)

// valueLabels places centred text labels just above each (x, y) point.
func valueLabels(xys plotter.XYs, labels []string) (*plotter.Labels, error) {
	lbls, err := plotter.NewLabels(plotter.XYLabels{XYs: xys, Labels: labels})
	if err != nil {
		return nil, err
	}
	for i := range lbls.TextStyle {
		lbls.TextStyle[i].XAlign = draw.XCenter
		lbls.TextStyle[i].YAlign = draw.YBottom
	}
	lbls.Offset = vg.Point{Y: vg.Points(3)}
	return lbls, nil
}

// renderHistogram draws the outcome counts as a bar chart, one bar per
// observed outcome in lexicographic order.
func renderHistogram(counts Counts, title string, size imageSize) (io.WriterTo, error) {
	if len(counts) == 0 {
		return nil, ErrEmptyCounts
	}
	keys := counts.Keys()

	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "Resultado (acarreo, suma)"
	p.Y.Label.Text = "Conteos"

	vals := make(plotter.Values, len(keys))
	xys := make(plotter.XYs, len(keys))
	labels := make([]string, len(keys))
	maxCount := 0
	for i, k := range keys {
		vals[i] = float64(counts[k])
		xys[i] = plotter.XY{X: float64(i), Y: vals[i]}
		labels[i] = strconv.Itoa(counts[k])
		maxCount = max(maxCount, counts[k])
	}

	bars, err := plotter.NewBarChart(vals, vg.Points(40))
	if err != nil {
		return nil, fmt.Errorf("bar chart: %w", err)
	}
	bars.Color = histogramColor
	bars.LineStyle.Width = 0
	p.Add(bars)

	lbls, err := valueLabels(xys, labels)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	p.Add(lbls)

	p.NominalX(keys...)
	p.Y.Min = 0
	p.Y.Max = float64(maxCount) * 1.15

	w, h := size.lengths()
	return p.WriterTo(w, h, "png")
}

// renderInputState draws the A and B input bits as two bars with guide lines
// at 0 and 1.
func renderInputState(pair InputPair, title string, size imageSize) (io.WriterTo, error) {
	p := plot.New()
	p.Title.Text = title
	p.Y.Label.Text = "Estado del Quibit"

	for i, in := range []struct {
		value int
		color color.Color
	}{
		{pair.A, inputAColor},
		{pair.B, inputBColor},
	} {
		bar, err := plotter.NewBarChart(plotter.Values{float64(in.value)}, vg.Points(60))
		if err != nil {
			return nil, fmt.Errorf("bar chart: %w", err)
		}
		bar.XMin = float64(i)
		bar.Color = in.color
		bar.LineStyle.Width = 0
		p.Add(bar)
	}

	for _, y := range []float64{0, 1} {
		guide, err := plotter.NewLine(plotter.XYs{{X: -0.5, Y: y}, {X: 1.5, Y: y}})
		if err != nil {
			return nil, fmt.Errorf("guide line: %w", err)
		}
		guide.LineStyle.Color = color.Black
		guide.LineStyle.Width = vg.Points(0.5)
		guide.LineStyle.Dashes = []vg.Length{vg.Points(4), vg.Points(3)}
		p.Add(guide)
	}

	lbls, err := valueLabels(
		plotter.XYs{{X: 0, Y: float64(pair.A) + 0.1}, {X: 1, Y: float64(pair.B) + 0.1}},
		[]string{strconv.Itoa(pair.A), strconv.Itoa(pair.B)},
	)
	if err != nil {
		return nil, fmt.Errorf("labels: %w", err)
	}
	p.Add(lbls)

	p.NominalX("A", "B")
	p.X.Min, p.X.Max = -0.5, 1.5
	p.Y.Min, p.Y.Max = -0.5, 1.5

	w, h := size.lengths()
	return p.WriterTo(w, h, "png")
}
