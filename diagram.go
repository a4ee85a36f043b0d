package main

import (
	"fmt"
	"image/color"
	"io"
	"math"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/font"
	"gonum.org/v1/plot/text"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
)

// Diagram colours.
var (
	wireColor    = color.Black
	gateFill     = color.RGBA{R: 0x05, G: 0x5b, B: 0xb2, A: 0xff}
	measureFill  = color.RGBA{R: 0x8c, G: 0x8c, B: 0x8c, A: 0xff}
	controlColor = color.RGBA{R: 0x05, G: 0x5b, B: 0xb2, A: 0xff}
)

// diagramLayout holds the geometry of one rendered circuit.
type diagramLayout struct {
	left, right vg.Length // x extent of the wires
	colW        vg.Length
	rowH        vg.Length
	top         vg.Length // y of qubit 0
	gateSize    vg.Length
}

func (l diagramLayout) wireY(row int) vg.Length { return l.top - vg.Length(row)*l.rowH }

func (l diagramLayout) stepX(step int) vg.Length {
	return l.left + l.colW/2 + vg.Length(step)*l.colW
}

func diagramText(size vg.Length, clr color.Color) draw.TextStyle {
	return text.Style{
		Color:   clr,
		Font:    font.From(plot.DefaultFont, size),
		XAlign:  draw.XCenter,
		YAlign:  draw.YCenter,
		Handler: plot.DefaultTextHandler,
	}
}

func rectPath(x0, y0, x1, y1 vg.Length) vg.Path {
	var p vg.Path
	p.Move(vg.Point{X: x0, Y: y0})
	p.Line(vg.Point{X: x1, Y: y0})
	p.Line(vg.Point{X: x1, Y: y1})
	p.Line(vg.Point{X: x0, Y: y1})
	p.Close()
	return p
}

func circlePath(c vg.Point, r vg.Length) vg.Path {
	var p vg.Path
	p.Move(vg.Point{X: c.X + r, Y: c.Y})
	p.Arc(c, r, 0, 2*math.Pi)
	p.Close()
	return p
}

// renderDiagram draws the circuit in the usual textbook style: one horizontal
// wire per qubit, a double classical wire below, gates placed by step.
func renderDiagram(c *Circuit, title string, size imageSize) (io.WriterTo, error) {
	w, h := size.lengths()
	img := vgimg.NewWith(vgimg.UseWH(w, h), vgimg.UseBackgroundColor(color.White))
	dc := draw.New(img)

	numQubits := max(c.NumQubits, 1)
	rows := numQubits
	if c.NumCbits > 0 {
		rows++
	}

	titleStyle := diagramText(vg.Points(13), color.Black)
	dc.FillText(titleStyle, vg.Point{X: w / 2, Y: h - vg.Points(18)}, title)

	labelW := vg.Points(48)
	margin := vg.Points(24)
	avail := w - labelW - 2*margin
	colW := min(vg.Inch, avail/vg.Length(max(c.MaxSteps, 1)))
	rowH := min(vg.Points(54), (h-vg.Points(72))/vg.Length(rows))
	gateSize := min(colW, rowH) * 0.6

	lay := diagramLayout{
		left:     margin + labelW,
		right:    w - margin,
		colW:     colW,
		rowH:     rowH,
		top:      h - vg.Points(60),
		gateSize: gateSize,
	}
	if c.MaxSteps > 0 {
		lay.right = min(lay.right, lay.left+vg.Length(c.MaxSteps)*colW+colW/2)
	}

	wire := draw.LineStyle{Color: wireColor, Width: vg.Points(1)}
	labelStyle := diagramText(vg.Points(12), color.Black)

	for q := range numQubits {
		y := lay.wireY(q)
		dc.FillText(labelStyle, vg.Point{X: margin + labelW/2, Y: y}, fmt.Sprintf("q%d", q))
		dc.StrokeLine2(wire, lay.left, y, lay.right, y)
	}

	cy := lay.wireY(numQubits)
	if c.NumCbits > 0 {
		gap := vg.Points(1.5)
		dc.FillText(labelStyle, vg.Point{X: margin + labelW/2, Y: cy}, "c")
		dc.StrokeLine2(wire, lay.left, cy+gap, lay.right, cy+gap)
		dc.StrokeLine2(wire, lay.left, cy-gap, lay.right, cy-gap)
		// register width marker
		x := lay.left + vg.Points(8)
		dc.StrokeLine2(wire, x-vg.Points(4), cy-vg.Points(5), x+vg.Points(4), cy+vg.Points(5))
		dc.FillText(diagramText(vg.Points(8), color.Black), vg.Point{X: x, Y: cy + vg.Points(10)}, fmt.Sprint(c.NumCbits))
	}

	for _, g := range c.Ordered() {
		drawGate(dc, lay, g, numQubits, cy)
	}

	return vgimg.PngCanvas{Canvas: img}, nil
}

func drawGate(dc draw.Canvas, lay diagramLayout, g Gate, numQubits int, cbitY vg.Length) {
	x := lay.stepX(g.Step)
	half := lay.gateSize / 2
	link := draw.LineStyle{Color: controlColor, Width: vg.Points(2)}

	switch g.Type {
	case "BARRIER":
		dashed := draw.LineStyle{
			Color:  color.Gray{Y: 0x80},
			Width:  vg.Points(1),
			Dashes: []vg.Length{vg.Points(3), vg.Points(3)},
		}
		dc.StrokeLine2(dashed, x, lay.wireY(0)+half, x, lay.wireY(numQubits-1)-half)

	case "MEASURE":
		y := lay.wireY(g.Target)
		gap := vg.Points(1.5)
		dc.StrokeLine2(draw.LineStyle{Color: wireColor, Width: vg.Points(1)}, x-gap, y, x-gap, cbitY+vg.Points(4))
		dc.StrokeLine2(draw.LineStyle{Color: wireColor, Width: vg.Points(1)}, x+gap, y, x+gap, cbitY+vg.Points(4))
		dc.FillPolygon(wireColor, []vg.Point{
			{X: x - vg.Points(4), Y: cbitY + vg.Points(4)},
			{X: x + vg.Points(4), Y: cbitY + vg.Points(4)},
			{X: x, Y: cbitY - vg.Points(1)},
		})
		dc.FillText(diagramText(vg.Points(8), color.Black), vg.Point{X: x + vg.Points(8), Y: cbitY - vg.Points(8)}, fmt.Sprint(g.Cbit))

		dc.SetColor(measureFill)
		dc.Fill(rectPath(x-half, y-half, x+half, y+half))
		// meter: arc and needle
		var arc vg.Path
		r := half * 0.6
		centre := vg.Point{X: x, Y: y - half*0.4}
		arc.Move(vg.Point{X: x + r, Y: centre.Y})
		arc.Arc(centre, r, 0, math.Pi)
		dc.SetLineStyle(draw.LineStyle{Color: color.White, Width: vg.Points(1.2)})
		dc.Stroke(arc)
		dc.StrokeLine2(draw.LineStyle{Color: color.White, Width: vg.Points(1.2)}, x, centre.Y, x+r*0.8, centre.Y+r*0.9)

	case "X":
		y := lay.wireY(g.Target)
		dc.SetColor(gateFill)
		dc.Fill(rectPath(x-half, y-half, x+half, y+half))
		dc.FillText(diagramText(vg.Points(13), color.White), vg.Point{X: x, Y: y}, "X")

	default:
		// controlled-X family: dots on controls, ⊕ on target
		qs := g.qubits()
		minQ, maxQ := qs[0], qs[0]
		for _, q := range qs {
			minQ, maxQ = min(minQ, q), max(maxQ, q)
		}
		dc.StrokeLine2(link, x, lay.wireY(minQ), x, lay.wireY(maxQ))

		dot := lay.gateSize * 0.15
		for _, q := range qs {
			if q == g.Target {
				continue
			}
			dc.SetColor(controlColor)
			dc.Fill(circlePath(vg.Point{X: x, Y: lay.wireY(q)}, dot))
		}

		ty := lay.wireY(g.Target)
		r := lay.gateSize * 0.35
		dc.SetColor(controlColor)
		dc.Fill(circlePath(vg.Point{X: x, Y: ty}, r))
		plus := draw.LineStyle{Color: color.White, Width: vg.Points(1.5)}
		dc.StrokeLine2(plus, x-r*0.7, ty, x+r*0.7, ty)
		dc.StrokeLine2(plus, x, ty-r*0.7, x, ty+r*0.7)
	}
}
