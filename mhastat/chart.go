// Copyright 2026 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mhastat

import (
	"fmt"
	"image/color"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/pingcap/errors"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"
	"gonum.org/v1/plot/vg/vgpdf"
	"gonum.org/v1/plot/vg/vgsvg"
)

const (
	chartWidth  = 16 * vg.Inch
	chartHeight = 10 * vg.Inch
	chartDPI    = 300

	// barFrac is the width of one bar as a fraction of the distance
	// between configurations.
	barFrac = 0.35
	// Every labelEvery'th configuration gets value labels, and only
	// when one of its bars exceeds labelMin TFLOPS.
	labelEvery = 3
	labelMin   = 100
)

var (
	color1 = color.NRGBA{0x1f, 0x77, 0xb4, 0xcc}
	color2 = color.NRGBA{0xff, 0x7f, 0x0e, 0xcc}
)

// Chart draws c as a grouped bar chart of throughput per
// configuration and writes it to path. The image format follows the
// extension of path: .png, .svg or .pdf.
func Chart(c *Comparison, path string) error {
	if len(c.Pairs) == 0 {
		return errors.Errorf("no common configurations between %s and %s", c.Label1, c.Label2)
	}
	newCanvas, ok := canvases[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return errors.Errorf("unsupported chart format %q (want .png, .svg or .pdf)", filepath.Ext(path))
	}

	pl, err := newChart(c)
	if err != nil {
		return err
	}
	can := newCanvas(chartWidth, chartHeight)
	pl.Draw(draw.New(can))

	f, err := os.Create(path)
	if err != nil {
		return errors.Trace(err)
	}
	if _, err := can.WriteTo(f); err != nil {
		f.Close()
		return errors.Annotatef(err, "write %s", path)
	}
	return errors.Trace(f.Close())
}

var canvases = map[string]func(w, h vg.Length) vg.CanvasWriterTo{
	".png": func(w, h vg.Length) vg.CanvasWriterTo {
		return vgimg.PngCanvas{Canvas: vgimg.NewWith(vgimg.UseWH(w, h),
			vgimg.UseDPI(chartDPI), vgimg.UseBackgroundColor(color.White))}
	},
	".svg": func(w, h vg.Length) vg.CanvasWriterTo { return vgsvg.New(w, h) },
	".pdf": func(w, h vg.Length) vg.CanvasWriterTo { return vgpdf.New(w, h) },
}

func newChart(c *Comparison) (*plot.Plot, error) {
	n := len(c.Pairs)
	v1 := make(plotter.Values, n)
	v2 := make(plotter.Values, n)
	names := make([]string, n)
	for i, p := range c.Pairs {
		v1[i], v2[i] = p.A.TFLOPS, p.B.TFLOPS
		names[i] = strconv.Itoa(p.Index)
	}

	pl := plot.New()
	pl.Title.Text = fmt.Sprintf("MHA Performance Comparison: %s vs %s", c.Label1, c.Label2)
	pl.Title.TextStyle.Font.Size = 14
	pl.X.Label.Text = "Configuration Index"
	pl.Y.Label.Text = "TFLOPS"
	pl.X.Label.TextStyle.Font.Size = 12
	pl.Y.Label.TextStyle.Font.Size = 12

	grid := plotter.NewGrid()
	grid.Vertical.Color = nil
	grid.Horizontal.Color = color.Gray{0xb3}
	grid.Horizontal.Dashes = []vg.Length{vg.Points(3), vg.Points(3)}
	pl.Add(grid)

	// Leave room for the axes when converting the data spacing of one
	// configuration into a physical bar width.
	w := vg.Length(barFrac) * chartWidth * 0.9 / vg.Length(n)

	b1, err := plotter.NewBarChart(v1, w)
	if err != nil {
		return nil, errors.Annotatef(err, "bars for %s", c.Label1)
	}
	b1.Color = color1
	b1.LineStyle.Width = 0
	b1.Offset = -w / 2

	b2, err := plotter.NewBarChart(v2, w)
	if err != nil {
		return nil, errors.Annotatef(err, "bars for %s", c.Label2)
	}
	b2.Color = color2
	b2.LineStyle.Width = 0
	b2.Offset = w / 2

	pl.Add(b1, b2)
	pl.Legend.Add(c.Label1, b1)
	pl.Legend.Add(c.Label2, b2)
	pl.Legend.Top = true

	l1, l2, err := valueLabels(v1, v2, w)
	if err != nil {
		return nil, err
	}
	if l1 != nil {
		pl.Add(l1, l2)
	}

	pl.NominalX(names...)
	pl.X.Tick.Label.Rotation = math.Pi / 4
	pl.X.Tick.Label.XAlign = draw.XRight
	pl.X.Tick.Label.YAlign = draw.YCenter
	pl.Y.Min = 0
	return pl, nil
}

// valueLabels returns the labels drawn above selected bars, or nil
// labels if no configuration qualifies.
func valueLabels(v1, v2 plotter.Values, w vg.Length) (*plotter.Labels, *plotter.Labels, error) {
	var xy1, xy2 plotter.XYLabels
	for i := 0; i < len(v1); i += labelEvery {
		if v1[i] <= labelMin && v2[i] <= labelMin {
			continue
		}
		xy1.XYs = append(xy1.XYs, plotter.XY{X: float64(i), Y: v1[i]})
		xy1.Labels = append(xy1.Labels, fmt.Sprintf("%.0f", v1[i]))
		xy2.XYs = append(xy2.XYs, plotter.XY{X: float64(i), Y: v2[i]})
		xy2.Labels = append(xy2.Labels, fmt.Sprintf("%.0f", v2[i]))
	}
	if len(xy1.XYs) == 0 {
		return nil, nil, nil
	}
	l1, err := plotter.NewLabels(xy1)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	l2, err := plotter.NewLabels(xy2)
	if err != nil {
		return nil, nil, errors.Trace(err)
	}
	for _, l := range []*plotter.Labels{l1, l2} {
		for i := range l.TextStyle {
			l.TextStyle[i].Rotation = math.Pi / 2
			l.TextStyle[i].Font.Size = 7
			l.TextStyle[i].XAlign = draw.XLeft
			l.TextStyle[i].YAlign = draw.YCenter
		}
	}
	l1.Offset.X = -w / 2
	l2.Offset.X = w / 2
	return l1, l2, nil
}
