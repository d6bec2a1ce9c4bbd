/*
Copyright © 2018 the survival authors.
This file is part of survival.

survival is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

survival is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with survival.  If not, see <http://www.gnu.org/licenses/>.
*/

// Package figure renders survival curves and the quantities derived
// from them as 2-D line charts. It is a presentation layer only; all
// numbers come from the survival package.
package figure

import (
	"fmt"
	"image/color"
	"io"

	"github.com/GaryBoone/GoStats/stats"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"github.com/epimodel/survival"
)

// A Series is a named sequence of (time, value) pairs drawn as one line.
type Series struct {
	Name          string
	Times, Values []float64
}

var lineColors = []color.NRGBA{
	{0, 0, 0, 255},
	{127, 127, 127, 255},
	{255, 0, 0, 255},
	{0, 0, 255, 255},
}

// Lines assembles a line chart with a legend entry per series.
func Lines(title, xLabel, yLabel string, series ...Series) (*plot.Plot, error) {
	p, err := plot.New()
	if err != nil {
		return nil, err
	}
	p.Title.Text = title
	p.X.Label.Text = xLabel
	p.Y.Label.Text = yLabel
	p.Legend.Top = true
	p.Legend.ThumbnailWidth = .15 * vg.Inch
	p.Legend.Padding = 0.75 * vg.Millimeter
	for i, s := range series {
		if len(s.Times) != len(s.Values) {
			return nil, fmt.Errorf("figure: series %s has %d times but %d values",
				s.Name, len(s.Times), len(s.Values))
		}
		xys := make(plotter.XYs, len(s.Times))
		for j := range s.Times {
			xys[j].X = s.Times[j]
			xys[j].Y = s.Values[j]
		}
		l, err := plotter.NewLine(xys)
		if err != nil {
			return nil, err
		}
		l.Color = lineColors[i%len(lineColors)]
		p.Add(l)
		p.Legend.Add(s.Name, l)
	}
	return p, nil
}

// WritePNG renders p to w as a PNG image of the given dimensions.
func WritePNG(p *plot.Plot, w io.Writer, width, height vg.Length) error {
	c := vgimg.New(width, height)
	p.Draw(draw.New(c))
	png := vgimg.PngCanvas{Canvas: c}
	if _, err := png.WriteTo(w); err != nil {
		return fmt.Errorf("figure: writing PNG: %v", err)
	}
	return nil
}

// SurvivalPlot charts the survival probabilities of two curves over ts.
func SurvivalPlot(a, b survival.Curve, ts []float64) (*plot.Plot, error) {
	return Lines("Survival", "Years since start of treatment", "Proportion surviving",
		Series{Name: a.Name(), Times: ts, Values: survival.Eval(a, ts)},
		Series{Name: b.Name(), Times: ts, Values: survival.Eval(b, ts)},
	)
}

// HazardPlot charts the numerically estimated hazard rates of two
// curves over ts.
func HazardPlot(a, b survival.Curve, ts []float64, dt float64) (*plot.Plot, error) {
	return Lines("Hazard rate", "Years since start of treatment", "Proportion of survivors dying per year",
		Series{Name: a.Name(), Times: ts, Values: survival.HazardRates(a, ts, dt)},
		Series{Name: b.Name(), Times: ts, Values: survival.HazardRates(b, ts, dt)},
	)
}

// RatioPlot charts the three hazard-ratio estimators for a relative to
// b over ts. When the proportional-hazards assumption holds the three
// lines coincide in a single horizontal line. ts must start above zero:
// at t=0 the log-survival estimator is 0/0.
func RatioPlot(a, b survival.Curve, ts []float64, dt float64) (*plot.Plot, error) {
	pw := survival.PointwiseHR(a, b, ts, dt)
	p, err := Lines("Hazard ratio ("+a.Name()+" / "+b.Name()+")", "Years since start of treatment", "Hazard ratio",
		Series{Name: "pointwise", Times: ts, Values: pw},
		Series{Name: "cumulative", Times: ts, Values: survival.CumulativeHR(a, b, ts, dt)},
		Series{Name: "log survival", Times: ts, Values: survival.LogSurvivalHR(a, b, ts)},
	)
	if err != nil {
		return nil, err
	}
	p.Y.Min = 0
	p.Y.Max = stats.StatsMax(pw) * 1.5
	return p, nil
}
