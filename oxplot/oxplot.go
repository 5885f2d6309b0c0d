/*
 * oxplot.go, part of oxima.
 *
 *
 * Copyright 2024 Raul Mera <rmera{at}chemDOThelsinkiDOTfi>
 *
 * This program is free software; you can redistribute it and/or modify
 * it under the terms of the GNU Lesser General Public License as
 * published by the Free Software Foundation; either version 2.1 of the
 * License, or (at your option) any later version.
 *
 * This program is distributed in the hope that it will be useful,
 * but WITHOUT ANY WARRANTY; without even the implied warranty of
 * MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
 * GNU General Public License for more details.
 *
 * You should have received a copy of the GNU Lesser General
 * Public License along with this program.  If not, see
 * <http://www.gnu.org/licenses/>.
 *
 *
 * oxima is currently developed at the Universidad de Santiago de Chile
 * (USACH)
 *
 */

//Package oxplot draws the per-site prediction summary of a pipeline run.
package oxplot

import (
	"fmt"
	"image/color"

	"github.com/rmera/oxima"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
)

//bandColor maps the confidence band of a prediction to its bar color,
//the usual traffic-light convention.
func bandColor(band string) color.RGBA {
	switch band {
	case "success":
		return color.RGBA{R: 40, G: 167, B: 69, A: 255}
	case "danger":
		return color.RGBA{R: 220, G: 53, B: 69, A: 255}
	default:
		return color.RGBA{R: 255, G: 193, B: 7, A: 255}
	}
}

//Confidence plots the winning-state probability of every metal site as
//a bar chart, one bar per site labeled "Fe1 (II)", colored by the
//confidence band, and saves it as a PNG to plotname (the .png extension
//is appended here). One series per band, zero-height everywhere else,
//so each band gets its own color and legend entry.
func Confidence(pred *oxima.PredictionBundle, title, plotname string) error {
	if len(pred.Predictions) == 0 {
		return fmt.Errorf("oxplot: nothing to plot")
	}
	p := plot.New()
	p.Title.Padding = 3 * vg.Millimeter
	p.Title.Text = title
	p.Y.Label.Text = "P(state)"
	p.Y.Min = 0
	p.Y.Max = 1
	for _, band := range []string{"success", "warning", "danger"} {
		vals := make(plotter.Values, len(pred.Predictions))
		used := false
		for i, row := range pred.Predictions {
			if row.Band == band {
				vals[i] = row.MaxProba
				used = true
			}
		}
		if !used {
			continue
		}
		bar, err := plotter.NewBarChart(vals, vg.Points(25))
		if err != nil {
			return err
		}
		bar.LineStyle.Width = 0
		bar.Color = bandColor(band)
		p.Add(bar)
		p.Legend.Add(band, bar)
	}
	p.NominalX(pred.Labels...)
	p.Legend.Top = true
	filename := fmt.Sprintf("%s.png", plotname)
	return p.Save(vg.Length(100+40*len(pred.Predictions)), 300, filename)
}
