// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package plot

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"github.com/nfvri/star-ris-simulator/pkg/simulation"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	gonumplot "gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
)

const (
	width  = 15 * vg.Centimeter
	height = 10 * vg.Centimeter
	// minOutage floors outage values on the logarithmic axis
	minOutage = 1e-12
)

// PDF is an analytical density to overlay on a histogram
type PDF interface {
	PDF(x float64) float64
}

// Sweep renders rate, outage, spectral and energy efficiency against transmit power into dir
// and returns the written files
func Sweep(results *simulation.Results, dir string) ([]string, error) {
	if results == nil || len(results.PowerDbm) == 0 {
		return nil, errors.New(errors.Invalid, "no results to plot")
	}
	if err := os.MkdirAll(dir, os.ModePerm); err != nil {
		return nil, err
	}
	title := results.Settings
	if title == "" {
		title = results.ID
	}

	var files []string
	save := func(p *gonumplot.Plot, name string) error {
		filename := filepath.Join(dir, name)
		if err := p.Save(width, height, filename); err != nil {
			return err
		}
		files = append(files, filename)
		log.Infof("Plot saved to %s", filename)
		return nil
	}

	rate := newPlot(fmt.Sprintf("Rate (%s)", title), "Rate (bit/s/Hz)")
	var lines []interface{}
	for _, u := range results.Users {
		lines = append(lines, u.Name, xy(results.PowerDbm, u.Rate, 0))
	}
	lines = append(lines, "Sum", xy(results.PowerDbm, results.SumRate, 0))
	if err := plotutil.AddLinePoints(rate, lines...); err != nil {
		return nil, err
	}
	if err := save(rate, "rate.png"); err != nil {
		return nil, err
	}

	outage := newPlot(fmt.Sprintf("Outage (%s)", title), "Outage probability")
	outage.Y.Scale = gonumplot.LogScale{}
	outage.Y.Tick.Marker = gonumplot.LogTicks{Prec: -1}
	lines = lines[:0]
	for _, u := range results.Users {
		lines = append(lines, u.Name, xy(results.PowerDbm, u.Outage, minOutage))
	}
	if err := plotutil.AddLinePoints(outage, lines...); err != nil {
		return nil, err
	}
	if err := save(outage, "outage.png"); err != nil {
		return nil, err
	}

	se := newPlot(fmt.Sprintf("Spectral efficiency (%s)", title), "SE (bit/s/Hz)")
	if err := plotutil.AddLines(se, "SE", xy(results.PowerDbm, results.SpectralEfficiency, 0)); err != nil {
		return nil, err
	}
	if err := save(se, "se.png"); err != nil {
		return nil, err
	}

	ee := newPlot(fmt.Sprintf("Energy efficiency (%s)", title), "EE (bit/J/Hz)")
	if err := plotutil.AddLines(ee, "EE", xy(results.PowerDbm, results.EnergyEfficiency, 0)); err != nil {
		return nil, err
	}
	if err := save(ee, "ee.png"); err != nil {
		return nil, err
	}
	return files, nil
}

// Histogram renders the normalized histogram of samples, overlaid with the analytical density
// when pdf is not nil
func Histogram(samples []float64, pdf PDF, title, filename string) error {
	if len(samples) == 0 {
		return errors.New(errors.Invalid, "no samples to plot")
	}
	if err := os.MkdirAll(filepath.Dir(filename), os.ModePerm); err != nil {
		return err
	}
	p := gonumplot.New()
	p.Title.Text = title
	p.X.Label.Text = "|h|"
	p.Y.Label.Text = "Density"

	h, err := plotter.NewHist(plotter.Values(samples), 50)
	if err != nil {
		return err
	}
	h.Normalize(1)
	p.Add(h)
	p.Legend.Add("Monte-Carlo", h)

	if pdf != nil {
		f := plotter.NewFunction(pdf.PDF)
		f.Color = plotutil.Color(1)
		f.Width = vg.Points(2)
		p.Add(f)
		p.Legend.Add("Analytical", f)
	}
	if err := p.Save(width, height, filename); err != nil {
		return err
	}
	log.Infof("Histogram plot saved to %s", filename)
	return nil
}

func newPlot(title, yLabel string) *gonumplot.Plot {
	p := gonumplot.New()
	p.Title.Text = title
	p.X.Label.Text = "Transmit power (dBm)"
	p.Y.Label.Text = yLabel
	p.Add(plotter.NewGrid())
	return p
}

func xy(x, y []float64, floor float64) plotter.XYs {
	pts := make(plotter.XYs, len(x))
	for i := range x {
		pts[i].X = x[i]
		v := y[i]
		if math.IsNaN(v) || math.IsInf(v, 0) {
			v = floor
		}
		pts[i].Y = math.Max(v, floor)
	}
	return pts
}
