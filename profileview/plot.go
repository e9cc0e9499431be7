// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package profileview

import (
	"errors"
	"fmt"
	"image"
	"io"
	"sync"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font/gofont/goregular"
)

// PlotOpts represents the options of a chart.
type PlotOpts struct {
	Width  int
	Height int
	// Title is drawn above the chart when not empty.
	Title string
	// FontSize is in points.
	FontSize float64
}

// DefaultPlotOpts is a chart readable on a laptop screen.
var DefaultPlotOpts = PlotOpts{
	Width:    800,
	Height:   400,
	FontSize: 12,
}

// margin is the space left around the chart area, in pixels.
const margin = 48

var (
	fontOnce sync.Once
	regular  *truetype.Font
	fontErr  error
)

func loadFont() (*truetype.Font, error) {
	fontOnce.Do(func() {
		regular, fontErr = truetype.Parse(goregular.TTF)
	})
	return regular, fontErr
}

// Plot draws the speed (blue, left axis) and the step interval (orange, right
// axis) of every step of tr.
func Plot(tr *Trace, opts *PlotOpts) (image.Image, error) {
	dc, err := plot(tr, opts)
	if err != nil {
		return nil, err
	}
	return dc.Image(), nil
}

// WritePNG encodes the chart of tr to w as a PNG.
func WritePNG(w io.Writer, tr *Trace, opts *PlotOpts) error {
	dc, err := plot(tr, opts)
	if err != nil {
		return err
	}
	return dc.EncodePNG(w)
}

func plot(tr *Trace, opts *PlotOpts) (*gg.Context, error) {
	if tr.Len() == 0 {
		return nil, errors.New("profileview: empty trace")
	}
	if opts.Width <= 2*margin || opts.Height <= 2*margin {
		return nil, fmt.Errorf("profileview: chart %dx%d is too small", opts.Width, opts.Height)
	}
	f, err := loadFont()
	if err != nil {
		return nil, fmt.Errorf("profileview: %w", err)
	}
	size := opts.FontSize
	if size <= 0 {
		size = DefaultPlotOpts.FontSize
	}

	dc := gg.NewContext(opts.Width, opts.Height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(truetype.NewFace(f, &truetype.Options{Size: size}))

	left, top := float64(margin), float64(margin)
	right, bottom := float64(opts.Width-margin), float64(opts.Height-margin)

	// Axes.
	dc.SetRGB(0, 0, 0)
	dc.SetLineWidth(1)
	dc.DrawLine(left, top, left, bottom)
	dc.DrawLine(left, bottom, right, bottom)
	dc.DrawLine(right, top, right, bottom)
	dc.Stroke()

	n := tr.Len()
	peakSpeed := tr.PeakSpeed()
	peakInterval := tr.PeakInterval()
	x := func(i int) float64 {
		if n == 1 {
			return left
		}
		return left + (right-left)*float64(i)/float64(n-1)
	}
	y := func(v, peak float64) float64 {
		if peak == 0 {
			return bottom
		}
		return bottom - (bottom-top)*v/peak
	}

	dc.SetRGB(0.12, 0.47, 0.71)
	dc.SetLineWidth(2)
	for i, s := range tr.Samples {
		v := s.Speed
		if v < 0 {
			v = -v
		}
		if i == 0 {
			dc.MoveTo(x(i), y(v, peakSpeed))
		} else {
			dc.LineTo(x(i), y(v, peakSpeed))
		}
	}
	dc.Stroke()

	dc.SetRGB(1, 0.5, 0.05)
	dc.SetLineWidth(1)
	for i, s := range tr.Samples {
		if i == 0 {
			dc.MoveTo(x(i), y(s.StepInterval, peakInterval))
		} else {
			dc.LineTo(x(i), y(s.StepInterval, peakInterval))
		}
	}
	dc.Stroke()

	// Labels.
	dc.SetRGB(0, 0, 0)
	dc.DrawStringAnchored("0", left, bottom+4, 0.5, 1)
	dc.DrawStringAnchored(fmt.Sprintf("%d steps", n), right, bottom+4, 1, 1)
	dc.SetRGB(0.12, 0.47, 0.71)
	dc.DrawStringAnchored(fmt.Sprintf("%.0f/s", peakSpeed), left-4, top, 1, 0.5)
	dc.SetRGB(1, 0.5, 0.05)
	dc.DrawStringAnchored(fmt.Sprintf("%.0fµs", peakInterval), right+4, top, 0, 0.5)
	if opts.Title != "" {
		dc.SetRGB(0, 0, 0)
		dc.DrawStringAnchored(opts.Title, float64(opts.Width)/2, top/2, 0.5, 0.5)
	}
	return dc, nil
}
