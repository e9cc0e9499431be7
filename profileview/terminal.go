// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package profileview

import (
	"bytes"
	"errors"
	"fmt"
	"image"
	"image/color"
	"io"
	"math"

	"github.com/maruel/ansi256"
	"github.com/mattn/go-colorable"
	"periph.io/x/conn/v3/display"
)

// TerminalOpts represents the options of the terminal strip.
type TerminalOpts struct {
	// Width is the number of character cells of the strip.
	Width   int
	Palette *ansi256.Palette

	_ struct{}
}

// DefaultTerminalOpts fits a 80 columns console.
var DefaultTerminalOpts = TerminalOpts{Width: 72}

// Terminal renders a trace as a single line of coloured blocks on the
// console.
//
// Each cell covers an equal share of the steps. Its hue tells the phase of
// the ramp, green accelerating, yellow cruising and red decelerating, and its
// brightness the speed.
type Terminal struct {
	w       io.Writer
	l       int
	palette ansi256.Palette

	pixels []color.NRGBA
	buf    bytes.Buffer
}

// NewTerminal returns a Terminal that displays at the console.
func NewTerminal(opts *TerminalOpts) (*Terminal, error) {
	return newTerminal(colorable.NewColorableStdout(), opts)
}

func newTerminal(w io.Writer, opts *TerminalOpts) (*Terminal, error) {
	if opts.Width <= 0 {
		return nil, errors.New("profileview: width must be positive")
	}
	p := opts.Palette
	if p == nil {
		p = ansi256.Default
	}
	return &Terminal{
		w:       w,
		l:       opts.Width,
		palette: *p,
		pixels:  make([]color.NRGBA, opts.Width),
	}, nil
}

func (t *Terminal) String() string {
	return "Terminal"
}

// Halt implements conn.Resource.
//
// It resets the console colours.
func (t *Terminal) Halt() error {
	_, err := t.w.Write([]byte("\n\033[0m"))
	return err
}

// Render draws tr on one line, followed by a summary of the move.
func (t *Terminal) Render(tr *Trace) error {
	if tr.Len() == 0 {
		return errors.New("profileview: empty trace")
	}
	if err := t.Draw(t.Bounds(), stripImage(tr, t.l), image.Point{}); err != nil {
		return err
	}
	_, err := fmt.Fprintf(t.w, "%d steps, peak %.1f steps/s, %.3fs\n", tr.Len(), tr.PeakSpeed(), tr.Duration()/1e6)
	return err
}

// ColorModel implements display.Drawer.
func (t *Terminal) ColorModel() color.Model {
	return color.NRGBAModel
}

// Bounds implements display.Drawer.
func (t *Terminal) Bounds() image.Rectangle {
	return image.Rectangle{Max: image.Point{X: t.l, Y: 1}}
}

// Draw implements display.Drawer.
//
// Only the first row of src is used.
func (t *Terminal) Draw(r image.Rectangle, src image.Image, sp image.Point) error {
	r = r.Intersect(t.Bounds())
	srcR := src.Bounds()
	srcR.Min = srcR.Min.Add(sp)
	if dX := r.Dx(); dX < srcR.Dx() {
		srcR.Max.X = srcR.Min.X + dX
	}
	deltaX := r.Min.X - srcR.Min.X
	for sX := srcR.Min.X; sX < srcR.Max.X; sX++ {
		t.pixels[sX+deltaX] = color.NRGBAModel.Convert(src.At(sX, srcR.Min.Y)).(color.NRGBA)
	}
	return t.refresh()
}

func (t *Terminal) refresh() error {
	t.buf.Reset()
	_, _ = t.buf.WriteString("\r\033[0m")
	for _, c := range t.pixels {
		_, _ = io.WriteString(&t.buf, t.palette.Block(c))
	}
	_, _ = t.buf.WriteString("\033[0m ")
	_, err := t.buf.WriteTo(t.w)
	return err
}

// stripImage resamples tr to a width×1 image. Each pixel shows the fastest
// sample of its bucket.
func stripImage(tr *Trace, width int) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, 1))
	peak := tr.PeakSpeed()
	n := tr.Len()
	for x := 0; x < width; x++ {
		lo := x * n / width
		hi := (x + 1) * n / width
		if hi <= lo {
			hi = lo + 1
		}
		best := lo
		for i := lo + 1; i < hi; i++ {
			if math.Abs(tr.Samples[i].Speed) > math.Abs(tr.Samples[best].Speed) {
				best = i
			}
		}
		img.SetNRGBA(x, 0, phaseColor(tr.phase(best, peak), math.Abs(tr.Samples[best].Speed), peak))
	}
	return img
}

func phaseColor(p phase, speed, peak float64) color.NRGBA {
	if p == stopped || peak == 0 {
		return color.NRGBA{A: 255}
	}
	// Keep slow steps visible.
	l := uint8(64 + 191*speed/peak)
	switch p {
	case accelerating:
		return color.NRGBA{G: l, A: 255}
	case cruising:
		return color.NRGBA{R: l, G: l, A: 255}
	default:
		return color.NRGBA{R: l, A: 255}
	}
}

var _ display.Drawer = &Terminal{}
var _ fmt.Stringer = &Terminal{}
