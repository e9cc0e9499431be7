// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// stepsim computes the acceleration profile of a move and renders it, or
// runs the move on a real motor.
//
// Usage:
//
//	stepsim -max-speed 1000 -accel 500 -to 2000 -png profile.png
//	stepsim -to 3200 -driver gpio -step GPIO17 -dir GPIO27 -enable GPIO22
//	stepsim -to 3200 -driver tmc4361 -spi SPI0.0
//	stepsim -to 3200 -driver tic -i2c I2C1
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"

	"github.com/GermanBionicSystems/stepper/accelstepper"
	"github.com/GermanBionicSystems/stepper/profileview"
	"github.com/GermanBionicSystems/stepper/stepdir"
	"github.com/GermanBionicSystems/stepper/tic"
	"github.com/GermanBionicSystems/stepper/tmc4361"
	"periph.io/x/conn/v3/gpio"
	"periph.io/x/conn/v3/gpio/gpioreg"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"
)

// simulate runs the profile from from to to without a motor and records
// every computed step.
func simulate(maxSpeed, accel float64, from, to int64) (*profileview.Trace, error) {
	var m accelstepper.Motor
	p := accelstepper.NewProfile(&m)
	if err := p.SetMaxSpeed(maxSpeed); err != nil {
		return nil, err
	}
	if err := p.SetAcceleration(accel); err != nil {
		return nil, err
	}
	p.SetCurrentPosition(from)
	tr := &profileview.Trace{}
	p.SetObserver(tr.Observe)
	m.SetTargetPosition(to)
	if err := p.ComputeNewSpeed(); err != nil {
		return nil, err
	}
	for m.StepInterval() != 0 {
		m.Advance()
		if err := p.ComputeNewSpeed(); err != nil {
			return nil, err
		}
	}
	return tr, nil
}

func render(tr *profileview.Trace, term bool, path string, title string) error {
	if term {
		t, err := profileview.NewTerminal(&profileview.DefaultTerminalOpts)
		if err != nil {
			return err
		}
		if err := t.Render(tr); err != nil {
			return err
		}
		if err := t.Halt(); err != nil {
			return err
		}
	}
	if path == "" {
		return nil
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	opts := profileview.DefaultPlotOpts
	opts.Title = title
	if err := profileview.WritePNG(f, tr, &opts); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func pin(name string) (gpio.PinOut, error) {
	if name == "" {
		return nil, nil
	}
	p := gpioreg.ByName(name)
	if p == nil {
		return nil, fmt.Errorf("unknown pin %q", name)
	}
	return p, nil
}

// openDriver returns the driver and a function releasing it.
func openDriver(kind, step, dir, enable, spiName, i2cName string, verbose bool) (accelstepper.Driver, func() error, error) {
	if _, err := host.Init(); err != nil {
		return nil, nil, err
	}
	switch kind {
	case "gpio":
		if step == "" || dir == "" {
			return nil, nil, errors.New("-step and -dir are required")
		}
		s, err := pin(step)
		if err != nil {
			return nil, nil, err
		}
		d, err := pin(dir)
		if err != nil {
			return nil, nil, err
		}
		e, err := pin(enable)
		if err != nil {
			return nil, nil, err
		}
		dev, err := stepdir.New(s, d, e, &stepdir.DefaultOpts)
		if err != nil {
			return nil, nil, err
		}
		if err := dev.Enable(); err != nil {
			return nil, nil, err
		}
		return dev, dev.Halt, nil
	case "tmc4361":
		p, err := spireg.Open(spiName)
		if err != nil {
			return nil, nil, err
		}
		dev, err := tmc4361.New(p, &tmc4361.DefaultOpts)
		if err != nil {
			p.Close()
			return nil, nil, err
		}
		if verbose {
			dev.EnableDebug(log.Printf)
		}
		return dev, func() error {
			err := dev.Halt()
			if err2 := p.Close(); err == nil {
				err = err2
			}
			return err
		}, nil
	case "tic":
		b, err := i2creg.Open(i2cName)
		if err != nil {
			return nil, nil, err
		}
		dev, err := tic.NewI2C(b, &tic.DefaultOpts)
		if err == nil {
			err = dev.Enable()
		}
		if err != nil {
			b.Close()
			return nil, nil, err
		}
		return dev, func() error {
			err := dev.Halt()
			if err2 := dev.Disable(); err == nil {
				err = err2
			}
			if err2 := b.Close(); err == nil {
				err = err2
			}
			return err
		}, nil
	default:
		return nil, nil, fmt.Errorf("unknown driver %q", kind)
	}
}

func mainImpl() error {
	maxSpeed := flag.Float64("max-speed", accelstepper.DefaultOpts.MaxSpeed, "maximum speed in steps/s")
	accel := flag.Float64("accel", accelstepper.DefaultOpts.Acceleration, "acceleration in steps/s²")
	from := flag.Int64("from", 0, "start position in steps")
	to := flag.Int64("to", 1000, "target position in steps")
	pngPath := flag.String("png", "", "write a chart of the profile to this file")
	term := flag.Bool("term", true, "render the profile on the terminal")
	driver := flag.String("driver", "none", "none, gpio, tmc4361 or tic")
	step := flag.String("step", "", "STEP pin, with -driver gpio")
	dir := flag.String("dir", "", "DIR pin, with -driver gpio")
	enable := flag.String("enable", "", "optional ENABLE pin, with -driver gpio")
	spiName := flag.String("spi", "", "SPI port, with -driver tmc4361")
	i2cName := flag.String("i2c", "", "I²C bus, with -driver tic")
	verbose := flag.Bool("v", false, "verbose mode")
	flag.Parse()
	if flag.NArg() != 0 {
		return errors.New("unexpected argument, try -help")
	}
	if !*verbose {
		log.SetOutput(io.Discard)
	}
	log.SetFlags(log.Lmicroseconds)

	tr, err := simulate(*maxSpeed, *accel, *from, *to)
	if err != nil {
		return err
	}
	log.Printf("%d steps, peak %.1f steps/s", tr.Len(), tr.PeakSpeed())
	title := fmt.Sprintf("%d → %d, %g steps/s, %g steps/s²", *from, *to, *maxSpeed, *accel)
	if err := render(tr, *term, *pngPath, title); err != nil {
		return err
	}
	if *driver == "none" {
		return nil
	}

	drv, release, err := openDriver(*driver, *step, *dir, *enable, *spiName, *i2cName, *verbose)
	if err != nil {
		return err
	}
	s, err := accelstepper.New(drv, &accelstepper.Opts{MaxSpeed: *maxSpeed, Acceleration: *accel})
	if err != nil {
		release()
		return err
	}
	s.SetCurrentPosition(*from)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	err = s.RunToNewPosition(ctx, *to)
	if err2 := release(); err == nil {
		err = err2
	}
	log.Printf("stopped at %d", s.Motor().CurrentPosition())
	return err
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "stepsim: %s.\n", err)
		os.Exit(1)
	}
}
