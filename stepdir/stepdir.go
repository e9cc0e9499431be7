// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package stepdir

import (
	"errors"
	"fmt"
	"time"

	"github.com/GermanBionicSystems/stepper/accelstepper"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/gpio"
)

// Opts holds the timing and polarity of the driver.
type Opts struct {
	// PulseWidth is how long STEP is held high.
	PulseWidth time.Duration
	// DirSetup is the delay between a change of DIR and the next STEP edge.
	DirSetup time.Duration
	// InvertDir drives DIR low for clockwise steps.
	InvertDir bool
	// InvertEnable drives the enable pin low to energize the motor, as the
	// active low ENABLE input of the A4988 and DRV8825 expects.
	InvertEnable bool

	_ struct{}
}

// DefaultOpts suits the A4988 and DRV8825, with some margin.
var DefaultOpts = Opts{
	PulseWidth:   2 * time.Microsecond,
	DirSetup:     1 * time.Microsecond,
	InvertEnable: true,
}

// Dev is a handle to a STEP/DIR stepper driver.
type Dev struct {
	step   gpio.PinOut
	dir    gpio.PinOut
	enable gpio.PinOut
	opts   Opts

	dirSet  bool
	lastDir accelstepper.Direction
	sleep   func(time.Duration)
}

// New returns a driver using the step and dir pins. enable is optional.
//
// The step pin is driven low and the motor is left disabled.
func New(step, dir, enable gpio.PinOut, opts *Opts) (*Dev, error) {
	if step == nil || dir == nil {
		return nil, errors.New("stepdir: step and dir pins are required")
	}
	d := &Dev{
		step:   step,
		dir:    dir,
		enable: enable,
		opts:   *opts,
		sleep:  time.Sleep,
	}
	if err := d.step.Out(gpio.Low); err != nil {
		return nil, fmt.Errorf("stepdir: %w", err)
	}
	if err := d.Disable(); err != nil {
		return nil, err
	}
	return d, nil
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return fmt.Sprintf("StepDir{%s, %s}", d.step, d.dir)
}

// Halt de-energizes the motor.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	return d.Disable()
}

// Step emits one pulse on STEP after setting DIR.
//
// Step implements accelstepper.Driver.
func (d *Dev) Step(dir accelstepper.Direction) error {
	if !d.dirSet || dir != d.lastDir {
		level := gpio.Level(dir == accelstepper.Clockwise)
		if d.opts.InvertDir {
			level = !level
		}
		if err := d.dir.Out(level); err != nil {
			return fmt.Errorf("stepdir: dir: %w", err)
		}
		d.dirSet = true
		d.lastDir = dir
		d.sleep(d.opts.DirSetup)
	}
	if err := d.step.Out(gpio.High); err != nil {
		return fmt.Errorf("stepdir: step: %w", err)
	}
	d.sleep(d.opts.PulseWidth)
	if err := d.step.Out(gpio.Low); err != nil {
		return fmt.Errorf("stepdir: step: %w", err)
	}
	return nil
}

// Enable energizes the motor coils.
//
// It does nothing when no enable pin was provided.
func (d *Dev) Enable() error {
	return d.setEnable(true)
}

// Disable de-energizes the motor coils.
func (d *Dev) Disable() error {
	return d.setEnable(false)
}

func (d *Dev) setEnable(on bool) error {
	if d.enable == nil {
		return nil
	}
	level := gpio.Level(on)
	if d.opts.InvertEnable {
		level = !level
	}
	if err := d.enable.Out(level); err != nil {
		return fmt.Errorf("stepdir: enable: %w", err)
	}
	return nil
}

var _ conn.Resource = &Dev{}
var _ accelstepper.Driver = &Dev{}
var _ accelstepper.Enabler = &Dev{}
