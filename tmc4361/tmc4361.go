// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmc4361

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/stepper/accelstepper"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
)

var (
	// ErrConnectionFailed is returned when the controller does not answer.
	ErrConnectionFailed = errors.New("tmc4361: failed to connect")

	// ErrInvalidSetting is returned when you provide an invalid value.
	ErrInvalidSetting = errors.New("tmc4361: invalid setting")
)

// RAMPMODE fields.
const (
	rampModePositioning uint32 = 1 << 2
	rampTypeHold        uint32 = 0
)

// maxStepRate is the highest VMAX the controller accepts.
const maxStepRate = 8 * physic.MegaHertz

// DebugF the debug function type.
type DebugF func(string, ...interface{})

// Opts holds the configuration of the controller.
type Opts struct {
	// Frequency is the SPI clock.
	Frequency physic.Frequency
	// StepRate is the speed at which the controller executes a single step.
	// It must be faster than the fastest step the host asks for.
	StepRate physic.Frequency
}

// DefaultOpts is the recommended configuration.
var DefaultOpts = Opts{
	Frequency: 1 * physic.MegaHertz,
	StepRate:  20 * physic.KiloHertz,
}

// Dev is a handle to a TMC4361A motion controller.
type Dev struct {
	c      conn.Conn
	opts   Opts
	target int32
	status byte
	debug  DebugF
}

// New returns an object that communicates with a TMC4361A over SPI.
//
// The controller is put in positioning mode without ramp, holding its
// current position.
func New(p spi.Port, opts *Opts) (*Dev, error) {
	vmax, err := stepRate(opts.StepRate)
	if err != nil {
		return nil, err
	}
	c, err := p.Connect(opts.Frequency, spi.Mode3, 8)
	if err != nil {
		return nil, fmt.Errorf("tmc4361: %w", err)
	}
	d := &Dev{c: c, opts: *opts, debug: noop}

	x, err := d.ReadRegister(XActual)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	d.target = int32(x)
	if err := d.WriteRegister(RampMode, rampModePositioning|rampTypeHold); err != nil {
		return nil, fmt.Errorf("tmc4361: %w", err)
	}
	if err := d.WriteRegister(VMax, vmax); err != nil {
		return nil, fmt.Errorf("tmc4361: %w", err)
	}
	return d, nil
}

// EnableDebug sets the debugging output using the local print function.
func (d *Dev) EnableDebug(f DebugF) {
	d.debug = f
}

// String implements conn.Resource.
func (d *Dev) String() string {
	return "TMC4361A"
}

// Halt holds the motor at its actual position.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	x, err := d.ReadRegister(XActual)
	if err != nil {
		return fmt.Errorf("tmc4361: %w", err)
	}
	if err := d.WriteRegister(XTarget, x); err != nil {
		return fmt.Errorf("tmc4361: %w", err)
	}
	d.target = int32(x)
	return nil
}

// Status returns the SPI status byte received with the last transfer.
//
// Its bits are selected with the SPIStatusSelection register.
func (d *Dev) Status() byte {
	return d.status
}

// Step moves the target position one step in the given direction.
//
// Step implements accelstepper.Driver.
func (d *Dev) Step(dir accelstepper.Direction) error {
	next := d.target - 1
	if dir == accelstepper.Clockwise {
		next = d.target + 1
	}
	if err := d.WriteRegister(XTarget, uint32(next)); err != nil {
		return fmt.Errorf("tmc4361: %w", err)
	}
	d.target = next
	return nil
}

// Target returns the last target position sent to the controller.
func (d *Dev) Target() int32 {
	return d.target
}

// Position reads the actual position of the motor, in steps.
func (d *Dev) Position() (int32, error) {
	v, err := d.ReadRegister(XActual)
	return int32(v), err
}

// SetPosition redefines the actual and target positions without moving.
func (d *Dev) SetPosition(pos int32) error {
	if err := d.WriteRegister(XActual, uint32(pos)); err != nil {
		return err
	}
	if err := d.WriteRegister(XTarget, uint32(pos)); err != nil {
		return err
	}
	d.target = pos
	return nil
}

// Velocity reads the actual velocity in steps per second. Negative is
// counter-clockwise.
func (d *Dev) Velocity() (int32, error) {
	v, err := d.ReadRegister(VActual)
	return int32(v), err
}

// stepRate converts f to the 24.8 fixed point format of VMAX.
func stepRate(f physic.Frequency) (uint32, error) {
	if f <= 0 || f > maxStepRate {
		return 0, fmt.Errorf("%w: step rate %s", ErrInvalidSetting, f)
	}
	return uint32(int64(f) * 256 / int64(physic.Hertz)), nil
}

func noop(string, ...interface{}) {}

var _ conn.Resource = &Dev{}
var _ accelstepper.Driver = &Dev{}
