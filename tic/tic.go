// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tic

import (
	"errors"
	"fmt"

	"github.com/GermanBionicSystems/stepper/accelstepper"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/physic"
)

// I2CAddr is the default I²C address for the Tic.
const I2CAddr uint16 = 0x0E

// maxStepRate is the highest speed limit accepted by the Tic.
const maxStepRate = 50 * physic.KiloHertz

var (
	// ErrConnectionFailed is returned when the driver fails to connect.
	ErrConnectionFailed = errors.New("failed to connect to Tic")

	// ErrInvalidSetting is returned when you provide an invalid value.
	ErrInvalidSetting = errors.New("invalid setting")
)

// Opts holds the configuration of the controller.
type Opts struct {
	// Addr is the I²C address.
	Addr uint16
	// StepRate is the Tic's own speed limit. It must be faster than the
	// fastest step the host asks for.
	StepRate physic.Frequency
}

// DefaultOpts is the recommended configuration.
var DefaultOpts = Opts{
	Addr:     I2CAddr,
	StepRate: 20 * physic.KiloHertz,
}

// Dev is a handle to a Tic motor controller device.
type Dev struct {
	c      conn.Conn
	target int32
}

// NewI2C returns an object that communicates with a Tic motor controller over
// I²C.
//
// The target position starts at the Tic's current position. The motor stays
// de-energized until Enable is called.
func NewI2C(b i2c.Bus, opts *Opts) (*Dev, error) {
	speed, err := speedMax(opts.StepRate)
	if err != nil {
		return nil, err
	}
	d := &Dev{c: &i2c.Dev{Bus: b, Addr: opts.Addr}}

	// Test the connection by reading where the motor is.
	pos, err := d.getVar32(varCurrentPosition)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrConnectionFailed, err)
	}
	d.target = int32(pos)
	if err := d.commandW32(cmdSetSpeedMax, speed); err != nil {
		return nil, err
	}
	return d, nil
}

// String returns the device name in a readable format.
//
// String implements conn.Resource.
func (d *Dev) String() string {
	return "Tic"
}

// Halt stops the motor abruptly without respecting the deceleration limit.
//
// Halt implements conn.Resource.
func (d *Dev) Halt() error {
	if err := d.commandQuick(cmdHaltAndHold); err != nil {
		return err
	}
	pos, err := d.getVar32(varCurrentPosition)
	if err != nil {
		return err
	}
	d.target = int32(pos)
	return nil
}

// Step moves the target position one microstep in the given direction.
//
// Step implements accelstepper.Driver.
func (d *Dev) Step(dir accelstepper.Direction) error {
	next := d.target - 1
	if dir == accelstepper.Clockwise {
		next = d.target + 1
	}
	if err := d.commandW32(cmdSetTargetPosition, uint32(next)); err != nil {
		return err
	}
	d.target = next
	return nil
}

// Target returns the last target position sent to the Tic.
func (d *Dev) Target() int32 {
	return d.target
}

// Position reads the current position of the motor, in microsteps.
func (d *Dev) Position() (int32, error) {
	v, err := d.getVar32(varCurrentPosition)
	return int32(v), err
}

// Velocity reads the current velocity, in microsteps per 10000 seconds.
func (d *Dev) Velocity() (int32, error) {
	v, err := d.getVar32(varCurrentVelocity)
	return int32(v), err
}

// SetPosition stops the motor and redefines its current position.
//
// It also clears the "Position uncertain" flag.
func (d *Dev) SetPosition(pos int32) error {
	if err := d.commandW32(cmdHaltAndSetPosition, uint32(pos)); err != nil {
		return err
	}
	d.target = pos
	return nil
}

// Enable energizes the coils and exits safe start so the motor can move.
//
// Enable implements accelstepper.Enabler.
func (d *Dev) Enable() error {
	if err := d.commandQuick(cmdEnergize); err != nil {
		return err
	}
	return d.commandQuick(cmdExitSafeStart)
}

// Disable de-energizes the coils. The Tic sets its "Position uncertain" flag.
//
// Disable implements accelstepper.Enabler.
func (d *Dev) Disable() error {
	return d.commandQuick(cmdDeenergize)
}

// ResetCommandTimeout prevents the "Command timeout" error while the motor
// idles. The default timeout is 1000 ms; every step resets it too.
func (d *Dev) ResetCommandTimeout() error {
	return d.commandQuick(cmdResetCommandTimeout)
}

// speedMax converts f to microsteps per 10000 seconds.
func speedMax(f physic.Frequency) (uint32, error) {
	if f <= 0 || f > maxStepRate {
		return 0, fmt.Errorf("%w: step rate %s", ErrInvalidSetting, f)
	}
	return uint32(int64(f) * 10000 / int64(physic.Hertz)), nil
}

var _ conn.Resource = &Dev{}
var _ accelstepper.Driver = &Dev{}
var _ accelstepper.Enabler = &Dev{}
