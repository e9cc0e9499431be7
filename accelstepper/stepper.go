// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package accelstepper

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
)

// Driver emits physical step pulses.
type Driver interface {
	// Step emits one step pulse in the given direction.
	Step(dir Direction) error
}

// Enabler is implemented by drivers that can power the motor coils on and
// off.
type Enabler interface {
	Enable() error
	Disable() error
}

// Opts holds the configuration of a Stepper.
type Opts struct {
	// MaxSpeed is the cruise speed in steps per second.
	MaxSpeed float64
	// Acceleration is in steps per second².
	Acceleration float64
	// Clock times the steps. The wall clock is used when nil.
	Clock clock.Clock
}

// DefaultOpts is a conservative configuration for a 200 steps/rev motor.
var DefaultOpts = Opts{
	MaxSpeed:     1000,
	Acceleration: 500,
}

// Stepper moves a motor to target positions using a Profile and a Driver.
type Stepper struct {
	drv      Driver
	clk      clock.Clock
	motor    Motor
	profile  *Profile
	lastStep time.Time
}

// New returns a Stepper emitting its steps through drv.
func New(drv Driver, opts *Opts) (*Stepper, error) {
	if drv == nil {
		return nil, errors.New("accelstepper: driver is required")
	}
	s := &Stepper{drv: drv, clk: opts.Clock}
	if s.clk == nil {
		s.clk = clock.New()
	}
	s.profile = NewProfile(&s.motor)
	if err := s.profile.SetMaxSpeed(opts.MaxSpeed); err != nil {
		return nil, fmt.Errorf("accelstepper: %w", err)
	}
	if err := s.profile.SetAcceleration(opts.Acceleration); err != nil {
		return nil, fmt.Errorf("accelstepper: %w", err)
	}
	return s, nil
}

// Motor returns the state of the axis.
func (s *Stepper) Motor() *Motor {
	return &s.motor
}

// Profile returns the ramp generator of the axis.
func (s *Stepper) Profile() *Profile {
	return s.profile
}

// String implements conn.Resource.
func (s *Stepper) String() string {
	return fmt.Sprintf("Stepper{%v}", s.drv)
}

// Halt stops the motor immediately, without decelerating, and disables the
// driver when it supports it.
//
// Halt implements conn.Resource.
func (s *Stepper) Halt() error {
	s.profile.SetCurrentPosition(s.motor.current)
	if e, ok := s.drv.(Enabler); ok {
		return e.Disable()
	}
	return nil
}

// MoveTo sets an absolute target position and computes the first step
// towards it.
func (s *Stepper) MoveTo(pos int64) error {
	if s.motor.target == pos {
		return nil
	}
	s.motor.SetTargetPosition(pos)
	return s.profile.ComputeNewSpeed()
}

// Move sets a target position relative to the current position.
func (s *Stepper) Move(steps int64) error {
	return s.MoveTo(s.motor.current + steps)
}

// Stop moves the target to the closest position the motor can decelerate to,
// in its current direction.
func (s *Stepper) Stop() error {
	if s.motor.speed == 0 {
		return nil
	}
	steps := s.profile.stepsToStop() + 1
	if s.motor.speed > 0 {
		return s.Move(steps)
	}
	return s.Move(-steps)
}

// SetCurrentPosition redefines the current position and stops the motor.
func (s *Stepper) SetCurrentPosition(pos int64) {
	s.profile.SetCurrentPosition(pos)
}

// IsRunning reports whether the motor is moving or has somewhere to go.
func (s *Stepper) IsRunning() bool {
	return s.motor.speed != 0 || s.motor.DistanceToGo() != 0
}

// Poll emits a step if one is due and computes the next one. It never
// blocks, and must be called at least as often as the shortest step
// interval.
//
// It returns whether the motor is still running.
func (s *Stepper) Poll() (bool, error) {
	if s.motor.interval != 0 {
		now := s.clk.Now()
		if now.Sub(s.lastStep) >= s.motor.Interval() {
			if err := s.step(); err != nil {
				return true, err
			}
			s.lastStep = now
			if err := s.profile.ComputeNewSpeed(); err != nil {
				return true, err
			}
		}
	}
	return s.IsRunning(), nil
}

// RunToPosition blocks until the motor reached its target and stopped, or
// ctx is done.
func (s *Stepper) RunToPosition(ctx context.Context) error {
	for {
		if s.motor.interval == 0 {
			if s.motor.DistanceToGo() == 0 {
				return nil
			}
			// The target was set on the Motor directly.
			if err := s.profile.ComputeNewSpeed(); err != nil {
				return err
			}
			continue
		}
		t := s.clk.Timer(s.motor.Interval())
		select {
		case <-ctx.Done():
			t.Stop()
			return ctx.Err()
		case <-t.C:
		}
		if err := s.step(); err != nil {
			return err
		}
		s.lastStep = s.clk.Now()
		if err := s.profile.ComputeNewSpeed(); err != nil {
			return err
		}
	}
}

// RunToNewPosition sets a new target and blocks until it is reached.
func (s *Stepper) RunToNewPosition(ctx context.Context, pos int64) error {
	if err := s.MoveTo(pos); err != nil {
		return err
	}
	return s.RunToPosition(ctx)
}

func (s *Stepper) step() error {
	if err := s.drv.Step(s.motor.dir); err != nil {
		return fmt.Errorf("accelstepper: step %s: %w", s.motor.dir, err)
	}
	s.motor.Advance()
	return nil
}
