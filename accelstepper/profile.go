// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package accelstepper

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrInvalidSetting is returned when a speed or an acceleration is not a
	// strictly positive finite number.
	ErrInvalidSetting = errors.New("invalid setting")

	// ErrNoAcceleration is returned when a step is computed before the
	// acceleration was configured.
	ErrNoAcceleration = errors.New("acceleration not configured")
)

const (
	// usPerSecond converts steps per second to microseconds per step.
	usPerSecond = 1000000.0

	// c0Correction fixes the error of Equation 7 on the first step
	// (Equation 15).
	c0Correction = 0.676
)

// Snapshot is the state of a Profile and its Motor after a step computation.
type Snapshot struct {
	Direction       Direction
	CurrentPosition int64
	TargetPosition  int64
	DistanceToGo    int64
	RampStep        int64   // n: >0 accelerating, <0 decelerating, 0 at rest
	Speed           float64 // steps per second
	StepInterval    float64 // µs
}

// Profile computes the acceleration ramp of one Motor.
type Profile struct {
	m *Motor

	maxSpeed float64 // steps per second
	accel    float64 // steps per second², 0 until configured

	// n is the logical step number on the current ramp. It is not the physical
	// step count.
	n int64
	// c0 is the interval of the first step of a ramp, in µs.
	c0 float64
	// cn is the interval of the last computed step, in µs.
	cn float64
	// cmin is the interval at maxSpeed, in µs.
	cmin float64

	observer func(Snapshot)
}

// NewProfile returns a Profile driving m.
//
// The maximum speed defaults to 1 step per second. SetAcceleration must be
// called before the first step is computed.
func NewProfile(m *Motor) *Profile {
	return &Profile{
		m:        m,
		maxSpeed: 1,
		cmin:     usPerSecond,
	}
}

// Motor returns the motor driven by the profile.
func (p *Profile) Motor() *Motor {
	return p.m
}

// MaxSpeed returns the cruise speed cap in steps per second.
func (p *Profile) MaxSpeed() float64 {
	return p.maxSpeed
}

// Acceleration returns the configured acceleration in steps per second², or
// 0 if not configured yet.
func (p *Profile) Acceleration() float64 {
	return p.accel
}

// RampStep returns the logical step number on the current ramp.
func (p *Profile) RampStep() int64 {
	return p.n
}

// SetObserver registers f to be called after each step computation. Pass nil
// to remove it.
func (p *Profile) SetObserver(f func(Snapshot)) {
	p.observer = f
}

// Snapshot returns the current state.
func (p *Profile) Snapshot() Snapshot {
	return Snapshot{
		Direction:       p.m.dir,
		CurrentPosition: p.m.current,
		TargetPosition:  p.m.target,
		DistanceToGo:    p.m.DistanceToGo(),
		RampStep:        p.n,
		Speed:           p.m.speed,
		StepInterval:    p.m.interval,
	}
}

// SetMaxSpeed sets the cruise speed in steps per second.
//
// When the motor is accelerating or cruising, the ramp position is derived
// again from the current speed and the next step is recomputed so the new cap
// applies immediately.
func (p *Profile) SetMaxSpeed(speed float64) error {
	if !isMagnitude(speed) {
		return fmt.Errorf("%w: max speed %v", ErrInvalidSetting, speed)
	}
	if p.maxSpeed == speed {
		return nil
	}
	if p.n > 0 && p.accel == 0 {
		return ErrNoAcceleration
	}
	p.maxSpeed = speed
	p.cmin = usPerSecond / speed
	if p.n > 0 {
		p.n = p.stepsToStop() // Equation 16
		return p.ComputeNewSpeed()
	}
	return nil
}

// SetAcceleration sets the acceleration and deceleration in steps per
// second², then recomputes the next step.
//
// A ramp in progress is rescaled to continue under the new acceleration.
// Setting the current value again does nothing.
func (p *Profile) SetAcceleration(accel float64) error {
	if !isMagnitude(accel) {
		return fmt.Errorf("%w: acceleration %v", ErrInvalidSetting, accel)
	}
	if p.accel == accel {
		return nil
	}
	// Equation 17.
	p.n = int64(float64(p.n) * (p.accel / accel))
	// Equations 7 and 15.
	p.c0 = c0Correction * math.Sqrt(2.0/accel) * usPerSecond
	p.accel = accel
	return p.ComputeNewSpeed()
}

// ComputeNewSpeed computes the interval and direction of the next step.
//
// The result is written to the Motor. A zero interval means the motor has
// arrived and is stopped.
func (p *Profile) ComputeNewSpeed() error {
	if p.accel == 0 {
		return ErrNoAcceleration
	}
	m := p.m
	distance := m.DistanceToGo()
	stepsToStop := p.stepsToStop()

	if distance == 0 && stepsToStop <= 1 {
		m.interval = 0
		m.speed = 0
		p.n = 0
		p.notify()
		return nil
	}

	switch {
	case distance > 0:
		// The target is clockwise.
		if p.n > 0 {
			// Too close to the target, or going the wrong way.
			if stepsToStop >= distance || m.dir == CounterClockwise {
				p.n = -stepsToStop
			}
		} else if p.n < 0 {
			if stepsToStop < distance && m.dir == Clockwise {
				p.n = -p.n
			}
		}
	case distance < 0:
		// The target is counter-clockwise.
		if p.n > 0 {
			if stepsToStop >= -distance || m.dir == Clockwise {
				p.n = -stepsToStop
			}
		} else if p.n < 0 {
			if stepsToStop < -distance && m.dir == CounterClockwise {
				p.n = -p.n
			}
		}
	}

	if p.n == 0 {
		// First step of a ramp from rest.
		p.cn = math.Max(p.c0, p.cmin)
		if distance > 0 {
			m.dir = Clockwise
		} else {
			m.dir = CounterClockwise
		}
	} else {
		// n is negative while decelerating, the same formula applies.
		p.cn -= (2.0 * p.cn) / (4.0*float64(p.n) + 1.0) // Equation 13
		p.cn = math.Max(p.cn, p.cmin)
	}
	p.n++

	m.interval = p.cn
	m.speed = usPerSecond / p.cn
	if m.dir == CounterClockwise {
		m.speed = -m.speed
	}
	p.notify()
	return nil
}

// SetCurrentPosition redefines the current position of the motor and stops
// it without decelerating.
//
// The target is set to the same position. This is meant for homing and
// initialization, not for motion.
func (p *Profile) SetCurrentPosition(pos int64) {
	p.m.current = pos
	p.m.target = pos
	p.n = 0
	p.m.interval = 0
	p.m.speed = 0
}

// stepsToStop returns the number of steps needed to decelerate to rest from
// the current speed.
func (p *Profile) stepsToStop() int64 {
	return int64((p.m.speed * p.m.speed) / (2.0 * p.accel))
}

func (p *Profile) notify() {
	if p.observer != nil {
		p.observer(p.Snapshot())
	}
}

func isMagnitude(v float64) bool {
	return v > 0 && !math.IsInf(v, 1)
}
