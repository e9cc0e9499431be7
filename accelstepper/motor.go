// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package accelstepper

import "time"

// Direction is the rotation direction of a step.
type Direction uint8

const (
	// CounterClockwise steps decrement the position.
	CounterClockwise Direction = 0
	// Clockwise steps increment the position.
	Clockwise Direction = 1
)

func (d Direction) String() string {
	switch d {
	case Clockwise:
		return "CW"
	case CounterClockwise:
		return "CCW"
	default:
		return "Direction(?)"
	}
}

// Motor is the kinematic state of one axis.
//
// The zero value is a motor stopped at position 0. Speed, direction and step
// interval are only written by the Profile driving the motor.
type Motor struct {
	current  int64
	target   int64
	speed    float64 // steps per second, positive is clockwise
	dir      Direction
	interval float64 // µs until the next step, 0 when stopped
}

// CurrentPosition returns the absolute position in steps.
func (m *Motor) CurrentPosition() int64 {
	return m.current
}

// TargetPosition returns the position the motor is moving to.
func (m *Motor) TargetPosition() int64 {
	return m.target
}

// SetTargetPosition sets the absolute position to move to.
//
// It does not recompute the ramp. Stepper.MoveTo does both.
func (m *Motor) SetTargetPosition(pos int64) {
	m.target = pos
}

// DistanceToGo returns the signed number of steps to the target. Positive is
// clockwise.
func (m *Motor) DistanceToGo() int64 {
	return m.target - m.current
}

// Speed returns the current speed in steps per second. The sign is the
// direction, positive is clockwise.
func (m *Motor) Speed() float64 {
	return m.speed
}

// Direction returns the direction of the next step.
func (m *Motor) Direction() Direction {
	return m.dir
}

// StepInterval returns the time in microseconds until the next step. It is 0
// when the motor is stopped.
func (m *Motor) StepInterval() float64 {
	return m.interval
}

// Interval returns StepInterval as a time.Duration.
func (m *Motor) Interval() time.Duration {
	return time.Duration(m.interval * float64(time.Microsecond))
}

// Advance records that one physical step was emitted in the current
// direction.
func (m *Motor) Advance() {
	if m.dir == Clockwise {
		m.current++
	} else {
		m.current--
	}
}
