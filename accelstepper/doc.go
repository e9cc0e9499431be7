// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package accelstepper generates acceleration profiles for a single stepper
// motor axis.
//
// Given a target position, a maximum speed and an acceleration, a Profile
// computes one step at a time the interval until the next step pulse and the
// direction of that step. The motor accelerates, cruises and decelerates to
// stop exactly on the target without exceeding the configured limits.
//
// The ramp is computed with the recurrence described by David Austin in
// "Generate stepper-motor speed profiles in real time" (Embedded Systems
// Programming, January 2005). Equation numbers in the source refer to that
// paper.
//
// A Profile never blocks and never talks to hardware. Stepper wraps a Profile
// with a Driver that emits the physical pulses. The stepdir, tmc4361 and tic
// packages implement it.
//
// # Caller contract
//
// Profile.ComputeNewSpeed must be called exactly once per physical step. The
// ramp position is counted in steps, calling it more or less often than the
// motor steps desynchronizes the ramp from the motor.
//
// Neither Profile nor Stepper is safe for concurrent use. One axis has one
// owner.
package accelstepper
