// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package profileview

import (
	"math"

	"github.com/GermanBionicSystems/stepper/accelstepper"
)

// Trace accumulates the snapshots of a profile.
//
// Register Observe with accelstepper.Profile.SetObserver.
type Trace struct {
	Samples []accelstepper.Snapshot
}

// Observe appends s to the trace.
func (t *Trace) Observe(s accelstepper.Snapshot) {
	t.Samples = append(t.Samples, s)
}

// Reset drops all the samples.
func (t *Trace) Reset() {
	t.Samples = t.Samples[:0]
}

// Len returns the number of samples.
func (t *Trace) Len() int {
	return len(t.Samples)
}

// PeakSpeed returns the largest absolute speed of the trace, in steps per
// second.
func (t *Trace) PeakSpeed() float64 {
	var v float64
	for _, s := range t.Samples {
		v = math.Max(v, math.Abs(s.Speed))
	}
	return v
}

// PeakInterval returns the longest step interval of the trace, in µs.
func (t *Trace) PeakInterval() float64 {
	var v float64
	for _, s := range t.Samples {
		v = math.Max(v, s.StepInterval)
	}
	return v
}

// Duration returns the time the traced move takes, in µs.
func (t *Trace) Duration() float64 {
	var v float64
	for _, s := range t.Samples {
		v += s.StepInterval
	}
	return v
}

// phase classifies a sample by the sign of its ramp step.
type phase int

const (
	stopped phase = iota
	accelerating
	cruising
	decelerating
)

func (t *Trace) phase(i int, peak float64) phase {
	s := t.Samples[i]
	switch {
	case s.StepInterval == 0:
		return stopped
	case s.RampStep < 0:
		return decelerating
	case math.Abs(s.Speed) >= peak:
		return cruising
	default:
		return accelerating
	}
}
