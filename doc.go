// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stepper is a container for the stepper motor packages.
//
// accelstepper computes the acceleration ramp of an axis and moves it through
// a driver. stepdir, tmc4361 and tic are drivers. profileview renders a
// computed ramp.
package stepper
