// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package profileview records the steps computed by an
// accelstepper.Profile and renders them, either as a coloured strip on the
// terminal or as a PNG chart of speed and step interval.
//
// Useful to tune the maximum speed and acceleration of an axis before
// connecting the motor.
package profileview
