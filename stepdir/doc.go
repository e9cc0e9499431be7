// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package stepdir drives stepper motor drivers with a STEP/DIR interface
// over GPIO.
//
// This covers most standalone drivers: A4988, DRV8825, TMC2208/TMC2209 in
// legacy mode, and motion controllers such as the TMC4361A when their STEP
// and DIR inputs are used.
//
// # Datasheets
//
// A4988: https://www.allegromicro.com/-/media/files/datasheets/a4988-datasheet.pdf
//
// DRV8825: https://www.ti.com/lit/ds/symlink/drv8825.pdf
package stepdir
