// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

// Package tmc4361 interfaces with the TMC4361A motion controller via SPI.
//
// Every transfer is a 40 bit datagram: an address byte followed by a 32 bit
// big endian value. The controller answers a transfer with its SPI status
// byte and the value requested by the previous transfer, so a register read
// takes two transfers.
//
// Dev implements accelstepper.Driver by moving the target position of the
// controller one step at a time, leaving the speed profile to the host.
//
// # Datasheet
//
// https://www.analog.com/media/en/technical-documentation/data-sheets/TMC4361A_datasheet_rev1.26.pdf
package tmc4361
