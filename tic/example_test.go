// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tic_test

import (
	"context"
	"log"

	"github.com/GermanBionicSystems/stepper/accelstepper"
	"github.com/GermanBionicSystems/stepper/tic"
	"periph.io/x/conn/v3/i2c/i2creg"
	"periph.io/x/host/v3"
)

func Example() {
	// Make sure periph is initialized.
	if _, err := host.Init(); err != nil {
		log.Fatal(err)
	}

	// Open default I²C bus.
	bus, err := i2creg.Open("")
	if err != nil {
		log.Fatalf("failed to open I²C: %v", err)
	}
	defer bus.Close()

	dev, err := tic.NewI2C(bus, &tic.DefaultOpts)
	if err != nil {
		log.Fatal(err)
	}
	defer dev.Halt()

	// The "Exit safe start" command is required before the motor can move.
	if err := dev.Enable(); err != nil {
		log.Fatalf("failed to enable: %v", err)
	}

	s, err := accelstepper.New(dev, &accelstepper.Opts{MaxSpeed: 2000, Acceleration: 4000})
	if err != nil {
		log.Fatal(err)
	}
	if err := s.RunToNewPosition(context.Background(), 1000); err != nil {
		log.Fatal(err)
	}
}
