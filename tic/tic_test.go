// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tic

import (
	"context"
	"errors"
	"testing"

	"github.com/GermanBionicSystems/stepper/accelstepper"
	"periph.io/x/conn/v3/i2c"
	"periph.io/x/conn/v3/i2c/i2ctest"
	"periph.io/x/conn/v3/physic"
)

// initOps is the I/O of NewI2C with the motor at position 10 and the default
// options.
var initOps = []i2ctest.IO{
	{Addr: I2CAddr, W: []byte{0xA1, 0x22}},
	{Addr: I2CAddr, R: []byte{0x0A, 0x00, 0x00, 0x00}},
	{Addr: I2CAddr, W: []byte{0xE6, 0x00, 0xC2, 0xEB, 0x0B}},
}

func newPlayback(ops ...[]i2ctest.IO) *i2ctest.Playback {
	var all []i2ctest.IO
	for _, o := range ops {
		all = append(all, o...)
	}
	return &i2ctest.Playback{Ops: all, DontPanic: true}
}

func TestNewI2C(t *testing.T) {
	for _, test := range []struct {
		name      string
		opts      Opts
		ops       []i2ctest.IO
		expectErr error
	}{
		{
			name: "success",
			opts: DefaultOpts,
			ops:  initOps,
		},
		{
			name:      "connection failure",
			opts:      DefaultOpts,
			ops:       initOps[:1],
			expectErr: ErrConnectionFailed,
		},
		{
			name:      "no step rate",
			opts:      Opts{Addr: I2CAddr},
			expectErr: ErrInvalidSetting,
		},
		{
			name:      "step rate too high",
			opts:      Opts{Addr: I2CAddr, StepRate: 100 * physic.KiloHertz},
			expectErr: ErrInvalidSetting,
		},
	} {
		t.Run(test.name, func(t *testing.T) {
			b := newPlayback(test.ops)
			defer b.Close()

			d, err := NewI2C(b, &test.opts)
			if !errors.Is(err, test.expectErr) {
				t.Fatalf("expected error: %v, got: %v", test.expectErr, err)
			}
			if err != nil {
				return
			}
			if d.Target() != 10 {
				t.Errorf("Target() = %d, want 10", d.Target())
			}
			if err := b.Close(); err != nil {
				t.Error(err)
			}
		})
	}
}

func TestStep(t *testing.T) {
	b := newPlayback(initOps, []i2ctest.IO{
		{Addr: I2CAddr, W: []byte{0xE0, 0x0B, 0x00, 0x00, 0x00}},
		{Addr: I2CAddr, W: []byte{0xE0, 0x0A, 0x00, 0x00, 0x00}},
		{Addr: I2CAddr, W: []byte{0xE0, 0x09, 0x00, 0x00, 0x00}},
	})
	defer b.Close()

	d, err := NewI2C(b, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	for _, dir := range []accelstepper.Direction{
		accelstepper.Clockwise, accelstepper.CounterClockwise, accelstepper.CounterClockwise,
	} {
		if err := d.Step(dir); err != nil {
			t.Fatal(err)
		}
	}
	if d.Target() != 9 {
		t.Errorf("Target() = %d, want 9", d.Target())
	}
	if err := b.Close(); err != nil {
		t.Error(err)
	}
}

func TestSetPosition(t *testing.T) {
	b := newPlayback(initOps, []i2ctest.IO{
		{Addr: I2CAddr, W: []byte{0xEC, 0xFF, 0xFF, 0xFF, 0xFF}},
		{Addr: I2CAddr, W: []byte{0xE0, 0xFE, 0xFF, 0xFF, 0xFF}},
	})
	defer b.Close()

	d, err := NewI2C(b, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.SetPosition(-1); err != nil {
		t.Fatal(err)
	}
	if err := d.Step(accelstepper.CounterClockwise); err != nil {
		t.Fatal(err)
	}
	if d.Target() != -2 {
		t.Errorf("Target() = %d, want -2", d.Target())
	}
}

func TestHalt(t *testing.T) {
	b := newPlayback(initOps, []i2ctest.IO{
		{Addr: I2CAddr, W: []byte{0xE0, 0x0B, 0x00, 0x00, 0x00}},
		{Addr: I2CAddr, W: []byte{0x89}},
		{Addr: I2CAddr, W: []byte{0xA1, 0x22}},
		{Addr: I2CAddr, R: []byte{0x0A, 0x00, 0x00, 0x00}},
	})
	defer b.Close()

	d, err := NewI2C(b, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Step(accelstepper.Clockwise); err != nil {
		t.Fatal(err)
	}
	if err := d.Halt(); err != nil {
		t.Fatal(err)
	}
	if d.Target() != 10 {
		t.Errorf("Target() = %d, want 10", d.Target())
	}
}

func TestEnableDisable(t *testing.T) {
	b := newPlayback([]i2ctest.IO{
		{Addr: I2CAddr, W: []byte{0x85}},
		{Addr: I2CAddr, W: []byte{0x83}},
		{Addr: I2CAddr, W: []byte{0x8C}},
		{Addr: I2CAddr, W: []byte{0x86}},
	})
	defer b.Close()

	d := &Dev{c: &i2c.Dev{Bus: b, Addr: I2CAddr}}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	if err := d.ResetCommandTimeout(); err != nil {
		t.Fatal(err)
	}
	if err := d.Disable(); err != nil {
		t.Fatal(err)
	}
	if err := b.Close(); err != nil {
		t.Error(err)
	}
}

func TestPositionVelocity(t *testing.T) {
	b := newPlayback([]i2ctest.IO{
		{Addr: I2CAddr, W: []byte{0xA1, 0x22}},
		{Addr: I2CAddr, R: []byte{0xEE, 0xDB, 0xEA, 0x0D}},
		{Addr: I2CAddr, W: []byte{0xA1, 0x26}},
		{Addr: I2CAddr, R: []byte{0x80, 0x69, 0x67, 0xFF}},
	})
	defer b.Close()

	d := &Dev{c: &i2c.Dev{Bus: b, Addr: I2CAddr}}
	pos, err := d.Position()
	if err != nil {
		t.Fatal(err)
	}
	if pos != 0xDEADBEE {
		t.Errorf("wanted: %#x, got: %#x", 0xDEADBEE, pos)
	}
	v, err := d.Velocity()
	if err != nil {
		t.Fatal(err)
	}
	if v != -10000000 {
		t.Errorf("wanted: %d, got: %d", -10000000, v)
	}
}

func TestWithStepper(t *testing.T) {
	ops := []i2ctest.IO{{Addr: I2CAddr, W: []byte{0x85}}, {Addr: I2CAddr, W: []byte{0x83}}}
	for i := 11; i <= 15; i++ {
		ops = append(ops, i2ctest.IO{Addr: I2CAddr, W: []byte{0xE0, byte(i), 0x00, 0x00, 0x00}})
	}
	b := newPlayback(initOps, ops)
	defer b.Close()

	d, err := NewI2C(b, &DefaultOpts)
	if err != nil {
		t.Fatal(err)
	}
	if err := d.Enable(); err != nil {
		t.Fatal(err)
	}
	s, err := accelstepper.New(d, &accelstepper.Opts{MaxSpeed: 1e6, Acceleration: 1e9})
	if err != nil {
		t.Fatal(err)
	}
	if err := s.RunToNewPosition(context.Background(), 5); err != nil {
		t.Fatal(err)
	}
	if d.Target() != 15 {
		t.Errorf("Target() = %d, want 15", d.Target())
	}
	if err := b.Close(); err != nil {
		t.Error(err)
	}
}
