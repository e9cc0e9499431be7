// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package main

import (
	"errors"
	"image/png"
	"os"
	"path/filepath"
	"testing"

	"github.com/GermanBionicSystems/stepper/accelstepper"
)

func TestSimulate(t *testing.T) {
	for _, test := range []struct {
		name     string
		from, to int64
	}{
		{name: "forward", from: 0, to: 100},
		{name: "backward", from: 50, to: -50},
		{name: "offset", from: -1000, to: -990},
	} {
		t.Run(test.name, func(t *testing.T) {
			tr, err := simulate(1000, 500, test.from, test.to)
			if err != nil {
				t.Fatal(err)
			}
			steps := test.to - test.from
			if steps < 0 {
				steps = -steps
			}
			if got := int64(tr.Len()); got != steps+1 {
				t.Errorf("got %d samples, want %d", got, steps+1)
			}
			last := tr.Samples[tr.Len()-1]
			if last.CurrentPosition != test.to || last.StepInterval != 0 {
				t.Errorf("unexpected final sample %+v", last)
			}
		})
	}
}

func TestSimulateInvalid(t *testing.T) {
	if _, err := simulate(0, 500, 0, 10); !errors.Is(err, accelstepper.ErrInvalidSetting) {
		t.Errorf("expected ErrInvalidSetting, got: %v", err)
	}
	if _, err := simulate(100, -1, 0, 10); !errors.Is(err, accelstepper.ErrInvalidSetting) {
		t.Errorf("expected ErrInvalidSetting, got: %v", err)
	}
}

func TestRenderPNG(t *testing.T) {
	tr, err := simulate(1000, 500, 0, 200)
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "profile.png")
	if err := render(tr, false, path, "test"); err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(path)
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	if _, err := png.Decode(f); err != nil {
		t.Fatal(err)
	}
}
