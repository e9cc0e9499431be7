// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tic

import (
	"encoding/binary"
)

// variable is the offset of a Tic variable. See the "Variable reference"
// section of the Tic user's guide.
type variable uint8

const (
	varCurrentPosition variable = 0x22 // int32
	varCurrentVelocity variable = 0x26 // int32
)

// command is a Tic command code. See the "Command reference" section of the
// Tic user's guide.
type command uint8

const (
	cmdSetTargetPosition   command = 0xE0
	cmdHaltAndSetPosition  command = 0xEC
	cmdHaltAndHold         command = 0x89
	cmdResetCommandTimeout command = 0x8C
	cmdDeenergize          command = 0x86
	cmdEnergize            command = 0x85
	cmdExitSafeStart       command = 0x83
	cmdSetSpeedMax         command = 0xE6
	cmdGetVariable         command = 0xA1
)

// getVar32 reads a 32 bit variable.
func (d *Dev) getVar32(v variable) (uint32, error) {
	if err := d.c.Tx([]byte{byte(cmdGetVariable), byte(v)}, nil); err != nil {
		return 0, err
	}
	var r [4]byte
	if err := d.c.Tx(nil, r[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(r[:]), nil
}

// commandQuick sends a command without data.
func (d *Dev) commandQuick(cmd command) error {
	return d.c.Tx([]byte{byte(cmd)}, nil)
}

// commandW32 sends a command with a little endian 32 bit value.
func (d *Dev) commandW32(cmd command, val uint32) error {
	var w [5]byte
	w[0] = byte(cmd)
	binary.LittleEndian.PutUint32(w[1:], val)
	return d.c.Tx(w[:], nil)
}
