// Copyright 2026 The Periph Authors. All rights reserved.
// Use of this source code is governed under the Apache License, Version 2.0
// that can be found in the LICENSE file.

package tmc4361

import (
	"encoding/binary"
)

const (
	// WriteMask is set on the register address of a write.
	WriteMask byte = 0x80
	// ReadMask clears the write bit of a register address.
	ReadMask byte = 0x7F
)

// datagramLen is the size of one SPI transfer.
const datagramLen = 5

// Register is a TMC4361A register address.
type Register byte

// Registers used by this package. See the datasheet for the full map.
const (
	GeneralConf        Register = 0x00
	ReferenceConf      Register = 0x01
	StartConf          Register = 0x02
	InputFiltConf      Register = 0x03
	SPIOutConf         Register = 0x04
	CurrentConf        Register = 0x05
	StepConf           Register = 0x0A
	SPIStatusSelection Register = 0x0B
	EventClearConf     Register = 0x0C
	IntrConf           Register = 0x0D
	Events             Register = 0x0E
	Status             Register = 0x0F
	StpLengthAdd       Register = 0x10
	RampMode           Register = 0x20
	XActual            Register = 0x21
	VActual            Register = 0x22
	AActual            Register = 0x23
	VMax               Register = 0x24
	VStart             Register = 0x25
	VStop              Register = 0x26
	VBreak             Register = 0x27
	AMax               Register = 0x28
	DMax               Register = 0x29
	ClkFreq            Register = 0x31
	XTarget            Register = 0x37
	VersionNo          Register = 0x7F
)

// WriteRegister writes a 32 bit value to a register.
func (d *Dev) WriteRegister(reg Register, data uint32) error {
	d.debug("write register %#02x value %#08x", byte(reg), data)
	_, err := d.sendRegister(byte(reg)|WriteMask, data)
	return err
}

// ReadRegister reads a 32 bit value from a register.
//
// The first transfer requests the register, the second one retrieves it.
func (d *Dev) ReadRegister(reg Register) (uint32, error) {
	addr := byte(reg) & ReadMask
	if _, err := d.sendRegister(addr, 0); err != nil {
		return 0, err
	}
	v, err := d.sendRegister(addr, 0)
	if err != nil {
		return 0, err
	}
	d.debug("read register %#02x value %#08x", byte(reg), v)
	return v, nil
}

// sendRegister does one transfer and returns the value shifted out by the
// controller. The status byte is kept for Status().
func (d *Dev) sendRegister(addr byte, data uint32) (uint32, error) {
	var w, r [datagramLen]byte
	w[0] = addr
	binary.BigEndian.PutUint32(w[1:], data)
	if err := d.c.Tx(w[:], r[:]); err != nil {
		return 0, err
	}
	d.status = r[0]
	return binary.BigEndian.Uint32(r[1:]), nil
}
