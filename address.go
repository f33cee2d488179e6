// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package scpi

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
)

// Address is a parsed VISA-style resource identifier. Only the fields that
// apply to the interface type are populated; the rest stay zero.
type Address struct {
	Interface string // "TCPIP", "ASRL", "SIM", "USB", or "GPIB"
	Board     int    // interface board number, e.g. the 0 in TCPIP0
	Class     string // "INSTR" or "SOCKET"

	Host string // TCPIP hostname or IP
	Port int    // TCPIP port; 0 means the driver default

	Device string // ASRL serial device path

	Name string // SIM instrument name

	VendorID  string // USB idVendor, e.g. "0x0699"
	ProductID string // USB idProduct
	Serial    string // USB serial number

	PrimaryAddr   int // GPIB primary address
	SecondaryAddr int // GPIB secondary address, -1 if absent

	Raw string // the resource string as given
}

// headRe splits the leading token of a resource string into the interface
// type and an optional board number, e.g. "TCPIP0" or "ASRL".
var headRe = regexp.MustCompile(`^([A-Za-z]+)(\d*)$`)

// ParseResource parses a VISA-style resource string such as
// "TCPIP0::192.168.1.5::5025::SOCKET", "ASRL/dev/ttyUSB0::INSTR",
// "SIM::EXAMPLE::INSTR", "USB0::0x0699::0x0353::1525069::INSTR", or
// "GPIB0::6::INSTR". The trailing resource class defaults to INSTR when
// omitted. Parsing says nothing about whether a driver for the interface
// type is available; that is decided by Open.
func ParseResource(resource string) (Address, error) {
	addr := Address{Raw: resource, Class: "INSTR", SecondaryAddr: -1}
	if resource == "" {
		return addr, fmt.Errorf("empty resource string")
	}

	fields := strings.Split(resource, "::")
	head := fields[0]

	// ASRL carries the device path in its head token, so it cannot go
	// through headRe ("ASRL/dev/ttyUSB0" is one token).
	if strings.HasPrefix(strings.ToUpper(head), "ASRL") {
		return parseSerial(addr, head[len("ASRL"):], fields[1:])
	}

	m := headRe.FindStringSubmatch(head)
	if m == nil {
		return addr, fmt.Errorf("malformed interface field %q", head)
	}
	addr.Interface = strings.ToUpper(m[1])
	if m[2] != "" {
		addr.Board, _ = strconv.Atoi(m[2])
	}

	rest := fields[1:]
	if n := len(rest); n > 0 && isClass(rest[n-1]) {
		addr.Class = strings.ToUpper(rest[n-1])
		rest = rest[:n-1]
	}

	switch addr.Interface {
	case "TCPIP":
		return parseTCPIP(addr, rest)
	case "SIM":
		if len(rest) != 1 || rest[0] == "" {
			return addr, fmt.Errorf("SIM resource needs a single instrument name")
		}
		addr.Name = rest[0]
		return addr, nil
	case "USB":
		return parseUSB(addr, rest)
	case "GPIB":
		return parseGPIB(addr, rest)
	}
	return addr, fmt.Errorf("unknown interface type %q", addr.Interface)
}

func isClass(s string) bool {
	switch strings.ToUpper(s) {
	case "INSTR", "SOCKET":
		return true
	}
	return false
}

func parseTCPIP(addr Address, rest []string) (Address, error) {
	switch len(rest) {
	case 1:
		addr.Host = rest[0]
	case 2:
		addr.Host = rest[0]
		port, err := strconv.Atoi(rest[1])
		if err != nil {
			return addr, fmt.Errorf("bad TCPIP port %q: %w", rest[1], err)
		}
		addr.Port = port
	default:
		return addr, fmt.Errorf("TCPIP resource needs host or host::port, got %d fields", len(rest))
	}
	if addr.Host == "" {
		return addr, fmt.Errorf("TCPIP resource has empty host")
	}
	return addr, nil
}

func parseSerial(addr Address, head string, rest []string) (Address, error) {
	addr.Interface = "ASRL"
	if n := len(rest); n > 0 && isClass(rest[n-1]) {
		addr.Class = strings.ToUpper(rest[n-1])
		rest = rest[:n-1]
	}
	if len(rest) != 0 {
		return addr, fmt.Errorf("unexpected fields after ASRL device: %v", rest)
	}
	switch {
	case head == "":
		return addr, fmt.Errorf("ASRL resource needs a device path or port number")
	case strings.HasPrefix(head, "/") || strings.HasPrefix(strings.ToUpper(head), "COM"):
		addr.Device = head
	default:
		// Bare ASRLn maps to the platform serial device, e.g. ASRL1
		// is /dev/ttyS0.
		n, err := strconv.Atoi(head)
		if err != nil || n < 1 {
			return addr, fmt.Errorf("bad ASRL port number %q", head)
		}
		addr.Board = n
		addr.Device = fmt.Sprintf("/dev/ttyS%d", n-1)
	}
	return addr, nil
}

func parseUSB(addr Address, rest []string) (Address, error) {
	if len(rest) != 3 {
		return addr, fmt.Errorf("USB resource needs vendor::product::serial, got %d fields", len(rest))
	}
	addr.VendorID = rest[0]
	addr.ProductID = rest[1]
	addr.Serial = rest[2]
	return addr, nil
}

func parseGPIB(addr Address, rest []string) (Address, error) {
	switch len(rest) {
	case 1, 2:
	default:
		return addr, fmt.Errorf("GPIB resource needs pad or pad::sad, got %d fields", len(rest))
	}
	pad, err := strconv.Atoi(rest[0])
	if err != nil {
		return addr, fmt.Errorf("bad GPIB primary address %q: %w", rest[0], err)
	}
	if pad < 0 || pad > 30 {
		return addr, fmt.Errorf("invalid primary address %d (must be 0-30)", pad)
	}
	addr.PrimaryAddr = pad
	if len(rest) == 2 {
		sad, err := strconv.Atoi(rest[1])
		if err != nil {
			return addr, fmt.Errorf("bad GPIB secondary address %q: %w", rest[1], err)
		}
		if sad < 96 || sad > 126 {
			return addr, fmt.Errorf("invalid secondary address %d (must be 96-126)", sad)
		}
		addr.SecondaryAddr = sad
	}
	return addr, nil
}
