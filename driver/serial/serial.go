// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package serial registers a serial-port transport for ASRL resource
// strings such as "ASRL/dev/ttyUSB0::INSTR", built on go.bug.st/serial.
package serial

import (
	"io"

	"github.com/gotmc/scpi"
	"go.bug.st/serial"
	"go.uber.org/multierr"
)

func init() {
	scpi.Register("ASRL", open)
}

func open(addr scpi.Address, cfg scpi.Config) (io.ReadWriteCloser, error) {
	mode := &serial.Mode{BaudRate: cfg.BaudRate}
	p, err := serial.Open(addr.Device, mode)
	if err != nil {
		return nil, err
	}
	if err := p.SetReadTimeout(cfg.Timeout); err != nil {
		return nil, multierr.Append(err, p.Close())
	}
	return &port{Port: p}, nil
}

// timeoutError marks the zero-byte nil-error read that go.bug.st/serial
// produces when the read timeout expires, so the session maps it onto
// scpi.TimeoutError.
type timeoutError struct{}

func (timeoutError) Error() string { return "serial read timeout" }

func (timeoutError) Timeout() bool { return true }

type port struct {
	serial.Port
}

func (p *port) Read(b []byte) (int, error) {
	n, err := p.Port.Read(b)
	if n == 0 && err == nil && len(b) > 0 {
		return 0, timeoutError{}
	}
	return n, err
}

// Close discards any unread input before releasing the port, so stale
// response data cannot leak into the next session on the same device.
func (p *port) Close() error {
	return multierr.Append(p.Port.ResetInputBuffer(), p.Port.Close())
}
