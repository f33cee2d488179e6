// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package tcpip registers a raw-socket transport for TCPIP resource strings
// such as "TCPIP0::192.168.1.5::5025::SOCKET". VXI-11 is not implemented;
// INSTR-class TCPIP resources are treated as a raw SCPI socket on the
// default port.
package tcpip

import (
	"io"
	"net"
	"strconv"
	"time"

	"github.com/gotmc/scpi"
)

func init() {
	scpi.Register("TCPIP", open)
}

// DefaultPort is the conventional raw SCPI socket port.
const DefaultPort = 5025

func open(addr scpi.Address, cfg scpi.Config) (io.ReadWriteCloser, error) {
	port := addr.Port
	if port == 0 {
		port = DefaultPort
	}
	hostport := net.JoinHostPort(addr.Host, strconv.Itoa(port))
	c, err := net.DialTimeout("tcp", hostport, cfg.Timeout)
	if err != nil {
		return nil, err
	}
	return &conn{Conn: c, timeout: cfg.Timeout}, nil
}

// conn arms a fresh read deadline before every read, so that a query blocks
// for at most the configured timeout. Deadline errors satisfy net.Error and
// surface as scpi.TimeoutError.
type conn struct {
	net.Conn
	timeout time.Duration
}

func (c *conn) Read(p []byte) (int, error) {
	if c.timeout > 0 {
		if err := c.Conn.SetReadDeadline(time.Now().Add(c.timeout)); err != nil {
			return 0, err
		}
	}
	return c.Conn.Read(p)
}
