// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package scpi provides sessions for sending SCPI/ASCII commands to lab
// instruments addressed by VISA-style resource strings. Transports are
// pluggable; importing a driver package registers it:
//
//	import (
//		"github.com/gotmc/scpi"
//		_ "github.com/gotmc/scpi/driver/tcpip"
//	)
//
//	sess, err := scpi.Open("TCPIP0::192.168.1.5::5025::SOCKET")
package scpi

import (
	"fmt"
	"io"
	"sort"
	"time"
)

// Config holds the transport settings applied at Open. There is no per-call
// timeout; the read timeout set here is the transport's built-in one.
type Config struct {
	Timeout    time.Duration // read timeout for queries
	BaudRate   int           // serial transports only
	Terminator byte          // line terminator for commands and responses
	Debug      bool          // log every command and response
}

// Option applies a configuration option at Open.
type Option func(*Config)

// WithTimeout sets the transport read timeout. The default is 5 s.
func WithTimeout(d time.Duration) Option {
	return func(c *Config) { c.Timeout = d }
}

// WithBaudRate sets the serial baud rate. The default is 115200. Ignored by
// non-serial transports.
func WithBaudRate(baud int) Option {
	return func(c *Config) { c.BaudRate = baud }
}

// WithTerminator sets the line terminator appended to commands and expected
// at the end of responses. The default is '\n'.
func WithTerminator(term byte) Option {
	return func(c *Config) { c.Terminator = term }
}

// WithDebug causes commands and responses to be logged.
func WithDebug() Option {
	return func(c *Config) { c.Debug = true }
}

func defaultConfig() Config {
	return Config{
		Timeout:    5 * time.Second,
		BaudRate:   115200,
		Terminator: '\n',
	}
}

// OpenFunc opens the transport for a parsed resource address.
type OpenFunc func(addr Address, cfg Config) (io.ReadWriteCloser, error)

var drivers = map[string]OpenFunc{}

// Register makes a transport driver available to Open under the given
// interface type (e.g. "TCPIP"). It is intended to be called from the init
// function of a driver package and panics on a duplicate registration.
func Register(interf string, fn OpenFunc) {
	if fn == nil {
		panic("scpi: Register with nil OpenFunc")
	}
	if _, dup := drivers[interf]; dup {
		panic("scpi: Register called twice for interface " + interf)
	}
	drivers[interf] = fn
}

// Drivers returns the sorted list of registered interface types.
func Drivers() []string {
	names := make([]string, 0, len(drivers))
	for name := range drivers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Open parses the given resource string, establishes the transport it names,
// and returns a session for the instrument. Any failure — empty or malformed
// resource, no driver registered for the interface type, or the transport
// refusing to come up — is reported as a *ConnectionError and no session
// handle is produced.
func Open(resource string, opts ...Option) (*Session, error) {
	addr, err := ParseResource(resource)
	if err != nil {
		return nil, &ConnectionError{Resource: resource, Err: err}
	}
	fn, ok := drivers[addr.Interface]
	if !ok {
		return nil, &ConnectionError{
			Resource: resource,
			Err: fmt.Errorf("no driver registered for interface %s (forgotten blank import?)",
				addr.Interface),
		}
	}
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	rw, err := fn(addr, cfg)
	if err != nil {
		return nil, &ConnectionError{Resource: resource, Err: err}
	}
	return newSession(rw, resource, cfg), nil
}
