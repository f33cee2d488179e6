// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package sim registers an in-memory transport for SIM resource strings
// such as "SIM::EXAMPLE::INSTR". Simulated instruments record every command
// written to them and answer queries from a response table, which makes them
// the mock transport used by the session tests. There is no real hardware
// behind this driver.
package sim

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/gotmc/scpi"
)

func init() {
	scpi.Register("SIM", open)
}

// DefaultIDN is the identification string a simulated instrument returns for
// *IDN? unless its response table overrides it.
const DefaultIDN = "gotmc,SIM-1000,0,1.00"

// Instrument is a simulated instrument. The zero value is usable: it
// answers *IDN? with DefaultIDN, records every write, and leaves every other
// query unanswered so that the session read times out.
type Instrument struct {
	// IDN overrides DefaultIDN when non-empty.
	IDN string
	// Responses maps a query command (as written, terminator stripped)
	// to its canned response.
	Responses map[string]string

	mu     sync.Mutex
	writes []string
	pend   strings.Builder
	inUse  bool
}

// Writes returns every command line written to the instrument so far, in
// order, with terminators stripped.
func (in *Instrument) Writes() []string {
	in.mu.Lock()
	defer in.mu.Unlock()
	return append([]string(nil), in.writes...)
}

// Reset clears the recorded writes and any pending unread response data.
func (in *Instrument) Reset() {
	in.mu.Lock()
	defer in.mu.Unlock()
	in.writes = nil
	in.pend.Reset()
}

func (in *Instrument) handle(line string) {
	in.writes = append(in.writes, line)
	if resp, ok := in.Responses[line]; ok {
		in.pend.WriteString(resp + "\n")
		return
	}
	if strings.EqualFold(line, "*IDN?") {
		idn := in.IDN
		if idn == "" {
			idn = DefaultIDN
		}
		in.pend.WriteString(idn + "\n")
	}
	// Any other query stays unanswered; the next read times out.
}

var (
	regMu       sync.Mutex
	instruments = map[string]*Instrument{}
)

// Define registers a simulated instrument under the given resource name, so
// that "SIM::<name>::INSTR" opens it. Defining a name twice replaces the
// earlier instrument.
func Define(name string, in *Instrument) {
	regMu.Lock()
	defer regMu.Unlock()
	instruments[name] = in
}

// Remove deletes a simulated instrument. Opening its name afterwards fails
// as an absent resource.
func Remove(name string) {
	regMu.Lock()
	defer regMu.Unlock()
	delete(instruments, name)
}

func open(addr scpi.Address, _ scpi.Config) (io.ReadWriteCloser, error) {
	regMu.Lock()
	in, ok := instruments[addr.Name]
	regMu.Unlock()
	if !ok {
		return nil, fmt.Errorf("no simulated instrument %q", addr.Name)
	}
	in.mu.Lock()
	defer in.mu.Unlock()
	if in.inUse {
		return nil, fmt.Errorf("simulated instrument %q already open", addr.Name)
	}
	in.inUse = true
	return &conn{in: in}, nil
}

// conn is one open handle on a simulated instrument.
type conn struct {
	in     *Instrument
	closed bool
	// partial accumulates write fragments until a terminator arrives.
	partial strings.Builder
}

var errConnClosed = errors.New("simulated connection closed")

// timeoutError satisfies the Timeout() convention the session uses to map
// transport timeouts onto scpi.TimeoutError.
type timeoutError struct{}

func (timeoutError) Error() string { return "simulated read timeout" }

func (timeoutError) Timeout() bool { return true }

func (c *conn) Write(p []byte) (int, error) {
	if c.closed {
		return 0, errConnClosed
	}
	c.partial.Write(p)
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	for {
		buf := c.partial.String()
		i := strings.IndexByte(buf, '\n')
		if i < 0 {
			break
		}
		line := strings.TrimRight(buf[:i], "\r")
		c.partial.Reset()
		c.partial.WriteString(buf[i+1:])
		c.in.handle(line)
	}
	return len(p), nil
}

// Read drains pending response data. The simulated timeout is zero: a read
// with nothing pending fails immediately rather than blocking.
func (c *conn) Read(p []byte) (int, error) {
	if c.closed {
		return 0, errConnClosed
	}
	c.in.mu.Lock()
	defer c.in.mu.Unlock()
	pend := c.in.pend.String()
	if pend == "" {
		return 0, timeoutError{}
	}
	n := copy(p, pend)
	c.in.pend.Reset()
	c.in.pend.WriteString(pend[n:])
	return n, nil
}

func (c *conn) Close() error {
	if c.closed {
		return nil
	}
	c.closed = true
	c.in.mu.Lock()
	c.in.inUse = false
	c.in.mu.Unlock()
	return nil
}
