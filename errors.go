// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package scpi

import (
	"errors"
	"fmt"
)

// ErrClosed is returned (wrapped in a CommunicationError) when an operation
// is attempted on a session that has already been closed. A closed session
// cannot be reopened; open a new one.
var ErrClosed = errors.New("session closed")

// ConnectionError indicates the resource could not be located or the
// transport could not be established. No session handle exists when a
// ConnectionError is returned.
type ConnectionError struct {
	Resource string
	Err      error
}

func (e *ConnectionError) Error() string {
	return fmt.Sprintf("connect %q: %s", e.Resource, e.Err)
}

func (e *ConnectionError) Unwrap() error { return e.Err }

// CommunicationError indicates a transport-level I/O failure during an
// active session.
type CommunicationError struct {
	Op  string // "write", "read", or "close"
	Err error
}

func (e *CommunicationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err)
}

func (e *CommunicationError) Unwrap() error { return e.Err }

// TimeoutError indicates no response arrived within the transport's read
// timeout. No partial response is returned alongside a TimeoutError.
type TimeoutError struct {
	Cmd string // the command whose response timed out
	Err error
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("query %q: timeout: %s", e.Cmd, e.Err)
}

func (e *TimeoutError) Unwrap() error { return e.Err }

// Timeout reports true so a TimeoutError satisfies the net.Error timeout
// convention.
func (e *TimeoutError) Timeout() bool { return true }

// isTimeout reports whether err signals an expired read deadline, in any of
// the shapes the transports produce.
func isTimeout(err error) bool {
	var t interface{ Timeout() bool }
	return errors.As(err, &t) && t.Timeout()
}
