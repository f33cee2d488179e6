// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package scpi

import (
	"bufio"
	"fmt"
	"io"
	"log"
	"strings"
)

// Session is an open communication channel to one instrument. A session owns
// its transport exclusively for its lifetime: Unopened → Open → Closed, with
// no way back from Closed. Sessions are not safe for concurrent use; each
// script drives one session sequentially.
type Session struct {
	rw       io.ReadWriteCloser
	br       *bufio.Reader
	resource string
	term     byte
	debug    bool
	closed   bool
}

func newSession(rw io.ReadWriteCloser, resource string, cfg Config) *Session {
	return &Session{
		rw:       rw,
		br:       bufio.NewReader(rw),
		resource: resource,
		term:     cfg.Terminator,
		debug:    cfg.Debug,
	}
}

// Resource returns the resource string the session was opened with.
func (s *Session) Resource() string { return s.resource }

// Write writes raw bytes to the instrument.
func (s *Session) Write(p []byte) (n int, err error) {
	if s.closed {
		return 0, &CommunicationError{Op: "write", Err: ErrClosed}
	}
	n, err = s.rw.Write(p)
	if err != nil {
		return n, &CommunicationError{Op: "write", Err: err}
	}
	return n, nil
}

// Read reads raw bytes from the instrument into p.
func (s *Session) Read(p []byte) (n int, err error) {
	if s.closed {
		return 0, &CommunicationError{Op: "read", Err: ErrClosed}
	}
	n, err = s.br.Read(p)
	if err != nil && err != io.EOF {
		return n, &CommunicationError{Op: "read", Err: err}
	}
	return n, err
}

// WriteString sends the given command verbatim. All leading and trailing
// whitespace is removed before the line terminator is appended.
func (s *Session) WriteString(cmd string) error {
	if s.closed {
		return &CommunicationError{Op: "write", Err: ErrClosed}
	}
	line := fmt.Sprintf("%s%c", strings.TrimSpace(cmd), s.term)
	if s.debug {
		log.Printf("cmd %q", line)
	}
	if _, err := s.rw.Write([]byte(line)); err != nil {
		return &CommunicationError{Op: "write", Err: err}
	}
	return nil
}

// Command formats according to a format specifier if arguments are provided
// and sends the resulting SCPI/ASCII command to the instrument.
func (s *Session) Command(format string, a ...any) error {
	cmd := format
	if a != nil {
		cmd = fmt.Sprintf(format, a...)
	}
	return s.WriteString(cmd)
}

// Query sends the given command and blocks on a single read until the line
// terminator arrives or the transport's read timeout expires. The trailing
// terminator is stripped; the response is otherwise returned as the
// instrument sent it. On timeout the response is empty, never partial.
func (s *Session) Query(cmd string) (string, error) {
	if err := s.WriteString(cmd); err != nil {
		return "", err
	}
	resp, err := s.br.ReadString(s.term)
	if s.debug {
		log.Printf("query %q: %q (err %v)", cmd, resp, err)
	}
	switch {
	case err == nil:
	case err == io.EOF && resp != "":
		// Some transports drop the final terminator before EOF; accept
		// the data read so far.
	case isTimeout(err):
		return "", &TimeoutError{Cmd: cmd, Err: err}
	default:
		return "", &CommunicationError{Op: "read", Err: err}
	}
	return strings.TrimRight(resp, "\r\n"), nil
}

// Close releases the transport. It is idempotent: closing an already closed
// session is a no-op, and a session whose transport never came up is safe to
// close.
func (s *Session) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true
	if s.rw == nil {
		return nil
	}
	if err := s.rw.Close(); err != nil {
		return &CommunicationError{Op: "close", Err: err}
	}
	return nil
}
