// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package scpi_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gotmc/scpi"
	"github.com/gotmc/scpi/driver/sim"
)

func defineExample(t *testing.T) *sim.Instrument {
	t.Helper()
	in := &sim.Instrument{}
	sim.Define("EXAMPLE", in)
	t.Cleanup(func() { sim.Remove("EXAMPLE") })
	return in
}

func TestOpenClose(t *testing.T) {
	defineExample(t)

	sess, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)
	require.NoError(t, sess.Close())
}

func TestOpenAbsentResource(t *testing.T) {
	sess, err := scpi.Open("SIM::NOSUCH::INSTR")
	assert.Nil(t, sess)

	var connErr *scpi.ConnectionError
	require.ErrorAs(t, err, &connErr)
	assert.Equal(t, "SIM::NOSUCH::INSTR", connErr.Resource)
}

func TestOpenEmptyResource(t *testing.T) {
	sess, err := scpi.Open("")
	assert.Nil(t, sess)

	var connErr *scpi.ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestOpenUnregisteredInterface(t *testing.T) {
	// USB resources parse, but no USBTMC driver is registered.
	sess, err := scpi.Open("USB0::0x0699::0x0353::1525069::INSTR")
	assert.Nil(t, sess)

	var connErr *scpi.ConnectionError
	assert.ErrorAs(t, err, &connErr)
}

func TestCloseIdempotent(t *testing.T) {
	defineExample(t)

	sess, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)
	require.NoError(t, sess.Close())
	assert.NoError(t, sess.Close())
}

func TestClosedSessionIsTerminal(t *testing.T) {
	defineExample(t)

	sess, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)
	require.NoError(t, sess.Close())

	var commErr *scpi.CommunicationError
	err = sess.WriteString("*RST")
	require.ErrorAs(t, err, &commErr)
	assert.ErrorIs(t, err, scpi.ErrClosed)

	_, err = sess.Query("*IDN?")
	assert.ErrorAs(t, err, &commErr)
}

func TestWriteThenQuery(t *testing.T) {
	in := defineExample(t)

	sess, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.WriteString("SOURce1:FREQuency 1000"))

	idn, err := sess.Query("*IDN?")
	require.NoError(t, err)
	assert.Equal(t, sim.DefaultIDN, idn)

	assert.Equal(t, []string{"SOURce1:FREQuency 1000", "*IDN?"}, in.Writes())
}

func TestQueryCannedResponse(t *testing.T) {
	in := defineExample(t)
	in.Responses = map[string]string{"FREQ?": "+8.50000000000000E+08"}

	sess, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)
	defer sess.Close()

	got, err := sess.Query("FREQ?")
	require.NoError(t, err)
	assert.Equal(t, "+8.50000000000000E+08", got)
}

func TestQueryTimeout(t *testing.T) {
	defineExample(t)

	sess, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)
	defer sess.Close()

	resp, err := sess.Query("SYST:ERR?") // no canned response defined
	assert.Empty(t, resp)

	var toErr *scpi.TimeoutError
	require.ErrorAs(t, err, &toErr)
	assert.True(t, toErr.Timeout())
}

func TestCommandFormats(t *testing.T) {
	in := defineExample(t)

	sess, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)
	defer sess.Close()

	require.NoError(t, sess.Command("FREQ %gHZ", 850e6))
	require.NoError(t, sess.Command("OUTP ON"))
	assert.Equal(t, []string{"FREQ 8.5e+08HZ", "OUTP ON"}, in.Writes())
}

func TestExclusiveOwnership(t *testing.T) {
	defineExample(t)

	first, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)

	_, err = scpi.Open("SIM::EXAMPLE::INSTR")
	var connErr *scpi.ConnectionError
	assert.ErrorAs(t, err, &connErr)

	// Closing the first session releases the resource for a new one.
	require.NoError(t, first.Close())
	second, err := scpi.Open("SIM::EXAMPLE::INSTR")
	require.NoError(t, err)
	assert.NoError(t, second.Close())
}
