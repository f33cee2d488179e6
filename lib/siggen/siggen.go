// Package siggen drives the Keysight N5183B MXG analog signal generator
// over a SCPI session.
package siggen

import (
	"strings"

	"github.com/gotmc/query"
)

// Instrument is the command/query surface siggen needs; *scpi.Session
// satisfies it.
type Instrument interface {
	Command(format string, a ...any) error
	Query(cmd string) (string, error)
}

// Device is an N5183B attached to a session.
type Device struct {
	inst Instrument
}

// New returns a Device driving the given instrument session.
func New(inst Instrument) *Device {
	return &Device{inst: inst}
}

// Identify returns the instrument's *IDN? identification string.
func (d *Device) Identify() (string, error) {
	s, err := d.inst.Query("*IDN?")
	return strings.TrimSpace(s), err
}

// Reset restores the instrument's default state.
func (d *Device) Reset() error {
	return d.inst.Command("*RST")
}

// ClearStatus clears the status byte and the error queue.
func (d *Device) ClearStatus() error {
	return d.inst.Command("*CLS")
}

// SetFrequency sets the RF output frequency in Hz.
func (d *Device) SetFrequency(hz float64) error {
	return d.inst.Command("FREQ %gHZ", hz)
}

// Frequency returns the RF output frequency in Hz.
func (d *Device) Frequency() (float64, error) {
	return query.Float64(d.inst, "FREQ?")
}

// SetPower sets the RF output power in dBm.
func (d *Device) SetPower(dbm float64) error {
	return d.inst.Command("POW %gDBM", dbm)
}

// Power returns the RF output power in dBm.
func (d *Device) Power() (float64, error) {
	return query.Float64(d.inst, "POW?")
}

// SetOutput enables or disables the RF output.
func (d *Device) SetOutput(on bool) error {
	state := "OFF"
	if on {
		state = "ON"
	}
	return d.inst.Command("OUTP %s", state)
}

// Output reports whether the RF output is enabled.
func (d *Device) Output() (bool, error) {
	return query.Bool(d.inst, "OUTP?")
}
