// Package specan drives the spectrum analyzer mode of the Anritsu MS2038C
// VNA Master over a SCPI session.
package specan

import (
	"fmt"
	"strings"

	"github.com/gotmc/query"
)

// Instrument is the command/query surface specan needs; *scpi.Session
// satisfies it.
type Instrument interface {
	Command(format string, a ...any) error
	Query(cmd string) (string, error)
}

// Device is an MS2038C attached to a session.
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

// MaxHold sets the max-hold detector on the given trace.
func (d *Device) MaxHold(trace int) error {
	return d.inst.Command(":TRACe%d:DETector MAXHold", trace)
}

// SetCenterFrequency sets the center frequency in Hz.
func (d *Device) SetCenterFrequency(hz float64) error {
	return d.inst.Command(":SENSe:FREQuency:CENTer %g", hz)
}

// CenterFrequency returns the center frequency in Hz.
func (d *Device) CenterFrequency() (float64, error) {
	return query.Float64(d.inst, ":SENSe:FREQuency:CENTer?")
}

// SetSpan sets the frequency span in Hz.
func (d *Device) SetSpan(hz float64) error {
	return d.inst.Command(":SENSe:FREQuency:SPAN %g", hz)
}

// Span returns the frequency span in Hz.
func (d *Device) Span() (float64, error) {
	return query.Float64(d.inst, ":SENSe:FREQuency:SPAN?")
}

// SetRefLevel sets the amplitude reference level in dBm.
func (d *Device) SetRefLevel(dbm float64) error {
	return d.inst.Command(":DISPlay:WINDow:TRACe:Y:SCALe:RLEVel %g", dbm)
}

// RefLevel returns the amplitude reference level in dBm.
func (d *Device) RefLevel() (float64, error) {
	return query.Float64(d.inst, ":DISPlay:WINDow:TRACe:Y:SCALe:RLEVel?")
}

// SetResolutionBW sets the resolution bandwidth in Hz.
func (d *Device) SetResolutionBW(hz float64) error {
	return d.inst.Command(":SENSe:BANDwidth:RESolution %g", hz)
}

// ResolutionBW returns the resolution bandwidth in Hz.
func (d *Device) ResolutionBW() (float64, error) {
	return query.Float64(d.inst, ":SENSe:BANDwidth:RESolution?")
}

// SetVideoBW sets the video bandwidth in Hz.
func (d *Device) SetVideoBW(hz float64) error {
	return d.inst.Command(":SENSe:BANDwidth:VIDeo %g", hz)
}

// VideoBW returns the video bandwidth in Hz.
func (d *Device) VideoBW() (float64, error) {
	return query.Float64(d.inst, ":SENSe:BANDwidth:VIDeo?")
}

// SetAverageCount sets the sweep averaging count.
func (d *Device) SetAverageCount(n int) error {
	return d.inst.Command(":SENSe:AVERage:COUNt %d", n)
}

// AverageCount returns the sweep averaging count.
func (d *Device) AverageCount() (int, error) {
	return query.Int(d.inst, ":SENSe:AVERage:COUNt?")
}

// EnableMarker turns the given marker on.
func (d *Device) EnableMarker(n int) error {
	return d.inst.Command(":CALCulate:MARKer%d:STATe ON", n)
}

// MarkerToMax moves the given marker to the maximum peak.
func (d *Device) MarkerToMax(n int) error {
	return d.inst.Command(":CALCulate:MARKer%d:MAXimum", n)
}

// MarkerToMaxLeft moves the given marker to the next peak left of the
// current marker position.
func (d *Device) MarkerToMaxLeft(n int) error {
	return d.inst.Command(":CALCulate:MARKer%d:MAXimum:LEFT", n)
}

// MarkerToMaxRight moves the given marker to the next peak right of the
// current marker position.
func (d *Device) MarkerToMaxRight(n int) error {
	return d.inst.Command(":CALCulate:MARKer%d:MAXimum:RIGHt", n)
}

// Marker reads the given marker's frequency (Hz) and amplitude (dBm).
func (d *Device) Marker(n int) (freq, ampl float64, err error) {
	freq, err = query.Float64(d.inst, fmt.Sprintf(":CALCulate:MARKer%d:X?", n))
	if err != nil {
		return 0, 0, err
	}
	ampl, err = query.Float64(d.inst, fmt.Sprintf(":CALCulate:MARKer%d:Y?", n))
	if err != nil {
		return 0, 0, err
	}
	return freq, ampl, nil
}

// TraceData reads the given trace and returns its amplitude points in dBm.
// Corrupt points in the instrument's CSV payload are replaced by the median
// of the valid points.
func (d *Device) TraceData(trace int) ([]float64, error) {
	raw, err := d.inst.Query(fmt.Sprintf(":TRACe:DATA? %d", trace))
	if err != nil {
		return nil, err
	}
	return ParseTrace(raw)
}
