// Package fgen drives the Tektronix AFG1022 arbitrary/function generator
// over a SCPI session.
package fgen

import (
	"fmt"
	"strings"

	"github.com/gotmc/query"
)

// Instrument is the command/query surface fgen needs; *scpi.Session
// satisfies it.
type Instrument interface {
	Command(format string, a ...any) error
	Query(cmd string) (string, error)
}

// Waveform is an AFG1022 output function.
type Waveform string

const (
	Sine   Waveform = "SIN"
	Square Waveform = "SQU"
	Ramp   Waveform = "RAMP"
	Pulse  Waveform = "PULS"
	Noise  Waveform = "NOIS"
	DC     Waveform = "DC"
	Arb    Waveform = "ARB"
)

// freqLimits holds the frequency range in Hz per waveform. Noise and DC have
// no frequency setting.
var freqLimits = map[Waveform][2]float64{
	Sine:   {1e-6, 25e6},
	Square: {1e-6, 25e6},
	Ramp:   {1e-6, 500e3},
	Pulse:  {1e-6, 12.5e6},
	Arb:    {1e-6, 10e6},
}

// hasFrequency reports whether the waveform takes a frequency at all.
func (w Waveform) hasFrequency() bool {
	_, ok := freqLimits[w]
	return ok
}

// ParseWaveform converts a user-supplied waveform name, case-insensitively,
// into a Waveform.
func ParseWaveform(s string) (Waveform, error) {
	w := Waveform(strings.ToUpper(strings.TrimSpace(s)))
	switch w {
	case Sine, Square, Ramp, Pulse, Noise, DC, Arb:
		return w, nil
	}
	return "", fmt.Errorf("invalid waveform %q (choose SIN, SQU, RAMP, PULS, NOIS, DC, or ARB)", s)
}

// Config describes one channel setup.
type Config struct {
	Channel   int // 1 or 2
	Waveform  Waveform
	Frequency float64 // Hz; ignored for NOIS and DC
	Amplitude float64 // Vpp
	Offset    float64 // Vdc
	Output    bool    // enable the channel output
}

func (c Config) validate() error {
	if c.Channel != 1 && c.Channel != 2 {
		return fmt.Errorf("channel must be 1 or 2, got %d", c.Channel)
	}
	if _, err := ParseWaveform(string(c.Waveform)); err != nil {
		return err
	}
	if lim, ok := freqLimits[c.Waveform]; ok {
		if c.Frequency < lim[0] || c.Frequency > lim[1] {
			return fmt.Errorf("frequency for %s must be between %g Hz and %g Hz, got %g",
				c.Waveform, lim[0], lim[1], c.Frequency)
		}
	}
	return nil
}

// Device is an AFG1022 attached to a session.
type Device struct {
	inst Instrument
}

// New returns a Device driving the given instrument session.
func New(inst Instrument) *Device {
	return &Device{inst: inst}
}

// Reset restores the factory default settings.
func (d *Device) Reset() error {
	return d.inst.Command("*RST")
}

// Apply validates the configuration and programs it onto the instrument.
func (d *Device) Apply(cfg Config) error {
	if err := cfg.validate(); err != nil {
		return err
	}
	src := fmt.Sprintf("SOUR%d", cfg.Channel)
	if err := d.inst.Command("%s:FUNC %s", src, cfg.Waveform); err != nil {
		return err
	}
	if cfg.Waveform.hasFrequency() {
		if err := d.inst.Command("%s:FREQ %g", src, cfg.Frequency); err != nil {
			return err
		}
	}
	if err := d.inst.Command("%s:VOLT %g", src, cfg.Amplitude); err != nil {
		return err
	}
	if err := d.inst.Command("%s:VOLT:OFFS %g", src, cfg.Offset); err != nil {
		return err
	}
	state := "OFF"
	if cfg.Output {
		state = "ON"
	}
	return d.inst.Command("OUTP%d %s", cfg.Channel, state)
}

// Settings is the channel state as read back from the instrument.
type Settings struct {
	Waveform  Waveform
	Frequency float64 // Hz; NaN-free: 0 when the waveform has none
	Amplitude float64 // Vpp
	Offset    float64 // Vdc
	Output    bool
}

// Settings reads the current configuration of the given channel back from
// the instrument.
func (d *Device) Settings(channel int) (Settings, error) {
	var s Settings
	if channel != 1 && channel != 2 {
		return s, fmt.Errorf("channel must be 1 or 2, got %d", channel)
	}
	src := fmt.Sprintf("SOUR%d", channel)

	fn, err := query.String(d.inst, src+":FUNC?")
	if err != nil {
		return s, err
	}
	s.Waveform = Waveform(strings.TrimSpace(fn))
	if s.Waveform.hasFrequency() {
		if s.Frequency, err = query.Float64(d.inst, src+":FREQ?"); err != nil {
			return s, err
		}
	}
	if s.Amplitude, err = query.Float64(d.inst, src+":VOLT?"); err != nil {
		return s, err
	}
	if s.Offset, err = query.Float64(d.inst, src+":VOLT:OFFS?"); err != nil {
		return s, err
	}
	if s.Output, err = query.Bool(d.inst, fmt.Sprintf("OUTP%d?", channel)); err != nil {
		return s, err
	}
	return s, nil
}

// SystemError pops the oldest entry from the instrument's error queue.
func (d *Device) SystemError() (string, error) {
	return query.String(d.inst, "SYST:ERR?")
}
