// Copyright (c) 2020–2024 The scpi developers. All rights reserved.
// Project site: https://github.com/gotmc/scpi
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package scpi

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseResource(t *testing.T) {
	tests := []struct {
		resource string
		want     Address
	}{
		{
			resource: "TCPIP0::192.168.1.5::5025::SOCKET",
			want: Address{
				Interface: "TCPIP", Board: 0, Host: "192.168.1.5",
				Port: 5025, Class: "SOCKET", SecondaryAddr: -1,
			},
		},
		{
			resource: "TCPIP::mxg.lab.local::INSTR",
			want: Address{
				Interface: "TCPIP", Host: "mxg.lab.local",
				Class: "INSTR", SecondaryAddr: -1,
			},
		},
		{
			resource: "TCPIP1::10.0.0.9",
			want: Address{
				Interface: "TCPIP", Board: 1, Host: "10.0.0.9",
				Class: "INSTR", SecondaryAddr: -1,
			},
		},
		{
			resource: "ASRL/dev/ttyUSB0::INSTR",
			want: Address{
				Interface: "ASRL", Device: "/dev/ttyUSB0",
				Class: "INSTR", SecondaryAddr: -1,
			},
		},
		{
			resource: "ASRL1::INSTR",
			want: Address{
				Interface: "ASRL", Board: 1, Device: "/dev/ttyS0",
				Class: "INSTR", SecondaryAddr: -1,
			},
		},
		{
			resource: "SIM::EXAMPLE::INSTR",
			want: Address{
				Interface: "SIM", Name: "EXAMPLE",
				Class: "INSTR", SecondaryAddr: -1,
			},
		},
		{
			resource: "USB0::0x0699::0x0353::1525069::INSTR",
			want: Address{
				Interface: "USB", VendorID: "0x0699", ProductID: "0x0353",
				Serial: "1525069", Class: "INSTR", SecondaryAddr: -1,
			},
		},
		{
			resource: "GPIB0::6::INSTR",
			want: Address{
				Interface: "GPIB", PrimaryAddr: 6,
				Class: "INSTR", SecondaryAddr: -1,
			},
		},
		{
			resource: "GPIB0::11::101::INSTR",
			want: Address{
				Interface: "GPIB", PrimaryAddr: 11, SecondaryAddr: 101,
				Class: "INSTR",
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.resource, func(t *testing.T) {
			got, err := ParseResource(tt.resource)
			require.NoError(t, err)
			tt.want.Raw = tt.resource
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseResourceErrors(t *testing.T) {
	bad := []string{
		"",
		"LPT1::INSTR",
		"TCPIP0::INSTR",
		"TCPIP0::host::notaport::SOCKET",
		"ASRL::INSTR",
		"ASRL0::INSTR",
		"SIM::INSTR",
		"USB0::0x0699::INSTR",
		"GPIB0::31::INSTR",
		"GPIB0::6::42::INSTR",
		"::",
	}
	for _, resource := range bad {
		t.Run(resource, func(t *testing.T) {
			_, err := ParseResource(resource)
			assert.Error(t, err)
		})
	}
}
