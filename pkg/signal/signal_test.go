// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package signal

import (
	"math"
	"testing"

	"github.com/onosproject/onos-lib-go/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestNoisePower(t *testing.T) {
	n0, err := NoisePowerDbm(1e6, 300, 12)
	assert.NoError(t, err)
	// kT at 300K is about -173.8 dBm/Hz
	assert.InDelta(t, -173.8+60+12, n0, 0.05)

	_, err = NoisePowerDbm(0, 300, 12)
	assert.True(t, errors.IsInvalid(err))
	_, err = NoisePowerDbm(1e6, -1, 12)
	assert.True(t, errors.IsInvalid(err))
}

func TestQ(t *testing.T) {
	assert.InDelta(t, 0.5, Q(0), 1e-15)
	assert.InDelta(t, 0.15865525393145707, Q(1), 1e-12)
	assert.InDelta(t, 1-Q(1.3), Q(-1.3), 1e-12)
}

func TestSNR(t *testing.T) {
	assert.Equal(t, 1.0, Rate(1))
	assert.Equal(t, 0.0, Rate(0))

	assert.InDelta(t, 0.3*2/(1+1), CenterSNR(0.3, 1, 2, 1, 1), 1e-15)
	assert.Equal(t, 4.0, BaseStationSNR(2, 2, 5, 1, true))
	assert.InDelta(t, 4.0/11, BaseStationSNR(2, 2, 5, 1, false), 1e-15)

	snr := FarSNR([2]float64{0.7, 0.7}, [2]float64{0.3, 0.3}, [2]float64{10, 20})
	assert.InDelta(t, 21.0/10, snr, 1e-15)
	assert.InDelta(t, 1.0, EnergyEfficiency(3, 1, 1), 1e-15)
}

func TestOutage(t *testing.T) {
	// received level exactly at sensitivity
	assert.InDelta(t, 0.5, Outage(100, -130, -110, 6.32), 1e-12)
	assert.Less(t, Outage(1e6, -100, -110, 6.32), Outage(1e3, -100, -110, 6.32))
	assert.InDelta(t, 1.0, Outage(0, -100, -110, 6.32), 1e-12)
	assert.False(t, math.IsNaN(Outage(0, -100, -110, 6.32)))
}
