// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package signal

import (
	"math"

	"github.com/nfvri/star-ris-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// NoisePowerDbm returns the receiver noise floor kTB + NF in dBm
func NoisePowerDbm(bandwidthHz, temperatureK, noiseFigureDb float64) (float64, error) {
	if bandwidthHz <= 0 {
		return 0, errors.New(errors.Invalid, "bandwidth must be positive, got %v", bandwidthHz)
	}
	if temperatureK <= 0 {
		return 0, errors.New(errors.Invalid, "temperature must be positive, got %v", temperatureK)
	}
	thermalNoiseDbm := utils.WattToDbm(utils.Boltzmann * temperatureK)
	return thermalNoiseDbm + 10*math.Log10(bandwidthHz) + noiseFigureDb, nil
}
