// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0
//

package utils

import (
	"math"
	"os"
	"strconv"
)

// SpeedOfLight in m/s
const SpeedOfLight = 3e8

// Boltzmann constant in J/K
const Boltzmann = 1.380649e-23

func GetEnv(key string, defaultVal string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultVal
}

// GetEnvInt returns the integer value of the key or defaultVal if unset or malformed
func GetEnvInt(key string, defaultVal int) int {
	value, err := strconv.Atoi(GetEnv(key, strconv.Itoa(defaultVal)))
	if err != nil {
		return defaultVal
	}
	return value
}

// DbToPow converts decibels to a linear power ratio.
func DbToPow(db float64) float64 {
	return math.Pow(10, db/10)
}

// PowToDb converts a linear power ratio to decibels.
func PowToDb(pow float64) float64 {
	return 10 * math.Log10(pow)
}

// DbmToWatt converts dBm to watts.
func DbmToWatt(dbm float64) float64 {
	return math.Pow(10, (dbm-30)/10)
}

// WattToDbm converts watts to dBm.
func WattToDbm(w float64) float64 {
	return 10 * math.Log10(w*1000)
}

// AmplitudeFromDb returns the amplitude attenuation 10^(-db/20) for a loss in dB.
func AmplitudeFromDb(lossDb float64) float64 {
	return math.Pow(10, -lossDb/20)
}
