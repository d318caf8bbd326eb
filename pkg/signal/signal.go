// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package signal

import (
	"math"

	"github.com/nfvri/star-ris-simulator/pkg/utils"
	"gonum.org/v1/gonum/stat/distuv"
)

// Q is the tail probability of the standard normal distribution
func Q(x float64) float64 {
	return distuv.UnitNormal.Survival(x)
}

// Rate is the Shannon rate log2(1 + snr) in bit/s/Hz
func Rate(snr float64) float64 {
	return math.Log2(1 + snr)
}

// CenterSNR is the SNR of a cell-center user decoding its own NOMA layer.
// The other transmitter's signal arrives as interference.
func CenterSNR(allocation, ptW, gain, interferenceGain, noiseW float64) float64 {
	return allocation * (ptW * gain) / (ptW*interferenceGain + noiseW)
}

// BaseStationSNR is the SNR of one transmitter's signal at the far user. With coordinated
// multipoint the other transmitter cooperates, otherwise it interferes.
func BaseStationSNR(ptW, gain, otherGain, noiseW float64, comp bool) float64 {
	if comp {
		return ptW * gain / noiseW
	}
	return ptW * gain / (noiseW + ptW*otherGain)
}

// FarSNR combines the far user's layers from both transmitters. farAlloc and centerAlloc hold
// each transmitter's fractions for the far user and for its own center user.
func FarSNR(farAlloc, centerAlloc [2]float64, snr [2]float64) float64 {
	signal := farAlloc[0]*snr[0] + farAlloc[1]*snr[1]
	interference := centerAlloc[0]*snr[0] + centerAlloc[1]*snr[1]
	return signal / (interference + 1)
}

// Outage is the probability that the shadowed received level misses the receiver sensitivity
func Outage(snr, noiseDbm, sensitivityDbm, sigmaDb float64) float64 {
	return Q((utils.PowToDb(snr) + noiseDbm - sensitivityDbm) / sigmaDb)
}

// EnergyEfficiency of both transmitters radiating ptW plus the circuit power
func EnergyEfficiency(spectralEfficiency, ptW, circuitW float64) float64 {
	return spectralEfficiency / (2*ptW + circuitW)
}
