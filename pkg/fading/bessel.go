// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package fading

import "math"

// asymptoticThreshold above which the Hankel expansion replaces the power series
const asymptoticThreshold = 25.0

// besselI0e returns exp(-|z|)·I0(z)
func besselI0e(z float64) float64 {
	z = math.Abs(z)
	if z < asymptoticThreshold {
		q := z * z / 4
		term, sum := 1.0, 1.0
		for k := 1; k < 200; k++ {
			term *= q / float64(k*k)
			sum += term
			if term < sum*1e-17 {
				break
			}
		}
		return sum * math.Exp(-z)
	}
	return (1 + 1/(8*z) + 9/(128*z*z) + 225/(3072*z*z*z)) / math.Sqrt(2*math.Pi*z)
}

// besselI1e returns exp(-|z|)·I1(z)
func besselI1e(z float64) float64 {
	sign := 1.0
	if z < 0 {
		sign, z = -1, -z
	}
	if z < asymptoticThreshold {
		q := z * z / 4
		term, sum := 1.0, 1.0
		for k := 1; k < 200; k++ {
			term *= q / float64(k*(k+1))
			sum += term
			if term < sum*1e-17 {
				break
			}
		}
		return sign * z / 2 * sum * math.Exp(-z)
	}
	return sign * (1 - 3/(8*z) - 15/(128*z*z) - 105/(1024*z*z*z)) / math.Sqrt(2*math.Pi*z)
}

// laguerreHalf is the Laguerre polynomial L_{1/2}(x) for x <= 0
func laguerreHalf(x float64) float64 {
	return (1-x)*besselI0e(-x/2) - x*besselI1e(-x/2)
}
