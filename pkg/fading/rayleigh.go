// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package fading

import (
	"math"

	"golang.org/x/exp/rand"
)

// Rayleigh non line-of-sight fading with scale sigma
type Rayleigh struct {
	Sigma float64
}

func NewRayleigh(sigma float64) (*Rayleigh, error) {
	if err := checkScale("rayleigh sigma", sigma); err != nil {
		return nil, err
	}
	return &Rayleigh{Sigma: sigma}, nil
}

func (r *Rayleigh) PDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	s2 := r.Sigma * r.Sigma
	return x / s2 * math.Exp(-x*x/(2*s2))
}

func (r *Rayleigh) CDF(x float64) float64 {
	if x < 0 {
		return 0
	}
	return 1 - math.Exp(-x*x/(2*r.Sigma*r.Sigma))
}

func (r *Rayleigh) ExpectedValue() float64 {
	return r.Sigma * math.Sqrt(math.Pi/2)
}

func (r *Rayleigh) Variance() float64 {
	return (2 - math.Pi/2) * r.Sigma * r.Sigma
}

func (r *Rayleigh) RMSValue() float64 {
	return math.Sqrt2 * r.Sigma
}

// Sample draws independent real and imaginary Gaussian components, each of variance sigma^2
func (r *Rayleigh) Sample(rng *rand.Rand) complex128 {
	return complex(r.Sigma*rng.NormFloat64(), r.Sigma*rng.NormFloat64())
}
