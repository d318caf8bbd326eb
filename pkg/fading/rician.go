// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package fading

import (
	"math"

	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/integrate/quad"
)

// cdfNodes Gauss-Legendre nodes used to integrate the density
const cdfNodes = 128

// Rician line-of-sight fading. K is the linear ratio of specular to scattered power,
// Nu the specular amplitude and Sigma the per-component scatter deviation.
type Rician struct {
	K     float64
	Sigma float64
	Nu    float64
}

func NewRician(k, sigma float64) (*Rician, error) {
	if err := checkScale("rician K", k); err != nil {
		return nil, err
	}
	if err := checkScale("rician sigma", sigma); err != nil {
		return nil, err
	}
	omega := (2*k + 2) * sigma * sigma
	return &Rician{
		K:     k,
		Sigma: sigma,
		Nu:    math.Sqrt(k / (1 + k) * omega),
	}, nil
}

func (r *Rician) PDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	s2 := r.Sigma * r.Sigma
	z := x * r.Nu / s2
	// I0(z)·exp(-(x²+ν²)/2σ²) = I0e(z)·exp(-(x-ν)²/2σ²)
	return x / s2 * math.Exp(-(x-r.Nu)*(x-r.Nu)/(2*s2)) * besselI0e(z)
}

func (r *Rician) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	upper := r.Nu + 40*r.Sigma
	if x >= upper {
		return 1
	}
	lower := math.Max(0, r.Nu-40*r.Sigma)
	if x <= lower {
		return 0
	}
	return math.Min(1, quad.Fixed(r.PDF, lower, x, cdfNodes, nil, 0))
}

func (r *Rician) ExpectedValue() float64 {
	return r.Sigma * math.Sqrt(math.Pi/2) * laguerreHalf(-r.Nu*r.Nu/(2*r.Sigma*r.Sigma))
}

func (r *Rician) Variance() float64 {
	l := laguerreHalf(-r.Nu * r.Nu / (2 * r.Sigma * r.Sigma))
	s2 := r.Sigma * r.Sigma
	return 2*s2 + r.Nu*r.Nu - math.Pi*s2/2*l*l
}

// RMSValue is the square root of the second moment 2σ² + ν²
func (r *Rician) RMSValue() float64 {
	return math.Sqrt(2*r.Sigma*r.Sigma + r.Nu*r.Nu)
}

// Sample adds a zero-phase specular component to a circularly symmetric Gaussian scatter
func (r *Rician) Sample(rng *rand.Rand) complex128 {
	return complex(r.Nu+r.Sigma*rng.NormFloat64(), r.Sigma*rng.NormFloat64())
}
