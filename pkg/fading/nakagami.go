// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package fading

import (
	"math"

	"github.com/onosproject/onos-lib-go/pkg/errors"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

// Nakagami-m fading with shape M >= 1/2 and spread Omega = E[|h|²]
type Nakagami struct {
	M     float64
	Omega float64
}

func NewNakagami(m, omega float64) (*Nakagami, error) {
	if m < 0.5 || math.IsNaN(m) || math.IsInf(m, 0) {
		return nil, errors.New(errors.Invalid, "nakagami m must be >= 0.5, got %v", m)
	}
	if err := checkScale("nakagami omega", omega); err != nil {
		return nil, err
	}
	return &Nakagami{M: m, Omega: omega}, nil
}

// power |h|² is Gamma distributed with shape m and rate m/Ω
func (n *Nakagami) power(src rand.Source) distuv.Gamma {
	return distuv.Gamma{Alpha: n.M, Beta: n.M / n.Omega, Src: src}
}

func (n *Nakagami) PDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	lg, _ := math.Lgamma(n.M)
	logp := math.Ln2 + n.M*math.Log(n.M/n.Omega) - lg + (2*n.M-1)*math.Log(x) - n.M*x*x/n.Omega
	return math.Exp(logp)
}

func (n *Nakagami) CDF(x float64) float64 {
	if x <= 0 {
		return 0
	}
	return n.power(nil).CDF(x * x)
}

func (n *Nakagami) gammaRatio() float64 {
	a, _ := math.Lgamma(n.M + 0.5)
	b, _ := math.Lgamma(n.M)
	return math.Exp(a - b)
}

func (n *Nakagami) ExpectedValue() float64 {
	return n.gammaRatio() * math.Sqrt(n.Omega/n.M)
}

func (n *Nakagami) Variance() float64 {
	g := n.gammaRatio()
	return n.Omega * (1 - g*g/n.M)
}

func (n *Nakagami) RMSValue() float64 {
	return math.Sqrt(n.Omega)
}

// Sample draws the envelope from the Gamma distributed power and applies a uniform phase
func (n *Nakagami) Sample(rng *rand.Rand) complex128 {
	amp := math.Sqrt(n.power(rng).Rand())
	return complex(amp, 0) * uniformPhase(rng)
}
