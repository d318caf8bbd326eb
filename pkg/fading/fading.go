// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package fading

import (
	"math"
	"strings"

	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"golang.org/x/exp/rand"
)

const (
	TypeRayleigh = "rayleigh"
	TypeRician   = "rician"
	TypeNakagami = "nakagami"
)

// Distribution is a small-scale fading model. Its analytical functions describe the
// envelope |h| and Sample draws one complex coefficient h.
type Distribution interface {
	PDF(x float64) float64
	CDF(x float64) float64
	ExpectedValue() float64
	Variance() float64
	RMSValue() float64
	Sample(rng *rand.Rand) complex128
}

// NewModel builds the distribution named by cfg.Type, rejecting unknown types and bad parameters
func NewModel(cfg model.FadingConfig) (Distribution, error) {
	switch strings.ToLower(cfg.Type) {
	case TypeRayleigh:
		return NewRayleigh(cfg.Sigma)
	case TypeRician:
		k := cfg.K
		switch strings.ToLower(cfg.KUnit) {
		case "", "linear":
			if k <= 0 || math.IsNaN(k) {
				return nil, errors.New(errors.Invalid, "rician K must be positive, got %v", k)
			}
		case "db":
			k = math.Pow(10, k/10)
		default:
			return nil, errors.New(errors.Invalid, "unknown rician K unit %s", cfg.KUnit)
		}
		return NewRician(k, cfg.Sigma)
	case TypeNakagami:
		omega := 1.0
		if cfg.Omega != nil {
			omega = *cfg.Omega
		}
		return NewNakagami(cfg.M, omega)
	}
	return nil, errors.New(errors.Invalid, "unknown fading model %q", cfg.Type)
}

// Generate draws rows*cols coefficients, row-major
func Generate(d Distribution, rng *rand.Rand, rows, cols int) []complex128 {
	out := make([]complex128, rows*cols)
	for i := range out {
		out[i] = d.Sample(rng)
	}
	return out
}

func checkScale(name string, v float64) error {
	if v <= 0 || math.IsNaN(v) || math.IsInf(v, 0) {
		return errors.New(errors.Invalid, "%s must be positive, got %v", name, v)
	}
	return nil
}

func uniformPhase(rng *rand.Rand) complex128 {
	phi := (2*rng.Float64() - 1) * math.Pi
	return complex(math.Cos(phi), math.Sin(phi))
}
