// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"math"

	"github.com/onosproject/onos-lib-go/pkg/errors"
)

const powerSplitTolerance = 1e-9

// DefaultBeta is the amplitude of an even reflection/transmission power split
var DefaultBeta = 1 / math.Sqrt2

// Assignment overrides how the elements and amplitudes of a STAR-RIS are split.
// Zero-valued fields keep the default.
type Assignment struct {
	// Elements per transmitter, in transmitter order
	Elements [2]int
	// BetaR and BetaT hold one amplitude per element, or a single value for all elements
	BetaR []float64
	BetaT []float64
}

// STAR is a simultaneously transmitting and reflecting surface of K passive elements
type STAR struct {
	SystemObject
	Elements int
	// BetaR and BetaT are per-element amplitudes with BetaR[i]^2 + BetaT[i]^2 = 1
	BetaR []float64
	BetaT []float64
	// ThetaR and ThetaT are per-element phases in [0, 2π), Elements rows by realizations columns
	ThetaR     []float64
	ThetaT     []float64
	Assignment *Assignment
	blocks     [2]int
}

// NewSTAR validates the surface and its optional custom assignment
func NewSTAR(name string, position []float64, elements int, assignment *Assignment) (*STAR, error) {
	obj, err := newSystemObject(name, position)
	if err != nil {
		return nil, err
	}
	if elements <= 0 {
		return nil, errors.New(errors.Invalid, "STAR %s must have a positive number of elements, got %d", name, elements)
	}

	s := &STAR{
		SystemObject: obj,
		Elements:     elements,
		Assignment:   assignment,
		blocks:       [2]int{elements / 2, elements - elements/2},
	}
	betaR := []float64{DefaultBeta}
	betaT := []float64{DefaultBeta}

	if assignment != nil {
		if assignment.Elements != [2]int{} {
			a, b := assignment.Elements[0], assignment.Elements[1]
			if a < 0 || b < 0 || a+b != elements {
				return nil, errors.New(errors.Invalid, "assignment %v of STAR %s must be non-negative and sum to %d", assignment.Elements, name, elements)
			}
			s.blocks = assignment.Elements
		}
		if len(assignment.BetaR) > 0 || len(assignment.BetaT) > 0 {
			if len(assignment.BetaR) == 0 || len(assignment.BetaT) == 0 {
				return nil, errors.New(errors.Invalid, "STAR %s needs both reflection and transmission amplitudes", name)
			}
			betaR, betaT = assignment.BetaR, assignment.BetaT
		}
	}

	if s.BetaR, err = expand(name, betaR, elements); err != nil {
		return nil, err
	}
	if s.BetaT, err = expand(name, betaT, elements); err != nil {
		return nil, err
	}
	if err := s.ValidatePowerSplit(); err != nil {
		return nil, err
	}
	return s, nil
}

func expand(name string, beta []float64, elements int) ([]float64, error) {
	out := make([]float64, elements)
	switch len(beta) {
	case 1:
		for i := range out {
			out[i] = beta[0]
		}
	case elements:
		copy(out, beta)
	default:
		return nil, errors.New(errors.Invalid, "STAR %s needs 1 or %d amplitudes, got %d", name, elements, len(beta))
	}
	return out, nil
}

func (s *STAR) Kind() Kind {
	return KindSTAR
}

// ValidatePowerSplit checks every element amplitude lies in [0,1] and that no energy is absorbed
func (s *STAR) ValidatePowerSplit() error {
	if len(s.BetaR) != s.Elements || len(s.BetaT) != s.Elements {
		return errors.New(errors.Invalid, "STAR %s amplitudes must have %d entries", s.Name, s.Elements)
	}
	for i := 0; i < s.Elements; i++ {
		r, t := s.BetaR[i], s.BetaT[i]
		if r < 0 || r > 1 || t < 0 || t > 1 {
			return errors.New(errors.Invalid, "STAR %s element %d amplitudes (%v, %v) outside [0,1]", s.Name, i, r, t)
		}
		if math.Abs(r*r+t*t-1) > powerSplitTolerance {
			return errors.New(errors.Invalid, "STAR %s element %d violates beta_r^2 + beta_t^2 = 1: %v", s.Name, i, r*r+t*t)
		}
	}
	return nil
}

// Block returns the half-open element range [start, end) assigned to transmitter k (0 or 1)
func (s *STAR) Block(k int) (int, int) {
	if k == 0 {
		return 0, s.blocks[0]
	}
	return s.blocks[0], s.Elements
}

// BlockSize returns the number of elements assigned to transmitter k
func (s *STAR) BlockSize(k int) int {
	start, end := s.Block(k)
	return end - start
}
