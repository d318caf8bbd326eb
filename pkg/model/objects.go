// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"fmt"
	"math"

	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Kind tags the role of a system object
type Kind int

const (
	KindTransmitter Kind = iota
	KindReceiver
	KindSTAR
)

func (k Kind) String() string {
	switch k {
	case KindTransmitter:
		return "transmitter"
	case KindReceiver:
		return "receiver"
	case KindSTAR:
		return "star"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// Object is any positioned entity that can terminate a link
type Object interface {
	GetName() string
	GetPosition() []float64
	Kind() Kind
}

// SystemObject carries the identity and position shared by every entity
type SystemObject struct {
	Name     string
	position []float64
}

func newSystemObject(name string, position []float64) (SystemObject, error) {
	if name == "" {
		return SystemObject{}, errors.New(errors.Invalid, "system object name must not be empty")
	}
	if len(position) != 2 && len(position) != 3 {
		return SystemObject{}, errors.New(errors.Invalid, "position of %s must be 2 or 3 dimensional, got %d", name, len(position))
	}
	p := make([]float64, len(position))
	copy(p, position)
	return SystemObject{Name: name, position: p}, nil
}

func (o *SystemObject) GetName() string {
	return o.Name
}

// GetPosition returns a copy of the position
func (o *SystemObject) GetPosition() []float64 {
	p := make([]float64, len(o.position))
	copy(p, o.position)
	return p
}

// Transmitter is a base station serving its receivers through NOMA superposition
type Transmitter struct {
	SystemObject
	// TransmitPower in watts, one entry per sweep point
	TransmitPower []float64
	AntennaGain   float64
	Losses        float64
	// Allocations maps receiver name to its power fraction
	Allocations map[string]float64
}

func NewTransmitter(name string, position []float64, transmitPower []float64, allocations map[string]float64) (*Transmitter, error) {
	obj, err := newSystemObject(name, position)
	if err != nil {
		return nil, err
	}
	for rx, a := range allocations {
		if a < 0 || a > 1 || math.IsNaN(a) {
			return nil, errors.New(errors.Invalid, "allocation %v of %s to %s is outside [0,1]", a, name, rx)
		}
	}
	allocs := make(map[string]float64, len(allocations))
	for rx, a := range allocations {
		allocs[rx] = a
	}
	return &Transmitter{
		SystemObject:  obj,
		TransmitPower: transmitPower,
		Allocations:   allocs,
	}, nil
}

func (t *Transmitter) Kind() Kind {
	return KindTransmitter
}

// Allocation returns the power fraction assigned to rx, zero if rx is not served
func (t *Transmitter) Allocation(rx string) float64 {
	return t.Allocations[rx]
}

// ValidateAllocations checks that the fractions sum to at most one.
// In strict mode an excess is an error, otherwise it is only logged.
func (t *Transmitter) ValidateAllocations(strict bool) error {
	sum := 0.0
	for _, a := range t.Allocations {
		sum += a
	}
	if sum <= 1+1e-9 {
		return nil
	}
	if strict {
		return errors.New(errors.Invalid, "allocations of %s sum to %v > 1", t.Name, sum)
	}
	log.Warnf("Allocations of %s sum to %v > 1", t.Name, sum)
	return nil
}

// Receiver is a user equipment. Rate, Outage and SNR are filled in by the simulation.
type Receiver struct {
	SystemObject
	// Sensitivity in dBm
	Sensitivity float64
	Rate        []float64
	Outage      []float64
	SNR         []float64
}

func NewReceiver(name string, position []float64, sensitivity float64) (*Receiver, error) {
	obj, err := newSystemObject(name, position)
	if err != nil {
		return nil, err
	}
	return &Receiver{SystemObject: obj, Sensitivity: sensitivity}, nil
}

func (r *Receiver) Kind() Kind {
	return KindReceiver
}
