// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package model

import (
	"strings"

	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// Model simulation model
type Model struct {
	Settings     string                    `mapstructure:"settings" yaml:"settings"`
	Realizations int                       `mapstructure:"realizations" yaml:"realizations"`
	Seed         uint64                    `mapstructure:"seed" yaml:"seed"`
	Comp         bool                      `mapstructure:"comp" yaml:"comp"`
	Fading       map[string]FadingConfig   `mapstructure:"fading" yaml:"fading"`
	Pathloss     map[string]PathlossConfig `mapstructure:"pathloss" yaml:"pathloss"`
	Transmitters []TransmitterConfig       `mapstructure:"transmitters" yaml:"transmitters"`
	Receivers    []ReceiverConfig          `mapstructure:"receivers" yaml:"receivers"`
	RIS          *RISConfig                `mapstructure:"ris" yaml:"ris"`
	Links        []LinkConfig              `mapstructure:"links" yaml:"links"`
	Constants    Constants                 `mapstructure:"constants" yaml:"constants"`
	Sweep        Sweep                     `mapstructure:"sweep" yaml:"sweep"`
}

// FadingConfig selects a small-scale fading distribution and its parameters
type FadingConfig struct {
	Type  string  `mapstructure:"type" yaml:"type"`
	Sigma float64 `mapstructure:"sigma" yaml:"sigma"`
	K     float64 `mapstructure:"k" yaml:"k"`
	KUnit string  `mapstructure:"kunit" yaml:"kunit"`
	M     float64 `mapstructure:"m" yaml:"m"`
	// Omega defaults to 1 when absent
	Omega *float64 `mapstructure:"omega" yaml:"omega"`
}

// PathlossConfig selects a large-scale attenuation model and its parameters
type PathlossConfig struct {
	Type  string  `mapstructure:"type" yaml:"type"`
	Alpha float64 `mapstructure:"alpha" yaml:"alpha"`
	P0    float64 `mapstructure:"p0" yaml:"p0"`
	D0    float64 `mapstructure:"d0" yaml:"d0"`
	Sigma float64 `mapstructure:"sigma" yaml:"sigma"`
}

// Allocation is the NOMA power fraction a transmitter assigns to one receiver
type Allocation struct {
	Receiver string  `mapstructure:"receiver" yaml:"receiver"`
	Fraction float64 `mapstructure:"fraction" yaml:"fraction"`
}

// TransmitterConfig describes a base station
type TransmitterConfig struct {
	Name        string       `mapstructure:"name" yaml:"name"`
	Position    []float64    `mapstructure:"position" yaml:"position"`
	AntennaGain float64      `mapstructure:"antennaGain" yaml:"antennaGain"`
	Losses      float64      `mapstructure:"losses" yaml:"losses"`
	Allocations []Allocation `mapstructure:"allocations" yaml:"allocations"`
}

// ReceiverConfig describes a user equipment
type ReceiverConfig struct {
	Name        string    `mapstructure:"name" yaml:"name"`
	Position    []float64 `mapstructure:"position" yaml:"position"`
	Sensitivity float64   `mapstructure:"sensitivity" yaml:"sensitivity"`
}

// AssignmentConfig overrides the default even split of RIS elements between the two transmitters
type AssignmentConfig struct {
	Elements []int     `mapstructure:"elements" yaml:"elements"`
	BetaR    []float64 `mapstructure:"betaR" yaml:"betaR"`
	BetaT    []float64 `mapstructure:"betaT" yaml:"betaT"`
}

// RISConfig describes the STAR-RIS surface
type RISConfig struct {
	Name       string            `mapstructure:"name" yaml:"name"`
	Position   []float64         `mapstructure:"position" yaml:"position"`
	Elements   int               `mapstructure:"elements" yaml:"elements"`
	Assignment *AssignmentConfig `mapstructure:"assignment" yaml:"assignment"`
}

// LinkConfig registers one (tx, rx) channel
type LinkConfig struct {
	Tx       string `mapstructure:"tx" yaml:"tx"`
	Rx       string `mapstructure:"rx" yaml:"rx"`
	Fading   string `mapstructure:"fading" yaml:"fading"`
	Pathloss string `mapstructure:"pathloss" yaml:"pathloss"`
	Role     string `mapstructure:"role" yaml:"role"`
	Elements int    `mapstructure:"elements" yaml:"elements"`
}

// Constants physical constants of the scenario
type Constants struct {
	Bandwidth    float64 `mapstructure:"bandwidth" yaml:"bandwidth"`
	Temperature  float64 `mapstructure:"temperature" yaml:"temperature"`
	Frequency    float64 `mapstructure:"frequency" yaml:"frequency"`
	NoiseFigure  float64 `mapstructure:"noiseFigure" yaml:"noiseFigure"`
	ShadowSigma  float64 `mapstructure:"shadowSigma" yaml:"shadowSigma"`
	CircuitPower float64 `mapstructure:"circuitPower" yaml:"circuitPower"`
}

// Sweep transmit power axis in dBm
type Sweep struct {
	MinDbm float64 `mapstructure:"minDbm" yaml:"minDbm"`
	MaxDbm float64 `mapstructure:"maxDbm" yaml:"maxDbm"`
	Points int     `mapstructure:"points" yaml:"points"`
}

// GetFading gets a fading model by name. Viper lowercases map keys, so the lookup falls back to a case-insensitive match.
func (m *Model) GetFading(name string) (FadingConfig, error) {
	if cfg, ok := lookup(m.Fading, name); ok {
		return cfg, nil
	}
	return FadingConfig{}, errors.New(errors.NotFound, "fading model %s not found", name)
}

// GetPathloss gets a pathloss model by name
func (m *Model) GetPathloss(name string) (PathlossConfig, error) {
	if cfg, ok := lookup(m.Pathloss, name); ok {
		return cfg, nil
	}
	return PathlossConfig{}, errors.New(errors.NotFound, "pathloss model %s not found", name)
}

func lookup[T any](models map[string]T, name string) (T, bool) {
	if cfg, ok := models[name]; ok {
		return cfg, true
	}
	for key, cfg := range models {
		if strings.EqualFold(key, name) {
			return cfg, true
		}
	}
	var zero T
	return zero, false
}
