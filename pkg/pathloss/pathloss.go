// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package pathloss

import (
	"math"
	"strings"

	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/nfvri/star-ris-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/stat/distuv"
)

const (
	TypeFreeSpace   = "free-space"
	TypeFriis       = "friis"
	TypeLogDistance = "log-distance"
)

// Model computes the large-scale attenuation in dB
type Model interface {
	Loss(distance, frequency float64) (float64, error)
}

// NewModel builds the pathloss model named by cfg.Type. src feeds the shadowing draws of
// the log-distance model and must not be shared with the fading generator.
func NewModel(cfg model.PathlossConfig, src rand.Source) (Model, error) {
	switch strings.ToLower(cfg.Type) {
	case TypeFreeSpace:
		if cfg.Alpha <= 0 {
			return nil, errors.New(errors.Invalid, "free-space alpha must be positive, got %v", cfg.Alpha)
		}
		return &FreeSpace{Alpha: cfg.Alpha, P0: cfg.P0}, nil
	case TypeFriis:
		return &Friis{}, nil
	case TypeLogDistance:
		if cfg.Alpha <= 0 {
			return nil, errors.New(errors.Invalid, "log-distance alpha must be positive, got %v", cfg.Alpha)
		}
		if cfg.D0 <= 0 {
			return nil, errors.New(errors.Invalid, "log-distance breakpoint d0 must be positive, got %v", cfg.D0)
		}
		if cfg.Sigma < 0 {
			return nil, errors.New(errors.Invalid, "log-distance sigma must not be negative, got %v", cfg.Sigma)
		}
		if src == nil {
			return nil, errors.New(errors.Invalid, "log-distance needs a shadowing source")
		}
		return &LogDistance{
			Alpha:     cfg.Alpha,
			D0:        cfg.D0,
			Shadowing: distuv.Normal{Mu: 0, Sigma: cfg.Sigma, Src: src},
		}, nil
	}
	return nil, errors.New(errors.Invalid, "unknown pathloss model %q", cfg.Type)
}

func checkDistance(d float64) error {
	if d <= 0 || math.IsNaN(d) {
		return errors.New(errors.Invalid, "distance must be positive, got %v", d)
	}
	return nil
}

// FreeSpace reference-distance model PL(d) = p0 + 10·α·log10(d). Distances below 1m are
// clamped to 1m.
type FreeSpace struct {
	Alpha float64
	P0    float64
}

func (m *FreeSpace) Loss(distance, _ float64) (float64, error) {
	if err := checkDistance(distance); err != nil {
		return 0, err
	}
	if distance < 1 {
		distance = 1
	}
	return m.P0 + 10*m.Alpha*math.Log10(distance), nil
}

// Friis free-space loss 20·log10(4πd/λ)
type Friis struct{}

func (m *Friis) Loss(distance, frequency float64) (float64, error) {
	if err := checkDistance(distance); err != nil {
		return 0, err
	}
	return friis(distance, frequency)
}

func friis(distance, frequency float64) (float64, error) {
	if frequency <= 0 {
		return 0, errors.New(errors.Invalid, "frequency must be positive, got %v", frequency)
	}
	lambda := utils.SpeedOfLight / frequency
	return 20 * math.Log10(4*math.Pi*distance/lambda), nil
}

// LogDistance breakpoint model: Friis below D0, exponent Alpha beyond it, plus zero-mean
// Gaussian shadowing drawn on every call
type LogDistance struct {
	Alpha     float64
	D0        float64
	Shadowing distuv.Normal
}

func (m *LogDistance) Loss(distance, frequency float64) (float64, error) {
	if err := checkDistance(distance); err != nil {
		return 0, err
	}
	var loss float64
	var err error
	if distance <= m.D0 {
		loss, err = friis(distance, frequency)
	} else {
		loss, err = friis(m.D0, frequency)
		loss += 10 * m.Alpha * math.Log10(distance/m.D0)
	}
	if err != nil {
		return 0, err
	}
	shadow := 0.0
	if m.Shadowing.Sigma > 0 {
		shadow = m.Shadowing.Rand()
	}
	log.Tracef("log-distance d=%v loss=%v shadowing=%v", distance, loss, shadow)
	return loss + shadow, nil
}
