// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package star

import (
	"math/cmplx"

	"github.com/nfvri/star-ris-simulator/pkg/channel"
	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/nfvri/star-ris-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
)

// Registry is the part of the link collection the combiner reads and updates
type Registry interface {
	Size() int
	GetLink(tx, rx model.Object) (*channel.Channel, error)
	UpdateLink(tx, rx model.Object, value []complex128) error
}

// Combiner folds the paths through a STAR-RIS into the direct links of a registry.
// It is the only writer of the registry while combining.
type Combiner struct {
	ris   *model.STAR
	links Registry
}

func NewCombiner(ris *model.STAR, links Registry) (*Combiner, error) {
	if ris == nil {
		return nil, errors.New(errors.Invalid, "combiner needs a STAR-RIS")
	}
	if err := ris.ValidatePowerSplit(); err != nil {
		return nil, err
	}
	return &Combiner{ris: ris, links: links}, nil
}

// path is one transmitter -> RIS -> receiver route served by an element block
type path struct {
	tx, rx model.Object
	block  int
}

type update struct {
	tx, rx model.Object
	value  []complex128
}

// SetReflectionParameters co-phases the reflected paths of each transmitter's element block with
// the direct link to its cell-center user: transmitters[k] serves receivers[k] through block k.
func (c *Combiner) SetReflectionParameters(transmitters, receivers []model.Object) error {
	if len(transmitters) != 2 {
		return errors.New(errors.NotSupported, "there must be exactly 2 base stations, got %d", len(transmitters))
	}
	if len(receivers) != 2 {
		return errors.New(errors.NotSupported, "there must be exactly 2 cell-center receivers, got %d", len(receivers))
	}
	paths := []path{
		{tx: transmitters[0], rx: receivers[0], block: 0},
		{tx: transmitters[1], rx: receivers[1], block: 1},
	}
	theta, updates, err := c.combine(paths, c.ris.BetaR)
	if err != nil {
		return err
	}
	c.ris.ThetaR = theta
	return c.apply(updates)
}

// SetTransmissionParameters co-phases the transmitted paths towards the far user, which both
// transmitters serve jointly, each through its own element block.
func (c *Combiner) SetTransmissionParameters(transmitters []model.Object, receiver model.Object) error {
	if len(transmitters) != 2 {
		return errors.New(errors.NotSupported, "there must be exactly 2 base stations, got %d", len(transmitters))
	}
	if receiver == nil {
		return errors.New(errors.NotSupported, "a far receiver is required")
	}
	paths := []path{
		{tx: transmitters[0], rx: receiver, block: 0},
		{tx: transmitters[1], rx: receiver, block: 1},
	}
	theta, updates, err := c.combine(paths, c.ris.BetaT)
	if err != nil {
		return err
	}
	c.ris.ThetaT = theta
	return c.apply(updates)
}

// MergeLink sets the reflection towards receivers[0:2] and then the transmission towards
// the far user receivers[2]
func (c *Combiner) MergeLink(transmitters, receivers []model.Object) error {
	if len(receivers) != 3 {
		return errors.New(errors.NotSupported, "there must be exactly 3 receivers (2 center, 1 far), got %d", len(receivers))
	}
	if err := c.SetReflectionParameters(transmitters, receivers[:2]); err != nil {
		return err
	}
	if err := c.SetTransmissionParameters(transmitters, receivers[2]); err != nil {
		return err
	}
	log.Infof("Merged STAR-RIS %s paths for %d transmitters and %d receivers", c.ris.Name, len(transmitters), len(receivers))
	return nil
}

// combine computes the per-element phases of every path and the composite coefficient
// Σ β_i·e^{jθ_i}·h(tx,RIS)_i·h(RIS,rx)_i to fold into each direct link
func (c *Combiner) combine(paths []path, beta []float64) ([]float64, []update, error) {
	n := c.links.Size()
	theta := make([]float64, c.ris.Elements*n)
	updates := make([]update, 0, len(paths))

	for _, p := range paths {
		direct, err := c.links.GetLink(p.tx, p.rx)
		if err != nil {
			return nil, nil, err
		}
		incident, err := c.links.GetLink(p.tx, c.ris)
		if err != nil {
			return nil, nil, err
		}
		outgoing, err := c.links.GetLink(c.ris, p.rx)
		if err != nil {
			return nil, nil, err
		}
		if direct.Shape.Rows != 1 {
			return nil, nil, errors.New(errors.Invalid, "direct link %s -> %s must have a single row, got %v",
				p.tx.GetName(), p.rx.GetName(), direct.Shape)
		}
		for _, ch := range []*channel.Channel{direct, incident, outgoing} {
			if ch.Shape.Cols != n {
				return nil, nil, errors.New(errors.Invalid, "link %s -> %s has %d realizations, expected %d",
					ch.Tx.GetName(), ch.Rx.GetName(), ch.Shape.Cols, n)
			}
		}

		start, end := c.ris.Block(p.block)
		directPhase := direct.Angle()
		composite := make([]complex128, n)
		for i := start; i < end; i++ {
			r1, err := c.row(incident, i, p.block)
			if err != nil {
				return nil, nil, err
			}
			r2, err := c.row(outgoing, i, p.block)
			if err != nil {
				return nil, nil, err
			}
			h1, h2 := incident.Row(r1), outgoing.Row(r2)
			for k := 0; k < n; k++ {
				phase := utils.WrapTo2Pi(directPhase[k] - utils.WrapTo2Pi(cmplx.Phase(h1[k])) - utils.WrapTo2Pi(cmplx.Phase(h2[k])))
				theta[i*n+k] = phase
				composite[k] += complex(beta[i], 0) * cmplx.Rect(1, phase) * h1[k] * h2[k]
			}
		}
		updates = append(updates, update{tx: p.tx, rx: p.rx, value: composite})
		log.Debugf("STAR-RIS %s elements [%d,%d) co-phased with %s -> %s", c.ris.Name, start, end, p.tx.GetName(), p.rx.GetName())
	}
	return theta, updates, nil
}

// row maps element i onto a row of a RIS sub-link. A sub-link holds either one row shared
// by all elements, a row per element of the surface, or a row per element of the block.
func (c *Combiner) row(ch *channel.Channel, i, block int) (int, error) {
	start, end := c.ris.Block(block)
	switch ch.Shape.Rows {
	case 1:
		return 0, nil
	case c.ris.Elements:
		return i, nil
	case end - start:
		return i - start, nil
	}
	return 0, errors.New(errors.Invalid, "RIS link %s -> %s has %d rows, expected 1, %d or %d",
		ch.Tx.GetName(), ch.Rx.GetName(), ch.Shape.Rows, c.ris.Elements, end-start)
}

func (c *Combiner) apply(updates []update) error {
	for _, u := range updates {
		if err := c.links.UpdateLink(u.tx, u.rx, u.value); err != nil {
			return err
		}
	}
	return nil
}
