// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package channel

import (
	"fmt"
	"math/cmplx"

	"github.com/nfvri/star-ris-simulator/pkg/fading"
	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/nfvri/star-ris-simulator/pkg/pathloss"
	"github.com/nfvri/star-ris-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"golang.org/x/exp/rand"
	"gonum.org/v1/gonum/cmplxs"
)

// Streams are the random sources of one simulation run. Fading and shadowing draw from
// separate generators so that changing one model does not perturb the other.
type Streams struct {
	Fading    *rand.Rand
	Shadowing *rand.Rand
}

// NewStreams seeds both streams from a single run seed
func NewStreams(seed uint64) *Streams {
	return &Streams{
		Fading:    rand.New(rand.NewSource(seed)),
		Shadowing: rand.New(rand.NewSource(seed ^ 0x9e3779b97f4a7c15)),
	}
}

// Shape of the coefficient matrix. Rows are RIS elements (1 for a direct link) and
// columns are Monte-Carlo realizations.
type Shape struct {
	Rows int
	Cols int
}

func (s Shape) Size() int {
	return s.Rows * s.Cols
}

func (s Shape) String() string {
	return fmt.Sprintf("(%d, %d)", s.Rows, s.Cols)
}

// Channel is the stochastic link between one transmitting and one receiving object.
// It refers to its endpoints without owning them.
type Channel struct {
	Tx         model.Object
	Rx         model.Object
	Frequency  float64
	Fading     model.FadingConfig
	Pathloss   model.PathlossConfig
	Shape      Shape
	NoLink     bool
	Distance   float64
	PathlossDb float64
	// Coefficients row-major, fading × 10^(-PathlossDb/20)
	Coefficients []complex128
	// Ext accumulates every contribution folded in through Update
	Ext []complex128
}

// New draws the coefficients of a link. A no-link channel keeps its distance and
// pathloss bookkeeping but carries zero gain.
func New(tx, rx model.Object, frequency float64, fadingCfg model.FadingConfig, pathlossCfg model.PathlossConfig,
	shape Shape, noLink bool, streams *Streams) (*Channel, error) {
	if shape.Rows <= 0 || shape.Cols <= 0 {
		return nil, errors.New(errors.Invalid, "channel %s -> %s shape %v must be positive", tx.GetName(), rx.GetName(), shape)
	}
	if streams == nil || streams.Fading == nil || streams.Shadowing == nil {
		return nil, errors.New(errors.Invalid, "channel %s -> %s needs random streams", tx.GetName(), rx.GetName())
	}
	distance, err := utils.Distance(tx.GetPosition(), rx.GetPosition())
	if err != nil {
		return nil, errors.New(errors.Invalid, "channel %s -> %s: %v", tx.GetName(), rx.GetName(), err)
	}
	distribution, err := fading.NewModel(fadingCfg)
	if err != nil {
		return nil, err
	}
	plModel, err := pathloss.NewModel(pathlossCfg, streams.Shadowing)
	if err != nil {
		return nil, err
	}
	loss, err := plModel.Loss(distance, frequency)
	if err != nil {
		return nil, err
	}

	c := &Channel{
		Tx:         tx,
		Rx:         rx,
		Frequency:  frequency,
		Fading:     fadingCfg,
		Pathloss:   pathlossCfg,
		Shape:      shape,
		NoLink:     noLink,
		Distance:   distance,
		PathlossDb: loss,
	}
	if noLink {
		c.Coefficients = make([]complex128, shape.Size())
	} else {
		c.Coefficients = fading.Generate(distribution, streams.Fading, shape.Rows, shape.Cols)
		cmplxs.Scale(complex(utils.AmplitudeFromDb(loss), 0), c.Coefficients)
	}
	log.Debugf("Channel %s -> %s distance=%.2fm pathloss=%.2fdB shape=%v noLink=%v",
		tx.GetName(), rx.GetName(), distance, loss, shape, noLink)
	return c, nil
}

// Update adds value element-wise into the coefficients. Contributions accumulate; nothing
// is overwritten.
func (c *Channel) Update(value []complex128) error {
	if len(value) != len(c.Coefficients) {
		return errors.New(errors.Invalid, "update of %s -> %s has %d values, channel has %d",
			c.Tx.GetName(), c.Rx.GetName(), len(value), len(c.Coefficients))
	}
	if c.Ext == nil {
		c.Ext = make([]complex128, len(value))
	}
	cmplxs.Add(c.Coefficients, value)
	cmplxs.Add(c.Ext, value)
	return nil
}

// Row returns the realizations of element i. The slice aliases the coefficients.
func (c *Channel) Row(i int) []complex128 {
	return c.Coefficients[i*c.Shape.Cols : (i+1)*c.Shape.Cols]
}

// Gain returns |h| per coefficient
func (c *Channel) Gain() []float64 {
	out := make([]float64, len(c.Coefficients))
	for i, h := range c.Coefficients {
		out[i] = cmplx.Abs(h)
	}
	return out
}

// PowerGain returns |h|² per coefficient
func (c *Channel) PowerGain() []float64 {
	out := make([]float64, len(c.Coefficients))
	for i, h := range c.Coefficients {
		out[i] = real(h)*real(h) + imag(h)*imag(h)
	}
	return out
}

// Angle returns the phase of each coefficient wrapped to [0, 2π)
func (c *Channel) Angle() []float64 {
	out := make([]float64, len(c.Coefficients))
	for i, h := range c.Coefficients {
		out[i] = utils.WrapTo2Pi(cmplx.Phase(h))
	}
	return out
}
