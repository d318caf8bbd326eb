// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package simulation

import (
	"context"
	"math"
	"sync/atomic"
	"testing"

	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/nfvri/star-ris-simulator/pkg/signal"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixedGains struct {
	size  int
	gains map[[2]string][]float64
}

func (f *fixedGains) Size() int {
	return f.size
}

func (f *fixedGains) PowerGain(tx, rx model.Object) ([]float64, error) {
	if g, ok := f.gains[[2]string{tx.GetName(), rx.GetName()}]; ok {
		return g, nil
	}
	return nil, errors.New(errors.NotFound, "link %s -> %s not found", tx.GetName(), rx.GetName())
}

type counter struct {
	n int64
}

func (c *counter) PointEvaluated() {
	atomic.AddInt64(&c.n, 1)
}

func newScenario(t *testing.T) Scenario {
	bs1, err := model.NewTransmitter("BS1", []float64{-50, 0, 25}, nil, map[string]float64{"U1c": 0.3, "Uf": 0.7})
	require.NoError(t, err)
	bs2, err := model.NewTransmitter("BS2", []float64{50, 0, 25}, nil, map[string]float64{"U2c": 0.3, "Uf": 0.7})
	require.NoError(t, err)
	u1c, err := model.NewReceiver("U1c", []float64{-40, 18, 1}, -110)
	require.NoError(t, err)
	u2c, err := model.NewReceiver("U2c", []float64{30, 22, 1}, -110)
	require.NoError(t, err)
	uf, err := model.NewReceiver("Uf", []float64{0, 35, 1}, -110)
	require.NoError(t, err)
	return Scenario{BS1: bs1, BS2: bs2, U1c: u1c, U2c: u2c, Uf: uf}
}

func newGains() *fixedGains {
	return &fixedGains{
		size: 2,
		gains: map[[2]string][]float64{
			{"BS1", "U1c"}: {1e-8, 2e-8},
			{"BS2", "U1c"}: {1e-12, 1e-12},
			{"BS2", "U2c"}: {3e-8, 1e-8},
			{"BS1", "U2c"}: {2e-12, 1e-12},
			{"BS1", "Uf"}:  {1e-10, 4e-10},
			{"BS2", "Uf"}:  {2e-10, 1e-10},
		},
	}
}

func TestRunMatchesClosedForm(t *testing.T) {
	sc := newScenario(t)
	links := newGains()
	rec := &counter{}
	cfg := Config{
		PowerDbm:     []float64{0, 10, 20},
		NoiseDbm:     -100,
		ShadowSigma:  6.32,
		CircuitPower: 1e-3,
		Comp:         true,
		Workers:      2,
		Recorder:     rec,
	}
	res, err := Run(context.Background(), links, sc, cfg)
	require.NoError(t, err)
	assert.Equal(t, int64(3), rec.n)
	assert.Equal(t, 3, len(res.Users))
	assert.Equal(t, "Uf", res.Users[2].Name)

	pt := 0.01 // 10 dBm
	n0 := 1e-13
	g := links.gains
	snrU1c := [2]float64{}
	rateSum := 0.0
	for k := 0; k < 2; k++ {
		snrU1c[k] = 0.3 * pt * g[[2]string{"BS1", "U1c"}][k] / (pt*g[[2]string{"BS2", "U1c"}][k] + n0)
		snrU2c := 0.3 * pt * g[[2]string{"BS2", "U2c"}][k] / (pt*g[[2]string{"BS1", "U2c"}][k] + n0)
		s1 := pt * g[[2]string{"BS1", "Uf"}][k] / n0
		s2 := pt * g[[2]string{"BS2", "Uf"}][k] / n0
		snrUf := (0.7*s1 + 0.7*s2) / (0.3*s1 + 0.3*s2 + 1)
		rateSum += math.Log2(1+snrU1c[k]) + math.Log2(1+snrU2c) + math.Log2(1+snrUf)
	}
	expectedRate := (math.Log2(1+snrU1c[0]) + math.Log2(1+snrU1c[1])) / 2
	assert.InDelta(t, expectedRate, res.Users[0].Rate[1], 1e-12)
	assert.InDelta(t, rateSum/2, res.SumRate[1], 1e-12)
	assert.Equal(t, res.SumRate, res.SpectralEfficiency)
	assert.InDelta(t, rateSum/2/(2*pt+1e-3), res.EnergyEfficiency[1], 1e-9)

	expectedOutage := (signal.Outage(snrU1c[0], -100, -110, 6.32) + signal.Outage(snrU1c[1], -100, -110, 6.32)) / 2
	assert.InDelta(t, expectedOutage, res.Users[0].Outage[1], 1e-12)

	// results are mirrored onto the receivers
	assert.Equal(t, res.Users[1].Rate, sc.U2c.Rate)
	assert.Equal(t, 3, len(sc.Uf.Outage))

	for u := range res.Users {
		for p := 1; p < 3; p++ {
			assert.GreaterOrEqual(t, res.Users[u].Rate[p], res.Users[u].Rate[p-1])
		}
	}
}

func TestCoMPHelpsFarUser(t *testing.T) {
	cfg := Config{PowerDbm: []float64{-10, 0, 10, 20}, NoiseDbm: -100, ShadowSigma: 6.32, CircuitPower: 1e-3}
	nonComp, err := Run(context.Background(), newGains(), newScenario(t), cfg)
	require.NoError(t, err)
	cfg.Comp = true
	comp, err := Run(context.Background(), newGains(), newScenario(t), cfg)
	require.NoError(t, err)
	for p := range cfg.PowerDbm {
		assert.GreaterOrEqual(t, comp.Users[2].Rate[p], nonComp.Users[2].Rate[p])
		// center users do not depend on the far user scheme
		assert.Equal(t, comp.Users[0].Rate[p], nonComp.Users[0].Rate[p])
	}
	assert.False(t, nonComp.Comp)
}

func TestRunErrors(t *testing.T) {
	sc := newScenario(t)
	cfg := Config{PowerDbm: []float64{0}, NoiseDbm: -100, ShadowSigma: 6.32}

	_, err := Run(context.Background(), newGains(), Scenario{BS1: sc.BS1}, cfg)
	assert.True(t, errors.IsType(err, errors.NotSupported))

	_, err = Run(context.Background(), newGains(), sc, Config{NoiseDbm: -100, ShadowSigma: 6.32})
	assert.True(t, errors.IsInvalid(err))

	_, err = Run(context.Background(), newGains(), sc, Config{PowerDbm: []float64{0}})
	assert.True(t, errors.IsInvalid(err))

	missing := newGains()
	delete(missing.gains, [2]string{"BS2", "Uf"})
	_, err = Run(context.Background(), missing, sc, cfg)
	assert.True(t, errors.IsNotFound(err))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	cfg.PowerDbm = []float64{0, 1, 2, 3}
	cfg.Workers = 1
	_, err = Run(ctx, newGains(), sc, cfg)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPowerAxis(t *testing.T) {
	axis, err := PowerAxis(-50, 30, 161)
	require.NoError(t, err)
	assert.Equal(t, 161, len(axis))
	assert.Equal(t, -50.0, axis[0])
	assert.Equal(t, 30.0, axis[160])
	assert.InDelta(t, 0.5, axis[1]-axis[0], 1e-12)

	axis, err = PowerAxis(10, 10, 1)
	require.NoError(t, err)
	assert.Equal(t, []float64{10}, axis)

	_, err = PowerAxis(0, 10, 0)
	assert.True(t, errors.IsInvalid(err))
	_, err = PowerAxis(10, 0, 5)
	assert.True(t, errors.IsInvalid(err))
}
