// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package simulation

import (
	"context"
	"runtime"
	"sync"

	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/nfvri/star-ris-simulator/pkg/signal"
	"github.com/nfvri/star-ris-simulator/pkg/statistics"
	"github.com/nfvri/star-ris-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/floats"
)

// GainReader is the read side of a merged link collection
type GainReader interface {
	Size() int
	PowerGain(tx, rx model.Object) ([]float64, error)
}

// Recorder observes sweep progress
type Recorder interface {
	PointEvaluated()
}

// Scenario is the two-cell NOMA downlink: BS1 serves U1c, BS2 serves U2c and both serve Uf
type Scenario struct {
	BS1 *model.Transmitter
	BS2 *model.Transmitter
	U1c *model.Receiver
	U2c *model.Receiver
	Uf  *model.Receiver
}

// Config of a transmit power sweep
type Config struct {
	PowerDbm     []float64
	NoiseDbm     float64
	ShadowSigma  float64
	CircuitPower float64
	Comp         bool
	Workers      int
	Recorder     Recorder
}

// UserResult holds per power point averages for one receiver
type UserResult struct {
	Name   string    `json:"name"`
	Rate   []float64 `json:"rate"`
	Outage []float64 `json:"outage"`
	SNR    []float64 `json:"snr"`
}

// Results of a sweep, one entry per power point
type Results struct {
	ID                 string       `json:"id"`
	Settings           string       `json:"settings"`
	Comp               bool         `json:"comp"`
	PowerDbm           []float64    `json:"powerDbm"`
	Users              []UserResult `json:"users"`
	SumRate            []float64    `json:"sumRate"`
	SpectralEfficiency []float64    `json:"spectralEfficiency"`
	EnergyEfficiency   []float64    `json:"energyEfficiency"`
}

// PowerAxis spans points transmit powers from minDbm to maxDbm
func PowerAxis(minDbm, maxDbm float64, points int) ([]float64, error) {
	if points < 1 {
		return nil, errors.New(errors.Invalid, "sweep needs at least one point, got %d", points)
	}
	if points == 1 {
		return []float64{minDbm}, nil
	}
	if maxDbm < minDbm {
		return nil, errors.New(errors.Invalid, "sweep max %v below min %v", maxDbm, minDbm)
	}
	return floats.Span(make([]float64, points), minDbm, maxDbm), nil
}

type gains struct {
	bs1u1c, bs2u1c []float64
	bs2u2c, bs1u2c []float64
	bs1uf, bs2uf   []float64
}

func (s Scenario) read(links GainReader) (*gains, error) {
	g := &gains{}
	reads := []struct {
		dst    *[]float64
		tx, rx model.Object
	}{
		{&g.bs1u1c, s.BS1, s.U1c},
		{&g.bs2u1c, s.BS2, s.U1c},
		{&g.bs2u2c, s.BS2, s.U2c},
		{&g.bs1u2c, s.BS1, s.U2c},
		{&g.bs1uf, s.BS1, s.Uf},
		{&g.bs2uf, s.BS2, s.Uf},
	}
	for _, r := range reads {
		v, err := links.PowerGain(r.tx, r.rx)
		if err != nil {
			return nil, err
		}
		if len(v) != links.Size() {
			return nil, errors.New(errors.Invalid, "link %s -> %s is not a direct link", r.tx.GetName(), r.rx.GetName())
		}
		*r.dst = v
	}
	return g, nil
}

// Run evaluates the NOMA metrics at every power point. The link collection is only read, so
// power points are evaluated concurrently; each worker writes its own column.
func Run(ctx context.Context, links GainReader, sc Scenario, cfg Config) (*Results, error) {
	if sc.BS1 == nil || sc.BS2 == nil || sc.U1c == nil || sc.U2c == nil || sc.Uf == nil {
		return nil, errors.New(errors.NotSupported, "sweep needs two transmitters and three receivers")
	}
	if len(cfg.PowerDbm) == 0 {
		return nil, errors.New(errors.Invalid, "sweep has no power points")
	}
	if cfg.ShadowSigma <= 0 {
		return nil, errors.New(errors.Invalid, "shadowing sigma must be positive, got %v", cfg.ShadowSigma)
	}
	g, err := sc.read(links)
	if err != nil {
		return nil, err
	}

	points := len(cfg.PowerDbm)
	receivers := []*model.Receiver{sc.U1c, sc.U2c, sc.Uf}
	res := &Results{
		Comp:               cfg.Comp,
		PowerDbm:           append([]float64(nil), cfg.PowerDbm...),
		SumRate:            make([]float64, points),
		SpectralEfficiency: make([]float64, points),
		EnergyEfficiency:   make([]float64, points),
	}
	for _, rx := range receivers {
		res.Users = append(res.Users, UserResult{
			Name:   rx.Name,
			Rate:   make([]float64, points),
			Outage: make([]float64, points),
			SNR:    make([]float64, points),
		})
	}

	workers := cfg.Workers
	if workers <= 0 {
		workers = runtime.GOMAXPROCS(0)
	}
	sem := make(chan struct{}, workers)
	var wg sync.WaitGroup

	for p := 0; p < points; p++ {
		if err := ctx.Err(); err != nil {
			wg.Wait()
			return nil, err
		}
		select {
		case <-ctx.Done():
			wg.Wait()
			return nil, ctx.Err()
		case sem <- struct{}{}:
		}
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			defer func() { <-sem }()
			evaluate(sc, cfg, g, p, res)
			if cfg.Recorder != nil {
				cfg.Recorder.PointEvaluated()
			}
		}(p)
	}
	wg.Wait()

	for i, rx := range receivers {
		rx.Rate = res.Users[i].Rate
		rx.Outage = res.Users[i].Outage
		rx.SNR = res.Users[i].SNR
	}
	log.Infof("Sweep of %d power points over %d realizations done", points, links.Size())
	return res, nil
}

func evaluate(sc Scenario, cfg Config, g *gains, p int, res *Results) {
	pt := utils.DbmToWatt(cfg.PowerDbm[p])
	n0 := utils.DbmToWatt(cfg.NoiseDbm)
	n := len(g.bs1u1c)

	a1c := sc.BS1.Allocation(sc.U1c.Name)
	a2c := sc.BS2.Allocation(sc.U2c.Name)
	farAlloc := [2]float64{sc.BS1.Allocation(sc.Uf.Name), sc.BS2.Allocation(sc.Uf.Name)}
	centerAlloc := [2]float64{a1c, a2c}

	snr := [3][]float64{make([]float64, n), make([]float64, n), make([]float64, n)}
	rate := [3][]float64{make([]float64, n), make([]float64, n), make([]float64, n)}
	outage := [3][]float64{make([]float64, n), make([]float64, n), make([]float64, n)}
	sum := make([]float64, n)
	sensitivity := [3]float64{sc.U1c.Sensitivity, sc.U2c.Sensitivity, sc.Uf.Sensitivity}

	for k := 0; k < n; k++ {
		snr[0][k] = signal.CenterSNR(a1c, pt, g.bs1u1c[k], g.bs2u1c[k], n0)
		snr[1][k] = signal.CenterSNR(a2c, pt, g.bs2u2c[k], g.bs1u2c[k], n0)
		perBS := [2]float64{
			signal.BaseStationSNR(pt, g.bs1uf[k], g.bs2uf[k], n0, cfg.Comp),
			signal.BaseStationSNR(pt, g.bs2uf[k], g.bs1uf[k], n0, cfg.Comp),
		}
		snr[2][k] = signal.FarSNR(farAlloc, centerAlloc, perBS)
		for u := 0; u < 3; u++ {
			rate[u][k] = signal.Rate(snr[u][k])
			outage[u][k] = signal.Outage(snr[u][k], cfg.NoiseDbm, sensitivity[u], cfg.ShadowSigma)
			sum[k] += rate[u][k]
		}
	}

	for u := 0; u < 3; u++ {
		res.Users[u].SNR[p] = statistics.Mean(snr[u])
		res.Users[u].Rate[p] = statistics.Mean(rate[u])
		res.Users[u].Outage[p] = statistics.Mean(outage[u])
	}
	se := statistics.Mean(sum)
	res.SumRate[p] = se
	res.SpectralEfficiency[p] = se
	res.EnergyEfficiency[p] = signal.EnergyEfficiency(se, pt, cfg.CircuitPower)
}
