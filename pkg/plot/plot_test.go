// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package plot

import (
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/nfvri/star-ris-simulator/pkg/simulation"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type gaussian struct{}

func (gaussian) PDF(x float64) float64 {
	return math.Exp(-x*x/2) / math.Sqrt(2*math.Pi)
}

func TestSweep(t *testing.T) {
	dir := t.TempDir()
	results := &simulation.Results{
		Settings: "ris32",
		PowerDbm: []float64{-10, 0, 10},
		Users: []simulation.UserResult{
			{Name: "U1c", Rate: []float64{0.1, 1, 3}, Outage: []float64{0.9, 0.1, 0}},
			{Name: "Uf", Rate: []float64{0.05, 0.5, 2}, Outage: []float64{0.99, 0.3, 0.01}},
		},
		SumRate:            []float64{0.15, 1.5, 5},
		SpectralEfficiency: []float64{0.15, 1.5, 5},
		EnergyEfficiency:   []float64{0.7, 0.6, 0.2},
	}
	files, err := Sweep(results, dir)
	require.NoError(t, err)
	assert.Equal(t, 4, len(files))
	for _, f := range files {
		info, err := os.Stat(f)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}

	_, err = Sweep(&simulation.Results{}, dir)
	assert.True(t, errors.IsInvalid(err))
}

func TestHistogram(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "hist", "envelope.png")
	samples := []float64{-1, -0.5, 0, 0, 0.2, 0.5, 1.5}
	require.NoError(t, Histogram(samples, gaussian{}, "Gaussian", filename))
	_, err := os.Stat(filename)
	assert.NoError(t, err)

	assert.True(t, errors.IsInvalid(Histogram(nil, nil, "", filename)))
}

func TestXYFloor(t *testing.T) {
	pts := xy([]float64{1, 2, 3}, []float64{0, math.NaN(), 0.5}, 1e-3)
	assert.Equal(t, 1e-3, pts[0].Y)
	assert.Equal(t, 1e-3, pts[1].Y)
	assert.Equal(t, 0.5, pts[2].Y)
}
