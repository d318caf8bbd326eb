// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/nfvri/star-ris-simulator/pkg/metrics"
	"github.com/nfvri/star-ris-simulator/pkg/model"
	redisLib "github.com/nfvri/star-ris-simulator/pkg/store/redis"
	"github.com/onosproject/onos-lib-go/pkg/errors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testModel(t *testing.T) []byte {
	data, err := os.ReadFile("../model/test.yaml")
	require.NoError(t, err)
	return data
}

func newManager(t *testing.T, config *Config, collector *metrics.Collector) *Manager {
	mgr, err := NewManager(config, &redisLib.MockedRedisStore{}, collector)
	require.NoError(t, err)
	require.NoError(t, mgr.LoadModel(testModel(t)))
	return mgr
}

func TestRun(t *testing.T) {
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	mgr := newManager(t, &Config{Realizations: 300, Workers: 4}, collector)

	ris := mgr.STAR()
	require.NotNil(t, ris)
	assert.Equal(t, 70, ris.Elements)

	results, err := mgr.Run(context.Background())
	require.NoError(t, err)
	assert.NotEmpty(t, results.ID)
	assert.Equal(t, "ris70", results.Settings)
	assert.True(t, results.Comp)
	assert.Equal(t, 161, len(results.PowerDbm))
	require.Equal(t, 3, len(results.Users))
	assert.Equal(t, []string{"U1c", "U2c", "Uf"}, []string{results.Users[0].Name, results.Users[1].Name, results.Users[2].Name})
	last := len(results.PowerDbm) - 1
	assert.Greater(t, results.SumRate[last], results.SumRate[0])
	assert.Less(t, results.Users[0].Outage[last], results.Users[0].Outage[0])

	stored, err := mgr.Store().GetResults(context.Background(), results.ID)
	require.NoError(t, err)
	assert.Equal(t, results.SumRate, stored.SumRate)

	assert.Equal(t, 1.0, testutil.ToFloat64(collector.Merges))
	assert.Equal(t, 161.0, testutil.ToFloat64(collector.SweepPoints))
	assert.Equal(t, 11.0, testutil.ToFloat64(collector.Links.WithLabelValues(model.RoleFar))+
		testutil.ToFloat64(collector.Links.WithLabelValues(model.RoleCenter1))+
		testutil.ToFloat64(collector.Links.WithLabelValues(model.RoleCenter2))+
		testutil.ToFloat64(collector.Links.WithLabelValues(model.RoleInterference))+
		testutil.ToFloat64(collector.Links.WithLabelValues(model.RoleRISBlock1))+
		testutil.ToFloat64(collector.Links.WithLabelValues(model.RoleRISBlock2))+
		testutil.ToFloat64(collector.Links.WithLabelValues(model.RoleRISFar)))

	_, err = mgr.Run(context.Background())
	assert.True(t, errors.IsAlreadyExists(err))
}

func TestRISRows(t *testing.T) {
	mgr := newManager(t, &Config{Realizations: 10, Settings: "ris32"}, nil)
	obj := func(name string) model.Object {
		o, err := mgr.Object(name)
		require.NoError(t, err)
		return o
	}
	rows := func(tx, rx string) int {
		ch, err := mgr.Links().GetLink(obj(tx), obj(rx))
		require.NoError(t, err)
		return ch.Shape.Rows
	}
	assert.Equal(t, 16, rows("BS1", "RIS"))
	assert.Equal(t, 16, rows("RIS", "U2c"))
	assert.Equal(t, 32, rows("RIS", "Uf"))
	assert.Equal(t, 1, rows("BS1", "U1c"))

	_, err := mgr.Object("nobody")
	assert.True(t, errors.IsNotFound(err))
}

func TestRISImprovesCenterRate(t *testing.T) {
	withRIS := newManager(t, &Config{Realizations: 300, Settings: "ris70"}, nil)
	without := newManager(t, &Config{Realizations: 300, Settings: "no_ris"}, nil)
	assert.Nil(t, without.STAR())

	a, err := withRIS.Run(context.Background())
	require.NoError(t, err)
	b, err := without.Run(context.Background())
	require.NoError(t, err)

	last := len(a.PowerDbm) - 1
	assert.Greater(t, a.Users[0].Rate[last], b.Users[0].Rate[last])
	assert.Greater(t, a.Users[1].Rate[last], b.Users[1].Rate[last])
}

func TestFarLinkPresets(t *testing.T) {
	mgr := newManager(t, &Config{Realizations: 10, Settings: "bs1_only"}, nil)
	bs2, err := mgr.Object("BS2")
	require.NoError(t, err)
	uf, err := mgr.Object("Uf")
	require.NoError(t, err)
	role, err := mgr.Links().GetLinkType(bs2, uf)
	require.NoError(t, err)
	assert.Equal(t, model.RoleNoLink, role)
	gain, err := mgr.Links().GetGain(bs2, uf)
	require.NoError(t, err)
	for _, g := range gain {
		assert.Equal(t, 0.0, g)
	}
}

func TestLoadErrors(t *testing.T) {
	mgr, err := NewManager(&Config{Settings: "ris1000"}, &redisLib.MockedRedisStore{}, nil)
	require.NoError(t, err)
	assert.True(t, errors.IsInvalid(mgr.LoadModel(testModel(t))))

	mgr, err = NewManager(&Config{}, &redisLib.MockedRedisStore{}, nil)
	require.NoError(t, err)
	_, err = mgr.Run(context.Background())
	assert.True(t, errors.IsInvalid(err))

	broken := []byte(`
realizations: 10
fading:
  rayleigh: {type: rayleigh, sigma: 1}
pathloss:
  center: {type: free-space, alpha: 3, p0: 30}
transmitters:
  - {name: BS1, position: [0, 0, 10]}
receivers:
  - {name: U1c, position: [10, 0, 1]}
links:
  - {tx: BS1, rx: U9, fading: rayleigh, pathloss: center, role: "1,c"}
constants: {frequency: 2400000000}
`)
	assert.True(t, errors.IsNotFound(mgr.LoadModel(broken)))

	strict, err := NewManager(&Config{StrictAllocations: true}, &redisLib.MockedRedisStore{}, nil)
	require.NoError(t, err)
	overAllocated := []byte(`
realizations: 10
transmitters:
  - name: BS1
    position: [0, 0, 10]
    allocations:
      - {receiver: U1c, fraction: 0.6}
      - {receiver: Uf, fraction: 0.6}
`)
	assert.True(t, errors.IsInvalid(strict.LoadModel(overAllocated)))
}

func TestReport(t *testing.T) {
	mgr := newManager(t, &Config{Realizations: 5000, Settings: "bs2_only"}, nil)
	reports, err := mgr.Report()
	require.NoError(t, err)
	require.Equal(t, 11, len(reports))
	for _, r := range reports {
		if r.Role == model.RoleNoLink {
			assert.Nil(t, r.Samples)
			assert.Equal(t, "BS1", r.Tx)
			continue
		}
		assert.Equal(t, r.Shape.Size(), len(r.Samples))
		assert.Greater(t, r.Distance, 0.0)
		assert.Less(t, r.Error.Mean, 0.05, "%s -> %s", r.Tx, r.Rx)
		assert.Less(t, r.Error.RMS, 0.05, "%s -> %s", r.Tx, r.Rx)
	}
}

func TestEmptyAssignmentBlock(t *testing.T) {
	data := string(testModel(t))
	data = strings.Replace(data, "settings: ris70\n", "settings: \"\"\n", 1)
	data = strings.Replace(data, "  elements: 32\n", "  elements: 32\n  assignment:\n    elements: [32, 0]\n", 1)

	mgr, err := NewManager(&Config{Realizations: 50}, &redisLib.MockedRedisStore{}, nil)
	require.NoError(t, err)
	require.NoError(t, mgr.LoadModel([]byte(data)))
	ris := mgr.STAR()
	require.NotNil(t, ris)
	assert.Equal(t, 0, ris.BlockSize(1))

	obj := func(name string) model.Object {
		o, err := mgr.Object(name)
		require.NoError(t, err)
		return o
	}
	incident, err := mgr.Links().GetLink(obj("BS1"), obj("RIS"))
	require.NoError(t, err)
	assert.Equal(t, 32, incident.Shape.Rows)
	empty, err := mgr.Links().GetLink(obj("BS2"), obj("RIS"))
	require.NoError(t, err)
	assert.Equal(t, 32, empty.Shape.Rows)

	_, err = mgr.Run(context.Background())
	require.NoError(t, err)

	// the empty block contributes nothing to the second cell
	direct, err := mgr.Links().GetLink(obj("BS2"), obj("U2c"))
	require.NoError(t, err)
	require.NotNil(t, direct.Ext)
	for _, v := range direct.Ext {
		assert.Equal(t, complex(0, 0), v)
	}
	reflected, err := mgr.Links().GetLink(obj("BS1"), obj("U1c"))
	require.NoError(t, err)
	assert.NotEqual(t, complex(0, 0), reflected.Ext[0])
}
