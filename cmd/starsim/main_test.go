// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"bytes"
	"context"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/nfvri/star-ris-simulator/pkg/metrics"
	"github.com/nfvri/star-ris-simulator/pkg/simulation"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlotListsNoRuns(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetArgs([]string{"plot", "--log-level", "error"})
	require.NoError(t, cmd.Execute())
	assert.Empty(t, out.String())
}

func TestUnknownLogLevel(t *testing.T) {
	cmd := newRootCommand()
	cmd.SetOut(&bytes.Buffer{})
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs([]string{"plot", "--log-level", "loud"})
	assert.Error(t, cmd.Execute())
}

func TestPrintResults(t *testing.T) {
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	printResults(cmd, &simulation.Results{
		ID:                 "abc",
		Settings:           "ris70",
		Comp:               true,
		PowerDbm:           []float64{0, 10},
		Users:              []simulation.UserResult{{Name: "U1c", Rate: []float64{1, 2}}},
		SpectralEfficiency: []float64{1, 2},
		EnergyEfficiency:   []float64{0.5, 0.25},
	})
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Equal(t, 4, len(lines))
	assert.Equal(t, "Run abc (settings ris70, CoMP true)", lines[0])
	assert.Contains(t, lines[1], "R U1c")
	assert.Contains(t, lines[3], "2.0000")
}

func TestMetricsServedUntilInterrupted(t *testing.T) {
	collector, err := metrics.NewCollector(prometheus.NewRegistry())
	require.NoError(t, err)
	collector.MergeDone()

	srv, addr, err := serveMetrics("127.0.0.1:0", collector)
	require.NoError(t, err)
	require.NotNil(t, srv)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		awaitShutdown(ctx, srv)
		close(done)
	}()

	// the run is over but the endpoint is still up
	resp, err := http.Get("http://" + addr + "/metrics")
	require.NoError(t, err)
	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Contains(t, body.String(), "starsim_star_merges_total 1")
	select {
	case <-done:
		t.Fatal("metrics server stopped before the interrupt")
	default:
	}

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("metrics server did not shut down")
	}
	_, err = http.Get("http://" + addr + "/metrics")
	assert.Error(t, err)

	srv, _, err = serveMetrics("", collector)
	assert.NoError(t, err)
	assert.Nil(t, srv)
}
