// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package manager

import (
	"github.com/nfvri/star-ris-simulator/pkg/channel"
	"github.com/nfvri/star-ris-simulator/pkg/fading"
	"github.com/nfvri/star-ris-simulator/pkg/statistics"
	"github.com/nfvri/star-ris-simulator/pkg/utils"
	"github.com/onosproject/onos-lib-go/pkg/errors"
)

// LinkReport compares the fading envelope of one registered link with its distribution
type LinkReport struct {
	Tx, Rx     string
	Role       string
	Shape      channel.Shape
	Distance   float64
	PathlossDb float64
	// Envelope holds the empirical moments of |h| with the pathloss removed
	Envelope statistics.Moments
	// Error is the relative error of each moment against the closed form
	Error statistics.Moments
	// Samples of the envelope, nil for no-link placeholders
	Samples      []float64
	Distribution fading.Distribution
}

// Report summarizes every link in registration order. It is meaningful before Merge, while the
// coefficients still follow the configured distributions.
func (m *Manager) Report() ([]LinkReport, error) {
	if m.links == nil {
		return nil, errors.New(errors.Invalid, "no model loaded")
	}
	var reports []LinkReport
	for _, l := range m.links.Links() {
		ch := l.Channel
		r := LinkReport{
			Tx:         ch.Tx.GetName(),
			Rx:         ch.Rx.GetName(),
			Role:       l.Role,
			Shape:      ch.Shape,
			Distance:   ch.Distance,
			PathlossDb: ch.PathlossDb,
		}
		if !ch.NoLink {
			d, err := fading.NewModel(ch.Fading)
			if err != nil {
				return nil, err
			}
			scale := 1 / utils.AmplitudeFromDb(ch.PathlossDb)
			r.Samples = ch.Gain()
			for i := range r.Samples {
				r.Samples[i] *= scale
			}
			r.Distribution = d
			r.Envelope = statistics.Summarize(r.Samples)
			r.Error = statistics.Compare(d, r.Samples)
		}
		reports = append(reports, r)
	}
	return reports, nil
}
