// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"
	"path/filepath"

	"github.com/nfvri/star-ris-simulator/pkg/manager"
	"github.com/nfvri/star-ris-simulator/pkg/plot"
	"github.com/spf13/cobra"
)

func newLinksCommand() *cobra.Command {
	var (
		config  manager.Config
		histDir string
	)
	cmd := &cobra.Command{
		Use:   "links",
		Short: "Register the links of the model and compare their fading with the closed forms",
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newManager(config)
			if err != nil {
				return err
			}
			if err := mgr.Start(); err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprint(out, mgr.Links().String())

			reports, err := mgr.Report()
			if err != nil {
				return err
			}
			fmt.Fprintf(out, "\n%-14s %-7s %9s %9s %9s %9s %9s %9s\n", "link", "type", "d (m)", "PL (dB)", "mean", "rms", "err mean", "err rms")
			for _, r := range reports {
				name := r.Tx + "->" + r.Rx
				if r.Samples == nil {
					fmt.Fprintf(out, "%-14s %-7s %9.2f %9.2f %9s\n", name, r.Role, r.Distance, r.PathlossDb, "no link")
					continue
				}
				fmt.Fprintf(out, "%-14s %-7s %9.2f %9.2f %9.4f %9.4f %9.4f %9.4f\n", name, r.Role, r.Distance, r.PathlossDb,
					r.Envelope.Mean, r.Envelope.RMS, r.Error.Mean, r.Error.RMS)
				if histDir != "" {
					filename := filepath.Join(histDir, fmt.Sprintf("%s_%s.png", r.Tx, r.Rx))
					if err := plot.Histogram(r.Samples, r.Distribution, name, filename); err != nil {
						return err
					}
				}
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&config.Settings, "settings", "", "settings preset, overrides the model")
	cmd.Flags().IntVar(&config.Realizations, "realizations", 0, "Monte-Carlo realizations per link, overrides the model")
	cmd.Flags().Uint64Var(&config.Seed, "seed", 0, "random seed, overrides the model")
	cmd.Flags().StringVar(&histDir, "histograms", "", "directory to render the envelope histograms into")
	return cmd
}
