// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/nfvri/star-ris-simulator/pkg/manager"
	"github.com/nfvri/star-ris-simulator/pkg/model"
	"github.com/nfvri/star-ris-simulator/pkg/plot"
	"github.com/nfvri/star-ris-simulator/pkg/simulation"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRunCommand() *cobra.Command {
	var (
		config  manager.Config
		plotDir string
	)
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Merge the STAR-RIS paths and sweep the transmit power",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
			defer stop()

			mgr, collector, err := newManager(config)
			if err != nil {
				return err
			}
			srv, _, err := serveMetrics(viper.GetString("metrics-addr"), collector)
			if err != nil {
				return err
			}
			if srv != nil {
				defer srv.Close()
			}
			if err := mgr.Start(); err != nil {
				return err
			}
			results, err := mgr.Run(ctx)
			if err != nil {
				return err
			}
			printResults(cmd, results)
			if plotDir != "" {
				if _, err := plot.Sweep(results, plotDir); err != nil {
					return err
				}
			}
			awaitShutdown(ctx, srv)
			return nil
		},
	}
	cmd.Flags().StringVar(&config.Settings, "settings", "", "settings preset: "+strings.Join(model.PresetNames(), ", "))
	cmd.Flags().IntVar(&config.Realizations, "realizations", 0, "Monte-Carlo realizations per link, overrides the model")
	cmd.Flags().Uint64Var(&config.Seed, "seed", 0, "random seed, overrides the model")
	cmd.Flags().IntVar(&config.Workers, "workers", 0, "power points evaluated concurrently, GOMAXPROCS when 0")
	cmd.Flags().BoolVar(&config.StrictAllocations, "strict", false, "reject transmitters whose allocations sum above one")
	cmd.Flags().StringVar(&plotDir, "plot", "", "directory to render the sweep charts into")
	return cmd
}

func printResults(cmd *cobra.Command, results *simulation.Results) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "Run %s (settings %s, CoMP %t)\n", results.ID, results.Settings, results.Comp)
	fmt.Fprintf(out, "%10s", "Pt (dBm)")
	for _, u := range results.Users {
		fmt.Fprintf(out, " %12s", "R "+u.Name)
	}
	fmt.Fprintf(out, " %12s %12s\n", "SE", "EE")
	step := len(results.PowerDbm) / 10
	if step == 0 {
		step = 1
	}
	for p := 0; p < len(results.PowerDbm); p += step {
		fmt.Fprintf(out, "%10.1f", results.PowerDbm[p])
		for _, u := range results.Users {
			fmt.Fprintf(out, " %12.4f", u.Rate[p])
		}
		fmt.Fprintf(out, " %12.4f %12.4f\n", results.SpectralEfficiency[p], results.EnergyEfficiency[p])
	}
}
