// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"fmt"

	"github.com/nfvri/star-ris-simulator/pkg/manager"
	"github.com/nfvri/star-ris-simulator/pkg/plot"
	"github.com/spf13/cobra"
)

func newPlotCommand() *cobra.Command {
	var outDir string
	cmd := &cobra.Command{
		Use:   "plot [run-id]",
		Short: "Render the charts of a stored run, or list the stored runs",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, _, err := newManager(manager.Config{})
			if err != nil {
				return err
			}
			store := mgr.Store()
			if len(args) == 0 {
				runs, err := store.ListRuns(cmd.Context())
				if err != nil {
					return err
				}
				for _, id := range runs {
					fmt.Fprintln(cmd.OutOrStdout(), id)
				}
				return nil
			}
			results, err := store.GetResults(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			files, err := plot.Sweep(results, outDir)
			if err != nil {
				return err
			}
			for _, f := range files {
				fmt.Fprintln(cmd.OutOrStdout(), f)
			}
			return nil
		},
	}
	cmd.Flags().StringVarP(&outDir, "out", "o", "plots", "output directory")
	return cmd
}
