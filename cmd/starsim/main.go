// SPDX-FileCopyrightText: 2020-present Open Networking Foundation <info@opennetworking.org>
//
// SPDX-License-Identifier: Apache-2.0

package main

import (
	"context"
	"net"
	"net/http"
	"os"
	"time"

	"github.com/nfvri/star-ris-simulator/pkg/manager"
	"github.com/nfvri/star-ris-simulator/pkg/metrics"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "starsim",
		Short:         "STAR-RIS assisted NOMA downlink simulator",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			level, err := log.ParseLevel(viper.GetString("log-level"))
			if err != nil {
				return err
			}
			log.SetLevel(level)
			return nil
		},
	}
	cmd.PersistentFlags().String("config", "model", "model config name, searched in ., ./config, $HOME/.starsim and /etc/starsim")
	cmd.PersistentFlags().String("log-level", "info", "log level (debug, info, warn, error)")
	cmd.PersistentFlags().String("metrics-addr", "", "HTTP address for Prometheus /metrics, served until interrupted; disabled when empty")
	cmd.PersistentFlags().Bool("redis", false, "persist results in redis (REDIS_HOST, REDIS_PORT, REDIS_DB)")
	_ = viper.BindPFlags(cmd.PersistentFlags())
	viper.SetEnvPrefix("starsim")
	viper.AutomaticEnv()

	cmd.AddCommand(newRunCommand(), newLinksCommand(), newPlotCommand())
	return cmd
}

// newManager builds a manager from the persistent flags and the command specific overrides
func newManager(config manager.Config) (*manager.Manager, *metrics.Collector, error) {
	collector, err := metrics.NewCollector(nil)
	if err != nil {
		return nil, nil, err
	}
	config.ModelName = viper.GetString("config")
	config.RedisEnabled = viper.GetBool("redis")
	mgr, err := manager.NewManager(&config, nil, collector)
	if err != nil {
		return nil, nil, err
	}
	return mgr, collector, nil
}

// serveMetrics exposes the collector on addr and returns the bound address. A nil server means
// metrics are disabled.
func serveMetrics(addr string, collector *metrics.Collector) (*http.Server, string, error) {
	if addr == "" {
		return nil, "", nil
	}
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, "", err
	}
	mux := http.NewServeMux()
	mux.Handle("/metrics", collector.Handler())
	srv := &http.Server{Addr: lis.Addr().String(), Handler: mux}
	go func() {
		if err := srv.Serve(lis); err != nil && err != http.ErrServerClosed {
			log.Warnf("Metrics server exited: %v", err)
		}
	}()
	log.Infof("Serving Prometheus metrics on %s", srv.Addr)
	return srv, srv.Addr, nil
}

// awaitShutdown keeps the metrics server up until ctx is done, then shuts it down
func awaitShutdown(ctx context.Context, srv *http.Server) {
	if srv == nil {
		return
	}
	log.Infof("Run finished, metrics stay available on %s until interrupted", srv.Addr)
	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)
}
