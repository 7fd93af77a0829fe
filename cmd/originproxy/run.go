package main

import (
	"context"
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/relayhq/originproxy/pkg/config"
	"github.com/relayhq/originproxy/pkg/cspreports"
	"github.com/relayhq/originproxy/pkg/server"
	"github.com/relayhq/originproxy/pkg/telemetry/logging"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the proxy server",
	Long: `Start the proxy server with the specified configuration.

Examples:
  # Start with default config
  originproxy run

  # Start with custom config
  originproxy run --config /etc/originproxy/config.yaml

  # Override listen address
  originproxy run --listen 0.0.0.0:8080

  # Validate config without starting the server
  originproxy run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the server")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfig(cfgFile)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}

	if runFlags.listenAddress != "" {
		cfg.Proxy.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	logger, err := logging.New(logging.Config{
		Level:     cfg.Telemetry.Logging.Level,
		Format:    cfg.Telemetry.Logging.Format,
		RedactPII: true,
	})
	if err != nil {
		return fmt.Errorf("build logger: %w", err)
	}

	if runFlags.dryRun {
		fmt.Println("configuration valid")
		return nil
	}

	store := config.NewStore(cfg)

	watcher, err := config.NewWatcher(cfgFile, store, nil)
	if err != nil {
		logger.Warn("run: config watcher disabled", "error", err)
	}

	cspStore, err := cspreports.Open(cfg.CSP.ReportLogPath)
	if err != nil {
		return fmt.Errorf("open csp report store: %w", err)
	}
	defer cspStore.Close()

	srv := server.New(store, cspStore, logger, prometheus.NewRegistry())

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if watcher != nil {
		go func() {
			if err := watcher.Watch(ctx); err != nil {
				logger.Warn("run: config watcher stopped", "error", err)
			}
		}()
		defer watcher.Stop()
	}

	logger.Info("run: starting", "address", cfg.Proxy.ListenAddress)
	return srv.Start(ctx)
}
