package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/goran-ethernal/ReorgTracker/internal/alert"
	"github.com/goran-ethernal/ReorgTracker/internal/common"
	"github.com/goran-ethernal/ReorgTracker/internal/config"
	"github.com/goran-ethernal/ReorgTracker/internal/logger"
	"github.com/goran-ethernal/ReorgTracker/internal/metrics"
	"github.com/goran-ethernal/ReorgTracker/internal/rpc"
	"github.com/goran-ethernal/ReorgTracker/internal/snapshot"
	"github.com/goran-ethernal/ReorgTracker/internal/tracker"
	"github.com/goran-ethernal/ReorgTracker/pkg/api"
	pkgconfig "github.com/goran-ethernal/ReorgTracker/pkg/config"
	"github.com/invopop/jsonschema"
	"github.com/spf13/cobra"
)

const (
	version = "1.0.0"
	banner  = `
╔═══════════════════════════════════════════╗
║           ReorgTracker v%s             ║
║    Chain Reorganization Watchdog          ║
╚═══════════════════════════════════════════╝
`
)

var (
	configPath string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "tracker",
	Short: "ReorgTracker - chain reorganization watchdog",
	Long: `ReorgTracker polls a Stacks node REST API, keeps the most recent blocks
indexed by height and hash, and raises an alert together with a diagnostic
snapshot whenever a height is observed with more than one block hash.`,
	Version:      version,
	SilenceUsage: true,
	RunE:         runTracker,
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the configuration JSON schema",
	Long:  `Print the JSON schema describing the configuration file accepted by --config.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		schema := jsonschema.Reflect(&pkgconfig.Config{})

		out, err := json.MarshalIndent(schema, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode schema: %w", err)
		}

		_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return err
	},
}

func init() {
	rootCmd.Flags().StringVarP(&configPath, "config", "c", "",
		"path to configuration file (.yaml, .json, .toml); defaults and environment only when empty")
	rootCmd.AddCommand(schemaCmd)
}

func runTracker(cmd *cobra.Command, _ []string) error {
	fmt.Printf(banner, version)

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log := logger.NewComponentLoggerFromConfig(common.ComponentTracker, cfg.Logging)
	defer func() { _ = log.Close() }()

	if err := snapshot.CheckWritable(cfg.Output.Dir); err != nil {
		log.Errorw("output directory is not writable", "dir", cfg.Output.Dir, "error", err)
		return fmt.Errorf("output directory check failed: %w", err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	source, err := rpc.NewClient(cfg.Source,
		logger.NewComponentLoggerFromConfig(common.ComponentBlockSource, cfg.Logging))
	if err != nil {
		return fmt.Errorf("failed to create block source: %w", err)
	}
	log.Infow("using node API", "url", cfg.Source.APIURL)

	alertLog := logger.NewComponentLoggerFromConfig(common.ComponentAlerter, cfg.Logging)
	if !cfg.Alert.IsConfigured() {
		alertLog.Warn("no alert destination configured, alerts will only be logged")
	}
	sink, closeAlerts, err := alert.NewFromConfig(cfg.Alert, alertLog)
	if err != nil {
		return fmt.Errorf("failed to create alerter: %w", err)
	}
	defer func() {
		if err := closeAlerts(); err != nil {
			log.Warnw("failed to close alerter", "error", err)
		}
	}()
	metrics.ComponentHealthSet(common.ComponentAlerter, true)

	if cfg.Metrics != nil && cfg.Metrics.Enabled {
		metricsServer := metrics.NewServer(cfg.Metrics, log)
		if err := metricsServer.Start(ctx); err != nil {
			return fmt.Errorf("failed to start metrics server: %w", err)
		}
		defer func() {
			if err := metricsServer.Stop(context.Background()); err != nil {
				log.Warnw("failed to stop metrics server", "error", err)
			}
		}()
	}

	writer := snapshot.NewWriter(cfg.Output.Dir,
		logger.NewComponentLoggerFromConfig(common.ComponentSnapshot, cfg.Logging))

	log.Infow("snapshots are written to the output directory", "dir", writer.Dir())

	t, err := tracker.New(cfg.Tracker, source, sink, writer, log)
	if err != nil {
		return fmt.Errorf("failed to create tracker: %w", err)
	}

	if cfg.API != nil && cfg.API.Enabled {
		apiServer := api.NewServer(
			cfg.API,
			t,
			logger.NewComponentLoggerFromConfig(common.ComponentAPI, cfg.Logging),
		)
		go func() {
			if err := apiServer.Start(ctx); err != nil {
				log.Errorw("API server error", "error", err)
			}
		}()
	}

	log.Infow("starting tracker", "output_dir", cfg.Output.Dir)

	if err := t.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Errorw("tracker failed", "error", err)
		return fmt.Errorf("tracker failed: %w", err)
	}

	log.Info("tracker stopped successfully")
	return nil
}
