package cmd

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/szulist/zabbix-proxy-dashboards/internal/config"
	"github.com/szulist/zabbix-proxy-dashboards/internal/telemetry"
	"github.com/szulist/zabbix-proxy-dashboards/internal/zabbix"
)

var (
	cfgFile      string
	verbose      bool
	logFile      string
	cfg          *config.Config
	log          *zap.Logger
	otelShutdown func(context.Context) error
)

var rootCmd = &cobra.Command{
	Use:   "zpd",
	Short: "Zabbix proxy dashboards - provision proxy health dashboards and templates",
	Long: `zpd provisions performance dashboards for every Zabbix proxy in a
host group and imports configuration templates through the Zabbix API.

Dashboards are generated from a fixed per-proxy panel catalog and created
or force-updated by name. Template imports are version-aware: the rule set
submitted to configuration.import depends on the server version.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		// The version command needs no config or connection
		if cmd.Name() == "version" {
			return nil
		}

		// Initialize logger
		var err error
		log, err = newLogger(verbose, logFile)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}

		// Load configuration
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return fmt.Errorf("failed to load config: %w", err)
		}

		// Initialize OpenTelemetry
		otelShutdown, err = telemetry.Init(context.Background(), &cfg.Telemetry, verbose)
		if err != nil {
			return fmt.Errorf("failed to init telemetry: %w", err)
		}

		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		if log != nil {
			_ = log.Sync()
		}
		if otelShutdown != nil {
			return otelShutdown(context.Background())
		}
		return nil
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(exitCode(err))
	}
}

// exitCode maps the error taxonomy to the CLI contract: 2 when the proxy
// group does not exist, 1 for capability/version preconditions and
// everything else.
func exitCode(err error) int {
	if errors.Is(err, zabbix.ErrNotFound) {
		return 2
	}
	return 1
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", config.FindConfigPath(), "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&logFile, "log-file", "F", "", "write log output to a file instead of stdout")
}

// newLogger builds the run logger. The output path comes from --log-file and
// may be unopenable, so the build error is surfaced instead of swallowed.
func newLogger(verbose bool, logFile string) (*zap.Logger, error) {
	level := zap.InfoLevel
	if verbose {
		level = zap.DebugLevel
	}
	output := "stdout"
	if logFile != "" {
		output = logFile
	}
	cfg := zap.Config{
		Level:            zap.NewAtomicLevelAt(level),
		Encoding:         "console",
		OutputPaths:      []string{output},
		ErrorOutputPaths: []string{"stderr"},
		EncoderConfig: zapcore.EncoderConfig{
			TimeKey:        "T",
			LevelKey:       "L",
			MessageKey:     "M",
			LineEnding:     zapcore.DefaultLineEnding,
			EncodeLevel:    zapcore.CapitalLevelEncoder,
			EncodeTime:     zapcore.ISO8601TimeEncoder,
			EncodeDuration: zapcore.StringDurationEncoder,
		},
	}
	return cfg.Build()
}
