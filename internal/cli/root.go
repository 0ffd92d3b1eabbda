// Package cli implements the mipd command-line interface.
//
// This package uses global variables to manage CLI state, which is the standard
// pattern for Cobra-based CLI applications. The globals are initialized in
// PersistentPreRunE and cleaned up in PersistentPostRun.
//
//nolint:gochecknoglobals // Cobra CLI pattern requires package-level state
package cli

import (
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mrz1836/mipd/internal/config"
	"github.com/mrz1836/mipd/internal/metrics"
	"github.com/mrz1836/mipd/internal/output"
	"github.com/mrz1836/mipd/internal/version"
	mipderr "github.com/mrz1836/mipd/pkg/errors"
)

var (
	// Global flags
	homeDir      string
	configFile   string
	outputFormat string
	verbose      bool

	// Global state initialized in PersistentPreRunE
	cfg       *config.Config
	logger    *config.Logger
	formatter *output.Formatter
	buildInfo version.Info
)

// BuildInfo identifies the binary; set by main from linker flags.
type BuildInfo = version.Info

// rootCmd is the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "mipd",
	Short: "Discover EIP-6963 wallet providers and query balances",
	Long: `mipd runs the multi injected provider discovery handshake against the
wallets in its configuration, then connects to one of them to read the
authorized account and its ether balance.

Example:
  mipd providers
  mipd connect "PublicNode Watch"
  mipd balance 0x742d35Cc6634C0532925a3b844Bc454e4438f44e --provider com.publicnode.watch`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		return initGlobals(cmd)
	},
	PersistentPostRun: func(_ *cobra.Command, _ []string) {
		cleanup()
	},
}

// Execute runs the root command.
func Execute(info BuildInfo) error {
	buildInfo = info
	err := rootCmd.Execute()
	if err != nil {
		format := output.FormatText
		if formatter != nil {
			format = formatter.Format()
		}
		_ = output.FormatError(rootCmd.ErrOrStderr(), err, format)
		return err
	}
	return nil
}

// ExitCode returns the appropriate exit code for an error.
func ExitCode(err error) int {
	return mipderr.ExitCode(err)
}

// initGlobals initializes global configuration, logger, and formatter.
func initGlobals(cmd *cobra.Command) error {
	home := homeDir
	if home == "" {
		home = os.Getenv(config.EnvHome)
	}
	if home == "" {
		home = config.DefaultHome()
	}

	configPath := configFile
	if configPath == "" {
		configPath = config.Path(home)
	}

	var err error
	cfg, err = config.Load(configPath)
	switch {
	case errors.Is(err, fs.ErrNotExist) && configFile == "":
		cfg = config.Defaults()
		cfg.Home = home
		cfg.Logging.File = filepath.Join(home, "mipd.log")
	case errors.Is(err, fs.ErrNotExist):
		return mipderr.WithDetails(mipderr.ErrConfigNotFound, map[string]string{"path": configPath})
	case err != nil:
		return mipderr.WithDetails(
			mipderr.WithMessage(mipderr.ErrConfigInvalid, mipderr.ErrConfigInvalid.Message, err),
			map[string]string{"path": configPath, "reason": err.Error()},
		)
	}

	config.ApplyEnvironment(cfg)

	if homeDir != "" {
		cfg.Home = homeDir
	}
	if verbose {
		cfg.Output.Verbose = true
	}
	if cfg.IsVerbose() {
		cfg.Logging.Level = "debug"
	}
	if outputFormat != "" && outputFormat != "auto" {
		cfg.Output.DefaultFormat = outputFormat
	}

	logger, err = config.NewLogger(config.ParseLogLevel(cfg.GetLoggingLevel()), cfg.GetLoggingFile())
	if err != nil {
		logger = config.NullLogger()
	}

	explicitFormat := output.ParseFormat(cfg.GetOutputFormat())
	detectedFormat := output.DetectFormat(cmd.OutOrStdout(), explicitFormat)
	formatter = output.NewFormatter(detectedFormat, cmd.OutOrStdout())

	return nil
}

// cleanup records the run's metrics and releases resources.
func cleanup() {
	if logger == nil {
		return
	}
	defer func() { _ = logger.Close() }()
	if logger.Level() < config.LogLevelDebug {
		return
	}

	s := metrics.Global.Snapshot()
	logger.Debug("metrics: requests=%d errors=%d avg_latency_ms=%.1f announcements=%d dropped=%d connects=%d",
		s.RequestsTotal, s.RequestErrors, metrics.Global.RequestLatencyAvgMs(),
		s.Announcements, s.AnnouncementsDropped, s.ConnectsTotal)
}

//nolint:gochecknoinits // Cobra CLI pattern requires init for flag registration
func init() {
	rootCmd.PersistentFlags().StringVar(&homeDir, "home", "", "mipd data directory (default: ~/.mipd)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "config file (default: <home>/config.yaml)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "auto", "output format: text, json, auto")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}
