package main

import (
	"fmt"
	"net/http"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/netpivot/devicesync/pkg/log"
	"github.com/netpivot/devicesync/pkg/metrics"
)

var (
	// Version information (set via ldflags during build)
	Version   = "dev"
	Commit    = "unknown"
	BuildTime = "unknown"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "devicesync",
	Short: "Reconcile custom device definitions against monitoring appliances",
	Long: `devicesync converges the custom devices configured on network monitoring
appliances toward a declared desired state.

Desired state is a CSV of device rows (multiple rows with the same name fold
into one device with several criteria). Appliances are listed in a CSV or
YAML inventory and processed one at a time; a failure on one appliance never
aborts the run, and a summary is always printed at the end.`,
	Version:       Version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return setup(cmd)
	},
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(
		"devicesync version %s\nCommit: %s\nBuilt: %s\n",
		Version, Commit, BuildTime,
	))

	pf := rootCmd.PersistentFlags()
	pf.String("appliances", "", "appliance inventory file, CSV (hostname,api_key) or YAML (required)")
	pf.Bool("dry-run", false, "compute and log operations without applying them")
	pf.Bool("yes", false, "skip interactive prompts and confirm all operations")
	pf.String("log-level", "info", "log level (debug, info, warn, error)")
	pf.String("log-dir", "logs", "directory for the run log file (empty disables file logging)")
	pf.Bool("json", false, "emit JSON logs instead of console output")
	pf.String("metrics-addr", "", "expose Prometheus metrics on this address while running")
	_ = rootCmd.MarkPersistentFlagRequired("appliances")
}

// setup initializes logging and the optional metrics listener before any
// subcommand runs.
func setup(cmd *cobra.Command) error {
	level, _ := cmd.Flags().GetString("log-level")
	jsonOut, _ := cmd.Flags().GetBool("json")
	logDir, _ := cmd.Flags().GetString("log-dir")

	logPath, err := log.Init(log.Config{
		Level:      log.Level(level),
		JSONOutput: jsonOut,
		Output:     os.Stdout,
		FileDir:    logDir,
	})
	if err != nil {
		return err
	}

	// Stamp every line of this run so interleaved log files stay attributable
	log.Logger = log.WithRunID(uuid.NewString())

	if logPath != "" {
		log.Logger.Info().Str("file", logPath).Msg("logging to file")
	}

	if addr, _ := cmd.Flags().GetString("metrics-addr"); addr != "" {
		go func() {
			if err := http.ListenAndServe(addr, metrics.Handler()); err != nil {
				log.Logger.Error().Err(err).Msg("metrics listener failed")
			}
		}()
		log.Logger.Info().Str("addr", addr).Msg("serving metrics")
	}

	if dryRun, _ := cmd.Flags().GetBool("dry-run"); dryRun {
		log.Info("dry run mode, no changes will be made")
	}

	return nil
}
