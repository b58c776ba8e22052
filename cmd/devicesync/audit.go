package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netpivot/devicesync/pkg/audit"
	"github.com/netpivot/devicesync/pkg/catalog"
	"github.com/netpivot/devicesync/pkg/client"
	"github.com/netpivot/devicesync/pkg/inventory"
	"github.com/netpivot/devicesync/pkg/log"
	"github.com/netpivot/devicesync/pkg/summary"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Write each appliance's custom devices to a CSV report",
	Long: `Audit the custom devices on every appliance in the inventory.

One CSV file is written per appliance. The report is read-only; no appliance
state is changed.`,
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().Bool("verbose", false, "include author, description, id and other metadata columns")
	auditCmd.Flags().Bool("include-criteria", false, "include criteria columns, one row per criteria record")
	auditCmd.Flags().Bool("include-metrics", false, "include a two-week net bytes column per device")
	auditCmd.Flags().String("output-dir", "", "directory to write audit files into (default: current directory)")
	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	appliancesPath, _ := cmd.Flags().GetString("appliances")
	verbose, _ := cmd.Flags().GetBool("verbose")
	includeCriteria, _ := cmd.Flags().GetBool("include-criteria")
	includeMetrics, _ := cmd.Flags().GetBool("include-metrics")
	outputDir, _ := cmd.Flags().GetString("output-dir")

	targets, err := inventory.LoadAppliances(appliancesPath)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no usable appliances in %s", appliancesPath)
	}

	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	opts := audit.Options{
		OutputDir:       outputDir,
		Verbose:         verbose,
		IncludeCriteria: includeCriteria,
		IncludeMetrics:  includeMetrics,
	}
	sum := &summary.Summary{}
	ctx := context.Background()

	for _, target := range targets {
		applianceLog := log.WithAppliance(target.Host)

		ch := client.New(target)
		cat, err := catalog.Load(ctx, ch)
		if err != nil {
			applianceLog.Error().Err(err).Msg("could not load device state, skipping appliance")
			continue
		}

		if err := audit.Run(ctx, cat, target.Host, sum, opts); err != nil {
			applianceLog.Error().Err(err).Msg("audit failed")
		}
	}

	log.Info(sum.String())
	fmt.Println(sum.String())
	return nil
}
