package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/netpivot/devicesync/pkg/catalog"
	"github.com/netpivot/devicesync/pkg/client"
	"github.com/netpivot/devicesync/pkg/confirm"
	"github.com/netpivot/devicesync/pkg/inventory"
	"github.com/netpivot/devicesync/pkg/log"
	"github.com/netpivot/devicesync/pkg/reconciler"
	"github.com/netpivot/devicesync/pkg/summary"
)

var createCmd = &cobra.Command{
	Use:   "create",
	Short: "Create custom devices from a CSV file",
	Long: `Create the custom devices declared in a CSV file on every appliance.

Devices that already exist are skipped unless --replace is given, in which
case their criteria are replaced after per-device confirmation.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		replace, _ := cmd.Flags().GetBool("replace")
		return runReconcile(cmd, reconciler.ModeCreate, file, replace)
	},
}

var appendCmd = &cobra.Command{
	Use:   "append",
	Short: "Append criteria from a CSV file to existing devices",
	Long: `Append criteria rows to devices that already exist on the appliance.

Criteria already present on a device are skipped, so re-running the same file
is a no-op. Appending to a device that does not exist counts as a failure.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		return runReconcile(cmd, reconciler.ModeAppend, file, false)
	},
}

var removeCmd = &cobra.Command{
	Use:   "remove",
	Short: "Remove criteria matching a CSV file from existing devices",
	Long: `Remove criteria from devices on the appliance.

A CSV row matches an existing criteria record when every field the row
carries is equal on the record; omitted fields are wildcards. A row with just
an ipaddr therefore removes every record with that ipaddr, whatever its port
or VLAN bounds. A device may be left with zero criteria; that is permitted
and logged as a warning.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		return runReconcile(cmd, reconciler.ModeRemove, file, false)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete",
	Short: "Delete custom devices listed in a CSV file",
	Long: `Delete the devices named in a CSV file from every appliance, prompting per
device. Names that do not exist on an appliance are skipped, not failed.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		file, _ := cmd.Flags().GetString("file")
		return runReconcile(cmd, reconciler.ModeDelete, file, false)
	},
}

func init() {
	for _, cmd := range []*cobra.Command{createCmd, appendCmd, removeCmd, deleteCmd} {
		cmd.Flags().StringP("file", "f", "", "CSV file of device rows (required)")
		_ = cmd.MarkFlagRequired("file")
		rootCmd.AddCommand(cmd)
	}
	createCmd.Flags().Bool("replace", false, "replace criteria of devices that already exist")
}

// runReconcile drives one reconciliation mode over every appliance in the
// inventory, sequentially and independently.
func runReconcile(cmd *cobra.Command, mode reconciler.Mode, file string, replace bool) error {
	appliancesPath, _ := cmd.Flags().GetString("appliances")
	dryRun, _ := cmd.Flags().GetBool("dry-run")
	yes, _ := cmd.Flags().GetBool("yes")

	targets, err := inventory.LoadAppliances(appliancesPath)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return fmt.Errorf("no usable appliances in %s", appliancesPath)
	}

	specs, err := inventory.LoadSpecs(file)
	if err != nil {
		return err
	}

	var gate confirm.Gate
	if yes {
		gate = confirm.AutoGate{}
	} else {
		// One sticky gate for the whole run: "all" answered on any
		// appliance suppresses every later prompt
		gate = confirm.NewSticky(confirm.NewTerminalGate(os.Stdin, os.Stderr))
	}

	opts := reconciler.Options{Mode: mode, Replace: replace, DryRun: dryRun}
	sum := &summary.Summary{}
	ctx := context.Background()

	for _, target := range targets {
		applianceLog := log.WithAppliance(target.Host)
		applianceLog.Info().Str("mode", string(mode)).Msg("processing appliance")

		ch := client.New(target)
		cat, err := catalog.Load(ctx, ch)
		if err != nil {
			applianceLog.Error().Err(err).Msg("could not load device state, skipping appliance")
			continue
		}

		reconciler.New(ch, cat, gate, sum, opts).Run(ctx, specs)
	}

	log.Info(sum.String())
	fmt.Println(sum.String())
	return nil
}
