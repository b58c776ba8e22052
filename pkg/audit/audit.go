package audit

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/netpivot/devicesync/pkg/catalog"
	"github.com/netpivot/devicesync/pkg/log"
	"github.com/netpivot/devicesync/pkg/metrics"
	"github.com/netpivot/devicesync/pkg/summary"
	"github.com/netpivot/devicesync/pkg/types"
)

// Options selects which columns the audit CSV carries.
type Options struct {
	OutputDir       string
	Verbose         bool
	IncludeCriteria bool
	IncludeMetrics  bool
}

// Run dumps one appliance's custom devices to a CSV file. With criteria
// included, a device produces one row per criteria record, with the device
// metadata only on its first row. The audit path never mutates anything.
func Run(ctx context.Context, cat *catalog.Catalog, host string, sum *summary.Summary, opts Options) error {
	applianceLog := log.WithAppliance(host)
	applianceLog.Info().Msg("auditing appliance")

	devices, err := cat.ListAll(ctx, opts.IncludeCriteria)
	if err != nil {
		return fmt.Errorf("failed to list custom devices: %w", err)
	}
	if len(devices) == 0 {
		applianceLog.Warn().Msg("no custom devices found, skipping audit")
		return nil
	}

	filename := fmt.Sprintf("custom_devices_audit_%s.csv", host)
	if opts.OutputDir != "" {
		filename = filepath.Join(opts.OutputDir, filename)
	}

	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("failed to create audit file: %w", err)
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	if err := writer.Write(header(opts)); err != nil {
		return fmt.Errorf("failed to write audit header: %w", err)
	}

	for _, device := range devices {
		criteria := device.Criteria
		if !opts.IncludeCriteria || len(criteria) == 0 {
			criteria = []types.CriteriaRecord{{}}
		}

		var netBytes float64
		if opts.IncludeMetrics {
			netBytes, err = deviceNetBytes(ctx, cat, device.Name)
			if err != nil {
				applianceLog.Error().
					Err(err).
					Str("device", device.Name).
					Msg("failed to query device metrics")
			}
		}

		for i, c := range criteria {
			row := buildRow(device, c, netBytes, i == 0, opts)
			if err := writer.Write(row); err != nil {
				return fmt.Errorf("failed to write audit row: %w", err)
			}
			sum.Audited++
			metrics.DevicesAudited.Inc()
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return fmt.Errorf("failed to flush audit file: %w", err)
	}

	applianceLog.Info().Str("file", filename).Msg("audit written")
	return nil
}

// deviceNetBytes sums the trailing-two-week net bytes over all custom-role
// search hits for the name.
func deviceNetBytes(ctx context.Context, cat *catalog.Catalog, name string) (float64, error) {
	records, err := cat.SearchByName(ctx, name)
	if err != nil {
		return 0, err
	}

	var total float64
	for _, rec := range records {
		if rec.Role != "custom" {
			continue
		}
		n, err := cat.NetBytes(ctx, rec.ID)
		if err != nil {
			return total, err
		}
		total += n
	}
	return total, nil
}

func header(opts Options) []string {
	cols := []string{"name"}
	if opts.Verbose {
		cols = append(cols, "author", "description", "disabled", "extrahop_id", "id", "mod_time")
	}
	if opts.IncludeCriteria {
		cols = append(cols,
			"ipaddr", "ipaddr_direction", "ipaddr_peer",
			"src_port_min", "src_port_max",
			"dst_port_min", "dst_port_max",
			"vlan_min", "vlan_max")
	}
	if opts.IncludeMetrics {
		cols = append(cols, "bytes")
	}
	return cols
}

func buildRow(device types.ExistingDevice, c types.CriteriaRecord, netBytes float64, first bool, opts Options) []string {
	row := []string{device.Name}
	if opts.Verbose {
		if first {
			row = append(row,
				device.Author,
				device.Description,
				strconv.FormatBool(device.Disabled),
				device.ExtraHopID,
				strconv.FormatInt(device.ID, 10),
				strconv.FormatInt(device.ModTime, 10))
		} else {
			row = append(row, "", "", "", "", "", "")
		}
	}
	if opts.IncludeCriteria {
		row = append(row,
			c.IPAddr, c.IPAddrDirection, c.IPAddrPeer,
			boundString(c.SrcPortMin), boundString(c.SrcPortMax),
			boundString(c.DstPortMin), boundString(c.DstPortMax),
			boundString(c.VLANMin), boundString(c.VLANMax))
	}
	if opts.IncludeMetrics {
		if first {
			row = append(row, strconv.FormatFloat(netBytes, 'f', -1, 64))
		} else {
			row = append(row, "")
		}
	}
	return row
}

func boundString(v *int) string {
	if v == nil {
		return ""
	}
	return strconv.Itoa(*v)
}
