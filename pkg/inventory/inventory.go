package inventory

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/netpivot/devicesync/pkg/log"
	"github.com/netpivot/devicesync/pkg/types"
)

// DefaultAuthor is stamped on devices whose rows carry no author column.
const DefaultAuthor = "API Automation"

// LoadAppliances reads the appliance inventory. YAML files (.yaml/.yml) use
// the appliances list form; everything else is treated as the CSV form with
// hostname and api_key columns. Entries missing either field are skipped
// with a warning.
func LoadAppliances(path string) ([]types.ApplianceTarget, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return loadAppliancesYAML(path)
	default:
		return loadAppliancesCSV(path)
	}
}

func loadAppliancesYAML(path string) ([]types.ApplianceTarget, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read appliance inventory: %w", err)
	}

	var doc struct {
		Appliances []types.ApplianceTarget `yaml:"appliances"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse appliance inventory: %w", err)
	}

	return filterAppliances(doc.Appliances), nil
}

func loadAppliancesCSV(path string) ([]types.ApplianceTarget, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read appliance inventory: %w", err)
	}

	targets := make([]types.ApplianceTarget, 0, len(rows))
	for _, row := range rows {
		host := row["hostname"]
		if host == "" {
			host = row["host"]
		}
		targets = append(targets, types.ApplianceTarget{
			Host:   host,
			APIKey: row["api_key"],
		})
	}
	return filterAppliances(targets), nil
}

func filterAppliances(in []types.ApplianceTarget) []types.ApplianceTarget {
	out := in[:0]
	for _, t := range in {
		if t.Host == "" || t.APIKey == "" {
			log.Logger.Warn().
				Str("host", t.Host).
				Msg("skipping appliance entry with missing hostname or api_key")
			continue
		}
		out = append(out, t)
	}
	return out
}

// LoadSpecs reads desired-state rows from a CSV file and folds them into
// device specs. Rows sharing a name contribute criteria to one spec; the
// first row of a name supplies the device metadata. Rows failing validation
// are dropped with a warning, never silently coerced, and never abort the
// load.
func LoadSpecs(path string) ([]types.DeviceSpec, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read device rows: %w", err)
	}
	if len(rows) == 0 {
		log.Logger.Warn().Str("file", path).Msg("no device rows found, nothing to do")
		return nil, nil
	}

	var order []string
	specs := make(map[string]*types.DeviceSpec)

	for _, row := range rows {
		name := row["name"]
		if name == "" {
			log.Logger.Warn().Msg("skipping row with empty device name")
			continue
		}

		criteria, ok := parseCriteria(row, name)
		if !ok {
			continue
		}

		spec, seen := specs[name]
		if !seen {
			author := row["author"]
			if author == "" {
				author = DefaultAuthor
			}
			spec = &types.DeviceSpec{
				Name:        name,
				Author:      author,
				Description: row["description"],
				Disabled:    strings.EqualFold(row["disabled"], "true"),
				ExtraHopID:  row["extrahop_id"],
			}
			specs[name] = spec
			order = append(order, name)
		}

		if !criteria.Empty() {
			spec.Criteria = append(spec.Criteria, criteria)
		}
	}

	out := make([]types.DeviceSpec, 0, len(order))
	for _, name := range order {
		out = append(out, *specs[name])
	}
	return out, nil
}

// Criteria columns recognized in device CSV files.
var (
	criteriaIntFields = []string{
		"src_port_min", "src_port_max",
		"dst_port_min", "dst_port_max",
		"vlan_min", "vlan_max",
	}
)

// parseCriteria builds one criteria record from a row. A row with an invalid
// port/VLAN value or an invalid ipaddr_peer combination is rejected as a
// whole; the caller drops it.
func parseCriteria(row map[string]string, device string) (types.CriteriaRecord, bool) {
	rec := types.CriteriaRecord{
		IPAddr:          row["ipaddr"],
		IPAddrDirection: row["ipaddr_direction"],
		IPAddrPeer:      row["ipaddr_peer"],
	}

	for _, field := range criteriaIntFields {
		val := row[field]
		if val == "" {
			continue
		}
		n, err := strconv.Atoi(val)
		if err != nil {
			log.Logger.Warn().
				Str("device", device).
				Str("field", field).
				Str("value", val).
				Msg("invalid integer in criteria row, dropping row")
			return types.CriteriaRecord{}, false
		}
		if strings.Contains(field, "port") && (n < 1 || n > 65535) {
			log.Logger.Warn().
				Str("device", device).
				Str("field", field).
				Int("value", n).
				Msg("port out of range 1-65535, dropping row")
			return types.CriteriaRecord{}, false
		}
		if strings.HasPrefix(field, "vlan") && (n < 0 || n > 4095) {
			log.Logger.Warn().
				Str("device", device).
				Str("field", field).
				Int("value", n).
				Msg("vlan out of range 0-4095, dropping row")
			return types.CriteriaRecord{}, false
		}
		setBound(&rec, field, n)
	}

	if rec.IPAddrPeer != "" {
		if rec.IPAddr == "" {
			log.Logger.Warn().
				Str("device", device).
				Msg("ipaddr_peer requires ipaddr, dropping row")
			return types.CriteriaRecord{}, false
		}
		if rec.IPAddrDirection == types.DirectionAny {
			log.Logger.Warn().
				Str("device", device).
				Msg("ipaddr_peer is not valid when ipaddr_direction is any, dropping row")
			return types.CriteriaRecord{}, false
		}
	}

	return rec, true
}

func setBound(rec *types.CriteriaRecord, field string, n int) {
	v := n
	switch field {
	case "src_port_min":
		rec.SrcPortMin = &v
	case "src_port_max":
		rec.SrcPortMax = &v
	case "dst_port_min":
		rec.DstPortMin = &v
	case "dst_port_max":
		rec.DstPortMax = &v
	case "vlan_min":
		rec.VLANMin = &v
	case "vlan_max":
		rec.VLANMax = &v
	}
}

// readCSV reads a header-keyed CSV file into trimmed row maps. A UTF-8 BOM,
// as written by Excel, is stripped before parsing.
func readCSV(path string) ([]map[string]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	reader := csv.NewReader(stripBOM(file))
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}

	header := records[0]
	for i := range header {
		header[i] = strings.TrimSpace(header[i])
	}

	rows := make([]map[string]string, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(map[string]string, len(header))
		for i, col := range header {
			if i < len(record) {
				row[col] = strings.TrimSpace(record[i])
			}
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func stripBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if lead, err := br.Peek(3); err == nil && lead[0] == 0xEF && lead[1] == 0xBB && lead[2] == 0xBF {
		_, _ = br.Discard(3)
	}
	return br
}
