package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/netpivot/devicesync/pkg/client"
	"github.com/netpivot/devicesync/pkg/log"
	"github.com/netpivot/devicesync/pkg/types"
)

// Appliance API paths served through the catalog.
const (
	pathCustomDevices = "/api/v1/customdevices"
	pathDeviceSearch  = "/api/v1/devices/search"
	pathMetrics       = "/api/v1/metrics"
)

// Catalog is the read model of one appliance's custom devices. It is loaded
// once per appliance pass, consulted read-only while that pass runs, and
// discarded before the next appliance.
type Catalog struct {
	channel *client.Channel
	devices []types.ExistingDevice
	byName  map[string][]int
	log     zerolog.Logger
}

// Load fetches all custom devices with their criteria and indexes them by
// name.
func Load(ctx context.Context, ch *client.Channel) (*Catalog, error) {
	c := &Catalog{
		channel: ch,
		byName:  make(map[string][]int),
		log:     log.WithAppliance(ch.Host()),
	}

	devices, err := c.fetch(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("failed to load custom devices: %w", err)
	}
	c.devices = devices
	for i, d := range devices {
		if d.Name == "" {
			continue
		}
		c.byName[d.Name] = append(c.byName[d.Name], i)
	}

	c.log.Info().Int("devices", len(devices)).Msg("loaded custom devices")
	return c, nil
}

// Len returns the number of custom devices on the appliance.
func (c *Catalog) Len() int {
	return len(c.devices)
}

// FindByName returns the first custom device with an exact name match. When
// several devices share the name the ambiguity is logged and the first one
// wins; the tie-break is deliberately not smarter than that.
func (c *Catalog) FindByName(name string) (*types.ExistingDevice, bool) {
	idx, ok := c.byName[name]
	if !ok || len(idx) == 0 {
		return nil, false
	}
	if len(idx) > 1 {
		ids := make([]int64, 0, len(idx))
		for _, i := range idx {
			ids = append(ids, c.devices[i].ID)
		}
		c.log.Warn().
			Str("device", name).
			Ints64("ids", ids).
			Msg("multiple custom devices share this name, using the first match")
	}
	return &c.devices[idx[0]], true
}

// ListAll fetches a fresh device list for the audit path. Criteria are only
// requested when the caller needs them.
func (c *Catalog) ListAll(ctx context.Context, includeCriteria bool) ([]types.ExistingDevice, error) {
	return c.fetch(ctx, includeCriteria)
}

func (c *Catalog) fetch(ctx context.Context, includeCriteria bool) ([]types.ExistingDevice, error) {
	path := fmt.Sprintf("%s?include_criteria=%t", pathCustomDevices, includeCriteria)
	resp, err := c.channel.Do(ctx, http.MethodGet, path, nil)
	if err != nil {
		return nil, err
	}

	var devices []types.ExistingDevice
	if err := json.Unmarshal(resp.Body, &devices); err != nil {
		return nil, fmt.Errorf("failed to decode custom device list: %w", err)
	}
	return devices, nil
}

// DeviceRecord is one entry from the device search endpoint. Search covers
// all device roles, not just custom devices, so Role must be checked.
type DeviceRecord struct {
	ID   int64  `json:"id"`
	Name string `json:"display_name"`
	Role string `json:"role"`
}

// SearchByName runs an exact-name device search on the appliance.
func (c *Catalog) SearchByName(ctx context.Context, name string) ([]DeviceRecord, error) {
	payload := map[string]any{
		"filter": map[string]any{
			"field":    "name",
			"operand":  name,
			"operator": "=",
		},
	}
	resp, err := c.channel.Do(ctx, http.MethodPost, pathDeviceSearch, payload)
	if err != nil {
		return nil, err
	}

	var records []DeviceRecord
	if err := json.Unmarshal(resp.Body, &records); err != nil {
		return nil, fmt.Errorf("failed to decode device search result: %w", err)
	}
	return records, nil
}

// NetBytes returns the total network bytes observed for a device over the
// trailing two weeks, summed across all returned stat values.
func (c *Catalog) NetBytes(ctx context.Context, deviceID int64) (float64, error) {
	payload := map[string]any{
		"cycle":           "auto",
		"from":            -1209600000,
		"until":           0,
		"object_type":     "device",
		"object_ids":      []int64{deviceID},
		"metric_category": "net",
		"metric_specs":    []map[string]string{{"name": "bytes"}},
	}
	resp, err := c.channel.Do(ctx, http.MethodPost, pathMetrics, payload)
	if err != nil {
		return 0, err
	}

	var result struct {
		Stats []struct {
			Values []any `json:"values"`
		} `json:"stats"`
	}
	if err := json.Unmarshal(resp.Body, &result); err != nil {
		return 0, fmt.Errorf("failed to decode metric query result: %w", err)
	}

	var total float64
	for _, stat := range result.Stats {
		for _, v := range stat.Values {
			if n, ok := v.(float64); ok {
				total += n
			}
		}
	}
	return total, nil
}
