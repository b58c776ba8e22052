package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCriteriaRecordEmpty(t *testing.T) {
	assert.True(t, CriteriaRecord{}.Empty())

	port := 80
	assert.False(t, CriteriaRecord{IPAddr: "10.0.0.0/8"}.Empty())
	assert.False(t, CriteriaRecord{DstPortMin: &port}.Empty())
}

// Absent bounds must be omitted from payloads entirely; the appliance treats
// an explicit zero differently from an unconstrained field.
func TestCriteriaRecordAbsentFieldsOmitted(t *testing.T) {
	port := 443
	rec := CriteriaRecord{IPAddr: "10.0.0.0/8", DstPortMax: &port}

	data, err := json.Marshal(rec)
	require.NoError(t, err)
	assert.JSONEq(t, `{"ipaddr":"10.0.0.0/8","dst_port_max":443}`, string(data))
}

func TestDeviceSpecPayloadShape(t *testing.T) {
	spec := DeviceSpec{
		Name:     "Seattle",
		Author:   "netops",
		Criteria: []CriteriaRecord{},
	}

	data, err := json.Marshal(spec)
	require.NoError(t, err)

	var raw map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(data, &raw))

	// disabled and criteria always travel; extrahop_id only when set
	assert.Contains(t, raw, "disabled")
	assert.Contains(t, raw, "criteria")
	assert.NotContains(t, raw, "extrahop_id")
}
