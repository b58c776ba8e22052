package inventory

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/netpivot/devicesync/pkg/types"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestLoadAppliancesCSV(t *testing.T) {
	path := writeFile(t, "appliances.csv",
		"hostname,api_key\n"+
			"eda1.example.com,key1\n"+
			"eda2.example.com,key2\n"+
			",missing-host\n"+
			"eda3.example.com,\n")

	targets, err := LoadAppliances(path)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, types.ApplianceTarget{Host: "eda1.example.com", APIKey: "key1"}, targets[0])
	assert.Equal(t, types.ApplianceTarget{Host: "eda2.example.com", APIKey: "key2"}, targets[1])
}

func TestLoadAppliancesCSVWithBOM(t *testing.T) {
	path := writeFile(t, "appliances.csv",
		"\xEF\xBB\xBFhostname,api_key\neda1.example.com,key1\n")

	targets, err := LoadAppliances(path)
	require.NoError(t, err)
	require.Len(t, targets, 1)
	assert.Equal(t, "eda1.example.com", targets[0].Host)
}

func TestLoadAppliancesYAML(t *testing.T) {
	path := writeFile(t, "appliances.yaml", `
appliances:
  - host: eda1.example.com
    api_key: key1
  - host: eda2.example.com
    api_key: key2
`)

	targets, err := LoadAppliances(path)
	require.NoError(t, err)
	require.Len(t, targets, 2)
	assert.Equal(t, "eda2.example.com", targets[1].Host)
	assert.Equal(t, "key2", targets[1].APIKey)
}

func TestLoadSpecsFoldsRowsByName(t *testing.T) {
	path := writeFile(t, "devices.csv",
		"name,author,description,disabled,ipaddr,dst_port_min\n"+
			"Seattle,netops,West region,false,192.168.0.0/26,\n"+
			"Seattle,,ignored metadata,true,10.50.0.0/24,80\n"+
			"Portland,,,true,172.16.0.0/16,\n")

	specs, err := LoadSpecs(path)
	require.NoError(t, err)
	require.Len(t, specs, 2)

	seattle := specs[0]
	assert.Equal(t, "Seattle", seattle.Name)
	assert.Equal(t, "netops", seattle.Author)
	assert.Equal(t, "West region", seattle.Description)
	assert.False(t, seattle.Disabled, "metadata comes from the first row only")
	require.Len(t, seattle.Criteria, 2)
	assert.Equal(t, "192.168.0.0/26", seattle.Criteria[0].IPAddr)
	assert.Equal(t, "10.50.0.0/24", seattle.Criteria[1].IPAddr)
	require.NotNil(t, seattle.Criteria[1].DstPortMin)
	assert.Equal(t, 80, *seattle.Criteria[1].DstPortMin)

	portland := specs[1]
	assert.Equal(t, "Portland", portland.Name)
	assert.Equal(t, DefaultAuthor, portland.Author)
	assert.True(t, portland.Disabled)
}

func TestLoadSpecsDropsInvalidRows(t *testing.T) {
	path := writeFile(t, "devices.csv",
		"name,ipaddr,dst_port_min,ipaddr_direction,ipaddr_peer\n"+
			"Good,10.0.0.0/8,443,,\n"+
			"BadPort,10.0.0.0/8,70000,,\n"+
			"BadInt,10.0.0.0/8,eighty,,\n"+
			"BadPeer,,,,10.1.1.1\n"+
			"BadPeerAny,10.0.0.0/8,,any,10.1.1.1\n"+
			",10.9.9.9,,,\n")

	specs, err := LoadSpecs(path)
	require.NoError(t, err)

	// Invalid rows are dropped but the specs they would create are too; only
	// devices with at least one surviving row remain
	require.Len(t, specs, 1)
	assert.Equal(t, "Good", specs[0].Name)
	require.Len(t, specs[0].Criteria, 1)
}

func TestLoadSpecsVlanRange(t *testing.T) {
	path := writeFile(t, "devices.csv",
		"name,vlan_min,vlan_max\n"+
			"Valid,0,4095\n"+
			"Invalid,0,4096\n")

	specs, err := LoadSpecs(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Equal(t, "Valid", specs[0].Name)
	require.NotNil(t, specs[0].Criteria[0].VLANMax)
	assert.Equal(t, 4095, *specs[0].Criteria[0].VLANMax)
}

func TestLoadSpecsMetadataOnlyRow(t *testing.T) {
	path := writeFile(t, "devices.csv",
		"name,description\nSeattle,no criteria at all\n")

	specs, err := LoadSpecs(path)
	require.NoError(t, err)
	require.Len(t, specs, 1)
	assert.Empty(t, specs[0].Criteria)
}

func TestLoadSpecsEmptyFile(t *testing.T) {
	path := writeFile(t, "devices.csv", "name,ipaddr\n")

	specs, err := LoadSpecs(path)
	require.NoError(t, err)
	assert.Empty(t, specs)
}
