package match

import (
	"testing"

	"github.com/netpivot/devicesync/pkg/types"
	"github.com/stretchr/testify/assert"
)

func intp(v int) *int { return &v }

// TestSubsetMatch tests the wildcard matching used by criteria removal
func TestSubsetMatch(t *testing.T) {
	tests := []struct {
		name     string
		row      types.CriteriaRecord
		existing types.CriteriaRecord
		want     bool
	}{
		{
			name:     "empty row matches anything",
			row:      types.CriteriaRecord{},
			existing: types.CriteriaRecord{IPAddr: "10.50.0.0/24", DstPortMin: intp(80)},
			want:     true,
		},
		{
			name:     "ipaddr only ignores extra fields on existing",
			row:      types.CriteriaRecord{IPAddr: "10.50.0.0/24"},
			existing: types.CriteriaRecord{IPAddr: "10.50.0.0/24", DstPortMin: intp(80)},
			want:     true,
		},
		{
			name:     "ipaddr mismatch",
			row:      types.CriteriaRecord{IPAddr: "10.50.0.0/24"},
			existing: types.CriteriaRecord{IPAddr: "192.168.0.0/26"},
			want:     false,
		},
		{
			name:     "port bound present in row but absent on existing",
			row:      types.CriteriaRecord{IPAddr: "10.50.0.0/24", DstPortMin: intp(80)},
			existing: types.CriteriaRecord{IPAddr: "10.50.0.0/24"},
			want:     false,
		},
		{
			name:     "port bound equal",
			row:      types.CriteriaRecord{DstPortMin: intp(80)},
			existing: types.CriteriaRecord{IPAddr: "10.50.0.0/24", DstPortMin: intp(80)},
			want:     true,
		},
		{
			name:     "port bound different",
			row:      types.CriteriaRecord{DstPortMin: intp(443)},
			existing: types.CriteriaRecord{DstPortMin: intp(80)},
			want:     false,
		},
		{
			name:     "direction and peer must both match",
			row:      types.CriteriaRecord{IPAddr: "10.0.0.1", IPAddrDirection: types.DirectionSrc, IPAddrPeer: "10.0.0.2"},
			existing: types.CriteriaRecord{IPAddr: "10.0.0.1", IPAddrDirection: types.DirectionSrc, IPAddrPeer: "10.0.0.3"},
			want:     false,
		},
		{
			name:     "vlan bounds",
			row:      types.CriteriaRecord{VLANMin: intp(100), VLANMax: intp(200)},
			existing: types.CriteriaRecord{VLANMin: intp(100), VLANMax: intp(200)},
			want:     true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SubsetMatch(tt.row, tt.existing))
		})
	}
}

// TestSubsetMatchMonotonicity verifies that removing a field from the row can
// only broaden the match, never narrow it
func TestSubsetMatchMonotonicity(t *testing.T) {
	existing := types.CriteriaRecord{
		IPAddr:     "10.50.0.0/24",
		DstPortMin: intp(80),
		DstPortMax: intp(443),
	}

	full := types.CriteriaRecord{
		IPAddr:     "10.50.0.0/24",
		DstPortMin: intp(80),
		DstPortMax: intp(443),
	}
	assert.True(t, SubsetMatch(full, existing))

	// Drop fields one at a time; the match must hold at every step
	noMax := full
	noMax.DstPortMax = nil
	assert.True(t, SubsetMatch(noMax, existing))

	noPorts := noMax
	noPorts.DstPortMin = nil
	assert.True(t, SubsetMatch(noPorts, existing))

	assert.True(t, SubsetMatch(types.CriteriaRecord{}, existing))
}

// TestDuplicate tests exact-duplicate detection used by criteria append
func TestDuplicate(t *testing.T) {
	base := types.CriteriaRecord{IPAddr: "10.50.0.0/24", DstPortMin: intp(80)}

	tests := []struct {
		name      string
		candidate types.CriteriaRecord
		existing  []types.CriteriaRecord
		want      bool
	}{
		{
			name:      "reflexive",
			candidate: base,
			existing:  []types.CriteriaRecord{base},
			want:      true,
		},
		{
			name:      "empty list",
			candidate: base,
			existing:  nil,
			want:      false,
		},
		{
			name:      "subset is not a duplicate",
			candidate: types.CriteriaRecord{IPAddr: "10.50.0.0/24"},
			existing:  []types.CriteriaRecord{base},
			want:      false,
		},
		{
			name:      "superset is not a duplicate",
			candidate: types.CriteriaRecord{IPAddr: "10.50.0.0/24", DstPortMin: intp(80), DstPortMax: intp(443)},
			existing:  []types.CriteriaRecord{base},
			want:      false,
		},
		{
			name:      "found among others",
			candidate: base,
			existing: []types.CriteriaRecord{
				{IPAddr: "192.168.0.0/26"},
				base,
				{VLANMin: intp(10)},
			},
			want: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Duplicate(tt.candidate, tt.existing))
		})
	}
}

// TestDuplicateOrderIndependent verifies the result does not depend on the
// order of the existing list
func TestDuplicateOrderIndependent(t *testing.T) {
	candidate := types.CriteriaRecord{IPAddr: "10.50.0.0/24"}
	a := types.CriteriaRecord{IPAddr: "192.168.0.0/26"}
	b := types.CriteriaRecord{IPAddr: "10.50.0.0/24"}
	c := types.CriteriaRecord{VLANMin: intp(7)}

	assert.True(t, Duplicate(candidate, []types.CriteriaRecord{a, b, c}))
	assert.True(t, Duplicate(candidate, []types.CriteriaRecord{c, b, a}))
	assert.True(t, Duplicate(candidate, []types.CriteriaRecord{b, a, c}))

	assert.False(t, Duplicate(candidate, []types.CriteriaRecord{a, c}))
	assert.False(t, Duplicate(candidate, []types.CriteriaRecord{c, a}))
}
