package match

import "github.com/netpivot/devicesync/pkg/types"

// SubsetMatch reports whether every field present in row equals the
// corresponding field in existing. Absent fields in row are wildcards, so a
// row carrying only an ipaddr matches every existing record with that ipaddr
// regardless of its port or VLAN bounds. Removal relies on this: broader rows
// deliberately match more records.
func SubsetMatch(row, existing types.CriteriaRecord) bool {
	if row.IPAddr != "" && row.IPAddr != existing.IPAddr {
		return false
	}
	if row.IPAddrDirection != "" && row.IPAddrDirection != existing.IPAddrDirection {
		return false
	}
	if row.IPAddrPeer != "" && row.IPAddrPeer != existing.IPAddrPeer {
		return false
	}
	if !boundMatch(row.SrcPortMin, existing.SrcPortMin) {
		return false
	}
	if !boundMatch(row.SrcPortMax, existing.SrcPortMax) {
		return false
	}
	if !boundMatch(row.DstPortMin, existing.DstPortMin) {
		return false
	}
	if !boundMatch(row.DstPortMax, existing.DstPortMax) {
		return false
	}
	if !boundMatch(row.VLANMin, existing.VLANMin) {
		return false
	}
	if !boundMatch(row.VLANMax, existing.VLANMax) {
		return false
	}
	return true
}

// boundMatch compares one optional integer bound. A nil want is a wildcard.
func boundMatch(want, have *int) bool {
	if want == nil {
		return true
	}
	return have != nil && *have == *want
}

// Duplicate reports whether candidate is already present in existing. Two
// records are duplicates when they subset-match in both directions, meaning
// they carry exactly the same fields with exactly the same values.
func Duplicate(candidate types.CriteriaRecord, existing []types.CriteriaRecord) bool {
	for _, ec := range existing {
		if SubsetMatch(candidate, ec) && SubsetMatch(ec, candidate) {
			return true
		}
	}
	return false
}
