package types

// ApplianceTarget identifies one appliance to reconcile. Loaded once from the
// inventory file and immutable for the rest of the run.
type ApplianceTarget struct {
	Host   string `yaml:"host"`
	APIKey string `yaml:"api_key"`
}

// Direction values accepted by the ipaddr_direction criteria field.
const (
	DirectionAny = "any"
	DirectionSrc = "src"
	DirectionDst = "dst"
)

// CriteriaRecord is one filter group attached to a custom device. Every field
// is optional; an absent field means "unconstrained", not zero. Port and VLAN
// bounds use pointers so absence and zero stay distinguishable on the wire.
type CriteriaRecord struct {
	IPAddr          string `json:"ipaddr,omitempty"`
	IPAddrDirection string `json:"ipaddr_direction,omitempty"`
	IPAddrPeer      string `json:"ipaddr_peer,omitempty"`
	SrcPortMin      *int   `json:"src_port_min,omitempty"`
	SrcPortMax      *int   `json:"src_port_max,omitempty"`
	DstPortMin      *int   `json:"dst_port_min,omitempty"`
	DstPortMax      *int   `json:"dst_port_max,omitempty"`
	VLANMin         *int   `json:"vlan_min,omitempty"`
	VLANMax         *int   `json:"vlan_max,omitempty"`
}

// Empty reports whether no criteria field is set.
func (c CriteriaRecord) Empty() bool {
	return c.IPAddr == "" && c.IPAddrDirection == "" && c.IPAddrPeer == "" &&
		c.SrcPortMin == nil && c.SrcPortMax == nil &&
		c.DstPortMin == nil && c.DstPortMax == nil &&
		c.VLANMin == nil && c.VLANMax == nil
}

// DeviceSpec is the declared desired state of one custom device, folded from
// all input rows sharing the same name. Name is the reconciliation key.
type DeviceSpec struct {
	Name        string           `json:"name"`
	Author      string           `json:"author,omitempty"`
	Description string           `json:"description,omitempty"`
	Disabled    bool             `json:"disabled"`
	ExtraHopID  string           `json:"extrahop_id,omitempty"`
	Criteria    []CriteriaRecord `json:"criteria"`
}

// ExistingDevice is a custom device as observed on the appliance. Fetched
// fresh once per appliance pass and never persisted.
type ExistingDevice struct {
	ID          int64            `json:"id"`
	Name        string           `json:"name"`
	Author      string           `json:"author,omitempty"`
	Description string           `json:"description,omitempty"`
	Disabled    bool             `json:"disabled"`
	ExtraHopID  string           `json:"extrahop_id,omitempty"`
	ModTime     int64            `json:"mod_time,omitempty"`
	Criteria    []CriteriaRecord `json:"criteria,omitempty"`
}

// OperationKind tags the mutating call an Operation performs.
type OperationKind string

const (
	OpCreate       OperationKind = "create"
	OpPatchReplace OperationKind = "patch-replace"
	OpPatchAppend  OperationKind = "patch-append"
	OpPatchRemove  OperationKind = "patch-remove"
	OpDelete       OperationKind = "delete"
)

// Operation is one computed mutating call against an appliance. Under dry-run
// it is fully computed and logged but never sent.
type Operation struct {
	Kind     OperationKind
	Device   string
	RemoteID int64

	// Spec is the full device payload for OpCreate and OpPatchReplace.
	Spec *DeviceSpec

	// Criteria is the full resulting criteria list for OpPatchAppend and
	// OpPatchRemove. The appliance API has no append/remove verb, so patches
	// always carry the complete list the device should end up with.
	Criteria []CriteriaRecord

	// Changed is how many criteria records the patch adds or removes.
	Changed int
}

// Outcome is the terminal result of one device decision.
type Outcome string

const (
	OutcomeCreated Outcome = "created"
	OutcomePatched Outcome = "patched"
	OutcomeDeleted Outcome = "deleted"
	OutcomeSkipped Outcome = "skipped"
	OutcomeFailed  Outcome = "failed"
)
