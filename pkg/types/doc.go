/*
Package types defines the core data structures used throughout devicesync.

This package contains the domain model shared by all other packages: appliance
targets, criteria records, desired device specs, observed devices, computed
operations, and operation outcomes.

# Core Types

Desired state:
  - DeviceSpec: one custom device folded from all input rows with its name
  - CriteriaRecord: one IP/port/VLAN filter group; absent fields are wildcards

Observed state:
  - ExistingDevice: a custom device as returned by the appliance API
  - ApplianceTarget: host plus API key for one appliance

Reconciliation:
  - Operation: a computed create/patch/delete call, tagged by OperationKind
  - Outcome: created, patched, deleted, skipped, or failed

All types are plain values with no shared mutable state, so they can be copied
freely between the desired and observed representations. JSON tags match the
appliance wire format exactly; port and VLAN bounds are pointers so that an
absent bound is omitted from payloads rather than sent as zero.
*/
package types
