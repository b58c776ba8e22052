package reconciler

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/netpivot/devicesync/pkg/catalog"
	"github.com/netpivot/devicesync/pkg/client"
	"github.com/netpivot/devicesync/pkg/confirm"
	"github.com/netpivot/devicesync/pkg/log"
	"github.com/netpivot/devicesync/pkg/match"
	"github.com/netpivot/devicesync/pkg/metrics"
	"github.com/netpivot/devicesync/pkg/summary"
	"github.com/netpivot/devicesync/pkg/types"
)

const pathCustomDevices = "/api/v1/customdevices"

// Mode selects which of the four reconciliation behaviors a run performs.
// Exactly one mode is active per run.
type Mode string

const (
	ModeCreate Mode = "create"
	ModeAppend Mode = "append"
	ModeRemove Mode = "remove"
	ModeDelete Mode = "delete"
)

// Options is the immutable configuration of one reconciliation run.
type Options struct {
	Mode Mode

	// Replace lets create mode replace-patch devices that already exist.
	// Without it an existing device is skipped, never overwritten.
	Replace bool

	// DryRun computes and logs every operation without applying it.
	DryRun bool
}

// Reconciler converges one appliance's custom devices toward the declared
// specs. It owns the appliance's channel and catalog for the duration of the
// pass and is discarded afterwards.
type Reconciler struct {
	channel *client.Channel
	catalog *catalog.Catalog
	gate    confirm.Gate
	summary *summary.Summary
	opts    Options
	log     zerolog.Logger

	// authFailed short-circuits the rest of this appliance once the API
	// rejects the key; later appliances are unaffected.
	authFailed bool
}

// New creates a reconciler for one appliance pass.
func New(ch *client.Channel, cat *catalog.Catalog, gate confirm.Gate, sum *summary.Summary, opts Options) *Reconciler {
	return &Reconciler{
		channel: ch,
		catalog: cat,
		gate:    gate,
		summary: sum,
		opts:    opts,
		log:     log.WithAppliance(ch.Host()),
	}
}

// Run reconciles the declared specs in order. Every failure is absorbed at
// the operation boundary: the loop always finishes and every spec ends up
// counted in the summary.
func (r *Reconciler) Run(ctx context.Context, specs []types.DeviceSpec) {
	timer := metrics.NewTimer()
	defer timer.ObserveDuration(metrics.ReconcileDuration)

	if r.opts.DryRun {
		r.log.Info().Msg("dry run mode, no changes will be made")
	}

	for _, spec := range specs {
		if r.authFailed {
			r.log.Error().
				Str("device", spec.Name).
				Msg("authentication already failed on this appliance, not attempting")
			r.record(r.nominalKind(), types.OutcomeFailed)
			continue
		}
		r.reconcileDevice(ctx, spec)
	}
}

// reconcileDevice runs the per-device state machine: decide, optionally
// confirm, apply, record.
func (r *Reconciler) reconcileDevice(ctx context.Context, spec types.DeviceSpec) {
	deviceLog := r.log.With().Str("device", spec.Name).Logger()

	op, outcome := r.decide(spec, deviceLog)
	if op == nil {
		r.record(r.nominalKind(), outcome)
		return
	}

	outcome = r.apply(ctx, op, deviceLog)
	r.record(op.Kind, outcome)
}

// decide computes the operation for one spec, or a terminal outcome when no
// call should be made. Decisions are identical under dry-run and live runs.
func (r *Reconciler) decide(spec types.DeviceSpec, deviceLog zerolog.Logger) (*types.Operation, types.Outcome) {
	existing, found := r.catalog.FindByName(spec.Name)

	switch r.opts.Mode {
	case ModeCreate:
		return r.decideCreate(spec, existing, found, deviceLog)
	case ModeAppend:
		return r.decideAppend(spec, existing, found, deviceLog)
	case ModeRemove:
		return r.decideRemove(spec, existing, found, deviceLog)
	case ModeDelete:
		return r.decideDelete(spec, existing, found, deviceLog)
	default:
		deviceLog.Error().Str("mode", string(r.opts.Mode)).Msg("unknown reconciliation mode")
		return nil, types.OutcomeFailed
	}
}

func (r *Reconciler) decideCreate(spec types.DeviceSpec, existing *types.ExistingDevice, found bool, deviceLog zerolog.Logger) (*types.Operation, types.Outcome) {
	if !found {
		return &types.Operation{
			Kind:   types.OpCreate,
			Device: spec.Name,
			Spec:   &spec,
		}, ""
	}

	if !r.opts.Replace {
		deviceLog.Info().Msg("device already exists and replace not enabled, skipping")
		return nil, types.OutcomeSkipped
	}

	prompt := fmt.Sprintf("Device %q already exists. Replace it?", spec.Name)
	if !r.confirmed(prompt, deviceLog) {
		return nil, types.OutcomeSkipped
	}

	// The API rejects extrahop_id after creation; strip it from the patch.
	patched := spec
	patched.ExtraHopID = ""
	return &types.Operation{
		Kind:     types.OpPatchReplace,
		Device:   spec.Name,
		RemoteID: existing.ID,
		Spec:     &patched,
	}, ""
}

func (r *Reconciler) decideAppend(spec types.DeviceSpec, existing *types.ExistingDevice, found bool, deviceLog zerolog.Logger) (*types.Operation, types.Outcome) {
	if !found {
		deviceLog.Error().Msg("device not found on appliance, cannot append criteria")
		return nil, types.OutcomeFailed
	}

	var kept []types.CriteriaRecord
	for _, candidate := range spec.Criteria {
		if match.Duplicate(candidate, existing.Criteria) {
			deviceLog.Info().
				Interface("criteria", candidate).
				Msg("criteria already present, not adding")
			continue
		}
		kept = append(kept, candidate)
	}

	if len(kept) == 0 {
		deviceLog.Info().Msg("no new criteria to add, skipping")
		return nil, types.OutcomeSkipped
	}

	combined := make([]types.CriteriaRecord, 0, len(existing.Criteria)+len(kept))
	combined = append(combined, existing.Criteria...)
	combined = append(combined, kept...)

	deviceLog.Info().
		Int("adding", len(kept)).
		Int("existing", len(existing.Criteria)).
		Int("total", len(combined)).
		Msg("appending criteria")

	return &types.Operation{
		Kind:     types.OpPatchAppend,
		Device:   spec.Name,
		RemoteID: existing.ID,
		Criteria: combined,
		Changed:  len(kept),
	}, ""
}

func (r *Reconciler) decideRemove(spec types.DeviceSpec, existing *types.ExistingDevice, found bool, deviceLog zerolog.Logger) (*types.Operation, types.Outcome) {
	if !found {
		deviceLog.Error().Msg("device not found on appliance, cannot remove criteria")
		return nil, types.OutcomeFailed
	}

	var remaining []types.CriteriaRecord
	removed := 0
	for _, ec := range existing.Criteria {
		matched := false
		for _, row := range spec.Criteria {
			if match.SubsetMatch(row, ec) {
				matched = true
				break
			}
		}
		if matched {
			removed++
		} else {
			remaining = append(remaining, ec)
		}
	}

	if removed == 0 {
		deviceLog.Info().Msg("no matching criteria to remove, skipping")
		return nil, types.OutcomeSkipped
	}

	deviceLog.Info().
		Int("removing", removed).
		Int("existing", len(existing.Criteria)).
		Int("remaining", len(remaining)).
		Msg("removing criteria")

	if len(remaining) == 0 {
		deviceLog.Warn().Msg("all criteria removed, device will have no filter criteria")
		remaining = []types.CriteriaRecord{}
	}

	return &types.Operation{
		Kind:     types.OpPatchRemove,
		Device:   spec.Name,
		RemoteID: existing.ID,
		Criteria: remaining,
		Changed:  removed,
	}, ""
}

func (r *Reconciler) decideDelete(spec types.DeviceSpec, existing *types.ExistingDevice, found bool, deviceLog zerolog.Logger) (*types.Operation, types.Outcome) {
	if !found {
		deviceLog.Info().Msg("no custom device with this name, skipping")
		return nil, types.OutcomeSkipped
	}

	prompt := fmt.Sprintf("Delete device %q (id %d)?", spec.Name, existing.ID)
	if !r.confirmed(prompt, deviceLog) {
		return nil, types.OutcomeSkipped
	}

	return &types.Operation{
		Kind:     types.OpDelete,
		Device:   spec.Name,
		RemoteID: existing.ID,
	}, ""
}

// confirmed consults the gate. A declined prompt or a gate failure both leave
// the device untouched.
func (r *Reconciler) confirmed(prompt string, deviceLog zerolog.Logger) bool {
	resp, err := r.gate.Confirm(prompt)
	if err != nil {
		deviceLog.Error().Err(err).Msg("confirmation failed, skipping device")
		return false
	}
	if resp == confirm.No {
		deviceLog.Info().Msg("declined by user, skipping")
		return false
	}
	return true
}

// apply performs the operation, or only logs it under dry-run. Dry-run and
// live runs log identical decisions; only the final call differs.
func (r *Reconciler) apply(ctx context.Context, op *types.Operation, deviceLog zerolog.Logger) types.Outcome {
	if r.opts.DryRun {
		deviceLog.Info().
			Str("operation", string(op.Kind)).
			Msg("[dry run] would apply operation")
		deviceLog.Debug().Interface("payload", r.payload(op)).Msg("[dry run] payload")
		return successOutcome(op.Kind)
	}

	var err error
	switch op.Kind {
	case types.OpCreate:
		_, err = r.channel.Do(ctx, http.MethodPost, pathCustomDevices, op.Spec)
	case types.OpPatchReplace:
		_, err = r.channel.Do(ctx, http.MethodPatch, fmt.Sprintf("%s/%d", pathCustomDevices, op.RemoteID), op.Spec)
	case types.OpPatchAppend, types.OpPatchRemove:
		body := map[string][]types.CriteriaRecord{"criteria": op.Criteria}
		_, err = r.channel.Do(ctx, http.MethodPatch, fmt.Sprintf("%s/%d", pathCustomDevices, op.RemoteID), body)
	case types.OpDelete:
		_, err = r.channel.Do(ctx, http.MethodDelete, fmt.Sprintf("%s/%d", pathCustomDevices, op.RemoteID), nil)
	}

	if err != nil {
		var apiErr *client.APIError
		if errors.As(err, &apiErr) && apiErr.AuthFailure() {
			r.authFailed = true
			r.log.Error().Msg("authentication rejected, abandoning remaining operations on this appliance")
		}
		deviceLog.Error().
			Err(err).
			Str("operation", string(op.Kind)).
			Msg("operation failed")
		return types.OutcomeFailed
	}

	deviceLog.Info().Str("operation", string(op.Kind)).Msg("operation applied")
	return successOutcome(op.Kind)
}

// payload returns what the operation would send, for dry-run logging.
func (r *Reconciler) payload(op *types.Operation) any {
	switch op.Kind {
	case types.OpCreate, types.OpPatchReplace:
		return op.Spec
	case types.OpPatchAppend, types.OpPatchRemove:
		return map[string][]types.CriteriaRecord{"criteria": op.Criteria}
	default:
		return nil
	}
}

func successOutcome(kind types.OperationKind) types.Outcome {
	switch kind {
	case types.OpCreate:
		return types.OutcomeCreated
	case types.OpDelete:
		return types.OutcomeDeleted
	default:
		return types.OutcomePatched
	}
}

// nominalKind maps the run mode to the operation kind used when an outcome is
// recorded without a computed operation.
func (r *Reconciler) nominalKind() types.OperationKind {
	switch r.opts.Mode {
	case ModeCreate:
		return types.OpCreate
	case ModeAppend:
		return types.OpPatchAppend
	case ModeRemove:
		return types.OpPatchRemove
	default:
		return types.OpDelete
	}
}

func (r *Reconciler) record(kind types.OperationKind, outcome types.Outcome) {
	r.summary.Record(outcome)
	metrics.OperationsTotal.WithLabelValues(string(kind), string(outcome)).Inc()
}
