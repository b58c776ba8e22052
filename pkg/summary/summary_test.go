package summary

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/netpivot/devicesync/pkg/types"
)

func TestRecord(t *testing.T) {
	var s Summary
	s.Record(types.OutcomeCreated)
	s.Record(types.OutcomeCreated)
	s.Record(types.OutcomePatched)
	s.Record(types.OutcomeSkipped)
	s.Record(types.OutcomeFailed)
	s.Record(types.OutcomeDeleted)

	assert.Equal(t, 2, s.Created)
	assert.Equal(t, 1, s.Patched)
	assert.Equal(t, 1, s.Deleted)
	assert.Equal(t, 1, s.Skipped)
	assert.Equal(t, 1, s.Failed)
}

func TestStringSkipsZeroCounters(t *testing.T) {
	s := Summary{Created: 2, Skipped: 1}
	assert.Equal(t, "Summary: 2 created, 1 skipped", s.String())
}

func TestStringEmpty(t *testing.T) {
	var s Summary
	assert.Equal(t, "Summary: no operations performed", s.String())
}

func TestStringAllCounters(t *testing.T) {
	s := Summary{Created: 1, Patched: 2, Deleted: 3, Skipped: 4, Failed: 5, Audited: 6}
	assert.Equal(t,
		"Summary: 1 created, 2 patched, 3 deleted, 4 skipped, 5 failed, 6 audited",
		s.String())
}
