package summary

import (
	"fmt"
	"strings"

	"github.com/netpivot/devicesync/pkg/types"
)

// Summary accumulates per-operation outcome counts for one invocation. It is
// write-only during the run and reported once at process end.
type Summary struct {
	Created int
	Patched int
	Deleted int
	Skipped int
	Failed  int
	Audited int
}

// Record counts one terminal operation outcome.
func (s *Summary) Record(outcome types.Outcome) {
	switch outcome {
	case types.OutcomeCreated:
		s.Created++
	case types.OutcomePatched:
		s.Patched++
	case types.OutcomeDeleted:
		s.Deleted++
	case types.OutcomeSkipped:
		s.Skipped++
	case types.OutcomeFailed:
		s.Failed++
	}
}

// String renders the final report line, listing only non-zero counters.
func (s *Summary) String() string {
	var parts []string
	if s.Created > 0 {
		parts = append(parts, fmt.Sprintf("%d created", s.Created))
	}
	if s.Patched > 0 {
		parts = append(parts, fmt.Sprintf("%d patched", s.Patched))
	}
	if s.Deleted > 0 {
		parts = append(parts, fmt.Sprintf("%d deleted", s.Deleted))
	}
	if s.Skipped > 0 {
		parts = append(parts, fmt.Sprintf("%d skipped", s.Skipped))
	}
	if s.Failed > 0 {
		parts = append(parts, fmt.Sprintf("%d failed", s.Failed))
	}
	if s.Audited > 0 {
		parts = append(parts, fmt.Sprintf("%d audited", s.Audited))
	}
	if len(parts) == 0 {
		return "Summary: no operations performed"
	}
	return "Summary: " + strings.Join(parts, ", ")
}
