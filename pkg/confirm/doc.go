/*
Package confirm mediates interactive confirmation of destructive operations.

The Gate interface keeps prompting out of the reconciler's decision logic: the
engine asks an abstract gate and a test double supplies canned answers, so the
state machine is testable without a terminal.

TerminalGate is the interactive implementation with a tri-state answer (yes,
no, all). "all" is sticky for the rest of the run; the reconciler tracks that
and stops asking. AutoGate implements the batch bypass flag.
*/
package confirm
