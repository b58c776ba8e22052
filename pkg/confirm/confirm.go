package confirm

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// Response is the user's answer to one confirmation prompt.
type Response int

const (
	// No skips this device only.
	No Response = iota
	// Yes confirms this device only.
	Yes
	// All confirms this device and every remaining prompt in the run.
	All
)

// Gate mediates per-device confirmation of destructive operations. The
// reconciler consults it before replace-patches and deletes; additive and
// targeted operations never pass through a gate.
type Gate interface {
	Confirm(prompt string) (Response, error)
}

// TerminalGate prompts on an interactive terminal and re-asks until it gets
// one of yes, no, or all.
type TerminalGate struct {
	in  *bufio.Reader
	out io.Writer
}

// NewTerminalGate creates a gate reading answers from in and writing prompts
// to out.
func NewTerminalGate(in io.Reader, out io.Writer) *TerminalGate {
	return &TerminalGate{
		in:  bufio.NewReader(in),
		out: out,
	}
}

// Confirm asks the user and blocks until a valid answer arrives.
func (g *TerminalGate) Confirm(prompt string) (Response, error) {
	for {
		fmt.Fprintf(g.out, "%s (yes/no/all): ", prompt)
		line, err := g.in.ReadString('\n')
		if err != nil && line == "" {
			return No, fmt.Errorf("failed to read confirmation: %w", err)
		}
		switch strings.ToLower(strings.TrimSpace(line)) {
		case "yes":
			return Yes, nil
		case "no":
			return No, nil
		case "all":
			return All, nil
		}
		fmt.Fprintln(g.out, "Invalid input. Choose one of: yes, no, all")
	}
}

// AutoGate confirms everything without interaction. Used when the batch flag
// bypasses prompting.
type AutoGate struct{}

// Confirm always answers Yes.
func (AutoGate) Confirm(string) (Response, error) {
	return Yes, nil
}

// Sticky wraps a gate and remembers an All answer: once the user confirms all
// remaining operations, no further prompt is shown for the rest of the run,
// including on later appliances.
type Sticky struct {
	gate Gate
	all  bool
}

// NewSticky wraps gate with run-wide All memory.
func NewSticky(gate Gate) *Sticky {
	return &Sticky{gate: gate}
}

// Confirm delegates to the wrapped gate until an All answer arrives, then
// auto-confirms everything after it.
func (s *Sticky) Confirm(prompt string) (Response, error) {
	if s.all {
		return Yes, nil
	}
	resp, err := s.gate.Confirm(prompt)
	if resp == All {
		s.all = true
	}
	return resp, err
}
