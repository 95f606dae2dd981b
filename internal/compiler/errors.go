// Package compiler defines the error kinds every compile stage reports
// its failures as, and maps each kind to the CLI's exit code. The passes
// themselves are run in sequence by internal/driver.
package compiler

import "fmt"

// Kind classifies a compile error for exit-code and message purposes.
type Kind int

const (
	KindSpec Kind = iota
	KindTopology
	KindRouting
	KindClock
	KindProtocol
	KindInternal
)

func (k Kind) String() string {
	switch k {
	case KindSpec:
		return "SpecError"
	case KindTopology:
		return "TopologyError"
	case KindRouting:
		return "RoutingError"
	case KindClock:
		return "ClockError"
	case KindProtocol:
		return "ProtocolError"
	case KindInternal:
		return "InternalInvariant"
	default:
		return "UnknownError"
	}
}

// Error is the single error type surfaced across pass boundaries,
// carrying enough structure for the CLI to print one diagnostic and
// choose an exit code.
type Error struct {
	Kind Kind
	Msg  string
	Err  error // wrapped cause, if any
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Msg, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Msg)
}

func (e *Error) Unwrap() error { return e.Err }

func newErr(k Kind, msg string, cause error) *Error {
	return &Error{Kind: k, Msg: msg, Err: cause}
}

// SpecError: bad/unknown names, duplicate definitions, malformed
// expressions, conflicting signal widths on an interface. Also raised
// for BadReference.
func SpecError(msg string, cause error) *Error { return newErr(KindSpec, msg, cause) }

// TopologyError: fan-out/fan-in mismatch, unresolved topology endpoint,
// unicast linkpoint driving multiple links.
func TopologyError(msg string, cause error) *Error { return newErr(KindTopology, msg, cause) }

// RoutingError: disconnected required port, cycle discovered during a
// latency query (CycleInRouting).
func RoutingError(msg string, cause error) *Error { return newErr(KindRouting, msg, cause) }

// ClockError: an interconnect vertex isolated from all terminals.
func ClockError(msg string, cause error) *Error { return newErr(KindClock, msg, cause) }

// ProtocolError: a field required by a sink is neither produced
// upstream nor defaulted, under strict mode.
func ProtocolError(msg string, cause error) *Error { return newErr(KindProtocol, msg, cause) }

// InternalInvariant: an invariant the netlist is supposed to hold failed after the pass
// that is supposed to establish it. Always a bug, never a user-facing
// input problem.
func InternalInvariant(msg string, cause error) *Error { return newErr(KindInternal, msg, cause) }

// ExitCode maps an error Kind to the process exit code described in
// the CLI surface: 1 for any specification-time error, 2 for
// an internal invariant failure.
func (k Kind) ExitCode() int {
	if k == KindInternal {
		return 2
	}
	return 1
}
