package family

import "fmt"

// DiagnosticCode classifies a recoverable problem found while building or
// laying out a family. Diagnostics never abort a build.
type DiagnosticCode string

const (
	DiagSelfMarriage     DiagnosticCode = "self_marriage"
	DiagUnknownPartner   DiagnosticCode = "unknown_partner"
	DiagUnknownMarriage  DiagnosticCode = "unknown_marriage"
	DiagUnknownChild     DiagnosticCode = "unknown_child"
	DiagUnresolvedParent DiagnosticCode = "unresolved_parent"
	DiagParentConflict   DiagnosticCode = "parent_conflict"
	DiagSelfParent       DiagnosticCode = "self_parent"
	DiagCycle            DiagnosticCode = "cycle"
	DiagCohortConflict   DiagnosticCode = "cohort_conflict"
)

// Diagnostic is a human-readable note about a dropped or invalid
// relationship. Keys lists the person (or label) keys involved.
type Diagnostic struct {
	Code    DiagnosticCode `json:"code" msgpack:"code"`
	Message string         `json:"message" msgpack:"message"`
	Keys    []int          `json:"keys,omitempty" msgpack:"keys,omitempty"`
}

// String returns the message.
func (d Diagnostic) String() string { return d.Message }

// Diagf creates a diagnostic with a formatted message.
func Diagf(code DiagnosticCode, keys []int, format string, args ...any) Diagnostic {
	return Diagnostic{Code: code, Message: fmt.Sprintf(format, args...), Keys: keys}
}
