package verify

import (
	"fmt"
	"strings"
)

// Kind identifies which access path disagreed with the reference. A Kind is itself an
// error, so errors.Is(err, ValueMismatch) can be used to classify a failure.
type Kind uint8

const (
	SizeMismatch Kind = iota + 1
	MembershipMismatch
	EnumeratorMismatch
	RangeCountMismatch
	ValueMismatch
	IteratorMismatch
	IteratorBoundsMismatch
	ExtractionMismatch
	NullMismatch
	SerializationRoundtripMismatch
	DecodeMismatch
	LoaderContractViolation
)

var kindNames = [...]string{
	SizeMismatch:                   "size mismatch",
	MembershipMismatch:             "membership mismatch",
	EnumeratorMismatch:             "enumerator mismatch",
	RangeCountMismatch:             "range count mismatch",
	ValueMismatch:                  "value mismatch",
	IteratorMismatch:               "iterator mismatch",
	IteratorBoundsMismatch:         "iterator bounds mismatch",
	ExtractionMismatch:             "extraction mismatch",
	NullMismatch:                   "null mismatch",
	SerializationRoundtripMismatch: "serialization roundtrip mismatch",
	DecodeMismatch:                 "decode mismatch",
	LoaderContractViolation:        "loader contract violation",
}

// String returns the human-readable name of the kind
func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("kind(%d)", uint8(k))
}

// Error implements the error interface
func (k Kind) Error() string {
	return k.String()
}

// Mismatch describes the first divergence detected by a check: what kind of access
// path disagreed, at which index, and the two values that were compared.
type Mismatch struct {
	Kind  Kind   // Which access path disagreed
	Index uint64 // Position in the reference or the container
	Want  uint64 // Value expected from the reference or the primary path
	Got   uint64 // Value observed on the path under test
	Msg   string // Additional context, if any
	Err   error  // Underlying cause, if any
}

// Error implements the error interface
func (m *Mismatch) Error() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%s at index %d: want %d, got %d", m.Kind, m.Index, m.Want, m.Got)
	if m.Msg != "" {
		sb.WriteString(" (")
		sb.WriteString(m.Msg)
		sb.WriteString(")")
	}
	if m.Err != nil {
		sb.WriteString(": ")
		sb.WriteString(m.Err.Error())
	}
	return sb.String()
}

// Unwrap returns the kind of the mismatch and its underlying cause
func (m *Mismatch) Unwrap() []error {
	if m.Err == nil {
		return []error{m.Kind}
	}
	return []error{m.Kind, m.Err}
}

// mismatch creates a new mismatch of the given kind
func mismatch(kind Kind, index, want, got uint64, format string, args ...any) *Mismatch {
	m := &Mismatch{Kind: kind, Index: index, Want: want, Got: got}
	if format != "" {
		m.Msg = fmt.Sprintf(format, args...)
	}
	return m
}
