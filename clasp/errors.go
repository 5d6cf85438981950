package clasp

import (
	"fmt"
	"strings"

	"github.com/dzonerzy/go-clasp/internal/fuzzy"
)

// ErrorKind classifies user-input parse failures. Schema construction
// failures use the separate *SchemaError type since they are programmer
// errors, not user errors.
type ErrorKind string

const (
	KindUnknownArgument         ErrorKind = "unknown_argument"
	KindMissingValue            ErrorKind = "missing_value"
	KindDuplicateArgument       ErrorKind = "duplicate_argument"
	KindMissingRequiredArgument ErrorKind = "missing_required_argument"
	KindMissingRequiredGroup    ErrorKind = "missing_required_group"
	KindConflictingArguments    ErrorKind = "conflicting_arguments"
	KindMissingDependency       ErrorKind = "missing_dependency"
	KindInvalidValue            ErrorKind = "invalid_value"
)

// ParseError is the single error type returned for invalid user input. It is
// a plain value: the engine never prints it and never exits. Callers render
// the message and map Kind to an exit code (see ExitCodes).
type ParseError struct {
	Kind ErrorKind

	// ID names the argument (or group) involved, when known.
	ID string
	// Token is the offending raw token for unknown-argument errors.
	Token string
	// Raw is the value that failed coercion for invalid-value errors.
	Raw string
	// Reason describes what was expected, for invalid-value errors.
	Reason string
	// A and B name the clashing arguments for conflicting-arguments errors,
	// in declaration order.
	A, B string
	// Present and Missing describe a violated requires relationship.
	Present string
	Missing []string
	// Suggestion carries a fuzzy-matched alternative for unknown tokens.
	Suggestion string
}

func (e *ParseError) Error() string {
	var b strings.Builder
	switch e.Kind {
	case KindUnknownArgument:
		b.WriteString("unknown argument: " + e.Token)
		if e.Suggestion != "" {
			b.WriteString(" (did you mean " + e.Suggestion + "?)")
		}
	case KindMissingValue:
		b.WriteString("missing value for " + e.ID)
	case KindDuplicateArgument:
		b.WriteString("argument supplied more than once: " + e.ID)
	case KindMissingRequiredArgument:
		b.WriteString("missing required argument: " + e.ID)
	case KindMissingRequiredGroup:
		b.WriteString("one of the arguments in group " + e.ID + " is required")
	case KindConflictingArguments:
		b.WriteString("arguments " + e.A + " and " + e.B + " cannot be used together")
	case KindMissingDependency:
		fmt.Fprintf(&b, "%s requires %s", e.Present, strings.Join(e.Missing, ", "))
	case KindInvalidValue:
		fmt.Fprintf(&b, "invalid value %q for %s", e.Raw, e.ID)
		if e.Reason != "" {
			b.WriteString(": " + e.Reason)
		}
	default:
		b.WriteString("parse error")
	}
	return b.String()
}

func invalidValue(id, raw, reason string) *ParseError {
	return &ParseError{Kind: KindInvalidValue, ID: id, Raw: raw, Reason: reason}
}

// unknownArgument builds the error for an unmatched token, attaching the
// closest candidate within edit distance 2 when one exists. Candidates are
// passed in display form (--flag, -f, subcommand) so the suggestion can be
// echoed verbatim.
func unknownArgument(token string, candidates []string) *ParseError {
	return &ParseError{
		Kind:       KindUnknownArgument,
		Token:      token,
		Suggestion: fuzzy.Closest(token, candidates, 2),
	}
}
