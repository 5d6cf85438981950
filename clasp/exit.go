package clasp

import "errors"

// ExitCodes maps parse failures to process exit codes. The engine itself
// never exits; this is the adapter for main functions that want conventional
// sysexits-style codes without switching on ErrorKind by hand.
type ExitCodes struct {
	codes   map[ErrorKind]int
	generic int
	schema  int
}

// DefaultExitCodes follows the BSD sysexits convention: usage errors map to
// 64, bad input data to 65, and schema conflicts to 70 (internal error).
func DefaultExitCodes() *ExitCodes {
	return &ExitCodes{
		codes: map[ErrorKind]int{
			KindUnknownArgument:         64,
			KindMissingValue:            64,
			KindDuplicateArgument:       64,
			KindMissingRequiredArgument: 64,
			KindMissingRequiredGroup:    64,
			KindConflictingArguments:    64,
			KindMissingDependency:       64,
			KindInvalidValue:            65,
		},
		generic: 64,
		schema:  70,
	}
}

// Set overrides the code for one error kind.
func (e *ExitCodes) Set(kind ErrorKind, code int) *ExitCodes {
	e.codes[kind] = code
	return e
}

// For returns the exit code for an error: 0 for nil, the mapped code for
// *ParseError, the schema code for *SchemaError, and the generic usage code
// otherwise.
func (e *ExitCodes) For(err error) int {
	if err == nil {
		return 0
	}
	var perr *ParseError
	if errors.As(err, &perr) {
		if code, ok := e.codes[perr.Kind]; ok {
			return code
		}
		return e.generic
	}
	var serr *SchemaError
	if errors.As(err, &serr) {
		return e.schema
	}
	return e.generic
}
