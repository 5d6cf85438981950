package clasp

import (
	"fmt"
	"strconv"
	"strings"
)

type valueTag int

const (
	tagString valueTag = iota
	tagInt
	tagFloat
	tagBool
	tagEnum
	tagCustom
)

// CoerceFunc converts one raw token into a typed value. A non-nil error is
// wrapped into ParseError{KindInvalidValue} with the error text as reason.
type CoerceFunc func(raw string) (any, error)

// ValueKind is a tagged coercion strategy: a closed set of built-in kinds
// plus a Custom variant delegating to a caller-supplied function. Kinds are
// plain values; copying one is cheap and safe.
type ValueKind struct {
	tag      valueTag
	name     string
	allowed  []string
	aliases  map[string]string
	intMin   *int64
	intMax   *int64
	floatMin *float64
	floatMax *float64
	coerce   CoerceFunc
}

// String is the plain string kind; raw tokens pass through unchanged.
func String() ValueKind { return ValueKind{tag: tagString, name: "string"} }

// Int is the integer kind, base-10.
func Int() ValueKind { return ValueKind{tag: tagInt, name: "int"} }

// IntRange is an integer kind with an inclusive min..=max range check.
func IntRange(min, max int64) ValueKind {
	return ValueKind{tag: tagInt, name: "int", intMin: &min, intMax: &max}
}

// IntMin is an integer kind with only a lower bound (min..).
func IntMin(min int64) ValueKind {
	return ValueKind{tag: tagInt, name: "int", intMin: &min}
}

// Float is the float64 kind.
func Float() ValueKind { return ValueKind{tag: tagFloat, name: "float"} }

// FloatRange is a float kind with an inclusive range check.
func FloatRange(min, max float64) ValueKind {
	return ValueKind{tag: tagFloat, name: "float", floatMin: &min, floatMax: &max}
}

// Bool is the boolean kind. Presence-only flags never reach coercion; this
// kind applies to named arguments taking an explicit true/false value.
func Bool() ValueKind { return ValueKind{tag: tagBool, name: "bool"} }

// Enum restricts values to a declared tag set, matched case-sensitively.
func Enum(allowed ...string) ValueKind {
	return ValueKind{tag: tagEnum, name: "enum", allowed: allowed}
}

// Alias registers an accepted spelling that coerces to a canonical enum tag.
func (v ValueKind) Alias(alias, canonical string) ValueKind {
	if v.aliases == nil {
		v.aliases = make(map[string]string)
	}
	v.aliases[alias] = canonical
	return v
}

// Custom wraps a caller-supplied coercion function. The name labels the kind
// in error messages.
func Custom(name string, fn CoerceFunc) ValueKind {
	return ValueKind{tag: tagCustom, name: name, coerce: fn}
}

// Allowed returns the declared enum tags, nil for non-enum kinds.
func (v ValueKind) Allowed() []string { return v.allowed }

// Name returns the kind's label used in error messages.
func (v ValueKind) Name() string { return v.name }

// apply coerces one raw token according to the kind's strategy.
func (v ValueKind) apply(id, raw string) (any, *ParseError) {
	switch v.tag {
	case tagString:
		return raw, nil

	case tagInt:
		n, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, invalidValue(id, raw, "not an integer")
		}
		if (v.intMin != nil && n < *v.intMin) || (v.intMax != nil && n > *v.intMax) {
			return nil, invalidValue(id, raw, "out of range"+v.rangeHint())
		}
		return n, nil

	case tagFloat:
		f, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			return nil, invalidValue(id, raw, "not a number")
		}
		if (v.floatMin != nil && f < *v.floatMin) || (v.floatMax != nil && f > *v.floatMax) {
			return nil, invalidValue(id, raw, "out of range"+v.rangeHint())
		}
		return f, nil

	case tagBool:
		b, err := strconv.ParseBool(raw)
		if err != nil {
			return nil, invalidValue(id, raw, "expected true or false")
		}
		return b, nil

	case tagEnum:
		if canonical, ok := v.aliases[raw]; ok {
			raw = canonical
		}
		for _, tag := range v.allowed {
			if raw == tag {
				return raw, nil
			}
		}
		return nil, invalidValue(id, raw, "allowed values: "+strings.Join(v.allowed, ", "))

	case tagCustom:
		val, err := v.coerce(raw)
		if err != nil {
			return nil, invalidValue(id, raw, err.Error())
		}
		return val, nil
	}
	return nil, invalidValue(id, raw, "unsupported value kind")
}

func (v ValueKind) rangeHint() string {
	switch {
	case v.intMin != nil && v.intMax != nil:
		return fmt.Sprintf(" %d..=%d", *v.intMin, *v.intMax)
	case v.intMin != nil:
		return fmt.Sprintf(" %d..", *v.intMin)
	case v.floatMin != nil && v.floatMax != nil:
		return fmt.Sprintf(" %g..=%g", *v.floatMin, *v.floatMax)
	}
	return ""
}
