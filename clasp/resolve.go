package clasp

import "strings"

// LookupFunc abstracts a read-only key/value source. Environment and config
// file lookups are injected through it, which keeps the resolver free of I/O
// and deterministic under test.
type LookupFunc func(key string) (string, bool)

// noLookup is the nil-source stand-in.
func noLookup(string) (string, bool) { return "", false }

// resolve materializes a typed value for every argument declared along the
// matched chain, applying the precedence order cli > env > config > default.
// Arguments with no value from any source and no requirement simply stay
// absent from the result.
func resolve(ms *MatchSet, env, cfg LookupFunc) (*ResolvedValues, *ParseError) {
	if env == nil {
		env = noLookup
	}
	if cfg == nil {
		cfg = noLookup
	}

	res := &ResolvedValues{
		values:   make(map[string]ResolvedValue),
		path:     ms.Path(),
		trailing: ms.trailing,
	}
	// Config keys are scoped by the subcommand path below the root, so
	// "repo create" looks up "repo.create.<id>" before the bare identifier.
	scope := strings.Join(res.path[1:], ".")

	for _, node := range ms.chain {
		for _, spec := range node.args {
			rv, err := resolveArg(spec, ms, env, cfg, scope)
			if err != nil {
				return nil, err
			}
			if rv != nil {
				res.values[spec.ID] = *rv
			}
		}
	}
	return res, nil
}

func resolveArg(spec *ArgSpec, ms *MatchSet, env, cfg LookupFunc, scope string) (*ResolvedValue, *ParseError) {
	bs := ms.Bindings(spec.ID)

	switch spec.Action {
	case ActionCount:
		if len(bs) > 0 {
			return &ResolvedValue{Value: int64(len(bs)), Origin: OriginExplicitCli}, nil
		}
		return &ResolvedValue{Value: int64(0), Origin: OriginDefault}, nil

	case ActionSetTrue:
		if len(bs) > 0 {
			return &ResolvedValue{Value: true, Origin: OriginExplicitCli}, nil
		}
		if rv, err := fallback(spec, env, cfg, scope); rv != nil || err != nil {
			return rv, err
		}
		return &ResolvedValue{Value: false, Origin: OriginDefault}, nil
	}

	if len(bs) > 0 {
		return coerceBindings(spec, bs)
	}
	if rv, err := fallback(spec, env, cfg, scope); rv != nil || err != nil {
		return rv, err
	}
	if required(spec) {
		return nil, &ParseError{Kind: KindMissingRequiredArgument, ID: spec.display()}
	}
	return nil, nil
}

// required reports whether an unresolved argument is an error: exactly-one
// arity with no default, or a multi arity demanding at least one value.
func required(spec *ArgSpec) bool {
	if spec.HasDefault {
		return false
	}
	switch spec.Arity.Kind {
	case ArityExactlyOne:
		return true
	case ArityMany:
		return spec.Arity.Min > 0
	}
	return false
}

func multiValued(spec *ArgSpec) bool {
	return spec.Arity.Kind == ArityMany || spec.Action == ActionAppend
}

// coerceBindings turns explicit CLI bindings into the typed value, checking
// multi-value arity bounds.
func coerceBindings(spec *ArgSpec, bs []Binding) (*ResolvedValue, *ParseError) {
	if multiValued(spec) {
		if spec.Arity.Kind == ArityMany {
			if len(bs) < spec.Arity.Min {
				return nil, &ParseError{Kind: KindMissingValue, ID: spec.display()}
			}
			if spec.Arity.Max > 0 && len(bs) > spec.Arity.Max {
				return nil, &ParseError{Kind: KindDuplicateArgument, ID: spec.display()}
			}
		}
		vals := make([]any, 0, len(bs))
		for _, b := range bs {
			v, err := spec.Value.apply(spec.display(), b.Raw)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return &ResolvedValue{Value: vals, Origin: OriginExplicitCli}, nil
	}

	b := bs[len(bs)-1]
	if !b.HasValue {
		return nil, &ParseError{Kind: KindMissingValue, ID: spec.display()}
	}
	v, err := spec.Value.apply(spec.display(), b.Raw)
	if err != nil {
		return nil, err
	}
	return &ResolvedValue{Value: v, Origin: OriginExplicitCli}, nil
}

// fallback tries the environment variable, then the config source, then the
// declared default. A nil, nil return means no source had a value.
func fallback(spec *ArgSpec, env, cfg LookupFunc, scope string) (*ResolvedValue, *ParseError) {
	if spec.EnvVar != "" {
		if raw, ok := env(spec.EnvVar); ok && raw != "" {
			return coerceRaw(spec, raw, OriginEnvironment)
		}
	}

	if raw, ok := configLookup(spec, cfg, scope); ok {
		return coerceRaw(spec, raw, OriginConfigFile)
	}

	if spec.HasDefault {
		v, err := typedDefault(spec)
		if err != nil {
			return nil, err
		}
		return &ResolvedValue{Value: v, Origin: OriginDefault}, nil
	}
	return nil, nil
}

// configLookup tries the path-scoped key first, then the bare identifier.
func configLookup(spec *ArgSpec, cfg LookupFunc, scope string) (string, bool) {
	if scope != "" {
		if raw, ok := cfg(scope + "." + spec.ID); ok {
			return raw, true
		}
	}
	return cfg(spec.ID)
}

// coerceRaw coerces a fallback source's raw string, honoring the delimiter
// for multi-value arguments.
func coerceRaw(spec *ArgSpec, raw string, origin Origin) (*ResolvedValue, *ParseError) {
	if spec.Action == ActionSetTrue {
		v, err := Bool().apply(spec.display(), raw)
		if err != nil {
			return nil, err
		}
		return &ResolvedValue{Value: v, Origin: origin}, nil
	}

	if multiValued(spec) {
		parts := []string{raw}
		if spec.Delimiter != "" {
			parts = strings.Split(raw, spec.Delimiter)
		}
		vals := make([]any, 0, len(parts))
		for _, p := range parts {
			v, err := spec.Value.apply(spec.display(), p)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return &ResolvedValue{Value: vals, Origin: origin}, nil
	}

	v, err := spec.Value.apply(spec.display(), raw)
	if err != nil {
		return nil, err
	}
	return &ResolvedValue{Value: v, Origin: origin}, nil
}

// typedDefault returns the declared default, coercing string defaults through
// the value kind so schema typos surface as invalid-value errors.
func typedDefault(spec *ArgSpec) (any, *ParseError) {
	switch d := spec.Default.(type) {
	case string:
		if spec.Value.tag == tagString {
			if multiValued(spec) {
				return []any{d}, nil
			}
			return d, nil
		}
		v, err := spec.Value.apply(spec.display(), d)
		if err != nil {
			return nil, err
		}
		if multiValued(spec) {
			return []any{v}, nil
		}
		return v, nil
	case []string:
		vals := make([]any, 0, len(d))
		for _, raw := range d {
			v, err := spec.Value.apply(spec.display(), raw)
			if err != nil {
				return nil, err
			}
			vals = append(vals, v)
		}
		return vals, nil
	case int:
		// Accessors normalize on int64.
		return int64(d), nil
	default:
		return spec.Default, nil
	}
}
