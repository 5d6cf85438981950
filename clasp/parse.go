package clasp

import "os"

// ParseOption customizes one Parse invocation.
type ParseOption func(*parseOptions)

type parseOptions struct {
	env LookupFunc
	cfg LookupFunc
}

// WithEnv overrides the environment source. Pass nil to disable environment
// fallback entirely.
func WithEnv(fn LookupFunc) ParseOption {
	return func(o *parseOptions) { o.env = fn }
}

// WithConfig supplies a config-file source, looked up by dotted path then by
// bare identifier. The config package provides sources backed by TOML, YAML,
// maps and environment prefixes.
func WithConfig(fn LookupFunc) ParseOption {
	return func(o *parseOptions) { o.cfg = fn }
}

// Match runs only the tokenizer/matcher stage, exposing raw bindings before
// validation and coercion. Most callers want Parse.
func (s *Schema) Match(argv []string) (*MatchSet, error) {
	ms, perr := match(s, argv)
	if perr != nil {
		return nil, perr
	}
	return ms, nil
}

// Validate checks a MatchSet against the constraint groups declared along
// its command chain.
func Validate(ms *MatchSet) error {
	if perr := validate(ms); perr != nil {
		return perr
	}
	return nil
}

// Resolve materializes typed values from a validated MatchSet with the
// precedence cli > env > config > default.
func Resolve(ms *MatchSet, env, cfg LookupFunc) (*ResolvedValues, error) {
	res, perr := resolve(ms, env, cfg)
	if perr != nil {
		return nil, perr
	}
	return res, nil
}

// Parse runs the full pipeline over argv (without the program name) and
// returns typed values with provenance. Errors are always *ParseError; the
// engine never prints and never exits. By default the process environment
// backs env fallback and no config source is attached.
func (s *Schema) Parse(argv []string, opts ...ParseOption) (*ResolvedValues, error) {
	o := parseOptions{env: os.LookupEnv}
	for _, opt := range opts {
		opt(&o)
	}

	ms, perr := match(s, argv)
	if perr != nil {
		return nil, perr
	}
	if perr := validate(ms); perr != nil {
		return nil, perr
	}
	res, perr := resolve(ms, o.env, o.cfg)
	if perr != nil {
		return nil, perr
	}
	return res, nil
}
