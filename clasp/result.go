package clasp

// Origin records where a resolved value came from. Higher values win during
// resolution: an explicit token always beats an environment variable, which
// beats a config entry, which beats the declared default.
type Origin int

const (
	OriginDefault Origin = iota
	OriginConfigFile
	OriginEnvironment
	OriginExplicitCli
)

func (o Origin) String() string {
	switch o {
	case OriginExplicitCli:
		return "cli"
	case OriginEnvironment:
		return "env"
	case OriginConfigFile:
		return "config"
	default:
		return "default"
	}
}

// ResolvedValue pairs a typed value with its provenance.
type ResolvedValue struct {
	Value  any
	Origin Origin
}

// ResolvedValues is the final artifact of a parse: typed values keyed by
// argument identifier, the matched command path and any trailing tokens.
// It is immutable once returned.
type ResolvedValues struct {
	values   map[string]ResolvedValue
	path     []string
	trailing []string
}

// Path returns the matched command chain as names, root first.
func (r *ResolvedValues) Path() []string { return r.path }

// Command returns the name of the innermost matched command.
func (r *ResolvedValues) Command() string { return r.path[len(r.path)-1] }

// Trailing returns the tokens that matched no declared argument, in order.
func (r *ResolvedValues) Trailing() []string { return r.trailing }

// Has reports whether the identifier resolved to a value from any source.
func (r *ResolvedValues) Has(id string) bool {
	_, ok := r.values[id]
	return ok
}

// Origin returns the provenance of a resolved identifier. The second result
// is false when the identifier did not resolve.
func (r *ResolvedValues) Origin(id string) (Origin, bool) {
	rv, ok := r.values[id]
	return rv.Origin, ok
}

// Get returns the raw resolved value for an identifier.
func (r *ResolvedValues) Get(id string) (any, bool) {
	rv, ok := r.values[id]
	return rv.Value, ok
}

// GetString returns a string value, or "" when absent or differently typed.
func (r *ResolvedValues) GetString(id string) string {
	v, _ := r.values[id].Value.(string)
	return v
}

// GetInt returns an int64 value. Count flags resolve as int64 too.
func (r *ResolvedValues) GetInt(id string) int64 {
	v, _ := r.values[id].Value.(int64)
	return v
}

// GetFloat returns a float64 value, or 0 when absent.
func (r *ResolvedValues) GetFloat(id string) float64 {
	v, _ := r.values[id].Value.(float64)
	return v
}

// GetBool returns a bool value, or false when absent.
func (r *ResolvedValues) GetBool(id string) bool {
	v, _ := r.values[id].Value.(bool)
	return v
}

// GetStrings returns the ordered values of a multi-value string argument.
func (r *ResolvedValues) GetStrings(id string) []string {
	vs, ok := r.values[id].Value.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(vs))
	for _, v := range vs {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}

// GetSlice returns the ordered values of any multi-value argument.
func (r *ResolvedValues) GetSlice(id string) []any {
	vs, _ := r.values[id].Value.([]any)
	return vs
}
