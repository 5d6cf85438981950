package clasp

// Binding is one raw occurrence of an argument on the command line. Presence
// flags (bool, count) bind without a value; HasValue distinguishes "--flag"
// from "--flag=".
type Binding struct {
	Raw      string
	HasValue bool
}

// MatchSet is the matcher's output: raw token bindings keyed by argument
// identifier, the chosen subcommand chain, and any trailing tokens left for
// pass-through. It is owned by one parse invocation and never mutated after
// matching completes.
type MatchSet struct {
	chain    []*CommandSpec
	bindings map[string][]Binding
	trailing []string
}

// Path returns the resolved command chain as names, root first.
func (m *MatchSet) Path() []string {
	path := make([]string, len(m.chain))
	for i, node := range m.chain {
		path[i] = node.Name
	}
	return path
}

// Leaf returns the innermost matched command.
func (m *MatchSet) Leaf() *CommandSpec { return m.chain[len(m.chain)-1] }

// Bound reports whether the identifier received at least one binding.
func (m *MatchSet) Bound(id string) bool { return len(m.bindings[id]) > 0 }

// Bindings returns the ordered raw bindings for an identifier.
func (m *MatchSet) Bindings(id string) []Binding { return m.bindings[id] }

// Trailing returns tokens that bound to no declared slot, in input order.
// These support wrapping another program's argument list.
func (m *MatchSet) Trailing() []string { return m.trailing }

// bind appends a binding, enforcing the single-occurrence rule for Set and
// SetTrue actions. Append and Count actions accumulate freely.
func (m *MatchSet) bind(spec *ArgSpec, b Binding) *ParseError {
	if spec.Action == ActionSet || spec.Action == ActionSetTrue {
		if len(m.bindings[spec.ID]) > 0 {
			return &ParseError{Kind: KindDuplicateArgument, ID: spec.display()}
		}
	}
	m.bindings[spec.ID] = append(m.bindings[spec.ID], b)
	return nil
}
