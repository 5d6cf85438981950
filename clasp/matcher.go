package clasp

import "strings"

// matcher walks argv left to right against the schema, binding tokens to
// argument specs and descending into subcommands. It performs no coercion
// and no constraint checks; those are later stages.
type matcher struct {
	ms   *MatchSet
	leaf *CommandSpec

	// next positional slot on the current leaf and the number of values the
	// slot has absorbed so far.
	posIdx   int
	posCount int

	// everything after a bare "--" binds positionally, verbatim.
	terminated bool
}

// match tokenizes and binds argv against the schema, returning the raw
// MatchSet or the first structural error encountered.
func match(schema *Schema, argv []string) (*MatchSet, *ParseError) {
	m := &matcher{
		ms: &MatchSet{
			chain:    []*CommandSpec{schema.root},
			bindings: make(map[string][]Binding),
		},
		leaf: schema.root,
	}

	i := 0
	for i < len(argv) {
		tok := argv[i]
		i++

		switch {
		case m.terminated:
			if err := m.bindPositional(tok, false); err != nil {
				return nil, err
			}
		case tok == "--":
			m.terminated = true
		case strings.HasPrefix(tok, "--"):
			consumed, err := m.matchLong(tok, argv[i:])
			if err != nil {
				return nil, err
			}
			i += consumed
		case len(tok) > 1 && tok[0] == '-':
			consumed, err := m.matchShortCluster(tok, argv[i:])
			if err != nil {
				return nil, err
			}
			i += consumed
		default:
			if err := m.matchBare(tok); err != nil {
				return nil, err
			}
		}
	}
	return m.ms, nil
}

// descend makes child the new leaf. Positional tracking restarts because
// positional slots belong to the command that declared them.
func (m *matcher) descend(child *CommandSpec) {
	m.ms.chain = append(m.ms.chain, child)
	m.leaf = child
	m.posIdx = 0
	m.posCount = 0
}

// lookupLong resolves a long flag name against the leaf's own arguments and
// every ancestor's globals.
func (m *matcher) lookupLong(name string) *ArgSpec {
	for node := m.leaf; node != nil; node = node.parent {
		if spec, ok := node.byLong[name]; ok && (node == m.leaf || spec.Global) {
			return spec
		}
	}
	return nil
}

func (m *matcher) lookupShort(r rune) *ArgSpec {
	for node := m.leaf; node != nil; node = node.parent {
		if spec, ok := node.byShort[r]; ok && (node == m.leaf || spec.Global) {
			return spec
		}
	}
	return nil
}

// takesValue reports whether a named spec consumes a value token. Count and
// set-true actions are presence-only.
func takesValue(spec *ArgSpec) bool {
	return spec.Action != ActionCount && spec.Action != ActionSetTrue
}

// matchLong handles "--name" and "--name=value" tokens. The returned count is
// how many lookahead tokens were consumed as values.
func (m *matcher) matchLong(tok string, rest []string) (int, *ParseError) {
	name, inline, hasInline := strings.Cut(tok[2:], "=")
	spec := m.lookupLong(name)
	if spec == nil {
		return 0, unknownArgument(tok, m.flagCandidates())
	}

	if !takesValue(spec) {
		if hasInline {
			return 0, invalidValue(spec.display(), inline, "flag does not take a value")
		}
		return 0, m.ms.bind(spec, Binding{})
	}
	if hasInline {
		return 0, m.bindValue(spec, inline)
	}
	if len(rest) == 0 {
		return 0, &ParseError{Kind: KindMissingValue, ID: spec.display()}
	}
	return 1, m.bindValue(spec, rest[0])
}

// matchShortCluster handles "-v", "-vvv", "-o file" and "-ofile". Presence
// flags may cluster; the first value-taking flag in a cluster consumes the
// remainder of the token as its value, or the next token when the remainder
// is empty.
func (m *matcher) matchShortCluster(tok string, rest []string) (int, *ParseError) {
	runes := []rune(tok[1:])
	for pos, r := range runes {
		spec := m.lookupShort(r)
		if spec == nil {
			return 0, unknownArgument(tok, m.flagCandidates())
		}
		if !takesValue(spec) {
			if err := m.ms.bind(spec, Binding{}); err != nil {
				return 0, err
			}
			continue
		}
		if attached := string(runes[pos+1:]); attached != "" {
			return 0, m.bindValue(spec, attached)
		}
		if len(rest) == 0 {
			return 0, &ParseError{Kind: KindMissingValue, ID: spec.display()}
		}
		return 1, m.bindValue(spec, rest[0])
	}
	return 0, nil
}

// matchBare handles tokens with no dash prefix: a subcommand transition when
// the leaf has a matching child, otherwise a positional.
func (m *matcher) matchBare(tok string) *ParseError {
	if child := m.leaf.child(tok); child != nil {
		m.descend(child)
		return nil
	}
	if len(m.leaf.positionals) == 0 && len(m.leaf.children) > 0 {
		return unknownArgument(tok, m.commandCandidates())
	}
	return m.bindPositional(tok, true)
}

// bindValue records one value-carrying binding, splitting on the declared
// delimiter when present. Split segments become separate ordered bindings.
func (m *matcher) bindValue(spec *ArgSpec, raw string) *ParseError {
	if spec.Delimiter == "" {
		return m.ms.bind(spec, Binding{Raw: raw, HasValue: true})
	}
	for _, part := range strings.Split(raw, spec.Delimiter) {
		if err := m.ms.bind(spec, Binding{Raw: part, HasValue: true}); err != nil {
			return err
		}
	}
	return nil
}

// bindPositional assigns a token to the leaf's next positional slot. Tokens
// beyond the declared slots go to Trailing. split controls delimiter
// expansion; tokens after "--" stay verbatim.
func (m *matcher) bindPositional(tok string, split bool) *ParseError {
	if m.posIdx >= len(m.leaf.positionals) {
		m.ms.trailing = append(m.ms.trailing, tok)
		return nil
	}
	spec := m.leaf.positionals[m.posIdx]

	values := []string{tok}
	if split && spec.Delimiter != "" {
		values = strings.Split(tok, spec.Delimiter)
	}
	for _, v := range values {
		if err := m.ms.bind(spec, Binding{Raw: v, HasValue: true}); err != nil {
			return err
		}
		m.posCount++
	}

	switch spec.Arity.Kind {
	case ArityExactlyOne, ArityOptional:
		m.posIdx++
		m.posCount = 0
	case ArityMany:
		if spec.Arity.Max > 0 && m.posCount >= spec.Arity.Max {
			m.posIdx++
			m.posCount = 0
		}
	}
	return nil
}

// flagCandidates lists every matchable flag in display form for suggestions.
func (m *matcher) flagCandidates() []string {
	var out []string
	for node := m.leaf; node != nil; node = node.parent {
		for _, spec := range node.args {
			if spec.Kind != KindNamed || (node != m.leaf && !spec.Global) {
				continue
			}
			if spec.Long != "" {
				out = append(out, "--"+spec.Long)
			}
			if spec.Short != 0 {
				out = append(out, "-"+string(spec.Short))
			}
		}
	}
	return out
}

// commandCandidates lists the leaf's child names and aliases for suggestions.
func (m *matcher) commandCandidates() []string {
	var out []string
	for _, child := range m.leaf.children {
		out = append(out, child.Name)
		out = append(out, child.Aliases...)
	}
	return out
}
