// Package clasp implements a staged command-line argument resolution engine:
// an immutable schema of commands, arguments and constraint groups is built
// once at startup, then each parse runs a fixed pipeline of
// match -> validate -> resolve over a raw argument vector and returns typed
// values with provenance, or a structured *ParseError.
//
// The engine performs no I/O. Environment and config values are injected as
// read-only lookup functions, which keeps every stage deterministic and makes
// a schema safe to share across concurrent Parse calls.
package clasp

import "fmt"

// ArgKind distinguishes positional arguments from named flags.
type ArgKind int

const (
	KindPositional ArgKind = iota
	KindNamed
)

// Action controls how repeated bindings of one argument combine.
type Action int

const (
	// ActionSet accepts a single binding; a second one is a DuplicateArgument.
	ActionSet Action = iota
	// ActionAppend collects every binding in order.
	ActionAppend
	// ActionCount counts occurrences; the bindings carry no values.
	ActionCount
	// ActionSetTrue records presence as boolean true; no value is consumed.
	ActionSetTrue
)

// ArityKind describes how many values an argument may bind.
type ArityKind int

const (
	// ArityExactlyOne requires exactly one value.
	ArityExactlyOne ArityKind = iota
	// ArityOptional allows zero or one value.
	ArityOptional
	// ArityMany allows a bounded or unbounded sequence of values.
	ArityMany
)

// Arity is the declared multiplicity of an argument. For ArityMany, Max == 0
// means unbounded.
type Arity struct {
	Kind ArityKind
	Min  int
	Max  int
}

// One returns the exactly-one arity.
func One() Arity { return Arity{Kind: ArityExactlyOne} }

// Optional returns the zero-or-one arity.
func Optional() Arity { return Arity{Kind: ArityOptional} }

// Many returns a multi-value arity. max == 0 means unbounded.
func Many(min, max int) Arity { return Arity{Kind: ArityMany, Min: min, Max: max} }

// ArgSpec declares the shape of one argument. Identifiers are unique within
// their command scope; Named specs carry at least one of Long/Short.
type ArgSpec struct {
	ID          string
	Kind        ArgKind
	Long        string
	Short       rune
	Index       int // positional order among siblings
	Arity       Arity
	Value       ValueKind
	Default     any    // typed or raw-string default, coerced lazily
	HasDefault  bool
	EnvVar      string // environment fallback, empty = none
	Delimiter   string // split one token into many values, empty = none
	Action      Action
	Global      bool // matchable from any descendant command
	Description string
}

func (a *ArgSpec) positional() bool { return a.Kind == KindPositional }

// unbounded reports whether the spec can absorb arbitrarily many values.
func (a *ArgSpec) unbounded() bool {
	return a.Arity.Kind == ArityMany && a.Arity.Max == 0
}

// display returns the user-facing name for error messages.
func (a *ArgSpec) display() string {
	switch {
	case a.Kind == KindPositional:
		return a.ID
	case a.Long != "":
		return "--" + a.Long
	default:
		return "-" + string(a.Short)
	}
}

// GroupKind selects the constraint a GroupSpec enforces.
type GroupKind int

const (
	// GroupMutuallyExclusive allows at most one member to be bound; with
	// Required set, exactly one must be.
	GroupMutuallyExclusive GroupKind = iota
	// GroupRequiresAll demands that when any member is bound, all are.
	GroupRequiresAll
	// GroupRequires is the directional variant: when the first member is
	// bound, the remaining members must be too.
	GroupRequires
	// GroupConflicts forbids the two members from being bound together.
	GroupConflicts
)

// GroupSpec is a named constraint over declared argument identifiers.
type GroupSpec struct {
	Name     string
	Kind     GroupKind
	Required bool
	Members  []string
}

// CommandSpec is one node of the subcommand tree: its own arguments, groups
// and children. The root CommandSpec is the program itself.
type CommandSpec struct {
	Name        string
	Description string
	Aliases     []string

	parent      *CommandSpec
	args        []*ArgSpec // declaration order
	byID        map[string]*ArgSpec
	byLong      map[string]*ArgSpec
	byShort     map[rune]*ArgSpec
	positionals []*ArgSpec // ordered by Index
	groups      []*GroupSpec
	children    []*CommandSpec // insertion order
	childByName map[string]*CommandSpec
}

// NewCommand creates an empty command node.
func NewCommand(name, description string) *CommandSpec {
	return &CommandSpec{
		Name:        name,
		Description: description,
		byID:        make(map[string]*ArgSpec),
		byLong:      make(map[string]*ArgSpec),
		byShort:     make(map[rune]*ArgSpec),
		childByName: make(map[string]*CommandSpec),
	}
}

// SchemaError reports a programmer-time schema conflict. It is surfaced at
// construction and is not a user-input error; initialization should abort.
type SchemaError struct {
	ID      string
	Message string
}

func (e *SchemaError) Error() string {
	if e.ID != "" {
		return "schema conflict: " + e.Message + ": " + e.ID
	}
	return "schema conflict: " + e.Message
}

func schemaErr(id, format string, a ...any) *SchemaError {
	return &SchemaError{ID: id, Message: fmt.Sprintf(format, a...)}
}

// AddArgument declares an argument on this command. It fails with a
// *SchemaError when the identifier or a flag name collides with an existing
// sibling or an inherited global, or when positional ordering rules are
// violated (only the last positional may be unbounded).
func (c *CommandSpec) AddArgument(spec *ArgSpec) error {
	if spec.ID == "" {
		return schemaErr("", "argument without identifier on command %q", c.Name)
	}
	if _, dup := c.byID[spec.ID]; dup {
		return schemaErr(spec.ID, "duplicate identifier on command %q", c.Name)
	}
	if spec.Kind == KindNamed {
		if spec.Long == "" && spec.Short == 0 {
			return schemaErr(spec.ID, "named argument needs a long or short flag")
		}
		if err := c.checkFlagCollision(spec); err != nil {
			return err
		}
	} else {
		if spec.Long != "" || spec.Short != 0 {
			return schemaErr(spec.ID, "positional argument cannot carry flag names")
		}
		if n := len(c.positionals); n > 0 && c.positionals[n-1].unbounded() {
			return schemaErr(spec.ID, "positional after an unbounded positional")
		}
		spec.Index = len(c.positionals)
	}

	c.args = append(c.args, spec)
	c.byID[spec.ID] = spec
	if spec.Kind == KindNamed {
		if spec.Long != "" {
			c.byLong[spec.Long] = spec
		}
		if spec.Short != 0 {
			c.byShort[spec.Short] = spec
		}
	} else {
		c.positionals = append(c.positionals, spec)
	}
	return nil
}

// checkFlagCollision walks this node and every ancestor's globals.
func (c *CommandSpec) checkFlagCollision(spec *ArgSpec) error {
	for node := c; node != nil; node = node.parent {
		inherited := node != c
		if spec.Long != "" {
			if other, ok := node.byLong[spec.Long]; ok && (!inherited || other.Global) {
				return schemaErr(spec.ID, "flag --%s already declared by %q", spec.Long, other.ID)
			}
		}
		if spec.Short != 0 {
			if other, ok := node.byShort[spec.Short]; ok && (!inherited || other.Global) {
				return schemaErr(spec.ID, "flag -%c already declared by %q", spec.Short, other.ID)
			}
		}
	}
	return nil
}

// AddGroup declares a constraint group. Members must reference identifiers
// declared on this command or an ancestor.
func (c *CommandSpec) AddGroup(spec *GroupSpec) error {
	if len(spec.Members) == 0 {
		return schemaErr(spec.Name, "group without members")
	}
	if spec.Kind == GroupConflicts && len(spec.Members) != 2 {
		return schemaErr(spec.Name, "conflicts group needs exactly two members")
	}
	for _, id := range spec.Members {
		if c.findArg(id) == nil {
			return schemaErr(spec.Name, "group references unknown identifier %q", id)
		}
	}
	c.groups = append(c.groups, spec)
	return nil
}

// AddCommand attaches a child command. Sibling names and aliases must be
// unique, and the child's flags may not shadow inherited globals.
func (c *CommandSpec) AddCommand(child *CommandSpec) error {
	names := append([]string{child.Name}, child.Aliases...)
	for _, n := range names {
		if _, dup := c.childByName[n]; dup {
			return schemaErr(n, "duplicate subcommand on command %q", c.Name)
		}
	}
	child.parent = c
	for _, arg := range child.args {
		if arg.Kind != KindNamed {
			continue
		}
		for node := c; node != nil; node = node.parent {
			if arg.Long != "" {
				if g, ok := node.byLong[arg.Long]; ok && g.Global {
					return schemaErr(arg.ID, "flag --%s shadows inherited global %q", arg.Long, g.ID)
				}
			}
			if arg.Short != 0 {
				if g, ok := node.byShort[arg.Short]; ok && g.Global {
					return schemaErr(arg.ID, "flag -%c shadows inherited global %q", arg.Short, g.ID)
				}
			}
		}
	}
	c.children = append(c.children, child)
	for _, n := range names {
		c.childByName[n] = child
	}
	return nil
}

// findArg resolves an identifier on this command or any ancestor.
func (c *CommandSpec) findArg(id string) *ArgSpec {
	for node := c; node != nil; node = node.parent {
		if spec, ok := node.byID[id]; ok {
			return spec
		}
	}
	return nil
}

// child resolves a subcommand by name or alias.
func (c *CommandSpec) child(name string) *CommandSpec {
	return c.childByName[name]
}

// Children returns the child commands in declaration order.
func (c *CommandSpec) Children() []*CommandSpec { return c.children }

// Args returns the declared arguments in declaration order.
func (c *CommandSpec) Args() []*ArgSpec { return c.args }

// Groups returns the declared constraint groups in declaration order.
func (c *CommandSpec) Groups() []*GroupSpec { return c.groups }

// Schema is the immutable root of a command tree. Once built it is read-only
// and may back any number of concurrent Parse calls.
type Schema struct {
	root *CommandSpec
}

// Root returns the program-level command node.
func (s *Schema) Root() *CommandSpec { return s.root }
