package clasp

// CommandBuilder is the fluent front end over the low-level CommandSpec API.
// Declarations are recorded as the chain runs and checked all at once by
// Build, which returns the first schema conflict instead of panicking
// mid-chain.
type CommandBuilder struct {
	name        string
	description string
	aliases     []string

	parent   *CommandBuilder
	args     []*ArgSpec
	groups   []*GroupSpec
	children []*CommandBuilder
}

// New starts a schema for a program with the given name.
func New(name, description string) *CommandBuilder {
	return &CommandBuilder{name: name, description: description}
}

// Alias registers alternate names for this command.
func (b *CommandBuilder) Alias(names ...string) *CommandBuilder {
	b.aliases = append(b.aliases, names...)
	return b
}

// Command declares a subcommand and descends into its builder. Use Back to
// return to this command.
func (b *CommandBuilder) Command(name, description string) *CommandBuilder {
	child := &CommandBuilder{name: name, description: description, parent: b}
	b.children = append(b.children, child)
	return child
}

// Back ascends to the parent command builder.
func (b *CommandBuilder) Back() *CommandBuilder {
	if b.parent == nil {
		return b
	}
	return b.parent
}

func (b *CommandBuilder) flag(id string, kind ValueKind, action Action, arity Arity) *ArgSpec {
	spec := &ArgSpec{
		ID:     id,
		Kind:   KindNamed,
		Long:   id,
		Arity:  arity,
		Value:  kind,
		Action: action,
	}
	b.args = append(b.args, spec)
	return spec
}

// StringFlag declares an optional single-value string flag named --id.
func (b *CommandBuilder) StringFlag(id string) *FlagBuilder[string] {
	return &FlagBuilder[string]{cb: b, spec: b.flag(id, String(), ActionSet, Optional())}
}

// IntFlag declares an optional single-value integer flag.
func (b *CommandBuilder) IntFlag(id string) *FlagBuilder[int64] {
	return &FlagBuilder[int64]{cb: b, spec: b.flag(id, Int(), ActionSet, Optional())}
}

// IntRangeFlag declares an integer flag constrained to min..=max inclusive.
func (b *CommandBuilder) IntRangeFlag(id string, min, max int64) *FlagBuilder[int64] {
	return &FlagBuilder[int64]{cb: b, spec: b.flag(id, IntRange(min, max), ActionSet, Optional())}
}

// FloatFlag declares an optional single-value float flag.
func (b *CommandBuilder) FloatFlag(id string) *FlagBuilder[float64] {
	return &FlagBuilder[float64]{cb: b, spec: b.flag(id, Float(), ActionSet, Optional())}
}

// BoolFlag declares a presence flag that resolves to true when given.
func (b *CommandBuilder) BoolFlag(id string) *FlagBuilder[bool] {
	return &FlagBuilder[bool]{cb: b, spec: b.flag(id, Bool(), ActionSetTrue, Optional())}
}

// CountFlag declares a repeatable presence flag resolving to its occurrence
// count, the -vvv idiom.
func (b *CommandBuilder) CountFlag(id string) *FlagBuilder[int64] {
	return &FlagBuilder[int64]{cb: b, spec: b.flag(id, Int(), ActionCount, Optional())}
}

// EnumFlag declares a flag restricted to the given tags.
func (b *CommandBuilder) EnumFlag(id string, allowed ...string) *FlagBuilder[string] {
	return &FlagBuilder[string]{cb: b, spec: b.flag(id, Enum(allowed...), ActionSet, Optional())}
}

// CustomFlag declares a flag coerced by a caller-supplied function.
func (b *CommandBuilder) CustomFlag(id, kindName string, fn CoerceFunc) *FlagBuilder[any] {
	return &FlagBuilder[any]{cb: b, spec: b.flag(id, Custom(kindName, fn), ActionSet, Optional())}
}

// Positional declares a required positional argument with the given kind.
func (b *CommandBuilder) Positional(id string, kind ValueKind) *PosBuilder {
	spec := &ArgSpec{ID: id, Kind: KindPositional, Arity: One(), Value: kind, Action: ActionSet}
	b.args = append(b.args, spec)
	return &PosBuilder{cb: b, spec: spec}
}

// MutuallyExclusive declares a group where at most one member may appear;
// with required set, exactly one must.
func (b *CommandBuilder) MutuallyExclusive(name string, required bool, members ...string) *CommandBuilder {
	b.groups = append(b.groups, &GroupSpec{Name: name, Kind: GroupMutuallyExclusive, Required: required, Members: members})
	return b
}

// RequiresAll declares a group whose members must all appear once any does.
func (b *CommandBuilder) RequiresAll(name string, members ...string) *CommandBuilder {
	b.groups = append(b.groups, &GroupSpec{Name: name, Kind: GroupRequiresAll, Members: members})
	return b
}

// Requires declares a directional dependency: when `when` appears, every
// identifier in `then` must appear too. The reverse is not constrained.
func (b *CommandBuilder) Requires(name string, when string, then ...string) *CommandBuilder {
	members := append([]string{when}, then...)
	b.groups = append(b.groups, &GroupSpec{Name: name, Kind: GroupRequires, Members: members})
	return b
}

// Conflicts declares that two arguments may not appear together.
func (b *CommandBuilder) Conflicts(name, a, c string) *CommandBuilder {
	b.groups = append(b.groups, &GroupSpec{Name: name, Kind: GroupConflicts, Members: []string{a, c}})
	return b
}

// Build materializes the immutable schema, running every declaration through
// the low-level checks. It may be called from any builder in the tree.
func (b *CommandBuilder) Build() (*Schema, error) {
	root := b
	for root.parent != nil {
		root = root.parent
	}
	node, err := root.materialize(nil)
	if err != nil {
		return nil, err
	}
	return &Schema{root: node}, nil
}

// materialize builds this command node under parent. Attachment happens
// before argument registration so flag collision checks can see inherited
// globals.
func (b *CommandBuilder) materialize(parent *CommandSpec) (*CommandSpec, error) {
	node := NewCommand(b.name, b.description)
	node.Aliases = b.aliases
	if parent != nil {
		if err := parent.AddCommand(node); err != nil {
			return nil, err
		}
	}
	for _, spec := range b.args {
		if err := node.AddArgument(spec); err != nil {
			return nil, err
		}
	}
	for _, g := range b.groups {
		if err := node.AddGroup(g); err != nil {
			return nil, err
		}
	}
	for _, child := range b.children {
		if _, err := child.materialize(node); err != nil {
			return nil, err
		}
	}
	return node, nil
}

// MustBuild is Build for program-startup schemas where a conflict is fatal.
func (b *CommandBuilder) MustBuild() *Schema {
	s, err := b.Build()
	if err != nil {
		panic(err)
	}
	return s
}

// FlagBuilder refines one named flag. The type parameter keeps Default
// honest about the value kind declared by the constructor.
type FlagBuilder[T any] struct {
	cb   *CommandBuilder
	spec *ArgSpec
}

// Long overrides the long flag name, which defaults to the identifier.
func (f *FlagBuilder[T]) Long(name string) *FlagBuilder[T] {
	f.spec.Long = name
	return f
}

// Short attaches a one-rune short form.
func (f *FlagBuilder[T]) Short(r rune) *FlagBuilder[T] {
	f.spec.Short = r
	return f
}

// NoLong removes the long form, leaving only the short flag.
func (f *FlagBuilder[T]) NoLong() *FlagBuilder[T] {
	f.spec.Long = ""
	return f
}

// Describe sets the help description.
func (f *FlagBuilder[T]) Describe(text string) *FlagBuilder[T] {
	f.spec.Description = text
	return f
}

// Default declares the fallback value used when no source provides one.
func (f *FlagBuilder[T]) Default(v T) *FlagBuilder[T] {
	f.spec.Default = v
	f.spec.HasDefault = true
	return f
}

// Env declares an environment variable consulted when the flag is absent
// from the command line.
func (f *FlagBuilder[T]) Env(name string) *FlagBuilder[T] {
	f.spec.EnvVar = name
	return f
}

// Required makes the flag mandatory unless a default or fallback source
// supplies a value.
func (f *FlagBuilder[T]) Required() *FlagBuilder[T] {
	f.spec.Arity = One()
	return f
}

// Append lets the flag repeat, collecting every occurrence in order.
func (f *FlagBuilder[T]) Append() *FlagBuilder[T] {
	f.spec.Action = ActionAppend
	return f
}

// Many bounds a repeatable flag to min..max occurrences; max 0 means
// unbounded. Implies Append.
func (f *FlagBuilder[T]) Many(min, max int) *FlagBuilder[T] {
	f.spec.Arity = Arity{Kind: ArityMany, Min: min, Max: max}
	f.spec.Action = ActionAppend
	return f
}

// Delimiter splits a single token into multiple values, e.g. "a,b,c".
// Implies Append.
func (f *FlagBuilder[T]) Delimiter(d string) *FlagBuilder[T] {
	f.spec.Delimiter = d
	f.spec.Action = ActionAppend
	return f
}

// Alias registers an accepted spelling mapped to a canonical enum tag. Only
// meaningful on enum flags.
func (f *FlagBuilder[T]) Alias(alias, canonical string) *FlagBuilder[T] {
	f.spec.Value = f.spec.Value.Alias(alias, canonical)
	return f
}

// Global makes the flag matchable from any descendant subcommand.
func (f *FlagBuilder[T]) Global() *FlagBuilder[T] {
	f.spec.Global = true
	return f
}

// Back returns to the owning command builder.
func (f *FlagBuilder[T]) Back() *CommandBuilder { return f.cb }

// PosBuilder refines one positional argument.
type PosBuilder struct {
	cb   *CommandBuilder
	spec *ArgSpec
}

// Describe sets the help description.
func (p *PosBuilder) Describe(text string) *PosBuilder {
	p.spec.Description = text
	return p
}

// Optional makes the positional omittable.
func (p *PosBuilder) Optional() *PosBuilder {
	p.spec.Arity = Optional()
	return p
}

// Many lets the positional absorb min..max tokens; max 0 means unbounded.
// Only the last positional of a command may be unbounded.
func (p *PosBuilder) Many(min, max int) *PosBuilder {
	p.spec.Arity = Arity{Kind: ArityMany, Min: min, Max: max}
	p.spec.Action = ActionAppend
	return p
}

// Default declares the value used when the positional is omitted.
func (p *PosBuilder) Default(v any) *PosBuilder {
	p.spec.Default = v
	p.spec.HasDefault = true
	return p
}

// Env declares an environment fallback for the positional.
func (p *PosBuilder) Env(name string) *PosBuilder {
	p.spec.EnvVar = name
	return p
}

// Delimiter splits a single token into multiple values. Implies Append.
func (p *PosBuilder) Delimiter(d string) *PosBuilder {
	p.spec.Delimiter = d
	p.spec.Action = ActionAppend
	return p
}

// Back returns to the owning command builder.
func (p *PosBuilder) Back() *CommandBuilder { return p.cb }
