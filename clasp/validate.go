package clasp

// validate enforces the constraint groups declared along the matched chain
// against binding presence. It inspects presence only; typed values and
// defaults are the resolver's concern, which is why a required individual
// argument is checked there and not here (an env or config fallback can
// still satisfy it).
func validate(ms *MatchSet) *ParseError {
	for _, node := range ms.chain {
		for _, g := range node.groups {
			if err := checkGroup(node, g, ms); err != nil {
				return err
			}
		}
	}
	return nil
}

func checkGroup(node *CommandSpec, g *GroupSpec, ms *MatchSet) *ParseError {
	switch g.Kind {
	case GroupMutuallyExclusive:
		var present []string
		for _, id := range g.Members {
			if ms.Bound(id) {
				present = append(present, id)
			}
		}
		if len(present) > 1 {
			return &ParseError{
				Kind: KindConflictingArguments,
				ID:   g.Name,
				A:    display(node, present[0]),
				B:    display(node, present[1]),
			}
		}
		if g.Required && len(present) == 0 {
			return &ParseError{Kind: KindMissingRequiredGroup, ID: g.Name}
		}

	case GroupRequiresAll:
		var first string
		var missing []string
		for _, id := range g.Members {
			if ms.Bound(id) {
				if first == "" {
					first = display(node, id)
				}
			} else {
				missing = append(missing, display(node, id))
			}
		}
		if first != "" && len(missing) > 0 {
			return &ParseError{Kind: KindMissingDependency, ID: g.Name, Present: first, Missing: missing}
		}

	case GroupRequires:
		if !ms.Bound(g.Members[0]) {
			return nil
		}
		var missing []string
		for _, id := range g.Members[1:] {
			if !ms.Bound(id) {
				missing = append(missing, display(node, id))
			}
		}
		if len(missing) > 0 {
			return &ParseError{
				Kind:    KindMissingDependency,
				ID:      g.Name,
				Present: display(node, g.Members[0]),
				Missing: missing,
			}
		}

	case GroupConflicts:
		if ms.Bound(g.Members[0]) && ms.Bound(g.Members[1]) {
			return &ParseError{
				Kind: KindConflictingArguments,
				ID:   g.Name,
				A:    display(node, g.Members[0]),
				B:    display(node, g.Members[1]),
			}
		}
	}
	return nil
}

// display renders a member identifier in user-facing form.
func display(node *CommandSpec, id string) string {
	if spec := node.findArg(id); spec != nil {
		return spec.display()
	}
	return id
}
