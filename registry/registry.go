// Package registry mounts self-describing plugins onto a command schema and
// dispatches parse results to their handlers. It lets a host binary assemble
// its subcommand surface from independently written units while keeping one
// schema and one parse per invocation.
package registry

import (
	"context"
	"fmt"

	"github.com/dzonerzy/go-clasp/clasp"
)

// HandlerFunc executes a plugin's command against resolved values.
type HandlerFunc func(ctx context.Context, res *clasp.ResolvedValues) error

// Plugin is one mountable command unit. Mount declares its subcommand tree on
// the host builder; Run handles invocations that descend into it.
type Plugin struct {
	Name        string
	Version     string
	Description string

	Mount func(b *clasp.CommandBuilder)
	Run   HandlerFunc
}

// Registry holds plugins in registration order.
type Registry struct {
	plugins []*Plugin
	byName  map[string]*Plugin
	chain   Chain
}

// New creates an empty registry.
func New() *Registry {
	return &Registry{byName: make(map[string]*Plugin)}
}

// Register adds a plugin. Names must be unique and both hooks must be set.
func (r *Registry) Register(p *Plugin) error {
	if p.Name == "" {
		return fmt.Errorf("registry: plugin without name")
	}
	if p.Mount == nil || p.Run == nil {
		return fmt.Errorf("registry: plugin %q needs Mount and Run", p.Name)
	}
	if _, dup := r.byName[p.Name]; dup {
		return fmt.Errorf("registry: plugin %q already registered", p.Name)
	}
	r.plugins = append(r.plugins, p)
	r.byName[p.Name] = p
	return nil
}

// Use appends middleware applied around every dispatched handler.
func (r *Registry) Use(mw ...Middleware) *Registry {
	r.chain = r.chain.Use(mw...)
	return r
}

// Plugins returns registered plugins in registration order.
func (r *Registry) Plugins() []*Plugin { return r.plugins }

// Lookup finds a plugin by name.
func (r *Registry) Lookup(name string) (*Plugin, bool) {
	p, ok := r.byName[name]
	return p, ok
}

// MountAll declares every plugin's commands on the host builder, in
// registration order so help and matching stay deterministic.
func (r *Registry) MountAll(b *clasp.CommandBuilder) {
	for _, p := range r.plugins {
		p.Mount(b)
	}
}

// Dispatch routes a parse result to the plugin owning the matched command
// chain, wrapping its handler in the registered middleware. The owning
// plugin is the first path element below the root that names one.
func (r *Registry) Dispatch(ctx context.Context, res *clasp.ResolvedValues) error {
	for _, name := range res.Path()[1:] {
		if p, ok := r.byName[name]; ok {
			return r.chain.Apply(p.Run)(ctx, res)
		}
	}
	return fmt.Errorf("registry: no plugin owns command %q", res.Command())
}
