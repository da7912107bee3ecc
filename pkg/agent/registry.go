package agent

import "sort"

// Registry resolves agents by logical name. It is populated at startup and
// treated as effectively immutable afterwards: reads take no lock, and
// registration after requests start flowing is not supported.
type Registry struct {
	agents map[string]Agent
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{agents: make(map[string]Agent)}
}

// Register associates name with an agent implementation, replacing any
// previous registration under the same name.
func (r *Registry) Register(name string, a Agent) {
	r.agents[name] = a
}

// Get returns the agent registered under name.
func (r *Registry) Get(name string) (Agent, bool) {
	a, ok := r.agents[name]
	return a, ok
}

// Has reports whether an agent is registered under name.
func (r *Registry) Has(name string) bool {
	_, ok := r.agents[name]
	return ok
}

// Names returns the registered agent names in sorted order.
func (r *Registry) Names() []string {
	names := make([]string, 0, len(r.agents))
	for name := range r.agents {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
