package node

import (
	"sort"
	"sync"

	"github.com/epsilon-records/audiokit/logger"
)

// Registry maps node type names to capability descriptors. It lives for the
// process lifetime; there is no removal operation.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Descriptor
	log   *logger.Logger
}

// NewRegistry creates an empty registry. A nil log discards warnings.
func NewRegistry(log *logger.Logger) *Registry {
	if log == nil {
		log = logger.Nop()
	}
	return &Registry{
		types: make(map[string]Descriptor),
		log:   log.WithComponent("node.registry"),
	}
}

// Register adds a descriptor under its type name. Registration is
// idempotent; re-registering a name replaces the previous descriptor and
// logs a warning.
func (r *Registry) Register(d Descriptor) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.types[d.Type]; exists {
		r.log.Warn("node type re-registered, previous descriptor replaced",
			logger.Fields(logger.FieldNodeType, d.Type))
	}
	r.types[d.Type] = d
}

// Lookup returns the descriptor for a type name.
func (r *Registry) Lookup(typeName string) (Descriptor, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	d, ok := r.types[typeName]
	return d, ok
}

// List returns all registered descriptors sorted by type name, for the
// list-nodes surface.
func (r *Registry) List() []Descriptor {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]Descriptor, 0, len(r.types))
	for _, d := range r.types {
		out = append(out, d)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Type < out[j].Type })
	return out
}

// Types returns the sorted type names.
func (r *Registry) Types() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.types))
	for name := range r.types {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
