package graph

// Spec is a validated pipeline: nodes plus directed connections. Construct
// one through a Loader; a hand-built Spec bypasses validation.
type Spec struct {
	// Name is an optional pipeline identifier.
	Name string `yaml:"name,omitempty"`
	// Nodes are the processing steps, ids unique within the pipeline.
	Nodes []Node `yaml:"nodes"`
	// Connections are the directed edges of the graph.
	Connections []Connection `yaml:"connections"`

	// levels caches the topological grouping computed at load time.
	levels [][]string
}

// Node is a single named processing step of a registered type.
type Node struct {
	// ID is unique within the pipeline.
	ID string `yaml:"id"`
	// Type must exist in the node registry.
	Type string `yaml:"type"`
	// Params is the normalized parameter mapping, validated against the
	// type's schema.
	Params map[string]any `yaml:"params,omitempty"`
}

// Connection declares that From's output feeds To's input.
type Connection struct {
	From string `yaml:"from"`
	To   string `yaml:"to"`
}

// NodeByID returns the node with the given id.
func (s *Spec) NodeByID(id string) (Node, bool) {
	for _, n := range s.Nodes {
		if n.ID == id {
			return n, true
		}
	}
	return Node{}, false
}

// Upstream returns the ids of nodes whose output feeds the given node.
func (s *Spec) Upstream(id string) []string {
	var from []string
	for _, c := range s.Connections {
		if c.To == id {
			from = append(from, c.From)
		}
	}
	return from
}

// Downstream returns the ids of nodes fed by the given node.
func (s *Spec) Downstream(id string) []string {
	var to []string
	for _, c := range s.Connections {
		if c.From == id {
			to = append(to, c.To)
		}
	}
	return to
}

// Levels returns nodes grouped by dependency level. Nodes within one level
// have no ordering relation and may run concurrently. The grouping is
// computed at load time; on a hand-built Spec it is computed on demand.
func (s *Spec) Levels() [][]string {
	if s.levels == nil {
		s.levels, _ = buildLevels(s)
	}
	return s.levels
}

// Order returns a valid topological order of all node ids.
func (s *Spec) Order() []string {
	var order []string
	for _, level := range s.Levels() {
		order = append(order, level...)
	}
	return order
}
