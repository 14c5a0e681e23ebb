package graph

import (
	"fmt"
	"os"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/epsilon-records/audiokit/logger"
	"github.com/epsilon-records/audiokit/node"
	"github.com/epsilon-records/audiokit/validation"
)

// knownTopLevelKeys are the document keys the loader understands.
var knownTopLevelKeys = map[string]bool{
	"name":        true,
	"nodes":       true,
	"connections": true,
}

// Loader parses and validates pipeline documents against a node registry.
type Loader struct {
	// Registry resolves node types to their capability descriptors.
	Registry *node.Registry
	// Strict rejects undeclared parameters, unknown top-level keys, and
	// disables parameter defaulting.
	Strict bool
	// Log receives warnings for tolerated oddities in non-strict mode.
	Log *logger.Logger
}

// NewLoader creates a loader. A nil log discards warnings.
func NewLoader(registry *node.Registry, strict bool, log *logger.Logger) *Loader {
	if log == nil {
		log = logger.Nop()
	}
	return &Loader{
		Registry: registry,
		Strict:   strict,
		Log:      log.WithComponent("graph.loader"),
	}
}

// Load reads, parses, and validates a pipeline document from disk.
func (l *Loader) Load(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading pipeline %s: %w", path, err)
	}
	return l.Parse(data)
}

// Parse validates a pipeline document. On failure the error aggregates
// every violation found; a cycle reports kind CYCLE_DETECTED. The returned
// Spec carries normalized parameters and precomputed execution levels.
func (l *Loader) Parse(data []byte) (*Spec, error) {
	c := validation.NewCollector()

	l.checkTopLevelKeys(data, c)

	var doc Spec
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parsing pipeline document: %w", err)
	}

	spec := &Spec{Name: doc.Name}
	seen := make(map[string]bool, len(doc.Nodes))

	for _, n := range doc.Nodes {
		subject := n.ID
		if subject == "" {
			subject = "(node without id)"
			c.Add(subject, "id", "is required")
		}
		if seen[n.ID] && n.ID != "" {
			c.Addf(n.ID, "", "duplicate node id")
			continue
		}
		seen[n.ID] = true

		desc, known := l.Registry.Lookup(n.Type)
		if !known {
			c.Addf(subject, "type", "unknown node type %q", n.Type)
			spec.Nodes = append(spec.Nodes, n)
			continue
		}

		params := node.ValidateParams(desc, subject, n.Params, l.Strict, c)
		if !l.Strict {
			l.warnUndeclared(desc, subject, n.Params)
		}

		spec.Nodes = append(spec.Nodes, Node{ID: n.ID, Type: n.Type, Params: params})
	}

	for _, conn := range doc.Connections {
		subject := conn.From + "->" + conn.To
		valid := true
		if !seen[conn.From] {
			c.Addf(subject, "", "references unknown node %q", conn.From)
			valid = false
		}
		if !seen[conn.To] {
			c.Addf(subject, "", "references unknown node %q", conn.To)
			valid = false
		}
		if conn.From == conn.To && conn.From != "" {
			c.Add(subject, "", "self-loop is not allowed")
			valid = false
		}
		if valid {
			spec.Connections = append(spec.Connections, conn)
		}
	}

	levels, acyclic := buildLevels(spec)
	if !acyclic {
		c.AddCycle(fmt.Sprintf("cycle involving nodes: %s", strings.Join(cycleMembers(spec), ", ")))
	}

	if err := c.Error(); err != nil {
		return nil, err
	}

	spec.levels = levels
	return spec, nil
}

// checkTopLevelKeys reparses the document as a generic mapping to find
// top-level keys the loader does not understand. Strict mode rejects them;
// otherwise they are ignored with a warning.
func (l *Loader) checkTopLevelKeys(data []byte, c *validation.Collector) {
	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return // the typed parse reports the syntax error
	}
	for key := range raw {
		if knownTopLevelKeys[key] {
			continue
		}
		if l.Strict {
			c.Addf("document", key, "unknown top-level key")
		} else {
			l.Log.Warn("ignoring unknown top-level key",
				logger.Fields("key", key))
		}
	}
}

// warnUndeclared logs keys the schema does not declare. In non-strict mode
// they are dropped from the normalized parameters, not errors.
func (l *Loader) warnUndeclared(desc node.Descriptor, subject string, params map[string]any) {
	for key := range params {
		if _, declared := desc.Param(key); !declared {
			l.Log.Warn("ignoring undeclared parameter",
				logger.Fields(logger.FieldNode, subject, "param", key, logger.FieldNodeType, desc.Type))
		}
	}
}
