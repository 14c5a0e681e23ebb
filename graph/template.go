package graph

import (
	"fmt"

	"go.yaml.in/yaml/v3"
)

// Marshal renders a spec back to its YAML document form.
func Marshal(s *Spec) ([]byte, error) {
	return yaml.Marshal(s)
}

// TemplateKinds lists the starter documents Template can emit.
var TemplateKinds = []string{"basic", "filter"}

// Template returns a starter pipeline document of the given kind.
// "basic" is a passthrough (input -> output); "filter" inserts a low-pass
// filter between them.
func Template(kind string) ([]byte, error) {
	var spec Spec
	switch kind {
	case "basic":
		spec = Spec{
			Nodes: []Node{
				{ID: "input", Type: "audio.input", Params: map[string]any{"channels": 2, "sample_rate": 44100}},
				{ID: "output", Type: "audio.output", Params: map[string]any{"channels": 2}},
			},
			Connections: []Connection{
				{From: "input", To: "output"},
			},
		}
	case "filter":
		spec = Spec{
			Nodes: []Node{
				{ID: "input", Type: "audio.input", Params: map[string]any{"channels": 2, "sample_rate": 44100}},
				{ID: "filter", Type: "audio.filter", Params: map[string]any{"cutoff": 1000, "resonance": 0.7}},
				{ID: "output", Type: "audio.output", Params: map[string]any{"channels": 2}},
			},
			Connections: []Connection{
				{From: "input", To: "filter"},
				{From: "filter", To: "output"},
			},
		}
	default:
		return nil, fmt.Errorf("unknown template kind %q, available: %v", kind, TemplateKinds)
	}
	return yaml.Marshal(&spec)
}
