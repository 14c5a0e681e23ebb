package graph

import (
	"strings"
	"testing"

	"github.com/epsilon-records/audiokit/errors"
	"github.com/epsilon-records/audiokit/node"
)

func testRegistry(t *testing.T) *node.Registry {
	t.Helper()
	r := node.NewRegistry(nil)
	r.Register(node.Descriptor{
		Type:    "audio.input",
		Summary: "Audio input",
		Params: []node.ParamSpec{
			{Name: "channels", Type: node.ParamInt, Min: node.Float(1), Max: node.Float(8), Default: 2},
			{Name: "sample_rate", Type: node.ParamInt, Default: 44100},
			{Name: "path", Type: node.ParamString},
		},
	})
	r.Register(node.Descriptor{
		Type:    "audio.output",
		Summary: "Audio output",
		Params: []node.ParamSpec{
			{Name: "channels", Type: node.ParamInt, Default: 2},
			{Name: "path", Type: node.ParamString},
		},
	})
	r.Register(node.Descriptor{
		Type:    "audio.filter",
		Summary: "Low-pass filter",
		Params: []node.ParamSpec{
			{Name: "cutoff", Type: node.ParamFloat, Min: node.Float(20), Max: node.Float(20000), Required: true},
			{Name: "resonance", Type: node.ParamFloat, Min: node.Float(0), Max: node.Float(1), Default: 0.707},
		},
	})
	return r
}

const validDoc = `
nodes:
  - id: input
    type: audio.input
    params:
      channels: 2
      sample_rate: 44100
  - id: output
    type: audio.output
connections:
  - {from: input, to: output}
`

func TestLoader_ValidDocument(t *testing.T) {
	l := NewLoader(testRegistry(t), false, nil)
	spec, err := l.Parse([]byte(validDoc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(spec.Nodes) != 2 {
		t.Errorf("expected 2 nodes, got %d", len(spec.Nodes))
	}
	if len(spec.Connections) != 1 {
		t.Errorf("expected 1 connection, got %d", len(spec.Connections))
	}
	// non-strict defaulting applied
	in, _ := spec.NodeByID("output")
	if in.Params["channels"] != 2 {
		t.Errorf("expected defaulted channels, got %v", in.Params)
	}
}

func TestLoader_StrictRejectsUndeclaredParam(t *testing.T) {
	doc := strings.Replace(validDoc, "sample_rate: 44100", "sample_rate: 44100\n      latency: low", 1)

	if _, err := NewLoader(testRegistry(t), false, nil).Parse([]byte(doc)); err != nil {
		t.Fatalf("non-strict should tolerate undeclared params: %v", err)
	}

	_, err := NewLoader(testRegistry(t), true, nil).Parse([]byte(doc))
	if err == nil {
		t.Fatal("strict should reject the undeclared param")
	}
	if errors.KindOf(err) != errors.KindConfigValidation {
		t.Errorf("expected CONFIG_VALIDATION, got %s", errors.KindOf(err))
	}
}

func TestLoader_DanglingConnection(t *testing.T) {
	doc := `
nodes:
  - id: input
    type: audio.input
connections:
  - {from: input, to: master}
`
	_, err := NewLoader(testRegistry(t), false, nil).Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected error")
	}
	violations := errors.ViolationsOf(err)
	if len(violations) != 1 {
		t.Fatalf("expected exactly 1 violation, got %d: %v", len(violations), violations)
	}
	if violations[0].Subject != "input->master" {
		t.Errorf("violation should name the connection, got %q", violations[0].Subject)
	}
}

func TestLoader_CycleDetected(t *testing.T) {
	doc := `
nodes:
  - id: a
    type: audio.input
  - id: b
    type: audio.output
connections:
  - {from: a, to: b}
  - {from: b, to: a}
`
	spec, err := NewLoader(testRegistry(t), false, nil).Parse([]byte(doc))
	if spec != nil {
		t.Error("a cyclic pipeline must never produce a runnable spec")
	}
	if errors.KindOf(err) != errors.KindCycleDetected {
		t.Fatalf("expected CYCLE_DETECTED, got %v", err)
	}
	found := false
	for _, v := range errors.ViolationsOf(err) {
		if strings.Contains(v.Message, "a, b") {
			found = true
		}
	}
	if !found {
		t.Errorf("cycle violation should name its members: %v", errors.ViolationsOf(err))
	}
}

func TestLoader_SelfLoop(t *testing.T) {
	doc := `
nodes:
  - id: a
    type: audio.input
connections:
  - {from: a, to: a}
`
	_, err := NewLoader(testRegistry(t), false, nil).Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected error")
	}
	violations := errors.ViolationsOf(err)
	if len(violations) != 1 || !strings.Contains(violations[0].Message, "self-loop") {
		t.Errorf("expected a self-loop violation, got %v", violations)
	}
}

func TestLoader_CollectsAllViolations(t *testing.T) {
	doc := `
nodes:
  - id: a
    type: audio.input
  - id: a
    type: audio.output
  - id: b
    type: ai.mystery
  - id: f
    type: audio.filter
    params:
      cutoff: 5
connections:
  - {from: a, to: ghost}
`
	_, err := NewLoader(testRegistry(t), false, nil).Parse([]byte(doc))
	if err == nil {
		t.Fatal("expected error")
	}
	violations := errors.ViolationsOf(err)
	// duplicate id, unknown type, cutoff below range, dangling connection
	if len(violations) != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", len(violations), violations)
	}
}

func TestLoader_StrictRejectsUnknownTopLevelKey(t *testing.T) {
	doc := validDoc + "\nmetadata:\n  author: someone\n"

	if _, err := NewLoader(testRegistry(t), false, nil).Parse([]byte(doc)); err != nil {
		t.Fatalf("non-strict should warn and ignore: %v", err)
	}
	if _, err := NewLoader(testRegistry(t), true, nil).Parse([]byte(doc)); err == nil {
		t.Fatal("strict should reject unknown top-level keys")
	}
}

func TestSpec_LevelsAreTopological(t *testing.T) {
	doc := `
nodes:
  - id: input
    type: audio.input
  - id: left
    type: audio.filter
    params: {cutoff: 500}
  - id: right
    type: audio.filter
    params: {cutoff: 5000}
  - id: output
    type: audio.output
connections:
  - {from: input, to: left}
  - {from: input, to: right}
  - {from: left, to: output}
  - {from: right, to: output}
`
	spec, err := NewLoader(testRegistry(t), false, nil).Parse([]byte(doc))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	position := make(map[string]int)
	for i, id := range spec.Order() {
		position[id] = i
	}
	for _, c := range spec.Connections {
		if position[c.From] >= position[c.To] {
			t.Errorf("order violates dependency %s -> %s: %v", c.From, c.To, spec.Order())
		}
	}

	levels := spec.Levels()
	if len(levels) != 3 {
		t.Fatalf("expected 3 levels, got %v", levels)
	}
	if len(levels[1]) != 2 {
		t.Errorf("left and right are independent and should share a level: %v", levels)
	}
}

func TestTemplate_RoundTripsThroughLoader(t *testing.T) {
	l := NewLoader(testRegistry(t), false, nil)
	for _, kind := range TemplateKinds {
		data, err := Template(kind)
		if err != nil {
			t.Fatalf("Template(%s): %v", kind, err)
		}
		if _, err := l.Parse(data); err != nil {
			t.Errorf("template %q should validate: %v", kind, err)
		}
	}
}

func TestTemplate_UnknownKind(t *testing.T) {
	if _, err := Template("effect-rack"); err == nil {
		t.Fatal("expected error for unknown template kind")
	}
}
