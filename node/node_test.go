package node

import (
	"testing"

	"github.com/epsilon-records/audiokit/validation"
)

func denoiseDescriptor() Descriptor {
	return Descriptor{
		Type:    "ai.denoise",
		Summary: "Noise reduction",
		Params: []ParamSpec{
			{Name: "strength", Type: ParamFloat, Min: Float(0), Max: Float(1), Default: 0.5},
			{Name: "model", Type: ParamString, Enum: []string{"rnnoise", "dns64"}, Default: "rnnoise"},
			{Name: "passes", Type: ParamInt, Min: Float(1), Max: Float(4)},
			{Name: "output", Type: ParamString, Required: true},
		},
	}
}

func TestRegistry_RegisterLookup(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(denoiseDescriptor())

	d, ok := r.Lookup("ai.denoise")
	if !ok {
		t.Fatal("expected descriptor")
	}
	if d.Summary != "Noise reduction" {
		t.Errorf("unexpected summary: %s", d.Summary)
	}
	if _, ok := r.Lookup("ai.mastering"); ok {
		t.Error("expected miss for unregistered type")
	}
}

func TestRegistry_LastRegistrationWins(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(Descriptor{Type: "audio.gain", Summary: "first"})
	r.Register(Descriptor{Type: "audio.gain", Summary: "second"})

	d, _ := r.Lookup("audio.gain")
	if d.Summary != "second" {
		t.Errorf("expected override to win, got %s", d.Summary)
	}
	if len(r.List()) != 1 {
		t.Errorf("expected one entry, got %d", len(r.List()))
	}
}

func TestRegistry_ListSorted(t *testing.T) {
	r := NewRegistry(nil)
	r.Register(Descriptor{Type: "audio.output"})
	r.Register(Descriptor{Type: "ai.denoise"})
	r.Register(Descriptor{Type: "audio.input"})

	types := r.Types()
	want := []string{"ai.denoise", "audio.input", "audio.output"}
	for i, name := range want {
		if types[i] != name {
			t.Fatalf("expected sorted order %v, got %v", want, types)
		}
	}
}

func TestValidateParams_Valid(t *testing.T) {
	c := validation.NewCollector()
	got := ValidateParams(denoiseDescriptor(), "dn", map[string]any{
		"strength": 0.8,
		"passes":   2,
		"output":   "clean.wav",
	}, false, c)

	if c.HasViolations() {
		t.Fatalf("unexpected violations: %v", c.Violations())
	}
	if got["strength"] != 0.8 || got["passes"] != 2 {
		t.Errorf("unexpected normalized params: %v", got)
	}
	// optional with default, absent in document
	if got["model"] != "rnnoise" {
		t.Errorf("expected default model, got %v", got["model"])
	}
}

func TestValidateParams_IntWidensToFloat(t *testing.T) {
	c := validation.NewCollector()
	got := ValidateParams(denoiseDescriptor(), "dn", map[string]any{
		"strength": 1,
		"output":   "clean.wav",
	}, false, c)
	if c.HasViolations() {
		t.Fatalf("unexpected violations: %v", c.Violations())
	}
	if got["strength"] != 1.0 {
		t.Errorf("expected widened float, got %v (%T)", got["strength"], got["strength"])
	}
}

func TestValidateParams_CollectsEveryViolation(t *testing.T) {
	c := validation.NewCollector()
	ValidateParams(denoiseDescriptor(), "dn", map[string]any{
		"strength": 2.0,       // out of range
		"model":    "phantom", // not in enum
		"passes":   "two",     // wrong type
		// "output" missing (required)
	}, false, c)

	if got := len(c.Violations()); got != 4 {
		t.Fatalf("expected 4 violations, got %d: %v", got, c.Violations())
	}
}

func TestValidateParams_StrictRejectsUndeclared(t *testing.T) {
	c := validation.NewCollector()
	ValidateParams(denoiseDescriptor(), "dn", map[string]any{
		"output":  "clean.wav",
		"verbose": true,
	}, true, c)

	if got := len(c.Violations()); got != 1 {
		t.Fatalf("expected 1 violation, got %d: %v", got, c.Violations())
	}
	if c.Violations()[0].Field != "verbose" {
		t.Errorf("expected violation on undeclared key, got %v", c.Violations()[0])
	}
}

func TestValidateParams_StrictSkipsDefaulting(t *testing.T) {
	c := validation.NewCollector()
	got := ValidateParams(denoiseDescriptor(), "dn", map[string]any{
		"output": "clean.wav",
	}, true, c)
	if c.HasViolations() {
		t.Fatalf("unexpected violations: %v", c.Violations())
	}
	if _, present := got["model"]; present {
		t.Error("strict mode must not infer defaults")
	}
}

func TestValidateParams_NonStrictIgnoresUndeclared(t *testing.T) {
	c := validation.NewCollector()
	ValidateParams(denoiseDescriptor(), "dn", map[string]any{
		"output":  "clean.wav",
		"verbose": true,
	}, false, c)
	if c.HasViolations() {
		t.Fatalf("non-strict mode should tolerate undeclared keys, got %v", c.Violations())
	}
}
