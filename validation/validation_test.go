package validation

import (
	"strings"
	"testing"

	"github.com/epsilon-records/audiokit/errors"
)

func TestCollector_Empty(t *testing.T) {
	c := NewCollector()
	if c.HasViolations() {
		t.Error("new collector should be empty")
	}
	if err := c.Error(); err != nil {
		t.Errorf("expected nil error, got %v", err)
	}
}

func TestCollector_AggregatesAll(t *testing.T) {
	c := NewCollector().
		Add("denoise", "strength", "must be between 0 and 1").
		Add("mix->master", "", "references unknown node \"master\"").
		Addf("input", "channels", "expected %s, got %s", "int", "string")

	err := c.Error()
	if err == nil {
		t.Fatal("expected error")
	}
	if errors.KindOf(err) != errors.KindConfigValidation {
		t.Errorf("expected CONFIG_VALIDATION, got %s", errors.KindOf(err))
	}
	if got := errors.ViolationsOf(err); len(got) != 3 {
		t.Fatalf("expected 3 violations, got %d", len(got))
	}
}

func TestCollector_CyclePromotesKind(t *testing.T) {
	c := NewCollector().
		Add("b", "", "unknown node type \"nope\"").
		AddCycle("a -> b -> a")

	err := c.Error()
	if errors.KindOf(err) != errors.KindCycleDetected {
		t.Errorf("expected CYCLE_DETECTED, got %s", errors.KindOf(err))
	}
	// non-cycle findings from the same load are not dropped
	if got := errors.ViolationsOf(err); len(got) != 2 {
		t.Fatalf("expected 2 violations, got %d", len(got))
	}
}

func TestCollector_Helpers(t *testing.T) {
	c := NewCollector().
		OneOf("tmpl", "type", "wave", []string{"basic", "filter"}).
		Range("gain", "db", 80, -60, 12).
		Required("node", "id", "  ")

	if got := len(c.Violations()); got != 3 {
		t.Fatalf("expected 3 violations, got %d", got)
	}
	if !strings.Contains(c.Violations()[0].Message, "basic, filter") {
		t.Errorf("OneOf should list allowed values: %s", c.Violations()[0].Message)
	}
}

type remoteCfg struct {
	BaseURL string `mapstructure:"base_url" validate:"required,url"`
	Timeout int    `mapstructure:"timeout" validate:"min=1"`
}

func TestValidateStruct(t *testing.T) {
	if err := ValidateStruct(remoteCfg{BaseURL: "https://api.example.com", Timeout: 30}); err != nil {
		t.Errorf("unexpected error: %v", err)
	}

	err := ValidateStruct(remoteCfg{BaseURL: "not a url", Timeout: 0})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "base_url") {
		t.Errorf("expected mapstructure tag name in message, got %q", err.Error())
	}
}
