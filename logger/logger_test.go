package logger

import (
	"testing"
)

func TestConfig_ApplyDefaults(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	if cfg.Level != "info" {
		t.Errorf("expected default level info, got %s", cfg.Level)
	}
	if cfg.Format != "console" {
		t.Errorf("expected default format console, got %s", cfg.Format)
	}
	if !cfg.Timestamp {
		t.Error("expected timestamps enabled by default")
	}
}

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		cfg     Config
		wantErr bool
	}{
		{"valid", Config{Level: "debug", Format: "json"}, false},
		{"bad level", Config{Level: "loud", Format: "json"}, true},
		{"bad format", Config{Level: "info", Format: "xml"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.cfg.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestNew_InvalidLevelFallsBack(t *testing.T) {
	l := New(&Config{Level: "info", Format: "json", Output: "stderr"})
	if l == nil {
		t.Fatal("expected logger")
	}
	// must not panic
	l.WithComponent("dispatch").Debug("probe", Fields("node_type", "ai.denoise"))
}

func TestFields_Pairs(t *testing.T) {
	m := Fields("node", "denoise-1", "attempt", 2)
	if m["node"] != "denoise-1" {
		t.Errorf("expected node field, got %v", m)
	}
	if m["attempt"] != 2 {
		t.Errorf("expected attempt field, got %v", m)
	}
}

func TestFields_OddArgsIgnoresTail(t *testing.T) {
	m := Fields("node", "x", "dangling")
	if len(m) != 1 {
		t.Errorf("expected trailing key without value to be dropped, got %v", m)
	}
}

func TestNop_DoesNotPanic(t *testing.T) {
	l := Nop()
	l.Info("silent")
	l.WithError(nil).Warn("still silent")
}
