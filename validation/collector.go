package validation

import (
	"fmt"
	"strings"

	"github.com/epsilon-records/audiokit/errors"
)

// Collector accumulates pipeline document violations.
type Collector struct {
	violations []errors.Violation
	cycle      bool
}

// NewCollector creates an empty Collector.
func NewCollector() *Collector {
	return &Collector{}
}

// Add records a violation. Field may be empty for violations that are not
// about a specific parameter.
func (c *Collector) Add(subject, field, message string) *Collector {
	c.violations = append(c.violations, errors.Violation{
		Subject: subject,
		Field:   field,
		Message: message,
	})
	return c
}

// Addf records a violation with a formatted message.
func (c *Collector) Addf(subject, field, format string, args ...any) *Collector {
	return c.Add(subject, field, fmt.Sprintf(format, args...))
}

// AddCycle records a cycle violation. A collector holding a cycle reports
// its aggregate error with kind CYCLE_DETECTED.
func (c *Collector) AddCycle(message string) *Collector {
	c.cycle = true
	c.violations = append(c.violations, errors.Violation{
		Subject: "connections",
		Message: message,
	})
	return c
}

// HasViolations reports whether anything was collected.
func (c *Collector) HasViolations() bool {
	return len(c.violations) > 0
}

// Violations returns everything collected so far.
func (c *Collector) Violations() []errors.Violation {
	return c.violations
}

// Error returns the aggregate error, or nil when nothing was collected.
// A cycle promotes the aggregate kind to CYCLE_DETECTED; the full violation
// list is preserved either way.
func (c *Collector) Error() error {
	if !c.HasViolations() {
		return nil
	}
	if c.cycle {
		lines := make([]string, len(c.violations))
		for i, v := range c.violations {
			lines[i] = v.String()
		}
		return errors.CycleDetected(
			"pipeline connection graph is not acyclic: "+strings.Join(lines, "; "),
			c.violations,
		)
	}
	return errors.ConfigValidation(c.violations)
}

// OneOf checks a string value against a set of allowed values.
func (c *Collector) OneOf(subject, field, value string, allowed []string) *Collector {
	for _, a := range allowed {
		if value == a {
			return c
		}
	}
	return c.Addf(subject, field, "must be one of: %s", strings.Join(allowed, ", "))
}

// Range checks a numeric value against inclusive bounds.
func (c *Collector) Range(subject, field string, value, minVal, maxVal float64) *Collector {
	if value < minVal || value > maxVal {
		return c.Addf(subject, field, "must be between %v and %v", minVal, maxVal)
	}
	return c
}

// Required checks that a string value is non-empty.
func (c *Collector) Required(subject, field, value string) *Collector {
	if strings.TrimSpace(value) == "" {
		return c.Add(subject, field, "is required")
	}
	return c
}
