package node

import (
	"fmt"

	"github.com/epsilon-records/audiokit/validation"
)

// ValidateParams checks a node's parameter mapping against the descriptor's
// schema, appending every violation to the collector. Subject is the node id
// as it should appear in the violation report.
//
// In non-strict mode, absent optional parameters take their declared
// defaults and undeclared keys are tolerated (the loader logs a warning).
// In strict mode undeclared keys are violations and no defaulting happens.
//
// The returned map is the normalized parameter set; it is complete only when
// the collector gained no new violations.
func ValidateParams(d Descriptor, subject string, params map[string]any, strict bool, c *validation.Collector) map[string]any {
	normalized := make(map[string]any, len(params))

	for key, raw := range params {
		spec, declared := d.Param(key)
		if !declared {
			if strict {
				c.Addf(subject, key, "parameter not declared by node type %q", d.Type)
			}
			continue
		}

		value, err := coerce(spec.Type, raw)
		if err != nil {
			c.Add(subject, key, err.Error())
			continue
		}

		if checkBounds(spec, value, c, subject, key) {
			normalized[key] = value
		}
	}

	for _, spec := range d.Params {
		if _, present := params[spec.Name]; present {
			continue
		}
		if spec.Required {
			c.Add(subject, spec.Name, "required parameter is missing")
			continue
		}
		if !strict && spec.Default != nil {
			normalized[spec.Name] = spec.Default
		}
	}

	return normalized
}

// coerce converts a YAML-decoded value into the declared parameter type.
// Ints widen to floats; nothing else is inferred.
func coerce(t ParamType, raw any) (any, error) {
	switch t {
	case ParamString:
		if s, ok := raw.(string); ok {
			return s, nil
		}
	case ParamBool:
		if b, ok := raw.(bool); ok {
			return b, nil
		}
	case ParamInt:
		if i, ok := raw.(int); ok {
			return i, nil
		}
	case ParamFloat:
		switch v := raw.(type) {
		case float64:
			return v, nil
		case int:
			return float64(v), nil
		}
	}
	return nil, fmt.Errorf("expected %s, got %T", t, raw)
}

func checkBounds(spec ParamSpec, value any, c *validation.Collector, subject, key string) bool {
	switch spec.Type {
	case ParamInt, ParamFloat:
		var f float64
		switch v := value.(type) {
		case int:
			f = float64(v)
		case float64:
			f = v
		}
		if spec.Min != nil && f < *spec.Min {
			c.Addf(subject, key, "must be at least %v", *spec.Min)
			return false
		}
		if spec.Max != nil && f > *spec.Max {
			c.Addf(subject, key, "must be %v or less", *spec.Max)
			return false
		}
	case ParamString:
		if len(spec.Enum) > 0 {
			s, _ := value.(string)
			before := len(c.Violations())
			c.OneOf(subject, key, s, spec.Enum)
			return len(c.Violations()) == before
		}
	}
	return true
}
