package node

// ParamType tags the value shape of a node parameter.
type ParamType string

const (
	ParamString ParamType = "string"
	ParamInt    ParamType = "int"
	ParamFloat  ParamType = "float"
	ParamBool   ParamType = "bool"
)

// ParamSpec declares a single parameter of a node type.
type ParamSpec struct {
	// Name is the parameter key as written in the pipeline document.
	Name string `yaml:"name"`
	// Type is the expected value type.
	Type ParamType `yaml:"type"`
	// Required marks parameters that must be present in every document.
	Required bool `yaml:"required,omitempty"`
	// Default is applied when the parameter is absent. Never applied in
	// strict mode, where a missing optional parameter stays missing.
	Default any `yaml:"default,omitempty"`
	// Min and Max bound numeric parameters, inclusive.
	Min *float64 `yaml:"min,omitempty"`
	// Max is the inclusive upper bound.
	Max *float64 `yaml:"max,omitempty"`
	// Enum lists the allowed values for string parameters.
	Enum []string `yaml:"enum,omitempty"`
	// Description documents the parameter for list-nodes output.
	Description string `yaml:"description,omitempty"`
}

// Requirements is the local-availability predicate input for a node type.
// All listed requirements must hold for the type to run locally.
type Requirements struct {
	// Accelerator names the required accelerator ("cuda"), empty for none.
	Accelerator string
	// MinMemoryMB is the minimum free memory needed to load the model.
	MinMemoryMB int
	// Weights lists model weight files that must be installed.
	Weights []string
	// Binary names the model executable that must be on PATH (or mapped
	// in local.binaries config).
	Binary string
}

// Descriptor is the capability descriptor for one node type.
type Descriptor struct {
	// Type is the registry key, e.g. "ai.denoise".
	Type string
	// Summary is a one-line human-readable description.
	Summary string
	// Params is the declared parameter schema.
	Params []ParamSpec
	// Requires declares what local execution of this type needs.
	Requires Requirements
	// RemoteOperation is the operation name submitted to the remote
	// service for this type. Empty means the type is local-only.
	RemoteOperation string
}

// Param looks up a parameter spec by name.
func (d Descriptor) Param(name string) (ParamSpec, bool) {
	for _, p := range d.Params {
		if p.Name == name {
			return p, true
		}
	}
	return ParamSpec{}, false
}

// Float returns a *float64 for bound declarations in descriptor literals.
func Float(v float64) *float64 { return &v }
