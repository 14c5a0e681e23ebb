package errors

// Kind is a machine-readable classification of an audiokit error.
type Kind string

// Validation-time kinds. A pipeline with any of these never starts execution.
const (
	// KindConfigValidation indicates one or more pipeline document
	// violations (duplicate id, unknown type, dangling connection,
	// parameter schema failure). All violations are aggregated.
	KindConfigValidation Kind = "CONFIG_VALIDATION"
	// KindCycleDetected indicates the connection graph contains a cycle.
	KindCycleDetected Kind = "CYCLE_DETECTED"
)

// Execution-time kinds. These are node-scoped and never abort sibling
// branches that do not depend on the failed node.
const (
	// KindCapabilityUnavailable indicates a node type has no local path
	// and remote execution is disabled by policy.
	KindCapabilityUnavailable Kind = "CAPABILITY_UNAVAILABLE"
	// KindLocalExecution indicates a local model run failed. Eligible for
	// a single remote fallback when policy allows it.
	KindLocalExecution Kind = "LOCAL_EXECUTION"
	// KindRemoteTransport indicates a network or auth failure reaching the
	// remote service. Remote is the last resort, so no further fallback.
	KindRemoteTransport Kind = "REMOTE_TRANSPORT"
	// KindRemoteService indicates the remote service accepted the call but
	// reported a processing failure. No further fallback.
	KindRemoteService Kind = "REMOTE_SERVICE"
	// KindTimeout indicates a node execution path exceeded its deadline.
	// Treated like a failure of the path it interrupted.
	KindTimeout Kind = "TIMEOUT"
)

// FallbackEligible reports whether a failure of this kind may trigger the
// single local-to-remote fallback hop. Only failures of the local path
// qualify; remote-side failures are terminal.
func FallbackEligible(k Kind) bool {
	return k == KindLocalExecution || k == KindTimeout
}
