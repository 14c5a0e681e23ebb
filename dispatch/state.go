package dispatch

// State is a node's position in the execution state machine.
type State string

const (
	// StatePending marks a node not yet scheduled.
	StatePending State = "PENDING"
	// StateProbing marks a node whose capability is being determined.
	StateProbing State = "PROBING"
	// StateLocalExec marks a node running on local resources.
	StateLocalExec State = "LOCAL_EXEC"
	// StateRemoteExec marks a node delegated to the remote service.
	StateRemoteExec State = "REMOTE_EXEC"
	// StateDone is terminal success.
	StateDone State = "DONE"
	// StateFailed is terminal failure of the node's own execution.
	StateFailed State = "FAILED"
	// StateSkipped is terminal for nodes never executed because an
	// upstream dependency failed or the run was canceled. Distinct from
	// FAILED in the final report.
	StateSkipped State = "SKIPPED"
)

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed || s == StateSkipped
}

// Execution locations recorded on results.
const (
	LocationLocal  = "local"
	LocationRemote = "remote"
)
