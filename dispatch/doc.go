// Package dispatch decides where each pipeline node executes and runs the
// pipeline in dependency order.
//
// Per node the dispatcher walks a fixed state machine:
//
//	PENDING → PROBING → {LOCAL_EXEC | REMOTE_EXEC} → {DONE | FAILED}
//
// Probing asks the capability prober whether the node type can run locally.
// A local failure may fall back to remote exactly once when policy allows;
// a remote failure is terminal. Nodes downstream of a failure are SKIPPED,
// never executed. Fallback policy lives here and nowhere else — the local
// and remote executors are injected, so the machine is testable without
// touching a model or the network.
package dispatch
