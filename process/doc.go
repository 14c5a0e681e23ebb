// Package process executes model binaries as subprocesses with clean
// shutdown semantics: context cancellation sends SIGTERM to the process
// group first, escalating to SIGKILL after a grace period.
package process
