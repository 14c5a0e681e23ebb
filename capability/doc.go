// Package capability answers "can this node type run locally right now?".
//
// A Detector takes a snapshot of the host environment (accelerator, free
// memory, installed model weights and binaries) and a Prober evaluates each
// node type's declared requirements against it. Probe results are cached
// for the lifetime of one Prober instance — one pipeline execution — and
// concurrent probes of the same type collapse into a single evaluation.
// Nothing is cached across process restarts; the environment can change
// between runs.
package capability
