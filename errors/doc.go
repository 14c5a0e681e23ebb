// Package errors provides the structured error taxonomy for the audiokit
// dispatch layer. Every failure surfaced by the loader, prober, dispatcher,
// or remote client carries a machine-readable Kind so callers (and the
// dispatcher's fallback policy) can branch on failure class instead of
// string matching.
package errors
