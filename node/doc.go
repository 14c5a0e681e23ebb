// Package node defines capability descriptors for audio processing node
// types and the registry that maps a type name to its descriptor.
//
// A Descriptor declares a node type's parameter schema (a tagged set of
// typed parameter specs validated at pipeline load time) and its local
// execution requirements, which the capability prober evaluates against the
// host environment.
//
// The registry is an explicitly constructed instance injected into the
// loader and dispatcher; there is no process-wide global.
package node
