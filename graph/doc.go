// Package graph models audio processing pipelines as directed acyclic
// graphs of typed nodes and loads them from YAML documents.
//
// A document has two sections:
//
//	nodes:
//	  - id: input
//	    type: audio.input
//	    params: {channels: 2, sample_rate: 44100}
//	connections:
//	  - {from: input, to: output}
//
// Loading validates collect-all: every duplicate id, unknown type, dangling
// connection, parameter schema failure, and cycle is reported in a single
// aggregated error. A pipeline with any validation finding never executes.
package graph
