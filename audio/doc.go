// Package audio supplies the built-in node catalog and the local execution
// path. Lightweight DSP steps (gain, normalize, filter) run in-process over
// PCM WAV data; AI steps shell out to their model binaries through process.
package audio
