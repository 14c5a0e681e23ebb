package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/epsilon-records/audiokit/config"
	"github.com/epsilon-records/audiokit/dispatch"
	"github.com/epsilon-records/audiokit/errors"
	"github.com/epsilon-records/audiokit/logger"
	"github.com/epsilon-records/audiokit/node"
	"github.com/epsilon-records/audiokit/process"
)

// LocalRunner executes built-in node types on the host. DSP steps run
// in-process; AI steps shell out to their model binaries.
type LocalRunner struct {
	registry *node.Registry
	cfg      config.LocalConfig
	log      *logger.Logger
}

// NewLocalRunner creates a local runner. A nil log discards logging.
func NewLocalRunner(registry *node.Registry, cfg config.LocalConfig, log *logger.Logger) *LocalRunner {
	if log == nil {
		log = logger.Nop()
	}
	return &LocalRunner{
		registry: registry,
		cfg:      cfg,
		log:      log.WithComponent("audio"),
	}
}

// Execute runs one node on the host. Failures come back as
// LOCAL_EXECUTION errors so the dispatcher can weigh the remote fallback.
func (r *LocalRunner) Execute(ctx context.Context, req dispatch.Request) ([]dispatch.Artifact, error) {
	switch req.Type {
	case TypeInput:
		return r.runInput(req)
	case TypeOutput:
		return r.runOutput(req)
	case TypeGain, TypeNormalize, TypeFilter, TypeCompressor, TypeDelay:
		return r.runDSP(req)
	case TypeAnalyze:
		return r.runAnalyze(ctx, req)
	case TypeDenoise:
		return r.runSingleOutput(ctx, req, "denoised.wav", func(in, out string) []string {
			return []string{"--strength", floatArg(req.Params, "strength", 0.5), "-o", out, in}
		})
	case TypeVoiceClone:
		return r.runSingleOutput(ctx, req, "cloned.wav", func(in, out string) []string {
			return []string{"--reference", stringParam(req.Params, "reference", ""), "-o", out, in}
		})
	case TypeSeparate:
		return r.runSeparate(ctx, req)
	case TypeTranscribe:
		return r.runTranscribe(ctx, req)
	case TypeCoverArt:
		return r.runCoverArt(ctx, req)
	default:
		return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("no local implementation for node type %q", req.Type))
	}
}

func (r *LocalRunner) runInput(req dispatch.Request) ([]dispatch.Artifact, error) {
	path := stringParam(req.Params, "path", "")
	if path == "" {
		return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("input node needs a path"))
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("read input: %w", err))
	}
	return []dispatch.Artifact{{NodeID: req.NodeID, Name: "audio", Path: path, Data: data}}, nil
}

func (r *LocalRunner) runOutput(req dispatch.Request) ([]dispatch.Artifact, error) {
	path := stringParam(req.Params, "path", "")
	if path == "" {
		return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("output node needs a path"))
	}
	in, err := firstInput(req)
	if err != nil {
		return nil, err
	}
	data := in.Data
	if data == nil {
		if data, err = os.ReadFile(in.Path); err != nil {
			return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("read upstream artifact: %w", err))
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("create output dir: %w", err))
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("write output: %w", err))
	}
	r.log.Info("wrote output file", logger.Fields(logger.FieldNode, req.NodeID, "path", path, "bytes", len(data)))
	return []dispatch.Artifact{{NodeID: req.NodeID, Name: "audio", Path: path}}, nil
}

func (r *LocalRunner) runDSP(req dispatch.Request) ([]dispatch.Artifact, error) {
	in, err := firstInput(req)
	if err != nil {
		return nil, err
	}
	clip, err := decodeArtifact(req.NodeID, in)
	if err != nil {
		return nil, err
	}

	switch req.Type {
	case TypeGain:
		Gain(clip, floatParam(req.Params, "gain_db", 0))
	case TypeNormalize:
		Normalize(clip, floatParam(req.Params, "target_db", -1))
	case TypeFilter:
		LowPass(clip, floatParam(req.Params, "cutoff", 1000), floatParam(req.Params, "resonance", 0.707))
	case TypeCompressor:
		Compress(clip,
			floatParam(req.Params, "threshold", -20),
			floatParam(req.Params, "ratio", 4),
			floatParam(req.Params, "attack", 5),
			floatParam(req.Params, "release", 50),
			floatParam(req.Params, "makeup", 0))
	case TypeDelay:
		Delay(clip,
			floatParam(req.Params, "delay_time", 500),
			floatParam(req.Params, "feedback", 0.3),
			floatParam(req.Params, "mix", 0.5))
	}

	var buf bytes.Buffer
	if err := EncodeWAV(&buf, clip); err != nil {
		return nil, errors.LocalExecution(req.NodeID, err)
	}
	return []dispatch.Artifact{{NodeID: req.NodeID, Name: "audio", Data: buf.Bytes()}}, nil
}

// runSingleOutput covers tools that map one input file onto one output file.
func (r *LocalRunner) runSingleOutput(ctx context.Context, req dispatch.Request, outName string, args func(in, out string) []string) ([]dispatch.Artifact, error) {
	in, cleanup, err := r.inputFile(req)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	dir, err := r.workDir(req.NodeID)
	if err != nil {
		return nil, err
	}
	out := filepath.Join(dir, outName)

	if _, err := r.tool(req.Type).Run(ctx, args(in, out), nil); err != nil {
		return nil, wrapToolErr(ctx, req.NodeID, err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("tool produced no output: %w", err))
	}
	return []dispatch.Artifact{{NodeID: req.NodeID, Name: "audio", Path: out, Data: data}}, nil
}

func (r *LocalRunner) runSeparate(ctx context.Context, req dispatch.Request) ([]dispatch.Artifact, error) {
	in, cleanup, err := r.inputFile(req)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	dir, err := r.workDir(req.NodeID)
	if err != nil {
		return nil, err
	}

	args := []string{"--model", stringParam(req.Params, "model", "htdemucs"), "--out", dir, in}
	if _, err := r.tool(req.Type).Run(ctx, args, nil); err != nil {
		return nil, wrapToolErr(ctx, req.NodeID, err)
	}

	artifacts := make([]dispatch.Artifact, 0, len(StemNames))
	for _, stem := range StemNames {
		path := filepath.Join(dir, stem+".wav")
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("missing %s stem: %w", stem, err))
		}
		artifacts = append(artifacts, dispatch.Artifact{
			NodeID: req.NodeID,
			Name:   stem,
			Path:   path,
			Data:   data,
			Meta:   map[string]any{"stem": stem},
		})
	}
	return artifacts, nil
}

func (r *LocalRunner) runTranscribe(ctx context.Context, req dispatch.Request) ([]dispatch.Artifact, error) {
	in, cleanup, err := r.inputFile(req)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	args := []string{
		"--model", stringParam(req.Params, "model", "base"),
		"--language", stringParam(req.Params, "language", "auto"),
		in,
	}
	result, err := r.tool(req.Type).Run(ctx, args, nil)
	if err != nil {
		return nil, wrapToolErr(ctx, req.NodeID, err)
	}
	return []dispatch.Artifact{{
		NodeID: req.NodeID,
		Name:   "transcript",
		Data:   result.Stdout,
		Meta:   map[string]any{"format": "text", "language": stringParam(req.Params, "language", "auto")},
	}}, nil
}

func (r *LocalRunner) runAnalyze(ctx context.Context, req dispatch.Request) ([]dispatch.Artifact, error) {
	in, cleanup, err := r.inputFile(req)
	if err != nil {
		return nil, err
	}
	defer cleanup()

	result, err := r.tool(req.Type).Run(ctx, []string{"--json", in}, nil)
	if err != nil {
		return nil, wrapToolErr(ctx, req.NodeID, err)
	}
	// The analyzer reports BPM, key, genre and instrument confidences as a
	// single JSON document on stdout.
	if !json.Valid(result.Stdout) {
		return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("analyzer produced malformed JSON"))
	}
	return []dispatch.Artifact{{
		NodeID: req.NodeID,
		Name:   "analysis",
		Data:   result.Stdout,
		Meta:   map[string]any{"format": "json"},
	}}, nil
}

func (r *LocalRunner) runCoverArt(ctx context.Context, req dispatch.Request) ([]dispatch.Artifact, error) {
	dir, err := r.workDir(req.NodeID)
	if err != nil {
		return nil, err
	}
	out := filepath.Join(dir, "cover.png")

	args := []string{
		"--prompt", stringParam(req.Params, "prompt", ""),
		"--size", stringParam(req.Params, "size", "1024"),
		"-o", out,
	}
	if _, err := r.tool(req.Type).Run(ctx, args, nil); err != nil {
		return nil, wrapToolErr(ctx, req.NodeID, err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		return nil, errors.LocalExecution(req.NodeID, fmt.Errorf("tool produced no image: %w", err))
	}
	return []dispatch.Artifact{{NodeID: req.NodeID, Name: "cover", Path: out, Data: data}}, nil
}

// tool resolves the model binary for a node type, honoring config overrides.
func (r *LocalRunner) tool(nodeType string) *process.Tool {
	binary := ""
	if desc, ok := r.registry.Lookup(nodeType); ok {
		binary = desc.Requires.Binary
	}
	if override, ok := r.cfg.Binaries[nodeType]; ok {
		binary = override
	}
	return &process.Tool{Name: nodeType, Binary: binary, Dir: r.cfg.WorkDir}
}

func (r *LocalRunner) workDir(nodeID string) (string, error) {
	dir := filepath.Join(r.cfg.WorkDir, nodeID)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", errors.LocalExecution(nodeID, fmt.Errorf("create work dir: %w", err))
	}
	return dir, nil
}

// inputFile materializes the first upstream artifact as a file the tool
// can read. The cleanup removes any temp copy this created.
func (r *LocalRunner) inputFile(req dispatch.Request) (string, func(), error) {
	in, err := firstInput(req)
	if err != nil {
		return "", nil, err
	}
	if in.Path != "" {
		return in.Path, func() {}, nil
	}
	f, err := os.CreateTemp(r.cfg.WorkDir, "in-*.wav")
	if err != nil {
		return "", nil, errors.LocalExecution(req.NodeID, fmt.Errorf("stage input: %w", err))
	}
	if _, err := f.Write(in.Data); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", nil, errors.LocalExecution(req.NodeID, fmt.Errorf("stage input: %w", err))
	}
	f.Close()
	return f.Name(), func() { os.Remove(f.Name()) }, nil
}

func firstInput(req dispatch.Request) (dispatch.Artifact, error) {
	if len(req.Inputs) == 0 {
		return dispatch.Artifact{}, errors.LocalExecution(req.NodeID, fmt.Errorf("node has no upstream input"))
	}
	return req.Inputs[0], nil
}

func decodeArtifact(nodeID string, a dispatch.Artifact) (*Clip, error) {
	data := a.Data
	if data == nil {
		var err error
		if data, err = os.ReadFile(a.Path); err != nil {
			return nil, errors.LocalExecution(nodeID, fmt.Errorf("read upstream artifact: %w", err))
		}
	}
	clip, err := DecodeWAV(bytes.NewReader(data))
	if err != nil {
		return nil, errors.LocalExecution(nodeID, err)
	}
	return clip, nil
}

// wrapToolErr keeps cancellation errors distinguishable from tool crashes.
func wrapToolErr(ctx context.Context, nodeID string, err error) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	return errors.LocalExecution(nodeID, err)
}

func stringParam(params map[string]any, name, fallback string) string {
	if v, ok := params[name].(string); ok {
		return v
	}
	return fallback
}

func floatParam(params map[string]any, name string, fallback float64) float64 {
	switch v := params[name].(type) {
	case float64:
		return v
	case int:
		return float64(v)
	}
	return fallback
}

func floatArg(params map[string]any, name string, fallback float64) string {
	return strconv.FormatFloat(floatParam(params, name, fallback), 'g', -1, 64)
}
