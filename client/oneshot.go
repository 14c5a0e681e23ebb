package client

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/epsilon-records/audiokit/audio"
	"github.com/epsilon-records/audiokit/dispatch"
	"github.com/epsilon-records/audiokit/graph"
)

// Denoise runs AI noise reduction on one file.
func (ak *AudioKit) Denoise(ctx context.Context, inPath, outPath string, strength float64) error {
	spec := &graph.Spec{
		Name: "denoise",
		Nodes: []graph.Node{
			{ID: "input", Type: audio.TypeInput, Params: map[string]any{"path": inPath}},
			{ID: "denoise", Type: audio.TypeDenoise, Params: map[string]any{"strength": strength}},
			{ID: "output", Type: audio.TypeOutput, Params: map[string]any{"path": outPath}},
		},
		Connections: []graph.Connection{
			{From: "input", To: "denoise"},
			{From: "denoise", To: "output"},
		},
	}
	_, err := ak.runOneShot(ctx, spec)
	return err
}

// SeparateStems splits one file into vocals, drums, bass and other.
// Returns the written stem paths keyed by stem name.
func (ak *AudioKit) SeparateStems(ctx context.Context, inPath, outDir string) (map[string]string, error) {
	spec := &graph.Spec{
		Name: "separate",
		Nodes: []graph.Node{
			{ID: "input", Type: audio.TypeInput, Params: map[string]any{"path": inPath}},
			{ID: "separate", Type: audio.TypeSeparate, Params: map[string]any{}},
		},
		Connections: []graph.Connection{
			{From: "input", To: "separate"},
		},
	}
	report, err := ak.runOneShot(ctx, spec)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return nil, fmt.Errorf("create stems dir: %w", err)
	}
	stems := make(map[string]string)
	for _, a := range report.Results["separate"].Outputs {
		path := filepath.Join(outDir, a.Name+".wav")
		if err := os.WriteFile(path, a.Data, 0o644); err != nil {
			return nil, fmt.Errorf("write %s stem: %w", a.Name, err)
		}
		stems[a.Name] = path
	}
	return stems, nil
}

// Transcribe converts speech in one file to text.
func (ak *AudioKit) Transcribe(ctx context.Context, inPath, language string) (string, error) {
	if language == "" {
		language = "auto"
	}
	spec := &graph.Spec{
		Name: "transcribe",
		Nodes: []graph.Node{
			{ID: "input", Type: audio.TypeInput, Params: map[string]any{"path": inPath}},
			{ID: "transcribe", Type: audio.TypeTranscribe, Params: map[string]any{"language": language}},
		},
		Connections: []graph.Connection{
			{From: "input", To: "transcribe"},
		},
	}
	report, err := ak.runOneShot(ctx, spec)
	if err != nil {
		return "", err
	}
	outputs := report.Results["transcribe"].Outputs
	if len(outputs) == 0 {
		return "", fmt.Errorf("transcription produced no output")
	}
	return string(outputs[0].Data), nil
}

// Analyze detects BPM, key, genre and instruments for one file. The result
// keys mirror the analyzer's JSON output ("bpm", "key", "genre",
// "instruments").
func (ak *AudioKit) Analyze(ctx context.Context, inPath string) (map[string]any, error) {
	spec := &graph.Spec{
		Name: "analyze",
		Nodes: []graph.Node{
			{ID: "input", Type: audio.TypeInput, Params: map[string]any{"path": inPath}},
			{ID: "analyze", Type: audio.TypeAnalyze},
		},
		Connections: []graph.Connection{
			{From: "input", To: "analyze"},
		},
	}
	report, err := ak.runOneShot(ctx, spec)
	if err != nil {
		return nil, err
	}
	outputs := report.Results["analyze"].Outputs
	if len(outputs) == 0 {
		return nil, fmt.Errorf("analysis produced no output")
	}
	var result map[string]any
	if err := json.Unmarshal(outputs[0].Data, &result); err != nil {
		return nil, fmt.Errorf("decode analysis result: %w", err)
	}
	return result, nil
}

// GenerateCoverArt renders cover art for a prompt and writes it to outPath.
func (ak *AudioKit) GenerateCoverArt(ctx context.Context, prompt, outPath string) error {
	spec := &graph.Spec{
		Name: "coverart",
		Nodes: []graph.Node{
			{ID: "coverart", Type: audio.TypeCoverArt, Params: map[string]any{"prompt": prompt}},
		},
	}
	report, err := ak.runOneShot(ctx, spec)
	if err != nil {
		return err
	}
	outputs := report.Results["coverart"].Outputs
	if len(outputs) == 0 {
		return fmt.Errorf("cover art generation produced no output")
	}
	if dir := filepath.Dir(outPath); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output dir: %w", err)
		}
	}
	return os.WriteFile(outPath, outputs[0].Data, 0o644)
}

// runOneShot normalizes a hand-built spec through the loader's parameter
// validation, executes it, and fails on any non-DONE node.
func (ak *AudioKit) runOneShot(ctx context.Context, spec *graph.Spec) (*dispatch.Report, error) {
	data, err := graph.Marshal(spec)
	if err != nil {
		return nil, err
	}
	validated, err := ak.ParsePipeline(data, false)
	if err != nil {
		return nil, err
	}

	report, err := ak.RunPipeline(ctx, validated)
	if err != nil {
		return nil, err
	}
	for _, id := range report.Failed() {
		return report, fmt.Errorf("%s: %w", id, report.Results[id].Err)
	}
	if skipped := report.Skipped(); len(skipped) > 0 {
		return report, fmt.Errorf("nodes %v were skipped: %s", skipped, report.Results[skipped[0]].Reason)
	}
	return report, nil
}
