package audio

import (
	"bytes"
	"context"
	"encoding/json"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/epsilon-records/audiokit/config"
	"github.com/epsilon-records/audiokit/dispatch"
	"github.com/epsilon-records/audiokit/errors"
	"github.com/epsilon-records/audiokit/node"
)

func sineClip(frames int) *Clip {
	c := &Clip{SampleRate: 44100, Channels: 2, Samples: make([]float64, frames*2)}
	for i := 0; i < frames; i++ {
		v := 0.5 * math.Sin(2*math.Pi*440*float64(i)/44100)
		c.Samples[i*2] = v
		c.Samples[i*2+1] = v
	}
	return c
}

func encode(t *testing.T, c *Clip) []byte {
	t.Helper()
	var buf bytes.Buffer
	if err := EncodeWAV(&buf, c); err != nil {
		t.Fatalf("EncodeWAV() error = %v", err)
	}
	return buf.Bytes()
}

func TestWAVRoundTrip(t *testing.T) {
	orig := sineClip(256)
	decoded, err := DecodeWAV(bytes.NewReader(encode(t, orig)))
	if err != nil {
		t.Fatalf("DecodeWAV() error = %v", err)
	}
	if decoded.SampleRate != 44100 || decoded.Channels != 2 {
		t.Fatalf("decoded %d Hz %d ch, want 44100 Hz 2 ch", decoded.SampleRate, decoded.Channels)
	}
	if decoded.Frames() != 256 {
		t.Fatalf("decoded %d frames, want 256", decoded.Frames())
	}
	for i := range orig.Samples {
		if math.Abs(decoded.Samples[i]-orig.Samples[i]) > 1.0/maxPCM16 {
			t.Fatalf("sample %d: got %v, want %v", i, decoded.Samples[i], orig.Samples[i])
		}
	}
}

func TestDecodeWAV_Rejects(t *testing.T) {
	if _, err := DecodeWAV(bytes.NewReader([]byte("not audio"))); err == nil {
		t.Fatal("expected error for garbage input")
	}
}

func TestGain(t *testing.T) {
	c := &Clip{SampleRate: 44100, Channels: 1, Samples: []float64{0.25, -0.25}}
	Gain(c, 6.0206) // +6 dB doubles amplitude
	if math.Abs(c.Samples[0]-0.5) > 1e-3 || math.Abs(c.Samples[1]+0.5) > 1e-3 {
		t.Fatalf("gain result = %v", c.Samples)
	}
}

func TestGain_ClampsAtFullScale(t *testing.T) {
	c := &Clip{SampleRate: 44100, Channels: 1, Samples: []float64{0.9}}
	Gain(c, 12)
	if c.Samples[0] != 1 {
		t.Fatalf("sample = %v, want clamped to 1", c.Samples[0])
	}
}

func TestNormalize(t *testing.T) {
	c := &Clip{SampleRate: 44100, Channels: 1, Samples: []float64{0.1, -0.2, 0.05}}
	Normalize(c, 0)
	var peak float64
	for _, s := range c.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if math.Abs(peak-1) > 1e-9 {
		t.Fatalf("peak after normalize = %v, want 1", peak)
	}
}

func TestNormalize_SilentClipUntouched(t *testing.T) {
	c := &Clip{SampleRate: 44100, Channels: 1, Samples: []float64{0, 0, 0}}
	Normalize(c, -1)
	for _, s := range c.Samples {
		if s != 0 {
			t.Fatalf("silent clip changed: %v", c.Samples)
		}
	}
}

func TestLowPass_AttenuatesHighFrequency(t *testing.T) {
	// 10 kHz tone through a 500 Hz low-pass should lose most energy.
	c := &Clip{SampleRate: 44100, Channels: 1, Samples: make([]float64, 4096)}
	for i := range c.Samples {
		c.Samples[i] = 0.8 * math.Sin(2*math.Pi*10000*float64(i)/44100)
	}
	LowPass(c, 500, 0.707)

	var rms float64
	for _, s := range c.Samples[1024:] { // skip the transient
		rms += s * s
	}
	rms = math.Sqrt(rms / float64(len(c.Samples)-1024))
	if rms > 0.05 {
		t.Fatalf("post-filter RMS = %v, want < 0.05", rms)
	}
}

func TestCompress_ReducesLoudSignal(t *testing.T) {
	// A constant 0.9 signal sits ~19 dB over a -20 dB threshold; at 4:1
	// the settled gain reduction is ~14 dB.
	c := &Clip{SampleRate: 44100, Channels: 1, Samples: make([]float64, 44100)}
	for i := range c.Samples {
		c.Samples[i] = 0.9
	}
	Compress(c, -20, 4, 5, 50, 0)

	tail := c.Samples[len(c.Samples)-1]
	if tail > 0.3 || tail < 0.05 {
		t.Fatalf("settled output = %v, want heavy reduction from 0.9", tail)
	}
}

func TestCompress_LeavesQuietSignal(t *testing.T) {
	c := &Clip{SampleRate: 44100, Channels: 1, Samples: make([]float64, 4096)}
	for i := range c.Samples {
		c.Samples[i] = 0.05 // ~-26 dB, below the threshold
	}
	Compress(c, -20, 4, 5, 50, 0)
	if got := c.Samples[len(c.Samples)-1]; math.Abs(got-0.05) > 1e-3 {
		t.Fatalf("quiet signal changed: %v", got)
	}
}

func TestDelay_EchoesWithFeedback(t *testing.T) {
	c := &Clip{SampleRate: 1000, Channels: 1, Samples: make([]float64, 301)}
	c.Samples[0] = 0.8
	Delay(c, 100, 0.5, 0.5) // 100 samples at 1 kHz

	if math.Abs(c.Samples[0]-0.4) > 1e-9 {
		t.Errorf("dry sample = %v, want 0.4", c.Samples[0])
	}
	if math.Abs(c.Samples[100]-0.4) > 1e-9 {
		t.Errorf("first echo = %v, want 0.4", c.Samples[100])
	}
	if math.Abs(c.Samples[200]-0.2) > 1e-9 {
		t.Errorf("second echo = %v, want 0.2 (feedback halved)", c.Samples[200])
	}
}

func TestRegister(t *testing.T) {
	r := node.NewRegistry(nil)
	Register(r)
	for _, typ := range []string{TypeInput, TypeOutput, TypeFilter, TypeGain, TypeNormalize, TypeCompressor, TypeDelay, TypeDenoise, TypeAnalyze, TypeSeparate, TypeTranscribe, TypeVoiceClone, TypeCoverArt} {
		if _, ok := r.Lookup(typ); !ok {
			t.Errorf("type %s not registered", typ)
		}
	}
	sep, _ := r.Lookup(TypeSeparate)
	if sep.RemoteOperation != "separate" {
		t.Errorf("separate remote operation = %q", sep.RemoteOperation)
	}
	if sep.Requires.Binary != "demucs" {
		t.Errorf("separate binary = %q", sep.Requires.Binary)
	}
}

func testRunner(t *testing.T, binaries map[string]string) *LocalRunner {
	t.Helper()
	r := node.NewRegistry(nil)
	Register(r)
	return NewLocalRunner(r, config.LocalConfig{
		WorkDir:  t.TempDir(),
		Binaries: binaries,
	}, nil)
}

// fakeTool writes an executable shell script to stand in for a model binary.
func fakeTool(t *testing.T, script string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "tool.sh")
	if err := os.WriteFile(path, []byte("#!/bin/sh\n"+script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLocalRunner_InputOutput(t *testing.T) {
	dir := t.TempDir()
	inPath := filepath.Join(dir, "in.wav")
	outPath := filepath.Join(dir, "out.wav")
	if err := os.WriteFile(inPath, encode(t, sineClip(64)), 0o644); err != nil {
		t.Fatal(err)
	}

	r := testRunner(t, nil)
	inputs, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "in", Type: TypeInput, Params: map[string]any{"path": inPath},
	})
	if err != nil {
		t.Fatalf("input: %v", err)
	}
	if len(inputs) != 1 || len(inputs[0].Data) == 0 {
		t.Fatalf("input artifacts = %+v", inputs)
	}

	if _, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "out", Type: TypeOutput,
		Params: map[string]any{"path": outPath},
		Inputs: inputs,
	}); err != nil {
		t.Fatalf("output: %v", err)
	}
	if _, err := os.Stat(outPath); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
}

func TestLocalRunner_GainPipeline(t *testing.T) {
	r := testRunner(t, nil)
	in := dispatch.Artifact{NodeID: "in", Data: encode(t, sineClip(64))}

	out, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "gain", Type: TypeGain,
		Params: map[string]any{"gain_db": -6.0},
		Inputs: []dispatch.Artifact{in},
	})
	if err != nil {
		t.Fatalf("gain: %v", err)
	}
	clip, err := DecodeWAV(bytes.NewReader(out[0].Data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	var peak float64
	for _, s := range clip.Samples {
		if a := math.Abs(s); a > peak {
			peak = a
		}
	}
	if peak > 0.3 {
		t.Fatalf("peak after -6 dB = %v, want ~0.25", peak)
	}
}

func TestLocalRunner_MissingInputFails(t *testing.T) {
	r := testRunner(t, nil)
	_, err := r.Execute(context.Background(), dispatch.Request{NodeID: "gain", Type: TypeGain})
	if err == nil {
		t.Fatal("expected error with no inputs")
	}
	if !errors.IsKind(err, errors.KindLocalExecution) {
		t.Fatalf("error kind = %s, want LOCAL_EXECUTION", errors.KindOf(err))
	}
}

func TestLocalRunner_Separate(t *testing.T) {
	// The fake demucs writes the four stems into --out.
	script := `
out=""
while [ $# -gt 1 ]; do
  if [ "$1" = "--out" ]; then out="$2"; fi
  shift
done
for stem in vocals drums bass other; do
  echo "$stem" > "$out/$stem.wav"
done
`
	r := testRunner(t, map[string]string{TypeSeparate: fakeTool(t, script)})
	in := dispatch.Artifact{NodeID: "in", Data: encode(t, sineClip(16))}

	artifacts, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "sep", Type: TypeSeparate,
		Params: map[string]any{"model": "htdemucs"},
		Inputs: []dispatch.Artifact{in},
	})
	if err != nil {
		t.Fatalf("separate: %v", err)
	}
	if len(artifacts) != 4 {
		t.Fatalf("got %d artifacts, want 4 stems", len(artifacts))
	}
	for i, stem := range StemNames {
		if artifacts[i].Name != stem {
			t.Errorf("artifact %d name = %q, want %q", i, artifacts[i].Name, stem)
		}
	}
}

func TestLocalRunner_Transcribe(t *testing.T) {
	r := testRunner(t, map[string]string{TypeTranscribe: fakeTool(t, `echo "hello from the model"`)})
	in := dispatch.Artifact{NodeID: "in", Data: encode(t, sineClip(16))}

	artifacts, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "tr", Type: TypeTranscribe,
		Params: map[string]any{"model": "base", "language": "en"},
		Inputs: []dispatch.Artifact{in},
	})
	if err != nil {
		t.Fatalf("transcribe: %v", err)
	}
	if got := string(bytes.TrimSpace(artifacts[0].Data)); got != "hello from the model" {
		t.Fatalf("transcript = %q", got)
	}
	if artifacts[0].Meta["language"] != "en" {
		t.Errorf("meta = %+v", artifacts[0].Meta)
	}
}

func TestLocalRunner_Analyze(t *testing.T) {
	script := `echo '{"bpm": 120, "key": "C Major", "genre": "Pop"}'`
	r := testRunner(t, map[string]string{TypeAnalyze: fakeTool(t, script)})
	in := dispatch.Artifact{NodeID: "in", Data: encode(t, sineClip(16))}

	artifacts, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "an", Type: TypeAnalyze,
		Inputs: []dispatch.Artifact{in},
	})
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if artifacts[0].Name != "analysis" || artifacts[0].Meta["format"] != "json" {
		t.Fatalf("artifact = %+v", artifacts[0])
	}
	var result map[string]any
	if err := json.Unmarshal(artifacts[0].Data, &result); err != nil {
		t.Fatalf("decode analysis: %v", err)
	}
	if result["bpm"] != 120.0 || result["key"] != "C Major" {
		t.Errorf("analysis = %v", result)
	}
}

func TestLocalRunner_AnalyzeRejectsMalformedOutput(t *testing.T) {
	r := testRunner(t, map[string]string{TypeAnalyze: fakeTool(t, `echo "not json"`)})
	in := dispatch.Artifact{NodeID: "in", Data: encode(t, sineClip(16))}

	_, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "an", Type: TypeAnalyze,
		Inputs: []dispatch.Artifact{in},
	})
	if !errors.IsKind(err, errors.KindLocalExecution) {
		t.Fatalf("error = %v, want LOCAL_EXECUTION", err)
	}
}

func TestLocalRunner_CompressorChain(t *testing.T) {
	r := testRunner(t, nil)
	loud := &Clip{SampleRate: 44100, Channels: 1, Samples: make([]float64, 44100)}
	for i := range loud.Samples {
		loud.Samples[i] = 0.9
	}
	in := dispatch.Artifact{NodeID: "in", Data: encode(t, loud)}

	out, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "comp", Type: TypeCompressor,
		Params: map[string]any{"threshold": -20.0, "ratio": 4.0},
		Inputs: []dispatch.Artifact{in},
	})
	if err != nil {
		t.Fatalf("compressor: %v", err)
	}
	clip, err := DecodeWAV(bytes.NewReader(out[0].Data))
	if err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if tail := clip.Samples[len(clip.Samples)-1]; tail > 0.3 {
		t.Fatalf("settled output = %v, want compressed below 0.3", tail)
	}
}

func TestLocalRunner_ToolCrashIsLocalError(t *testing.T) {
	r := testRunner(t, map[string]string{TypeDenoise: fakeTool(t, `echo "model exploded" >&2; exit 1`)})
	in := dispatch.Artifact{NodeID: "in", Data: encode(t, sineClip(16))}

	_, err := r.Execute(context.Background(), dispatch.Request{
		NodeID: "dn", Type: TypeDenoise,
		Params: map[string]any{"strength": 0.5},
		Inputs: []dispatch.Artifact{in},
	})
	if err == nil {
		t.Fatal("expected tool crash to fail")
	}
	if !errors.IsKind(err, errors.KindLocalExecution) {
		t.Fatalf("error kind = %s, want LOCAL_EXECUTION", errors.KindOf(err))
	}
}
