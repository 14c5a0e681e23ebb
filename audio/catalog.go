package audio

import "github.com/epsilon-records/audiokit/node"

// Built-in node types.
const (
	TypeInput      = "audio.input"
	TypeOutput     = "audio.output"
	TypeFilter     = "audio.filter"
	TypeGain       = "audio.gain"
	TypeNormalize  = "audio.normalize"
	TypeCompressor = "audio.compressor"
	TypeDelay      = "audio.delay"
	TypeDenoise    = "ai.denoise"
	TypeAnalyze    = "ai.analyze"
	TypeSeparate   = "ai.separate"
	TypeTranscribe = "ai.transcribe"
	TypeVoiceClone = "ai.voiceclone"
	TypeCoverArt   = "ai.coverart"
)

// Stem names produced by ai.separate, in output order.
var StemNames = []string{"vocals", "drums", "bass", "other"}

// Register adds every built-in descriptor to the registry.
func Register(r *node.Registry) {
	for _, d := range Catalog() {
		r.Register(d)
	}
}

// Catalog returns the built-in node descriptors.
func Catalog() []node.Descriptor {
	return []node.Descriptor{
		{
			Type:    TypeInput,
			Summary: "Read an audio file into the pipeline",
			Params: []node.ParamSpec{
				{Name: "path", Type: node.ParamString, Description: "Input audio file path"},
				{Name: "channels", Type: node.ParamInt, Default: 2, Min: node.Float(1), Max: node.Float(8), Description: "Channel count"},
				{Name: "sample_rate", Type: node.ParamInt, Default: 44100, Description: "Sample rate in Hz"},
			},
		},
		{
			Type:    TypeOutput,
			Summary: "Write pipeline output to an audio file",
			Params: []node.ParamSpec{
				{Name: "path", Type: node.ParamString, Description: "Output file path"},
				{Name: "channels", Type: node.ParamInt, Default: 2, Min: node.Float(1), Max: node.Float(8), Description: "Channel count"},
			},
		},
		{
			Type:    TypeFilter,
			Summary: "Low-pass filter",
			Params: []node.ParamSpec{
				{Name: "cutoff", Type: node.ParamFloat, Default: 1000.0, Min: node.Float(20), Max: node.Float(20000), Description: "Cutoff frequency in Hz"},
				{Name: "resonance", Type: node.ParamFloat, Default: 0.707, Min: node.Float(0.1), Max: node.Float(10), Description: "Filter resonance (Q factor)"},
			},
		},
		{
			Type:    TypeGain,
			Summary: "Apply fixed gain",
			Params: []node.ParamSpec{
				{Name: "gain_db", Type: node.ParamFloat, Default: 0.0, Min: node.Float(-60), Max: node.Float(24), Description: "Gain in dB"},
			},
		},
		{
			Type:    TypeNormalize,
			Summary: "Peak-normalize to a target level",
			Params: []node.ParamSpec{
				{Name: "target_db", Type: node.ParamFloat, Default: -1.0, Min: node.Float(-60), Max: node.Float(0), Description: "Target peak level in dBFS"},
			},
		},
		{
			Type:    TypeCompressor,
			Summary: "Dynamic range compressor",
			Params: []node.ParamSpec{
				{Name: "threshold", Type: node.ParamFloat, Default: -20.0, Min: node.Float(-60), Max: node.Float(0), Description: "Threshold level in dB"},
				{Name: "ratio", Type: node.ParamFloat, Default: 4.0, Min: node.Float(1), Max: node.Float(20), Description: "Compression ratio"},
				{Name: "attack", Type: node.ParamFloat, Default: 5.0, Min: node.Float(0.1), Max: node.Float(200), Description: "Attack time in ms"},
				{Name: "release", Type: node.ParamFloat, Default: 50.0, Min: node.Float(1), Max: node.Float(2000), Description: "Release time in ms"},
				{Name: "makeup", Type: node.ParamFloat, Default: 0.0, Min: node.Float(0), Max: node.Float(24), Description: "Makeup gain in dB"},
			},
		},
		{
			Type:    TypeDelay,
			Summary: "Delay with feedback and dry/wet mix",
			Params: []node.ParamSpec{
				{Name: "delay_time", Type: node.ParamFloat, Default: 500.0, Min: node.Float(1), Max: node.Float(5000), Description: "Delay time in ms"},
				{Name: "feedback", Type: node.ParamFloat, Default: 0.3, Min: node.Float(0), Max: node.Float(0.95), Description: "Feedback amount"},
				{Name: "mix", Type: node.ParamFloat, Default: 0.5, Min: node.Float(0), Max: node.Float(1), Description: "Dry/wet mix"},
			},
		},
		{
			Type:    TypeDenoise,
			Summary: "AI noise reduction",
			Params: []node.ParamSpec{
				{Name: "strength", Type: node.ParamFloat, Default: 0.5, Min: node.Float(0), Max: node.Float(1), Description: "Reduction strength"},
			},
			Requires: node.Requirements{
				Weights:     []string{"denoiser-v2"},
				Binary:      "denoiser",
				MinMemoryMB: 2048,
			},
			RemoteOperation: "denoise",
		},
		{
			Type:    TypeAnalyze,
			Summary: "Detect BPM, key, genre and instruments",
			Requires: node.Requirements{
				Weights:     []string{"analyzer-v1"},
				Binary:      "analyzer",
				MinMemoryMB: 4096,
			},
			RemoteOperation: "analyze",
		},
		{
			Type:    TypeSeparate,
			Summary: "Separate audio into vocals, drums, bass and other stems",
			Params: []node.ParamSpec{
				{Name: "model", Type: node.ParamString, Default: "htdemucs", Enum: []string{"htdemucs", "htdemucs_ft", "mdx_extra"}, Description: "Separation model"},
			},
			Requires: node.Requirements{
				Weights:     []string{"htdemucs"},
				Binary:      "demucs",
				MinMemoryMB: 8192,
			},
			RemoteOperation: "separate",
		},
		{
			Type:    TypeTranscribe,
			Summary: "Speech-to-text transcription",
			Params: []node.ParamSpec{
				{Name: "model", Type: node.ParamString, Default: "base", Enum: []string{"tiny", "base", "small", "medium", "large"}, Description: "Model size"},
				{Name: "language", Type: node.ParamString, Default: "auto", Description: "Source language code, or auto"},
			},
			Requires: node.Requirements{
				Weights:     []string{"whisper-base"},
				Binary:      "whisper",
				MinMemoryMB: 4096,
			},
			RemoteOperation: "transcribe",
		},
		{
			Type:    TypeVoiceClone,
			Summary: "Re-voice audio with a cloned reference voice",
			Params: []node.ParamSpec{
				{Name: "reference", Type: node.ParamString, Required: true, Description: "Reference voice sample path"},
			},
			Requires: node.Requirements{
				Accelerator: "cuda",
				Weights:     []string{"voiceclone-xl"},
				Binary:      "voiceclone",
				MinMemoryMB: 12288,
			},
			RemoteOperation: "voiceclone",
		},
		{
			Type:    TypeCoverArt,
			Summary: "Generate cover art from a text prompt",
			Params: []node.ParamSpec{
				{Name: "prompt", Type: node.ParamString, Required: true, Description: "Image prompt"},
				{Name: "size", Type: node.ParamString, Default: "1024", Enum: []string{"512", "1024", "2048"}, Description: "Square image size in pixels"},
			},
			Requires: node.Requirements{
				Accelerator: "cuda",
				Weights:     []string{"coverart-diffusion"},
				Binary:      "coverart",
				MinMemoryMB: 12288,
			},
			RemoteOperation: "coverart",
		},
	}
}
