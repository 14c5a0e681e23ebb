package audio

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"io"
	"math"
)

// Clip is decoded audio: interleaved samples normalized to [-1, 1].
type Clip struct {
	SampleRate int
	Channels   int
	Samples    []float64
}

// Frames returns the number of sample frames.
func (c *Clip) Frames() int {
	if c.Channels == 0 {
		return 0
	}
	return len(c.Samples) / c.Channels
}

const (
	wavFormatPCM  = 1
	wavBitsPCM16  = 16
	maxPCM16      = 32767
	wavHeaderSize = 44
)

// DecodeWAV parses a 16-bit PCM WAV stream.
func DecodeWAV(r io.Reader) (*Clip, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("wav: read: %w", err)
	}
	if len(data) < wavHeaderSize || string(data[0:4]) != "RIFF" || string(data[8:12]) != "WAVE" {
		return nil, fmt.Errorf("wav: not a RIFF/WAVE stream")
	}

	var (
		format     uint16
		channels   uint16
		sampleRate uint32
		bits       uint16
		pcm        []byte
	)

	// Walk the chunk list; fmt must precede data.
	off := 12
	for off+8 <= len(data) {
		id := string(data[off : off+4])
		size := int(binary.LittleEndian.Uint32(data[off+4 : off+8]))
		body := off + 8
		if body+size > len(data) {
			return nil, fmt.Errorf("wav: truncated %q chunk", id)
		}
		switch id {
		case "fmt ":
			if size < 16 {
				return nil, fmt.Errorf("wav: short fmt chunk")
			}
			format = binary.LittleEndian.Uint16(data[body : body+2])
			channels = binary.LittleEndian.Uint16(data[body+2 : body+4])
			sampleRate = binary.LittleEndian.Uint32(data[body+4 : body+8])
			bits = binary.LittleEndian.Uint16(data[body+14 : body+16])
		case "data":
			pcm = data[body : body+size]
		}
		// Chunks are word-aligned.
		off = body + size + size%2
	}

	if pcm == nil {
		return nil, fmt.Errorf("wav: missing data chunk")
	}
	if format != wavFormatPCM || bits != wavBitsPCM16 {
		return nil, fmt.Errorf("wav: unsupported format %d/%d-bit, want PCM/16-bit", format, bits)
	}
	if channels == 0 || sampleRate == 0 {
		return nil, fmt.Errorf("wav: invalid fmt chunk")
	}

	samples := make([]float64, len(pcm)/2)
	for i := range samples {
		v := int16(binary.LittleEndian.Uint16(pcm[i*2 : i*2+2]))
		samples[i] = float64(v) / maxPCM16
	}
	return &Clip{
		SampleRate: int(sampleRate),
		Channels:   int(channels),
		Samples:    samples,
	}, nil
}

// EncodeWAV writes the clip as 16-bit PCM WAV.
func EncodeWAV(w io.Writer, c *Clip) error {
	if c.Channels <= 0 || c.SampleRate <= 0 {
		return fmt.Errorf("wav: invalid clip: %d channels at %d Hz", c.Channels, c.SampleRate)
	}

	dataSize := len(c.Samples) * 2
	byteRate := c.SampleRate * c.Channels * 2

	var buf bytes.Buffer
	buf.Grow(wavHeaderSize + dataSize)
	buf.WriteString("RIFF")
	le32(&buf, uint32(36+dataSize))
	buf.WriteString("WAVE")
	buf.WriteString("fmt ")
	le32(&buf, 16)
	le16(&buf, wavFormatPCM)
	le16(&buf, uint16(c.Channels))
	le32(&buf, uint32(c.SampleRate))
	le32(&buf, uint32(byteRate))
	le16(&buf, uint16(c.Channels*2)) // block align
	le16(&buf, wavBitsPCM16)
	buf.WriteString("data")
	le32(&buf, uint32(dataSize))

	for _, s := range c.Samples {
		v := math.Round(clamp(s, -1, 1) * maxPCM16)
		le16(&buf, uint16(int16(v)))
	}

	_, err := w.Write(buf.Bytes())
	return err
}

func le16(buf *bytes.Buffer, v uint16) {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	buf.Write(b[:])
}

func le32(buf *bytes.Buffer, v uint32) {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	buf.Write(b[:])
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
