// Package wavcodec adapts WAV containers to and from in-memory PCM
// clips. Decoding parses the RIFF container into a Clip; encoding
// renders a Clip back into a standalone WAV byte blob. Slicing applies
// the frame-range policy used by the chunk cache.
package wavcodec

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WAV format tags from the fmt chunk.
const (
	FormatPCM       = 1
	FormatIEEEFloat = 3
)

var (
	// ErrMalformedAudio is returned when a byte sequence is not a
	// decodable WAV container. Callers map it to a client-facing
	// "invalid file" response, distinct from infrastructure failures.
	ErrMalformedAudio = errors.New("malformed audio")

	// ErrInvalidRange is returned for frame ranges that cannot be
	// interpreted, such as a negative start frame.
	ErrInvalidRange = errors.New("invalid frame range")
)

// Clip is a fully decoded audio segment: format metadata plus the PCM
// frame sequence. One frame holds one sample per channel.
type Clip struct {
	Channels  int
	FrameRate int
	BitDepth  int
	// WavFormat is the WAV format tag (1 = PCM, 3 = IEEE float).
	WavFormat int
	// PCM holds the interleaved samples.
	PCM *audio.IntBuffer
}

// FrameCount returns the number of PCM frames in the clip.
func (c *Clip) FrameCount() int {
	if c.PCM == nil || c.Channels == 0 {
		return 0
	}
	return len(c.PCM.Data) / c.Channels
}

// Duration returns the clip length in seconds.
func (c *Clip) Duration() float64 {
	if c.FrameRate == 0 {
		return 0
	}
	return float64(c.FrameCount()) / float64(c.FrameRate)
}

// SampleFormat returns the tag stored as catalog metadata, e.g.
// "pcm_16" or "float_32".
func (c *Clip) SampleFormat() string {
	encoding := "pcm"
	if c.WavFormat == FormatIEEEFloat {
		encoding = "float"
	}
	return fmt.Sprintf("%s_%d", encoding, c.BitDepth)
}

// Slice returns a new clip covering the inclusive frame range
// [start, end]. The range policy:
//   - start < 0 fails with ErrInvalidRange
//   - end beyond the last frame is clamped to FrameCount-1
//   - start > end (after clamping) yields an empty clip
//
// The returned clip shares format metadata with the receiver but owns
// its own sample slice.
func (c *Clip) Slice(start, end int) (*Clip, error) {
	if start < 0 {
		return nil, fmt.Errorf("%w: start frame %d is negative", ErrInvalidRange, start)
	}

	frames := c.FrameCount()
	if end > frames-1 {
		end = frames - 1
	}

	var data []int
	if start <= end {
		data = make([]int, (end-start+1)*c.Channels)
		copy(data, c.PCM.Data[start*c.Channels:(end+1)*c.Channels])
	} else {
		data = []int{}
	}

	return &Clip{
		Channels:  c.Channels,
		FrameRate: c.FrameRate,
		BitDepth:  c.BitDepth,
		WavFormat: c.WavFormat,
		PCM: &audio.IntBuffer{
			Format:         &audio.Format{NumChannels: c.Channels, SampleRate: c.FrameRate},
			Data:           data,
			SourceBitDepth: c.BitDepth,
		},
	}, nil
}

// Decode parses a WAV byte blob into a Clip. It fails with
// ErrMalformedAudio when the bytes are not a valid WAV container.
func Decode(data []byte) (*Clip, error) {
	dec := wav.NewDecoder(bytes.NewReader(data))

	buf, err := dec.FullPCMBuffer()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedAudio, err)
	}
	if dec.NumChans < 1 || dec.SampleRate == 0 {
		return nil, fmt.Errorf("%w: header reports %d channels at %d Hz",
			ErrMalformedAudio, dec.NumChans, dec.SampleRate)
	}

	return &Clip{
		Channels:  int(dec.NumChans),
		FrameRate: int(dec.SampleRate),
		BitDepth:  int(dec.BitDepth),
		WavFormat: int(dec.WavAudioFormat),
		PCM:       buf,
	}, nil
}

// Encode renders a clip into a self-contained WAV byte blob. The header
// fields (format tag, channel count, sample rate, bit depth, data
// length) are computed from the clip. Decoding the result yields the
// same frame count and channel layout.
func Encode(c *Clip) ([]byte, error) {
	ws := &writeSeeker{}
	enc := wav.NewEncoder(ws, c.FrameRate, c.BitDepth, c.Channels, c.WavFormat)

	if err := enc.Write(c.PCM); err != nil {
		return nil, fmt.Errorf("encode wav: %w", err)
	}
	if err := enc.Close(); err != nil {
		return nil, fmt.Errorf("finalize wav: %w", err)
	}

	return ws.buf, nil
}
