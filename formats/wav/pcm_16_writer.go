// SPDX-License-Identifier: EPL-2.0

package wav

import (
	"fmt"
	"io"

	goaudio "github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// WritePCM16 writes interleaved 16-bit PCM samples as a WAV file at
// sampleRate with the given channel count. The writer must support
// seeking so the encoder can patch chunk sizes on Close.
func WritePCM16(w io.WriteSeeker, sampleRate, channels int, samples []int16) error {
	if channels <= 0 {
		return ErrUnsupportedWavLayout
	}

	enc := wav.NewEncoder(w, sampleRate, 16, channels, 1)

	// Write in chunks to bound the int conversion buffer.
	const chunkFrames = 8192
	chunkSize := chunkFrames * channels
	buf := &goaudio.IntBuffer{
		Data: make([]int, min(len(samples), chunkSize)),
		Format: &goaudio.Format{
			NumChannels: channels,
			SampleRate:  sampleRate,
		},
		SourceBitDepth: 16,
	}

	for i := 0; i < len(samples); i += chunkSize {
		end := min(i+chunkSize, len(samples))
		chunk := samples[i:end]
		buf.Data = buf.Data[:len(chunk)]
		for j, s := range chunk {
			buf.Data[j] = int(s)
		}
		if err := enc.Write(buf); err != nil {
			return fmt.Errorf("%w", err)
		}
	}

	if err := enc.Close(); err != nil {
		return fmt.Errorf("%w", err)
	}
	return nil
}
