// SPDX-License-Identifier: EPL-2.0

// Package wav provides WAV audio file decoding and encoding.
//
// Decoding is built on github.com/go-audio/wav and supports PCM files
// at 8, 16, 24 and 32 bits per sample, mono or multichannel, at any
// sample rate. Samples are normalized to float32 in [-1.0, 1.0].
//
// # Decoding WAV Files
//
//	decoder := wav.Decoder{}
//	file, _ := os.Open("audio.wav")
//	source, err := decoder.Decode(file)
//	if err != nil {
//	    // Handle error
//	}
//
//	buf := make([]float32, 4096)
//	n, err := source.ReadSamples(buf)
//
// Decode prefers an io.ReadSeeker; a plain io.Reader is buffered into
// memory first.
//
// # Writing WAV Files
//
// WritePCM16 writes interleaved 16-bit PCM as a WAV file. The writer
// must support seeking so chunk sizes can be patched on close:
//
//	samples := []int16{100, -100, 200, -200}
//	file, _ := os.Create("output.wav")
//	err := wav.WritePCM16(file, 8000, 2, samples)
//
// # Error Handling
//
//   - ErrNotWavFile: the input is not a valid WAV file
//   - ErrUnsupportedBitDepth: bit depth outside 8/16/24/32
//   - ErrUnsupportedWavLayout: unsupported WAV file structure
package wav
