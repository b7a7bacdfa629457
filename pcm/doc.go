// SPDX-License-Identifier: EPL-2.0

// Package pcm defines the interleaved sample-stream interface shared by
// the format decoders and the mixer's stream adapter.
//
// A Reader produces interleaved float32 samples normalized to
// [-1.0, 1.0] and signals end of stream with io.EOF. Decoders for
// concrete container formats live under formats/ and are looked up
// through a Registry:
//
//	registry := pcm.NewRegistry()
//	registry.Register("wav", wav.Decoder{})
//	dec, _ := registry.Get("wav")
//	reader, _ := dec.Decode(file)
//
// Readers feed the mixer through mixer.NewReaderSource.
package pcm
