// SPDX-License-Identifier: EPL-2.0

// Package mixline mixes any number of PCM streams into a single output
// stream at a fixed sample rate and channel count.
//
// # Supported Formats
//
//   - WAV (PCM, 8/16/24/32-bit) via formats/wav
//   - AIFF (PCM, 16-bit) via formats/aiff
//   - MP3 via formats/mp3
//   - Ogg Vorbis via formats/vorbis
//
// # Quick Start
//
//	f1, _ := os.Open("music.mp3")
//	f2, _ := os.Open("voice.wav")
//
//	reg := mixline.DefaultRegistry()
//	dec, _ := reg.Get("mp3")
//	music, _ := dec.Decode(f1)
//	dec, _ = reg.Get("wav")
//	voice, _ := dec.Decode(f2)
//
//	pcm16, err := mixline.MixToPCM16([]pcm.Reader{music, voice}, 48000, 2)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	// pcm16 is interleaved stereo 16-bit PCM at 48kHz.
//
// # Pipeline
//
// Each input stream runs through its own conversion chain before
// summation: channel mixing to the output layout, cubic resampling to
// the output rate, and click-free volume ramping. The mixer package
// exposes the chain directly for callers that need per-stream volume,
// muting, output redirection or rendering-delay bookkeeping;
// MixToPCM16 is the batch convenience on top of it.
//
// # Writing WAV
//
// The formats/wav package also encodes: WritePCM16 wraps the mixed
// samples in a 16-bit PCM WAV container.
//
//	out, _ := os.Create("mix.wav")
//	defer out.Close()
//	wav.WritePCM16(out, 48000, 2, pcm16)
//
// # Performance
//
// The mix loop allocates once up front and reuses its buffers for
// every cycle. Decoders stream; only MixToPCM16 collects the whole
// output in memory.
package mixline
