// SPDX-License-Identifier: EPL-2.0

// Package mixer implements a per-stream audio mixing pipeline.
//
// Each attached Source gets a MixerInput that sits between the
// pull-based source and the summing engine. On every mixing cycle the
// engine asks each input for audio; the input pulls raw frames from its
// source, remaps the channel layout, resamples to the mixer's output
// rate, applies click-free volume ramping, and accumulates the result
// into the shared output buffer:
//
//	m := mixer.NewMixer(mixer.Config{OutputSampleRate: 48000, OutputChannels: 2})
//	in := m.AddSource(src)
//	in.SetVolumeMultiplier(0.8)
//
//	out := mixer.NewBus(2, 512)
//	for {
//	    m.MixTo(out, 512)
//	    // hand out to the output device
//	}
//
// # Threading model
//
// The whole pipeline executes synchronously on a single mixer
// goroutine. No internal locking is used; correctness depends on the
// caller keeping all mixer, input and source calls on that goroutine.
// FillAudioData and the source pull callback must return promptly, or
// the output device underruns. Nothing in the fill path blocks, locks,
// logs or allocates in steady state.
//
// # Volume
//
// The effective multiplier of a stream is the product of its per-stream
// multiplier, its content-type multiplier and its mute state. Changes
// are slewed over a bounded time window by SlewVolume so there are no
// audible discontinuities; TargetVolume and InstantaneousVolume differ
// only while a fade is in flight.
//
// # Output redirection
//
// An AudioOutputRedirectorInput attached to an input claims the
// stream's audio entirely: the lowest-ordered redirector receives every
// buffer and nothing is mixed for local output until it is removed.
//
// # Errors
//
// Pipeline errors propagate to the source via OnAudioPlaybackError,
// never via panics in the fill path. Partial fills are not errors;
// callers treat the missing tail as silence. Contract violations
// (invalid source configuration, undersized destination buffers) fail
// fast with a panic.
package mixer
