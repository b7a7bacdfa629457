// SPDX-License-Identifier: EPL-2.0

package utils

// Deinterleave splits interleaved samples into per-channel planes.
// src holds frames*len(dst) samples; each dst slice receives frames
// samples. Returns the number of frames written.
func Deinterleave(src []float32, dst [][]float32, frames int) int {
	channels := len(dst)
	if channels == 0 {
		return 0
	}
	if max := len(src) / channels; frames > max {
		frames = max
	}
	for c := 0; c < channels; c++ {
		plane := dst[c]
		for i := 0; i < frames; i++ {
			plane[i] = src[i*channels+c]
		}
	}
	return frames
}

// Interleave packs per-channel planes into interleaved samples in dst.
// Returns the number of samples written (frames * channels).
func Interleave(src [][]float32, frames int, dst []float32) int {
	channels := len(src)
	if channels == 0 {
		return 0
	}
	if max := len(dst) / channels; frames > max {
		frames = max
	}
	for c := 0; c < channels; c++ {
		plane := src[c]
		for i := 0; i < frames; i++ {
			dst[i*channels+c] = plane[i]
		}
	}
	return frames * channels
}
