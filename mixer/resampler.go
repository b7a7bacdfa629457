// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"github.com/mixline/mixline/utils"
)

// ResamplerReadFunc supplies input-rate audio to the resampler. It must
// fill the first frames frames of dest and return the number of frames
// actually filled; any remainder is zero-padded by the resampler and
// reported as a shortfall. bufferedFrames is the number of input frames
// the resampler is already holding ahead of the output position, for
// rendering-delay bookkeeping.
type ResamplerReadFunc func(bufferedFrames int, dest *Bus, frames int) int

// MultiChannelResampler converts planar audio from one sample rate to
// another using Catmull-Rom cubic interpolation, pulling input through
// a callback as needed. The fractional input position is carried across
// calls as a running accumulator, so conversion drift stays bounded
// over arbitrarily long playback.
type MultiChannelResampler struct {
	channels int
	ratio    float64 // input frames per output frame

	// hist holds the interpolation window: rows are frames t-1, t0,
	// t+1, t+2; pos is the fractional position between t0 and t+1.
	hist   [4][]float32
	pos    float64
	primed bool

	read       ResamplerReadFunc
	pending    *Bus
	pendingPos int
	pendingLen int

	shortfall int // zero-padded input frames in the last Resample call
}

// NewMultiChannelResampler creates a resampler for the given channel
// count and rate pair. Panics if any argument is non-positive; a
// malformed configuration is a programmer error.
func NewMultiChannelResampler(channels, inputRate, outputRate int, read ResamplerReadFunc) *MultiChannelResampler {
	if channels <= 0 || inputRate <= 0 || outputRate <= 0 || read == nil {
		panic("mixer: invalid resampler configuration")
	}

	r := &MultiChannelResampler{
		channels: channels,
		ratio:    float64(inputRate) / float64(outputRate),
		read:     read,
	}
	for i := range r.hist {
		r.hist[i] = make([]float32, channels)
	}
	return r
}

// BufferedFrames returns the fractional number of input frames held by
// the resampler ahead of the current output position.
func (r *MultiChannelResampler) BufferedFrames() float64 {
	if !r.primed {
		return 0
	}
	// Two history rows (t+1, t+2) are ahead of the interpolation point.
	return float64(r.pendingLen-r.pendingPos) + 2.0 - r.pos
}

// LastShortfall returns the number of input frames that had to be
// zero-padded during the most recent Resample call. Non-zero means the
// input ran out mid-buffer.
func (r *MultiChannelResampler) LastShortfall() int { return r.shortfall }

// Resample produces exactly frames output frames into dest, pulling
// whatever input is required through the read callback. Input the
// callback could not supply is treated as silence.
func (r *MultiChannelResampler) Resample(dest *Bus, frames int) {
	if frames <= 0 {
		return
	}

	r.shortfall = 0

	// Exact number of history advances this call will perform, plus
	// three priming frames on the first call. Fetching precisely this
	// many keeps cumulative input consumption within one frame of the
	// ideal ratio over any number of calls.
	need := int(r.pos + r.ratio*float64(frames-1))
	if !r.primed {
		need += 3
	}
	r.fetch(need)

	if !r.primed {
		for row := 1; row < 4; row++ {
			r.copyPendingFrame(r.hist[row])
		}
		copy(r.hist[0], r.hist[1])
		r.primed = true
	}

	for i := 0; i < frames; i++ {
		for r.pos >= 1 {
			r.pos--
			r.advance()
		}
		alpha := float32(r.pos)
		for c := 0; c < r.channels; c++ {
			dest.Channel(c)[i] = utils.CubicInterpolate(
				r.hist[0][c], r.hist[1][c], r.hist[2][c], r.hist[3][c], alpha)
		}
		r.pos += r.ratio
	}
}

// fetch requests n more input frames through the callback, zero-padding
// and recording any shortfall.
func (r *MultiChannelResampler) fetch(n int) {
	if n <= 0 {
		return
	}
	if r.pending == nil || r.pending.Frames() < n {
		grow := n
		if grow < 256 {
			grow = 256
		}
		r.pending = NewBus(r.channels, grow)
	}

	filled := r.read(int(r.BufferedFrames()), r.pending, n)
	if filled < 0 {
		filled = 0
	}
	if filled < n {
		r.pending.ZeroRange(filled, n-filled)
		r.shortfall += n - filled
	}
	r.pendingPos = 0
	r.pendingLen = n
}

// advance shifts the history window forward by one input frame.
func (r *MultiChannelResampler) advance() {
	copy(r.hist[0], r.hist[1])
	copy(r.hist[1], r.hist[2])
	copy(r.hist[2], r.hist[3])
	r.copyPendingFrame(r.hist[3])
}

func (r *MultiChannelResampler) copyPendingFrame(dst []float32) {
	if r.pendingPos >= r.pendingLen {
		// The fetch size calculation guarantees enough frames; running
		// dry here means the stream ended, so extend with silence.
		for c := range dst {
			dst[c] = 0
		}
		r.shortfall++
		return
	}
	for c := 0; c < r.channels; c++ {
		dst[c] = r.pending.Channel(c)[r.pendingPos]
	}
	r.pendingPos++
}
