// SPDX-License-Identifier: EPL-2.0

package mixer

// Bus is a planar float32 audio buffer: one sample slice per channel.
// All channels have the same frame count. Samples are normalized to
// [-1.0, 1.0], with 0.0 meaning silence.
type Bus struct {
	data   [][]float32
	frames int
}

// NewBus allocates a Bus with the given channel count and frame capacity.
func NewBus(channels, frames int) *Bus {
	if channels <= 0 || frames < 0 {
		panic("mixer: invalid bus dimensions")
	}

	data := make([][]float32, channels)
	backing := make([]float32, channels*frames)
	for c := range data {
		data[c] = backing[c*frames : (c+1)*frames : (c+1)*frames]
	}

	return &Bus{data: data, frames: frames}
}

func (b *Bus) Channels() int { return len(b.data) }
func (b *Bus) Frames() int   { return b.frames }

// Channel returns the sample slice for channel ch.
func (b *Bus) Channel(ch int) []float32 { return b.data[ch] }

// Zero clears all samples in all channels.
func (b *Bus) Zero() {
	b.ZeroRange(0, b.frames)
}

// ZeroRange clears frames [from, from+frames) in all channels.
func (b *Bus) ZeroRange(from, frames int) {
	to := from + frames
	if to > b.frames {
		to = b.frames
	}
	for c := range b.data {
		ch := b.data[c]
		for i := from; i < to; i++ {
			ch[i] = 0
		}
	}
}
