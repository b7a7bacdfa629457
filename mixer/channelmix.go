// SPDX-License-Identifier: EPL-2.0

package mixer

// ChannelMixer remaps planar audio from one channel count to another.
// Stateless per call; a MixerInput builds one only when its source
// layout differs from the mixer output layout.
//
// Downmixes average the contributing channels (so full-scale input
// cannot clip), mono upmixes duplicate the single channel, and other
// upmixes leave the extra output channels silent.
type ChannelMixer struct {
	in  int
	out int

	// Contributor counts per output channel for the general downmix
	// path, precomputed so Transform never allocates.
	foldCounts []int
}

func NewChannelMixer(inChannels, outChannels int) *ChannelMixer {
	if inChannels <= 0 || outChannels <= 0 {
		panic("mixer: invalid channel mixer configuration")
	}
	m := &ChannelMixer{in: inChannels, out: outChannels}
	if inChannels > outChannels && outChannels > 1 {
		m.foldCounts = make([]int, outChannels)
		for c := 0; c < inChannels; c++ {
			m.foldCounts[c%outChannels]++
		}
	}
	return m
}

func (m *ChannelMixer) InputChannels() int  { return m.in }
func (m *ChannelMixer) OutputChannels() int { return m.out }

// Transform remaps frames frames from src into dst. src must have at
// least m.in channels and dst at least m.out.
func (m *ChannelMixer) Transform(src, dst *Bus, frames int) {
	switch {
	case m.in == m.out:
		for c := 0; c < m.out; c++ {
			copy(dst.Channel(c)[:frames], src.Channel(c)[:frames])
		}

	case m.in == 1:
		mono := src.Channel(0)[:frames]
		for c := 0; c < m.out; c++ {
			copy(dst.Channel(c)[:frames], mono)
		}

	case m.out == 1:
		m.downmixToMono(src, dst.Channel(0), frames)

	case m.in < m.out:
		for c := 0; c < m.in; c++ {
			copy(dst.Channel(c)[:frames], src.Channel(c)[:frames])
		}
		for c := m.in; c < m.out; c++ {
			ch := dst.Channel(c)
			for i := 0; i < frames; i++ {
				ch[i] = 0
			}
		}

	default:
		// General downmix: fold input channels round-robin onto the
		// outputs, averaging each output's contributors.
		for c := 0; c < m.out; c++ {
			ch := dst.Channel(c)
			for i := 0; i < frames; i++ {
				ch[i] = 0
			}
		}
		for c := 0; c < m.in; c++ {
			in := src.Channel(c)
			out := dst.Channel(c % m.out)
			for i := 0; i < frames; i++ {
				out[i] += in[i]
			}
		}
		for c := 0; c < m.out; c++ {
			if m.foldCounts[c] <= 1 {
				continue
			}
			scale := float32(1.0) / float32(m.foldCounts[c])
			ch := dst.Channel(c)
			for i := 0; i < frames; i++ {
				ch[i] *= scale
			}
		}
	}
}

func (m *ChannelMixer) downmixToMono(src *Bus, dst []float32, frames int) {
	switch m.in {
	case 2:
		left, right := src.Channel(0), src.Channel(1)
		for i := 0; i < frames; i++ {
			dst[i] = (left[i] + right[i]) * 0.5
		}
	case 4:
		c0, c1, c2, c3 := src.Channel(0), src.Channel(1), src.Channel(2), src.Channel(3)
		for i := 0; i < frames; i++ {
			dst[i] = (c0[i] + c1[i] + c2[i] + c3[i]) * 0.25
		}
	default:
		inv := float32(1.0) / float32(m.in)
		for i := 0; i < frames; i++ {
			sum := float32(0)
			for c := 0; c < m.in; c++ {
				sum += src.Channel(c)[i]
			}
			dst[i] = sum * inv
		}
	}
}
