// SPDX-License-Identifier: EPL-2.0

package mixline

import (
	"errors"
	"fmt"

	"github.com/mixline/mixline/mixer"
	"github.com/mixline/mixline/pcm"
	"github.com/mixline/mixline/utils"
)

// ErrNoInputs is returned when MixToPCM16 is called without any
// streams to mix.
var ErrNoInputs = errors.New("no input streams")

// MixToPCM16 is a high-level convenience function that mixes the given
// streams into interleaved 16-bit PCM at outRate Hz and outChannels
// channels. Each input is channel-mixed and resampled to the output
// format as needed; a non-positive outRate or outChannels falls back
// to 48kHz stereo.
//
// The mix runs until every input is exhausted; inputs that end early
// contribute silence for the remainder. The readers are not closed.
//
// For streaming output or per-stream control (volume, muting,
// redirection), use the mixer package directly.
func MixToPCM16(readers []pcm.Reader, outRate, outChannels int) ([]int16, error) {
	if len(readers) == 0 {
		return nil, ErrNoInputs
	}

	m := mixer.NewMixer(mixer.Config{
		OutputSampleRate: outRate,
		OutputChannels:   outChannels,
	})
	cfg := m.Config()

	sources := make([]*mixer.ReaderSource, len(readers))
	for i, r := range readers {
		sources[i] = mixer.NewReaderSource(r)
		m.AddSource(sources[i])
	}

	bus := mixer.NewBus(cfg.OutputChannels, cfg.ReadSize)
	planes := make([][]float32, cfg.OutputChannels)
	for c := range planes {
		planes[c] = bus.Channel(c)
	}
	interleaved := make([]float32, cfg.ReadSize*cfg.OutputChannels)

	// Assume ~2 seconds initially and grow as needed.
	pcm16 := make([]int16, 0, cfg.OutputSampleRate*cfg.OutputChannels*2)

	for anyActive(sources) {
		frames := m.MixTo(bus, cfg.ReadSize)
		if frames <= 0 {
			continue
		}

		n := utils.Interleave(planes, frames, interleaved)

		// Batch convert float32 to int16 with clamping.
		start := len(pcm16)
		if cap(pcm16)-start < n {
			grown := make([]int16, start, start+max(n, cap(pcm16)))
			copy(grown, pcm16)
			pcm16 = grown
		}
		pcm16 = pcm16[:start+n]
		for i := 0; i < n; i++ {
			pcm16[start+i] = utils.Float32ToInt16(interleaved[i])
		}
	}

	for i, src := range sources {
		if err := src.Err(); err != nil {
			return nil, fmt.Errorf("mix input %d: %w", i, err)
		}
	}
	return pcm16, nil
}

func anyActive(sources []*mixer.ReaderSource) bool {
	for _, src := range sources {
		if !src.Done() {
			return true
		}
	}
	return false
}
