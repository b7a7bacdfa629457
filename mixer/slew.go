// SPDX-License-Identifier: EPL-2.0

package mixer

const (
	// DefaultSlewTimeMillis is the time a full-scale (0.0 -> 1.0) volume
	// change takes with regular volume updates.
	DefaultSlewTimeMillis = 15

	// DefaultFadeTimeMillis is the fade used for content-type volume
	// changes when the caller does not specify one.
	DefaultFadeTimeMillis = 250
)

// SlewVolume smooths a target volume multiplier toward the multiplier
// actually applied, limiting the per-sample rate of change so volume
// updates never produce audible clicks. The ramp is monotonic toward
// the target and converges exactly; once the target is reached the rest
// of the buffer is scaled by the flat target value.
type SlewVolume struct {
	sampleRate    int
	slewTimeMs    int
	target        float64
	current       float64
	step          float64 // max per-sample change
	startVolume   float64 // volume at the start of the current buffer
	lastBufferMax float64
}

func NewSlewVolume() *SlewVolume {
	return &SlewVolume{
		slewTimeMs:    DefaultSlewTimeMillis,
		target:        1.0,
		current:       1.0,
		startVolume:   1.0,
		lastBufferMax: 1.0,
	}
}

func (s *SlewVolume) SetSampleRate(rate int) {
	s.sampleRate = rate
	s.recomputeStep()
}

// SetMaxSlewTimeMillis sets how long a full-scale change takes.
func (s *SlewVolume) SetMaxSlewTimeMillis(ms int) {
	if ms < 0 {
		ms = 0
	}
	s.slewTimeMs = ms
	s.recomputeStep()
}

// SetVolume updates the ramp target. The actual applied multiplier
// moves toward it on subsequent ProcessFMAC calls.
func (s *SlewVolume) SetVolume(target float64) {
	s.target = target
	if s.sampleRate == 0 || s.slewTimeMs == 0 {
		// No ramp possible without a timebase.
		s.current = target
	}
}

// Interrupted snaps the applied volume to the target. Called when the
// stream resumes after silence, so the ramp does not smear a stale
// level across the gap.
func (s *SlewVolume) Interrupted() {
	s.current = s.target
	s.startVolume = s.target
}

// LastBufferMax returns the largest multiplier applied to the most
// recently processed buffer.
func (s *SlewVolume) LastBufferMax() float64 { return s.lastBufferMax }

// Target returns the current ramp target.
func (s *SlewVolume) Target() float64 { return s.target }

func (s *SlewVolume) recomputeStep() {
	if s.sampleRate == 0 || s.slewTimeMs == 0 {
		s.step = 0
		return
	}
	s.step = 1000.0 / (float64(s.slewTimeMs) * float64(s.sampleRate))
}

// ProcessFMAC scales frames samples of src by the ramping volume and
// adds the result into dest. With repeatTransition set, the ramp is
// replayed from the start of the current buffer instead of advancing,
// so every channel of one buffer gets the identical volume curve.
func (s *SlewVolume) ProcessFMAC(repeatTransition bool, src []float32, frames int, dest []float32) {
	if frames <= 0 {
		return
	}
	if repeatTransition {
		s.current = s.startVolume
	} else {
		s.startVolume = s.current
	}

	cur := s.current
	maxApplied := 0.0
	i := 0

	if cur != s.target {
		if s.step <= 0 {
			cur = s.target
		}
		for ; i < frames && cur != s.target; i++ {
			if cur < s.target {
				cur += s.step
				if cur > s.target {
					cur = s.target
				}
			} else {
				cur -= s.step
				if cur < s.target {
					cur = s.target
				}
			}
			dest[i] += src[i] * float32(cur)
			if cur > maxApplied {
				maxApplied = cur
			}
		}
	}

	// Flat remainder at the target value.
	if i < frames {
		switch s.target {
		case 1.0:
			for ; i < frames; i++ {
				dest[i] += src[i]
			}
		case 0.0:
			// Nothing to accumulate.
			i = frames
		default:
			t := float32(s.target)
			for ; i < frames; i++ {
				dest[i] += src[i] * t
			}
		}
		if s.target > maxApplied {
			maxApplied = s.target
		}
	}

	s.current = cur
	s.lastBufferMax = maxApplied
}
