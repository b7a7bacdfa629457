// SPDX-License-Identifier: EPL-2.0

package audiotest

import (
	"io"
	"math"
)

// MockReader is a test helper that generates interleaved audio data.
// It implements pcm.Reader (without importing it to avoid cycles).
type MockReader struct {
	sampleRate  int
	channels    int
	totalFrames int // frames to generate (per channel)
	generated   int // frames generated so far
	waveform    func(frame int, channel int) float32

	closed bool
}

// NewMockReader creates a new mock audio stream. totalFrames is the
// number of frames to generate; waveform produces sample values given
// frame index and channel.
func NewMockReader(sampleRate, channels, totalFrames int, waveform func(frame int, channel int) float32) *MockReader {
	return &MockReader{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
	}
}

// NewSilentReader creates a mock stream of silence (all zeros).
func NewSilentReader(sampleRate, channels, totalFrames int) *MockReader {
	return NewMockReader(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return 0.0
	})
}

// NewSineReader creates a mock stream carrying a sine wave.
func NewSineReader(sampleRate, channels, totalFrames int, frequency float64) *MockReader {
	return NewMockReader(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

// NewConstantReader creates a mock stream with a constant value.
func NewConstantReader(sampleRate, channels, totalFrames int, value float32) *MockReader {
	return NewMockReader(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return value
	})
}

func (m *MockReader) SampleRate() int { return m.sampleRate }
func (m *MockReader) Channels() int   { return m.channels }

// Closed reports whether Close has been called.
func (m *MockReader) Closed() bool { return m.closed }

func (m *MockReader) Close() error {
	m.closed = true
	return nil
}

// Reset rewinds the stream so it can be read again.
func (m *MockReader) Reset() {
	m.generated = 0
}

func (m *MockReader) ReadSamples(dst []float32) (int, error) {
	if m.generated >= m.totalFrames {
		return 0, io.EOF
	}

	framesRequested := len(dst) / m.channels
	framesAvailable := m.totalFrames - m.generated
	framesToWrite := framesRequested
	if framesToWrite > framesAvailable {
		framesToWrite = framesAvailable
	}

	for frame := 0; frame < framesToWrite; frame++ {
		frameIndex := m.generated + frame
		for ch := 0; ch < m.channels; ch++ {
			dst[frame*m.channels+ch] = m.waveform(frameIndex, ch)
		}
	}

	m.generated += framesToWrite
	samplesWritten := framesToWrite * m.channels

	if m.generated >= m.totalFrames {
		return samplesWritten, io.EOF
	}

	return samplesWritten, nil
}
