package mixer

import "math"

// mockSource is a configurable Source for pipeline tests. It serves
// samples from a waveform function and records lifecycle calls.
type mockSource struct {
	sampleRate  int
	channels    int
	totalFrames int
	served      int
	waveform    func(frame, channel int) float32

	active      bool
	primary     bool
	deviceID    string
	contentType ContentType
	readSize    int

	initCalls     int
	initReadSize  int
	initDelay     RenderingDelay
	fillCalls     int
	lastFillDelay RenderingDelay
	errors        []MixerError
	underruns     int
	finalized     int
}

func newMockSource(sampleRate, channels, totalFrames int, waveform func(frame, channel int) float32) *mockSource {
	return &mockSource{
		sampleRate:  sampleRate,
		channels:    channels,
		totalFrames: totalFrames,
		waveform:    waveform,
		active:      true,
		primary:     true,
		deviceID:    "test-device",
		contentType: ContentTypeMedia,
	}
}

func newConstantMockSource(sampleRate, channels, totalFrames int, value float32) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		return value
	})
}

func newSineMockSource(sampleRate, channels, totalFrames int, frequency float64) *mockSource {
	return newMockSource(sampleRate, channels, totalFrames, func(frame, channel int) float32 {
		t := float64(frame) / float64(sampleRate)
		return float32(math.Sin(2 * math.Pi * frequency * t))
	})
}

func (m *mockSource) NumChannels() int             { return m.channels }
func (m *mockSource) ChannelLayout() ChannelLayout { return GuessChannelLayout(m.channels) }
func (m *mockSource) SampleRate() int              { return m.sampleRate }
func (m *mockSource) Primary() bool                { return m.primary }
func (m *mockSource) DeviceID() string             { return m.deviceID }
func (m *mockSource) ContentType() ContentType     { return m.contentType }
func (m *mockSource) DesiredReadSize() int         { return m.readSize }
func (m *mockSource) Active() bool                 { return m.active }

func (m *mockSource) InitializeAudioPlayback(readSize int, initialDelay RenderingDelay) {
	m.initCalls++
	m.initReadSize = readSize
	m.initDelay = initialDelay
}

func (m *mockSource) FillAudioPlaybackFrames(numFrames int, delay RenderingDelay, buf *Bus) int {
	m.fillCalls++
	m.lastFillDelay = delay

	available := m.totalFrames - m.served
	if available <= 0 {
		return 0
	}
	frames := numFrames
	if frames > available {
		frames = available
	}
	for c := 0; c < m.channels; c++ {
		ch := buf.Channel(c)
		for i := 0; i < frames; i++ {
			ch[i] = m.waveform(m.served+i, c)
		}
	}
	m.served += frames
	return frames
}

func (m *mockSource) OnAudioPlaybackError(err MixerError) { m.errors = append(m.errors, err) }
func (m *mockSource) OnOutputUnderrun()                   { m.underruns++ }
func (m *mockSource) FinalizeAudioPlayback()              { m.finalized++ }

// captureRedirector records redirected audio for inspection.
type captureRedirector struct {
	order    int
	calls    int
	frames   int
	lastData []float32 // channel 0 of the most recent buffer
}

func (r *captureRedirector) Order() int { return r.order }

func (r *captureRedirector) Redirect(input *MixerInput, data *Bus, frames int) {
	r.calls++
	r.frames += frames
	r.lastData = append(r.lastData[:0], data.Channel(0)[:frames]...)
}
