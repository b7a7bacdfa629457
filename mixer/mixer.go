// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"go.uber.org/zap"
)

// Config fixes the mixer's canonical output format. The zero value of
// any field falls back to the listed default.
type Config struct {
	OutputSampleRate int // default 48000
	OutputChannels   int // default 2
	ReadSize         int // frames per mix cycle, default 512
}

const (
	defaultOutputSampleRate = 48000
	defaultOutputChannels   = 2
	defaultReadSize         = 512
)

func (c Config) withDefaults() Config {
	if c.OutputSampleRate <= 0 {
		c.OutputSampleRate = defaultOutputSampleRate
	}
	if c.OutputChannels <= 0 {
		c.OutputChannels = defaultOutputChannels
	}
	if c.ReadSize <= 0 {
		c.ReadSize = defaultReadSize
	}
	return c
}

// Option configures a Mixer.
type Option func(*Mixer)

// WithLogger sets the logger used for input lifecycle and error events.
// The per-buffer mix path never logs.
func WithLogger(log *zap.Logger) Option {
	return func(m *Mixer) {
		if log != nil {
			m.log = log
		}
	}
}

// Mixer is the downstream engine that sums the audio of all attached
// inputs into a single output stream at a fixed format. Not safe for
// concurrent use; all calls belong on one mixing goroutine.
type Mixer struct {
	cfg    Config
	group  *FilterGroup
	inputs []*MixerInput
	log    *zap.Logger

	delay       RenderingDelay
	framesMixed int64
}

func NewMixer(cfg Config, opts ...Option) *Mixer {
	cfg = cfg.withDefaults()
	m := &Mixer{
		cfg:   cfg,
		group: NewFilterGroup("default", cfg.OutputChannels, cfg.OutputSampleRate),
		log:   zap.NewNop(),
		// Timestamps start at 1 so delay adjustments are distinguishable
		// from the "no estimate yet" zero value.
		delay: RenderingDelay{TimestampMicros: 1},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Mixer) Config() Config           { return m.cfg }
func (m *Mixer) FilterGroup() *FilterGroup { return m.group }
func (m *Mixer) NumInputs() int           { return len(m.inputs) }

// AddSource attaches a source to the mixer, creating its MixerInput and
// delivering the one-time InitializeAudioPlayback notification.
func (m *Mixer) AddSource(src Source) *MixerInput {
	in := NewMixerInput(src, m.group)

	readSize := src.DesiredReadSize()
	if readSize <= 0 {
		// Scale the cycle size to the source's native rate.
		readSize = m.cfg.ReadSize * in.InputSampleRate() / m.cfg.OutputSampleRate
		if readSize <= 0 {
			readSize = m.cfg.ReadSize
		}
	}
	src.InitializeAudioPlayback(readSize, m.delay)

	m.inputs = append(m.inputs, in)
	m.log.Info("mixer input added",
		zap.String("device", in.DeviceID()),
		zap.String("content", in.ContentType().String()),
		zap.Int("channels", in.NumChannels()),
		zap.Int("sample_rate", in.InputSampleRate()),
		zap.Bool("primary", in.Primary()))
	return in
}

// RemoveInput detaches an input and delivers the terminal
// FinalizeAudioPlayback notification to its source. No further calls
// are made to the source afterwards. Removing an input that is not
// attached is a no-op.
func (m *Mixer) RemoveInput(in *MixerInput) {
	for i, existing := range m.inputs {
		if existing != in {
			continue
		}
		m.inputs = append(m.inputs[:i], m.inputs[i+1:]...)
		in.source.FinalizeAudioPlayback()
		m.log.Info("mixer input removed", zap.String("device", in.DeviceID()))
		return
	}
}

// SignalError propagates err to every attached input. ErrorInternal
// additionally removes the inputs, finalizing their sources.
func (m *Mixer) SignalError(err MixerError) {
	m.log.Warn("mixer error", zap.String("error", err.String()))
	if err != ErrorInternal {
		for _, in := range m.inputs {
			in.SignalError(err)
		}
		return
	}
	inputs := m.inputs
	m.inputs = nil
	for _, in := range inputs {
		in.SignalError(err)
		in.source.FinalizeAudioPlayback()
	}
}

// NotifyUnderrun reports an output-device underrun to all sources.
func (m *Mixer) NotifyUnderrun() {
	m.log.Warn("output underrun", zap.Int("inputs", len(m.inputs)))
	for _, in := range m.inputs {
		in.source.OnOutputUnderrun()
	}
}

// MixTo zeroes the first frames frames of dest and accumulates every
// input's audio into it, calling FillAudioData exactly once per input.
// Returns the largest fill count across inputs; inactive or exhausted
// inputs simply contribute silence.
func (m *Mixer) MixTo(dest *Bus, frames int) int {
	if frames <= 0 {
		return 0
	}
	if dest == nil || dest.Channels() < m.cfg.OutputChannels || dest.Frames() < frames {
		panic("mixer: destination buffer too small")
	}

	dest.ZeroRange(0, frames)

	maxFilled := 0
	for _, in := range m.inputs {
		if filled := in.FillAudioData(frames, m.delay, dest); filled > maxFilled {
			maxFilled = filled
		}
	}

	m.framesMixed += int64(frames)
	m.delay.TimestampMicros += int64(frames) * 1e6 / int64(m.cfg.OutputSampleRate)
	m.delay.DelayMicros = int64(frames) * 1e6 / int64(m.cfg.OutputSampleRate)
	return maxFilled
}

// FramesMixed returns the total output frames produced so far.
func (m *Mixer) FramesMixed() int64 { return m.framesMixed }
