// SPDX-License-Identifier: EPL-2.0

package mixer

import "math"

// MixerInput converts one stream's audio, at its native format and
// rate, into the mixer's canonical format and rate, with volume
// applied, ready for summation into a shared output buffer. It pulls
// data from its Source, channel-mixing and resampling as needed.
//
// All methods must be called on the mixer goroutine. Per-cycle state
// (the volume ramp in particular) is only valid when FillAudioData is
// called at most once per mixing cycle.
type MixerInput struct {
	source        Source
	numChannels   int
	channelLayout ChannelLayout
	inputRate     int
	outputRate    int
	primary       bool
	deviceID      string
	contentType   ContentType

	filterGroup *FilterGroup
	outChannels int

	fillBuf   *Bus // staging at output rate / output channels
	chBuf     *Bus // source-format pull buffer, only when channel mixing
	chMixer   *ChannelMixer
	resampler *MultiChannelResampler

	streamVolume  float64
	typeVolume    float64
	muteVolume    float64
	slew          *SlewVolume
	volumeApplied bool

	previousEndedInSilence bool
	firstBuffer            bool

	mixerRenderingDelay     RenderingDelay
	resamplerBufferedFrames float64

	redirectors []AudioOutputRedirectorInput

	errored bool
}

// NewMixerInput creates the pipeline stage for source, feeding group.
// The source's reported configuration is fixed for the life of the
// input. A source reporting zero channels or a non-positive sample rate
// is a contract violation and panics.
func NewMixerInput(source Source, group *FilterGroup) *MixerInput {
	if source == nil || group == nil {
		panic("mixer: nil source or filter group")
	}
	if source.NumChannels() <= 0 || source.SampleRate() <= 0 {
		panic("mixer: source reported invalid audio configuration")
	}

	in := &MixerInput{
		source:        source,
		numChannels:   source.NumChannels(),
		channelLayout: source.ChannelLayout(),
		inputRate:     source.SampleRate(),
		outputRate:    group.SampleRate(),
		primary:       source.Primary(),
		deviceID:      source.DeviceID(),
		contentType:   source.ContentType(),
		filterGroup:   group,
		outChannels:   group.Channels(),
		streamVolume:  1.0,
		typeVolume:    1.0,
		muteVolume:    1.0,
		slew:          NewSlewVolume(),
		firstBuffer:   true,
	}
	in.slew.SetSampleRate(in.outputRate)

	if in.numChannels != in.outChannels {
		in.chMixer = NewChannelMixer(in.numChannels, in.outChannels)
	}
	if in.inputRate != in.outputRate {
		in.resampler = NewMultiChannelResampler(
			in.outChannels, in.inputRate, in.outputRate, in.resamplerRead)
	}

	return in
}

func (in *MixerInput) Source() Source               { return in.source }
func (in *MixerInput) NumChannels() int             { return in.numChannels }
func (in *MixerInput) ChannelLayout() ChannelLayout { return in.channelLayout }
func (in *MixerInput) InputSampleRate() int         { return in.inputRate }
func (in *MixerInput) OutputSampleRate() int        { return in.outputRate }
func (in *MixerInput) Primary() bool                { return in.primary }
func (in *MixerInput) DeviceID() string             { return in.deviceID }
func (in *MixerInput) ContentType() ContentType     { return in.contentType }
func (in *MixerInput) FilterGroup() *FilterGroup    { return in.filterGroup }

// SetFilterGroup moves the input to another destination group. The new
// group must share the current group's channel count and sample rate;
// format changes require tearing the input down.
func (in *MixerInput) SetFilterGroup(group *FilterGroup) {
	if group == nil {
		panic("mixer: nil filter group")
	}
	if group.Channels() != in.outChannels || group.SampleRate() != in.outputRate {
		panic("mixer: filter group format mismatch")
	}
	in.filterGroup = group
}

// AddAudioOutputRedirector attaches a diversion target. Attaching a
// redirector that is already present is a no-op. The list stays sorted
// by Order, stable by insertion for equal orders.
func (in *MixerInput) AddAudioOutputRedirector(r AudioOutputRedirectorInput) {
	if r == nil {
		return
	}
	for _, existing := range in.redirectors {
		if existing == r {
			return
		}
	}
	idx := len(in.redirectors)
	for i, existing := range in.redirectors {
		if existing.Order() > r.Order() {
			idx = i
			break
		}
	}
	in.redirectors = append(in.redirectors, nil)
	copy(in.redirectors[idx+1:], in.redirectors[idx:])
	in.redirectors[idx] = r
}

// RemoveAudioOutputRedirector detaches a redirector. Removing one that
// is not attached is a no-op.
func (in *MixerInput) RemoveAudioOutputRedirector(r AudioOutputRedirectorInput) {
	for i, existing := range in.redirectors {
		if existing == r {
			in.redirectors = append(in.redirectors[:i], in.redirectors[i+1:]...)
			return
		}
	}
}

// FillAudioData reads up to numFrames output-rate frames from the
// source and accumulates the volume-scaled result into dest. delay
// estimates when frame 0 of the output will audibly play.
//
// If any redirectors are attached, the audio goes exclusively to the
// lowest-ordered one and dest is left untouched. An inactive source
// produces numFrames of silence without being pulled. A return value
// below numFrames means the source ran out of data; callers treat the
// remainder as silence.
func (in *MixerInput) FillAudioData(numFrames int, delay RenderingDelay, dest *Bus) int {
	if numFrames <= 0 || in.errored {
		return 0
	}
	if dest == nil || dest.Channels() < in.outChannels || dest.Frames() < numFrames {
		panic("mixer: destination buffer too small")
	}

	in.volumeApplied = false
	in.mixerRenderingDelay = delay

	if !in.source.Active() {
		in.previousEndedInSilence = true
		return numFrames
	}

	filled := in.fillBuffer(numFrames)
	if filled <= 0 {
		in.previousEndedInSilence = true
		return 0
	}
	if filled < numFrames {
		in.previousEndedInSilence = true
	}

	if len(in.redirectors) > 0 {
		in.redirectors[0].Redirect(in, in.fillBuf, filled)
		return filled
	}

	for c := 0; c < in.outChannels; c++ {
		in.VolumeScaleAccumulate(in.fillBuf.Channel(c), filled, dest.Channel(c))
	}
	return filled
}

// fillBuffer stages numFrames output-rate frames in fillBuf and returns
// the number of frames actually produced from real source data.
func (in *MixerInput) fillBuffer(numFrames int) int {
	if in.fillBuf == nil || in.fillBuf.Frames() < numFrames {
		in.fillBuf = NewBus(in.outChannels, growFrames(numFrames))
	}

	if in.firstBuffer || in.previousEndedInSilence {
		// Resuming from silence: do not ramp across the gap.
		in.slew.Interrupted()
	}
	in.firstBuffer = false
	in.previousEndedInSilence = false

	if in.resampler == nil {
		return in.pullFrames(0, in.fillBuf, numFrames)
	}

	in.resampler.Resample(in.fillBuf, numFrames)
	in.resamplerBufferedFrames = in.resampler.BufferedFrames()

	if short := in.resampler.LastShortfall(); short > 0 {
		lost := int(math.Ceil(float64(short) * float64(in.outputRate) / float64(in.inputRate)))
		if lost >= numFrames {
			return 0
		}
		return numFrames - lost
	}
	return numFrames
}

// pullFrames reads frames input-rate frames from the source into dest,
// channel-mixing to the output layout when needed. bufferedFrames is
// how much input the resampler already holds, which delays playout of
// the frames being requested.
func (in *MixerInput) pullFrames(bufferedFrames float64, dest *Bus, frames int) int {
	delay := in.mixerRenderingDelay
	if delay.TimestampMicros != 0 {
		delay.DelayMicros += int64(bufferedFrames * 1e6 / float64(in.inputRate))
	}

	if in.chMixer == nil {
		return in.source.FillAudioPlaybackFrames(frames, delay, dest)
	}

	if in.chBuf == nil || in.chBuf.Frames() < frames {
		in.chBuf = NewBus(in.numChannels, growFrames(frames))
	}
	filled := in.source.FillAudioPlaybackFrames(frames, delay, in.chBuf)
	if filled > 0 {
		in.chMixer.Transform(in.chBuf, dest, filled)
	}
	return filled
}

// resamplerRead is the pull callback driven by the resampler.
func (in *MixerInput) resamplerRead(bufferedFrames int, dest *Bus, frames int) int {
	return in.pullFrames(float64(bufferedFrames), dest, frames)
}

// VolumeScaleAccumulate scales frames samples of src by the currently
// ramping volume multiplier and adds the result into dest. Must be
// called exactly once per channel per buffer; the ramp state advances
// on the first channel and is replayed for the rest.
func (in *MixerInput) VolumeScaleAccumulate(src []float32, frames int, dest []float32) {
	in.slew.ProcessFMAC(in.volumeApplied, src, frames, dest)
	in.volumeApplied = true
}

// SignalError propagates a mixer error to the source. After
// ErrorInternal the input stops pulling data; the owner is expected to
// remove it.
func (in *MixerInput) SignalError(err MixerError) {
	if in.errored {
		return
	}
	if err == ErrorInternal {
		in.errored = true
	}
	in.source.OnAudioPlaybackError(err)
}

// SetVolumeMultiplier sets the per-stream volume multiplier. Negative
// values clamp to zero. The change is ramped in over the default slew
// time starting with the next buffer.
func (in *MixerInput) SetVolumeMultiplier(multiplier float64) {
	if multiplier < 0 {
		multiplier = 0
	}
	in.streamVolume = multiplier
	in.slew.SetMaxSlewTimeMillis(DefaultSlewTimeMillis)
	in.slew.SetVolume(in.TargetVolume())
}

// SetContentTypeVolume sets the multiplier for this stream's content
// type. fadeMillis >= 0 fades over exactly that long; negative means
// the default fade duration.
func (in *MixerInput) SetContentTypeVolume(volume float64, fadeMillis int) {
	if volume < 0 {
		volume = 0
	}
	in.typeVolume = volume
	if fadeMillis < 0 {
		fadeMillis = DefaultFadeTimeMillis
	}
	in.slew.SetMaxSlewTimeMillis(fadeMillis)
	in.slew.SetVolume(in.TargetVolume())
}

// SetMuted mutes or unmutes the stream, ramping like any other volume
// change so there is no audible pop.
func (in *MixerInput) SetMuted(muted bool) {
	if muted {
		in.muteVolume = 0
	} else {
		in.muteVolume = 1
	}
	in.slew.SetMaxSlewTimeMillis(DefaultSlewTimeMillis)
	in.slew.SetVolume(in.TargetVolume())
}

// TargetVolume returns the steady-state volume: the product of the
// stream, content-type and mute multipliers, ignoring in-flight fades.
func (in *MixerInput) TargetVolume() float64 {
	return in.streamVolume * in.typeVolume * in.muteVolume
}

// InstantaneousVolume returns the largest multiplier actually applied
// to the most recently processed buffer. Differs from TargetVolume only
// during an active fade.
func (in *MixerInput) InstantaneousVolume() float64 {
	return in.slew.LastBufferMax()
}

// RenderingDelay returns the most recent delay estimate passed in by
// the mixer, plus input buffered inside the resampler.
func (in *MixerInput) RenderingDelay() RenderingDelay {
	delay := in.mixerRenderingDelay
	if in.resampler != nil && delay.TimestampMicros != 0 {
		delay.DelayMicros += int64(in.resamplerBufferedFrames * 1e6 / float64(in.inputRate))
	}
	return delay
}

func growFrames(n int) int {
	// Round allocations up so steady-state fills never reallocate.
	const minAlloc = 256
	if n < minAlloc {
		return minAlloc
	}
	return n
}
