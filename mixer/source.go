// SPDX-License-Identifier: EPL-2.0

package mixer

// RenderingDelay estimates when the first frame of a buffer will be
// audibly played. DelayMicros is the delay relative to TimestampMicros,
// which is a monotonic playback-clock timestamp.
type RenderingDelay struct {
	DelayMicros     int64
	TimestampMicros int64
}

// MixerError is reported to a Source when the mixer can no longer
// process its audio normally.
type MixerError int

const (
	// ErrorInputIgnored means the input is temporarily excluded from
	// mixing (for example during a mixer-wide sample rate change). The
	// input may resume on a later cycle.
	ErrorInputIgnored MixerError = iota
	// ErrorInternal means an internal mixer error occurred. The input
	// is no longer usable and will be removed.
	ErrorInternal
)

func (e MixerError) String() string {
	switch e {
	case ErrorInputIgnored:
		return "input ignored"
	case ErrorInternal:
		return "internal error"
	default:
		return "unknown"
	}
}

// ContentType classifies a stream for volume-policy purposes.
type ContentType int

const (
	ContentTypeMedia ContentType = iota
	ContentTypeAlarm
	ContentTypeCommunication
	ContentTypeOther
)

func (t ContentType) String() string {
	switch t {
	case ContentTypeMedia:
		return "media"
	case ContentTypeAlarm:
		return "alarm"
	case ContentTypeCommunication:
		return "communication"
	default:
		return "other"
	}
}

// ChannelLayout describes the speaker arrangement of a stream.
type ChannelLayout int

const (
	LayoutNone ChannelLayout = iota
	LayoutMono
	LayoutStereo
	LayoutQuad
	LayoutSurround51
	// LayoutDiscrete is used for channel counts with no standard layout.
	LayoutDiscrete
)

// GuessChannelLayout maps a channel count to its conventional layout.
func GuessChannelLayout(channels int) ChannelLayout {
	switch channels {
	case 1:
		return LayoutMono
	case 2:
		return LayoutStereo
	case 4:
		return LayoutQuad
	case 6:
		return LayoutSurround51
	default:
		if channels > 0 {
			return LayoutDiscrete
		}
		return LayoutNone
	}
}

// Source produces PCM audio for one mixer input. All methods are called
// on the mixer goroutine and must return promptly to avoid underruns.
// The source must remain valid until FinalizeAudioPlayback is called.
type Source interface {
	NumChannels() int
	ChannelLayout() ChannelLayout
	SampleRate() int
	// Primary streams affect mixing priority.
	Primary() bool
	DeviceID() string
	ContentType() ContentType
	// DesiredReadSize is the preferred number of input-rate frames per
	// pull. Zero means the mixer picks a size.
	DesiredReadSize() int
	// Active reports whether the source is currently providing audio to
	// be mixed. Inactive sources produce silence without being pulled.
	Active() bool

	// InitializeAudioPlayback is called once when the input is added to
	// the mixer, before any other playback calls. readSize is the frame
	// count that will be requested per FillAudioPlaybackFrames call.
	InitializeAudioPlayback(readSize int, initialDelay RenderingDelay)

	// FillAudioPlaybackFrames fills buf with up to numFrames frames and
	// returns the number of frames filled. delay indicates when the
	// first filled frame will be played out. Must not block.
	FillAudioPlaybackFrames(numFrames int, delay RenderingDelay, buf *Bus) int

	// OnAudioPlaybackError is called when a mixer error occurs. After
	// ErrorInternal no more data is pulled from the source.
	OnAudioPlaybackError(err MixerError)

	// OnOutputUnderrun is called when the mixer output underruns.
	OnOutputUnderrun()

	// FinalizeAudioPlayback is the terminal notification, delivered
	// exactly once when the input has been removed from the mixer. The
	// source may release its resources at this point.
	FinalizeAudioPlayback()
}
