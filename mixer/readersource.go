// SPDX-License-Identifier: EPL-2.0

package mixer

import (
	"io"

	"github.com/mixline/mixline/pcm"
	"github.com/mixline/mixline/utils"
)

const defaultReaderReadSize = 1024

// ReaderSource adapts a pcm.Reader stream to the Source pull contract.
// It deinterleaves on the fly, keeps pulling through short reads, and
// goes inactive once the stream ends. Like every Source, it belongs to
// a single mixer goroutine.
type ReaderSource struct {
	reader      pcm.Reader
	deviceID    string
	contentType ContentType
	primary     bool
	readSize    int

	tmp       []float32
	planes    [][]float32
	done      bool
	finalized bool
	err       error
	underruns int
}

// ReaderOption configures a ReaderSource.
type ReaderOption func(*ReaderSource)

func WithDeviceID(id string) ReaderOption {
	return func(s *ReaderSource) { s.deviceID = id }
}

func WithContentType(t ContentType) ReaderOption {
	return func(s *ReaderSource) { s.contentType = t }
}

func WithPrimary(primary bool) ReaderOption {
	return func(s *ReaderSource) { s.primary = primary }
}

func WithReadSize(frames int) ReaderOption {
	return func(s *ReaderSource) {
		if frames > 0 {
			s.readSize = frames
		}
	}
}

func NewReaderSource(r pcm.Reader, opts ...ReaderOption) *ReaderSource {
	s := &ReaderSource{
		reader:      r,
		deviceID:    "default",
		contentType: ContentTypeMedia,
		primary:     true,
		readSize:    defaultReaderReadSize,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *ReaderSource) NumChannels() int             { return s.reader.Channels() }
func (s *ReaderSource) ChannelLayout() ChannelLayout { return GuessChannelLayout(s.reader.Channels()) }
func (s *ReaderSource) SampleRate() int              { return s.reader.SampleRate() }
func (s *ReaderSource) Primary() bool                { return s.primary }
func (s *ReaderSource) DeviceID() string             { return s.deviceID }
func (s *ReaderSource) ContentType() ContentType     { return s.contentType }
func (s *ReaderSource) DesiredReadSize() int         { return s.readSize }
func (s *ReaderSource) Active() bool                 { return !s.done }

// Done reports whether the stream has ended (or errored) and the
// source will never produce audio again.
func (s *ReaderSource) Done() bool { return s.done }

// Err returns the stream error that ended playback, if any. io.EOF is
// a normal end and reported as nil.
func (s *ReaderSource) Err() error { return s.err }

// Underruns returns how many output underruns the mixer reported.
func (s *ReaderSource) Underruns() int { return s.underruns }

func (s *ReaderSource) InitializeAudioPlayback(readSize int, initialDelay RenderingDelay) {
	if readSize > 0 {
		s.readSize = readSize
	}
}

func (s *ReaderSource) FillAudioPlaybackFrames(numFrames int, delay RenderingDelay, buf *Bus) int {
	if s.done || numFrames <= 0 {
		return 0
	}

	channels := s.reader.Channels()
	want := numFrames * channels
	if cap(s.tmp) < want {
		s.tmp = make([]float32, want)
	}
	s.tmp = s.tmp[:want]

	// Readers may return short counts; keep pulling until the request
	// is filled or the stream ends.
	got := 0
	for got < want {
		n, err := s.reader.ReadSamples(s.tmp[got:])
		got += n
		if err != nil {
			s.done = true
			if err != io.EOF {
				s.err = err
			}
			break
		}
		if n == 0 {
			break
		}
	}

	frames := got / channels
	if cap(s.planes) < channels {
		s.planes = make([][]float32, channels)
	}
	s.planes = s.planes[:channels]
	for c := 0; c < channels; c++ {
		s.planes[c] = buf.Channel(c)
	}
	return utils.Deinterleave(s.tmp[:frames*channels], s.planes, frames)
}

func (s *ReaderSource) OnAudioPlaybackError(err MixerError) {
	if err == ErrorInternal {
		s.done = true
	}
}

func (s *ReaderSource) OnOutputUnderrun() {
	s.underruns++
}

func (s *ReaderSource) FinalizeAudioPlayback() {
	if s.finalized {
		return
	}
	s.finalized = true
	s.done = true
	if err := s.reader.Close(); err != nil && s.err == nil {
		s.err = err
	}
}
