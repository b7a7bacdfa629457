// SPDX-License-Identifier: EPL-2.0

package mixline

import (
	"github.com/mixline/mixline/formats/aiff"
	"github.com/mixline/mixline/formats/mp3"
	"github.com/mixline/mixline/formats/vorbis"
	"github.com/mixline/mixline/formats/wav"
	"github.com/mixline/mixline/pcm"
)

// DefaultRegistry returns a registry with all built-in decoders
// registered under the keys "wav", "aiff", "mp3" and "vorbis".
func DefaultRegistry() *pcm.Registry {
	reg := pcm.NewRegistry()
	reg.Register("wav", wav.Decoder{})
	reg.Register("aiff", aiff.Decoder{})
	reg.Register("mp3", mp3.Decoder{})
	reg.Register("vorbis", vorbis.Decoder{})
	return reg
}
