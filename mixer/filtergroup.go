// SPDX-License-Identifier: EPL-2.0

package mixer

// FilterGroup is the destination a MixerInput feeds. It fixes the
// output channel count and sample rate that inputs convert to. Per-group
// effect processing happens downstream and is not modeled here.
type FilterGroup struct {
	name       string
	channels   int
	sampleRate int
	layout     ChannelLayout
}

func NewFilterGroup(name string, channels, sampleRate int) *FilterGroup {
	if channels <= 0 || sampleRate <= 0 {
		panic("mixer: invalid filter group configuration")
	}
	return &FilterGroup{
		name:       name,
		channels:   channels,
		sampleRate: sampleRate,
		layout:     GuessChannelLayout(channels),
	}
}

func (g *FilterGroup) Name() string                 { return g.name }
func (g *FilterGroup) Channels() int                { return g.channels }
func (g *FilterGroup) SampleRate() int              { return g.sampleRate }
func (g *FilterGroup) ChannelLayout() ChannelLayout { return g.layout }
