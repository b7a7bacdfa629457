// SPDX-License-Identifier: EPL-2.0

package mixer

// AudioOutputRedirectorInput receives audio diverted away from normal
// mixing. While at least one redirector is attached to a MixerInput,
// the lowest-ordered one is handed every buffer that would otherwise
// have been mixed for local output; nothing reaches the mixer. This is
// a full interception, not a tee.
type AudioOutputRedirectorInput interface {
	// Order is the redirector's priority; lower values win when several
	// redirectors are attached. Ties keep insertion order.
	Order() int

	// Redirect consumes frames frames of data from input. The buffer is
	// only valid for the duration of the call.
	Redirect(input *MixerInput, data *Bus, frames int)
}
