// SPDX-License-Identifier: EPL-2.0

package hostverify

import (
	"sync"
	"time"

	"go.uber.org/zap"
)

// Pref keys for the persisted retry schedule.
const (
	RetryTimestampPref = "hostverify.retry_timestamp_ms"
	LastUsedDeltaPref  = "hostverify.last_used_delta_ms"
)

// Default backoff parameters.
const (
	DefaultFirstRetryDelay   = 10 * time.Minute
	DefaultBackoffMultiplier = 1.5
)

// HostState describes what is known about the playback host.
type HostState int

const (
	// HostNotSet means no device is marked as the host.
	HostNotSet HostState = iota

	// HostSetFeaturesDisabled means a host is set but it has not
	// enabled its feature set yet.
	HostSetFeaturesDisabled

	// HostSetFeaturesEnabled means the host has enabled at least one
	// feature, which counts as verification.
	HostSetFeaturesEnabled
)

// Client notifies the remote host that it should enable its features.
// Call failures do not change retry scheduling.
type Client interface {
	NotifyHost() error
}

// Observer is invoked once per unverified-to-verified transition.
type Observer func()

// Option configures a Verifier.
type Option func(*Verifier)

func WithLogger(logger *zap.Logger) Option {
	return func(v *Verifier) {
		if logger != nil {
			v.logger = logger
		}
	}
}

func WithFirstRetryDelay(d time.Duration) Option {
	return func(v *Verifier) {
		if d > 0 {
			v.firstDelay = d
		}
	}
}

func WithBackoffMultiplier(m float64) Option {
	return func(v *Verifier) {
		if m > 1 {
			v.multiplier = m
		}
	}
}

// Verifier tracks whether the playback host has been verified and
// drives notification retries with exponential backoff. The retry
// schedule is persisted as an absolute wall-clock deadline plus the
// last-used delta, so an arbitrary process restart resumes correctly,
// including catching up multiple missed intervals in one step.
type Verifier struct {
	client Client
	prefs  PrefStore
	clock  Clock
	timer  Timer
	logger *zap.Logger

	firstDelay time.Duration
	multiplier float64

	mtx       sync.Mutex
	hostState HostState
	verified  bool
	observers []Observer
}

// New creates a Verifier with the given initial host state. If a retry
// deadline persisted by a previous process is still in the future the
// timer resumes; if it has already passed, verification is attempted
// immediately and all missed intervals are caught up.
func New(initial HostState, client Client, prefs PrefStore, clock Clock, timer Timer, opts ...Option) *Verifier {
	v := &Verifier{
		client:     client,
		prefs:      prefs,
		clock:      clock,
		timer:      timer,
		logger:     zap.NewNop(),
		firstDelay: DefaultFirstRetryDelay,
		multiplier: DefaultBackoffMultiplier,
		hostState:  initial,
	}
	for _, opt := range opts {
		opt(v)
	}

	switch initial {
	case HostSetFeaturesEnabled:
		// Verified from the start; no observer event.
		v.verified = true
		v.clearSchedule()
	case HostNotSet:
		v.clearSchedule()
	case HostSetFeaturesDisabled:
		ts := v.prefs.GetInt64(RetryTimestampPref)
		now := v.clock.Now().UnixMilli()
		switch {
		case ts == 0:
			v.attemptAndScheduleFirst()
		case now < ts:
			v.timer.Start(time.Duration(ts-now)*time.Millisecond, v.onRetryTimeout)
		default:
			v.attemptWithBackoff()
		}
	}
	return v
}

// AddObserver registers a callback fired once per verification.
func (v *Verifier) AddObserver(obs Observer) {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	v.observers = append(v.observers, obs)
}

// IsHostVerified reports whether the host has been verified.
func (v *Verifier) IsHostVerified() bool {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	return v.verified
}

// SetHostState feeds a host state change into the machine. Repeating
// the current state is a no-op.
func (v *Verifier) SetHostState(state HostState) {
	v.mtx.Lock()
	if state == v.hostState {
		v.mtx.Unlock()
		return
	}
	v.hostState = state

	var fire []Observer
	switch state {
	case HostNotSet:
		v.verified = false
		v.clearSchedule()
		v.timer.Stop()
	case HostSetFeaturesEnabled:
		wasVerified := v.verified
		v.verified = true
		v.clearSchedule()
		v.timer.Stop()
		if !wasVerified {
			fire = append(fire, v.observers...)
		}
	case HostSetFeaturesDisabled:
		v.verified = false
		v.attemptAndScheduleFirst()
	}
	v.mtx.Unlock()

	for _, obs := range fire {
		obs()
	}
}

func (v *Verifier) onRetryTimeout() {
	v.mtx.Lock()
	defer v.mtx.Unlock()

	if v.verified || v.hostState != HostSetFeaturesDisabled {
		return
	}
	v.attemptWithBackoff()
}

// attemptAndScheduleFirst starts a fresh retry cycle.
func (v *Verifier) attemptAndScheduleFirst() {
	v.notifyHost()

	delta := v.firstDelay.Milliseconds()
	ts := v.clock.Now().UnixMilli() + delta
	v.persistSchedule(ts, delta)
	v.timer.Start(v.firstDelay, v.onRetryTimeout)
}

// attemptWithBackoff advances the persisted deadline past now by
// repeated multiplication, catching up any missed intervals.
func (v *Verifier) attemptWithBackoff() {
	v.notifyHost()

	ts := v.prefs.GetInt64(RetryTimestampPref)
	delta := v.prefs.GetInt64(LastUsedDeltaPref)
	if delta <= 0 {
		delta = v.firstDelay.Milliseconds()
	}

	now := v.clock.Now().UnixMilli()
	for {
		delta = int64(float64(delta) * v.multiplier)
		ts += delta
		if ts > now {
			break
		}
	}

	v.persistSchedule(ts, delta)
	v.timer.Start(time.Duration(ts-now)*time.Millisecond, v.onRetryTimeout)
}

func (v *Verifier) notifyHost() {
	if err := v.client.NotifyHost(); err != nil {
		v.logger.Warn("host notification failed", zap.Error(err))
	}
}

func (v *Verifier) persistSchedule(ts, delta int64) {
	if err := v.prefs.SetInt64(RetryTimestampPref, ts); err != nil {
		v.logger.Error("persist retry timestamp", zap.Error(err))
	}
	if err := v.prefs.SetInt64(LastUsedDeltaPref, delta); err != nil {
		v.logger.Error("persist retry delta", zap.Error(err))
	}
}

func (v *Verifier) clearSchedule() {
	v.persistSchedule(0, 0)
}
