// SPDX-License-Identifier: EPL-2.0

package hostverify

import (
	"sync"
	"time"
)

// Clock supplies wall-clock time. Injected so tests can drive time
// explicitly.
type Clock interface {
	Now() time.Time
}

// SystemClock is the real wall clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time { return time.Now() }

// Timer is a one-shot timer. Start replaces any pending timer.
type Timer interface {
	Start(d time.Duration, f func())
	Stop()
	IsRunning() bool
}

// OneShotTimer implements Timer on time.AfterFunc. Safe for concurrent
// use.
type OneShotTimer struct {
	mtx     sync.Mutex
	timer   *time.Timer
	running bool
}

func NewOneShotTimer() *OneShotTimer {
	return &OneShotTimer{}
}

func (t *OneShotTimer) Start(d time.Duration, f func()) {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.running = true
	t.timer = time.AfterFunc(d, func() {
		t.mtx.Lock()
		t.running = false
		t.mtx.Unlock()
		f()
	})
}

func (t *OneShotTimer) Stop() {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.running = false
}

func (t *OneShotTimer) IsRunning() bool {
	t.mtx.Lock()
	defer t.mtx.Unlock()

	return t.running
}
