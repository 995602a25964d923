package session

import (
	"sync"
	"time"
)

// inactivityTimer is the single cancellable countdown backing the inactivity
// logout. Reset replaces any previous countdown, so at most one callback is
// ever pending; Stop guarantees no stray callback fires against a cleared
// session.
type inactivityTimer struct {
	mu    sync.Mutex
	timer *time.Timer
}

func (t *inactivityTimer) Reset(d time.Duration, fire func()) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(d, fire)
}

func (t *inactivityTimer) Stop() {
	t.mu.Lock()
	defer t.mu.Unlock()

	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}
