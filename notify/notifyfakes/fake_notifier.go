package notifyfakes

import (
	"sync"

	"github.com/pigmykit/go-agent-client/notify"
)

var _ notify.Notifier = (*FakeNotifier)(nil)

// FakeNotifier records shown notices for assertions.
type FakeNotifier struct {
	mu      sync.Mutex
	notices []notify.Notice
}

func NewFakeNotifier() *FakeNotifier {
	return &FakeNotifier{}
}

func (fn *FakeNotifier) Show(n notify.Notice) {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	fn.notices = append(fn.notices, n)
}

func (fn *FakeNotifier) Notices() []notify.Notice {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	return append([]notify.Notice(nil), fn.notices...)
}

func (fn *FakeNotifier) Count() int {
	fn.mu.Lock()
	defer fn.mu.Unlock()
	return len(fn.notices)
}
