package storefakes

import (
	"sync"

	"github.com/pigmykit/go-agent-client/credstore"
)

var _ credstore.Store = (*FakeStore)(nil)

// FakeStore is an in-memory credstore.Store for tests. Errors can be injected
// per operation, and Clear calls are counted so tests can assert that logout
// tears storage down exactly once.
type FakeStore struct {
	mu      sync.Mutex
	session *credstore.StoredSession

	saveErr error
	loadErr error

	clearCalls int
}

func NewFakeStore() *FakeStore {
	return &FakeStore{}
}

func (fs *FakeStore) Save(s credstore.StoredSession) error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.saveErr != nil {
		return fs.saveErr
	}
	copied := s
	copied.UserJSON = append([]byte(nil), s.UserJSON...)
	fs.session = &copied
	return nil
}

func (fs *FakeStore) Load() (*credstore.StoredSession, error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	if fs.loadErr != nil {
		return nil, fs.loadErr
	}
	if fs.session == nil {
		return nil, nil
	}
	copied := *fs.session
	copied.UserJSON = append([]byte(nil), fs.session.UserJSON...)
	return &copied, nil
}

func (fs *FakeStore) Clear() error {
	fs.mu.Lock()
	defer fs.mu.Unlock()

	fs.clearCalls++
	fs.session = nil
	return nil
}

func (fs *FakeStore) SetSaveErr(err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.saveErr = err
}

func (fs *FakeStore) SetLoadErr(err error) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	fs.loadErr = err
}

// Seed places a stored session directly, bypassing Save error injection.
func (fs *FakeStore) Seed(s credstore.StoredSession) {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	copied := s
	copied.UserJSON = append([]byte(nil), s.UserJSON...)
	fs.session = &copied
}

func (fs *FakeStore) ClearCalls() int {
	fs.mu.Lock()
	defer fs.mu.Unlock()
	return fs.clearCalls
}
