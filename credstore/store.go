package credstore

import "time"

// Storage keys for the persisted session. All three must be present together
// for a stored session to be considered restorable; if any one is missing the
// store reports "absent" rather than an error.
const (
	KeyUser      = "session_user"
	KeyTimestamp = "session_timestamp"
	KeyToken     = "access_token"
)

// StoredSession is the durable mirror of an in-memory session. The identity
// is kept as raw JSON; its shape is owned by the session package.
type StoredSession struct {
	UserJSON  []byte    // serialized identity
	Token     string    // opaque bearer credential
	Timestamp time.Time // when the session was last established or restored
}

// Store defines the interface for durable credential persistence.
// Implementations must keep the three keys consistent: a partial write is
// worse than no write, because restore logic trusts the presence of all three.
type Store interface {
	// Save persists the session, replacing any previous one. It must fail
	// loudly rather than leave partial state behind.
	Save(s StoredSession) error

	// Load reads the persisted session. Returns (nil, nil) when no session
	// is stored or any of the three keys is missing.
	Load() (*StoredSession, error)

	// Clear deletes the persisted session. Idempotent; clearing an absent
	// session is a no-op.
	Clear() error
}
