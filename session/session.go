package session

import "time"

// State is the lifecycle state of the agent's session.
type State int

const (
	LoggedOut State = iota
	Authenticating
	LoggedIn
	Restoring
)

func (s State) String() string {
	switch s {
	case LoggedOut:
		return "LoggedOut"
	case Authenticating:
		return "Authenticating"
	case LoggedIn:
		return "LoggedIn"
	case Restoring:
		return "Restoring"
	default:
		return "Unknown"
	}
}

// Identity is the agent identity returned by the backend on login. Field
// tags match the backend's agent object.
type Identity struct {
	ID         string `json:"id"`
	AgentNo    string `json:"agentno"`
	AgentName  string `json:"agentname"`
	MobileNo   string `json:"mobileno"`
	OrgName    string `json:"orgname"`
	OrgID      string `json:"orgid"`
	Address    string `json:"address"`
	ExpiryDate string `json:"expirydate"`
}

// Session is the authenticated identity and token pair for a logged-in
// agent. At most one exists per process; it is mirrored to durable storage
// on every establish or restore.
type Session struct {
	Identity    Identity
	AccessToken string    // opaque bearer credential, never inspected locally
	LoginTime   time.Time // display only; expiry math uses the durable timestamp
}
