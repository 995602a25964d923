package apiclient

import "encoding/json"

// Envelope is the backend's standard response wrapper. Data is left raw; the
// caller owns its shape.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// LoginRequest is the credential-exchange body for POST /agent/login.
type LoginRequest struct {
	AgentNo  string `json:"agentno"`
	Password string `json:"password"`
}

// LoginData is the data block of a successful login response. The agent block
// is decoded by the session package.
type LoginData struct {
	Agent       json.RawMessage `json:"agent"`
	AccessToken string          `json:"accessToken"`
}
