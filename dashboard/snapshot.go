// Package dashboard holds the cached aggregate view of an agent's current
// collection batch and the read-only projections the UI renders from it.
// A Snapshot is owned wholly by the active session: it is replaced on every
// fetch and cleared when the session ends.
package dashboard

import "time"

// Agent mirrors the backend's agent block of the dashboard payload.
type Agent struct {
	AgentNo   string `json:"agentno"`
	AgentName string `json:"agentname"`
	MobileNo  string `json:"mobileno"`
}

// Organization mirrors the backend's organization block.
type Organization struct {
	OrgID   string `json:"orgid"`
	OrgName string `json:"orgname"`
	Address string `json:"address"`
}

// Transaction is a single cash collection recorded against an account.
type Transaction struct {
	AccountNo    string  `json:"accountno"`
	CustomerName string  `json:"customername"`
	Amount       float64 `json:"amount"`
	CollectedAt  string  `json:"collectedat"`
}

// CollectionBatch is today's batch of collections, submitted or pending.
type CollectionBatch struct {
	Transactions []Transaction `json:"transactions"`
	TotalAmount  float64       `json:"totalamount"`
	Submitted    bool          `json:"submitted"`
	SubmittedAt  *time.Time    `json:"submittedat,omitempty"`
}

// Snapshot is the backend-shaped dashboard payload. It is replaced wholesale
// on each fetch; there is no partial merge.
type Snapshot struct {
	Agent           Agent            `json:"agent"`
	Organization    Organization     `json:"organization"`
	TodayCollection *CollectionBatch `json:"todaycollection,omitempty"`
	TotalCustomers  int              `json:"totalcustomers"`
	TotalAccounts   int              `json:"totalaccounts"`
}

// Summary is the condensed view of today's collection batch.
type Summary struct {
	TransactionCount int
	TotalAmount      float64
	Submitted        bool
	SubmittedAt      *time.Time
}

// HasActiveCollection reports whether an unsubmitted batch with at least one
// transaction exists.
func (s *Snapshot) HasActiveCollection() bool {
	if s == nil || s.TodayCollection == nil {
		return false
	}
	return !s.TodayCollection.Submitted && len(s.TodayCollection.Transactions) > 0
}

// CollectionSummary projects today's batch into a Summary. A missing batch
// yields the zero Summary.
func (s *Snapshot) CollectionSummary() Summary {
	if s == nil || s.TodayCollection == nil {
		return Summary{}
	}
	return Summary{
		TransactionCount: len(s.TodayCollection.Transactions),
		TotalAmount:      s.TodayCollection.TotalAmount,
		Submitted:        s.TodayCollection.Submitted,
		SubmittedAt:      s.TodayCollection.SubmittedAt,
	}
}
