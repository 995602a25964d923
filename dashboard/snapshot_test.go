package dashboard_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/pigmykit/go-agent-client/dashboard"
)

func TestHasActiveCollection(t *testing.T) {
	t.Run("nil snapshot", func(t *testing.T) {
		var s *dashboard.Snapshot
		require.False(t, s.HasActiveCollection())
	})

	t.Run("no batch", func(t *testing.T) {
		s := &dashboard.Snapshot{}
		require.False(t, s.HasActiveCollection())
	})

	t.Run("empty batch", func(t *testing.T) {
		s := &dashboard.Snapshot{TodayCollection: &dashboard.CollectionBatch{}}
		require.False(t, s.HasActiveCollection())
	})

	t.Run("submitted batch", func(t *testing.T) {
		s := &dashboard.Snapshot{TodayCollection: &dashboard.CollectionBatch{
			Transactions: []dashboard.Transaction{{AccountNo: "000005", Amount: 150}},
			Submitted:    true,
		}}
		require.False(t, s.HasActiveCollection())
	})

	t.Run("pending batch with transactions", func(t *testing.T) {
		s := &dashboard.Snapshot{TodayCollection: &dashboard.CollectionBatch{
			Transactions: []dashboard.Transaction{{AccountNo: "000005", Amount: 150}},
		}}
		require.True(t, s.HasActiveCollection())
	})
}

func TestCollectionSummary(t *testing.T) {
	t.Run("missing batch yields the zero summary", func(t *testing.T) {
		var s *dashboard.Snapshot
		require.Equal(t, dashboard.Summary{}, s.CollectionSummary())
		require.Equal(t, dashboard.Summary{}, (&dashboard.Snapshot{}).CollectionSummary())
	})

	t.Run("projects count, amount and submission", func(t *testing.T) {
		submittedAt := time.Date(2026, 8, 31, 17, 0, 0, 0, time.UTC)
		s := &dashboard.Snapshot{TodayCollection: &dashboard.CollectionBatch{
			Transactions: []dashboard.Transaction{
				{AccountNo: "000005", CustomerName: "sita", Amount: 150},
				{AccountNo: "000009", CustomerName: "gita", Amount: 75.5},
			},
			TotalAmount: 225.5,
			Submitted:   true,
			SubmittedAt: &submittedAt,
		}}

		summary := s.CollectionSummary()
		require.Equal(t, 2, summary.TransactionCount)
		require.Equal(t, 225.5, summary.TotalAmount)
		require.True(t, summary.Submitted)
		require.Equal(t, &submittedAt, summary.SubmittedAt)
	})
}
