package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type txFilter struct {
	Kind string `json:"kind,omitempty"`
	From string `json:"from,omitempty"`
}

func TestQueryKeyCanonicalEquality(t *testing.T) {
	a := TransactionsQueryKey("LOAN-123", txFilter{Kind: "REPAYMENT"})
	b := TransactionsQueryKey("LOAN-123", txFilter{Kind: "REPAYMENT"})
	c := TransactionsQueryKey("LOAN-123", txFilter{Kind: "DISBURSEMENT"})

	assert.Equal(t, a.Canonical(), b.Canonical())
	assert.NotEqual(t, a.Canonical(), c.Canonical())
}

func TestTransactionsQueryKeyStructure(t *testing.T) {
	filter := txFilter{Kind: "REPAYMENT", From: "2026-07-01"}
	key := TransactionsQueryKey("LOAN-123", filter)

	assert.Len(t, key, 3)
	assert.Equal(t, "transactions", key[0])
	assert.Equal(t, "LOAN-123", key[1])
	assert.Equal(t, filter, key[2])
}

func TestQueryKeyHasPrefix(t *testing.T) {
	tests := []struct {
		name   string
		key    QueryKey
		prefix QueryKey
		want   bool
	}{
		{"single element prefix", PortfolioECLQueryKey(), QueryKey{"ecl"}, true},
		{"full key as prefix", CloseHistoryQueryKey(), QueryKey{"period-close", "history"}, true},
		{"family prefix", PeriodCloseQueryKey("2026-07-31"), QueryKey{"period-close"}, true},
		{"different family", AccrualQueryKey("LOAN-1"), QueryKey{"ecl"}, false},
		{"partial element does not match", PortfolioECLQueryKey(), QueryKey{"ecl", "port"}, false},
		{"prefix longer than key", QueryKey{"ecl"}, PortfolioECLQueryKey(), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.key.HasPrefix(tt.prefix))
		})
	}
}

func TestQueryKeyDistinctAcrossAccounts(t *testing.T) {
	assert.NotEqual(t, AccrualQueryKey("LOAN-1").Canonical(), AccrualQueryKey("LOAN-2").Canonical())
	assert.NotEqual(t, SearchQueryKey("smith", 20).Canonical(), SearchQueryKey("smith", 50).Canonical())
}
