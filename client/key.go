package client

import (
	"encoding/json"
	"fmt"
	"strings"
)

// QueryKey is a composite cache key: entity kind first, then identifying
// parameters, then any filter object. Keys with equal canonical forms address
// the same cache entry.
type QueryKey []any

// Canonical returns the string form used for map lookups and prefix
// matching. Elements are JSON-encoded so that structurally equal filters
// produce equal keys.
func (k QueryKey) Canonical() string {
	parts := make([]string, len(k))
	for i, elem := range k {
		switch v := elem.(type) {
		case string:
			parts[i] = v
		default:
			encoded, err := json.Marshal(v)
			if err != nil {
				parts[i] = fmt.Sprintf("%v", v)
			} else {
				parts[i] = string(encoded)
			}
		}
	}
	return strings.Join(parts, "\x1f")
}

// HasPrefix reports whether k starts with the given prefix key
func (k QueryKey) HasPrefix(prefix QueryKey) bool {
	if len(prefix) > len(k) {
		return false
	}
	return strings.HasPrefix(k.Canonical()+"\x1f", prefix.Canonical()+"\x1f")
}

// AccrualQueryKey keys the accrued-yield read for one account
func AccrualQueryKey(loanAccountID string) QueryKey {
	return QueryKey{"accrual", loanAccountID}
}

// ECLQueryKey keys the ECL allowance read for one account
func ECLQueryKey(loanAccountID string) QueryKey {
	return QueryKey{"ecl", loanAccountID}
}

// PortfolioECLQueryKey keys the portfolio-level ECL summary
func PortfolioECLQueryKey() QueryKey {
	return QueryKey{"ecl", "portfolio"}
}

// ScheduleQueryKey keys the repayment schedule read for one account
func ScheduleQueryKey(loanAccountID string) QueryKey {
	return QueryKey{"schedule", loanAccountID}
}

// SearchQueryKey keys an account search by query string and limit
func SearchQueryKey(query string, limit int) QueryKey {
	return QueryKey{"search", query, limit}
}

// TransactionsQueryKey keys a transaction listing for one account; the
// filter object is part of the key unchanged.
func TransactionsQueryKey(loanAccountID string, filter any) QueryKey {
	return QueryKey{"transactions", loanAccountID, filter}
}

// CloseHistoryQueryKey keys the closed-periods history list
func CloseHistoryQueryKey() QueryKey {
	return QueryKey{"period-close", "history"}
}

// CloseHistoryPrefix matches every cached closed-periods read
func CloseHistoryPrefix() QueryKey {
	return QueryKey{"period-close", "history"}
}

// PeriodCloseQueryKey keys a single closed period
func PeriodCloseQueryKey(periodDate string) QueryKey {
	return QueryKey{"period-close", periodDate}
}

// WriteOffRequestQueryKey keys the write-off request projection poll
func WriteOffRequestQueryKey(requestID string) QueryKey {
	return QueryKey{"write-off", requestID}
}

// SystemStatusQueryKey keys the event-processing health read
func SystemStatusQueryKey() QueryKey {
	return QueryKey{"system", "status"}
}
