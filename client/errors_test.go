package client

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeNetError struct {
	timeout bool
}

func (e *fakeNetError) Error() string   { return "dial tcp: connection refused" }
func (e *fakeNetError) Timeout() bool   { return e.timeout }
func (e *fakeNetError) Temporary() bool { return false }

func TestClassifyError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want ErrorCategory
	}{
		{"unauthorized", &APIError{StatusCode: http.StatusUnauthorized, Message: "missing token"}, ErrorPermission},
		{"forbidden", &APIError{StatusCode: http.StatusForbidden, Message: "insufficient role"}, ErrorPermission},
		{"forbidden self action", &APIError{StatusCode: http.StatusForbidden, Message: "cannot act on own request"}, ErrorSelfAction},
		{"conflict", &APIError{StatusCode: http.StatusConflict, Message: "period already closed"}, ErrorConflict},
		{"bad request", &APIError{StatusCode: http.StatusBadRequest, Message: "periodDate is required"}, ErrorValidation},
		{"unprocessable", &APIError{StatusCode: http.StatusUnprocessableEntity, Message: "preview is stale"}, ErrorValidation},
		{"not found", &APIError{StatusCode: http.StatusNotFound, Message: "no such period"}, ErrorNotFound},
		{"service unavailable", &APIError{StatusCode: http.StatusServiceUnavailable, Message: "ledger down"}, ErrorUnavailable},
		{"bad gateway", &APIError{StatusCode: http.StatusBadGateway, Message: "upstream error"}, ErrorUnavailable},
		{"server error", &APIError{StatusCode: http.StatusInternalServerError, Message: "oops"}, ErrorUnknown},
		{"wrapped api error", fmt.Errorf("finalize: %w", &APIError{StatusCode: http.StatusConflict, Message: "stale"}), ErrorConflict},
		{"confirm timeout", ErrConfirmTimeout, ErrorTimeout},
		{"context deadline", context.DeadlineExceeded, ErrorTimeout},
		{"self action sentinel", ErrSelfAction, ErrorSelfAction},
		{"network refused", &fakeNetError{}, ErrorNetwork},
		{"network timeout", &fakeNetError{timeout: true}, ErrorTimeout},
		{"plain error", errors.New("something odd"), ErrorUnknown},
		{"nil", nil, ErrorUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ClassifyError(tt.err))
		})
	}
}

func TestErrorMessagesCoverAllCategories(t *testing.T) {
	categories := []ErrorCategory{
		ErrorPermission, ErrorConflict, ErrorUnavailable, ErrorValidation,
		ErrorNotFound, ErrorSelfAction, ErrorNetwork, ErrorTimeout, ErrorUnknown,
	}
	for _, cat := range categories {
		assert.NotEmpty(t, ErrorMessages[cat], "no message for %s", cat)
	}
}

func TestUserMessageNeverLeaksServerText(t *testing.T) {
	err := &APIError{StatusCode: http.StatusInternalServerError, Message: "pq: duplicate key value violates unique constraint"}
	msg := UserMessage(err)
	assert.Equal(t, ErrorMessages[ErrorUnknown], msg)
	assert.NotContains(t, msg, "pq:")
}
