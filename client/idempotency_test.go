package client

import (
	"regexp"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateIdempotencyKeyFormat(t *testing.T) {
	key := GenerateIdempotencyKey("agent7", "cancel")

	pattern := regexp.MustCompile(`^agent7-cancel-(\d+)-([0-9a-f]{8})$`)
	matches := pattern.FindStringSubmatch(key)
	require.NotNil(t, matches, "key %q does not match expected format", key)

	millis, err := strconv.ParseInt(matches[1], 10, 64)
	require.NoError(t, err)
	stamped := time.UnixMilli(millis)
	assert.WithinDuration(t, time.Now(), stamped, 5*time.Second)
}

func TestGenerateIdempotencyKeyUnique(t *testing.T) {
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		key := GenerateIdempotencyKey("agent7", "cancel")
		assert.False(t, seen[key], "duplicate key %q", key)
		seen[key] = true
	}
}

func TestGenerateIdempotencyKeyCarriesUserAndAction(t *testing.T) {
	key := GenerateIdempotencyKey("ops-lead-3", "finalize-close")
	assert.True(t, strings.HasPrefix(key, "ops-lead-3-finalize-close-"))
}
