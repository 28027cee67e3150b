package client

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"time"
)

// GenerateIdempotencyKey builds the dedup key attached to every mutating
// command. The format is {userID}-{action}-{unixMillis}-{random}: readable in
// logs, unique per attempt, and traceable back to who did what when. A retry
// of the same logical attempt must reuse the key, so callers generate it once
// per user intent, not per HTTP request.
func GenerateIdempotencyKey(userID, action string) string {
	buf := make([]byte, 4)
	_, _ = rand.Read(buf)
	return fmt.Sprintf("%s-%s-%d-%s", userID, action, time.Now().UnixMilli(), hex.EncodeToString(buf))
}
