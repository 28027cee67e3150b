package auth

import "golang.org/x/crypto/bcrypt"

// APIKeyVerifier checks presented service API keys against bcrypt hashes
// from config. Intended for machine-to-machine callers without JWT sessions.
type APIKeyVerifier struct {
	hashes [][]byte
}

// NewAPIKeyVerifier creates a verifier from bcrypt-hashed keys
func NewAPIKeyVerifier(hashes []string) *APIKeyVerifier {
	v := &APIKeyVerifier{hashes: make([][]byte, 0, len(hashes))}
	for _, h := range hashes {
		v.hashes = append(v.hashes, []byte(h))
	}
	return v
}

// Enabled reports whether any keys are configured
func (v *APIKeyVerifier) Enabled() bool {
	return len(v.hashes) > 0
}

// Verify checks a presented key against every configured hash
func (v *APIKeyVerifier) Verify(key string) bool {
	if key == "" {
		return false
	}
	for _, hash := range v.hashes {
		if bcrypt.CompareHashAndPassword(hash, []byte(key)) == nil {
			return true
		}
	}
	return false
}
