package storage

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	infraconfig "github.com/billie-crm/backend/internal/infrastructure/config"
)

func validStorageConfig() *infraconfig.StorageConfig {
	return &infraconfig.StorageConfig{
		Enabled:      true,
		Endpoint:     "localhost:9000",
		Bucket:       "billie-exports",
		AccessKey:    "test-access",
		SecretKey:    "test-secret",
		UsePathStyle: true,
	}
}

func TestNewS3ArtifactStoreValidation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*infraconfig.StorageConfig)
	}{
		{"missing bucket", func(c *infraconfig.StorageConfig) { c.Bucket = "" }},
		{"missing access key", func(c *infraconfig.StorageConfig) { c.AccessKey = "" }},
		{"missing secret key", func(c *infraconfig.StorageConfig) { c.SecretKey = "" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validStorageConfig()
			tt.mutate(cfg)
			_, err := NewS3ArtifactStore(cfg)
			assert.Error(t, err)
		})
	}

	_, err := NewS3ArtifactStore(nil)
	assert.Error(t, err)
}

func TestNewS3ArtifactStoreDefaults(t *testing.T) {
	store, err := NewS3ArtifactStore(validStorageConfig())
	require.NoError(t, err)

	assert.Equal(t, "billie-exports", store.Bucket())
	assert.Equal(t, 15*time.Minute, store.presignExpiration)
}

func TestNewS3ArtifactStoreOptions(t *testing.T) {
	store, err := NewS3ArtifactStore(validStorageConfig(),
		WithPresignExpiration(time.Hour))
	require.NoError(t, err)

	assert.Equal(t, time.Hour, store.presignExpiration)
}
