package storage

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStubArtifactStoreUpload(t *testing.T) {
	store := NewStubArtifactStore()

	url, err := store.Upload(context.Background(),
		"exports/exp-1/1/transactions.csv",
		bytes.NewReader([]byte("id,amount\n1,120.50\n")),
		"text/csv")
	require.NoError(t, err)
	assert.Equal(t, "https://storage.example.com/exports/exp-1/1/transactions.csv", url)

	data, ok := store.Get("exports/exp-1/1/transactions.csv")
	require.True(t, ok)
	assert.Contains(t, string(data), "120.50")
}

func TestStubArtifactStoreRequiresKey(t *testing.T) {
	store := NewStubArtifactStore()

	_, err := store.Upload(context.Background(), "", bytes.NewReader(nil), "text/csv")
	assert.Error(t, err)
}
