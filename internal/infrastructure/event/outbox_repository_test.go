package event

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/billie-crm/backend/internal/domain/ledger"
	"github.com/billie-crm/backend/internal/domain/shared"
)

func setupOutboxDB(t *testing.T) *GormOutboxRepository {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared&_pragma=busy_timeout(5000)"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&shared.OutboxEntry{}))

	t.Cleanup(func() {
		sqlDB, err := db.DB()
		if err == nil {
			_ = sqlDB.Close()
		}
	})

	return NewGormOutboxRepository(db)
}

func newCancelEntry(t *testing.T, requestID string) *shared.OutboxEntry {
	t.Helper()
	serializer := NewEventSerializer()
	RegisterAllEvents(serializer)

	cmd := ledger.NewWriteOffCancelRequested(requestID, "LOAN-1", "", "agent-7", "k-"+requestID)
	payload, err := serializer.Serialize(cmd)
	require.NoError(t, err)
	return shared.NewOutboxEntry(cmd, payload)
}

func TestOutboxSaveAndFindPending(t *testing.T) {
	repo := setupOutboxDB(t)
	ctx := context.Background()

	entry := newCancelEntry(t, "WO-1")
	require.NoError(t, repo.Save(ctx, entry))

	pending, err := repo.FindPending(ctx, 10)
	require.NoError(t, err)
	require.Len(t, pending, 1)
	assert.Equal(t, entry.EventID, pending[0].EventID)
	assert.Equal(t, "WO-1", pending[0].AggregateID)
	assert.Equal(t, shared.OutboxStatusPending, pending[0].Status)
}

func TestOutboxMarkProcessingClaimsOnlyEligible(t *testing.T) {
	repo := setupOutboxDB(t)
	ctx := context.Background()

	pending := newCancelEntry(t, "WO-1")
	sent := newCancelEntry(t, "WO-2")
	sent.MarkSent()
	require.NoError(t, repo.Save(ctx, pending, sent))

	claimed, err := repo.MarkProcessing(ctx, []uuid.UUID{pending.ID, sent.ID})
	require.NoError(t, err)
	require.Len(t, claimed, 1)
	assert.Equal(t, pending.ID, claimed[0].ID)
	assert.Equal(t, shared.OutboxStatusProcessing, claimed[0].Status)
}

func TestOutboxRetryLifecycle(t *testing.T) {
	repo := setupOutboxDB(t)
	ctx := context.Background()

	entry := newCancelEntry(t, "WO-1")
	require.NoError(t, repo.Save(ctx, entry))

	entry.MarkFailed("bus unavailable")
	require.NoError(t, repo.Update(ctx, entry))

	retryable, err := repo.FindRetryable(ctx, time.Now().Add(time.Hour), 10)
	require.NoError(t, err)
	require.Len(t, retryable, 1)
	assert.Equal(t, 1, retryable[0].RetryCount)
	assert.Equal(t, "bus unavailable", retryable[0].LastError)
}

func TestOutboxCountByStatus(t *testing.T) {
	repo := setupOutboxDB(t)
	ctx := context.Background()

	first := newCancelEntry(t, "WO-1")
	second := newCancelEntry(t, "WO-2")
	second.MarkSent()
	require.NoError(t, repo.Save(ctx, first, second))

	counts, err := repo.CountByStatus(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), counts[shared.OutboxStatusPending])
	assert.Equal(t, int64(1), counts[shared.OutboxStatusSent])
}

func TestOutboxDeleteOlderThan(t *testing.T) {
	repo := setupOutboxDB(t)
	ctx := context.Background()

	entry := newCancelEntry(t, "WO-1")
	entry.MarkSent()
	past := time.Now().Add(-48 * time.Hour)
	entry.ProcessedAt = &past
	require.NoError(t, repo.Save(ctx, entry))

	deleted, err := repo.DeleteOlderThan(ctx, time.Now().Add(-24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)
}
