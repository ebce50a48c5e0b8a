// File: internal/repository/session/session_repository_test.go
package session

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/bookmyseva/backend/internal/domain"
)

func testRepo(t *testing.T) (SessionRepository, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "sessions.db")), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&domain.ChatSession{}))
	return NewSessionRepository(db), db
}

func candidate(identity string) *domain.ChatSession {
	return &domain.ChatSession{
		ID:             uuid.New().String(),
		Identity:       identity,
		IdentityKind:   domain.IdentityGuest,
		Active:         true,
		LastActivityAt: time.Now(),
	}
}

func TestGetOrCreateInsertsOnce(t *testing.T) {
	repo, db := testRepo(t)
	ctx := context.Background()

	first, created, err := repo.GetOrCreate(ctx, candidate("guest-1"))
	require.NoError(t, err)
	assert.True(t, created)

	second, created, err := repo.GetOrCreate(ctx, candidate("guest-1"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)

	var count int64
	require.NoError(t, db.Model(&domain.ChatSession{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestGetOrCreateRejectsInvalidCandidate(t *testing.T) {
	repo, _ := testRepo(t)

	_, _, err := repo.GetOrCreate(context.Background(), &domain.ChatSession{ID: uuid.New().String()})
	assert.Error(t, err)
}

func TestGetOrCreateRevivesSoftDeleted(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	first, _, err := repo.GetOrCreate(ctx, candidate("guest-2"))
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, first.ID))

	revived, created, err := repo.GetOrCreate(ctx, candidate("guest-2"))
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, revived.ID)
	assert.False(t, revived.IsDeleted)
	assert.True(t, revived.Active)
}

func TestFindByIdentityExcludesDeleted(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	sess, _, err := repo.GetOrCreate(ctx, candidate("guest-3"))
	require.NoError(t, err)
	require.NoError(t, repo.SoftDelete(ctx, sess.ID))

	_, err = repo.FindByIdentity(ctx, "guest-3")
	assert.ErrorIs(t, err, ErrSessionNotFound)

	// The row is still reachable by id for admin reads.
	byID, err := repo.FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.True(t, byID.IsDeleted)
}

func TestEndStampsFlags(t *testing.T) {
	repo, _ := testRepo(t)
	ctx := context.Background()

	sess, _, err := repo.GetOrCreate(ctx, candidate("guest-4"))
	require.NoError(t, err)

	endedAt := time.Now()
	require.NoError(t, repo.End(ctx, sess.ID, endedAt))

	reloaded, err := repo.FindByID(ctx, sess.ID)
	require.NoError(t, err)
	assert.False(t, reloaded.Active)
	assert.True(t, reloaded.EndedByUser)
	require.NotNil(t, reloaded.EndedAt)

	assert.ErrorIs(t, repo.End(ctx, "missing", endedAt), ErrSessionNotFound)
}

func TestListOrdersByActivity(t *testing.T) {
	repo, db := testRepo(t)
	ctx := context.Background()

	older, _, err := repo.GetOrCreate(ctx, candidate("guest-5"))
	require.NoError(t, err)
	newer, _, err := repo.GetOrCreate(ctx, candidate("guest-6"))
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.ChatSession{}).
		Where("id = ?", older.ID).
		Update("last_activity_at", time.Now().Add(-time.Hour)).Error)

	sessions, total, err := repo.List(ctx, false, 10, 0)
	require.NoError(t, err)
	assert.EqualValues(t, 2, total)
	require.Len(t, sessions, 2)
	assert.Equal(t, newer.ID, sessions[0].ID)

	_, _, err = repo.List(ctx, false, 0, 0)
	assert.Error(t, err, "limit must be positive")
}

func TestExpireIdleOnlyTouchesStale(t *testing.T) {
	repo, db := testRepo(t)
	ctx := context.Background()

	fresh, _, err := repo.GetOrCreate(ctx, candidate("guest-7"))
	require.NoError(t, err)
	stale, _, err := repo.GetOrCreate(ctx, candidate("guest-8"))
	require.NoError(t, err)

	require.NoError(t, db.Model(&domain.ChatSession{}).
		Where("id = ?", stale.ID).
		Update("last_activity_at", time.Now().Add(-48*time.Hour)).Error)

	expired, err := repo.ExpireIdle(ctx, time.Now().Add(-domain.SessionInactivityWindow))
	require.NoError(t, err)
	assert.EqualValues(t, 1, expired)

	freshReloaded, err := repo.FindByID(ctx, fresh.ID)
	require.NoError(t, err)
	assert.True(t, freshReloaded.Active)

	staleReloaded, err := repo.FindByID(ctx, stale.ID)
	require.NoError(t, err)
	assert.False(t, staleReloaded.Active)
}
