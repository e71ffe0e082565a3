package repository_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/mixenapp/mixen-backend/internal/repository"
)

func TestLikeCreateAndDuplicate(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUser(t, gdb, 1, "APPROVED", 30)
	seedUser(t, gdb, 2, "APPROVED", 30)
	repo := repository.NewLikeRepository(gdb)

	require.NoError(t, repo.Create(ctx, 1, 2))

	// second insert of the same edge hits the composite PK
	err := repo.Create(ctx, 1, 2)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))

	// reverse direction is a different edge
	require.NoError(t, repo.Create(ctx, 2, 1))
}

func TestLikeExists(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUser(t, gdb, 1, "APPROVED", 30)
	seedUser(t, gdb, 2, "APPROVED", 30)
	repo := repository.NewLikeRepository(gdb)

	require.NoError(t, repo.Create(ctx, 1, 2))

	ok, err := repo.Exists(ctx, 1, 2)
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = repo.Exists(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestListReceivedAndCount(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUser(t, gdb, 1, "APPROVED", 30)
	seedUser(t, gdb, 2, "APPROVED", 30)
	seedUser(t, gdb, 3, "APPROVED", 30)
	repo := repository.NewLikeRepository(gdb)

	require.NoError(t, repo.Create(ctx, 2, 1))
	require.NoError(t, repo.Create(ctx, 3, 1))

	likers, err := repo.ListReceived(ctx, 1)
	require.NoError(t, err)
	require.Len(t, likers, 2)
	for _, l := range likers {
		assert.NotEmpty(t, l.Username)
	}

	count, err := repo.CountReceived(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}

func TestMatchCanonicalPair(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUser(t, gdb, 1, "APPROVED", 30)
	seedUser(t, gdb, 2, "APPROVED", 30)
	repo := repository.NewMatchRepository(gdb)

	match, err := repo.Create(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, uint64(1), match.UserAID)
	assert.Equal(t, uint64(2), match.UserBID)

	// (1,2) and (2,1) are the same pair; the unique index rejects both
	_, err = repo.Create(ctx, 1, 2)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
	_, err = repo.Create(ctx, 2, 1)
	assert.True(t, errors.Is(err, gorm.ErrDuplicatedKey))
}

func TestMatchGetForPairEitherOrder(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUser(t, gdb, 1, "APPROVED", 30)
	seedUser(t, gdb, 2, "APPROVED", 30)
	repo := repository.NewMatchRepository(gdb)

	created, err := repo.Create(ctx, 1, 2)
	require.NoError(t, err)

	m1, err := repo.GetForPair(ctx, 1, 2)
	require.NoError(t, err)
	m2, err := repo.GetForPair(ctx, 2, 1)
	require.NoError(t, err)
	assert.Equal(t, created.ID, m1.ID)
	assert.Equal(t, created.ID, m2.ID)

	_, err = repo.GetForPair(ctx, 1, 99)
	assert.True(t, errors.Is(err, gorm.ErrRecordNotFound))
}

func TestMatchListForUserOrder(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUser(t, gdb, 1, "APPROVED", 30)
	seedUser(t, gdb, 2, "APPROVED", 30)
	seedUser(t, gdb, 3, "APPROVED", 30)
	repo := repository.NewMatchRepository(gdb)

	// user2 is user_a against 3, user_b against 1
	_, err := repo.Create(ctx, 2, 3)
	require.NoError(t, err)
	_, err = repo.Create(ctx, 1, 2)
	require.NoError(t, err)

	list, err := repo.ListForUser(ctx, 2)
	require.NoError(t, err)
	require.Len(t, list, 2)
	// user_a side first, then user_b side
	assert.Equal(t, uint64(3), list[0].ID)
	assert.Equal(t, uint64(1), list[1].ID)
}
