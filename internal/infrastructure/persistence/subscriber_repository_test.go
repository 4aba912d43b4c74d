package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/newsletter"
	"github.com/storefront/backend/internal/domain/shared"
)

func TestGormSubscriberRepository_SaveAndFindByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSubscriberRepository(db)
	ctx := context.Background()

	s, err := newsletter.NewSubscriber("reader@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	found, err := repo.FindByEmail(ctx, "  Reader@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, s.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormSubscriberRepository_Save_Duplicate(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSubscriberRepository(db)
	ctx := context.Background()

	first, err := newsletter.NewSubscriber("dup@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, first))

	second, err := newsletter.NewSubscriber("dup@example.com")
	require.NoError(t, err)
	err = repo.Save(ctx, second)
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormSubscriberRepository_FindAll_OrderedBySubscribedAt(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSubscriberRepository(db)
	ctx := context.Background()

	second, err := newsletter.NewSubscriber("second@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, second))

	first, err := newsletter.NewSubscriber("first@example.com")
	require.NoError(t, err)
	first.SubscribedAt = time.Now().Add(-time.Hour)
	require.NoError(t, repo.Save(ctx, first))

	subscribers, err := repo.FindAll(ctx, shared.Filter{})
	require.NoError(t, err)
	require.Len(t, subscribers, 2)
	assert.Equal(t, "first@example.com", subscribers[0].Email)
	assert.Equal(t, "second@example.com", subscribers[1].Email)
}

func TestGormSubscriberRepository_ExistsByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormSubscriberRepository(db)
	ctx := context.Background()

	s, err := newsletter.NewSubscriber("first@example.com")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, s))

	exists, err := repo.ExistsByEmail(ctx, "FIRST@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "nobody@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}
