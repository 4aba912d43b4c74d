package persistence

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/storefront/backend/internal/domain/identity"
	"github.com/storefront/backend/internal/domain/shared"
)

func newTestUser(t *testing.T, name, email string) *identity.User {
	t.Helper()
	u, err := identity.NewUser(name, email, "password123")
	require.NoError(t, err)
	return u
}

func TestGormUserRepository_SaveAndFindByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	u := newTestUser(t, "Alice", "alice@example.com")
	require.NoError(t, repo.Save(ctx, u))

	found, err := repo.FindByEmail(ctx, "  Alice@Example.com ")
	require.NoError(t, err)
	assert.Equal(t, u.ID, found.ID)

	_, err = repo.FindByEmail(ctx, "missing@example.com")
	assert.ErrorIs(t, err, shared.ErrNotFound)
}

func TestGormUserRepository_Save_DuplicateEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestUser(t, "Alice", "dup@example.com")))

	err := repo.Save(ctx, newTestUser(t, "Bob", "dup@example.com"))
	assert.ErrorIs(t, err, shared.ErrAlreadyExists)
}

func TestGormUserRepository_FindAll_RoleFilterAndSearch(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	customer := newTestUser(t, "Alice Smith", "alice@example.com")
	require.NoError(t, repo.Save(ctx, customer))

	admin, err := identity.NewAdmin("Bob Jones", "bob@example.com", "password123")
	require.NoError(t, err)
	require.NoError(t, repo.Save(ctx, admin))

	t.Run("role filter", func(t *testing.T) {
		filter := shared.Filter{Filters: map[string]interface{}{"role": "admin"}}

		users, err := repo.FindAll(ctx, filter)
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, identity.RoleAdmin, users[0].Role)

		count, err := repo.Count(ctx, filter)
		require.NoError(t, err)
		assert.Equal(t, int64(1), count)
	})

	t.Run("search matches name and email", func(t *testing.T) {
		users, err := repo.FindAll(ctx, shared.Filter{Search: "SMITH"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, customer.ID, users[0].ID)

		users, err = repo.FindAll(ctx, shared.Filter{Search: "bob@"})
		require.NoError(t, err)
		require.Len(t, users, 1)
		assert.Equal(t, admin.ID, users[0].ID)
	})
}

func TestGormUserRepository_ExistsByEmail(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	require.NoError(t, repo.Save(ctx, newTestUser(t, "Alice", "alice@example.com")))

	exists, err := repo.ExistsByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.ExistsByEmail(ctx, "other@example.com")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestGormUserRepository_Delete(t *testing.T) {
	db := setupTestDB(t)
	repo := NewGormUserRepository(db)
	ctx := context.Background()

	u := newTestUser(t, "Alice", "alice@example.com")
	require.NoError(t, repo.Save(ctx, u))

	require.NoError(t, repo.Delete(ctx, u.ID))

	_, err := repo.FindByID(ctx, u.ID)
	assert.ErrorIs(t, err, shared.ErrNotFound)

	err = repo.Delete(ctx, uuid.New())
	assert.ErrorIs(t, err, shared.ErrNotFound)
}
