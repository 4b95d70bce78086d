package gormstore

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"
	"gorm.io/gorm"

	domain "user-crud-console/internal/domain/user"
	apperrors "user-crud-console/pkg/errors"
)

func setupTestRepo(t *testing.T) *UserRepo {
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })

	repo := NewUserRepo(db, zaptest.NewLogger(t))
	require.NoError(t, repo.Migrate(context.Background()))
	return repo
}

func TestUserRepo_SeedIsIdempotent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Seed(ctx))
	require.NoError(t, repo.Seed(ctx))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 10)
	assert.Equal(t, domain.User{ID: 1, Name: "Leanne Graham", Email: "Sincere@april.biz", Phone: "1-770-736-8031 x56442"}, users[0])
	assert.Equal(t, int64(10), users[9].ID)
}

func TestUserRepo_CreateAfterSeedContinuesIDs(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx))

	u := domain.User{Name: "Ann", Email: "ann@example.com", Phone: "555"}
	require.NoError(t, repo.Create(ctx, &u))

	assert.Equal(t, int64(11), u.ID)
}

func TestUserRepo_GetByID(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	u := domain.User{Name: "Ann", Email: "ann@example.com", Phone: "555"}
	require.NoError(t, repo.Create(ctx, &u))

	got, err := repo.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.Equal(t, u, *got)

	_, err = repo.GetByID(ctx, u.ID+100)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepo_Update(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx))

	updated := domain.User{ID: 2, Name: "Ervin Howell", Email: "ervin@example.com", Phone: ""}
	require.NoError(t, repo.Update(ctx, &updated))

	got, err := repo.GetByID(ctx, 2)
	require.NoError(t, err)
	assert.Equal(t, updated, *got)

	err = repo.Update(ctx, &domain.User{ID: 404, Name: "ghost"})
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepo_Delete(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()
	require.NoError(t, repo.Seed(ctx))

	require.NoError(t, repo.Delete(ctx, 3))

	users, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 9)
	for _, u := range users {
		assert.NotEqual(t, int64(3), u.ID)
	}

	err = repo.Delete(ctx, 3)
	assert.True(t, apperrors.IsNotFound(err))
}

func TestUserRepo_CreateNil(t *testing.T) {
	repo := setupTestRepo(t)

	assert.EqualError(t, repo.Create(context.Background(), nil), "user cannot be nil")
}

func TestUserRepo_DatabaseFailureIsInternal(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	sqlDB, err := repo.db.DB()
	require.NoError(t, err)
	require.NoError(t, sqlDB.Close())

	_, err = repo.List(ctx)
	require.Error(t, err)
	var ie *apperrors.InternalError
	assert.True(t, errors.As(err, &ie))
	assert.Equal(t, http.StatusInternalServerError, apperrors.StatusOf(err))

	_, err = repo.GetByID(ctx, 1)
	assert.False(t, apperrors.IsNotFound(err))
	assert.True(t, errors.As(err, &ie))

	err = repo.Delete(ctx, 1)
	assert.True(t, errors.As(err, &ie))
}
