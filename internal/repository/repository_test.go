package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/oggyb/sparkmatch/internal/db"
	"github.com/oggyb/sparkmatch/internal/repository"
)

// setup in-memory DB
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	database, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		NowFunc:        func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		TranslateError: true,
	})
	if err != nil {
		t.Fatalf("failed to open sqlite: %v", err)
	}
	if err := database.AutoMigrate(&db.User{}, &db.LikeEdge{}, &db.BlockEntry{}); err != nil {
		t.Fatalf("failed to migrate: %v", err)
	}
	return database
}

func seedUsers(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	users := []db.User{
		{ID: 1, FullName: "Tu", Email: "tu@test.com", PasswordHash: "x", Age: "21", Gender: "male", City: "Hanoi"},
		{ID: 2, FullName: "Lan", Email: "lan@test.com", PasswordHash: "x", Age: "20", Gender: "female", City: "Ho Chi Minh City"},
		{ID: 3, FullName: "Huy", Email: "huy@test.com", PasswordHash: "x", Age: "23", Gender: "male", City: "Da Nang"},
	}
	require.NoError(t, gdb.Create(&users).Error)
}

func TestCreateUserDuplicateEmail(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupTestDB(t))

	first := db.User{FullName: "Lan", Email: "lan@x.com", PasswordHash: "h"}
	require.NoError(t, repo.Create(ctx, &first))
	assert.NotZero(t, first.ID)

	dup := db.User{FullName: "Other Lan", Email: "lan@x.com", PasswordHash: "h"}
	err := repo.Create(ctx, &dup)
	assert.ErrorIs(t, err, gorm.ErrDuplicatedKey)

	all, err := repo.All(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestUpdateMergesOnlyProvidedFields(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUsers(t, gdb)
	repo := repository.NewUserRepository(gdb)

	city := "Hue"
	bio := "new bio"
	updated, err := repo.Update(ctx, 1, db.ProfileUpdate{City: &city, Bio: &bio})
	require.NoError(t, err)

	assert.Equal(t, "Hue", updated.City)
	assert.Equal(t, "new bio", updated.Bio)
	// untouched fields keep their prior value
	assert.Equal(t, "Tu", updated.FullName)
	assert.Equal(t, "21", updated.Age)
	assert.Equal(t, "tu@test.com", updated.Email)
}

func TestUpdateEmptyPatchIsNoop(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUsers(t, gdb)
	repo := repository.NewUserRepository(gdb)

	got, err := repo.Update(ctx, 2, db.ProfileUpdate{})
	require.NoError(t, err)
	assert.Equal(t, "Lan", got.FullName)
}

func TestUpdateMissingUser(t *testing.T) {
	ctx := context.Background()
	repo := repository.NewUserRepository(setupTestDB(t))

	name := "Ghost"
	_, err := repo.Update(ctx, 99, db.ProfileUpdate{FullName: &name})
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestCandidatesForExcludesViewer(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUsers(t, gdb)
	repo := repository.NewUserRepository(gdb)

	candidates, err := repo.CandidatesFor(ctx, 1)
	require.NoError(t, err)
	require.Len(t, candidates, 2)
	assert.Equal(t, uint64(2), candidates[0].ID)
	assert.Equal(t, uint64(3), candidates[1].ID)
}

func TestLikeIsIdempotent(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUsers(t, gdb)
	repo := repository.NewLikeRepository(gdb)

	require.NoError(t, repo.Like(ctx, 1, 2))
	require.NoError(t, repo.Like(ctx, 1, 2))

	count, err := repo.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)
}

func TestListLikedDirectoryOrder(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUsers(t, gdb)
	repo := repository.NewLikeRepository(gdb)

	// like in reverse directory order
	require.NoError(t, repo.Like(ctx, 1, 3))
	require.NoError(t, repo.Like(ctx, 1, 2))

	liked, err := repo.ListLiked(ctx, 1)
	require.NoError(t, err)
	require.Len(t, liked, 2)
	assert.Equal(t, uint64(2), liked[0].ID)
	assert.Equal(t, uint64(3), liked[1].ID)
}

func TestRemoveLike(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUsers(t, gdb)
	repo := repository.NewLikeRepository(gdb)

	require.NoError(t, repo.Like(ctx, 1, 2))
	require.NoError(t, repo.Remove(ctx, 1, 2))

	has, err := repo.Has(ctx, 1, 2)
	require.NoError(t, err)
	assert.False(t, has)

	// removing again is harmless
	assert.NoError(t, repo.Remove(ctx, 1, 2))
}

func TestBlockIdempotentAndScoped(t *testing.T) {
	ctx := context.Background()
	gdb := setupTestDB(t)
	seedUsers(t, gdb)
	repo := repository.NewBlockRepository(gdb)

	require.NoError(t, repo.Block(ctx, 1, 3))
	require.NoError(t, repo.Block(ctx, 1, 3))

	set, err := repo.BlockedSet(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, set, 1)
	_, ok := set[3]
	assert.True(t, ok)

	// another viewer's set is untouched
	other, err := repo.BlockedSet(ctx, 2)
	require.NoError(t, err)
	assert.Empty(t, other)
}
