package sqlite

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"bookmarksapi/pkg/core/domain"
)

// setupTestRepo creates a repository backed by a throwaway database file.
// The busy timeout keeps concurrent writers waiting instead of erroring.
func setupTestRepo(t *testing.T) *SQLiteRepository {
	t.Helper()

	dbURL := "file:" + filepath.Join(t.TempDir(), "test.db") + "?_pragma=busy_timeout(10000)"
	repo, err := NewSQLiteRepository(dbURL)
	require.NoError(t, err, "failed to open test database")

	t.Cleanup(func() {
		assert.NoError(t, repo.Close())
	})
	return repo
}

func testUser(username, email string) *domain.User {
	now := time.Now().UTC()
	return &domain.User{
		Username:  username,
		Email:     email,
		Password:  "hashed",
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func testBookmark(userID int64, url, code string) *domain.Bookmark {
	now := time.Now().UTC()
	return &domain.Bookmark{
		UserID:    userID,
		URL:       url,
		Body:      "note",
		ShortURL:  code,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

func TestUserUniqueConstraints(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.CreateUser(ctx, testUser("alice", "alice@x.com")))

	err := repo.CreateUser(ctx, testUser("bob", "alice@x.com"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	err = repo.CreateUser(ctx, testUser("alice", "other@x.com"))
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestGetUserLookups(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	user := testUser("alice", "alice@x.com")
	require.NoError(t, repo.CreateUser(ctx, user))
	require.NotZero(t, user.ID)

	byID, err := repo.GetUserByID(ctx, user.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "alice", byID.Username)

	byEmail, err := repo.GetUserByEmail(ctx, "alice@x.com")
	require.NoError(t, err)
	require.NotNil(t, byEmail)
	assert.Equal(t, user.ID, byEmail.ID)

	missing, err := repo.GetUserByUsername(ctx, "nobody")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestShortCodeUniqueIndex(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testBookmark(1, "https://example.com", "abc")))

	// Same code, different url and owner: the index must reject it.
	err := repo.Create(ctx, testBookmark(2, "https://example.org", "abc"))
	assert.ErrorIs(t, err, domain.ErrConflict)

	// A fresh code goes through.
	require.NoError(t, repo.Create(ctx, testBookmark(2, "https://example.org", "xyz")))
}

func TestOwnerScopedAccess(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	b := testBookmark(1, "https://example.com", "abc")
	require.NoError(t, repo.Create(ctx, b))

	got, err := repo.GetByID(ctx, b.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "https://example.com", got.URL)

	// Wrong owner looks identical to a missing row.
	foreign, err := repo.GetByID(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.Nil(t, foreign)

	deleted, err := repo.Delete(ctx, b.ID, 2)
	require.NoError(t, err)
	assert.False(t, deleted)

	deleted, err = repo.Delete(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.True(t, deleted)

	gone, err := repo.GetByID(ctx, b.ID, 1)
	require.NoError(t, err)
	assert.Nil(t, gone)
}

func TestDeletedCodeBecomesReusable(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	b := testBookmark(1, "https://example.com", "abc")
	require.NoError(t, repo.Create(ctx, b))

	deleted, err := repo.Delete(ctx, b.ID, 1)
	require.NoError(t, err)
	require.True(t, deleted)

	// Hard delete frees the code for future generation.
	require.NoError(t, repo.Create(ctx, testBookmark(2, "https://example.org", "abc")))
}

func TestListAndCount(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testBookmark(1, "https://example.com/1", "aa1")))
	require.NoError(t, repo.Create(ctx, testBookmark(1, "https://example.com/2", "aa2")))
	require.NoError(t, repo.Create(ctx, testBookmark(2, "https://example.com/3", "aa3")))

	mine, err := repo.List(ctx, 1, 10, 0)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	count, err := repo.Count(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	paged, err := repo.List(ctx, 1, 1, 1)
	require.NoError(t, err)
	assert.Len(t, paged, 1)

	theirs, err := repo.Count(ctx, 3)
	require.NoError(t, err)
	assert.Zero(t, theirs)
}

func TestIncrementVisitsConcurrent(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	b := testBookmark(1, "https://example.com", "abc")
	require.NoError(t, repo.Create(ctx, b))

	const n = 20
	var wg sync.WaitGroup
	errs := make(chan error, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- repo.IncrementVisits(ctx, b.ID)
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		require.NoError(t, err)
	}

	got, err := repo.GetByID(ctx, b.ID, 1)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, int64(n), got.Visits, "no lost updates under concurrent redirects")
}

func TestStats(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	b1 := testBookmark(1, "https://example.com/1", "aa1")
	b2 := testBookmark(1, "https://example.com/2", "aa2")
	require.NoError(t, repo.Create(ctx, b1))
	require.NoError(t, repo.Create(ctx, b2))
	require.NoError(t, repo.IncrementVisits(ctx, b2.ID))

	stats, err := repo.Stats(ctx, 1)
	require.NoError(t, err)
	require.Len(t, stats, 2)

	// Ordered by visits, most visited first.
	assert.Equal(t, b2.ID, stats[0].ID)
	assert.Equal(t, int64(1), stats[0].Visits)
	assert.Equal(t, "aa2", stats[0].ShortURL)
	assert.Equal(t, b1.ID, stats[1].ID)
	assert.Equal(t, int64(0), stats[1].Visits)
}

func TestDump(t *testing.T) {
	repo := setupTestRepo(t)
	ctx := context.Background()

	require.NoError(t, repo.Create(ctx, testBookmark(1, "https://example.com/1", "aa1")))
	require.NoError(t, repo.Create(ctx, testBookmark(2, "https://example.com/2", "aa2")))

	all, err := repo.Dump(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, int64(1), all[0].UserID)
	assert.Equal(t, int64(2), all[1].UserID)
}
