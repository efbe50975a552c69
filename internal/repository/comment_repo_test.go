package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/harrygamon/Socials/internal/db"
	"github.com/harrygamon/Socials/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestListForPostAscendingWithStableTiebreak(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewCommentRepository(dbase)

	ts := time.Now().UTC().Truncate(time.Second)

	// two comments share a timestamp; insertion order must hold
	first := db.Comment{PostID: 1, UserID: 1, Content: "first", CreatedAt: ts}
	second := db.Comment{PostID: 1, UserID: 2, Content: "second", CreatedAt: ts}
	later := db.Comment{PostID: 1, UserID: 3, Content: "later", CreatedAt: ts.Add(time.Minute)}
	other := db.Comment{PostID: 2, UserID: 1, Content: "other post", CreatedAt: ts}

	for _, c := range []*db.Comment{&first, &second, &later, &other} {
		require.NoError(t, repo.Create(ctx, c))
	}

	comments, err := repo.ListForPost(ctx, 1)
	require.NoError(t, err)
	require.Len(t, comments, 3)
	assert.Equal(t, "first", comments[0].Content)
	assert.Equal(t, "second", comments[1].Content)
	assert.Equal(t, "later", comments[2].Content)
}

func TestCommentCountWindow(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewCommentRepository(dbase)

	now := time.Now().UTC().Truncate(time.Millisecond)
	require.NoError(t, repo.Create(ctx, &db.Comment{PostID: 1, UserID: 1, Content: "old", CreatedAt: now.Add(-8 * 24 * time.Hour)}))
	require.NoError(t, repo.Create(ctx, &db.Comment{PostID: 1, UserID: 2, Content: "new", CreatedAt: now.Add(-time.Hour)}))

	count, err := repo.CountForPostSince(ctx, 1, now.Add(-7*24*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	count, err = repo.CountForPostSince(ctx, 1, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
