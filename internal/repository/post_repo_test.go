package repository_test

import (
	"context"
	"testing"
	"time"

	"github.com/harrygamon/Socials/internal/db"
	"github.com/harrygamon/Socials/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedPosts(t *testing.T, dbase *gorm.DB) []db.Post {
	t.Helper()
	now := time.Now().UTC().Truncate(time.Millisecond)
	posts := []db.Post{
		{AuthorID: 1, Content: "oldest", CreatedAt: now.Add(-40 * 24 * time.Hour)},
		{AuthorID: 1, Content: "old image", MediaURLs: []string{"https://x/a.jpg"}, CreatedAt: now.Add(-10 * 24 * time.Hour)},
		{AuthorID: 2, Content: "fresh text", CreatedAt: now.Add(-2 * time.Hour)},
		{AuthorID: 2, Content: "fresh image", MediaURLs: []string{"https://x/b.jpg"}, CreatedAt: now.Add(-time.Hour)},
	}
	for i := range posts {
		require.NoError(t, dbase.Create(&posts[i]).Error)
	}
	return posts
}

func TestListPaginatesNewestFirst(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewPostRepository(dbase)
	seedPosts(t, dbase)

	page1, next, err := repo.List(ctx, nil, 2)
	require.NoError(t, err)
	require.Len(t, page1, 2)
	require.NotNil(t, next)
	assert.Equal(t, "fresh image", page1[0].Content)
	assert.Equal(t, "fresh text", page1[1].Content)

	page2, next, err := repo.List(ctx, next, 2)
	require.NoError(t, err)
	require.Len(t, page2, 2)
	assert.Nil(t, next)
	assert.Equal(t, "old image", page2[0].Content)
	assert.Equal(t, "oldest", page2[1].Content)
}

func TestListRejectsGarbageCursor(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewPostRepository(dbase)

	bad := "not-a-cursor"
	_, _, err := repo.List(ctx, &bad, 2)
	assert.Error(t, err)
}

func TestRecentCandidatesFilters(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewPostRepository(dbase)
	seedPosts(t, dbase)

	now := time.Now()

	// text only
	posts, err := repo.RecentCandidates(ctx, time.Time{}, true, false, 20)
	require.NoError(t, err)
	require.Len(t, posts, 2)
	for _, p := range posts {
		assert.Empty(t, p.MediaURLs)
	}

	// image only within a week
	posts, err = repo.RecentCandidates(ctx, now.Add(-7*24*time.Hour), false, true, 20)
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "fresh image", posts[0].Content)

	// cap wins over candidate volume
	posts, err = repo.RecentCandidates(ctx, time.Time{}, false, false, 3)
	require.NoError(t, err)
	assert.Len(t, posts, 3)
	assert.Equal(t, "fresh image", posts[0].Content)
}
