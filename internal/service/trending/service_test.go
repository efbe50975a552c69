package trending_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/harrygamon/Socials/internal/app"
	"github.com/harrygamon/Socials/internal/cache"
	"github.com/harrygamon/Socials/internal/config"
	"github.com/harrygamon/Socials/internal/db"
	"github.com/harrygamon/Socials/internal/notify"
	"github.com/harrygamon/Socials/internal/service/trending"
)

func setupService(t *testing.T) (*trending.Service, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
		TranslateError:         true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(db.Models()...))

	users := []db.User{
		{ID: 1, Name: "alice", Email: "a@test.com", PasswordHash: "x", Onboarded: true},
		{ID: 2, Name: "bob", Email: "b@test.com", PasswordHash: "x", Onboarded: true},
		{ID: 3, Name: "cara", Email: "c@test.com", PasswordHash: "x", Onboarded: true},
	}
	require.NoError(t, dbase.Create(&users).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notify.NewNotifier(redisCache.Client, logger)

	appCtx := app.New(dbase, redisCache, notifier, logger)
	return trending.NewService(appCtx), dbase
}

func createPost(t *testing.T, dbase *gorm.DB, id, authorID uint64, age time.Duration, media []string) {
	t.Helper()
	post := db.Post{ID: id, AuthorID: authorID, Content: fmt.Sprintf("post %d", id), MediaURLs: media}
	require.NoError(t, dbase.Create(&post).Error)
	createdAt := time.Now().UTC().Add(-age).Truncate(time.Millisecond)
	require.NoError(t, dbase.Model(&db.Post{}).Where("id = ?", id).Update("created_at", createdAt).Error)
}

func likePost(t *testing.T, dbase *gorm.DB, userID, postID uint64) {
	t.Helper()
	require.NoError(t, dbase.Create(&db.Like{UserID: userID, PostID: postID}).Error)
}

func commentPost(t *testing.T, dbase *gorm.DB, userID, postID uint64, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, dbase.Create(&db.Comment{PostID: postID, UserID: userID, Content: "c"}).Error)
	}
}

func TestRankOrdersByEngagement(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	// post 1: 3 likes + 2 comments, post 2: 1 like + 1 comment
	createPost(t, dbase, 1, 1, time.Hour, nil)
	createPost(t, dbase, 2, 2, time.Hour, nil)
	likePost(t, dbase, 1, 1)
	likePost(t, dbase, 2, 1)
	likePost(t, dbase, 3, 1)
	commentPost(t, dbase, 2, 1, 2)
	likePost(t, dbase, 1, 2)
	commentPost(t, dbase, 1, 2, 1)

	ranked, err := svc.Rank(ctx, trending.WindowRecent, trending.ContentAny)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, uint64(1), ranked[0].ID)
	assert.Equal(t, int64(3), ranked[0].Likes)
	assert.Equal(t, int64(2), ranked[0].CommentsCount)
	assert.Equal(t, uint64(2), ranked[1].ID)
	assert.Equal(t, "alice", ranked[0].Author.Name)
}

func TestRankWindowExcludesOldPosts(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	createPost(t, dbase, 1, 1, time.Hour, nil)
	createPost(t, dbase, 2, 2, 10*24*time.Hour, nil)
	likePost(t, dbase, 1, 2)

	ranked, err := svc.Rank(ctx, trending.WindowWeek, trending.ContentAny)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, uint64(1), ranked[0].ID)

	// no window: both qualify, the liked one first
	ranked, err = svc.Rank(ctx, trending.WindowNone, trending.ContentAny)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, uint64(2), ranked[0].ID)
}

func TestRankContentTypeFilters(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	createPost(t, dbase, 1, 1, time.Hour, nil)
	createPost(t, dbase, 2, 2, time.Hour, []string{"https://img.test/a.jpg"})

	ranked, err := svc.Rank(ctx, trending.WindowNone, trending.ContentImage)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, uint64(2), ranked[0].ID)
	assert.NotEmpty(t, ranked[0].MediaURLs)

	ranked, err = svc.Rank(ctx, trending.WindowNone, trending.ContentText)
	require.NoError(t, err)
	require.Len(t, ranked, 1)
	assert.Equal(t, uint64(1), ranked[0].ID)
	assert.NotNil(t, ranked[0].MediaURLs)
	assert.Empty(t, ranked[0].MediaURLs)
}

func TestRankTieKeepsNewestFirst(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	createPost(t, dbase, 1, 1, 2*time.Hour, nil)
	createPost(t, dbase, 2, 2, time.Hour, nil)
	likePost(t, dbase, 3, 1)
	likePost(t, dbase, 3, 2)

	ranked, err := svc.Rank(ctx, trending.WindowNone, trending.ContentAny)
	require.NoError(t, err)
	require.Len(t, ranked, 2)
	assert.Equal(t, uint64(2), ranked[0].ID)
	assert.Equal(t, uint64(1), ranked[1].ID)
}

func TestParseWindowAndContentType(t *testing.T) {
	w, err := trending.ParseWindow("week")
	require.NoError(t, err)
	assert.Equal(t, trending.WindowWeek, w)

	_, err = trending.ParseWindow("fortnight")
	require.Error(t, err)

	ct, err := trending.ParseContentType("image")
	require.NoError(t, err)
	assert.Equal(t, trending.ContentImage, ct)

	_, err = trending.ParseContentType("video")
	require.Error(t, err)
}
