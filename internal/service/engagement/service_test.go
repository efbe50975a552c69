package engagement_test

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"
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
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/notify"
	"github.com/harrygamon/Socials/internal/service/engagement"
)

func setupService(t *testing.T) (*engagement.Service, *cache.RedisCache) {
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
	}
	require.NoError(t, dbase.Create(&users).Error)
	require.NoError(t, dbase.Create(&db.Post{ID: 1, AuthorID: 1, Content: "hello"}).Error)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	notifier := notify.NewNotifier(redisCache.Client, logger)

	appCtx := app.New(dbase, redisCache, notifier, logger)
	return engagement.NewService(appCtx), redisCache
}

func TestToggleLikeFlipsState(t *testing.T) {
	ctx := context.Background()
	svc, redisCache := setupService(t)

	res, err := svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.True(t, res.Liked)
	assert.Equal(t, int64(1), res.LikeCount)

	// cache should reflect the fresh count
	count, ok, err := redisCache.GetPostLikeCount(ctx, 1)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, int64(1), count)

	res, err = svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)
	assert.False(t, res.Liked)
	assert.Equal(t, int64(0), res.LikeCount)
}

func TestToggleLikeMissingPost(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.ToggleLike(ctx, 2, 99)
	require.Error(t, err)
	assert.Equal(t, 404, apierr.Map(err).Status)
}

func TestAddCommentValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	_, err := svc.AddComment(ctx, 2, 1, "   ")
	require.Error(t, err)
	assert.Equal(t, 400, apierr.Map(err).Status)

	_, err = svc.AddComment(ctx, 2, 1, strings.Repeat("a", 2001))
	require.Error(t, err)
	assert.Equal(t, 400, apierr.Map(err).Status)

	_, err = svc.AddComment(ctx, 2, 99, "hi")
	require.Error(t, err)
	assert.Equal(t, 404, apierr.Map(err).Status)
}

func TestCommentsAppendInOrder(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	first, err := svc.AddComment(ctx, 1, 1, "first")
	require.NoError(t, err)
	assert.Equal(t, "alice", first.User.Name)

	second, err := svc.AddComment(ctx, 2, 1, "second")
	require.NoError(t, err)

	views, err := svc.Comments(ctx, 1)
	require.NoError(t, err)
	require.Len(t, views, 2)
	assert.Equal(t, first.ID, views[0].ID)
	assert.Equal(t, second.ID, views[1].ID)
	assert.Equal(t, "bob", views[1].User.Name)
}

func TestLikeCountFallsBackToDB(t *testing.T) {
	ctx := context.Background()
	svc, redisCache := setupService(t)

	_, err := svc.ToggleLike(ctx, 1, 1)
	require.NoError(t, err)
	_, err = svc.ToggleLike(ctx, 2, 1)
	require.NoError(t, err)

	// drop the cached value: the count must be rebuilt from Like rows
	require.NoError(t, redisCache.Client.Del(ctx, redisCache.KeyForPostLikeCount(1)).Err())

	count, err := svc.LikeCount(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
}
