package profile_test

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
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/notify"
	"github.com/harrygamon/Socials/internal/service/profile"
)

func setupService(t *testing.T) (*profile.Service, *gorm.DB) {
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
		{ID: 1, Name: "alice", Email: "a@test.com", PasswordHash: "x", Bio: "hi", Onboarded: true},
		{ID: 2, Name: "bob", Email: "b@test.com", PasswordHash: "x"},
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

	return profile.NewService(app.New(dbase, redisCache, notifier, logger)), dbase
}

func TestMeIncludesEmailGetDoesNot(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	require.NoError(t, dbase.Create(&db.Post{ID: 1, AuthorID: 1, Content: "first"}).Error)

	me, err := svc.Me(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "a@test.com", me.Email)
	require.Len(t, me.Posts, 1)
	assert.Equal(t, "first", me.Posts[0].Content)

	public, err := svc.Get(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, public.Email)
	assert.Equal(t, "alice", public.Name)

	_, err = svc.Get(ctx, 99)
	require.Error(t, err)
	assert.Equal(t, 404, apierr.Map(err).Status)
}

func TestUpdateAppliesFieldsAndOnboards(t *testing.T) {
	ctx := context.Background()
	svc, dbase := setupService(t)

	name := "robert"
	age := 30
	view, err := svc.Update(ctx, 2, profile.Edit{Name: &name, Age: &age})
	require.NoError(t, err)
	assert.Equal(t, "robert", view.Name)
	assert.Equal(t, 30, view.Age)
	// untouched fields survive
	assert.Equal(t, "b@test.com", view.Email)

	var user db.User
	require.NoError(t, dbase.First(&user, 2).Error)
	assert.True(t, user.Onboarded)
}

func TestUpdateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _ := setupService(t)

	empty := ""
	_, err := svc.Update(ctx, 1, profile.Edit{Name: &empty})
	require.Error(t, err)
	assert.Equal(t, 400, apierr.Map(err).Status)

	minor := 17
	_, err = svc.Update(ctx, 1, profile.Edit{Age: &minor})
	require.Error(t, err)
	assert.Equal(t, 400, apierr.Map(err).Status)
}
