package feed

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/harrygamon/Socials/internal/app"
	"github.com/harrygamon/Socials/internal/db"
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/repository"
	"github.com/harrygamon/Socials/internal/utils/pagination"

	"gorm.io/gorm"
)

const defaultPageSize = 10

// Service implements the post feed: creation, retrieval, deletion and
// newest-first pagination.
type Service struct {
	appCtx   *app.AppContext
	postRepo *repository.PostRepository
	userRepo *repository.UserRepository
}

// NewService creates a feed service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		postRepo: repository.NewPostRepository(appCtx.DB),
		userRepo: repository.NewUserRepository(appCtx.DB),
	}
}

// Author is the post author's public identity.
type Author struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// PostView is a post with its author embedded.
type PostView struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	MediaURLs []string  `json:"mediaUrls"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
}

func toView(p db.Post, author db.User) PostView {
	media := p.MediaURLs
	if media == nil {
		media = []string{}
	}
	return PostView{
		ID:        p.ID,
		Content:   p.Content,
		MediaURLs: media,
		CreatedAt: p.CreatedAt,
		Author:    Author{ID: author.ID, Name: author.Name, Image: author.Image},
	}
}

// CreatePost inserts a post for the author. Content is mandatory; media
// may be empty (text-only post).
func (s *Service) CreatePost(ctx context.Context, authorID uint64, content string, mediaURLs []string) (*PostView, error) {
	if strings.TrimSpace(content) == "" {
		return nil, apierr.InvalidRequest("content is required")
	}
	for _, u := range mediaURLs {
		if strings.TrimSpace(u) == "" {
			return nil, apierr.InvalidRequest("media urls must be non-empty strings")
		}
	}

	author, err := s.userRepo.GetByID(ctx, authorID)
	if err != nil {
		return nil, err
	}

	post := &db.Post{AuthorID: authorID, Content: content, MediaURLs: mediaURLs}
	if err := s.postRepo.Create(ctx, post); err != nil {
		s.appCtx.Logger.Error("create post failed", "author", authorID, "err", err)
		return nil, err
	}

	view := toView(*post, *author)
	return &view, nil
}

// GetPost fetches one post with its author.
func (s *Service) GetPost(ctx context.Context, postID uint64) (*PostView, error) {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("post not found")
		}
		return nil, err
	}

	author, err := s.userRepo.GetByID(ctx, post.AuthorID)
	if err != nil {
		return nil, err
	}

	view := toView(*post, *author)
	return &view, nil
}

// Page is one page of the feed plus the cursor for the next one.
type Page struct {
	Posts      []PostView `json:"posts"`
	NextCursor *string    `json:"nextCursor,omitempty"`
}

// ListPosts pages through the feed newest-first.
func (s *Service) ListPosts(ctx context.Context, cursor *string, limit int) (*Page, error) {
	if limit <= 0 {
		limit = defaultPageSize
	}

	posts, next, err := s.postRepo.List(ctx, cursor, limit)
	if err != nil {
		if errors.Is(err, pagination.ErrInvalidToken) {
			return nil, apierr.InvalidRequest("invalid pagination cursor")
		}
		return nil, err
	}

	authorIDs := make([]uint64, 0, len(posts))
	for _, p := range posts {
		authorIDs = append(authorIDs, p.AuthorID)
	}
	authors, err := s.userRepo.GetManyByIDs(ctx, authorIDs)
	if err != nil {
		return nil, err
	}

	views := make([]PostView, 0, len(posts))
	for _, p := range posts {
		views = append(views, toView(p, authors[p.AuthorID]))
	}
	return &Page{Posts: views, NextCursor: next}, nil
}

// DeletePost removes a post. Only its author may delete it.
func (s *Service) DeletePost(ctx context.Context, callerID, postID uint64) error {
	post, err := s.postRepo.GetByID(ctx, postID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return apierr.NotFound("post not found")
		}
		return err
	}
	if post.AuthorID != callerID {
		return apierr.Forbidden("only the author can delete a post")
	}
	return s.postRepo.Delete(ctx, postID)
}
