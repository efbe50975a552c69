package engagement

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/harrygamon/Socials/internal/app"
	"github.com/harrygamon/Socials/internal/db"
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/notify"
	"github.com/harrygamon/Socials/internal/repository"

	"gorm.io/gorm"
)

// maxCommentLength caps comment bodies, matching the direct-message cap.
const maxCommentLength = 2000

// Service implements the engagement ledger: like toggles and comments
// against posts, with realtime events published after each commit.
type Service struct {
	appCtx      *app.AppContext
	likeRepo    *repository.LikeRepository
	commentRepo *repository.CommentRepository
	postRepo    *repository.PostRepository
	userRepo    *repository.UserRepository
}

// NewService creates an engagement service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		likeRepo:    repository.NewLikeRepository(appCtx.DB),
		commentRepo: repository.NewCommentRepository(appCtx.DB),
		postRepo:    repository.NewPostRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
	}
}

// LikeResult reports the new state after a toggle.
type LikeResult struct {
	Liked     bool  `json:"liked"`
	LikeCount int64 `json:"likeCount"`
}

// ToggleLike flips the caller's like on a post.
//
// Behavior:
//   - Existing edge → deleted, Liked=false. No edge → created, Liked=true.
//   - The total is recounted from Like rows on every call; the Redis copy
//     is a read-side cache only.
//   - Publishes "like-updated" on the post's channel with the new count.
func (s *Service) ToggleLike(ctx context.Context, userID, postID uint64) (*LikeResult, error) {
	if postID == 0 {
		return nil, apierr.InvalidRequest("post id is required")
	}
	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("post not found")
		}
		return nil, err
	}

	liked, err := s.likeRepo.Toggle(ctx, userID, postID)
	if err != nil {
		s.appCtx.Logger.Error("toggle like failed", "user", userID, "post", postID, "err", err)
		return nil, err
	}

	count, err := s.likeRepo.CountForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	if err := s.appCtx.RedisCache.SetPostLikeCount(ctx, postID, count); err != nil {
		s.appCtx.Logger.Warn("like count cache update failed", "post", postID, "err", err)
	}

	s.appCtx.Notifier.Publish(ctx, notify.PostChannel(postID), "like-updated", map[string]any{
		"postId":    postID,
		"likeCount": count,
	})

	return &LikeResult{Liked: liked, LikeCount: count}, nil
}

// CommentAuthor is the commenting user's public identity.
type CommentAuthor struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// CommentView is a comment with its author embedded.
type CommentView struct {
	ID        uint64        `json:"id"`
	PostID    uint64        `json:"postId"`
	Content   string        `json:"content"`
	CreatedAt time.Time     `json:"createdAt"`
	User      CommentAuthor `json:"user"`
}

// AddComment appends a comment to a post.
//
// Behavior:
//   - Content must be non-empty after trimming and at most 2000 chars.
//   - Publishes "new-comment" on the post's channel carrying the full
//     comment view.
func (s *Service) AddComment(ctx context.Context, userID, postID uint64, content string) (*CommentView, error) {
	if postID == 0 {
		return nil, apierr.InvalidRequest("post id is required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierr.InvalidRequest("content is required")
	}
	if len(content) > maxCommentLength {
		return nil, apierr.InvalidRequest("content exceeds 2000 characters")
	}

	if _, err := s.postRepo.GetByID(ctx, postID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("post not found")
		}
		return nil, err
	}

	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		return nil, err
	}

	comment := &db.Comment{PostID: postID, UserID: userID, Content: content}
	if err := s.commentRepo.Create(ctx, comment); err != nil {
		s.appCtx.Logger.Error("add comment failed", "user", userID, "post", postID, "err", err)
		return nil, err
	}

	view := &CommentView{
		ID:        comment.ID,
		PostID:    comment.PostID,
		Content:   comment.Content,
		CreatedAt: comment.CreatedAt,
		User:      CommentAuthor{ID: user.ID, Name: user.Name, Image: user.Image},
	}

	s.appCtx.Notifier.Publish(ctx, notify.PostChannel(postID), "new-comment", view)

	return view, nil
}

// Comments returns a post's comments in ascending creation order with
// authors embedded.
func (s *Service) Comments(ctx context.Context, postID uint64) ([]CommentView, error) {
	if postID == 0 {
		return nil, apierr.InvalidRequest("post id is required")
	}

	comments, err := s.commentRepo.ListForPost(ctx, postID)
	if err != nil {
		return nil, err
	}

	userIDs := make([]uint64, 0, len(comments))
	for _, c := range comments {
		userIDs = append(userIDs, c.UserID)
	}
	users, err := s.userRepo.GetManyByIDs(ctx, userIDs)
	if err != nil {
		return nil, err
	}

	views := make([]CommentView, 0, len(comments))
	for _, c := range comments {
		u := users[c.UserID]
		views = append(views, CommentView{
			ID:        c.ID,
			PostID:    c.PostID,
			Content:   c.Content,
			CreatedAt: c.CreatedAt,
			User:      CommentAuthor{ID: u.ID, Name: u.Name, Image: u.Image},
		})
	}
	return views, nil
}

// LikeCount returns a post's like count, cache-first with DB fallback.
func (s *Service) LikeCount(ctx context.Context, postID uint64) (int64, error) {
	if count, ok, err := s.appCtx.RedisCache.GetPostLikeCount(ctx, postID); err == nil && ok {
		return count, nil
	}

	count, err := s.likeRepo.CountForPost(ctx, postID)
	if err != nil {
		return 0, err
	}
	if err := s.appCtx.RedisCache.SetPostLikeCount(ctx, postID, count); err != nil {
		s.appCtx.Logger.Warn("like count cache update failed", "post", postID, "err", err)
	}
	return count, nil
}
