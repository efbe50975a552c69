package trending

import (
	"context"
	"sort"
	"time"

	"github.com/harrygamon/Socials/internal/app"
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/repository"
)

// Window filters candidates and engagement counts by age.
type Window string

const (
	WindowNone   Window = ""
	WindowRecent Window = "recent" // 3 days
	WindowWeek   Window = "week"   // 7 days
	WindowMonth  Window = "month"  // 30 days
)

// ContentType filters candidates by media presence.
type ContentType string

const (
	ContentAny   ContentType = ""
	ContentText  ContentType = "text"  // empty media list
	ContentImage ContentType = "image" // non-empty media list
)

const (
	// candidateLimit caps the newest-first candidate set before scoring.
	// Older highly-engaged posts beyond it can never rank; that bound is
	// kept on purpose as a cost cap.
	candidateLimit = 20
	resultLimit    = 10
)

// Service implements the trending ranker. Pure reads: identical inputs
// over unchanged data always produce identical output.
type Service struct {
	appCtx      *app.AppContext
	postRepo    *repository.PostRepository
	likeRepo    *repository.LikeRepository
	commentRepo *repository.CommentRepository
	userRepo    *repository.UserRepository
}

// NewService creates a trending service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:      appCtx,
		postRepo:    repository.NewPostRepository(appCtx.DB),
		likeRepo:    repository.NewLikeRepository(appCtx.DB),
		commentRepo: repository.NewCommentRepository(appCtx.DB),
		userRepo:    repository.NewUserRepository(appCtx.DB),
	}
}

// ParseWindow validates a window query value.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowNone, WindowRecent, WindowWeek, WindowMonth:
		return Window(s), nil
	}
	return WindowNone, apierr.InvalidRequest("date must be one of recent, week, month")
}

// ParseContentType validates a contentType query value.
func ParseContentType(s string) (ContentType, error) {
	switch ContentType(s) {
	case ContentAny, ContentText, ContentImage:
		return ContentType(s), nil
	}
	return ContentAny, apierr.InvalidRequest("contentType must be text or image")
}

// Since converts the window into its cutoff instant. Zero time means no
// cutoff.
func (w Window) Since(now time.Time) time.Time {
	switch w {
	case WindowRecent:
		return now.Add(-3 * 24 * time.Hour)
	case WindowWeek:
		return now.Add(-7 * 24 * time.Hour)
	case WindowMonth:
		return now.Add(-30 * 24 * time.Hour)
	}
	return time.Time{}
}

// Author is the post author's public identity.
type Author struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// RankedPost is a candidate annotated with its computed engagement,
// not any cached counter.
type RankedPost struct {
	ID            uint64    `json:"id"`
	Content       string    `json:"content"`
	MediaURLs     []string  `json:"mediaUrls"`
	CreatedAt     time.Time `json:"createdAt"`
	Author        Author    `json:"author"`
	Likes         int64     `json:"likes"`
	CommentsCount int64     `json:"commentsCount"`
}

func (p RankedPost) score() int64 { return p.Likes + p.CommentsCount }

// Rank returns the top posts by engagement score within a window.
//
// Behavior:
//   - Candidates: the newest posts passing the window and content-type
//     filters, capped before scoring.
//   - Score: windowed like count + windowed comment count.
//   - Stable sort descending, so ties keep the newest-first candidate
//     order. At most 10 results.
func (s *Service) Rank(ctx context.Context, window Window, contentType ContentType) ([]RankedPost, error) {
	now := time.Now()
	since := window.Since(now)

	posts, err := s.postRepo.RecentCandidates(
		ctx,
		since,
		contentType == ContentText,
		contentType == ContentImage,
		candidateLimit,
	)
	if err != nil {
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

	ranked := make([]RankedPost, 0, len(posts))
	for _, p := range posts {
		likes, err := s.likeRepo.CountForPostSince(ctx, p.ID, since)
		if err != nil {
			return nil, err
		}
		comments, err := s.commentRepo.CountForPostSince(ctx, p.ID, since)
		if err != nil {
			return nil, err
		}

		a := authors[p.AuthorID]
		media := p.MediaURLs
		if media == nil {
			media = []string{}
		}
		ranked = append(ranked, RankedPost{
			ID:            p.ID,
			Content:       p.Content,
			MediaURLs:     media,
			CreatedAt:     p.CreatedAt,
			Author:        Author{ID: a.ID, Name: a.Name, Image: a.Image},
			Likes:         likes,
			CommentsCount: comments,
		})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score() > ranked[j].score()
	})

	if len(ranked) > resultLimit {
		ranked = ranked[:resultLimit]
	}
	return ranked, nil
}
