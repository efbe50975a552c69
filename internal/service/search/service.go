package search

import (
	"context"
	"strings"
	"time"

	"github.com/harrygamon/Socials/internal/app"
	"github.com/harrygamon/Socials/internal/repository"
	"github.com/harrygamon/Socials/internal/service/trending"
)

// resultLimit caps either kind of search result set.
const resultLimit = 20

// Service implements user and post search. Pure reads over the same
// tables the feed and discovery flows use.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
}

// NewService creates a search service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		postRepo: repository.NewPostRepository(appCtx.DB),
	}
}

// UserResult is a matched user's public identity.
type UserResult struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
	Bio   string `json:"bio,omitempty"`
}

// UserFilter narrows a user search. Zero values mean "no filter".
type UserFilter struct {
	Gender   string
	Location string
	AgeMin   int
	AgeMax   int
}

// Users searches users by name or bio, case-insensitively. A blank query
// returns no results rather than everyone.
func (s *Service) Users(ctx context.Context, query string, filter UserFilter) ([]UserResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []UserResult{}, nil
	}

	users, err := s.userRepo.Search(ctx, query, repository.UserSearchFilter{
		Gender:   filter.Gender,
		Location: filter.Location,
		AgeMin:   filter.AgeMin,
		AgeMax:   filter.AgeMax,
	}, resultLimit)
	if err != nil {
		return nil, err
	}

	results := make([]UserResult, 0, len(users))
	for _, u := range users {
		results = append(results, UserResult{ID: u.ID, Name: u.Name, Image: u.Image, Bio: u.Bio})
	}
	return results, nil
}

// Author is the post author's public identity.
type Author struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// PostResult is a matched post with its author embedded.
type PostResult struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	MediaURLs []string  `json:"mediaUrls"`
	CreatedAt time.Time `json:"createdAt"`
	Author    Author    `json:"author"`
}

// Posts searches post content, newest first, narrowed by the same window
// and content-type filters the trending ranker takes. A blank query
// returns no results.
func (s *Service) Posts(
	ctx context.Context,
	query string,
	window trending.Window,
	contentType trending.ContentType,
) ([]PostResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return []PostResult{}, nil
	}

	posts, err := s.postRepo.SearchByContent(
		ctx,
		query,
		window.Since(time.Now()),
		contentType == trending.ContentText,
		contentType == trending.ContentImage,
		resultLimit,
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

	results := make([]PostResult, 0, len(posts))
	for _, p := range posts {
		a := authors[p.AuthorID]
		media := p.MediaURLs
		if media == nil {
			media = []string{}
		}
		results = append(results, PostResult{
			ID:        p.ID,
			Content:   p.Content,
			MediaURLs: media,
			CreatedAt: p.CreatedAt,
			Author:    Author{ID: a.ID, Name: a.Name, Image: a.Image},
		})
	}
	return results, nil
}
