package profile

import (
	"context"
	"errors"
	"time"

	"github.com/harrygamon/Socials/internal/app"
	"github.com/harrygamon/Socials/internal/db"
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/repository"

	"gorm.io/gorm"
)

// Service implements profile reads and edits. A completed profile edit
// onboards the user, which is what makes them discoverable.
type Service struct {
	appCtx   *app.AppContext
	userRepo *repository.UserRepository
	postRepo *repository.PostRepository
}

// NewService creates a profile service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:   appCtx,
		userRepo: repository.NewUserRepository(appCtx.DB),
		postRepo: repository.NewPostRepository(appCtx.DB),
	}
}

// PostSummary is a post as it appears on a profile page.
type PostSummary struct {
	ID        uint64    `json:"id"`
	Content   string    `json:"content"`
	MediaURLs []string  `json:"mediaUrls"`
	CreatedAt time.Time `json:"createdAt"`
}

// View is a profile with the user's posts attached.
type View struct {
	ID        uint64        `json:"id"`
	Name      string        `json:"name"`
	Email     string        `json:"email,omitempty"`
	Image     string        `json:"image,omitempty"`
	Bio       string        `json:"bio,omitempty"`
	Age       int           `json:"age,omitempty"`
	Gender    string        `json:"gender,omitempty"`
	Location  string        `json:"location,omitempty"`
	CreatedAt time.Time     `json:"createdAt"`
	Posts     []PostSummary `json:"posts"`
}

func (s *Service) view(ctx context.Context, user *db.User, includeEmail bool) (*View, error) {
	posts, err := s.postRepo.ListByAuthor(ctx, user.ID)
	if err != nil {
		return nil, err
	}

	summaries := make([]PostSummary, 0, len(posts))
	for _, p := range posts {
		media := p.MediaURLs
		if media == nil {
			media = []string{}
		}
		summaries = append(summaries, PostSummary{
			ID:        p.ID,
			Content:   p.Content,
			MediaURLs: media,
			CreatedAt: p.CreatedAt,
		})
	}

	v := &View{
		ID:        user.ID,
		Name:      user.Name,
		Image:     user.Image,
		Bio:       user.Bio,
		Age:       user.Age,
		Gender:    user.Gender,
		Location:  user.Location,
		CreatedAt: user.CreatedAt,
		Posts:     summaries,
	}
	if includeEmail {
		v.Email = user.Email
	}
	return v, nil
}

// Me returns the caller's own profile including email.
func (s *Service) Me(ctx context.Context, userID uint64) (*View, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, err
	}
	return s.view(ctx, user, true)
}

// Get returns another user's public profile.
func (s *Service) Get(ctx context.Context, userID uint64) (*View, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("user not found")
		}
		return nil, err
	}
	return s.view(ctx, user, false)
}

// Edit carries the updatable profile fields. Nil means "leave unchanged".
type Edit struct {
	Name     *string `json:"name"`
	Image    *string `json:"image"`
	Age      *int    `json:"age"`
	Gender   *string `json:"gender"`
	Bio      *string `json:"bio"`
	Location *string `json:"location"`
}

// Update applies a profile edit and marks the caller onboarded.
func (s *Service) Update(ctx context.Context, userID uint64, edit Edit) (*View, error) {
	fields := map[string]any{}
	if edit.Name != nil {
		if *edit.Name == "" {
			return nil, apierr.InvalidRequest("name cannot be empty")
		}
		fields["name"] = *edit.Name
	}
	if edit.Image != nil {
		fields["image"] = *edit.Image
	}
	if edit.Age != nil {
		if *edit.Age < 18 {
			return nil, apierr.InvalidRequest("age must be at least 18")
		}
		fields["age"] = *edit.Age
	}
	if edit.Gender != nil {
		fields["gender"] = *edit.Gender
	}
	if edit.Bio != nil {
		fields["bio"] = *edit.Bio
	}
	if edit.Location != nil {
		fields["location"] = *edit.Location
	}

	user, err := s.userRepo.UpdateProfile(ctx, userID, fields)
	if err != nil {
		s.appCtx.Logger.Error("profile update failed", "user", userID, "err", err)
		return nil, err
	}
	return s.view(ctx, user, true)
}
