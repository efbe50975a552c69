package match

import (
	"context"
	"errors"

	"github.com/harrygamon/Socials/internal/app"
	"github.com/harrygamon/Socials/internal/db"
	apierr "github.com/harrygamon/Socials/internal/errors"
	"github.com/harrygamon/Socials/internal/repository"

	"gorm.io/gorm"
)

// potentialPageSize bounds one page of discovery candidates.
const potentialPageSize = 20

// Service implements the match engine: recording like/dislike verdicts,
// detecting mutual interest, and listing potential targets.
type Service struct {
	appCtx       *app.AppContext
	userLikeRepo *repository.UserLikeRepository
	matchRepo    *repository.MatchRepository
	convRepo     *repository.ConversationRepository
	userRepo     *repository.UserRepository
}

// NewService creates a match service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:       appCtx,
		userLikeRepo: repository.NewUserLikeRepository(appCtx.DB),
		matchRepo:    repository.NewMatchRepository(appCtx.DB),
		convRepo:     repository.NewConversationRepository(appCtx.DB),
		userRepo:     repository.NewUserRepository(appCtx.DB),
	}
}

// ActionResult is the outcome of recording a verdict.
type ActionResult struct {
	IsMatch bool `json:"isMatch"`
}

// RecordAction upserts the actor's verdict on the target and, when the
// verdict is positive, checks for mutual interest.
//
// Behavior:
//   - A repeated verdict for the same ordered pair overwrites the prior one.
//   - liked=true + positive reciprocal verdict → a Match is created exactly
//     once per unordered pair; IsMatch is true whether the match was just
//     created or already existed.
//   - liked=false or no/negative reciprocal verdict → IsMatch=false.
//   - A newly created match also opens its conversation.
func (s *Service) RecordAction(ctx context.Context, actorID, targetID uint64, liked bool) (*ActionResult, error) {
	if targetID == 0 {
		return nil, apierr.InvalidRequest("toUserId is required")
	}
	if targetID == actorID {
		return nil, apierr.InvalidRequest("cannot like or dislike yourself")
	}

	if _, err := s.userRepo.GetByID(ctx, targetID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("target user not found")
		}
		return nil, err
	}

	if err := s.userLikeRepo.Upsert(ctx, actorID, targetID, liked); err != nil {
		s.appCtx.Logger.Error("record action: upsert failed", "actor", actorID, "target", targetID, "err", err)
		return nil, err
	}

	if !liked {
		return &ActionResult{IsMatch: false}, nil
	}

	reciprocal, err := s.userLikeRepo.HasLiked(ctx, targetID, actorID)
	if err != nil {
		return nil, err
	}
	if !reciprocal {
		return &ActionResult{IsMatch: false}, nil
	}

	match, created, err := s.matchRepo.CreateIfAbsent(ctx, actorID, targetID)
	if err != nil {
		return nil, err
	}
	if created {
		s.appCtx.Logger.Info("match formed", "userA", match.UserAID, "userB", match.UserBID)
		if _, err := s.convRepo.CreateForMatch(ctx, match.ID); err != nil {
			// the match row is the source of truth; the conversation can
			// be opened lazily on first message
			s.appCtx.Logger.Warn("match formed but conversation create failed", "match", match.ID, "err", err)
		}
	}

	return &ActionResult{IsMatch: true}, nil
}

// PublicProfile is the subset of a user shown to other users.
type PublicProfile struct {
	ID       uint64 `json:"id"`
	Name     string `json:"name"`
	Image    string `json:"image,omitempty"`
	Bio      string `json:"bio,omitempty"`
	Age      int    `json:"age,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Location string `json:"location,omitempty"`
}

func toPublicProfile(u db.User) PublicProfile {
	return PublicProfile{
		ID:       u.ID,
		Name:     u.Name,
		Image:    u.Image,
		Bio:      u.Bio,
		Age:      u.Age,
		Gender:   u.Gender,
		Location: u.Location,
	}
}

// PotentialTargets lists onboarded users the viewer has no verdict on yet.
// Any recorded verdict, liked or passed, removes a target permanently.
func (s *Service) PotentialTargets(ctx context.Context, viewerID uint64) ([]PublicProfile, error) {
	excluded, err := s.userLikeRepo.DecidedUserIDs(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	users, err := s.userRepo.PotentialTargets(ctx, viewerID, excluded, potentialPageSize)
	if err != nil {
		return nil, err
	}

	profiles := make([]PublicProfile, 0, len(users))
	for _, u := range users {
		profiles = append(profiles, toPublicProfile(u))
	}
	return profiles, nil
}

// MatchView is one of the caller's matches with the other user embedded.
type MatchView struct {
	ID             uint64        `json:"id"`
	User           PublicProfile `json:"user"`
	ConversationID uint64        `json:"conversationId,omitempty"`
}

// Matches lists the caller's matches, newest first, each with the other
// member's public profile and the conversation behind it.
func (s *Service) Matches(ctx context.Context, userID uint64) ([]MatchView, error) {
	matches, err := s.matchRepo.ListForUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	otherIDs := make([]uint64, 0, len(matches))
	for _, m := range matches {
		otherIDs = append(otherIDs, otherMember(m, userID))
	}
	users, err := s.userRepo.GetManyByIDs(ctx, otherIDs)
	if err != nil {
		return nil, err
	}

	views := make([]MatchView, 0, len(matches))
	for _, m := range matches {
		view := MatchView{ID: m.ID, User: toPublicProfile(users[otherMember(m, userID)])}
		if conv, err := s.convRepo.GetByMatch(ctx, m.ID); err == nil {
			view.ConversationID = conv.ID
		}
		views = append(views, view)
	}
	return views, nil
}

func otherMember(m db.Match, userID uint64) uint64 {
	if m.UserAID == userID {
		return m.UserBID
	}
	return m.UserAID
}
