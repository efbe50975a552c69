package messaging

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

// maxMessageLength caps a direct message body.
const maxMessageLength = 2000

// Service implements direct messaging inside a match's conversation.
type Service struct {
	appCtx    *app.AppContext
	convRepo  *repository.ConversationRepository
	matchRepo *repository.MatchRepository
	userRepo  *repository.UserRepository
}

// NewService creates a messaging service with dependencies from AppContext.
func NewService(appCtx *app.AppContext) *Service {
	return &Service{
		appCtx:    appCtx,
		convRepo:  repository.NewConversationRepository(appCtx.DB),
		matchRepo: repository.NewMatchRepository(appCtx.DB),
		userRepo:  repository.NewUserRepository(appCtx.DB),
	}
}

// Sender is the message author's public identity.
type Sender struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Image string `json:"image,omitempty"`
}

// MessageView is a message with its sender embedded.
type MessageView struct {
	ID             uint64    `json:"id"`
	ConversationID uint64    `json:"conversationId"`
	Content        string    `json:"content"`
	CreatedAt      time.Time `json:"createdAt"`
	Sender         Sender    `json:"sender"`
}

// memberOf resolves a conversation and verifies the caller belongs to the
// match behind it.
func (s *Service) memberOf(ctx context.Context, userID, conversationID uint64) (*db.Conversation, error) {
	conv, err := s.convRepo.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apierr.NotFound("conversation not found")
		}
		return nil, err
	}

	match, err := s.matchRepo.GetByID(ctx, conv.MatchID)
	if err != nil {
		return nil, err
	}
	if match.UserAID != userID && match.UserBID != userID {
		return nil, apierr.Forbidden("not a member of this conversation")
	}
	return conv, nil
}

// Send appends a message to a conversation the sender belongs to.
//
// Behavior:
//   - Content must be 1..2000 chars after trimming.
//   - Publishes "new-message" on the conversation's channel with the
//     sender's public identity embedded.
func (s *Service) Send(ctx context.Context, senderID, conversationID uint64, content string) (*MessageView, error) {
	if conversationID == 0 {
		return nil, apierr.InvalidRequest("conversationId is required")
	}
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, apierr.InvalidRequest("content is required")
	}
	if len(content) > maxMessageLength {
		return nil, apierr.InvalidRequest("content exceeds 2000 characters")
	}

	conv, err := s.memberOf(ctx, senderID, conversationID)
	if err != nil {
		return nil, err
	}

	sender, err := s.userRepo.GetByID(ctx, senderID)
	if err != nil {
		return nil, err
	}

	msg := &db.Message{ConversationID: conv.ID, SenderID: senderID, Content: content}
	if err := s.convRepo.CreateMessage(ctx, msg); err != nil {
		s.appCtx.Logger.Error("send message failed", "sender", senderID, "conversation", conv.ID, "err", err)
		return nil, err
	}

	view := &MessageView{
		ID:             msg.ID,
		ConversationID: msg.ConversationID,
		Content:        msg.Content,
		CreatedAt:      msg.CreatedAt,
		Sender:         Sender{ID: sender.ID, Name: sender.Name, Image: sender.Image},
	}

	s.appCtx.Notifier.Publish(ctx, notify.ConversationChannel(conv.ID), "new-message", view)

	return view, nil
}

// History returns a conversation's messages in ascending creation order.
// Only members may read it.
func (s *Service) History(ctx context.Context, userID, conversationID uint64) ([]MessageView, error) {
	conv, err := s.memberOf(ctx, userID, conversationID)
	if err != nil {
		return nil, err
	}

	messages, err := s.convRepo.ListMessages(ctx, conv.ID)
	if err != nil {
		return nil, err
	}

	senderIDs := make([]uint64, 0, len(messages))
	for _, m := range messages {
		senderIDs = append(senderIDs, m.SenderID)
	}
	senders, err := s.userRepo.GetManyByIDs(ctx, senderIDs)
	if err != nil {
		return nil, err
	}

	views := make([]MessageView, 0, len(messages))
	for _, m := range messages {
		u := senders[m.SenderID]
		views = append(views, MessageView{
			ID:             m.ID,
			ConversationID: m.ConversationID,
			Content:        m.Content,
			CreatedAt:      m.CreatedAt,
			Sender:         Sender{ID: u.ID, Name: u.Name, Image: u.Image},
		})
	}
	return views, nil
}
