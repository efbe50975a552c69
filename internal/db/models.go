package db

import (
	"time"
)

// User table. Onboarded gates discovery: only onboarded profiles are
// eligible as potential targets.
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement"`
	Name         string `gorm:"size:64;not null"`
	Email        string `gorm:"uniqueIndex;size:128;not null"`
	PasswordHash string `gorm:"size:255;not null"`
	Age          int
	Gender       string `gorm:"size:16"`
	Location     string `gorm:"size:128"`
	Bio          string `gorm:"size:1024"`
	Image        string `gorm:"size:512"`
	Onboarded    bool   `gorm:"default:false"`
	TierID       *uint64
	CreatedAt    time.Time `gorm:"autoCreateTime"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime"`
}

// UserLike is one user's like/dislike verdict on another.
//
// Composite PK: (FromUserID, ToUserID)
//   - A second verdict for the same ordered pair overwrites the first
//     (upsert semantics). The row stays even when Liked is false so that
//     passed users never reappear in discovery.
type UserLike struct {
	FromUserID uint64    `gorm:"primaryKey;index:idx_from_liked,priority:1"`
	ToUserID   uint64    `gorm:"primaryKey"`
	Liked      bool      `gorm:"not null;index:idx_from_liked,priority:2"`
	CreatedAt  time.Time `gorm:"autoCreateTime"`
	UpdatedAt  time.Time `gorm:"autoUpdateTime"`
}

// Match is a confirmed mutual like. The pair is stored canonically with
// UserAID < UserBID, and the unique index on the pair makes a concurrent
// double-create degrade into a duplicate-key error we absorb.
type Match struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserAID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:1"`
	UserBID   uint64    `gorm:"not null;uniqueIndex:idx_match_pair,priority:2"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Post in the feed. MediaURLs empty means text-only.
type Post struct {
	ID        uint64   `gorm:"primaryKey;autoIncrement"`
	AuthorID  uint64   `gorm:"not null;index"`
	Content   string   `gorm:"type:text;not null"`
	MediaURLs []string `gorm:"serializer:json"`
	CreatedAt time.Time `gorm:"autoCreateTime;index:idx_posts_created,sort:desc"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

// Like on a post. Existence is the state: a row means liked, no row means
// not liked. Toggling deletes or creates, never flips a flag.
type Like struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	UserID    uint64    `gorm:"not null;uniqueIndex:idx_like_user_post,priority:1"`
	PostID    uint64    `gorm:"not null;uniqueIndex:idx_like_user_post,priority:2;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Comment on a post. Append-only; the auto-increment ID is the tiebreak
// for comments sharing a CreatedAt.
type Comment struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	PostID    uint64    `gorm:"not null;index"`
	UserID    uint64    `gorm:"not null"`
	Content   string    `gorm:"type:text;not null"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Conversation is the chat thread behind a match, one per match.
type Conversation struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement"`
	MatchID   uint64    `gorm:"not null;uniqueIndex"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// Message in a conversation.
type Message struct {
	ID             uint64    `gorm:"primaryKey;autoIncrement"`
	ConversationID uint64    `gorm:"not null;index"`
	SenderID       uint64    `gorm:"not null"`
	Content        string    `gorm:"size:2000;not null"`
	CreatedAt      time.Time `gorm:"autoCreateTime"`
}

// Tier is a subscription level users can hold. Billing itself happens in
// the external payment collaborator; we only keep the reference.
type Tier struct {
	ID          uint64 `gorm:"primaryKey;autoIncrement"`
	Name        string `gorm:"uniqueIndex;size:32;not null"`
	Price       int    `gorm:"not null"`
	Description string `gorm:"size:255"`
}
