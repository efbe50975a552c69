package repository

import (
	"context"
	"time"

	"github.com/harrygamon/Socials/internal/db"

	"gorm.io/gorm"
)

// CommentRepository provides data access methods for the Comment model.
// Comments are append-only.
type CommentRepository struct {
	db *gorm.DB
}

// NewCommentRepository creates a new repository bound to the given DB connection.
func NewCommentRepository(database *gorm.DB) *CommentRepository {
	return &CommentRepository{db: database}
}

// Create appends a comment.
func (r *CommentRepository) Create(ctx context.Context, comment *db.Comment) error {
	return r.db.WithContext(ctx).Create(comment).Error
}

// ListForPost returns a post's comments in ascending creation order.
// The auto-increment id breaks ties between equal timestamps, keeping
// retrieval order stable.
func (r *CommentRepository) ListForPost(ctx context.Context, postID uint64) ([]db.Comment, error) {
	var comments []db.Comment
	err := r.db.WithContext(ctx).
		Where("post_id = ?", postID).
		Order("created_at ASC, id ASC").
		Find(&comments).Error
	return comments, err
}

// CountForPostSince counts comments created at or after since. Zero since
// means no window.
func (r *CommentRepository) CountForPostSince(ctx context.Context, postID uint64, since time.Time) (int64, error) {
	query := r.db.WithContext(ctx).
		Model(&db.Comment{}).
		Where("post_id = ?", postID)
	if !since.IsZero() {
		query = query.Where("created_at >= ?", since)
	}
	var count int64
	err := query.Count(&count).Error
	return count, err
}
